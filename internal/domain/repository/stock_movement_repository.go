package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos.
type MovementFilter struct {
	WarehouseID   string
	ProductID     string
	MovementType  entity.MovementType
	ReferenceType entity.ReferenceType
	ReferenceID   string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// StockMovementRepository puerto de persistencia del libro de movimientos.
// Solo permite agregar: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, int, error)
	// SumQuantity suma con signo todos los movimientos del par bodega+producto.
	SumQuantity(ctx context.Context, warehouseID, productID string) (int64, error)
}
