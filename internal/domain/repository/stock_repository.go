package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockFilter filtros para listar registros de stock.
type StockFilter struct {
	WarehouseID string
	ProductID   string
	LowStock    bool // 0 < disponible ≤ umbral
	OutOfStock  bool // disponible == 0; tiene prioridad sobre LowStock
	Limit       int
	Offset      int
}

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto.
// Las escrituras solo se hacen desde el StockLedger, dentro de una transacción.
type StockRepository interface {
	Get(ctx context.Context, warehouseID, productID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	// Devuelve nil, nil si el par no tiene registro todavía.
	GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.StockRecord, error)
	Create(ctx context.Context, stock *entity.StockRecord) error
	Update(ctx context.Context, stock *entity.StockRecord) error
	List(ctx context.Context, filter StockFilter) ([]*entity.StockRecord, int, error)
	// ListAlertCandidates devuelve los registros con disponible ≤ umbral (warehouseID vacío = todas).
	ListAlertCandidates(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error)
}
