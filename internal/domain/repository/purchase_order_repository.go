package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// PurchaseOrderFilter filtros para listar órdenes de compra.
type PurchaseOrderFilter struct {
	SupplierID  string
	WarehouseID string
	Status      entity.PurchaseOrderStatus
	Limit       int
	Offset      int
}

// PurchaseOrderRepository puerto de persistencia para órdenes de compra y sus líneas.
type PurchaseOrderRepository interface {
	// Create persiste la cabecera y todas sus líneas.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	// GetByID devuelve la orden con sus líneas, o nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate igual que GetByID pero bloquea la fila de la orden.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// Update escribe la cabecera si la versión almacenada coincide con expectedVersion
	// y la incrementa; si no coincide devuelve domain.ErrConflict.
	Update(ctx context.Context, po *entity.PurchaseOrder, expectedVersion int64) error
	UpdateItemReceived(ctx context.Context, item *entity.PurchaseOrderItem) error
	ReplaceItems(ctx context.Context, purchaseOrderID string, items []entity.PurchaseOrderItem) error
	// List devuelve las cabeceras (sin líneas) y el total de coincidencias.
	List(ctx context.Context, filter PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error)
}
