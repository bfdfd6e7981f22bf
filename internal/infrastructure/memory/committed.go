package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Repositorios sobre el estado confirmado: lecturas con RLock, escrituras rechazadas.

type committedStock struct{ s *Store }

func (c *committedStock) view() stockRepo {
	return stockRepo{st: c.s.committed}
}

func (c *committedStock) Get(ctx context.Context, warehouseID, productID string) (*entity.StockRecord, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return c.view().Get(ctx, warehouseID, productID)
}

func (c *committedStock) GetForUpdate(context.Context, string, string) (*entity.StockRecord, error) {
	return nil, errReadOnly
}

func (c *committedStock) Create(context.Context, *entity.StockRecord) error { return errReadOnly }
func (c *committedStock) Update(context.Context, *entity.StockRecord) error { return errReadOnly }

func (c *committedStock) List(ctx context.Context, f repository.StockFilter) ([]*entity.StockRecord, int, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return c.view().List(ctx, f)
}

func (c *committedStock) ListAlertCandidates(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return c.view().ListAlertCandidates(ctx, warehouseID)
}

type committedMovements struct{ s *Store }

func (c *committedMovements) Create(context.Context, *entity.StockMovement) error { return errReadOnly }

func (c *committedMovements) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return movementRepo{st: c.s.committed}.List(ctx, f)
}

func (c *committedMovements) SumQuantity(ctx context.Context, warehouseID, productID string) (int64, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return movementRepo{st: c.s.committed}.SumQuantity(ctx, warehouseID, productID)
}

type committedOrders struct{ s *Store }

func (c *committedOrders) Create(context.Context, *entity.PurchaseOrder) error { return errReadOnly }

func (c *committedOrders) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return orderRepo{st: c.s.committed}.GetByID(ctx, id)
}

func (c *committedOrders) GetForUpdate(context.Context, string) (*entity.PurchaseOrder, error) {
	return nil, errReadOnly
}

func (c *committedOrders) Update(context.Context, *entity.PurchaseOrder, int64) error {
	return errReadOnly
}

func (c *committedOrders) UpdateItemReceived(context.Context, *entity.PurchaseOrderItem) error {
	return errReadOnly
}

func (c *committedOrders) ReplaceItems(context.Context, string, []entity.PurchaseOrderItem) error {
	return errReadOnly
}

func (c *committedOrders) List(ctx context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return orderRepo{st: c.s.committed}.List(ctx, f)
}
