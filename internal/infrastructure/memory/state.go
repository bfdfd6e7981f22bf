package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

type stockKey struct {
	warehouseID string
	productID   string
}

// state datos mutables; cada transacción trabaja sobre un clone.
type state struct {
	stock     map[stockKey]entity.StockRecord
	movements []entity.StockMovement
	orders    map[string]entity.PurchaseOrder
	poNumbers map[string]string
}

func newState() *state {
	return &state{
		stock:     make(map[stockKey]entity.StockRecord),
		orders:    make(map[string]entity.PurchaseOrder),
		poNumbers: make(map[string]string),
	}
}

func (st *state) clone() *state {
	c := &state{
		stock:     make(map[stockKey]entity.StockRecord, len(st.stock)),
		movements: append([]entity.StockMovement(nil), st.movements...),
		orders:    make(map[string]entity.PurchaseOrder, len(st.orders)),
		poNumbers: make(map[string]string, len(st.poNumbers)),
	}
	for k, v := range st.stock {
		c.stock[k] = v
	}
	for k, v := range st.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range st.poNumbers {
		c.poNumbers[k] = v
	}
	return c
}

func copyOrder(po entity.PurchaseOrder) entity.PurchaseOrder {
	po.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	return po
}

// ── stock ────────────────────────────────────────────────────────────────────

type stockRepo struct{ st *state }

func (r stockRepo) Get(_ context.Context, warehouseID, productID string) (*entity.StockRecord, error) {
	rec, ok := r.st.stock[stockKey{warehouseID, productID}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r stockRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.StockRecord, error) {
	return r.Get(ctx, warehouseID, productID)
}

func (r stockRepo) Create(_ context.Context, s *entity.StockRecord) error {
	k := stockKey{s.WarehouseID, s.ProductID}
	if _, exists := r.st.stock[k]; exists {
		return fmt.Errorf("%w: stock %s/%s ya existe", domain.ErrConflict, s.WarehouseID, s.ProductID)
	}
	r.st.stock[k] = *s
	return nil
}

func (r stockRepo) Update(_ context.Context, s *entity.StockRecord) error {
	k := stockKey{s.WarehouseID, s.ProductID}
	if _, exists := r.st.stock[k]; !exists {
		return fmt.Errorf("update stock: par %s/%s no existe", s.WarehouseID, s.ProductID)
	}
	r.st.stock[k] = *s
	return nil
}

func (r stockRepo) List(_ context.Context, f repository.StockFilter) ([]*entity.StockRecord, int, error) {
	var matched []*entity.StockRecord
	for _, rec := range r.st.stock {
		if f.WarehouseID != "" && rec.WarehouseID != f.WarehouseID {
			continue
		}
		if f.ProductID != "" && rec.ProductID != f.ProductID {
			continue
		}
		avail := rec.Available()
		if f.OutOfStock && avail > 0 {
			continue
		}
		if !f.OutOfStock && f.LowStock && (avail <= 0 || avail > rec.LowStockThreshold) {
			continue
		}
		matched = append(matched, &rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].WarehouseID != matched[j].WarehouseID {
			return matched[i].WarehouseID < matched[j].WarehouseID
		}
		return matched[i].ProductID < matched[j].ProductID
	})
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}

func (r stockRepo) ListAlertCandidates(_ context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	for _, rec := range r.st.stock {
		if warehouseID != "" && rec.WarehouseID != warehouseID {
			continue
		}
		if rec.Available() > rec.LowStockThreshold {
			continue
		}
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WarehouseID != out[j].WarehouseID {
			return out[i].WarehouseID < out[j].WarehouseID
		}
		if out[i].Available() != out[j].Available() {
			return out[i].Available() < out[j].Available()
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

// ── movimientos ──────────────────────────────────────────────────────────────

type movementRepo struct{ st *state }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.st.movements = append(r.st.movements, *m)
	return nil
}

func (r movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	var matched []*entity.StockMovement
	for i := len(r.st.movements) - 1; i >= 0; i-- {
		m := r.st.movements[i]
		switch {
		case f.WarehouseID != "" && m.WarehouseID != f.WarehouseID,
			f.ProductID != "" && m.ProductID != f.ProductID,
			f.MovementType != "" && m.MovementType != f.MovementType,
			f.ReferenceType != "" && m.ReferenceType != f.ReferenceType,
			f.ReferenceID != "" && m.ReferenceID != f.ReferenceID,
			f.From != nil && m.CreatedAt.Before(*f.From),
			f.To != nil && m.CreatedAt.After(*f.To):
			continue
		}
		matched = append(matched, &m)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}

func (r movementRepo) SumQuantity(_ context.Context, warehouseID, productID string) (int64, error) {
	var sum int64
	for _, m := range r.st.movements {
		if m.WarehouseID == warehouseID && m.ProductID == productID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

// ── órdenes de compra ────────────────────────────────────────────────────────

type orderRepo struct{ st *state }

func (r orderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	if _, exists := r.st.orders[po.ID]; exists {
		return fmt.Errorf("%w: orden %s ya existe", domain.ErrConflict, po.ID)
	}
	if _, exists := r.st.poNumbers[po.PONumber]; exists {
		return fmt.Errorf("%w: número de orden %s duplicado", domain.ErrConflict, po.PONumber)
	}
	r.st.orders[po.ID] = copyOrder(*po)
	r.st.poNumbers[po.PONumber] = po.ID
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	po, ok := r.st.orders[id]
	if !ok {
		return nil, nil
	}
	out := copyOrder(po)
	return &out, nil
}

func (r orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r orderRepo) Update(_ context.Context, po *entity.PurchaseOrder, expectedVersion int64) error {
	stored, ok := r.st.orders[po.ID]
	if !ok || stored.Version != expectedVersion {
		return fmt.Errorf("%w: la orden %s cambió (versión esperada %d)", domain.ErrConflict, po.ID, expectedVersion)
	}
	// La cabecera se escribe; las líneas solo cambian vía UpdateItemReceived/ReplaceItems.
	next := *po
	next.Items = stored.Items
	next.Version = expectedVersion + 1
	r.st.orders[po.ID] = next
	po.Version = next.Version
	return nil
}

func (r orderRepo) UpdateItemReceived(_ context.Context, item *entity.PurchaseOrderItem) error {
	po, ok := r.st.orders[item.PurchaseOrderID]
	if !ok {
		return fmt.Errorf("%w: orden %s", domain.ErrNotFound, item.PurchaseOrderID)
	}
	stored, ok := po.Item(item.ID)
	if !ok {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, item.ID)
	}
	stored.QuantityReceived = item.QuantityReceived
	return nil
}

func (r orderRepo) ReplaceItems(_ context.Context, purchaseOrderID string, items []entity.PurchaseOrderItem) error {
	po, ok := r.st.orders[purchaseOrderID]
	if !ok {
		return fmt.Errorf("%w: orden %s", domain.ErrNotFound, purchaseOrderID)
	}
	po.Items = append([]entity.PurchaseOrderItem(nil), items...)
	r.st.orders[purchaseOrderID] = po
	return nil
}

func (r orderRepo) List(_ context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error) {
	var matched []*entity.PurchaseOrder
	for _, po := range r.st.orders {
		if f.SupplierID != "" && po.SupplierID != f.SupplierID {
			continue
		}
		if f.WarehouseID != "" && po.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Status != "" && po.Status != f.Status {
			continue
		}
		header := po
		header.Items = nil
		matched = append(matched, &header)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
