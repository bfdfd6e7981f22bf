package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const poColumns = `id, po_number, supplier_id, warehouse_id, status, order_date, expected_delivery_date,
	received_date, subtotal, tax_amount, shipping_cost, total_amount, currency, notes,
	created_by, approved_by, received_by, version, created_at, updated_at`

// PurchaseOrderRepo órdenes de compra y líneas sobre PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserta cabecera y líneas. Debe llamarse dentro de una tx para que sea atómico.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `INSERT INTO purchase_orders (` + poColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.PONumber, po.SupplierID, po.WarehouseID, string(po.Status), po.OrderDate,
		po.ExpectedDeliveryDate, po.ReceivedDate, po.Subtotal, po.TaxAmount, po.ShippingCost,
		po.TotalAmount, po.Currency, nullString(po.Notes), nullString(po.CreatedBy),
		nullString(po.ApprovedBy), nullString(po.ReceivedBy), po.Version, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de orden %s duplicado", domain.ErrConflict, po.PONumber)
		}
		return wrapErr("insert purchase order", err)
	}
	return r.insertItems(ctx, po.ID, po.Items)
}

// GetByID devuelve la orden con sus líneas, o nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la fila de la cabecera.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, true)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get purchase order", err)
	}
	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	po.Items = items
	return po, nil
}

// Update guarda la cabecera solo si la versión persistida es expectedVersion; incrementa po.Version.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder, expectedVersion int64) error {
	query := `
		UPDATE purchase_orders
		SET status = $3, expected_delivery_date = $4, received_date = $5, subtotal = $6,
		    tax_amount = $7, shipping_cost = $8, total_amount = $9, currency = $10, notes = $11,
		    approved_by = $12, received_by = $13, updated_at = $14, version = version + 1
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(ctx, query,
		po.ID, expectedVersion, string(po.Status), po.ExpectedDeliveryDate, po.ReceivedDate,
		po.Subtotal, po.TaxAmount, po.ShippingCost, po.TotalAmount, po.Currency,
		nullString(po.Notes), nullString(po.ApprovedBy), nullString(po.ReceivedBy), po.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update purchase order", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: la orden %s cambió (versión esperada %d)", domain.ErrConflict, po.ID, expectedVersion)
	}
	po.Version = expectedVersion + 1
	return nil
}

// UpdateItemReceived persiste quantity_received de una línea.
func (r *PurchaseOrderRepo) UpdateItemReceived(ctx context.Context, item *entity.PurchaseOrderItem) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE purchase_order_items SET quantity_received = $2 WHERE id = $1`,
		item.ID, item.QuantityReceived)
	if err != nil {
		return wrapErr("update purchase order item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, item.ID)
	}
	return nil
}

// ReplaceItems borra las líneas actuales e inserta las nuevas.
func (r *PurchaseOrderRepo) ReplaceItems(ctx context.Context, purchaseOrderID string, items []entity.PurchaseOrderItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_order_items WHERE purchase_order_id = $1`, purchaseOrderID); err != nil {
		return wrapErr("delete purchase order items", err)
	}
	return r.insertItems(ctx, purchaseOrderID, items)
}

// List cabeceras filtradas (sin líneas), más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error) {
	lq := listQuery{from: "purchase_orders"}
	if f.SupplierID != "" {
		lq.add("supplier_id = $%d", f.SupplierID)
	}
	if f.WarehouseID != "" {
		lq.add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.Status != "" {
		lq.add("status = $%d", string(f.Status))
	}
	total, err := lq.count(ctx, r.q)
	if err != nil {
		return nil, 0, wrapErr("count purchase orders", err)
	}

	query, args := lq.pageSQL(poColumns, "created_at DESC, id", f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list purchase orders", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	return list, total, rows.Err()
}

func (r *PurchaseOrderRepo) insertItems(ctx context.Context, poID string, items []entity.PurchaseOrderItem) error {
	query := `
		INSERT INTO purchase_order_items (id, purchase_order_id, product_id, quantity_ordered,
			quantity_received, unit_cost, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, query, it.ID, poID, it.ProductID, it.QuantityOrdered,
			it.QuantityReceived, it.UnitCost, it.TotalCost); err != nil {
			return wrapErr("insert purchase order item", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) listItems(ctx context.Context, poID string) ([]entity.PurchaseOrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, product_id, quantity_ordered, quantity_received, unit_cost, total_cost
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY id`, poID)
	if err != nil {
		return nil, wrapErr("list purchase order items", err)
	}
	defer rows.Close()
	var items []entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.QuantityOrdered,
			&it.QuantityReceived, &it.UnitCost, &it.TotalCost); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// scanPurchaseOrder lee poColumns.
func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var status string
	var notes, createdBy, approvedBy, receivedBy *string
	dest := []any{
		&po.ID, &po.PONumber, &po.SupplierID, &po.WarehouseID, &status, &po.OrderDate,
		&po.ExpectedDeliveryDate, &po.ReceivedDate, &po.Subtotal, &po.TaxAmount, &po.ShippingCost,
		&po.TotalAmount, &po.Currency, &notes, &createdBy, &approvedBy, &receivedBy,
		&po.Version, &po.CreatedAt, &po.UpdatedAt,
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	po.Status = entity.PurchaseOrderStatus(status)
	po.Notes = derefString(notes)
	po.CreatedBy = derefString(createdBy)
	po.ApprovedBy = derefString(approvedBy)
	po.ReceivedBy = derefString(receivedBy)
	return &po, nil
}
