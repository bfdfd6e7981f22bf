package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL. La tabla rechaza UPDATE/DELETE por trigger.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, warehouse_id, product_id, movement_type, quantity,
			reference_type, reference_id, reason, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.WarehouseID, m.ProductID, string(m.MovementType), m.Quantity,
		nullString(string(m.ReferenceType)), nullString(m.ReferenceID),
		nullString(m.Reason), nullString(m.Notes), nullString(m.CreatedBy), m.CreatedAt,
	)
	return wrapErr("insert movement", err)
}

// movementColumns columnas del historial en el orden que lee List.
const movementColumns = `id, warehouse_id, product_id, movement_type, quantity, reference_type, reference_id,
	reason, notes, created_by, created_at`

// List historial filtrado, del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	lq := listQuery{from: "stock_movements"}
	if f.WarehouseID != "" {
		lq.add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.ProductID != "" {
		lq.add("product_id = $%d", f.ProductID)
	}
	if f.MovementType != "" {
		lq.add("movement_type = $%d", string(f.MovementType))
	}
	if f.ReferenceType != "" {
		lq.add("reference_type = $%d", string(f.ReferenceType))
	}
	if f.ReferenceID != "" {
		lq.add("reference_id = $%d", f.ReferenceID)
	}
	if f.From != nil {
		lq.add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		lq.add("created_at <= $%d", *f.To)
	}
	total, err := lq.count(ctx, r.q)
	if err != nil {
		return nil, 0, wrapErr("count movements", err)
	}

	query, args := lq.pageSQL(movementColumns, "created_at DESC, id", f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var mt string
		var refType, refID, reason, notes, createdBy *string
		if err := rows.Scan(&m.ID, &m.WarehouseID, &m.ProductID, &mt, &m.Quantity, &refType, &refID,
			&reason, &notes, &createdBy, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		m.MovementType = entity.MovementType(mt)
		m.ReferenceType = entity.ReferenceType(derefString(refType))
		m.ReferenceID = derefString(refID)
		m.Reason = derefString(reason)
		m.Notes = derefString(notes)
		m.CreatedBy = derefString(createdBy)
		list = append(list, &m)
	}
	return list, total, rows.Err()
}

// SumQuantity suma con signo los movimientos del par bodega+producto.
func (r *StockMovementRepo) SumQuantity(ctx context.Context, warehouseID, productID string) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0)::bigint FROM stock_movements WHERE warehouse_id = $1 AND product_id = $2`
	var sum int64
	if err := r.q.QueryRow(ctx, query, warehouseID, productID).Scan(&sum); err != nil {
		return 0, wrapErr("sum movements", err)
	}
	return sum, nil
}
