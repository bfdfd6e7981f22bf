package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `id, warehouse_id, product_id, quantity, reserved_quantity,
	low_stock_threshold, last_restocked_at, created_at, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una bodega, o nil si no hay registro.
func (r *StockRepo) Get(ctx context.Context, warehouseID, productID string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM warehouse_stock WHERE warehouse_id = $1 AND product_id = $2`
	s, err := scanStock(r.q.QueryRow(ctx, query, warehouseID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get stock", err)
	}
	return s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM warehouse_stock WHERE warehouse_id = $1 AND product_id = $2 FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, warehouseID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get stock for update", err)
	}
	return s, nil
}

// Create inserta un registro nuevo. Si otra tx creó el mismo par primero, devuelve domain.ErrConflict.
func (r *StockRepo) Create(ctx context.Context, s *entity.StockRecord) error {
	query := `
		INSERT INTO warehouse_stock (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.WarehouseID, s.ProductID, s.Quantity, s.ReservedQuantity,
		s.LowStockThreshold, s.LastRestockedAt, s.CreatedAt, s.UpdatedAt,
	)
	return wrapErr("insert stock", err)
}

// Update escribe cantidades, umbral y fechas del par bodega+producto.
func (r *StockRepo) Update(ctx context.Context, s *entity.StockRecord) error {
	query := `
		UPDATE warehouse_stock
		SET quantity = $3, reserved_quantity = $4, low_stock_threshold = $5,
		    last_restocked_at = $6, updated_at = $7
		WHERE warehouse_id = $1 AND product_id = $2`
	tag, err := r.q.Exec(ctx, query,
		s.WarehouseID, s.ProductID, s.Quantity, s.ReservedQuantity,
		s.LowStockThreshold, s.LastRestockedAt, s.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update stock", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock: par %s/%s no existe", s.WarehouseID, s.ProductID)
	}
	return nil
}

// List lista con filtros y paginación, más el total de coincidencias.
func (r *StockRepo) List(ctx context.Context, f repository.StockFilter) ([]*entity.StockRecord, int, error) {
	lq := listQuery{from: "warehouse_stock"}
	if f.WarehouseID != "" {
		lq.add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.ProductID != "" {
		lq.add("product_id = $%d", f.ProductID)
	}
	switch {
	case f.OutOfStock:
		lq.addRaw("quantity - reserved_quantity <= 0")
	case f.LowStock:
		lq.addRaw("quantity - reserved_quantity > 0 AND quantity - reserved_quantity <= low_stock_threshold")
	}
	total, err := lq.count(ctx, r.q)
	if err != nil {
		return nil, 0, wrapErr("count stock", err)
	}

	query, args := lq.pageSQL(stockColumns, "warehouse_id, product_id", f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list stock", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// ListAlertCandidates registros con disponible ≤ umbral, ordenados por bodega y disponible.
func (r *StockRepo) ListAlertCandidates(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM warehouse_stock
		WHERE quantity - reserved_quantity <= low_stock_threshold`
	var args []any
	if warehouseID != "" {
		query += " AND warehouse_id = $1"
		args = append(args, warehouseID)
	}
	query += " ORDER BY warehouse_id, quantity - reserved_quantity ASC, product_id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list alert candidates", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(&s.ID, &s.WarehouseID, &s.ProductID, &s.Quantity, &s.ReservedQuantity,
		&s.LowStockThreshold, &s.LastRestockedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
