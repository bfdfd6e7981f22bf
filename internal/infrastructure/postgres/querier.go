package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier subconjunto común de *pgxpool.Pool y pgx.Tx: los repos funcionan con cualquiera.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// listQuery filtros de una consulta paginada. El total se cuenta en una consulta
// aparte para que una página fuera de rango devuelva el total real.
type listQuery struct {
	from  string
	where []string
	args  []any
}

// add agrega una condición; cond lleva un %d para el número de parámetro.
func (lq *listQuery) add(cond string, v any) {
	lq.args = append(lq.args, v)
	lq.where = append(lq.where, fmt.Sprintf(cond, len(lq.args)))
}

// addRaw agrega una condición sin parámetros.
func (lq *listQuery) addRaw(cond string) {
	lq.where = append(lq.where, cond)
}

func (lq *listQuery) whereSQL() string {
	if len(lq.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(lq.where, " AND ")
}

func (lq *listQuery) countSQL() string {
	return "SELECT COUNT(*) FROM " + lq.from + lq.whereSQL()
}

func (lq *listQuery) pageSQL(columns, orderBy string, limit, offset int) (string, []any) {
	n := len(lq.args)
	sql := "SELECT " + columns + " FROM " + lq.from + lq.whereSQL() +
		fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", orderBy, n+1, n+2)
	args := append(append([]any(nil), lq.args...), limit, offset)
	return sql, args
}

func (lq *listQuery) count(ctx context.Context, q Querier) (int, error) {
	var total int
	if err := q.QueryRow(ctx, lq.countSQL(), lq.args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
