package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit una sola vez si fn retorna nil; Rollback ante cualquier error.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// References consultas de datos maestros que el motor de inventario necesita validar.
type References struct {
	Warehouses repository.WarehouseRepository
	Products   repository.ProductRepository
}
