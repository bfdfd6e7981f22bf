package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ProductRepository consulta de productos del catálogo (solo lectura).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}

// SupplierRepository consulta de proveedores (solo lectura).
type SupplierRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
}
