package purchasing

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye stock, movimientos y órdenes.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// StockAdjuster integra la recepción con el ledger de inventario.
// AdjustInTx usa los repositorios del caller (misma transacción); si retorna error
// el caller debe hacer rollback.
type StockAdjuster interface {
	AdjustInTx(ctx context.Context, repos repository.TxRepos, in inventory.AdjustInput) (*entity.StockRecord, error)
}

// PurchaseOrderPDFGenerator genera el documento imprimible de una orden de compra.
type PurchaseOrderPDFGenerator interface {
	Generate(po *entity.PurchaseOrder, supplier *entity.Supplier, warehouse *entity.Warehouse, productNames map[string]string) ([]byte, error)
}

// References consultas de datos maestros usados por las órdenes.
type References struct {
	Suppliers  repository.SupplierRepository
	Warehouses repository.WarehouseRepository
	Products   repository.ProductRepository
}
