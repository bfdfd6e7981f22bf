package purchasing

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// PDFUseCase genera el documento imprimible (PDF) de una orden de compra.
type PDFUseCase struct {
	poRepo    repository.PurchaseOrderRepository
	refs      References
	generator PurchaseOrderPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(poRepo repository.PurchaseOrderRepository, refs References, generator PurchaseOrderPDFGenerator) *PDFUseCase {
	return &PDFUseCase{poRepo: poRepo, refs: refs, generator: generator}
}

// Document recupera la orden, su proveedor y bodega y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la orden no existe.
func (uc *PDFUseCase) Document(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar orden con líneas ────────────────────────────────────────────
	po, err := uc.poRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener orden: %w", err)
	}
	if po == nil {
		return nil, "", fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
	}

	// ── 2. Datos maestros (opcionales en el documento) ────────────────────────
	supplier, err := uc.refs.Suppliers.GetByID(ctx, po.SupplierID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener proveedor: %w", err)
	}
	warehouse, err := uc.refs.Warehouses.GetByID(ctx, po.WarehouseID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener bodega: %w", err)
	}

	names := make(map[string]string, len(po.Items))
	for _, it := range po.Items {
		if _, done := names[it.ProductID]; done {
			continue
		}
		p, err := uc.refs.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener producto: %w", err)
		}
		if p != nil {
			names[it.ProductID] = p.SKU + " · " + p.Name
		}
	}

	// ── 3. Generar ────────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.Generate(po, supplier, warehouse, names)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdfBytes, "orden-compra-" + po.PONumber + ".pdf", nil
}
