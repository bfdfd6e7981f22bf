// Package purchasing contiene las reglas puras de recepción de órdenes de compra.
package purchasing

import (
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ReceiptLine cantidad entregada por el proveedor para una línea de la orden.
type ReceiptLine struct {
	PurchaseOrderItemID string
	QuantityReceived    int64
}

// PlannedReceipt línea validada lista para aplicar.
type PlannedReceipt struct {
	ItemID    string
	ProductID string
	Quantity  int64
}

// PlanReceipt valida el lote completo contra las líneas de la orden antes de cualquier escritura.
// Si una sola línea falla, el lote entero se rechaza: la recepción es todo o nada.
// Las líneas con cantidad 0 se aceptan pero no generan movimiento.
func PlanReceipt(po *entity.PurchaseOrder, lines []ReceiptLine) ([]PlannedReceipt, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: la recepción no tiene líneas", domain.ErrValidation)
	}
	seen := make(map[string]struct{}, len(lines))
	plan := make([]PlannedReceipt, 0, len(lines))
	for _, l := range lines {
		if l.PurchaseOrderItemID == "" {
			return nil, fmt.Errorf("%w: purchaseOrderItemId requerido", domain.ErrValidation)
		}
		if l.QuantityReceived < 0 {
			return nil, fmt.Errorf("%w: cantidad negativa para la línea %s", domain.ErrValidation, l.PurchaseOrderItemID)
		}
		if _, dup := seen[l.PurchaseOrderItemID]; dup {
			return nil, fmt.Errorf("%w: línea %s repetida en el lote", domain.ErrValidation, l.PurchaseOrderItemID)
		}
		seen[l.PurchaseOrderItemID] = struct{}{}

		item, ok := po.Item(l.PurchaseOrderItemID)
		if !ok {
			return nil, fmt.Errorf("%w: línea %s no pertenece a la orden", domain.ErrNotFound, l.PurchaseOrderItemID)
		}
		if l.QuantityReceived > item.Pending() {
			return nil, fmt.Errorf("%w: línea %s pedido %d, recibido %d, intento %d",
				domain.ErrOverReceipt, item.ID, item.QuantityOrdered, item.QuantityReceived, l.QuantityReceived)
		}
		if l.QuantityReceived == 0 {
			continue
		}
		plan = append(plan, PlannedReceipt{ItemID: item.ID, ProductID: item.ProductID, Quantity: l.QuantityReceived})
	}
	return plan, nil
}

// ApplyPlan suma las cantidades planificadas a las líneas de la orden (en memoria).
func ApplyPlan(po *entity.PurchaseOrder, plan []PlannedReceipt) {
	for _, p := range plan {
		if item, ok := po.Item(p.ItemID); ok {
			item.QuantityReceived += p.Quantity
		}
	}
}
