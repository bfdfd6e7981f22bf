package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domainpo "github.com/jhoicas/stock-ledger-api/internal/domain/purchasing"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// receiptReason motivo registrado en cada movimiento de recepción.
const receiptReason = "Recepción de orden de compra"

// ReceivingReconciler aplica una entrega del proveedor a la orden y al stock.
type ReceivingReconciler struct {
	stock StockAdjuster
}

// NewReceivingReconciler construye el reconciliador sobre el ledger de inventario.
func NewReceivingReconciler(stock StockAdjuster) *ReceivingReconciler {
	return &ReceivingReconciler{stock: stock}
}

// ReceiveInTx valida el lote completo antes de escribir. Si alguna línea excede lo
// pendiente no se toca nada. Cada línea con cantidad > 0 suma stock en la bodega
// destino y actualiza la línea; luego se recalcula el estado de la orden.
// po debe venir bloqueada por el caller.
func (r *ReceivingReconciler) ReceiveInTx(
	ctx context.Context,
	repos repository.TxRepos,
	po *entity.PurchaseOrder,
	userID string,
	lines []dto.ReceiveItemRequest,
) error {
	if !po.Status.CanReceive() {
		return fmt.Errorf("%w: no se puede recibir una orden en estado %s", domain.ErrInvalidTransition, po.Status)
	}
	batch := make([]domainpo.ReceiptLine, 0, len(lines))
	for _, l := range lines {
		batch = append(batch, domainpo.ReceiptLine{PurchaseOrderItemID: l.PurchaseOrderItemID, QuantityReceived: l.QuantityReceived})
	}
	plan, err := domainpo.PlanReceipt(po, batch)
	if err != nil {
		return err
	}

	for _, p := range plan {
		_, err := r.stock.AdjustInTx(ctx, repos, inventory.AdjustInput{
			WarehouseID:   po.WarehouseID,
			ProductID:     p.ProductID,
			Delta:         p.Quantity,
			MovementType:  entity.MovementPurchaseOrderReceived,
			ReferenceType: entity.ReferencePurchaseOrder,
			ReferenceID:   po.ID,
			Reason:        receiptReason + " " + po.PONumber,
			UserID:        userID,
		})
		if err != nil {
			return err
		}
	}
	domainpo.ApplyPlan(po, plan)
	for _, p := range plan {
		item, _ := po.Item(p.ItemID)
		if err := repos.PurchaseOrders().UpdateItemReceived(ctx, item); err != nil {
			return err
		}
	}

	next := po.ComputeReceivingStatus()
	if next != po.Status {
		if !po.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, po.Status, next)
		}
		po.Status = next
	}
	if po.Status == entity.POStatusReceived && po.ReceivedDate == nil {
		now := time.Now().UTC()
		po.ReceivedDate = &now
	}
	if len(plan) > 0 {
		po.ReceivedBy = userID
	}
	return nil
}
