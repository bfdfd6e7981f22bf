package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado del ciclo de vida de una orden de compra.
type PurchaseOrderStatus string

const (
	POStatusDraft             PurchaseOrderStatus = "draft"
	POStatusSubmitted         PurchaseOrderStatus = "submitted"
	POStatusConfirmed         PurchaseOrderStatus = "confirmed"
	POStatusPartiallyReceived PurchaseOrderStatus = "partially_received"
	POStatusReceived          PurchaseOrderStatus = "received"
	POStatusCancelled         PurchaseOrderStatus = "cancelled"
)

// DefaultCurrency moneda usada cuando la orden no especifica una.
const DefaultCurrency = "XAF"

// IsValid verifica que el estado sea conocido.
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case POStatusDraft, POStatusSubmitted, POStatusConfirmed,
		POStatusPartiallyReceived, POStatusReceived, POStatusCancelled:
		return true
	}
	return false
}

// String devuelve el valor textual del estado.
func (s PurchaseOrderStatus) String() string { return string(s) }

// CanTransitionTo verifica si el estado puede avanzar a target.
// El avance es monótono; cancelled es la única salida explícita.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case POStatusDraft:
		return target == POStatusSubmitted || target == POStatusCancelled
	case POStatusSubmitted:
		return target == POStatusConfirmed || target == POStatusCancelled
	case POStatusConfirmed:
		return target == POStatusPartiallyReceived || target == POStatusReceived || target == POStatusCancelled
	case POStatusPartiallyReceived:
		return target == POStatusPartiallyReceived || target == POStatusReceived
	}
	return false // received y cancelled son terminales
}

// CanReceive indica si se permite registrar recepciones.
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == POStatusConfirmed || s == POStatusPartiallyReceived
}

// CanCancel indica si la orden aún puede cancelarse.
func (s PurchaseOrderStatus) CanCancel() bool {
	return s == POStatusDraft || s == POStatusSubmitted || s == POStatusConfirmed
}

// CanEditItems solo en borrador: al enviarse las líneas quedan congeladas.
func (s PurchaseOrderStatus) CanEditItems() bool {
	return s == POStatusDraft
}

// CanEditHeader permite cambiar fechas, impuestos, envío y notas antes de la confirmación.
func (s PurchaseOrderStatus) CanEditHeader() bool {
	return s == POStatusDraft || s == POStatusSubmitted
}

// PurchaseOrder orden de compra a proveedor con destino en una bodega.
type PurchaseOrder struct {
	ID                   string
	PONumber             string
	SupplierID           string
	WarehouseID          string
	Status               PurchaseOrderStatus
	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	ReceivedDate         *time.Time
	Subtotal             decimal.Decimal
	TaxAmount            decimal.Decimal
	ShippingCost         decimal.Decimal
	TotalAmount          decimal.Decimal
	Currency             string
	Notes                string
	CreatedBy            string
	ApprovedBy           string
	ReceivedBy           string
	Version              int64 // se incrementa en cada escritura (control optimista)
	CreatedAt            time.Time
	UpdatedAt            time.Time
	Items                []PurchaseOrderItem
}

// RecalculateTotals recalcula subtotal (Σ cantidad × costo) y total (subtotal + impuestos + envío).
func (po *PurchaseOrder) RecalculateTotals() {
	subtotal := decimal.Zero
	for i := range po.Items {
		po.Items[i].TotalCost = po.Items[i].UnitCost.Mul(decimal.NewFromInt(po.Items[i].QuantityOrdered))
		subtotal = subtotal.Add(po.Items[i].TotalCost)
	}
	po.Subtotal = subtotal
	po.TotalAmount = subtotal.Add(po.TaxAmount).Add(po.ShippingCost)
}

// Item busca una línea por ID.
func (po *PurchaseOrder) Item(itemID string) (*PurchaseOrderItem, bool) {
	for i := range po.Items {
		if po.Items[i].ID == itemID {
			return &po.Items[i], true
		}
	}
	return nil, false
}

// ComputeReceivingStatus deriva el estado a partir de lo recibido en las líneas:
// received si todas están completas, partially_received si hay algo recibido, si no el actual.
func (po *PurchaseOrder) ComputeReceivingStatus() PurchaseOrderStatus {
	if len(po.Items) == 0 {
		return po.Status
	}
	allReceived, anyReceived := true, false
	for i := range po.Items {
		if !po.Items[i].IsFullyReceived() {
			allReceived = false
		}
		if po.Items[i].QuantityReceived > 0 {
			anyReceived = true
		}
	}
	switch {
	case allReceived:
		return POStatusReceived
	case anyReceived:
		return POStatusPartiallyReceived
	}
	return po.Status
}
