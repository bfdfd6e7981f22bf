package entity

import "time"

// MovementType tipo de movimiento del libro de inventario.
type MovementType string

const (
	MovementPurchaseOrderReceived MovementType = "purchase_order_received"
	MovementSale                  MovementType = "sale"
	MovementReturn                MovementType = "return"
	MovementAdjustment            MovementType = "adjustment"
	MovementTransferIn            MovementType = "transfer_in"
	MovementTransferOut           MovementType = "transfer_out"
)

// IsValid verifica que el tipo sea uno de los conocidos.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementPurchaseOrderReceived, MovementSale, MovementReturn,
		MovementAdjustment, MovementTransferIn, MovementTransferOut:
		return true
	}
	return false
}

// AllowsSign indica si una cantidad con el signo de delta es coherente con el tipo.
// adjustment acepta ambos signos; sale y transfer_out solo restan; el resto solo suma.
func (t MovementType) AllowsSign(delta int64) bool {
	if delta == 0 {
		return false
	}
	switch t {
	case MovementAdjustment:
		return true
	case MovementSale, MovementTransferOut:
		return delta < 0
	case MovementPurchaseOrderReceived, MovementReturn, MovementTransferIn:
		return delta > 0
	}
	return false
}

// ReferenceType tipo de documento que originó el movimiento.
type ReferenceType string

const (
	ReferencePurchaseOrder ReferenceType = "purchase_order"
	ReferenceOrder         ReferenceType = "order"
	ReferenceTransfer      ReferenceType = "transfer"
	ReferenceAdjustment    ReferenceType = "adjustment"
	ReferenceReturn        ReferenceType = "return"
)

// IsValid verifica que el tipo de referencia sea conocido.
func (t ReferenceType) IsValid() bool {
	switch t {
	case ReferencePurchaseOrder, ReferenceOrder, ReferenceTransfer, ReferenceAdjustment, ReferenceReturn:
		return true
	}
	return false
}

// StockMovement entrada inmutable del libro: un cambio de cantidad con signo.
// La suma de Quantity para un par bodega+producto es igual a StockRecord.Quantity.
type StockMovement struct {
	ID            string
	WarehouseID   string
	ProductID     string
	MovementType  MovementType
	Quantity      int64 // con signo: negativo para salidas
	ReferenceType ReferenceType
	ReferenceID   string
	Reason        string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}
