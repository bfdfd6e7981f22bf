package entity

import "github.com/shopspring/decimal"

// PurchaseOrderItem línea de una orden de compra. Pertenece a su orden.
type PurchaseOrderItem struct {
	ID               string
	PurchaseOrderID  string
	ProductID        string
	QuantityOrdered  int64
	QuantityReceived int64
	UnitCost         decimal.Decimal
	TotalCost        decimal.Decimal
}

// Pending cantidad que falta por recibir.
func (i *PurchaseOrderItem) Pending() int64 {
	if p := i.QuantityOrdered - i.QuantityReceived; p > 0 {
		return p
	}
	return 0
}

// IsFullyReceived true si ya se recibió todo lo pedido.
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.QuantityReceived >= i.QuantityOrdered
}
