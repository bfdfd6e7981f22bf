package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseOrderStatus_TransicionesPermitidas(t *testing.T) {
	allowed := map[entity.PurchaseOrderStatus][]entity.PurchaseOrderStatus{
		entity.POStatusDraft:             {entity.POStatusSubmitted, entity.POStatusCancelled},
		entity.POStatusSubmitted:         {entity.POStatusConfirmed, entity.POStatusCancelled},
		entity.POStatusConfirmed:         {entity.POStatusPartiallyReceived, entity.POStatusReceived, entity.POStatusCancelled},
		entity.POStatusPartiallyReceived: {entity.POStatusPartiallyReceived, entity.POStatusReceived},
		entity.POStatusReceived:          {},
		entity.POStatusCancelled:         {},
	}
	all := []entity.PurchaseOrderStatus{
		entity.POStatusDraft, entity.POStatusSubmitted, entity.POStatusConfirmed,
		entity.POStatusPartiallyReceived, entity.POStatusReceived, entity.POStatusCancelled,
	}
	for from, targets := range allowed {
		for _, to := range all {
			want := false
			for _, ok := range targets {
				if ok == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s → %s", from, to)
		}
	}
}

func TestPurchaseOrderStatus_ReceivedNoSeCancela(t *testing.T) {
	assert.False(t, entity.POStatusReceived.CanCancel())
	assert.False(t, entity.POStatusCancelled.CanCancel())
	assert.False(t, entity.POStatusPartiallyReceived.CanCancel())
	assert.True(t, entity.POStatusConfirmed.CanCancel())
}

func TestPurchaseOrderStatus_LineasCongeladasTrasEnvio(t *testing.T) {
	assert.True(t, entity.POStatusDraft.CanEditItems())
	assert.False(t, entity.POStatusSubmitted.CanEditItems())
	assert.True(t, entity.POStatusSubmitted.CanEditHeader())
	assert.False(t, entity.POStatusConfirmed.CanEditHeader())
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales y estado derivado
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseOrder_RecalculateTotals(t *testing.T) {
	po := &entity.PurchaseOrder{
		TaxAmount:    decimal.RequireFromString("19.50"),
		ShippingCost: decimal.RequireFromString("5"),
		Items: []entity.PurchaseOrderItem{
			{QuantityOrdered: 10, UnitCost: decimal.RequireFromString("2.50")},
			{QuantityOrdered: 3, UnitCost: decimal.RequireFromString("100")},
		},
	}
	po.RecalculateTotals()

	assert.True(t, decimal.RequireFromString("325").Equal(po.Subtotal), "subtotal=%s", po.Subtotal)
	assert.True(t, decimal.RequireFromString("349.50").Equal(po.TotalAmount), "total=%s", po.TotalAmount)
	assert.True(t, decimal.RequireFromString("25").Equal(po.Items[0].TotalCost))
}

func TestPurchaseOrder_ComputeReceivingStatus(t *testing.T) {
	po := &entity.PurchaseOrder{
		Status: entity.POStatusConfirmed,
		Items: []entity.PurchaseOrderItem{
			{ID: "a", QuantityOrdered: 100},
			{ID: "b", QuantityOrdered: 5},
		},
	}
	assert.Equal(t, entity.POStatusConfirmed, po.ComputeReceivingStatus(), "sin recepciones no cambia")

	po.Items[0].QuantityReceived = 60
	assert.Equal(t, entity.POStatusPartiallyReceived, po.ComputeReceivingStatus())

	po.Items[0].QuantityReceived = 100
	assert.Equal(t, entity.POStatusPartiallyReceived, po.ComputeReceivingStatus(), "falta la línea b")

	po.Items[1].QuantityReceived = 5
	assert.Equal(t, entity.POStatusReceived, po.ComputeReceivingStatus())
}

func TestPurchaseOrderItem_Pending(t *testing.T) {
	item := entity.PurchaseOrderItem{QuantityOrdered: 100, QuantityReceived: 60}
	assert.Equal(t, int64(40), item.Pending())
	assert.False(t, item.IsFullyReceived())
}
