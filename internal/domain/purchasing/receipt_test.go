package purchasing_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/purchasing"
)

func newOrder() *entity.PurchaseOrder {
	return &entity.PurchaseOrder{
		ID:     "po-1",
		Status: entity.POStatusConfirmed,
		Items: []entity.PurchaseOrderItem{
			{ID: "item-1", ProductID: "p-1", QuantityOrdered: 100, QuantityReceived: 60},
			{ID: "item-2", ProductID: "p-2", QuantityOrdered: 10},
		},
	}
}

func TestPlanReceipt_Valido(t *testing.T) {
	po := newOrder()
	plan, err := purchasing.PlanReceipt(po, []purchasing.ReceiptLine{
		{PurchaseOrderItemID: "item-1", QuantityReceived: 40},
		{PurchaseOrderItemID: "item-2", QuantityReceived: 0},
	})
	require.NoError(t, err)
	require.Len(t, plan, 1, "las líneas en 0 no generan movimiento")
	assert.Equal(t, purchasing.PlannedReceipt{ItemID: "item-1", ProductID: "p-1", Quantity: 40}, plan[0])
}

func TestPlanReceipt_ExcesoRechazaTodoElLote(t *testing.T) {
	po := newOrder()
	_, err := purchasing.PlanReceipt(po, []purchasing.ReceiptLine{
		{PurchaseOrderItemID: "item-2", QuantityReceived: 5},
		{PurchaseOrderItemID: "item-1", QuantityReceived: 50},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOverReceipt))
	assert.Equal(t, int64(60), po.Items[0].QuantityReceived, "la planificación no modifica la orden")
	assert.Equal(t, int64(0), po.Items[1].QuantityReceived)
}

func TestPlanReceipt_Errores(t *testing.T) {
	po := newOrder()

	_, err := purchasing.PlanReceipt(po, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = purchasing.PlanReceipt(po, []purchasing.ReceiptLine{{PurchaseOrderItemID: "item-1", QuantityReceived: -1}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = purchasing.PlanReceipt(po, []purchasing.ReceiptLine{
		{PurchaseOrderItemID: "item-2", QuantityReceived: 1},
		{PurchaseOrderItemID: "item-2", QuantityReceived: 1},
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "línea repetida")

	_, err = purchasing.PlanReceipt(po, []purchasing.ReceiptLine{{PurchaseOrderItemID: "desconocida", QuantityReceived: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyPlan(t *testing.T) {
	po := newOrder()
	purchasing.ApplyPlan(po, []purchasing.PlannedReceipt{{ItemID: "item-1", ProductID: "p-1", Quantity: 40}})
	assert.Equal(t, int64(100), po.Items[0].QuantityReceived)
	assert.Equal(t, entity.POStatusPartiallyReceived, po.ComputeReceivingStatus())
}
