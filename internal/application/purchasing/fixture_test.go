package purchasing_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

const (
	userID     = "00000000-0000-0000-0000-000000000001"
	approverID = "00000000-0000-0000-0000-000000000009"
)

type fixture struct {
	store    *memory.Store
	ledger   *inventory.StockLedger
	recorder *inventory.MovementRecorder
	orders   *purchasing.PurchaseOrderUseCase
	machine  *purchasing.PurchaseOrderStateMachine
	refs     purchasing.References
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedDemo()
	log := zerolog.Nop()
	recorder := inventory.NewMovementRecorder(store.Movements())
	ledger := inventory.NewStockLedger(store, store.Stock(), store.Movements(), inventory.References{
		Warehouses: store.Warehouses(),
		Products:   store.Products(),
	}, recorder, log)
	refs := purchasing.References{Suppliers: store.Suppliers(), Warehouses: store.Warehouses(), Products: store.Products()}
	return &fixture{
		store:    store,
		ledger:   ledger,
		recorder: recorder,
		orders:   purchasing.NewPurchaseOrderUseCase(store, store.PurchaseOrders(), refs, "", log),
		machine:  purchasing.NewPurchaseOrderStateMachine(store, purchasing.NewReceivingReconciler(ledger), log),
		refs:     refs,
	}
}

func line(productID string, qty int64, unitCost string) dto.PurchaseOrderItemRequest {
	return dto.PurchaseOrderItemRequest{ProductID: productID, QuantityOrdered: qty, UnitCost: decimal.RequireFromString(unitCost)}
}

// draft crea un borrador hacia la bodega principal con las líneas dadas.
func (f *fixture) draft(t *testing.T, items ...dto.PurchaseOrderItemRequest) *dto.PurchaseOrderResponse {
	t.Helper()
	po, err := f.orders.Create(context.Background(), userID, dto.CreatePurchaseOrderRequest{
		SupplierID:  memory.DemoSupplier,
		WarehouseID: memory.DemoWarehouseMain,
		Items:       items,
	})
	require.NoError(t, err)
	return po
}

// confirmed crea una orden y la lleva hasta confirmed.
func (f *fixture) confirmed(t *testing.T, items ...dto.PurchaseOrderItemRequest) *dto.PurchaseOrderResponse {
	t.Helper()
	ctx := context.Background()
	po := f.draft(t, items...)
	_, err := f.machine.Submit(ctx, po.ID, userID)
	require.NoError(t, err)
	po, err = f.machine.Confirm(ctx, po.ID, approverID)
	require.NoError(t, err)
	return po
}

func (f *fixture) stockQty(t *testing.T, productID string) int64 {
	t.Helper()
	rec, err := f.store.Stock().Get(context.Background(), memory.DemoWarehouseMain, productID)
	require.NoError(t, err)
	if rec == nil {
		return 0
	}
	return rec.Quantity
}

func receive(itemID string, qty int64) dto.ReceivePurchaseOrderRequest {
	return dto.ReceivePurchaseOrderRequest{Items: []dto.ReceiveItemRequest{{PurchaseOrderItemID: itemID, QuantityReceived: qty}}}
}
