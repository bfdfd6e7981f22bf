package purchasing_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

var poNumberPattern = regexp.MustCompile(`^PO-\d{8}-[0-9A-F]{8}$`)

func TestCreate_CalculaTotalesYNumera(t *testing.T) {
	f := newFixture(t)
	tax := decimal.RequireFromString("19.50")
	shipping := decimal.RequireFromString("5")
	po, err := f.orders.Create(context.Background(), userID, dto.CreatePurchaseOrderRequest{
		SupplierID:   memory.DemoSupplier,
		WarehouseID:  memory.DemoWarehouseMain,
		TaxAmount:    &tax,
		ShippingCost: &shipping,
		Items: []dto.PurchaseOrderItemRequest{
			line(memory.DemoProductGloves, 10, "12.50"),
			line(memory.DemoProductSyringe, 40, "5"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.POStatusDraft), po.Status)
	assert.Regexp(t, poNumberPattern, po.PONumber)
	assert.Equal(t, entity.DefaultCurrency, po.Currency, "sin moneda explícita se usa la por defecto")
	assert.Equal(t, int64(1), po.Version)
	assert.Equal(t, userID, po.CreatedBy)
	assert.True(t, decimal.RequireFromString("325").Equal(po.Subtotal), "subtotal 10×12.50 + 40×5")
	assert.True(t, decimal.RequireFromString("349.50").Equal(po.TotalAmount), "total = subtotal + impuesto + envío")
	require.Len(t, po.Items, 2)
	assert.Equal(t, int64(10), po.Items[0].QuantityPending)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	negative := decimal.NewFromInt(-1)

	cases := []struct {
		name string
		in   dto.CreatePurchaseOrderRequest
		want error
	}{
		{"sin proveedor", dto.CreatePurchaseOrderRequest{WarehouseID: memory.DemoWarehouseMain}, domain.ErrValidation},
		{"proveedor inexistente", dto.CreatePurchaseOrderRequest{SupplierID: "nope", WarehouseID: memory.DemoWarehouseMain}, domain.ErrNotFound},
		{"bodega inexistente", dto.CreatePurchaseOrderRequest{SupplierID: memory.DemoSupplier, WarehouseID: "nope"}, domain.ErrNotFound},
		{"impuesto negativo", dto.CreatePurchaseOrderRequest{SupplierID: memory.DemoSupplier, WarehouseID: memory.DemoWarehouseMain, TaxAmount: &negative}, domain.ErrValidation},
		{"cantidad cero", dto.CreatePurchaseOrderRequest{SupplierID: memory.DemoSupplier, WarehouseID: memory.DemoWarehouseMain,
			Items: []dto.PurchaseOrderItemRequest{line(memory.DemoProductGloves, 0, "1")}}, domain.ErrValidation},
		{"costo negativo", dto.CreatePurchaseOrderRequest{SupplierID: memory.DemoSupplier, WarehouseID: memory.DemoWarehouseMain,
			Items: []dto.PurchaseOrderItemRequest{line(memory.DemoProductGloves, 1, "-2")}}, domain.ErrValidation},
		{"producto inexistente", dto.CreatePurchaseOrderRequest{SupplierID: memory.DemoSupplier, WarehouseID: memory.DemoWarehouseMain,
			Items: []dto.PurchaseOrderItemRequest{line("nope", 1, "1")}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.Create(ctx, userID, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreate_ProveedorInactivo(t *testing.T) {
	f := newFixture(t)
	f.store.AddSupplier(entity.Supplier{ID: "sup-off", Name: "Retirado", IsActive: false})
	_, err := f.orders.Create(context.Background(), userID, dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-off", WarehouseID: memory.DemoWarehouseMain,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateHeader_RecalculaYVersiona(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.draft(t, line(memory.DemoProductGloves, 4, "10"))

	shipping := decimal.RequireFromString("7.25")
	currency := "usd"
	notes := "Entregar en muelle 2"
	out, err := f.orders.UpdateHeader(ctx, po.ID, dto.UpdatePurchaseOrderRequest{
		ShippingCost: &shipping, Currency: &currency, Notes: &notes,
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("47.25").Equal(out.TotalAmount))
	assert.Equal(t, "USD", out.Currency)
	assert.Equal(t, notes, out.Notes)
	assert.Equal(t, po.Version+1, out.Version, "cada escritura incrementa la versión")

	got, err := f.orders.Get(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Version, got.Version)
}

func TestUpdateHeader_RechazadoTrasConfirmar(t *testing.T) {
	f := newFixture(t)
	po := f.confirmed(t, line(memory.DemoProductGloves, 1, "1"))
	notes := "tarde"
	_, err := f.orders.UpdateHeader(context.Background(), po.ID, dto.UpdatePurchaseOrderRequest{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReplaceItems_SoloEnBorrador(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.draft(t, line(memory.DemoProductGloves, 1, "1"))

	out, err := f.orders.ReplaceItems(ctx, po.ID, dto.ReplaceItemsRequest{Items: []dto.PurchaseOrderItemRequest{
		line(memory.DemoProductSyringe, 3, "2"),
		line(memory.DemoProductGloves, 2, "1.5"),
	}})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.True(t, decimal.RequireFromString("9").Equal(out.Subtotal))

	got, err := f.orders.Get(ctx, po.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2, "las líneas nuevas quedan persistidas")

	_, err = f.machine.Submit(ctx, po.ID, userID)
	require.NoError(t, err)
	_, err = f.orders.ReplaceItems(ctx, po.ID, dto.ReplaceItemsRequest{Items: []dto.PurchaseOrderItemRequest{
		line(memory.DemoProductGloves, 1, "1"),
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "tras el envío las líneas quedan congeladas")
}

func TestGet_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.Get(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.draft(t, line(memory.DemoProductGloves, 1, "1"))
	f.confirmed(t, line(memory.DemoProductGloves, 1, "1"))

	drafts, err := f.orders.List(ctx, dto.PurchaseOrderQuery{Status: string(entity.POStatusDraft)})
	require.NoError(t, err)
	assert.Equal(t, 1, drafts.Page.Total)

	all, err := f.orders.List(ctx, dto.PurchaseOrderQuery{SupplierID: memory.DemoSupplier})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)

	_, err = f.orders.List(ctx, dto.PurchaseOrderQuery{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
