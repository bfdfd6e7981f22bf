package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

const productMask = "00000000-0000-0000-0000-0000000000b3"

func (f *fixture) adjustProduct(t *testing.T, warehouseID, productID string, delta int64) {
	t.Helper()
	_, err := f.ledger.AdjustStock(context.Background(), inventory.AdjustInput{
		WarehouseID: warehouseID, ProductID: productID, Delta: delta, Reason: "Conteo físico",
	})
	require.NoError(t, err)
}

func TestAlertScanner_ClasificaPorDisponible(t *testing.T) {
	f := newFixture(t)
	f.store.AddProduct(entity.Product{ID: productMask, SKU: "MSK-50", Name: "Tapabocas (caja x50)"})

	f.adjustProduct(t, whA, memory.DemoProductGloves, 5)
	f.adjustProduct(t, whA, memory.DemoProductSyringe, 4)
	f.adjustProduct(t, whA, memory.DemoProductSyringe, -4) // disponible 0
	f.adjustProduct(t, whA, productMask, 11)

	report, err := f.alerts.Scan(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, report.Warehouses, 1)
	group := report.Warehouses[0]
	assert.Equal(t, whA, group.WarehouseID)

	require.Len(t, group.LowStockProducts, 1)
	assert.Equal(t, memory.DemoProductGloves, group.LowStockProducts[0].ProductID)
	assert.Equal(t, int64(5), group.LowStockProducts[0].AvailableQuantity)

	require.Len(t, group.OutOfStockProducts, 1)
	assert.Equal(t, memory.DemoProductSyringe, group.OutOfStockProducts[0].ProductID)

	assert.Equal(t, 1, report.TotalLowStock)
	assert.Equal(t, 1, report.TotalOutOfStock)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestAlertScanner_FiltraPorBodegaYOrdena(t *testing.T) {
	f := newFixture(t)
	f.adjustProduct(t, whA, memory.DemoProductGloves, 9)
	f.adjustProduct(t, whA, memory.DemoProductSyringe, 2)
	f.adjustProduct(t, whB, memory.DemoProductGloves, 1)

	report, err := f.alerts.Scan(context.Background(), whA)
	require.NoError(t, err)
	require.Len(t, report.Warehouses, 1, "solo la bodega pedida")
	low := report.Warehouses[0].LowStockProducts
	require.Len(t, low, 2)
	assert.Equal(t, int64(2), low[0].AvailableQuantity, "el más crítico primero")
	assert.Equal(t, int64(9), low[1].AvailableQuantity)

	all, err := f.alerts.Scan(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all.Warehouses, 2)
	assert.Equal(t, whA, all.Warehouses[0].WarehouseID)
	assert.Equal(t, whB, all.Warehouses[1].WarehouseID)
}

func TestAlertScanner_SinAlertas(t *testing.T) {
	f := newFixture(t)
	f.adjustProduct(t, whA, memory.DemoProductGloves, 100)

	report, err := f.alerts.Scan(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, report.Warehouses)
	assert.Equal(t, 0, report.TotalLowStock+report.TotalOutOfStock)
}
