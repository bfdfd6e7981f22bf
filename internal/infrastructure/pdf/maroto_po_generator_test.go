package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1.250.000 XAF", formatMoney(decimal.NewFromInt(1250000), "XAF"))
	assert.Equal(t, "1.234,50 USD", formatMoney(decimal.RequireFromString("1234.5"), "USD"))
	assert.Equal(t, "999 XAF", formatMoney(decimal.NewFromInt(999), "XAF"))
	assert.Equal(t, "-12,00 EUR", formatMoney(decimal.NewFromInt(-12), "EUR"))
}

func TestGenerate_ProducePDF(t *testing.T) {
	po := &entity.PurchaseOrder{
		ID:        "po-1",
		PONumber:  "PO-20250301-ABCDEF12",
		Status:    entity.POStatusConfirmed,
		OrderDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Currency:  "XAF",
		Items: []entity.PurchaseOrderItem{
			{ID: "i1", ProductID: "p-1", QuantityOrdered: 100, QuantityReceived: 60, UnitCost: decimal.NewFromInt(2500)},
		},
	}
	po.RecalculateTotals()

	out, err := NewMarotoPOGenerator().Generate(po, &entity.Supplier{Name: "Proveedor"}, nil, map[string]string{"p-1": "Guantes"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el documento debe iniciar con la firma PDF")
}
