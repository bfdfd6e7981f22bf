package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

func TestStockRecord_AvailableDescuentaReservado(t *testing.T) {
	s := &entity.StockRecord{Quantity: 100, ReservedQuantity: 10}
	assert.Equal(t, int64(90), s.Available())
}

func TestStockRecord_CanApplyRespetaReservado(t *testing.T) {
	s := &entity.StockRecord{Quantity: 100, ReservedQuantity: 10}

	assert.True(t, s.CanApply(-20), "100-20=80 sigue cubriendo las 10 reservadas")
	assert.True(t, s.CanApply(-90), "puede bajar hasta exactamente lo reservado")
	assert.False(t, s.CanApply(-91), "no puede quedar por debajo de lo reservado")
	assert.False(t, s.CanApply(-101), "nunca negativo")
}

func TestStockRecord_CanReserve(t *testing.T) {
	s := &entity.StockRecord{Quantity: 20, ReservedQuantity: 5}

	assert.True(t, s.CanReserve(15))
	assert.False(t, s.CanReserve(16), "reservado no puede superar quantity")
	assert.True(t, s.CanReserve(-5))
	assert.False(t, s.CanReserve(-6), "reservado no puede ser negativo")
}

func TestStockRecord_ApplyPositivoMarcaReposicion(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := entity.NewStockRecord("s1", "wh-1", "p-1", now)
	require.Nil(t, s.LastRestockedAt)
	assert.Equal(t, entity.DefaultLowStockThreshold, s.LowStockThreshold)

	s.Apply(5, now)
	require.NotNil(t, s.LastRestockedAt)
	assert.Equal(t, now, *s.LastRestockedAt)

	later := now.Add(time.Hour)
	s.Apply(-2, later)
	assert.Equal(t, now, *s.LastRestockedAt, "una salida no cambia la fecha de reposición")
	assert.Equal(t, int64(3), s.Quantity)
}

func TestMovementType_AllowsSign(t *testing.T) {
	cases := []struct {
		mt    entity.MovementType
		delta int64
		ok    bool
	}{
		{entity.MovementAdjustment, -5, true},
		{entity.MovementAdjustment, 5, true},
		{entity.MovementAdjustment, 0, false},
		{entity.MovementSale, -1, true},
		{entity.MovementSale, 1, false},
		{entity.MovementTransferOut, -1, true},
		{entity.MovementTransferIn, 1, true},
		{entity.MovementTransferIn, -1, false},
		{entity.MovementPurchaseOrderReceived, 3, true},
		{entity.MovementPurchaseOrderReceived, -3, false},
		{entity.MovementReturn, 2, true},
		{entity.MovementType("otro"), 2, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.mt.AllowsSign(c.delta), "%s con %d", c.mt, c.delta)
	}
}
