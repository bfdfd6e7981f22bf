package purchasing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

func TestStateMachine_FlujoFeliz(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.draft(t, line(memory.DemoProductGloves, 5, "1"))

	out, err := f.machine.Submit(ctx, po.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusSubmitted), out.Status)

	out, err = f.machine.Confirm(ctx, po.ID, approverID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusConfirmed), out.Status)
	assert.Equal(t, approverID, out.ApprovedBy)
	assert.Equal(t, int64(3), out.Version)
}

func TestStateMachine_SubmitSinLineas(t *testing.T) {
	f := newFixture(t)
	po := f.draft(t)
	_, err := f.machine.Submit(context.Background(), po.ID, userID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.orders.Get(context.Background(), po.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusDraft), got.Status, "el rechazo no cambia el estado")
}

func TestStateMachine_TransicionesInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.draft(t, line(memory.DemoProductGloves, 5, "1"))

	_, err := f.machine.Confirm(ctx, po.ID, approverID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "draft no pasa directo a confirmed")

	_, err = f.machine.Receive(ctx, po.ID, userID, receive(po.Items[0].ID, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "no se recibe un borrador")

	_, err = f.machine.Submit(ctx, "no-existe", userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStateMachine_CancelarDesdeCadaEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.draft(t, line(memory.DemoProductGloves, 5, "1"))
	out, err := f.machine.Cancel(ctx, draft.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusCancelled), out.Status)

	_, err = f.machine.Submit(ctx, draft.ID, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "cancelled es terminal")

	confirmed := f.confirmed(t, line(memory.DemoProductGloves, 5, "1"))
	_, err = f.machine.Cancel(ctx, confirmed.ID, userID)
	require.NoError(t, err, "una orden confirmada sin recepciones se puede cancelar")

	partial := f.confirmed(t, line(memory.DemoProductGloves, 5, "1"))
	_, err = f.machine.Receive(ctx, partial.ID, userID, receive(partial.Items[0].ID, 2))
	require.NoError(t, err)
	_, err = f.machine.Cancel(ctx, partial.ID, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "con stock recibido no se cancela")
	assert.Equal(t, int64(2), f.stockQty(t, memory.DemoProductGloves), "el stock recibido permanece")

	full := f.confirmed(t, line(memory.DemoProductSyringe, 1, "1"))
	_, err = f.machine.Receive(ctx, full.ID, userID, receive(full.Items[0].ID, 1))
	require.NoError(t, err)
	_, err = f.machine.Cancel(ctx, full.ID, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "una orden recibida nunca se cancela")
}

func TestStateMachine_ConfirmacionesConcurrentes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.draft(t, line(memory.DemoProductGloves, 5, "1"))
	_, err := f.machine.Submit(ctx, po.ID, userID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var oks, invalid int
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.machine.Confirm(ctx, po.ID, approverID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				oks++
			case assert.ErrorIs(t, err, domain.ErrInvalidTransition):
				invalid++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, oks, "solo una confirmación aplica")
	assert.Equal(t, 9, invalid)
}

func TestReceive_EntregasConcurrentesNoExcedenLoPedido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.confirmed(t, line(memory.DemoProductGloves, 100, "1"))
	itemID := po.Items[0].ID

	var wg sync.WaitGroup
	var mu sync.Mutex
	var oks, rejected int
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.machine.Receive(ctx, po.ID, userID, receive(itemID, 30))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				oks++
			case errors.Is(err, domain.ErrOverReceipt), errors.Is(err, domain.ErrInvalidTransition):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, oks, "solo caben tres entregas de 30 en 100")
	assert.Equal(t, 5, rejected)

	got, err := f.orders.Get(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(90), got.Items[0].QuantityReceived)
	assert.Equal(t, got.Items[0].QuantityReceived, f.stockQty(t, memory.DemoProductGloves), "stock = suma de lo recibido")
	assert.Equal(t, string(entity.POStatusPartiallyReceived), got.Status)

	hist, err := inventoryHistory(t, f, po.ID)
	require.NoError(t, err)
	assert.Len(t, hist.Items, 3, "un movimiento por entrega aceptada")
}

func TestReceive_ParcialYCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.confirmed(t, line(memory.DemoProductGloves, 100, "2.5"))
	itemID := po.Items[0].ID

	out, err := f.machine.Receive(ctx, po.ID, userID, receive(itemID, 60))
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusPartiallyReceived), out.Status)
	assert.Equal(t, int64(60), out.Items[0].QuantityReceived)
	assert.Equal(t, int64(60), f.stockQty(t, memory.DemoProductGloves))
	assert.Nil(t, out.ReceivedDate)
	assert.Equal(t, userID, out.ReceivedBy)

	out, err = f.machine.Receive(ctx, po.ID, userID, receive(itemID, 40))
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusReceived), out.Status)
	assert.Equal(t, int64(100), out.Items[0].QuantityReceived)
	assert.Equal(t, int64(0), out.Items[0].QuantityPending)
	assert.NotNil(t, out.ReceivedDate)
	assert.Equal(t, int64(100), f.stockQty(t, memory.DemoProductGloves))

	hist, err := inventoryHistory(t, f, po.ID)
	require.NoError(t, err)
	require.Len(t, hist.Items, 2)
	for _, m := range hist.Items {
		assert.Equal(t, string(entity.MovementPurchaseOrderReceived), m.MovementType)
		assert.Contains(t, m.Reason, po.PONumber)
	}

	_, err = f.machine.Receive(ctx, po.ID, userID, receive(itemID, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "una orden recibida no admite más entregas")
}

func TestReceive_SobreRecepcionRechazaTodoElLote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.confirmed(t,
		line(memory.DemoProductGloves, 100, "1"),
		line(memory.DemoProductSyringe, 10, "1"),
	)
	gloves, syringes := po.Items[0].ID, po.Items[1].ID

	_, err := f.machine.Receive(ctx, po.ID, userID, receive(gloves, 60))
	require.NoError(t, err)

	_, err = f.machine.Receive(ctx, po.ID, userID, dto.ReceivePurchaseOrderRequest{Items: []dto.ReceiveItemRequest{
		{PurchaseOrderItemID: syringes, QuantityReceived: 10},
		{PurchaseOrderItemID: gloves, QuantityReceived: 50},
	}})
	require.ErrorIs(t, err, domain.ErrOverReceipt)
	assert.False(t, domain.IsRetryable(err))

	got, err := f.orders.Get(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), got.Items[0].QuantityReceived, "lo recibido no cambia")
	assert.Equal(t, int64(0), got.Items[1].QuantityReceived, "ninguna línea del lote se aplica")
	assert.Equal(t, string(entity.POStatusPartiallyReceived), got.Status)
	assert.Equal(t, int64(60), f.stockQty(t, memory.DemoProductGloves))
	assert.Equal(t, int64(0), f.stockQty(t, memory.DemoProductSyringe))
}

func TestReceive_LoteInvalido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.confirmed(t, line(memory.DemoProductGloves, 10, "1"))
	itemID := po.Items[0].ID

	_, err := f.machine.Receive(ctx, po.ID, userID, dto.ReceivePurchaseOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation, "lote vacío")

	_, err = f.machine.Receive(ctx, po.ID, userID, receive(itemID, -1))
	assert.ErrorIs(t, err, domain.ErrValidation, "cantidad negativa")

	_, err = f.machine.Receive(ctx, po.ID, userID, dto.ReceivePurchaseOrderRequest{Items: []dto.ReceiveItemRequest{
		{PurchaseOrderItemID: itemID, QuantityReceived: 1},
		{PurchaseOrderItemID: itemID, QuantityReceived: 1},
	}})
	assert.ErrorIs(t, err, domain.ErrValidation, "línea repetida")

	_, err = f.machine.Receive(ctx, po.ID, userID, receive("otra-linea", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound, "línea ajena a la orden")

	assert.Equal(t, int64(0), f.stockQty(t, memory.DemoProductGloves))
}

func TestReceive_LineasEnCeroNoMuevenStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.confirmed(t, line(memory.DemoProductGloves, 10, "1"))

	out, err := f.machine.Receive(ctx, po.ID, userID, receive(po.Items[0].ID, 0))
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusConfirmed), out.Status)
	assert.Empty(t, out.ReceivedBy)
	assert.Equal(t, int64(0), f.stockQty(t, memory.DemoProductGloves))
}

func inventoryHistory(t *testing.T, f *fixture, poID string) (*dto.MovementListResponse, error) {
	t.Helper()
	return f.recorder.History(context.Background(), dto.MovementQuery{
		ReferenceType: string(entity.ReferencePurchaseOrder),
		ReferenceID:   poID,
	})
}
