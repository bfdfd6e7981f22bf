package purchasing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// PurchaseOrderStateMachine aplica las transiciones del ciclo de vida:
// draft → submitted → confirmed → partially_received → received, o cancelled.
// Cada transición bloquea la orden y guarda con control de versión.
type PurchaseOrderStateMachine struct {
	txRunner TxRunner
	receiver *ReceivingReconciler
	log      zerolog.Logger
}

// NewPurchaseOrderStateMachine construye la máquina de estados.
func NewPurchaseOrderStateMachine(txRunner TxRunner, receiver *ReceivingReconciler, log zerolog.Logger) *PurchaseOrderStateMachine {
	return &PurchaseOrderStateMachine{
		txRunner: txRunner,
		receiver: receiver,
		log:      log.With().Str("component", "po_state_machine").Logger(),
	}
}

// Submit envía el borrador al proveedor. Requiere al menos una línea; después las líneas quedan fijas.
func (sm *PurchaseOrderStateMachine) Submit(ctx context.Context, id, userID string) (*dto.PurchaseOrderResponse, error) {
	return sm.transition(ctx, id, userID, entity.POStatusSubmitted, func(po *entity.PurchaseOrder) error {
		if len(po.Items) == 0 {
			return fmt.Errorf("%w: la orden no tiene líneas", domain.ErrValidation)
		}
		return nil
	})
}

// Confirm registra la aceptación del proveedor y quién la aprobó.
func (sm *PurchaseOrderStateMachine) Confirm(ctx context.Context, id, userID string) (*dto.PurchaseOrderResponse, error) {
	return sm.transition(ctx, id, userID, entity.POStatusConfirmed, func(po *entity.PurchaseOrder) error {
		po.ApprovedBy = userID
		return nil
	})
}

// Cancel anula la orden. No revierte stock ya recibido; por eso se rechaza
// cuando existe alguna recepción.
func (sm *PurchaseOrderStateMachine) Cancel(ctx context.Context, id, userID string) (*dto.PurchaseOrderResponse, error) {
	return sm.transition(ctx, id, userID, entity.POStatusCancelled, nil)
}

// Receive aplica una entrega sobre una orden confirmada o parcialmente recibida.
func (sm *PurchaseOrderStateMachine) Receive(ctx context.Context, id, userID string, in dto.ReceivePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	var from entity.PurchaseOrderStatus
	po, err := lockAndUpdate(ctx, sm.txRunner, id, func(repos repository.TxRepos, po *entity.PurchaseOrder) error {
		from = po.Status
		return sm.receiver.ReceiveInTx(ctx, repos, po, userID, in.Items)
	})
	if err != nil {
		sm.logRejected(err, id, "receive")
		return nil, err
	}
	sm.log.Info().
		Str("po_id", po.ID).
		Str("from", string(from)).
		Str("to", string(po.Status)).
		Int("lines", len(in.Items)).
		Msg("recepción aplicada")
	return ToPurchaseOrderResponse(po), nil
}

func (sm *PurchaseOrderStateMachine) transition(
	ctx context.Context,
	id, userID string,
	target entity.PurchaseOrderStatus,
	guard func(po *entity.PurchaseOrder) error,
) (*dto.PurchaseOrderResponse, error) {
	var from entity.PurchaseOrderStatus
	po, err := lockAndUpdate(ctx, sm.txRunner, id, func(_ repository.TxRepos, po *entity.PurchaseOrder) error {
		from = po.Status
		if !po.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, po.Status, target)
		}
		if guard != nil {
			if err := guard(po); err != nil {
				return err
			}
		}
		po.Status = target
		return nil
	})
	if err != nil {
		sm.logRejected(err, id, string(target))
		return nil, err
	}
	sm.log.Info().
		Str("po_id", po.ID).
		Str("from", string(from)).
		Str("to", string(target)).
		Str("user_id", userID).
		Msg("transición de orden de compra")
	return ToPurchaseOrderResponse(po), nil
}

func (sm *PurchaseOrderStateMachine) logRejected(err error, id, action string) {
	if !domain.IsRetryable(err) {
		return
	}
	sm.log.Warn().Err(err).Str("po_id", id).Str("action", action).Msg("conflicto de concurrencia, transacción revertida")
}
