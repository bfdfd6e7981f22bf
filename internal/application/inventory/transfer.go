package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TransferCoordinator mueve unidades entre bodegas en una sola transacción:
// las dos patas (transfer_out y transfer_in) se confirman juntas o ninguna.
type TransferCoordinator struct {
	ledger *StockLedger
}

// NewTransferCoordinator construye el coordinador sobre el mismo ledger.
func NewTransferCoordinator(ledger *StockLedger) *TransferCoordinator {
	return &TransferCoordinator{ledger: ledger}
}

// TransferStock valida la solicitud, bloquea ambas filas en orden determinista
// (por id de bodega) para evitar interbloqueos y escribe dos movimientos con el mismo transferId.
func (tc *TransferCoordinator) TransferStock(ctx context.Context, userID string, in dto.TransferStockRequest) (*dto.TransferResponse, error) {
	src := strings.TrimSpace(in.SourceWarehouseID)
	dst := strings.TrimSpace(in.DestinationWarehouseID)
	productID := strings.TrimSpace(in.ProductID)
	reason := strings.TrimSpace(in.Reason)
	switch {
	case src == "" || dst == "" || productID == "":
		return nil, fmt.Errorf("%w: sourceWarehouseId, destinationWarehouseId y productId son obligatorios", domain.ErrValidation)
	case in.Quantity <= 0:
		return nil, fmt.Errorf("%w: la cantidad a transferir debe ser mayor a 0", domain.ErrValidation)
	case src == dst:
		return nil, fmt.Errorf("%w: la bodega origen y destino deben ser distintas", domain.ErrValidation)
	case len([]rune(reason)) < minReasonLength:
		return nil, fmt.Errorf("%w: el motivo debe tener al menos %d caracteres", domain.ErrValidation, minReasonLength)
	}
	l := tc.ledger
	if err := l.requireWarehouse(ctx, src); err != nil {
		return nil, err
	}
	if err := l.requireWarehouse(ctx, dst); err != nil {
		return nil, err
	}
	if err := l.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	transferID := uuid.New().String()
	var source, dest *entity.StockRecord
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		// Orden de bloqueo fijo: dos transferencias opuestas no se esperan mutuamente.
		first, second := src, dst
		if second < first {
			first, second = second, first
		}
		locked := make(map[string]*entity.StockRecord, 2)
		for _, wh := range []string{first, second} {
			rec, err := repos.Stock().GetForUpdate(ctx, wh, productID)
			if err != nil {
				return err
			}
			locked[wh] = rec
		}
		s := locked[src]
		if s == nil || s.Available() < in.Quantity {
			available := int64(0)
			if s != nil {
				available = s.Available()
			}
			return fmt.Errorf("%w: disponible %d en bodega %s, se pidió %d",
				domain.ErrInsufficientStock, available, src, in.Quantity)
		}
		now := time.Now().UTC()

		s.Apply(-in.Quantity, now)
		if err := repos.Stock().Update(ctx, s); err != nil {
			return err
		}
		d := locked[dst]
		if d == nil {
			d = entity.NewStockRecord(uuid.New().String(), dst, productID, now)
			d.Apply(in.Quantity, now)
			if err := repos.Stock().Create(ctx, d); err != nil {
				return err
			}
		} else {
			d.Apply(in.Quantity, now)
			if err := repos.Stock().Update(ctx, d); err != nil {
				return err
			}
		}

		legs := []*entity.StockMovement{
			{WarehouseID: src, MovementType: entity.MovementTransferOut, Quantity: -in.Quantity},
			{WarehouseID: dst, MovementType: entity.MovementTransferIn, Quantity: in.Quantity},
		}
		for _, m := range legs {
			m.ProductID = productID
			m.ReferenceType = entity.ReferenceTransfer
			m.ReferenceID = transferID
			m.Reason = reason
			m.Notes = in.Notes
			m.CreatedBy = userID
			m.CreatedAt = now
			if err := l.recorder.Record(ctx, repos.Movements(), m); err != nil {
				return err
			}
		}
		source, dest = s, d
		return nil
	})
	if err != nil {
		l.logRejected(err, src, productID, -in.Quantity)
		return nil, err
	}
	l.log.Info().
		Str("transfer_id", transferID).
		Str("source_warehouse_id", src).
		Str("destination_warehouse_id", dst).
		Str("product_id", productID).
		Int64("quantity", in.Quantity).
		Msg("transferencia registrada")

	return &dto.TransferResponse{
		TransferID: transferID,
		ProductID:  productID,
		Quantity:   in.Quantity,
		Source: dto.TransferLegResponse{
			WarehouseID: src, Quantity: source.Quantity, AvailableQuantity: source.Available(),
		},
		Destination: dto.TransferLegResponse{
			WarehouseID: dst, Quantity: dest.Quantity, AvailableQuantity: dest.Available(),
		},
	}, nil
}
