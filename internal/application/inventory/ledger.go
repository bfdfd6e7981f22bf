package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// minReasonLength largo mínimo del motivo en ajustes manuales y transferencias.
const minReasonLength = 3

// maxDelta cota de |delta| por operación; evita desbordes de int64 al sumar.
const maxDelta int64 = 1_000_000_000

// Motivos fijos de los movimientos originados por pedidos.
const (
	saleReason         = "Venta de pedido"
	cancellationReason = "Cancelación de pedido, stock restituido"
)

// AdjustInput primitiva de ajuste. Delta con signo; MovementType y ReferenceType
// por defecto son adjustment.
type AdjustInput struct {
	WarehouseID   string
	ProductID     string
	Delta         int64
	MovementType  entity.MovementType
	ReferenceType entity.ReferenceType
	ReferenceID   string
	Reason        string
	Notes         string
	UserID        string
}

func (in *AdjustInput) normalize() error {
	in.WarehouseID = strings.TrimSpace(in.WarehouseID)
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.Reason = strings.TrimSpace(in.Reason)
	if in.WarehouseID == "" || in.ProductID == "" {
		return fmt.Errorf("%w: warehouseId y productId son obligatorios", domain.ErrValidation)
	}
	if in.Delta == 0 {
		return fmt.Errorf("%w: la cantidad no puede ser 0", domain.ErrValidation)
	}
	if in.Delta > maxDelta || in.Delta < -maxDelta {
		return fmt.Errorf("%w: |cantidad| no puede superar %d", domain.ErrValidation, maxDelta)
	}
	if in.MovementType == "" {
		in.MovementType = entity.MovementAdjustment
	}
	if in.ReferenceType == "" {
		in.ReferenceType = defaultReference(in.MovementType)
	}
	if !in.MovementType.IsValid() {
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrValidation, in.MovementType)
	}
	if !in.MovementType.AllowsSign(in.Delta) {
		return fmt.Errorf("%w: cantidad %d no permitida para %s", domain.ErrValidation, in.Delta, in.MovementType)
	}
	if in.MovementType == entity.MovementAdjustment && len([]rune(in.Reason)) < minReasonLength {
		return fmt.Errorf("%w: el motivo debe tener al menos %d caracteres", domain.ErrValidation, minReasonLength)
	}
	return nil
}

// defaultReference tipo de referencia implícito de cada tipo de movimiento.
func defaultReference(t entity.MovementType) entity.ReferenceType {
	switch t {
	case entity.MovementAdjustment:
		return entity.ReferenceAdjustment
	case entity.MovementSale:
		return entity.ReferenceOrder
	case entity.MovementReturn:
		return entity.ReferenceReturn
	case entity.MovementTransferIn, entity.MovementTransferOut:
		return entity.ReferenceTransfer
	case entity.MovementPurchaseOrderReceived:
		return entity.ReferencePurchaseOrder
	}
	return ""
}

// validateManual restringe lo que un ajuste pedido por la API puede registrar.
// Transferencias y recepciones solo nacen de TransferCoordinator y ReceivingReconciler;
// sale y return exigen el pedido que los origina.
func validateManual(in dto.AdjustStockRequest) error {
	mt := entity.MovementType(in.MovementType)
	switch mt {
	case "", entity.MovementAdjustment:
	case entity.MovementSale, entity.MovementReturn:
		if strings.TrimSpace(in.ReferenceID) == "" {
			return fmt.Errorf("%w: referenceId es obligatorio para %s", domain.ErrValidation, mt)
		}
	case entity.MovementTransferIn, entity.MovementTransferOut, entity.MovementPurchaseOrderReceived:
		return fmt.Errorf("%w: %s no se registra como ajuste manual", domain.ErrValidation, mt)
	default:
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrValidation, mt)
	}
	if len([]rune(strings.TrimSpace(in.Reason))) < minReasonLength {
		return fmt.Errorf("%w: el motivo debe tener al menos %d caracteres", domain.ErrValidation, minReasonLength)
	}
	return nil
}

// StockLedger es el único punto que modifica cantidades de stock.
// Cada cambio de quantity produce exactamente un movimiento en la misma transacción.
type StockLedger struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository
	movements repository.StockMovementRepository
	refs      References
	recorder  *MovementRecorder
	log       zerolog.Logger
}

// NewStockLedger construye el ledger. stockRepo y movements se usan para lecturas fuera de tx.
func NewStockLedger(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	movements repository.StockMovementRepository,
	refs References,
	recorder *MovementRecorder,
	log zerolog.Logger,
) *StockLedger {
	return &StockLedger{
		txRunner:  txRunner,
		stockRepo: stockRepo,
		movements: movements,
		refs:      refs,
		recorder:  recorder,
		log:       log.With().Str("component", "stock_ledger").Logger(),
	}
}

// AdjustStockFromRequest adapta el request HTTP a AdjustStock.
func (l *StockLedger) AdjustStockFromRequest(ctx context.Context, userID string, in dto.AdjustStockRequest) (*dto.StockResponse, error) {
	if err := validateManual(in); err != nil {
		return nil, err
	}
	rec, err := l.AdjustStock(ctx, AdjustInput{
		WarehouseID:  in.WarehouseID,
		ProductID:    in.ProductID,
		Delta:        in.Quantity,
		MovementType: entity.MovementType(in.MovementType),
		ReferenceID:  strings.TrimSpace(in.ReferenceID),
		Reason:       in.Reason,
		Notes:        in.Notes,
		UserID:       userID,
	})
	if err != nil {
		return nil, err
	}
	return ToStockResponse(rec), nil
}

// AdjustStock valida la entrada y las referencias, y aplica el ajuste en su propia transacción.
func (l *StockLedger) AdjustStock(ctx context.Context, in AdjustInput) (*entity.StockRecord, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if err := l.requireWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}
	if err := l.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}

	var out *entity.StockRecord
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		rec, err := l.AdjustInTx(ctx, repos, in)
		if err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		l.logRejected(err, in.WarehouseID, in.ProductID, in.Delta)
		return nil, err
	}
	l.log.Info().
		Str("warehouse_id", in.WarehouseID).
		Str("product_id", in.ProductID).
		Int64("delta", in.Delta).
		Str("movement_type", string(in.MovementType)).
		Int64("quantity", out.Quantity).
		Msg("stock ajustado")
	return out, nil
}

// DeductForSale descuenta quantity unidades vendidas en el pedido orderID.
func (l *StockLedger) DeductForSale(ctx context.Context, warehouseID, productID string, quantity int64, orderID, userID string) (*entity.StockRecord, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad vendida debe ser mayor a 0", domain.ErrValidation)
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, fmt.Errorf("%w: orderId es obligatorio", domain.ErrValidation)
	}
	return l.AdjustStock(ctx, AdjustInput{
		WarehouseID:   warehouseID,
		ProductID:     productID,
		Delta:         -quantity,
		MovementType:  entity.MovementSale,
		ReferenceType: entity.ReferenceOrder,
		ReferenceID:   orderID,
		Reason:        saleReason,
		UserID:        userID,
	})
}

// RestoreForCancellation devuelve al stock las unidades de un pedido cancelado.
// Crea el registro si el par no existe.
func (l *StockLedger) RestoreForCancellation(ctx context.Context, warehouseID, productID string, quantity int64, orderID, userID string) (*entity.StockRecord, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad a restituir debe ser mayor a 0", domain.ErrValidation)
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, fmt.Errorf("%w: orderId es obligatorio", domain.ErrValidation)
	}
	return l.AdjustStock(ctx, AdjustInput{
		WarehouseID:   warehouseID,
		ProductID:     productID,
		Delta:         quantity,
		MovementType:  entity.MovementReturn,
		ReferenceType: entity.ReferenceReturn,
		ReferenceID:   orderID,
		Reason:        cancellationReason,
		UserID:        userID,
	})
}

// AdjustInTx aplica el ajuste con los repositorios de la transacción del caller.
// Bloquea la fila (SELECT FOR UPDATE); si no existe y delta > 0 la crea con el umbral por defecto.
// Si retorna error el caller debe hacer rollback.
func (l *StockLedger) AdjustInTx(ctx context.Context, repos repository.TxRepos, in AdjustInput) (*entity.StockRecord, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	rec, err := repos.Stock().GetForUpdate(ctx, in.WarehouseID, in.ProductID)
	if err != nil {
		return nil, err
	}
	created := false
	if rec == nil {
		if in.Delta < 0 {
			return nil, fmt.Errorf("%w: bodega %s no tiene stock de %s", domain.ErrInsufficientStock, in.WarehouseID, in.ProductID)
		}
		rec = entity.NewStockRecord(uuid.New().String(), in.WarehouseID, in.ProductID, now)
		created = true
	}
	if !rec.CanApply(in.Delta) {
		return nil, fmt.Errorf("%w: cantidad %d, reservado %d, ajuste %d",
			domain.ErrInsufficientStock, rec.Quantity, rec.ReservedQuantity, in.Delta)
	}
	rec.Apply(in.Delta, now)
	if created {
		err = repos.Stock().Create(ctx, rec)
	} else {
		err = repos.Stock().Update(ctx, rec)
	}
	if err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		WarehouseID:   in.WarehouseID,
		ProductID:     in.ProductID,
		MovementType:  in.MovementType,
		Quantity:      in.Delta,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Reason:        in.Reason,
		Notes:         in.Notes,
		CreatedBy:     in.UserID,
		CreatedAt:     now,
	}
	if err := l.recorder.Record(ctx, repos.Movements(), mov); err != nil {
		return nil, err
	}
	return rec, nil
}

// Reserve aparta unidades (delta > 0) sin cambiar quantity.
func (l *StockLedger) Reserve(ctx context.Context, in dto.ReserveStockRequest) (*dto.StockResponse, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad a reservar debe ser mayor a 0", domain.ErrValidation)
	}
	rec, err := l.AdjustReserved(ctx, in.WarehouseID, in.ProductID, in.Quantity)
	if err != nil {
		return nil, err
	}
	return ToStockResponse(rec), nil
}

// Release libera unidades reservadas.
func (l *StockLedger) Release(ctx context.Context, in dto.ReserveStockRequest) (*dto.StockResponse, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad a liberar debe ser mayor a 0", domain.ErrValidation)
	}
	rec, err := l.AdjustReserved(ctx, in.WarehouseID, in.ProductID, -in.Quantity)
	if err != nil {
		return nil, err
	}
	return ToStockResponse(rec), nil
}

// AdjustReserved cambia reserved en delta dentro de una transacción. No escribe movimiento:
// quantity no cambia, por lo que la suma del libro sigue igual.
func (l *StockLedger) AdjustReserved(ctx context.Context, warehouseID, productID string, delta int64) (*entity.StockRecord, error) {
	if warehouseID == "" || productID == "" {
		return nil, fmt.Errorf("%w: warehouseId y productId son obligatorios", domain.ErrValidation)
	}
	if delta == 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser 0", domain.ErrValidation)
	}
	if delta > maxDelta || delta < -maxDelta {
		return nil, fmt.Errorf("%w: |cantidad| no puede superar %d", domain.ErrValidation, maxDelta)
	}

	var out *entity.StockRecord
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		now := time.Now().UTC()
		rec, err := repos.Stock().GetForUpdate(ctx, warehouseID, productID)
		if err != nil {
			return err
		}
		if rec == nil {
			rec = entity.NewStockRecord("", warehouseID, productID, now)
		}
		if !rec.CanReserve(delta) {
			if delta > 0 {
				return fmt.Errorf("%w: disponible %d, se pidió reservar %d", domain.ErrInsufficientStock, rec.Available(), delta)
			}
			return fmt.Errorf("%w: reservado %d, se pidió liberar %d", domain.ErrValidation, rec.ReservedQuantity, -delta)
		}
		rec.Reserve(delta, now)
		if err := repos.Stock().Update(ctx, rec); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		l.logRejected(err, warehouseID, productID, delta)
		return nil, err
	}
	l.log.Info().
		Str("warehouse_id", warehouseID).
		Str("product_id", productID).
		Int64("reserved_delta", delta).
		Int64("reserved", out.ReservedQuantity).
		Msg("reserva actualizada")
	return out, nil
}

// GetStock devuelve el registro del par bodega+producto o domain.ErrNotFound.
func (l *StockLedger) GetStock(ctx context.Context, warehouseID, productID string) (*dto.StockResponse, error) {
	rec, err := l.stockRepo.Get(ctx, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: sin stock para bodega %s y producto %s", domain.ErrNotFound, warehouseID, productID)
	}
	return ToStockResponse(rec), nil
}

// ListStock lista registros con filtros y paginación.
func (l *StockLedger) ListStock(ctx context.Context, q dto.StockQuery) (*dto.StockListResponse, error) {
	q.DefaultPage()
	list, total, err := l.stockRepo.List(ctx, repository.StockFilter{
		WarehouseID: q.WarehouseID,
		ProductID:   q.ProductID,
		LowStock:    q.LowStock,
		OutOfStock:  q.OutOfStock,
		Limit:       q.Limit,
		Offset:      q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToStockResponse(s))
	}
	return &dto.StockListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

// SetLowStockThreshold cambia el umbral de alerta de un registro existente.
func (l *StockLedger) SetLowStockThreshold(ctx context.Context, warehouseID, productID string, threshold int64) (*dto.StockResponse, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: el umbral no puede ser negativo", domain.ErrValidation)
	}
	var out *entity.StockRecord
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		rec, err := repos.Stock().GetForUpdate(ctx, warehouseID, productID)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("%w: sin stock para bodega %s y producto %s", domain.ErrNotFound, warehouseID, productID)
		}
		rec.LowStockThreshold = threshold
		rec.UpdatedAt = time.Now().UTC()
		if err := repos.Stock().Update(ctx, rec); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToStockResponse(out), nil
}

// VerifyLedger compara quantity contra la suma con signo de los movimientos del par.
func (l *StockLedger) VerifyLedger(ctx context.Context, warehouseID, productID string) (*dto.LedgerCheckResponse, error) {
	rec, err := l.stockRepo.Get(ctx, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: sin stock para bodega %s y producto %s", domain.ErrNotFound, warehouseID, productID)
	}
	sum, err := l.movements.SumQuantity(ctx, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	if sum != rec.Quantity {
		l.log.Error().
			Str("warehouse_id", warehouseID).
			Str("product_id", productID).
			Int64("quantity", rec.Quantity).
			Int64("movement_sum", sum).
			Msg("libro de movimientos inconsistente")
	}
	return &dto.LedgerCheckResponse{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    rec.Quantity,
		MovementSum: sum,
		Consistent:  sum == rec.Quantity,
	}, nil
}

func (l *StockLedger) requireWarehouse(ctx context.Context, id string) error {
	wh, err := l.refs.Warehouses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if wh == nil {
		return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
	}
	if !wh.IsActive {
		return fmt.Errorf("%w: bodega %s inactiva", domain.ErrValidation, id)
	}
	return nil
}

func (l *StockLedger) requireProduct(ctx context.Context, id string) error {
	p, err := l.refs.Products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return nil
}

func (l *StockLedger) logRejected(err error, warehouseID, productID string, delta int64) {
	if !domain.IsRetryable(err) {
		return
	}
	l.log.Warn().Err(err).
		Str("warehouse_id", warehouseID).
		Str("product_id", productID).
		Int64("delta", delta).
		Msg("conflicto de concurrencia, transacción revertida")
}

// ToStockResponse mapea la entidad al DTO expuesto.
func ToStockResponse(s *entity.StockRecord) *dto.StockResponse {
	if s == nil {
		return nil
	}
	return &dto.StockResponse{
		ID:                s.ID,
		WarehouseID:       s.WarehouseID,
		ProductID:         s.ProductID,
		Quantity:          s.Quantity,
		ReservedQuantity:  s.ReservedQuantity,
		AvailableQuantity: s.Available(),
		LowStockThreshold: s.LowStockThreshold,
		LastRestockedAt:   s.LastRestockedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}
