// Package purchasing orquesta el ciclo de vida de las órdenes de compra.
package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// PurchaseOrderUseCase creación, consulta y edición de órdenes de compra.
type PurchaseOrderUseCase struct {
	txRunner        TxRunner
	poRepo          repository.PurchaseOrderRepository
	refs            References
	defaultCurrency string
	log             zerolog.Logger
}

// NewPurchaseOrderUseCase construye el caso de uso. defaultCurrency vacío usa entity.DefaultCurrency.
func NewPurchaseOrderUseCase(
	txRunner TxRunner,
	poRepo repository.PurchaseOrderRepository,
	refs References,
	defaultCurrency string,
	log zerolog.Logger,
) *PurchaseOrderUseCase {
	if defaultCurrency == "" {
		defaultCurrency = entity.DefaultCurrency
	}
	return &PurchaseOrderUseCase{
		txRunner:        txRunner,
		poRepo:          poRepo,
		refs:            refs,
		defaultCurrency: defaultCurrency,
		log:             log.With().Str("component", "purchase_orders").Logger(),
	}
}

// Create registra una orden en borrador con sus líneas y totales calculados.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if strings.TrimSpace(in.SupplierID) == "" || strings.TrimSpace(in.WarehouseID) == "" {
		return nil, fmt.Errorf("%w: supplierId y warehouseId son obligatorios", domain.ErrValidation)
	}
	tax, err := nonNegative("taxAmount", in.TaxAmount)
	if err != nil {
		return nil, err
	}
	shipping, err := nonNegative("shippingCost", in.ShippingCost)
	if err != nil {
		return nil, err
	}
	if err := uc.requireSupplier(ctx, in.SupplierID); err != nil {
		return nil, err
	}
	if err := uc.requireWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := uuid.New().String()
	items, err := uc.buildItems(ctx, id, in.Items)
	if err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = uc.defaultCurrency
	}
	po := &entity.PurchaseOrder{
		ID:                   id,
		PONumber:             newPONumber(now),
		SupplierID:           in.SupplierID,
		WarehouseID:          in.WarehouseID,
		Status:               entity.POStatusDraft,
		OrderDate:            now,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		TaxAmount:            tax,
		ShippingCost:         shipping,
		Currency:             currency,
		Notes:                in.Notes,
		CreatedBy:            userID,
		Version:              1,
		CreatedAt:            now,
		UpdatedAt:            now,
		Items:                items,
	}
	po.RecalculateTotals()

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		return repos.PurchaseOrders().Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("po_id", po.ID).Str("po_number", po.PONumber).Int("items", len(po.Items)).Msg("orden de compra creada")
	return ToPurchaseOrderResponse(po), nil
}

// Get obtiene una orden con sus líneas o domain.ErrNotFound.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(po), nil
}

// List lista cabeceras con filtros y paginación.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, q dto.PurchaseOrderQuery) (*dto.PurchaseOrderListResponse, error) {
	q.DefaultPage()
	status := entity.PurchaseOrderStatus(q.Status)
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrValidation, q.Status)
	}
	list, total, err := uc.poRepo.List(ctx, repository.PurchaseOrderFilter{
		SupplierID:  q.SupplierID,
		WarehouseID: q.WarehouseID,
		Status:      status,
		Limit:       q.Limit,
		Offset:      q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *ToPurchaseOrderResponse(po))
	}
	return &dto.PurchaseOrderListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

// UpdateHeader modifica fechas, cargos, moneda o notas. Solo en draft o submitted.
func (uc *PurchaseOrderUseCase) UpdateHeader(ctx context.Context, id string, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	po, err := lockAndUpdate(ctx, uc.txRunner, id, func(_ repository.TxRepos, po *entity.PurchaseOrder) error {
		if !po.Status.CanEditHeader() {
			return fmt.Errorf("%w: no se puede editar una orden en estado %s", domain.ErrInvalidTransition, po.Status)
		}
		if in.ExpectedDeliveryDate != nil {
			po.ExpectedDeliveryDate = in.ExpectedDeliveryDate
		}
		if in.TaxAmount != nil {
			tax, err := nonNegative("taxAmount", in.TaxAmount)
			if err != nil {
				return err
			}
			po.TaxAmount = tax
		}
		if in.ShippingCost != nil {
			shipping, err := nonNegative("shippingCost", in.ShippingCost)
			if err != nil {
				return err
			}
			po.ShippingCost = shipping
		}
		if in.Currency != nil {
			c := strings.ToUpper(strings.TrimSpace(*in.Currency))
			if c == "" {
				return fmt.Errorf("%w: currency vacío", domain.ErrValidation)
			}
			po.Currency = c
		}
		if in.Notes != nil {
			po.Notes = *in.Notes
		}
		po.RecalculateTotals()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(po), nil
}

// ReplaceItems reemplaza todas las líneas. Solo en draft: tras el envío las líneas quedan congeladas.
func (uc *PurchaseOrderUseCase) ReplaceItems(ctx context.Context, id string, in dto.ReplaceItemsRequest) (*dto.PurchaseOrderResponse, error) {
	items, err := uc.buildItems(ctx, id, in.Items)
	if err != nil {
		return nil, err
	}
	po, err := lockAndUpdate(ctx, uc.txRunner, id, func(repos repository.TxRepos, po *entity.PurchaseOrder) error {
		if !po.Status.CanEditItems() {
			return fmt.Errorf("%w: las líneas solo se editan en borrador (estado %s)", domain.ErrInvalidTransition, po.Status)
		}
		if err := repos.PurchaseOrders().ReplaceItems(ctx, po.ID, items); err != nil {
			return err
		}
		po.Items = items
		po.RecalculateTotals()
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("po_id", po.ID).Int("items", len(po.Items)).Msg("líneas de orden reemplazadas")
	return ToPurchaseOrderResponse(po), nil
}

func (uc *PurchaseOrderUseCase) load(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
	}
	return po, nil
}

func (uc *PurchaseOrderUseCase) buildItems(ctx context.Context, poID string, in []dto.PurchaseOrderItemRequest) ([]entity.PurchaseOrderItem, error) {
	items := make([]entity.PurchaseOrderItem, 0, len(in))
	for i, it := range in {
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, fmt.Errorf("%w: items[%d].productId obligatorio", domain.ErrValidation, i)
		}
		if it.QuantityOrdered < 1 {
			return nil, fmt.Errorf("%w: items[%d].quantityOrdered debe ser al menos 1", domain.ErrValidation, i)
		}
		if it.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: items[%d].unitCost no puede ser negativo", domain.ErrValidation, i)
		}
		p, err := uc.refs.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		items = append(items, entity.PurchaseOrderItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: poID,
			ProductID:       it.ProductID,
			QuantityOrdered: it.QuantityOrdered,
			UnitCost:        it.UnitCost,
			TotalCost:       it.UnitCost.Mul(decimal.NewFromInt(it.QuantityOrdered)),
		})
	}
	return items, nil
}

func (uc *PurchaseOrderUseCase) requireSupplier(ctx context.Context, id string) error {
	s, err := uc.refs.Suppliers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	if !s.IsActive {
		return fmt.Errorf("%w: proveedor %s inactivo", domain.ErrValidation, id)
	}
	return nil
}

func (uc *PurchaseOrderUseCase) requireWarehouse(ctx context.Context, id string) error {
	wh, err := uc.refs.Warehouses.GetByID(ctx, id)
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

// lockAndUpdate bloquea la orden (FOR UPDATE), aplica fn y guarda la cabecera
// con control de versión. Todo en una sola transacción.
func lockAndUpdate(
	ctx context.Context,
	txRunner TxRunner,
	id string,
	fn func(repos repository.TxRepos, po *entity.PurchaseOrder) error,
) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := txRunner.Run(ctx, func(repos repository.TxRepos) error {
		po, err := repos.PurchaseOrders().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
		}
		expected := po.Version
		if err := fn(repos, po); err != nil {
			return err
		}
		po.UpdatedAt = time.Now().UTC()
		if err := repos.PurchaseOrders().Update(ctx, po, expected); err != nil {
			return err
		}
		out = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func nonNegative(field string, v *decimal.Decimal) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s no puede ser negativo", domain.ErrValidation, field)
	}
	return *v, nil
}

// newPONumber formato PO-YYYYMMDD-XXXXXXXX.
func newPONumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return "PO-" + now.Format("20060102") + "-" + suffix
}

// ToPurchaseOrderResponse mapea la entidad (con o sin líneas) al DTO.
func ToPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	if po == nil {
		return nil
	}
	out := &dto.PurchaseOrderResponse{
		ID:                   po.ID,
		PONumber:             po.PONumber,
		SupplierID:           po.SupplierID,
		WarehouseID:          po.WarehouseID,
		Status:               string(po.Status),
		OrderDate:            po.OrderDate,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		ReceivedDate:         po.ReceivedDate,
		Subtotal:             po.Subtotal,
		TaxAmount:            po.TaxAmount,
		ShippingCost:         po.ShippingCost,
		TotalAmount:          po.TotalAmount,
		Currency:             po.Currency,
		Notes:                po.Notes,
		CreatedBy:            po.CreatedBy,
		ApprovedBy:           po.ApprovedBy,
		ReceivedBy:           po.ReceivedBy,
		Version:              po.Version,
		CreatedAt:            po.CreatedAt,
		UpdatedAt:            po.UpdatedAt,
	}
	for i := range po.Items {
		it := &po.Items[i]
		out.Items = append(out.Items, dto.PurchaseOrderItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			QuantityOrdered:  it.QuantityOrdered,
			QuantityReceived: it.QuantityReceived,
			QuantityPending:  it.Pending(),
			UnitCost:         it.UnitCost,
			TotalCost:        it.TotalCost,
		})
	}
	return out
}
