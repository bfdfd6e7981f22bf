package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// MovementRecorder escribe el libro de movimientos. Solo agrega filas, siempre dentro
// de la transacción del caller, y resuelve el historial para consultas.
type MovementRecorder struct {
	movementRepo repository.StockMovementRepository
}

// NewMovementRecorder construye el recorder. movementRepo se usa solo para lecturas.
func NewMovementRecorder(movementRepo repository.StockMovementRepository) *MovementRecorder {
	return &MovementRecorder{movementRepo: movementRepo}
}

// Record valida y agrega un movimiento usando el repositorio de la transacción en curso.
func (r *MovementRecorder) Record(ctx context.Context, movements repository.StockMovementRepository, m *entity.StockMovement) error {
	if !m.MovementType.IsValid() {
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrValidation, m.MovementType)
	}
	if !m.MovementType.AllowsSign(m.Quantity) {
		return fmt.Errorf("%w: signo %d no permitido para %s", domain.ErrValidation, m.Quantity, m.MovementType)
	}
	if m.ReferenceType != "" && !m.ReferenceType.IsValid() {
		return fmt.Errorf("%w: tipo de referencia %q", domain.ErrValidation, m.ReferenceType)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if err := movements.Create(ctx, m); err != nil {
		return fmt.Errorf("registrar movimiento: %w", err)
	}
	return nil
}

// History lista movimientos con filtros, del más reciente al más antiguo.
func (r *MovementRecorder) History(ctx context.Context, q dto.MovementQuery) (*dto.MovementListResponse, error) {
	q.DefaultPage()
	mt := entity.MovementType(q.MovementType)
	if mt != "" && !mt.IsValid() {
		return nil, fmt.Errorf("%w: movementType %q", domain.ErrValidation, q.MovementType)
	}
	rt := entity.ReferenceType(q.ReferenceType)
	if rt != "" && !rt.IsValid() {
		return nil, fmt.Errorf("%w: referenceType %q", domain.ErrValidation, q.ReferenceType)
	}
	if q.StartDate != nil && q.EndDate != nil && q.EndDate.Before(*q.StartDate) {
		return nil, fmt.Errorf("%w: endDate anterior a startDate", domain.ErrValidation)
	}
	list, total, err := r.movementRepo.List(ctx, repository.MovementFilter{
		WarehouseID:   q.WarehouseID,
		ProductID:     q.ProductID,
		MovementType:  mt,
		ReferenceType: rt,
		ReferenceID:   q.ReferenceID,
		From:          q.StartDate,
		To:            q.EndDate,
		Limit:         q.Limit,
		Offset:        q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		WarehouseID:   m.WarehouseID,
		ProductID:     m.ProductID,
		MovementType:  string(m.MovementType),
		Quantity:      m.Quantity,
		ReferenceType: string(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		Reason:        m.Reason,
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
