package entity

import "time"

// DefaultLowStockThreshold umbral asignado a un registro creado perezosamente.
const DefaultLowStockThreshold int64 = 10

// StockRecord representa el stock actual de un producto en una bodega.
// Quantity incluye las unidades reservadas; el disponible se deriva, nunca se guarda.
type StockRecord struct {
	ID                string
	WarehouseID       string
	ProductID         string
	Quantity          int64
	ReservedQuantity  int64
	LowStockThreshold int64
	LastRestockedAt   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewStockRecord construye un registro vacío para el par bodega+producto.
func NewStockRecord(id, warehouseID, productID string, now time.Time) *StockRecord {
	return &StockRecord{
		ID:                id,
		WarehouseID:       warehouseID,
		ProductID:         productID,
		LowStockThreshold: DefaultLowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Available devuelve quantity − reserved.
func (s *StockRecord) Available() int64 {
	return s.Quantity - s.ReservedQuantity
}

// CanApply indica si sumar delta a Quantity respeta quantity ≥ 0 y reserved ≤ quantity.
func (s *StockRecord) CanApply(delta int64) bool {
	next := s.Quantity + delta
	return next >= 0 && next >= s.ReservedQuantity
}

// CanReserve indica si sumar delta a ReservedQuantity respeta 0 ≤ reserved ≤ quantity.
func (s *StockRecord) CanReserve(delta int64) bool {
	next := s.ReservedQuantity + delta
	return next >= 0 && next <= s.Quantity
}

// Apply suma delta a Quantity. El caller debe haber verificado CanApply.
func (s *StockRecord) Apply(delta int64, now time.Time) {
	s.Quantity += delta
	if delta > 0 {
		t := now
		s.LastRestockedAt = &t
	}
	s.UpdatedAt = now
}

// Reserve suma delta a ReservedQuantity. El caller debe haber verificado CanReserve.
func (s *StockRecord) Reserve(delta int64, now time.Time) {
	s.ReservedQuantity += delta
	s.UpdatedAt = now
}
