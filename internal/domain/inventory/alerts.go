package inventory

import "github.com/jhoicas/stock-ledger-api/internal/domain/entity"

// AlertLevel clasificación de un registro de stock para reposición.
type AlertLevel string

const (
	AlertNone       AlertLevel = ""
	AlertLowStock   AlertLevel = "low_stock"
	AlertOutOfStock AlertLevel = "out_of_stock"
)

// Classify evalúa el disponible (quantity − reserved) contra el umbral del registro:
// agotado si disponible == 0, bajo si 0 < disponible ≤ umbral.
func Classify(s *entity.StockRecord) AlertLevel {
	available := s.Available()
	switch {
	case available <= 0:
		return AlertOutOfStock
	case available <= s.LowStockThreshold:
		return AlertLowStock
	}
	return AlertNone
}
