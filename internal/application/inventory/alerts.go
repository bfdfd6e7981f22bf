package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// AlertScanner genera el reporte de productos bajos o agotados. Solo lectura.
type AlertScanner struct {
	stockRepo repository.StockRepository
}

// NewAlertScanner construye el scanner.
func NewAlertScanner(stockRepo repository.StockRepository) *AlertScanner {
	return &AlertScanner{stockRepo: stockRepo}
}

// Scan agrupa por bodega; warehouseID vacío recorre todas.
// Bajo stock se ordena por disponible ascendente.
func (s *AlertScanner) Scan(ctx context.Context, warehouseID string) (*dto.AlertReportResponse, error) {
	candidates, err := s.stockRepo.ListAlertCandidates(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	byWarehouse := make(map[string]*dto.WarehouseAlertsDTO)
	order := make([]string, 0)
	report := &dto.AlertReportResponse{GeneratedAt: time.Now().UTC()}
	for _, rec := range candidates {
		level := domaininv.Classify(rec)
		if level == domaininv.AlertNone {
			continue
		}
		group, ok := byWarehouse[rec.WarehouseID]
		if !ok {
			group = &dto.WarehouseAlertsDTO{
				WarehouseID:        rec.WarehouseID,
				LowStockProducts:   []dto.AlertProductDTO{},
				OutOfStockProducts: []dto.AlertProductDTO{},
			}
			byWarehouse[rec.WarehouseID] = group
			order = append(order, rec.WarehouseID)
		}
		item := toAlertProduct(rec)
		if level == domaininv.AlertOutOfStock {
			group.OutOfStockProducts = append(group.OutOfStockProducts, item)
			report.TotalOutOfStock++
		} else {
			group.LowStockProducts = append(group.LowStockProducts, item)
			report.TotalLowStock++
		}
	}

	sort.Strings(order)
	report.Warehouses = make([]dto.WarehouseAlertsDTO, 0, len(order))
	for _, id := range order {
		g := byWarehouse[id]
		sort.SliceStable(g.LowStockProducts, func(i, j int) bool {
			return g.LowStockProducts[i].AvailableQuantity < g.LowStockProducts[j].AvailableQuantity
		})
		report.Warehouses = append(report.Warehouses, *g)
	}
	return report, nil
}

func toAlertProduct(s *entity.StockRecord) dto.AlertProductDTO {
	return dto.AlertProductDTO{
		ProductID:         s.ProductID,
		Quantity:          s.Quantity,
		ReservedQuantity:  s.ReservedQuantity,
		AvailableQuantity: s.Available(),
		LowStockThreshold: s.LowStockThreshold,
	}
}
