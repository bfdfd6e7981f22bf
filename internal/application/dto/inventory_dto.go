package dto

import "time"

// AdjustStockRequest body para POST /api/inventory/stock/adjust.
// Quantity es un delta con signo: positivo suma, negativo resta.
type AdjustStockRequest struct {
	WarehouseID  string `json:"warehouseId"`
	ProductID    string `json:"productId"`
	Quantity     int64  `json:"quantity"`
	MovementType string `json:"movementType,omitempty"` // adjustment (por defecto), sale o return
	ReferenceID  string `json:"referenceId,omitempty"`  // pedido de origen; obligatorio para sale y return
	Reason       string `json:"reason"`
	Notes        string `json:"notes,omitempty"`
}

// ReserveStockRequest body para POST /api/inventory/stock/reserve y /release.
type ReserveStockRequest struct {
	WarehouseID string `json:"warehouseId"`
	ProductID   string `json:"productId"`
	Quantity    int64  `json:"quantity"`
}

// TransferStockRequest body para POST /api/inventory/stock/transfer.
type TransferStockRequest struct {
	SourceWarehouseID      string `json:"sourceWarehouseId"`
	DestinationWarehouseID string `json:"destinationWarehouseId"`
	ProductID              string `json:"productId"`
	Quantity               int64  `json:"quantity"`
	Reason                 string `json:"reason"`
	Notes                  string `json:"notes,omitempty"`
}

// SetThresholdRequest body para PUT /api/inventory/stock/:warehouseId/:productId/threshold.
type SetThresholdRequest struct {
	LowStockThreshold int64 `json:"lowStockThreshold"`
}

// StockQuery filtros de GET /api/inventory/stock.
type StockQuery struct {
	WarehouseID string `query:"warehouseId"`
	ProductID   string `query:"productId"`
	LowStock    bool   `query:"lowStock"`
	OutOfStock  bool   `query:"outOfStock"`
	PageRequest
}

// MovementQuery filtros de GET /api/inventory/movements.
type MovementQuery struct {
	WarehouseID   string     `query:"warehouseId"`
	ProductID     string     `query:"productId"`
	MovementType  string     `query:"movementType"`
	ReferenceType string     `query:"referenceType"`
	ReferenceID   string     `query:"referenceId"`
	StartDate     *time.Time `query:"-"`
	EndDate       *time.Time `query:"-"`
	PageRequest
}

// StockResponse registro de stock expuesto por la API.
type StockResponse struct {
	ID                string     `json:"id"`
	WarehouseID       string     `json:"warehouseId"`
	ProductID         string     `json:"productId"`
	Quantity          int64      `json:"quantity"`
	ReservedQuantity  int64      `json:"reservedQuantity"`
	AvailableQuantity int64      `json:"availableQuantity"`
	LowStockThreshold int64      `json:"lowStockThreshold"`
	LastRestockedAt   *time.Time `json:"lastRestockedAt,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// StockListResponse listado paginado de stock.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// MovementResponse fila del libro de movimientos.
type MovementResponse struct {
	ID            string    `json:"id"`
	WarehouseID   string    `json:"warehouseId"`
	ProductID     string    `json:"productId"`
	MovementType  string    `json:"movementType"`
	Quantity      int64     `json:"quantity"`
	ReferenceType string    `json:"referenceType,omitempty"`
	ReferenceID   string    `json:"referenceId,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// MovementListResponse historial paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// TransferLegResponse estado de una bodega tras la transferencia.
type TransferLegResponse struct {
	WarehouseID       string `json:"warehouseId"`
	Quantity          int64  `json:"quantity"`
	AvailableQuantity int64  `json:"availableQuantity"`
}

// TransferResponse resultado de una transferencia entre bodegas.
type TransferResponse struct {
	TransferID  string              `json:"transferId"`
	ProductID   string              `json:"productId"`
	Quantity    int64               `json:"quantity"`
	Source      TransferLegResponse `json:"source"`
	Destination TransferLegResponse `json:"destination"`
}

// LedgerCheckResponse comparación entre el stock y la suma del libro.
type LedgerCheckResponse struct {
	WarehouseID string `json:"warehouseId"`
	ProductID   string `json:"productId"`
	Quantity    int64  `json:"quantity"`
	MovementSum int64  `json:"movementSum"`
	Consistent  bool   `json:"consistent"`
}

// AlertProductDTO producto en alerta dentro de una bodega.
type AlertProductDTO struct {
	ProductID         string `json:"productId"`
	Quantity          int64  `json:"quantity"`
	ReservedQuantity  int64  `json:"reservedQuantity"`
	AvailableQuantity int64  `json:"availableQuantity"`
	LowStockThreshold int64  `json:"lowStockThreshold"`
}

// WarehouseAlertsDTO alertas agrupadas por bodega.
type WarehouseAlertsDTO struct {
	WarehouseID        string            `json:"warehouseId"`
	LowStockProducts   []AlertProductDTO `json:"lowStockProducts"`
	OutOfStockProducts []AlertProductDTO `json:"outOfStockProducts"`
}

// AlertReportResponse reporte completo de alertas de stock.
type AlertReportResponse struct {
	Warehouses      []WarehouseAlertsDTO `json:"warehouses"`
	TotalLowStock   int                  `json:"totalLowStock"`
	TotalOutOfStock int                  `json:"totalOutOfStock"`
	GeneratedAt     time.Time            `json:"generatedAt"`
}
