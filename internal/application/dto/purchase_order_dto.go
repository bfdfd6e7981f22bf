package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderItemRequest línea de una orden de compra.
type PurchaseOrderItemRequest struct {
	ProductID       string          `json:"productId"`
	QuantityOrdered int64           `json:"quantityOrdered"`
	UnitCost        decimal.Decimal `json:"unitCost"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID           string                     `json:"supplierId"`
	WarehouseID          string                     `json:"warehouseId"`
	ExpectedDeliveryDate *time.Time                 `json:"expectedDeliveryDate,omitempty"`
	TaxAmount            *decimal.Decimal           `json:"taxAmount,omitempty"`
	ShippingCost         *decimal.Decimal           `json:"shippingCost,omitempty"`
	Currency             string                     `json:"currency,omitempty"`
	Notes                string                     `json:"notes,omitempty"`
	Items                []PurchaseOrderItemRequest `json:"items"`
}

// UpdatePurchaseOrderRequest body para PUT /api/purchase-orders/:id (solo cabecera).
type UpdatePurchaseOrderRequest struct {
	ExpectedDeliveryDate *time.Time       `json:"expectedDeliveryDate,omitempty"`
	TaxAmount            *decimal.Decimal `json:"taxAmount,omitempty"`
	ShippingCost         *decimal.Decimal `json:"shippingCost,omitempty"`
	Currency             *string          `json:"currency,omitempty"`
	Notes                *string          `json:"notes,omitempty"`
}

// ReplaceItemsRequest body para PUT /api/purchase-orders/:id/items.
type ReplaceItemsRequest struct {
	Items []PurchaseOrderItemRequest `json:"items"`
}

// ReceiveItemRequest cantidad entregada para una línea.
type ReceiveItemRequest struct {
	PurchaseOrderItemID string `json:"purchaseOrderItemId"`
	QuantityReceived    int64  `json:"quantityReceived"`
}

// ReceivePurchaseOrderRequest body para POST /api/purchase-orders/:id/receive.
type ReceivePurchaseOrderRequest struct {
	Items []ReceiveItemRequest `json:"items"`
}

// PurchaseOrderQuery filtros de GET /api/purchase-orders.
type PurchaseOrderQuery struct {
	SupplierID  string `query:"supplierId"`
	WarehouseID string `query:"warehouseId"`
	Status      string `query:"status"`
	PageRequest
}

// PurchaseOrderItemResponse línea expuesta por la API.
type PurchaseOrderItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"productId"`
	QuantityOrdered  int64           `json:"quantityOrdered"`
	QuantityReceived int64           `json:"quantityReceived"`
	QuantityPending  int64           `json:"quantityPending"`
	UnitCost         decimal.Decimal `json:"unitCost"`
	TotalCost        decimal.Decimal `json:"totalCost"`
}

// PurchaseOrderResponse orden de compra con sus líneas.
type PurchaseOrderResponse struct {
	ID                   string                      `json:"id"`
	PONumber             string                      `json:"poNumber"`
	SupplierID           string                      `json:"supplierId"`
	WarehouseID          string                      `json:"warehouseId"`
	Status               string                      `json:"status"`
	OrderDate            time.Time                   `json:"orderDate"`
	ExpectedDeliveryDate *time.Time                  `json:"expectedDeliveryDate,omitempty"`
	ReceivedDate         *time.Time                  `json:"receivedDate,omitempty"`
	Subtotal             decimal.Decimal             `json:"subtotal"`
	TaxAmount            decimal.Decimal             `json:"taxAmount"`
	ShippingCost         decimal.Decimal             `json:"shippingCost"`
	TotalAmount          decimal.Decimal             `json:"totalAmount"`
	Currency             string                      `json:"currency"`
	Notes                string                      `json:"notes,omitempty"`
	CreatedBy            string                      `json:"createdBy,omitempty"`
	ApprovedBy           string                      `json:"approvedBy,omitempty"`
	ReceivedBy           string                      `json:"receivedBy,omitempty"`
	Version              int64                       `json:"version"`
	CreatedAt            time.Time                   `json:"createdAt"`
	UpdatedAt            time.Time                   `json:"updatedAt"`
	Items                []PurchaseOrderItemResponse `json:"items,omitempty"`
}

// PurchaseOrderListResponse listado paginado de órdenes (sin líneas).
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
