package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID     string                           `json:"supplier_id" validate:"required,uuid"`
	OrderDate      *time.Time                       `json:"order_date,omitempty"`
	ExpectedDate   *time.Time                       `json:"expected_date,omitempty"`
	Notes          string                           `json:"notes,omitempty" validate:"max=500"`
	DiscountAmount decimal.Decimal                  `json:"discount_amount"`
	Lines          []CreatePurchaseOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreatePurchaseOrderLineRequest línea de la orden.
type CreatePurchaseOrderLineRequest struct {
	ItemID          string          `json:"item_id" validate:"required,uuid"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// ReceivePurchaseOrderRequest body para POST /api/purchase-orders/:id/receive.
type ReceivePurchaseOrderRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
}

// PurchaseOrderFilterRequest query de GET /api/purchase-orders.
type PurchaseOrderFilterRequest struct {
	Status     string     `query:"status" validate:"omitempty,oneof=draft pending approved sent received cancelled"`
	SupplierID string     `query:"supplier_id" validate:"omitempty,uuid"`
	From       *time.Time `query:"-"`
	To         *time.Time `query:"-"`
	PageRequest
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID                 string                      `json:"id"`
	OrderNo            string                      `json:"order_no"`
	SupplierID         string                      `json:"supplier_id"`
	Status             string                      `json:"status"`
	OrderDate          time.Time                   `json:"order_date"`
	ExpectedDate       *time.Time                  `json:"expected_date,omitempty"`
	Notes              string                      `json:"notes,omitempty"`
	TaxRate            decimal.Decimal             `json:"tax_rate"`
	Subtotal           decimal.Decimal             `json:"subtotal"`
	TaxAmount          decimal.Decimal             `json:"tax_amount"`
	DiscountAmount     decimal.Decimal             `json:"discount_amount"`
	TotalAmount        decimal.Decimal             `json:"total_amount"`
	Lines              []PurchaseOrderLineResponse `json:"lines"`
	CreatedBy          string                      `json:"created_by"`
	ApprovedBy         string                      `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time                  `json:"approved_at,omitempty"`
	SentAt             *time.Time                  `json:"sent_at,omitempty"`
	ReceivedBy         string                      `json:"received_by,omitempty"`
	ReceivedAt         *time.Time                  `json:"received_at,omitempty"`
	ReceiptWarehouseID string                      `json:"receipt_warehouse_id,omitempty"`
	ReceiptMovementID  string                      `json:"receipt_movement_id,omitempty"`
	CancelledBy        string                      `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time                  `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

// PurchaseOrderLineResponse línea de la orden.
type PurchaseOrderLineResponse struct {
	LineNo          int             `json:"line_no"`
	ItemID          string          `json:"item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
