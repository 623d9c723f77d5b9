package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de una orden de compra.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PurchaseOrder cabecera de una orden de compra a proveedor.
// Subtotal, TaxAmount y TotalAmount se derivan de las líneas; ver purchasing.ComputeTotals.
type PurchaseOrder struct {
	ID                 string
	OrderNo            string
	SupplierID         string
	Status             OrderStatus
	OrderDate          time.Time
	ExpectedDate       *time.Time
	Notes              string
	TaxRate            decimal.Decimal // tasa vigente al crear la orden (ej. 0.15)
	Subtotal           decimal.Decimal
	TaxAmount          decimal.Decimal
	DiscountAmount     decimal.Decimal
	TotalAmount        decimal.Decimal
	Lines              []PurchaseOrderLine
	CreatedBy          string
	ApprovedBy         string
	ApprovedAt         *time.Time
	SentAt             *time.Time
	ReceivedBy         string
	ReceivedAt         *time.Time
	ReceiptWarehouseID string
	ReceiptMovementID  string
	CancelledBy        string
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PurchaseOrderLine línea de la orden. LineTotal = Quantity * UnitPrice * (1 - DiscountPercent/100).
type PurchaseOrderLine struct {
	ID              string
	OrderID         string
	LineNo          int
	ItemID          string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	LineTotal       decimal.Decimal
}

// Clone copia profunda de la orden.
func (o *PurchaseOrder) Clone() *PurchaseOrder {
	c := *o
	c.Lines = append([]PurchaseOrderLine(nil), o.Lines...)
	c.ExpectedDate = cloneTime(o.ExpectedDate)
	c.ApprovedAt = cloneTime(o.ApprovedAt)
	c.SentAt = cloneTime(o.SentAt)
	c.ReceivedAt = cloneTime(o.ReceivedAt)
	c.CancelledAt = cloneTime(o.CancelledAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
