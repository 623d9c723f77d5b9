package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest body para POST /api/inventory/movements.
type CreateMovementRequest struct {
	Type            string                      `json:"type" validate:"required,oneof=receipt issue transfer adjustment"`
	MovementDate    *time.Time                  `json:"movement_date,omitempty"`
	FromWarehouseID string                      `json:"from_warehouse_id,omitempty" validate:"omitempty,uuid"`
	ToWarehouseID   string                      `json:"to_warehouse_id,omitempty" validate:"omitempty,uuid"`
	Reference       string                      `json:"reference,omitempty" validate:"max=64"`
	Notes           string                      `json:"notes,omitempty" validate:"max=500"`
	Lines           []CreateMovementLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreateMovementLineRequest línea del movimiento. En ajustes quantity puede ser negativa.
type CreateMovementLineRequest struct {
	ItemID   string          `json:"item_id" validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// MovementFilterRequest query de GET /api/inventory/movements.
type MovementFilterRequest struct {
	Type        string     `query:"type" validate:"omitempty,oneof=receipt issue transfer adjustment"`
	Status      string     `query:"status" validate:"omitempty,oneof=draft confirmed cancelled"`
	WarehouseID string     `query:"warehouse_id" validate:"omitempty,uuid"`
	From        *time.Time `query:"-"`
	To          *time.Time `query:"-"`
	PageRequest
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID              string                 `json:"id"`
	Type            string                 `json:"type"`
	Status          string                 `json:"status"`
	MovementDate    time.Time              `json:"movement_date"`
	FromWarehouseID string                 `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string                 `json:"to_warehouse_id,omitempty"`
	Reference       string                 `json:"reference,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	Lines           []MovementLineResponse `json:"lines"`
	CreatedBy       string                 `json:"created_by"`
	ConfirmedBy     string                 `json:"confirmed_by,omitempty"`
	ConfirmedAt     *time.Time             `json:"confirmed_at,omitempty"`
	CancelledBy     string                 `json:"cancelled_by,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// MovementLineResponse línea de un movimiento.
type MovementLineResponse struct {
	LineNo    int             `json:"line_no"`
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BalanceFilterRequest query de GET /api/inventory/balances.
type BalanceFilterRequest struct {
	ItemID      string `query:"item_id" validate:"omitempty,uuid"`
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	NonZero     bool   `query:"non_zero"`
	PageRequest
}

// BalanceResponse saldo de un item en una bodega.
type BalanceResponse struct {
	ItemID      string          `json:"item_id"`
	SKU         string          `json:"sku,omitempty"`
	ItemName    string          `json:"item_name,omitempty"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
	TotalValue  decimal.Decimal `json:"total_value"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BalanceListResponse lista paginada de saldos.
type BalanceListResponse struct {
	Items []BalanceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
