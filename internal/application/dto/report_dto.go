package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockDTO item bajo punto de reorden o mínimo, con cantidad sugerida de pedido.
type LowStockDTO struct {
	ItemID            string          `json:"item_id"`
	SKU               string          `json:"sku"`
	ItemName          string          `json:"item_name"`
	WarehouseID       string          `json:"warehouse_id,omitempty"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	ReorderPoint      decimal.Decimal `json:"reorder_point"`
	MinStock          decimal.Decimal `json:"min_stock"`
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"`  // ReorderPoint * 1.5 - CurrentStock
	EstimatedCost     decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * costo promedio
	BelowMinimum      bool            `json:"below_minimum"`
	Priority          int             `json:"priority"` // 1 = más urgente
}

// WarehouseValueDTO valorización de una bodega.
type WarehouseValueDTO struct {
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name,omitempty"`
	ItemCount     int             `json:"item_count"`
	Quantity      decimal.Decimal `json:"quantity"`
	Value         decimal.Decimal `json:"value"`
}

// StockValueDTO valor total del inventario y su detalle por bodega.
type StockValueDTO struct {
	TotalValue  decimal.Decimal     `json:"total_value"`
	Warehouses  []WarehouseValueDTO `json:"warehouses"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// SupplierPerformanceDTO desempeño de un proveedor en el período.
type SupplierPerformanceDTO struct {
	SupplierID     string          `json:"supplier_id"`
	SupplierName   string          `json:"supplier_name,omitempty"`
	OrdersByStatus map[string]int  `json:"orders_by_status"`
	TotalOrders    int             `json:"total_orders"`
	TotalOrdered   decimal.Decimal `json:"total_ordered"`
	TotalReceived  decimal.Decimal `json:"total_received"`
	ReceivedCount  int             `json:"received_count"`
	OnTimeCount    int             `json:"on_time_count"`
	OnTimeRatePct  decimal.Decimal `json:"on_time_rate_pct"`
}

// StockCardEntryDTO renglón del kardex.
type StockCardEntryDTO struct {
	MovementID     string          `json:"movement_id"`
	MovementType   string          `json:"movement_type"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	BalanceQty     decimal.Decimal `json:"balance_qty"`
	BalanceAvgCost decimal.Decimal `json:"balance_avg_cost"`
	PostedAt       time.Time       `json:"posted_at"`
	PostedBy       string          `json:"posted_by"`
}

// StockCardDTO kardex de un item en una bodega.
type StockCardDTO struct {
	ItemID      string              `json:"item_id"`
	WarehouseID string              `json:"warehouse_id"`
	Entries     []StockCardEntryDTO `json:"entries"`
}

// DashboardDTO resumen de inventario: valor, bajo stock y proveedores.
type DashboardDTO struct {
	StockValue          StockValueDTO            `json:"stock_value"`
	LowStock            []LowStockDTO            `json:"low_stock"`
	SupplierPerformance []SupplierPerformanceDTO `json:"supplier_performance"`
}
