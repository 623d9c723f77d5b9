package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// BalanceRow saldo con datos del item, tal como lo devuelve la consulta.
type BalanceRow struct {
	ItemID      string
	SKU         string
	ItemName    string
	WarehouseID string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
	UpdatedAt   time.Time
}

// LowStockRow item cuya existencia está por debajo del punto de reorden o del mínimo.
type LowStockRow struct {
	ItemID       string
	SKU          string
	ItemName     string
	WarehouseID  string // vacío cuando se agregan todas las bodegas
	Quantity     decimal.Decimal
	ReorderPoint decimal.Decimal
	MinStock     decimal.Decimal
	AverageCost  decimal.Decimal
}

// StockValueRow valorización de una bodega.
type StockValueRow struct {
	WarehouseID   string
	WarehouseName string
	ItemCount     int
	Quantity      decimal.Decimal
	Value         decimal.Decimal
}

// SupplierPerformanceRow métricas crudas por proveedor en el período.
type SupplierPerformanceRow struct {
	SupplierID     string
	SupplierName   string
	CountsByStatus map[entity.OrderStatus]int
	TotalOrdered   decimal.Decimal // suma de órdenes no canceladas
	TotalReceived  decimal.Decimal
	ReceivedCount  int
	OnTimeCount    int // recibidas en o antes de la fecha esperada
}

// BalanceQuery filtro del listado de saldos.
type BalanceQuery struct {
	ItemID      string
	WarehouseID string
	NonZeroOnly bool
	Page
}

// ReportRepository consultas de solo lectura sobre estado confirmado.
type ReportRepository interface {
	ListBalances(ctx context.Context, q BalanceQuery) ([]BalanceRow, int, error)
	// ItemsBelowReorderPoint si warehouseID es vacío agrega el stock de todas las bodegas.
	ItemsBelowReorderPoint(ctx context.Context, warehouseID string) ([]LowStockRow, error)
	StockValue(ctx context.Context, warehouseID string) ([]StockValueRow, error)
	SupplierPerformance(ctx context.Context, from, to time.Time) ([]SupplierPerformanceRow, error)
	StockCard(ctx context.Context, itemID, warehouseID string, from, to *time.Time) ([]*entity.LedgerEntry, error)
}
