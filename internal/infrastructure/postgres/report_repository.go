package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes de inventario y compras.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes (normalmente sobre el pool).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// ListBalances saldos con datos del item, ordenados por (item, bodega).
func (r *ReportRepo) ListBalances(ctx context.Context, f repository.BalanceQuery) ([]repository.BalanceRow, int, error) {
	const query = `
	SELECT
	    b.item_id, i.sku, i.name, b.warehouse_id, b.quantity, b.average_cost, b.updated_at,
	    COUNT(*) OVER () AS total
	FROM stock_balances b
	JOIN items i ON i.id = b.item_id
	WHERE ($1 = '' OR b.item_id::TEXT      = $1)
	  AND ($2 = '' OR b.warehouse_id::TEXT = $2)
	  AND (NOT $3 OR b.quantity <> 0)
	ORDER BY b.item_id, b.warehouse_id
	LIMIT $4 OFFSET $5`

	rows, err := r.q.Query(ctx, query, f.ItemID, f.WarehouseID, f.NonZeroOnly, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("reports.ListBalances: %w", err)
	}
	defer rows.Close()

	var (
		list  []repository.BalanceRow
		total int
	)
	for rows.Next() {
		var row repository.BalanceRow
		if err := rows.Scan(
			&row.ItemID, &row.SKU, &row.ItemName, &row.WarehouseID,
			&row.Quantity, &row.AverageCost, &row.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("reports.ListBalances scan: %w", err)
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("reports.ListBalances: %w", err)
	}
	if len(list) == 0 && f.Offset > 0 {
		// Página fuera de rango: el total sale de un conteo aparte.
		const count = `
		SELECT COUNT(*) FROM stock_balances b
		WHERE ($1 = '' OR b.item_id::TEXT = $1) AND ($2 = '' OR b.warehouse_id::TEXT = $2) AND (NOT $3 OR b.quantity <> 0)`
		if err := r.q.QueryRow(ctx, count, f.ItemID, f.WarehouseID, f.NonZeroOnly).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("reports.ListBalances count: %w", err)
		}
	}
	return list, total, nil
}

// ItemsBelowReorderPoint items con existencia menor que su punto de reorden o su mínimo.
// Con warehouseID vacío la existencia es la suma de todas las bodegas.
func (r *ReportRepo) ItemsBelowReorderPoint(ctx context.Context, warehouseID string) ([]repository.LowStockRow, error) {
	const query = `
	SELECT
	    i.id, i.sku, i.name, i.reorder_point, i.min_stock,
	    COALESCE(SUM(b.quantity), 0)                  AS quantity,
	    COALESCE(SUM(b.quantity * b.average_cost), 0) AS value
	FROM items i
	LEFT JOIN stock_balances b
	       ON b.item_id = i.id
	      AND ($1 = '' OR b.warehouse_id::TEXT = $1)
	WHERE i.reorder_point > 0 OR i.min_stock > 0
	GROUP BY i.id, i.sku, i.name, i.reorder_point, i.min_stock
	HAVING (i.reorder_point > 0 AND COALESCE(SUM(b.quantity), 0) < i.reorder_point)
	    OR (i.min_stock     > 0 AND COALESCE(SUM(b.quantity), 0) < i.min_stock)
	ORDER BY i.sku`

	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("reports.ItemsBelowReorderPoint: %w", err)
	}
	defer rows.Close()

	var list []repository.LowStockRow
	for rows.Next() {
		var (
			row   repository.LowStockRow
			value decimal.Decimal
		)
		if err := rows.Scan(&row.ItemID, &row.SKU, &row.ItemName, &row.ReorderPoint, &row.MinStock, &row.Quantity, &value); err != nil {
			return nil, fmt.Errorf("reports.ItemsBelowReorderPoint scan: %w", err)
		}
		row.WarehouseID = warehouseID
		row.AverageCost = decimal.Zero
		if row.Quantity.IsPositive() {
			row.AverageCost = value.Div(row.Quantity)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// StockValue valorización (cantidad * costo promedio) agrupada por bodega.
func (r *ReportRepo) StockValue(ctx context.Context, warehouseID string) ([]repository.StockValueRow, error) {
	const query = `
	SELECT
	    b.warehouse_id,
	    w.name,
	    COUNT(*) FILTER (WHERE b.quantity > 0)        AS item_count,
	    COALESCE(SUM(b.quantity), 0)                  AS quantity,
	    COALESCE(SUM(b.quantity * b.average_cost), 0) AS value
	FROM stock_balances b
	JOIN warehouses w ON w.id = b.warehouse_id
	WHERE ($1 = '' OR b.warehouse_id::TEXT = $1)
	GROUP BY b.warehouse_id, w.name
	ORDER BY b.warehouse_id`

	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("reports.StockValue: %w", err)
	}
	defer rows.Close()

	var list []repository.StockValueRow
	for rows.Next() {
		var row repository.StockValueRow
		if err := rows.Scan(&row.WarehouseID, &row.WarehouseName, &row.ItemCount, &row.Quantity, &row.Value); err != nil {
			return nil, fmt.Errorf("reports.StockValue scan: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// SupplierPerformance agrupa las órdenes con fecha en [from, to] por proveedor y estado.
// A tiempo: recibida en o antes del día esperado, o sin fecha esperada.
func (r *ReportRepo) SupplierPerformance(ctx context.Context, from, to time.Time) ([]repository.SupplierPerformanceRow, error) {
	const query = `
	SELECT
	    po.supplier_id,
	    s.name,
	    po.status,
	    COUNT(*)                           AS orders,
	    COALESCE(SUM(po.total_amount), 0)  AS total,
	    COUNT(*) FILTER (
	        WHERE po.status = 'received'
	          AND (po.expected_date IS NULL OR po.received_at < po.expected_date + 1)
	    )                                  AS on_time
	FROM purchase_orders po
	JOIN suppliers s ON s.id = po.supplier_id
	WHERE po.order_date BETWEEN $1 AND $2
	GROUP BY po.supplier_id, s.name, po.status
	ORDER BY po.supplier_id`

	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("reports.SupplierPerformance: %w", err)
	}
	defer rows.Close()

	var (
		list []repository.SupplierPerformanceRow
		idx  = map[string]int{}
	)
	for rows.Next() {
		var (
			supplierID, name, status string
			orders, onTime           int
			total                    decimal.Decimal
		)
		if err := rows.Scan(&supplierID, &name, &status, &orders, &total, &onTime); err != nil {
			return nil, fmt.Errorf("reports.SupplierPerformance scan: %w", err)
		}
		i, ok := idx[supplierID]
		if !ok {
			list = append(list, repository.SupplierPerformanceRow{
				SupplierID:     supplierID,
				SupplierName:   name,
				CountsByStatus: map[entity.OrderStatus]int{},
				TotalOrdered:   decimal.Zero,
				TotalReceived:  decimal.Zero,
			})
			i = len(list) - 1
			idx[supplierID] = i
		}
		row := &list[i]
		st := entity.OrderStatus(status)
		row.CountsByStatus[st] = orders
		if st != entity.OrderStatusCancelled {
			row.TotalOrdered = row.TotalOrdered.Add(total)
		}
		if st == entity.OrderStatusReceived {
			row.ReceivedCount = orders
			row.TotalReceived = total
			row.OnTimeCount = onTime
		}
	}
	return list, rows.Err()
}

// StockCard renglones del kardex de un item en una bodega, en orden de registro.
func (r *ReportRepo) StockCard(ctx context.Context, itemID, warehouseID string, from, to *time.Time) ([]*entity.LedgerEntry, error) {
	const query = `
	SELECT id, movement_id, movement_type, item_id, warehouse_id, quantity, unit_cost, total_cost,
	       balance_qty, balance_avg_cost, posted_at, posted_by
	FROM ledger_entries
	WHERE item_id = $1 AND warehouse_id = $2
	  AND ($3::TIMESTAMPTZ IS NULL OR posted_at >= $3)
	  AND ($4::TIMESTAMPTZ IS NULL OR posted_at <= $4)
	ORDER BY seq`

	rows, err := r.q.Query(ctx, query, itemID, warehouseID, from, to)
	if err != nil {
		return nil, fmt.Errorf("reports.StockCard: %w", err)
	}
	defer rows.Close()

	var list []*entity.LedgerEntry
	for rows.Next() {
		var (
			e   entity.LedgerEntry
			typ string
		)
		if err := rows.Scan(
			&e.ID, &e.MovementID, &typ, &e.ItemID, &e.WarehouseID, &e.Quantity, &e.UnitCost, &e.TotalCost,
			&e.BalanceQty, &e.BalanceAvgCost, &e.PostedAt, &e.PostedBy,
		); err != nil {
			return nil, fmt.Errorf("reports.StockCard scan: %w", err)
		}
		e.MovementType = entity.MovementType(typ)
		list = append(list, &e)
	}
	return list, rows.Err()
}
