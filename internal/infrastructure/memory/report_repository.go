package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*Store)(nil)

// ListBalances lista saldos confirmados ordenados por (item, bodega).
func (s *Store) ListBalances(_ context.Context, q repository.BalanceQuery) ([]repository.BalanceRow, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []repository.BalanceRow
	for k, b := range s.data.balances {
		if q.ItemID != "" && k.ItemID != q.ItemID {
			continue
		}
		if q.WarehouseID != "" && k.WarehouseID != q.WarehouseID {
			continue
		}
		if q.NonZeroOnly && b.Quantity.IsZero() {
			continue
		}
		it := s.data.items[k.ItemID]
		rows = append(rows, repository.BalanceRow{
			ItemID:      k.ItemID,
			SKU:         it.SKU,
			ItemName:    it.Name,
			WarehouseID: k.WarehouseID,
			Quantity:    b.Quantity,
			AverageCost: b.AverageCost,
			UpdatedAt:   b.UpdatedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a := entity.BalanceKey{ItemID: rows[i].ItemID, WarehouseID: rows[i].WarehouseID}
		return a.Less(entity.BalanceKey{ItemID: rows[j].ItemID, WarehouseID: rows[j].WarehouseID})
	})
	return paginate(rows, q.Page), len(rows), nil
}

// ItemsBelowReorderPoint items con existencia menor que su punto de reorden o su mínimo.
func (s *Store) ItemsBelowReorderPoint(_ context.Context, warehouseID string) ([]repository.LowStockRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []repository.LowStockRow
	for _, it := range s.data.items {
		if !it.ReorderPoint.IsPositive() && !it.MinStock.IsPositive() {
			continue
		}
		qty, value := decimal.Zero, decimal.Zero
		for k, b := range s.data.balances {
			if k.ItemID != it.ID || (warehouseID != "" && k.WarehouseID != warehouseID) {
				continue
			}
			qty = qty.Add(b.Quantity)
			value = value.Add(b.Value())
		}
		below := (it.ReorderPoint.IsPositive() && qty.LessThan(it.ReorderPoint)) ||
			(it.MinStock.IsPositive() && qty.LessThan(it.MinStock))
		if !below {
			continue
		}
		avg := decimal.Zero
		if qty.IsPositive() {
			avg = value.Div(qty)
		}
		rows = append(rows, repository.LowStockRow{
			ItemID:       it.ID,
			SKU:          it.SKU,
			ItemName:     it.Name,
			WarehouseID:  warehouseID,
			Quantity:     qty,
			ReorderPoint: it.ReorderPoint,
			MinStock:     it.MinStock,
			AverageCost:  avg,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SKU < rows[j].SKU })
	return rows, nil
}

// StockValue suma cantidad * costo promedio por bodega.
func (s *Store) StockValue(_ context.Context, warehouseID string) ([]repository.StockValueRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byWh := map[string]*repository.StockValueRow{}
	for k, b := range s.data.balances {
		if warehouseID != "" && k.WarehouseID != warehouseID {
			continue
		}
		row, ok := byWh[k.WarehouseID]
		if !ok {
			row = &repository.StockValueRow{
				WarehouseID:   k.WarehouseID,
				WarehouseName: s.data.warehouses[k.WarehouseID].Name,
				Quantity:      decimal.Zero,
				Value:         decimal.Zero,
			}
			byWh[k.WarehouseID] = row
		}
		if b.Quantity.IsPositive() {
			row.ItemCount++
		}
		row.Quantity = row.Quantity.Add(b.Quantity)
		row.Value = row.Value.Add(b.Value())
	}
	rows := make([]repository.StockValueRow, 0, len(byWh))
	for _, r := range byWh {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].WarehouseID < rows[j].WarehouseID })
	return rows, nil
}

// SupplierPerformance agrupa por proveedor las órdenes con fecha en [from, to].
func (s *Store) SupplierPerformance(_ context.Context, from, to time.Time) ([]repository.SupplierPerformanceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bySupplier := map[string]*repository.SupplierPerformanceRow{}
	for _, o := range s.data.orders {
		if o.OrderDate.Before(from) || o.OrderDate.After(to) {
			continue
		}
		row, ok := bySupplier[o.SupplierID]
		if !ok {
			row = &repository.SupplierPerformanceRow{
				SupplierID:     o.SupplierID,
				SupplierName:   s.data.suppliers[o.SupplierID].Name,
				CountsByStatus: map[entity.OrderStatus]int{},
				TotalOrdered:   decimal.Zero,
				TotalReceived:  decimal.Zero,
			}
			bySupplier[o.SupplierID] = row
		}
		row.CountsByStatus[o.Status]++
		if o.Status != entity.OrderStatusCancelled {
			row.TotalOrdered = row.TotalOrdered.Add(o.TotalAmount)
		}
		if o.Status == entity.OrderStatusReceived {
			row.ReceivedCount++
			row.TotalReceived = row.TotalReceived.Add(o.TotalAmount)
			if onTime(o) {
				row.OnTimeCount++
			}
		}
	}
	rows := make([]repository.SupplierPerformanceRow, 0, len(bySupplier))
	for _, r := range bySupplier {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SupplierID < rows[j].SupplierID })
	return rows, nil
}

// onTime sin fecha esperada la recepción cuenta como a tiempo.
func onTime(o *entity.PurchaseOrder) bool {
	if o.ExpectedDate == nil || o.ReceivedAt == nil {
		return o.ReceivedAt != nil
	}
	y, m, d := o.ExpectedDate.Date()
	deadline := time.Date(y, m, d, 0, 0, 0, 0, o.ExpectedDate.Location()).AddDate(0, 0, 1)
	return o.ReceivedAt.Before(deadline)
}

// StockCard renglones del kardex en orden de registro.
func (s *Store) StockCard(_ context.Context, itemID, warehouseID string, from, to *time.Time) ([]*entity.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.LedgerEntry
	for _, e := range s.data.entries {
		if e.ItemID != itemID || e.WarehouseID != warehouseID {
			continue
		}
		if from != nil && e.PostedAt.Before(*from) {
			continue
		}
		if to != nil && e.PostedAt.After(*to) {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	return out, nil
}
