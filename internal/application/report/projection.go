// Package report contiene las consultas de solo lectura sobre el estado confirmado del
// inventario: saldos, bajo stock, valorización, desempeño de proveedores y kardex.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const (
	// idealStockFactor el stock ideal es el umbral de reorden * 1.5.
	idealStockFactor = "1.5"
	// dashboardSupplierDays ventana del widget de proveedores.
	dashboardSupplierDays = 30
)

// Projection agrega datos de lectura. Nunca escribe; la caché es opcional.
type Projection struct {
	repo  repository.ReportRepository
	cache Cache
	log   *logger.Logger
	now   func() time.Time
}

// NewProjection construye la proyección. cache puede ser nil.
func NewProjection(repo repository.ReportRepository, cache Cache, log *logger.Logger) *Projection {
	return &Projection{repo: repo, cache: cache, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Balances lista saldos con su valorización. No usa caché: es la vista operativa.
func (p *Projection) Balances(ctx context.Context, in dto.BalanceFilterRequest) (*dto.BalanceListResponse, error) {
	in.DefaultPage()
	rows, total, err := p.repo.ListBalances(ctx, repository.BalanceQuery{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		NonZeroOnly: in.NonZero,
		Page:        repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.BalanceResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.BalanceResponse{
			ItemID:      r.ItemID,
			SKU:         r.SKU,
			ItemName:    r.ItemName,
			WarehouseID: r.WarehouseID,
			Quantity:    r.Quantity,
			AverageCost: r.AverageCost,
			TotalValue:  r.Quantity.Mul(r.AverageCost).Round(2),
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return &dto.BalanceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// LowStock devuelve los items bajo punto de reorden o mínimo con la cantidad sugerida de pedido.
// warehouseID vacío agrega todas las bodegas.
func (p *Projection) LowStock(ctx context.Context, warehouseID string) ([]dto.LowStockDTO, error) {
	var out []dto.LowStockDTO
	err := p.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return p.lowStock(ctx, warehouseID)
	}, "reports", "low_stock", keyPart(warehouseID))
	return out, err
}

func (p *Projection) lowStock(ctx context.Context, warehouseID string) ([]dto.LowStockDTO, error) {
	rows, err := p.repo.ItemsBelowReorderPoint(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	factor := decimal.RequireFromString(idealStockFactor)
	list := make([]dto.LowStockDTO, 0, len(rows))
	for _, r := range rows {
		threshold := decimal.Max(r.ReorderPoint, r.MinStock)
		suggested := threshold.Mul(factor).Sub(r.Quantity)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		list = append(list, dto.LowStockDTO{
			ItemID:            r.ItemID,
			SKU:               r.SKU,
			ItemName:          r.ItemName,
			WarehouseID:       r.WarehouseID,
			CurrentStock:      r.Quantity,
			ReorderPoint:      r.ReorderPoint,
			MinStock:          r.MinStock,
			SuggestedOrderQty: suggested,
			EstimatedCost:     suggested.Mul(r.AverageCost).Round(2),
			BelowMinimum:      r.MinStock.IsPositive() && r.Quantity.LessThan(r.MinStock),
		})
	}

	// Primero los que rompieron el mínimo, luego mayor déficit contra el umbral.
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.BelowMinimum != b.BelowMinimum {
			return a.BelowMinimum
		}
		defA := decimal.Max(a.ReorderPoint, a.MinStock).Sub(a.CurrentStock)
		defB := decimal.Max(b.ReorderPoint, b.MinStock).Sub(b.CurrentStock)
		if !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		return a.SKU < b.SKU
	})
	for i := range list {
		list[i].Priority = i + 1
	}
	return list, nil
}

// StockValue valoriza el inventario (cantidad * costo promedio), total y por bodega.
func (p *Projection) StockValue(ctx context.Context, warehouseID string) (*dto.StockValueDTO, error) {
	var out dto.StockValueDTO
	err := p.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return p.stockValue(ctx, warehouseID)
	}, "reports", "stock_value", keyPart(warehouseID))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Projection) stockValue(ctx context.Context, warehouseID string) (*dto.StockValueDTO, error) {
	rows, err := p.repo.StockValue(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := &dto.StockValueDTO{
		TotalValue:  decimal.Zero,
		Warehouses:  make([]dto.WarehouseValueDTO, 0, len(rows)),
		GeneratedAt: p.now(),
	}
	for _, r := range rows {
		out.Warehouses = append(out.Warehouses, dto.WarehouseValueDTO{
			WarehouseID:   r.WarehouseID,
			WarehouseName: r.WarehouseName,
			ItemCount:     r.ItemCount,
			Quantity:      r.Quantity,
			Value:         r.Value.Round(2),
		})
		out.TotalValue = out.TotalValue.Add(r.Value)
	}
	out.TotalValue = out.TotalValue.Round(2)
	return out, nil
}

// SupplierPerformance métricas por proveedor de las órdenes con fecha en [from, to].
func (p *Projection) SupplierPerformance(ctx context.Context, from, to time.Time) ([]dto.SupplierPerformanceDTO, error) {
	if to.Before(from) {
		return nil, domain.NewValidationError("to", "debe ser posterior a from")
	}
	var out []dto.SupplierPerformanceDTO
	err := p.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return p.supplierPerformance(ctx, from, to)
	}, "reports", "supplier_performance", from.Format("2006-01-02"), to.Format("2006-01-02"))
	return out, err
}

func (p *Projection) supplierPerformance(ctx context.Context, from, to time.Time) ([]dto.SupplierPerformanceDTO, error) {
	rows, err := p.repo.SupplierPerformance(ctx, from, to)
	if err != nil {
		return nil, err
	}
	hundred := decimal.NewFromInt(100)
	list := make([]dto.SupplierPerformanceDTO, 0, len(rows))
	for _, r := range rows {
		item := dto.SupplierPerformanceDTO{
			SupplierID:     r.SupplierID,
			SupplierName:   r.SupplierName,
			OrdersByStatus: make(map[string]int, len(r.CountsByStatus)),
			TotalOrdered:   r.TotalOrdered.Round(2),
			TotalReceived:  r.TotalReceived.Round(2),
			ReceivedCount:  r.ReceivedCount,
			OnTimeCount:    r.OnTimeCount,
			OnTimeRatePct:  decimal.Zero,
		}
		for status, n := range r.CountsByStatus {
			item.OrdersByStatus[string(status)] = n
			item.TotalOrders += n
		}
		if r.ReceivedCount > 0 {
			item.OnTimeRatePct = decimal.NewFromInt(int64(r.OnTimeCount)).
				Div(decimal.NewFromInt(int64(r.ReceivedCount))).Mul(hundred).Round(2)
		}
		list = append(list, item)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].TotalOrdered.GreaterThan(list[j].TotalOrdered)
	})
	return list, nil
}

// StockCard devuelve el kardex de un item en una bodega. No usa caché.
func (p *Projection) StockCard(ctx context.Context, itemID, warehouseID string, from, to *time.Time) (*dto.StockCardDTO, error) {
	if itemID == "" {
		return nil, domain.NewValidationError("item_id", "requerido")
	}
	if warehouseID == "" {
		return nil, domain.NewValidationError("warehouse_id", "requerido")
	}
	entries, err := p.repo.StockCard(ctx, itemID, warehouseID, from, to)
	if err != nil {
		return nil, err
	}
	out := &dto.StockCardDTO{ItemID: itemID, WarehouseID: warehouseID, Entries: make([]dto.StockCardEntryDTO, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, dto.StockCardEntryDTO{
			MovementID:     e.MovementID,
			MovementType:   string(e.MovementType),
			Quantity:       e.Quantity,
			UnitCost:       e.UnitCost,
			TotalCost:      e.TotalCost,
			BalanceQty:     e.BalanceQty,
			BalanceAvgCost: e.BalanceAvgCost,
			PostedAt:       e.PostedAt,
			PostedBy:       e.PostedBy,
		})
	}
	return out, nil
}

// Dashboard arma el resumen con tres consultas en paralelo: valorización, bajo stock y
// proveedores de los últimos 30 días.
func (p *Projection) Dashboard(ctx context.Context, warehouseID string) (*dto.DashboardDTO, error) {
	var (
		value     *dto.StockValueDTO
		lowStock  []dto.LowStockDTO
		suppliers []dto.SupplierPerformanceDTO
	)
	to := p.now()
	from := to.AddDate(0, 0, -dashboardSupplierDays)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := p.StockValue(gctx, warehouseID)
		if err != nil {
			return fmt.Errorf("dashboard: valorización: %w", err)
		}
		value = v
		return nil
	})
	g.Go(func() error {
		ls, err := p.LowStock(gctx, warehouseID)
		if err != nil {
			return fmt.Errorf("dashboard: bajo stock: %w", err)
		}
		lowStock = ls
		return nil
	})
	g.Go(func() error {
		sp, err := p.SupplierPerformance(gctx, from, to)
		if err != nil {
			return fmt.Errorf("dashboard: proveedores: %w", err)
		}
		suppliers = sp
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dto.DashboardDTO{StockValue: *value, LowStock: lowStock, SupplierPerformance: suppliers}, nil
}

// cached sirve desde la caché si existe. Solo una falla de Redis cae a la consulta directa;
// si el loader ya corrió, su error se devuelve tal cual y su valor se reutiliza.
func (p *Projection) cached(ctx context.Context, dest any, loader Loader, parts ...string) error {
	if p.cache == nil {
		return Assign(ctx, dest, loader)
	}
	key, err := p.cache.BuildKey(ctx, parts...)
	if err != nil {
		p.log.Warn().Err(err).Strs("key", parts).Msg("caché de reportes no disponible, consultando directo")
		return Assign(ctx, dest, loader)
	}

	var (
		ran     bool
		loaded  any
		loadErr error
	)
	err = p.cache.FetchJSON(ctx, key, dest, func(ctx context.Context) (any, error) {
		ran = true
		loaded, loadErr = loader(ctx)
		return loaded, loadErr
	})
	switch {
	case err == nil:
		return nil
	case ran && loadErr != nil:
		return loadErr
	case ran:
		p.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el reporte en caché")
		return Decode(loaded, dest)
	}
	p.log.Warn().Err(err).Str("key", key).Msg("caché de reportes no disponible, consultando directo")
	return Assign(ctx, dest, loader)
}

func keyPart(warehouseID string) string {
	if warehouseID == "" {
		return "all"
	}
	return warehouseID
}
