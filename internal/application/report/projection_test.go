package report_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const (
	actor    = "00000000-0000-0000-0000-0000000000aa"
	supplier = "00000000-0000-0000-0000-000000000301"
	itemA    = "00000000-0000-0000-0000-000000000101"
	itemB    = "00000000-0000-0000-0000-000000000102"
	itemC    = "00000000-0000-0000-0000-000000000103"
	whMain   = "00000000-0000-0000-0000-000000000201"
	whAux    = "00000000-0000-0000-0000-000000000202"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store  *memory.Store
	engine *inventory.MovementEngine
	wf     *purchasing.Workflow
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedItem(entity.Item{ID: itemA, SKU: "A", Name: "Tornillo", ReorderPoint: d("10"), MinStock: d("5")})
	store.SeedItem(entity.Item{ID: itemB, SKU: "B", Name: "Tuerca", ReorderPoint: d("20")})
	store.SeedItem(entity.Item{ID: itemC, SKU: "C", Name: "Arandela", ReorderPoint: d("5")})
	store.SeedWarehouse(entity.Warehouse{ID: whMain, Code: "PRI", Name: "Principal"})
	store.SeedWarehouse(entity.Warehouse{ID: whAux, Code: "AUX", Name: "Auxiliar"})
	store.SeedSupplier(entity.Supplier{ID: supplier, Name: "Ferretería Central"})

	log := logger.Nop()
	engine := inventory.NewMovementEngine(store, store.MovementRepository(), inventory.NewStockLedger(), log)
	wf := purchasing.NewWorkflow(store, store.PurchaseOrderRepository(), engine, d("0.15"), log)
	return fixture{store: store, engine: engine, wf: wf}
}

func (f fixture) receive(t *testing.T, wh, item, qty, cost string) {
	t.Helper()
	ctx := context.Background()
	m, err := f.engine.CreateDraft(ctx, inventory.DraftInput{
		Type: entity.MovementTypeReceipt, ToWarehouseID: wh, CreatedBy: actor,
		Lines: []inventory.LineInput{{ItemID: item, Quantity: d(qty), UnitCost: d(cost)}},
	})
	require.NoError(t, err)
	_, err = f.engine.Confirm(ctx, m.ID, actor)
	require.NoError(t, err)
}

func newCache(t *testing.T) *cache.ReportCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewReportCache(client, time.Minute)
}

// ─── Bajo stock ───────────────────────────────────────────────────────────────

func TestProjection_LowStock(t *testing.T) {
	f := newFixture(t)
	f.receive(t, whMain, itemA, "3", "2.00")
	f.receive(t, whMain, itemB, "12", "1.00")
	f.receive(t, whMain, itemC, "10", "1.00")

	p := report.NewProjection(f.store, nil, logger.Nop())
	list, err := p.LowStock(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list, 2, "C está sobre su punto de reorden")

	assert.Equal(t, itemA, list[0].ItemID, "primero el que rompió el mínimo")
	assert.True(t, list[0].BelowMinimum)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, list[0].SuggestedOrderQty.Equal(d("12")), "10*1.5 - 3")
	assert.True(t, list[0].EstimatedCost.Equal(d("24")))

	assert.Equal(t, itemB, list[1].ItemID)
	assert.False(t, list[1].BelowMinimum)
	assert.Equal(t, 2, list[1].Priority)
	assert.True(t, list[1].SuggestedOrderQty.Equal(d("18")), "20*1.5 - 12")
}

func TestProjection_LowStockPorBodega(t *testing.T) {
	f := newFixture(t)
	f.receive(t, whMain, itemA, "30", "1")
	f.receive(t, whMain, itemB, "30", "1")
	f.receive(t, whMain, itemC, "30", "1")
	f.receive(t, whAux, itemA, "1", "1")

	p := report.NewProjection(f.store, nil, logger.Nop())
	all, err := p.LowStock(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all, "en total nada está bajo")

	aux, err := p.LowStock(context.Background(), whAux)
	require.NoError(t, err)
	assert.Len(t, aux, 3, "la bodega auxiliar casi no tiene nada")
}

// ─── Valorización ─────────────────────────────────────────────────────────────

func TestProjection_StockValue(t *testing.T) {
	f := newFixture(t)
	f.receive(t, whMain, itemA, "10", "4.00")
	f.receive(t, whMain, itemA, "10", "6.00")
	f.receive(t, whAux, itemB, "3", "2.50")

	p := report.NewProjection(f.store, nil, logger.Nop())
	v, err := p.StockValue(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, v.TotalValue.Equal(d("107.5")), "20*5 + 3*2.5 = %s", v.TotalValue)
	require.Len(t, v.Warehouses, 2)
	assert.Equal(t, whMain, v.Warehouses[0].WarehouseID)
	assert.Equal(t, "Principal", v.Warehouses[0].WarehouseName)
	assert.True(t, v.Warehouses[0].Value.Equal(d("100")))
	assert.Equal(t, 1, v.Warehouses[0].ItemCount)

	only, err := p.StockValue(context.Background(), whAux)
	require.NoError(t, err)
	assert.True(t, only.TotalValue.Equal(d("7.5")))
}

func TestProjection_Balances(t *testing.T) {
	f := newFixture(t)
	f.receive(t, whMain, itemA, "2", "1.255")
	f.receive(t, whMain, itemB, "1", "1")

	p := report.NewProjection(f.store, nil, logger.Nop())
	res, err := p.Balances(context.Background(), dto.BalanceFilterRequest{WarehouseID: whMain})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "A", res.Items[0].SKU)
	assert.True(t, res.Items[0].TotalValue.Equal(d("2.51")))
}

// ─── Proveedores ──────────────────────────────────────────────────────────────

func TestProjection_SupplierPerformance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	received, err := f.wf.Create(ctx, purchasing.CreateInput{
		SupplierID: supplier, CreatedBy: actor,
		Lines: []purchasing.LineInput{{ItemID: itemA, Quantity: d("10"), UnitPrice: d("5")}},
	})
	require.NoError(t, err)
	for _, step := range []func(context.Context, string, string) (*entity.PurchaseOrder, error){f.wf.Submit, f.wf.Approve, f.wf.Send} {
		_, err = step(ctx, received.ID, actor)
		require.NoError(t, err)
	}
	_, err = f.wf.Receive(ctx, received.ID, whMain, actor)
	require.NoError(t, err)

	cancelled, err := f.wf.Create(ctx, purchasing.CreateInput{
		SupplierID: supplier, CreatedBy: actor,
		Lines: []purchasing.LineInput{{ItemID: itemB, Quantity: d("1"), UnitPrice: d("1")}},
	})
	require.NoError(t, err)
	_, err = f.wf.Cancel(ctx, cancelled.ID, actor)
	require.NoError(t, err)

	p := report.NewProjection(f.store, nil, logger.Nop())
	now := time.Now().UTC()
	list, err := p.SupplierPerformance(ctx, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, list, 1)

	sp := list[0]
	assert.Equal(t, "Ferretería Central", sp.SupplierName)
	assert.Equal(t, 2, sp.TotalOrders)
	assert.Equal(t, map[string]int{"received": 1, "cancelled": 1}, sp.OrdersByStatus)
	assert.True(t, sp.TotalOrdered.Equal(d("57.5")), "la cancelada no suma: %s", sp.TotalOrdered)
	assert.True(t, sp.TotalReceived.Equal(d("57.5")))
	assert.Equal(t, 1, sp.ReceivedCount)
	assert.True(t, sp.OnTimeRatePct.Equal(d("100")))

	old, err := p.SupplierPerformance(ctx, now.AddDate(0, 0, -10), now.AddDate(0, 0, -5))
	require.NoError(t, err)
	assert.Empty(t, old)
}

func TestProjection_SupplierPerformanceRangoInvalido(t *testing.T) {
	p := report.NewProjection(memory.NewStore(), nil, logger.Nop())
	now := time.Now()
	_, err := p.SupplierPerformance(context.Background(), now, now.Add(-time.Hour))
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "to", ve.Field)
}

// ─── Kardex ───────────────────────────────────────────────────────────────────

func TestProjection_StockCard(t *testing.T) {
	f := newFixture(t)
	f.receive(t, whMain, itemA, "10", "4")
	f.receive(t, whMain, itemA, "10", "6")

	p := report.NewProjection(f.store, nil, logger.Nop())
	card, err := p.StockCard(context.Background(), itemA, whMain, nil, nil)
	require.NoError(t, err)
	require.Len(t, card.Entries, 2)
	assert.Equal(t, "receipt", card.Entries[1].MovementType)
	assert.True(t, card.Entries[1].BalanceQty.Equal(d("20")))
	assert.True(t, card.Entries[1].BalanceAvgCost.Equal(d("5")))

	_, err = p.StockCard(context.Background(), "", whMain, nil, nil)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	_, err = p.StockCard(context.Background(), itemA, "", nil, nil)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

// ─── Dashboard y caché ────────────────────────────────────────────────────────

func TestProjection_Dashboard(t *testing.T) {
	f := newFixture(t)
	f.receive(t, whMain, itemA, "1", "10")

	p := report.NewProjection(f.store, newCache(t), logger.Nop())
	dash, err := p.Dashboard(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, dash.StockValue.TotalValue.Equal(d("10")))
	assert.Len(t, dash.LowStock, 3)
	assert.Empty(t, dash.SupplierPerformance)
}

func TestProjection_CacheHastaQueSeInvalida(t *testing.T) {
	f := newFixture(t)
	rc := newCache(t)
	ctx := context.Background()
	f.receive(t, whMain, itemA, "1", "10")

	p := report.NewProjection(f.store, rc, logger.Nop())
	first, err := p.StockValue(ctx, "")
	require.NoError(t, err)
	assert.True(t, first.TotalValue.Equal(d("10")))

	// el motor no tiene la caché registrada: el reporte sigue sirviendo la versión guardada
	f.receive(t, whMain, itemA, "1", "10")
	stale, err := p.StockValue(ctx, "")
	require.NoError(t, err)
	assert.True(t, stale.TotalValue.Equal(d("10")), "se sirve desde la caché")

	f.engine.WithCacheInvalidator(rc)
	f.receive(t, whMain, itemA, "1", "10")
	fresh, err := p.StockValue(ctx, "")
	require.NoError(t, err)
	assert.True(t, fresh.TotalValue.Equal(d("30")), "la confirmación invalida la caché")
}

func TestProjection_CacheCaidaConsultaDirecto(t *testing.T) {
	f := newFixture(t)
	f.receive(t, whMain, itemA, "2", "3")

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	p := report.NewProjection(f.store, cache.NewReportCache(client, time.Minute), logger.Nop())
	v, err := p.StockValue(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, v.TotalValue.Equal(d("6")))
}

// countingRepo cuenta las consultas de valorización y puede fallar como una base caída.
type countingRepo struct {
	*memory.Store
	calls int
	err   error
}

func (r *countingRepo) StockValue(ctx context.Context, warehouseID string) ([]repository.StockValueRow, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.Store.StockValue(ctx, warehouseID)
}

// failingSetCache corre el loader y luego falla como un SET de Redis rechazado.
type failingSetCache struct{}

func (failingSetCache) BuildKey(_ context.Context, parts ...string) (string, error) {
	return strings.Join(parts, ":"), nil
}

func (failingSetCache) FetchJSON(ctx context.Context, _ string, _ any, loader report.Loader) error {
	if _, err := loader(ctx); err != nil {
		return err
	}
	return errors.New("OOM command not allowed")
}

func TestProjection_ErrorDeBaseNoSeReintenta(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("conexión rechazada")
	repo := &countingRepo{Store: f.store, err: boom}

	p := report.NewProjection(repo, newCache(t), logger.Nop())
	_, err := p.StockValue(context.Background(), "")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, repo.calls, "una falla de la base no dispara una segunda consulta")
}

func TestProjection_FallaAlGuardarReutilizaElValor(t *testing.T) {
	f := newFixture(t)
	f.receive(t, whMain, itemA, "2", "3")
	repo := &countingRepo{Store: f.store}

	p := report.NewProjection(repo, failingSetCache{}, logger.Nop())
	v, err := p.StockValue(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, v.TotalValue.Equal(d("6")))
	assert.Equal(t, 1, repo.calls)
}
