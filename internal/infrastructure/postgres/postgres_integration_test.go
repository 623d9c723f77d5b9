//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/migrations"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const (
	actor    = "00000000-0000-0000-0000-0000000000aa"
	supplier = "00000000-0000-0000-0000-000000000301"
	itemX    = "00000000-0000-0000-0000-000000000101"
	whMain   = "00000000-0000-0000-0000-000000000201"
	whAux    = "00000000-0000-0000-0000-000000000202"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newTestPool levanta PostgreSQL en un contenedor, aplica las migraciones y carga el catálogo.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar el contenedor de PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := postgres.NewMigrator(migrations.FS, dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)
	assert.False(t, dirty)
	require.NoError(t, m.Close())

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, LockTimeout: 2 * time.Second})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	catalog := postgres.NewCatalogRepository(pool)
	require.NoError(t, catalog.UpsertWarehouse(ctx, entity.Warehouse{ID: whMain, Code: "PRI", Name: "Principal"}))
	require.NoError(t, catalog.UpsertWarehouse(ctx, entity.Warehouse{ID: whAux, Code: "AUX", Name: "Auxiliar"}))
	require.NoError(t, catalog.UpsertSupplier(ctx, entity.Supplier{ID: supplier, Name: "Proveedor"}))
	require.NoError(t, catalog.UpsertItem(ctx, entity.Item{ID: itemX, SKU: "X-1", Name: "Item X", ReorderPoint: d("20")}))
	return pool
}

func TestPostgres_CicloCompleto(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	log := logger.Nop()

	txRunner := postgres.NewTxRunner(pool)
	engine := inventory.NewMovementEngine(txRunner, postgres.NewMovementRepository(pool), inventory.NewStockLedger(), log)
	wf := purchasing.NewWorkflow(txRunner, postgres.NewPurchaseOrderRepository(pool), engine, d("0.15"), log)
	reports := postgres.NewReportRepository(pool)

	// Orden recibida: 10 @ 5.00
	o, err := wf.Create(ctx, purchasing.CreateInput{
		SupplierID: supplier, CreatedBy: actor,
		Lines: []purchasing.LineInput{{ItemID: itemX, Quantity: d("10"), UnitPrice: d("5.00")}},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^PO-\d{8}-\d{6}$`, o.OrderNo)
	_, err = wf.Submit(ctx, o.ID, actor)
	require.NoError(t, err)
	_, err = wf.Approve(ctx, o.ID, actor)
	require.NoError(t, err)
	_, err = wf.Send(ctx, o.ID, actor)
	require.NoError(t, err)
	received, err := wf.Receive(ctx, o.ID, whMain, actor)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, received.Status)

	got, err := wf.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, received.ReceiptMovementID, got.ReceiptMovementID)
	require.Len(t, got.Lines, 1)

	// Salida de 4 y salida de 10 rechazada.
	out, err := engine.CreateDraft(ctx, inventory.DraftInput{
		Type: entity.MovementTypeIssue, FromWarehouseID: whMain, CreatedBy: actor,
		Lines: []inventory.LineInput{{ItemID: itemX, Quantity: d("4")}},
	})
	require.NoError(t, err)
	_, err = engine.Confirm(ctx, out.ID, actor)
	require.NoError(t, err)

	big, err := engine.CreateDraft(ctx, inventory.DraftInput{
		Type: entity.MovementTypeIssue, FromWarehouseID: whMain, CreatedBy: actor,
		Lines: []inventory.LineInput{{ItemID: itemX, Quantity: d("10")}},
	})
	require.NoError(t, err)
	_, err = engine.Confirm(ctx, big.ID, actor)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	rows, total, err := reports.ListBalances(ctx, repository.BalanceQuery{ItemID: itemX, Page: repository.Page{Limit: 10}})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.True(t, rows[0].Quantity.Equal(d("6")))
	assert.True(t, rows[0].AverageCost.Equal(d("5")))

	card, err := reports.StockCard(ctx, itemX, whMain, nil, nil)
	require.NoError(t, err)
	require.Len(t, card, 2)
	assert.True(t, card[1].BalanceQty.Equal(d("6")))

	low, err := reports.ItemsBelowReorderPoint(ctx, "")
	require.NoError(t, err)
	require.Len(t, low, 1)

	perf, err := reports.SupplierPerformance(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, perf, 1)
	assert.Equal(t, 1, perf[0].OnTimeCount)

	list, n, err := engine.List(ctx, repository.MovementFilter{Status: entity.MovementStatusDraft})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, big.ID, list[0].ID)
}

func TestPostgres_SaldoConVersionObsoleta(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	txRunner := postgres.NewTxRunner(pool)
	key := entity.BalanceKey{ItemID: itemX, WarehouseID: whMain}

	err := txRunner.Run(ctx, func(_ repository.MovementRepository, balances repository.StockBalanceRepository, _ repository.LedgerEntryRepository) error {
		b, err := balances.GetForUpdate(ctx, key)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(0), b.Version)
		b.Quantity = d("1")
		b.AverageCost = d("1")
		if err := balances.Save(ctx, b); err != nil {
			return err
		}
		assert.Equal(t, int64(1), b.Version)

		stale := b.Clone()
		stale.Version = 0
		return balances.Save(ctx, stale)
	})
	assert.True(t, errors.Is(err, domain.ErrConcurrencyConflict))
}

func TestPostgres_ConfirmacionesConcurrentes(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	txRunner := postgres.NewTxRunner(pool)
	engine := inventory.NewMovementEngine(txRunner, postgres.NewMovementRepository(pool), inventory.NewStockLedger(), logger.Nop())

	const workers = 10
	ids := make([]string, 0, workers)
	for i := 0; i < workers; i++ {
		m, err := engine.CreateDraft(ctx, inventory.DraftInput{
			Type: entity.MovementTypeReceipt, ToWarehouseID: whMain, CreatedBy: actor,
			Lines: []inventory.LineInput{{ItemID: itemX, Quantity: d("1"), UnitCost: d("2")}},
		})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = engine.Confirm(ctx, id, actor)
		}(i, id)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	rows, _, err := postgres.NewReportRepository(pool).ListBalances(ctx, repository.BalanceQuery{ItemID: itemX, WarehouseID: whMain, Page: repository.Page{Limit: 1}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Quantity.Equal(d("10")))
}

func TestPostgres_ReferenciaInexistente(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	engine := inventory.NewMovementEngine(postgres.NewTxRunner(pool), postgres.NewMovementRepository(pool), inventory.NewStockLedger(), logger.Nop())

	_, err := engine.CreateDraft(ctx, inventory.DraftInput{
		Type: entity.MovementTypeReceipt, ToWarehouseID: "00000000-0000-0000-0000-00000000dead", CreatedBy: actor,
		Lines: []inventory.LineInput{{ItemID: itemX, Quantity: d("1"), UnitCost: d("1")}},
	})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "to_warehouse_id", ve.Field)
}
