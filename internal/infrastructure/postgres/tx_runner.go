package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ inventory.TxRunner  = (*TxRunner)(nil)
	_ purchasing.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos de inventario atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	balanceRepo repository.StockBalanceRepository,
	entryRepo repository.LedgerEntryRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewMovementRepository(tx), NewStockBalanceRepository(tx), NewLedgerEntryRepository(tx))
	})
}

// RunPurchasing igual que Run pero incluye el repositorio de órdenes (recepción de mercancía).
func (r *TxRunner) RunPurchasing(ctx context.Context, fn func(
	orderRepo repository.PurchaseOrderRepository,
	movRepo repository.MovementRepository,
	balanceRepo repository.StockBalanceRepository,
	entryRepo repository.LedgerEntryRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewPurchaseOrderRepository(tx),
			NewMovementRepository(tx),
			NewStockBalanceRepository(tx),
			NewLedgerEntryRepository(tx),
		)
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}
