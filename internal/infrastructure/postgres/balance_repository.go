package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación de StockBalanceRepository sobre PostgreSQL.
// Los métodos de bloqueo solo tienen efecto dentro de una tx.
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador de saldos. Pasar la tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

const selectBalance = `
	SELECT item_id, warehouse_id, quantity, average_cost, updated_at, version
	FROM stock_balances WHERE item_id = $1 AND warehouse_id = $2`

// Get obtiene el saldo; si la fila no existe devuelve un saldo en cero con Version 0.
func (r *StockBalanceRepo) Get(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	return r.get(ctx, selectBalance, key)
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
func (r *StockBalanceRepo) GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	return r.get(ctx, selectBalance+" FOR UPDATE", key)
}

func (r *StockBalanceRepo) get(ctx context.Context, query string, key entity.BalanceKey) (*entity.StockBalance, error) {
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, key.ItemID, key.WarehouseID).Scan(
		&b.ItemID, &b.WarehouseID, &b.Quantity, &b.AverageCost, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NewStockBalance(key), nil
		}
		return nil, mapError("get stock balance", err)
	}
	return &b, nil
}

// LockForUpdate inserta las filas que falten (version 0) y las bloquea en el orden recibido.
// Insertar antes de bloquear evita que dos transacciones creen el mismo saldo sin verse.
func (r *StockBalanceRepo) LockForUpdate(ctx context.Context, keys []entity.BalanceKey) error {
	const insert = `
		INSERT INTO stock_balances (item_id, warehouse_id, quantity, average_cost, version, updated_at)
		VALUES ($1, $2, 0, 0, 0, now())
		ON CONFLICT (item_id, warehouse_id) DO NOTHING`
	const lock = `
		SELECT 1 FROM stock_balances WHERE item_id = $1 AND warehouse_id = $2 FOR UPDATE`
	for _, k := range keys {
		if _, err := r.q.Exec(ctx, insert, k.ItemID, k.WarehouseID); err != nil {
			return mapError("create stock balance", err)
		}
		var one int
		if err := r.q.QueryRow(ctx, lock, k.ItemID, k.WarehouseID).Scan(&one); err != nil {
			return mapError("lock stock balance", err)
		}
	}
	return nil
}

// Save escribe el saldo solo si la versión almacenada coincide con b.Version y la incrementa.
func (r *StockBalanceRepo) Save(ctx context.Context, b *entity.StockBalance) error {
	const query = `
		INSERT INTO stock_balances (item_id, warehouse_id, quantity, average_cost, version, updated_at)
		VALUES ($1, $2, $3, $4, $5 + 1, $6)
		ON CONFLICT (item_id, warehouse_id) DO UPDATE
		SET quantity     = EXCLUDED.quantity,
		    average_cost = EXCLUDED.average_cost,
		    version      = stock_balances.version + 1,
		    updated_at   = EXCLUDED.updated_at
		WHERE stock_balances.version = $5
		RETURNING version`
	updatedAt := b.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	var version int64
	err := r.q.QueryRow(ctx, query,
		b.ItemID, b.WarehouseID, b.Quantity, b.AverageCost, b.Version, updatedAt,
	).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("save stock balance %s/%s v%d: %w", b.ItemID, b.WarehouseID, b.Version, domain.ErrConcurrencyConflict)
		}
		return mapError("save stock balance", err)
	}
	b.Version = version
	b.UpdatedAt = updatedAt
	return nil
}
