package postgres

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo kardex de solo inserción.
type LedgerEntryRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el adaptador del kardex.
func NewLedgerEntryRepository(q Querier) *LedgerEntryRepo {
	return &LedgerEntryRepo{q: q}
}

// Create inserta un renglón del kardex.
func (r *LedgerEntryRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	const query = `
		INSERT INTO ledger_entries (
			id, movement_id, movement_type, item_id, warehouse_id, quantity, unit_cost, total_cost,
			balance_qty, balance_avg_cost, posted_at, posted_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.MovementID, string(e.MovementType), e.ItemID, e.WarehouseID, e.Quantity, e.UnitCost, e.TotalCost,
		e.BalanceQty, e.BalanceAvgCost, e.PostedAt, e.PostedBy,
	)
	if err != nil {
		return mapError("create ledger entry", err)
	}
	return nil
}
