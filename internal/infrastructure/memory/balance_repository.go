package memory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*balanceRepo)(nil)

type balanceRepo struct {
	tx *memTx
}

func (r *balanceRepo) Get(_ context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	if b, ok := r.tx.st.balances[key]; ok {
		return b.Clone(), nil
	}
	return entity.NewStockBalance(key), nil
}

// GetForUpdate las transacciones ya están serializadas; equivale a Get.
func (r *balanceRepo) GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	return r.Get(ctx, key)
}

func (r *balanceRepo) LockForUpdate(_ context.Context, keys []entity.BalanceKey) error {
	for _, k := range keys {
		if _, ok := r.tx.st.balances[k]; ok {
			continue
		}
		if err := r.tx.checkItem(k.ItemID); err != nil {
			return err
		}
		if err := r.tx.checkWarehouse(k.WarehouseID); err != nil {
			return err
		}
		r.tx.st.balances[k] = entity.NewStockBalance(k)
	}
	return nil
}

func (r *balanceRepo) Save(_ context.Context, b *entity.StockBalance) error {
	if err := r.tx.store.injected(OpBalanceSave); err != nil {
		return err
	}
	key := b.Key()
	cur, ok := r.tx.st.balances[key]
	stored := int64(0)
	if ok {
		stored = cur.Version
	}
	if stored != b.Version {
		return domain.ErrConcurrencyConflict
	}
	if !ok {
		if err := r.tx.checkItem(key.ItemID); err != nil {
			return err
		}
		if err := r.tx.checkWarehouse(key.WarehouseID); err != nil {
			return err
		}
	}
	b.Version++
	r.tx.st.balances[key] = b.Clone()
	return nil
}
