package memory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Repositorios fuera de transacción: las lecturas ven el último commit y las
// escrituras se confirman solas, como un pool en autocommit.

// MovementRepository devuelve el repositorio de movimientos en autocommit.
func (s *Store) MovementRepository() repository.MovementRepository {
	return &movementReader{s: s}
}

// PurchaseOrderRepository devuelve el repositorio de órdenes en autocommit.
func (s *Store) PurchaseOrderRepository() repository.PurchaseOrderRepository {
	return &orderReader{s: s}
}

type movementReader struct{ s *Store }

func (r *movementReader) Create(ctx context.Context, m *entity.Movement) error {
	return r.s.inTx(ctx, func(tx *memTx) error { return (&movementRepo{tx: tx}).Create(ctx, m) })
}

func (r *movementReader) GetByID(ctx context.Context, id string) (m *entity.Movement, err error) {
	err = r.s.view(func(tx *memTx) error {
		m, err = (&movementRepo{tx: tx}).GetByID(ctx, id)
		return err
	})
	return m, err
}

func (r *movementReader) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r *movementReader) Update(ctx context.Context, m *entity.Movement) error {
	return r.s.inTx(ctx, func(tx *memTx) error { return (&movementRepo{tx: tx}).Update(ctx, m) })
}

func (r *movementReader) List(ctx context.Context, f repository.MovementFilter) (list []*entity.Movement, total int, err error) {
	err = r.s.view(func(tx *memTx) error {
		list, total, err = (&movementRepo{tx: tx}).List(ctx, f)
		return err
	})
	return list, total, err
}

type orderReader struct{ s *Store }

func (r *orderReader) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	return r.s.inTx(ctx, func(tx *memTx) error { return (&orderRepo{tx: tx}).Create(ctx, o) })
}

func (r *orderReader) GetByID(ctx context.Context, id string) (o *entity.PurchaseOrder, err error) {
	err = r.s.view(func(tx *memTx) error {
		o, err = (&orderRepo{tx: tx}).GetByID(ctx, id)
		return err
	})
	return o, err
}

func (r *orderReader) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *orderReader) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	return r.s.inTx(ctx, func(tx *memTx) error { return (&orderRepo{tx: tx}).Update(ctx, o) })
}

func (r *orderReader) NextOrderNo(ctx context.Context, at time.Time) (no string, err error) {
	err = r.s.inTx(ctx, func(tx *memTx) error {
		no, err = (&orderRepo{tx: tx}).NextOrderNo(ctx, at)
		return err
	})
	return no, err
}

func (r *orderReader) List(ctx context.Context, f repository.OrderFilter) (list []*entity.PurchaseOrder, total int, err error) {
	err = r.s.view(func(tx *memTx) error {
		list, total, err = (&orderRepo{tx: tx}).List(ctx, f)
		return err
	})
	return list, total, err
}

// Balance devuelve el saldo confirmado de un par (item, bodega).
func (s *Store) Balance(itemID, warehouseID string) *entity.StockBalance {
	var b *entity.StockBalance
	_ = s.view(func(tx *memTx) error {
		b, _ = (&balanceRepo{tx: tx}).Get(context.Background(), entity.BalanceKey{ItemID: itemID, WarehouseID: warehouseID})
		return nil
	})
	return b
}

// MovementCount número de movimientos guardados, en cualquier estado.
func (s *Store) MovementCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.movements)
}
