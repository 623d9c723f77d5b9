// Package memory implementa los puertos de persistencia en memoria. Las transacciones trabajan
// sobre una copia del estado que solo se publica si la función termina sin error, así que un
// fallo a mitad de camino no deja rastro. Se usa con STORAGE_DRIVER=memory y en los tests.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ inventory.TxRunner  = (*Store)(nil)
	_ purchasing.TxRunner = (*Store)(nil)
)

// Nombres de operación para FailNext.
const (
	OpMovementCreate = "movements.create"
	OpMovementUpdate = "movements.update"
	OpBalanceSave    = "balances.save"
	OpEntryCreate    = "ledger_entries.create"
	OpOrderCreate    = "purchase_orders.create"
	OpOrderUpdate    = "purchase_orders.update"
)

type state struct {
	items      map[string]entity.Item
	warehouses map[string]entity.Warehouse
	suppliers  map[string]entity.Supplier
	balances   map[entity.BalanceKey]*entity.StockBalance
	movements  map[string]*entity.Movement
	entries    []*entity.LedgerEntry
	orders     map[string]*entity.PurchaseOrder
	orderSeq   int64
}

func newState() *state {
	return &state{
		items:      map[string]entity.Item{},
		warehouses: map[string]entity.Warehouse{},
		suppliers:  map[string]entity.Supplier{},
		balances:   map[entity.BalanceKey]*entity.StockBalance{},
		movements:  map[string]*entity.Movement{},
		orders:     map[string]*entity.PurchaseOrder{},
	}
}

// clone copia profunda; los datos de referencia no cambian dentro de una transacción.
func (s *state) clone() *state {
	c := &state{
		items:      s.items,
		warehouses: s.warehouses,
		suppliers:  s.suppliers,
		balances:   make(map[entity.BalanceKey]*entity.StockBalance, len(s.balances)),
		movements:  make(map[string]*entity.Movement, len(s.movements)),
		entries:    append([]*entity.LedgerEntry(nil), s.entries...),
		orders:     make(map[string]*entity.PurchaseOrder, len(s.orders)),
		orderSeq:   s.orderSeq,
	}
	for k, v := range s.balances {
		c.balances[k] = v.Clone()
	}
	for k, v := range s.movements {
		c.movements[k] = v.Clone()
	}
	for k, v := range s.orders {
		c.orders[k] = v.Clone()
	}
	return c
}

// Store base de datos en memoria. Las transacciones de escritura se serializan con un único
// lock, equivalente a bloquear todas las filas; las lecturas ven solo estado confirmado.
type Store struct {
	mu   sync.RWMutex
	data *state

	failMu   sync.Mutex
	failures map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newState(), failures: map[string]error{}}
}

// SeedItem registra un item de referencia. Con datos de referencia cargados, las claves
// foráneas (item, bodega, proveedor) se validan igual que en PostgreSQL.
func (s *Store) SeedItem(it entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := copyMap(s.data.items)
	items[it.ID] = it
	s.data.items = items
}

// SeedWarehouse registra una bodega de referencia.
func (s *Store) SeedWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	whs := copyMap(s.data.warehouses)
	whs[w.ID] = w
	s.data.warehouses = whs
}

// SeedSupplier registra un proveedor de referencia.
func (s *Store) SeedSupplier(sp entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sps := copyMap(s.data.suppliers)
	sps[sp.ID] = sp
	s.data.suppliers = sps
}

// FailNext hace que la próxima ejecución de op devuelva err. Pensado para tests de atomicidad.
func (s *Store) FailNext(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failures[op] = err
}

func (s *Store) injected(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	err, ok := s.failures[op]
	if !ok {
		return nil
	}
	delete(s.failures, op)
	return err
}

// Run ejecuta fn con repositorios de inventario atados a una transacción en memoria.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	balanceRepo repository.StockBalanceRepository,
	entryRepo repository.LedgerEntryRepository,
) error) error {
	return s.inTx(ctx, func(tx *memTx) error {
		return fn(&movementRepo{tx: tx}, &balanceRepo{tx: tx}, &entryRepo{tx: tx})
	})
}

// RunPurchasing ejecuta fn con repositorios de órdenes e inventario en una transacción.
func (s *Store) RunPurchasing(ctx context.Context, fn func(
	orderRepo repository.PurchaseOrderRepository,
	movRepo repository.MovementRepository,
	balanceRepo repository.StockBalanceRepository,
	entryRepo repository.LedgerEntryRepository,
) error) error {
	return s.inTx(ctx, func(tx *memTx) error {
		return fn(&orderRepo{tx: tx}, &movementRepo{tx: tx}, &balanceRepo{tx: tx}, &entryRepo{tx: tx})
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *memTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, st: s.data.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = tx.st
	return nil
}

// view ejecuta fn sobre el último estado confirmado.
func (s *Store) view(fn func(tx *memTx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memTx{store: s, st: s.data})
}

// memTx estado de trabajo de una transacción.
type memTx struct {
	store *Store
	st    *state
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m)+1)
	for k, v := range m {
		c[k] = v
	}
	return c
}
