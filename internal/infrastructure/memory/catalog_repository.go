package memory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.CatalogRepository = (*Store)(nil)

// UpsertItem alias de SeedItem para cargar datos de referencia.
func (s *Store) UpsertItem(_ context.Context, it entity.Item) error {
	s.SeedItem(it)
	return nil
}

// UpsertWarehouse alias de SeedWarehouse.
func (s *Store) UpsertWarehouse(_ context.Context, w entity.Warehouse) error {
	s.SeedWarehouse(w)
	return nil
}

// UpsertSupplier alias de SeedSupplier.
func (s *Store) UpsertSupplier(_ context.Context, sp entity.Supplier) error {
	s.SeedSupplier(sp)
	return nil
}
