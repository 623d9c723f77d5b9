package postgres

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo datos de referencia sobre PostgreSQL.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador de datos de referencia.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// UpsertItem inserta o actualiza un item por id.
func (r *CatalogRepo) UpsertItem(ctx context.Context, it entity.Item) error {
	const query = `
		INSERT INTO items (id, sku, name, reorder_point, min_stock)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET sku = EXCLUDED.sku, name = EXCLUDED.name,
		    reorder_point = EXCLUDED.reorder_point, min_stock = EXCLUDED.min_stock`
	if _, err := r.q.Exec(ctx, query, it.ID, it.SKU, it.Name, it.ReorderPoint, it.MinStock); err != nil {
		return mapError("upsert item", err)
	}
	return nil
}

// UpsertWarehouse inserta o actualiza una bodega por id.
func (r *CatalogRepo) UpsertWarehouse(ctx context.Context, w entity.Warehouse) error {
	const query = `
		INSERT INTO warehouses (id, code, name) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, name = EXCLUDED.name`
	if _, err := r.q.Exec(ctx, query, w.ID, w.Code, w.Name); err != nil {
		return mapError("upsert warehouse", err)
	}
	return nil
}

// UpsertSupplier inserta o actualiza un proveedor por id.
func (r *CatalogRepo) UpsertSupplier(ctx context.Context, s entity.Supplier) error {
	const query = `
		INSERT INTO suppliers (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`
	if _, err := r.q.Exec(ctx, query, s.ID, s.Name); err != nil {
		return mapError("upsert supplier", err)
	}
	return nil
}
