package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CatalogRepository alta idempotente de datos de referencia (items, bodegas, proveedores).
type CatalogRepository interface {
	UpsertItem(ctx context.Context, it entity.Item) error
	UpsertWarehouse(ctx context.Context, w entity.Warehouse) error
	UpsertSupplier(ctx context.Context, s entity.Supplier) error
}
