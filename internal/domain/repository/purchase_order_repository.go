package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// PurchaseOrderRepository puerto de persistencia de órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, o *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// Update persiste la cabecera (estado, sellos de auditoría, importes).
	Update(ctx context.Context, o *entity.PurchaseOrder) error
	// NextOrderNo genera el consecutivo PO-YYYYMMDD-NNNNNN.
	NextOrderNo(ctx context.Context, at time.Time) (string, error)
	List(ctx context.Context, f OrderFilter) ([]*entity.PurchaseOrder, int, error)
}
