package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*orderRepo)(nil)

type orderRepo struct {
	tx *memTx
}

func (r *orderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	if err := r.tx.store.injected(OpOrderCreate); err != nil {
		return err
	}
	if _, ok := r.tx.st.orders[o.ID]; ok {
		return fmt.Errorf("orden %s: %w", o.ID, domain.ErrDuplicate)
	}
	for _, other := range r.tx.st.orders {
		if other.OrderNo == o.OrderNo {
			return fmt.Errorf("orden %s: %w", o.OrderNo, domain.ErrDuplicate)
		}
	}
	if err := r.tx.checkSupplier(o.SupplierID); err != nil {
		return err
	}
	for _, l := range o.Lines {
		if err := r.tx.checkItem(l.ItemID); err != nil {
			return err
		}
	}
	r.tx.st.orders[o.ID] = o.Clone()
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	o, ok := r.tx.st.orders[id]
	if !ok {
		return nil, fmt.Errorf("orden %s: %w", id, domain.ErrNotFound)
	}
	return o.Clone(), nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) Update(_ context.Context, o *entity.PurchaseOrder) error {
	if err := r.tx.store.injected(OpOrderUpdate); err != nil {
		return err
	}
	if _, ok := r.tx.st.orders[o.ID]; !ok {
		return fmt.Errorf("orden %s: %w", o.ID, domain.ErrNotFound)
	}
	if err := r.tx.checkWarehouse(o.ReceiptWarehouseID); err != nil {
		return err
	}
	r.tx.st.orders[o.ID] = o.Clone()
	return nil
}

func (r *orderRepo) NextOrderNo(_ context.Context, at time.Time) (string, error) {
	r.tx.st.orderSeq++
	return fmt.Sprintf("PO-%s-%06d", at.Format("20060102"), r.tx.st.orderSeq), nil
}

func (r *orderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.PurchaseOrder, int, error) {
	var list []*entity.PurchaseOrder
	for _, o := range r.tx.st.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.SupplierID != "" && o.SupplierID != f.SupplierID {
			continue
		}
		if f.From != nil && o.OrderDate.Before(*f.From) {
			continue
		}
		if f.To != nil && o.OrderDate.After(*f.To) {
			continue
		}
		list = append(list, o)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OrderNo > list[j].OrderNo })
	total := len(list)
	page := paginate(list, f.Page)
	out := make([]*entity.PurchaseOrder, 0, len(page))
	for _, o := range page {
		out = append(out, o.Clone())
	}
	return out, total, nil
}
