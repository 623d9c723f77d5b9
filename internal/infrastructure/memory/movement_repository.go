package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*movementRepo)(nil)

type movementRepo struct {
	tx *memTx
}

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	if err := r.tx.store.injected(OpMovementCreate); err != nil {
		return err
	}
	if _, ok := r.tx.st.movements[m.ID]; ok {
		return fmt.Errorf("movimiento %s: %w", m.ID, domain.ErrDuplicate)
	}
	if err := r.tx.checkWarehouse(m.FromWarehouseID); err != nil {
		return err
	}
	if err := r.tx.checkWarehouse(m.ToWarehouseID); err != nil {
		return err
	}
	for _, l := range m.Lines {
		if err := r.tx.checkItem(l.ItemID); err != nil {
			return err
		}
	}
	r.tx.st.movements[m.ID] = m.Clone()
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	m, ok := r.tx.st.movements[id]
	if !ok {
		return nil, fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
	}
	return m.Clone(), nil
}

func (r *movementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r *movementRepo) Update(_ context.Context, m *entity.Movement) error {
	if err := r.tx.store.injected(OpMovementUpdate); err != nil {
		return err
	}
	if _, ok := r.tx.st.movements[m.ID]; !ok {
		return fmt.Errorf("movimiento %s: %w", m.ID, domain.ErrNotFound)
	}
	r.tx.st.movements[m.ID] = m.Clone()
	return nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, int, error) {
	var list []*entity.Movement
	for _, m := range r.tx.st.movements {
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.WarehouseID != "" && m.FromWarehouseID != f.WarehouseID && m.ToWarehouseID != f.WarehouseID {
			continue
		}
		if f.From != nil && m.MovementDate.Before(*f.From) {
			continue
		}
		if f.To != nil && m.MovementDate.After(*f.To) {
			continue
		}
		list = append(list, m)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].MovementDate.Equal(list[j].MovementDate) {
			return list[i].MovementDate.After(list[j].MovementDate)
		}
		return list[i].ID < list[j].ID
	})
	total := len(list)
	page := paginate(list, f.Page)
	out := make([]*entity.Movement, 0, len(page))
	for _, m := range page {
		out = append(out, m.Clone())
	}
	return out, total, nil
}

func paginate[T any](list []T, p repository.Page) []T {
	if p.Offset >= len(list) {
		return nil
	}
	end := len(list)
	if p.Limit > 0 && p.Offset+p.Limit < end {
		end = p.Offset + p.Limit
	}
	return list[p.Offset:end]
}
