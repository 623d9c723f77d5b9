package memory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*entryRepo)(nil)

type entryRepo struct {
	tx *memTx
}

func (r *entryRepo) Create(_ context.Context, e *entity.LedgerEntry) error {
	if err := r.tx.store.injected(OpEntryCreate); err != nil {
		return err
	}
	c := *e
	r.tx.st.entries = append(r.tx.st.entries, &c)
	return nil
}
