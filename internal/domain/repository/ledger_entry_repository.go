package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// LedgerEntryRepository kardex de solo inserción.
type LedgerEntryRepository interface {
	Create(ctx context.Context, e *entity.LedgerEntry) error
}
