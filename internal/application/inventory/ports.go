package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback de todo lo escrito con esos repositorios.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		entryRepo repository.LedgerEntryRepository,
	) error) error
}

// CacheInvalidator invalida las cachés de lectura después de un commit que cambia saldos.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}
