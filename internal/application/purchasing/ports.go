package purchasing

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye la orden y los repos de inventario.
// La recepción necesita los cuatro para que el cambio de estado y el libro confirmen juntos.
type TxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		orderRepo repository.PurchaseOrderRepository,
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		entryRepo repository.LedgerEntryRepository,
	) error) error
}

// MovementPoster crea y confirma el movimiento de entrada usando los repos del llamador (misma transacción).
// Si retorna error (ej: ValidationError por bodega inválida), el llamador debe hacer rollback.
type MovementPoster interface {
	CreateDraftInTx(ctx context.Context, movRepo repository.MovementRepository, in inventory.DraftInput) (*entity.Movement, error)
	ConfirmInTx(
		ctx context.Context,
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		entryRepo repository.LedgerEntryRepository,
		movementID, confirmedBy string,
	) (*entity.Movement, error)
}

var _ MovementPoster = (*inventory.MovementEngine)(nil)
