package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// StockLedger es el único que modifica saldos. No abre transacciones: cada llamada
// recibe el repositorio atado a la transacción del llamador.
type StockLedger struct {
	now func() time.Time
}

// NewStockLedger construye el libro de saldos.
func NewStockLedger() *StockLedger {
	return &StockLedger{now: func() time.Time { return time.Now().UTC() }}
}

// ApplyDelta aplica un delta firmado al saldo (item, bodega) y devuelve el saldo resultante.
//   - delta > 0: recalcula el costo promedio móvil con unitCost.
//   - delta < 0: conserva el costo promedio; falla con InsufficientStockError si el saldo quedaría negativo.
//   - delta = 0: ValidationError.
//
// Al llegar a cantidad cero el costo promedio vuelve a cero.
func (l *StockLedger) ApplyDelta(
	ctx context.Context,
	repo repository.StockBalanceRepository,
	itemID, warehouseID string,
	qtyDelta, unitCost decimal.Decimal,
) (*entity.StockBalance, error) {
	if qtyDelta.IsZero() {
		return nil, domain.NewValidationError("quantity", "el delta de cantidad no puede ser cero")
	}
	if qtyDelta.IsPositive() && unitCost.IsNegative() {
		return nil, domain.NewValidationError("unit_cost", "no puede ser negativo")
	}

	// Relectura bajo bloqueo: el valor leído antes del lock puede estar obsoleto.
	bal, err := repo.GetForUpdate(ctx, entity.BalanceKey{ItemID: itemID, WarehouseID: warehouseID})
	if err != nil {
		return nil, err
	}

	if qtyDelta.IsPositive() {
		bal.AverageCost = inventory.MovingAverageCost(bal.Quantity, bal.AverageCost, qtyDelta, unitCost)
		bal.Quantity = bal.Quantity.Add(qtyDelta)
	} else {
		newQty := bal.Quantity.Add(qtyDelta)
		if newQty.IsNegative() {
			return nil, &domain.InsufficientStockError{
				ItemID:      itemID,
				WarehouseID: warehouseID,
				Available:   bal.Quantity,
				Requested:   qtyDelta.Neg(),
			}
		}
		bal.Quantity = newQty
		if newQty.IsZero() {
			bal.AverageCost = decimal.Zero
		}
	}
	bal.UpdatedAt = l.now()

	if err := repo.Save(ctx, bal); err != nil {
		return nil, err
	}
	return bal.Clone(), nil
}

// GetBalance devuelve el saldo actual o uno en cero si el par nunca tuvo movimientos.
func (l *StockLedger) GetBalance(ctx context.Context, repo repository.StockBalanceRepository, itemID, warehouseID string) (*entity.StockBalance, error) {
	return repo.Get(ctx, entity.BalanceKey{ItemID: itemID, WarehouseID: warehouseID})
}

// LockBalances bloquea los saldos en orden (item, bodega) ascendente, creando los que falten.
// Todo escritor que toque más de un saldo debe bloquear así antes de aplicar deltas.
func (l *StockLedger) LockBalances(ctx context.Context, repo repository.StockBalanceRepository, keys []entity.BalanceKey) error {
	if len(keys) == 0 {
		return nil
	}
	sorted := append([]entity.BalanceKey(nil), keys...)
	inventory.SortKeys(sorted)
	return repo.LockForUpdate(ctx, sorted)
}
