package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockBalanceRepository puerto de saldos por bodega+item.
// Solo se usa dentro de la transacción del llamador; los métodos de bloqueo
// no tienen sentido fuera de ella.
type StockBalanceRepository interface {
	// Get devuelve el saldo o un saldo en cero (Version 0) si la fila no existe.
	Get(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error)
	// LockForUpdate crea las filas faltantes y las bloquea en el orden recibido.
	// El llamador debe pasar las claves ya ordenadas.
	LockForUpdate(ctx context.Context, keys []entity.BalanceKey) error
	// Save persiste el saldo si su Version coincide con la almacenada e incrementa Version.
	// Una versión distinta devuelve domain.ErrConcurrencyConflict.
	Save(ctx context.Context, balance *entity.StockBalance) error
}
