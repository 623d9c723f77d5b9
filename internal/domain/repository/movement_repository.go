package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementRepository puerto de persistencia de movimientos y sus líneas.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetForUpdate bloquea la cabecera del movimiento hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	// Update reescribe cabecera y costos de línea (recosteo al confirmar).
	Update(ctx context.Context, m *entity.Movement) error
	List(ctx context.Context, f MovementFilter) ([]*entity.Movement, int, error)
}
