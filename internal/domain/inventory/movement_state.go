package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// movementTransitions es la tabla completa de transiciones legales de un movimiento.
// Confirmado y cancelado son terminales.
var movementTransitions = map[entity.MovementStatus][]entity.MovementStatus{
	entity.MovementStatusDraft: {entity.MovementStatusConfirmed, entity.MovementStatusCancelled},
}

// CanTransitionMovement indica si el movimiento puede pasar de current a target.
func CanTransitionMovement(current, target entity.MovementStatus) bool {
	for _, s := range movementTransitions[current] {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionMovement valida la transición y devuelve InvalidStateTransitionError si no es legal.
func TransitionMovement(current, target entity.MovementStatus) error {
	if !CanTransitionMovement(current, target) {
		return domain.NewInvalidStateTransition("movement", string(current), string(target))
	}
	return nil
}
