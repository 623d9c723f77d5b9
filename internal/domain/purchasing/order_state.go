package purchasing

import (
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// orderTransitions tabla de transiciones de la orden de compra.
// received y cancelled son terminales; cancelar solo desde draft o pending.
var orderTransitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderStatusDraft:    {entity.OrderStatusPending, entity.OrderStatusCancelled},
	entity.OrderStatusPending:  {entity.OrderStatusApproved, entity.OrderStatusCancelled},
	entity.OrderStatusApproved: {entity.OrderStatusSent},
	entity.OrderStatusSent:     {entity.OrderStatusReceived},
}

// CanTransitionOrder indica si la orden puede pasar de current a target.
func CanTransitionOrder(current, target entity.OrderStatus) bool {
	for _, s := range orderTransitions[current] {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionOrder valida la transición de la orden.
func TransitionOrder(current, target entity.OrderStatus) error {
	if !CanTransitionOrder(current, target) {
		return domain.NewInvalidStateTransition("purchase_order", string(current), string(target))
	}
	return nil
}

// IsTerminal indica si la orden ya no admite cambios.
func IsTerminal(s entity.OrderStatus) bool {
	return len(orderTransitions[s]) == 0
}
