package repository

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Page paginación simple por límite y desplazamiento.
type Page struct {
	Limit  int
	Offset int
}

// MovementFilter criterios de listado de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	Type        entity.MovementType
	Status      entity.MovementStatus
	WarehouseID string // coincide con origen o destino
	From, To    *time.Time
	Page
}

// OrderFilter criterios de listado de órdenes de compra.
type OrderFilter struct {
	Status     entity.OrderStatus
	SupplierID string
	From, To   *time.Time
	Page
}
