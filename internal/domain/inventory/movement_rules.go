package inventory

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Forma de las columnas donde se persisten las líneas y la referencia.
const (
	QuantityPrecision, QuantityScale = 18, 4
	UnitCostPrecision, UnitCostScale = 18, 6
	MaxReferenceLength               = 64
)

// ValidateMovement aplica las reglas estructurales por tipo y las reglas de línea.
// Devuelve el primer *domain.ValidationError encontrado.
func ValidateMovement(m *entity.Movement) error {
	if !m.Type.IsValid() {
		return domain.NewValidationError("type", "tipo de movimiento no soportado")
	}

	from, to := m.FromWarehouseID != "", m.ToWarehouseID != ""
	switch m.Type {
	case entity.MovementTypeReceipt:
		if !to {
			return domain.NewValidationError("to_warehouse_id", "requerido en una entrada")
		}
		if from {
			return domain.NewValidationError("from_warehouse_id", "no permitido en una entrada")
		}
	case entity.MovementTypeIssue:
		if !from {
			return domain.NewValidationError("from_warehouse_id", "requerido en una salida")
		}
		if to {
			return domain.NewValidationError("to_warehouse_id", "no permitido en una salida")
		}
	case entity.MovementTypeTransfer:
		if !from {
			return domain.NewValidationError("from_warehouse_id", "requerido en un traslado")
		}
		if !to {
			return domain.NewValidationError("to_warehouse_id", "requerido en un traslado")
		}
		if m.FromWarehouseID == m.ToWarehouseID {
			return domain.NewValidationError("to_warehouse_id", "debe ser distinta de la bodega origen")
		}
	case entity.MovementTypeAdjustment:
		if !from && !to {
			return domain.NewValidationError("warehouse_id", "un ajuste requiere bodega origen o destino")
		}
	}

	if utf8.RuneCountInString(m.Reference) > MaxReferenceLength {
		return domain.NewValidationError("reference", fmt.Sprintf("máximo %d caracteres", MaxReferenceLength))
	}

	if len(m.Lines) == 0 {
		return domain.NewValidationError("lines", "debe tener al menos una línea")
	}
	for i, l := range m.Lines {
		if l.ItemID == "" {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].item_id", i), "requerido")
		}
		if m.Type == entity.MovementTypeAdjustment {
			if l.Quantity.IsZero() {
				return domain.NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "no puede ser cero")
			}
		} else if !l.Quantity.GreaterThan(decimal.Zero) {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "debe ser mayor que cero")
		}
		if !domain.FitsNumeric(l.Quantity, QuantityPrecision, QuantityScale) {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].quantity", i),
				fmt.Sprintf("admite hasta %d decimales y %d enteros", QuantityScale, QuantityPrecision-QuantityScale))
		}
		if l.UnitCost.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].unit_cost", i), "no puede ser negativo")
		}
		if !domain.FitsNumeric(l.UnitCost, UnitCostPrecision, UnitCostScale) {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].unit_cost", i),
				fmt.Sprintf("admite hasta %d decimales y %d enteros", UnitCostScale, UnitCostPrecision-UnitCostScale))
		}
	}
	return nil
}
