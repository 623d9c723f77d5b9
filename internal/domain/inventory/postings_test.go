package inventory_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func line(item, qty, cost string) entity.MovementLine {
	return entity.MovementLine{ItemID: item, Quantity: d(qty), UnitCost: d(cost)}
}

func TestValidateMovement_ReglasPorTipo(t *testing.T) {
	cases := []struct {
		name  string
		m     entity.Movement
		field string
	}{
		{"tipo desconocido", entity.Movement{Type: "loss", ToWarehouseID: "W1", Lines: []entity.MovementLine{line("X", "1", "1")}}, "type"},
		{"entrada sin destino", entity.Movement{Type: entity.MovementTypeReceipt, Lines: []entity.MovementLine{line("X", "1", "1")}}, "to_warehouse_id"},
		{"entrada con origen", entity.Movement{Type: entity.MovementTypeReceipt, FromWarehouseID: "W1", ToWarehouseID: "W2", Lines: []entity.MovementLine{line("X", "1", "1")}}, "from_warehouse_id"},
		{"salida sin origen", entity.Movement{Type: entity.MovementTypeIssue, Lines: []entity.MovementLine{line("X", "1", "1")}}, "from_warehouse_id"},
		{"salida con destino", entity.Movement{Type: entity.MovementTypeIssue, FromWarehouseID: "W1", ToWarehouseID: "W2", Lines: []entity.MovementLine{line("X", "1", "1")}}, "to_warehouse_id"},
		{"traslado misma bodega", entity.Movement{Type: entity.MovementTypeTransfer, FromWarehouseID: "W1", ToWarehouseID: "W1", Lines: []entity.MovementLine{line("X", "1", "1")}}, "to_warehouse_id"},
		{"ajuste sin bodega", entity.Movement{Type: entity.MovementTypeAdjustment, Lines: []entity.MovementLine{line("X", "1", "1")}}, "warehouse_id"},
		{"sin líneas", entity.Movement{Type: entity.MovementTypeReceipt, ToWarehouseID: "W1"}, "lines"},
		{"cantidad cero", entity.Movement{Type: entity.MovementTypeReceipt, ToWarehouseID: "W1", Lines: []entity.MovementLine{line("X", "0", "1")}}, "lines[0].quantity"},
		{"cantidad negativa en salida", entity.Movement{Type: entity.MovementTypeIssue, FromWarehouseID: "W1", Lines: []entity.MovementLine{line("X", "-2", "0")}}, "lines[0].quantity"},
		{"ajuste cero", entity.Movement{Type: entity.MovementTypeAdjustment, ToWarehouseID: "W1", Lines: []entity.MovementLine{line("X", "0", "0")}}, "lines[0].quantity"},
		{"costo negativo", entity.Movement{Type: entity.MovementTypeReceipt, ToWarehouseID: "W1", Lines: []entity.MovementLine{line("X", "1", "1"), line("Y", "1", "-1")}}, "lines[1].unit_cost"},
		{"cantidad bajo la escala", entity.Movement{Type: entity.MovementTypeReceipt, ToWarehouseID: "W1", Lines: []entity.MovementLine{line("X", "0.00001", "1")}}, "lines[0].quantity"},
		{"cantidad con redondeo", entity.Movement{Type: entity.MovementTypeReceipt, ToWarehouseID: "W1", Lines: []entity.MovementLine{line("X", "1.00005", "1")}}, "lines[0].quantity"},
		{"cantidad desborda", entity.Movement{Type: entity.MovementTypeReceipt, ToWarehouseID: "W1", Lines: []entity.MovementLine{line("X", "100000000000000", "1")}}, "lines[0].quantity"},
		{"costo con 7 decimales", entity.Movement{Type: entity.MovementTypeReceipt, ToWarehouseID: "W1", Lines: []entity.MovementLine{line("X", "1", "0.1234567")}}, "lines[0].unit_cost"},
		{"referencia larga", entity.Movement{Type: entity.MovementTypeReceipt, ToWarehouseID: "W1", Reference: strings.Repeat("r", 65), Lines: []entity.MovementLine{line("X", "1", "1")}}, "reference"},
		{"item vacío", entity.Movement{Type: entity.MovementTypeReceipt, ToWarehouseID: "W1", Lines: []entity.MovementLine{line("", "1", "1")}}, "lines[0].item_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := inventory.ValidateMovement(&tc.m)
			require.Error(t, err)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestValidateMovement_AjusteNegativoPermitido(t *testing.T) {
	m := entity.Movement{Type: entity.MovementTypeAdjustment, FromWarehouseID: "W1", Lines: []entity.MovementLine{line("X", "-3", "0")}}
	assert.NoError(t, inventory.ValidateMovement(&m))
}

func TestValidateMovement_EscalaDeColumnas(t *testing.T) {
	m := entity.Movement{
		Type: entity.MovementTypeReceipt, ToWarehouseID: "W1", Reference: strings.Repeat("r", 64),
		Lines: []entity.MovementLine{line("X", "0.0001", "0.123456"), line("Y", "2.500000", "10")},
	}
	assert.NoError(t, inventory.ValidateMovement(&m))
}

func TestPlanPostings_Traslado(t *testing.T) {
	m := entity.Movement{
		Type: entity.MovementTypeTransfer, FromWarehouseID: "W1", ToWarehouseID: "W2",
		Lines: []entity.MovementLine{line("X", "4", "0")},
	}
	ps := inventory.PlanPostings(&m)
	require.Len(t, ps, 2)

	assert.Equal(t, entity.BalanceKey{ItemID: "X", WarehouseID: "W1"}, ps[0].Key)
	assert.True(t, ps[0].Quantity.Equal(d("-4")))
	assert.Equal(t, inventory.CostAverage, ps[0].Basis)

	assert.Equal(t, entity.BalanceKey{ItemID: "X", WarehouseID: "W2"}, ps[1].Key)
	assert.True(t, ps[1].Quantity.Equal(d("4")))
	assert.Equal(t, inventory.CostCarried, ps[1].Basis)

	// el traslado conserva la cantidad total del item
	sum := decimal.Zero
	for _, p := range ps {
		sum = sum.Add(p.Quantity)
	}
	assert.True(t, sum.IsZero())
}

func TestPlanPostings_Ajustes(t *testing.T) {
	m := entity.Movement{
		Type: entity.MovementTypeAdjustment, FromWarehouseID: "W1", ToWarehouseID: "W2",
		Lines: []entity.MovementLine{line("X", "2", "3.5"), line("Y", "-1", "0")},
	}
	ps := inventory.PlanPostings(&m)
	require.Len(t, ps, 2)
	assert.Equal(t, "W2", ps[0].Key.WarehouseID, "ajuste positivo entra por destino")
	assert.Equal(t, inventory.CostSupplied, ps[0].Basis)
	assert.True(t, ps[0].UnitCost.Equal(d("3.5")))
	assert.Equal(t, "W1", ps[1].Key.WarehouseID, "ajuste negativo sale por origen")
	assert.Equal(t, inventory.CostAverage, ps[1].Basis)

	single := entity.Movement{
		Type: entity.MovementTypeAdjustment, ToWarehouseID: "W9",
		Lines: []entity.MovementLine{line("Y", "-1", "0")},
	}
	ps = inventory.PlanPostings(&single)
	require.Len(t, ps, 1)
	assert.Equal(t, "W9", ps[0].Key.WarehouseID)
}

func TestLockOrder_DistintasYOrdenadas(t *testing.T) {
	m := entity.Movement{
		Type: entity.MovementTypeTransfer, FromWarehouseID: "W2", ToWarehouseID: "W1",
		Lines: []entity.MovementLine{line("B", "1", "0"), line("A", "1", "0"), line("B", "2", "0")},
	}
	keys := inventory.LockOrder(inventory.PlanPostings(&m))
	assert.Equal(t, []entity.BalanceKey{
		{ItemID: "A", WarehouseID: "W1"},
		{ItemID: "A", WarehouseID: "W2"},
		{ItemID: "B", WarehouseID: "W1"},
		{ItemID: "B", WarehouseID: "W2"},
	}, keys)
}
