package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMovingAverageCost_PrimeraEntrada(t *testing.T) {
	got := inventory.MovingAverageCost(decimal.Zero, decimal.Zero, d("10"), d("5.00"))
	assert.True(t, got.Equal(d("5")), "sobre saldo vacío el promedio es el costo de entrada, got %s", got)
}

func TestMovingAverageCost_DosEntradas(t *testing.T) {
	// 10 @ 4.00 + 10 @ 6.00 => 20 @ 5.00
	got := inventory.MovingAverageCost(d("10"), d("4.00"), d("10"), d("6.00"))
	assert.True(t, got.Equal(d("5")), "got %s", got)
}

func TestMovingAverageCost_PonderadoPorVolumen(t *testing.T) {
	// (3*2 + 1*10) / 4 = 4
	got := inventory.MovingAverageCost(d("3"), d("2"), d("1"), d("10"))
	assert.True(t, got.Equal(d("4")), "got %s", got)
}

func TestMovingAverageCost_RedondeoSeisDecimales(t *testing.T) {
	// (1*1 + 2*0) / 3 = 0.333333
	got := inventory.MovingAverageCost(d("1"), d("1"), d("2"), decimal.Zero)
	assert.Equal(t, "0.333333", got.StringFixed(inventory.AvgCostPlaces))
}

func TestMovingAverageCost_SumaCeroDevuelveCero(t *testing.T) {
	got := inventory.MovingAverageCost(decimal.Zero, d("7"), decimal.Zero, d("9"))
	assert.True(t, got.IsZero())
}

// Propiedad: una secuencia de entradas deja el promedio ponderado por volumen de todos los costos.
func TestMovingAverageCost_SecuenciaEqualsMediaPonderada(t *testing.T) {
	receipts := []struct{ qty, cost string }{
		{"5", "10.00"}, {"3", "12.50"}, {"12", "9.75"}, {"1", "40.00"}, {"7.5", "11.20"},
	}
	qty, avg := decimal.Zero, decimal.Zero
	sumQty, sumValue := decimal.Zero, decimal.Zero
	for _, r := range receipts {
		avg = inventory.MovingAverageCost(qty, avg, d(r.qty), d(r.cost))
		qty = qty.Add(d(r.qty))
		sumQty = sumQty.Add(d(r.qty))
		sumValue = sumValue.Add(d(r.qty).Mul(d(r.cost)))
	}
	want := sumValue.Div(sumQty)
	assert.True(t, avg.Sub(want).Abs().LessThan(d("0.0001")), "avg %s, esperado %s", avg, want)
}
