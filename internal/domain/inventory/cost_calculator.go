package inventory

import "github.com/shopspring/decimal"

// AvgCostPlaces decimales con los que se guarda el costo promedio (NUMERIC(18,6)).
const AvgCostPlaces = 6

// MovingAverageCost implementa el costo promedio ponderado móvil (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func MovingAverageCost(currentQty, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	sum := currentQty.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := currentQty.Mul(currentCost).Add(inQty.Mul(inCost))
	return num.DivRound(sum, AvgCostPlaces)
}
