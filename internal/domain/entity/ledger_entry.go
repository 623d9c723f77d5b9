package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry es un renglón del kardex: un delta aplicado a un saldo por un movimiento confirmado.
// Solo se inserta; nunca se actualiza ni se borra.
type LedgerEntry struct {
	ID             string
	MovementID     string
	MovementType   MovementType
	ItemID         string
	WarehouseID    string
	Quantity       decimal.Decimal // positivo entrada, negativo salida
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal
	BalanceQty     decimal.Decimal // saldo después del delta
	BalanceAvgCost decimal.Decimal // costo promedio después del delta
	PostedAt       time.Time
	PostedBy       string
}
