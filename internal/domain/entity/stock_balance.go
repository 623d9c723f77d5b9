package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceKey identifica un saldo: un item en una bodega.
type BalanceKey struct {
	ItemID      string
	WarehouseID string
}

// Less define el orden de bloqueo: item ascendente y luego bodega ascendente.
func (k BalanceKey) Less(o BalanceKey) bool {
	if k.ItemID != o.ItemID {
		return k.ItemID < o.ItemID
	}
	return k.WarehouseID < o.WarehouseID
}

// StockBalance es el saldo corriente de un item en una bodega con su costo promedio móvil.
// Se crea al aplicar el primer delta y nunca se borra (un saldo en cero queda como ancla histórica).
type StockBalance struct {
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal // siempre >= 0
	AverageCost decimal.Decimal // cero solo cuando Quantity = 0
	UpdatedAt   time.Time
	Version     int64 // contador de concurrencia optimista; 0 = fila aún no persistida
}

// NewStockBalance devuelve el saldo en cero para la clave.
func NewStockBalance(key BalanceKey) *StockBalance {
	return &StockBalance{
		ItemID:      key.ItemID,
		WarehouseID: key.WarehouseID,
		Quantity:    decimal.Zero,
		AverageCost: decimal.Zero,
	}
}

// Key devuelve la clave (item, bodega) del saldo.
func (b *StockBalance) Key() BalanceKey {
	return BalanceKey{ItemID: b.ItemID, WarehouseID: b.WarehouseID}
}

// Value valoriza el saldo: cantidad * costo promedio.
func (b *StockBalance) Value() decimal.Decimal {
	return b.Quantity.Mul(b.AverageCost)
}

// Clone copia el saldo para que el llamador no comparta estado mutable.
func (b *StockBalance) Clone() *StockBalance {
	c := *b
	return &c
}
