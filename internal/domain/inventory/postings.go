package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CostBasis indica de dónde sale el costo unitario de una posting.
type CostBasis int

const (
	// CostSupplied usa el UnitCost de la línea (entradas y ajustes positivos).
	CostSupplied CostBasis = iota
	// CostAverage usa el costo promedio vigente del saldo que se descarga.
	CostAverage
	// CostCarried usa el costo de la posting anterior: la pierna de entrada de un traslado
	// lleva el costo promedio de la bodega origen, sin crear una base de costo nueva.
	CostCarried
)

// Posting es un delta firmado que el libro debe aplicar a un saldo.
type Posting struct {
	LineIndex int
	Key       entity.BalanceKey
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Basis     CostBasis
}

// PlanPostings traduce cada línea del movimiento en uno o dos deltas, en el orden de las líneas.
// El movimiento debe haber pasado ValidateMovement.
func PlanPostings(m *entity.Movement) []Posting {
	postings := make([]Posting, 0, len(m.Lines)*2)
	for i, l := range m.Lines {
		switch m.Type {
		case entity.MovementTypeReceipt:
			postings = append(postings, Posting{
				LineIndex: i,
				Key:       entity.BalanceKey{ItemID: l.ItemID, WarehouseID: m.ToWarehouseID},
				Quantity:  l.Quantity,
				UnitCost:  l.UnitCost,
				Basis:     CostSupplied,
			})
		case entity.MovementTypeIssue:
			postings = append(postings, Posting{
				LineIndex: i,
				Key:       entity.BalanceKey{ItemID: l.ItemID, WarehouseID: m.FromWarehouseID},
				Quantity:  l.Quantity.Neg(),
				Basis:     CostAverage,
			})
		case entity.MovementTypeTransfer:
			postings = append(postings,
				Posting{
					LineIndex: i,
					Key:       entity.BalanceKey{ItemID: l.ItemID, WarehouseID: m.FromWarehouseID},
					Quantity:  l.Quantity.Neg(),
					Basis:     CostAverage,
				},
				Posting{
					LineIndex: i,
					Key:       entity.BalanceKey{ItemID: l.ItemID, WarehouseID: m.ToWarehouseID},
					Quantity:  l.Quantity,
					Basis:     CostCarried,
				},
			)
		case entity.MovementTypeAdjustment:
			p := Posting{LineIndex: i, Quantity: l.Quantity}
			if l.Quantity.IsPositive() {
				p.Key = entity.BalanceKey{ItemID: l.ItemID, WarehouseID: adjustmentWarehouse(m.ToWarehouseID, m.FromWarehouseID)}
				p.UnitCost = l.UnitCost
				p.Basis = CostSupplied
			} else {
				p.Key = entity.BalanceKey{ItemID: l.ItemID, WarehouseID: adjustmentWarehouse(m.FromWarehouseID, m.ToWarehouseID)}
				p.Basis = CostAverage
			}
			postings = append(postings, p)
		}
	}
	return postings
}

// adjustmentWarehouse: los ajustes positivos entran por destino y los negativos salen por origen;
// si solo hay una bodega, se usa esa para ambos sentidos.
func adjustmentWarehouse(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}

// LockOrder devuelve las claves distintas de las postings en orden de bloqueo determinista
// (item ascendente, bodega ascendente) para evitar deadlocks entre movimientos concurrentes.
func LockOrder(postings []Posting) []entity.BalanceKey {
	seen := make(map[entity.BalanceKey]struct{}, len(postings))
	keys := make([]entity.BalanceKey, 0, len(postings))
	for _, p := range postings {
		if _, ok := seen[p.Key]; ok {
			continue
		}
		seen[p.Key] = struct{}{}
		keys = append(keys, p.Key)
	}
	SortKeys(keys)
	return keys
}

// SortKeys ordena claves en el orden de bloqueo.
func SortKeys(keys []entity.BalanceKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}
