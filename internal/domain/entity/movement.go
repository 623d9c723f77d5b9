package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

const (
	MovementTypeReceipt    MovementType = "receipt"    // entrada a bodega destino
	MovementTypeIssue      MovementType = "issue"      // salida de bodega origen
	MovementTypeTransfer   MovementType = "transfer"   // traslado entre bodegas
	MovementTypeAdjustment MovementType = "adjustment" // ajuste con cantidad firmada
)

// IsValid indica si el tipo es uno de los soportados.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeReceipt, MovementTypeIssue, MovementTypeTransfer, MovementTypeAdjustment:
		return true
	}
	return false
}

// MovementStatus estado del ciclo de vida de un movimiento.
type MovementStatus string

const (
	MovementStatusDraft     MovementStatus = "draft"
	MovementStatusConfirmed MovementStatus = "confirmed"
	MovementStatusCancelled MovementStatus = "cancelled"
)

// Movement es una transacción de inventario que afecta una o dos bodegas.
// En borrador sus líneas son mutables; al confirmarse queda congelado.
type Movement struct {
	ID              string
	Type            MovementType
	Status          MovementStatus
	MovementDate    time.Time
	FromWarehouseID string // requerido en issue/transfer
	ToWarehouseID   string // requerido en receipt/transfer
	Reference       string // documento origen (ej. número de orden de compra)
	Notes           string
	TotalAmount     decimal.Decimal
	Lines           []MovementLine
	CreatedBy       string
	ConfirmedBy     string
	ConfirmedAt     *time.Time
	CancelledBy     string
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MovementLine línea de un movimiento. Quantity es positiva salvo en ajustes, donde el signo indica la dirección.
type MovementLine struct {
	ID         string
	MovementID string
	LineNo     int
	ItemID     string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	LineTotal  decimal.Decimal
}

// RecalculateTotals recalcula el total de cada línea y el total del movimiento.
func (m *Movement) RecalculateTotals() {
	total := decimal.Zero
	for i := range m.Lines {
		l := &m.Lines[i]
		l.LineTotal = l.Quantity.Abs().Mul(l.UnitCost)
		total = total.Add(l.LineTotal)
	}
	m.TotalAmount = total
}

// IsDraft indica si el movimiento aún admite cambios.
func (m *Movement) IsDraft() bool { return m.Status == MovementStatusDraft }

// Clone copia profunda (incluye líneas) para no compartir slices entre llamadores.
func (m *Movement) Clone() *Movement {
	c := *m
	c.Lines = append([]MovementLine(nil), m.Lines...)
	c.ConfirmedAt = cloneTime(m.ConfirmedAt)
	c.CancelledAt = cloneTime(m.CancelledAt)
	return &c
}
