package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio. Los errores tipados de abajo envuelven a estos sentinelas,
// así que los llamadores pueden usar errors.Is sin conocer el tipo concreto.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrValidation             = errors.New("entrada inválida")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrConcurrencyConflict    = errors.New("conflicto de concurrencia, reintente la operación")
	ErrDuplicate              = errors.New("recurso duplicado")
)

// ValidationError indica una entrada mal formada que el llamador puede corregir.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError construye un ValidationError para el campo indicado.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InvalidStateTransitionError indica una operación no permitida desde el estado actual.
type InvalidStateTransitionError struct {
	Entity    string // movement, purchase_order
	Current   string
	Attempted string
}

// NewInvalidStateTransition construye el error con el estado actual y la acción intentada.
func NewInvalidStateTransition(entity, current, attempted string) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{Entity: entity, Current: current, Attempted: attempted}
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s: no se permite %q desde el estado %q", e.Entity, e.Attempted, e.Current)
}

func (e *InvalidStateTransitionError) Unwrap() error { return ErrInvalidStateTransition }

// InsufficientStockError indica que el saldo quedaría negativo.
type InsufficientStockError struct {
	ItemID      string
	WarehouseID string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para item %s en bodega %s: disponible %s, solicitado %s",
		e.ItemID, e.WarehouseID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// IsBusinessError indica si err es un rechazo esperable del dominio (no una falla de infraestructura).
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidStateTransition) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConcurrencyConflict) ||
		errors.Is(err, ErrDuplicate)
}
