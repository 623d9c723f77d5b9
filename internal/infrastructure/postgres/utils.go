package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeStringTooLong        = "22001"
	codeNumericOutOfRange    = "22003"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// fkColumns columnas con clave foránea, de la más específica a la más general.
var fkColumns = []string{
	"from_warehouse_id", "to_warehouse_id", "receipt_warehouse_id", "receipt_movement_id",
	"warehouse_id", "item_id", "supplier_id", "movement_id",
}

// mapError traduce errores de PostgreSQL a errores de dominio y envuelve el resto con op.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrDuplicate)
	case codeForeignKeyViolation:
		return domain.NewValidationError(fkField(pgErr.ConstraintName), "referencia inexistente")
	case codeCheckViolation:
		return domain.NewValidationError(pgErr.ConstraintName, pgErr.Message)
	case codeStringTooLong, codeNumericOutOfRange:
		return domain.NewValidationError(columnField(pgErr), pgErr.Message)
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return fmt.Errorf("%s: %s: %w", op, pgErr.Message, domain.ErrConcurrencyConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// fkField extrae la columna del nombre por defecto del constraint (<tabla>_<columna>_fkey).
func fkField(constraint string) string {
	for _, col := range fkColumns {
		if strings.Contains(constraint, col) {
			return col
		}
	}
	return constraint
}

// columnField PostgreSQL no siempre informa la columna en errores de dato (clase 22).
func columnField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	return "value"
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
