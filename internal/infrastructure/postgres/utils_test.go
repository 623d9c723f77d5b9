package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestMapError(t *testing.T) {
	t.Run("duplicado", func(t *testing.T) {
		err := mapError("create", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "purchase_orders_order_no_key"})
		assert.True(t, errors.Is(err, domain.ErrDuplicate))
	})
	t.Run("clave foránea", func(t *testing.T) {
		err := mapError("create", &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "movements_from_warehouse_id_fkey"})
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "from_warehouse_id", ve.Field)
	})
	t.Run("texto demasiado largo", func(t *testing.T) {
		err := mapError("create", &pgconn.PgError{Code: codeStringTooLong, Message: "value too long for type character varying(64)"})
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "value", ve.Field)
		assert.True(t, domain.IsBusinessError(err))
	})
	t.Run("desborde numérico", func(t *testing.T) {
		err := mapError("create", &pgconn.PgError{Code: codeNumericOutOfRange, ColumnName: "quantity", Message: "numeric field overflow"})
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "quantity", ve.Field)
	})
	t.Run("concurrencia", func(t *testing.T) {
		for _, code := range []string{codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable} {
			err := mapError("lock", &pgconn.PgError{Code: code})
			assert.True(t, errors.Is(err, domain.ErrConcurrencyConflict), code)
		}
	})
	t.Run("otro", func(t *testing.T) {
		cause := errors.New("conexión cerrada")
		err := mapError("get", cause)
		assert.ErrorIs(t, err, cause)
		assert.False(t, domain.IsBusinessError(err))
	})
}

func TestFkField(t *testing.T) {
	assert.Equal(t, "item_id", fkField("movement_lines_item_id_fkey"))
	assert.Equal(t, "receipt_warehouse_id", fkField("purchase_orders_receipt_warehouse_id_fkey"))
	assert.Equal(t, "supplier_id", fkField("purchase_orders_supplier_id_fkey"))
	assert.Equal(t, "raro", fkField("raro"))
}

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db", pgx5URL("postgres://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://u:p@h/db", pgx5URL("postgresql://u:p@h/db"))
	assert.Equal(t, "pgx5://x", pgx5URL("pgx5://x"))
}
