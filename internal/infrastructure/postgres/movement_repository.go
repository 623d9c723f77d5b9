package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `
	id, type, status, movement_date, from_warehouse_id, to_warehouse_id, reference, notes,
	total_amount, created_by, confirmed_by, confirmed_at, cancelled_by, cancelled_at, created_at, updated_at`

// Create persiste la cabecera y sus líneas.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	const query = `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		m.ID, string(m.Type), string(m.Status), m.MovementDate,
		nullString(m.FromWarehouseID), nullString(m.ToWarehouseID), m.Reference, m.Notes,
		m.TotalAmount, m.CreatedBy, nullString(m.ConfirmedBy), m.ConfirmedAt,
		nullString(m.CancelledBy), m.CancelledAt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return mapError("create movement", err)
	}
	const line = `
		INSERT INTO movement_lines (id, movement_id, line_no, item_id, quantity, unit_cost, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, l := range m.Lines {
		if _, err := r.q.Exec(ctx, line, l.ID, m.ID, l.LineNo, l.ItemID, l.Quantity, l.UnitCost, l.LineTotal); err != nil {
			return mapError("create movement line", err)
		}
	}
	return nil
}

// GetByID obtiene el movimiento con sus líneas.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate bloquea la cabecera hasta el fin de la transacción.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *MovementRepo) get(ctx context.Context, id, suffix string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1` + suffix
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("movement %s: %w", id, domain.ErrNotFound)
		}
		return nil, mapError("get movement", err)
	}
	if err := r.loadLines(ctx, []*entity.Movement{m}); err != nil {
		return nil, err
	}
	return m, nil
}

// Update reescribe la cabecera y el costo de cada línea.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	const query = `
		UPDATE movements
		SET status = $2, total_amount = $3, confirmed_by = $4, confirmed_at = $5,
		    cancelled_by = $6, cancelled_at = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		m.ID, string(m.Status), m.TotalAmount, nullString(m.ConfirmedBy), m.ConfirmedAt,
		nullString(m.CancelledBy), m.CancelledAt, m.UpdatedAt,
	)
	if err != nil {
		return mapError("update movement", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("movement %s: %w", m.ID, domain.ErrNotFound)
	}
	const line = `UPDATE movement_lines SET unit_cost = $2, line_total = $3 WHERE id = $1`
	for _, l := range m.Lines {
		if _, err := r.q.Exec(ctx, line, l.ID, l.UnitCost, l.LineTotal); err != nil {
			return mapError("update movement line", err)
		}
	}
	return nil
}

// List lista movimientos por fecha descendente con el total sin paginar.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.WarehouseID != "" {
		args = append(args, f.WarehouseID)
		conds = append(conds, fmt.Sprintf("(from_warehouse_id = $%d OR to_warehouse_id = $%d)", len(args), len(args)))
	}
	if f.From != nil {
		add("movement_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("movement_date <= $%d", *f.To)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM movements"+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError("count movements", err)
	}

	query := `SELECT ` + movementColumns + ` FROM movements` + where +
		fmt.Sprintf(" ORDER BY movement_date DESC, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.q.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, mapError("list movements", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, 0, mapError("scan movement", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list movements", err)
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// loadLines carga las líneas de todos los movimientos en una sola consulta.
func (r *MovementRepo) loadLines(ctx context.Context, list []*entity.Movement) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Movement, len(list))
	ids := make([]string, 0, len(list))
	for _, m := range list {
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}
	const query = `
		SELECT id, movement_id, line_no, item_id, quantity, unit_cost, line_total
		FROM movement_lines WHERE movement_id = ANY($1::uuid[]) ORDER BY movement_id, line_no`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return mapError("list movement lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.MovementLine
		if err := rows.Scan(&l.ID, &l.MovementID, &l.LineNo, &l.ItemID, &l.Quantity, &l.UnitCost, &l.LineTotal); err != nil {
			return mapError("scan movement line", err)
		}
		if m, ok := byID[l.MovementID]; ok {
			m.Lines = append(m.Lines, l)
		}
	}
	return rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m                                  entity.Movement
		typ, status                        string
		from, to, confirmedBy, cancelledBy *string
	)
	err := row.Scan(
		&m.ID, &typ, &status, &m.MovementDate, &from, &to, &m.Reference, &m.Notes,
		&m.TotalAmount, &m.CreatedBy, &confirmedBy, &m.ConfirmedAt, &cancelledBy, &m.CancelledAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	m.Status = entity.MovementStatus(status)
	m.FromWarehouseID = derefString(from)
	m.ToWarehouseID = derefString(to)
	m.ConfirmedBy = derefString(confirmedBy)
	m.CancelledBy = derefString(cancelledBy)
	return &m, nil
}
