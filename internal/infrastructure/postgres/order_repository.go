package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación sobre PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador de órdenes de compra.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const orderColumns = `
	id, order_no, supplier_id, status, order_date, expected_date, notes, tax_rate, subtotal,
	tax_amount, discount_amount, total_amount, created_by, approved_by, approved_at, sent_at,
	received_by, received_at, receipt_warehouse_id, receipt_movement_id, cancelled_by, cancelled_at,
	created_at, updated_at`

// Create persiste la cabecera y sus líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	const query = `
		INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.OrderNo, o.SupplierID, string(o.Status), o.OrderDate, o.ExpectedDate, o.Notes, o.TaxRate, o.Subtotal,
		o.TaxAmount, o.DiscountAmount, o.TotalAmount, o.CreatedBy, nullString(o.ApprovedBy), o.ApprovedAt, o.SentAt,
		nullString(o.ReceivedBy), o.ReceivedAt, nullString(o.ReceiptWarehouseID), nullString(o.ReceiptMovementID),
		nullString(o.CancelledBy), o.CancelledAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return mapError("create purchase order", err)
	}
	const line = `
		INSERT INTO purchase_order_lines (id, order_id, line_no, item_id, quantity, unit_price, discount_percent, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, l := range o.Lines {
		if _, err := r.q.Exec(ctx, line,
			l.ID, o.ID, l.LineNo, l.ItemID, l.Quantity, l.UnitPrice, l.DiscountPercent, l.LineTotal,
		); err != nil {
			return mapError("create purchase order line", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate bloquea la cabecera de la orden hasta el fin de la transacción.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id, suffix string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE id = $1` + suffix
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %s: %w", id, domain.ErrNotFound)
		}
		return nil, mapError("get purchase order", err)
	}
	if err := r.loadLines(ctx, []*entity.PurchaseOrder{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// Update persiste estado, sellos de auditoría e importes de la cabecera.
func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	const query = `
		UPDATE purchase_orders
		SET status = $2, subtotal = $3, tax_amount = $4, discount_amount = $5, total_amount = $6,
		    approved_by = $7, approved_at = $8, sent_at = $9, received_by = $10, received_at = $11,
		    receipt_warehouse_id = $12, receipt_movement_id = $13, cancelled_by = $14, cancelled_at = $15,
		    updated_at = $16
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, string(o.Status), o.Subtotal, o.TaxAmount, o.DiscountAmount, o.TotalAmount,
		nullString(o.ApprovedBy), o.ApprovedAt, o.SentAt, nullString(o.ReceivedBy), o.ReceivedAt,
		nullString(o.ReceiptWarehouseID), nullString(o.ReceiptMovementID), nullString(o.CancelledBy), o.CancelledAt,
		o.UpdatedAt,
	)
	if err != nil {
		return mapError("update purchase order", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("purchase order %s: %w", o.ID, domain.ErrNotFound)
	}
	return nil
}

// NextOrderNo toma el siguiente valor de la secuencia: PO-YYYYMMDD-NNNNNN.
// La secuencia no retrocede con un rollback, así que puede haber huecos pero nunca repetidos.
func (r *PurchaseOrderRepo) NextOrderNo(ctx context.Context, at time.Time) (string, error) {
	var seq int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('purchase_order_no_seq')`).Scan(&seq); err != nil {
		return "", mapError("next order no", err)
	}
	return fmt.Sprintf("PO-%s-%06d", at.Format("20060102"), seq), nil
}

// List lista órdenes por fecha descendente con el total sin paginar.
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.PurchaseOrder, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.SupplierID != "" {
		add("supplier_id = $%d", f.SupplierID)
	}
	if f.From != nil {
		add("order_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("order_date <= $%d", *f.To)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM purchase_orders"+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError("count purchase orders", err)
	}

	query := `SELECT ` + orderColumns + ` FROM purchase_orders` + where +
		fmt.Sprintf(" ORDER BY order_date DESC, order_no DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.q.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, mapError("list purchase orders", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, mapError("scan purchase order", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list purchase orders", err)
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *PurchaseOrderRepo) loadLines(ctx context.Context, list []*entity.PurchaseOrder) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*entity.PurchaseOrder, len(list))
	ids := make([]string, 0, len(list))
	for _, o := range list {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	const query = `
		SELECT id, order_id, line_no, item_id, quantity, unit_price, discount_percent, line_total
		FROM purchase_order_lines WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, line_no`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return mapError("list purchase order lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.LineNo, &l.ItemID, &l.Quantity, &l.UnitPrice, &l.DiscountPercent, &l.LineTotal); err != nil {
			return mapError("scan purchase order line", err)
		}
		if o, ok := byID[l.OrderID]; ok {
			o.Lines = append(o.Lines, l)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var (
		o                                                     entity.PurchaseOrder
		status                                                string
		approvedBy, receivedBy, receiptWh, receiptMov, cancel *string
	)
	err := row.Scan(
		&o.ID, &o.OrderNo, &o.SupplierID, &status, &o.OrderDate, &o.ExpectedDate, &o.Notes, &o.TaxRate, &o.Subtotal,
		&o.TaxAmount, &o.DiscountAmount, &o.TotalAmount, &o.CreatedBy, &approvedBy, &o.ApprovedAt, &o.SentAt,
		&receivedBy, &o.ReceivedAt, &receiptWh, &receiptMov, &cancel, &o.CancelledAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	o.ApprovedBy = derefString(approvedBy)
	o.ReceivedBy = derefString(receivedBy)
	o.ReceiptWarehouseID = derefString(receiptWh)
	o.ReceiptMovementID = derefString(receiptMov)
	o.CancelledBy = derefString(cancel)
	return &o, nil
}
