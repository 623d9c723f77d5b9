package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// CreateInput datos para crear una orden en borrador.
type CreateInput struct {
	SupplierID     string
	OrderDate      time.Time // cero = hoy
	ExpectedDate   *time.Time
	Notes          string
	DiscountAmount decimal.Decimal
	Lines          []LineInput
	CreatedBy      string
}

// LineInput línea de la orden.
type LineInput struct {
	ItemID          string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
}

// Workflow gobierna el ciclo de vida de la orden de compra:
// draft -> pending -> approved -> sent -> received, cancelable en draft o pending.
type Workflow struct {
	txRunner TxRunner
	orders   repository.PurchaseOrderRepository // lecturas fuera de transacción
	poster   MovementPoster
	taxRate  decimal.Decimal
	log      *logger.Logger
	cache    inventory.CacheInvalidator
	now      func() time.Time
}

// NewWorkflow construye el flujo. taxRate es la tasa de impuesto configurada (ej. 0.15).
func NewWorkflow(
	txRunner TxRunner,
	orders repository.PurchaseOrderRepository,
	poster MovementPoster,
	taxRate decimal.Decimal,
	log *logger.Logger,
) *Workflow {
	return &Workflow{
		txRunner: txRunner,
		orders:   orders,
		poster:   poster,
		taxRate:  taxRate,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithCacheInvalidator registra la caché de reportes a invalidar tras cada cambio de orden.
func (w *Workflow) WithCacheInvalidator(c inventory.CacheInvalidator) *Workflow {
	w.cache = c
	return w
}

// txRepos repos de inventario atados a la transacción de la orden.
type txRepos struct {
	movements repository.MovementRepository
	balances  repository.StockBalanceRepository
	entries   repository.LedgerEntryRepository
}

// Create valida, calcula totales, asigna consecutivo y guarda la orden en borrador.
func (w *Workflow) Create(ctx context.Context, in CreateInput) (*entity.PurchaseOrder, error) {
	if in.SupplierID == "" {
		return nil, domain.NewValidationError("supplier_id", "requerido")
	}
	if in.CreatedBy == "" {
		return nil, domain.NewValidationError("created_by", "requerido")
	}
	now := w.now()
	o := &entity.PurchaseOrder{
		ID:             uuid.New().String(),
		SupplierID:     in.SupplierID,
		Status:         entity.OrderStatusDraft,
		OrderDate:      in.OrderDate,
		ExpectedDate:   in.ExpectedDate,
		Notes:          in.Notes,
		TaxRate:        w.taxRate,
		DiscountAmount: in.DiscountAmount,
		CreatedBy:      in.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = now
	}
	o.Lines = make([]entity.PurchaseOrderLine, len(in.Lines))
	for i, l := range in.Lines {
		o.Lines[i] = entity.PurchaseOrderLine{
			ID:              uuid.New().String(),
			OrderID:         o.ID,
			ItemID:          l.ItemID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
		}
	}
	if err := purchasing.ApplyTotals(o); err != nil {
		return nil, err
	}

	err := w.txRunner.RunPurchasing(ctx, func(
		orderRepo repository.PurchaseOrderRepository,
		_ repository.MovementRepository,
		_ repository.StockBalanceRepository,
		_ repository.LedgerEntryRepository,
	) error {
		no, err := orderRepo.NextOrderNo(ctx, o.OrderDate)
		if err != nil {
			return err
		}
		o.OrderNo = no
		return orderRepo.Create(ctx, o)
	})
	if err != nil {
		w.logRejected(err, "", "create", in.CreatedBy)
		return nil, err
	}
	w.log.Info().Str("order_id", o.ID).Str("order_no", o.OrderNo).Str("actor", in.CreatedBy).
		Str("total", o.TotalAmount.String()).Msg("orden de compra creada")
	return o, nil
}

// Submit envía la orden a aprobación.
func (w *Workflow) Submit(ctx context.Context, id, actor string) (*entity.PurchaseOrder, error) {
	return w.advance(ctx, id, entity.OrderStatusPending, actor, "submit",
		func(o *entity.PurchaseOrder, _ txRepos, _ time.Time) error {
			return purchasing.ValidateLines(o.Lines)
		})
}

// Approve aprueba una orden pendiente. approvedBy es obligatorio.
func (w *Workflow) Approve(ctx context.Context, id, approvedBy string) (*entity.PurchaseOrder, error) {
	if approvedBy == "" {
		return nil, domain.NewValidationError("approved_by", "requerido")
	}
	return w.advance(ctx, id, entity.OrderStatusApproved, approvedBy, "approve",
		func(o *entity.PurchaseOrder, _ txRepos, now time.Time) error {
			o.ApprovedBy = approvedBy
			o.ApprovedAt = &now
			return nil
		})
}

// Send marca la orden como enviada al proveedor.
func (w *Workflow) Send(ctx context.Context, id, actor string) (*entity.PurchaseOrder, error) {
	return w.advance(ctx, id, entity.OrderStatusSent, actor, "send",
		func(o *entity.PurchaseOrder, _ txRepos, now time.Time) error {
			o.SentAt = &now
			return nil
		})
}

// Receive recibe la mercancía en warehouseID: crea y confirma un movimiento de entrada
// en la misma transacción que el cambio a received. Si algo falla la orden sigue en sent
// y ningún saldo cambia.
func (w *Workflow) Receive(ctx context.Context, id, warehouseID, receivedBy string) (*entity.PurchaseOrder, error) {
	if receivedBy == "" {
		return nil, domain.NewValidationError("received_by", "requerido")
	}
	if warehouseID == "" {
		return nil, domain.NewValidationError("warehouse_id", "requerido")
	}
	return w.advance(ctx, id, entity.OrderStatusReceived, receivedBy, "receive",
		func(o *entity.PurchaseOrder, tx txRepos, now time.Time) error {
			draft := inventory.DraftInput{
				Type:          entity.MovementTypeReceipt,
				MovementDate:  now,
				ToWarehouseID: warehouseID,
				Reference:     o.OrderNo,
				Notes:         "Recepción de orden de compra " + o.OrderNo,
				CreatedBy:     receivedBy,
				Lines:         make([]inventory.LineInput, 0, len(o.Lines)),
			}
			for _, l := range o.Lines {
				draft.Lines = append(draft.Lines, inventory.LineInput{
					ItemID:   l.ItemID,
					Quantity: l.Quantity,
					UnitCost: l.UnitPrice,
				})
			}
			m, err := w.poster.CreateDraftInTx(ctx, tx.movements, draft)
			if err != nil {
				return err
			}
			if _, err := w.poster.ConfirmInTx(ctx, tx.movements, tx.balances, tx.entries, m.ID, receivedBy); err != nil {
				return err
			}
			o.ReceivedBy = receivedBy
			o.ReceivedAt = &now
			o.ReceiptWarehouseID = warehouseID
			o.ReceiptMovementID = m.ID
			return nil
		})
}

// Cancel anula la orden (solo desde draft o pending).
func (w *Workflow) Cancel(ctx context.Context, id, actor string) (*entity.PurchaseOrder, error) {
	return w.advance(ctx, id, entity.OrderStatusCancelled, actor, "cancel",
		func(o *entity.PurchaseOrder, _ txRepos, now time.Time) error {
			o.CancelledBy = actor
			o.CancelledAt = &now
			return nil
		})
}

// Get devuelve la orden con sus líneas.
func (w *Workflow) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return w.orders.GetByID(ctx, id)
}

// List lista órdenes según el filtro; devuelve también el total sin paginar.
func (w *Workflow) List(ctx context.Context, f repository.OrderFilter) ([]*entity.PurchaseOrder, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return w.orders.List(ctx, f)
}

// advance bloquea la orden, valida la transición contra la tabla, aplica los cambios propios
// del paso y persiste, todo en una transacción.
func (w *Workflow) advance(
	ctx context.Context,
	id string,
	target entity.OrderStatus,
	actor, op string,
	apply func(o *entity.PurchaseOrder, tx txRepos, now time.Time) error,
) (*entity.PurchaseOrder, error) {
	if actor == "" {
		return nil, domain.NewValidationError("actor", "requerido")
	}
	var out *entity.PurchaseOrder
	err := w.txRunner.RunPurchasing(ctx, func(
		orderRepo repository.PurchaseOrderRepository,
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		entryRepo repository.LedgerEntryRepository,
	) error {
		o, err := orderRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := purchasing.TransitionOrder(o.Status, target); err != nil {
			return err
		}
		now := w.now()
		if err := apply(o, txRepos{movements: movRepo, balances: balanceRepo, entries: entryRepo}, now); err != nil {
			return err
		}
		o.Status = target
		o.UpdatedAt = now
		if err := orderRepo.Update(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		w.logRejected(err, id, op, actor)
		return nil, err
	}
	w.log.Info().Str("order_id", out.ID).Str("order_no", out.OrderNo).Str("status", string(out.Status)).
		Str("actor", actor).Msg("orden de compra actualizada")
	inventory.BumpCache(ctx, w.cache, w.log)
	return out, nil
}

func (w *Workflow) logRejected(err error, orderID, op, actor string) {
	ev := w.log.Error()
	if domain.IsBusinessError(err) {
		ev = w.log.Warn()
	}
	ev.Err(err).Str("order_id", orderID).Str("op", op).Str("actor", actor).Msg("operación de orden rechazada")
}
