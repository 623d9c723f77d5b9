package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// DraftInput datos para crear un movimiento en borrador.
type DraftInput struct {
	Type            entity.MovementType
	MovementDate    time.Time // cero = ahora
	FromWarehouseID string
	ToWarehouseID   string
	Reference       string
	Notes           string
	Lines           []LineInput
	CreatedBy       string
}

// LineInput línea de un borrador. En ajustes Quantity lleva signo.
type LineInput struct {
	ItemID   string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// MovementEngine valida movimientos, gobierna su ciclo de vida y, al confirmar,
// aplica todos sus deltas sobre el libro en una sola transacción.
type MovementEngine struct {
	txRunner  TxRunner
	movements repository.MovementRepository // lecturas fuera de transacción
	ledger    *StockLedger
	log       *logger.Logger
	cache     CacheInvalidator
	now       func() time.Time
}

// NewMovementEngine construye el motor de movimientos.
func NewMovementEngine(txRunner TxRunner, movements repository.MovementRepository, ledger *StockLedger, log *logger.Logger) *MovementEngine {
	return &MovementEngine{
		txRunner:  txRunner,
		movements: movements,
		ledger:    ledger,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithCacheInvalidator registra la caché de reportes a invalidar tras cada confirmación.
func (e *MovementEngine) WithCacheInvalidator(c CacheInvalidator) *MovementEngine {
	e.cache = c
	return e
}

// CreateDraft valida y guarda un movimiento en borrador. No toca saldos.
func (e *MovementEngine) CreateDraft(ctx context.Context, in DraftInput) (*entity.Movement, error) {
	var created *entity.Movement
	err := e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.StockBalanceRepository,
		_ repository.LedgerEntryRepository,
	) error {
		m, err := e.CreateDraftInTx(ctx, movRepo, in)
		if err != nil {
			return err
		}
		created = m
		return nil
	})
	if err != nil {
		e.logRejected(err, "", "create_draft", in.CreatedBy)
		return nil, err
	}
	return created, nil
}

// CreateDraftInTx igual que CreateDraft pero con el repositorio de la transacción del llamador.
func (e *MovementEngine) CreateDraftInTx(ctx context.Context, movRepo repository.MovementRepository, in DraftInput) (*entity.Movement, error) {
	if in.CreatedBy == "" {
		return nil, domain.NewValidationError("created_by", "requerido")
	}
	now := e.now()
	m := &entity.Movement{
		ID:              uuid.New().String(),
		Type:            in.Type,
		Status:          entity.MovementStatusDraft,
		MovementDate:    in.MovementDate,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Reference:       in.Reference,
		Notes:           in.Notes,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if m.MovementDate.IsZero() {
		m.MovementDate = now
	}
	m.Lines = make([]entity.MovementLine, len(in.Lines))
	for i, l := range in.Lines {
		m.Lines[i] = entity.MovementLine{
			ID:         uuid.New().String(),
			MovementID: m.ID,
			LineNo:     i + 1,
			ItemID:     l.ItemID,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitCost,
		}
	}
	if err := inventory.ValidateMovement(m); err != nil {
		return nil, err
	}
	m.RecalculateTotals()

	if err := movRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Confirm aplica el movimiento al libro. Todo o nada: si un delta falla, ningún saldo cambia
// y el movimiento sigue en borrador.
func (e *MovementEngine) Confirm(ctx context.Context, movementID, confirmedBy string) (*entity.Movement, error) {
	var confirmed *entity.Movement
	err := e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		entryRepo repository.LedgerEntryRepository,
	) error {
		m, err := e.ConfirmInTx(ctx, movRepo, balanceRepo, entryRepo, movementID, confirmedBy)
		if err != nil {
			return err
		}
		confirmed = m
		return nil
	})
	if err != nil {
		e.logRejected(err, movementID, "confirm", confirmedBy)
		return nil, err
	}
	e.log.Info().
		Str("movement_id", confirmed.ID).
		Str("type", string(confirmed.Type)).
		Str("actor", confirmedBy).
		Str("total", confirmed.TotalAmount.String()).
		Msg("movimiento confirmado")
	BumpCache(ctx, e.cache, e.log)
	return confirmed, nil
}

// ConfirmInTx confirma usando los repositorios de la transacción del llamador.
// Orden de trabajo: bloquear el movimiento, bloquear saldos en orden, aplicar deltas, escribir kardex.
func (e *MovementEngine) ConfirmInTx(
	ctx context.Context,
	movRepo repository.MovementRepository,
	balanceRepo repository.StockBalanceRepository,
	entryRepo repository.LedgerEntryRepository,
	movementID, confirmedBy string,
) (*entity.Movement, error) {
	if confirmedBy == "" {
		return nil, domain.NewValidationError("confirmed_by", "requerido")
	}
	m, err := movRepo.GetForUpdate(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if err := inventory.TransitionMovement(m.Status, entity.MovementStatusConfirmed); err != nil {
		return nil, err
	}
	if err := inventory.ValidateMovement(m); err != nil {
		return nil, err
	}

	postings := inventory.PlanPostings(m)
	if err := e.ledger.LockBalances(ctx, balanceRepo, inventory.LockOrder(postings)); err != nil {
		return nil, err
	}

	now := e.now()
	var carried decimal.Decimal
	for _, p := range postings {
		var cost decimal.Decimal
		switch p.Basis {
		case inventory.CostSupplied:
			cost = p.UnitCost
		case inventory.CostAverage:
			cur, err := e.ledger.GetBalance(ctx, balanceRepo, p.Key.ItemID, p.Key.WarehouseID)
			if err != nil {
				return nil, err
			}
			cost = cur.AverageCost
			carried = cost
			// Las salidas se valorizan al costo promedio con el que dejan la bodega.
			m.Lines[p.LineIndex].UnitCost = cost
		case inventory.CostCarried:
			// Supuesto: el destino del traslado recibe el costo promedio del origen.
			cost = carried
		}

		bal, err := e.ledger.ApplyDelta(ctx, balanceRepo, p.Key.ItemID, p.Key.WarehouseID, p.Quantity, cost)
		if err != nil {
			return nil, err
		}
		entry := &entity.LedgerEntry{
			ID:             uuid.New().String(),
			MovementID:     m.ID,
			MovementType:   m.Type,
			ItemID:         p.Key.ItemID,
			WarehouseID:    p.Key.WarehouseID,
			Quantity:       p.Quantity,
			UnitCost:       cost,
			TotalCost:      p.Quantity.Mul(cost),
			BalanceQty:     bal.Quantity,
			BalanceAvgCost: bal.AverageCost,
			PostedAt:       now,
			PostedBy:       confirmedBy,
		}
		if err := entryRepo.Create(ctx, entry); err != nil {
			return nil, err
		}
	}

	m.RecalculateTotals()
	m.Status = entity.MovementStatusConfirmed
	m.ConfirmedBy = confirmedBy
	m.ConfirmedAt = &now
	m.UpdatedAt = now
	if err := movRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Cancel anula un borrador. No tiene efecto sobre el libro.
func (e *MovementEngine) Cancel(ctx context.Context, movementID, cancelledBy string) (*entity.Movement, error) {
	if cancelledBy == "" {
		return nil, domain.NewValidationError("cancelled_by", "requerido")
	}
	var cancelled *entity.Movement
	err := e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.StockBalanceRepository,
		_ repository.LedgerEntryRepository,
	) error {
		m, err := movRepo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if err := inventory.TransitionMovement(m.Status, entity.MovementStatusCancelled); err != nil {
			return err
		}
		now := e.now()
		m.Status = entity.MovementStatusCancelled
		m.CancelledBy = cancelledBy
		m.CancelledAt = &now
		m.UpdatedAt = now
		if err := movRepo.Update(ctx, m); err != nil {
			return err
		}
		cancelled = m
		return nil
	})
	if err != nil {
		e.logRejected(err, movementID, "cancel", cancelledBy)
		return nil, err
	}
	e.log.Info().Str("movement_id", movementID).Str("actor", cancelledBy).Msg("movimiento cancelado")
	return cancelled, nil
}

// Get devuelve el movimiento con sus líneas.
func (e *MovementEngine) Get(ctx context.Context, id string) (*entity.Movement, error) {
	return e.movements.GetByID(ctx, id)
}

// List lista movimientos según el filtro; devuelve también el total sin paginar.
func (e *MovementEngine) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return e.movements.List(ctx, f)
}

// logRejected registra en warn los rechazos esperables y en error el resto.
func (e *MovementEngine) logRejected(err error, movementID, op, actor string) {
	ev := e.log.Error()
	if domain.IsBusinessError(err) {
		ev = e.log.Warn()
	}
	ev.Err(err).Str("movement_id", movementID).Str("op", op).Str("actor", actor).Msg("operación de movimiento rechazada")
}

// BumpCache invalida la caché si hay una configurada. Una falla solo se registra: el commit ya ocurrió.
func BumpCache(ctx context.Context, c CacheInvalidator, log *logger.Logger) {
	if c == nil {
		return
	}
	if err := c.Bump(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar la caché de reportes")
	}
}
