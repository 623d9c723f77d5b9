package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const (
	actor  = "00000000-0000-0000-0000-0000000000aa"
	itemX  = "00000000-0000-0000-0000-000000000101"
	itemY  = "00000000-0000-0000-0000-000000000102"
	whMain = "00000000-0000-0000-0000-000000000201"
	whAux  = "00000000-0000-0000-0000-000000000202"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newEngine(t *testing.T) (*inventory.MovementEngine, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	engine := inventory.NewMovementEngine(store, store.MovementRepository(), inventory.NewStockLedger(), logger.Nop())
	return engine, store
}

// post crea y confirma un movimiento; falla el test si algo sale mal.
func post(t *testing.T, e *inventory.MovementEngine, in inventory.DraftInput) *entity.Movement {
	t.Helper()
	ctx := context.Background()
	if in.CreatedBy == "" {
		in.CreatedBy = actor
	}
	m, err := e.CreateDraft(ctx, in)
	require.NoError(t, err)
	m, err = e.Confirm(ctx, m.ID, actor)
	require.NoError(t, err)
	return m
}

func receipt(wh string, lines ...inventory.LineInput) inventory.DraftInput {
	return inventory.DraftInput{Type: entity.MovementTypeReceipt, ToWarehouseID: wh, Lines: lines, CreatedBy: actor}
}

func issue(wh string, lines ...inventory.LineInput) inventory.DraftInput {
	return inventory.DraftInput{Type: entity.MovementTypeIssue, FromWarehouseID: wh, Lines: lines, CreatedBy: actor}
}

func ln(item, qty, cost string) inventory.LineInput {
	return inventory.LineInput{ItemID: item, Quantity: d(qty), UnitCost: d(cost)}
}
