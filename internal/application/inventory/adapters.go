package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// CreateDraftFromRequest adapta el request HTTP a CreateDraft. userID es el actor del token.
func (e *MovementEngine) CreateDraftFromRequest(ctx context.Context, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	input := DraftInput{
		Type:            entity.MovementType(in.Type),
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Reference:       in.Reference,
		Notes:           in.Notes,
		CreatedBy:       userID,
		Lines:           make([]LineInput, 0, len(in.Lines)),
	}
	if in.MovementDate != nil {
		input.MovementDate = in.MovementDate.UTC()
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, LineInput{ItemID: l.ItemID, Quantity: l.Quantity, UnitCost: l.UnitCost})
	}
	m, err := e.CreateDraft(ctx, input)
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(m), nil
}

// ListFromRequest adapta el filtro HTTP a List.
func (e *MovementEngine) ListFromRequest(ctx context.Context, in dto.MovementFilterRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	list, total, err := e.List(ctx, repository.MovementFilter{
		Type:        entity.MovementType(in.Type),
		Status:      entity.MovementStatus(in.Status),
		WarehouseID: in.WarehouseID,
		From:        in.From,
		To:          in.To,
		Page:        repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// ToMovementResponse convierte la entidad a su DTO de salida.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	lines := make([]dto.MovementLineResponse, 0, len(m.Lines))
	for _, l := range m.Lines {
		lines = append(lines, dto.MovementLineResponse{
			LineNo:    l.LineNo,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			LineTotal: l.LineTotal,
		})
	}
	return &dto.MovementResponse{
		ID:              m.ID,
		Type:            string(m.Type),
		Status:          string(m.Status),
		MovementDate:    m.MovementDate,
		FromWarehouseID: m.FromWarehouseID,
		ToWarehouseID:   m.ToWarehouseID,
		Reference:       m.Reference,
		Notes:           m.Notes,
		TotalAmount:     m.TotalAmount,
		Lines:           lines,
		CreatedBy:       m.CreatedBy,
		ConfirmedBy:     m.ConfirmedBy,
		ConfirmedAt:     m.ConfirmedAt,
		CancelledBy:     m.CancelledBy,
		CancelledAt:     m.CancelledAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
