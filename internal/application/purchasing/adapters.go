package purchasing

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// CreateFromRequest adapta el request HTTP a Create. userID es el actor del token.
func (w *Workflow) CreateFromRequest(ctx context.Context, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	input := CreateInput{
		SupplierID:     in.SupplierID,
		ExpectedDate:   in.ExpectedDate,
		Notes:          in.Notes,
		DiscountAmount: in.DiscountAmount,
		CreatedBy:      userID,
		Lines:          make([]LineInput, 0, len(in.Lines)),
	}
	if in.OrderDate != nil {
		input.OrderDate = in.OrderDate.UTC()
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, LineInput{
			ItemID:          l.ItemID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
		})
	}
	o, err := w.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(o), nil
}

// ListFromRequest adapta el filtro HTTP a List.
func (w *Workflow) ListFromRequest(ctx context.Context, in dto.PurchaseOrderFilterRequest) (*dto.PurchaseOrderListResponse, error) {
	in.DefaultPage()
	list, total, err := w.List(ctx, repository.OrderFilter{
		Status:     entity.OrderStatus(in.Status),
		SupplierID: in.SupplierID,
		From:       in.From,
		To:         in.To,
		Page:       repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *ToPurchaseOrderResponse(o))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// ToPurchaseOrderResponse convierte la entidad a su DTO de salida.
func ToPurchaseOrderResponse(o *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	if o == nil {
		return nil
	}
	lines := make([]dto.PurchaseOrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.PurchaseOrderLineResponse{
			LineNo:          l.LineNo,
			ItemID:          l.ItemID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			LineTotal:       l.LineTotal,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:                 o.ID,
		OrderNo:            o.OrderNo,
		SupplierID:         o.SupplierID,
		Status:             string(o.Status),
		OrderDate:          o.OrderDate,
		ExpectedDate:       o.ExpectedDate,
		Notes:              o.Notes,
		TaxRate:            o.TaxRate,
		Subtotal:           o.Subtotal,
		TaxAmount:          o.TaxAmount,
		DiscountAmount:     o.DiscountAmount,
		TotalAmount:        o.TotalAmount,
		Lines:              lines,
		CreatedBy:          o.CreatedBy,
		ApprovedBy:         o.ApprovedBy,
		ApprovedAt:         o.ApprovedAt,
		SentAt:             o.SentAt,
		ReceivedBy:         o.ReceivedBy,
		ReceivedAt:         o.ReceivedAt,
		ReceiptWarehouseID: o.ReceiptWarehouseID,
		ReceiptMovementID:  o.ReceiptMovementID,
		CancelledBy:        o.CancelledBy,
		CancelledAt:        o.CancelledAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}
