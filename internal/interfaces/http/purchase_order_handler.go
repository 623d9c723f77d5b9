package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// PurchaseOrderHandler maneja el ciclo de vida de las órdenes de compra (protegido).
type PurchaseOrderHandler struct {
	wf  *purchasing.Workflow
	log *logger.Logger
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(wf *purchasing.Workflow, log *logger.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{wf: wf, log: log}
}

// Create godoc
// @Summary      Crear orden de compra
// @Description  La orden nace en borrador con número PO-AAAAMMDD-NNNNNN y totales calculados.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePurchaseOrderRequest  true  "supplier_id, líneas, descuento"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return handleError(c, h.log, err)
	}
	out, err := h.wf.CreateFromRequest(c.UserContext(), userID, in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "draft, pending, approved, sent, received, cancelled"
// @Param        supplier_id  query  string  false  "Proveedor (UUID)"
// @Param        from         query  string  false  "Fecha de orden desde (RFC3339 o AAAA-MM-DD)"
// @Param        to           query  string  false  "Fecha de orden hasta (RFC3339 o AAAA-MM-DD)"
// @Param        limit        query  int     false  "Máximo 100"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.PurchaseOrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	var in dto.PurchaseOrderFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	var err error
	if in.From, err = parseTimeQuery(c.Query("from"), "from", false); err != nil {
		return handleError(c, h.log, err)
	}
	if in.To, err = parseTimeQuery(c.Query("to"), "to", true); err != nil {
		return handleError(c, h.log, err)
	}
	if err := validateStruct(in); err != nil {
		return handleError(c, h.log, err)
	}
	out, err := h.wf.ListFromRequest(c.UserContext(), in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return handleError(c, h.log, err)
	}
	o, err := h.wf.Get(c.UserContext(), id)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(purchasing.ToPurchaseOrderResponse(o))
}

// Submit godoc
// @Summary      Enviar orden a aprobación (draft -> pending)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/submit [post]
func (h *PurchaseOrderHandler) Submit(c *fiber.Ctx) error {
	return h.transition(c, h.wf.Submit)
}

// Approve godoc
// @Summary      Aprobar orden (pending -> approved)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.wf.Approve)
}

// Send godoc
// @Summary      Marcar orden como enviada al proveedor (approved -> sent)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/send [post]
func (h *PurchaseOrderHandler) Send(c *fiber.Ctx) error {
	return h.transition(c, h.wf.Send)
}

// Receive godoc
// @Summary      Recibir mercancía (sent -> received)
// @Description  Crea y confirma el movimiento de entrada en la misma transacción que el cambio de estado.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                           true  "ID de la orden"
// @Param        body  body      dto.ReceivePurchaseOrderRequest  true  "Bodega de recepción"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return handleError(c, h.log, err)
	}
	return h.transition(c, func(ctx context.Context, id, actor string) (*entity.PurchaseOrder, error) {
		return h.wf.Receive(ctx, id, in.WarehouseID, actor)
	})
}

// Cancel godoc
// @Summary      Cancelar orden (solo draft o pending)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.wf.Cancel)
}

// transition resuelve actor e id y ejecuta el paso del flujo indicado.
func (h *PurchaseOrderHandler) transition(c *fiber.Ctx, step func(ctx context.Context, id, actor string) (*entity.PurchaseOrder, error)) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return handleError(c, h.log, err)
	}
	o, err := step(c.UserContext(), id, userID)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(purchasing.ToPurchaseOrderResponse(o))
}
