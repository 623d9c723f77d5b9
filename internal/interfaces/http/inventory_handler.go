package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// InventoryHandler maneja movimientos y saldos de inventario (protegido).
type InventoryHandler struct {
	engine  *inventory.MovementEngine
	reports *report.Projection
	log     *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(engine *inventory.MovementEngine, reports *report.Projection, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{engine: engine, reports: reports, log: log}
}

// CreateMovement godoc
// @Summary      Crear movimiento en borrador
// @Description  El borrador no afecta saldos hasta confirmarse.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateMovementRequest  true  "type, bodegas según el tipo, líneas"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) CreateMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return handleError(c, h.log, err)
	}
	out, err := h.engine.CreateDraftFromRequest(c.UserContext(), userID, in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type          query  string  false  "receipt, issue, transfer, adjustment"
// @Param        status        query  string  false  "draft, confirmed, cancelled"
// @Param        warehouse_id  query  string  false  "Bodega origen o destino (UUID)"
// @Param        from          query  string  false  "Desde (RFC3339 o AAAA-MM-DD)"
// @Param        to            query  string  false  "Hasta (RFC3339 o AAAA-MM-DD)"
// @Param        limit         query  int     false  "Máximo 100"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
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
	out, err := h.engine.ListFromRequest(c.UserContext(), in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetMovement godoc
// @Summary      Obtener movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return handleError(c, h.log, err)
	}
	m, err := h.engine.Get(c.UserContext(), id)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(inventory.ToMovementResponse(m))
}

// ConfirmMovement godoc
// @Summary      Confirmar movimiento
// @Description  Aplica todas las líneas al libro en una sola transacción; si una falla no se aplica ninguna.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK, INVALID_STATE_TRANSITION o CONCURRENCY_CONFLICT"
// @Router       /api/inventory/movements/{id}/confirm [post]
func (h *InventoryHandler) ConfirmMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return handleError(c, h.log, err)
	}
	m, err := h.engine.Confirm(c.UserContext(), id, userID)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(inventory.ToMovementResponse(m))
}

// CancelMovement godoc
// @Summary      Cancelar movimiento en borrador
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/cancel [post]
func (h *InventoryHandler) CancelMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return handleError(c, h.log, err)
	}
	m, err := h.engine.Cancel(c.UserContext(), id, userID)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(inventory.ToMovementResponse(m))
}

// ListBalances godoc
// @Summary      Saldos por item y bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  false  "Item (UUID)"
// @Param        warehouse_id  query  string  false  "Bodega (UUID)"
// @Param        non_zero      query  bool    false  "Solo saldos distintos de cero"
// @Param        limit         query  int     false  "Máximo 100"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.BalanceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances [get]
func (h *InventoryHandler) ListBalances(c *fiber.Ctx) error {
	var in dto.BalanceFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	if err := validateStruct(in); err != nil {
		return handleError(c, h.log, err)
	}
	out, err := h.reports.Balances(c.UserContext(), in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}
