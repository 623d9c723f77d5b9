package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// supplierWindowDays ventana por defecto del reporte de proveedores si no llega from.
const supplierWindowDays = 30

// ReportHandler expone los reportes de solo lectura (protegido).
type ReportHandler struct {
	reports *report.Projection
	log     *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *report.Projection, log *logger.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, log: log}
}

// LowStock godoc
// @Summary      Items bajo punto de reorden
// @Description  Ordenados por urgencia, con cantidad sugerida (reorden * 1.5 - stock) y costo estimado.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega (UUID). Vacío = todas."
// @Success      200  {array}   dto.LowStockDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	warehouseID, err := optionalUUID(c, "warehouse_id")
	if err != nil {
		return handleError(c, h.log, err)
	}
	out, err := h.reports.LowStock(c.UserContext(), warehouseID)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// StockValue godoc
// @Summary      Valorización del inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega (UUID)"
// @Success      200  {object}  dto.StockValueDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-value [get]
func (h *ReportHandler) StockValue(c *fiber.Ctx) error {
	warehouseID, err := optionalUUID(c, "warehouse_id")
	if err != nil {
		return handleError(c, h.log, err)
	}
	out, err := h.reports.StockValue(c.UserContext(), warehouseID)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// SupplierPerformance godoc
// @Summary      Desempeño de proveedores
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (RFC3339 o AAAA-MM-DD). Por defecto 30 días atrás."
// @Param        to    query  string  false  "Hasta (RFC3339 o AAAA-MM-DD). Por defecto ahora."
// @Success      200  {array}   dto.SupplierPerformanceDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/supplier-performance [get]
func (h *ReportHandler) SupplierPerformance(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c.Query("from"), "from", false)
	if err != nil {
		return handleError(c, h.log, err)
	}
	to, err := parseTimeQuery(c.Query("to"), "to", true)
	if err != nil {
		return handleError(c, h.log, err)
	}
	end := time.Now().UTC()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -supplierWindowDays)
	if from != nil {
		start = *from
	}
	out, err := h.reports.SupplierPerformance(c.UserContext(), start, end)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// StockCard godoc
// @Summary      Kardex de un item en una bodega
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  true   "Item (UUID)"
// @Param        warehouse_id  query  string  true   "Bodega (UUID)"
// @Param        from          query  string  false  "Desde (RFC3339 o AAAA-MM-DD)"
// @Param        to            query  string  false  "Hasta (RFC3339 o AAAA-MM-DD)"
// @Success      200  {object}  dto.StockCardDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-card [get]
func (h *ReportHandler) StockCard(c *fiber.Ctx) error {
	itemID, err := optionalUUID(c, "item_id")
	if err != nil {
		return handleError(c, h.log, err)
	}
	warehouseID, err := optionalUUID(c, "warehouse_id")
	if err != nil {
		return handleError(c, h.log, err)
	}
	from, err := parseTimeQuery(c.Query("from"), "from", false)
	if err != nil {
		return handleError(c, h.log, err)
	}
	to, err := parseTimeQuery(c.Query("to"), "to", true)
	if err != nil {
		return handleError(c, h.log, err)
	}
	out, err := h.reports.StockCard(c.UserContext(), itemID, warehouseID, from, to)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Resumen: valorización, bajo stock y proveedores de los últimos 30 días
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega (UUID)"
// @Success      200  {object}  dto.DashboardDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	warehouseID, err := optionalUUID(c, "warehouse_id")
	if err != nil {
		return handleError(c, h.log, err)
	}
	out, err := h.reports.Dashboard(c.UserContext(), warehouseID)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}
