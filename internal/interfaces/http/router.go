package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	Engine      *inventory.MovementEngine
	Workflow    *purchasing.Workflow
	Reports     *report.Projection
	JWTSecret   string
	JWTIssuer   string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Todo lo de /api requiere Bearer Token: el user_id es el actor de cada operación.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Movimientos y saldos
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Engine, deps.Reports, deps.Log)
	invGroup.Post("/movements", inventoryHandler.CreateMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/movements/:id", inventoryHandler.GetMovement)
	invGroup.Post("/movements/:id/confirm", inventoryHandler.ConfirmMovement)
	invGroup.Post("/movements/:id/cancel", inventoryHandler.CancelMovement)
	invGroup.Get("/balances", inventoryHandler.ListBalances)

	// Órdenes de compra
	orders := protected.Group("/purchase-orders")
	orderHandler := NewPurchaseOrderHandler(deps.Workflow, deps.Log)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Post("/:id/submit", orderHandler.Submit)
	orders.Post("/:id/approve", orderHandler.Approve)
	orders.Post("/:id/send", orderHandler.Send)
	orders.Post("/:id/receive", orderHandler.Receive)
	orders.Post("/:id/cancel", orderHandler.Cancel)

	// Reportes
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports, deps.Log)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/stock-value", reportHandler.StockValue)
	reports.Get("/supplier-performance", reportHandler.SupplierPerformance)
	reports.Get("/stock-card", reportHandler.StockCard)
	reports.Get("/dashboard", reportHandler.Dashboard)
}
