// @title        Inventario Ledger API
// @version      1.0
// @description  Libro de inventario multi-bodega con costo promedio ponderado, órdenes de compra y reportes.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/jhoicas/inventario-ledger/docs"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/seed"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/migrations"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// storage agrupa lo que cada driver aporta al motor, al flujo de compras y a los reportes.
type storage struct {
	txRunner interface {
		inventory.TxRunner
		purchasing.TxRunner
	}
	movements repository.MovementRepository
	orders    repository.PurchaseOrderRepository
	reports   repository.ReportRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var st storage
	switch cfg.App.StorageDriver {
	case config.StorageMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		if cfg.App.SeedFile != "" {
			if err := seedMemory(ctx, store, cfg.App.SeedFile); err != nil {
				log.Fatal().Err(err).Str("file", cfg.App.SeedFile).Msg("cargar catálogo")
			}
		}
		st = storage{txRunner: store, movements: store.MovementRepository(), orders: store.PurchaseOrderRepository(), reports: store}
	default:
		pool, err := openPostgres(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		st = storage{
			txRunner:  postgres.NewTxRunner(pool),
			movements: postgres.NewMovementRepository(pool),
			orders:    postgres.NewPurchaseOrderRepository(pool),
			reports:   postgres.NewReportRepository(pool),
		}
	}

	engine := inventory.NewMovementEngine(st.txRunner, st.movements, inventory.NewStockLedger(), log.Component("inventory"))
	workflow := purchasing.NewWorkflow(st.txRunner, st.orders, engine, cfg.Purchases.TaxRate, log.Component("purchasing"))
	reports := report.NewProjection(st.reports, nil, log.Component("reports"))

	// Caché de reportes opcional: sin REDIS_ADDR los reportes consultan siempre directo.
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, reportes sin caché")
		} else {
			defer client.Close()
			reportCache := cache.NewReportCache(client, cfg.Redis.ReportCacheTTL)
			engine.WithCacheInvalidator(reportCache)
			workflow.WithCacheInvalidator(reportCache)
			reports = report.NewProjection(st.reports, reportCache, log.Component("reports"))
			log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.ReportCacheTTL).Msg("caché de reportes activa")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Ledger API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName: cfg.App.Name,
		Engine:      engine,
		Workflow:    workflow,
		Reports:     reports,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
		Log:         log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openPostgres abre el pool y, si DB_AUTO_MIGRATE está activo, aplica las migraciones antes.
func openPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*pgxpool.Pool, error) {
	if cfg.DB.AutoMigrate {
		m, err := postgres.NewMigrator(migrations.FS, cfg.DB.ConnectionString(), log)
		if err != nil {
			return nil, err
		}
		upErr := m.Up()
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
		if upErr != nil {
			return nil, upErr
		}
	}
	return postgres.NewPool(ctx, cfg.DB)
}

// seedMemory carga el catálogo de referencia en el almacenamiento en memoria.
func seedMemory(ctx context.Context, store *memory.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := seed.Parse(f, seed.Options{})
	if err != nil {
		return err
	}
	return seed.Apply(ctx, store, data)
}
