// migrate aplica o revierte las migraciones embebidas del esquema del libro.
//
// Uso: go run ./cmd/migrate [up|down|version]
// La conexión sale de DATABASE_URL o de DB_HOST/DB_PORT/... (igual que la API).
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/migrations"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	m, err := postgres.NewMigrator(migrations.FS, cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = m.Version()
		if err == nil {
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión del esquema")
		}
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q (use up, down o version)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", cmd).Msg("migración fallida")
		os.Exit(1)
	}
}
