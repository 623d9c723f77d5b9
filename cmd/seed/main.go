// seed carga items, bodegas y proveedores desde un CSV a PostgreSQL.
//
// Uso: go run ./cmd/seed [-latin1] ruta/catalogo.csv
// Columnas: kind,id,code,name,reorder_point,min_stock (kind = item, warehouse o supplier).
// Con -latin1 el archivo se lee como ISO-8859-1, el formato de las exportaciones de hoja de cálculo.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/seed"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "decodificar el archivo como ISO-8859-1")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [-latin1] archivo.csv")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("abrir archivo")
	}
	defer f.Close()

	data, err := seed.Parse(f, seed.Options{Latin1: *latin1})
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("leer catálogo")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := seed.Apply(ctx, postgres.NewCatalogRepository(pool), data); err != nil {
		pool.Close()
		log.Fatal().Err(err).Msg("cargar catálogo")
	}
	log.Info().
		Int("items", len(data.Items)).
		Int("warehouses", len(data.Warehouses)).
		Int("suppliers", len(data.Suppliers)).
		Msg("catálogo cargado")
}
