// seed carga los usuarios por defecto (admin/user) y, si el catálogo está vacío,
// los dulces de ejemplo. Es idempotente.
//
// Uso: go run ./cmd/seed
// Lee la misma configuración que la API (DATABASE_URL, STORAGE_DRIVER, ...).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/application/seed"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/storage"
	"github.com/jhoicas/sweetshop-api/pkg/config"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.DB.Driver == config.StorageMemory {
		fmt.Fprintln(os.Stderr, "STORAGE_DRIVER=memory no persiste datos; use SEED_DATA=true al arrancar la API")
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stores, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer stores.Close()

	ledger := inventory.NewStockLedger(stores.Sweets, stores.TxRunner, log.Zerolog())
	if err := seed.NewSeeder(stores.Users, stores.Sweets, ledger, log.Zerolog()).Run(ctx); err != nil {
		log.Error().Err(err).Msg("seed")
		stores.Close()
		os.Exit(1)
	}
	log.Info().Msg("seed completado")
}
