// Package storage selecciona el adaptador de persistencia según STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sweetshop-api/pkg/config"
)

// Stores repositorios y runner de transacciones listos para inyectar.
type Stores struct {
	Sweets   repository.SweetRepository
	Users    repository.UserRepository
	TxRunner inventory.TxRunner
	close    func()
}

// Close libera el pool de conexiones (no-op en memoria).
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open crea los repositorios. Con postgres abre el pool y aplica el esquema.
func Open(ctx context.Context, cfg config.DBConfig) (*Stores, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		sweets := memory.NewSweetStore()
		return &Stores{
			Sweets:   sweets,
			Users:    memory.NewUserStore(),
			TxRunner: memory.NewTxRunner(sweets),
		}, nil
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Stores{
			Sweets:   postgres.NewSweetRepository(pool),
			Users:    postgres.NewUserRepository(pool),
			TxRunner: postgres.NewTxRunner(pool),
			close:    pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
	}
}
