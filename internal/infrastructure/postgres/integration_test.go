package postgres_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sweetshop-api/pkg/config"
)

// Requieren una base real: DATABASE_URL=postgresql://... go test ./internal/infrastructure/postgres/
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{Driver: "postgres", DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func newPgLedger(t *testing.T) (*inventory.StockLedger, *postgres.SweetRepo) {
	t.Helper()
	pool := testPool(t)
	repo := postgres.NewSweetRepository(pool)
	return inventory.NewStockLedger(repo, postgres.NewTxRunner(pool), zerolog.Nop()), repo
}

func createPg(t *testing.T, l *inventory.StockLedger, name string, qty int64) *entity.Sweet {
	t.Helper()
	p := decimal.RequireFromString("2.50")
	s, err := l.Create(context.Background(), dto.SweetRequest{Name: name, Category: "Chocolate", Price: &p, Quantity: &qty})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Delete(context.Background(), s.ID) })
	return s
}

func TestPostgresLedger_CompraYReposicion(t *testing.T) {
	ctx := context.Background()
	l, _ := newPgLedger(t)
	s := createPg(t, l, "Milk Chocolate Bar "+uuid.NewString(), 100)

	out, err := l.Purchase(ctx, s.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, int64(40), out.Quantity)

	_, err = l.Purchase(ctx, s.ID, 50)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(40), stockErr.Available)
	assert.Equal(t, int64(50), stockErr.Requested)

	out, err = l.Restock(ctx, s.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), out.Quantity)

	got, err := l.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), got.Quantity)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("2.50")))
}

// FOR UPDATE serializa las compras sobre la misma fila: nunca se vende de más.
func TestPostgresLedger_ComprasConcurrentes(t *testing.T) {
	ctx := context.Background()
	l, _ := newPgLedger(t)
	s := createPg(t, l, "Caramel Toffee "+uuid.NewString(), 10)

	var (
		wg       sync.WaitGroup
		ok       atomic.Int32
		rejected atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Purchase(ctx, s.ID, 1)
			switch {
			case err == nil:
				ok.Add(1)
			case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), ok.Load())
	assert.Equal(t, int32(10), rejected.Load())
	got, err := l.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Quantity)
}

func TestPostgresSweetRepo_BuscarNombrePliegueUnicode(t *testing.T) {
	ctx := context.Background()
	l, repo := newPgLedger(t)
	tag := uuid.NewString()
	a := createPg(t, l, "Straße Toffee "+tag, 5)
	createPg(t, l, "Milk Chocolate Bar "+tag, 5)

	got, err := repo.FindByNameContains(ctx, "STRASSE TOFFEE "+tag, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	got, err = repo.FindByNameContains(ctx, "straße toffee "+tag, false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPostgresSweetRepo_NoExiste(t *testing.T) {
	_, repo := newPgLedger(t)
	_, err := repo.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
