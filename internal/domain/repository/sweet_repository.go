package repository

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// SweetRepository define el puerto de persistencia para Sweet (DIP).
// GetByID, Update y Delete devuelven domain.ErrNotFound si el id no existe.
type SweetRepository interface {
	Create(ctx context.Context, sweet *entity.Sweet) error
	GetByID(ctx context.Context, id string) (*entity.Sweet, error)
	// GetForUpdate bloquea el registro hasta que termine la transacción actual.
	GetForUpdate(ctx context.Context, id string) (*entity.Sweet, error)
	Update(ctx context.Context, sweet *entity.Sweet) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Sweet, error)
	FindByCategory(ctx context.Context, category string) ([]*entity.Sweet, error)
	FindByNameContains(ctx context.Context, substr string, caseInsensitive bool) ([]*entity.Sweet, error)
	Count(ctx context.Context) (int, error)
}
