package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	rules "github.com/jhoicas/sweetshop-api/internal/domain/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// StockLedger es la única autoridad sobre el stock de los dulces.
// Toda escritura pasa por aquí: valida la entrada y, para compra/reposición,
// ejecuta lectura-validación-escritura dentro de una transacción con bloqueo
// del registro (SELECT FOR UPDATE o candado por id en memoria).
// No guarda copia del stock: el repositorio es la única fuente de verdad.
type StockLedger struct {
	repo     repository.SweetRepository
	txRunner TxRunner
	log      zerolog.Logger
	now      func() time.Time
}

// NewStockLedger construye el caso de uso.
func NewStockLedger(repo repository.SweetRepository, txRunner TxRunner, log zerolog.Logger) *StockLedger {
	return &StockLedger{
		repo:     repo,
		txRunner: txRunner,
		log:      log.With().Str("component", "stock_ledger").Logger(),
		now:      time.Now,
	}
}

// Create valida y persiste un nuevo dulce con id nuevo y ambas marcas de tiempo.
func (l *StockLedger) Create(ctx context.Context, in dto.SweetRequest) (*entity.Sweet, error) {
	if err := validateRequest(in); err != nil {
		return nil, err
	}
	now := l.now()
	sweet := &entity.Sweet{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Category:    in.Category,
		Price:       *in.Price,
		Quantity:    *in.Quantity,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.repo.Create(ctx, sweet); err != nil {
		return nil, err
	}
	l.log.Info().Str("sweet_id", sweet.ID).Str("name", sweet.Name).Int64("quantity", sweet.Quantity).Msg("dulce creado")
	return sweet, nil
}

// GetByID obtiene un dulce por ID. domain.ErrNotFound si no existe.
func (l *StockLedger) GetByID(ctx context.Context, id string) (*entity.Sweet, error) {
	if id == "" {
		return nil, domain.ErrNotFound
	}
	return l.repo.GetByID(ctx, id)
}

// List devuelve todo el catálogo.
func (l *StockLedger) List(ctx context.Context) ([]*entity.Sweet, error) {
	return l.repo.List(ctx)
}

// Update reemplaza todos los atributos mutables (incluida la cantidad) y refresca UpdatedAt.
func (l *StockLedger) Update(ctx context.Context, id string, in dto.SweetRequest) (*entity.Sweet, error) {
	if err := validateRequest(in); err != nil {
		return nil, err
	}
	var out *entity.Sweet
	err := l.txRunner.Run(ctx, func(repo repository.SweetRepository) error {
		sweet, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		sweet.Name = in.Name
		sweet.Category = in.Category
		sweet.Price = *in.Price
		sweet.Quantity = *in.Quantity
		sweet.Description = in.Description
		sweet.UpdatedAt = l.now()
		if err := repo.Update(ctx, sweet); err != nil {
			return err
		}
		out = sweet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina el dulce de forma definitiva. Un segundo Delete devuelve domain.ErrNotFound.
func (l *StockLedger) Delete(ctx context.Context, id string) error {
	err := l.txRunner.Run(ctx, func(repo repository.SweetRepository) error {
		if _, err := repo.GetForUpdate(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	l.log.Info().Str("sweet_id", id).Msg("dulce eliminado")
	return nil
}

// Purchase descuenta quantity del stock. Si no alcanza devuelve
// *domain.InsufficientStockError (Available, Requested) sin modificar nada.
func (l *StockLedger) Purchase(ctx context.Context, id string, quantity int64) (*entity.Sweet, error) {
	if err := rules.ValidateMovement(quantity); err != nil {
		return nil, err
	}
	out, err := l.applyMovement(ctx, id, func(current int64) (int64, error) {
		return rules.Decrement(current, quantity)
	})
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			l.log.Warn().Str("sweet_id", id).
				Int64("available", stockErr.Available).
				Int64("requested", stockErr.Requested).
				Msg("compra rechazada por stock insuficiente")
		}
		return nil, err
	}
	l.log.Debug().Str("sweet_id", id).Int64("quantity", quantity).Int64("stock", out.Quantity).Msg("compra registrada")
	return out, nil
}

// Restock suma quantity al stock. Sin tope superior.
func (l *StockLedger) Restock(ctx context.Context, id string, quantity int64) (*entity.Sweet, error) {
	if err := rules.ValidateMovement(quantity); err != nil {
		return nil, err
	}
	out, err := l.applyMovement(ctx, id, func(current int64) (int64, error) {
		return rules.Increment(current, quantity)
	})
	if err != nil {
		return nil, err
	}
	l.log.Debug().Str("sweet_id", id).Int64("quantity", quantity).Int64("stock", out.Quantity).Msg("reposición registrada")
	return out, nil
}

// applyMovement bloquea el registro, calcula la nueva cantidad y la persiste en la misma transacción.
func (l *StockLedger) applyMovement(ctx context.Context, id string, next func(current int64) (int64, error)) (*entity.Sweet, error) {
	var out *entity.Sweet
	err := l.txRunner.Run(ctx, func(repo repository.SweetRepository) error {
		sweet, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		qty, err := next(sweet.Quantity)
		if err != nil {
			return err
		}
		sweet.Quantity = qty
		sweet.UpdatedAt = l.now()
		if err := repo.Update(ctx, sweet); err != nil {
			return err
		}
		out = sweet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func validateRequest(in dto.SweetRequest) error {
	if in.Price == nil {
		return domain.Invalid("price", "es requerido")
	}
	if in.Quantity == nil {
		return domain.Invalid("quantity", "es requerido")
	}
	return rules.ValidateAttributes(in.Name, in.Category, *in.Price, *in.Quantity)
}
