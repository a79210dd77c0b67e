package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetRepo)(nil)

const sweetColumns = `id, name, category, price, quantity, description, created_at, updated_at`

// SweetRepo implementación del puerto SweetRepository sobre PostgreSQL (usable con pool o tx).
type SweetRepo struct {
	q Querier
}

// NewSweetRepository construye el adaptador de persistencia para dulces. Pasar pool o tx (Querier).
func NewSweetRepository(q Querier) *SweetRepo {
	return &SweetRepo{q: q}
}

// Create persiste un nuevo dulce.
func (r *SweetRepo) Create(ctx context.Context, s *entity.Sweet) error {
	query := `
		INSERT INTO sweets (` + sweetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Category, s.Price, s.Quantity, s.Description, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return domain.NewStorageError("insert sweet", err)
	}
	return nil
}

// GetByID obtiene un dulce por ID.
func (r *SweetRepo) GetByID(ctx context.Context, id string) (*entity.Sweet, error) {
	return r.getOne(ctx, `SELECT `+sweetColumns+` FROM sweets WHERE id = $1`, id, "get sweet")
}

// GetForUpdate obtiene el dulce y bloquea la fila (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *SweetRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sweet, error) {
	return r.getOne(ctx, `SELECT `+sweetColumns+` FROM sweets WHERE id = $1 FOR UPDATE`, id, "get sweet for update")
}

func (r *SweetRepo) getOne(ctx context.Context, query, id, op string) (*entity.Sweet, error) {
	s, err := scanSweet(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError(op, err)
	}
	return s, nil
}

// Update reemplaza los atributos mutables. created_at no se toca.
func (r *SweetRepo) Update(ctx context.Context, s *entity.Sweet) error {
	query := `
		UPDATE sweets SET name = $2, category = $3, price = $4, quantity = $5, description = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Category, s.Price, s.Quantity, s.Description, s.UpdatedAt,
	)
	if err != nil {
		return domain.NewStorageError("update sweet", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un dulce por ID.
func (r *SweetRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		return domain.NewStorageError("delete sweet", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve todo el catálogo en orden de inserción.
func (r *SweetRepo) List(ctx context.Context) ([]*entity.Sweet, error) {
	return r.getMany(ctx, "list sweets", `SELECT `+sweetColumns+` FROM sweets ORDER BY seq`)
}

// FindByCategory coincidencia exacta de categoría.
func (r *SweetRepo) FindByCategory(ctx context.Context, category string) ([]*entity.Sweet, error) {
	return r.getMany(ctx, "find sweets by category",
		`SELECT `+sweetColumns+` FROM sweets WHERE category = $1 ORDER BY seq`, category)
}

// FindByNameContains subcadena en el nombre. Con caseInsensitive se filtra en Go con
// case folding Unicode, igual que el adaptador en memoria; ILIKE no pliega "ß" a "ss".
func (r *SweetRepo) FindByNameContains(ctx context.Context, substr string, caseInsensitive bool) ([]*entity.Sweet, error) {
	if caseInsensitive {
		all, err := r.List(ctx)
		if err != nil {
			return nil, err
		}
		return filterByNameFold(all, substr), nil
	}
	return r.getMany(ctx, "find sweets by name",
		`SELECT `+sweetColumns+` FROM sweets WHERE name LIKE $1 ESCAPE '\' ORDER BY seq`,
		containsPattern(substr))
}

// Count número de dulces en el catálogo.
func (r *SweetRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM sweets`).Scan(&n); err != nil {
		return 0, domain.NewStorageError("count sweets", err)
	}
	return n, nil
}

func (r *SweetRepo) getMany(ctx context.Context, op, query string, args ...any) ([]*entity.Sweet, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	defer rows.Close()
	list := make([]*entity.Sweet, 0)
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, domain.NewStorageError("scan sweet", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	return list, nil
}

func scanSweet(row pgx.Row) (*entity.Sweet, error) {
	var s entity.Sweet
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
