// Package catalog implementa la búsqueda de solo lectura sobre el catálogo de dulces.
package catalog

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	domcatalog "github.com/jhoicas/sweetshop-api/internal/domain/catalog"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// SearchUseCase motor de consultas del catálogo. Sin estado; nunca escribe.
type SearchUseCase struct {
	repo repository.SweetRepository
}

// NewSearchUseCase construye el caso de uso.
func NewSearchUseCase(repo repository.SweetRepository) *SearchUseCase {
	return &SearchUseCase{repo: repo}
}

// Search devuelve todos los dulces que cumplen los filtros presentes (AND).
//   - Name: subcadena sin distinguir mayúsculas.
//   - Category: coincidencia exacta.
//   - MinPrice / MaxPrice: límites inclusivos.
//
// Sin paginación. El repositorio reduce el conjunto (categoría primero, luego nombre)
// y el resto de filtros se aplica aquí.
func (uc *SearchUseCase) Search(ctx context.Context, f dto.SearchFilter) ([]*entity.Sweet, error) {
	var (
		candidates []*entity.Sweet
		err        error
	)
	switch {
	case f.Category != nil:
		candidates, err = uc.repo.FindByCategory(ctx, *f.Category)
	case f.Name != nil:
		candidates, err = uc.repo.FindByNameContains(ctx, *f.Name, true)
	default:
		candidates, err = uc.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*entity.Sweet, 0, len(candidates))
	for _, s := range candidates {
		if Matches(s, f) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Matches evalúa todos los filtros sobre un dulce.
func Matches(s *entity.Sweet, f dto.SearchFilter) bool {
	if f.Name != nil && !domcatalog.ContainsFold(s.Name, *f.Name) {
		return false
	}
	if f.Category != nil && s.Category != *f.Category {
		return false
	}
	if f.MinPrice != nil && s.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && s.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}
