package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// DefaultLowStockThreshold umbral usado si la configuración no define otro.
const DefaultLowStockThreshold int64 = 10

// ReplenishmentUseCase genera la lista de reposición: dulces con stock bajo el umbral,
// con la cantidad sugerida para llegar al stock ideal (umbral * 1.5, redondeado hacia arriba).
type ReplenishmentUseCase struct {
	repo      repository.SweetRepository
	threshold int64
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(repo repository.SweetRepository, threshold int64) *ReplenishmentUseCase {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &ReplenishmentUseCase{repo: repo, threshold: threshold}
}

// Threshold devuelve el umbral de stock bajo configurado.
func (uc *ReplenishmentUseCase) Threshold() int64 { return uc.threshold }

// IsLow indica si una cantidad está por debajo del umbral.
func (uc *ReplenishmentUseCase) IsLow(quantity int64) bool { return quantity < uc.threshold }

// GenerateReplenishmentList devuelve los dulces bajo el umbral ordenados por urgencia
// (menor stock primero; a igual stock, por nombre).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	ideal := (uc.threshold*3 + 1) / 2

	result := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, s := range all {
		if !uc.IsLow(s.Quantity) {
			continue
		}
		result = append(result, dto.ReplenishmentSuggestionDTO{
			SweetID:           s.ID,
			Name:              s.Name,
			Category:          s.Category,
			CurrentStock:      s.Quantity,
			Threshold:         uc.threshold,
			IdealStock:        ideal,
			SuggestedOrderQty: ideal - s.Quantity,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CurrentStock != result[j].CurrentStock {
			return result[i].CurrentStock < result[j].CurrentStock
		}
		return result[i].Name < result[j].Name
	})
	for i := range result {
		result[i].Priority = i + 1
	}
	return result, nil
}
