// Package report contiene el caso de uso del reporte de inventario en PDF.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// LowStockPolicy decide si una cantidad está bajo el umbral (lo implementa inventory.ReplenishmentUseCase).
type LowStockPolicy interface {
	Threshold() int64
	IsLow(quantity int64) bool
}

// StockReportUseCase arma el reporte desde el catálogo y delega el render al generador.
type StockReportUseCase struct {
	repo      repository.SweetRepository
	policy    LowStockPolicy
	generator StockReportGenerator
	now       func() time.Time
}

// NewStockReportUseCase construye el caso de uso inyectando sus dependencias.
func NewStockReportUseCase(repo repository.SweetRepository, policy LowStockPolicy, generator StockReportGenerator) *StockReportUseCase {
	return &StockReportUseCase{repo: repo, policy: policy, generator: generator, now: time.Now}
}

// Build calcula las filas y totales del reporte sin renderizar.
func (uc *StockReportUseCase) Build(ctx context.Context) (*StockReport, error) {
	sweets, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	rep := &StockReport{
		GeneratedAt: uc.now(),
		Threshold:   uc.policy.Threshold(),
		Lines:       make([]StockReportLine, 0, len(sweets)),
		TotalValue:  decimal.Zero,
	}
	for _, s := range sweets {
		value := s.Price.Mul(decimal.NewFromInt(s.Quantity))
		low := uc.policy.IsLow(s.Quantity)
		rep.Lines = append(rep.Lines, StockReportLine{Sweet: s, StockValue: value, LowStock: low})
		rep.TotalUnits += s.Quantity
		rep.TotalValue = rep.TotalValue.Add(value)
		if low {
			rep.LowCount++
		}
	}
	return rep, nil
}

// Download genera el PDF y devuelve (bytes, nombre de archivo).
func (uc *StockReportUseCase) Download(ctx context.Context) ([]byte, string, error) {
	rep, err := uc.Build(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: cargar catálogo: %w", err)
	}
	pdf, err := uc.generator.GenerateStockReport(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar pdf: %w", err)
	}
	filename := fmt.Sprintf("inventario-%s.pdf", rep.GeneratedAt.Format("20060102-1504"))
	return pdf, filename, nil
}
