package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// StockReportLine una fila del reporte: el dulce, su valor en stock y si está bajo el umbral.
type StockReportLine struct {
	Sweet      *entity.Sweet
	StockValue decimal.Decimal // Price * Quantity
	LowStock   bool
}

// StockReport datos completos del reporte de inventario.
type StockReport struct {
	GeneratedAt time.Time
	Threshold   int64
	Lines       []StockReportLine
	TotalUnits  int64
	TotalValue  decimal.Decimal
	LowCount    int
}

// StockReportGenerator genera la representación PDF del reporte (puerto de infraestructura).
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, report *StockReport) ([]byte, error)
}
