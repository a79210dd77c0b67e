package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sweet representa un dulce del catálogo con su stock disponible.
// Quantity nunca es negativo; solo el StockLedger lo modifica.
type Sweet struct {
	ID          string
	Name        string
	Category    string          // clave de agrupación para búsquedas (exacta, sensible a mayúsculas)
	Price       decimal.Decimal // precio de venta, >= 0
	Quantity    int64           // unidades en stock, >= 0
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone devuelve una copia independiente del registro.
func (s *Sweet) Clone() *Sweet {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
