package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SweetRequest entrada para crear o reemplazar un dulce (POST y PUT usan el mismo cuerpo).
// Price y Quantity son punteros para distinguir "ausente" de cero.
type SweetRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Category    string           `json:"category" validate:"required,min=1,max=100"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Quantity    *int64           `json:"quantity" validate:"required,min=0"`
	Description string           `json:"description"`
}

// SweetResponse salida de un dulce.
type SweetResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SearchFilter filtros opcionales de búsqueda; nil = sin restricción.
type SearchFilter struct {
	Name     *string
	Category *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}
