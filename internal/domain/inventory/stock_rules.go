package inventory

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/domain"
)

// ValidateAttributes aplica las reglas de un registro de catálogo (servicio de dominio).
// Nombre y categoría no vacíos; precio y cantidad no negativos.
func ValidateAttributes(name, category string, price decimal.Decimal, quantity int64) error {
	if strings.TrimSpace(name) == "" {
		return domain.Invalid("name", "es requerido")
	}
	if strings.TrimSpace(category) == "" {
		return domain.Invalid("category", "es requerido")
	}
	if price.IsNegative() {
		return domain.Invalid("price", "no puede ser negativo")
	}
	if quantity < 0 {
		return domain.Invalid("quantity", "no puede ser negativo")
	}
	return nil
}

// ValidateMovement exige una cantidad de compra/reposición estrictamente positiva.
func ValidateMovement(quantity int64) error {
	if quantity <= 0 {
		return domain.Invalid("quantity", "debe ser mayor que cero")
	}
	return nil
}

// Decrement calcula el stock tras una compra.
// Si available < requested devuelve *domain.InsufficientStockError y no hay cambio.
func Decrement(available, requested int64) (int64, error) {
	if err := ValidateMovement(requested); err != nil {
		return available, err
	}
	if available < requested {
		return available, &domain.InsufficientStockError{Available: available, Requested: requested}
	}
	return available - requested, nil
}

// Increment calcula el stock tras una reposición. No hay tope de negocio,
// solo se rechaza lo que desbordaría int64.
func Increment(current, added int64) (int64, error) {
	if err := ValidateMovement(added); err != nil {
		return current, err
	}
	if current > math.MaxInt64-added {
		return current, domain.Invalid("quantity", "excede la capacidad del contador de stock")
	}
	return current + added, nil
}
