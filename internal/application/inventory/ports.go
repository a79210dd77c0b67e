package inventory

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando un repositorio atado a ella.
// Si fn devuelve error no queda ningún cambio visible; si no, todo se confirma junto.
// Garantiza atomicidad lectura-validación-escritura por dulce para el StockLedger.
type TxRunner interface {
	Run(ctx context.Context, fn func(sweetRepo repository.SweetRepository) error) error
}
