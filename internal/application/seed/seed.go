// Package seed carga los datos de ejemplo: usuarios admin/user y cinco dulces.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

type seedUser struct {
	username, email, password, role string
}

var defaultUsers = []seedUser{
	{"admin", "admin@sweetshop.com", "admin123", entity.RoleAdmin},
	{"user", "user@sweetshop.com", "user123", entity.RoleUser},
}

type seedSweet struct {
	name, category, price string
	quantity              int64
	description           string
}

var defaultSweets = []seedSweet{
	{"Milk Chocolate Bar", "Chocolate", "2.50", 100, "Creamy milk chocolate bar"},
	{"Strawberry Gummies", "Gummy", "3.00", 150, "Chewy strawberry flavored gummies"},
	{"Caramel Toffee", "Toffee", "1.75", 80, "Rich buttery caramel toffee"},
	{"Lollipop Mix", "Lollipop", "1.50", 200, "Assorted fruit flavored lollipops"},
	{"Dark Chocolate Truffle", "Chocolate", "4.50", 50, "Premium dark chocolate truffle"},
}

// Seeder crea los datos iniciales si faltan. Es idempotente.
type Seeder struct {
	users  repository.UserRepository
	sweets repository.SweetRepository
	ledger *inventory.StockLedger
	log    zerolog.Logger
}

// NewSeeder construye el seeder. Los dulces se crean vía StockLedger para pasar por la validación.
func NewSeeder(users repository.UserRepository, sweets repository.SweetRepository, ledger *inventory.StockLedger, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, sweets: sweets, ledger: ledger, log: log}
}

// Run crea los usuarios que no existan y los dulces solo si el catálogo está vacío.
func (s *Seeder) Run(ctx context.Context) error {
	for _, u := range defaultUsers {
		exists, err := s.users.ExistsByUsername(ctx, u.username)
		if err != nil {
			return fmt.Errorf("seed: verificar usuario %s: %w", u.username, err)
		}
		if exists {
			continue
		}
		user, err := auth.NewUser(u.username, u.email, u.password, u.role)
		if err != nil {
			return fmt.Errorf("seed: construir usuario %s: %w", u.username, err)
		}
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("seed: crear usuario %s: %w", u.username, err)
		}
		s.log.Info().Str("username", u.username).Str("role", u.role).Msg("usuario de ejemplo creado")
	}

	count, err := s.sweets.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: contar dulces: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, sw := range defaultSweets {
		price := decimal.RequireFromString(sw.price)
		qty := sw.quantity
		if _, err := s.ledger.Create(ctx, dto.SweetRequest{
			Name:        sw.name,
			Category:    sw.category,
			Price:       &price,
			Quantity:    &qty,
			Description: sw.description,
		}); err != nil {
			return fmt.Errorf("seed: crear dulce %s: %w", sw.name, err)
		}
	}
	s.log.Info().Int("items", len(defaultSweets)).Msg("dulces de ejemplo creados")
	return nil
}
