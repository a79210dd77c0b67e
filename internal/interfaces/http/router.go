package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/catalog"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/application/report"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Ledger      *inventory.StockLedger
	SearchUC    *catalog.SearchUseCase
	ReplenishUC *inventory.ReplenishmentUseCase
	ReportUC    *report.StockReportUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Sweets (protegido). Las rutas fijas van antes de /:id.
	sweetHandler := NewSweetHandler(deps.Ledger, deps.SearchUC, deps.ReplenishUC, deps.ReportUC)
	sweets := api.Group("/sweets", AuthMiddleware(deps.JWTSecret))
	sweets.Post("/", sweetHandler.Create)
	sweets.Get("/", sweetHandler.List)
	sweets.Get("/search", sweetHandler.Search)
	sweets.Get("/low-stock", sweetHandler.LowStock)
	sweets.Get("/report", sweetHandler.Report)
	sweets.Get("/:id", sweetHandler.GetByID)
	sweets.Put("/:id", sweetHandler.Update)
	sweets.Delete("/:id", RequireRole(entity.RoleAdmin), sweetHandler.Delete)
	sweets.Post("/:id/purchase", sweetHandler.Purchase)
	sweets.Post("/:id/restock", sweetHandler.Restock)
}
