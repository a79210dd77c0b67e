package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/application/catalog"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/application/report"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// SweetHandler maneja las peticiones HTTP del catálogo de dulces (protegido).
type SweetHandler struct {
	ledger    *inventory.StockLedger
	search    *catalog.SearchUseCase
	replenish *inventory.ReplenishmentUseCase
	report    *report.StockReportUseCase
}

// NewSweetHandler construye el handler.
func NewSweetHandler(
	ledger *inventory.StockLedger,
	search *catalog.SearchUseCase,
	replenish *inventory.ReplenishmentUseCase,
	rep *report.StockReportUseCase,
) *SweetHandler {
	return &SweetHandler{ledger: ledger, search: search, replenish: replenish, report: rep}
}

// Create godoc
// @Summary      Crear dulce
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SweetRequest  true  "Datos del dulce"
// @Success      201   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/sweets [post]
func (h *SweetHandler) Create(c *fiber.Ctx) error {
	var in dto.SweetRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSweetResponse(out))
}

// List godoc
// @Summary      Listar todos los dulces
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.SweetResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/sweets [get]
func (h *SweetHandler) List(c *fiber.Ctx) error {
	sweets, err := h.ledger.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSweetResponses(sweets))
}

// Search godoc
// @Summary      Buscar dulces
// @Description  Todos los filtros son opcionales y se combinan con AND. name: subcadena sin distinguir
// @Description  mayúsculas; category: exacta; minPrice/maxPrice: límites inclusivos.
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        name      query  string  false  "Subcadena del nombre"
// @Param        category  query  string  false  "Categoría exacta"
// @Param        minPrice  query  number  false  "Precio mínimo"
// @Param        maxPrice  query  number  false  "Precio máximo"
// @Success      200  {array}   dto.SweetResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sweets/search [get]
func (h *SweetHandler) Search(c *fiber.Ctx) error {
	f, err := parseSearchFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: err.Error()})
	}
	sweets, err := h.search.Search(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSweetResponses(sweets))
}

// LowStock godoc
// @Summary      Dulces bajo el umbral de stock
// @Description  Lista de reposición ordenada por stock ascendente, con cantidad sugerida a pedir.
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/sweets/low-stock [get]
func (h *SweetHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.replenish.GenerateReplenishmentList(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte de inventario en PDF
// @Tags         sweets
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sweets/report [get]
func (h *SweetHandler) Report(c *fiber.Ctx) error {
	pdf, filename, err := h.report.Download(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// GetByID godoc
// @Summary      Obtener dulce por ID
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del dulce"
// @Success      200  {object}  dto.SweetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [get]
func (h *SweetHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.ledger.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSweetResponse(out))
}

// Update godoc
// @Summary      Actualizar dulce
// @Description  Reemplaza todos los atributos, incluida la cantidad.
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID del dulce"
// @Param        body  body  dto.SweetRequest  true  "Datos del dulce"
// @Success      200   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [put]
func (h *SweetHandler) Update(c *fiber.Ctx) error {
	var in dto.SweetRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSweetResponse(out))
}

// Delete godoc
// @Summary      Eliminar dulce (solo ADMIN)
// @Tags         sweets
// @Security     Bearer
// @Param        id   path  string  true  "ID del dulce"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [delete]
func (h *SweetHandler) Delete(c *fiber.Ctx) error {
	if err := h.ledger.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Purchase godoc
// @Summary      Comprar (descontar stock)
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del dulce"
// @Param        body  body  dto.StockChangeRequest  true  "Cantidad > 0"
// @Success      200   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse  "Validación o stock insuficiente"
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/purchase [post]
func (h *SweetHandler) Purchase(c *fiber.Ctx) error {
	var in dto.StockChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.Purchase(c.Context(), c.Params("id"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSweetResponse(out))
}

// Restock godoc
// @Summary      Reponer stock
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del dulce"
// @Param        body  body  dto.StockChangeRequest  true  "Cantidad > 0"
// @Success      200   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/restock [post]
func (h *SweetHandler) Restock(c *fiber.Ctx) error {
	var in dto.StockChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.Restock(c.Context(), c.Params("id"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSweetResponse(out))
}

// parseSearchFilter acepta minPrice/maxPrice y también min_price/max_price.
// Parámetros vacíos se tratan como ausentes.
func parseSearchFilter(c *fiber.Ctx) (dto.SearchFilter, error) {
	var f dto.SearchFilter
	if v := c.Query("name"); v != "" {
		f.Name = &v
	}
	if v := c.Query("category"); v != "" {
		f.Category = &v
	}
	var err error
	if f.MinPrice, err = queryDecimal(c, "minPrice", "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryDecimal(c, "maxPrice", "max_price"); err != nil {
		return f, err
	}
	return f, nil
}

func queryDecimal(c *fiber.Ctx, keys ...string) (*decimal.Decimal, error) {
	for _, k := range keys {
		raw := strings.TrimSpace(c.Query(k))
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, k+" no es un número válido")
		}
		return &d, nil
	}
	return nil, nil
}

func toSweetResponse(s *entity.Sweet) dto.SweetResponse {
	return dto.SweetResponse{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Price:       s.Price,
		Quantity:    s.Quantity,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toSweetResponses(sweets []*entity.Sweet) []dto.SweetResponse {
	out := make([]dto.SweetResponse, 0, len(sweets))
	for _, s := range sweets {
		out = append(out, toSweetResponse(s))
	}
	return out
}
