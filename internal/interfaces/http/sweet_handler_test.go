package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/catalog"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/application/report"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/sweetshop-api/internal/interfaces/http"
)

type fakePDF struct{}

func (fakePDF) GenerateStockReport(_ context.Context, _ *report.StockReport) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

type testAPI struct {
	app        *fiber.App
	adminToken string
	userToken  string
}

// newTestAPI arma la API completa sobre los adaptadores en memoria.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithTx(t, func(tx inventory.TxRunner) inventory.TxRunner { return tx })
}

// newTestAPIWithTx permite envolver el TxRunner del ledger.
func newTestAPIWithTx(t *testing.T, wrap func(inventory.TxRunner) inventory.TxRunner) *testAPI {
	t.Helper()
	sweets := memory.NewSweetStore()
	users := memory.NewUserStore()
	ledger := inventory.NewStockLedger(sweets, wrap(memory.NewTxRunner(sweets)), zerolog.Nop())
	replenish := inventory.NewReplenishmentUseCase(sweets, inventory.DefaultLowStockThreshold)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		Ledger:      ledger,
		SearchUC:    catalog.NewSearchUseCase(sweets),
		ReplenishUC: replenish,
		ReportUC:    report.NewStockReportUseCase(sweets, replenish, fakePDF{}),
		JWTSecret:   testJWTSecret,
	})
	return &testAPI{
		app:        app,
		adminToken: tokenForRole(t, "ADMIN"),
		userToken:  tokenForRole(t, "USER"),
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (a *testAPI) createSweet(t *testing.T, name, category, price string, qty int64) dto.SweetResponse {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/sweets", a.userToken, map[string]any{
		"name": name, "category": category, "price": json.Number(price), "quantity": qty,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.SweetResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSweets_SinToken_Retorna401(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/api/sweets", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSweets_CrearYObtener(t *testing.T) {
	api := newTestAPI(t)
	created := api.createSweet(t, "Milk Chocolate Bar", "Chocolate", "2.50", 100)
	assert.NotEmpty(t, created.ID)

	resp := api.do(t, http.MethodGet, "/api/sweets/"+created.ID, api.userToken, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got dto.SweetResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Milk Chocolate Bar", got.Name)
	assert.True(t, decimal.RequireFromString("2.50").Equal(got.Price))
	assert.Equal(t, int64(100), got.Quantity)
}

func TestSweets_CrearInvalido_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodPost, "/api/sweets", api.userToken, map[string]any{
		"name": "Bad", "category": "Gummy", "price": -1, "quantity": 5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestSweets_CompraYReposicion(t *testing.T) {
	api := newTestAPI(t)
	s := api.createSweet(t, "Caramel Toffee", "Toffee", "1.75", 100)
	path := "/api/sweets/" + s.ID

	resp := api.do(t, http.MethodPost, path+"/purchase", api.userToken, dto.StockChangeRequest{Quantity: 40})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.SweetResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	assert.Equal(t, int64(60), out.Quantity)

	resp = api.do(t, http.MethodPost, path+"/purchase", api.userToken, dto.StockChangeRequest{Quantity: 70})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	assert.Contains(t, e.Message, "Disponible: 60")
	assert.Contains(t, e.Message, "solicitado: 70")

	resp = api.do(t, http.MethodPost, path+"/restock", api.userToken, dto.StockChangeRequest{Quantity: 10})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	assert.Equal(t, int64(70), out.Quantity)
}

type failingTxRunner struct {
	inner inventory.TxRunner
}

func (r failingTxRunner) Run(ctx context.Context, fn func(sweetRepo repository.SweetRepository) error) error {
	return r.inner.Run(ctx, func(repo repository.SweetRepository) error {
		return fn(failingUpdateRepo{SweetRepository: repo})
	})
}

type failingUpdateRepo struct {
	repository.SweetRepository
}

func (failingUpdateRepo) Update(_ context.Context, _ *entity.Sweet) error {
	return domain.NewStorageError("update", errors.New("conexión perdida"))
}

func TestSweets_FallaDeAlmacenamiento_Retorna500(t *testing.T) {
	api := newTestAPIWithTx(t, func(tx inventory.TxRunner) inventory.TxRunner {
		return failingTxRunner{inner: tx}
	})
	s := api.createSweet(t, "Gummy Bears", "Gummy", "0.99", 10)
	path := "/api/sweets/" + s.ID

	for _, op := range []string{"/purchase", "/restock"} {
		resp := api.do(t, http.MethodPost, path+op, api.userToken, dto.StockChangeRequest{Quantity: 3})
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, op)
		e := decodeError(t, resp)
		assert.Equal(t, "INTERNAL", e.Code)
		assert.Equal(t, "error de almacenamiento", e.Message)
	}

	resp := api.do(t, http.MethodGet, path, api.userToken, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.SweetResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, int64(10), got.Quantity)
}

func TestSweets_CompraCantidadCero_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	s := api.createSweet(t, "Lollipop Mix", "Lollipop", "1.50", 10)
	resp := api.do(t, http.MethodPost, "/api/sweets/"+s.ID+"/purchase", api.userToken, dto.StockChangeRequest{Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestSweets_CompraIDInexistente_Retorna404(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodPost, "/api/sweets/no-existe/purchase", api.userToken, dto.StockChangeRequest{Quantity: 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
}

func TestSweets_Actualizar(t *testing.T) {
	api := newTestAPI(t)
	s := api.createSweet(t, "Gummies", "Gummy", "3.00", 150)
	resp := api.do(t, http.MethodPut, "/api/sweets/"+s.ID, api.userToken, map[string]any{
		"name": "Strawberry Gummies", "category": "Gummy", "price": 3.25, "quantity": 20,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.SweetResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Strawberry Gummies", out.Name)
	assert.Equal(t, int64(20), out.Quantity)
	assert.True(t, decimal.RequireFromString("3.25").Equal(out.Price))
}

func TestSweets_EliminarSoloAdmin(t *testing.T) {
	api := newTestAPI(t)
	s := api.createSweet(t, "Dark Chocolate Truffle", "Chocolate", "4.50", 50)
	path := "/api/sweets/" + s.ID

	resp := api.do(t, http.MethodDelete, path, api.userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodDelete, path, api.adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodGet, path, api.userToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodDelete, path, api.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSweets_Buscar(t *testing.T) {
	api := newTestAPI(t)
	api.createSweet(t, "Milk Chocolate Bar", "Chocolate", "2.50", 100)
	api.createSweet(t, "Strawberry Gummies", "Gummy", "3.00", 150)
	api.createSweet(t, "Dark Chocolate Truffle", "Chocolate", "4.50", 50)
	api.createSweet(t, "Chocolate Coin", "Chocolate", "0.50", 500)

	resp := api.do(t, http.MethodGet, "/api/sweets/search?category=Chocolate&minPrice=2.00", api.userToken, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []dto.SweetResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 2)
	assert.Equal(t, "Milk Chocolate Bar", out[0].Name)
	assert.Equal(t, "Dark Chocolate Truffle", out[1].Name)
}

func TestSweets_BuscarPorNombreSinMayusculas(t *testing.T) {
	api := newTestAPI(t)
	api.createSweet(t, "Milk Chocolate Bar", "Chocolate", "2.50", 100)
	api.createSweet(t, "Strawberry Gummies", "Gummy", "3.00", 150)

	resp := api.do(t, http.MethodGet, "/api/sweets/search?name=CHOC&max_price=3", api.userToken, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []dto.SweetResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, "Milk Chocolate Bar", out[0].Name)
}

func TestSweets_BuscarPrecioInvalido_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/api/sweets/search?minPrice=abc", api.userToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_PARAMS", decodeError(t, resp).Code)
}

func TestSweets_ListarYStockBajo(t *testing.T) {
	api := newTestAPI(t)
	api.createSweet(t, "Milk Chocolate Bar", "Chocolate", "2.50", 100)
	low := api.createSweet(t, "Caramel Toffee", "Toffee", "1.75", 3)

	resp := api.do(t, http.MethodGet, "/api/sweets", api.userToken, nil)
	var all []dto.SweetResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	resp.Body.Close()
	assert.Len(t, all, 2)

	resp = api.do(t, http.MethodGet, "/api/sweets/low-stock", api.userToken, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var suggestions []dto.ReplenishmentSuggestionDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&suggestions))
	require.Len(t, suggestions, 1)
	assert.Equal(t, low.ID, suggestions[0].SweetID)
	assert.Equal(t, int64(3), suggestions[0].CurrentStock)
}

func TestSweets_ReportePDF(t *testing.T) {
	api := newTestAPI(t)
	api.createSweet(t, "Milk Chocolate Bar", "Chocolate", "2.50", 100)

	resp := api.do(t, http.MethodGet, "/api/sweets/report", api.userToken, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventario-")

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestAuth_RegistroLoginYMe(t *testing.T) {
	api := newTestAPI(t)
	reg := dto.RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "secreto1"}

	resp := api.do(t, http.MethodPost, "/api/auth/register", "", reg)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var user dto.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	resp.Body.Close()
	assert.Equal(t, "USER", user.Role)

	resp = api.do(t, http.MethodPost, "/api/auth/register", "", reg)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "USERNAME_EXISTS", decodeError(t, resp).Code)

	resp = api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ana", Password: "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ana", Password: "secreto1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "Bearer", login.Type)

	resp = api.do(t, http.MethodGet, "/api/auth/me", "Bearer "+login.Token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, "ana", me.Username)
	assert.Equal(t, user.ID, me.ID)
}

func TestAuth_RegistroPasswordCorto_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "123"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}
