package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/campus-store/internal/application/auth"
	"github.com/jhoicas/campus-store/internal/application/dto"
	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/infrastructure/badgerstore"
	apphttp "github.com/jhoicas/campus-store/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// buildStoreApp arma la API completa sobre badger en memoria.
func buildStoreApp(t *testing.T) *fiber.App {
	t.Helper()
	return buildStoreAppWithRunner(t, nil)
}

// buildStoreAppWithRunner permite envolver el TxRunner (inyección de fallas).
func buildStoreAppWithRunner(t *testing.T, wrap func(store.TxRunner) store.TxRunner) *fiber.App {
	t.Helper()
	db, err := badgerstore.Open("", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var runner store.TxRunner = badgerstore.NewTxRunner(db)
	if wrap != nil {
		runner = wrap(runner)
	}
	repos := db.Repositories()
	cfg := store.Config{LockTimeout: 2 * time.Second}
	ledger := store.NewApplyStockTransactionUseCase(runner, nil, nil, cfg, zerolog.Nop())
	authUC := auth.NewAuthUseCase(badgerstore.NewUserRepository(db), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}).WithBcryptCost(bcrypt.MinCost)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.RequestLogger(zerolog.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		Ledger:      ledger,
		ItemUC:      store.NewItemUseCase(runner, repos, ledger, cfg),
		ReportUC:    store.NewReportUseCase(repos),
		RequestUC:   store.NewRequestUseCase(runner, repos, ledger, cfg),
		JWTSecret:   testJWTSecret,
		ServiceName: "campus-store",
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func createItem(t *testing.T, app *fiber.App, opening int64) dto.ItemMutationResponse {
	t.Helper()
	status, env := call(t, app, http.MethodPost, "/api/store/items", "storekeeper", map[string]interface{}{
		"name":          "Marcadores de pizarra",
		"category":      "stationery",
		"unit":          "box",
		"minimum_stock": 5,
		"maximum_stock": 50,
		"reorder_level": 10,
		"unit_price":    "12.50",
		"opening_stock": opening,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var out dto.ItemMutationResponse
	decodeData(t, env, &out)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Artículos y transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestItems_AltaConStockInicial(t *testing.T) {
	app := buildStoreApp(t)
	out := createItem(t, app, 20)

	assert.Equal(t, "ITM000001", out.Item.Code)
	assert.Equal(t, int64(20), out.Item.CurrentStock)
	require.NotNil(t, out.OpeningTransaction)
	assert.Equal(t, "adjustment", out.OpeningTransaction.Type)

	status, env := call(t, app, http.MethodGet, "/api/store/items/itm000001", "staff", nil)
	assert.Equal(t, http.StatusOK, status)
	var item dto.ItemResponse
	decodeData(t, env, &item)
	assert.Equal(t, out.Item.ID, item.ID)
}

func TestItems_StaffNoPuedeCrear(t *testing.T) {
	app := buildStoreApp(t)
	status, env := call(t, app, http.MethodPost, "/api/store/items", "staff", map[string]interface{}{
		"name": "Tiza", "category": "stationery", "unit": "box",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Error)
}

func TestItems_CampoDesconocidoRechazado(t *testing.T) {
	app := buildStoreApp(t)
	status, env := call(t, app, http.MethodPost, "/api/store/items", "admin", map[string]interface{}{
		"name": "Tiza", "category": "stationery", "unit": "box", "current_stock": 99,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error)
}

func TestTransactions_FlujoCompleto(t *testing.T) {
	app := buildStoreApp(t)
	item := createItem(t, app, 20).Item

	// Salida mayor al stock: 400 sin efectos
	status, env := call(t, app, http.MethodPost, "/api/store/transactions", "storekeeper", map[string]interface{}{
		"item_id": item.ID, "type": "outward", "quantity": 21, "department": "chemistry",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error)

	// Salida válida
	status, env = call(t, app, http.MethodPost, "/api/store/transactions", "storekeeper", map[string]interface{}{
		"item_id": item.ID, "type": "outward", "quantity": 12, "department": "chemistry",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var applied dto.ApplyTransactionResponse
	decodeData(t, env, &applied)
	assert.Equal(t, int64(8), applied.NewStock)
	assert.True(t, applied.LowStock)
	assert.Equal(t, int64(20), applied.Transaction.PreviousStock)
	assert.Equal(t, "150", applied.Transaction.TotalValue.String())
	assert.Equal(t, testUserID, applied.Transaction.CreatedBy)

	// Historial del artículo: salida y stock inicial, más reciente primero
	status, env = call(t, app, http.MethodGet, "/api/store/items/"+item.ID+"/transactions", "staff", nil)
	require.Equal(t, http.StatusOK, status)
	var hist dto.TransactionListResponse
	decodeData(t, env, &hist)
	require.Len(t, hist.Items, 2)
	assert.Equal(t, 2, hist.Page.Total)
	assert.Equal(t, applied.Transaction.Code, hist.Items[0].Code)

	// Búsqueda por código
	status, _ = call(t, app, http.MethodGet, "/api/store/transactions/"+applied.Transaction.Code, "staff", nil)
	assert.Equal(t, http.StatusOK, status)
	status, env = call(t, app, http.MethodGet, "/api/store/transactions/TXN999999", "staff", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error)

	// Filtro por tipo y rango de fechas
	status, env = call(t, app, http.MethodGet, "/api/store/transactions?type=adjustment", "staff", nil)
	require.Equal(t, http.StatusOK, status)
	decodeData(t, env, &hist)
	assert.Equal(t, 1, hist.Page.Total)

	status, env = call(t, app, http.MethodGet, "/api/store/transactions?from=2020-13-01", "staff", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTransactions_ArticuloInexistente(t *testing.T) {
	app := buildStoreApp(t)
	status, env := call(t, app, http.MethodPost, "/api/store/transactions", "admin", map[string]interface{}{
		"item_id": "00000000-0000-0000-0000-00000000dead", "type": "inward", "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error)
}

func TestTransactions_TipoInvalido(t *testing.T) {
	app := buildStoreApp(t)
	item := createItem(t, app, 0).Item
	status, _ := call(t, app, http.MethodPost, "/api/store/transactions", "admin", map[string]interface{}{
		"item_id": item.ID, "type": "transfer", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTransactions_CantidadYPrecioFueraDeRango(t *testing.T) {
	app := buildStoreApp(t)
	item := createItem(t, app, 5).Item

	status, env := call(t, app, http.MethodPost, "/api/store/transactions", "storekeeper",
		`{"item_id":"`+item.ID+`","type":"inward","quantity":9223372036854775807}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error)

	status, env = call(t, app, http.MethodPost, "/api/store/transactions", "storekeeper", map[string]interface{}{
		"item_id": item.ID, "type": "inward", "quantity": 10, "unit_price": "2.555",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error)

	status, env = call(t, app, http.MethodPost, "/api/store/transactions", "storekeeper", map[string]interface{}{
		"item_id": item.ID, "type": "inward", "quantity": 1, "transaction_date": "1969-12-31T10:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error)

	status, env = call(t, app, http.MethodGet, "/api/store/items/"+item.ID, "staff", nil)
	require.Equal(t, http.StatusOK, status)
	var got dto.ItemResponse
	decodeData(t, env, &got)
	assert.Equal(t, int64(5), got.CurrentStock)
}

// failingRunner simula la caída del almacenamiento.
type failingRunner struct{}

func (failingRunner) Run(context.Context, func(tx store.StoreTx) error) error {
	return errors.New("dial tcp 10.0.0.5:5432: connection refused")
}

func TestTransactions_FallaDeAlmacenamiento(t *testing.T) {
	app := buildStoreAppWithRunner(t, func(store.TxRunner) store.TxRunner { return failingRunner{} })

	status, env := call(t, app, http.MethodPost, "/api/store/transactions", "storekeeper", map[string]interface{}{
		"item_id": "00000000-0000-0000-0000-000000000001", "type": "inward", "quantity": 1,
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, env.Success)
	assert.Equal(t, "STORAGE_FAILURE", env.Error)
	assert.NotContains(t, env.Message, "10.0.0.5", "el detalle interno no se expone")
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestErrorHandler_MapeoDeErrores(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no encontrado", fmt.Errorf("%w: artículo x", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"argumento inválido", fmt.Errorf("%w: cantidad", domain.ErrInvalidArgument), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"stock insuficiente", fmt.Errorf("%w: disponible 1", domain.ErrInsufficientStock), http.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"conflicto", fmt.Errorf("%w: lock timeout", domain.ErrConflict), http.StatusConflict, "CONFLICT"},
		{"falla de almacenamiento", fmt.Errorf("%w: disco lleno", domain.ErrStorageFailure), http.StatusInternalServerError, "STORAGE_FAILURE"},
		{"desconocido", errors.New("panic recuperado"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
			app.Get("/x", func(c *fiber.Ctx) error { return tc.err })

			status, env := call(t, app, http.MethodGet, "/x", "", nil)
			assert.Equal(t, tc.wantStatus, status)
			assert.False(t, env.Success)
			assert.Equal(t, tc.wantCode, env.Error)
			if tc.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, env.Message, tc.err.Error())
			} else {
				assert.Equal(t, tc.err.Error(), env.Message)
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestReports_StockBajoYValorizacion(t *testing.T) {
	app := buildStoreApp(t)
	createItem(t, app, 4)

	status, env := call(t, app, http.MethodGet, "/api/store/reports/low-stock", "staff", nil)
	require.Equal(t, http.StatusOK, status)
	var low []dto.LowStockItemDTO
	decodeData(t, env, &low)
	require.Len(t, low, 1)
	assert.Equal(t, int64(46), low[0].SuggestedOrderQty)
	assert.True(t, low[0].BelowMinimum)

	status, env = call(t, app, http.MethodGet, "/api/store/reports/valuation", "staff", nil)
	require.Equal(t, http.StatusOK, status)
	var val dto.ValuationDTO
	decodeData(t, env, &val)
	assert.Equal(t, "50", val.TotalValue.String())

	status, env = call(t, app, http.MethodGet, "/api/store/categories", "staff", nil)
	require.Equal(t, http.StatusOK, status)
	var cat dto.CatalogDTO
	decodeData(t, env, &cat)
	assert.Contains(t, cat.Units, "ream")
}

// ──────────────────────────────────────────────────────────────────────────────
// Solicitudes
// ──────────────────────────────────────────────────────────────────────────────

func TestRequests_AprobacionGeneraSalida(t *testing.T) {
	app := buildStoreApp(t)
	item := createItem(t, app, 10).Item

	status, env := call(t, app, http.MethodPost, "/api/store/requests", "staff", map[string]interface{}{
		"item_id": item.ID, "quantity": 3, "department": "otro", "purpose": "laboratorio 2",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var req dto.StoreRequestResponse
	decodeData(t, env, &req)
	assert.Equal(t, "pending", req.Status)
	assert.Equal(t, testDepartment, req.Department, "staff solicita para su departamento")

	status, _ = call(t, app, http.MethodPost, "/api/store/requests/"+req.ID+"/approve", "staff", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = call(t, app, http.MethodPost, "/api/store/requests/"+req.ID+"/approve", "storekeeper",
		map[string]string{"note": "entregado"})
	require.Equal(t, http.StatusOK, status, env.Message)
	decodeData(t, env, &req)
	assert.Equal(t, "approved", req.Status)
	assert.NotEmpty(t, req.TransactionID)

	status, env = call(t, app, http.MethodGet, "/api/store/items/"+item.ID, "staff", nil)
	require.Equal(t, http.StatusOK, status)
	var got dto.ItemResponse
	decodeData(t, env, &got)
	assert.Equal(t, int64(7), got.CurrentStock)

	status, env = call(t, app, http.MethodPost, "/api/store/requests/"+req.ID+"/reject", "storekeeper", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Error)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth y rutas generales
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RegistroSoloAdminYLogin(t *testing.T) {
	app := buildStoreApp(t)
	body := map[string]string{"email": "bodega@campus.edu", "password": "secreto123", "role": "storekeeper"}

	status, _ := call(t, app, http.MethodPost, "/api/auth/register", "storekeeper", body)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, app, http.MethodPost, "/api/auth/register", "admin", body)
	require.Equal(t, http.StatusCreated, status)

	status, env := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "bodega@campus.edu", "password": "secreto123",
	})
	require.Equal(t, http.StatusOK, status)
	var login dto.LoginResponse
	decodeData(t, env, &login)
	assert.NotEmpty(t, login.Token)

	status, env = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "bodega@campus.edu", "password": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error)
}

func TestHealthYRutaInexistente(t *testing.T) {
	app := buildStoreApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	status, env := call(t, app, http.MethodGet, "/api/nada", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error)
}
