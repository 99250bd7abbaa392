package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjhardware/inventory-engine/api"
	"github.com/sjhardware/inventory-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRouter(t *testing.T) (*chi.Mux, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return api.NewRouter(api.NewHandler(store), nil), store
}

func seededRouter(t *testing.T) (*chi.Mux, *sqlite.Store) {
	t.Helper()
	router, store := newTestRouter(t)
	_, err := store.SeedDefaultChart(context.Background())
	require.NoError(t, err)
	return router, store
}

// do sends a JSON request through the router and decodes the JSON
// response into out (when out is non-nil).
func do(t *testing.T, router *chi.Mux, method, path string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out),
			"response body: %s", rec.Body.String())
	}
	return rec
}

func createProductViaAPI(t *testing.T, router *chi.Mux, sku string, quantity int64, price string) int64 {
	t.Helper()
	var product map[string]any
	rec := do(t, router, http.MethodPost, "/api/inventory/products", map[string]any{
		"sku":      sku,
		"name":     "Product " + sku,
		"quantity": quantity,
		"price":    price,
	}, &product)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return int64(product["id"].(float64))
}

// =============================================================================
// CHART OF ACCOUNTS
// =============================================================================

func TestSeedAccountsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	var seeded map[string]any
	rec := do(t, router, http.MethodPost, "/api/accounts/seed", nil, &seeded)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 14, seeded["created"])

	var accounts []map[string]any
	rec = do(t, router, http.MethodGet, "/api/accounts", nil, &accounts)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, accounts, 14)

	// Seeding again creates nothing new.
	rec = do(t, router, http.MethodPost, "/api/accounts/seed", nil, &seeded)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, seeded["created"])
}

func TestGetAccount_NotFound(t *testing.T) {
	router, _ := seededRouter(t)

	rec := do(t, router, http.MethodGet, "/api/accounts/0000", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// SALES
// =============================================================================

func TestCreateSale_HappyPath(t *testing.T) {
	router, _ := seededRouter(t)
	productID := createProductViaAPI(t, router, "SKU-1", 10, "50")

	var sale map[string]any
	rec := do(t, router, http.MethodPost, "/api/sales", map[string]any{
		"number":      "S-001",
		"sale_date":   "2026-02-01",
		"amount_paid": "40",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 2, "unit_price": "50"},
		},
	}, &sale)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, "S-001", sale["number"])
	assert.Equal(t, "100.00", sale["total_amount"])
	assert.Equal(t, "40.00", sale["total_paid"])
	assert.Equal(t, "60.00", sale["balance"])
	assert.Equal(t, "Partial", sale["status"])
	assert.Equal(t, "INV-00001", sale["transaction_code"])
	assert.Equal(t, "2026-02-01", sale["sale_date"])

	// The posting is visible through the audit export.
	var entries []map[string]any
	rec = do(t, router, http.MethodGet, "/api/ledger", nil, &entries)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, entries)
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	router, _ := seededRouter(t)
	productID := createProductViaAPI(t, router, "SKU-1", 1, "50")

	var resp map[string]any
	rec := do(t, router, http.MethodPost, "/api/sales", map[string]any{
		"number":    "S-002",
		"sale_date": "2026-02-01",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 5, "unit_price": "50"},
		},
	}, &resp)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, resp["details"], "insufficient stock")
}

func TestCreateSale_BadDate(t *testing.T) {
	router, _ := seededRouter(t)
	productID := createProductViaAPI(t, router, "SKU-1", 10, "50")

	rec := do(t, router, http.MethodPost, "/api/sales", map[string]any{
		"number":    "S-003",
		"sale_date": "02/01/2026",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 1, "unit_price": "50"},
		},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSale_MissingItems(t *testing.T) {
	router, _ := seededRouter(t)

	rec := do(t, router, http.MethodPost, "/api/sales", map[string]any{
		"number": "S-004",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSale_NotFound(t *testing.T) {
	router, _ := seededRouter(t)

	rec := do(t, router, http.MethodGet, "/api/sales/42", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVoidSale_ThenVoidAgain(t *testing.T) {
	router, _ := seededRouter(t)
	productID := createProductViaAPI(t, router, "SKU-1", 10, "50")

	var sale map[string]any
	rec := do(t, router, http.MethodPost, "/api/sales", map[string]any{
		"number":    "S-005",
		"sale_date": "2026-02-01",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 2, "unit_price": "50"},
		},
	}, &sale)
	require.Equal(t, http.StatusCreated, rec.Code)
	saleID := int64(sale["id"].(float64))

	var voided map[string]any
	rec = do(t, router, http.MethodPost, fmt.Sprintf("/api/sales/%d/void", saleID),
		map[string]any{"reason": "customer cancelled"}, &voided)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Voided", voided["status"])

	// Stock came back.
	var product map[string]any
	rec = do(t, router, http.MethodGet, fmt.Sprintf("/api/inventory/products/%d", productID), nil, &product)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 10, product["quantity"])

	rec = do(t, router, http.MethodPost, fmt.Sprintf("/api/sales/%d/void", saleID),
		map[string]any{"reason": "again"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// =============================================================================
// PAYMENTS
// =============================================================================

func TestPaymentLifecycle(t *testing.T) {
	router, _ := seededRouter(t)
	productID := createProductViaAPI(t, router, "SKU-1", 10, "100")

	var sale map[string]any
	rec := do(t, router, http.MethodPost, "/api/sales", map[string]any{
		"number":    "S-006",
		"sale_date": "2026-02-01",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 1, "unit_price": "100"},
		},
	}, &sale)
	require.Equal(t, http.StatusCreated, rec.Code)
	saleID := int64(sale["id"].(float64))

	var created map[string]map[string]any
	rec = do(t, router, http.MethodPost, "/api/payments", map[string]any{
		"sale_id":      saleID,
		"amount":       "100",
		"account_code": "1000",
	}, &created)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Paid", created["sale"]["status"])
	paymentID := int64(created["payment"]["id"].(float64))

	var afterDelete map[string]any
	rec = do(t, router, http.MethodDelete, fmt.Sprintf("/api/payments/%d", paymentID),
		map[string]any{"reason": "entered twice"}, &afterDelete)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Pending", afterDelete["status"])
}

// =============================================================================
// PURCHASE ORDERS
// =============================================================================

func TestPurchaseOrderLifecycle(t *testing.T) {
	router, _ := seededRouter(t)
	productID := createProductViaAPI(t, router, "SKU-1", 0, "50")

	var supplier map[string]any
	rec := do(t, router, http.MethodPost, "/api/suppliers", map[string]any{
		"name": "Acme Wholesale",
	}, &supplier)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	supplierID := int64(supplier["id"].(float64))

	var po map[string]any
	rec = do(t, router, http.MethodPost, "/api/suppliers/orders", map[string]any{
		"supplier_id":    supplierID,
		"invoice_number": "ACME-17",
		"purchase_date":  "2026-01-05",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 10, "unit_cost": "30"},
		},
	}, &po)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "300.00", po["total_amount"])
	assert.Equal(t, "Pending", po["status"])
	poID := int64(po["id"].(float64))

	// Overpay: rejected with nothing posted.
	rec = do(t, router, http.MethodPost, fmt.Sprintf("/api/suppliers/orders/%d/pay", poID),
		map[string]any{"amount": "301", "account_code": "1000"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var paid map[string]map[string]any
	rec = do(t, router, http.MethodPost, fmt.Sprintf("/api/suppliers/orders/%d/pay", poID),
		map[string]any{"amount": "300", "account_code": "1000"}, &paid)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Paid", paid["purchase_order"]["status"])

	var voided map[string]any
	rec = do(t, router, http.MethodPost, fmt.Sprintf("/api/suppliers/orders/%d/void", poID),
		map[string]any{"reason": "duplicate"}, &voided)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Voided", voided["status"])
}

// =============================================================================
// EXPENSES
// =============================================================================

func TestExpenseLifecycle(t *testing.T) {
	router, _ := seededRouter(t)

	var expense map[string]any
	rec := do(t, router, http.MethodPost, "/api/expenses", map[string]any{
		"description":  "March shop costs",
		"expense_date": "2026-03-01",
		"items": []map[string]any{
			{"account_code": "5100", "name": "Shop rent", "amount": "200"},
			{"account_code": "5300", "name": "Electricity", "amount": "50"},
		},
	}, &expense)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "250.00", expense["total_amount"])
	assert.Equal(t, "Paid", expense["status"])
	expenseID := int64(expense["id"].(float64))

	var voided map[string]any
	rec = do(t, router, http.MethodPost, fmt.Sprintf("/api/expenses/%d/void", expenseID),
		map[string]any{"reason": "entered twice"}, &voided)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Voided", voided["status"])
}

// =============================================================================
// STOCK ADJUSTMENTS
// =============================================================================

func TestCreateStockAdjustment(t *testing.T) {
	router, _ := seededRouter(t)
	productID := createProductViaAPI(t, router, "SKU-1", 10, "50")

	var adj map[string]any
	rec := do(t, router, http.MethodPost, "/api/inventory/adjustments", map[string]any{
		"product_id": productID,
		"delta":      -3,
		"reason":     "shrinkage",
	}, &adj)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.EqualValues(t, -3, adj["delta"])

	var product map[string]any
	rec = do(t, router, http.MethodGet, fmt.Sprintf("/api/inventory/products/%d", productID), nil, &product)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 7, product["quantity"])
}
