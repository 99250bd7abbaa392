/*
handlers.go - HTTP API handlers for the inventory and accounting backend

PURPOSE:
  Exposes the posting engine and master data via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Accounts:
    GET    /api/accounts                List chart of accounts
    POST   /api/accounts                Create account
    POST   /api/accounts/seed           Install default chart
    GET    /api/accounts/{code}         Get account
    PUT    /api/accounts/{code}         Update account

  Inventory:
    GET/POST /api/inventory/products    List (?q=) / create products
    GET/PUT  /api/inventory/products/{id}
    GET/POST /api/inventory/categories  List / create categories
    PUT      /api/inventory/categories/{id}
    GET/POST /api/inventory/adjustments Stock adjustments

  Parties:
    GET/POST /api/customers, PUT /api/customers/{id}
    GET/POST /api/suppliers, PUT /api/suppliers/{id}

  Documents:
    POST   /api/sales                   Create sale (posts to ledger)
    GET    /api/sales, /api/sales/{id}
    POST   /api/sales/{id}/void
    POST   /api/payments                Record payment against a sale
    GET    /api/payments/{id}
    DELETE /api/payments/{id}           Reverse and soft-delete
    POST   /api/suppliers/orders        Create purchase order
    GET    /api/suppliers/orders, /{id}
    POST   /api/suppliers/orders/{id}/pay
    POST   /api/suppliers/orders/{id}/void
    POST   /api/expenses                Create expense
    GET    /api/expenses, /{id}
    POST   /api/expenses/{id}/void

  Ledger (audit):
    GET /api/ledger                     Recent entries (?limit=)
    GET /api/ledger/accounts/{code}     Entries for one account
    GET /api/ledger/transactions/{id}   Entries for one transaction
    GET /api/ledger/sequences           Counter positions

ERROR HANDLING:
  Domain failures map to status codes by error class:
  - 400: Validation errors, malformed input
  - 404: Missing account/document/payment references
  - 409: Concurrent modification (safe to retry)
  - 422: Business rule refusals (insufficient stock, double void,
         posting against a voided document)
  - 503: Transaction numbering exhausted its retry budget
  - 500: Everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - posting/service.go: The orchestrators these delegate to
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sjhardware/inventory-engine/ledger"
	"github.com/sjhardware/inventory-engine/posting"
	"github.com/sjhardware/inventory-engine/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Service *posting.Service
}

// NewHandler creates a handler over the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:   store,
		Service: posting.NewService(store),
	}
}

// =============================================================================
// ACCOUNT ENDPOINTS
// =============================================================================

// ListAccounts returns the chart of accounts.
// GET /api/accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Store.ListAccounts(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list accounts", err)
		return
	}

	dtos := make([]AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		dtos = append(dtos, toAccountDTO(a))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAccount adds an account to the chart.
// POST /api/accounts
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Code == "" || req.Name == "" || req.Class == "" {
		writeError(w, http.StatusBadRequest, "code, name and class are required", nil)
		return
	}

	account := &ledger.Account{
		Code:        req.Code,
		Name:        req.Name,
		Class:       ledger.AccountClass(req.Class),
		Description: req.Description,
		Active:      true,
	}
	if err := h.Store.CreateAccount(r.Context(), account); err != nil {
		writeDomainError(w, "Failed to create account", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(*account))
}

// GetAccount returns one account by code.
// GET /api/accounts/{code}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	account, err := h.Store.AccountByCode(r.Context(), code)
	if err != nil {
		writeDomainError(w, "Failed to get account", err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(*account))
}

// UpdateAccount updates an account's mutable fields.
// PUT /api/accounts/{code}
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	account, err := h.Store.AccountByCode(r.Context(), code)
	if err != nil {
		writeDomainError(w, "Failed to get account", err)
		return
	}

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name != "" {
		account.Name = req.Name
	}
	if req.Description != "" {
		account.Description = req.Description
	}
	if req.Active != nil {
		account.Active = *req.Active
	}

	if err := h.Store.UpdateAccount(r.Context(), account); err != nil {
		writeDomainError(w, "Failed to update account", err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(*account))
}

// SeedAccounts installs the default chart, skipping existing codes.
// POST /api/accounts/seed
func (h *Handler) SeedAccounts(w http.ResponseWriter, r *http.Request) {
	created, err := h.Store.SeedDefaultChart(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to seed accounts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}

// =============================================================================
// LEDGER ENDPOINTS (audit export)
// =============================================================================

// ListEntries returns recent ledger entries, newest first.
// GET /api/ledger?limit=
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.Store.ListEntries(r.Context(), limit)
	if err != nil {
		writeDomainError(w, "Failed to list entries", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// EntriesByAccount returns entries against one account code.
// GET /api/ledger/accounts/{code}?limit=
func (h *Handler) EntriesByAccount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.Store.EntriesByAccount(r.Context(), code, limit)
	if err != nil {
		writeDomainError(w, "Failed to list entries", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// EntriesByTransaction returns every entry in one transaction.
// GET /api/ledger/transactions/{id}
func (h *Handler) EntriesByTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction id", err)
		return
	}
	entries, err := h.Store.EntriesByTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to list entries", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// ListSequences returns every transaction-number counter.
// GET /api/ledger/sequences
func (h *Handler) ListSequences(w http.ResponseWriter, r *http.Request) {
	seqs, err := h.Store.Sequences(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list sequences", err)
		return
	}

	dtos := make([]SequenceDTO, 0, len(seqs))
	for _, s := range seqs {
		dtos = append(dtos, SequenceDTO{
			Prefix:     s.Prefix,
			LastNumber: s.LastNumber,
			LastCode:   s.Code(),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PRODUCT AND CATEGORY ENDPOINTS
// =============================================================================

// ListProducts returns products, filtered by ?q=.
// GET /api/inventory/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, "Failed to list products", err)
		return
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProduct adds a product.
// POST /api/inventory/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.SKU == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "sku and name are required", nil)
		return
	}
	if req.Quantity < 0 || req.Price.IsNegative() {
		writeError(w, http.StatusBadRequest, "quantity and price must not be negative", nil)
		return
	}

	product := &posting.Product{
		SKU:        req.SKU,
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Quantity:   req.Quantity,
		Price:      req.Price,
		Active:     true,
	}
	if err := h.Store.CreateProduct(r.Context(), product); err != nil {
		writeDomainError(w, "Failed to create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductDTO(*product))
}

// GetProduct returns one product.
// GET /api/inventory/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id", err)
		return
	}
	product, err := h.Store.ProductByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(*product))
}

// UpdateProduct updates product master data (not quantity).
// PUT /api/inventory/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id", err)
		return
	}
	product, err := h.Store.ProductByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get product", err)
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.SKU != "" {
		product.SKU = req.SKU
	}
	if req.Name != "" {
		product.Name = req.Name
	}
	if req.CategoryID != 0 {
		product.CategoryID = req.CategoryID
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			writeError(w, http.StatusBadRequest, "price must not be negative", nil)
			return
		}
		product.Price = *req.Price
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.Store.UpdateProduct(r.Context(), product); err != nil {
		writeDomainError(w, "Failed to update product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(*product))
}

// ListCategories returns all categories.
// GET /api/inventory/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Store.ListCategories(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list categories", err)
		return
	}

	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, toCategoryDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCategory adds a category.
// POST /api/inventory/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	category := &posting.Category{Name: req.Name, Description: req.Description, Active: true}
	if err := h.Store.CreateCategory(r.Context(), category); err != nil {
		writeDomainError(w, "Failed to create category", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryDTO(*category))
}

// UpdateCategory updates a category.
// PUT /api/inventory/categories/{id}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category id", err)
		return
	}
	category, err := h.Store.CategoryByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get category", err)
		return
	}

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Description != "" {
		category.Description = req.Description
	}

	if err := h.Store.UpdateCategory(r.Context(), category); err != nil {
		writeDomainError(w, "Failed to update category", err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTO(*category))
}

// =============================================================================
// STOCK ADJUSTMENT ENDPOINTS
// =============================================================================

// ListStockAdjustments returns adjustments, optionally per product.
// GET /api/inventory/adjustments?product_id=
func (h *Handler) ListStockAdjustments(w http.ResponseWriter, r *http.Request) {
	productID, _ := strconv.ParseInt(r.URL.Query().Get("product_id"), 10, 64)
	adjustments, err := h.Store.ListStockAdjustments(r.Context(), productID)
	if err != nil {
		writeDomainError(w, "Failed to list adjustments", err)
		return
	}

	dtos := make([]StockAdjustmentDTO, 0, len(adjustments))
	for i := range adjustments {
		dtos = append(dtos, toStockAdjustmentDTO(&adjustments[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateStockAdjustment applies a manual quantity correction.
// POST /api/inventory/adjustments
func (h *Handler) CreateStockAdjustment(w http.ResponseWriter, r *http.Request) {
	var req CreateStockAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	adjustedAt, err := parseDate(req.AdjustedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid adjusted_at (use YYYY-MM-DD)", err)
		return
	}

	adjustment, err := h.Service.AdjustStock(r.Context(), posting.StockAdjustmentInput{
		ProductID:  req.ProductID,
		Delta:      req.Delta,
		Reason:     req.Reason,
		AdjustedAt: adjustedAt,
	})
	if err != nil {
		writeDomainError(w, "Failed to adjust stock", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStockAdjustmentDTO(adjustment))
}

// =============================================================================
// CUSTOMER AND SUPPLIER ENDPOINTS
// =============================================================================

// ListCustomers returns all customers.
// GET /api/customers
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Store.ListCustomers(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list customers", err)
		return
	}

	dtos := make([]CustomerDTO, 0, len(customers))
	for _, c := range customers {
		dtos = append(dtos, toCustomerDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCustomer adds a customer.
// POST /api/customers
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	customer := &posting.Customer{
		Name: req.Name, Phone: req.Phone, Email: req.Email,
		Address: req.Address, Active: true,
	}
	if err := h.Store.CreateCustomer(r.Context(), customer); err != nil {
		writeDomainError(w, "Failed to create customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerDTO(*customer))
}

// UpdateCustomer updates a customer.
// PUT /api/customers/{id}
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer id", err)
		return
	}
	customer, err := h.Store.CustomerByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get customer", err)
		return
	}

	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name != "" {
		customer.Name = req.Name
	}
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address

	if err := h.Store.UpdateCustomer(r.Context(), customer); err != nil {
		writeDomainError(w, "Failed to update customer", err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerDTO(*customer))
}

// ListSuppliers returns all suppliers.
// GET /api/suppliers
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.Store.ListSuppliers(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list suppliers", err)
		return
	}

	dtos := make([]SupplierDTO, 0, len(suppliers))
	for _, s := range suppliers {
		dtos = append(dtos, toSupplierDTO(s))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSupplier adds a supplier.
// POST /api/suppliers
func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	supplier := &posting.Supplier{Name: req.Name, Contact: req.Contact, Email: req.Email, Active: true}
	if err := h.Store.CreateSupplier(r.Context(), supplier); err != nil {
		writeDomainError(w, "Failed to create supplier", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSupplierDTO(*supplier))
}

// UpdateSupplier updates a supplier.
// PUT /api/suppliers/{id}
func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid supplier id", err)
		return
	}
	supplier, err := h.Store.SupplierByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get supplier", err)
		return
	}

	var req SupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name != "" {
		supplier.Name = req.Name
	}
	supplier.Contact = req.Contact
	supplier.Email = req.Email

	if err := h.Store.UpdateSupplier(r.Context(), supplier); err != nil {
		writeDomainError(w, "Failed to update supplier", err)
		return
	}
	writeJSON(w, http.StatusOK, toSupplierDTO(*supplier))
}

// =============================================================================
// SALE ENDPOINTS
// =============================================================================

// CreateSale creates and posts a sale.
// POST /api/sales
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	saleDate, err := parseDate(req.SaleDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sale_date (use YYYY-MM-DD)", err)
		return
	}

	input := posting.SaleInput{
		Number:             req.Number,
		CustomerID:         req.CustomerID,
		SaleDate:           saleDate,
		AmountPaid:         req.AmountPaid,
		PaymentMethod:      req.PaymentMethod,
		PaymentAccountCode: req.PaymentAccount,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, posting.SaleItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	sale, err := h.Service.CreateSale(r.Context(), input)
	if err != nil {
		writeDomainError(w, "Failed to create sale", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSaleDTO(sale))
}

// ListSales returns sale headers, newest first.
// GET /api/sales?limit=
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sales, err := h.Store.ListSales(r.Context(), limit)
	if err != nil {
		writeDomainError(w, "Failed to list sales", err)
		return
	}

	dtos := make([]SaleDTO, 0, len(sales))
	for i := range sales {
		dtos = append(dtos, toSaleDTO(&sales[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSale returns one sale with items.
// GET /api/sales/{id}
func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sale id", err)
		return
	}
	sale, err := h.Store.SaleByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get sale", err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTO(sale))
}

// VoidSale reverses a sale's ledger footprint and restores stock.
// POST /api/sales/{id}/void
func (h *Handler) VoidSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sale id", err)
		return
	}
	reason := decodeReason(r)

	sale, err := h.Service.VoidSale(r.Context(), id, reason)
	if err != nil {
		writeDomainError(w, "Failed to void sale", err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTO(sale))
}

// =============================================================================
// PAYMENT ENDPOINTS
// =============================================================================

// CreatePayment records a payment against a sale.
// POST /api/payments
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	paidAt, err := parseDate(req.PaidAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid paid_at (use YYYY-MM-DD)", err)
		return
	}

	payment, sale, err := h.Service.RecordPayment(r.Context(), posting.PaymentInput{
		SaleID:      req.SaleID,
		Amount:      req.Amount,
		Method:      req.Method,
		Reference:   req.Reference,
		AccountCode: req.AccountCode,
		PaidAt:      paidAt,
	})
	if err != nil {
		writeDomainError(w, "Failed to record payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"payment": toPaymentDTO(payment),
		"sale":    toSaleDTO(sale),
	})
}

// GetPayment returns one payment.
// GET /api/payments/{id}
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment id", err)
		return
	}
	payment, err := h.Store.PaymentByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get payment", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(payment))
}

// DeletePayment reverses a payment's ledger footprint and soft-deletes
// the row. The sale's totals and status are recomputed.
// DELETE /api/payments/{id}
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment id", err)
		return
	}
	reason := decodeReason(r)

	sale, err := h.Service.DeletePayment(r.Context(), id, reason)
	if err != nil {
		writeDomainError(w, "Failed to delete payment", err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTO(sale))
}

// =============================================================================
// PURCHASE ORDER ENDPOINTS
// =============================================================================

// CreatePurchaseOrder creates and posts a purchase order.
// POST /api/suppliers/orders
func (h *Handler) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var req CreatePurchaseOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid purchase_date (use YYYY-MM-DD)", err)
		return
	}

	input := posting.PurchaseOrderInput{
		SupplierID:    req.SupplierID,
		InvoiceNumber: req.InvoiceNumber,
		Memo:          req.Memo,
		PurchaseDate:  purchaseDate,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, posting.PurchaseOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		})
	}

	po, err := h.Service.CreatePurchaseOrder(r.Context(), input)
	if err != nil {
		writeDomainError(w, "Failed to create purchase order", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPurchaseOrderDTO(po))
}

// ListPurchaseOrders returns order headers, newest first.
// GET /api/suppliers/orders?limit=
func (h *Handler) ListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	orders, err := h.Store.ListPurchaseOrders(r.Context(), limit)
	if err != nil {
		writeDomainError(w, "Failed to list purchase orders", err)
		return
	}

	dtos := make([]PurchaseOrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, toPurchaseOrderDTO(&orders[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPurchaseOrder returns one order with items.
// GET /api/suppliers/orders/{id}
func (h *Handler) GetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order id", err)
		return
	}
	po, err := h.Store.PurchaseOrderByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get purchase order", err)
		return
	}
	writeJSON(w, http.StatusOK, toPurchaseOrderDTO(po))
}

// PayPurchaseOrder records a supplier payment against an order.
// POST /api/suppliers/orders/{id}/pay
func (h *Handler) PayPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order id", err)
		return
	}

	var req PaySupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	paidAt, err := parseDate(req.PaidAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid paid_at (use YYYY-MM-DD)", err)
		return
	}

	payment, po, err := h.Service.PaySupplier(r.Context(), posting.SupplierPaymentInput{
		PurchaseOrderID: id,
		Amount:          req.Amount,
		Method:          req.Method,
		Reference:       req.Reference,
		AccountCode:     req.AccountCode,
		PaidAt:          paidAt,
	})
	if err != nil {
		writeDomainError(w, "Failed to pay purchase order", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"payment":        toSupplierPaymentDTO(payment),
		"purchase_order": toPurchaseOrderDTO(po),
	})
}

// VoidPurchaseOrder reverses an order and its payments, and removes
// the received stock.
// POST /api/suppliers/orders/{id}/void
func (h *Handler) VoidPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order id", err)
		return
	}
	reason := decodeReason(r)

	po, err := h.Service.VoidPurchaseOrder(r.Context(), id, reason)
	if err != nil {
		writeDomainError(w, "Failed to void purchase order", err)
		return
	}
	writeJSON(w, http.StatusOK, toPurchaseOrderDTO(po))
}

// =============================================================================
// EXPENSE ENDPOINTS
// =============================================================================

// CreateExpense creates and posts an expense.
// POST /api/expenses
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	expenseDate, err := parseDate(req.ExpenseDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense_date (use YYYY-MM-DD)", err)
		return
	}

	input := posting.ExpenseInput{
		Description: req.Description,
		ExpenseDate: expenseDate,
		AccountCode: req.AccountCode,
		Reference:   req.Reference,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, posting.ExpenseItemInput{
			AccountCode: item.AccountCode,
			Name:        item.Name,
			Description: item.Description,
			Amount:      item.Amount,
		})
	}

	expense, err := h.Service.CreateExpense(r.Context(), input)
	if err != nil {
		writeDomainError(w, "Failed to create expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseDTO(expense))
}

// ListExpenses returns expense headers, newest first.
// GET /api/expenses?limit=
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	expenses, err := h.Store.ListExpenses(r.Context(), limit)
	if err != nil {
		writeDomainError(w, "Failed to list expenses", err)
		return
	}

	dtos := make([]ExpenseDTO, 0, len(expenses))
	for i := range expenses {
		dtos = append(dtos, toExpenseDTO(&expenses[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetExpense returns one expense with items.
// GET /api/expenses/{id}
func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense id", err)
		return
	}
	expense, err := h.Store.ExpenseByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get expense", err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseDTO(expense))
}

// VoidExpense reverses an expense's posting.
// POST /api/expenses/{id}/void
func (h *Handler) VoidExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense id", err)
		return
	}
	reason := decodeReason(r)

	expense, err := h.Service.VoidExpense(r.Context(), id, reason)
	if err != nil {
		writeDomainError(w, "Failed to void expense", err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseDTO(expense))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps a domain failure to an HTTP status by its
// error class.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, ledger.ErrInsufficientStock),
		errors.Is(err, ledger.ErrAlreadyReversed),
		errors.Is(err, ledger.ErrDocumentVoided):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, ledger.ErrSequenceUnavailable):
		writeError(w, http.StatusServiceUnavailable, message, err)
	case errors.Is(err, ledger.ErrConflict):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// decodeReason pulls the optional void reason from the request body.
// A missing or malformed body just means no reason was given.
func decodeReason(r *http.Request) string {
	var req VoidRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	return req.Reason
}

func toEntryDTOs(entries []ledger.Entry) []EntryDTO {
	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toEntryDTO(e))
	}
	return dtos
}
