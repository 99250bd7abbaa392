/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/accounts/*            Chart of accounts + seeding
  /api/ledger/*              Audit export (entries, sequences)
  /api/inventory/*           Products, categories, stock adjustments
  /api/customers/*           Customer master data
  /api/suppliers/*           Supplier master data + purchase orders
  /api/sales/*               Sales and voiding
  /api/payments/*            Customer payments
  /api/expenses/*            Expenses and voiding

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Chart of accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Post("/", h.CreateAccount)
			r.Post("/seed", h.SeedAccounts)
			r.Get("/{code}", h.GetAccount)
			r.Put("/{code}", h.UpdateAccount)
		})

		// Ledger audit export
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/", h.ListEntries)
			r.Get("/sequences", h.ListSequences)
			r.Get("/accounts/{code}", h.EntriesByAccount)
			r.Get("/transactions/{id}", h.EntriesByTransaction)
		})

		// Inventory
		r.Route("/inventory", func(r chi.Router) {
			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.ListProducts)
				r.Post("/", h.CreateProduct)
				r.Get("/{id}", h.GetProduct)
				r.Put("/{id}", h.UpdateProduct)
			})
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.ListCategories)
				r.Post("/", h.CreateCategory)
				r.Put("/{id}", h.UpdateCategory)
			})
			r.Route("/adjustments", func(r chi.Router) {
				r.Get("/", h.ListStockAdjustments)
				r.Post("/", h.CreateStockAdjustment)
			})
		})

		// Customers
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Post("/", h.CreateCustomer)
			r.Put("/{id}", h.UpdateCustomer)
		})

		// Suppliers and purchase orders
		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.ListSuppliers)
			r.Post("/", h.CreateSupplier)
			r.Put("/{id}", h.UpdateSupplier)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.ListPurchaseOrders)
				r.Post("/", h.CreatePurchaseOrder)
				r.Get("/{id}", h.GetPurchaseOrder)
				r.Post("/{id}/pay", h.PayPurchaseOrder)
				r.Post("/{id}/void", h.VoidPurchaseOrder)
			})
		})

		// Sales
		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.ListSales)
			r.Post("/", h.CreateSale)
			r.Get("/{id}", h.GetSale)
			r.Post("/{id}/void", h.VoidSale)
		})

		// Payments
		r.Route("/payments", func(r chi.Router) {
			r.Post("/", h.CreatePayment)
			r.Get("/{id}", h.GetPayment)
			r.Delete("/{id}", h.DeletePayment)
		})

		// Expenses
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.ListExpenses)
			r.Post("/", h.CreateExpense)
			r.Get("/{id}", h.GetExpense)
			r.Post("/{id}/void", h.VoidExpense)
		})
	})

	return r
}
