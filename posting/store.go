/*
store.go - Persistence interfaces for posting orchestrators

PURPOSE:
  Defines what the orchestrators need from the database, on top of the
  ledger engine's own store surface. The SQLite implementation satisfies
  Store both directly and through its transaction-scoped handle; TxStore
  is the unit-of-work boundary every orchestrator runs inside.

UNIT OF WORK:
  WithTx(ctx, fn) opens one database transaction and hands fn a Store
  bound to it. Stock mutation, sequence increment, ledger posting,
  document persistence and totals recomputation all register against
  that one transaction. fn returning an error rolls everything back.
*/
package posting

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sjhardware/inventory-engine/ledger"
)

// Store is the persistence surface the orchestrators operate against.
// It extends the ledger store with document and inventory operations.
type Store interface {
	ledger.Store

	// Master data lookups (validation before any mutation).
	ProductByID(ctx context.Context, id int64) (*Product, error)
	CustomerByID(ctx context.Context, id int64) (*Customer, error)
	SupplierByID(ctx context.Context, id int64) (*Supplier, error)

	// AdjustProductQuantity changes stock by delta. A negative delta that
	// would drive quantity below zero fails with InsufficientStockError
	// and mutates nothing.
	AdjustProductQuantity(ctx context.Context, productID, delta int64) error

	// LatestPurchaseCost returns the most recent purchase-order unit cost
	// for a product. ok is false when the product was never purchased.
	LatestPurchaseCost(ctx context.Context, productID int64) (cost decimal.Decimal, ok bool, err error)

	// Sales.
	InsertSale(ctx context.Context, s *Sale) error
	SaleByID(ctx context.Context, id int64) (*Sale, error)
	UpdateSale(ctx context.Context, s *Sale) error

	// Payments.
	InsertPayment(ctx context.Context, p *Payment) error
	PaymentByID(ctx context.Context, id int64) (*Payment, error)
	UpdatePayment(ctx context.Context, p *Payment) error
	PaymentsBySale(ctx context.Context, saleID int64) ([]Payment, error)

	// Purchase orders.
	InsertPurchaseOrder(ctx context.Context, po *PurchaseOrder) error
	PurchaseOrderByID(ctx context.Context, id int64) (*PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, po *PurchaseOrder) error

	// Supplier payments.
	InsertSupplierPayment(ctx context.Context, p *SupplierPayment) error
	UpdateSupplierPayment(ctx context.Context, p *SupplierPayment) error
	SupplierPaymentsByOrder(ctx context.Context, orderID int64) ([]SupplierPayment, error)

	// Expenses.
	InsertExpense(ctx context.Context, e *Expense) error
	ExpenseByID(ctx context.Context, id int64) (*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error

	// Stock adjustments.
	InsertStockAdjustment(ctx context.Context, a *StockAdjustment) error
}

// TxStore wraps Store with the unit-of-work boundary.
type TxStore interface {
	Store

	// WithTx executes fn within one database transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
