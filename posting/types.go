/*
Package posting contains the business documents and the orchestrators
that post them to the general ledger.

PURPOSE:
  A sale, purchase order, expense or payment is one business event. Each
  orchestrator in this package turns that event into: inventory side
  effects, a freshly issued transaction number, a balanced ledger entry
  set, the persisted document rows, and recomputed document totals - all
  inside a single unit of work. Any failure anywhere rolls the whole
  operation back.

KEY CONCEPTS IN THIS FILE (types.go):
  - DocumentStatus: One enumeration shared by all document types
  - Sale / PurchaseOrder / Expense: Document headers owning line items
  - Payment / SupplierPayment: Money applied against a document
  - Product and other master-data records the orchestrators reference

STATUS MODEL:
  Documents are created already posted. Payment state then moves
  Pending -> Partial -> Paid as money is applied, and any state may
  transition to Voided, which is terminal and triggers ledger reversal
  plus stock restoration.

SEE ALSO:
  - balance.go: Totals and status derivation
  - sale.go, purchase.go, expense.go, payment.go: Orchestrators
  - store.go: Persistence interfaces
*/
package posting

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DOCUMENT STATUS - One enumeration for every document type
// =============================================================================

// DocumentStatus is the payment/lifecycle state of a document.
type DocumentStatus string

const (
	// StatusPending: posted, nothing paid yet (sold on credit).
	StatusPending DocumentStatus = "Pending"
	// StatusPartial: some but not all of the total has been paid.
	StatusPartial DocumentStatus = "Partial"
	// StatusPaid: fully settled (or overpaid).
	StatusPaid DocumentStatus = "Paid"
	// StatusVoided: terminal. The ledger footprint has been reversed.
	StatusVoided DocumentStatus = "Voided"
)

// =============================================================================
// MASTER DATA
// =============================================================================

// Product is an inventory item. Quantity is mutated only by postings and
// stock adjustments, never set directly through CRUD.
type Product struct {
	ID         int64
	SKU        string
	Name       string
	CategoryID int64
	Quantity   int64
	Price      decimal.Decimal // current selling price
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Category groups products.
type Category struct {
	ID          int64
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Customer is who a sale is billed to. Customer id 0 means the default
// walk-in customer.
type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Supplier is who a purchase order is placed with.
type Supplier struct {
	ID        int64
	Name      string
	Contact   string
	Email     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// SALES
// =============================================================================

// Sale is a customer-facing invoice. Totals are always recomputed from
// items and payments, never trusted from input.
type Sale struct {
	ID              int64
	Number          string
	CustomerID      int64
	TotalAmount     decimal.Decimal
	TotalPaid       decimal.Decimal
	Balance         decimal.Decimal // floored at zero for display
	Status          DocumentStatus
	SaleDate        time.Time
	TransactionID   int64 // primary ledger posting
	TransactionCode string
	Items           []SaleItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SaleItem is one sold line. ProductName is a snapshot so renaming a
// product later does not rewrite invoice history.
type SaleItem struct {
	ID          int64
	SaleID      int64
	ProductID   int64
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	Active      bool
}

// Payment is money applied against a sale. Soft-deleted, never removed:
// deleting reverses its ledger footprint and flips Active off.
type Payment struct {
	ID              int64
	SaleID          int64
	Amount          decimal.Decimal
	Method          string // Cash, Bank, Mobile Money
	Reference       string
	AccountCode     string // account the money landed on
	PaidAt          time.Time
	TransactionID   int64
	TransactionCode string
	Active          bool
	CreatedAt       time.Time
}

// =============================================================================
// PURCHASE ORDERS
// =============================================================================

// PurchaseOrder is a supplier invoice that received stock.
type PurchaseOrder struct {
	ID              int64
	SupplierID      int64
	InvoiceNumber   string
	Memo            string
	PurchaseDate    time.Time
	TotalAmount     decimal.Decimal
	TotalPaid       decimal.Decimal
	Balance         decimal.Decimal
	Status          DocumentStatus
	TransactionID   int64
	TransactionCode string
	Items           []PurchaseOrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PurchaseOrderItem is one received line. UnitCost feeds the
// cost-of-goods figure of later sales.
type PurchaseOrderItem struct {
	ID              int64
	PurchaseOrderID int64
	ProductID       int64
	Quantity        int64
	UnitCost        decimal.Decimal
	TotalCost       decimal.Decimal
	Active          bool
	CreatedAt       time.Time
}

// SupplierPayment is money paid out against a purchase order.
type SupplierPayment struct {
	ID              int64
	PurchaseOrderID int64
	Amount          decimal.Decimal
	Method          string
	Reference       string
	AccountCode     string
	PaidAt          time.Time
	TransactionID   int64
	TransactionCode string
	Active          bool
	CreatedAt       time.Time
}

// =============================================================================
// EXPENSES
// =============================================================================

// Expense is a multi-line operating expense paid from one account.
// Expenses settle at creation, so they post as Paid.
type Expense struct {
	ID              int64
	Description     string
	ExpenseDate     time.Time
	AccountCode     string // account the expense was paid from
	Reference       string
	TotalAmount     decimal.Decimal
	Status          DocumentStatus
	TransactionID   int64
	TransactionCode string
	Items           []ExpenseItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ExpenseItem is one expensed line, charged to an expense account.
type ExpenseItem struct {
	ID          int64
	ExpenseID   int64
	AccountCode string
	Name        string
	Description string
	Amount      decimal.Decimal
	Active      bool
}

// =============================================================================
// STOCK ADJUSTMENTS
// =============================================================================

// StockAdjustment is a manual quantity correction outside the document
// flow (shrinkage, recount). Negative delta removes stock.
type StockAdjustment struct {
	ID              int64
	ProductID       int64
	Delta           int64
	Reason          string
	AdjustedAt      time.Time
	TransactionID   int64 // zero when no cost data was available to post
	TransactionCode string
	CreatedAt       time.Time
}
