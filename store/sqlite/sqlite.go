/*
Package sqlite is the SQLite-backed implementation of the persistence
interfaces in ledger and posting.

PURPOSE:
  One Store satisfies posting.TxStore (and through it ledger.Store) both
  directly and inside a unit of work: WithTx hands callers a handle bound
  to an open database transaction, and every method exists on both. In
  production the same patterns apply to PostgreSQL, only the upsert and
  error-detection SQL differ.

APPEND-ONLY ENFORCEMENT:
  ledger_entries has no UPDATE or DELETE statements anywhere in this
  package. Corrections happen through reversal entries written by the
  ledger engines.

KEY TABLES:
  accounts:              Chart of accounts
  transaction_sequences: One counter row per document prefix
  ledger_transactions:   One row per issued transaction number
  ledger_entries:        Immutable debit/credit rows
  sales, payments, purchase_orders, supplier_payments, expenses:
                         Business documents and their line items
  products, categories, customers, suppliers: Master data
  stock_adjustments:     Manual quantity corrections

CONCURRENCY:
  SQLite allows a single writer; the database is opened in WAL mode with
  a busy timeout, and busy/locked errors surface as ledger.ErrConflict so
  the sequence issuer's retry loop can take over.

USAGE:
  store, err := sqlite.New("./data/inventory.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := posting.NewService(store)

SEE ALSO:
  - ledger/store.go and posting/store.go: Interface definitions
  - ledger/chart.go: Seed chart installed by SeedDefaultChart
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/sjhardware/inventory-engine/ledger"
	"github.com/sjhardware/inventory-engine/posting"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx,
// so every store method runs unchanged inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// handle implements posting.Store over a querier.
type handle struct {
	q querier
}

// Store is the SQLite-backed posting.TxStore.
type Store struct {
	handle
	db *sql.DB
}

var _ posting.TxStore = (*Store)(nil)

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// A second pooled connection to :memory: opens a separate
		// empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{handle: handle{q: db}, db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx executes fn within one database transaction. Every write the
// orchestrators perform (stock, sequences, entries, documents) commits
// or rolls back together.
func (s *Store) WithTx(ctx context.Context, fn func(posting.Store) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&handle{q: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Chart of accounts
	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		class TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- One counter row per document prefix (INV, PAY, ...)
	CREATE TABLE IF NOT EXISTS transaction_sequences (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		prefix TEXT NOT NULL UNIQUE,
		last_number INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	);

	-- One row per issued transaction number
	CREATE TABLE IF NOT EXISTS ledger_transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		prefix TEXT NOT NULL,
		number INTEGER NOT NULL,
		code TEXT NOT NULL UNIQUE,
		issued_at TEXT NOT NULL
	);

	-- Immutable ledger (append-only; no UPDATE or DELETE in this package)
	CREATE TABLE IF NOT EXISTS ledger_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_id INTEGER NOT NULL REFERENCES ledger_transactions(id),
		account_id INTEGER NOT NULL REFERENCES accounts(id),
		account_code TEXT NOT NULL,
		direction TEXT NOT NULL,
		amount TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		effective_at TEXT NOT NULL,
		kind TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_transaction
		ON ledger_entries(transaction_id);
	CREATE INDEX IF NOT EXISTS idx_entries_account_date
		ON ledger_entries(account_code, effective_at);
	-- Reversal existence checks (hot path on every void)
	CREATE INDEX IF NOT EXISTS idx_entries_transaction_kind
		ON ledger_entries(transaction_id, kind);

	-- Master data
	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sku TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		category_id INTEGER REFERENCES categories(id),
		quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		price TEXT NOT NULL DEFAULT '0',
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_products_category
		ON products(category_id);

	CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS suppliers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		contact TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Sales
	CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		number TEXT NOT NULL UNIQUE,
		customer_id INTEGER NOT NULL DEFAULT 0,
		total_amount TEXT NOT NULL DEFAULT '0',
		total_paid TEXT NOT NULL DEFAULT '0',
		balance TEXT NOT NULL DEFAULT '0',
		status TEXT NOT NULL DEFAULT 'Pending',
		sale_date TEXT NOT NULL,
		transaction_id INTEGER NOT NULL,
		transaction_code TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sale_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sale_id INTEGER NOT NULL REFERENCES sales(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		product_name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price TEXT NOT NULL,
		total_price TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_sale_items_sale
		ON sale_items(sale_id);

	CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sale_id INTEGER NOT NULL REFERENCES sales(id),
		amount TEXT NOT NULL,
		method TEXT NOT NULL DEFAULT 'Cash',
		reference TEXT NOT NULL DEFAULT '',
		account_code TEXT NOT NULL,
		paid_at TEXT NOT NULL,
		transaction_id INTEGER NOT NULL,
		transaction_code TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_sale
		ON payments(sale_id);

	-- Purchase orders
	CREATE TABLE IF NOT EXISTS purchase_orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		supplier_id INTEGER NOT NULL REFERENCES suppliers(id),
		invoice_number TEXT NOT NULL,
		memo TEXT NOT NULL DEFAULT '',
		purchase_date TEXT NOT NULL,
		total_amount TEXT NOT NULL DEFAULT '0',
		total_paid TEXT NOT NULL DEFAULT '0',
		balance TEXT NOT NULL DEFAULT '0',
		status TEXT NOT NULL DEFAULT 'Pending',
		transaction_id INTEGER NOT NULL,
		transaction_code TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_purchase_orders_supplier
		ON purchase_orders(supplier_id);

	CREATE TABLE IF NOT EXISTS purchase_order_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		purchase_order_id INTEGER NOT NULL REFERENCES purchase_orders(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL,
		unit_cost TEXT NOT NULL,
		total_cost TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_po_items_order
		ON purchase_order_items(purchase_order_id);
	-- Latest-cost lookups for cost-of-goods valuation
	CREATE INDEX IF NOT EXISTS idx_po_items_product
		ON purchase_order_items(product_id, id DESC);

	CREATE TABLE IF NOT EXISTS supplier_payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		purchase_order_id INTEGER NOT NULL REFERENCES purchase_orders(id),
		amount TEXT NOT NULL,
		method TEXT NOT NULL DEFAULT 'Cash',
		reference TEXT NOT NULL DEFAULT '',
		account_code TEXT NOT NULL,
		paid_at TEXT NOT NULL,
		transaction_id INTEGER NOT NULL,
		transaction_code TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_supplier_payments_order
		ON supplier_payments(purchase_order_id);

	-- Expenses
	CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL,
		expense_date TEXT NOT NULL,
		account_code TEXT NOT NULL,
		reference TEXT NOT NULL DEFAULT '',
		total_amount TEXT NOT NULL DEFAULT '0',
		status TEXT NOT NULL DEFAULT 'Paid',
		transaction_id INTEGER NOT NULL,
		transaction_code TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS expense_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		expense_id INTEGER NOT NULL REFERENCES expenses(id),
		account_code TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		amount TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_expense_items_expense
		ON expense_items(expense_id);

	-- Stock adjustments
	CREATE TABLE IF NOT EXISTS stock_adjustments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES products(id),
		delta INTEGER NOT NULL,
		reason TEXT NOT NULL,
		adjusted_at TEXT NOT NULL,
		transaction_id INTEGER NOT NULL DEFAULT 0,
		transaction_code TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_stock_adjustments_product
		ON stock_adjustments(product_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// fieldParser converts textual columns and remembers the first failure,
// so a scan helper can decode every field and check once instead of
// letting a corrupt row surface as a zero amount or date.
type fieldParser struct {
	err error
}

func (p *fieldParser) time(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("malformed timestamp %q: %w", s, err)
	}
	return t
}

func (p *fieldParser) decimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("malformed amount %q: %w", s, err)
		}
		return decimal.Zero
	}
	return d
}

// notFound wraps ledger.ErrNotFound so callers can match with errors.Is.
func notFound(what string, id any) error {
	return fmt.Errorf("%w: %s %v", ledger.ErrNotFound, what, id)
}

// isBusy reports whether the error is a SQLite busy/locked condition,
// which the sequence issuer treats as retryable.
func isBusy(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isCheckViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintCheck
	}
	return false
}

// mapWriteErr converts driver-level failures into the package error
// taxonomy before they escape the store.
func mapWriteErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if isBusy(err) {
		return fmt.Errorf("%w: %s: %v", ledger.ErrConflict, op, err)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %v", ledger.ErrConflict, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
