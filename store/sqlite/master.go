/*
master.go - Products, categories, customers, suppliers

PURPOSE:
  Master-data CRUD plus the two inventory primitives the orchestrators
  lean on: the guarded quantity update (never below zero) and the
  latest-purchase-cost lookup that values cost of goods sold.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sjhardware/inventory-engine/ledger"
	"github.com/sjhardware/inventory-engine/posting"
)

// =============================================================================
// PRODUCTS
// =============================================================================

// ProductByID returns one product.
func (h *handle) ProductByID(ctx context.Context, id int64) (*posting.Product, error) {
	row := h.q.QueryRowContext(ctx, `
		SELECT id, sku, name, COALESCE(category_id, 0), quantity, price, active, created_at, updated_at
		FROM products WHERE id = ?
	`, id)

	p, err := scanProductFields(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("product", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns products, optionally filtered by a name/SKU
// search term.
func (h *handle) ListProducts(ctx context.Context, search string) ([]posting.Product, error) {
	query := `
		SELECT id, sku, name, COALESCE(category_id, 0), quantity, price, active, created_at, updated_at
		FROM products
	`
	var args []any
	if search != "" {
		query += ` WHERE name LIKE ? OR sku LIKE ?`
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY name ASC`

	rows, err := h.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []posting.Product
	for rows.Next() {
		p, err := scanProductFields(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateProduct inserts a product. Duplicate SKUs fail with ErrConflict.
func (h *handle) CreateProduct(ctx context.Context, p *posting.Product) error {
	ts := now()
	res, err := h.q.ExecContext(ctx, `
		INSERT INTO products (sku, name, category_id, quantity, price, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.SKU, p.Name, nullID(p.CategoryID), p.Quantity, p.Price.String(), p.Active, ts, ts)
	if err != nil {
		return mapWriteErr(err, "failed to insert product")
	}
	p.ID, _ = res.LastInsertId()
	return nil
}

// UpdateProduct rewrites the mutable fields of a product. Quantity is
// deliberately not among them; stock moves through postings and
// adjustments only.
func (h *handle) UpdateProduct(ctx context.Context, p *posting.Product) error {
	res, err := h.q.ExecContext(ctx, `
		UPDATE products SET sku = ?, name = ?, category_id = ?, price = ?, active = ?, updated_at = ?
		WHERE id = ?
	`, p.SKU, p.Name, nullID(p.CategoryID), p.Price.String(), p.Active, now(), p.ID)
	if err != nil {
		return mapWriteErr(err, "failed to update product")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("product", p.ID)
	}
	return nil
}

// AdjustProductQuantity changes stock by delta in one guarded statement.
// A negative delta that would drive quantity below zero mutates nothing
// and fails with InsufficientStockError.
func (h *handle) AdjustProductQuantity(ctx context.Context, productID, delta int64) error {
	res, err := h.q.ExecContext(ctx, `
		UPDATE products SET quantity = quantity + ?, updated_at = ?
		WHERE id = ? AND quantity + ? >= 0
	`, delta, now(), productID, delta)
	if err != nil {
		if isCheckViolation(err) {
			err = nil
		} else {
			return mapWriteErr(err, "failed to adjust stock")
		}
	}
	if res != nil {
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
	}

	// Either the product is missing or the guard refused the delta.
	p, perr := h.ProductByID(ctx, productID)
	if perr != nil {
		return perr
	}
	return &ledger.InsufficientStockError{
		ProductID: p.ID,
		Product:   p.Name,
		Requested: -delta,
		Available: p.Quantity,
	}
}

// LatestPurchaseCost returns the most recent purchase-order unit cost
// for a product. ok is false when the product was never purchased.
func (h *handle) LatestPurchaseCost(ctx context.Context, productID int64) (decimal.Decimal, bool, error) {
	var cost string
	err := h.q.QueryRowContext(ctx, `
		SELECT poi.unit_cost
		FROM purchase_order_items poi
		JOIN purchase_orders po ON po.id = poi.purchase_order_id
		WHERE poi.product_id = ? AND poi.active = 1 AND po.status != ?
		ORDER BY poi.id DESC
		LIMIT 1
	`, productID, string(posting.StatusVoided)).Scan(&cost)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to query purchase cost: %w", err)
	}
	var fp fieldParser
	c := fp.decimal(cost)
	if fp.err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to decode purchase cost: %w", fp.err)
	}
	return c, true, nil
}

// =============================================================================
// CATEGORIES
// =============================================================================

// CategoryByID returns one category.
func (h *handle) CategoryByID(ctx context.Context, id int64) (*posting.Category, error) {
	row := h.q.QueryRowContext(ctx, `
		SELECT id, name, description, active, created_at, updated_at
		FROM categories WHERE id = ?
	`, id)

	var (
		c         posting.Category
		createdAt string
		updatedAt string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("category", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	var fp fieldParser
	c.CreatedAt = fp.time(createdAt)
	c.UpdatedAt = fp.time(updatedAt)
	if fp.err != nil {
		return nil, fmt.Errorf("failed to decode category row: %w", fp.err)
	}
	return &c, nil
}

// ListCategories returns all categories ordered by name.
func (h *handle) ListCategories(ctx context.Context) ([]posting.Category, error) {
	rows, err := h.q.QueryContext(ctx, `
		SELECT id, name, description, active, created_at, updated_at
		FROM categories ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []posting.Category
	for rows.Next() {
		var (
			c         posting.Category
			createdAt string
			updatedAt string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		var fp fieldParser
		c.CreatedAt = fp.time(createdAt)
		c.UpdatedAt = fp.time(updatedAt)
		if fp.err != nil {
			return nil, fmt.Errorf("failed to decode category row: %w", fp.err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a category. Duplicate names fail with
// ErrConflict.
func (h *handle) CreateCategory(ctx context.Context, c *posting.Category) error {
	ts := now()
	res, err := h.q.ExecContext(ctx, `
		INSERT INTO categories (name, description, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.Name, c.Description, c.Active, ts, ts)
	if err != nil {
		return mapWriteErr(err, "failed to insert category")
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

// UpdateCategory rewrites the mutable fields of a category.
func (h *handle) UpdateCategory(ctx context.Context, c *posting.Category) error {
	res, err := h.q.ExecContext(ctx, `
		UPDATE categories SET name = ?, description = ?, active = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.Description, c.Active, now(), c.ID)
	if err != nil {
		return mapWriteErr(err, "failed to update category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("category", c.ID)
	}
	return nil
}

// =============================================================================
// CUSTOMERS
// =============================================================================

// CustomerByID returns one customer. Id zero resolves to the implicit
// walk-in customer so anonymous sales need no master-data row.
func (h *handle) CustomerByID(ctx context.Context, id int64) (*posting.Customer, error) {
	if id == 0 {
		return &posting.Customer{ID: 0, Name: "Walk-in", Active: true}, nil
	}

	row := h.q.QueryRowContext(ctx, `
		SELECT id, name, phone, email, address, active, created_at, updated_at
		FROM customers WHERE id = ?
	`, id)

	var (
		c         posting.Customer
		createdAt string
		updatedAt string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.Active, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("customer", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}
	var fp fieldParser
	c.CreatedAt = fp.time(createdAt)
	c.UpdatedAt = fp.time(updatedAt)
	if fp.err != nil {
		return nil, fmt.Errorf("failed to decode customer row: %w", fp.err)
	}
	return &c, nil
}

// ListCustomers returns all customers ordered by name.
func (h *handle) ListCustomers(ctx context.Context) ([]posting.Customer, error) {
	rows, err := h.q.QueryContext(ctx, `
		SELECT id, name, phone, email, address, active, created_at, updated_at
		FROM customers ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []posting.Customer
	for rows.Next() {
		var (
			c         posting.Customer
			createdAt string
			updatedAt string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.Active, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		var fp fieldParser
		c.CreatedAt = fp.time(createdAt)
		c.UpdatedAt = fp.time(updatedAt)
		if fp.err != nil {
			return nil, fmt.Errorf("failed to decode customer row: %w", fp.err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// CreateCustomer inserts a customer.
func (h *handle) CreateCustomer(ctx context.Context, c *posting.Customer) error {
	ts := now()
	res, err := h.q.ExecContext(ctx, `
		INSERT INTO customers (name, phone, email, address, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.Name, c.Phone, c.Email, c.Address, c.Active, ts, ts)
	if err != nil {
		return mapWriteErr(err, "failed to insert customer")
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

// UpdateCustomer rewrites the mutable fields of a customer.
func (h *handle) UpdateCustomer(ctx context.Context, c *posting.Customer) error {
	res, err := h.q.ExecContext(ctx, `
		UPDATE customers SET name = ?, phone = ?, email = ?, address = ?, active = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.Phone, c.Email, c.Address, c.Active, now(), c.ID)
	if err != nil {
		return mapWriteErr(err, "failed to update customer")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("customer", c.ID)
	}
	return nil
}

// =============================================================================
// SUPPLIERS
// =============================================================================

// SupplierByID returns one supplier.
func (h *handle) SupplierByID(ctx context.Context, id int64) (*posting.Supplier, error) {
	row := h.q.QueryRowContext(ctx, `
		SELECT id, name, contact, email, active, created_at, updated_at
		FROM suppliers WHERE id = ?
	`, id)

	var (
		s         posting.Supplier
		createdAt string
		updatedAt string
	)
	err := row.Scan(&s.ID, &s.Name, &s.Contact, &s.Email, &s.Active, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("supplier", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan supplier: %w", err)
	}
	var fp fieldParser
	s.CreatedAt = fp.time(createdAt)
	s.UpdatedAt = fp.time(updatedAt)
	if fp.err != nil {
		return nil, fmt.Errorf("failed to decode supplier row: %w", fp.err)
	}
	return &s, nil
}

// ListSuppliers returns all suppliers ordered by name.
func (h *handle) ListSuppliers(ctx context.Context) ([]posting.Supplier, error) {
	rows, err := h.q.QueryContext(ctx, `
		SELECT id, name, contact, email, active, created_at, updated_at
		FROM suppliers ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []posting.Supplier
	for rows.Next() {
		var (
			s         posting.Supplier
			createdAt string
			updatedAt string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Contact, &s.Email, &s.Active, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		var fp fieldParser
		s.CreatedAt = fp.time(createdAt)
		s.UpdatedAt = fp.time(updatedAt)
		if fp.err != nil {
			return nil, fmt.Errorf("failed to decode supplier row: %w", fp.err)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

// CreateSupplier inserts a supplier.
func (h *handle) CreateSupplier(ctx context.Context, s *posting.Supplier) error {
	ts := now()
	res, err := h.q.ExecContext(ctx, `
		INSERT INTO suppliers (name, contact, email, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.Name, s.Contact, s.Email, s.Active, ts, ts)
	if err != nil {
		return mapWriteErr(err, "failed to insert supplier")
	}
	s.ID, _ = res.LastInsertId()
	return nil
}

// UpdateSupplier rewrites the mutable fields of a supplier.
func (h *handle) UpdateSupplier(ctx context.Context, s *posting.Supplier) error {
	res, err := h.q.ExecContext(ctx, `
		UPDATE suppliers SET name = ?, contact = ?, email = ?, active = ?, updated_at = ?
		WHERE id = ?
	`, s.Name, s.Contact, s.Email, s.Active, now(), s.ID)
	if err != nil {
		return mapWriteErr(err, "failed to update supplier")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("supplier", s.ID)
	}
	return nil
}

// =============================================================================
// STOCK ADJUSTMENTS
// =============================================================================

// InsertStockAdjustment records one manual quantity correction.
func (h *handle) InsertStockAdjustment(ctx context.Context, a *posting.StockAdjustment) error {
	createdAt := now()
	res, err := h.q.ExecContext(ctx, `
		INSERT INTO stock_adjustments
		(product_id, delta, reason, adjusted_at, transaction_id, transaction_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ProductID, a.Delta, a.Reason, formatTime(a.AdjustedAt), a.TransactionID, a.TransactionCode, createdAt)
	if err != nil {
		return mapWriteErr(err, "failed to insert stock adjustment")
	}
	a.ID, _ = res.LastInsertId()
	var fp fieldParser
	a.CreatedAt = fp.time(createdAt)
	return fp.err
}

// ListStockAdjustments returns adjustments newest first, optionally
// scoped to one product (productID zero means all).
func (h *handle) ListStockAdjustments(ctx context.Context, productID int64) ([]posting.StockAdjustment, error) {
	query := `
		SELECT id, product_id, delta, reason, adjusted_at, transaction_id, transaction_code, created_at
		FROM stock_adjustments
	`
	var args []any
	if productID != 0 {
		query += ` WHERE product_id = ?`
		args = append(args, productID)
	}
	query += ` ORDER BY id DESC`

	rows, err := h.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []posting.StockAdjustment
	for rows.Next() {
		var (
			a          posting.StockAdjustment
			adjustedAt string
			createdAt  string
		)
		err := rows.Scan(&a.ID, &a.ProductID, &a.Delta, &a.Reason, &adjustedAt,
			&a.TransactionID, &a.TransactionCode, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock adjustment: %w", err)
		}
		var fp fieldParser
		a.AdjustedAt = fp.time(adjustedAt)
		a.CreatedAt = fp.time(createdAt)
		if fp.err != nil {
			return nil, fmt.Errorf("failed to decode stock adjustment row: %w", fp.err)
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

func scanProductFields(sc rowScanner) (posting.Product, error) {
	var (
		p         posting.Product
		price     string
		createdAt string
		updatedAt string
	)
	err := sc.Scan(&p.ID, &p.SKU, &p.Name, &p.CategoryID, &p.Quantity,
		&price, &p.Active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("failed to scan product: %w", err)
	}
	var fp fieldParser
	p.Price = fp.decimal(price)
	p.CreatedAt = fp.time(createdAt)
	p.UpdatedAt = fp.time(updatedAt)
	if fp.err != nil {
		return p, fmt.Errorf("failed to decode product row: %w", fp.err)
	}
	return p, nil
}

func nullID(id int64) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}
