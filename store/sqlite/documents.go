/*
documents.go - Sales, payments, purchase orders and expenses

PURPOSE:
  Persistence for the business documents the orchestrators post.
  Headers carry denormalized totals that the posting layer recomputes;
  line items are written once with their parent and soft-deleted via
  the active flag, never removed.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sjhardware/inventory-engine/posting"
)

// =============================================================================
// SALES
// =============================================================================

// InsertSale persists a sale header and its items, filling in ids.
func (h *handle) InsertSale(ctx context.Context, s *posting.Sale) error {
	ts := now()
	res, err := h.q.ExecContext(ctx, `
		INSERT INTO sales
		(number, customer_id, total_amount, total_paid, balance, status,
		 sale_date, transaction_id, transaction_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.Number, s.CustomerID,
		s.TotalAmount.String(), s.TotalPaid.String(), s.Balance.String(),
		string(s.Status), formatTime(s.SaleDate),
		s.TransactionID, s.TransactionCode, ts, ts,
	)
	if err != nil {
		return mapWriteErr(err, "failed to insert sale")
	}
	s.ID, _ = res.LastInsertId()

	for i := range s.Items {
		item := &s.Items[i]
		item.SaleID = s.ID
		res, err := h.q.ExecContext(ctx, `
			INSERT INTO sale_items
			(sale_id, product_id, product_name, quantity, unit_price, total_price, active)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, item.SaleID, item.ProductID, item.ProductName, item.Quantity,
			item.UnitPrice.String(), item.TotalPrice.String(), item.Active)
		if err != nil {
			return mapWriteErr(err, "failed to insert sale item")
		}
		item.ID, _ = res.LastInsertId()
	}
	return nil
}

// SaleByID returns a sale with its items.
func (h *handle) SaleByID(ctx context.Context, id int64) (*posting.Sale, error) {
	row := h.q.QueryRowContext(ctx, `
		SELECT id, number, customer_id, total_amount, total_paid, balance, status,
		       sale_date, transaction_id, transaction_code, created_at, updated_at
		FROM sales WHERE id = ?
	`, id)

	s, err := scanSaleFields(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("sale", id)
	}
	if err != nil {
		return nil, err
	}

	items, err := h.saleItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

// ListSales returns sale headers newest first, without items.
func (h *handle) ListSales(ctx context.Context, limit int) ([]posting.Sale, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := h.q.QueryContext(ctx, `
		SELECT id, number, customer_id, total_amount, total_paid, balance, status,
		       sale_date, transaction_id, transaction_code, created_at, updated_at
		FROM sales ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []posting.Sale
	for rows.Next() {
		s, err := scanSaleFields(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// UpdateSale rewrites the recomputable header fields of a sale.
func (h *handle) UpdateSale(ctx context.Context, s *posting.Sale) error {
	res, err := h.q.ExecContext(ctx, `
		UPDATE sales SET total_amount = ?, total_paid = ?, balance = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, s.TotalAmount.String(), s.TotalPaid.String(), s.Balance.String(),
		string(s.Status), now(), s.ID)
	if err != nil {
		return mapWriteErr(err, "failed to update sale")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("sale", s.ID)
	}
	return nil
}

func (h *handle) saleItems(ctx context.Context, saleID int64) ([]posting.SaleItem, error) {
	rows, err := h.q.QueryContext(ctx, `
		SELECT id, sale_id, product_id, product_name, quantity, unit_price, total_price, active
		FROM sale_items WHERE sale_id = ? ORDER BY id ASC
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	var items []posting.SaleItem
	for rows.Next() {
		var (
			item       posting.SaleItem
			unitPrice  string
			totalPrice string
		)
		err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName,
			&item.Quantity, &unitPrice, &totalPrice, &item.Active)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		var fp fieldParser
		item.UnitPrice = fp.decimal(unitPrice)
		item.TotalPrice = fp.decimal(totalPrice)
		if fp.err != nil {
			return nil, fmt.Errorf("failed to decode sale item row: %w", fp.err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// =============================================================================
// PAYMENTS
// =============================================================================

// InsertPayment persists a customer payment.
func (h *handle) InsertPayment(ctx context.Context, p *posting.Payment) error {
	createdAt := now()
	res, err := h.q.ExecContext(ctx, `
		INSERT INTO payments
		(sale_id, amount, method, reference, account_code, paid_at,
		 transaction_id, transaction_code, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.SaleID, p.Amount.String(), p.Method, p.Reference, p.AccountCode,
		formatTime(p.PaidAt), p.TransactionID, p.TransactionCode, p.Active, createdAt)
	if err != nil {
		return mapWriteErr(err, "failed to insert payment")
	}
	p.ID, _ = res.LastInsertId()
	var fp fieldParser
	p.CreatedAt = fp.time(createdAt)
	return fp.err
}

// PaymentByID returns one payment.
func (h *handle) PaymentByID(ctx context.Context, id int64) (*posting.Payment, error) {
	row := h.q.QueryRowContext(ctx, `
		SELECT id, sale_id, amount, method, reference, account_code, paid_at,
		       transaction_id, transaction_code, active, created_at
		FROM payments WHERE id = ?
	`, id)

	p, err := scanPaymentFields(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("payment", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePayment rewrites the active flag and transaction link of a
// payment. Amounts are immutable; corrections go through deletion and
// re-entry.
func (h *handle) UpdatePayment(ctx context.Context, p *posting.Payment) error {
	res, err := h.q.ExecContext(ctx, `
		UPDATE payments SET active = ?, transaction_id = ?, transaction_code = ?
		WHERE id = ?
	`, p.Active, p.TransactionID, p.TransactionCode, p.ID)
	if err != nil {
		return mapWriteErr(err, "failed to update payment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("payment", p.ID)
	}
	return nil
}

// PaymentsBySale returns every payment row for a sale, oldest first,
// active and soft-deleted alike.
func (h *handle) PaymentsBySale(ctx context.Context, saleID int64) ([]posting.Payment, error) {
	rows, err := h.q.QueryContext(ctx, `
		SELECT id, sale_id, amount, method, reference, account_code, paid_at,
		       transaction_id, transaction_code, active, created_at
		FROM payments WHERE sale_id = ? ORDER BY id ASC
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []posting.Payment
	for rows.Next() {
		p, err := scanPaymentFields(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// =============================================================================
// PURCHASE ORDERS
// =============================================================================

// InsertPurchaseOrder persists a purchase order and its items.
func (h *handle) InsertPurchaseOrder(ctx context.Context, po *posting.PurchaseOrder) error {
	ts := now()
	res, err := h.q.ExecContext(ctx, `
		INSERT INTO purchase_orders
		(supplier_id, invoice_number, memo, purchase_date, total_amount, total_paid,
		 balance, status, transaction_id, transaction_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		po.SupplierID, po.InvoiceNumber, po.Memo, formatTime(po.PurchaseDate),
		po.TotalAmount.String(), po.TotalPaid.String(), po.Balance.String(),
		string(po.Status), po.TransactionID, po.TransactionCode, ts, ts,
	)
	if err != nil {
		return mapWriteErr(err, "failed to insert purchase order")
	}
	po.ID, _ = res.LastInsertId()

	for i := range po.Items {
		item := &po.Items[i]
		item.PurchaseOrderID = po.ID
		res, err := h.q.ExecContext(ctx, `
			INSERT INTO purchase_order_items
			(purchase_order_id, product_id, quantity, unit_cost, total_cost, active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, item.PurchaseOrderID, item.ProductID, item.Quantity,
			item.UnitCost.String(), item.TotalCost.String(), item.Active, ts)
		if err != nil {
			return mapWriteErr(err, "failed to insert purchase order item")
		}
		item.ID, _ = res.LastInsertId()
	}
	return nil
}

// PurchaseOrderByID returns a purchase order with its items.
func (h *handle) PurchaseOrderByID(ctx context.Context, id int64) (*posting.PurchaseOrder, error) {
	row := h.q.QueryRowContext(ctx, `
		SELECT id, supplier_id, invoice_number, memo, purchase_date, total_amount,
		       total_paid, balance, status, transaction_id, transaction_code,
		       created_at, updated_at
		FROM purchase_orders WHERE id = ?
	`, id)

	po, err := scanPurchaseOrderFields(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("purchase order", id)
	}
	if err != nil {
		return nil, err
	}

	items, err := h.purchaseOrderItems(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	po.Items = items
	return &po, nil
}

// ListPurchaseOrders returns order headers newest first, without items.
func (h *handle) ListPurchaseOrders(ctx context.Context, limit int) ([]posting.PurchaseOrder, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := h.q.QueryContext(ctx, `
		SELECT id, supplier_id, invoice_number, memo, purchase_date, total_amount,
		       total_paid, balance, status, transaction_id, transaction_code,
		       created_at, updated_at
		FROM purchase_orders ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []posting.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrderFields(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, po)
	}
	return orders, rows.Err()
}

// UpdatePurchaseOrder rewrites the recomputable header fields.
func (h *handle) UpdatePurchaseOrder(ctx context.Context, po *posting.PurchaseOrder) error {
	res, err := h.q.ExecContext(ctx, `
		UPDATE purchase_orders SET total_amount = ?, total_paid = ?, balance = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, po.TotalAmount.String(), po.TotalPaid.String(), po.Balance.String(),
		string(po.Status), now(), po.ID)
	if err != nil {
		return mapWriteErr(err, "failed to update purchase order")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("purchase order", po.ID)
	}
	return nil
}

func (h *handle) purchaseOrderItems(ctx context.Context, orderID int64) ([]posting.PurchaseOrderItem, error) {
	rows, err := h.q.QueryContext(ctx, `
		SELECT id, purchase_order_id, product_id, quantity, unit_cost, total_cost, active, created_at
		FROM purchase_order_items WHERE purchase_order_id = ? ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase order items: %w", err)
	}
	defer rows.Close()

	var items []posting.PurchaseOrderItem
	for rows.Next() {
		var (
			item      posting.PurchaseOrderItem
			unitCost  string
			totalCost string
			createdAt string
		)
		err := rows.Scan(&item.ID, &item.PurchaseOrderID, &item.ProductID,
			&item.Quantity, &unitCost, &totalCost, &item.Active, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase order item: %w", err)
		}
		var fp fieldParser
		item.UnitCost = fp.decimal(unitCost)
		item.TotalCost = fp.decimal(totalCost)
		item.CreatedAt = fp.time(createdAt)
		if fp.err != nil {
			return nil, fmt.Errorf("failed to decode purchase order item row: %w", fp.err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// =============================================================================
// SUPPLIER PAYMENTS
// =============================================================================

// InsertSupplierPayment persists a payment made against a purchase order.
func (h *handle) InsertSupplierPayment(ctx context.Context, p *posting.SupplierPayment) error {
	createdAt := now()
	res, err := h.q.ExecContext(ctx, `
		INSERT INTO supplier_payments
		(purchase_order_id, amount, method, reference, account_code, paid_at,
		 transaction_id, transaction_code, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.PurchaseOrderID, p.Amount.String(), p.Method, p.Reference, p.AccountCode,
		formatTime(p.PaidAt), p.TransactionID, p.TransactionCode, p.Active, createdAt)
	if err != nil {
		return mapWriteErr(err, "failed to insert supplier payment")
	}
	p.ID, _ = res.LastInsertId()
	var fp fieldParser
	p.CreatedAt = fp.time(createdAt)
	return fp.err
}

// UpdateSupplierPayment rewrites the active flag of a supplier payment.
func (h *handle) UpdateSupplierPayment(ctx context.Context, p *posting.SupplierPayment) error {
	res, err := h.q.ExecContext(ctx, `
		UPDATE supplier_payments SET active = ? WHERE id = ?
	`, p.Active, p.ID)
	if err != nil {
		return mapWriteErr(err, "failed to update supplier payment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("supplier payment", p.ID)
	}
	return nil
}

// SupplierPaymentsByOrder returns every payment row for an order,
// oldest first.
func (h *handle) SupplierPaymentsByOrder(ctx context.Context, orderID int64) ([]posting.SupplierPayment, error) {
	rows, err := h.q.QueryContext(ctx, `
		SELECT id, purchase_order_id, amount, method, reference, account_code, paid_at,
		       transaction_id, transaction_code, active, created_at
		FROM supplier_payments WHERE purchase_order_id = ? ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query supplier payments: %w", err)
	}
	defer rows.Close()

	var payments []posting.SupplierPayment
	for rows.Next() {
		var (
			p         posting.SupplierPayment
			amount    string
			paidAt    string
			createdAt string
		)
		err := rows.Scan(&p.ID, &p.PurchaseOrderID, &amount, &p.Method, &p.Reference,
			&p.AccountCode, &paidAt, &p.TransactionID, &p.TransactionCode,
			&p.Active, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier payment: %w", err)
		}
		var fp fieldParser
		p.Amount = fp.decimal(amount)
		p.PaidAt = fp.time(paidAt)
		p.CreatedAt = fp.time(createdAt)
		if fp.err != nil {
			return nil, fmt.Errorf("failed to decode supplier payment row: %w", fp.err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// =============================================================================
// EXPENSES
// =============================================================================

// InsertExpense persists an expense and its items.
func (h *handle) InsertExpense(ctx context.Context, e *posting.Expense) error {
	ts := now()
	res, err := h.q.ExecContext(ctx, `
		INSERT INTO expenses
		(description, expense_date, account_code, reference, total_amount, status,
		 transaction_id, transaction_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.Description, formatTime(e.ExpenseDate), e.AccountCode, e.Reference,
		e.TotalAmount.String(), string(e.Status),
		e.TransactionID, e.TransactionCode, ts, ts,
	)
	if err != nil {
		return mapWriteErr(err, "failed to insert expense")
	}
	e.ID, _ = res.LastInsertId()

	for i := range e.Items {
		item := &e.Items[i]
		item.ExpenseID = e.ID
		res, err := h.q.ExecContext(ctx, `
			INSERT INTO expense_items
			(expense_id, account_code, name, description, amount, active)
			VALUES (?, ?, ?, ?, ?, ?)
		`, item.ExpenseID, item.AccountCode, item.Name, item.Description,
			item.Amount.String(), item.Active)
		if err != nil {
			return mapWriteErr(err, "failed to insert expense item")
		}
		item.ID, _ = res.LastInsertId()
	}
	return nil
}

// ExpenseByID returns an expense with its items.
func (h *handle) ExpenseByID(ctx context.Context, id int64) (*posting.Expense, error) {
	row := h.q.QueryRowContext(ctx, `
		SELECT id, description, expense_date, account_code, reference, total_amount,
		       status, transaction_id, transaction_code, created_at, updated_at
		FROM expenses WHERE id = ?
	`, id)

	e, err := scanExpenseFields(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("expense", id)
	}
	if err != nil {
		return nil, err
	}

	items, err := h.expenseItems(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Items = items
	return &e, nil
}

// ListExpenses returns expense headers newest first, without items.
func (h *handle) ListExpenses(ctx context.Context, limit int) ([]posting.Expense, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := h.q.QueryContext(ctx, `
		SELECT id, description, expense_date, account_code, reference, total_amount,
		       status, transaction_id, transaction_code, created_at, updated_at
		FROM expenses ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []posting.Expense
	for rows.Next() {
		e, err := scanExpenseFields(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpdateExpense rewrites the recomputable header fields of an expense.
func (h *handle) UpdateExpense(ctx context.Context, e *posting.Expense) error {
	res, err := h.q.ExecContext(ctx, `
		UPDATE expenses SET total_amount = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, e.TotalAmount.String(), string(e.Status), now(), e.ID)
	if err != nil {
		return mapWriteErr(err, "failed to update expense")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("expense", e.ID)
	}
	return nil
}

func (h *handle) expenseItems(ctx context.Context, expenseID int64) ([]posting.ExpenseItem, error) {
	rows, err := h.q.QueryContext(ctx, `
		SELECT id, expense_id, account_code, name, description, amount, active
		FROM expense_items WHERE expense_id = ? ORDER BY id ASC
	`, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense items: %w", err)
	}
	defer rows.Close()

	var items []posting.ExpenseItem
	for rows.Next() {
		var (
			item   posting.ExpenseItem
			amount string
		)
		err := rows.Scan(&item.ID, &item.ExpenseID, &item.AccountCode,
			&item.Name, &item.Description, &amount, &item.Active)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense item: %w", err)
		}
		var fp fieldParser
		item.Amount = fp.decimal(amount)
		if fp.err != nil {
			return nil, fmt.Errorf("failed to decode expense item row: %w", fp.err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

func scanSaleFields(sc rowScanner) (posting.Sale, error) {
	var (
		s           posting.Sale
		totalAmount string
		totalPaid   string
		balance     string
		status      string
		saleDate    string
		createdAt   string
		updatedAt   string
	)
	err := sc.Scan(&s.ID, &s.Number, &s.CustomerID, &totalAmount, &totalPaid,
		&balance, &status, &saleDate, &s.TransactionID, &s.TransactionCode,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("failed to scan sale: %w", err)
	}
	var fp fieldParser
	s.TotalAmount = fp.decimal(totalAmount)
	s.TotalPaid = fp.decimal(totalPaid)
	s.Balance = fp.decimal(balance)
	s.Status = posting.DocumentStatus(status)
	s.SaleDate = fp.time(saleDate)
	s.CreatedAt = fp.time(createdAt)
	s.UpdatedAt = fp.time(updatedAt)
	if fp.err != nil {
		return s, fmt.Errorf("failed to decode sale row: %w", fp.err)
	}
	return s, nil
}

func scanPaymentFields(sc rowScanner) (posting.Payment, error) {
	var (
		p         posting.Payment
		amount    string
		paidAt    string
		createdAt string
	)
	err := sc.Scan(&p.ID, &p.SaleID, &amount, &p.Method, &p.Reference,
		&p.AccountCode, &paidAt, &p.TransactionID, &p.TransactionCode,
		&p.Active, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("failed to scan payment: %w", err)
	}
	var fp fieldParser
	p.Amount = fp.decimal(amount)
	p.PaidAt = fp.time(paidAt)
	p.CreatedAt = fp.time(createdAt)
	if fp.err != nil {
		return p, fmt.Errorf("failed to decode payment row: %w", fp.err)
	}
	return p, nil
}

func scanPurchaseOrderFields(sc rowScanner) (posting.PurchaseOrder, error) {
	var (
		po           posting.PurchaseOrder
		purchaseDate string
		totalAmount  string
		totalPaid    string
		balance      string
		status       string
		createdAt    string
		updatedAt    string
	)
	err := sc.Scan(&po.ID, &po.SupplierID, &po.InvoiceNumber, &po.Memo,
		&purchaseDate, &totalAmount, &totalPaid, &balance, &status,
		&po.TransactionID, &po.TransactionCode, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return po, err
		}
		return po, fmt.Errorf("failed to scan purchase order: %w", err)
	}
	var fp fieldParser
	po.PurchaseDate = fp.time(purchaseDate)
	po.TotalAmount = fp.decimal(totalAmount)
	po.TotalPaid = fp.decimal(totalPaid)
	po.Balance = fp.decimal(balance)
	po.Status = posting.DocumentStatus(status)
	po.CreatedAt = fp.time(createdAt)
	po.UpdatedAt = fp.time(updatedAt)
	if fp.err != nil {
		return po, fmt.Errorf("failed to decode purchase order row: %w", fp.err)
	}
	return po, nil
}

func scanExpenseFields(sc rowScanner) (posting.Expense, error) {
	var (
		e           posting.Expense
		expenseDate string
		totalAmount string
		status      string
		createdAt   string
		updatedAt   string
	)
	err := sc.Scan(&e.ID, &e.Description, &expenseDate, &e.AccountCode,
		&e.Reference, &totalAmount, &status, &e.TransactionID,
		&e.TransactionCode, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("failed to scan expense: %w", err)
	}
	var fp fieldParser
	e.ExpenseDate = fp.time(expenseDate)
	e.TotalAmount = fp.decimal(totalAmount)
	e.Status = posting.DocumentStatus(status)
	e.CreatedAt = fp.time(createdAt)
	e.UpdatedAt = fp.time(updatedAt)
	if fp.err != nil {
		return e, fmt.Errorf("failed to decode expense row: %w", fp.err)
	}
	return e, nil
}
