/*
balance.go - Document totals and payment-status derivation

PURPOSE:
  Recomputes a document's total, amount paid and outstanding balance from
  its line items and payments, and maps the result to a DocumentStatus.
  Totals are derived state: they are recomputed inside the same unit of
  work as every line-item or payment mutation, never trusted from input.

STATUS POLICY (applied in order):
  1. outstanding <= 0 and paid > 0  -> Paid
  2. 0 < paid < total               -> Partial
  3. paid == 0                      -> Pending

  The signed outstanding amount is kept for overpayment detection; the
  stored Balance is floored at zero for display.

The computation is pure: calling it twice with no intervening mutation
yields identical results.
*/
package posting

import (
	"github.com/shopspring/decimal"

	"github.com/sjhardware/inventory-engine/ledger"
)

// Totals is the recomputed financial state of a document.
type Totals struct {
	TotalAmount decimal.Decimal
	TotalPaid   decimal.Decimal
	Outstanding decimal.Decimal // signed: negative means overpaid
	Balance     decimal.Decimal // Outstanding floored at zero
	Status      DocumentStatus
}

// Compute derives totals and status from a total amount and amount paid.
func Compute(totalAmount, totalPaid decimal.Decimal) Totals {
	totalAmount = ledger.Round2(totalAmount)
	totalPaid = ledger.Round2(totalPaid)
	outstanding := totalAmount.Sub(totalPaid)

	balance := outstanding
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	var status DocumentStatus
	switch {
	case !outstanding.IsPositive() && totalPaid.IsPositive():
		status = StatusPaid
	case totalPaid.IsPositive() && totalPaid.LessThan(totalAmount):
		status = StatusPartial
	default:
		status = StatusPending
	}

	return Totals{
		TotalAmount: totalAmount,
		TotalPaid:   totalPaid,
		Outstanding: outstanding,
		Balance:     balance,
		Status:      status,
	}
}

// SaleTotals recomputes a sale from its active items and payments and
// writes the result back onto the header. Voided sales keep their
// terminal status.
func SaleTotals(s *Sale, payments []Payment) Totals {
	total := decimal.Zero
	for _, item := range s.Items {
		if item.Active {
			total = total.Add(item.TotalPrice)
		}
	}
	paid := decimal.Zero
	for _, p := range payments {
		if p.Active {
			paid = paid.Add(p.Amount)
		}
	}

	t := Compute(total, paid)
	s.TotalAmount = t.TotalAmount
	s.TotalPaid = t.TotalPaid
	s.Balance = t.Balance
	if s.Status != StatusVoided {
		s.Status = t.Status
	}
	return t
}

// PurchaseOrderTotals recomputes a purchase order from its active items
// and supplier payments.
func PurchaseOrderTotals(po *PurchaseOrder, payments []SupplierPayment) Totals {
	total := decimal.Zero
	for _, item := range po.Items {
		if item.Active {
			total = total.Add(item.TotalCost)
		}
	}
	paid := decimal.Zero
	for _, p := range payments {
		if p.Active {
			paid = paid.Add(p.Amount)
		}
	}

	t := Compute(total, paid)
	po.TotalAmount = t.TotalAmount
	po.TotalPaid = t.TotalPaid
	po.Balance = t.Balance
	if po.Status != StatusVoided {
		po.Status = t.Status
	}
	return t
}

// ExpenseTotal recomputes an expense's total from its active items.
// Expenses settle at creation, so a non-voided expense is always Paid.
func ExpenseTotal(e *Expense) decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.Items {
		if item.Active {
			total = total.Add(item.Amount)
		}
	}
	e.TotalAmount = ledger.Round2(total)
	if e.Status != StatusVoided {
		e.Status = StatusPaid
	}
	return e.TotalAmount
}
