/*
payment.go - Standalone customer payment orchestrator

PURPOSE:
  Records a payment against an existing sale (Dr payment-account /
  Cr receivable), links it to its own PAY transaction, and recomputes the
  sale's totals and status - one unit of work.

SOFT DELETE:
  Payments are never removed. Deleting reverses the ledger footprint and
  flips the Active flag, then the sale's status is recomputed (a Paid
  sale can drop back to Partial or Pending). A payment created together
  with its sale shares the sale's transaction; reversing that would undo
  the sale posting too, so its deletion posts a standalone adjusting
  pair under a fresh PAY transaction instead.
*/
package posting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sjhardware/inventory-engine/ledger"
)

// PaymentInput is a request to record money against a sale.
type PaymentInput struct {
	SaleID      int64
	Amount      decimal.Decimal
	Method      string
	Reference   string
	AccountCode string
	PaidAt      time.Time
}

// RecordPayment posts a payment against a sale and recomputes the
// sale's totals.
func (s *Service) RecordPayment(ctx context.Context, in PaymentInput) (*Payment, *Sale, error) {
	if err := positiveMoney(in.Amount, "payment amount"); err != nil {
		return nil, nil, err
	}
	account := trimmed(in.AccountCode)
	if account == "" {
		return nil, nil, validationErr("payment account is required")
	}
	method := trimmed(in.Method)
	if method == "" {
		method = "Cash"
	}
	paidAt := normalizeDate(in.PaidAt)

	var (
		payment *Payment
		sale    *Sale
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		eng := newEngines(tx)

		var err error
		sale, err = tx.SaleByID(ctx, in.SaleID)
		if err != nil {
			return err
		}
		if sale.Status == StatusVoided {
			return fmt.Errorf("%w: sale %d", ledger.ErrDocumentVoided, in.SaleID)
		}
		if _, err := requireAccount(ctx, tx, account); err != nil {
			return err
		}

		txnID, code, err := eng.issuer.Next(ctx, ledger.PrefixPayment, paidAt)
		if err != nil {
			return err
		}

		set, err := ledger.NewEntrySet().
			Debit(account, in.Amount).
			Credit(ledger.AccountReceivable, in.Amount).
			Build()
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("Payment for sale %s", sale.Number)
		if _, err := eng.writer.Post(ctx, set, txnID, desc, paidAt); err != nil {
			return err
		}

		payment = &Payment{
			SaleID:          sale.ID,
			Amount:          ledger.Round2(in.Amount),
			Method:          method,
			Reference:       trimmed(in.Reference),
			AccountCode:     account,
			PaidAt:          paidAt,
			TransactionID:   txnID,
			TransactionCode: code,
			Active:          true,
		}
		if err := tx.InsertPayment(ctx, payment); err != nil {
			return err
		}

		payments, err := tx.PaymentsBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		SaleTotals(sale, payments)
		return tx.UpdateSale(ctx, sale)
	})
	if err != nil {
		return nil, nil, err
	}
	return payment, sale, nil
}

// DeletePayment soft-deletes a payment, reverses its ledger footprint
// and recomputes the sale's totals and status.
func (s *Service) DeletePayment(ctx context.Context, paymentID int64, reason string) (*Sale, error) {
	var sale *Sale
	err := s.store.WithTx(ctx, func(tx Store) error {
		eng := newEngines(tx)

		payment, err := tx.PaymentByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if !payment.Active {
			return fmt.Errorf("%w: payment %d", ledger.ErrAlreadyReversed, paymentID)
		}
		sale, err = tx.SaleByID(ctx, payment.SaleID)
		if err != nil {
			return err
		}

		now := normalizeDate(time.Time{})
		if payment.TransactionID == sale.TransactionID {
			// Creation-time payment: its legs live inside the sale
			// posting. Net just the payment out with an adjusting pair
			// and re-point the payment at it, so voiding the sale later
			// can find and reverse the pair too.
			txnID, code, err := eng.issuer.Next(ctx, ledger.PrefixPayment, now)
			if err != nil {
				return err
			}
			set, err := ledger.NewEntrySet().
				Credit(payment.AccountCode, payment.Amount).
				Debit(ledger.AccountReceivable, payment.Amount).
				Build()
			if err != nil {
				return err
			}
			desc := fmt.Sprintf("Reversal of payment for sale %s: %s", sale.Number, reason)
			if _, err := eng.writer.Post(ctx, set, txnID, desc, now); err != nil {
				return err
			}
			payment.TransactionID = txnID
			payment.TransactionCode = code
		} else {
			if _, err := eng.reverser.Reverse(ctx, payment.TransactionID, reason, now); err != nil {
				return err
			}
		}

		payment.Active = false
		if err := tx.UpdatePayment(ctx, payment); err != nil {
			return err
		}

		payments, err := tx.PaymentsBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		SaleTotals(sale, payments)
		return tx.UpdateSale(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
