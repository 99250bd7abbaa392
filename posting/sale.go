/*
sale.go - Sale posting orchestrator

PURPOSE:
  Turns a sale event into stock decrements, a balanced ledger posting,
  the persisted sale/items/payment rows and recomputed totals, all
  inside one unit of work.

ENTRY SETS:
  Fully paid:  Dr payment-account total  / Cr revenue total
  Unpaid:      Dr receivable total       / Cr revenue total
  Partial:     Dr payment-account paid
               Dr receivable outstanding / Cr revenue total
  Plus, when cost data exists: Dr COGS cost / Cr inventory cost.

COST OF GOODS:
  Uses the latest purchase-order unit cost per product. A product that
  was never purchased contributes no COGS pair, matching the chart's
  periodic treatment for untracked cost.
*/
package posting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sjhardware/inventory-engine/ledger"
)

// SaleItemInput is one requested sale line.
type SaleItemInput struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// SaleInput is a sale creation request. AmountPaid may be zero (credit
// sale), partial, or the full total. PaymentAccountCode is where paid
// money lands; it defaults to the cash account.
type SaleInput struct {
	Number             string
	CustomerID         int64
	SaleDate           time.Time
	Items              []SaleItemInput
	AmountPaid         decimal.Decimal
	PaymentMethod      string
	PaymentAccountCode string
}

// CreateSale validates, posts and persists a sale as one unit of work.
func (s *Service) CreateSale(ctx context.Context, in SaleInput) (*Sale, error) {
	if trimmed(in.Number) == "" {
		return nil, validationErr("sale number is required")
	}
	if len(in.Items) == 0 {
		return nil, validationErr("at least one item is required")
	}
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, validationErr("item %d: quantity must be positive", i)
		}
		if item.UnitPrice.IsNegative() {
			return nil, validationErr("item %d: unit price must not be negative", i)
		}
	}
	if in.AmountPaid.IsNegative() {
		return nil, validationErr("amount paid must not be negative")
	}

	saleDate := normalizeDate(in.SaleDate)
	paymentAccount := trimmed(in.PaymentAccountCode)
	if paymentAccount == "" {
		paymentAccount = ledger.AccountCash
	}
	method := trimmed(in.PaymentMethod)
	if method == "" {
		method = "Cash"
	}

	var sale *Sale
	err := s.store.WithTx(ctx, func(tx Store) error {
		eng := newEngines(tx)

		if in.CustomerID != 0 {
			if _, err := tx.CustomerByID(ctx, in.CustomerID); err != nil {
				return err
			}
		}
		if in.AmountPaid.IsPositive() {
			if _, err := requireAccount(ctx, tx, paymentAccount); err != nil {
				return err
			}
		}

		// Stock side effects and line totals. AdjustProductQuantity
		// refuses to go below zero, so an oversell aborts here with
		// nothing committed.
		items := make([]SaleItem, 0, len(in.Items))
		total := decimal.Zero
		cogs := decimal.Zero
		for _, item := range in.Items {
			product, err := tx.ProductByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if err := tx.AdjustProductQuantity(ctx, product.ID, -item.Quantity); err != nil {
				return err
			}

			lineTotal := ledger.Round2(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
			items = append(items, SaleItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   ledger.Round2(item.UnitPrice),
				TotalPrice:  lineTotal,
				Active:      true,
			})
			total = total.Add(lineTotal)

			cost, ok, err := tx.LatestPurchaseCost(ctx, product.ID)
			if err != nil {
				return err
			}
			if ok {
				cogs = cogs.Add(ledger.Round2(cost.Mul(decimal.NewFromInt(item.Quantity))))
			}
		}

		txnID, code, err := eng.issuer.Next(ctx, ledger.PrefixInvoice, saleDate)
		if err != nil {
			return err
		}

		set, err := saleEntrySet(total, in.AmountPaid, cogs, paymentAccount)
		if err != nil {
			return err
		}

		sale = &Sale{
			Number:          in.Number,
			CustomerID:      in.CustomerID,
			SaleDate:        saleDate,
			TransactionID:   txnID,
			TransactionCode: code,
			Items:           items,
		}

		if _, err := eng.writer.Post(ctx, set, txnID, fmt.Sprintf("Sale %s", in.Number), saleDate); err != nil {
			return err
		}
		if err := tx.InsertSale(ctx, sale); err != nil {
			return err
		}

		var payments []Payment
		if in.AmountPaid.IsPositive() {
			payment := Payment{
				SaleID:          sale.ID,
				Amount:          ledger.Round2(in.AmountPaid),
				Method:          method,
				Reference:       in.Number,
				AccountCode:     paymentAccount,
				PaidAt:          saleDate,
				TransactionID:   txnID,
				TransactionCode: code,
				Active:          true,
			}
			if err := tx.InsertPayment(ctx, &payment); err != nil {
				return err
			}
			payments = append(payments, payment)
		}

		SaleTotals(sale, payments)
		return tx.UpdateSale(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// saleEntrySet builds the balanced posting for a sale. The paid portion
// debits the payment account, the outstanding portion debits accounts
// receivable, and revenue is credited in full. The COGS pair moves cost
// out of inventory when cost data exists.
func saleEntrySet(total, paid, cogs decimal.Decimal, paymentAccount string) (ledger.EntrySet, error) {
	b := ledger.NewEntrySet()

	outstanding := total.Sub(paid)
	if outstanding.IsNegative() {
		// Overpayment: the full receipt lands on the payment account
		// and the excess is owed back through receivables.
		b.Debit(paymentAccount, paid).
			Credit(ledger.AccountSalesRevenue, total).
			Credit(ledger.AccountReceivable, paid.Sub(total))
	} else {
		b.Debit(paymentAccount, paid).
			Debit(ledger.AccountReceivable, outstanding).
			Credit(ledger.AccountSalesRevenue, total)
	}

	b.Debit(ledger.AccountCOGS, cogs).
		Credit(ledger.AccountInventory, cogs)

	return b.Build()
}

// VoidSale reverses the sale's ledger footprint, restores stock and
// moves the document to the terminal Voided state. Payments recorded
// after creation carry their own transactions; each one still standing
// is reversed and soft-deleted too.
func (s *Service) VoidSale(ctx context.Context, saleID int64, reason string) (*Sale, error) {
	var sale *Sale
	err := s.store.WithTx(ctx, func(tx Store) error {
		eng := newEngines(tx)

		var err error
		sale, err = tx.SaleByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale.Status == StatusVoided {
			return fmt.Errorf("%w: sale %d", ledger.ErrAlreadyReversed, saleID)
		}

		now := normalizeDate(time.Time{})
		if _, err := eng.reverser.Reverse(ctx, sale.TransactionID, reason, now); err != nil {
			return err
		}

		payments, err := tx.PaymentsBySale(ctx, saleID)
		if err != nil {
			return err
		}
		for i := range payments {
			p := &payments[i]
			// A soft-deleted payment points at its own reversal or, for
			// a creation-time payment, at the adjusting pair posted when
			// it was deleted. Net out whichever of these transactions
			// still stands so nothing survives the void.
			if p.TransactionID != sale.TransactionID {
				reversed, err := tx.HasReversal(ctx, p.TransactionID)
				if err != nil {
					return err
				}
				if !reversed {
					if _, err := eng.reverser.Reverse(ctx, p.TransactionID, reason, now); err != nil {
						return err
					}
				}
			}
			if !p.Active {
				continue
			}
			p.Active = false
			if err := tx.UpdatePayment(ctx, p); err != nil {
				return err
			}
		}

		// Restore stock.
		for i := range sale.Items {
			item := &sale.Items[i]
			if !item.Active {
				continue
			}
			if err := tx.AdjustProductQuantity(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		sale.Status = StatusVoided
		return tx.UpdateSale(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
