/*
purchase.go - Purchase order and supplier payment orchestrators

PURPOSE:
  A purchase order receives stock and books the liability:
  Dr inventory / Cr accounts payable. Paying the supplier settles it:
  Dr accounts payable / Cr payment-account. A payment may never exceed
  the order's outstanding balance.

VOID:
  Voiding reverses the order's posting and any supplier-payment
  postings, removes the received stock again (which fails if the stock
  has since been sold), and parks the document in Voided.
*/
package posting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sjhardware/inventory-engine/ledger"
)

// PurchaseOrderItemInput is one requested purchase line.
type PurchaseOrderItemInput struct {
	ProductID int64
	Quantity  int64
	UnitCost  decimal.Decimal
}

// PurchaseOrderInput is a purchase order creation request.
type PurchaseOrderInput struct {
	SupplierID    int64
	InvoiceNumber string
	Memo          string
	PurchaseDate  time.Time
	Items         []PurchaseOrderItemInput
}

// CreatePurchaseOrder receives stock, books the payable and persists
// the order as one unit of work. Orders start Pending (nothing paid).
func (s *Service) CreatePurchaseOrder(ctx context.Context, in PurchaseOrderInput) (*PurchaseOrder, error) {
	if trimmed(in.InvoiceNumber) == "" {
		return nil, validationErr("invoice number is required")
	}
	if len(in.Items) == 0 {
		return nil, validationErr("at least one item is required")
	}
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, validationErr("item %d: quantity must be positive", i)
		}
		if !item.UnitCost.IsPositive() {
			return nil, validationErr("item %d: unit cost must be positive", i)
		}
	}
	purchaseDate := normalizeDate(in.PurchaseDate)

	var po *PurchaseOrder
	err := s.store.WithTx(ctx, func(tx Store) error {
		eng := newEngines(tx)

		if _, err := tx.SupplierByID(ctx, in.SupplierID); err != nil {
			return err
		}

		items := make([]PurchaseOrderItem, 0, len(in.Items))
		total := decimal.Zero
		for _, item := range in.Items {
			product, err := tx.ProductByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if err := tx.AdjustProductQuantity(ctx, product.ID, item.Quantity); err != nil {
				return err
			}

			lineTotal := ledger.Round2(item.UnitCost.Mul(decimal.NewFromInt(item.Quantity)))
			items = append(items, PurchaseOrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitCost:  ledger.Round2(item.UnitCost),
				TotalCost: lineTotal,
				Active:    true,
			})
			total = total.Add(lineTotal)
		}

		txnID, code, err := eng.issuer.Next(ctx, ledger.PrefixPurchaseOrder, purchaseDate)
		if err != nil {
			return err
		}

		set, err := ledger.NewEntrySet().
			Debit(ledger.AccountInventory, total).
			Credit(ledger.AccountPayable, total).
			Build()
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("Purchase order %s", in.InvoiceNumber)
		if _, err := eng.writer.Post(ctx, set, txnID, desc, purchaseDate); err != nil {
			return err
		}

		po = &PurchaseOrder{
			SupplierID:      in.SupplierID,
			InvoiceNumber:   in.InvoiceNumber,
			Memo:            trimmed(in.Memo),
			PurchaseDate:    purchaseDate,
			TransactionID:   txnID,
			TransactionCode: code,
			Items:           items,
		}
		if err := tx.InsertPurchaseOrder(ctx, po); err != nil {
			return err
		}

		PurchaseOrderTotals(po, nil)
		return tx.UpdatePurchaseOrder(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// SupplierPaymentInput is a request to pay down a purchase order.
type SupplierPaymentInput struct {
	PurchaseOrderID int64
	Amount          decimal.Decimal
	Method          string
	Reference       string
	AccountCode     string
	PaidAt          time.Time
}

// PaySupplier posts a payment against a purchase order. The amount must
// not exceed the order's outstanding balance.
func (s *Service) PaySupplier(ctx context.Context, in SupplierPaymentInput) (*SupplierPayment, *PurchaseOrder, error) {
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
		payment *SupplierPayment
		po      *PurchaseOrder
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		eng := newEngines(tx)

		var err error
		po, err = tx.PurchaseOrderByID(ctx, in.PurchaseOrderID)
		if err != nil {
			return err
		}
		if po.Status == StatusVoided {
			return fmt.Errorf("%w: purchase order %d", ledger.ErrDocumentVoided, in.PurchaseOrderID)
		}
		if ledger.Round2(in.Amount).GreaterThan(po.Balance) {
			return validationErr("payment of %s exceeds remaining balance %s",
				in.Amount.StringFixed(2), po.Balance.StringFixed(2))
		}
		if _, err := requireAccount(ctx, tx, account); err != nil {
			return err
		}

		txnID, code, err := eng.issuer.Next(ctx, ledger.PrefixSupplierPayment, paidAt)
		if err != nil {
			return err
		}

		set, err := ledger.NewEntrySet().
			Debit(ledger.AccountPayable, in.Amount).
			Credit(account, in.Amount).
			Build()
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("Payment for purchase order %s", po.InvoiceNumber)
		if _, err := eng.writer.Post(ctx, set, txnID, desc, paidAt); err != nil {
			return err
		}

		payment = &SupplierPayment{
			PurchaseOrderID: po.ID,
			Amount:          ledger.Round2(in.Amount),
			Method:          method,
			Reference:       trimmed(in.Reference),
			AccountCode:     account,
			PaidAt:          paidAt,
			TransactionID:   txnID,
			TransactionCode: code,
			Active:          true,
		}
		if err := tx.InsertSupplierPayment(ctx, payment); err != nil {
			return err
		}

		payments, err := tx.SupplierPaymentsByOrder(ctx, po.ID)
		if err != nil {
			return err
		}
		PurchaseOrderTotals(po, payments)
		return tx.UpdatePurchaseOrder(ctx, po)
	})
	if err != nil {
		return nil, nil, err
	}
	return payment, po, nil
}

// VoidPurchaseOrder reverses the order's posting and any supplier
// payments, removes the received stock and parks the order in Voided.
func (s *Service) VoidPurchaseOrder(ctx context.Context, orderID int64, reason string) (*PurchaseOrder, error) {
	var po *PurchaseOrder
	err := s.store.WithTx(ctx, func(tx Store) error {
		eng := newEngines(tx)

		var err error
		po, err = tx.PurchaseOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if po.Status == StatusVoided {
			return fmt.Errorf("%w: purchase order %d", ledger.ErrAlreadyReversed, orderID)
		}

		now := normalizeDate(time.Time{})
		if _, err := eng.reverser.Reverse(ctx, po.TransactionID, reason, now); err != nil {
			return err
		}

		payments, err := tx.SupplierPaymentsByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		for i := range payments {
			p := &payments[i]
			if !p.Active {
				continue
			}
			if _, err := eng.reverser.Reverse(ctx, p.TransactionID, reason, now); err != nil {
				return err
			}
			p.Active = false
			if err := tx.UpdateSupplierPayment(ctx, p); err != nil {
				return err
			}
		}

		// Take the received stock back out. Fails if it was sold since.
		for i := range po.Items {
			item := &po.Items[i]
			if !item.Active {
				continue
			}
			if err := tx.AdjustProductQuantity(ctx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}

		po.Status = StatusVoided
		return tx.UpdatePurchaseOrder(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}
