/*
adjustment.go - Manual stock adjustments

PURPOSE:
  Corrects on-hand quantity outside the sale/purchase flows (shrinkage,
  stock counts, damage). When a recent unit cost is known the change is
  also valued on the ledger: write-downs post Dr cost-of-goods-sold /
  Cr inventory, write-ups the mirror. Without a known cost the
  adjustment is quantity-only and carries no transaction.
*/
package posting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sjhardware/inventory-engine/ledger"
)

// StockAdjustmentInput is a manual quantity correction request.
type StockAdjustmentInput struct {
	ProductID  int64
	Delta      int64
	Reason     string
	AdjustedAt time.Time
}

// AdjustStock applies a guarded quantity change and, when the product
// has a known purchase cost, values it on the ledger.
func (s *Service) AdjustStock(ctx context.Context, in StockAdjustmentInput) (*StockAdjustment, error) {
	if in.Delta == 0 {
		return nil, validationErr("delta must be non-zero")
	}
	if trimmed(in.Reason) == "" {
		return nil, validationErr("reason is required")
	}
	adjustedAt := normalizeDate(in.AdjustedAt)

	var adj *StockAdjustment
	err := s.store.WithTx(ctx, func(tx Store) error {
		eng := newEngines(tx)

		product, err := tx.ProductByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if err := tx.AdjustProductQuantity(ctx, product.ID, in.Delta); err != nil {
			return err
		}

		adj = &StockAdjustment{
			ProductID:  product.ID,
			Delta:      in.Delta,
			Reason:     trimmed(in.Reason),
			AdjustedAt: adjustedAt,
		}

		unitCost, known, err := tx.LatestPurchaseCost(ctx, product.ID)
		if err != nil {
			return err
		}
		if known && unitCost.IsPositive() {
			magnitude := in.Delta
			if magnitude < 0 {
				magnitude = -magnitude
			}
			value := ledger.Round2(unitCost.Mul(decimal.NewFromInt(magnitude)))
			if value.IsPositive() {
				builder := ledger.NewEntrySet()
				if in.Delta < 0 {
					builder.Debit(ledger.AccountCOGS, value).Credit(ledger.AccountInventory, value)
				} else {
					builder.Debit(ledger.AccountInventory, value).Credit(ledger.AccountCOGS, value)
				}
				set, err := builder.Build()
				if err != nil {
					return err
				}

				txnID, code, err := eng.issuer.Next(ctx, ledger.PrefixAdjustment, adjustedAt)
				if err != nil {
					return err
				}
				desc := fmt.Sprintf("Stock adjustment for %s: %s", product.Name, adj.Reason)
				if _, err := eng.writer.Post(ctx, set, txnID, desc, adjustedAt); err != nil {
					return err
				}
				adj.TransactionID = txnID
				adj.TransactionCode = code
			}
		}

		return tx.InsertStockAdjustment(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	return adj, nil
}
