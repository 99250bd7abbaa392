/*
reversal.go - Mirror-image reversal of a posted transaction

PURPOSE:
  When a document is edited or voided, its ledger footprint must be
  undone without touching history. The Reverser loads the active posting
  entries for a transaction id and appends one mirror entry per original:
  same account, same amount, opposite direction, tagged with the same
  transaction id so lineage is preserved.

IDEMPOTENCE:
  Reversing twice would corrupt balances, so a second reversal of the
  same transaction id is refused with ErrAlreadyReversed. The document
  orchestrators additionally guard with the document's Voided status.
*/
package ledger

import (
	"context"
	"fmt"
	"time"
)

// Reverser appends mirror entries for previously posted transactions.
type Reverser struct {
	Store Store
}

// NewReverser creates a Reverser over the given store.
func NewReverser(store Store) *Reverser {
	return &Reverser{Store: store}
}

// Reverse nets the transaction's active posting entries to zero by
// appending opposite-direction entries. Returns the new entry ids.
//
// The original entries are never mutated. Fails with ErrAlreadyReversed
// if reversal entries already exist for txnID, and with ErrNotFound if
// the transaction has no entries at all.
func (r *Reverser) Reverse(ctx context.Context, txnID int64, reason string, effectiveAt time.Time) ([]int64, error) {
	reversed, err := r.Store.HasReversal(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if reversed {
		return nil, fmt.Errorf("%w: transaction %d", ErrAlreadyReversed, txnID)
	}

	originals, err := r.Store.EntriesByTransaction(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if len(originals) == 0 {
		return nil, fmt.Errorf("%w: no entries for transaction %d", ErrNotFound, txnID)
	}

	mirrors := make([]Entry, 0, len(originals))
	for _, e := range originals {
		if e.Status != StatusActive || e.Kind != KindPosting {
			continue
		}
		mirrors = append(mirrors, Entry{
			TransactionID: e.TransactionID,
			AccountID:     e.AccountID,
			AccountCode:   e.AccountCode,
			Direction:     e.Direction.Opposite(),
			Amount:        e.Amount,
			Description:   fmt.Sprintf("Reversal of %s: %s", e.Description, reason),
			EffectiveAt:   effectiveAt,
			Kind:          KindReversal,
			Status:        StatusActive,
		})
	}
	if len(mirrors) == 0 {
		return nil, fmt.Errorf("%w: no active posting entries for transaction %d", ErrNotFound, txnID)
	}

	return r.Store.InsertEntries(ctx, mirrors)
}
