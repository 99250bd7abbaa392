/*
writer.go - Batch posting of balanced entry sets

PURPOSE:
  Persists a set of ledger entries as one tagged batch. Account codes are
  resolved to internal ids in a single lookup, then every entry is written
  with the same transaction id, description and effective date.

ATOMICITY:
  The Writer itself issues one InsertEntries call. Callers run Post inside
  their unit of work, so a failure anywhere in the enclosing operation
  leaves no entries behind.

BALANCE:
  The Writer does not re-check debit==credit; the EntrySet type can only
  be constructed balanced (see entryset.go).
*/
package ledger

import (
	"context"
	"time"
)

// Writer posts entry sets to the ledger.
type Writer struct {
	Store Store
}

// NewWriter creates a Writer over the given store.
func NewWriter(store Store) *Writer {
	return &Writer{Store: store}
}

// Post writes every line of the set as an active posting entry tagged
// with txnID. Returns the new entry ids in line order.
//
// Fails with UnknownAccountError if any code does not resolve to an
// active account, and with InvalidEntryError for non-positive amounts.
// No entries are written on failure.
func (w *Writer) Post(ctx context.Context, set EntrySet, txnID int64, description string, effectiveAt time.Time) ([]int64, error) {
	return w.post(ctx, set.Lines(), txnID, description, effectiveAt, KindPosting)
}

func (w *Writer) post(ctx context.Context, lines []Line, txnID int64, description string, effectiveAt time.Time, kind EntryKind) ([]int64, error) {
	if len(lines) == 0 {
		return nil, ErrUnbalancedEntries
	}

	// Resolve all codes once.
	codes := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if !seen[l.AccountCode] {
			seen[l.AccountCode] = true
			codes = append(codes, l.AccountCode)
		}
	}
	accounts, err := w.Store.AccountsByCode(ctx, codes)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(lines))
	for _, l := range lines {
		account, ok := accounts[l.AccountCode]
		if !ok {
			return nil, &UnknownAccountError{Code: l.AccountCode}
		}
		if !l.Amount.IsPositive() {
			return nil, &InvalidEntryError{
				AccountCode: l.AccountCode,
				Direction:   l.Direction,
				Amount:      l.Amount,
				Reason:      "amount must be positive",
			}
		}
		if !l.Direction.Valid() {
			return nil, &InvalidEntryError{
				AccountCode: l.AccountCode,
				Direction:   l.Direction,
				Amount:      l.Amount,
				Reason:      "unknown direction",
			}
		}

		entries = append(entries, Entry{
			TransactionID: txnID,
			AccountID:     account.ID,
			AccountCode:   account.Code,
			Direction:     l.Direction,
			Amount:        Round2(l.Amount),
			Description:   description,
			EffectiveAt:   effectiveAt,
			Kind:          kind,
			Status:        StatusActive,
		})
	}

	return w.Store.InsertEntries(ctx, entries)
}
