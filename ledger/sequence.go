/*
sequence.go - Monotonic per-prefix transaction numbering

PURPOSE:
  Issues the transaction ids that group ledger entries. One counter row
  per document prefix (INV, PAY, EXP, PO, SUPP-PAY), incremented through
  an atomic upsert so concurrent callers never observe the same value.

CONTENTION:
  The counter rows are the write-hot spot of the whole system: every
  posting touches one. The issuer retries a bounded number of times with
  a short backoff when the row is locked, then fails with
  ErrSequenceUnavailable so the enclosing unit of work aborts cleanly.
*/
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultMaxRetries = 5
	defaultBackoff    = 10 * time.Millisecond
)

// Issuer allocates transaction numbers.
type Issuer struct {
	Store      Store
	MaxRetries int
	Backoff    time.Duration
}

// NewIssuer creates an Issuer with default retry settings.
func NewIssuer(store Store) *Issuer {
	return &Issuer{Store: store, MaxRetries: defaultMaxRetries, Backoff: defaultBackoff}
}

// Next allocates the next number for a prefix and returns the issued
// transaction id (the value entries are tagged with) plus the formatted
// code, e.g. "INV-00042".
func (i *Issuer) Next(ctx context.Context, prefix string, effectiveAt time.Time) (int64, string, error) {
	if prefix == "" {
		return 0, "", fmt.Errorf("%w: empty sequence prefix", ErrValidation)
	}

	retries := i.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	backoff := i.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		txn, err := i.Store.IssueTransaction(ctx, prefix, effectiveAt)
		if err == nil {
			return txn.ID, txn.Code(), nil
		}
		if !errors.Is(err, ErrConflict) {
			return 0, "", err
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return 0, "", ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return 0, "", fmt.Errorf("%w for prefix %s: %v", ErrSequenceUnavailable, prefix, lastErr)
}
