/*
store.go - Persistence interface for the posting core

PURPOSE:
  Defines the narrow interface the engines need from the database. The
  SQLite implementation in store/sqlite satisfies it both directly and
  through its transaction-scoped handle, so the same engine code runs
  inside or outside a unit of work.

APPEND-ONLY CONTRACT:
  InsertEntries is the only write on the entries table. There is no
  update or delete; corrections happen through reversal entries.
*/
package ledger

import (
	"context"
	"time"
)

// Store is the persistence surface the ledger engines operate against.
type Store interface {
	// AccountsByCode resolves a batch of account codes to active accounts.
	// Missing or inactive codes are simply absent from the result map;
	// the caller decides whether that is an error.
	AccountsByCode(ctx context.Context, codes []string) (map[string]Account, error)

	// InsertEntries persists a batch of entries and returns their ids.
	// Callers run this inside a unit of work so the batch is atomic.
	InsertEntries(ctx context.Context, entries []Entry) ([]int64, error)

	// EntriesByTransaction returns every entry tagged with the
	// transaction id, oldest first.
	EntriesByTransaction(ctx context.Context, txnID int64) ([]Entry, error)

	// HasReversal reports whether any reversal entries exist for the
	// transaction id.
	HasReversal(ctx context.Context, txnID int64) (bool, error)

	// IssueTransaction atomically bumps (or creates) the counter for a
	// prefix and records one issued transaction carrying the new number.
	// Returns ErrConflict when the counter is locked by a concurrent
	// writer.
	IssueTransaction(ctx context.Context, prefix string, effectiveAt time.Time) (IssuedTransaction, error)
}
