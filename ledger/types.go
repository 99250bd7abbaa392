/*
Package ledger provides the general-ledger posting core.

PURPOSE:
  This package contains the accounting primitives shared by every document
  type in the system: the chart of accounts, immutable debit/credit entries,
  per-prefix transaction numbering, balanced entry-set construction, batch
  posting, and reversal.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: A row in the chart of accounts, addressed by its short code
  - Entry: One debit or credit movement, tagged with a transaction id
  - Direction: Debit or Credit (every entry has exactly one)
  - Sequence: The per-prefix counter behind transaction numbers

DESIGN PRINCIPLES:
  1. Immutability: Entries are never edited, only reversed
  2. Precision: decimal.Decimal everywhere, two fraction digits
  3. Traceability: Every entry carries the transaction id that produced it

SEE ALSO:
  - writer.go:   Batch posting with account resolution
  - reversal.go: Mirror-image reversal of a posted transaction
  - sequence.go: Monotonic transaction numbering
  - entryset.go: Construction-time balance enforcement
*/
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DIRECTION - Debit or Credit
// =============================================================================

// Direction is the side of the ledger an entry posts to.
type Direction string

const (
	Debit  Direction = "Debit"
	Credit Direction = "Credit"
)

// Opposite returns the mirror direction, used when reversing entries.
func (d Direction) Opposite() Direction {
	if d == Debit {
		return Credit
	}
	return Debit
}

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == Debit || d == Credit
}

// =============================================================================
// ACCOUNTS - Chart of accounts
// =============================================================================

// AccountClass groups accounts for reporting.
type AccountClass string

const (
	ClassAsset     AccountClass = "Asset"
	ClassLiability AccountClass = "Liability"
	ClassEquity    AccountClass = "Equity"
	ClassRevenue   AccountClass = "Revenue"
	ClassExpense   AccountClass = "Expense"
)

// Account is a row in the chart of accounts.
//
// An account that any entry has ever referenced must not be removed;
// it is deactivated instead so historic postings stay resolvable.
type Account struct {
	ID          int64
	Code        string // short numeric string, unique ("1100")
	Name        string
	Class       AccountClass
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// =============================================================================
// ENTRIES - Immutable ledger rows
// =============================================================================

// EntryKind distinguishes an original posting from a reversal of one.
// Both kinds are regular, active entries: the net effect of a reversed
// transaction is computed by summing, never by editing history.
type EntryKind string

const (
	KindPosting  EntryKind = "posting"
	KindReversal EntryKind = "reversal"
)

// EntryStatus is the lifecycle flag on an entry. Entries are written as
// StatusActive and stay that way; StatusVoided exists for data imported
// from systems that soft-deleted rows, and voided entries are excluded
// from every balance computation.
type EntryStatus string

const (
	StatusActive EntryStatus = "active"
	StatusVoided EntryStatus = "voided"
)

// Entry is one debit or credit movement against an account.
// Once written it is never updated or deleted.
type Entry struct {
	ID            int64
	TransactionID int64 // sequence row that grouped this posting
	AccountID     int64
	AccountCode   string // denormalized for audit export
	Direction     Direction
	Amount        decimal.Decimal // always positive
	Description   string
	EffectiveAt   time.Time
	Kind          EntryKind
	Status        EntryStatus
	CreatedAt     time.Time
}

// =============================================================================
// SEQUENCES - Per-prefix transaction numbering
// =============================================================================

// Known document prefixes. Other prefixes are legal; these are the ones
// the posting orchestrators issue.
const (
	PrefixInvoice         = "INV"
	PrefixPayment         = "PAY"
	PrefixExpense         = "EXP"
	PrefixPurchaseOrder   = "PO"
	PrefixSupplierPayment = "SUPP-PAY"
	PrefixAdjustment      = "ADJ"
)

// Sequence is the counter row behind one document prefix.
// It is mutated only by the Issuer, atomically.
type Sequence struct {
	ID         int64
	Prefix     string
	LastNumber int64
	UpdatedAt  time.Time
}

// Code formats the human-readable transaction code for this sequence
// state, e.g. "INV-00042".
func (s Sequence) Code() string {
	return FormatCode(s.Prefix, s.LastNumber)
}

// IssuedTransaction is one allocated transaction number. Its ID is the
// value entries are tagged with; unlike the counter row, a fresh one is
// created per issuance.
type IssuedTransaction struct {
	ID       int64
	Prefix   string
	Number   int64
	IssuedAt time.Time
}

// Code formats the transaction code, e.g. "INV-00042".
func (t IssuedTransaction) Code() string {
	return FormatCode(t.Prefix, t.Number)
}

// FormatCode renders a transaction code from a prefix and counter value.
func FormatCode(prefix string, n int64) string {
	return fmt.Sprintf("%s-%05d", prefix, n)
}

// =============================================================================
// MONEY HELPERS
// =============================================================================

// Round2 normalizes an amount to two fraction digits, the precision of
// every monetary value crossing this package's boundary.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SumEntries nets a set of entries for one account: debits positive,
// credits negative. A fully reversed transaction nets to zero.
func SumEntries(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Status != StatusActive {
			continue
		}
		if e.Direction == Debit {
			total = total.Add(e.Amount)
		} else {
			total = total.Sub(e.Amount)
		}
	}
	return total
}
