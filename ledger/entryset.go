/*
entryset.go - Construction-time balance enforcement

PURPOSE:
  Every business event posts a balanced set of debits and credits. Rather
  than trusting each call site to assemble matching entries by hand, entry
  sets are built through this builder, which refuses to produce an
  unbalanced set. The Writer then only ever receives sets that balance.

EXAMPLE:
  set, err := ledger.NewEntrySet().
      Debit(ledger.AccountCash, paid).
      Credit(ledger.AccountSalesRevenue, total).
      Debit(ledger.AccountReceivable, total.Sub(paid)).
      Build()
*/
package ledger

import (
	"github.com/shopspring/decimal"
)

// Line is one prospective entry: an account code, a direction and a
// positive amount. Lines carry codes, not ids; the Writer resolves codes
// in one batch lookup at posting time.
type Line struct {
	AccountCode string
	Direction   Direction
	Amount      decimal.Decimal
}

// EntrySet is a balanced, non-empty set of lines ready for posting.
// The only way to obtain one is through the Builder, so holding an
// EntrySet is proof the debits and credits match.
type EntrySet struct {
	lines []Line
}

// Lines returns the lines in insertion order.
func (s EntrySet) Lines() []Line { return s.lines }

// Total returns the debit total (== credit total).
func (s EntrySet) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		if l.Direction == Debit {
			total = total.Add(l.Amount)
		}
	}
	return total
}

// Builder accumulates lines and validates balance on Build.
type Builder struct {
	lines []Line
}

// NewEntrySet starts an empty builder.
func NewEntrySet() *Builder {
	return &Builder{}
}

// Debit adds a debit line. Zero-amount lines are dropped so call sites
// can add optional legs (a COGS pair with no cost data) unconditionally.
func (b *Builder) Debit(accountCode string, amount decimal.Decimal) *Builder {
	return b.add(accountCode, Debit, amount)
}

// Credit adds a credit line.
func (b *Builder) Credit(accountCode string, amount decimal.Decimal) *Builder {
	return b.add(accountCode, Credit, amount)
}

func (b *Builder) add(code string, dir Direction, amount decimal.Decimal) *Builder {
	if amount.IsZero() {
		return b
	}
	b.lines = append(b.lines, Line{AccountCode: code, Direction: dir, Amount: Round2(amount)})
	return b
}

// Build validates and returns the entry set. It fails with
// ErrUnbalancedEntries if the set is empty or debit and credit totals
// differ, and with InvalidEntryError if any line is negative.
func (b *Builder) Build() (EntrySet, error) {
	if len(b.lines) == 0 {
		return EntrySet{}, ErrUnbalancedEntries
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, l := range b.lines {
		if l.Amount.IsNegative() {
			return EntrySet{}, &InvalidEntryError{
				AccountCode: l.AccountCode,
				Direction:   l.Direction,
				Amount:      l.Amount,
				Reason:      "amount must be positive",
			}
		}
		if l.Direction == Debit {
			debits = debits.Add(l.Amount)
		} else {
			credits = credits.Add(l.Amount)
		}
	}

	if !debits.Equal(credits) {
		return EntrySet{}, ErrUnbalancedEntries
	}
	return EntrySet{lines: b.lines}, nil
}
