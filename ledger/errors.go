/*
errors.go - Centralized error types for the posting core

PURPOSE:
  All error types in one place for consistency and discoverability.
  The posting orchestrators and the HTTP layer classify failures with
  errors.Is against these sentinels.

ERROR CATEGORIES:
  1. Validation errors - malformed input, rejected before any mutation
  2. Resolution errors - unknown account/document/payment references
  3. Concurrency errors - retryable, never partially applied
  4. Lifecycle errors  - duplicate reversal, posting against a voided doc

USAGE:
  if errors.Is(err, ledger.ErrInsufficientStock) { ... }

  var unknownErr *ledger.UnknownAccountError
  if errors.As(err, &unknownErr) { log(unknownErr.Code) }
*/
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for malformed or missing input: empty line
	// items, non-positive quantities or amounts, bad dates.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced account, document, product
	// or payment does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownAccount is returned when an account code does not resolve
	// to an active account.
	ErrUnknownAccount = errors.New("unknown account code")

	// ErrInvalidEntry is returned when an entry carries a non-positive
	// amount or an unknown direction.
	ErrInvalidEntry = errors.New("invalid ledger entry")

	// ErrUnbalancedEntries is returned by the entry-set builder when debit
	// and credit totals differ, or the set is empty.
	ErrUnbalancedEntries = errors.New("entry set does not balance")

	// ErrInsufficientStock is returned when a sale would drive a product's
	// quantity below zero. Nothing is mutated.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrSequenceUnavailable is returned when the sequence counter cannot
	// be incremented within the bounded retry budget. The enclosing unit
	// of work must abort.
	ErrSequenceUnavailable = errors.New("transaction sequence unavailable")

	// ErrConflict is returned when a concurrent writer holds a lock the
	// operation needs. Safe to retry; never partially applied.
	ErrConflict = errors.New("concurrent modification detected")

	// ErrAlreadyReversed is returned on a duplicate reversal attempt.
	// This signals a logic error in the caller, not a transient failure.
	ErrAlreadyReversed = errors.New("transaction already reversed")

	// ErrDocumentVoided is returned when an operation targets a document
	// in the terminal Voided state.
	ErrDocumentVoided = errors.New("document is voided")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownAccountError identifies which code failed to resolve in a batch
// lookup.
type UnknownAccountError struct {
	Code string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("account with code %s not found or inactive", e.Code)
}

func (e *UnknownAccountError) Unwrap() error { return ErrUnknownAccount }

// InvalidEntryError describes a single rejected entry within a batch.
type InvalidEntryError struct {
	AccountCode string
	Direction   Direction
	Amount      decimal.Decimal
	Reason      string
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid entry (%s %s %s): %s",
		e.Direction, e.Amount.StringFixed(2), e.AccountCode, e.Reason)
}

func (e *InvalidEntryError) Unwrap() error { return ErrInvalidEntry }

// InsufficientStockError reports how short a product is for a requested
// quantity.
type InsufficientStockError struct {
	ProductID int64
	Product   string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.Product, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrSequenceUnavailable)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidEntry) ||
		errors.Is(err, ErrUnbalancedEntries) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrAlreadyReversed) ||
		errors.Is(err, ErrDocumentVoided)
}

// IsNotFound returns true if the error indicates a missing reference.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnknownAccount)
}
