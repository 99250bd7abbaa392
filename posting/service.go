package posting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sjhardware/inventory-engine/ledger"
)

// Service holds the posting orchestrators for every document type.
// All mutating operations run inside a single unit of work.
type Service struct {
	store TxStore
}

// NewService creates a Service over the given store.
func NewService(store TxStore) *Service {
	return &Service{store: store}
}

// engines binds the ledger engines to one transaction-scoped store so
// sequence issuance, posting and reversal share the unit of work.
type engines struct {
	issuer   *ledger.Issuer
	writer   *ledger.Writer
	reverser *ledger.Reverser
}

func newEngines(tx Store) engines {
	return engines{
		issuer:   ledger.NewIssuer(tx),
		writer:   ledger.NewWriter(tx),
		reverser: ledger.NewReverser(tx),
	}
}

// validationErr wraps a human-readable reason in ErrValidation.
func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ledger.ErrValidation, fmt.Sprintf(format, args...))
}

// normalizeDate strips time-of-day: transaction numbering and effective
// dates are calendar dates.
func normalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// requireAccount resolves one account code or fails with
// UnknownAccountError. Used for validating payment accounts up front.
func requireAccount(ctx context.Context, store Store, code string) (ledger.Account, error) {
	accounts, err := store.AccountsByCode(ctx, []string{code})
	if err != nil {
		return ledger.Account{}, err
	}
	account, ok := accounts[code]
	if !ok {
		return ledger.Account{}, &ledger.UnknownAccountError{Code: code}
	}
	return account, nil
}

// positiveMoney validates a 2-dp positive amount.
func positiveMoney(amount decimal.Decimal, field string) error {
	if !amount.IsPositive() {
		return validationErr("%s must be positive, got %s", field, amount.StringFixed(2))
	}
	return nil
}

func trimmed(s string) string { return strings.TrimSpace(s) }
