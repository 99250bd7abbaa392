package ledger_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sjhardware/inventory-engine/ledger"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

// memStore is a minimal in-memory ledger.Store for engine tests.
// The SQLite implementation gets its own coverage in store/sqlite.
type memStore struct {
	accounts  map[string]ledger.Account
	entries   []ledger.Entry
	lastNum   map[string]int64
	nextTxnID int64
	conflicts int // IssueTransaction failures served before succeeding
	issued    int
}

func newMemStore(codes ...string) *memStore {
	s := &memStore{
		accounts: map[string]ledger.Account{},
		lastNum:  map[string]int64{},
	}
	for i, code := range codes {
		s.accounts[code] = ledger.Account{
			ID:     int64(i + 1),
			Code:   code,
			Name:   "Account " + code,
			Active: true,
		}
	}
	return s
}

func (s *memStore) AccountsByCode(_ context.Context, codes []string) (map[string]ledger.Account, error) {
	out := make(map[string]ledger.Account, len(codes))
	for _, code := range codes {
		if a, ok := s.accounts[code]; ok && a.Active {
			out[code] = a
		}
	}
	return out, nil
}

func (s *memStore) InsertEntries(_ context.Context, entries []ledger.Entry) ([]int64, error) {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		e.ID = int64(len(s.entries) + 1)
		e.CreatedAt = time.Now().UTC()
		s.entries = append(s.entries, e)
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func (s *memStore) EntriesByTransaction(_ context.Context, txnID int64) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, e := range s.entries {
		if e.TransactionID == txnID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memStore) HasReversal(_ context.Context, txnID int64) (bool, error) {
	for _, e := range s.entries {
		if e.TransactionID == txnID && e.Kind == ledger.KindReversal {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) IssueTransaction(_ context.Context, prefix string, effectiveAt time.Time) (ledger.IssuedTransaction, error) {
	if s.conflicts > 0 {
		s.conflicts--
		return ledger.IssuedTransaction{}, ledger.ErrConflict
	}
	s.lastNum[prefix]++
	s.nextTxnID++
	s.issued++
	return ledger.IssuedTransaction{
		ID:       s.nextTxnID,
		Prefix:   prefix,
		Number:   s.lastNum[prefix],
		IssuedAt: effectiveAt,
	}, nil
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// netByAccount nets active entries per account code: debits positive,
// credits negative.
func netByAccount(entries []ledger.Entry) map[string]decimal.Decimal {
	net := map[string]decimal.Decimal{}
	for _, e := range entries {
		if e.Status != ledger.StatusActive {
			continue
		}
		cur, ok := net[e.AccountCode]
		if !ok {
			cur = decimal.Zero
		}
		if e.Direction == ledger.Debit {
			net[e.AccountCode] = cur.Add(e.Amount)
		} else {
			net[e.AccountCode] = cur.Sub(e.Amount)
		}
	}
	return net
}
