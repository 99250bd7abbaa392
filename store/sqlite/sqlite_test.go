package sqlite_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjhardware/inventory-engine/ledger"
	"github.com/sjhardware/inventory-engine/posting"
	"github.com/sjhardware/inventory-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seededStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := newTestStore(t)
	_, err := store.SeedDefaultChart(context.Background())
	require.NoError(t, err)
	return store
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func issueDate() time.Time {
	return time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// TRANSACTION NUMBERING
// =============================================================================

func TestIssueTransaction_MonotonicWithDistinctIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seen := map[int64]bool{}
	for i := int64(1); i <= 3; i++ {
		txn, err := store.IssueTransaction(ctx, ledger.PrefixInvoice, issueDate())
		require.NoError(t, err)
		assert.Equal(t, i, txn.Number)
		assert.Equal(t, ledger.FormatCode("INV", i), txn.Code())
		assert.False(t, seen[txn.ID], "transaction id %d issued twice", txn.ID)
		seen[txn.ID] = true
	}
}

func TestIssueTransaction_PrefixesAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inv, err := store.IssueTransaction(ctx, ledger.PrefixInvoice, issueDate())
	require.NoError(t, err)
	pay, err := store.IssueTransaction(ctx, ledger.PrefixPayment, issueDate())
	require.NoError(t, err)

	assert.EqualValues(t, 1, inv.Number)
	assert.EqualValues(t, 1, pay.Number)
	assert.NotEqual(t, inv.ID, pay.ID)

	seqs, err := store.Sequences(ctx)
	require.NoError(t, err)
	require.Len(t, seqs, 2)
}

func TestIssueTransaction_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const callers = 16
	codes := make(chan string, callers)
	issuer := &ledger.Issuer{Store: store, MaxRetries: 10, Backoff: time.Millisecond}

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, code, err := issuer.Next(ctx, ledger.PrefixInvoice, issueDate())
			assert.NoError(t, err)
			codes <- code
		}()
	}
	wg.Wait()
	close(codes)

	seen := map[string]bool{}
	for code := range codes {
		assert.False(t, seen[code], "code %s issued twice", code)
		seen[code] = true
	}
	assert.Len(t, seen, callers)
	assert.True(t, seen[ledger.FormatCode("INV", callers)], "numbering must be gap-free")
}

func TestIssueTransaction_RolledBackNumberIsNotReused(t *testing.T) {
	// A failed unit of work gives its number back; the next issuance
	// starts over from the counter the rollback restored.
	store := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx posting.Store) error {
		if _, err := tx.IssueTransaction(ctx, ledger.PrefixInvoice, issueDate()); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	txn, err := store.IssueTransaction(ctx, ledger.PrefixInvoice, issueDate())
	require.NoError(t, err)
	assert.EqualValues(t, 1, txn.Number)
}

// =============================================================================
// ENTRIES
// =============================================================================

func TestEntries_RoundTrip(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	accounts, err := store.AccountsByCode(ctx, []string{ledger.AccountCash, ledger.AccountSalesRevenue})
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	txn, err := store.IssueTransaction(ctx, ledger.PrefixInvoice, issueDate())
	require.NoError(t, err)

	ids, err := store.InsertEntries(ctx, []ledger.Entry{
		{
			TransactionID: txn.ID,
			AccountID:     accounts[ledger.AccountCash].ID,
			AccountCode:   ledger.AccountCash,
			Direction:     ledger.Debit,
			Amount:        money("99.95"),
			Description:   "Sale INV-00001",
			EffectiveAt:   issueDate(),
			Kind:          ledger.KindPosting,
			Status:        ledger.StatusActive,
		},
		{
			TransactionID: txn.ID,
			AccountID:     accounts[ledger.AccountSalesRevenue].ID,
			AccountCode:   ledger.AccountSalesRevenue,
			Direction:     ledger.Credit,
			Amount:        money("99.95"),
			Description:   "Sale INV-00001",
			EffectiveAt:   issueDate(),
			Kind:          ledger.KindPosting,
			Status:        ledger.StatusActive,
		},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	entries, err := store.EntriesByTransaction(ctx, txn.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ledger.Debit, entries[0].Direction)
	assert.True(t, entries[0].Amount.Equal(money("99.95")))
	assert.True(t, entries[0].EffectiveAt.Equal(issueDate()))

	byAccount, err := store.EntriesByAccount(ctx, ledger.AccountCash, 10)
	require.NoError(t, err)
	require.Len(t, byAccount, 1)
	assert.Equal(t, ledger.AccountCash, byAccount[0].AccountCode)

	reversed, err := store.HasReversal(ctx, txn.ID)
	require.NoError(t, err)
	assert.False(t, reversed)
}

// =============================================================================
// GUARDED STOCK
// =============================================================================

func TestAdjustProductQuantity_GuardedAtZero(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := &posting.Product{SKU: "SKU-1", Name: "Widget", Quantity: 5, Price: money("10"), Active: true}
	require.NoError(t, store.CreateProduct(ctx, p))

	require.NoError(t, store.AdjustProductQuantity(ctx, p.ID, -3))

	err := store.AdjustProductQuantity(ctx, p.ID, -3)
	require.Error(t, err)

	var short *ledger.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.EqualValues(t, 3, short.Requested)
	assert.EqualValues(t, 2, short.Available)

	reloaded, err := store.ProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, reloaded.Quantity, "a refused delta must not move stock")
}

func TestAdjustProductQuantity_UnknownProduct(t *testing.T) {
	store := newTestStore(t)
	err := store.AdjustProductQuantity(context.Background(), 999, 1)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

// =============================================================================
// LOOKUPS
// =============================================================================

func TestMissingRows_WrapNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.ProductByID(ctx, 42)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = store.SaleByID(ctx, 42)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = store.AccountByCode(ctx, "0000")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = store.SupplierByID(ctx, 42)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestCustomerByID_WalkIn(t *testing.T) {
	store := newTestStore(t)

	c, err := store.CustomerByID(context.Background(), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, c.ID)
	assert.Equal(t, "Walk-in", c.Name)
}

func TestCreateProduct_DuplicateSKU_Conflicts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &posting.Product{SKU: "SKU-1", Name: "Widget", Price: money("10"), Active: true}
	require.NoError(t, store.CreateProduct(ctx, first))

	dup := &posting.Product{SKU: "SKU-1", Name: "Other widget", Price: money("12"), Active: true}
	err := store.CreateProduct(ctx, dup)
	assert.ErrorIs(t, err, ledger.ErrConflict)
}

// =============================================================================
// SEEDING
// =============================================================================

func TestSeedDefaultChart_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.SeedDefaultChart(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(ledger.DefaultChart()), created)

	again, err := store.SeedDefaultChart(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, len(ledger.DefaultChart()))
}

// =============================================================================
// UNIT OF WORK
// =============================================================================

func TestWithTx_RollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := &posting.Product{SKU: "SKU-1", Name: "Widget", Quantity: 5, Price: money("10"), Active: true}
	require.NoError(t, store.CreateProduct(ctx, p))

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx posting.Store) error {
		if err := tx.AdjustProductQuantity(ctx, p.ID, -2); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	reloaded, err := store.ProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, reloaded.Quantity, "rolled-back work must not move stock")
}
