package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjhardware/inventory-engine/ledger"
)

func postSale(t *testing.T, store *memStore, txnID int64) {
	t.Helper()
	writer := ledger.NewWriter(store)
	set, err := ledger.NewEntrySet().
		Debit(ledger.AccountCash, money("40")).
		Debit(ledger.AccountReceivable, money("60")).
		Credit(ledger.AccountSalesRevenue, money("100")).
		Build()
	require.NoError(t, err)
	_, err = writer.Post(context.Background(), set, txnID, "Sale INV-00001", postDate())
	require.NoError(t, err)
}

func TestReverser_NetsTransactionToZero(t *testing.T) {
	store := newMemStore(ledger.AccountCash, ledger.AccountReceivable, ledger.AccountSalesRevenue)
	postSale(t, store, 1)

	reverser := ledger.NewReverser(store)
	ids, err := reverser.Reverse(context.Background(), 1, "voided", postDate().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, ids, 3, "one mirror per original entry")

	entries, err := store.EntriesByTransaction(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 6)

	for code, net := range netByAccount(entries) {
		assert.True(t, net.IsZero(), "account %s nets to %s", code, net)
	}

	// Originals are untouched; mirrors carry the reversal kind.
	var postings, reversals int
	for _, e := range entries {
		switch e.Kind {
		case ledger.KindPosting:
			postings++
		case ledger.KindReversal:
			reversals++
			assert.Contains(t, e.Description, "voided")
		}
		assert.Equal(t, ledger.StatusActive, e.Status)
	}
	assert.Equal(t, 3, postings)
	assert.Equal(t, 3, reversals)
}

func TestReverser_SecondReversal_Refused(t *testing.T) {
	store := newMemStore(ledger.AccountCash, ledger.AccountReceivable, ledger.AccountSalesRevenue)
	postSale(t, store, 1)

	reverser := ledger.NewReverser(store)
	ctx := context.Background()

	_, err := reverser.Reverse(ctx, 1, "voided", postDate())
	require.NoError(t, err)

	_, err = reverser.Reverse(ctx, 1, "voided again", postDate())
	assert.ErrorIs(t, err, ledger.ErrAlreadyReversed)

	entries, err := store.EntriesByTransaction(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 6, "the refused attempt must not add entries")
}

func TestReverser_UnknownTransaction(t *testing.T) {
	store := newMemStore()
	reverser := ledger.NewReverser(store)

	_, err := reverser.Reverse(context.Background(), 999, "nothing there", postDate())
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestSumEntries_SkipsVoided(t *testing.T) {
	entries := []ledger.Entry{
		{Direction: ledger.Debit, Amount: money("100"), Status: ledger.StatusActive},
		{Direction: ledger.Credit, Amount: money("30"), Status: ledger.StatusActive},
		{Direction: ledger.Debit, Amount: money("999"), Status: ledger.StatusVoided},
	}
	assert.True(t, ledger.SumEntries(entries).Equal(money("70")))
}

func TestDirection_Opposite(t *testing.T) {
	assert.Equal(t, ledger.Credit, ledger.Debit.Opposite())
	assert.Equal(t, ledger.Debit, ledger.Credit.Opposite())
	assert.False(t, ledger.Direction("Sideways").Valid())
}
