package posting_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjhardware/inventory-engine/ledger"
	"github.com/sjhardware/inventory-engine/posting"
)

const (
	rentAccount      = "5100"
	utilitiesAccount = "5300"
)

func marchExpense(t *testing.T, svc *posting.Service) *posting.Expense {
	t.Helper()
	expense, err := svc.CreateExpense(context.Background(), posting.ExpenseInput{
		Description: "March shop costs",
		ExpenseDate: date(2026, time.March, 1),
		Items: []posting.ExpenseItemInput{
			{AccountCode: rentAccount, Name: "Shop rent", Amount: money("200")},
			{AccountCode: utilitiesAccount, Name: "Electricity", Amount: money("50")},
		},
	})
	require.NoError(t, err)
	return expense
}

func TestCreateExpense_PostsPaidFromCash(t *testing.T) {
	svc, store := newTestService(t)

	expense := marchExpense(t, svc)

	assert.Equal(t, posting.StatusPaid, expense.Status)
	assert.True(t, expense.TotalAmount.Equal(money("250")))
	assert.Equal(t, "EXP-00001", expense.TransactionCode)
	assert.Equal(t, ledger.AccountCash, expense.AccountCode)

	entries := entriesFor(t, store, expense.TransactionID)
	assertNet(t, entries, rentAccount, "200")
	assertNet(t, entries, utilitiesAccount, "50")
	assertNet(t, entries, ledger.AccountCash, "-250")
}

func TestCreateExpense_CustomPaymentAccount(t *testing.T) {
	svc, store := newTestService(t)

	// Pay from a dedicated bank account instead of the cash drawer.
	bank := &ledger.Account{Code: "1010", Name: "Bank", Class: ledger.ClassAsset, Active: true}
	require.NoError(t, store.CreateAccount(context.Background(), bank))

	expense, err := svc.CreateExpense(context.Background(), posting.ExpenseInput{
		Description: "Insurance premium",
		AccountCode: "1010",
		Items: []posting.ExpenseItemInput{
			{AccountCode: rentAccount, Name: "Premium", Amount: money("80")},
		},
	})
	require.NoError(t, err)

	entries := entriesFor(t, store, expense.TransactionID)
	assertNet(t, entries, "1010", "-80")
	assertNet(t, entries, ledger.AccountCash, "0")
}

func TestCreateExpense_Validation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateExpense(ctx, posting.ExpenseInput{
		Items: []posting.ExpenseItemInput{
			{AccountCode: rentAccount, Name: "Rent", Amount: money("10")},
		},
	})
	assert.ErrorIs(t, err, ledger.ErrValidation, "missing description")

	_, err = svc.CreateExpense(ctx, posting.ExpenseInput{Description: "Empty"})
	assert.ErrorIs(t, err, ledger.ErrValidation, "no items")

	_, err = svc.CreateExpense(ctx, posting.ExpenseInput{
		Description: "Bad line",
		Items: []posting.ExpenseItemInput{
			{AccountCode: rentAccount, Name: "Rent", Amount: money("0")},
		},
	})
	assert.ErrorIs(t, err, ledger.ErrValidation, "zero amount")

	_, err = svc.CreateExpense(ctx, posting.ExpenseInput{
		Description: "Missing account",
		Items: []posting.ExpenseItemInput{
			{Name: "Rent", Amount: money("10")},
		},
	})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	_, err = svc.CreateExpense(ctx, posting.ExpenseInput{
		Description: "Unknown account",
		Items: []posting.ExpenseItemInput{
			{AccountCode: "9999", Name: "Rent", Amount: money("10")},
		},
	})
	assert.ErrorIs(t, err, ledger.ErrUnknownAccount)

	assert.Equal(t, 0, entryCount(t, store))
}

func TestVoidExpense_MirrorsEntries(t *testing.T) {
	svc, store := newTestService(t)
	expense := marchExpense(t, svc)

	voided, err := svc.VoidExpense(context.Background(), expense.ID, "entered twice")
	require.NoError(t, err)
	assert.Equal(t, posting.StatusVoided, voided.Status)

	entries := entriesFor(t, store, expense.TransactionID)
	require.Len(t, entries, 6, "three originals, three mirrors")
	for code, net := range netByAccount(entries) {
		assert.Truef(t, net.IsZero(), "account %s nets to %s after void", code, net)
	}
}

func TestVoidExpense_Twice_Refused(t *testing.T) {
	svc, store := newTestService(t)
	expense := marchExpense(t, svc)
	ctx := context.Background()

	_, err := svc.VoidExpense(ctx, expense.ID, "first")
	require.NoError(t, err)

	before := entryCount(t, store)
	_, err = svc.VoidExpense(ctx, expense.ID, "second")
	assert.ErrorIs(t, err, ledger.ErrAlreadyReversed)
	assert.Equal(t, before, entryCount(t, store))
}
