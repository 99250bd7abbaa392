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

// =============================================================================
// SALE CREATION
// =============================================================================

func TestCreateSale_OnCredit(t *testing.T) {
	// GIVEN: 10 units in stock, nothing paid at the counter
	// WHEN: Selling 2 units at 50
	// THEN: Revenue is booked against receivables and the sale is Pending

	svc, store := newTestService(t)
	product := createProduct(t, store, "SKU-1", 10, "50")

	sale, err := svc.CreateSale(context.Background(), posting.SaleInput{
		Number:   "S-001",
		SaleDate: date(2026, time.February, 1),
		Items: []posting.SaleItemInput{
			{ProductID: product.ID, Quantity: 2, UnitPrice: money("50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, posting.StatusPending, sale.Status)
	assert.True(t, sale.TotalAmount.Equal(money("100")))
	assert.True(t, sale.TotalPaid.IsZero())
	assert.True(t, sale.Balance.Equal(money("100")))
	assert.Equal(t, "INV-00001", sale.TransactionCode)
	assert.EqualValues(t, 8, productQuantity(t, store, product.ID))

	entries := entriesFor(t, store, sale.TransactionID)
	assertNet(t, entries, ledger.AccountReceivable, "100")
	assertNet(t, entries, ledger.AccountSalesRevenue, "-100")
	assertNet(t, entries, ledger.AccountCash, "0")
}

func TestCreateSale_PartialPayment(t *testing.T) {
	svc, store := newTestService(t)
	product := createProduct(t, store, "SKU-1", 10, "50")

	sale, err := svc.CreateSale(context.Background(), posting.SaleInput{
		Number:     "S-002",
		SaleDate:   date(2026, time.February, 1),
		AmountPaid: money("40"),
		Items: []posting.SaleItemInput{
			{ProductID: product.ID, Quantity: 2, UnitPrice: money("50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, posting.StatusPartial, sale.Status)
	assert.True(t, sale.TotalPaid.Equal(money("40")))
	assert.True(t, sale.Balance.Equal(money("60")))

	entries := entriesFor(t, store, sale.TransactionID)
	assertNet(t, entries, ledger.AccountCash, "40")
	assertNet(t, entries, ledger.AccountReceivable, "60")
	assertNet(t, entries, ledger.AccountSalesRevenue, "-100")
}

func TestCreateSale_FullyPaid(t *testing.T) {
	svc, store := newTestService(t)
	product := createProduct(t, store, "SKU-1", 10, "50")

	sale, err := svc.CreateSale(context.Background(), posting.SaleInput{
		Number:     "S-003",
		SaleDate:   date(2026, time.February, 1),
		AmountPaid: money("100"),
		Items: []posting.SaleItemInput{
			{ProductID: product.ID, Quantity: 2, UnitPrice: money("50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, posting.StatusPaid, sale.Status)
	assert.True(t, sale.Balance.IsZero())

	entries := entriesFor(t, store, sale.TransactionID)
	assertNet(t, entries, ledger.AccountCash, "100")
	assertNet(t, entries, ledger.AccountReceivable, "0")

	// The creation-time payment shares the sale's transaction.
	payments, err := store.PaymentsBySale(context.Background(), sale.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, sale.TransactionID, payments[0].TransactionID)
}

func TestCreateSale_BooksCostOfGoods(t *testing.T) {
	// GIVEN: Stock received at a unit cost of 30
	// WHEN: Selling 2 units
	// THEN: 60 moves from inventory to cost of goods sold

	svc, store := newTestService(t)
	product := createProduct(t, store, "SKU-1", 0, "50")
	supplier := createSupplier(t, store, "Acme Wholesale")
	receiveStock(t, svc, supplier.ID, product.ID, 10, "30")

	sale, err := svc.CreateSale(context.Background(), posting.SaleInput{
		Number:     "S-004",
		SaleDate:   date(2026, time.February, 1),
		AmountPaid: money("100"),
		Items: []posting.SaleItemInput{
			{ProductID: product.ID, Quantity: 2, UnitPrice: money("50")},
		},
	})
	require.NoError(t, err)

	entries := entriesFor(t, store, sale.TransactionID)
	assertNet(t, entries, ledger.AccountCOGS, "60")
	assertNet(t, entries, ledger.AccountInventory, "-60")
}

func TestCreateSale_InsufficientStock_RollsBackEverything(t *testing.T) {
	// GIVEN: A two-line sale where the second line oversells
	// WHEN: Posting it
	// THEN: Nothing sticks, including the first line's stock decrement
	//       and the transaction number

	svc, store := newTestService(t)
	first := createProduct(t, store, "SKU-1", 10, "50")
	second := createProduct(t, store, "SKU-2", 1, "20")

	_, err := svc.CreateSale(context.Background(), posting.SaleInput{
		Number:   "S-005",
		SaleDate: date(2026, time.February, 1),
		Items: []posting.SaleItemInput{
			{ProductID: first.ID, Quantity: 3, UnitPrice: money("50")},
			{ProductID: second.ID, Quantity: 5, UnitPrice: money("20")},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	var short *ledger.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, second.ID, short.ProductID)
	assert.EqualValues(t, 5, short.Requested)
	assert.EqualValues(t, 1, short.Available)

	assert.EqualValues(t, 10, productQuantity(t, store, first.ID))
	assert.EqualValues(t, 1, productQuantity(t, store, second.ID))
	assert.Equal(t, 0, entryCount(t, store))
	assert.EqualValues(t, 0, lastNumber(t, store, ledger.PrefixInvoice))

	sales, err := store.ListSales(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestCreateSale_UnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateSale(context.Background(), posting.SaleInput{
		Number:   "S-006",
		SaleDate: date(2026, time.February, 1),
		Items: []posting.SaleItemInput{
			{ProductID: 999, Quantity: 1, UnitPrice: money("50")},
		},
	})
	assert.True(t, ledger.IsNotFound(err), "got %v", err)
}

func TestCreateSale_Validation(t *testing.T) {
	svc, store := newTestService(t)
	product := createProduct(t, store, "SKU-1", 10, "50")

	cases := []struct {
		name  string
		input posting.SaleInput
	}{
		{"missing number", posting.SaleInput{
			Items: []posting.SaleItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: money("50")}},
		}},
		{"no items", posting.SaleInput{Number: "S-007"}},
		{"zero quantity", posting.SaleInput{
			Number: "S-008",
			Items:  []posting.SaleItemInput{{ProductID: product.ID, Quantity: 0, UnitPrice: money("50")}},
		}},
		{"negative price", posting.SaleInput{
			Number: "S-009",
			Items:  []posting.SaleItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: money("-1")}},
		}},
		{"negative amount paid", posting.SaleInput{
			Number:     "S-010",
			AmountPaid: money("-5"),
			Items:      []posting.SaleItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: money("50")}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSale(context.Background(), tc.input)
			assert.ErrorIs(t, err, ledger.ErrValidation)
		})
	}

	assert.EqualValues(t, 10, productQuantity(t, store, product.ID))
	assert.Equal(t, 0, entryCount(t, store))
}

// =============================================================================
// VOIDING
// =============================================================================

func TestVoidSale_RestoresStockAndReversesLedger(t *testing.T) {
	svc, store := newTestService(t)
	product := createProduct(t, store, "SKU-1", 0, "50")
	supplier := createSupplier(t, store, "Acme Wholesale")
	receiveStock(t, svc, supplier.ID, product.ID, 10, "30")

	sale, err := svc.CreateSale(context.Background(), posting.SaleInput{
		Number:     "S-011",
		SaleDate:   date(2026, time.February, 1),
		AmountPaid: money("100"),
		Items: []posting.SaleItemInput{
			{ProductID: product.ID, Quantity: 2, UnitPrice: money("50")},
		},
	})
	require.NoError(t, err)
	require.EqualValues(t, 8, productQuantity(t, store, product.ID))

	voided, err := svc.VoidSale(context.Background(), sale.ID, "customer returned goods")
	require.NoError(t, err)

	assert.Equal(t, posting.StatusVoided, voided.Status)
	assert.EqualValues(t, 10, productQuantity(t, store, product.ID))

	entries := entriesFor(t, store, sale.TransactionID)
	for code, net := range netByAccount(entries) {
		assert.Truef(t, net.IsZero(), "account %s nets to %s after void", code, net)
	}

	payments, err := store.PaymentsBySale(context.Background(), sale.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.False(t, payments[0].Active)
}

func TestVoidSale_ReversesLaterPayments(t *testing.T) {
	svc, store := newTestService(t)
	product := createProduct(t, store, "SKU-1", 10, "50")

	sale, err := svc.CreateSale(context.Background(), posting.SaleInput{
		Number:   "S-012",
		SaleDate: date(2026, time.February, 1),
		Items: []posting.SaleItemInput{
			{ProductID: product.ID, Quantity: 2, UnitPrice: money("50")},
		},
	})
	require.NoError(t, err)

	payment, _, err := svc.RecordPayment(context.Background(), posting.PaymentInput{
		SaleID:      sale.ID,
		Amount:      money("40"),
		AccountCode: ledger.AccountCash,
	})
	require.NoError(t, err)

	_, err = svc.VoidSale(context.Background(), sale.ID, "mistake")
	require.NoError(t, err)

	// The standalone payment's own transaction nets to zero too.
	entries := entriesFor(t, store, payment.TransactionID)
	for code, net := range netByAccount(entries) {
		assert.Truef(t, net.IsZero(), "account %s nets to %s after void", code, net)
	}
}

func TestVoidSale_Twice_Refused(t *testing.T) {
	svc, store := newTestService(t)
	product := createProduct(t, store, "SKU-1", 10, "50")

	sale, err := svc.CreateSale(context.Background(), posting.SaleInput{
		Number:   "S-013",
		SaleDate: date(2026, time.February, 1),
		Items: []posting.SaleItemInput{
			{ProductID: product.ID, Quantity: 1, UnitPrice: money("50")},
		},
	})
	require.NoError(t, err)

	_, err = svc.VoidSale(context.Background(), sale.ID, "first")
	require.NoError(t, err)

	_, err = svc.VoidSale(context.Background(), sale.ID, "second")
	assert.ErrorIs(t, err, ledger.ErrAlreadyReversed)
	assert.EqualValues(t, 10, productQuantity(t, store, product.ID), "stock must not be restored twice")
}
