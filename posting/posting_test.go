package posting_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sjhardware/inventory-engine/ledger"
	"github.com/sjhardware/inventory-engine/posting"
	"github.com/sjhardware/inventory-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*posting.Service, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.SeedDefaultChart(context.Background())
	require.NoError(t, err)

	return posting.NewService(store), store
}

func createProduct(t *testing.T, store *sqlite.Store, sku string, quantity int64, price string) *posting.Product {
	t.Helper()
	p := &posting.Product{
		SKU:      sku,
		Name:     "Product " + sku,
		Quantity: quantity,
		Price:    money(price),
		Active:   true,
	}
	require.NoError(t, store.CreateProduct(context.Background(), p))
	return p
}

func createSupplier(t *testing.T, store *sqlite.Store, name string) *posting.Supplier {
	t.Helper()
	s := &posting.Supplier{Name: name, Active: true}
	require.NoError(t, store.CreateSupplier(context.Background(), s))
	return s
}

// receiveStock books a purchase order so the product gains quantity and
// a known unit cost.
func receiveStock(t *testing.T, svc *posting.Service, supplierID, productID, quantity int64, unitCost string) *posting.PurchaseOrder {
	t.Helper()
	po, err := svc.CreatePurchaseOrder(context.Background(), posting.PurchaseOrderInput{
		SupplierID:    supplierID,
		InvoiceNumber: "SUP-" + time.Now().Format("150405.000000"),
		PurchaseDate:  date(2026, time.January, 5),
		Items: []posting.PurchaseOrderItemInput{
			{ProductID: productID, Quantity: quantity, UnitCost: money(unitCost)},
		},
	})
	require.NoError(t, err)
	return po
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func productQuantity(t *testing.T, store *sqlite.Store, id int64) int64 {
	t.Helper()
	p, err := store.ProductByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func entriesFor(t *testing.T, store *sqlite.Store, txnID int64) []ledger.Entry {
	t.Helper()
	entries, err := store.EntriesByTransaction(context.Background(), txnID)
	require.NoError(t, err)
	return entries
}

func entryCount(t *testing.T, store *sqlite.Store) int {
	t.Helper()
	entries, err := store.ListEntries(context.Background(), 1000)
	require.NoError(t, err)
	return len(entries)
}

func lastNumber(t *testing.T, store *sqlite.Store, prefix string) int64 {
	t.Helper()
	seqs, err := store.Sequences(context.Background())
	require.NoError(t, err)
	for _, s := range seqs {
		if s.Prefix == prefix {
			return s.LastNumber
		}
	}
	return 0
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

func assertNet(t *testing.T, entries []ledger.Entry, code string, want string) {
	t.Helper()
	net := netByAccount(entries)[code]
	require.Truef(t, net.Equal(money(want)), "account %s: want net %s, got %s", code, want, net)
}
