/*
chart.go - Default chart of accounts

PURPOSE:
  The well-known account codes the posting orchestrators target, plus the
  seed chart installed by `server seed` (or the /api/accounts/seed
  endpoint). Codes follow the usual small-business numbering: 1xxx assets,
  2xxx liabilities, 3xxx equity, 4xxx revenue, 5xxx expenses.
*/
package ledger

// Well-known account codes used by the posting orchestrators.
const (
	AccountCash         = "1000"
	AccountReceivable   = "1100"
	AccountInventory    = "1200"
	AccountPayable      = "2000"
	AccountSalesRevenue = "4000"
	AccountCOGS         = "5000"
)

// DefaultChart returns the seed chart of accounts. Seeding skips codes
// that already exist, so it is safe to run repeatedly.
func DefaultChart() []Account {
	return []Account{
		// Assets
		{Code: "1000", Name: "Cash", Class: ClassAsset, Description: "Cash on hand", Active: true},
		{Code: "1100", Name: "Accounts Receivable", Class: ClassAsset, Description: "Money owed by customers", Active: true},
		{Code: "1200", Name: "Inventory", Class: ClassAsset, Description: "Products available for sale", Active: true},
		{Code: "1300", Name: "Prepaid Expenses", Class: ClassAsset, Description: "Expenses paid in advance", Active: true},

		// Liabilities
		{Code: "2000", Name: "Accounts Payable", Class: ClassLiability, Description: "Money owed to suppliers", Active: true},
		{Code: "2100", Name: "Accrued Liabilities", Class: ClassLiability, Description: "Expenses incurred but not paid", Active: true},

		// Equity
		{Code: "3000", Name: "Owner's Equity", Class: ClassEquity, Description: "Owner's capital account", Active: true},
		{Code: "3100", Name: "Retained Earnings", Class: ClassEquity, Description: "Accumulated profits", Active: true},

		// Revenue
		{Code: "4000", Name: "Sales Revenue", Class: ClassRevenue, Description: "Revenue from sales", Active: true},
		{Code: "4100", Name: "Service Revenue", Class: ClassRevenue, Description: "Revenue from services", Active: true},

		// Expenses
		{Code: "5000", Name: "Cost of Goods Sold", Class: ClassExpense, Description: "Direct costs of goods sold", Active: true},
		{Code: "5100", Name: "Rent Expense", Class: ClassExpense, Description: "Rent costs", Active: true},
		{Code: "5200", Name: "Salaries Expense", Class: ClassExpense, Description: "Salaries and wages", Active: true},
		{Code: "5300", Name: "Utilities Expense", Class: ClassExpense, Description: "Electricity, water, etc.", Active: true},
	}
}
