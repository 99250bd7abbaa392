/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts arrive as JSON numbers or quoted strings and are decoded into
  decimal.Decimal directly; responses render them as fixed two-decimal
  strings so clients never see float artifacts.

DATES:
  Document dates travel as "YYYY-MM-DD". Timestamps are RFC3339.

SEE ALSO:
  - handlers.go: Uses these types
  - posting/types.go: The domain model these map from
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sjhardware/inventory-engine/ledger"
	"github.com/sjhardware/inventory-engine/posting"
)

const dateLayout = "2006-01-02"

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// ACCOUNTS AND LEDGER
// =============================================================================

// AccountDTO represents a chart-of-accounts row.
type AccountDTO struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Class       string `json:"class"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// CreateAccountRequest creates a new account.
type CreateAccountRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Class       string `json:"class"`
	Description string `json:"description"`
}

// UpdateAccountRequest updates an existing account.
type UpdateAccountRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

// EntryDTO represents one ledger entry in audit output.
type EntryDTO struct {
	ID            int64  `json:"id"`
	TransactionID int64  `json:"transaction_id"`
	AccountCode   string `json:"account_code"`
	Direction     string `json:"direction"`
	Amount        string `json:"amount"`
	Description   string `json:"description,omitempty"`
	EffectiveAt   string `json:"effective_at"`
	Kind          string `json:"kind"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

// SequenceDTO exposes one transaction-number counter.
type SequenceDTO struct {
	Prefix     string `json:"prefix"`
	LastNumber int64  `json:"last_number"`
	LastCode   string `json:"last_code"`
}

// =============================================================================
// MASTER DATA
// =============================================================================

// ProductDTO represents an inventory item.
type ProductDTO struct {
	ID         int64  `json:"id"`
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id,omitempty"`
	Quantity   int64  `json:"quantity"`
	Price      string `json:"price"`
	Active     bool   `json:"active"`
}

// CreateProductRequest creates a product.
type CreateProductRequest struct {
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	CategoryID int64           `json:"category_id"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

// UpdateProductRequest updates a product. Quantity is absent on
// purpose; stock moves through sales, purchases and adjustments.
type UpdateProductRequest struct {
	SKU        string           `json:"sku"`
	Name       string           `json:"name"`
	CategoryID int64            `json:"category_id"`
	Price      *decimal.Decimal `json:"price"`
	Active     *bool            `json:"active"`
}

// CategoryDTO represents a product category.
type CategoryDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// CategoryRequest creates or updates a category.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CustomerDTO represents a customer.
type CustomerDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Active  bool   `json:"active"`
}

// CustomerRequest creates or updates a customer.
type CustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// SupplierDTO represents a supplier.
type SupplierDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
	Active  bool   `json:"active"`
}

// SupplierRequest creates or updates a supplier.
type SupplierRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// SaleItemDTO is one sold line.
type SaleItemDTO struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
	Active      bool   `json:"active"`
}

// SaleDTO represents an invoice.
type SaleDTO struct {
	ID              int64         `json:"id"`
	Number          string        `json:"number"`
	CustomerID      int64         `json:"customer_id,omitempty"`
	TotalAmount     string        `json:"total_amount"`
	TotalPaid       string        `json:"total_paid"`
	Balance         string        `json:"balance"`
	Status          string        `json:"status"`
	SaleDate        string        `json:"sale_date"`
	TransactionCode string        `json:"transaction_code"`
	Items           []SaleItemDTO `json:"items,omitempty"`
}

// SaleItemRequest is one requested sale line.
type SaleItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest creates a sale, optionally with an up-front payment.
type CreateSaleRequest struct {
	Number         string            `json:"number"`
	CustomerID     int64             `json:"customer_id"`
	SaleDate       string            `json:"sale_date"`
	Items          []SaleItemRequest `json:"items"`
	AmountPaid     decimal.Decimal   `json:"amount_paid"`
	PaymentMethod  string            `json:"payment_method"`
	PaymentAccount string            `json:"payment_account"`
}

// PaymentDTO represents money applied to a sale.
type PaymentDTO struct {
	ID              int64  `json:"id"`
	SaleID          int64  `json:"sale_id"`
	Amount          string `json:"amount"`
	Method          string `json:"method"`
	Reference       string `json:"reference,omitempty"`
	AccountCode     string `json:"account_code"`
	PaidAt          string `json:"paid_at"`
	TransactionCode string `json:"transaction_code"`
	Active          bool   `json:"active"`
}

// CreatePaymentRequest records a payment against a sale.
type CreatePaymentRequest struct {
	SaleID      int64           `json:"sale_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Reference   string          `json:"reference"`
	AccountCode string          `json:"account_code"`
	PaidAt      string          `json:"paid_at"`
}

// PurchaseOrderItemDTO is one received line.
type PurchaseOrderItemDTO struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitCost  string `json:"unit_cost"`
	TotalCost string `json:"total_cost"`
	Active    bool   `json:"active"`
}

// PurchaseOrderDTO represents a supplier invoice.
type PurchaseOrderDTO struct {
	ID              int64                  `json:"id"`
	SupplierID      int64                  `json:"supplier_id"`
	InvoiceNumber   string                 `json:"invoice_number"`
	Memo            string                 `json:"memo,omitempty"`
	PurchaseDate    string                 `json:"purchase_date"`
	TotalAmount     string                 `json:"total_amount"`
	TotalPaid       string                 `json:"total_paid"`
	Balance         string                 `json:"balance"`
	Status          string                 `json:"status"`
	TransactionCode string                 `json:"transaction_code"`
	Items           []PurchaseOrderItemDTO `json:"items,omitempty"`
}

// PurchaseOrderItemRequest is one requested purchase line.
type PurchaseOrderItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest creates a purchase order.
type CreatePurchaseOrderRequest struct {
	SupplierID    int64                      `json:"supplier_id"`
	InvoiceNumber string                     `json:"invoice_number"`
	Memo          string                     `json:"memo"`
	PurchaseDate  string                     `json:"purchase_date"`
	Items         []PurchaseOrderItemRequest `json:"items"`
}

// SupplierPaymentDTO represents money paid out against an order.
type SupplierPaymentDTO struct {
	ID              int64  `json:"id"`
	PurchaseOrderID int64  `json:"purchase_order_id"`
	Amount          string `json:"amount"`
	Method          string `json:"method"`
	Reference       string `json:"reference,omitempty"`
	AccountCode     string `json:"account_code"`
	PaidAt          string `json:"paid_at"`
	TransactionCode string `json:"transaction_code"`
	Active          bool   `json:"active"`
}

// PaySupplierRequest pays down a purchase order.
type PaySupplierRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Reference   string          `json:"reference"`
	AccountCode string          `json:"account_code"`
	PaidAt      string          `json:"paid_at"`
}

// ExpenseItemDTO is one expensed line.
type ExpenseItemDTO struct {
	ID          int64  `json:"id"`
	AccountCode string `json:"account_code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
	Active      bool   `json:"active"`
}

// ExpenseDTO represents an operating expense.
type ExpenseDTO struct {
	ID              int64            `json:"id"`
	Description     string           `json:"description"`
	ExpenseDate     string           `json:"expense_date"`
	AccountCode     string           `json:"account_code"`
	Reference       string           `json:"reference,omitempty"`
	TotalAmount     string           `json:"total_amount"`
	Status          string           `json:"status"`
	TransactionCode string           `json:"transaction_code"`
	Items           []ExpenseItemDTO `json:"items,omitempty"`
}

// ExpenseItemRequest is one requested expense line.
type ExpenseItemRequest struct {
	AccountCode string          `json:"account_code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// CreateExpenseRequest creates an expense.
type CreateExpenseRequest struct {
	Description string               `json:"description"`
	ExpenseDate string               `json:"expense_date"`
	AccountCode string               `json:"account_code"`
	Reference   string               `json:"reference"`
	Items       []ExpenseItemRequest `json:"items"`
}

// StockAdjustmentDTO represents a manual quantity correction.
type StockAdjustmentDTO struct {
	ID              int64  `json:"id"`
	ProductID       int64  `json:"product_id"`
	Delta           int64  `json:"delta"`
	Reason          string `json:"reason"`
	AdjustedAt      string `json:"adjusted_at"`
	TransactionCode string `json:"transaction_code,omitempty"`
}

// CreateStockAdjustmentRequest adjusts product stock.
type CreateStockAdjustmentRequest struct {
	ProductID  int64  `json:"product_id"`
	Delta      int64  `json:"delta"`
	Reason     string `json:"reason"`
	AdjustedAt string `json:"adjusted_at"`
}

// VoidRequest carries the reason recorded on reversal entries.
type VoidRequest struct {
	Reason string `json:"reason"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func dateString(t time.Time) string {
	return t.Format(dateLayout)
}

// parseDate accepts "YYYY-MM-DD"; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

func toAccountDTO(a ledger.Account) AccountDTO {
	return AccountDTO{
		ID:          a.ID,
		Code:        a.Code,
		Name:        a.Name,
		Class:       string(a.Class),
		Description: a.Description,
		Active:      a.Active,
	}
}

func toEntryDTO(e ledger.Entry) EntryDTO {
	return EntryDTO{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		AccountCode:   e.AccountCode,
		Direction:     string(e.Direction),
		Amount:        money(e.Amount),
		Description:   e.Description,
		EffectiveAt:   e.EffectiveAt.Format(time.RFC3339),
		Kind:          string(e.Kind),
		Status:        string(e.Status),
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

func toProductDTO(p posting.Product) ProductDTO {
	return ProductDTO{
		ID:         p.ID,
		SKU:        p.SKU,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		Quantity:   p.Quantity,
		Price:      money(p.Price),
		Active:     p.Active,
	}
}

func toCategoryDTO(c posting.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, Description: c.Description, Active: c.Active}
}

func toCustomerDTO(c posting.Customer) CustomerDTO {
	return CustomerDTO{
		ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email,
		Address: c.Address, Active: c.Active,
	}
}

func toSupplierDTO(s posting.Supplier) SupplierDTO {
	return SupplierDTO{ID: s.ID, Name: s.Name, Contact: s.Contact, Email: s.Email, Active: s.Active}
}

func toSaleDTO(s *posting.Sale) SaleDTO {
	dto := SaleDTO{
		ID:              s.ID,
		Number:          s.Number,
		CustomerID:      s.CustomerID,
		TotalAmount:     money(s.TotalAmount),
		TotalPaid:       money(s.TotalPaid),
		Balance:         money(s.Balance),
		Status:          string(s.Status),
		SaleDate:        dateString(s.SaleDate),
		TransactionCode: s.TransactionCode,
	}
	for _, item := range s.Items {
		dto.Items = append(dto.Items, SaleItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   money(item.UnitPrice),
			TotalPrice:  money(item.TotalPrice),
			Active:      item.Active,
		})
	}
	return dto
}

func toPaymentDTO(p *posting.Payment) PaymentDTO {
	return PaymentDTO{
		ID:              p.ID,
		SaleID:          p.SaleID,
		Amount:          money(p.Amount),
		Method:          p.Method,
		Reference:       p.Reference,
		AccountCode:     p.AccountCode,
		PaidAt:          dateString(p.PaidAt),
		TransactionCode: p.TransactionCode,
		Active:          p.Active,
	}
}

func toPurchaseOrderDTO(po *posting.PurchaseOrder) PurchaseOrderDTO {
	dto := PurchaseOrderDTO{
		ID:              po.ID,
		SupplierID:      po.SupplierID,
		InvoiceNumber:   po.InvoiceNumber,
		Memo:            po.Memo,
		PurchaseDate:    dateString(po.PurchaseDate),
		TotalAmount:     money(po.TotalAmount),
		TotalPaid:       money(po.TotalPaid),
		Balance:         money(po.Balance),
		Status:          string(po.Status),
		TransactionCode: po.TransactionCode,
	}
	for _, item := range po.Items {
		dto.Items = append(dto.Items, PurchaseOrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  money(item.UnitCost),
			TotalCost: money(item.TotalCost),
			Active:    item.Active,
		})
	}
	return dto
}

func toSupplierPaymentDTO(p *posting.SupplierPayment) SupplierPaymentDTO {
	return SupplierPaymentDTO{
		ID:              p.ID,
		PurchaseOrderID: p.PurchaseOrderID,
		Amount:          money(p.Amount),
		Method:          p.Method,
		Reference:       p.Reference,
		AccountCode:     p.AccountCode,
		PaidAt:          dateString(p.PaidAt),
		TransactionCode: p.TransactionCode,
		Active:          p.Active,
	}
}

func toExpenseDTO(e *posting.Expense) ExpenseDTO {
	dto := ExpenseDTO{
		ID:              e.ID,
		Description:     e.Description,
		ExpenseDate:     dateString(e.ExpenseDate),
		AccountCode:     e.AccountCode,
		Reference:       e.Reference,
		TotalAmount:     money(e.TotalAmount),
		Status:          string(e.Status),
		TransactionCode: e.TransactionCode,
	}
	for _, item := range e.Items {
		dto.Items = append(dto.Items, ExpenseItemDTO{
			ID:          item.ID,
			AccountCode: item.AccountCode,
			Name:        item.Name,
			Description: item.Description,
			Amount:      money(item.Amount),
			Active:      item.Active,
		})
	}
	return dto
}

func toStockAdjustmentDTO(a *posting.StockAdjustment) StockAdjustmentDTO {
	return StockAdjustmentDTO{
		ID:              a.ID,
		ProductID:       a.ProductID,
		Delta:           a.Delta,
		Reason:          a.Reason,
		AdjustedAt:      dateString(a.AdjustedAt),
		TransactionCode: a.TransactionCode,
	}
}
