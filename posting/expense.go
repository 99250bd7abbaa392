/*
expense.go - Expense posting and voiding

PURPOSE:
  An expense posts one debit per line item against the expense account
  of the line, and a single balancing credit against the payment
  account. Expenses settle on creation, so they land in Paid directly.

VOID:
  Voiding mirrors the original posting and parks the document in
  Voided. It is idempotent only in its refusal: a second void fails
  with ErrAlreadyReversed.
*/
package posting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sjhardware/inventory-engine/ledger"
)

// ExpenseItemInput is one expense line.
type ExpenseItemInput struct {
	AccountCode string
	Name        string
	Description string
	Amount      decimal.Decimal
}

// ExpenseInput is an expense creation request.
type ExpenseInput struct {
	Description string
	ExpenseDate time.Time
	AccountCode string // payment account, defaults to cash
	Reference   string
	Items       []ExpenseItemInput
}

// CreateExpense posts an expense and persists it as one unit of work.
func (s *Service) CreateExpense(ctx context.Context, in ExpenseInput) (*Expense, error) {
	if trimmed(in.Description) == "" {
		return nil, validationErr("description is required")
	}
	if len(in.Items) == 0 {
		return nil, validationErr("at least one item is required")
	}
	for i, item := range in.Items {
		if trimmed(item.AccountCode) == "" {
			return nil, validationErr("item %d: account code is required", i)
		}
		if trimmed(item.Name) == "" {
			return nil, validationErr("item %d: name is required", i)
		}
		if !item.Amount.IsPositive() {
			return nil, validationErr("item %d: amount must be positive", i)
		}
	}
	paymentAccount := trimmed(in.AccountCode)
	if paymentAccount == "" {
		paymentAccount = ledger.AccountCash
	}
	expenseDate := normalizeDate(in.ExpenseDate)

	var expense *Expense
	err := s.store.WithTx(ctx, func(tx Store) error {
		eng := newEngines(tx)

		if _, err := requireAccount(ctx, tx, paymentAccount); err != nil {
			return err
		}

		txnID, code, err := eng.issuer.Next(ctx, ledger.PrefixExpense, expenseDate)
		if err != nil {
			return err
		}

		builder := ledger.NewEntrySet()
		items := make([]ExpenseItem, 0, len(in.Items))
		total := decimal.Zero
		for _, item := range in.Items {
			amount := ledger.Round2(item.Amount)
			builder.Debit(trimmed(item.AccountCode), amount)
			items = append(items, ExpenseItem{
				AccountCode: trimmed(item.AccountCode),
				Name:        trimmed(item.Name),
				Description: trimmed(item.Description),
				Amount:      amount,
				Active:      true,
			})
			total = total.Add(amount)
		}
		set, err := builder.Credit(paymentAccount, total).Build()
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("Expense: %s", trimmed(in.Description))
		if _, err := eng.writer.Post(ctx, set, txnID, desc, expenseDate); err != nil {
			return err
		}

		expense = &Expense{
			Description:     trimmed(in.Description),
			ExpenseDate:     expenseDate,
			AccountCode:     paymentAccount,
			Reference:       trimmed(in.Reference),
			Status:          StatusPaid,
			TransactionID:   txnID,
			TransactionCode: code,
			Items:           items,
		}
		ExpenseTotal(expense)
		return tx.InsertExpense(ctx, expense)
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// VoidExpense reverses the expense posting and parks it in Voided.
func (s *Service) VoidExpense(ctx context.Context, expenseID int64, reason string) (*Expense, error) {
	var expense *Expense
	err := s.store.WithTx(ctx, func(tx Store) error {
		eng := newEngines(tx)

		var err error
		expense, err = tx.ExpenseByID(ctx, expenseID)
		if err != nil {
			return err
		}
		if expense.Status == StatusVoided {
			return fmt.Errorf("%w: expense %d", ledger.ErrAlreadyReversed, expenseID)
		}

		if _, err := eng.reverser.Reverse(ctx, expense.TransactionID, reason, normalizeDate(time.Time{})); err != nil {
			return err
		}

		expense.Status = StatusVoided
		return tx.UpdateExpense(ctx, expense)
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}
