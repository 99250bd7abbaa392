/*
ledger.go - Accounts, sequences and the append-only entries table

PURPOSE:
  Implements ledger.Store plus the account CRUD and audit queries the
  HTTP layer exposes. IssueTransaction is the single write-hot spot:
  an atomic counter upsert followed by one issued-transaction row.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sjhardware/inventory-engine/ledger"
)

// =============================================================================
// ACCOUNTS
// =============================================================================

// AccountsByCode resolves a batch of codes to active accounts. Missing
// or inactive codes are absent from the result map.
func (h *handle) AccountsByCode(ctx context.Context, codes []string) (map[string]ledger.Account, error) {
	result := make(map[string]ledger.Account, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	query := `
		SELECT id, code, name, class, description, active, created_at, updated_at
		FROM accounts
		WHERE active = 1 AND code IN (` + placeholders(len(codes)) + `)
	`
	args := make([]any, len(codes))
	for i, c := range codes {
		args[i] = c
	}

	rows, err := h.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result[account.Code] = account
	}
	return result, rows.Err()
}

// AccountByCode returns one account regardless of active flag.
func (h *handle) AccountByCode(ctx context.Context, code string) (*ledger.Account, error) {
	row := h.q.QueryRowContext(ctx, `
		SELECT id, code, name, class, description, active, created_at, updated_at
		FROM accounts WHERE code = ?
	`, code)

	account, err := scanAccountRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("account", code)
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccounts returns the full chart ordered by code.
func (h *handle) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	rows, err := h.q.QueryContext(ctx, `
		SELECT id, code, name, class, description, active, created_at, updated_at
		FROM accounts ORDER BY code ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// CreateAccount inserts a new account. Duplicate codes fail with
// ErrConflict.
func (h *handle) CreateAccount(ctx context.Context, a *ledger.Account) error {
	ts := now()
	res, err := h.q.ExecContext(ctx, `
		INSERT INTO accounts (code, name, class, description, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.Code, a.Name, string(a.Class), a.Description, a.Active, ts, ts)
	if err != nil {
		return mapWriteErr(err, "failed to insert account")
	}
	a.ID, _ = res.LastInsertId()
	return nil
}

// UpdateAccount rewrites the mutable fields of an account.
func (h *handle) UpdateAccount(ctx context.Context, a *ledger.Account) error {
	res, err := h.q.ExecContext(ctx, `
		UPDATE accounts SET name = ?, description = ?, active = ?, updated_at = ?
		WHERE id = ?
	`, a.Name, a.Description, a.Active, now(), a.ID)
	if err != nil {
		return mapWriteErr(err, "failed to update account")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("account", a.ID)
	}
	return nil
}

// SeedDefaultChart installs the default chart of accounts, skipping
// codes that already exist. Safe to run repeatedly.
func (h *handle) SeedDefaultChart(ctx context.Context) (int, error) {
	created := 0
	ts := now()
	for _, a := range ledger.DefaultChart() {
		res, err := h.q.ExecContext(ctx, `
			INSERT INTO accounts (code, name, class, description, active, created_at, updated_at)
			VALUES (?, ?, ?, ?, 1, ?, ?)
			ON CONFLICT(code) DO NOTHING
		`, a.Code, a.Name, string(a.Class), a.Description, ts, ts)
		if err != nil {
			return created, mapWriteErr(err, "failed to seed account")
		}
		if n, _ := res.RowsAffected(); n > 0 {
			created++
		}
	}
	return created, nil
}

// =============================================================================
// TRANSACTION NUMBERING
// =============================================================================

// IssueTransaction bumps (or creates) the per-prefix counter and records
// the issued transaction. Busy/locked errors surface as ErrConflict so
// the issuer retries.
func (h *handle) IssueTransaction(ctx context.Context, prefix string, effectiveAt time.Time) (ledger.IssuedTransaction, error) {
	var txn ledger.IssuedTransaction

	var number int64
	err := h.q.QueryRowContext(ctx, `
		INSERT INTO transaction_sequences (prefix, last_number, updated_at)
		VALUES (?, 1, ?)
		ON CONFLICT(prefix) DO UPDATE
			SET last_number = last_number + 1, updated_at = excluded.updated_at
		RETURNING last_number
	`, prefix, now()).Scan(&number)
	if err != nil {
		return txn, mapWriteErr(err, "failed to increment sequence")
	}

	issuedAt := formatTime(effectiveAt)
	res, err := h.q.ExecContext(ctx, `
		INSERT INTO ledger_transactions (prefix, number, code, issued_at)
		VALUES (?, ?, ?, ?)
	`, prefix, number, ledger.FormatCode(prefix, number), issuedAt)
	if err != nil {
		return txn, mapWriteErr(err, "failed to record transaction")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return txn, fmt.Errorf("failed to read transaction id: %w", err)
	}

	txn = ledger.IssuedTransaction{
		ID:       id,
		Prefix:   prefix,
		Number:   number,
		IssuedAt: effectiveAt,
	}
	return txn, nil
}

// Sequences returns every counter row, for inspection endpoints.
func (h *handle) Sequences(ctx context.Context) ([]ledger.Sequence, error) {
	rows, err := h.q.QueryContext(ctx, `
		SELECT id, prefix, last_number, updated_at
		FROM transaction_sequences ORDER BY prefix ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sequences: %w", err)
	}
	defer rows.Close()

	var seqs []ledger.Sequence
	for rows.Next() {
		var (
			seq       ledger.Sequence
			updatedAt string
		)
		if err := rows.Scan(&seq.ID, &seq.Prefix, &seq.LastNumber, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sequence: %w", err)
		}
		var fp fieldParser
		seq.UpdatedAt = fp.time(updatedAt)
		if fp.err != nil {
			return nil, fmt.Errorf("failed to decode sequence row: %w", fp.err)
		}
		seqs = append(seqs, seq)
	}
	return seqs, rows.Err()
}

// =============================================================================
// ENTRIES (append-only)
// =============================================================================

// InsertEntries persists a batch of entries and returns their ids in
// batch order.
func (h *handle) InsertEntries(ctx context.Context, entries []ledger.Entry) ([]int64, error) {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		res, err := h.q.ExecContext(ctx, `
			INSERT INTO ledger_entries
			(transaction_id, account_id, account_code, direction, amount,
			 description, effective_at, kind, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			e.TransactionID,
			e.AccountID,
			e.AccountCode,
			string(e.Direction),
			e.Amount.String(),
			e.Description,
			formatTime(e.EffectiveAt),
			string(e.Kind),
			string(e.Status),
			now(),
		)
		if err != nil {
			return nil, mapWriteErr(err, "failed to insert entry")
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read entry id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// EntriesByTransaction returns every entry tagged with the transaction
// id, oldest first.
func (h *handle) EntriesByTransaction(ctx context.Context, txnID int64) ([]ledger.Entry, error) {
	return h.queryEntries(ctx, `
		SELECT id, transaction_id, account_id, account_code, direction, amount,
		       description, effective_at, kind, status, created_at
		FROM ledger_entries
		WHERE transaction_id = ?
		ORDER BY id ASC
	`, txnID)
}

// EntriesByAccount returns the most recent entries against an account
// code, newest first.
func (h *handle) EntriesByAccount(ctx context.Context, code string, limit int) ([]ledger.Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	return h.queryEntries(ctx, `
		SELECT id, transaction_id, account_id, account_code, direction, amount,
		       description, effective_at, kind, status, created_at
		FROM ledger_entries
		WHERE account_code = ?
		ORDER BY id DESC
		LIMIT ?
	`, code, limit)
}

// ListEntries returns the most recent entries across all accounts,
// newest first.
func (h *handle) ListEntries(ctx context.Context, limit int) ([]ledger.Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	return h.queryEntries(ctx, `
		SELECT id, transaction_id, account_id, account_code, direction, amount,
		       description, effective_at, kind, status, created_at
		FROM ledger_entries
		ORDER BY id DESC
		LIMIT ?
	`, limit)
}

// HasReversal reports whether reversal entries exist for a transaction.
func (h *handle) HasReversal(ctx context.Context, txnID int64) (bool, error) {
	var count int
	err := h.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ledger_entries
		WHERE transaction_id = ? AND kind = ?
	`, txnID, string(ledger.KindReversal)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check reversal: %w", err)
	}
	return count > 0, nil
}

func (h *handle) queryEntries(ctx context.Context, query string, args ...any) ([]ledger.Entry, error) {
	rows, err := h.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		var (
			e           ledger.Entry
			direction   string
			amount      string
			effectiveAt string
			kind        string
			status      string
			createdAt   string
		)
		err := rows.Scan(
			&e.ID, &e.TransactionID, &e.AccountID, &e.AccountCode,
			&direction, &amount, &e.Description, &effectiveAt,
			&kind, &status, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		var fp fieldParser
		e.Direction = ledger.Direction(direction)
		e.Amount = fp.decimal(amount)
		e.EffectiveAt = fp.time(effectiveAt)
		e.Kind = ledger.EntryKind(kind)
		e.Status = ledger.EntryStatus(status)
		e.CreatedAt = fp.time(createdAt)
		if fp.err != nil {
			return nil, fmt.Errorf("failed to decode entry row: %w", fp.err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccountFields(sc rowScanner) (ledger.Account, error) {
	var (
		a         ledger.Account
		class     string
		createdAt string
		updatedAt string
	)
	err := sc.Scan(&a.ID, &a.Code, &a.Name, &class, &a.Description,
		&a.Active, &createdAt, &updatedAt)
	if err != nil {
		return a, err
	}
	var fp fieldParser
	a.Class = ledger.AccountClass(class)
	a.CreatedAt = fp.time(createdAt)
	a.UpdatedAt = fp.time(updatedAt)
	if fp.err != nil {
		return a, fmt.Errorf("failed to decode account row: %w", fp.err)
	}
	return a, nil
}

func scanAccount(rows *sql.Rows) (ledger.Account, error) {
	a, err := scanAccountFields(rows)
	if err != nil {
		return a, fmt.Errorf("failed to scan account: %w", err)
	}
	return a, nil
}

func scanAccountRow(row *sql.Row) (ledger.Account, error) {
	return scanAccountFields(row)
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	s := "?"
	for i := 1; i < n; i++ {
		s += ", ?"
	}
	return s
}
