package transaction

import (
	"database/sql"
	"fmt"

	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// LedgerRepository is the single write path for every balance-affecting
// operation. A ledger row and its balance update always commit together:
// the balance change is a conditional SQL update (balance >= amount for
// debits), never a value computed in Go from an earlier read.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

const insertEntry = `
	INSERT INTO transactions (id, user_id, account_id, transaction_type, amount,
		currency, description, status, reference_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// Apply commits one ledger entry and its balance change atomically.
// Returns the post-commit balance. Fails with "insufficient funds" when a
// debit would take the balance below zero, "account frozen" when the
// account is frozen, "account not found" otherwise.
func (r *LedgerRepository) Apply(entry *models.Transaction) (float64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	newBalance, err := adjustBalance(tx, entry.AccountID, entry.Type, entry.Amount)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(insertEntry,
		entry.ID, entry.UserID, entry.AccountID, entry.Type, entry.Amount,
		entry.Currency, nullString(entry.Description), entry.Status,
		nullString(entry.ReferenceID), entry.CreatedAt,
	); err != nil {
		return 0, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ledger entry: %w", err)
	}
	return newBalance, nil
}

// Transfer commits a two-leg move atomically: a conditional debit of the
// sender, a credit of the receiver, and exactly one transfer_sent plus one
// transfer_received ledger row sharing the same reference.
func (r *LedgerRepository) Transfer(sent, received *models.Transaction) (fromBalance, toBalance float64, err error) {
	if sent.ReferenceID == "" || sent.ReferenceID != received.ReferenceID {
		return 0, 0, fmt.Errorf("transfer legs must share a reference")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	fromBalance, err = adjustBalance(tx, sent.AccountID, sent.Type, sent.Amount)
	if err != nil {
		return 0, 0, err
	}
	toBalance, err = adjustBalance(tx, received.AccountID, received.Type, received.Amount)
	if err != nil {
		return 0, 0, err
	}

	for _, entry := range []*models.Transaction{sent, received} {
		if _, err := tx.Exec(insertEntry,
			entry.ID, entry.UserID, entry.AccountID, entry.Type, entry.Amount,
			entry.Currency, nullString(entry.Description), entry.Status,
			nullString(entry.ReferenceID), entry.CreatedAt,
		); err != nil {
			return 0, 0, fmt.Errorf("failed to create ledger entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transfer: %w", err)
	}
	return fromBalance, toBalance, nil
}

// adjustBalance applies the signed balance change inside tx. Debits are
// guarded by balance >= amount in the WHERE clause so the invariant
// balance >= 0 holds no matter how many writers race.
func adjustBalance(tx *sql.Tx, accountID, entryType string, amount float64) (float64, error) {
	var query string
	if IsDebit(entryType) {
		query = `
			UPDATE bank_accounts
			SET balance = balance - $2, updated_at = NOW()
			WHERE id = $1 AND balance >= $2 AND is_frozen = FALSE AND deleted_at IS NULL
			RETURNING balance
		`
	} else {
		query = `
			UPDATE bank_accounts
			SET balance = balance + $2, updated_at = NOW()
			WHERE id = $1 AND is_frozen = FALSE AND deleted_at IS NULL
			RETURNING balance
		`
	}

	var newBalance float64
	err := tx.QueryRow(query, accountID, amount).Scan(&newBalance)
	if err == sql.ErrNoRows {
		return 0, balanceUpdateFailure(tx, accountID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}
	return newBalance, nil
}

// balanceUpdateFailure decides why a conditional balance update matched no
// row, so callers get a precise error instead of a generic one.
func balanceUpdateFailure(tx *sql.Tx, accountID string) error {
	var frozen bool
	err := tx.QueryRow(
		`SELECT is_frozen FROM bank_accounts WHERE id = $1 AND deleted_at IS NULL`, accountID,
	).Scan(&frozen)
	if err == sql.ErrNoRows {
		return fmt.Errorf("account not found")
	}
	if err != nil {
		return fmt.Errorf("failed to inspect account: %w", err)
	}
	if frozen {
		return fmt.Errorf("account frozen")
	}
	return fmt.Errorf("insufficient funds")
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
