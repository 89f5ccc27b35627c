package account

import (
	"database/sql"
	"fmt"

	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// WriteRepository handles all state-mutating operations for bank accounts.
// It operates exclusively against the PostgreSQL write store (source of truth).
// Balances are never written here: every balance change goes through the
// ledger in internal/transaction, which updates both atomically.
type WriteRepository struct {
	db *sql.DB
}

func NewWriteRepository(db *sql.DB) *WriteRepository {
	return &WriteRepository{db: db}
}

func (r *WriteRepository) Create(account *models.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (id, user_id, account_name, account_number, account_type,
			balance, currency, is_primary, is_frozen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(query,
		account.ID, account.UserID, account.AccountName, account.AccountNumber,
		account.AccountType, account.Balance, account.Currency,
		account.IsPrimary, account.IsFrozen, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID fetches the full write model including UserID for ownership checks.
func (r *WriteRepository) GetByID(accountID string) (*models.BankAccount, error) {
	query := `
		SELECT id, user_id, account_name, account_number, account_type,
		       balance, currency, is_primary, is_frozen, created_at, updated_at
		FROM bank_accounts
		WHERE id = $1 AND deleted_at IS NULL
	`
	var account models.BankAccount
	err := r.db.QueryRow(query, accountID).Scan(
		&account.ID, &account.UserID, &account.AccountName, &account.AccountNumber,
		&account.AccountType, &account.Balance, &account.Currency,
		&account.IsPrimary, &account.IsFrozen, &account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *WriteRepository) Update(account *models.BankAccount) error {
	query := `
		UPDATE bank_accounts
		SET account_name = $2, account_type = $3, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.Exec(query, account.ID, account.AccountName, account.AccountType, account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account not found")
	}
	return nil
}

// SetPrimary marks one account primary and clears the flag on the user's
// other accounts, in a single transaction so exactly one primary survives.
func (r *WriteRepository) SetPrimary(accountID, userID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE bank_accounts SET is_primary = FALSE, updated_at = NOW()
		 WHERE user_id = $1 AND is_primary = TRUE AND deleted_at IS NULL`, userID,
	); err != nil {
		return fmt.Errorf("failed to clear primary flag: %w", err)
	}

	result, err := tx.Exec(
		`UPDATE bank_accounts SET is_primary = TRUE, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, accountID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set primary flag: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account not found")
	}

	return tx.Commit()
}

// Delete soft-deletes an account. Refused while the balance is non-zero so
// no money can disappear with the account.
func (r *WriteRepository) Delete(accountID string) error {
	query := `
		UPDATE bank_accounts SET deleted_at = NOW()
		WHERE id = $1 AND balance = 0 AND deleted_at IS NULL
	`
	result, err := r.db.Exec(query, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish a live account with money from a missing one.
		var balance float64
		err := r.db.QueryRow(
			`SELECT balance FROM bank_accounts WHERE id = $1 AND deleted_at IS NULL`, accountID,
		).Scan(&balance)
		if err == nil {
			return fmt.Errorf("account balance must be zero")
		}
		return fmt.Errorf("account not found")
	}
	return nil
}

func (r *WriteRepository) SetFrozen(accountID string, frozen bool) error {
	result, err := r.db.Exec(
		`UPDATE bank_accounts SET is_frozen = $2, updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL`, accountID, frozen,
	)
	if err != nil {
		return fmt.Errorf("failed to update frozen flag: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account not found")
	}
	return nil
}

func (r *WriteRepository) CountByUserID(userID string) (int, error) {
	query := `SELECT COUNT(*) FROM bank_accounts WHERE user_id = $1 AND deleted_at IS NULL`
	var count int
	err := r.db.QueryRow(query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}
