package admin

import (
	"database/sql"
	"fmt"
	"time"
)

// AccountRow is the admin projection of a bank account. Unlike the
// customer-facing view it exposes the owning user.
type AccountRow struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	AccountName   string    `json:"accountName"`
	AccountNumber string    `json:"accountNumber"`
	AccountType   string    `json:"accountType"`
	Balance       float64   `json:"balance"`
	Currency      string    `json:"currency"`
	IsFrozen      bool      `json:"isFrozen"`
	CreatedAt     time.Time `json:"createdTimestamp"`
}

// Totals aggregates system-wide counters for the admin dashboard.
type Totals struct {
	Users        int     `json:"users"`
	Accounts     int     `json:"accounts"`
	Transactions int     `json:"transactions"`
	TotalBalance float64 `json:"totalBalance"`
}

// Repository runs the cross-user queries reserved for the admin
// console.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListAccounts() ([]AccountRow, error) {
	query := `
		SELECT id, user_id, account_name, account_number, account_type, balance, currency, is_frozen, created_at
		FROM bank_accounts
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []AccountRow{}
	for rows.Next() {
		var a AccountRow
		err := rows.Scan(&a.ID, &a.UserID, &a.AccountName, &a.AccountNumber,
			&a.AccountType, &a.Balance, &a.Currency, &a.IsFrozen, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *Repository) SystemTotals() (*Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM profiles WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM bank_accounts),
			(SELECT COUNT(*) FROM transactions),
			(SELECT COALESCE(SUM(balance), 0) FROM bank_accounts)`

	totals := &Totals{}
	err := r.db.QueryRow(query).Scan(&totals.Users, &totals.Accounts, &totals.Transactions, &totals.TotalBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to compute system totals: %w", err)
	}
	return totals, nil
}
