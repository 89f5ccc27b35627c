package bill

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// Repository persists bills in PostgreSQL. paid_at transitions
// null -> non-null at most once; the conditional UPDATE enforces that.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(bill *models.Bill) error {
	query := `
		INSERT INTO bills (id, user_id, type, bill_number, amount, provider, paid_at, ledger_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULL, NULL, $7)
	`
	_, err := r.db.Exec(query,
		bill.ID, bill.UserID, bill.Type, bill.BillNumber,
		bill.Amount, bill.Provider, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// MarkPaid sets paid_at exactly once. A bill already marked paid is left
// untouched and reported, so concurrent payers cannot double-mark.
func (r *Repository) MarkPaid(billID, ledgerRef string) error {
	query := `
		UPDATE bills SET paid_at = NOW(), ledger_ref = $2
		WHERE id = $1 AND paid_at IS NULL
	`
	result, err := r.db.Exec(query, billID, ledgerRef)
	if err != nil {
		return fmt.Errorf("failed to mark bill paid: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bill already paid or not found")
	}
	return nil
}

// ListByUserID returns all bills for a user, newest first.
func (r *Repository) ListByUserID(userID string) ([]models.Bill, error) {
	query := `
		SELECT id, user_id, type, bill_number, amount, provider, paid_at, ledger_ref, created_at
		FROM bills
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var b models.Bill
		var paidAt sql.NullTime
		var ledgerRef sql.NullString
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Type, &b.BillNumber,
			&b.Amount, &b.Provider, &paidAt, &ledgerRef, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		if paidAt.Valid {
			t := paidAt.Time
			b.PaidAt = &t
		}
		if ledgerRef.Valid {
			b.LedgerRef = ledgerRef.String
		}
		bills = append(bills, b)
	}
	return bills, nil
}

// ReconcileStragglers repairs bills whose ledger debit committed but whose
// paid_at write was lost (crash between the two steps). The matching
// payment entry carries the bill ID as its reference.
func (r *Repository) ReconcileStragglers() (int64, error) {
	query := `
		UPDATE bills b
		SET paid_at = t.created_at, ledger_ref = t.id
		FROM transactions t
		WHERE b.paid_at IS NULL
		  AND t.reference_id = b.id
		  AND t.transaction_type = 'payment'
	`
	result, err := r.db.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile bills: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows > 0 {
		log.Printf("Reconciled %d bill(s) with committed ledger entries", rows)
	}
	return rows, nil
}
