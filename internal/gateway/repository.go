package gateway

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// Repository persists gateway payment attempts in PostgreSQL.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(payment *models.GatewayPayment) error {
	query := `
		INSERT INTO gateway_payments (id, user_id, account_id, method, amount, phone, description, gateway_reference, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		payment.ID, payment.UserID, payment.AccountID, payment.Method,
		payment.Amount, payment.Phone, payment.Description,
		payment.Reference, payment.Status, payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create gateway payment: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(id string) (*models.GatewayPayment, error) {
	query := `
		SELECT id, user_id, account_id, method, amount, phone, description, gateway_reference, status, created_at
		FROM gateway_payments
		WHERE id = $1`

	payment := &models.GatewayPayment{}
	err := r.db.QueryRow(query, id).Scan(
		&payment.ID, &payment.UserID, &payment.AccountID, &payment.Method,
		&payment.Amount, &payment.Phone, &payment.Description,
		&payment.Reference, &payment.Status, &payment.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.New("payment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway payment: %w", err)
	}
	return payment, nil
}

// Transition conditionally moves a payment between statuses. The WHERE
// on the current status makes settlement a claim: exactly one caller
// wins the pending -> processing move, everyone else sees the row
// untouched and never deposits.
func (r *Repository) Transition(id, from, to string) error {
	query := `
		UPDATE gateway_payments
		SET status = $3
		WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(query, id, from, to)
	if err != nil {
		return fmt.Errorf("failed to update gateway payment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update gateway payment: %w", err)
	}
	if rows == 0 {
		return errors.New("payment already settled")
	}
	return nil
}

func (r *Repository) ListByUserID(userID string) ([]*models.GatewayPayment, error) {
	query := `
		SELECT id, user_id, account_id, method, amount, phone, description, gateway_reference, status, created_at
		FROM gateway_payments
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gateway payments: %w", err)
	}
	defer rows.Close()

	payments := []*models.GatewayPayment{}
	for rows.Next() {
		payment := &models.GatewayPayment{}
		err := rows.Scan(
			&payment.ID, &payment.UserID, &payment.AccountID, &payment.Method,
			&payment.Amount, &payment.Phone, &payment.Description,
			&payment.Reference, &payment.Status, &payment.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gateway payment: %w", err)
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
