package card

import (
	"database/sql"
	"fmt"

	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// Repository persists virtual cards in PostgreSQL. Card balance changes
// are atomic SQL increments/decrements, never values computed from an
// earlier read, so concurrent top-ups and purchases cannot lose updates.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(card *models.VirtualCard) error {
	query := `
		INSERT INTO virtual_cards (id, user_id, card_number, expiration, cvv, balance, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		card.ID, card.UserID, card.CardNumber, card.Expiration,
		card.CVV, card.Balance, card.IsActive, card.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(cardID string) (*models.VirtualCard, error) {
	query := `
		SELECT id, user_id, card_number, expiration, cvv, balance, is_active, created_at
		FROM virtual_cards
		WHERE id = $1
	`
	var card models.VirtualCard
	err := r.db.QueryRow(query, cardID).Scan(
		&card.ID, &card.UserID, &card.CardNumber, &card.Expiration,
		&card.CVV, &card.Balance, &card.IsActive, &card.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("card not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

func (r *Repository) ListByUserID(userID string) ([]models.VirtualCard, error) {
	query := `
		SELECT id, user_id, card_number, expiration, cvv, balance, is_active, created_at
		FROM virtual_cards
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []models.VirtualCard
	for rows.Next() {
		var card models.VirtualCard
		if err := rows.Scan(
			&card.ID, &card.UserID, &card.CardNumber, &card.Expiration,
			&card.CVV, &card.Balance, &card.IsActive, &card.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Credit atomically increases the card balance. Returns the new balance.
func (r *Repository) Credit(cardID string, amount float64) (float64, error) {
	query := `
		UPDATE virtual_cards SET balance = balance + $2
		WHERE id = $1 AND is_active = TRUE
		RETURNING balance
	`
	var newBalance float64
	err := r.db.QueryRow(query, cardID, amount).Scan(&newBalance)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("card not found or inactive")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to credit card: %w", err)
	}
	return newBalance, nil
}

// Debit atomically decreases the card balance, guarded so the balance
// cannot go below zero regardless of concurrent debits.
func (r *Repository) Debit(cardID string, amount float64) (float64, error) {
	query := `
		UPDATE virtual_cards SET balance = balance - $2
		WHERE id = $1 AND is_active = TRUE AND balance >= $2
		RETURNING balance
	`
	var newBalance float64
	err := r.db.QueryRow(query, cardID, amount).Scan(&newBalance)
	if err == sql.ErrNoRows {
		return 0, r.debitFailure(cardID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to debit card: %w", err)
	}
	return newBalance, nil
}

func (r *Repository) debitFailure(cardID string) error {
	var active bool
	err := r.db.QueryRow(`SELECT is_active FROM virtual_cards WHERE id = $1`, cardID).Scan(&active)
	if err == sql.ErrNoRows {
		return fmt.Errorf("card not found")
	}
	if err != nil {
		return fmt.Errorf("failed to inspect card: %w", err)
	}
	if !active {
		return fmt.Errorf("card inactive")
	}
	return fmt.Errorf("insufficient funds")
}

// Deactivate soft-disables a card. Idempotent.
func (r *Repository) Deactivate(cardID string) error {
	result, err := r.db.Exec(`UPDATE virtual_cards SET is_active = FALSE WHERE id = $1`, cardID)
	if err != nil {
		return fmt.Errorf("failed to deactivate card: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("card not found")
	}
	return nil
}
