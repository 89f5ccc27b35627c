package trading

import (
	"database/sql"
	"fmt"

	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	"github.com/revkonstriksyon/fluid-finance-api/internal/utils"
	"github.com/shopspring/decimal"
)

// Repository persists holdings in PostgreSQL. Quantities and average
// costs are NUMERIC columns; all arithmetic happens in SQL so concurrent
// buys and sells of the same position cannot lose updates.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ApplyBuy upserts a position: a first buy inserts, a repeat buy folds the
// new shares into a volume-weighted average cost atomically.
func (r *Repository) ApplyBuy(userID, symbol string, quantity, price decimal.Decimal) error {
	query := `
		INSERT INTO holdings (id, user_id, symbol, quantity, avg_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, symbol) DO UPDATE
		SET avg_cost = ((holdings.avg_cost * holdings.quantity) + (EXCLUDED.avg_cost * EXCLUDED.quantity))
		               / (holdings.quantity + EXCLUDED.quantity),
		    quantity = holdings.quantity + EXCLUDED.quantity,
		    updated_at = NOW()
	`
	_, err := r.db.Exec(query, utils.GenerateID("hld"), userID, symbol, quantity.String(), price.String())
	if err != nil {
		return fmt.Errorf("failed to apply buy: %w", err)
	}
	return nil
}

// ApplySell decrements a position, guarded so it cannot go short.
func (r *Repository) ApplySell(userID, symbol string, quantity decimal.Decimal) error {
	query := `
		UPDATE holdings
		SET quantity = quantity - $3, updated_at = NOW()
		WHERE user_id = $1 AND symbol = $2 AND quantity >= $3
	`
	result, err := r.db.Exec(query, userID, symbol, quantity.String())
	if err != nil {
		return fmt.Errorf("failed to apply sell: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("insufficient shares")
	}
	return nil
}

// ListByUserID returns the user's open positions.
func (r *Repository) ListByUserID(userID string) ([]models.Holding, error) {
	query := `
		SELECT id, user_id, symbol, quantity, avg_cost, updated_at
		FROM holdings
		WHERE user_id = $1 AND quantity > 0
		ORDER BY symbol ASC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.ID, &h.UserID, &h.Symbol, &h.Quantity, &h.AvgCost, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}
