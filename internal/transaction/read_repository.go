package transaction

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	sharedredis "github.com/revkonstriksyon/fluid-finance-api/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const transactionViewKeyPrefix = "transaction:view:"

// ReadRepository handles all read operations for ledger entries.
// It uses Redis as the primary read store, falling back to PostgreSQL on a miss.
type ReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.TransactionView]
}

func NewReadRepository(db *sql.DB, redisClient *goredis.Client) *ReadRepository {
	return &ReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.TransactionView](redisClient, 0),
	}
}

// GetByID returns a TransactionView by attempting Redis first, then PostgreSQL.
func (r *ReadRepository) GetByID(ctx context.Context, id, accountID string) (*models.TransactionView, error) {
	cacheKey := fmt.Sprintf("%s%s:%s", transactionViewKeyPrefix, accountID, id)
	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	query := `
		SELECT id, user_id, account_id, transaction_type, amount, currency,
		       description, status, reference_id, created_at
		FROM transactions
		WHERE id = $1 AND account_id = $2
	`
	var view models.TransactionView
	var description, reference sql.NullString

	pgErr := r.db.QueryRow(query, id, accountID).Scan(
		&view.ID, &view.UserID, &view.AccountID, &view.Type,
		&view.Amount, &view.Currency, &description, &view.Status,
		&reference, &view.CreatedAt,
	)
	if pgErr == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction not found")
	}
	if pgErr != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", pgErr)
	}
	if description.Valid {
		view.Description = description.String
	}
	if reference.Valid {
		view.ReferenceID = reference.String
	}

	// Warm the cache
	r.CacheTransactionView(ctx, &view)
	return &view, nil
}

// ListByAccountID returns all TransactionViews for an account from
// PostgreSQL, newest first.
func (r *ReadRepository) ListByAccountID(ctx context.Context, accountID string) ([]models.TransactionView, error) {
	query := `
		SELECT id, user_id, account_id, transaction_type, amount, currency,
		       description, status, reference_id, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var views []models.TransactionView
	for rows.Next() {
		var view models.TransactionView
		var description, reference sql.NullString
		if err := rows.Scan(
			&view.ID, &view.UserID, &view.AccountID, &view.Type,
			&view.Amount, &view.Currency, &description, &view.Status,
			&reference, &view.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if description.Valid {
			view.Description = description.String
		}
		if reference.Valid {
			view.ReferenceID = reference.String
		}
		views = append(views, view)
	}
	return views, nil
}

// CacheTransactionView stores the Redis read model for a ledger entry.
// Entries are immutable, so cached views never need invalidation.
func (r *ReadRepository) CacheTransactionView(ctx context.Context, view *models.TransactionView) {
	cacheKey := fmt.Sprintf("%s%s:%s", transactionViewKeyPrefix, view.AccountID, view.ID)
	r.cache.Set(ctx, cacheKey, view)
}
