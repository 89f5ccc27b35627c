package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	sharedredis "github.com/revkonstriksyon/fluid-finance-api/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const accountViewKeyPrefix = "account:view:"

// accountCacheEntry is the internal Redis representation of a bank account.
// Unlike models.AccountView, it serialises UserID so downstream services
// (transactions, bills, cards) can perform ownership checks from the cache.
type accountCacheEntry struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	AccountName   string    `json:"accountName"`
	AccountNumber string    `json:"accountNumber"`
	AccountType   string    `json:"accountType"`
	Balance       float64   `json:"balance"`
	Currency      string    `json:"currency"`
	IsPrimary     bool      `json:"isPrimary"`
	IsFrozen      bool      `json:"isFrozen"`
	CreatedAt     time.Time `json:"createdTimestamp"`
	UpdatedAt     time.Time `json:"updatedTimestamp"`
}

// ReadRepository handles all read operations for bank accounts.
// It treats Redis as the primary read store (the read model) and falls
// back to PostgreSQL transparently, warming the cache on every cold read.
type ReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[accountCacheEntry]
}

func NewReadRepository(db *sql.DB, redisClient *goredis.Client) *ReadRepository {
	return &ReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[accountCacheEntry](redisClient, 0),
	}
}

func cacheEntryToView(e *accountCacheEntry) *models.AccountView {
	return &models.AccountView{
		ID:            e.ID,
		UserID:        e.UserID,
		AccountName:   e.AccountName,
		AccountNumber: e.AccountNumber,
		AccountType:   e.AccountType,
		Balance:       e.Balance,
		Currency:      e.Currency,
		IsPrimary:     e.IsPrimary,
		IsFrozen:      e.IsFrozen,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// GetByID returns an AccountView, trying Redis first then PostgreSQL.
func (r *ReadRepository) GetByID(ctx context.Context, accountID string) (*models.AccountView, error) {
	cacheKey := accountViewKeyPrefix + accountID

	if entry, ok := r.cache.Get(ctx, cacheKey); ok {
		return cacheEntryToView(entry), nil
	}

	query := `
		SELECT id, user_id, account_name, account_number, account_type,
		       balance, currency, is_primary, is_frozen, created_at, updated_at
		FROM bank_accounts
		WHERE id = $1 AND deleted_at IS NULL
	`
	var view models.AccountView
	pgErr := r.db.QueryRow(query, accountID).Scan(
		&view.ID, &view.UserID, &view.AccountName, &view.AccountNumber,
		&view.AccountType, &view.Balance, &view.Currency,
		&view.IsPrimary, &view.IsFrozen, &view.CreatedAt, &view.UpdatedAt,
	)
	if pgErr == sql.ErrNoRows {
		return nil, fmt.Errorf("account not found")
	}
	if pgErr != nil {
		return nil, fmt.Errorf("failed to get account: %w", pgErr)
	}

	// Warm the cache
	r.CacheAccountView(ctx, &view)
	return &view, nil
}

// ListByUserID returns all AccountViews for the given user from PostgreSQL,
// primary account first.
func (r *ReadRepository) ListByUserID(ctx context.Context, userID string) ([]models.AccountView, error) {
	query := `
		SELECT id, user_id, account_name, account_number, account_type,
		       balance, currency, is_primary, is_frozen, created_at, updated_at
		FROM bank_accounts
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY is_primary DESC, created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var views []models.AccountView
	for rows.Next() {
		var view models.AccountView
		if err := rows.Scan(
			&view.ID, &view.UserID, &view.AccountName, &view.AccountNumber,
			&view.AccountType, &view.Balance, &view.Currency,
			&view.IsPrimary, &view.IsFrozen, &view.CreatedAt, &view.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		views = append(views, view)
	}
	return views, nil
}

// CacheAccountView stores or refreshes the Redis read model for an account.
// Called by the command service after every mutation to keep the read model current.
func (r *ReadRepository) CacheAccountView(ctx context.Context, view *models.AccountView) {
	entry := &accountCacheEntry{
		ID:            view.ID,
		UserID:        view.UserID,
		AccountName:   view.AccountName,
		AccountNumber: view.AccountNumber,
		AccountType:   view.AccountType,
		Balance:       view.Balance,
		Currency:      view.Currency,
		IsPrimary:     view.IsPrimary,
		IsFrozen:      view.IsFrozen,
		CreatedAt:     view.CreatedAt,
		UpdatedAt:     view.UpdatedAt,
	}
	r.cache.Set(ctx, accountViewKeyPrefix+view.ID, entry)
}

// InvalidateAccountView removes the Redis read model entry for an account.
func (r *ReadRepository) InvalidateAccountView(ctx context.Context, accountID string) {
	r.cache.Delete(ctx, accountViewKeyPrefix+accountID)
}
