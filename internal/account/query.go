package account

import (
	"context"
	"fmt"

	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// QueryService serves bank account reads from the Redis read model with
// PostgreSQL fallback. Ownership is always checked before returning data.
type QueryService struct {
	readRepo *ReadRepository
}

func NewQueryService(readRepo *ReadRepository) *QueryService {
	return &QueryService{readRepo: readRepo}
}

func (s *QueryService) GetAccount(q cqrs.GetAccountQuery) (*models.AccountView, error) {
	view, err := s.readRepo.GetByID(context.Background(), q.AccountID)
	if err != nil {
		return nil, err
	}
	if view.UserID != q.RequestingUserID {
		return nil, fmt.Errorf("forbidden")
	}
	return view, nil
}

func (s *QueryService) ListAccounts(q cqrs.ListAccountsQuery) ([]models.AccountView, error) {
	return s.readRepo.ListByUserID(context.Background(), q.UserID)
}
