package transaction

import (
	"context"
	"fmt"

	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// QueryService serves ledger reads. Ownership is always checked against
// the account store before returning results.
type QueryService struct {
	readRepo *ReadRepository
	accounts AccountStore
}

func NewQueryService(readRepo *ReadRepository, accounts AccountStore) *QueryService {
	return &QueryService{readRepo: readRepo, accounts: accounts}
}

func (s *QueryService) GetTransaction(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	account, err := s.accounts.GetByID(q.AccountID)
	if err != nil {
		return nil, fmt.Errorf("account not found")
	}
	if account.UserID != q.UserID {
		return nil, fmt.Errorf("forbidden")
	}
	return s.readRepo.GetByID(context.Background(), q.TransactionID, q.AccountID)
}

// ListTransactions returns the full ledger for an account, newest first.
func (s *QueryService) ListTransactions(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	account, err := s.accounts.GetByID(q.AccountID)
	if err != nil {
		return nil, fmt.Errorf("account not found")
	}
	if account.UserID != q.UserID {
		return nil, fmt.Errorf("forbidden")
	}
	return s.readRepo.ListByAccountID(context.Background(), q.AccountID)
}
