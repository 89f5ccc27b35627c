package account

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/events"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	"github.com/revkonstriksyon/fluid-finance-api/internal/utils"
)

// CommandService writes bank account state and keeps the read model in sync.
type CommandService struct {
	writeRepo *WriteRepository
	readRepo  *ReadRepository
	publisher *events.Publisher
}

func NewCommandService(writeRepo *WriteRepository, readRepo *ReadRepository, publisher *events.Publisher) *CommandService {
	return &CommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		publisher: publisher,
	}
}

func (s *CommandService) CreateAccount(cmd cqrs.CreateAccountCommand) (*models.BankAccount, error) {
	count, err := s.writeRepo.CountByUserID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	currency := cmd.Currency
	if currency == "" {
		currency = "HTG"
	}

	account := &models.BankAccount{
		ID:            utils.GenerateID("acc"),
		UserID:        cmd.UserID,
		AccountName:   cmd.AccountName,
		AccountNumber: utils.GenerateAccountNumber(),
		AccountType:   cmd.AccountType,
		Balance:       0.00,
		Currency:      currency,
		IsPrimary:     count == 0, // first account becomes primary
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.writeRepo.Create(account); err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.readRepo.CacheAccountView(ctx, accountToView(account))
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountCreated, events.AccountCreatedEvent{
		AccountID:   account.ID,
		UserID:      account.UserID,
		AccountName: account.AccountName,
		AccountType: account.AccountType,
	}); err != nil {
		log.Printf("Failed to publish account.created event: %v", err)
	}
	return account, nil
}

func (s *CommandService) UpdateAccount(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
	account, err := s.writeRepo.GetByID(cmd.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != cmd.RequestingUserID {
		return nil, fmt.Errorf("forbidden")
	}

	account.AccountName = cmd.AccountName
	account.AccountType = cmd.AccountType
	account.UpdatedAt = time.Now().UTC()
	if err := s.writeRepo.Update(account); err != nil {
		return nil, err
	}

	view := accountToView(account)
	ctx := context.Background()
	s.readRepo.CacheAccountView(ctx, view)
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountUpdated, events.AccountUpdatedEvent{
		AccountID:   account.ID,
		UserID:      account.UserID,
		AccountName: account.AccountName,
	}); err != nil {
		log.Printf("Failed to publish account.updated event: %v", err)
	}
	return view, nil
}

func (s *CommandService) SetPrimaryAccount(cmd cqrs.SetPrimaryAccountCommand) error {
	account, err := s.writeRepo.GetByID(cmd.AccountID)
	if err != nil {
		return err
	}
	if account.UserID != cmd.RequestingUserID {
		return fmt.Errorf("forbidden")
	}

	if err := s.writeRepo.SetPrimary(cmd.AccountID, cmd.RequestingUserID); err != nil {
		return err
	}

	// The swap touched every account of the user; rewarm all of their views.
	ctx := context.Background()
	views, err := s.readRepo.ListByUserID(ctx, cmd.RequestingUserID)
	if err == nil {
		for i := range views {
			s.readRepo.CacheAccountView(ctx, &views[i])
		}
	}
	return nil
}

func (s *CommandService) DeleteAccount(cmd cqrs.DeleteAccountCommand) error {
	account, err := s.writeRepo.GetByID(cmd.AccountID)
	if err != nil {
		return err
	}
	if account.UserID != cmd.RequestingUserID {
		return fmt.Errorf("forbidden")
	}

	if err := s.writeRepo.Delete(cmd.AccountID); err != nil {
		return err
	}

	ctx := context.Background()
	s.readRepo.InvalidateAccountView(ctx, cmd.AccountID)
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountDeleted, events.AccountDeletedEvent{
		AccountID: account.ID,
		UserID:    account.UserID,
	}); err != nil {
		log.Printf("Failed to publish account.deleted event: %v", err)
	}
	return nil
}

// FreezeAccount is the admin-side switch; ownership is deliberately not
// checked here, the admin handler gates access instead.
func (s *CommandService) FreezeAccount(cmd cqrs.FreezeAccountCommand) error {
	if err := s.writeRepo.SetFrozen(cmd.AccountID, cmd.Frozen); err != nil {
		return err
	}
	s.readRepo.InvalidateAccountView(context.Background(), cmd.AccountID)
	return nil
}

// accountToView converts the PostgreSQL write model to the Redis read view model.
func accountToView(a *models.BankAccount) *models.AccountView {
	return &models.AccountView{
		ID:            a.ID,
		UserID:        a.UserID,
		AccountName:   a.AccountName,
		AccountNumber: a.AccountNumber,
		AccountType:   a.AccountType,
		Balance:       a.Balance,
		Currency:      a.Currency,
		IsPrimary:     a.IsPrimary,
		IsFrozen:      a.IsFrozen,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
