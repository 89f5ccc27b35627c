package transaction

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

// AccountStore is the slice of the account repository the ledger needs:
// ownership and state checks before a write is attempted.
type AccountStore interface {
	GetByID(accountID string) (*models.BankAccount, error)
}

// Ledger is the atomic write path for balance-affecting entries.
type Ledger interface {
	Apply(entry *models.Transaction) (float64, error)
	Transfer(sent, received *models.Transaction) (float64, float64, error)
}

// ViewCacher persists read model projections for committed entries.
type ViewCacher interface {
	CacheTransactionView(ctx context.Context, view *models.TransactionView)
}

// EventPublisher pushes committed changes onto the event streams.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// CommandService is the one authoritative implementation of "record a
// balance-affecting operation". Every module that moves money (bills,
// cards, trading, the payment gateway) calls through here; there is no
// second code path that writes balances.
type CommandService struct {
	ledger    Ledger
	accounts  AccountStore
	views     ViewCacher
	publisher EventPublisher
}

func NewCommandService(ledger Ledger, accounts AccountStore, views ViewCacher, publisher EventPublisher) *CommandService {
	return &CommandService{
		ledger:    ledger,
		accounts:  accounts,
		views:     views,
		publisher: publisher,
	}
}

// CreateTransaction validates, then commits one ledger entry and its
// balance change atomically. Insufficient funds on a debit is rejected
// before any write is attempted; the conditional SQL inside the ledger
// enforces the same rule again under concurrency.
func (s *CommandService) CreateTransaction(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}
	if !ValidType(cmd.Type) {
		return nil, fmt.Errorf("unknown transaction type")
	}

	account, err := s.accounts.GetByID(cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("account not found")
	}
	if account.UserID != cmd.UserID {
		return nil, fmt.Errorf("forbidden")
	}
	if account.IsFrozen {
		return nil, fmt.Errorf("account frozen")
	}
	if IsDebit(cmd.Type) && account.Balance < cmd.Amount {
		return nil, fmt.Errorf("insufficient funds")
	}

	entry := &models.Transaction{
		ID:          utils.GenerateID("txn"),
		UserID:      cmd.UserID,
		AccountID:   cmd.AccountID,
		Type:        cmd.Type,
		Amount:      cmd.Amount,
		Currency:    account.Currency,
		Description: cmd.Description,
		Status:      StatusCompleted,
		ReferenceID: cmd.Reference,
		CreatedAt:   time.Now().UTC(),
	}

	newBalance, err := s.ledger.Apply(entry)
	if err != nil {
		return nil, err
	}

	s.afterCommit(entry, newBalance)
	return entry, nil
}

// Transfer moves money between two accounts, producing exactly one
// transfer_sent and one transfer_received entry that share a reference.
func (s *CommandService) Transfer(cmd cqrs.TransferCommand) (*models.Transaction, error) {
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}
	if cmd.FromAccountID == cmd.ToAccountID {
		return nil, fmt.Errorf("cannot transfer to the same account")
	}

	from, err := s.accounts.GetByID(cmd.FromAccountID)
	if err != nil {
		return nil, fmt.Errorf("account not found")
	}
	if from.UserID != cmd.UserID {
		return nil, fmt.Errorf("forbidden")
	}
	if from.IsFrozen {
		return nil, fmt.Errorf("account frozen")
	}
	if from.Balance < cmd.Amount {
		return nil, fmt.Errorf("insufficient funds")
	}

	to, err := s.accounts.GetByID(cmd.ToAccountID)
	if err != nil {
		return nil, fmt.Errorf("destination account not found")
	}

	reference := utils.GenerateReference("TRF")
	now := time.Now().UTC()

	sent := &models.Transaction{
		ID:          utils.GenerateID("txn"),
		UserID:      from.UserID,
		AccountID:   from.ID,
		Type:        TypeTransferSent,
		Amount:      cmd.Amount,
		Currency:    from.Currency,
		Description: cmd.Description,
		Status:      StatusCompleted,
		ReferenceID: reference,
		CreatedAt:   now,
	}
	received := &models.Transaction{
		ID:          utils.GenerateID("txn"),
		UserID:      to.UserID,
		AccountID:   to.ID,
		Type:        TypeTransferReceived,
		Amount:      cmd.Amount,
		Currency:    to.Currency,
		Description: cmd.Description,
		Status:      StatusCompleted,
		ReferenceID: reference,
		CreatedAt:   now,
	}

	fromBalance, toBalance, err := s.ledger.Transfer(sent, received)
	if err != nil {
		return nil, err
	}

	s.afterCommit(sent, fromBalance)
	s.afterCommit(received, toBalance)
	return sent, nil
}

// afterCommit warms the read model and publishes events for a committed
// entry. Failures here are logged, never surfaced: the write already
// happened and the read model self-heals from Postgres.
func (s *CommandService) afterCommit(entry *models.Transaction, newBalance float64) {
	ctx := context.Background()
	s.views.CacheTransactionView(ctx, entryToView(entry))

	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: entry.ID,
		AccountID:     entry.AccountID,
		UserID:        entry.UserID,
		Type:          entry.Type,
		Amount:        entry.Amount,
		Currency:      entry.Currency,
		ReferenceID:   entry.ReferenceID,
	}); err != nil {
		log.Printf("Failed to publish transaction.created event: %v", err)
	}

	change := entry.Amount
	if IsDebit(entry.Type) {
		change = -entry.Amount
	}
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.BalanceUpdated, events.BalanceUpdatedEvent{
		AccountID:  entry.AccountID,
		UserID:     entry.UserID,
		NewBalance: newBalance,
		Change:     change,
	}); err != nil {
		log.Printf("Failed to publish balance.updated event: %v", err)
	}
}

// entryToView converts the write model to a read view model.
func entryToView(t *models.Transaction) *models.TransactionView {
	return &models.TransactionView{
		ID:          t.ID,
		UserID:      t.UserID,
		AccountID:   t.AccountID,
		Type:        t.Type,
		Amount:      t.Amount,
		Currency:    t.Currency,
		Description: t.Description,
		Status:      t.Status,
		ReferenceID: t.ReferenceID,
		CreatedAt:   t.CreatedAt,
	}
}
