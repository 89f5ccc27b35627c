package bill

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/events"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	"github.com/revkonstriksyon/fluid-finance-api/internal/transaction"
	"github.com/revkonstriksyon/fluid-finance-api/internal/utils"
)

// BillStore is the persistence surface the service needs.
type BillStore interface {
	Create(bill *models.Bill) error
	MarkPaid(billID, ledgerRef string) error
	ListByUserID(userID string) ([]models.Bill, error)
	ReconcileStragglers() (int64, error)
}

// AccountStore provides the pre-write ownership and balance check.
type AccountStore interface {
	GetByID(accountID string) (*models.BankAccount, error)
}

// LedgerWriter is the single authoritative money-moving operation.
type LedgerWriter interface {
	CreateTransaction(cqrs.CreateTransactionCommand) (*models.Transaction, error)
}

// EventPublisher pushes committed changes onto the event streams.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// Service pays and lists bills. Payment is ledger-first: the debit and its
// ledger entry commit atomically before the bill is marked paid, so a bill
// can never read as paid without a matching ledger entry. The reverse gap
// (debit committed, paid_at write lost) is closed by the reconciler.
type Service struct {
	bills     BillStore
	accounts  AccountStore
	ledger    LedgerWriter
	publisher EventPublisher
}

func NewService(bills BillStore, accounts AccountStore, ledger LedgerWriter, publisher EventPublisher) *Service {
	return &Service{
		bills:     bills,
		accounts:  accounts,
		ledger:    ledger,
		publisher: publisher,
	}
}

var validBillTypes = map[string]bool{
	"electricity": true,
	"water":       true,
	"rent":        true,
	"internet":    true,
}

func (s *Service) PayBill(cmd cqrs.PayBillCommand) (*models.Bill, error) {
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}
	if !validBillTypes[cmd.BillType] {
		return nil, fmt.Errorf("unknown bill type")
	}

	account, err := s.accounts.GetByID(cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("account not found")
	}
	if account.UserID != cmd.UserID {
		return nil, fmt.Errorf("forbidden")
	}
	// Short-circuit before any row is written. The ledger re-checks this
	// conditionally at commit time, so a racing debit still cannot
	// overdraw; this guard just avoids registering a doomed bill.
	if account.Balance < cmd.Amount {
		return nil, fmt.Errorf("insufficient funds")
	}

	bill := &models.Bill{
		ID:         utils.GenerateID("bil"),
		UserID:     cmd.UserID,
		Type:       cmd.BillType,
		BillNumber: cmd.BillNumber,
		Amount:     cmd.Amount,
		Provider:   cmd.Provider,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.bills.Create(bill); err != nil {
		return nil, err
	}

	entry, err := s.ledger.CreateTransaction(cqrs.CreateTransactionCommand{
		AccountID:   cmd.AccountID,
		UserID:      cmd.UserID,
		Type:        transaction.TypePayment,
		Amount:      cmd.Amount,
		Description: fmt.Sprintf("%s - %s (%s)", cmd.Provider, cmd.BillType, cmd.BillNumber),
		Reference:   bill.ID,
	})
	if err != nil {
		// No debit happened. The bill stays registered as unpaid, which
		// is a consistent state the user can retry against.
		return nil, err
	}

	if err := s.bills.MarkPaid(bill.ID, entry.ID); err != nil {
		// The debit committed; the reconciler will repair paid_at from
		// the ledger reference.
		log.Printf("Bill %s paid but not marked, leaving to reconciler: %v", bill.ID, err)
	} else {
		now := time.Now().UTC()
		bill.PaidAt = &now
		bill.LedgerRef = entry.ID
	}

	ctx := context.Background()
	if err := s.publisher.Publish(ctx, events.BillEventsStream, events.BillPaid, events.BillPaidEvent{
		BillID:    bill.ID,
		UserID:    bill.UserID,
		BillType:  bill.Type,
		Amount:    bill.Amount,
		LedgerRef: entry.ID,
	}); err != nil {
		log.Printf("Failed to publish bill.paid event: %v", err)
	}

	return bill, nil
}

func (s *Service) ListBills(q cqrs.ListBillsQuery) ([]models.Bill, error) {
	return s.bills.ListByUserID(q.UserID)
}

// RunReconciler periodically repairs bills whose paid_at write was lost
// after the ledger debit committed. Blocks until ctx is cancelled.
func (s *Service) RunReconciler(ctx context.Context, interval time.Duration) {
	if interval == 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("Bill reconciler stopping")
			return
		case <-ticker.C:
			if _, err := s.bills.ReconcileStragglers(); err != nil {
				log.Printf("Bill reconciler error: %v", err)
			}
		}
	}
}
