package gateway

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	"github.com/revkonstriksyon/fluid-finance-api/internal/transaction"
	"github.com/revkonstriksyon/fluid-finance-api/internal/utils"
)

// Payment statuses. Settlement claims a pending payment by moving it to
// processing before any money moves, so only one verifier can deposit.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var validMethods = map[string]bool{
	"moncash":       true,
	"natcash":       true,
	"card":          true,
	"bank_transfer": true,
}

// PaymentStore persists gateway payment attempts.
type PaymentStore interface {
	Create(*models.GatewayPayment) error
	GetByID(string) (*models.GatewayPayment, error)
	Transition(id, from, to string) error
	ListByUserID(string) ([]*models.GatewayPayment, error)
}

// LedgerWriter settles completed payments as deposits.
type LedgerWriter interface {
	CreateTransaction(cqrs.CreateTransactionCommand) (*models.Transaction, error)
}

// Service simulates an external payment provider. Initialization
// always succeeds with a pending payment; verification settles it
// against a weighted coin flip, the way a sandbox provider behaves.
type Service struct {
	payments PaymentStore
	ledger   LedgerWriter

	mu  sync.Mutex
	rng *rand.Rand
}

func NewService(payments PaymentStore, ledger LedgerWriter) *Service {
	return &Service{
		payments: payments,
		ledger:   ledger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewServiceWithSource wires a deterministic rand source.
func NewServiceWithSource(payments PaymentStore, ledger LedgerWriter, src rand.Source) *Service {
	s := NewService(payments, ledger)
	s.rng = rand.New(src)
	return s
}

// draw serialises the coin flip; rand.Rand is not safe for concurrent
// use and VerifyPayment runs from concurrent handlers.
func (s *Service) draw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *Service) InitializePayment(cmd cqrs.InitializePaymentCommand) (*models.GatewayPayment, error) {
	if cmd.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if !validMethods[cmd.Method] {
		return nil, errors.New("unsupported payment method")
	}

	payment := &models.GatewayPayment{
		ID:          utils.GenerateID("pay"),
		UserID:      cmd.UserID,
		AccountID:   cmd.AccountID,
		Method:      cmd.Method,
		Amount:      cmd.Amount,
		Phone:       cmd.Phone,
		Description: cmd.Description,
		Reference:   utils.GenerateReference("GTW"),
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}

	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// VerifyPayment settles a pending payment. The settlement outcome is
// claimed with a conditional status transition BEFORE the deposit is
// written, so two racing verifies of the same payment can never credit
// the account twice: the loser of the claim re-reads and reports the
// winner's outcome.
func (s *Service) VerifyPayment(cmd cqrs.VerifyPaymentCommand) (*models.GatewayPayment, error) {
	payment, err := s.payments.GetByID(cmd.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != cmd.UserID {
		return nil, errors.New("forbidden")
	}
	if payment.Status != StatusPending {
		return payment, nil
	}

	if s.draw() >= 0.8 {
		if err := s.payments.Transition(payment.ID, StatusPending, StatusFailed); err != nil {
			return s.payments.GetByID(payment.ID)
		}
		payment.Status = StatusFailed
		return payment, nil
	}

	// Claim the payment before touching money.
	if err := s.payments.Transition(payment.ID, StatusPending, StatusProcessing); err != nil {
		return s.payments.GetByID(payment.ID)
	}

	_, err = s.ledger.CreateTransaction(cqrs.CreateTransactionCommand{
		AccountID:   payment.AccountID,
		UserID:      payment.UserID,
		Type:        transaction.TypeDeposit,
		Amount:      payment.Amount,
		Description: fmt.Sprintf("Gateway deposit via %s", payment.Method),
		Reference:   payment.ID,
	})
	if err != nil {
		log.Printf("Gateway settlement failed for payment %s: %v", payment.ID, err)
		if markErr := s.payments.Transition(payment.ID, StatusProcessing, StatusFailed); markErr != nil {
			log.Printf("Failed to mark payment %s failed: %v", payment.ID, markErr)
		}
		payment.Status = StatusFailed
		return payment, nil
	}

	if err := s.payments.Transition(payment.ID, StatusProcessing, StatusCompleted); err != nil {
		return nil, err
	}
	payment.Status = StatusCompleted
	return payment, nil
}

func (s *Service) ListPayments(userID string) ([]*models.GatewayPayment, error) {
	return s.payments.ListByUserID(userID)
}
