package card

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

// CardStore is the persistence surface the service needs.
type CardStore interface {
	Create(card *models.VirtualCard) error
	GetByID(cardID string) (*models.VirtualCard, error)
	ListByUserID(userID string) ([]models.VirtualCard, error)
	Credit(cardID string, amount float64) (float64, error)
	Debit(cardID string, amount float64) (float64, error)
	Deactivate(cardID string) error
}

// LedgerWriter funds top-ups from a bank account through the one
// authoritative ledger operation.
type LedgerWriter interface {
	CreateTransaction(cqrs.CreateTransactionCommand) (*models.Transaction, error)
}

// EventPublisher pushes committed changes onto the event streams.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// Service manages virtual cards: issuing, top-up from a bank account,
// purchase simulation, deactivation.
type Service struct {
	cards     CardStore
	ledger    LedgerWriter
	publisher EventPublisher
	now       func() time.Time
}

func NewService(cards CardStore, ledger LedgerWriter, publisher EventPublisher) *Service {
	return &Service{
		cards:     cards,
		ledger:    ledger,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *Service) CreateCard(cmd cqrs.CreateCardCommand) (*models.VirtualCard, error) {
	_, masked := utils.GenerateCardNumber()
	card := &models.VirtualCard{
		ID:         utils.GenerateID("crd"),
		UserID:     cmd.UserID,
		CardNumber: masked,
		Expiration: s.now().UTC().AddDate(3, 0, 0).Format("01/06"),
		CVV:        utils.GenerateCVV(),
		Balance:    0.00,
		IsActive:   true,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.cards.Create(card); err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := s.publisher.Publish(ctx, events.CardEventsStream, events.CardCreated, events.CardCreatedEvent{
		CardID: card.ID,
		UserID: card.UserID,
	}); err != nil {
		log.Printf("Failed to publish card.created event: %v", err)
	}
	return card, nil
}

func (s *Service) ListCards(q cqrs.ListCardsQuery) ([]models.VirtualCard, error) {
	return s.cards.ListByUserID(q.UserID)
}

// TopUpCard debits the source bank account through the ledger, then
// credits the card with an atomic SQL increment. If the card credit fails
// after the debit committed, the debit is compensated with a reversing
// deposit so no money is lost between ledgers.
func (s *Service) TopUpCard(cmd cqrs.TopUpCardCommand) (*models.VirtualCard, error) {
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}

	card, err := s.cards.GetByID(cmd.CardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != cmd.UserID {
		return nil, fmt.Errorf("forbidden")
	}
	if !card.IsActive {
		return nil, fmt.Errorf("card inactive")
	}

	entry, err := s.ledger.CreateTransaction(cqrs.CreateTransactionCommand{
		AccountID:   cmd.SourceAccountID,
		UserID:      cmd.UserID,
		Type:        transaction.TypeCardTopUp,
		Amount:      cmd.Amount,
		Description: fmt.Sprintf("Top-up card %s", card.CardNumber),
		Reference:   card.ID,
	})
	if err != nil {
		return nil, err
	}

	newBalance, err := s.cards.Credit(cmd.CardID, cmd.Amount)
	if err != nil {
		if _, revErr := s.ledger.CreateTransaction(cqrs.CreateTransactionCommand{
			AccountID:   cmd.SourceAccountID,
			UserID:      cmd.UserID,
			Type:        transaction.TypeDeposit,
			Amount:      cmd.Amount,
			Description: fmt.Sprintf("Reversal of top-up %s", entry.ID),
			Reference:   entry.ID,
		}); revErr != nil {
			log.Printf("Failed to compensate top-up %s: %v", entry.ID, revErr)
		}
		return nil, err
	}

	card.Balance = newBalance
	s.publishCardUpdated(card, cmd.Amount)
	return card, nil
}

// SimulatePurchase decrements the card balance with a conditional SQL
// update after checking expiration. Card money never touches the bank
// ledger; the card is its own spending pocket.
func (s *Service) SimulatePurchase(cmd cqrs.CardPurchaseCommand) (*models.VirtualCard, error) {
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}

	card, err := s.cards.GetByID(cmd.CardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != cmd.UserID {
		return nil, fmt.Errorf("forbidden")
	}
	if !card.IsActive {
		return nil, fmt.Errorf("card inactive")
	}
	if s.cardExpired(card.Expiration) {
		return nil, fmt.Errorf("card expired")
	}

	newBalance, err := s.cards.Debit(cmd.CardID, cmd.Amount)
	if err != nil {
		return nil, err
	}

	card.Balance = newBalance
	s.publishCardUpdated(card, -cmd.Amount)
	return card, nil
}

func (s *Service) DeactivateCard(cmd cqrs.DeactivateCardCommand) error {
	card, err := s.cards.GetByID(cmd.CardID)
	if err != nil {
		return err
	}
	if card.UserID != cmd.UserID {
		return fmt.Errorf("forbidden")
	}
	return s.cards.Deactivate(cmd.CardID)
}

// cardExpired parses an MM/YY expiration; the card is valid through the
// last day of its expiration month.
func (s *Service) cardExpired(expiration string) bool {
	exp, err := time.Parse("01/06", expiration)
	if err != nil {
		return true
	}
	endOfMonth := exp.AddDate(0, 1, 0)
	return !s.now().UTC().Before(endOfMonth)
}

func (s *Service) publishCardUpdated(card *models.VirtualCard, change float64) {
	if err := s.publisher.Publish(context.Background(), events.CardEventsStream, events.CardUpdated, events.CardUpdatedEvent{
		CardID:     card.ID,
		UserID:     card.UserID,
		NewBalance: card.Balance,
		Change:     change,
	}); err != nil {
		log.Printf("Failed to publish card.updated event: %v", err)
	}
}
