package card

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	"github.com/revkonstriksyon/fluid-finance-api/internal/transaction"
)

// ---- mock implementations ----

type mockCardStore struct {
	mu        sync.Mutex
	cards     map[string]*models.VirtualCard
	creditErr error
}

func newMockCardStore(cards ...*models.VirtualCard) *mockCardStore {
	m := &mockCardStore{cards: make(map[string]*models.VirtualCard)}
	for _, c := range cards {
		m.cards[c.ID] = c
	}
	return m
}

func (m *mockCardStore) Create(card *models.VirtualCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.ID] = card
	return nil
}

func (m *mockCardStore) GetByID(cardID string) (*models.VirtualCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[cardID]
	if !ok {
		return nil, fmt.Errorf("card not found")
	}
	copied := *card
	return &copied, nil
}

func (m *mockCardStore) ListByUserID(userID string) ([]models.VirtualCard, error) { return nil, nil }

// Credit mimics the store's atomic increment: serialised, read-modify-write
// under one lock, so concurrent top-ups cannot lose updates.
func (m *mockCardStore) Credit(cardID string, amount float64) (float64, error) {
	if m.creditErr != nil {
		return 0, m.creditErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[cardID]
	if !ok {
		return 0, fmt.Errorf("card not found")
	}
	card.Balance += amount
	return card.Balance, nil
}

func (m *mockCardStore) Debit(cardID string, amount float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[cardID]
	if !ok {
		return 0, fmt.Errorf("card not found")
	}
	if card.Balance < amount {
		return 0, fmt.Errorf("insufficient funds")
	}
	card.Balance -= amount
	return card.Balance, nil
}

func (m *mockCardStore) Deactivate(cardID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[cardID]
	if !ok {
		return fmt.Errorf("card not found")
	}
	card.IsActive = false
	return nil
}

type mockLedger struct {
	mu       sync.Mutex
	commands []cqrs.CreateTransactionCommand
	err      error
}

func (m *mockLedger) CreateTransaction(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.commands = append(m.commands, cmd)
	return &models.Transaction{ID: fmt.Sprintf("txn-%03d", len(m.commands)), Type: cmd.Type, Amount: cmd.Amount}, nil
}

type mockPublisher struct {
	mu        sync.Mutex
	published []string
}

func (m *mockPublisher) Publish(_ context.Context, stream, eventType string, _ any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, eventType)
	return nil
}

// ---- helpers ----

func aCard(balance float64) *models.VirtualCard {
	return &models.VirtualCard{
		ID: "crd-001", UserID: "usr-001",
		CardNumber: "**** **** **** 1234", Expiration: "12/28",
		Balance: balance, IsActive: true, CreatedAt: time.Now(),
	}
}

func newCardService(store *mockCardStore, ledger *mockLedger) *Service {
	return NewService(store, ledger, &mockPublisher{})
}

// ---- tests ----

func TestTopUpCard(t *testing.T) {
	t.Run("top-up adds exactly the amount", func(t *testing.T) {
		store := newMockCardStore(aCard(100))
		ledger := &mockLedger{}
		svc := newCardService(store, ledger)

		card, err := svc.TopUpCard(cqrs.TopUpCardCommand{
			CardID: "crd-001", UserID: "usr-001",
			SourceAccountID: "acc-001", Amount: 50,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if card.Balance != 150 {
			t.Errorf("expected balance 150, got %v", card.Balance)
		}
		if len(ledger.commands) != 1 || ledger.commands[0].Type != transaction.TypeCardTopUp {
			t.Errorf("top-up must debit the bank account through the ledger, got %+v", ledger.commands)
		}
		if ledger.commands[0].Reference != "crd-001" {
			t.Errorf("ledger entry must reference the card, got %q", ledger.commands[0].Reference)
		}
	})

	t.Run("concurrent top-ups all land", func(t *testing.T) {
		store := newMockCardStore(aCard(0))
		svc := newCardService(store, &mockLedger{})

		const workers = 10
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.TopUpCard(cqrs.TopUpCardCommand{
					CardID: "crd-001", UserID: "usr-001",
					SourceAccountID: "acc-001", Amount: 10,
				})
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		card, _ := store.GetByID("crd-001")
		if card.Balance != workers*10 {
			t.Errorf("expected balance %d, got %v", workers*10, card.Balance)
		}
	})

	t.Run("failed account debit leaves the card untouched", func(t *testing.T) {
		store := newMockCardStore(aCard(100))
		ledger := &mockLedger{err: fmt.Errorf("insufficient funds")}
		svc := newCardService(store, ledger)

		_, err := svc.TopUpCard(cqrs.TopUpCardCommand{
			CardID: "crd-001", UserID: "usr-001",
			SourceAccountID: "acc-001", Amount: 50,
		})
		if err == nil || err.Error() != "insufficient funds" {
			t.Fatalf("expected insufficient funds, got %v", err)
		}
		card, _ := store.GetByID("crd-001")
		if card.Balance != 100 {
			t.Errorf("card balance must not change, got %v", card.Balance)
		}
	})

	t.Run("failed card credit is compensated with a reversing deposit", func(t *testing.T) {
		store := newMockCardStore(aCard(100))
		store.creditErr = fmt.Errorf("card not found")
		ledger := &mockLedger{}
		svc := newCardService(store, ledger)

		_, err := svc.TopUpCard(cqrs.TopUpCardCommand{
			CardID: "crd-001", UserID: "usr-001",
			SourceAccountID: "acc-001", Amount: 50,
		})
		if err == nil {
			t.Fatalf("expected error from card credit")
		}
		if len(ledger.commands) != 2 {
			t.Fatalf("expected debit plus compensating deposit, got %d entries", len(ledger.commands))
		}
		reversal := ledger.commands[1]
		if reversal.Type != transaction.TypeDeposit || reversal.Amount != 50 {
			t.Errorf("compensation must deposit the debited amount back, got %+v", reversal)
		}
	})

	t.Run("rejects inactive card before any money moves", func(t *testing.T) {
		card := aCard(100)
		card.IsActive = false
		ledger := &mockLedger{}
		svc := newCardService(newMockCardStore(card), ledger)

		_, err := svc.TopUpCard(cqrs.TopUpCardCommand{
			CardID: "crd-001", UserID: "usr-001",
			SourceAccountID: "acc-001", Amount: 50,
		})
		if err == nil || err.Error() != "card inactive" {
			t.Fatalf("expected card inactive, got %v", err)
		}
		if len(ledger.commands) != 0 {
			t.Errorf("no debit may be issued for an inactive card")
		}
	})

	t.Run("rejects another user's card", func(t *testing.T) {
		svc := newCardService(newMockCardStore(aCard(100)), &mockLedger{})

		_, err := svc.TopUpCard(cqrs.TopUpCardCommand{
			CardID: "crd-001", UserID: "usr-002",
			SourceAccountID: "acc-001", Amount: 50,
		})
		if err == nil || err.Error() != "forbidden" {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})
}

func TestSimulatePurchase(t *testing.T) {
	t.Run("purchase decrements the card balance only", func(t *testing.T) {
		store := newMockCardStore(aCard(100))
		ledger := &mockLedger{}
		svc := newCardService(store, ledger)

		card, err := svc.SimulatePurchase(cqrs.CardPurchaseCommand{
			CardID: "crd-001", UserID: "usr-001", Amount: 30,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if card.Balance != 70 {
			t.Errorf("expected balance 70, got %v", card.Balance)
		}
		if len(ledger.commands) != 0 {
			t.Errorf("card purchases must not touch the bank ledger")
		}
	})

	t.Run("insufficient card balance", func(t *testing.T) {
		svc := newCardService(newMockCardStore(aCard(20)), &mockLedger{})

		_, err := svc.SimulatePurchase(cqrs.CardPurchaseCommand{
			CardID: "crd-001", UserID: "usr-001", Amount: 30,
		})
		if err == nil || err.Error() != "insufficient funds" {
			t.Fatalf("expected insufficient funds, got %v", err)
		}
	})

	t.Run("expired card is rejected, valid through end of its month", func(t *testing.T) {
		card := aCard(100)
		card.Expiration = "06/25"
		svc := newCardService(newMockCardStore(card), &mockLedger{})

		svc.now = func() time.Time {
			return time.Date(2025, time.June, 30, 23, 0, 0, 0, time.UTC)
		}
		if _, err := svc.SimulatePurchase(cqrs.CardPurchaseCommand{
			CardID: "crd-001", UserID: "usr-001", Amount: 10,
		}); err != nil {
			t.Errorf("card must be valid through the last day of its month, got %v", err)
		}

		svc.now = func() time.Time {
			return time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
		}
		if _, err := svc.SimulatePurchase(cqrs.CardPurchaseCommand{
			CardID: "crd-001", UserID: "usr-001", Amount: 10,
		}); err == nil || err.Error() != "card expired" {
			t.Errorf("expected card expired, got %v", err)
		}
	})
}

func TestDeactivateCard(t *testing.T) {
	store := newMockCardStore(aCard(100))
	svc := newCardService(store, &mockLedger{})

	if err := svc.DeactivateCard(cqrs.DeactivateCardCommand{CardID: "crd-001", UserID: "usr-001"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	card, _ := store.GetByID("crd-001")
	if card.IsActive {
		t.Errorf("card must be inactive after deactivation")
	}

	if err := svc.DeactivateCard(cqrs.DeactivateCardCommand{CardID: "crd-001", UserID: "usr-002"}); err == nil {
		t.Errorf("expected forbidden for another user's card")
	}
}
