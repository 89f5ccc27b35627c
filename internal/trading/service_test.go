package trading

import (
	"fmt"
	"strings"
	"testing"

	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	"github.com/revkonstriksyon/fluid-finance-api/internal/transaction"
	"github.com/shopspring/decimal"
)

// ---- mock implementations ----

type mockHoldingStore struct {
	holdings map[string]decimal.Decimal
	avgCosts map[string]decimal.Decimal
	buyErr   error
	listed   []models.Holding
}

func newMockHoldingStore() *mockHoldingStore {
	return &mockHoldingStore{
		holdings: make(map[string]decimal.Decimal),
		avgCosts: make(map[string]decimal.Decimal),
	}
}

func (m *mockHoldingStore) ApplyBuy(userID, symbol string, quantity, price decimal.Decimal) error {
	if m.buyErr != nil {
		return m.buyErr
	}
	m.holdings[symbol] = m.holdings[symbol].Add(quantity)
	m.avgCosts[symbol] = price
	return nil
}

func (m *mockHoldingStore) ApplySell(userID, symbol string, quantity decimal.Decimal) error {
	held := m.holdings[symbol]
	if held.LessThan(quantity) {
		return fmt.Errorf("insufficient shares")
	}
	m.holdings[symbol] = held.Sub(quantity)
	return nil
}

func (m *mockHoldingStore) ListByUserID(userID string) ([]models.Holding, error) {
	return m.listed, nil
}

type mockLedger struct {
	commands []cqrs.CreateTransactionCommand
	err      error
}

func (m *mockLedger) CreateTransaction(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.commands = append(m.commands, cmd)
	return &models.Transaction{ID: fmt.Sprintf("txn-%03d", len(m.commands)), Type: cmd.Type, Amount: cmd.Amount}, nil
}

// ---- helpers ----

func newTradingService(store *mockHoldingStore, ledger *mockLedger) *Service {
	return NewService(store, NewQuoteBoard(1), ledger)
}

// ---- tests ----

func TestBuy(t *testing.T) {
	t.Run("debits quantity times quote through the ledger", func(t *testing.T) {
		store := newMockHoldingStore()
		ledger := &mockLedger{}
		svc := newTradingService(store, ledger)

		pos, err := svc.Buy(cqrs.TradeCommand{
			UserID: "usr-001", AccountID: "acc-001", Symbol: "AAPL", Quantity: "2",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ledger.commands) != 1 {
			t.Fatalf("expected one cash debit, got %d", len(ledger.commands))
		}
		debit := ledger.commands[0]
		if debit.Type != transaction.TypeTradeBuy {
			t.Errorf("expected trade_buy debit, got %q", debit.Type)
		}
		// 2 * 178.50, the board's seeded AAPL price
		if debit.Amount != 357.00 {
			t.Errorf("expected debit of 357.00, got %v", debit.Amount)
		}
		if !store.holdings["AAPL"].Equal(decimal.NewFromInt(2)) {
			t.Errorf("expected 2 AAPL held, got %s", store.holdings["AAPL"])
		}
		if pos.Quantity != "2" || pos.Symbol != "AAPL" {
			t.Errorf("unexpected position: %+v", pos)
		}
	})

	t.Run("insufficient cash stops the order", func(t *testing.T) {
		store := newMockHoldingStore()
		ledger := &mockLedger{err: fmt.Errorf("insufficient funds")}
		svc := newTradingService(store, ledger)

		_, err := svc.Buy(cqrs.TradeCommand{
			UserID: "usr-001", AccountID: "acc-001", Symbol: "AAPL", Quantity: "1000",
		})
		if err == nil || err.Error() != "insufficient funds" {
			t.Fatalf("expected insufficient funds, got %v", err)
		}
		if len(store.holdings) != 0 {
			t.Errorf("no position may be recorded when the debit failed")
		}
	})

	t.Run("failed position write compensates the cash debit", func(t *testing.T) {
		store := newMockHoldingStore()
		store.buyErr = fmt.Errorf("connection reset")
		ledger := &mockLedger{}
		svc := newTradingService(store, ledger)

		_, err := svc.Buy(cqrs.TradeCommand{
			UserID: "usr-001", AccountID: "acc-001", Symbol: "GOOG", Quantity: "1",
		})
		if err == nil {
			t.Fatalf("expected error from position write")
		}
		if len(ledger.commands) != 2 {
			t.Fatalf("expected debit plus compensating deposit, got %d", len(ledger.commands))
		}
		reversal := ledger.commands[1]
		if reversal.Type != transaction.TypeDeposit || reversal.Amount != ledger.commands[0].Amount {
			t.Errorf("compensation must deposit the debited amount back, got %+v", reversal)
		}
	})

	t.Run("rejects unknown symbol and bad quantity", func(t *testing.T) {
		svc := newTradingService(newMockHoldingStore(), &mockLedger{})

		if _, err := svc.Buy(cqrs.TradeCommand{
			UserID: "usr-001", AccountID: "acc-001", Symbol: "ENRN", Quantity: "1",
		}); err == nil || err.Error() != "unknown symbol" {
			t.Errorf("expected unknown symbol, got %v", err)
		}
		if _, err := svc.Buy(cqrs.TradeCommand{
			UserID: "usr-001", AccountID: "acc-001", Symbol: "AAPL", Quantity: "-1",
		}); err == nil || err.Error() != "invalid quantity" {
			t.Errorf("expected invalid quantity, got %v", err)
		}
	})
}

func TestSell(t *testing.T) {
	t.Run("credits proceeds after the position decrements", func(t *testing.T) {
		store := newMockHoldingStore()
		store.holdings["TSLA"] = decimal.NewFromInt(5)
		ledger := &mockLedger{}
		svc := newTradingService(store, ledger)

		_, err := svc.Sell(cqrs.TradeCommand{
			UserID: "usr-001", AccountID: "acc-001", Symbol: "TSLA", Quantity: "3",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !store.holdings["TSLA"].Equal(decimal.NewFromInt(2)) {
			t.Errorf("expected 2 TSLA left, got %s", store.holdings["TSLA"])
		}
		if len(ledger.commands) != 1 || ledger.commands[0].Type != transaction.TypeTradeSell {
			t.Errorf("expected one trade_sell credit, got %+v", ledger.commands)
		}
		// 3 * 246.75
		if ledger.commands[0].Amount != 740.25 {
			t.Errorf("expected proceeds of 740.25, got %v", ledger.commands[0].Amount)
		}
	})

	t.Run("oversell never reaches the ledger", func(t *testing.T) {
		store := newMockHoldingStore()
		store.holdings["TSLA"] = decimal.NewFromInt(1)
		ledger := &mockLedger{}
		svc := newTradingService(store, ledger)

		_, err := svc.Sell(cqrs.TradeCommand{
			UserID: "usr-001", AccountID: "acc-001", Symbol: "TSLA", Quantity: "2",
		})
		if err == nil || err.Error() != "insufficient shares" {
			t.Fatalf("expected insufficient shares, got %v", err)
		}
		if len(ledger.commands) != 0 {
			t.Errorf("no credit may be issued for an oversell")
		}
	})

	t.Run("failed settlement restores the shares", func(t *testing.T) {
		store := newMockHoldingStore()
		store.holdings["MSFT"] = decimal.NewFromInt(4)
		ledger := &mockLedger{err: fmt.Errorf("account frozen")}
		svc := newTradingService(store, ledger)

		_, err := svc.Sell(cqrs.TradeCommand{
			UserID: "usr-001", AccountID: "acc-001", Symbol: "MSFT", Quantity: "4",
		})
		if err == nil {
			t.Fatalf("expected settlement error")
		}
		if !store.holdings["MSFT"].Equal(decimal.NewFromInt(4)) {
			t.Errorf("shares must be restored after failed settlement, got %s", store.holdings["MSFT"])
		}
	})
}

func TestGetPortfolio(t *testing.T) {
	store := newMockHoldingStore()
	store.listed = []models.Holding{
		{Symbol: "AAPL", Quantity: "2", AvgCost: "170.00"},
		{Symbol: "DLST", Quantity: "10", AvgCost: "3.50"},
	}
	svc := newTradingService(store, &mockLedger{})

	portfolio, err := svc.GetPortfolio(cqrs.PortfolioQuery{UserID: "usr-001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(portfolio.Positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(portfolio.Positions))
	}

	// 2 * 178.50 at the board quote
	if portfolio.Positions[0].MarketValue != "$357.00" {
		t.Errorf("expected $357.00, got %q", portfolio.Positions[0].MarketValue)
	}
	// Delisted symbol valued at average cost: 10 * 3.50
	if portfolio.Positions[1].MarketValue != "$35.00" {
		t.Errorf("expected $35.00 for the delisted position, got %q", portfolio.Positions[1].MarketValue)
	}
	if portfolio.TotalValue != "$392.00" {
		t.Errorf("expected total $392.00, got %q", portfolio.TotalValue)
	}
}

func TestListQuotes(t *testing.T) {
	svc := newTradingService(newMockHoldingStore(), &mockLedger{})

	first := svc.ListQuotes()
	if len(first) != 5 {
		t.Fatalf("expected 5 symbols, got %d", len(first))
	}
	for sym, price := range first {
		if strings.TrimSpace(price) == "" {
			t.Errorf("empty quote for %s", sym)
		}
	}

	// Prices drift per refresh; with a fixed seed at least one symbol moves.
	second := svc.ListQuotes()
	moved := false
	for sym := range first {
		if first[sym] != second[sym] {
			moved = true
			break
		}
	}
	if !moved {
		t.Errorf("expected the board to drift between refreshes")
	}
}
