package trading

import (
	"fmt"
	"log"

	"github.com/Rhymond/go-money"
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	"github.com/revkonstriksyon/fluid-finance-api/internal/transaction"
	"github.com/shopspring/decimal"
)

// HoldingStore is the persistence surface the service needs.
type HoldingStore interface {
	ApplyBuy(userID, symbol string, quantity, price decimal.Decimal) error
	ApplySell(userID, symbol string, quantity decimal.Decimal) error
	ListByUserID(userID string) ([]models.Holding, error)
}

// LedgerWriter settles trades in cash through the one authoritative
// ledger operation.
type LedgerWriter interface {
	CreateTransaction(cqrs.CreateTransactionCommand) (*models.Transaction, error)
}

// Position is a holding joined with its live quote.
type Position struct {
	Symbol      string `json:"symbol"`
	Quantity    string `json:"quantity"`
	AvgCost     string `json:"avgCost"`
	Price       string `json:"price"`
	MarketValue string `json:"marketValue"`
}

// Portfolio is a user's positions plus a formatted total.
type Portfolio struct {
	Positions  []Position `json:"positions"`
	TotalValue string     `json:"totalValue"`
}

// Service implements the trading simulation: market orders against the
// quote board, settled in cash through the ledger.
type Service struct {
	holdings HoldingStore
	quotes   *QuoteBoard
	ledger   LedgerWriter
}

func NewService(holdings HoldingStore, quotes *QuoteBoard, ledger LedgerWriter) *Service {
	return &Service{holdings: holdings, quotes: quotes, ledger: ledger}
}

// Buy debits cash for quantity*price, then records the position. If the
// position write fails after the cash debit committed, the debit is
// compensated with a reversing deposit.
func (s *Service) Buy(cmd cqrs.TradeCommand) (*Position, error) {
	quantity, price, cost, err := s.prepareOrder(cmd)
	if err != nil {
		return nil, err
	}

	entry, err := s.ledger.CreateTransaction(cqrs.CreateTransactionCommand{
		AccountID:   cmd.AccountID,
		UserID:      cmd.UserID,
		Type:        transaction.TypeTradeBuy,
		Amount:      cost.InexactFloat64(),
		Description: fmt.Sprintf("Buy %s %s @ %s", quantity, cmd.Symbol, price),
	})
	if err != nil {
		return nil, err
	}

	if err := s.holdings.ApplyBuy(cmd.UserID, cmd.Symbol, quantity, price); err != nil {
		if _, revErr := s.ledger.CreateTransaction(cqrs.CreateTransactionCommand{
			AccountID:   cmd.AccountID,
			UserID:      cmd.UserID,
			Type:        transaction.TypeDeposit,
			Amount:      cost.InexactFloat64(),
			Description: fmt.Sprintf("Reversal of trade %s", entry.ID),
			Reference:   entry.ID,
		}); revErr != nil {
			log.Printf("Failed to compensate trade %s: %v", entry.ID, revErr)
		}
		return nil, err
	}

	return &Position{
		Symbol:      cmd.Symbol,
		Quantity:    quantity.String(),
		AvgCost:     price.String(),
		Price:       price.String(),
		MarketValue: formatValue(cost),
	}, nil
}

// Sell decrements the position first, then credits the proceeds. The
// conditional decrement means an oversell never reaches the ledger.
func (s *Service) Sell(cmd cqrs.TradeCommand) (*Position, error) {
	quantity, price, proceeds, err := s.prepareOrder(cmd)
	if err != nil {
		return nil, err
	}

	if err := s.holdings.ApplySell(cmd.UserID, cmd.Symbol, quantity); err != nil {
		return nil, err
	}

	if _, err := s.ledger.CreateTransaction(cqrs.CreateTransactionCommand{
		AccountID:   cmd.AccountID,
		UserID:      cmd.UserID,
		Type:        transaction.TypeTradeSell,
		Amount:      proceeds.InexactFloat64(),
		Description: fmt.Sprintf("Sell %s %s @ %s", quantity, cmd.Symbol, price),
	}); err != nil {
		// Shares are gone but cash didn't arrive: put the shares back.
		if revErr := s.holdings.ApplyBuy(cmd.UserID, cmd.Symbol, quantity, price); revErr != nil {
			log.Printf("Failed to restore position after failed sell settlement: %v", revErr)
		}
		return nil, err
	}

	return &Position{
		Symbol:      cmd.Symbol,
		Quantity:    quantity.String(),
		Price:       price.String(),
		MarketValue: formatValue(proceeds),
	}, nil
}

// GetPortfolio values the user's positions at current quotes.
func (s *Service) GetPortfolio(q cqrs.PortfolioQuery) (*Portfolio, error) {
	holdings, err := s.holdings.ListByUserID(q.UserID)
	if err != nil {
		return nil, err
	}

	portfolio := &Portfolio{Positions: []Position{}}
	total := decimal.Zero
	for _, h := range holdings {
		quantity, err := decimal.NewFromString(h.Quantity)
		if err != nil {
			return nil, fmt.Errorf("corrupt quantity for %s: %w", h.Symbol, err)
		}
		price, err := s.quotes.Quote(h.Symbol)
		if err != nil {
			// Delisted from the board; value at average cost.
			price, _ = decimal.NewFromString(h.AvgCost)
		}
		value := price.Mul(quantity).Round(2)
		total = total.Add(value)
		portfolio.Positions = append(portfolio.Positions, Position{
			Symbol:      h.Symbol,
			Quantity:    h.Quantity,
			AvgCost:     h.AvgCost,
			Price:       price.String(),
			MarketValue: formatValue(value),
		})
	}
	portfolio.TotalValue = formatValue(total)
	return portfolio, nil
}

// ListQuotes drifts the board once and returns the fresh snapshot,
// emulating a ticking market.
func (s *Service) ListQuotes() map[string]string {
	s.quotes.Drift()
	out := make(map[string]string)
	for sym, price := range s.quotes.Quotes() {
		out[sym] = price.String()
	}
	return out
}

func (s *Service) prepareOrder(cmd cqrs.TradeCommand) (quantity, price, total decimal.Decimal, err error) {
	quantity, err = decimal.NewFromString(cmd.Quantity)
	if err != nil || !quantity.IsPositive() {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("invalid quantity")
	}
	price, err = s.quotes.Quote(cmd.Symbol)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	total = price.Mul(quantity).Round(2)
	return quantity, price, total, nil
}

// formatValue renders a decimal amount as a display currency string.
// The trading simulation is denominated in USD.
func formatValue(v decimal.Decimal) string {
	return money.New(v.Shift(2).IntPart(), money.USD).Display()
}
