package trading

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"
)

// QuoteBoard is an in-memory price source for the trading simulation.
// Prices drift by a small bounded random walk on every refresh; there is
// no external market-data feed.
type QuoteBoard struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
	rng    *rand.Rand
}

// NewQuoteBoard seeds the board with a fixed symbol set. A deterministic
// seed gives reproducible price sequences in tests.
func NewQuoteBoard(seed int64) *QuoteBoard {
	return &QuoteBoard{
		prices: map[string]decimal.Decimal{
			"AAPL": decimal.NewFromFloat(178.50),
			"GOOG": decimal.NewFromFloat(141.20),
			"TSLA": decimal.NewFromFloat(246.75),
			"AMZN": decimal.NewFromFloat(134.90),
			"MSFT": decimal.NewFromFloat(377.40),
		},
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Quote returns the current price for a symbol.
func (b *QuoteBoard) Quote(symbol string) (decimal.Decimal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	price, ok := b.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown symbol")
	}
	return price, nil
}

// Quotes returns a snapshot of every symbol's current price.
func (b *QuoteBoard) Quotes() map[string]decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]decimal.Decimal, len(b.prices))
	for sym, price := range b.prices {
		out[sym] = price
	}
	return out
}

// Drift nudges every price by up to ±1%, floored at 0.01.
func (b *QuoteBoard) Drift() {
	b.mu.Lock()
	defer b.mu.Unlock()
	floor := decimal.NewFromFloat(0.01)
	for sym, price := range b.prices {
		pct := decimal.NewFromFloat((b.rng.Float64() - 0.5) / 50)
		next := price.Add(price.Mul(pct)).Round(2)
		if next.LessThan(floor) {
			next = floor
		}
		b.prices[sym] = next
	}
}
