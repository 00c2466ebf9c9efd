// Package market provides synthetic quotes for the trading sandbox. Quotes
// are independent draws: nothing correlates one request, or one symbol, with
// another.
package market

import (
	"context"                         // Request scoped cancellation
	"finance_sandbox/internal/domain" // Domain errors
	"math/rand/v2"                    // Uniform draws
	"strings"                         // Symbol normalization
	"sync"                            // Guards the random source

	"github.com/pkg/errors"         // Error wrapping
	"github.com/shopspring/decimal" // Price rounding
)

// Quote is the price and percent change of one symbol
type Quote struct {
	Price  float64 `json:"price"`  // Last price
	Change float64 `json:"change"` // Percent change
}

// Quoter is any source of quotes
type Quoter interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// Symbol universe served by the market data endpoint
var (
	Stocks = []string{"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN"}
	Crypto = []string{"BTC", "ETH", "ADA", "DOT", "SOL"}
)

// Draw ranges of the random quoter
const (
	MinPrice  = 50.0
	MaxPrice  = 500.0
	MinChange = -5.0
	MaxChange = 5.0
)

// Symbols returns the full universe, stocks first
func Symbols() []string {
	out := make([]string, 0, len(Stocks)+len(Crypto))
	out = append(out, Stocks...)
	return append(out, Crypto...)
}

// Known reports whether symbol is part of the universe
func Known(symbol string) bool {
	symbol = strings.ToUpper(symbol)
	for _, s := range Symbols() {
		if s == symbol {
			return true
		}
	}
	return false
}

// RandomQuoter draws prices and changes uniformly from fixed ranges
type RandomQuoter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomQuoter returns a quoter over rng, or a randomly seeded source when rng is nil
func NewRandomQuoter(rng *rand.Rand) *RandomQuoter {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandomQuoter{rng: rng}
}

// Quote returns a fresh draw for symbol
func (q *RandomQuoter) Quote(ctx context.Context, symbol string) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, err
	}
	if !Known(symbol) {
		return Quote{}, errors.Wrapf(domain.ErrUnknownSymbol, "%q", symbol)
	}
	q.mu.Lock()
	price := MinPrice + q.rng.Float64()*(MaxPrice-MinPrice)
	change := MinChange + q.rng.Float64()*(MaxChange-MinChange)
	q.mu.Unlock()
	return Quote{Price: round2(price), Change: round2(change)}, nil
}

// Snapshot quotes every symbol in symbols
func Snapshot(ctx context.Context, quoter Quoter, symbols []string) (map[string]Quote, error) {
	out := make(map[string]Quote, len(symbols))
	for _, s := range symbols {
		quote, err := quoter.Quote(ctx, s)
		if err != nil {
			return nil, errors.Wrapf(err, "quote %s", s)
		}
		out[s] = quote
	}
	return out, nil
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
