// Package trading applies buy and sell orders to wallets. A trade reads the
// balance, checks funds, moves money, updates the position and appends the
// ledger row inside one database transaction, serialized per user.
package trading

import (
	"context"                         // Request scoped cancellation
	"finance_sandbox/internal/domain" // Importing domain models
	"finance_sandbox/internal/market" // Quote source
	"finance_sandbox/internal/store"  // Wallet, ledger and holdings
	"fmt"                             // Error details
	"math"                            // Finite checks
	"strings"                         // Symbol normalization
	"time"                            // Execution timestamps

	"github.com/pkg/errors"         // Error wrapping
	"github.com/shopspring/decimal" // Exact totals
	"github.com/sirupsen/logrus"    // Logrus for structured logging
	"gorm.io/gorm"                  // GORM ORM library
)

const maxSymbolLen = 16

// Ceilings keeping totals and balances well inside float64 precision
var (
	maxTradeTotal = decimal.New(1, 12)
	maxBalance    = decimal.New(1, 15)
)

// Request is one order as submitted by an authenticated user
type Request struct {
	UserID   uint    // Identity supplied by the auth layer
	Symbol   string  // Ticker symbol
	Side     string  // buy or sell
	Quantity int64   // Units, must be positive
	Price    float64 // Client unit price, ignored with server pricing
}

// Result describes an executed trade
type Result struct {
	Trade   domain.Trade // Ledger row
	Balance float64      // Wallet balance after the trade
	Holding int64        // Position in the symbol after the trade
	Message string       // Human readable confirmation
}

// Options tune executor policy
type Options struct {
	// ServerPricing re-prices every order from the quoter instead of trusting the client price.
	ServerPricing bool
	// EnforceHoldings rejects sells larger than the current position.
	EnforceHoldings bool
}

// Executor validates and applies trades
type Executor struct {
	db       *gorm.DB
	wallets  *store.WalletStore
	holdings *store.HoldingStore
	ledger   *store.TradeLedger
	quoter   market.Quoter
	opts     Options
	locks    *userLocks
	now      func() time.Time
}

// NewExecutor returns an executor writing through db. quoter may be nil when
// server pricing is off.
func NewExecutor(db *gorm.DB, quoter market.Quoter, opts Options) *Executor {
	return &Executor{
		db:       db,
		wallets:  store.NewWalletStore(db),
		holdings: store.NewHoldingStore(db),
		ledger:   store.NewTradeLedger(db),
		quoter:   quoter,
		opts:     opts,
		locks:    newUserLocks(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Execute applies req as a single all-or-nothing unit
func (e *Executor) Execute(ctx context.Context, req Request) (*Result, error) {
	side, symbol, err := e.validate(req)
	if err != nil {
		return nil, err
	}
	price := req.Price
	if e.opts.ServerPricing {
		quote, err := e.quoter.Quote(ctx, symbol)
		if err != nil {
			return nil, errors.Wrap(err, "price trade")
		}
		price = quote.Price
	}
	total := decimal.NewFromInt(req.Quantity).Mul(decimal.NewFromFloat(price))
	if total.GreaterThan(maxTradeTotal) {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "trade total exceeds %s", maxTradeTotal)
	}

	release := e.locks.lock(req.UserID) // Serialize trades of this user only
	defer release()

	trade := domain.Trade{
		UserID:   req.UserID,
		Symbol:   symbol,
		Side:     side,
		Quantity: req.Quantity,
		Price:    price,
		Total:    total.InexactFloat64(),
	}
	var balance float64
	var holding int64
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallets := e.wallets.WithTx(tx)
		holdings := e.holdings.WithTx(tx)
		current, err := wallets.LockBalance(ctx, req.UserID)
		if err != nil {
			return err
		}
		if math.IsNaN(current) || math.IsInf(current, 0) {
			return errors.Errorf("wallet of user %d holds a non-finite balance", req.UserID)
		}
		before := decimal.NewFromFloat(current)
		switch side {
		case domain.SideBuy:
			if before.LessThan(total) {
				return domain.ErrInsufficientFunds // Nothing written yet
			}
			if balance, err = wallets.Debit(ctx, req.UserID, trade.Total); err != nil {
				return err
			}
			holding, err = holdings.Apply(ctx, req.UserID, symbol, req.Quantity)
		case domain.SideSell:
			if e.opts.EnforceHoldings {
				held, err := holdings.Quantity(ctx, req.UserID, symbol)
				if err != nil {
					return err
				}
				if held < req.Quantity {
					return errors.Wrapf(domain.ErrInsufficientHoldings, "holding %d %s", held, symbol)
				}
			}
			if before.Add(total).GreaterThan(maxBalance) {
				return errors.Wrapf(domain.ErrInvalidInput, "balance would exceed %s", maxBalance)
			}
			if balance, err = wallets.AdjustBalance(ctx, req.UserID, trade.Total); err != nil {
				return err
			}
			holding, err = holdings.Apply(ctx, req.UserID, symbol, -req.Quantity)
		}
		if err != nil {
			return err
		}
		trade.ExecutedAt = e.now()
		_, err = e.ledger.WithTx(tx).Append(ctx, &trade)
		return err
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  req.UserID,   // User ID
		"trade_id": trade.ID,     // Ledger row
		"symbol":   symbol,       // Ticker
		"side":     side,         // buy or sell
		"quantity": req.Quantity, // Units
		"price":    price,        // Unit price
		"total":    trade.Total,  // Amount moved
		"balance":  balance,      // Balance after
	}).Debug("Trade applied")
	return &Result{
		Trade:   trade,
		Balance: balance,
		Holding: holding,
		Message: fmt.Sprintf("%s order executed successfully", side.Title()),
	}, nil
}

// validate normalizes the request or returns ErrInvalidInput / ErrUnknownSymbol
func (e *Executor) validate(req Request) (domain.Side, string, error) {
	side, ok := domain.ParseSide(req.Side)
	if !ok {
		return "", "", errors.Wrap(domain.ErrInvalidInput, "type must be buy or sell")
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return "", "", errors.Wrap(domain.ErrInvalidInput, "symbol is required")
	}
	if len(symbol) > maxSymbolLen {
		return "", "", errors.Wrapf(domain.ErrInvalidInput, "symbol longer than %d characters", maxSymbolLen)
	}
	if req.Quantity <= 0 {
		return "", "", errors.Wrap(domain.ErrInvalidInput, "quantity must be positive")
	}
	if req.UserID == 0 {
		return "", "", domain.ErrNotAuthenticated
	}
	if e.opts.ServerPricing {
		if e.quoter == nil {
			return "", "", errors.New("server pricing without a quoter")
		}
		if !market.Known(symbol) {
			return "", "", errors.Wrapf(domain.ErrUnknownSymbol, "%q", symbol)
		}
		return side, symbol, nil
	}
	if req.Price <= 0 || math.IsNaN(req.Price) || math.IsInf(req.Price, 0) {
		return "", "", errors.Wrap(domain.ErrInvalidInput, "price must be positive")
	}
	return side, symbol, nil
}
