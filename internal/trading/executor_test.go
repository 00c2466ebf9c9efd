package trading

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"finance_sandbox/internal/config"
	"finance_sandbox/internal/db"
	"finance_sandbox/internal/domain"
	"finance_sandbox/internal/market"
	"finance_sandbox/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixedQuoter struct {
	price float64
}

func (q fixedQuoter) Quote(_ context.Context, symbol string) (market.Quote, error) {
	if !market.Known(symbol) {
		return market.Quote{}, domain.ErrUnknownSymbol
	}
	return market.Quote{Price: q.price, Change: 1}, nil
}

type fixture struct {
	db     *gorm.DB
	exec   *Executor
	userID uint
}

func newFixture(t *testing.T, balance float64, quoter market.Quoter, opts Options) *fixture {
	t.Helper()
	gdb, err := db.OpenDialect(config.DriverSQLite, ":memory:", true)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	user := &domain.User{Username: "trader", Email: "trader@example.com", Password: "hash"}
	require.NoError(t, store.NewUserStore(gdb).Register(context.Background(), user, balance))

	exec := NewExecutor(gdb, quoter, opts)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	exec.now = func() time.Time {
		clock = clock.Add(time.Second) // Strictly increasing execution times
		return clock
	}
	return &fixture{db: gdb, exec: exec, userID: user.ID}
}

func (f *fixture) balance(t *testing.T) float64 {
	t.Helper()
	b, err := store.NewWalletStore(f.db).GetBalance(context.Background(), f.userID)
	require.NoError(t, err)
	return b
}

func (f *fixture) trades(t *testing.T) []domain.Trade {
	t.Helper()
	trades, _, err := store.NewTradeLedger(f.db).ListByUser(context.Background(), f.userID, store.NewPage(1, store.MaxPageSize))
	require.NoError(t, err)
	return trades
}

func (f *fixture) holding(t *testing.T, symbol string) int64 {
	t.Helper()
	q, err := store.NewHoldingStore(f.db).Quantity(context.Background(), f.userID, symbol)
	require.NoError(t, err)
	return q
}

func TestExecutor_Scenario(t *testing.T) {
	f := newFixture(t, domain.StartingBalance, nil, Options{})
	ctx := context.Background()

	res, err := f.exec.Execute(ctx, Request{UserID: f.userID, Symbol: "AAPL", Side: "buy", Quantity: 10, Price: 50})
	require.NoError(t, err)
	assert.Equal(t, "Buy order executed successfully", res.Message)
	assert.Equal(t, 9500.0, res.Balance)
	assert.Equal(t, 500.0, res.Trade.Total)
	assert.Equal(t, 9500.0, f.balance(t))
	assert.Len(t, f.trades(t), 1)

	res, err = f.exec.Execute(ctx, Request{UserID: f.userID, Symbol: "AAPL", Side: "sell", Quantity: 5, Price: 80})
	require.NoError(t, err)
	assert.Equal(t, "Sell order executed successfully", res.Message)
	assert.Equal(t, 9900.0, f.balance(t))
	assert.Len(t, f.trades(t), 2)

	_, err = f.exec.Execute(ctx, Request{UserID: f.userID, Symbol: "AAPL", Side: "buy", Quantity: 1000, Price: 50})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, 9900.0, f.balance(t))
	trades := f.trades(t)
	require.Len(t, trades, 2)
	assert.Equal(t, domain.SideSell, trades[0].Side, "most recent first")
	assert.Equal(t, domain.SideBuy, trades[1].Side)
	assert.Equal(t, int64(5), f.holding(t, "AAPL"))
}

func TestExecutor_BuyDebitsExactly(t *testing.T) {
	tests := []struct {
		name     string
		balance  float64
		quantity int64
		price    float64
		want     float64
	}{
		{"partial", 1000, 3, 125.5, 623.5},
		{"whole balance", 1000, 4, 250, 0},
		{"fractional price", 100, 7, 0.1, 99.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.balance, nil, Options{})
			res, err := f.exec.Execute(context.Background(), Request{UserID: f.userID, Symbol: "msft", Side: "BUY", Quantity: tt.quantity, Price: tt.price})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, f.balance(t), 1e-9)
			assert.InDelta(t, tt.want, res.Balance, 1e-9)
			assert.Equal(t, "MSFT", res.Trade.Symbol)
			assert.Equal(t, domain.SideBuy, res.Trade.Side)
			assert.Len(t, f.trades(t), 1)
			assert.Equal(t, tt.quantity, f.holding(t, "MSFT"))
		})
	}
}

func TestExecutor_InsufficientFundsLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, 100, nil, Options{})
	_, err := f.exec.Execute(context.Background(), Request{UserID: f.userID, Symbol: "BTC", Side: "buy", Quantity: 1, Price: 100.01})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, 100.0, f.balance(t))
	assert.Empty(t, f.trades(t))
	assert.Zero(t, f.holding(t, "BTC"))
}

func TestExecutor_SellCreditsUnconditionally(t *testing.T) {
	f := newFixture(t, 0, nil, Options{})
	res, err := f.exec.Execute(context.Background(), Request{UserID: f.userID, Symbol: "ETH", Side: "sell", Quantity: 3, Price: 200})
	require.NoError(t, err)
	assert.Equal(t, 600.0, res.Balance)
	assert.Equal(t, int64(-3), res.Holding)
	assert.Equal(t, 600.0, f.balance(t))
	require.Len(t, f.trades(t), 1)
	assert.Equal(t, domain.SideSell, f.trades(t)[0].Side)
}

func TestExecutor_ReplayIsNotDeduplicated(t *testing.T) {
	f := newFixture(t, 1000, nil, Options{})
	req := Request{UserID: f.userID, Symbol: "DOT", Side: "buy", Quantity: 2, Price: 100}
	first, err := f.exec.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := f.exec.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.Trade.ID, second.Trade.ID)
	assert.NotEqual(t, first.Trade.Ref, second.Trade.Ref)
	assert.Equal(t, 600.0, f.balance(t))
	assert.Len(t, f.trades(t), 2)
}

func TestExecutor_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"empty symbol", Request{Symbol: "  ", Side: "buy", Quantity: 1, Price: 1}},
		{"long symbol", Request{Symbol: "ABCDEFGHIJKLMNOPQ", Side: "buy", Quantity: 1, Price: 1}},
		{"unknown side", Request{Symbol: "AAPL", Side: "hold", Quantity: 1, Price: 1}},
		{"zero quantity", Request{Symbol: "AAPL", Side: "buy", Quantity: 0, Price: 1}},
		{"negative quantity", Request{Symbol: "AAPL", Side: "sell", Quantity: -5, Price: 1}},
		{"zero price", Request{Symbol: "AAPL", Side: "buy", Quantity: 1, Price: 0}},
		{"negative price", Request{Symbol: "AAPL", Side: "sell", Quantity: 1, Price: -10}},
		{"nan price", Request{Symbol: "AAPL", Side: "buy", Quantity: 1, Price: math.NaN()}},
		{"infinite price", Request{Symbol: "AAPL", Side: "sell", Quantity: 1, Price: math.Inf(1)}},
		{"overflowing sell total", Request{Symbol: "AAPL", Side: "sell", Quantity: 1000, Price: 1e306}},
		{"buy total above ceiling", Request{Symbol: "AAPL", Side: "buy", Quantity: 2, Price: 1e12}},
	}
	f := newFixture(t, 1000, nil, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.UserID = f.userID
			_, err := f.exec.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 1000.0, f.balance(t))
	assert.Empty(t, f.trades(t))
}

func TestExecutor_SellBalanceCeiling(t *testing.T) {
	f := newFixture(t, 1e15-100, nil, Options{})
	_, err := f.exec.Execute(context.Background(), Request{UserID: f.userID, Symbol: "AAPL", Side: "sell", Quantity: 1, Price: 101})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1e15-100, f.balance(t))
	assert.Empty(t, f.trades(t))

	res, err := f.exec.Execute(context.Background(), Request{UserID: f.userID, Symbol: "AAPL", Side: "sell", Quantity: 1, Price: 100})
	require.NoError(t, err)
	assert.Equal(t, 1e15, res.Balance)
}

func TestExecutor_MissingIdentityAndWallet(t *testing.T) {
	f := newFixture(t, 1000, nil, Options{})
	_, err := f.exec.Execute(context.Background(), Request{Symbol: "AAPL", Side: "buy", Quantity: 1, Price: 1})
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, err = f.exec.Execute(context.Background(), Request{UserID: f.userID + 100, Symbol: "AAPL", Side: "sell", Quantity: 1, Price: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.trades(t))
}

func TestExecutor_EnforceHoldings(t *testing.T) {
	f := newFixture(t, 1000, nil, Options{EnforceHoldings: true})
	ctx := context.Background()

	_, err := f.exec.Execute(ctx, Request{UserID: f.userID, Symbol: "SOL", Side: "sell", Quantity: 1, Price: 10})
	assert.ErrorIs(t, err, domain.ErrInsufficientHoldings)
	assert.Equal(t, 1000.0, f.balance(t))

	_, err = f.exec.Execute(ctx, Request{UserID: f.userID, Symbol: "SOL", Side: "buy", Quantity: 5, Price: 10})
	require.NoError(t, err)
	_, err = f.exec.Execute(ctx, Request{UserID: f.userID, Symbol: "SOL", Side: "sell", Quantity: 6, Price: 10})
	assert.ErrorIs(t, err, domain.ErrInsufficientHoldings)

	res, err := f.exec.Execute(ctx, Request{UserID: f.userID, Symbol: "SOL", Side: "sell", Quantity: 5, Price: 12})
	require.NoError(t, err)
	assert.Zero(t, res.Holding)
	assert.Equal(t, 1010.0, f.balance(t))
	assert.Len(t, f.trades(t), 2)
}

func TestExecutor_ServerPricing(t *testing.T) {
	f := newFixture(t, 1000, fixedQuoter{price: 100}, Options{ServerPricing: true})
	ctx := context.Background()

	res, err := f.exec.Execute(ctx, Request{UserID: f.userID, Symbol: "TSLA", Side: "buy", Quantity: 2, Price: 0.01})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Trade.Price, "client price ignored")
	assert.Equal(t, 800.0, f.balance(t))

	_, err = f.exec.Execute(ctx, Request{UserID: f.userID, Symbol: "NOPE", Side: "buy", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrUnknownSymbol)
	assert.Len(t, f.trades(t), 1)
}

func TestExecutor_ConcurrentBuysNeverOverdraw(t *testing.T) {
	const workers = 20
	f := newFixture(t, 1000, nil, Options{})

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.exec.Execute(context.Background(), Request{UserID: f.userID, Symbol: "AMZN", Side: "buy", Quantity: 1, Price: 300})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, rejected int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrInsufficientFunds):
			rejected++
		}
	}
	assert.Equal(t, 3, ok, "floor(1000 / 300) buys fit")
	assert.Equal(t, workers-3, rejected)
	assert.Equal(t, 100.0, f.balance(t))
	assert.Len(t, f.trades(t), 3)
	assert.Zero(t, f.exec.locks.size(), "lock entries released")
}

func TestUserLocks_Independent(t *testing.T) {
	locks := newUserLocks()
	releaseA := locks.lock(1)
	done := make(chan struct{})
	go func() {
		release := locks.lock(2) // A different user never waits on user 1
		release()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for user 2 blocked behind user 1")
	}
	assert.Equal(t, 1, locks.size())
	releaseA()
	assert.Zero(t, locks.size())
}
