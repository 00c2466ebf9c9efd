package api

import (
	"finance_sandbox/internal/config"     // Custom package for configuration
	"finance_sandbox/internal/market"     // Quote source
	"finance_sandbox/internal/middleware" // Custom package for middleware
	"finance_sandbox/internal/store"      // Repositories
	"finance_sandbox/internal/trading"    // Trade executor
	"time"                                // Stream cadence and clock

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Dependencies wires the handlers to their collaborators
type Dependencies struct {
	Users           *store.UserStore    // Registration and admin listing
	Wallets         *store.WalletStore  // Balance reads
	Ledger          *store.TradeLedger  // Trade history
	Holdings        *store.HoldingStore // Positions
	Expenses        *store.ExpenseStore // Expense CRUD
	Executor        *trading.Executor   // Trade execution
	Quoter          market.Quoter       // Market data
	Redis           *redis.Client       // Read cache
	JWTSecret       string              // Token signing key
	StartingBalance float64             // New wallet balance
	StreamInterval  time.Duration       // Market stream cadence
	TrustedProxies  []string            // Proxies allowed to set client IP headers
	Now             func() time.Time    // Clock for date windows
}

// NewDependencies builds the stores and executor over db
func NewDependencies(cfg *config.Config, db *gorm.DB, rdb *redis.Client, quoter market.Quoter) Dependencies {
	return Dependencies{
		Users:    store.NewUserStore(db),
		Wallets:  store.NewWalletStore(db),
		Ledger:   store.NewTradeLedger(db),
		Holdings: store.NewHoldingStore(db),
		Expenses: store.NewExpenseStore(db),
		Executor: trading.NewExecutor(db, quoter, trading.Options{
			ServerPricing:   cfg.ServerPricing(),
			EnforceHoldings: cfg.EnforceHoldings,
		}),
		Quoter:          quoter,
		Redis:           rdb,
		JWTSecret:       cfg.JWTSecret,
		StartingBalance: cfg.StartingBalance,
		StreamInterval:  cfg.MarketStreamInterval,
		TrustedProxies:  []string{"127.0.0.1"},
		Now:             time.Now,
	}
}

// NewRouter registers every route on a fresh gin engine
func NewRouter(d Dependencies) (*gin.Engine, error) {
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), gin.Logger(), gin.Recovery())
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}

	// Public routes
	public := r.Group("/api")
	public.POST("/register", RegisterHandler(d.Users, d.StartingBalance, d.JWTSecret)) // Registration endpoint
	public.POST("/login", LoginHandler(d.Users, d.JWTSecret))                          // Login endpoint
	public.GET("/market-data", MarketDataHandler(d.Quoter))                            // Quote snapshot
	public.GET("/market-data/stream", MarketStreamHandler(d.Quoter, d.StreamInterval)) // Quote stream

	// Account routes (protected by JWT)
	account := r.Group("/api")
	account.Use(middleware.JWTAuthMiddleware(d.JWTSecret))
	account.GET("/wallet", GetWalletHandler(d.Wallets, d.Redis))            // Balance
	account.POST("/trade", TradeHandler(d.Executor, d.Redis))               // Execute an order
	account.GET("/trades", GetTradeHistoryHandler(d.Ledger, d.Redis))       // Trade history
	account.GET("/holdings", GetHoldingsHandler(d.Holdings))                // Positions
	account.GET("/expenses", ListExpensesHandler(d.Expenses))               // List expenses
	account.POST("/expenses", CreateExpenseHandler(d.Expenses))             // Create expense
	account.GET("/expenses/weekly", WeeklyExpensesHandler(d.Expenses, now)) // Weekly summary
	account.PUT("/expenses/:id", UpdateExpenseHandler(d.Expenses))          // Update expense
	account.DELETE("/expenses/:id", DeleteExpenseHandler(d.Expenses))       // Delete expense

	// Admin routes (protected, admin only)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(d.JWTSecret), middleware.AdminOnlyMiddleware(d.Users))
	admin.GET("/users", ListUsersHandler(d.Users, d.Redis))    // List users endpoint
	admin.GET("/trades", ListTradesHandler(d.Ledger, d.Redis)) // List trades endpoint
	return r, nil
}
