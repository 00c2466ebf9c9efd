package api

import (
	"finance_sandbox/internal/domain" // Importing domain models
	"finance_sandbox/internal/store"  // Wallet, ledger and holdings
	"finance_sandbox/internal/utils"  // Utility functions
	"net/http"                        // HTTP status codes

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// walletView is the cached shape of a wallet read
type walletView struct {
	Balance float64 `json:"balance"` // Current balance
}

// tradePage is the cached shape of one ledger page
type tradePage struct {
	Trades     []domain.Trade `json:"trades"`      // Trades, most recent first
	Page       int            `json:"page"`        // Current page
	PageSize   int            `json:"page_size"`   // Page size
	Total      int64          `json:"total"`       // Total trades
	TotalPages int            `json:"total_pages"` // Total pages
}

// GetWalletHandler returns the balance of the authenticated user
func GetWalletHandler(wallets *store.WalletStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.WalletKey(userID) // Cache key for wallet
		var view walletView
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &view); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"balance": view.Balance, "cached": true})
			return
		}
		balance, err := wallets.GetBalance(ctx, userID)
		if err != nil {
			respondError(c, err, "Wallet not found")
			return
		}
		view.Balance = balance
		_ = utils.SetCache(ctx, rdb, cacheKey, view, utils.CacheTTL) // Cache the balance
		c.JSON(http.StatusOK, gin.H{"balance": balance, "cached": false})
	}
}

// GetTradeHistoryHandler returns the authenticated user's ledger, most recent first
func GetTradeHistoryHandler(ledger *store.TradeLedger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		page := pageFromQuery(c)
		cacheKey := utils.TradesKey(userID, page.Number, page.Size)
		var cached tradePage
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"trades":      cached.Trades,     // Cached trades
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total trades
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // From cache
			})
			return
		}
		trades, total, err := ledger.ListByUser(ctx, userID, page)
		if err != nil {
			respondError(c, err, "Failed to fetch trades")
			return
		}
		resp := tradePage{
			Trades:     trades,
			Page:       page.Number,
			PageSize:   page.Size,
			Total:      total,
			TotalPages: page.TotalPages(total),
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.CacheTTL) // Cache the page
		c.JSON(http.StatusOK, gin.H{
			"trades":      resp.Trades,     // Trades
			"page":        resp.Page,       // Current page
			"page_size":   resp.PageSize,   // Page size
			"total":       resp.Total,      // Total trades
			"total_pages": resp.TotalPages, // Total pages
			"cached":      false,           // Not from cache
		})
	}
}

// GetHoldingsHandler returns the authenticated user's open positions
func GetHoldingsHandler(holdings *store.HoldingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		positions, err := holdings.ListByUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "Failed to fetch holdings")
			return
		}
		c.JSON(http.StatusOK, gin.H{"holdings": positions})
	}
}
