package api

import (
	"finance_sandbox/internal/domain" // Importing domain models
	"finance_sandbox/internal/store"  // Users and ledger
	"finance_sandbox/internal/utils"  // Utility functions
	"net/http"                        // HTTP status codes
	"strconv"                         // String conversion
	"strings"                         // String manipulation
	"time"                            // Date filters

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID        uint          `json:"id"`         // User ID
	Username  string        `json:"username"`   // Username
	Email     string        `json:"email"`      // Contact address
	Role      string        `json:"role"`       // User role
	CreatedAt time.Time     `json:"created_at"` // Registration time
	Wallet    domain.Wallet `json:"wallet"`     // Associated wallet
}

// userListPage is the cached shape of one admin user page
type userListPage struct {
	Users      []UserAdminResponse `json:"users"`       // List of users
	Page       int                 `json:"page"`        // Current page
	PageSize   int                 `json:"page_size"`   // Page size
	Total      int64               `json:"total"`       // Total number of users
	TotalPages int                 `json:"total_pages"` // Total pages
}

// ListUsersHandler returns all users with their wallet info
func ListUsersHandler(users *store.UserStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page := pageFromQuery(c)
		// Balances move with every trade, so this view is cached only briefly
		cacheKey := "admin:users:page=" + strconv.Itoa(page.Number) + ":size=" + strconv.Itoa(page.Size)
		var cached userListPage
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":       cached.Users,      // List of users
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total number of users
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		list, total, err := users.List(ctx, page)
		if err != nil {
			respondError(c, err, "Failed to fetch users")
			return
		}
		resp := userListPage{
			Users:      make([]UserAdminResponse, len(list)),
			Page:       page.Number,
			PageSize:   page.Size,
			Total:      total,
			TotalPages: page.TotalPages(total),
		}
		for i, u := range list {
			resp.Users[i] = UserAdminResponse{
				ID:        u.ID,        // User ID
				Username:  u.Username,  // Username
				Email:     u.Email,     // Contact address
				Role:      u.Role,      // User role
				CreatedAt: u.CreatedAt, // Registration time
				Wallet:    u.Wallet,    // Associated wallet
			}
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 10*time.Second)
		c.JSON(http.StatusOK, gin.H{
			"users":       resp.Users,      // List of users
			"page":        resp.Page,       // Current page
			"page_size":   resp.PageSize,   // Page size
			"total":       resp.Total,      // Total number of users
			"total_pages": resp.TotalPages, // Total pages
			"cached":      false,           // Indicate response is not from cache
		})
	}
}

// parseTime accepts RFC 3339 timestamps or YYYY-MM-DD dates. A date names
// its first instant, or its last one when endOfDay is set.
func parseTime(v string, endOfDay bool) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), true
	}
	if t, err := time.ParseInLocation(domain.DateLayout, v, time.UTC); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond) // to=YYYY-MM-DD includes the whole day
		}
		return t, true
	}
	return time.Time{}, false
}

// tradeFilterFromQuery builds the admin trade filter, writing a 400 on bad input
func tradeFilterFromQuery(c *gin.Context) (store.TradeFilter, bool) {
	var f store.TradeFilter
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return f, false
		}
		f.UserID = uint(id) // Filter by user ID
	}
	f.Symbol = strings.ToUpper(strings.TrimSpace(c.Query("symbol"))) // Filter by symbol
	if v := c.Query("type"); v != "" {
		side, ok := domain.ParseSide(v)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type"})
			return f, false
		}
		f.Side = side // Filter by side
	}
	for _, p := range []struct {
		name     string
		dst      *time.Time
		endOfDay bool
	}{{"from", &f.From, false}, {"to", &f.To, true}} {
		v := c.Query(p.name)
		if v == "" {
			continue
		}
		t, ok := parseTime(v, p.endOfDay)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + p.name})
			return f, false
		}
		*p.dst = t
	}
	return f, true
}

// ListTradesHandler returns all trades, with optional filtering by user, symbol, type, or date
func ListTradesHandler(ledger *store.TradeLedger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		filter, ok := tradeFilterFromQuery(c)
		if !ok {
			return
		}
		page := pageFromQuery(c)
		// Build cache key from all query params
		var keyParts []string
		for _, k := range []string{"user_id", "symbol", "type", "from", "to"} {
			keyParts = append(keyParts, k+"="+c.Query(k))
		}
		keyParts = append(keyParts, "page="+strconv.Itoa(page.Number), "size="+strconv.Itoa(page.Size))
		cacheKey := utils.AdminTradesPrefix + strings.Join(keyParts, ":")
		var cached tradePage
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"trades":      cached.Trades,     // List of trades
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total number of trades
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		trades, total, err := ledger.List(ctx, filter, page)
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
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.CacheTTL)
		c.JSON(http.StatusOK, gin.H{
			"trades":      resp.Trades,     // List of trades
			"page":        resp.Page,       // Current page
			"page_size":   resp.PageSize,   // Page size
			"total":       resp.Total,      // Total number of trades
			"total_pages": resp.TotalPages, // Total pages
			"cached":      false,           // Indicate response is not from cache
		})
	}
}
