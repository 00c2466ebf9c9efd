package api

import (
	"finance_sandbox/internal/trading" // Trade executor
	"finance_sandbox/internal/utils"   // Utility functions
	"net/http"                         // HTTP status codes

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// TradeRequest is the order payload
type TradeRequest struct {
	Symbol   string  `json:"symbol"`   // Ticker symbol
	Type     string  `json:"type"`     // buy or sell
	Quantity int64   `json:"quantity"` // Units
	Price    float64 `json:"price"`    // Unit price
}

// TradeHandler executes an order for the authenticated user
func TradeHandler(executor *trading.Executor, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		var req TradeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		res, err := executor.Execute(c.Request.Context(), trading.Request{
			UserID:   userID,       // Identity from the token
			Symbol:   req.Symbol,   // Ticker symbol
			Side:     req.Type,     // buy or sell
			Quantity: req.Quantity, // Units
			Price:    req.Price,    // Client price
		})
		if err != nil {
			logger(c).WithFields(logrus.Fields{
				"symbol":   req.Symbol,   // Ticker symbol
				"type":     req.Type,     // buy or sell
				"quantity": req.Quantity, // Units
				"price":    req.Price,    // Client price
				"error":    err.Error(),  // Failure reason
			}).Warn("Trade rejected")
			respondError(c, err, "Trade failed")
			return
		}
		logger(c).WithFields(logrus.Fields{
			"trade_id": res.Trade.ID,       // Ledger row
			"ref":      res.Trade.Ref,      // Public reference
			"symbol":   res.Trade.Symbol,   // Ticker symbol
			"type":     res.Trade.Side,     // buy or sell
			"quantity": res.Trade.Quantity, // Units
			"total":    res.Trade.Total,    // Amount moved
			"balance":  res.Balance,        // Balance after
		}).Info("Trade executed")
		// The trade changed the balance and the ledger
		if err := utils.InvalidateTradeCaches(c.Request.Context(), rdb, userID); err != nil {
			logger(c).WithField("error", err.Error()).Warn("Cache invalidation failed")
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,        // Order applied
			"message": res.Message, // Confirmation
			"trade":   res.Trade,   // Ledger row
			"balance": res.Balance, // Balance after
			"holding": res.Holding, // Position after
		})
	}
}
