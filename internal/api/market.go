package api

import (
	"finance_sandbox/internal/market" // Quote source
	"net/http"                        // HTTP status codes
	"time"                            // Stream cadence

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/gorilla/websocket" // Websocket upgrades
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

const streamWriteWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// MarketDataHandler returns a quote for every symbol in the universe
func MarketDataHandler(quoter market.Quoter) gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot, err := market.Snapshot(c.Request.Context(), quoter, market.Symbols())
		if err != nil {
			logger(c).WithField("error", err.Error()).Error("Market data unavailable")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Market data unavailable"})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

// MarketStreamHandler upgrades to a websocket and pushes a snapshot every interval
// until the client goes away
func MarketStreamHandler(quoter market.Quoter, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return // Upgrade already wrote the error response
		}
		defer conn.Close()
		log := logger(c)
		log.Debug("Market stream opened")

		// Reader goroutine notices the client closing the connection
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ctx := c.Request.Context()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			snapshot, err := market.Snapshot(ctx, quoter, market.Symbols())
			if err != nil {
				log.WithField("error", err.Error()).Warn("Market stream snapshot failed")
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(snapshot); err != nil {
				log.WithFields(logrus.Fields{"error": err.Error()}).Debug("Market stream closed")
				return
			}
			select {
			case <-ticker.C:
			case <-closed:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}
