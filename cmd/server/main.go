package main

import (
	"context"                         // context package is needed for Redis operations
	"finance_sandbox/internal/api"    // Custom package for API handlers
	"finance_sandbox/internal/config" // Custom package for configuration
	"finance_sandbox/internal/db"     // Database bootstrap
	"finance_sandbox/internal/market" // Quote sources
	"finance_sandbox/internal/utils"  // Logger setup
	"time"                            // Feed timeout

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	out := utils.SetupLogger(utils.LoggerOptions{
		Level:      cfg.LogLevel,
		JSON:       cfg.IsProd,
		File:       cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
	})
	gin.DefaultWriter = out // Access log goes wherever logrus goes

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	database, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	// SQLite is the zero-setup local mode, so it migrates on start
	if cfg.DBDriver == config.DriverSQLite {
		if err := db.Migrate(database); err != nil {
			logrus.Fatalf("migration failed: %v", err)
		}
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Random quotes unless an external feed is configured
	var quoter market.Quoter = market.NewRandomQuoter(nil)
	if cfg.MarketFeedURL != "" {
		quoter = market.NewFeedQuoter(cfg.MarketFeedURL, 5*time.Second)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r, err := api.NewRouter(api.NewDependencies(cfg, database, redisClient, quoter))
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"port":             cfg.AppPort,         // Listen port
		"db_driver":        cfg.DBDriver,        // Database driver
		"trade_pricing":    cfg.TradePricing,    // Pricing mode
		"enforce_holdings": cfg.EnforceHoldings, // Sell validation
	}).Info("Server running")
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
