package config

import (
	"finance_sandbox/internal/domain" // Domain defaults
	"fmt"                             // For DSN formatting
	"os"                              // For environment variables
	"strconv"                         // For string to number conversion
	"strings"                         // For normalizing enum values
	"time"                            // For intervals

	"github.com/joho/godotenv" // For loading .env files
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"    // Default production database
	DriverPostgres = "postgres" // Alternative production database
	DriverSQLite   = "sqlite"   // Local single-file database
)

// Trade pricing modes
const (
	PricingClient = "client" // Trades execute at the client-supplied price
	PricingMarket = "market" // Trades are re-priced against the market quoter
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBDriver   string // Database driver: mysql, postgres or sqlite
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	DBPath     string // SQLite database file
	JWTSecret  string // JWT secret key
	RedisAddr  string // Redis server address
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number
	IsProd     bool   // Is production environment

	StartingBalance      float64       // Balance credited to every new wallet
	TradePricing         string        // client or market
	EnforceHoldings      bool          // Reject sells of units the user does not hold
	MarketFeedURL        string        // External quote feed, random quotes when empty
	MarketStreamInterval time.Duration // Push interval of the market data stream

	LogLevel      string // logrus level name
	LogFile       string // Rotated log file, stdout only when empty
	LogMaxSize    int    // Megabytes before rotation
	LogMaxBackups int    // Rotated files kept
	LogMaxAge     int    // Days rotated files are kept
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:    getEnv("APP_PORT", "8080"),                        // Application port
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)), // Database driver
		DBUser:     os.Getenv("DB_USER"),                              // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),                          // Database password
		DBHost:     getEnv("DB_HOST", "127.0.0.1"),                    // Database host
		DBPort:     os.Getenv("DB_PORT"),                              // Database port
		DBName:     os.Getenv("DB_NAME"),                              // Database name
		DBPath:     getEnv("DB_PATH", "finance.db"),                   // SQLite database file
		JWTSecret:  os.Getenv("JWT_SECRET"),                           // JWT secret key
		RedisAddr:  getEnv("REDIS_ADDR", "127.0.0.1:6379"),            // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),                           // Redis password
		RedisDB:    redisDB,                                           // Redis database number
		IsProd:     os.Getenv("IS_PROD") == "true",                    // Is production environment

		StartingBalance:      getFloat("STARTING_BALANCE", domain.StartingBalance),    // New wallet balance
		TradePricing:         strings.ToLower(getEnv("TRADE_PRICING", PricingClient)), // Pricing mode
		EnforceHoldings:      os.Getenv("ENFORCE_HOLDINGS") == "true",                 // Sell validation
		MarketFeedURL:        os.Getenv("MARKET_FEED_URL"),                            // External feed
		MarketStreamInterval: getDuration("MARKET_STREAM_INTERVAL", 2*time.Second),    // Stream cadence

		LogLevel:      getEnv("LOG_LEVEL", "info"),  // Log level
		LogFile:       os.Getenv("LOG_FILE"),        // Log file
		LogMaxSize:    getInt("LOG_MAX_SIZE", 100),  // Megabytes per file
		LogMaxBackups: getInt("LOG_MAX_BACKUPS", 3), // Files kept
		LogMaxAge:     getInt("LOG_MAX_AGE", 28),    // Days kept
	}
}

// Validate reports configuration the server cannot start with
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.TradePricing {
	case PricingClient, PricingMarket:
	default:
		return fmt.Errorf("unsupported TRADE_PRICING %q", c.TradePricing)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.StartingBalance < 0 {
		return fmt.Errorf("STARTING_BALANCE must not be negative")
	}
	if c.MarketStreamInterval <= 0 {
		return fmt.Errorf("MARKET_STREAM_INTERVAL must be positive")
	}
	return nil
}

// ServerPricing reports whether trades are priced from the market quoter
func (c *Config) ServerPricing() bool {
	return c.TradePricing == PricingMarket
}

// DSN builds the Data Source Name for the configured driver
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverPostgres:
		port := c.DBPort
		if port == "" {
			port = "5432" // Default PostgreSQL port
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, port)
	case DriverSQLite:
		return c.DBPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	default:
		port := c.DBPort
		if port == "" {
			port = "3306" // Default MySQL port
		}
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true"
	}
}

// getEnv returns the variable or fallback when unset
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
