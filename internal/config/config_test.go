package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "DB_DRIVER", "STARTING_BALANCE", "TRADE_PRICING", "ENFORCE_HOLDINGS", "MARKET_STREAM_INTERVAL", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, 10000.0, cfg.StartingBalance)
	assert.Equal(t, PricingClient, cfg.TradePricing)
	assert.False(t, cfg.ServerPricing())
	assert.False(t, cfg.EnforceHoldings)
	assert.Equal(t, 2*time.Second, cfg.MarketStreamInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("STARTING_BALANCE", "2500.5")
	t.Setenv("TRADE_PRICING", "market")
	t.Setenv("ENFORCE_HOLDINGS", "true")
	t.Setenv("MARKET_STREAM_INTERVAL", "500ms")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := LoadConfig()
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 2500.5, cfg.StartingBalance)
	assert.True(t, cfg.ServerPricing())
	assert.True(t, cfg.EnforceHoldings)
	assert.Equal(t, 500*time.Millisecond, cfg.MarketStreamInterval)
	assert.Equal(t, 3, cfg.RedisDB)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{DBDriver: DriverMySQL, TradePricing: PricingClient, JWTSecret: "x", MarketStreamInterval: time.Second}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"driver", func(c *Config) { c.DBDriver = "oracle" }},
		{"pricing", func(c *Config) { c.TradePricing = "auction" }},
		{"secret", func(c *Config) { c.JWTSecret = "" }},
		{"balance", func(c *Config) { c.StartingBalance = -1 }},
		{"interval", func(c *Config) { c.MarketStreamInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBName: "finance", DBPath: "/tmp/f.db"}

	cfg.DBDriver = DriverMySQL
	assert.Equal(t, "u:p@tcp(db:3306)/finance?parseTime=true", cfg.DSN())

	cfg.DBDriver = DriverPostgres
	cfg.DBPort = "6543"
	assert.Equal(t, "host=db user=u password=p dbname=finance port=6543 sslmode=disable TimeZone=UTC", cfg.DSN())

	cfg.DBDriver = DriverSQLite
	assert.Contains(t, cfg.DSN(), "/tmp/f.db?")
	assert.Contains(t, cfg.DSN(), "foreign_keys(1)")
}
