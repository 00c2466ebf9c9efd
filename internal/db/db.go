package db

import (
	"finance_sandbox/internal/config" // Custom package for configuration

	"github.com/glebarez/sqlite" // Pure Go SQLite driver for GORM
	"github.com/pkg/errors"      // Error wrapping
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/driver/postgres"    // PostgreSQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM log levels
)

// Open connects to the configured database
func Open(cfg *config.Config) (*gorm.DB, error) {
	return OpenDialect(cfg.DBDriver, cfg.DSN(), cfg.IsProd)
}

// OpenDialect connects with an explicit driver name and DSN
func OpenDialect(driver, dsn string, quiet bool) (*gorm.DB, error) {
	var dialector gorm.Dialector // Dialector for the chosen driver
	switch driver {
	case config.DriverMySQL:
		dialector = mysql.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}
	gcfg := &gorm.Config{TranslateError: true} // Map driver errors such as duplicate keys
	if quiet {
		gcfg.Logger = logger.Default.LogMode(logger.Silent) // No SQL logging in production
	}
	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", driver)
	}
	if driver == config.DriverSQLite {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY under concurrent trades
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "sqlite pool")
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}
