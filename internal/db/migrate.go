package db

import (
	"finance_sandbox/internal/domain" // Importing domain models

	"github.com/pkg/errors"      // Error wrapping
	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Models lists every table owned by the application, in creation order
func Models() []any {
	return []any{&domain.User{}, &domain.Wallet{}, &domain.Trade{}, &domain.Holding{}, &domain.Expense{}}
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

// PromoteAdmin grants the admin role to an existing user
func PromoteAdmin(db *gorm.DB, username string) error {
	res := db.Model(&domain.User{}).Where("username = ?", username).Update("role", domain.RoleAdmin)
	if res.Error != nil {
		return errors.Wrap(res.Error, "promote admin")
	}
	// No row means no such user
	if res.RowsAffected == 0 {
		return errors.Wrapf(domain.ErrNotFound, "user %q", username)
	}
	logrus.WithField("username", username).Info("User promoted to admin")
	return nil
}
