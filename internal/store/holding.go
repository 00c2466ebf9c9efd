package store

import (
	"context"                         // Request scoped cancellation
	"finance_sandbox/internal/domain" // Importing domain models

	"github.com/pkg/errors" // Error wrapping
	"gorm.io/gorm"          // GORM ORM library
)

// HoldingStore tracks the net quantity each user holds per symbol
type HoldingStore struct {
	db *gorm.DB
}

// NewHoldingStore returns a holding store over db
func NewHoldingStore(db *gorm.DB) *HoldingStore {
	return &HoldingStore{db: db}
}

// WithTx returns a copy of the store bound to tx
func (s *HoldingStore) WithTx(tx *gorm.DB) *HoldingStore {
	return &HoldingStore{db: tx}
}

// Quantity returns the units of symbol held by userID, zero when none
func (s *HoldingStore) Quantity(ctx context.Context, userID uint, symbol string) (int64, error) {
	var holding domain.Holding
	err := s.db.WithContext(ctx).Where("user_id = ? AND symbol = ?", userID, symbol).First(&holding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, wrap(err, "get holding")
	}
	return holding.Quantity, nil
}

// Apply adds delta units of symbol to the user's position and returns the new quantity.
// Callers serialize per user; the executor holds the wallet row lock while applying.
func (s *HoldingStore) Apply(ctx context.Context, userID uint, symbol string, delta int64) (int64, error) {
	db := s.db.WithContext(ctx)
	var holding domain.Holding
	err := db.Where("user_id = ? AND symbol = ?", userID, symbol).First(&holding).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		holding = domain.Holding{UserID: userID, Symbol: symbol, Quantity: delta}
		if err := db.Create(&holding).Error; err != nil {
			return 0, wrap(err, "create holding")
		}
		return holding.Quantity, nil
	case err != nil:
		return 0, wrap(err, "get holding")
	}
	current := holding.Quantity
	if err := db.Model(&holding).Update("quantity", gorm.Expr("quantity + ?", delta)).Error; err != nil {
		return 0, wrap(err, "update holding")
	}
	return current + delta, nil
}

// ListByUser returns the user's non-empty positions ordered by symbol
func (s *HoldingStore) ListByUser(ctx context.Context, userID uint) ([]domain.Holding, error) {
	holdings := []domain.Holding{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND quantity <> 0", userID).
		Order("symbol asc").
		Find(&holdings).Error; err != nil {
		return nil, wrap(err, "list holdings")
	}
	return holdings, nil
}
