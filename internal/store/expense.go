package store

import (
	"context"                         // Request scoped cancellation
	"finance_sandbox/internal/domain" // Importing domain models
	"time"                            // Summary windows

	"github.com/pkg/errors" // Error wrapping
	"gorm.io/gorm"          // GORM ORM library
)

// ExpenseStore persists user expenses; every query is scoped to the owner
type ExpenseStore struct {
	db *gorm.DB
}

// NewExpenseStore returns an expense store over db
func NewExpenseStore(db *gorm.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

// Create saves a new expense
func (s *ExpenseStore) Create(ctx context.Context, expense *domain.Expense) error {
	if err := s.db.WithContext(ctx).Create(expense).Error; err != nil {
		return wrap(err, "create expense")
	}
	return nil
}

// ListByUser returns the user's expenses, newest date first
func (s *ExpenseStore) ListByUser(ctx context.Context, userID uint) ([]domain.Expense, error) {
	expenses := []domain.Expense{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc").Order("id desc").
		Find(&expenses).Error; err != nil {
		return nil, wrap(err, "list expenses")
	}
	return expenses, nil
}

// Update replaces the editable fields of one of the user's expenses
func (s *ExpenseStore) Update(ctx context.Context, userID, id uint, in domain.Expense) error {
	db := s.db.WithContext(ctx)
	res := db.Model(&domain.Expense{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"category":    in.Category,    // Expense category
			"amount":      in.Amount,      // Amount spent
			"date":        in.Date,        // Day of the expense
			"description": in.Description, // Free text
		})
	if res.Error != nil {
		return wrap(res.Error, "update expense")
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL reports zero rows when nothing changed, so confirm the row exists
	var count int64
	if err := db.Model(&domain.Expense{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
		return wrap(err, "find expense")
	}
	if count == 0 {
		return errors.Wrapf(domain.ErrNotFound, "expense %d", id)
	}
	return nil
}

// Delete removes one of the user's expenses
func (s *ExpenseStore) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Expense{})
	if res.Error != nil {
		return wrap(res.Error, "delete expense")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(domain.ErrNotFound, "expense %d", id)
	}
	return nil
}

// CategoryTotals sums the user's expenses per category from since onwards
func (s *ExpenseStore) CategoryTotals(ctx context.Context, userID uint, since time.Time) (map[string]float64, error) {
	var rows []struct {
		Category string
		Total    float64
	}
	if err := s.db.WithContext(ctx).Model(&domain.Expense{}).
		Select("category, SUM(amount) AS total").
		Where("user_id = ? AND date >= ?", userID, since).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, wrap(err, "sum expenses")
	}
	totals := make(map[string]float64, len(rows))
	for _, r := range rows {
		totals[r.Category] = r.Total
	}
	return totals, nil
}
