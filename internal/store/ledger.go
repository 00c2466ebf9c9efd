package store

import (
	"context"                         // Request scoped cancellation
	"finance_sandbox/internal/domain" // Importing domain models
	"time"                            // Execution timestamps

	"github.com/google/uuid" // Trade references
	"github.com/pkg/errors"  // Error wrapping
	"gorm.io/gorm"           // GORM ORM library
)

// TradeLedger is the append-only history of executed trades
type TradeLedger struct {
	db *gorm.DB
}

// TradeFilter narrows the admin trade listing; zero values match everything
type TradeFilter struct {
	UserID uint
	Symbol string
	Side   domain.Side
	From   time.Time
	To     time.Time
}

// NewTradeLedger returns a ledger over db
func NewTradeLedger(db *gorm.DB) *TradeLedger {
	return &TradeLedger{db: db}
}

// WithTx returns a copy of the ledger bound to tx
func (l *TradeLedger) WithTx(tx *gorm.DB) *TradeLedger {
	return &TradeLedger{db: tx}
}

// Append records trade and returns its id. A trade that already carries an
// id is rejected: rows are written once.
func (l *TradeLedger) Append(ctx context.Context, trade *domain.Trade) (uint, error) {
	if trade.ID != 0 {
		return 0, errors.Wrapf(domain.ErrInvalidInput, "trade %d already recorded", trade.ID)
	}
	if trade.Ref == "" {
		trade.Ref = uuid.NewString() // Public reference
	}
	if trade.ExecutedAt.IsZero() {
		trade.ExecutedAt = time.Now().UTC()
	}
	if err := l.db.WithContext(ctx).Create(trade).Error; err != nil {
		return 0, wrap(err, "append trade")
	}
	return trade.ID, nil
}

// ListByUser returns one page of the user's trades, most recent first
func (l *TradeLedger) ListByUser(ctx context.Context, userID uint, page Page) ([]domain.Trade, int64, error) {
	return l.List(ctx, TradeFilter{UserID: userID}, page)
}

// List returns one page of trades matching f, most recent first, and the total match count
func (l *TradeLedger) List(ctx context.Context, f TradeFilter, page Page) ([]domain.Trade, int64, error) {
	query := l.db.WithContext(ctx).Model(&domain.Trade{}) // Start building the query
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID) // Filter by user
	}
	if f.Symbol != "" {
		query = query.Where("symbol = ?", f.Symbol) // Filter by symbol
	}
	if f.Side != "" {
		query = query.Where("side = ?", f.Side) // Filter by side
	}
	if !f.From.IsZero() {
		query = query.Where("executed_at >= ?", f.From) // Filter by start time
	}
	if !f.To.IsZero() {
		query = query.Where("executed_at <= ?", f.To) // Filter by end time
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "count trades")
	}
	trades := []domain.Trade{}
	if err := query.Order("executed_at desc").Order("id desc").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&trades).Error; err != nil {
		return nil, 0, wrap(err, "list trades")
	}
	return trades, total, nil
}
