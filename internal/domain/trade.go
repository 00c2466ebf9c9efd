package domain

import (
	"strings" // String normalization
	"time"    // Execution timestamps
)

// Side is the direction of a trade
type Side string

const (
	SideBuy  Side = "buy"  // Spend wallet balance
	SideSell Side = "sell" // Credit wallet balance
)

// ParseSide normalizes s and reports whether it names a known side
func ParseSide(s string) (Side, bool) {
	side := Side(strings.ToLower(strings.TrimSpace(s)))
	switch side {
	case SideBuy, SideSell:
		return side, true
	}
	return "", false
}

// Title returns the side capitalized for confirmation messages
func (s Side) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Trade Model. Rows are written once and never updated or deleted.
type Trade struct {
	ID         uint      `gorm:"primaryKey" json:"id"`                                   // Primary key
	Ref        string    `gorm:"size:36;uniqueIndex;not null" json:"ref"`                // Public reference (UUID)
	UserID     uint      `gorm:"index;not null" json:"user_id"`                          // Foreign key to User
	User       *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // Owning user
	Symbol     string    `gorm:"size:16;index;not null" json:"symbol"`                   // Ticker symbol
	Side       Side      `gorm:"size:4;not null" json:"type"`                            // buy or sell
	Quantity   int64     `gorm:"not null" json:"quantity"`                               // Units traded, always positive
	Price      float64   `gorm:"not null" json:"price"`                                  // Unit price
	Total      float64   `gorm:"not null" json:"total"`                                  // Quantity x price
	ExecutedAt time.Time `gorm:"index;not null" json:"executed_at"`                      // Execution time
}
