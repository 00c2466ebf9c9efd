package domain

import "time" // Time for update timestamps

// StartingBalance is the amount every wallet is funded with at registration
const StartingBalance = 10000.0

// Wallet Model
type Wallet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                // Primary key
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"` // Foreign key to User
	Balance   float64   `gorm:"not null;default:0" json:"balance"`   // Wallet balance
	UpdatedAt time.Time `json:"updated_at"`                          // Last balance change
}
