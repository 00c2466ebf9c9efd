package domain

import "time" // Time for update timestamps

// Holding Model. Quantity is signed: with holdings enforcement off a sell of
// units never bought leaves a short position.
type Holding struct {
	ID        uint      `gorm:"primaryKey" json:"-"`                                                // Primary key
	UserID    uint      `gorm:"uniqueIndex:idx_holding_user_symbol;not null" json:"-"`              // Foreign key to User
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`             // Owning user
	Symbol    string    `gorm:"size:16;uniqueIndex:idx_holding_user_symbol;not null" json:"symbol"` // Ticker symbol
	Quantity  int64     `gorm:"not null;default:0" json:"quantity"`                                 // Net units held
	UpdatedAt time.Time `json:"updated_at"`                                                         // Last change
}
