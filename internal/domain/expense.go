package domain

import "time" // Time for expense dates

// DateLayout is the wire format of expense dates
const DateLayout = "2006-01-02"

// Expense Model
type Expense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                                   // Primary key
	UserID      uint      `gorm:"index;not null" json:"-"`                                // Foreign key to User
	User        *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // Owning user
	Category    string    `gorm:"size:64;not null" json:"category"`                       // Expense category
	Amount      float64   `gorm:"not null" json:"amount"`                                 // Amount spent
	Date        time.Time `gorm:"index;not null" json:"-"`                                // Day the expense happened
	Description string    `gorm:"size:512" json:"description"`                            // Free text
	CreatedAt   time.Time `json:"created_at"`                                             // Creation time
}

// DateString formats the expense date for responses
func (e Expense) DateString() string {
	return e.Date.Format(DateLayout)
}
