package domain

import "time" // Time for creation timestamps

// RoleAdmin is the role granted access to the admin routes
const RoleAdmin = "admin"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                        // Primary key
	Username  string    `gorm:"size:32;uniqueIndex;not null" json:"username"`                // Unique username
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`                  // Unique contact address
	Password  string    `gorm:"not null" json:"-"`                                           // Hashed password, never serialized
	Role      string    `gorm:"size:16;default:user" json:"role"`                            // Role: user or admin
	CreatedAt time.Time `json:"created_at"`                                                  // Registration time
	Wallet    Wallet    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"wallet"` // One-to-one relationship with Wallet
}
