package api

import (
	"errors"                          // Error inspection
	"finance_sandbox/internal/domain" // Importing domain models
	"finance_sandbox/internal/store"  // User persistence
	"finance_sandbox/internal/utils"  // Utility functions
	"net/http"                        // HTTP status codes
	"regexp"                          // Regular expressions
	"strings"                         // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`    // Username must be provided
	Email    string `json:"email" binding:"required,email"` // Valid contact address
	Password string `json:"password" binding:"required"`    // Password must be provided
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the issued token
type AuthResponse struct {
	Token  string `json:"token"`             // JWT token
	UserID uint   `json:"user_id,omitempty"` // Set on registration
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)

// isValidUsername checks the username is 3-32 letters, digits or underscores
func isValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// isValidPassword checks if the password length is between 8 and 64 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 64
}

// RegisterHandler creates a user together with a wallet funded with startingBalance
func RegisterHandler(users *store.UserStore, startingBalance float64, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if !isValidUsername(req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-32 letters, digits or underscores"})
			return
		}
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-64 characters"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// Lowercase username and email to keep uniqueness case-insensitive
		user := domain.User{
			Username: strings.ToLower(req.Username),
			Email:    strings.ToLower(strings.TrimSpace(req.Email)),
			Password: string(hash),
		}
		if err := users.Register(c.Request.Context(), &user, startingBalance); err != nil {
			if errors.Is(err, store.ErrDuplicateUser) {
				c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
				return
			}
			respondError(c, err, "Registration failed")
			return
		}
		logger(c).WithFields(logrus.Fields{
			"new_user_id": user.ID,             // Created user
			"wallet_id":   user.Wallet.ID,      // Created wallet
			"balance":     user.Wallet.Balance, // Starting balance
		}).Info("User registered")
		// Registration signs the user in
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusCreated, AuthResponse{Token: token, UserID: user.ID})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(users *store.UserStore, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := users.FindByUsername(c.Request.Context(), strings.ToLower(req.Username))
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if err != nil {
			respondError(c, err, "Login failed")
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}
