package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// TokenTTL is how long an issued token stays valid
const TokenTTL = 24 * time.Hour

// tokenIssuer identifies tokens minted by this service
const tokenIssuer = "finance_sandbox"

// Claims carries the authenticated identity
type Claims struct {
	UserID               uint `json:"user_id"` // Custom claim for user ID
	jwt.RegisteredClaims      // Standard JWT claims
}

// GenerateJWT creates a JWT token for a given user ID
func GenerateJWT(userID uint, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID, // Custom claim for user ID
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,                           // Minted by this service
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),               // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID != 0 {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
