package middleware

import (
	"finance_sandbox/internal/utils" // JWT utility functions
	"net/http"                       // HTTP status codes
	"strings"                        // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// UserIDKey is the gin context key holding the authenticated user id
const UserIDKey = "userID"

// JWTAuthMiddleware validates Bearer tokens and stores the user id in the context
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"request_id": c.GetString(RequestIDKey), // Correlation id
				"error":      err.Error(),               // Parse failure
			}).Debug("Rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.Set(UserIDKey, claims.UserID) // Store userID in context
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id placed by JWTAuthMiddleware
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
