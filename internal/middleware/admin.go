package middleware

import (
	"errors"                          // Error inspection
	"finance_sandbox/internal/domain" // Importing domain models
	"finance_sandbox/internal/store"  // User lookups
	"net/http"                        // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the user's role from the database on each request
func AdminOnlyMiddleware(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c) // Get userID from context
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		user, err := users.Get(c.Request.Context(), userID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// Token outlived its user
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}
		// Check if user role is admin
		if user.Role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
