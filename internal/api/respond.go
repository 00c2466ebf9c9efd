package api

import (
	"errors"                              // Error inspection
	"finance_sandbox/internal/domain"     // Domain errors
	"finance_sandbox/internal/middleware" // Identity and request ids
	"finance_sandbox/internal/store"      // Pagination
	"net/http"                            // HTTP status codes
	"strconv"                             // Query parsing
	"strings"                             // Message trimming

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// requireUser returns the authenticated user id or writes a 401
func requireUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	}
	return userID, ok
}

// pageFromQuery reads page and page_size, falling back to the defaults
func pageFromQuery(c *gin.Context) store.Page {
	page, _ := strconv.Atoi(c.Query("page"))      // Zero when absent or invalid
	size, _ := strconv.Atoi(c.Query("page_size")) // Zero when absent or invalid
	return store.NewPage(page, size)
}

// paramID parses a positive numeric path parameter
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// logger returns an entry tagged with the request id and user
func logger(c *gin.Context) *logrus.Entry {
	fields := logrus.Fields{"request_id": c.GetString(middleware.RequestIDKey)} // Correlation id
	if userID, ok := middleware.CurrentUserID(c); ok {
		fields["user_id"] = userID // Authenticated user
	}
	return logrus.WithFields(fields)
}

// respondError translates domain errors into structured responses.
// fallback is the message used for unexpected failures.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient funds"})
	case errors.Is(err, domain.ErrInsufficientHoldings):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient holdings"})
	case errors.Is(err, domain.ErrUnknownSymbol):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown symbol"})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": inputMessage(err)})
	case errors.Is(err, domain.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	case errors.Is(err, domain.ErrNotFound):
		// Registration always creates the wallet, so a missing one is an integrity failure
		logger(c).WithField("error", err.Error()).Error("Missing record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	default:
		logger(c).WithField("error", err.Error()).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// inputMessage strips the sentinel suffix from validation errors
func inputMessage(err error) string {
	msg := strings.TrimSuffix(err.Error(), domain.ErrInvalidInput.Error())
	msg = strings.TrimSuffix(msg, ": ")
	if msg == "" {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
