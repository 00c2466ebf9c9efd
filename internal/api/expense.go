package api

import (
	"errors"                          // Error inspection
	"finance_sandbox/internal/domain" // Importing domain models
	"finance_sandbox/internal/store"  // Expense persistence
	"net/http"                        // HTTP status codes
	"strings"                         // Input trimming
	"time"                            // Expense dates

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// summaryWindow is the look-back of the weekly expense summary
const summaryWindow = 7 * 24 * time.Hour

// ExpenseRequest is the create and update payload
type ExpenseRequest struct {
	Category    string  `json:"category" binding:"required,max=64"` // Expense category
	Amount      float64 `json:"amount" binding:"required,gt=0"`     // Amount spent
	Date        string  `json:"date" binding:"required"`            // YYYY-MM-DD
	Description string  `json:"description" binding:"max=512"`      // Free text
}

// ExpenseResponse is the wire shape of an expense
type ExpenseResponse struct {
	ID          uint    `json:"id"`          // Expense ID
	Category    string  `json:"category"`    // Expense category
	Amount      float64 `json:"amount"`      // Amount spent
	Date        string  `json:"date"`        // YYYY-MM-DD
	Description string  `json:"description"` // Free text
}

func toExpenseResponse(e domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Category:    e.Category,
		Amount:      e.Amount,
		Date:        e.DateString(),
		Description: e.Description,
	}
}

// bindExpense validates the payload into an expense owned by userID
func bindExpense(c *gin.Context, userID uint) (domain.Expense, bool) {
	var req ExpenseRequest // Bind JSON request to struct
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return domain.Expense{}, false
	}
	date, err := time.ParseInLocation(domain.DateLayout, req.Date, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be YYYY-MM-DD"})
		return domain.Expense{}, false
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category is required"})
		return domain.Expense{}, false
	}
	return domain.Expense{
		UserID:      userID,
		Category:    category,
		Amount:      req.Amount,
		Date:        date,
		Description: strings.TrimSpace(req.Description),
	}, true
}

// ListExpensesHandler returns the user's expenses, newest first
func ListExpensesHandler(expenses *store.ExpenseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		list, err := expenses.ListByUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "Failed to fetch expenses")
			return
		}
		resp := make([]ExpenseResponse, len(list))
		for i, e := range list {
			resp[i] = toExpenseResponse(e)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// CreateExpenseHandler records a new expense
func CreateExpenseHandler(expenses *store.ExpenseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		expense, ok := bindExpense(c, userID)
		if !ok {
			return
		}
		if err := expenses.Create(c.Request.Context(), &expense); err != nil {
			respondError(c, err, "Failed to create expense")
			return
		}
		logger(c).WithFields(logrus.Fields{
			"expense_id": expense.ID,       // Created expense
			"category":   expense.Category, // Expense category
			"amount":     expense.Amount,   // Amount spent
		}).Info("Expense created")
		c.JSON(http.StatusCreated, gin.H{"success": true, "expense": toExpenseResponse(expense)})
	}
}

// UpdateExpenseHandler replaces one of the user's expenses
func UpdateExpenseHandler(expenses *store.ExpenseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		expense, ok := bindExpense(c, userID)
		if !ok {
			return
		}
		if err := expenses.Update(c.Request.Context(), userID, id, expense); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
				return
			}
			respondError(c, err, "Failed to update expense")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// DeleteExpenseHandler removes one of the user's expenses
func DeleteExpenseHandler(expenses *store.ExpenseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := expenses.Delete(c.Request.Context(), userID, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
				return
			}
			respondError(c, err, "Failed to delete expense")
			return
		}
		logger(c).WithField("expense_id", id).Info("Expense deleted")
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// WeeklyExpensesHandler sums the last seven days of expenses per category
func WeeklyExpensesHandler(expenses *store.ExpenseStore, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		today := now().UTC().Truncate(24 * time.Hour)
		totals, err := expenses.CategoryTotals(c.Request.Context(), userID, today.Add(-summaryWindow))
		if err != nil {
			respondError(c, err, "Failed to summarize expenses")
			return
		}
		c.JSON(http.StatusOK, totals)
	}
}
