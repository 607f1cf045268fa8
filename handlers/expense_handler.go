package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quickbill-app/quickbill-backend/errors"
	"github.com/quickbill-app/quickbill-backend/logger"
	"github.com/quickbill-app/quickbill-backend/middleware"
	expensesvc "github.com/quickbill-app/quickbill-backend/models/expense/service"
	"github.com/quickbill-app/quickbill-backend/types"
)

type ExpenseHandler struct {
	expenseService *expensesvc.ExpenseService
}

func NewExpenseHandler(expenseService *expensesvc.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
	}
}

// CreateExpenseHandler godoc
// @Summary Create a new shared expense
// @Description Creates an expense split among the listed participants and posts each share to the balance ledger.
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body types.CreateExpenseRequest true "Expense details"
// @Success 201 {object} types.Expense "Successfully created expense"
// @Failure 400 {object} middleware.ErrorResponse "Invalid input or split"
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Router /expenses [post]
// @Security BearerAuth
func (h *ExpenseHandler) CreateExpenseHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req types.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		if err := c.Error(errors.ValidationFailed("Invalid request body", err.Error())); err != nil {
			log.Errorw("Failed to add validation error", "error", err)
		}
		return
	}

	userID := c.GetString(string(middleware.UserIDKey))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), userID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// ListExpensesHandler returns every expense the user created or shares in.
func (h *ExpenseHandler) ListExpensesHandler(c *gin.Context) {
	userID := c.GetString(string(middleware.UserIDKey))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// GetExpenseHandler returns one expense with its shares.
func (h *ExpenseHandler) GetExpenseHandler(c *gin.Context) {
	userID := c.GetString(string(middleware.UserIDKey))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	expenseID := c.Param("id")
	if expenseID == "" {
		_ = c.Error(errors.ValidationFailed("Expense ID missing", "expense id is required"))
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), userID, expenseID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// SettleExpenseHandler marks the expense settled. Creator only; the balance
// ledger is left untouched.
func (h *ExpenseHandler) SettleExpenseHandler(c *gin.Context) {
	userID := c.GetString(string(middleware.UserIDKey))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	expenseID := c.Param("id")
	if err := h.expenseService.MarkSettled(c.Request.Context(), userID, expenseID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "expense settled"})
}

// PaySharePayload selects which share to mark when the creator acts on a
// debtor's behalf. Empty means the caller's own share.
type PaySharePayload struct {
	DebtorID string `json:"debtorId"`
}

// PayShareHandler marks a share paid. Debtors mark their own share; the
// expense creator may mark any share.
func (h *ExpenseHandler) PayShareHandler(c *gin.Context) {
	userID := c.GetString(string(middleware.UserIDKey))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	expenseID := c.Param("id")

	// The body is optional; no payload means "my own share".
	var payload PaySharePayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
			return
		}
	}
	debtorID := payload.DebtorID
	if debtorID == "" {
		debtorID = userID
	}

	if err := h.expenseService.MarkSharePaid(c.Request.Context(), userID, expenseID, debtorID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "share marked as paid"})
}
