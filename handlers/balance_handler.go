package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quickbill-app/quickbill-backend/errors"
	"github.com/quickbill-app/quickbill-backend/middleware"
	balancesvc "github.com/quickbill-app/quickbill-backend/models/balance/service"
)

type BalanceHandler struct {
	balanceService *balancesvc.BalanceService
}

func NewBalanceHandler(balanceService *balancesvc.BalanceService) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
	}
}

// SummaryHandler returns who the user owes and who owes the user, from the
// cumulative ledger.
func (h *BalanceHandler) SummaryHandler(c *gin.Context) {
	userID := c.GetString(string(middleware.UserIDKey))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	summary, err := h.balanceService.Summary(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// NetBalanceHandler returns the net position against one other user.
// Positive means the caller owes; negative means the other user owes.
func (h *BalanceHandler) NetBalanceHandler(c *gin.Context) {
	userID := c.GetString(string(middleware.UserIDKey))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	otherUserID := c.Param("userId")
	if otherUserID == "" {
		_ = c.Error(errors.ValidationFailed("User ID missing", "counterparty user id is required"))
		return
	}

	net, err := h.balanceService.NetBalance(c.Request.Context(), userID, otherUserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":      otherUserID,
		"netBalance":  net,
		"description": "positive means you owe them, negative means they owe you",
	})
}

// TotalBalanceHandler returns the derived outstanding totals plus rolling
// spending windows. Computed from unpaid shares, not from the ledger.
func (h *BalanceHandler) TotalBalanceHandler(c *gin.Context) {
	userID := c.GetString(string(middleware.UserIDKey))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	total, err := h.balanceService.TotalBalance(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, total)
}
