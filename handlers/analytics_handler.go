package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quickbill-app/quickbill-backend/middleware"
	analyticssvc "github.com/quickbill-app/quickbill-backend/models/analytics/service"
)

type AnalyticsHandler struct {
	analyticsService *analyticssvc.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *analyticssvc.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// ReportHandler returns category breakdown, monthly and weekly trends,
// lifetime totals, and recent expenses for the authenticated user.
func (h *AnalyticsHandler) ReportHandler(c *gin.Context) {
	userID := c.GetString(string(middleware.UserIDKey))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	report, err := h.analyticsService.Report(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// BudgetSuggestionsHandler runs the suggestion rules over the last three
// months of spending.
func (h *AnalyticsHandler) BudgetSuggestionsHandler(c *gin.Context) {
	userID := c.GetString(string(middleware.UserIDKey))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	report, err := h.analyticsService.BudgetSuggestions(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, report)
}
