package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quickbill-app/quickbill-backend/config"
	"github.com/quickbill-app/quickbill-backend/handlers"
	"github.com/quickbill-app/quickbill-backend/middleware"
	"github.com/quickbill-app/quickbill-backend/services"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config           *config.Config
	RateLimiter      services.RateLimiterInterface
	ExpenseHandler   *handlers.ExpenseHandler
	BalanceHandler   *handlers.BalanceHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	HealthHandler    *handlers.HealthHandler
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and Metrics Routes (no auth)
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Versioned API Group (v1)
	v1 := r.Group("/v1")

	authRoutes := v1.Group("")
	authRoutes.Use(middleware.AuthMiddleware(&deps.Config.Server))
	if deps.RateLimiter != nil {
		authRoutes.Use(middleware.RateLimiter(deps.RateLimiter, deps.Config.RateLimit))
	}
	{
		// Expense Routes
		expenseRoutes := authRoutes.Group("/expenses")
		{
			expenseRoutes.POST("", deps.ExpenseHandler.CreateExpenseHandler)
			expenseRoutes.GET("", deps.ExpenseHandler.ListExpensesHandler)
			expenseRoutes.GET("/:id", deps.ExpenseHandler.GetExpenseHandler)
			expenseRoutes.POST("/:id/settle", deps.ExpenseHandler.SettleExpenseHandler)
			expenseRoutes.POST("/:id/shares/pay", deps.ExpenseHandler.PayShareHandler)
		}

		// Balance Routes
		balanceRoutes := authRoutes.Group("/balances")
		{
			balanceRoutes.GET("/summary", deps.BalanceHandler.SummaryHandler)
			balanceRoutes.GET("/net/:userId", deps.BalanceHandler.NetBalanceHandler)
			balanceRoutes.GET("/total", deps.BalanceHandler.TotalBalanceHandler)
		}

		// Analytics Routes
		analyticsRoutes := authRoutes.Group("/analytics")
		{
			analyticsRoutes.GET("", deps.AnalyticsHandler.ReportHandler)
			analyticsRoutes.GET("/suggestions", deps.AnalyticsHandler.BudgetSuggestionsHandler)
		}
	}

	return r
}
