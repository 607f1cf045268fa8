package main

import (
	"context"
	"crypto/tls"

	"github.com/redis/go-redis/v9"

	"github.com/quickbill-app/quickbill-backend/config"
	"github.com/quickbill-app/quickbill-backend/db"
	"github.com/quickbill-app/quickbill-backend/handlers"
	"github.com/quickbill-app/quickbill-backend/internal/store/postgres"
	"github.com/quickbill-app/quickbill-backend/logger"
	analyticssvc "github.com/quickbill-app/quickbill-backend/models/analytics/service"
	balancesvc "github.com/quickbill-app/quickbill-backend/models/balance/service"
	expensesvc "github.com/quickbill-app/quickbill-backend/models/expense/service"
	"github.com/quickbill-app/quickbill-backend/router"
	"github.com/quickbill-app/quickbill-backend/services"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisOptions := &redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.Redis.UseTLS || cfg.IsProduction() {
		redisOptions.TLSConfig = &tls.Config{
			ServerName: cfg.Redis.Address,
			MinVersion: tls.VersionTLS12,
		}
	}
	redisClient := redis.NewClient(redisOptions)

	// Stores
	expenseStore := postgres.NewExpenseStore(pool)
	ledgerStore := postgres.NewLedgerStore(pool)

	// Services
	rateLimitService := services.NewRateLimitService(redisClient)
	healthService := services.NewHealthService(pool, redisClient, cfg.Server.Version)
	expenseService := expensesvc.NewExpenseService(expenseStore)
	balanceService := balancesvc.NewBalanceService(ledgerStore, expenseStore)
	analyticsService := analyticssvc.NewAnalyticsService(expenseStore)

	// Handlers
	deps := router.Dependencies{
		Config:           cfg,
		RateLimiter:      rateLimitService,
		ExpenseHandler:   handlers.NewExpenseHandler(expenseService),
		BalanceHandler:   handlers.NewBalanceHandler(balanceService),
		AnalyticsHandler: handlers.NewAnalyticsHandler(analyticsService),
		HealthHandler:    handlers.NewHealthHandler(healthService),
	}

	r := router.SetupRouter(deps)

	log.Infof("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
