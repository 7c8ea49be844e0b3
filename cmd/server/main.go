// Command server runs the financial projection and reconciliation API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"madeirart/internal/domain/budget"
	"madeirart/internal/domain/calendar"
	"madeirart/internal/domain/cashflow"
	"madeirart/internal/domain/fixedcost"
	"madeirart/internal/domain/installment"
	"madeirart/internal/domain/reconciler"
	"madeirart/internal/domain/variablecost"
	v1 "madeirart/internal/infrastructure/http/v1"
	"madeirart/internal/infrastructure/storage/postgres"
	"madeirart/pkg/logger"
)

type config struct {
	Port                 string
	DatabaseDSN          string
	LogLevel             string
	LogDevelopment       bool
	ProjectionMonths     int
	AccrualLookbackYears int
	ShutdownTimeout      time.Duration
}

func loadConfig() config {
	// .env is optional, real deployments use the environment
	_ = godotenv.Load()

	return config{
		Port:                 getEnv("PORT", "8080"),
		DatabaseDSN:          getEnv("DATABASE_DSN", "postgres://localhost:5432/madeirart?sslmode=disable"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogDevelopment:       getEnvBool("LOG_DEVELOPMENT", false),
		ProjectionMonths:     getEnvInt("PROJECTION_MONTHS", 2),
		AccrualLookbackYears: getEnvInt("ACCRUAL_LOOKBACK_YEARS", 1),
		ShutdownTimeout:      getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func main() {
	cfg := loadConfig()

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDevelopment,
	})
	if err != nil {
		log = logger.Default()
	}

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseDSN))
	if err != nil {
		logger.Fatal(ctx, "database connection failed", "error", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal(ctx, "schema setup failed", "error", err)
	}

	txManager := postgres.NewTxManager(pool)

	budgetRepo := postgres.NewBudgetRepo(txManager)
	installmentRepo := postgres.NewInstallmentRepo(txManager)
	fixedCostRepo := postgres.NewFixedCostRepo(txManager)
	variableCostRepo := postgres.NewVariableCostRepo(txManager)
	openingBalanceRepo := postgres.NewOpeningBalanceRepo(txManager)
	snapshotRepo, err := postgres.NewSnapshotRepo(txManager)
	if err != nil {
		logger.Fatal(ctx, "snapshot store setup failed", "error", err)
	}

	budgetService := budget.NewService(budgetRepo, installmentRepo, snapshotRepo, txManager)
	installmentService := installment.NewService(installmentRepo)
	fixedCostService := fixedcost.NewService(fixedCostRepo)
	variableCostService := variablecost.NewService(variableCostRepo)
	cashFlowService := cashflow.NewService(
		openingBalanceRepo, installmentRepo, budgetRepo, fixedCostRepo, variableCostRepo,
		txManager,
		cashflow.Config{
			ProjectionMonths:     cfg.ProjectionMonths,
			AccrualLookbackYears: cfg.AccrualLookbackYears,
		},
	)
	calendarService := calendar.NewService(budgetRepo, installmentRepo, fixedCostRepo, variableCostRepo)
	reconcilerService := reconciler.NewService(installmentService, fixedCostService, variableCostService)

	// align stored statuses with the calendar before serving traffic
	if _, err := reconcilerService.Run(ctx, time.Now()); err != nil {
		logger.Warn(ctx, "startup reconciliation incomplete", "error", err)
	}

	router := v1.NewRouter(v1.RouterConfig{
		Pool:          pool,
		Logger:        log,
		Budgets:       budgetService,
		Installments:  installmentService,
		FixedCosts:    fixedCostService,
		VariableCosts: variableCostService,
		CashFlow:      cashFlowService,
		Calendar:      calendarService,
		Reconciler:    reconcilerService,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "server failed", "error", err)
		}
	}()

	statsTicker := time.NewTicker(time.Minute)
	defer statsTicker.Stop()
	go func() {
		for range statsTicker.C {
			pool.LogStats(ctx)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "shutdown failed", "error", err)
	}
	logger.Info(ctx, "server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
