// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"madeirart/internal/domain/budget"
	"madeirart/internal/domain/calendar"
	"madeirart/internal/domain/cashflow"
	"madeirart/internal/domain/fixedcost"
	"madeirart/internal/domain/installment"
	"madeirart/internal/domain/reconciler"
	"madeirart/internal/domain/variablecost"
	"madeirart/internal/infrastructure/http/v1/handlers"
	"madeirart/internal/infrastructure/http/v1/middleware"
	"madeirart/internal/infrastructure/storage/postgres"
	"madeirart/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	Budgets       *budget.Service
	Installments  *installment.Service
	FixedCosts    *fixedcost.Service
	VariableCosts *variablecost.Service
	CashFlow      *cashflow.Service
	Calendar      *calendar.Service
	Reconciler    *reconciler.Service
}

// NewRouter creates and configures the gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// order matters: recovery first, error rendering last
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	handlers.NewHealthHandler(cfg.Pool).Register(router.Group("/health"))

	api := router.Group("/api/v1")

	handlers.NewBudgetHandler(cfg.Budgets).Register(api.Group("/budgets"))
	handlers.NewInstallmentHandler(cfg.Installments).Register(api.Group("/installments"))
	handlers.NewFixedCostHandler(cfg.FixedCosts).Register(api.Group("/fixed-costs"))
	handlers.NewVariableCostHandler(cfg.VariableCosts).Register(api.Group("/variable-costs"))
	handlers.NewCashFlowHandler(cfg.CashFlow).Register(api.Group("/cashflow"))

	calendarHandler := handlers.NewCalendarHandler(cfg.Calendar)
	calendarHandler.Register(api.Group("/calendar"))
	calendarHandler.RegisterDashboard(api.Group("/dashboard"))

	handlers.NewReconcilerHandler(cfg.Reconciler).Register(api.Group("/reconciliation"))

	return router
}
