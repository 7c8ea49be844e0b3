package handlers

import (
	"github.com/gin-gonic/gin"

	"madeirart/internal/core/apperror"
	"madeirart/internal/domain/budget"
	"madeirart/internal/infrastructure/http/v1/dto"
)

// BudgetHandler serves budget CRUD, the production plan endpoint and
// derived receivable views.
type BudgetHandler struct {
	BaseHandler
	service *budget.Service
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(service *budget.Service) *BudgetHandler {
	return &BudgetHandler{service: service}
}

// Register mounts the budget routes.
func (h *BudgetHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/production", h.StartProduction)
	rg.PUT("/:id/status", h.ChangeStatus)
	rg.GET("/:id/history", h.History)
	rg.GET("/:id/receipts", h.Receipts)
}

func (h *BudgetHandler) Create(c *gin.Context) {
	var req dto.BudgetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.fromRequest(req)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, b.ID.String())
}

func (h *BudgetHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		budgets []*budget.Budget
		err     error
	)
	if status := c.Query("status"); status != "" {
		s := budget.Status(status)
		if !s.Valid() {
			h.Error(c, apperror.NewValidation("unknown status").WithDetail("status", status))
			return
		}
		budgets, err = h.service.ListByStatus(ctx, s)
	} else {
		budgets, err = h.service.List(ctx)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	views := make([]budget.View, 0, len(budgets))
	for _, b := range budgets {
		views = append(views, b.ComputedView())
	}
	h.OK(c, views)
}

func (h *BudgetHandler) Get(c *gin.Context) {
	budgetID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), budgetID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b.ComputedView())
}

func (h *BudgetHandler) Update(c *gin.Context) {
	budgetID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.BudgetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.fromRequest(req)
	if err != nil {
		h.Error(c, err)
		return
	}
	b.ID = budgetID

	updated, err := h.service.Update(c.Request.Context(), b)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated.ComputedView())
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	budgetID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), budgetID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func (h *BudgetHandler) StartProduction(c *gin.Context) {
	budgetID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.StartProductionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	downPaymentDate, err := dto.ParseDate("downPaymentDate", req.DownPaymentDate)
	if err != nil {
		h.Error(c, err)
		return
	}

	plan := budget.Plan{
		DownPayment:     req.DownPayment,
		DownPaymentDate: downPaymentDate,
		Installments:    make([]budget.PlanEntry, 0, len(req.Installments)),
	}
	for i, entry := range req.Installments {
		dueDate, err := dto.ParseDate("installments.dueDate", entry.DueDate)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid installment due date").
				WithDetail("installmentNo", i+1))
			return
		}
		plan.Installments = append(plan.Installments, budget.PlanEntry{
			Amount:  entry.Amount,
			DueDate: dueDate,
		})
	}

	b, err := h.service.StartProduction(c.Request.Context(), budgetID, plan)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b.ComputedView())
}

func (h *BudgetHandler) ChangeStatus(c *gin.Context) {
	budgetID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	status := budget.Status(req.Status)
	if !status.Valid() {
		h.Error(c, apperror.NewValidation("unknown status").WithDetail("status", req.Status))
		return
	}

	b, err := h.service.ChangeStatus(c.Request.Context(), budgetID, status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b.ComputedView())
}

func (h *BudgetHandler) History(c *gin.Context) {
	budgetID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	snapshots, err := h.service.History(c.Request.Context(), budgetID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, snapshots)
}

func (h *BudgetHandler) Receipts(c *gin.Context) {
	budgetID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	status, err := h.service.ReceiptStatus(c.Request.Context(), budgetID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, status)
}

func (h *BudgetHandler) fromRequest(req dto.BudgetRequest) (*budget.Budget, error) {
	date, err := dto.ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	forecast, err := dto.ParseOptionalDate("deliveryForecast", req.DeliveryForecast)
	if err != nil {
		return nil, err
	}

	b := budget.New(req.Client, req.Furniture, date)
	b.DeliveryForecast = forecast
	b.LaborFactor = req.LaborFactor
	b.ExtraCosts = req.ExtraCosts
	b.Markup = req.Markup
	for _, item := range req.Items {
		b.AddItem(item.Quantity, item.UnitPrice, item.Description)
	}
	return b, nil
}
