package handlers

import (
	"github.com/gin-gonic/gin"

	"madeirart/internal/domain/variablecost"
	"madeirart/internal/infrastructure/http/v1/dto"
)

// VariableCostHandler serves one-off expense endpoints, including
// parcel-split creation.
type VariableCostHandler struct {
	BaseHandler
	service *variablecost.Service
}

// NewVariableCostHandler creates a new variable cost handler.
func NewVariableCostHandler(service *variablecost.Service) *VariableCostHandler {
	return &VariableCostHandler{service: service}
}

// Register mounts the variable cost routes.
func (h *VariableCostHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/payment", h.MarkPaid)
	rg.POST("/:id/pending", h.MarkPending)
}

func (h *VariableCostHandler) Create(c *gin.Context) {
	var req dto.VariableCostRequest
	if !h.BindJSON(c, &req) {
		return
	}

	issueDate, err := dto.ParseDate("issueDate", req.IssueDate)
	if err != nil {
		h.Error(c, err)
		return
	}

	cost := variablecost.New(req.Name, req.Amount, issueDate, req.Description)
	created, err := h.service.Create(c.Request.Context(), cost, req.Parcels)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

func (h *VariableCostHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	from := c.Query("from")
	to := c.Query("to")
	if from != "" && to != "" {
		fromDate, err := dto.ParseDate("from", from)
		if err != nil {
			h.Error(c, err)
			return
		}
		toDate, err := dto.ParseDate("to", to)
		if err != nil {
			h.Error(c, err)
			return
		}

		costs, err := h.service.ListByPeriod(ctx, fromDate, toDate)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, costs)
		return
	}

	costs, err := h.service.ListAll(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, costs)
}

func (h *VariableCostHandler) Get(c *gin.Context) {
	costID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	cost, err := h.service.GetByID(c.Request.Context(), costID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cost)
}

func (h *VariableCostHandler) Update(c *gin.Context) {
	costID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.VariableCostRequest
	if !h.BindJSON(c, &req) {
		return
	}

	issueDate, err := dto.ParseDate("issueDate", req.IssueDate)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated := &variablecost.VariableCost{
		ID:          costID,
		Name:        req.Name,
		Amount:      req.Amount,
		IssueDate:   issueDate,
		Description: req.Description,
	}

	cost, err := h.service.Update(c.Request.Context(), updated)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cost)
}

func (h *VariableCostHandler) Delete(c *gin.Context) {
	costID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), costID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func (h *VariableCostHandler) MarkPaid(c *gin.Context) {
	costID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	cost, err := h.service.MarkPaid(c.Request.Context(), costID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cost)
}

func (h *VariableCostHandler) MarkPending(c *gin.Context) {
	costID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	today, ok := h.Today(c)
	if !ok {
		return
	}

	cost, err := h.service.MarkPending(c.Request.Context(), costID, today)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cost)
}
