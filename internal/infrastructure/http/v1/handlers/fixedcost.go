package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"madeirart/internal/core/apperror"
	"madeirart/internal/domain/fixedcost"
	"madeirart/internal/infrastructure/http/v1/dto"
)

// FixedCostHandler serves recurring monthly expense endpoints.
type FixedCostHandler struct {
	BaseHandler
	service *fixedcost.Service
}

// NewFixedCostHandler creates a new fixed cost handler.
func NewFixedCostHandler(service *fixedcost.Service) *FixedCostHandler {
	return &FixedCostHandler{service: service}
}

// Register mounts the fixed cost routes.
func (h *FixedCostHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/payment", h.MarkPaid)
	rg.POST("/:id/pending", h.MarkPending)
	rg.POST("/:id/deactivate", h.Deactivate)
	rg.POST("/:id/reactivate", h.Reactivate)
}

func (h *FixedCostHandler) Create(c *gin.Context) {
	var req dto.FixedCostRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cost := fixedcost.New(req.Name, req.Amount, req.DueDay, req.Description)
	if err := h.service.Create(c.Request.Context(), cost); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cost.ID.String())
}

func (h *FixedCostHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		costs []*fixedcost.FixedCost
		err   error
	)
	switch {
	case c.Query("due_day") != "":
		var day int
		if day, err = strconv.Atoi(c.Query("due_day")); err != nil {
			h.Error(c, apperror.NewValidation("due_day must be a number"))
			return
		}
		costs, err = h.service.ListActiveByDueDay(ctx, day)
	case c.Query("due_from") != "" || c.Query("due_to") != "":
		var from, to int
		if from, err = strconv.Atoi(c.DefaultQuery("due_from", "1")); err != nil {
			h.Error(c, apperror.NewValidation("due_from must be a number"))
			return
		}
		if to, err = strconv.Atoi(c.DefaultQuery("due_to", "31")); err != nil {
			h.Error(c, apperror.NewValidation("due_to must be a number"))
			return
		}
		costs, err = h.service.ListByDueDayRange(ctx, from, to)
	case c.Query("active") == "true":
		costs, err = h.service.ListActive(ctx)
	default:
		costs, err = h.service.ListAll(ctx)
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, costs)
}

func (h *FixedCostHandler) Get(c *gin.Context) {
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

func (h *FixedCostHandler) Update(c *gin.Context) {
	costID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.FixedCostRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated := &fixedcost.FixedCost{
		ID:          costID,
		Name:        req.Name,
		Amount:      req.Amount,
		DueDay:      req.DueDay,
		Description: req.Description,
	}

	cost, err := h.service.Update(c.Request.Context(), updated)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cost)
}

func (h *FixedCostHandler) Delete(c *gin.Context) {
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

func (h *FixedCostHandler) MarkPaid(c *gin.Context) {
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

func (h *FixedCostHandler) MarkPending(c *gin.Context) {
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

func (h *FixedCostHandler) Deactivate(c *gin.Context) {
	costID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), costID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func (h *FixedCostHandler) Reactivate(c *gin.Context) {
	costID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	cost, err := h.service.Reactivate(c.Request.Context(), costID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cost)
}
