package handlers

import (
	"github.com/gin-gonic/gin"

	"madeirart/internal/domain/cashflow"
	"madeirart/internal/infrastructure/http/v1/dto"
)

// CashFlowHandler serves the opening balance, the current balance and
// the cash projection.
type CashFlowHandler struct {
	BaseHandler
	service *cashflow.Service
}

// NewCashFlowHandler creates a new cash flow handler.
func NewCashFlowHandler(service *cashflow.Service) *CashFlowHandler {
	return &CashFlowHandler{service: service}
}

// Register mounts the cash flow routes.
func (h *CashFlowHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/opening-balance", h.GetOpeningBalance)
	rg.PUT("/opening-balance", h.SetOpeningBalance)
	rg.GET("/balance", h.Balance)
	rg.GET("/projection", h.Projection)
}

func (h *CashFlowHandler) GetOpeningBalance(c *gin.Context) {
	balance, err := h.service.OpeningBalance(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, balance)
}

func (h *CashFlowHandler) SetOpeningBalance(c *gin.Context) {
	var req dto.OpeningBalanceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	balance, err := h.service.SetOpeningBalance(c.Request.Context(), req.Amount, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, balance)
}

func (h *CashFlowHandler) Balance(c *gin.Context) {
	today, ok := h.Today(c)
	if !ok {
		return
	}

	balance, err := h.service.CurrentBalance(c.Request.Context(), today)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, balance)
}

func (h *CashFlowHandler) Projection(c *gin.Context) {
	today, ok := h.Today(c)
	if !ok {
		return
	}

	projection, err := h.service.Projection(c.Request.Context(), today)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, projection)
}
