package handlers

import (
	"github.com/gin-gonic/gin"

	"madeirart/internal/domain/installment"
)

// InstallmentHandler serves installment queries and payment confirmation.
type InstallmentHandler struct {
	BaseHandler
	service *installment.Service
}

// NewInstallmentHandler creates a new installment handler.
func NewInstallmentHandler(service *installment.Service) *InstallmentHandler {
	return &InstallmentHandler{service: service}
}

// Register mounts the installment routes.
func (h *InstallmentHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/budget/:id", h.ListByBudget)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/payment", h.ConfirmPayment)
}

func (h *InstallmentHandler) ListByBudget(c *gin.Context) {
	budgetID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	installments, err := h.service.ListByBudget(c.Request.Context(), budgetID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, installments)
}

func (h *InstallmentHandler) Get(c *gin.Context) {
	instID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	inst, err := h.service.GetByID(c.Request.Context(), instID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inst)
}

func (h *InstallmentHandler) ConfirmPayment(c *gin.Context) {
	instID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	today, ok := h.Today(c)
	if !ok {
		return
	}

	inst, err := h.service.ConfirmPayment(c.Request.Context(), instID, today)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inst)
}
