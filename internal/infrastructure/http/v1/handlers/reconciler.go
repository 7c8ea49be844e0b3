package handlers

import (
	"github.com/gin-gonic/gin"

	"madeirart/internal/domain/reconciler"
)

// ReconcilerHandler triggers the overdue sweeps on demand.
type ReconcilerHandler struct {
	BaseHandler
	service *reconciler.Service
}

// NewReconcilerHandler creates a new reconciler handler.
func NewReconcilerHandler(service *reconciler.Service) *ReconcilerHandler {
	return &ReconcilerHandler{service: service}
}

// Register mounts the reconciliation route.
func (h *ReconcilerHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Run)
}

func (h *ReconcilerHandler) Run(c *gin.Context) {
	today, ok := h.Today(c)
	if !ok {
		return
	}

	result, err := h.service.Run(c.Request.Context(), today)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
