// Package handlers implements the API v1 endpoints.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/period"
	"madeirart/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// BindJSON binds and validates a JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers an error on the gin context and aborts the request.
// The JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIDParam parses a UUID path parameter.
func (h *BaseHandler) ParseIDParam(c *gin.Context, name string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(name))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", name))
		return id.Nil(), false
	}
	return parsed, true
}

// Today resolves the reference date for date-dependent computations.
// The as_of query parameter overrides the wall clock, which keeps
// balance and projection responses reproducible.
func (h *BaseHandler) Today(c *gin.Context) (time.Time, bool) {
	if asOf := c.Query("as_of"); asOf != "" {
		t, err := dto.ParseDate("as_of", asOf)
		if err != nil {
			h.Error(c, err)
			return time.Time{}, false
		}
		return t, true
	}
	return period.DateOnly(time.Now()), true
}

// Created sends a 201 response with the new record's id.
func (h *BaseHandler) Created(c *gin.Context, recordID string) {
	c.JSON(http.StatusCreated, dto.IDResponse{ID: recordID})
}

// OK sends a 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends a 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
