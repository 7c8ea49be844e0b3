package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"madeirart/internal/core/apperror"
	"madeirart/internal/domain/calendar"
)

// CalendarHandler serves the financial calendar, the month outlook and
// the dashboard summary.
type CalendarHandler struct {
	BaseHandler
	service *calendar.Service
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(service *calendar.Service) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// Register mounts the calendar routes.
func (h *CalendarHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/:year/:month", h.Month)
	rg.GET("/:year/:month/outlook", h.Outlook)
}

// RegisterDashboard mounts the dashboard route.
func (h *CalendarHandler) RegisterDashboard(rg *gin.RouterGroup) {
	rg.GET("", h.Dashboard)
}

func (h *CalendarHandler) Month(c *gin.Context) {
	year, month, ok := h.parseYearMonth(c)
	if !ok {
		return
	}

	cal, err := h.service.MonthCalendar(c.Request.Context(), year, month)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cal)
}

func (h *CalendarHandler) Outlook(c *gin.Context) {
	year, month, ok := h.parseYearMonth(c)
	if !ok {
		return
	}

	outlook, err := h.service.MonthOutlook(c.Request.Context(), year, month)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, outlook)
}

func (h *CalendarHandler) Dashboard(c *gin.Context) {
	today, ok := h.Today(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), today)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

func (h *CalendarHandler) parseYearMonth(c *gin.Context) (int, time.Month, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2200 {
		h.Error(c, apperror.NewValidation("invalid year").WithDetail("year", c.Param("year")))
		return 0, 0, false
	}

	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		h.Error(c, apperror.NewValidation("invalid month").WithDetail("month", c.Param("month")))
		return 0, 0, false
	}

	return year, time.Month(month), true
}
