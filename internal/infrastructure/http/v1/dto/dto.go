// Package dto defines request and response bodies for API v1.
// Dates are exchanged as plain "YYYY-MM-DD" strings.
package dto

import (
	"time"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/types"
)

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return t, nil
}

// ParseOptionalDate parses a YYYY-MM-DD value, returning nil when empty.
func ParseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// IDResponse carries a created record's id.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// LineItemRequest is one budget line item.
type LineItemRequest struct {
	Quantity    types.Money `json:"quantity" binding:"required"`
	UnitPrice   types.Money `json:"unitPrice" binding:"required"`
	Description string      `json:"description" binding:"required"`
}

// BudgetRequest creates or replaces a budget.
type BudgetRequest struct {
	Client           string            `json:"client" binding:"required"`
	Furniture        string            `json:"furniture" binding:"required"`
	Date             string            `json:"date" binding:"required"`
	DeliveryForecast string            `json:"deliveryForecast"`
	LaborFactor      types.Money       `json:"laborFactor"`
	ExtraCosts       types.Money       `json:"extraCosts"`
	Markup           types.Money       `json:"markup"`
	Items            []LineItemRequest `json:"items"`
}

// PlanInstallmentRequest is one scheduled installment of a payment plan.
type PlanInstallmentRequest struct {
	Amount  types.Money `json:"amount" binding:"required"`
	DueDate string      `json:"dueDate" binding:"required"`
}

// StartProductionRequest accepts a payment plan and moves the budget
// into production.
type StartProductionRequest struct {
	DownPayment     types.Money              `json:"downPayment" binding:"required"`
	DownPaymentDate string                   `json:"downPaymentDate" binding:"required"`
	Installments    []PlanInstallmentRequest `json:"installments"`
}

// ChangeStatusRequest moves a budget to another lifecycle state.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// FixedCostRequest creates or replaces a fixed cost.
type FixedCostRequest struct {
	Name        string      `json:"name" binding:"required"`
	Amount      types.Money `json:"amount" binding:"required"`
	DueDay      int         `json:"dueDay" binding:"required"`
	Description string      `json:"description"`
}

// VariableCostRequest creates or replaces a variable cost. Parcels
// above one split the amount into equal monthly slices.
type VariableCostRequest struct {
	Name        string      `json:"name" binding:"required"`
	Amount      types.Money `json:"amount" binding:"required"`
	IssueDate   string      `json:"issueDate" binding:"required"`
	Description string      `json:"description"`
	Parcels     int         `json:"parcels"`
}

// OpeningBalanceRequest records the opening balance.
type OpeningBalanceRequest struct {
	Amount types.Money `json:"amount" binding:"required"`
	Note   string      `json:"note" binding:"max=500"`
}
