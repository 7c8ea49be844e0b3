// Package fixedcost provides recurring monthly business expenses.
// A fixed cost recurs on a fixed day of month until deactivated.
package fixedcost

import (
	"context"
	"time"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/types"
)

// Status is the payment state of a cost within the current month.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

// statusLabels maps statuses to display text.
var statusLabels = map[Status]string{
	StatusPending: "Pending",
	StatusPaid:    "Paid",
	StatusOverdue: "Overdue",
}

// Label returns the display text for a status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// FixedCost is a recurring monthly obligation (rent, utilities, payroll).
// CreatedAt doubles as the cost's existence horizon: it is never projected
// into months before it was created.
type FixedCost struct {
	ID          id.ID       `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Amount      types.Money `db:"amount" json:"amount"`
	DueDay      int         `db:"due_day" json:"dueDay"`
	Description string      `db:"description" json:"description,omitempty"`
	Active      bool        `db:"active" json:"active"`
	Status      Status      `db:"status" json:"status"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

// New creates an active, pending fixed cost.
func New(name string, amount types.Money, dueDay int, description string) *FixedCost {
	now := time.Now().UTC()
	return &FixedCost{
		ID:          id.New(),
		Name:        name,
		Amount:      amount,
		DueDay:      dueDay,
		Description: description,
		Active:      true,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks fixed cost invariants.
func (c *FixedCost) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if !c.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return apperror.NewValidation("due day must be between 1 and 31").
			WithDetail("field", "dueDay")
	}
	return nil
}

// StatusLabel returns the display label for the cost's status.
func (c *FixedCost) StatusLabel() string {
	return c.Status.Label()
}
