// Package variablecost provides one-off business expenses, optionally
// split into equal monthly slices at creation time.
package variablecost

import (
	"context"
	"fmt"
	"time"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/types"
)

// Status is the payment state of a variable cost.
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

// VariableCost is a one-off obligation. When created with a parcel count
// greater than one it becomes one slice of a monthly series; the slices
// share the OriginID of the first.
type VariableCost struct {
	ID          id.ID       `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Amount      types.Money `db:"amount" json:"amount"`
	IssueDate   time.Time   `db:"issue_date" json:"issueDate"`
	Description string      `db:"description" json:"description,omitempty"`
	Status      Status      `db:"status" json:"status"`

	// Split metadata, set only when the cost was sliced at creation.
	Split        bool   `db:"split" json:"split"`
	ParcelNumber int    `db:"parcel_number" json:"parcelNumber,omitempty"`
	ParcelTotal  int    `db:"parcel_total" json:"parcelTotal,omitempty"`
	OriginID     *id.ID `db:"origin_id" json:"originId,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a pending, unsplit variable cost.
func New(name string, amount types.Money, issueDate time.Time, description string) *VariableCost {
	now := time.Now().UTC()
	return &VariableCost{
		ID:          id.New(),
		Name:        name,
		Amount:      amount,
		IssueDate:   issueDate,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks variable cost invariants.
func (c *VariableCost) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if !c.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	if c.IssueDate.IsZero() {
		return apperror.NewValidation("issue date is required").
			WithDetail("field", "issueDate")
	}
	return nil
}

// DisplayName returns the cost's name with a parcel suffix when split,
// e.g. "Lumber (2/4)".
func (c *VariableCost) DisplayName() string {
	if c.Split && c.ParcelTotal > 0 {
		return fmt.Sprintf("%s (%d/%d)", c.Name, c.ParcelNumber, c.ParcelTotal)
	}
	return c.Name
}

// StatusLabel returns the display label for the cost's status.
func (c *VariableCost) StatusLabel() string {
	return c.Status.Label()
}
