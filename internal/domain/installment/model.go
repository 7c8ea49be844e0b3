// Package installment provides scheduled payments against a budget.
// Installments are created in bulk when production starts and afterwards
// only change through payment confirmation or the overdue sweep.
package installment

import (
	"context"
	"time"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/types"
)

// Status is the lifecycle state of an installment.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

// Installment represents one scheduled or received payment against a budget.
// The down payment is always number 1; subsequent installments follow.
type Installment struct {
	ID        id.ID       `db:"id" json:"id"`
	BudgetID  id.ID       `db:"budget_id" json:"budgetId"`
	Number    int         `db:"number" json:"number"`
	Amount    types.Money `db:"amount" json:"amount"`
	DueDate   time.Time   `db:"due_date" json:"dueDate"`
	PaidDate  *time.Time  `db:"paid_date" json:"paidDate,omitempty"`
	Status    Status      `db:"status" json:"status"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// New creates a pending installment for a budget.
func New(budgetID id.ID, number int, amount types.Money, dueDate time.Time) *Installment {
	return &Installment{
		ID:        id.New(),
		BudgetID:  budgetID,
		Number:    number,
		Amount:    amount,
		DueDate:   dueDate,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks installment invariants.
func (i *Installment) Validate(ctx context.Context) error {
	if id.IsNil(i.BudgetID) {
		return apperror.NewValidation("budget is required").
			WithDetail("field", "budgetId")
	}
	if i.Number < 1 {
		return apperror.NewValidation("installment number must be positive").
			WithDetail("field", "number")
	}
	if !i.Amount.IsPositive() {
		return apperror.NewValidation("installment amount must be positive").
			WithDetail("field", "amount")
	}
	if i.DueDate.IsZero() {
		return apperror.NewValidation("due date is required").
			WithDetail("field", "dueDate")
	}
	return nil
}

// ReferenceDate returns the date the installment affects cash: the payment
// date when paid, otherwise the due date.
func (i *Installment) ReferenceDate() time.Time {
	if i.PaidDate != nil {
		return *i.PaidDate
	}
	return i.DueDate
}

// statusLabels maps statuses to display text. Kept outside the enum so the
// wire value stays a plain tag.
var statusLabels = map[Status]string{
	StatusPending: "Pending",
	StatusPaid:    "Paid",
	StatusOverdue: "Overdue",
}

// StatusLabel returns the display label for the installment's status.
func (i *Installment) StatusLabel() string {
	if l, ok := statusLabels[i.Status]; ok {
		return l
	}
	return string(i.Status)
}
