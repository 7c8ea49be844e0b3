package installment

import (
	"context"
	"time"

	"madeirart/internal/core/id"
)

// Repository defines the interface for installment persistence.
type Repository interface {
	// Create inserts a single installment.
	Create(ctx context.Context, inst *Installment) error

	// CreateBatch inserts installments in bulk (plan materialization).
	CreateBatch(ctx context.Context, insts []*Installment) error

	// GetByID retrieves an installment by id.
	GetByID(ctx context.Context, instID id.ID) (*Installment, error)

	// Update persists changes to an installment.
	Update(ctx context.Context, inst *Installment) error

	// UpdateBatch persists changes to several installments at once.
	UpdateBatch(ctx context.Context, insts []*Installment) error

	// ListByBudget returns a budget's installments ordered by number.
	ListByBudget(ctx context.Context, budgetID id.ID) ([]*Installment, error)

	// ListByStatus returns all installments in the given status.
	ListByStatus(ctx context.Context, status Status) ([]*Installment, error)

	// ListPendingDueBefore returns pending installments whose due date is
	// strictly before the given date.
	ListPendingDueBefore(ctx context.Context, date time.Time) ([]*Installment, error)

	// ListPendingDueBetween returns pending installments due within
	// [from, to] inclusive.
	ListPendingDueBetween(ctx context.Context, from, to time.Time) ([]*Installment, error)

	// ListAll returns every installment.
	ListAll(ctx context.Context) ([]*Installment, error)

	// DeleteByBudget removes all installments of a budget.
	DeleteByBudget(ctx context.Context, budgetID id.ID) error
}
