package variablecost

import (
	"context"
	"time"

	"madeirart/internal/core/id"
)

// Repository defines the interface for variable cost persistence.
type Repository interface {
	Create(ctx context.Context, c *VariableCost) error
	CreateBatch(ctx context.Context, costs []*VariableCost) error
	Update(ctx context.Context, c *VariableCost) error
	UpdateBatch(ctx context.Context, costs []*VariableCost) error
	Delete(ctx context.Context, costID id.ID) error

	GetByID(ctx context.Context, costID id.ID) (*VariableCost, error)
	Exists(ctx context.Context, costID id.ID) (bool, error)

	// ListAll returns every variable cost, newest issue date first.
	ListAll(ctx context.Context) ([]*VariableCost, error)

	// ListByPeriod returns costs issued within [from, to] inclusive.
	ListByPeriod(ctx context.Context, from, to time.Time) ([]*VariableCost, error)

	// ListByStatus returns costs in the given status, newest issue first.
	ListByStatus(ctx context.Context, status Status) ([]*VariableCost, error)

	// ListIssuedUpTo returns costs issued on or before the given date.
	ListIssuedUpTo(ctx context.Context, date time.Time) ([]*VariableCost, error)

	// ListPendingIssuedBefore returns pending costs issued strictly
	// before the given date.
	ListPendingIssuedBefore(ctx context.Context, date time.Time) ([]*VariableCost, error)
}
