package fixedcost

import (
	"context"

	"madeirart/internal/core/id"
)

// Repository defines the interface for fixed cost persistence.
type Repository interface {
	Create(ctx context.Context, c *FixedCost) error
	Update(ctx context.Context, c *FixedCost) error
	UpdateBatch(ctx context.Context, costs []*FixedCost) error
	Delete(ctx context.Context, costID id.ID) error

	GetByID(ctx context.Context, costID id.ID) (*FixedCost, error)
	Exists(ctx context.Context, costID id.ID) (bool, error)

	// ListAll returns every fixed cost ordered by name.
	ListAll(ctx context.Context) ([]*FixedCost, error)

	// ListActiveByName returns active costs ordered by name.
	ListActiveByName(ctx context.Context) ([]*FixedCost, error)

	// ListActiveByDueDay returns active costs due on the given day.
	ListActiveByDueDay(ctx context.Context, dueDay int) ([]*FixedCost, error)

	// ListActiveByDueDayRange returns active costs with due day within
	// [from, to] inclusive, ordered by due day.
	ListActiveByDueDayRange(ctx context.Context, from, to int) ([]*FixedCost, error)

	// ListByStatus returns all costs in the given status.
	ListByStatus(ctx context.Context, status Status) ([]*FixedCost, error)
}
