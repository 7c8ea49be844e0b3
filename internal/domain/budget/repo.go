package budget

import (
	"context"

	"madeirart/internal/core/id"
)

// Repository defines the interface for budget persistence.
// SaveItems fully replaces a budget's line items.
type Repository interface {
	Create(ctx context.Context, b *Budget) error
	Update(ctx context.Context, b *Budget) error
	Delete(ctx context.Context, budgetID id.ID) error

	// GetByID retrieves a budget without its items.
	GetByID(ctx context.Context, budgetID id.ID) (*Budget, error)

	// GetItems retrieves a budget's line items in insertion order.
	GetItems(ctx context.Context, budgetID id.ID) ([]LineItem, error)

	// SaveItems replaces a budget's line items.
	SaveItems(ctx context.Context, budgetID id.ID, items []LineItem) error

	// List returns all budgets without items, newest first.
	List(ctx context.Context) ([]*Budget, error)

	// ListByStatus returns budgets in the given status, newest first.
	ListByStatus(ctx context.Context, status Status) ([]*Budget, error)

	// Exists checks a budget id without loading the record.
	Exists(ctx context.Context, budgetID id.ID) (bool, error)
}
