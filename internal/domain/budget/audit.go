package budget

import (
	"context"
	"encoding/json"
	"time"

	"madeirart/internal/core/id"
)

// AuditSnapshot is an append-only record of a budget's full computed state
// taken before a mutating update. Never updated or deleted by the engine.
type AuditSnapshot struct {
	ID        id.ID           `db:"id" json:"id"`
	BudgetID  id.ID           `db:"budget_id" json:"budgetId"`
	Snapshot  json.RawMessage `db:"-" json:"snapshot"`
	Reason    string          `db:"reason" json:"reason"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}

// SnapshotStore persists audit snapshots. Implementations may compress the
// snapshot body at rest; List must return it decompressed.
type SnapshotStore interface {
	// Save appends a snapshot.
	Save(ctx context.Context, snap *AuditSnapshot) error

	// ListByBudget returns a budget's snapshots, newest first.
	ListByBudget(ctx context.Context, budgetID id.ID) ([]*AuditSnapshot, error)
}
