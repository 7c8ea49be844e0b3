// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces, not on a specific database;
// the implementation lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// Implementations handle BEGIN, COMMIT, ROLLBACK and nesting.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
// Use for multi-query reads that need one consistent snapshot.
type ReadOnlyManager interface {
	Manager

	// RunReadOnly executes fn in a read-only transaction.
	RunReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
