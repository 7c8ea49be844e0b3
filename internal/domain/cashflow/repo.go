package cashflow

import "context"

// OpeningBalanceRepository persists the singleton opening balance.
type OpeningBalanceRepository interface {
	// Get returns the opening balance, or NotFound when none was recorded.
	Get(ctx context.Context) (*OpeningBalance, error)
	// Upsert inserts the record or replaces the existing one.
	Upsert(ctx context.Context, balance *OpeningBalance) error
}
