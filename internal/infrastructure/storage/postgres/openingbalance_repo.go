package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"madeirart/internal/core/apperror"
	"madeirart/internal/domain/cashflow"
)

const openingBalanceTable = "opening_balance"

var _ cashflow.OpeningBalanceRepository = (*OpeningBalanceRepo)(nil)

// OpeningBalanceRepo persists the singleton opening balance row.
type OpeningBalanceRepo struct {
	tx *TxManager
}

// NewOpeningBalanceRepo creates a new opening balance repository.
func NewOpeningBalanceRepo(tx *TxManager) *OpeningBalanceRepo {
	return &OpeningBalanceRepo{tx: tx}
}

func (r *OpeningBalanceRepo) Get(ctx context.Context) (*cashflow.OpeningBalance, error) {
	q := psql.Select("id", "amount", "note", "created_at", "updated_at").
		From(openingBalanceTable).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b cashflow.OpeningBalance
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("opening balance", "singleton")
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get opening balance: %w", err))
	}
	return &b, nil
}

// Upsert inserts the row or replaces the existing one. The unique
// singleton column guarantees at most one row survives.
func (r *OpeningBalanceRepo) Upsert(ctx context.Context, balance *cashflow.OpeningBalance) error {
	sql := `
		INSERT INTO opening_balance (id, singleton, amount, note, created_at, updated_at)
		VALUES ($1, TRUE, $2, $3, $4, $5)
		ON CONFLICT (singleton) DO UPDATE
		SET amount = EXCLUDED.amount, note = EXCLUDED.note, updated_at = EXCLUDED.updated_at
	`

	_, err := r.tx.GetQuerier(ctx).Exec(ctx, sql,
		balance.ID, balance.Amount, balance.Note, balance.CreatedAt, balance.UpdatedAt)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("upsert opening balance: %w", err))
	}
	return nil
}
