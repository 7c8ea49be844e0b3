package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/domain/fixedcost"
)

const fixedCostTable = "fixed_costs"

var fixedCostColumns = []string{
	"id", "name", "amount", "due_day", "description", "active",
	"status", "created_at", "updated_at",
}

var _ fixedcost.Repository = (*FixedCostRepo)(nil)

// FixedCostRepo implements fixedcost.Repository.
type FixedCostRepo struct {
	tx *TxManager
}

// NewFixedCostRepo creates a new fixed cost repository.
func NewFixedCostRepo(tx *TxManager) *FixedCostRepo {
	return &FixedCostRepo{tx: tx}
}

func (r *FixedCostRepo) Create(ctx context.Context, c *fixedcost.FixedCost) error {
	q := psql.Insert(fixedCostTable).
		Columns(fixedCostColumns...).
		Values(c.ID, c.Name, c.Amount, c.DueDay, c.Description, c.Active,
			c.Status, c.CreatedAt, c.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert fixed cost: %w", err))
	}
	return nil
}

func (r *FixedCostRepo) Update(ctx context.Context, c *fixedcost.FixedCost) error {
	q := psql.Update(fixedCostTable).
		Set("name", c.Name).
		Set("amount", c.Amount).
		Set("due_day", c.DueDay).
		Set("description", c.Description).
		Set("active", c.Active).
		Set("status", c.Status).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("update fixed cost: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("fixed cost", c.ID.String())
	}
	return nil
}

func (r *FixedCostRepo) UpdateBatch(ctx context.Context, costs []*fixedcost.FixedCost) error {
	if len(costs) == 0 {
		return nil
	}
	return r.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, c := range costs {
			if err := r.Update(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *FixedCostRepo) Delete(ctx context.Context, costID id.ID) error {
	q := psql.Delete(fixedCostTable).Where(squirrel.Eq{"id": costID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("delete fixed cost: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("fixed cost", costID.String())
	}
	return nil
}

func (r *FixedCostRepo) GetByID(ctx context.Context, costID id.ID) (*fixedcost.FixedCost, error) {
	q := psql.Select(fixedCostColumns...).
		From(fixedCostTable).
		Where(squirrel.Eq{"id": costID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c fixedcost.FixedCost
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("fixed cost", costID.String())
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get fixed cost: %w", err))
	}
	return &c, nil
}

func (r *FixedCostRepo) Exists(ctx context.Context, costID id.ID) (bool, error) {
	q := psql.Select("1").
		From(fixedCostTable).
		Where(squirrel.Eq{"id": costID}).
		Prefix("SELECT EXISTS (").Suffix(")")

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists bool
	if err := r.tx.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, apperror.NewDatabase(fmt.Errorf("fixed cost exists: %w", err))
	}
	return exists, nil
}

func (r *FixedCostRepo) ListAll(ctx context.Context) ([]*fixedcost.FixedCost, error) {
	return r.list(ctx, nil)
}

func (r *FixedCostRepo) ListActiveByName(ctx context.Context) ([]*fixedcost.FixedCost, error) {
	return r.list(ctx, squirrel.Eq{"active": true})
}

func (r *FixedCostRepo) ListActiveByDueDay(ctx context.Context, dueDay int) ([]*fixedcost.FixedCost, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"active": true},
		squirrel.Eq{"due_day": dueDay},
	})
}

func (r *FixedCostRepo) ListActiveByDueDayRange(ctx context.Context, from, to int) ([]*fixedcost.FixedCost, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"active": true},
		squirrel.GtOrEq{"due_day": from},
		squirrel.LtOrEq{"due_day": to},
	})
}

func (r *FixedCostRepo) ListByStatus(ctx context.Context, status fixedcost.Status) ([]*fixedcost.FixedCost, error) {
	return r.list(ctx, squirrel.Eq{"status": status})
}

func (r *FixedCostRepo) list(ctx context.Context, where any) ([]*fixedcost.FixedCost, error) {
	q := psql.Select(fixedCostColumns...).
		From(fixedCostTable).
		OrderBy("name")
	if where != nil {
		q = q.Where(where)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	costs := make([]*fixedcost.FixedCost, 0)
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &costs, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list fixed costs: %w", err))
	}
	return costs, nil
}
