package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/domain/variablecost"
)

const variableCostTable = "variable_costs"

var variableCostColumns = []string{
	"id", "name", "amount", "issue_date", "description", "status",
	"split", "parcel_number", "parcel_total", "origin_id",
	"created_at", "updated_at",
}

var _ variablecost.Repository = (*VariableCostRepo)(nil)

// VariableCostRepo implements variablecost.Repository.
type VariableCostRepo struct {
	tx *TxManager
}

// NewVariableCostRepo creates a new variable cost repository.
func NewVariableCostRepo(tx *TxManager) *VariableCostRepo {
	return &VariableCostRepo{tx: tx}
}

func (r *VariableCostRepo) Create(ctx context.Context, c *variablecost.VariableCost) error {
	return r.CreateBatch(ctx, []*variablecost.VariableCost{c})
}

func (r *VariableCostRepo) CreateBatch(ctx context.Context, costs []*variablecost.VariableCost) error {
	if len(costs) == 0 {
		return nil
	}

	q := psql.Insert(variableCostTable).Columns(variableCostColumns...)
	for _, c := range costs {
		q = q.Values(c.ID, c.Name, c.Amount, c.IssueDate, c.Description, c.Status,
			c.Split, c.ParcelNumber, c.ParcelTotal, c.OriginID,
			c.CreatedAt, c.UpdatedAt)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert variable costs: %w", err))
	}
	return nil
}

func (r *VariableCostRepo) Update(ctx context.Context, c *variablecost.VariableCost) error {
	q := psql.Update(variableCostTable).
		Set("name", c.Name).
		Set("amount", c.Amount).
		Set("issue_date", c.IssueDate).
		Set("description", c.Description).
		Set("status", c.Status).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("update variable cost: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("variable cost", c.ID.String())
	}
	return nil
}

func (r *VariableCostRepo) UpdateBatch(ctx context.Context, costs []*variablecost.VariableCost) error {
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

func (r *VariableCostRepo) Delete(ctx context.Context, costID id.ID) error {
	q := psql.Delete(variableCostTable).Where(squirrel.Eq{"id": costID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("delete variable cost: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("variable cost", costID.String())
	}
	return nil
}

func (r *VariableCostRepo) GetByID(ctx context.Context, costID id.ID) (*variablecost.VariableCost, error) {
	q := psql.Select(variableCostColumns...).
		From(variableCostTable).
		Where(squirrel.Eq{"id": costID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c variablecost.VariableCost
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("variable cost", costID.String())
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get variable cost: %w", err))
	}
	return &c, nil
}

func (r *VariableCostRepo) Exists(ctx context.Context, costID id.ID) (bool, error) {
	q := psql.Select("1").
		From(variableCostTable).
		Where(squirrel.Eq{"id": costID}).
		Prefix("SELECT EXISTS (").Suffix(")")

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists bool
	if err := r.tx.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, apperror.NewDatabase(fmt.Errorf("variable cost exists: %w", err))
	}
	return exists, nil
}

func (r *VariableCostRepo) ListAll(ctx context.Context) ([]*variablecost.VariableCost, error) {
	return r.list(ctx, nil)
}

func (r *VariableCostRepo) ListByStatus(ctx context.Context, status variablecost.Status) ([]*variablecost.VariableCost, error) {
	return r.list(ctx, squirrel.Eq{"status": status})
}

func (r *VariableCostRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]*variablecost.VariableCost, error) {
	return r.list(ctx, squirrel.And{
		squirrel.GtOrEq{"issue_date": from},
		squirrel.LtOrEq{"issue_date": to},
	})
}

func (r *VariableCostRepo) ListIssuedUpTo(ctx context.Context, date time.Time) ([]*variablecost.VariableCost, error) {
	return r.list(ctx, squirrel.LtOrEq{"issue_date": date})
}

func (r *VariableCostRepo) ListPendingIssuedBefore(ctx context.Context, date time.Time) ([]*variablecost.VariableCost, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"status": variablecost.StatusPending},
		squirrel.Lt{"issue_date": date},
	})
}

func (r *VariableCostRepo) list(ctx context.Context, where any) ([]*variablecost.VariableCost, error) {
	q := psql.Select(variableCostColumns...).
		From(variableCostTable).
		OrderBy("issue_date DESC", "parcel_number")
	if where != nil {
		q = q.Where(where)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	costs := make([]*variablecost.VariableCost, 0)
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &costs, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list variable costs: %w", err))
	}
	return costs, nil
}
