package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/domain/budget"
)

const (
	budgetTable     = "budgets"
	budgetItemTable = "budget_items"
)

// psql builds queries with PostgreSQL dollar placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var budgetColumns = []string{
	"id", "client", "furniture", "date", "delivery_forecast",
	"labor_factor", "extra_costs", "markup", "status",
	"created_at", "updated_at",
}

var _ budget.Repository = (*BudgetRepo)(nil)

// BudgetRepo implements budget.Repository.
type BudgetRepo struct {
	tx *TxManager
}

// NewBudgetRepo creates a new budget repository.
func NewBudgetRepo(tx *TxManager) *BudgetRepo {
	return &BudgetRepo{tx: tx}
}

func (r *BudgetRepo) Create(ctx context.Context, b *budget.Budget) error {
	q := psql.Insert(budgetTable).
		Columns(budgetColumns...).
		Values(b.ID, b.Client, b.Furniture, b.Date, b.DeliveryForecast,
			b.LaborFactor, b.ExtraCosts, b.Markup, b.Status,
			b.CreatedAt, b.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert budget: %w", err))
	}
	return nil
}

func (r *BudgetRepo) Update(ctx context.Context, b *budget.Budget) error {
	q := psql.Update(budgetTable).
		Set("client", b.Client).
		Set("furniture", b.Furniture).
		Set("date", b.Date).
		Set("delivery_forecast", b.DeliveryForecast).
		Set("labor_factor", b.LaborFactor).
		Set("extra_costs", b.ExtraCosts).
		Set("markup", b.Markup).
		Set("status", b.Status).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": b.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("update budget: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("budget", b.ID.String())
	}
	return nil
}

func (r *BudgetRepo) Delete(ctx context.Context, budgetID id.ID) error {
	q := psql.Delete(budgetTable).Where(squirrel.Eq{"id": budgetID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("delete budget: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("budget", budgetID.String())
	}
	return nil
}

func (r *BudgetRepo) GetByID(ctx context.Context, budgetID id.ID) (*budget.Budget, error) {
	q := psql.Select(budgetColumns...).
		From(budgetTable).
		Where(squirrel.Eq{"id": budgetID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b budget.Budget
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("budget", budgetID.String())
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get budget: %w", err))
	}
	return &b, nil
}

func (r *BudgetRepo) GetItems(ctx context.Context, budgetID id.ID) ([]budget.LineItem, error) {
	q := psql.Select("id", "quantity", "unit_price", "description").
		From(budgetItemTable).
		Where(squirrel.Eq{"budget_id": budgetID}).
		OrderBy("position")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]budget.LineItem, 0)
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("get budget items: %w", err))
	}
	return items, nil
}

func (r *BudgetRepo) SaveItems(ctx context.Context, budgetID id.ID, items []budget.LineItem) error {
	querier := r.tx.GetQuerier(ctx)

	del := psql.Delete(budgetItemTable).Where(squirrel.Eq{"budget_id": budgetID})
	sql, args, err := del.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(fmt.Errorf("clear budget items: %w", err))
	}

	if len(items) == 0 {
		return nil
	}

	ins := psql.Insert(budgetItemTable).
		Columns("id", "budget_id", "position", "quantity", "unit_price", "description")
	for pos, item := range items {
		ins = ins.Values(item.ID, budgetID, pos, item.Quantity, item.UnitPrice, item.Description)
	}

	sql, args, err = ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert budget items: %w", err))
	}
	return nil
}

func (r *BudgetRepo) List(ctx context.Context) ([]*budget.Budget, error) {
	return r.list(ctx, nil)
}

func (r *BudgetRepo) ListByStatus(ctx context.Context, status budget.Status) ([]*budget.Budget, error) {
	return r.list(ctx, squirrel.Eq{"status": status})
}

func (r *BudgetRepo) list(ctx context.Context, where any) ([]*budget.Budget, error) {
	q := psql.Select(budgetColumns...).
		From(budgetTable).
		OrderBy("created_at DESC")
	if where != nil {
		q = q.Where(where)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	budgets := make([]*budget.Budget, 0)
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &budgets, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list budgets: %w", err))
	}
	return budgets, nil
}

func (r *BudgetRepo) Exists(ctx context.Context, budgetID id.ID) (bool, error) {
	q := psql.Select("1").
		From(budgetTable).
		Where(squirrel.Eq{"id": budgetID}).
		Prefix("SELECT EXISTS (").Suffix(")")

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists bool
	if err := r.tx.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, apperror.NewDatabase(fmt.Errorf("budget exists: %w", err))
	}
	return exists, nil
}
