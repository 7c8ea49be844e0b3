package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/domain/installment"
)

const installmentTable = "installments"

var installmentColumns = []string{
	"id", "budget_id", "number", "amount", "due_date", "paid_date",
	"status", "created_at",
}

var _ installment.Repository = (*InstallmentRepo)(nil)

// InstallmentRepo implements installment.Repository.
type InstallmentRepo struct {
	tx *TxManager
}

// NewInstallmentRepo creates a new installment repository.
func NewInstallmentRepo(tx *TxManager) *InstallmentRepo {
	return &InstallmentRepo{tx: tx}
}

func (r *InstallmentRepo) Create(ctx context.Context, inst *installment.Installment) error {
	return r.CreateBatch(ctx, []*installment.Installment{inst})
}

func (r *InstallmentRepo) CreateBatch(ctx context.Context, installments []*installment.Installment) error {
	if len(installments) == 0 {
		return nil
	}

	q := psql.Insert(installmentTable).Columns(installmentColumns...)
	for _, inst := range installments {
		q = q.Values(inst.ID, inst.BudgetID, inst.Number, inst.Amount,
			inst.DueDate, inst.PaidDate, inst.Status, inst.CreatedAt)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert installments: %w", err))
	}
	return nil
}

func (r *InstallmentRepo) Update(ctx context.Context, inst *installment.Installment) error {
	q := psql.Update(installmentTable).
		Set("amount", inst.Amount).
		Set("due_date", inst.DueDate).
		Set("paid_date", inst.PaidDate).
		Set("status", inst.Status).
		Where(squirrel.Eq{"id": inst.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("update installment: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("installment", inst.ID.String())
	}
	return nil
}

// UpdateBatch persists status changes for a sweep in one transaction.
func (r *InstallmentRepo) UpdateBatch(ctx context.Context, installments []*installment.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	return r.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, inst := range installments {
			if err := r.Update(ctx, inst); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *InstallmentRepo) GetByID(ctx context.Context, instID id.ID) (*installment.Installment, error) {
	q := psql.Select(installmentColumns...).
		From(installmentTable).
		Where(squirrel.Eq{"id": instID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var inst installment.Installment
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &inst, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("installment", instID.String())
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get installment: %w", err))
	}
	return &inst, nil
}

func (r *InstallmentRepo) ListByBudget(ctx context.Context, budgetID id.ID) ([]*installment.Installment, error) {
	return r.list(ctx, squirrel.Eq{"budget_id": budgetID}, "number")
}

func (r *InstallmentRepo) ListByStatus(ctx context.Context, status installment.Status) ([]*installment.Installment, error) {
	return r.list(ctx, squirrel.Eq{"status": status}, "due_date")
}

func (r *InstallmentRepo) ListPendingDueBefore(ctx context.Context, date time.Time) ([]*installment.Installment, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"status": installment.StatusPending},
		squirrel.Lt{"due_date": date},
	}, "due_date")
}

func (r *InstallmentRepo) ListPendingDueBetween(ctx context.Context, from, to time.Time) ([]*installment.Installment, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"status": installment.StatusPending},
		squirrel.GtOrEq{"due_date": from},
		squirrel.LtOrEq{"due_date": to},
	}, "due_date")
}

func (r *InstallmentRepo) ListAll(ctx context.Context) ([]*installment.Installment, error) {
	return r.list(ctx, nil, "due_date")
}

func (r *InstallmentRepo) list(ctx context.Context, where any, order string) ([]*installment.Installment, error) {
	q := psql.Select(installmentColumns...).
		From(installmentTable).
		OrderBy(order)
	if where != nil {
		q = q.Where(where)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	installments := make([]*installment.Installment, 0)
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &installments, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list installments: %w", err))
	}
	return installments, nil
}

func (r *InstallmentRepo) DeleteByBudget(ctx context.Context, budgetID id.ID) error {
	q := psql.Delete(installmentTable).Where(squirrel.Eq{"budget_id": budgetID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(fmt.Errorf("delete installments: %w", err))
	}
	return nil
}
