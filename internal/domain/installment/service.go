package installment

import (
	"context"
	"time"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/period"
	"madeirart/pkg/logger"
)

// Service provides business operations for installments.
type Service struct {
	repo Repository
}

// NewService creates a new installment service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListByBudget returns a budget's installments ordered by number.
func (s *Service) ListByBudget(ctx context.Context, budgetID id.ID) ([]*Installment, error) {
	return s.repo.ListByBudget(ctx, budgetID)
}

// GetByID retrieves an installment.
func (s *Service) GetByID(ctx context.Context, instID id.ID) (*Installment, error) {
	return s.repo.GetByID(ctx, instID)
}

// ConfirmPayment marks an installment as paid on the given date.
// Confirming an already-paid installment fails with AlreadySettled.
func (s *Service) ConfirmPayment(ctx context.Context, instID id.ID, today time.Time) (*Installment, error) {
	inst, err := s.repo.GetByID(ctx, instID)
	if err != nil {
		return nil, err
	}

	if inst.Status == StatusPaid {
		return nil, apperror.NewAlreadySettled("installment", instID.String())
	}

	paid := period.DateOnly(today)
	inst.Status = StatusPaid
	inst.PaidDate = &paid

	if err := s.repo.Update(ctx, inst); err != nil {
		return nil, err
	}

	logger.Info(ctx, "installment payment confirmed",
		"id", inst.ID,
		"budget_id", inst.BudgetID,
		"number", inst.Number,
		"amount", inst.Amount)

	return inst, nil
}

// MarkOverdue flips pending installments whose due date is strictly before
// today to overdue and returns the number of records changed. Running the
// sweep again on the same day changes nothing.
func (s *Service) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	overdue, err := s.repo.ListPendingDueBefore(ctx, period.DateOnly(today))
	if err != nil {
		return 0, err
	}

	if len(overdue) == 0 {
		logger.Info(ctx, "no overdue installments found")
		return 0, nil
	}

	for _, inst := range overdue {
		inst.Status = StatusOverdue
	}

	if err := s.repo.UpdateBatch(ctx, overdue); err != nil {
		return 0, err
	}

	logger.Info(ctx, "installments marked overdue", "count", len(overdue))
	return len(overdue), nil
}
