package fixedcost

import (
	"context"
	"time"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/pkg/logger"
)

// Service provides business operations for fixed costs.
type Service struct {
	repo Repository
}

// NewService creates a new fixed cost service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListAll returns every fixed cost ordered by name.
func (s *Service) ListAll(ctx context.Context) ([]*FixedCost, error) {
	return s.repo.ListAll(ctx)
}

// ListActive returns active costs ordered by name.
func (s *Service) ListActive(ctx context.Context) ([]*FixedCost, error) {
	return s.repo.ListActiveByName(ctx)
}

// ListActiveByDueDay returns active costs due on the given day of month.
func (s *Service) ListActiveByDueDay(ctx context.Context, dueDay int) ([]*FixedCost, error) {
	if dueDay < 1 || dueDay > 31 {
		return nil, apperror.NewValidation("due day must be within 1..31").
			WithDetail("dueDay", dueDay)
	}
	return s.repo.ListActiveByDueDay(ctx, dueDay)
}

// ListByDueDayRange returns active costs due within a day-of-month range.
func (s *Service) ListByDueDayRange(ctx context.Context, from, to int) ([]*FixedCost, error) {
	if from < 1 || to > 31 || from > to {
		return nil, apperror.NewValidation("day range must be within 1..31").
			WithDetail("from", from).
			WithDetail("to", to)
	}
	return s.repo.ListActiveByDueDayRange(ctx, from, to)
}

// GetByID retrieves a fixed cost.
func (s *Service) GetByID(ctx context.Context, costID id.ID) (*FixedCost, error) {
	return s.repo.GetByID(ctx, costID)
}

// Create persists a new fixed cost.
func (s *Service) Create(ctx context.Context, c *FixedCost) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return err
	}
	logger.Info(ctx, "fixed cost created", "id", c.ID, "name", c.Name)
	return nil
}

// Update replaces a fixed cost's editable fields.
func (s *Service) Update(ctx context.Context, updated *FixedCost) (*FixedCost, error) {
	c, err := s.repo.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, err
	}

	c.Name = updated.Name
	c.Amount = updated.Amount
	c.DueDay = updated.DueDay
	c.Description = updated.Description
	c.UpdatedAt = time.Now().UTC()

	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	logger.Info(ctx, "fixed cost updated", "id", c.ID)
	return c, nil
}

// Deactivate soft-deletes a fixed cost.
func (s *Service) Deactivate(ctx context.Context, costID id.ID) error {
	c, err := s.repo.GetByID(ctx, costID)
	if err != nil {
		return err
	}

	c.Active = false
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return err
	}

	logger.Info(ctx, "fixed cost deactivated", "id", costID)
	return nil
}

// Reactivate re-enables a deactivated fixed cost.
func (s *Service) Reactivate(ctx context.Context, costID id.ID) (*FixedCost, error) {
	c, err := s.repo.GetByID(ctx, costID)
	if err != nil {
		return nil, err
	}

	c.Active = true
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	logger.Info(ctx, "fixed cost reactivated", "id", costID)
	return c, nil
}

// Delete permanently removes a fixed cost.
func (s *Service) Delete(ctx context.Context, costID id.ID) error {
	exists, err := s.repo.Exists(ctx, costID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("fixed cost", costID.String())
	}

	if err := s.repo.Delete(ctx, costID); err != nil {
		return err
	}

	logger.Info(ctx, "fixed cost deleted", "id", costID)
	return nil
}

// MarkPaid sets a fixed cost's status to paid for the current month.
func (s *Service) MarkPaid(ctx context.Context, costID id.ID) (*FixedCost, error) {
	c, err := s.repo.GetByID(ctx, costID)
	if err != nil {
		return nil, err
	}

	if c.Status == StatusPaid {
		return nil, apperror.NewAlreadySettled("fixed cost", costID.String())
	}

	c.Status = StatusPaid
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	logger.Info(ctx, "fixed cost marked paid", "id", costID)
	return c, nil
}

// MarkPending reverts a fixed cost to pending, or straight to overdue when
// its due day has already passed this month.
func (s *Service) MarkPending(ctx context.Context, costID id.ID, today time.Time) (*FixedCost, error) {
	c, err := s.repo.GetByID(ctx, costID)
	if err != nil {
		return nil, err
	}

	if c.DueDay < today.Day() {
		c.Status = StatusOverdue
	} else {
		c.Status = StatusPending
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	logger.Info(ctx, "fixed cost status reset", "id", costID, "status", c.Status)
	return c, nil
}

// MarkOverdue flips pending fixed costs whose due day has passed in the
// current month to overdue and returns the number of records changed.
// The comparison is against today's day-of-month only, not a full date:
// fixed costs recur monthly, so "overdue" is always relative to the
// current month. Idempotent.
func (s *Service) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	pending, err := s.repo.ListByStatus(ctx, StatusPending)
	if err != nil {
		return 0, err
	}

	day := today.Day()
	overdue := make([]*FixedCost, 0, len(pending))
	for _, c := range pending {
		if c.DueDay < day {
			c.Status = StatusOverdue
			overdue = append(overdue, c)
		}
	}

	if len(overdue) == 0 {
		logger.Info(ctx, "no overdue fixed costs found")
		return 0, nil
	}

	if err := s.repo.UpdateBatch(ctx, overdue); err != nil {
		return 0, err
	}

	logger.Info(ctx, "fixed costs marked overdue", "count", len(overdue))
	return len(overdue), nil
}
