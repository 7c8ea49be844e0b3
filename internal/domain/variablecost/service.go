package variablecost

import (
	"context"
	"time"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/period"
	"madeirart/internal/core/types"
	"madeirart/pkg/logger"
)

// Service provides business operations for variable costs.
type Service struct {
	repo Repository
}

// NewService creates a new variable cost service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListAll returns every variable cost, newest issue date first.
func (s *Service) ListAll(ctx context.Context) ([]*VariableCost, error) {
	return s.repo.ListAll(ctx)
}

// ListByPeriod returns costs issued within [from, to] inclusive.
func (s *Service) ListByPeriod(ctx context.Context, from, to time.Time) ([]*VariableCost, error) {
	if from.After(to) {
		return nil, apperror.NewValidation("period start must not be after period end")
	}
	return s.repo.ListByPeriod(ctx, period.DateOnly(from), period.DateOnly(to))
}

// GetByID retrieves a variable cost.
func (s *Service) GetByID(ctx context.Context, costID id.ID) (*VariableCost, error) {
	return s.repo.GetByID(ctx, costID)
}

// Create persists a variable cost. When parcels > 1 the amount is split
// into equal monthly slices: each slice is the total divided by the parcel
// count rounded half-up to cents, and the last slice absorbs the rounding
// remainder so the slices always sum exactly to the total. Slice i is
// issued i-1 months after the first; all slices share the first slice's
// id as OriginID.
func (s *Service) Create(ctx context.Context, c *VariableCost, parcels int) ([]*VariableCost, error) {
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	c.IssueDate = period.DateOnly(c.IssueDate)

	if parcels <= 1 {
		if err := s.repo.Create(ctx, c); err != nil {
			return nil, err
		}
		logger.Info(ctx, "variable cost created", "id", c.ID, "name", c.Name)
		return []*VariableCost{c}, nil
	}

	slices := splitAmount(c.Amount, parcels)

	costs := make([]*VariableCost, 0, parcels)
	originID := id.New()
	for i := 0; i < parcels; i++ {
		slice := New(c.Name, slices[i], c.IssueDate.AddDate(0, i, 0), c.Description)
		if i == 0 {
			slice.ID = originID
		}
		slice.Split = true
		slice.ParcelNumber = i + 1
		slice.ParcelTotal = parcels
		origin := originID
		slice.OriginID = &origin
		costs = append(costs, slice)
	}

	if err := s.repo.CreateBatch(ctx, costs); err != nil {
		return nil, err
	}

	logger.Info(ctx, "variable cost split created",
		"name", c.Name, "parcels", parcels, "total", c.Amount)
	return costs, nil
}

// splitAmount partitions total into n slices of equal size rounded to
// cents, with the last slice adjusted so the parts sum exactly to total.
func splitAmount(total types.Money, n int) []types.Money {
	per := total.DivRound(types.NewMoney(float64(n)), 2)

	slices := make([]types.Money, n)
	running := types.Zero()
	for i := 0; i < n-1; i++ {
		slices[i] = per
		running = running.Add(per)
	}
	slices[n-1] = total.Sub(running)
	return slices
}

// Update replaces a variable cost's editable fields.
func (s *Service) Update(ctx context.Context, updated *VariableCost) (*VariableCost, error) {
	c, err := s.repo.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, err
	}

	c.Name = updated.Name
	c.Amount = updated.Amount
	c.IssueDate = period.DateOnly(updated.IssueDate)
	c.Description = updated.Description
	c.UpdatedAt = time.Now().UTC()

	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	logger.Info(ctx, "variable cost updated", "id", c.ID)
	return c, nil
}

// Delete permanently removes a variable cost.
func (s *Service) Delete(ctx context.Context, costID id.ID) error {
	exists, err := s.repo.Exists(ctx, costID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("variable cost", costID.String())
	}

	if err := s.repo.Delete(ctx, costID); err != nil {
		return err
	}

	logger.Info(ctx, "variable cost deleted", "id", costID)
	return nil
}

// MarkPaid sets a variable cost's status to paid.
func (s *Service) MarkPaid(ctx context.Context, costID id.ID) (*VariableCost, error) {
	c, err := s.repo.GetByID(ctx, costID)
	if err != nil {
		return nil, err
	}

	if c.Status == StatusPaid {
		return nil, apperror.NewAlreadySettled("variable cost", costID.String())
	}

	c.Status = StatusPaid
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	logger.Info(ctx, "variable cost marked paid", "id", costID)
	return c, nil
}

// MarkPending reverts a variable cost to pending, or straight to overdue
// when its issue date has already passed.
func (s *Service) MarkPending(ctx context.Context, costID id.ID, today time.Time) (*VariableCost, error) {
	c, err := s.repo.GetByID(ctx, costID)
	if err != nil {
		return nil, err
	}

	if c.IssueDate.Before(period.DateOnly(today)) {
		c.Status = StatusOverdue
	} else {
		c.Status = StatusPending
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	logger.Info(ctx, "variable cost status reset", "id", costID, "status", c.Status)
	return c, nil
}

// MarkOverdue flips pending variable costs issued strictly before today
// to overdue and returns the number of records changed. Idempotent.
func (s *Service) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	overdue, err := s.repo.ListPendingIssuedBefore(ctx, period.DateOnly(today))
	if err != nil {
		return 0, err
	}

	if len(overdue) == 0 {
		logger.Info(ctx, "no overdue variable costs found")
		return 0, nil
	}

	for _, c := range overdue {
		c.Status = StatusOverdue
	}

	if err := s.repo.UpdateBatch(ctx, overdue); err != nil {
		return 0, err
	}

	logger.Info(ctx, "variable costs marked overdue", "count", len(overdue))
	return len(overdue), nil
}
