package budget

import (
	"context"
	"encoding/json"
	"time"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/period"
	"madeirart/internal/core/tx"
	"madeirart/internal/core/types"
	"madeirart/internal/domain/installment"
	"madeirart/pkg/logger"
)

// Service provides business operations for budgets, including the
// installment plan builder that moves a budget into production.
type Service struct {
	repo         Repository
	installments installment.Repository
	snapshots    SnapshotStore
	txManager    tx.Manager
}

// NewService creates a new budget service.
func NewService(
	repo Repository,
	installments installment.Repository,
	snapshots SnapshotStore,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:         repo,
		installments: installments,
		snapshots:    snapshots,
		txManager:    txManager,
	}
}

// Create persists a new budget in waiting status.
func (s *Service) Create(ctx context.Context, b *Budget) error {
	if b.Status == "" {
		b.Status = StatusWaiting
	}
	if err := b.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}
		return s.repo.SaveItems(ctx, b.ID, b.Items)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "budget created", "id", b.ID, "client", b.Client)
	return nil
}

// GetByID retrieves a budget with its line items.
func (s *Service) GetByID(ctx context.Context, budgetID id.ID) (*Budget, error) {
	b, err := s.repo.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	b.Items = items

	return b, nil
}

// List returns all budgets with their line items.
func (s *Service) List(ctx context.Context) ([]*Budget, error) {
	budgets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.loadItems(ctx, budgets)
}

// ListByStatus returns budgets in the given status with their line items.
func (s *Service) ListByStatus(ctx context.Context, status Status) ([]*Budget, error) {
	if !status.Valid() {
		return nil, apperror.NewValidation("unknown budget status").
			WithDetail("status", string(status))
	}

	budgets, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return s.loadItems(ctx, budgets)
}

func (s *Service) loadItems(ctx context.Context, budgets []*Budget) ([]*Budget, error) {
	for _, b := range budgets {
		items, err := s.repo.GetItems(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		b.Items = items
	}
	return budgets, nil
}

// Update replaces a budget's mutable fields and line items. The prior
// computed state is snapshotted once the new state passes validation,
// so a rejected update leaves no audit trace.
func (s *Service) Update(ctx context.Context, updated *Budget) (*Budget, error) {
	existing, err := s.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	prior := *existing

	existing.Client = updated.Client
	existing.Furniture = updated.Furniture
	existing.Date = updated.Date
	existing.DeliveryForecast = updated.DeliveryForecast
	existing.LaborFactor = updated.LaborFactor
	existing.ExtraCosts = updated.ExtraCosts
	existing.Markup = updated.Markup
	existing.Items = updated.Items
	existing.UpdatedAt = time.Now().UTC()

	if err := existing.Validate(ctx); err != nil {
		return nil, err
	}

	s.snapshot(ctx, &prior, "budget update")

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, existing); err != nil {
			return err
		}
		return s.repo.SaveItems(ctx, existing.ID, existing.Items)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "budget updated", "id", existing.ID)
	return existing, nil
}

// Delete removes a budget, its items and its installments.
func (s *Service) Delete(ctx context.Context, budgetID id.ID) error {
	exists, err := s.repo.Exists(ctx, budgetID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("budget", budgetID.String())
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.installments.DeleteByBudget(ctx, budgetID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, budgetID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "budget deleted", "id", budgetID)
	return nil
}

// PlanEntry is one future installment of a payment plan.
type PlanEntry struct {
	Amount  types.Money
	DueDate time.Time
}

// Plan is a down payment plus an ordered list of future installments.
// The list may be empty, meaning full payment up front.
type Plan struct {
	DownPayment     types.Money
	DownPaymentDate time.Time
	Installments    []PlanEntry
}

// Validate checks plan invariants.
func (p Plan) Validate() error {
	if !p.DownPayment.IsPositive() {
		return apperror.NewValidation("down payment must be positive").
			WithDetail("field", "downPayment")
	}
	if p.DownPaymentDate.IsZero() {
		return apperror.NewValidation("down payment date is required").
			WithDetail("field", "downPaymentDate")
	}
	for i, entry := range p.Installments {
		if !entry.Amount.IsPositive() {
			return apperror.NewValidation("installment amount must be positive").
				WithDetail("field", "installments").
				WithDetail("installmentNo", i+1)
		}
		if entry.DueDate.IsZero() {
			return apperror.NewValidation("installment due date is required").
				WithDetail("field", "installments").
				WithDetail("installmentNo", i+1)
		}
	}
	return nil
}

// Sum returns down payment plus all installment amounts.
func (p Plan) Sum() types.Money {
	sum := p.DownPayment
	for _, entry := range p.Installments {
		sum = sum.Add(entry.Amount)
	}
	return sum
}

// StartProduction accepts an installment plan for a waiting budget.
//
// The plan's sum must equal the budget's computed total exactly (decimal
// comparison, no tolerance). On success the budget transitions to
// in-production, the prior state is snapshotted and the down payment is
// persisted as installment 1 followed by the remaining installments, all
// pending, in a single transaction. On any validation failure nothing is
// written.
func (s *Service) StartProduction(ctx context.Context, budgetID id.ID, plan Plan) (*Budget, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	b, err := s.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	if b.Status != StatusWaiting {
		return nil, apperror.NewInvalidState("budget must be waiting to start production").
			WithDetail("budgetId", budgetID.String()).
			WithDetail("currentStatus", string(b.Status))
	}

	total := b.Total()
	installmentsSum := types.SumMoney(planAmounts(plan.Installments))
	if !plan.Sum().Equal(total) {
		return nil, apperror.NewAmountMismatch(
			plan.DownPayment.String(),
			installmentsSum.String(),
			total.String(),
		)
	}

	s.snapshot(ctx, b, "production start")

	records := make([]*installment.Installment, 0, len(plan.Installments)+1)
	records = append(records, installment.New(
		b.ID, 1, plan.DownPayment, period.DateOnly(plan.DownPaymentDate)))
	for i, entry := range plan.Installments {
		records = append(records, installment.New(
			b.ID, i+2, entry.Amount, period.DateOnly(entry.DueDate)))
	}

	b.Status = StatusInProduction
	b.UpdatedAt = time.Now().UTC()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, b); err != nil {
			return err
		}
		return s.installments.CreateBatch(ctx, records)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "production started",
		"budget_id", b.ID,
		"total", total,
		"installments", len(records))

	return b, nil
}

func planAmounts(entries []PlanEntry) []types.Money {
	amounts := make([]types.Money, 0, len(entries))
	for _, entry := range entries {
		amounts = append(amounts, entry.Amount)
	}
	return amounts
}

// ChangeStatus moves a budget to a new lifecycle status, snapshotting the
// prior state first.
func (s *Service) ChangeStatus(ctx context.Context, budgetID id.ID, newStatus Status) (*Budget, error) {
	if !newStatus.Valid() {
		return nil, apperror.NewValidation("unknown budget status").
			WithDetail("status", string(newStatus))
	}

	b, err := s.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	s.snapshot(ctx, b, "status change")

	b.Status = newStatus
	b.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	logger.Info(ctx, "budget status changed", "id", b.ID, "status", newStatus)
	return b, nil
}

// History returns a budget's audit snapshots, newest first.
func (s *Service) History(ctx context.Context, budgetID id.ID) ([]*AuditSnapshot, error) {
	exists, err := s.repo.Exists(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NewNotFound("budget", budgetID.String())
	}

	return s.snapshots.ListByBudget(ctx, budgetID)
}

// ReceiptStatus summarizes how much of a budget's total has been received.
type ReceiptStatus struct {
	Total           types.Money                `json:"total"`
	Confirmed       types.Money                `json:"confirmed"`
	Outstanding     types.Money                `json:"outstanding"`
	PercentReceived float64                    `json:"percentReceived"`
	Installments    []*installment.Installment `json:"installments"`
}

// ReceiptStatus computes the receivable position of a budget from its
// installments and freshly derived total.
func (s *Service) ReceiptStatus(ctx context.Context, budgetID id.ID) (*ReceiptStatus, error) {
	b, err := s.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	insts, err := s.installments.ListByBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	total := b.Total()
	confirmed := types.Zero()
	for _, inst := range insts {
		if inst.Status == installment.StatusPaid {
			confirmed = confirmed.Add(inst.Amount)
		}
	}

	percent := 0.0
	if total.IsPositive() {
		percent, _ = confirmed.Div(total).Round(4).Mul(types.NewMoney(100)).Float64()
	}

	return &ReceiptStatus{
		Total:           total,
		Confirmed:       confirmed,
		Outstanding:     total.Sub(confirmed),
		PercentReceived: percent,
		Installments:    insts,
	}, nil
}

// snapshot appends an audit snapshot of the budget's computed state.
// Snapshot failures are logged and swallowed; they never abort the
// primary operation.
func (s *Service) snapshot(ctx context.Context, b *Budget, reason string) {
	body, err := json.Marshal(b.ComputedView())
	if err != nil {
		logger.Error(ctx, "snapshot serialization failed",
			"budget_id", b.ID, "error", err)
		return
	}

	snap := &AuditSnapshot{
		ID:        id.New(),
		BudgetID:  b.ID,
		Snapshot:  body,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.snapshots.Save(ctx, snap); err != nil {
		logger.Error(ctx, "snapshot write failed",
			"budget_id", b.ID, "error", err)
	}
}
