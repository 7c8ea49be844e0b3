package cashflow

import (
	"context"
	"fmt"
	"time"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/period"
	"madeirart/internal/core/tx"
	"madeirart/internal/core/types"
	"madeirart/internal/domain/budget"
	"madeirart/internal/domain/fixedcost"
	"madeirart/internal/domain/installment"
	"madeirart/internal/domain/variablecost"
	"madeirart/pkg/logger"
)

// Service computes cash balances and projections.
type Service struct {
	opening       OpeningBalanceRepository
	installments  installment.Repository
	budgets       budget.Repository
	fixedCosts    fixedcost.Repository
	variableCosts variablecost.Repository
	txManager     tx.ReadOnlyManager
	cfg           Config
}

// NewService creates a new cash flow service.
func NewService(
	opening OpeningBalanceRepository,
	installments installment.Repository,
	budgets budget.Repository,
	fixedCosts fixedcost.Repository,
	variableCosts variablecost.Repository,
	txManager tx.ReadOnlyManager,
	cfg Config,
) *Service {
	if cfg.ProjectionMonths <= 0 {
		cfg.ProjectionMonths = DefaultConfig().ProjectionMonths
	}
	if cfg.AccrualLookbackYears < 0 {
		cfg.AccrualLookbackYears = DefaultConfig().AccrualLookbackYears
	}
	return &Service{
		opening:       opening,
		installments:  installments,
		budgets:       budgets,
		fixedCosts:    fixedCosts,
		variableCosts: variableCosts,
		txManager:     txManager,
		cfg:           cfg,
	}
}

// OpeningBalance returns the recorded opening balance.
func (s *Service) OpeningBalance(ctx context.Context) (*OpeningBalance, error) {
	return s.opening.Get(ctx)
}

// SetOpeningBalance records the opening balance, replacing any
// previously recorded value and note.
func (s *Service) SetOpeningBalance(ctx context.Context, amount types.Money, note string) (*OpeningBalance, error) {
	existing, err := s.opening.Get(ctx)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}

	now := time.Now().UTC()
	balance := existing
	if balance == nil {
		balance = &OpeningBalance{
			ID:        id.New(),
			CreatedAt: now,
		}
	}
	balance.Amount = amount
	balance.Note = note
	balance.UpdatedAt = now

	if err := balance.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.opening.Upsert(ctx, balance); err != nil {
		return nil, err
	}

	logger.Info(ctx, "opening balance recorded", "amount", amount)
	return balance, nil
}

// CurrentBalance reconstructs the cash position as of today:
// opening balance, plus every paid installment, minus every variable
// cost issued up to today, minus the fixed-cost monthly accrual.
// A missing opening balance counts as zero. Nothing is cached; the
// balance is recomputed from current store state on every call.
// The reads share one read-only transaction.
func (s *Service) CurrentBalance(ctx context.Context, today time.Time) (*Balance, error) {
	var balance *Balance
	err := s.txManager.RunReadOnly(ctx, func(ctx context.Context) error {
		var err error
		balance, err = s.currentBalance(ctx, today)
		return err
	})
	return balance, err
}

func (s *Service) currentBalance(ctx context.Context, today time.Time) (*Balance, error) {
	today = period.DateOnly(today)

	opening := types.Zero()
	if ob, err := s.opening.Get(ctx); err != nil {
		if !apperror.IsNotFound(err) {
			return nil, err
		}
	} else {
		opening = ob.Amount
	}

	paid, err := s.installments.ListByStatus(ctx, installment.StatusPaid)
	if err != nil {
		return nil, err
	}
	received := types.Zero()
	for _, inst := range paid {
		received = received.Add(inst.Amount)
	}

	issued, err := s.variableCosts.ListIssuedUpTo(ctx, today)
	if err != nil {
		return nil, err
	}
	variableTotal := types.Zero()
	for _, c := range issued {
		variableTotal = variableTotal.Add(c.Amount)
	}

	active, err := s.fixedCosts.ListActiveByName(ctx)
	if err != nil {
		return nil, err
	}
	accrual := s.fixedCostAccrual(active, today)

	return &Balance{
		AsOf:                 today,
		Opening:              opening,
		InstallmentsReceived: received,
		VariableCostsIssued:  variableTotal,
		FixedCostAccrual:     accrual,
		Balance:              opening.Add(received).Sub(variableTotal).Sub(accrual),
	}, nil
}

// fixedCostAccrual charges every active fixed cost once per calendar
// month from January of (current year - lookback) through the current
// month, skipping months that precede the cost's creation month. Per
// cost status is not consulted; the accrual assumes every month since
// creation was paid.
func (s *Service) fixedCostAccrual(costs []*fixedcost.FixedCost, today time.Time) types.Money {
	anchor := period.New(today.Year()-s.cfg.AccrualLookbackYears, time.January)
	current := period.MonthOf(today)

	total := types.Zero()
	for _, c := range costs {
		created := period.MonthOf(c.CreatedAt)
		for m := anchor; !m.After(current); m = m.Next() {
			if m.Before(created) {
				continue
			}
			total = total.Add(c.Amount)
		}
	}
	return total
}

// Projection produces the configured number of consecutive future
// month projections, starting from next month, seeded with the
// current balance. Each month's end balance feeds the next month's
// start balance. The reads share one read-only transaction.
func (s *Service) Projection(ctx context.Context, today time.Time) ([]*MonthProjection, error) {
	var projections []*MonthProjection
	err := s.txManager.RunReadOnly(ctx, func(ctx context.Context) error {
		var err error
		projections, err = s.projection(ctx, today)
		return err
	})
	return projections, err
}

func (s *Service) projection(ctx context.Context, today time.Time) ([]*MonthProjection, error) {
	today = period.DateOnly(today)

	current, err := s.currentBalance(ctx, today)
	if err != nil {
		return nil, err
	}

	active, err := s.fixedCosts.ListActiveByName(ctx)
	if err != nil {
		return nil, err
	}

	balance := current.Balance
	base := period.MonthOf(today)

	projections := make([]*MonthProjection, 0, s.cfg.ProjectionMonths)
	for i := 1; i <= s.cfg.ProjectionMonths; i++ {
		month := base.AddMonths(i)

		mp, err := s.projectMonth(ctx, month, balance, active)
		if err != nil {
			return nil, err
		}
		projections = append(projections, mp)
		balance = mp.EndBalance
	}

	logger.Info(ctx, "cash projection computed",
		"months", s.cfg.ProjectionMonths, "from", base.Next().String())
	return projections, nil
}

func (s *Service) projectMonth(
	ctx context.Context,
	month period.Month,
	startBalance types.Money,
	active []*fixedcost.FixedCost,
) (*MonthProjection, error) {
	inflows, err := s.monthInflows(ctx, month)
	if err != nil {
		return nil, err
	}

	outflows := make([]Entry, 0, len(active))
	for _, c := range active {
		if period.MonthOf(c.CreatedAt).After(month) {
			continue
		}
		outflows = append(outflows, Entry{
			ID:          c.ID,
			Description: c.Name,
			Amount:      c.Amount,
			// due day clipped when the month is shorter
			Date:        month.At(c.DueDay),
			Origin:      OriginFixedCost,
			StatusLabel: c.StatusLabel(),
		})
	}

	variable, err := s.variableCosts.ListByPeriod(ctx, month.Start(), month.End())
	if err != nil {
		return nil, err
	}
	for _, c := range variable {
		outflows = append(outflows, Entry{
			ID:          c.ID,
			Description: c.DisplayName(),
			Amount:      c.Amount,
			Date:        c.IssueDate,
			Origin:      OriginVariableCost,
			StatusLabel: c.StatusLabel(),
		})
	}

	totalIn := types.Zero()
	for _, e := range inflows {
		totalIn = totalIn.Add(e.Amount)
	}
	totalOut := types.Zero()
	for _, e := range outflows {
		totalOut = totalOut.Add(e.Amount)
	}

	return &MonthProjection{
		Month:         month,
		Label:         month.Label(),
		StartBalance:  startBalance,
		Inflows:       inflows,
		Outflows:      outflows,
		TotalInflows:  totalIn,
		TotalOutflows: totalOut,
		EndBalance:    startBalance.Add(totalIn).Sub(totalOut),
	}, nil
}

func (s *Service) monthInflows(ctx context.Context, month period.Month) ([]Entry, error) {
	pending, err := s.installments.ListPendingDueBetween(ctx, month.Start(), month.End())
	if err != nil {
		return nil, err
	}

	budgetNames := make(map[id.ID]string)
	inflows := make([]Entry, 0, len(pending))
	for _, inst := range pending {
		name, ok := budgetNames[inst.BudgetID]
		if !ok {
			b, err := s.budgets.GetByID(ctx, inst.BudgetID)
			if err != nil {
				if !apperror.IsNotFound(err) {
					return nil, err
				}
				name = "budget"
			} else {
				name = fmt.Sprintf("%s (%s)", b.Furniture, b.Client)
			}
			budgetNames[inst.BudgetID] = name
		}

		inflows = append(inflows, Entry{
			ID:          inst.ID,
			Description: fmt.Sprintf("%s, installment %d", name, inst.Number),
			Amount:      inst.Amount,
			Date:        inst.DueDate,
			Origin:      OriginInstallment,
			StatusLabel: inst.StatusLabel(),
		})
	}
	return inflows, nil
}
