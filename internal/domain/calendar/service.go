package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/period"
	"madeirart/internal/core/types"
	"madeirart/internal/domain/budget"
	"madeirart/internal/domain/cashflow"
	"madeirart/internal/domain/fixedcost"
	"madeirart/internal/domain/installment"
	"madeirart/internal/domain/variablecost"
)

const deliveryWindowDays = 5

// Service builds financial calendar and dashboard views.
type Service struct {
	budgets       budget.Repository
	installments  installment.Repository
	fixedCosts    fixedcost.Repository
	variableCosts variablecost.Repository
}

// NewService creates a new calendar service.
func NewService(
	budgets budget.Repository,
	installments installment.Repository,
	fixedCosts fixedcost.Repository,
	variableCosts variablecost.Repository,
) *Service {
	return &Service{
		budgets:       budgets,
		installments:  installments,
		fixedCosts:    fixedCosts,
		variableCosts: variableCosts,
	}
}

// MonthCalendar builds the day-bucketed view of one month.
// Installments are keyed by payment date when paid, otherwise due date.
// Active fixed costs are always included at their due day regardless of
// the requested month; the due day is clipped when the month is shorter.
// Variable costs are keyed by issue date.
func (s *Service) MonthCalendar(ctx context.Context, year int, month time.Month) (*MonthCalendar, error) {
	if month < time.January || month > time.December {
		return nil, apperror.NewValidation("month must be between 1 and 12")
	}

	m := period.New(year, month)
	cal := &MonthCalendar{
		Month: m,
		Label: m.Label(),
		Days:  make(map[int]*DayBucket),
	}

	installments, err := s.installments.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	budgetNames := make(map[id.ID]string)
	for _, inst := range installments {
		ref := inst.ReferenceDate()
		if !m.Contains(ref) {
			continue
		}

		name, err := s.budgetName(ctx, budgetNames, inst.BudgetID)
		if err != nil {
			return nil, err
		}

		cal.addInflow(ref.Day(), cashflow.Entry{
			ID:          inst.ID,
			Description: fmt.Sprintf("%s, installment %d", name, inst.Number),
			Amount:      inst.Amount,
			Date:        ref,
			Origin:      cashflow.OriginInstallment,
			StatusLabel: inst.StatusLabel(),
		})
	}

	fixed, err := s.fixedCosts.ListActiveByName(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range fixed {
		date := m.At(c.DueDay)
		cal.addOutflow(date.Day(), cashflow.Entry{
			ID:          c.ID,
			Description: c.Name,
			Amount:      c.Amount,
			Date:        date,
			Origin:      cashflow.OriginFixedCost,
			StatusLabel: c.StatusLabel(),
		})
	}

	variable, err := s.variableCosts.ListByPeriod(ctx, m.Start(), m.End())
	if err != nil {
		return nil, err
	}
	for _, c := range variable {
		cal.addOutflow(c.IssueDate.Day(), cashflow.Entry{
			ID:          c.ID,
			Description: c.DisplayName(),
			Amount:      c.Amount,
			Date:        c.IssueDate,
			Origin:      cashflow.OriginVariableCost,
			StatusLabel: c.StatusLabel(),
		})
	}

	return cal, nil
}

func (s *Service) budgetName(ctx context.Context, cache map[id.ID]string, budgetID id.ID) (string, error) {
	if name, ok := cache[budgetID]; ok {
		return name, nil
	}

	name := "budget"
	b, err := s.budgets.GetByID(ctx, budgetID)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return "", err
		}
	} else {
		name = fmt.Sprintf("%s (%s)", b.Furniture, b.Client)
	}
	cache[budgetID] = name
	return name, nil
}

func (c *MonthCalendar) bucket(day int) *DayBucket {
	b, ok := c.Days[day]
	if !ok {
		b = &DayBucket{Day: day}
		c.Days[day] = b
	}
	return b
}

func (c *MonthCalendar) addInflow(day int, e cashflow.Entry) {
	b := c.bucket(day)
	b.HasInflows = true
	b.Inflows = append(b.Inflows, e)
}

func (c *MonthCalendar) addOutflow(day int, e cashflow.Entry) {
	b := c.bucket(day)
	b.HasOutflows = true
	b.Outflows = append(b.Outflows, e)
}

// MonthOutlook aggregates expected revenue and expense for one month:
// pending installments due in the month against all active fixed costs
// plus variable costs issued in the month.
func (s *Service) MonthOutlook(ctx context.Context, year int, month time.Month) (*MonthOutlook, error) {
	if month < time.January || month > time.December {
		return nil, apperror.NewValidation("month must be between 1 and 12")
	}

	m := period.New(year, month)

	pending, err := s.installments.ListPendingDueBetween(ctx, m.Start(), m.End())
	if err != nil {
		return nil, err
	}
	revenue := types.Zero()
	for _, inst := range pending {
		revenue = revenue.Add(inst.Amount)
	}

	fixed, err := s.fixedCosts.ListActiveByName(ctx)
	if err != nil {
		return nil, err
	}
	expense := types.Zero()
	for _, c := range fixed {
		expense = expense.Add(c.Amount)
	}

	variable, err := s.variableCosts.ListByPeriod(ctx, m.Start(), m.End())
	if err != nil {
		return nil, err
	}
	for _, c := range variable {
		expense = expense.Add(c.Amount)
	}

	return &MonthOutlook{
		Month:           m,
		Label:           m.Label(),
		ExpectedRevenue: revenue,
		ExpectedExpense: expense,
		Net:             revenue.Sub(expense),
	}, nil
}

// Summary builds the dashboard snapshot: budget counts by status,
// overdue obligation counts and the deliveries falling due within the
// next few days, late ones included.
func (s *Service) Summary(ctx context.Context, today time.Time) (*Summary, error) {
	today = period.DateOnly(today)
	sum := &Summary{}

	waiting, err := s.budgets.ListByStatus(ctx, budget.StatusWaiting)
	if err != nil {
		return nil, err
	}
	sum.BudgetsWaiting = len(waiting)

	inProduction, err := s.budgets.ListByStatus(ctx, budget.StatusInProduction)
	if err != nil {
		return nil, err
	}
	sum.BudgetsInProduction = len(inProduction)

	finished, err := s.budgets.ListByStatus(ctx, budget.StatusFinished)
	if err != nil {
		return nil, err
	}
	sum.BudgetsFinished = len(finished)

	overdueInst, err := s.installments.ListByStatus(ctx, installment.StatusOverdue)
	if err != nil {
		return nil, err
	}
	sum.OverdueInstallments = len(overdueInst)

	overdueFixed, err := s.fixedCosts.ListByStatus(ctx, fixedcost.StatusOverdue)
	if err != nil {
		return nil, err
	}
	overdueVariable, err := s.variableCosts.ListByStatus(ctx, variablecost.StatusOverdue)
	if err != nil {
		return nil, err
	}
	sum.OverdueCosts = len(overdueFixed) + len(overdueVariable)

	// forecasts already behind schedule stay listed until delivered
	cutoff := today.AddDate(0, 0, deliveryWindowDays)
	deliveries := make([]Delivery, 0)
	for _, b := range inProduction {
		if b.DeliveryForecast == nil || b.DeliveryForecast.After(cutoff) {
			continue
		}
		deliveries = append(deliveries, Delivery{
			BudgetID:  b.ID.String(),
			Client:    b.Client,
			Furniture: b.Furniture,
			Date:      *b.DeliveryForecast,
		})
	}
	sort.Slice(deliveries, func(i, j int) bool {
		return deliveries[i].Date.Before(deliveries[j].Date)
	})
	sum.UpcomingDeliveries = deliveries

	return sum, nil
}
