package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/types"
	"madeirart/internal/domain/budget"
	"madeirart/internal/domain/cashflow"
	"madeirart/internal/domain/fixedcost"
	"madeirart/internal/domain/installment"
	"madeirart/internal/domain/variablecost"
)

// --- in-memory fakes ---

type memBudgetRepo struct {
	budgets map[id.ID]*budget.Budget
}

func newMemBudgetRepo() *memBudgetRepo {
	return &memBudgetRepo{budgets: make(map[id.ID]*budget.Budget)}
}

func (r *memBudgetRepo) Create(_ context.Context, b *budget.Budget) error {
	r.budgets[b.ID] = b
	return nil
}
func (r *memBudgetRepo) Update(_ context.Context, _ *budget.Budget) error { return nil }
func (r *memBudgetRepo) Delete(_ context.Context, _ id.ID) error          { return nil }

func (r *memBudgetRepo) GetByID(_ context.Context, budgetID id.ID) (*budget.Budget, error) {
	b, ok := r.budgets[budgetID]
	if !ok {
		return nil, apperror.NewNotFound("budget", budgetID.String())
	}
	return b, nil
}

func (r *memBudgetRepo) GetItems(_ context.Context, _ id.ID) ([]budget.LineItem, error) {
	return nil, nil
}
func (r *memBudgetRepo) SaveItems(_ context.Context, _ id.ID, _ []budget.LineItem) error { return nil }
func (r *memBudgetRepo) List(_ context.Context) ([]*budget.Budget, error)                { return nil, nil }

func (r *memBudgetRepo) ListByStatus(_ context.Context, status budget.Status) ([]*budget.Budget, error) {
	out := make([]*budget.Budget, 0)
	for _, b := range r.budgets {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBudgetRepo) Exists(_ context.Context, _ id.ID) (bool, error) { return false, nil }

type memInstallmentRepo struct {
	records []*installment.Installment
}

func (r *memInstallmentRepo) Create(_ context.Context, inst *installment.Installment) error {
	r.records = append(r.records, inst)
	return nil
}
func (r *memInstallmentRepo) CreateBatch(_ context.Context, _ []*installment.Installment) error {
	return nil
}
func (r *memInstallmentRepo) GetByID(_ context.Context, instID id.ID) (*installment.Installment, error) {
	return nil, apperror.NewNotFound("installment", instID.String())
}
func (r *memInstallmentRepo) Update(_ context.Context, _ *installment.Installment) error { return nil }
func (r *memInstallmentRepo) UpdateBatch(_ context.Context, _ []*installment.Installment) error {
	return nil
}
func (r *memInstallmentRepo) ListByBudget(_ context.Context, _ id.ID) ([]*installment.Installment, error) {
	return nil, nil
}

func (r *memInstallmentRepo) ListByStatus(_ context.Context, status installment.Status) ([]*installment.Installment, error) {
	out := make([]*installment.Installment, 0)
	for _, inst := range r.records {
		if inst.Status == status {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (r *memInstallmentRepo) ListPendingDueBefore(_ context.Context, _ time.Time) ([]*installment.Installment, error) {
	return nil, nil
}

func (r *memInstallmentRepo) ListPendingDueBetween(_ context.Context, from, to time.Time) ([]*installment.Installment, error) {
	out := make([]*installment.Installment, 0)
	for _, inst := range r.records {
		if inst.Status == installment.StatusPending && !inst.DueDate.Before(from) && !inst.DueDate.After(to) {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (r *memInstallmentRepo) ListAll(_ context.Context) ([]*installment.Installment, error) {
	return r.records, nil
}
func (r *memInstallmentRepo) DeleteByBudget(_ context.Context, _ id.ID) error { return nil }

type memFixedCostRepo struct {
	records []*fixedcost.FixedCost
}

func (r *memFixedCostRepo) Create(_ context.Context, c *fixedcost.FixedCost) error {
	r.records = append(r.records, c)
	return nil
}
func (r *memFixedCostRepo) Update(_ context.Context, _ *fixedcost.FixedCost) error        { return nil }
func (r *memFixedCostRepo) UpdateBatch(_ context.Context, _ []*fixedcost.FixedCost) error { return nil }
func (r *memFixedCostRepo) Delete(_ context.Context, _ id.ID) error                       { return nil }
func (r *memFixedCostRepo) GetByID(_ context.Context, costID id.ID) (*fixedcost.FixedCost, error) {
	return nil, apperror.NewNotFound("fixed cost", costID.String())
}
func (r *memFixedCostRepo) Exists(_ context.Context, _ id.ID) (bool, error) { return false, nil }
func (r *memFixedCostRepo) ListAll(_ context.Context) ([]*fixedcost.FixedCost, error) {
	return r.records, nil
}

func (r *memFixedCostRepo) ListActiveByName(_ context.Context) ([]*fixedcost.FixedCost, error) {
	out := make([]*fixedcost.FixedCost, 0)
	for _, c := range r.records {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memFixedCostRepo) ListActiveByDueDay(_ context.Context, _ int) ([]*fixedcost.FixedCost, error) {
	return nil, nil
}
func (r *memFixedCostRepo) ListActiveByDueDayRange(_ context.Context, _, _ int) ([]*fixedcost.FixedCost, error) {
	return nil, nil
}

func (r *memFixedCostRepo) ListByStatus(_ context.Context, status fixedcost.Status) ([]*fixedcost.FixedCost, error) {
	out := make([]*fixedcost.FixedCost, 0)
	for _, c := range r.records {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

type memVariableCostRepo struct {
	records []*variablecost.VariableCost
}

func (r *memVariableCostRepo) Create(_ context.Context, c *variablecost.VariableCost) error {
	r.records = append(r.records, c)
	return nil
}
func (r *memVariableCostRepo) CreateBatch(_ context.Context, _ []*variablecost.VariableCost) error {
	return nil
}
func (r *memVariableCostRepo) Update(_ context.Context, _ *variablecost.VariableCost) error {
	return nil
}
func (r *memVariableCostRepo) UpdateBatch(_ context.Context, _ []*variablecost.VariableCost) error {
	return nil
}
func (r *memVariableCostRepo) Delete(_ context.Context, _ id.ID) error { return nil }
func (r *memVariableCostRepo) GetByID(_ context.Context, costID id.ID) (*variablecost.VariableCost, error) {
	return nil, apperror.NewNotFound("variable cost", costID.String())
}
func (r *memVariableCostRepo) Exists(_ context.Context, _ id.ID) (bool, error) { return false, nil }
func (r *memVariableCostRepo) ListAll(_ context.Context) ([]*variablecost.VariableCost, error) {
	return r.records, nil
}

func (r *memVariableCostRepo) ListByStatus(_ context.Context, status variablecost.Status) ([]*variablecost.VariableCost, error) {
	out := make([]*variablecost.VariableCost, 0)
	for _, c := range r.records {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memVariableCostRepo) ListByPeriod(_ context.Context, from, to time.Time) ([]*variablecost.VariableCost, error) {
	out := make([]*variablecost.VariableCost, 0)
	for _, c := range r.records {
		if !c.IssueDate.Before(from) && !c.IssueDate.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memVariableCostRepo) ListIssuedUpTo(_ context.Context, _ time.Time) ([]*variablecost.VariableCost, error) {
	return nil, nil
}
func (r *memVariableCostRepo) ListPendingIssuedBefore(_ context.Context, _ time.Time) ([]*variablecost.VariableCost, error) {
	return nil, nil
}

// --- fixtures ---

type fixture struct {
	service       *Service
	budgets       *memBudgetRepo
	installments  *memInstallmentRepo
	fixedCosts    *memFixedCostRepo
	variableCosts *memVariableCostRepo
}

func newFixture() *fixture {
	f := &fixture{
		budgets:       newMemBudgetRepo(),
		installments:  &memInstallmentRepo{},
		fixedCosts:    &memFixedCostRepo{},
		variableCosts: &memVariableCostRepo{},
	}
	f.service = NewService(f.budgets, f.installments, f.fixedCosts, f.variableCosts)
	return f
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// --- tests ---

func TestMonthCalendar_InstallmentKeyedByDueDate(t *testing.T) {
	f := newFixture()
	b := budget.New("Maria", "Wardrobe", date(2026, 8, 1))
	require.NoError(t, f.budgets.Create(context.Background(), b))

	f.installments.records = append(f.installments.records,
		installment.New(b.ID, 1, types.MustMoney("400.00"), date(2026, 9, 12)))

	cal, err := f.service.MonthCalendar(context.Background(), 2026, time.September)
	require.NoError(t, err)

	bucket, ok := cal.Days[12]
	require.True(t, ok)
	assert.True(t, bucket.HasInflows)
	assert.False(t, bucket.HasOutflows)
	require.Len(t, bucket.Inflows, 1)
	assert.Equal(t, "Wardrobe (Maria), installment 1", bucket.Inflows[0].Description)
	assert.Equal(t, cashflow.OriginInstallment, bucket.Inflows[0].Origin)
}

func TestMonthCalendar_PaidInstallmentKeyedByPaymentDate(t *testing.T) {
	f := newFixture()

	// due the 12th, paid the 20th: shows up on the 20th only
	inst := installment.New(id.New(), 1, types.MustMoney("400.00"), date(2026, 9, 12))
	paid := date(2026, 9, 20)
	inst.Status = installment.StatusPaid
	inst.PaidDate = &paid
	f.installments.records = append(f.installments.records, inst)

	cal, err := f.service.MonthCalendar(context.Background(), 2026, time.September)
	require.NoError(t, err)

	_, onDueDay := cal.Days[12]
	assert.False(t, onDueDay)
	bucket, ok := cal.Days[20]
	require.True(t, ok)
	assert.Equal(t, "Paid", bucket.Inflows[0].StatusLabel)
}

func TestMonthCalendar_PaymentInAnotherMonthExcluded(t *testing.T) {
	f := newFixture()

	inst := installment.New(id.New(), 1, types.MustMoney("400.00"), date(2026, 9, 12))
	paid := date(2026, 10, 2)
	inst.Status = installment.StatusPaid
	inst.PaidDate = &paid
	f.installments.records = append(f.installments.records, inst)

	cal, err := f.service.MonthCalendar(context.Background(), 2026, time.September)
	require.NoError(t, err)
	assert.Empty(t, cal.Days)
}

func TestMonthCalendar_ActiveFixedCostsAlwaysPresent(t *testing.T) {
	f := newFixture()
	f.fixedCosts.records = append(f.fixedCosts.records,
		fixedcost.New("rent", types.MustMoney("1200.00"), 5, ""))
	inactive := fixedcost.New("old lease", types.MustMoney("900.00"), 7, "")
	inactive.Active = false
	f.fixedCosts.records = append(f.fixedCosts.records, inactive)

	cal, err := f.service.MonthCalendar(context.Background(), 2026, time.September)
	require.NoError(t, err)

	bucket, ok := cal.Days[5]
	require.True(t, ok)
	assert.True(t, bucket.HasOutflows)
	require.Len(t, bucket.Outflows, 1)
	assert.Equal(t, "rent", bucket.Outflows[0].Description)
	assert.Equal(t, cashflow.OriginFixedCost, bucket.Outflows[0].Origin)

	_, hasInactive := cal.Days[7]
	assert.False(t, hasInactive)
}

func TestMonthCalendar_FixedCostDueDayClipped(t *testing.T) {
	f := newFixture()
	f.fixedCosts.records = append(f.fixedCosts.records,
		fixedcost.New("rent", types.MustMoney("1200.00"), 31, ""))

	// September has 30 days
	cal, err := f.service.MonthCalendar(context.Background(), 2026, time.September)
	require.NoError(t, err)

	bucket, ok := cal.Days[30]
	require.True(t, ok)
	require.Len(t, bucket.Outflows, 1)
	assert.Equal(t, date(2026, 9, 30), bucket.Outflows[0].Date)
}

func TestMonthCalendar_VariableCostParcelDescription(t *testing.T) {
	f := newFixture()

	c := variablecost.New("Compressor", types.MustMoney("333.33"), date(2026, 9, 18), "")
	c.Split = true
	c.ParcelNumber = 2
	c.ParcelTotal = 3
	f.variableCosts.records = append(f.variableCosts.records, c)

	cal, err := f.service.MonthCalendar(context.Background(), 2026, time.September)
	require.NoError(t, err)

	bucket, ok := cal.Days[18]
	require.True(t, ok)
	require.Len(t, bucket.Outflows, 1)
	assert.Equal(t, "Compressor (2/3)", bucket.Outflows[0].Description)
	assert.Equal(t, cashflow.OriginVariableCost, bucket.Outflows[0].Origin)
}

func TestMonthCalendar_MixedDayBucket(t *testing.T) {
	f := newFixture()
	f.installments.records = append(f.installments.records,
		installment.New(id.New(), 1, types.MustMoney("500.00"), date(2026, 9, 10)))
	f.fixedCosts.records = append(f.fixedCosts.records,
		fixedcost.New("rent", types.MustMoney("1200.00"), 10, ""))

	cal, err := f.service.MonthCalendar(context.Background(), 2026, time.September)
	require.NoError(t, err)

	bucket := cal.Days[10]
	require.NotNil(t, bucket)
	assert.True(t, bucket.HasInflows)
	assert.True(t, bucket.HasOutflows)
	assert.Len(t, bucket.Inflows, 1)
	assert.Len(t, bucket.Outflows, 1)
}

func TestMonthCalendar_InvalidMonth(t *testing.T) {
	f := newFixture()

	_, err := f.service.MonthCalendar(context.Background(), 2026, time.Month(13))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestMonthOutlook(t *testing.T) {
	f := newFixture()
	f.installments.records = append(f.installments.records,
		installment.New(id.New(), 1, types.MustMoney("800.00"), date(2026, 9, 10)))
	f.fixedCosts.records = append(f.fixedCosts.records,
		fixedcost.New("rent", types.MustMoney("1200.00"), 5, ""))
	f.variableCosts.records = append(f.variableCosts.records,
		variablecost.New("lumber", types.MustMoney("300.00"), date(2026, 9, 18), ""))

	outlook, err := f.service.MonthOutlook(context.Background(), 2026, time.September)
	require.NoError(t, err)

	assert.Equal(t, "September 2026", outlook.Label)
	assert.True(t, types.MustMoney("800.00").Equal(outlook.ExpectedRevenue))
	assert.True(t, types.MustMoney("1500.00").Equal(outlook.ExpectedExpense))
	assert.True(t, types.MustMoney("-700.00").Equal(outlook.Net))
}

func TestMonthOutlook_PaidInstallmentsNotRevenue(t *testing.T) {
	f := newFixture()

	inst := installment.New(id.New(), 1, types.MustMoney("800.00"), date(2026, 9, 10))
	inst.Status = installment.StatusPaid
	f.installments.records = append(f.installments.records, inst)

	outlook, err := f.service.MonthOutlook(context.Background(), 2026, time.September)
	require.NoError(t, err)
	assert.True(t, outlook.ExpectedRevenue.IsZero())
}

func TestSummary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	today := date(2026, 8, 15)

	waiting := budget.New("Ana", "Bookshelf", today)
	require.NoError(t, f.budgets.Create(ctx, waiting))

	forecast := date(2026, 8, 18)
	producing := budget.New("Carlos", "Dining table", today)
	producing.Status = budget.StatusInProduction
	producing.DeliveryForecast = &forecast
	require.NoError(t, f.budgets.Create(ctx, producing))

	farForecast := date(2026, 11, 20)
	distant := budget.New("Bruno", "Desk", today)
	distant.Status = budget.StatusInProduction
	distant.DeliveryForecast = &farForecast
	require.NoError(t, f.budgets.Create(ctx, distant))

	overdueInst := installment.New(producing.ID, 1, types.MustMoney("100.00"), date(2026, 8, 1))
	overdueInst.Status = installment.StatusOverdue
	f.installments.records = append(f.installments.records, overdueInst)

	overdueFixed := fixedcost.New("rent", types.MustMoney("1200.00"), 5, "")
	overdueFixed.Status = fixedcost.StatusOverdue
	f.fixedCosts.records = append(f.fixedCosts.records, overdueFixed)

	overdueVar := variablecost.New("lumber", types.MustMoney("300.00"), date(2026, 8, 10), "")
	overdueVar.Status = variablecost.StatusOverdue
	f.variableCosts.records = append(f.variableCosts.records, overdueVar)

	sum, err := f.service.Summary(ctx, today)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.BudgetsWaiting)
	assert.Equal(t, 2, sum.BudgetsInProduction)
	assert.Equal(t, 0, sum.BudgetsFinished)
	assert.Equal(t, 1, sum.OverdueInstallments)
	assert.Equal(t, 2, sum.OverdueCosts)

	// only the delivery inside the five-day window is listed
	require.Len(t, sum.UpcomingDeliveries, 1)
	assert.Equal(t, "Carlos", sum.UpcomingDeliveries[0].Client)
	assert.Equal(t, forecast, sum.UpcomingDeliveries[0].Date)
}

func TestSummary_DeliveryWindow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	today := date(2026, 8, 15)

	add := func(client string, forecast time.Time) {
		b := budget.New(client, "Chair", today)
		b.Status = budget.StatusInProduction
		b.DeliveryForecast = &forecast
		require.NoError(t, f.budgets.Create(ctx, b))
	}

	add("Late", today.AddDate(0, 0, -1))
	add("Today", today)
	add("EdgeOfWindow", today.AddDate(0, 0, 5))
	add("PastWindow", today.AddDate(0, 0, 6))
	add("FarFuture", today.AddDate(0, 0, 300))

	sum, err := f.service.Summary(ctx, today)
	require.NoError(t, err)

	// late deliveries stay listed; anything past the window does not
	require.Len(t, sum.UpcomingDeliveries, 3)
	assert.Equal(t, "Late", sum.UpcomingDeliveries[0].Client)
	assert.Equal(t, "Today", sum.UpcomingDeliveries[1].Client)
	assert.Equal(t, "EdgeOfWindow", sum.UpcomingDeliveries[2].Client)
}
