package reconciler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/types"
	"madeirart/internal/domain/fixedcost"
	"madeirart/internal/domain/installment"
	"madeirart/internal/domain/variablecost"
)

// --- in-memory fakes ---

type memInstallmentRepo struct {
	records []*installment.Installment
	listErr error
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
func (r *memInstallmentRepo) ListByStatus(_ context.Context, _ installment.Status) ([]*installment.Installment, error) {
	return nil, nil
}

func (r *memInstallmentRepo) ListPendingDueBefore(_ context.Context, date time.Time) ([]*installment.Installment, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*installment.Installment, 0)
	for _, inst := range r.records {
		if inst.Status == installment.StatusPending && inst.DueDate.Before(date) {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (r *memInstallmentRepo) ListPendingDueBetween(_ context.Context, _, _ time.Time) ([]*installment.Installment, error) {
	return nil, nil
}
func (r *memInstallmentRepo) ListAll(_ context.Context) ([]*installment.Installment, error) {
	return r.records, nil
}
func (r *memInstallmentRepo) DeleteByBudget(_ context.Context, _ id.ID) error { return nil }

type memFixedCostRepo struct {
	records []*fixedcost.FixedCost
	listErr error
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
	return nil, nil
}
func (r *memFixedCostRepo) ListActiveByDueDay(_ context.Context, _ int) ([]*fixedcost.FixedCost, error) {
	return nil, nil
}
func (r *memFixedCostRepo) ListActiveByDueDayRange(_ context.Context, _, _ int) ([]*fixedcost.FixedCost, error) {
	return nil, nil
}

func (r *memFixedCostRepo) ListByStatus(_ context.Context, status fixedcost.Status) ([]*fixedcost.FixedCost, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
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
	listErr error
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
func (r *memVariableCostRepo) ListByStatus(_ context.Context, _ variablecost.Status) ([]*variablecost.VariableCost, error) {
	return nil, nil
}
func (r *memVariableCostRepo) ListByPeriod(_ context.Context, _, _ time.Time) ([]*variablecost.VariableCost, error) {
	return nil, nil
}
func (r *memVariableCostRepo) ListIssuedUpTo(_ context.Context, _ time.Time) ([]*variablecost.VariableCost, error) {
	return nil, nil
}

func (r *memVariableCostRepo) ListPendingIssuedBefore(_ context.Context, date time.Time) ([]*variablecost.VariableCost, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*variablecost.VariableCost, 0)
	for _, c := range r.records {
		if c.Status == variablecost.StatusPending && c.IssueDate.Before(date) {
			out = append(out, c)
		}
	}
	return out, nil
}

// --- fixtures ---

type fixture struct {
	service       *Service
	installments  *memInstallmentRepo
	fixedCosts    *memFixedCostRepo
	variableCosts *memVariableCostRepo
}

func newFixture() *fixture {
	f := &fixture{
		installments:  &memInstallmentRepo{},
		fixedCosts:    &memFixedCostRepo{},
		variableCosts: &memVariableCostRepo{},
	}
	f.service = NewService(
		installment.NewService(f.installments),
		fixedcost.NewService(f.fixedCosts),
		variablecost.NewService(f.variableCosts),
	)
	return f
}

var today = time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

func (f *fixture) seedOverdueRecords() {
	// one overdue candidate per sweep, plus one current record each
	f.installments.records = append(f.installments.records,
		installment.New(id.New(), 1, types.MustMoney("500.00"), today.AddDate(0, 0, -5)),
		installment.New(id.New(), 2, types.MustMoney("500.00"), today.AddDate(0, 1, 0)),
	)
	f.fixedCosts.records = append(f.fixedCosts.records,
		fixedcost.New("rent", types.MustMoney("1200.00"), 10, ""),
		fixedcost.New("insurance", types.MustMoney("300.00"), 20, ""),
	)
	f.variableCosts.records = append(f.variableCosts.records,
		variablecost.New("lumber", types.MustMoney("800.00"), today.AddDate(0, 0, -2), ""),
		variablecost.New("hinges", types.MustMoney("90.00"), today, ""),
	)
}

// --- tests ---

func TestRun_SweepsAllThreeKinds(t *testing.T) {
	f := newFixture()
	f.seedOverdueRecords()

	result, err := f.service.Run(context.Background(), today)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Installments)
	assert.Equal(t, 1, result.FixedCosts)
	assert.Equal(t, 1, result.VariableCosts)
	assert.Equal(t, 3, result.Total())

	assert.Equal(t, installment.StatusOverdue, f.installments.records[0].Status)
	assert.Equal(t, installment.StatusPending, f.installments.records[1].Status)
	assert.Equal(t, fixedcost.StatusOverdue, f.fixedCosts.records[0].Status)
	assert.Equal(t, fixedcost.StatusPending, f.fixedCosts.records[1].Status)
	assert.Equal(t, variablecost.StatusOverdue, f.variableCosts.records[0].Status)
	assert.Equal(t, variablecost.StatusPending, f.variableCosts.records[1].Status)
}

func TestRun_SecondRunChangesNothing(t *testing.T) {
	f := newFixture()
	f.seedOverdueRecords()

	_, err := f.service.Run(context.Background(), today)
	require.NoError(t, err)

	result, err := f.service.Run(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total())
}

func TestRun_EmptyStores(t *testing.T) {
	f := newFixture()

	result, err := f.service.Run(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total())
}

func TestRun_FailedSweepDoesNotStopOthers(t *testing.T) {
	f := newFixture()
	f.seedOverdueRecords()
	f.installments.listErr = apperror.NewDatabase(assert.AnError)

	result, err := f.service.Run(context.Background(), today)
	require.Error(t, err)

	// the failing sweep reports zero, the others still ran
	assert.Equal(t, 0, result.Installments)
	assert.Equal(t, 1, result.FixedCosts)
	assert.Equal(t, 1, result.VariableCosts)
	assert.Equal(t, fixedcost.StatusOverdue, f.fixedCosts.records[0].Status)
	assert.Equal(t, variablecost.StatusOverdue, f.variableCosts.records[0].Status)
}

func TestRun_FirstErrorWins(t *testing.T) {
	f := newFixture()
	fixedErr := apperror.NewDatabase(assert.AnError)
	f.fixedCosts.listErr = fixedErr
	f.variableCosts.listErr = apperror.NewInternal(assert.AnError)

	result, err := f.service.Run(context.Background(), today)
	require.Error(t, err)
	assert.Same(t, fixedErr, err)
	assert.Equal(t, 0, result.Total())
}
