package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madeirart/internal/core/apperror"
	"madeirart/internal/core/id"
	"madeirart/internal/core/types"
	"madeirart/internal/domain/installment"
)

// --- in-memory fakes ---

type memBudgetRepo struct {
	budgets map[id.ID]*Budget
	items   map[id.ID][]LineItem
}

func newMemBudgetRepo() *memBudgetRepo {
	return &memBudgetRepo{
		budgets: make(map[id.ID]*Budget),
		items:   make(map[id.ID][]LineItem),
	}
}

func (r *memBudgetRepo) Create(_ context.Context, b *Budget) error {
	clone := *b
	clone.Items = nil
	r.budgets[b.ID] = &clone
	return nil
}

func (r *memBudgetRepo) Update(_ context.Context, b *Budget) error {
	if _, ok := r.budgets[b.ID]; !ok {
		return apperror.NewNotFound("budget", b.ID.String())
	}
	clone := *b
	clone.Items = nil
	r.budgets[b.ID] = &clone
	return nil
}

func (r *memBudgetRepo) Delete(_ context.Context, budgetID id.ID) error {
	if _, ok := r.budgets[budgetID]; !ok {
		return apperror.NewNotFound("budget", budgetID.String())
	}
	delete(r.budgets, budgetID)
	delete(r.items, budgetID)
	return nil
}

func (r *memBudgetRepo) GetByID(_ context.Context, budgetID id.ID) (*Budget, error) {
	b, ok := r.budgets[budgetID]
	if !ok {
		return nil, apperror.NewNotFound("budget", budgetID.String())
	}
	clone := *b
	return &clone, nil
}

func (r *memBudgetRepo) GetItems(_ context.Context, budgetID id.ID) ([]LineItem, error) {
	return append([]LineItem(nil), r.items[budgetID]...), nil
}

func (r *memBudgetRepo) SaveItems(_ context.Context, budgetID id.ID, items []LineItem) error {
	r.items[budgetID] = append([]LineItem(nil), items...)
	return nil
}

func (r *memBudgetRepo) List(_ context.Context) ([]*Budget, error) {
	out := make([]*Budget, 0, len(r.budgets))
	for _, b := range r.budgets {
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memBudgetRepo) ListByStatus(_ context.Context, status Status) ([]*Budget, error) {
	out := make([]*Budget, 0)
	for _, b := range r.budgets {
		if b.Status == status {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memBudgetRepo) Exists(_ context.Context, budgetID id.ID) (bool, error) {
	_, ok := r.budgets[budgetID]
	return ok, nil
}

type memInstallmentRepo struct {
	records   map[id.ID]*installment.Installment
	createErr error
}

func newMemInstallmentRepo() *memInstallmentRepo {
	return &memInstallmentRepo{records: make(map[id.ID]*installment.Installment)}
}

func (r *memInstallmentRepo) Create(ctx context.Context, inst *installment.Installment) error {
	return r.CreateBatch(ctx, []*installment.Installment{inst})
}

func (r *memInstallmentRepo) CreateBatch(_ context.Context, insts []*installment.Installment) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, inst := range insts {
		clone := *inst
		r.records[inst.ID] = &clone
	}
	return nil
}

func (r *memInstallmentRepo) GetByID(_ context.Context, instID id.ID) (*installment.Installment, error) {
	inst, ok := r.records[instID]
	if !ok {
		return nil, apperror.NewNotFound("installment", instID.String())
	}
	clone := *inst
	return &clone, nil
}

func (r *memInstallmentRepo) Update(_ context.Context, inst *installment.Installment) error {
	clone := *inst
	r.records[inst.ID] = &clone
	return nil
}

func (r *memInstallmentRepo) UpdateBatch(ctx context.Context, insts []*installment.Installment) error {
	for _, inst := range insts {
		if err := r.Update(ctx, inst); err != nil {
			return err
		}
	}
	return nil
}

func (r *memInstallmentRepo) ListByBudget(_ context.Context, budgetID id.ID) ([]*installment.Installment, error) {
	out := make([]*installment.Installment, 0)
	for _, inst := range r.records {
		if inst.BudgetID == budgetID {
			clone := *inst
			out = append(out, &clone)
		}
	}
	sortInstallments(out)
	return out, nil
}

func (r *memInstallmentRepo) ListByStatus(_ context.Context, status installment.Status) ([]*installment.Installment, error) {
	out := make([]*installment.Installment, 0)
	for _, inst := range r.records {
		if inst.Status == status {
			clone := *inst
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memInstallmentRepo) ListPendingDueBefore(_ context.Context, date time.Time) ([]*installment.Installment, error) {
	out := make([]*installment.Installment, 0)
	for _, inst := range r.records {
		if inst.Status == installment.StatusPending && inst.DueDate.Before(date) {
			clone := *inst
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memInstallmentRepo) ListPendingDueBetween(_ context.Context, from, to time.Time) ([]*installment.Installment, error) {
	out := make([]*installment.Installment, 0)
	for _, inst := range r.records {
		if inst.Status == installment.StatusPending && !inst.DueDate.Before(from) && !inst.DueDate.After(to) {
			clone := *inst
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memInstallmentRepo) ListAll(_ context.Context) ([]*installment.Installment, error) {
	out := make([]*installment.Installment, 0, len(r.records))
	for _, inst := range r.records {
		clone := *inst
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memInstallmentRepo) DeleteByBudget(_ context.Context, budgetID id.ID) error {
	for key, inst := range r.records {
		if inst.BudgetID == budgetID {
			delete(r.records, key)
		}
	}
	return nil
}

func sortInstallments(insts []*installment.Installment) {
	for i := 1; i < len(insts); i++ {
		for j := i; j > 0 && insts[j].Number < insts[j-1].Number; j-- {
			insts[j], insts[j-1] = insts[j-1], insts[j]
		}
	}
}

type memSnapshotStore struct {
	saved   []*AuditSnapshot
	saveErr error
}

func (s *memSnapshotStore) Save(_ context.Context, snap *AuditSnapshot) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, snap)
	return nil
}

func (s *memSnapshotStore) ListByBudget(_ context.Context, budgetID id.ID) ([]*AuditSnapshot, error) {
	out := make([]*AuditSnapshot, 0)
	for i := len(s.saved) - 1; i >= 0; i-- {
		if s.saved[i].BudgetID == budgetID {
			out = append(out, s.saved[i])
		}
	}
	return out, nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- fixtures ---

type fixture struct {
	service      *Service
	budgets      *memBudgetRepo
	installments *memInstallmentRepo
	snapshots    *memSnapshotStore
}

func newFixture() *fixture {
	budgets := newMemBudgetRepo()
	installments := newMemInstallmentRepo()
	snapshots := &memSnapshotStore{}
	return &fixture{
		service:      NewService(budgets, installments, snapshots, fakeTxManager{}),
		budgets:      budgets,
		installments: installments,
		snapshots:    snapshots,
	}
}

func (f *fixture) createBudget(t *testing.T) *Budget {
	t.Helper()
	b := testBudget()
	require.NoError(t, f.service.Create(context.Background(), b))
	return b
}

func validPlan() Plan {
	return Plan{
		DownPayment:     types.MustMoney("1000.00"),
		DownPaymentDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Installments: []PlanEntry{
			{Amount: types.MustMoney("600.00"), DueDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
			{Amount: types.MustMoney("600.00"), DueDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

// --- tests ---

func TestStartProduction_ExactSum(t *testing.T) {
	f := newFixture()
	b := f.createBudget(t)
	ctx := context.Background()

	updated, err := f.service.StartProduction(ctx, b.ID, validPlan())
	require.NoError(t, err)
	assert.Equal(t, StatusInProduction, updated.Status)

	insts, err := f.installments.ListByBudget(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, insts, 3)

	assert.Equal(t, 1, insts[0].Number)
	assert.True(t, types.MustMoney("1000.00").Equal(insts[0].Amount))
	assert.Equal(t, 2, insts[1].Number)
	assert.Equal(t, 3, insts[2].Number)

	sum := types.Zero()
	for _, inst := range insts {
		assert.Equal(t, installment.StatusPending, inst.Status)
		sum = sum.Add(inst.Amount)
	}
	assert.True(t, types.MustMoney("2200.00").Equal(sum))

	require.Len(t, f.snapshots.saved, 1)
	assert.Equal(t, "production start", f.snapshots.saved[0].Reason)
}

func TestStartProduction_AmountMismatch(t *testing.T) {
	f := newFixture()
	b := f.createBudget(t)
	ctx := context.Background()

	plan := validPlan()
	plan.Installments[1].Amount = types.MustMoney("599.99")

	_, err := f.service.StartProduction(ctx, b.ID, plan)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeAmountMismatch, appErr.Code)
	assert.Equal(t, "1000", appErr.Details["downPayment"])
	assert.Equal(t, "1199.99", appErr.Details["installmentsSum"])
	assert.Equal(t, "2200", appErr.Details["expectedTotal"])

	// nothing written
	insts, err := f.installments.ListByBudget(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, insts)

	stored, err := f.service.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, stored.Status)
}

func TestStartProduction_NotWaiting(t *testing.T) {
	f := newFixture()
	b := f.createBudget(t)
	ctx := context.Background()

	_, err := f.service.StartProduction(ctx, b.ID, validPlan())
	require.NoError(t, err)

	_, err = f.service.StartProduction(ctx, b.ID, validPlan())
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestStartProduction_BudgetNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.StartProduction(context.Background(), id.New(), validPlan())
	assert.True(t, apperror.IsNotFound(err))
}

func TestStartProduction_PlanValidation(t *testing.T) {
	f := newFixture()
	b := f.createBudget(t)

	plan := validPlan()
	plan.DownPayment = types.Zero()

	_, err := f.service.StartProduction(context.Background(), b.ID, plan)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestStartProduction_PersistenceFailureLeavesNoRecords(t *testing.T) {
	f := newFixture()
	b := f.createBudget(t)
	ctx := context.Background()

	f.installments.createErr = errors.New("connection lost")

	_, err := f.service.StartProduction(ctx, b.ID, validPlan())
	require.Error(t, err)

	insts, err := f.installments.ListByBudget(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, insts)
}

func TestStartProduction_SnapshotFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	b := f.createBudget(t)

	f.snapshots.saveErr = errors.New("disk full")

	updated, err := f.service.StartProduction(context.Background(), b.ID, validPlan())
	require.NoError(t, err)
	assert.Equal(t, StatusInProduction, updated.Status)
}

func TestFullUpfrontPayment(t *testing.T) {
	f := newFixture()
	b := f.createBudget(t)
	ctx := context.Background()

	plan := Plan{
		DownPayment:     types.MustMoney("2200.00"),
		DownPaymentDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}

	_, err := f.service.StartProduction(ctx, b.ID, plan)
	require.NoError(t, err)

	insts, err := f.installments.ListByBudget(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, insts, 1)
	assert.Equal(t, 1, insts[0].Number)
}

func TestReceiptStatus(t *testing.T) {
	f := newFixture()
	b := f.createBudget(t)
	ctx := context.Background()

	_, err := f.service.StartProduction(ctx, b.ID, validPlan())
	require.NoError(t, err)

	insts, err := f.installments.ListByBudget(ctx, b.ID)
	require.NoError(t, err)
	paidDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	insts[0].Status = installment.StatusPaid
	insts[0].PaidDate = &paidDate
	require.NoError(t, f.installments.Update(ctx, insts[0]))

	status, err := f.service.ReceiptStatus(ctx, b.ID)
	require.NoError(t, err)

	assert.True(t, types.MustMoney("2200.00").Equal(status.Total))
	assert.True(t, types.MustMoney("1000.00").Equal(status.Confirmed))
	assert.True(t, types.MustMoney("1200.00").Equal(status.Outstanding))
	assert.InDelta(t, 45.45, status.PercentReceived, 0.01)
	assert.Len(t, status.Installments, 3)
}

func TestDelete_RemovesInstallments(t *testing.T) {
	f := newFixture()
	b := f.createBudget(t)
	ctx := context.Background()

	_, err := f.service.StartProduction(ctx, b.ID, validPlan())
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, b.ID))

	insts, err := f.installments.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, insts)

	_, err = f.service.GetByID(ctx, b.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestHistory(t *testing.T) {
	f := newFixture()
	b := f.createBudget(t)
	ctx := context.Background()

	_, err := f.service.ChangeStatus(ctx, b.ID, StatusCancelled)
	require.NoError(t, err)

	history, err := f.service.History(ctx, b.ID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, "status change", history[0].Reason)
	assert.NotEmpty(t, history[0].Snapshot)
}

func TestUpdate_SnapshotsPriorState(t *testing.T) {
	f := newFixture()
	b := f.createBudget(t)
	ctx := context.Background()

	changed := testBudget()
	changed.ID = b.ID
	changed.Client = "Joana Prado"

	updated, err := f.service.Update(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, "Joana Prado", updated.Client)

	require.Len(t, f.snapshots.saved, 1)
	assert.Equal(t, "budget update", f.snapshots.saved[0].Reason)
	// the snapshot records the state before the change
	assert.Contains(t, string(f.snapshots.saved[0].Snapshot), "Maria Silva")
}

func TestUpdate_RejectedLeavesNoSnapshot(t *testing.T) {
	f := newFixture()
	b := f.createBudget(t)
	ctx := context.Background()

	invalid := testBudget()
	invalid.ID = b.ID
	invalid.Client = ""

	_, err := f.service.Update(ctx, invalid)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	assert.Empty(t, f.snapshots.saved)

	// stored record untouched
	stored, err := f.service.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", stored.Client)
}
