package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow-api/internal/insight"
	"cashflow-api/internal/model"
)

type fakeExpenseStore struct {
	created   []*model.Expense
	createErr error
}

func (f *fakeExpenseStore) Create(_ context.Context, expense *model.Expense) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, expense)
	return nil
}

func (f *fakeExpenseStore) ListByUserAndPeriod(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]model.Expense, error) {
	return nil, nil
}

func (f *fakeExpenseStore) ListRecent(_ context.Context, _ uuid.UUID, _ int) ([]model.Expense, error) {
	return nil, nil
}

type fakeBudgetSpender struct {
	calls int
	err   error
}

func (f *fakeBudgetSpender) IncrementSpent(_ context.Context, _ uuid.UUID, _ model.ExpenseCategory, _ decimal.Decimal) error {
	f.calls++
	return f.err
}

type fakeInsights struct {
	classification insight.Classification
	anomaly        insight.AnomalyResult
	anomalyErr     error
}

func (f *fakeInsights) ClassifyExpense(_ string, _ decimal.Decimal) (insight.Classification, error) {
	return f.classification, nil
}

func (f *fakeInsights) DetectAnomalyForExpense(_ context.Context, _ uuid.UUID, _ insight.TransactionSample) (insight.AnomalyResult, error) {
	if f.anomalyErr != nil {
		return insight.AnomalyResult{}, f.anomalyErr
	}
	return f.anomaly, nil
}

type fakeTracker struct {
	calls int
	err   error
}

func (f *fakeTracker) Track(_ context.Context, _ uuid.UUID, _ time.Time) (*model.Streak, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &model.Streak{}, nil
}

func newExpenseServiceForTest(store *fakeExpenseStore, budget *fakeBudgetSpender, insights *fakeInsights, tracker *fakeTracker) *ExpenseService {
	return NewExpenseService(store, budget, nil, insights, tracker, nil, quietLogger())
}

func TestExpenseCreateSurvivesAnomalyCheckFailure(t *testing.T) {
	store := &fakeExpenseStore{}
	insights := &fakeInsights{anomalyErr: fmt.Errorf("insufficient history")}
	svc := newExpenseServiceForTest(store, &fakeBudgetSpender{}, insights, &fakeTracker{})

	expense, err := svc.Create(context.Background(), uuid.New(), model.CreateExpenseRequest{
		Amount:      decimal.NewFromInt(500),
		Category:    model.CategoryFood,
		Description: "Обед",
	})
	require.NoError(t, err)
	require.Len(t, store.created, 1)

	// Недоступная аналитика не должна ни блокировать запись, ни
	// помечать расход аномальным
	assert.False(t, expense.IsAnomaly)
	assert.Zero(t, expense.AnomalyScore)
}

func TestExpenseCreateDefaultsDateToToday(t *testing.T) {
	store := &fakeExpenseStore{}
	svc := newExpenseServiceForTest(store, &fakeBudgetSpender{}, &fakeInsights{}, &fakeTracker{})

	expense, err := svc.Create(context.Background(), uuid.New(), model.CreateExpenseRequest{
		Amount:      decimal.NewFromInt(100),
		Category:    model.CategoryTransport,
		Description: "Метро",
	})
	require.NoError(t, err)

	now := time.Now()
	assert.Equal(t, now.Year(), expense.Date.Year())
	assert.Equal(t, now.Month(), expense.Date.Month())
	assert.Equal(t, now.Day(), expense.Date.Day())
}

func TestExpenseCreateClassifiesEmptyCategory(t *testing.T) {
	store := &fakeExpenseStore{}
	insights := &fakeInsights{
		classification: insight.Classification{Category: model.CategoryGroceries, Confidence: 0.85},
	}
	svc := newExpenseServiceForTest(store, &fakeBudgetSpender{}, insights, &fakeTracker{})

	expense, err := svc.Create(context.Background(), uuid.New(), model.CreateExpenseRequest{
		Amount:      decimal.NewFromInt(1200),
		Description: "Пятерочка",
	})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryGroceries, expense.Category)
}

func TestExpenseCreateSideEffectFailuresNotFatal(t *testing.T) {
	store := &fakeExpenseStore{}
	budget := &fakeBudgetSpender{err: fmt.Errorf("no active budget")}
	tracker := &fakeTracker{err: insight.ErrConcurrentUpdate}
	svc := newExpenseServiceForTest(store, budget, &fakeInsights{}, tracker)

	_, err := svc.Create(context.Background(), uuid.New(), model.CreateExpenseRequest{
		Amount:      decimal.NewFromInt(300),
		Category:    model.CategoryBills,
		Description: "Интернет",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, budget.calls)
	assert.Equal(t, 1, tracker.calls)
	assert.Len(t, store.created, 1)
}

func TestExpenseCreateRejectsBadDate(t *testing.T) {
	svc := newExpenseServiceForTest(&fakeExpenseStore{}, &fakeBudgetSpender{}, &fakeInsights{}, &fakeTracker{})

	_, err := svc.Create(context.Background(), uuid.New(), model.CreateExpenseRequest{
		Amount:      decimal.NewFromInt(100),
		Category:    model.CategoryFood,
		Description: "Кофе",
		Date:        "30-08-2026",
	})
	assert.Error(t, err)
}
