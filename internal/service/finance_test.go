package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow-api/internal/model"
)

type fakeIncomeStore struct {
	created []*model.Income
}

func (f *fakeIncomeStore) Create(_ context.Context, income *model.Income) error {
	f.created = append(f.created, income)
	return nil
}

func (f *fakeIncomeStore) ListByUserAndPeriod(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]model.Income, error) {
	return nil, nil
}

func newFinanceServiceForTest(store *fakeIncomeStore) *FinanceService {
	return NewFinanceService(store, nil, nil, nil, &fakeTracker{}, quietLogger())
}

func TestCreateIncomeWithoutDateUsesToday(t *testing.T) {
	store := &fakeIncomeStore{}
	svc := newFinanceServiceForTest(store)

	req := model.CreateIncomeRequest{
		Amount: decimal.NewFromInt(1000),
		Source: model.IncomeSourceSalary,
	}
	// Запрос без даты валиден и не должен отклоняться при создании
	require.NoError(t, req.Validate())

	income, err := svc.CreateIncome(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	require.Len(t, store.created, 1)

	now := time.Now()
	assert.Equal(t, now.Year(), income.Date.Year())
	assert.Equal(t, now.Month(), income.Date.Month())
	assert.Equal(t, now.Day(), income.Date.Day())
	assert.Equal(t, model.IncomeSourceSalary, income.Source)
}

func TestCreateIncomeWithExplicitDate(t *testing.T) {
	store := &fakeIncomeStore{}
	svc := newFinanceServiceForTest(store)

	income, err := svc.CreateIncome(context.Background(), uuid.New(), model.CreateIncomeRequest{
		Amount: decimal.NewFromInt(50000),
		Source: model.IncomeSourceFreelance,
		Date:   "2026-08-15",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), income.Date)
}

func TestParseDateOrToday(t *testing.T) {
	today, err := parseDateOrToday("")
	require.NoError(t, err)
	now := time.Now()
	assert.Equal(t, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), today)

	parsed, err := parseDateOrToday("2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), parsed)

	_, err = parseDateOrToday("02.01.2026")
	assert.Error(t, err)
}
