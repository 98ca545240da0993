package insight

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggOf(income, expenses, debts, liquidity int64) Aggregates {
	return Aggregates{
		MonthlyIncome:   decimal.NewFromInt(income),
		MonthlyExpenses: decimal.NewFromInt(expenses),
		Savings:         decimal.NewFromInt(income - expenses),
		Debts:           decimal.NewFromInt(debts),
		Liquidity:       decimal.NewFromInt(liquidity),
	}
}

func TestCalculateScorePerfect(t *testing.T) {
	e := NewEngine(DefaultConfig())

	result, err := e.CalculateScore(aggOf(50000, 20000, 0, 150000))
	require.NoError(t, err)

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, Breakdown{Income: 25, Expense: 25, Savings: 20, Debt: 15, Liquidity: 15}, result.Breakdown)
	assert.Equal(t, TrendImproving, result.Trend)
	assert.Empty(t, result.Recommendations)
}

func TestCalculateScoreZeroIncome(t *testing.T) {
	e := NewEngine(DefaultConfig())

	result, err := e.CalculateScore(Aggregates{
		MonthlyIncome:   decimal.Zero,
		MonthlyExpenses: decimal.NewFromInt(1000),
		Savings:         decimal.NewFromInt(-1000),
		Debts:           decimal.NewFromInt(5000),
		Liquidity:       decimal.Zero,
	})
	require.NoError(t, err)

	// При нулевом доходе каждая зависящая от него подоценка падает в
	// худшую полосу вместо деления на ноль
	assert.Equal(t, Breakdown{Income: 0, Expense: 10, Savings: 5, Debt: 0, Liquidity: 3}, result.Breakdown)
	assert.Equal(t, 18, result.Score)
	assert.Equal(t, TrendDeclining, result.Trend)
	assert.Equal(t, []string{
		"Reduce your monthly expenses to improve cashflow",
		"Increase your savings rate to at least 20% of income",
		"Focus on reducing high-interest debt",
		"Build an emergency fund covering 3-6 months of expenses",
	}, result.Recommendations)
}

func TestCalculateScoreZeroExpenses(t *testing.T) {
	e := NewEngine(DefaultConfig())

	result, err := e.CalculateScore(aggOf(50000, 0, 0, 100000))
	require.NoError(t, err)

	// Нулевые расходы делают запас в месяцах неопределенным - худшая полоса
	assert.Equal(t, 3, result.Breakdown.Liquidity)
}

func TestCalculateScoreIncomeScaling(t *testing.T) {
	e := NewEngine(DefaultConfig())

	half, err := e.CalculateScore(aggOf(25000, 10000, 0, 100000))
	require.NoError(t, err)
	assert.Equal(t, 13, half.Breakdown.Income) // 12.5 округляется вверх

	over, err := e.CalculateScore(aggOf(200000, 10000, 0, 100000))
	require.NoError(t, err)
	assert.Equal(t, 25, over.Breakdown.Income) // выше эталона не растет
}

func TestCalculateScoreMonotonicWithExpenses(t *testing.T) {
	e := NewEngine(DefaultConfig())

	lean, err := e.CalculateScore(aggOf(50000, 20000, 0, 100000))
	require.NoError(t, err)
	heavy, err := e.CalculateScore(aggOf(50000, 48000, 0, 100000))
	require.NoError(t, err)

	assert.Greater(t, lean.Score, heavy.Score)
}

func TestCalculateScoreRejectsNegatives(t *testing.T) {
	e := NewEngine(DefaultConfig())

	_, err := e.CalculateScore(Aggregates{MonthlyIncome: decimal.NewFromInt(-1)})
	assert.Error(t, err)

	_, err = e.CalculateScore(Aggregates{Debts: decimal.NewFromInt(-1)})
	assert.Error(t, err)

	_, err = e.CalculateScore(Aggregates{Liquidity: decimal.NewFromInt(-1)})
	assert.Error(t, err)
}

func TestTrendForScoreBoundaries(t *testing.T) {
	assert.Equal(t, TrendImproving, trendForScore(75))
	assert.Equal(t, TrendImproving, trendForScore(71))
	assert.Equal(t, TrendStable, trendForScore(70))
	assert.Equal(t, TrendStable, trendForScore(51))
	assert.Equal(t, TrendDeclining, trendForScore(50))
	assert.Equal(t, TrendDeclining, trendForScore(0))
}
