package insight

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow-api/internal/model"
)

func findByType(recs []Recommendation, typ RecommendationType) *Recommendation {
	for i := range recs {
		if recs[i].Type == typ {
			return &recs[i]
		}
	}
	return nil
}

func TestGenerateRecommendationsEmptyContext(t *testing.T) {
	e := NewEngine(DefaultConfig())

	recs := e.GenerateRecommendations(RecommendationContext{Now: time.Now()})
	assert.Empty(t, recs)
}

func TestBudgetExceededIsCritical(t *testing.T) {
	e := NewEngine(DefaultConfig())

	recs := e.GenerateRecommendations(RecommendationContext{
		Budgets: []BudgetState{{
			Category: model.CategoryFood,
			Amount:   decimal.NewFromInt(1000),
			Spent:    decimal.NewFromInt(1100),
		}},
		Now: time.Now(),
	})

	require.Len(t, recs, 1)
	assert.Equal(t, RecommendationBudget, recs[0].Type)
	assert.Equal(t, PriorityCritical, recs[0].Priority)
	assert.Equal(t, "food Budget Exceeded", recs[0].Title)
	assert.True(t, recs[0].Impact.Value.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "₹100.00 over budget", recs[0].Impact.Description)
}

func TestBudgetNearLimitIsHigh(t *testing.T) {
	e := NewEngine(DefaultConfig())

	recs := e.GenerateRecommendations(RecommendationContext{
		Budgets: []BudgetState{{
			Category: model.CategoryShopping,
			Amount:   decimal.NewFromInt(1000),
			Spent:    decimal.NewFromInt(850),
		}},
		Now: time.Now(),
	})

	require.Len(t, recs, 1)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Equal(t, "shopping Budget Alert", recs[0].Title)
	assert.True(t, recs[0].Impact.Value.Equal(decimal.NewFromInt(150)))
}

func TestBudgetBelowThresholdIsSilent(t *testing.T) {
	e := NewEngine(DefaultConfig())

	recs := e.GenerateRecommendations(RecommendationContext{
		Budgets: []BudgetState{{
			Category: model.CategoryFood,
			Amount:   decimal.NewFromInt(1000),
			Spent:    decimal.NewFromInt(500),
		}},
		Now: time.Now(),
	})
	assert.Empty(t, recs)
}

func TestGoalBehindSchedule(t *testing.T) {
	e := NewEngine(DefaultConfig())
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	// Половина срока прошла, накоплено только 10% - отставание 40 п.п.
	recs := e.GenerateRecommendations(RecommendationContext{
		Goals: []GoalState{{
			Title:         "Emergency Fund",
			TargetAmount:  decimal.NewFromInt(100000),
			CurrentAmount: decimal.NewFromInt(10000),
			CreatedAt:     now.AddDate(0, 0, -100),
			Deadline:      now.AddDate(0, 0, 100),
		}},
		Now: now,
	})

	require.Len(t, recs, 1)
	assert.Equal(t, RecommendationGoal, recs[0].Type)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Equal(t, "Emergency Fund - Behind Schedule", recs[0].Title)
}

func TestGoalAchieved(t *testing.T) {
	e := NewEngine(DefaultConfig())
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	recs := e.GenerateRecommendations(RecommendationContext{
		Goals: []GoalState{{
			Title:         "New Laptop",
			TargetAmount:  decimal.NewFromInt(80000),
			CurrentAmount: decimal.NewFromInt(80000),
			CreatedAt:     now.AddDate(0, 0, -30),
			Deadline:      now.AddDate(0, 0, 30),
		}},
		Now: now,
	})

	require.Len(t, recs, 1)
	assert.Equal(t, PriorityLow, recs[0].Priority)
	assert.Equal(t, "New Laptop - Goal Achieved!", recs[0].Title)
}

func TestSavingsOpportunity(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// Норма сбережений 10%, еда съедает 44% расходов
	recs := e.GenerateRecommendations(RecommendationContext{
		Aggregates: Aggregates{
			MonthlyIncome:   decimal.NewFromInt(50000),
			MonthlyExpenses: decimal.NewFromInt(45000),
			Savings:         decimal.NewFromInt(5000),
		},
		MonthlyByCategory: map[model.ExpenseCategory]decimal.Decimal{
			model.CategoryFood:      decimal.NewFromInt(20000),
			model.CategoryTransport: decimal.NewFromInt(5000),
		},
		Now: time.Now(),
	})

	rec := findByType(recs, RecommendationSavings)
	require.NotNil(t, rec)
	assert.Equal(t, PriorityMedium, rec.Priority)
	assert.Equal(t, "Optimize Your Spending", rec.Title)
	assert.Equal(t, "food", rec.Impact.Category)
	assert.True(t, rec.Impact.Value.Equal(decimal.NewFromInt(3000))) // 15% от 20000
}

func TestSavingsOpportunitySkippedWhenRateHealthy(t *testing.T) {
	e := NewEngine(DefaultConfig())

	recs := e.GenerateRecommendations(RecommendationContext{
		Aggregates: Aggregates{
			MonthlyIncome:   decimal.NewFromInt(50000),
			MonthlyExpenses: decimal.NewFromInt(30000),
			Savings:         decimal.NewFromInt(20000),
		},
		MonthlyByCategory: map[model.ExpenseCategory]decimal.Decimal{
			model.CategoryFood: decimal.NewFromInt(20000),
		},
		Now: time.Now(),
	})

	assert.Nil(t, findByType(recs, RecommendationSavings))
}

func TestAnomalyRecommendations(t *testing.T) {
	e := NewEngine(DefaultConfig())

	recs := e.GenerateRecommendations(RecommendationContext{
		RecentExpenses: []model.Expense{
			{Category: model.CategoryFood, Amount: decimal.NewFromInt(5000), IsAnomaly: true},
			{Category: model.CategoryTransport, Amount: decimal.NewFromInt(200)},
		},
		Now: time.Now(),
	})

	require.Len(t, recs, 1)
	assert.Equal(t, RecommendationRisk, recs[0].Type)
	assert.Equal(t, PriorityMedium, recs[0].Priority)
	assert.Equal(t, "Unusual Spending Detected", recs[0].Title)
}

func TestAnomalyCheckLimitedToTenRecent(t *testing.T) {
	e := NewEngine(DefaultConfig())

	var recent []model.Expense
	for i := 0; i < 10; i++ {
		recent = append(recent, model.Expense{Category: model.CategoryFood, Amount: decimal.NewFromInt(100)})
	}
	// Аномалия за пределами окна из десяти последних не поднимается
	recent = append(recent, model.Expense{Category: model.CategoryFood, Amount: decimal.NewFromInt(9000), IsAnomaly: true})

	recs := e.GenerateRecommendations(RecommendationContext{RecentExpenses: recent, Now: time.Now()})
	assert.Empty(t, recs)
}

func TestTaxOpportunity(t *testing.T) {
	e := NewEngine(DefaultConfig())

	recs := e.GenerateRecommendations(RecommendationContext{
		Aggregates: Aggregates{
			MonthlyIncome:   decimal.NewFromInt(100000),
			MonthlyExpenses: decimal.NewFromInt(20000),
			Savings:         decimal.NewFromInt(80000),
		},
		Now: time.Now(),
	})

	rec := findByType(recs, RecommendationTax)
	require.NotNil(t, rec)
	assert.Equal(t, PriorityHigh, rec.Priority)
	assert.Equal(t, "Tax Saving Opportunity", rec.Title)
	// 30% от лимита вычета 150000
	assert.True(t, rec.Impact.Value.Equal(decimal.NewFromInt(45000)))
}

func TestTaxOpportunitySkippedBelowThreshold(t *testing.T) {
	e := NewEngine(DefaultConfig())

	recs := e.GenerateRecommendations(RecommendationContext{
		Aggregates: Aggregates{
			MonthlyIncome: decimal.NewFromInt(50000),
		},
		Now: time.Now(),
	})

	assert.Nil(t, findByType(recs, RecommendationTax))
}

func TestRecommendationsSortedByPriority(t *testing.T) {
	e := NewEngine(DefaultConfig())
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	recs := e.GenerateRecommendations(RecommendationContext{
		Budgets: []BudgetState{{
			Category: model.CategoryFood,
			Amount:   decimal.NewFromInt(1000),
			Spent:    decimal.NewFromInt(1200), // critical
		}},
		Goals: []GoalState{{
			Title:         "Vacation",
			TargetAmount:  decimal.NewFromInt(50000),
			CurrentAmount: decimal.NewFromInt(50000), // low
			CreatedAt:     now.AddDate(0, 0, -30),
			Deadline:      now.AddDate(0, 0, 30),
		}},
		RecentExpenses: []model.Expense{
			{Category: model.CategoryFood, Amount: decimal.NewFromInt(5000), IsAnomaly: true}, // medium
		},
		Now: now,
	})

	require.Len(t, recs, 3)
	assert.Equal(t, PriorityCritical, recs[0].Priority)
	assert.Equal(t, PriorityMedium, recs[1].Priority)
	assert.Equal(t, PriorityLow, recs[2].Priority)

	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Priority.rank(), recs[i].Priority.rank())
	}
}
