package insight

import (
	"math"

	"github.com/shopspring/decimal"
)

// Trend - направление динамики финансового здоровья
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Aggregates - месячные агрегаты, подготовленные вызывающей стороной.
// Движок сам ничего не выбирает из хранилища и не сохраняет.
type Aggregates struct {
	MonthlyIncome   decimal.Decimal
	MonthlyExpenses decimal.Decimal
	Savings         decimal.Decimal // доход - расход, может быть отрицательным
	Debts           decimal.Decimal // остаток по кредитам
	Liquidity       decimal.Decimal // доступные средства (кошельки)
}

// Breakdown - пять ограниченных подоценок, в сумме дающих общий рейтинг
type Breakdown struct {
	Income    int `json:"income"`    // [0,25]
	Expense   int `json:"expense"`   // [0,25]
	Savings   int `json:"savings"`   // [0,20]
	Debt      int `json:"debt"`      // [0,15]
	Liquidity int `json:"liquidity"` // [0,15]
}

// HealthScoreResult - рейтинг финансового здоровья 0-100 с расшифровкой
type HealthScoreResult struct {
	Score           int       `json:"score"`
	Breakdown       Breakdown `json:"breakdown"`
	Trend           Trend     `json:"trend"`
	Recommendations []string  `json:"recommendations"`
}

// CalculateScore рассчитывает рейтинг финансового здоровья.
// Функция тотальна: деление на ноль при нулевом доходе или нулевых
// расходах сводится к худшей полосе соответствующей подоценки.
func (e *Engine) CalculateScore(agg Aggregates) (HealthScoreResult, error) {
	if agg.MonthlyIncome.IsNegative() {
		return HealthScoreResult{}, invalidInput("monthly_income", "must not be negative")
	}
	if agg.MonthlyExpenses.IsNegative() {
		return HealthScoreResult{}, invalidInput("monthly_expenses", "must not be negative")
	}
	if agg.Debts.IsNegative() {
		return HealthScoreResult{}, invalidInput("debts", "must not be negative")
	}
	if agg.Liquidity.IsNegative() {
		return HealthScoreResult{}, invalidInput("liquidity", "must not be negative")
	}

	income := agg.MonthlyIncome.InexactFloat64()
	expenses := agg.MonthlyExpenses.InexactFloat64()
	savings := agg.Savings.InexactFloat64()
	debts := agg.Debts.InexactFloat64()
	liquidity := agg.Liquidity.InexactFloat64()
	refIncome := e.cfg.ReferenceIncome.InexactFloat64()

	// Стабильность дохода (0-25): линейная шкала до эталонного дохода
	var incomeScore float64
	if income > 0 {
		incomeScore = math.Min(25, income/refIncome*25)
	}

	// Эффективность расходов (0-25): четыре дискретные полосы по доле
	// расходов в доходе; нулевой доход - худшая полоса
	expenseScore := 10.0
	if income > 0 {
		switch ratio := expenses / income; {
		case ratio < 0.5:
			expenseScore = 25
		case ratio < 0.7:
			expenseScore = 20
		case ratio < 0.9:
			expenseScore = 15
		}
	}

	// Норма сбережений (0-20)
	savingsScore := 5.0
	if income > 0 {
		switch ratio := savings / income; {
		case ratio > 0.3:
			savingsScore = 20
		case ratio > 0.2:
			savingsScore = 15
		case ratio > 0.1:
			savingsScore = 10
		}
	}

	// Долговая нагрузка (0-15)
	debtScore := 0.0
	if income > 0 {
		switch ratio := debts / income; {
		case ratio < 0.3:
			debtScore = 15
		case ratio < 0.5:
			debtScore = 10
		case ratio < 1:
			debtScore = 5
		}
	}

	// Ликвидность (0-15): запас в месяцах расходов; нулевые расходы -
	// худшая полоса по той же политике тотальности
	liquidityScore := 3.0
	if expenses > 0 {
		switch months := liquidity / expenses; {
		case months > 6:
			liquidityScore = 15
		case months > 3:
			liquidityScore = 12
		case months > 1:
			liquidityScore = 8
		}
	}

	total := int(math.Round(incomeScore + expenseScore + savingsScore + debtScore + liquidityScore))

	var recommendations []string
	if expenseScore < 15 {
		recommendations = append(recommendations, "Reduce your monthly expenses to improve cashflow")
	}
	if savingsScore < 10 {
		recommendations = append(recommendations, "Increase your savings rate to at least 20% of income")
	}
	if debtScore < 10 {
		recommendations = append(recommendations, "Focus on reducing high-interest debt")
	}
	if liquidityScore < 10 {
		recommendations = append(recommendations, "Build an emergency fund covering 3-6 months of expenses")
	}

	return HealthScoreResult{
		Score: total,
		Breakdown: Breakdown{
			Income:    int(math.Round(incomeScore)),
			Expense:   int(math.Round(expenseScore)),
			Savings:   int(math.Round(savingsScore)),
			Debt:      int(math.Round(debtScore)),
			Liquidity: int(math.Round(liquidityScore)),
		},
		Trend:           trendForScore(total),
		Recommendations: recommendations,
	}, nil
}

// trendForScore переводит общий рейтинг в метку динамики.
// Границы строгие: ровно 70 - stable, ровно 50 - declining.
func trendForScore(score int) Trend {
	switch {
	case score > 70:
		return TrendImproving
	case score > 50:
		return TrendStable
	default:
		return TrendDeclining
	}
}
