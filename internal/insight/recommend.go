package insight

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"cashflow-api/internal/model"
)

// RecommendationType - тип рекомендации
type RecommendationType string

const (
	RecommendationSavings     RecommendationType = "savings"
	RecommendationBudget      RecommendationType = "budget"
	RecommendationGoal        RecommendationType = "goal"
	RecommendationRisk        RecommendationType = "risk"
	RecommendationOpportunity RecommendationType = "opportunity"
	RecommendationTax         RecommendationType = "tax"
)

// Priority - приоритет рекомендации
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// Action - подсказка для навигации в интерфейсе
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Impact - оценка влияния рекомендации для отображения
type Impact struct {
	Category    string          `json:"category"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
}

// Recommendation - одна рекомендация финансового агента
type Recommendation struct {
	Type     RecommendationType `json:"type"`
	Priority Priority           `json:"priority"`
	Title    string             `json:"title"`
	Message  string             `json:"message"`
	Action   *Action            `json:"action,omitempty"`
	Impact   Impact             `json:"impact"`
}

// BudgetState - состояние активного бюджета
type BudgetState struct {
	Category model.ExpenseCategory
	Amount   decimal.Decimal
	Spent    decimal.Decimal
}

// GoalState - состояние активной цели
type GoalState struct {
	Title         string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      time.Time
	CreatedAt     time.Time
}

// RecommendationContext - все данные, необходимые для генерации
// рекомендаций. Контекст собирает вызывающая сторона; движок из
// хранилища ничего не читает.
type RecommendationContext struct {
	Aggregates        Aggregates
	Budgets           []BudgetState                             // только активные
	Goals             []GoalState                               // только активные
	RecentExpenses    []model.Expense                           // новые в начале, до ~50
	MonthlyByCategory map[model.ExpenseCategory]decimal.Decimal // расходы текущего месяца
	Now               time.Time
}

// GenerateRecommendations прогоняет пять проверок и возвращает единый
// список, отсортированный по убыванию приоритета. Сортировка стабильная:
// внутри одного приоритета сохраняется порядок проверок.
func (e *Engine) GenerateRecommendations(rc RecommendationContext) []Recommendation {
	now := rc.Now
	if now.IsZero() {
		now = time.Now()
	}

	var recommendations []Recommendation
	recommendations = append(recommendations, e.checkBudgets(rc.Budgets)...)
	recommendations = append(recommendations, e.checkGoals(rc.Goals, now)...)
	recommendations = append(recommendations, e.checkSavingsOpportunity(rc)...)
	recommendations = append(recommendations, e.checkAnomalies(rc.RecentExpenses)...)
	recommendations = append(recommendations, e.checkTaxOpportunity(rc.Aggregates)...)

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority.rank() > recommendations[j].Priority.rank()
	})

	return recommendations
}

// checkBudgets формирует алерты по исчерпанию бюджетов:
// >=90% - critical, >=80% - high
func (e *Engine) checkBudgets(budgets []BudgetState) []Recommendation {
	var out []Recommendation

	for _, b := range budgets {
		if b.Amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		percentage := b.Spent.Div(b.Amount).InexactFloat64() * 100

		switch {
		case percentage >= 90:
			overage := b.Spent.Sub(b.Amount)
			out = append(out, Recommendation{
				Type:     RecommendationBudget,
				Priority: PriorityCritical,
				Title:    fmt.Sprintf("%s Budget Exceeded", b.Category),
				Message:  fmt.Sprintf("You've spent %.0f%% of your %s budget. Consider reducing spending.", percentage, b.Category),
				Action:   &Action{Label: "View Budget", URL: "/budget"},
				Impact: Impact{
					Category:    string(b.Category),
					Value:       overage,
					Description: fmt.Sprintf("₹%s over budget", overage.StringFixed(2)),
				},
			})
		case percentage >= 80:
			remaining := b.Amount.Sub(b.Spent)
			out = append(out, Recommendation{
				Type:     RecommendationBudget,
				Priority: PriorityHigh,
				Title:    fmt.Sprintf("%s Budget Alert", b.Category),
				Message:  fmt.Sprintf("You're at %.0f%% of your %s budget. Be mindful of spending.", percentage, b.Category),
				Action:   &Action{Label: "View Budget", URL: "/budget"},
				Impact: Impact{
					Category:    string(b.Category),
					Value:       remaining,
					Description: fmt.Sprintf("₹%s remaining", remaining.StringFixed(2)),
				},
			})
		}
	}

	return out
}

// checkGoals сравнивает фактический прогресс цели с ожидаемым по
// линейной шкале времени; отставание более чем на 10 п.п. - high,
// достигнутая цель - low
func (e *Engine) checkGoals(goals []GoalState, now time.Time) []Recommendation {
	var out []Recommendation

	for _, g := range goals {
		if g.TargetAmount.LessThanOrEqual(decimal.Zero) || !g.Deadline.After(g.CreatedAt) {
			continue
		}

		daysRemaining := int(math.Ceil(g.Deadline.Sub(now).Hours() / 24))
		progress := g.CurrentAmount.Div(g.TargetAmount).InexactFloat64() * 100
		expectedProgress := now.Sub(g.CreatedAt).Hours() / g.Deadline.Sub(g.CreatedAt).Hours() * 100

		switch {
		case progress < expectedProgress-10 && daysRemaining > 0:
			monthlyRequired := g.TargetAmount.Sub(g.CurrentAmount).
				Div(decimal.NewFromFloat(float64(daysRemaining) / 30))
			out = append(out, Recommendation{
				Type:     RecommendationGoal,
				Priority: PriorityHigh,
				Title:    fmt.Sprintf("%s - Behind Schedule", g.Title),
				Message: fmt.Sprintf("Your goal is %.0f%% behind. Save ₹%s/month to catch up.",
					expectedProgress-progress, monthlyRequired.StringFixed(0)),
				Action: &Action{Label: "Adjust Goal", URL: "/goals"},
				Impact: Impact{
					Category:    g.Title,
					Value:       monthlyRequired,
					Description: fmt.Sprintf("Increase monthly saving to ₹%s", monthlyRequired.StringFixed(0)),
				},
			})
		case progress >= 100:
			out = append(out, Recommendation{
				Type:     RecommendationGoal,
				Priority: PriorityLow,
				Title:    fmt.Sprintf("%s - Goal Achieved!", g.Title),
				Message:  fmt.Sprintf("Congratulations! You've reached your goal of ₹%s.", g.TargetAmount.StringFixed(0)),
				Action:   &Action{Label: "Set New Goal", URL: "/goals"},
				Impact: Impact{
					Category:    g.Title,
					Value:       g.CurrentAmount,
					Description: "Goal completed",
				},
			})
		}
	}

	return out
}

// checkSavingsOpportunity при норме сбережений ниже 20% ищет категорию,
// съедающую более четверти месячных расходов, и предлагает сократить
// ее на 15%
func (e *Engine) checkSavingsOpportunity(rc RecommendationContext) []Recommendation {
	agg := rc.Aggregates
	savingsRate := 0.0
	if agg.MonthlyIncome.IsPositive() {
		savingsRate = agg.Savings.Div(agg.MonthlyIncome).InexactFloat64() * 100
	}
	if savingsRate >= 20 || !agg.MonthlyExpenses.IsPositive() {
		return nil
	}

	// Самая крупная категория с долей выше 25% от расходов
	var topCategory model.ExpenseCategory
	var topAmount decimal.Decimal
	for cat, amount := range rc.MonthlyByCategory {
		if amount.Div(agg.MonthlyExpenses).InexactFloat64() <= 0.25 {
			continue
		}
		if amount.GreaterThan(topAmount) {
			topCategory = cat
			topAmount = amount
		}
	}
	if topCategory == "" {
		return nil
	}

	potential := topAmount.Mul(decimal.NewFromFloat(0.15))
	return []Recommendation{{
		Type:     RecommendationSavings,
		Priority: PriorityMedium,
		Title:    "Optimize Your Spending",
		Message: fmt.Sprintf("Your %s spending is high at ₹%s/month. Reducing by 15%% could save ₹%s/month.",
			topCategory, topAmount.StringFixed(0), potential.StringFixed(0)),
		Action: &Action{Label: "View Analytics", URL: "/analytics"},
		Impact: Impact{
			Category:    string(topCategory),
			Value:       potential,
			Description: fmt.Sprintf("Potential monthly savings: ₹%s", potential.StringFixed(0)),
		},
	}}
}

// checkAnomalies поднимает наверх уже помеченные аномальные транзакции
// среди десяти последних
func (e *Engine) checkAnomalies(recent []model.Expense) []Recommendation {
	var out []Recommendation

	limit := len(recent)
	if limit > 10 {
		limit = 10
	}
	for _, tx := range recent[:limit] {
		if !tx.IsAnomaly {
			continue
		}
		out = append(out, Recommendation{
			Type:     RecommendationRisk,
			Priority: PriorityMedium,
			Title:    "Unusual Spending Detected",
			Message: fmt.Sprintf("Your recent %s expense of ₹%s is unusually high.",
				tx.Category, tx.Amount.StringFixed(0)),
			Action: &Action{Label: "Review Transaction", URL: "/analytics"},
			Impact: Impact{
				Category:    string(tx.Category),
				Value:       tx.Amount,
				Description: "Anomalous transaction detected",
			},
		})
	}

	return out
}

// checkTaxOpportunity предлагает налоговый вычет при годовом доходе выше
// настроенного порога
func (e *Engine) checkTaxOpportunity(agg Aggregates) []Recommendation {
	annualIncome := agg.MonthlyIncome.Mul(decimal.NewFromInt(12))
	if annualIncome.LessThanOrEqual(e.cfg.TaxIncomeThreshold) {
		return nil
	}

	potential := e.cfg.TaxDeductionLimit.Mul(e.cfg.TaxMarginalRate)
	return []Recommendation{{
		Type:     RecommendationTax,
		Priority: PriorityHigh,
		Title:    "Tax Saving Opportunity",
		Message:  fmt.Sprintf("You could save up to ₹%s in taxes with 80C investments.", potential.StringFixed(0)),
		Action:   &Action{Label: "Explore Tax Savings", URL: "/settings"},
		Impact: Impact{
			Category:    "Tax",
			Value:       potential,
			Description: fmt.Sprintf("Potential tax savings: ₹%s", potential.StringFixed(0)),
		},
	}}
}
