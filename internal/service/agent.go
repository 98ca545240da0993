package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/insight"
	"cashflow-api/internal/model"
	"cashflow-api/internal/repository"
)

// recentExpensesLimit - сколько последних расходов попадает в контекст агента
const recentExpensesLimit = 50

// AgentService собирает полный финансовый контекст пользователя и
// передает его движку рекомендаций. Сам движок из хранилища не читает.
type AgentService struct {
	engine      *insight.Engine
	insights    *InsightService
	budgetRepo  *repository.BudgetRepository
	goalRepo    *repository.GoalRepository
	expenseRepo *repository.ExpenseRepository
	logger      *logrus.Logger
}

func NewAgentService(
	engine *insight.Engine,
	insights *InsightService,
	budgetRepo *repository.BudgetRepository,
	goalRepo *repository.GoalRepository,
	expenseRepo *repository.ExpenseRepository,
	logger *logrus.Logger,
) *AgentService {
	return &AgentService{
		engine:      engine,
		insights:    insights,
		budgetRepo:  budgetRepo,
		goalRepo:    goalRepo,
		expenseRepo: expenseRepo,
		logger:      logger,
	}
}

// GetRecommendations строит контекст и запускает проверки агента
func (s *AgentService) GetRecommendations(ctx context.Context, userID uuid.UUID) ([]insight.Recommendation, error) {
	s.logger.WithField("user_id", userID).Info("Генерация рекомендаций финансового агента")

	rc, err := s.buildContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	recommendations := s.engine.GenerateRecommendations(rc)

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"count":   len(recommendations),
	}).Info("Рекомендации сгенерированы")
	return recommendations, nil
}

func (s *AgentService) buildContext(ctx context.Context, userID uuid.UUID) (insight.RecommendationContext, error) {
	now := time.Now()

	agg, err := s.insights.BuildAggregates(ctx, userID)
	if err != nil {
		return insight.RecommendationContext{}, err
	}

	budgets, err := s.budgetRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return insight.RecommendationContext{}, fmt.Errorf("failed to load budgets: %w", err)
	}
	budgetStates := make([]insight.BudgetState, 0, len(budgets))
	for _, b := range budgets {
		budgetStates = append(budgetStates, insight.BudgetState{
			Category: b.Category,
			Amount:   b.Amount,
			Spent:    b.Spent,
		})
	}

	goals, err := s.goalRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return insight.RecommendationContext{}, fmt.Errorf("failed to load goals: %w", err)
	}
	goalStates := make([]insight.GoalState, 0, len(goals))
	for _, g := range goals {
		goalStates = append(goalStates, insight.GoalState{
			Title:         g.Title,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: g.CurrentAmount,
			Deadline:      g.Deadline,
			CreatedAt:     g.CreatedAt,
		})
	}

	recent, err := s.expenseRepo.ListRecent(ctx, userID, recentExpensesLimit)
	if err != nil {
		return insight.RecommendationContext{}, fmt.Errorf("failed to load recent expenses: %w", err)
	}

	start, end := monthRange(now)
	monthly, err := s.expenseRepo.ListByUserAndPeriod(ctx, userID, start, end)
	if err != nil {
		return insight.RecommendationContext{}, fmt.Errorf("failed to load monthly expenses: %w", err)
	}
	byCategory := make(map[model.ExpenseCategory]decimal.Decimal)
	for _, exp := range monthly {
		byCategory[exp.Category] = byCategory[exp.Category].Add(exp.Amount)
	}

	return insight.RecommendationContext{
		Aggregates:        agg,
		Budgets:           budgetStates,
		Goals:             goalStates,
		RecentExpenses:    recent,
		MonthlyByCategory: byCategory,
		Now:               now,
	}, nil
}
