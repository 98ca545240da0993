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

// anomalySampleSize - сколько последних сумм той же категории берется
// для статистической проверки
const anomalySampleSize = 50

type InsightService struct {
	engine       *insight.Engine
	expenseRepo  *repository.ExpenseRepository
	incomeRepo   *repository.IncomeRepository
	billRepo     *repository.BillRepository
	walletRepo   *repository.WalletRepository
	scoreRepo    *repository.ScoreRepository
	userRepo     *repository.UserRepository
	rates        *RatesClient
	baseCurrency string
	logger       *logrus.Logger
}

func NewInsightService(
	engine *insight.Engine,
	expenseRepo *repository.ExpenseRepository,
	incomeRepo *repository.IncomeRepository,
	billRepo *repository.BillRepository,
	walletRepo *repository.WalletRepository,
	scoreRepo *repository.ScoreRepository,
	userRepo *repository.UserRepository,
	rates *RatesClient,
	baseCurrency string,
	logger *logrus.Logger,
) *InsightService {
	return &InsightService{
		engine:       engine,
		expenseRepo:  expenseRepo,
		incomeRepo:   incomeRepo,
		billRepo:     billRepo,
		walletRepo:   walletRepo,
		scoreRepo:    scoreRepo,
		userRepo:     userRepo,
		rates:        rates,
		baseCurrency: baseCurrency,
		logger:       logger,
	}
}

// monthRange возвращает границы текущего календарного месяца [start, end)
func monthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// BuildAggregates собирает месячные агрегаты пользователя для движка:
// доход и расход за текущий месяц, сбережения, долги и ликвидность.
// Балансы кошельков в других валютах приводятся к базовой валюте.
func (s *InsightService) BuildAggregates(ctx context.Context, userID uuid.UUID) (insight.Aggregates, error) {
	start, end := monthRange(time.Now())

	incomes, err := s.incomeRepo.ListByUserAndPeriod(ctx, userID, start, end)
	if err != nil {
		return insight.Aggregates{}, fmt.Errorf("failed to load monthly income: %w", err)
	}
	monthlyIncome := decimal.Zero
	for _, inc := range incomes {
		monthlyIncome = monthlyIncome.Add(inc.Amount)
	}

	expenses, err := s.expenseRepo.ListByUserAndPeriod(ctx, userID, start, end)
	if err != nil {
		return insight.Aggregates{}, fmt.Errorf("failed to load monthly expenses: %w", err)
	}
	monthlyExpenses := decimal.Zero
	for _, exp := range expenses {
		monthlyExpenses = monthlyExpenses.Add(exp.Amount)
	}

	debts, err := s.billRepo.TotalOutstandingDebt(ctx, userID)
	if err != nil {
		return insight.Aggregates{}, fmt.Errorf("failed to load outstanding debt: %w", err)
	}

	liquidity, err := s.walletLiquidity(ctx, userID)
	if err != nil {
		return insight.Aggregates{}, err
	}

	return insight.Aggregates{
		MonthlyIncome:   monthlyIncome,
		MonthlyExpenses: monthlyExpenses,
		Savings:         monthlyIncome.Sub(monthlyExpenses),
		Debts:           debts,
		Liquidity:       liquidity,
	}, nil
}

// walletLiquidity суммирует балансы кошельков в базовой валюте.
// Кошелек с недоступным курсом пропускается: лучше заниженная
// ликвидность, чем отказ всего расчета из-за внешнего сервиса.
func (s *InsightService) walletLiquidity(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	wallets, err := s.walletRepo.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load wallets: %w", err)
	}

	liquidity := decimal.Zero
	for _, w := range wallets {
		converted, err := s.rates.Convert(w.Balance, w.Currency, s.baseCurrency)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"wallet_id": w.ID,
				"currency":  w.Currency,
			}).Warn("Кошелек пропущен при расчете ликвидности: курс недоступен")
			continue
		}
		liquidity = liquidity.Add(converted)
	}
	return liquidity, nil
}

// ComputeHealthScore рассчитывает рейтинг финансового здоровья и
// сохраняет дневной снимок. Ошибка сохранения снимка не прерывает
// запрос: рейтинг уже рассчитан и возвращается вызывающей стороне.
func (s *InsightService) ComputeHealthScore(ctx context.Context, userID uuid.UUID) (*insight.HealthScoreResult, error) {
	agg, err := s.BuildAggregates(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.CalculateScore(agg)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate health score: %w", err)
	}

	now := time.Now()
	snapshot := &model.ScoreSnapshot{
		ID:              uuid.New(),
		UserID:          userID,
		Score:           result.Score,
		IncomeScore:     result.Breakdown.Income,
		ExpenseScore:    result.Breakdown.Expense,
		SavingsScore:    result.Breakdown.Savings,
		DebtScore:       result.Breakdown.Debt,
		LiquidityScore:  result.Breakdown.Liquidity,
		Trend:           string(result.Trend),
		Recommendations: result.Recommendations,
		ScoreDate:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:       now,
	}
	if err := s.scoreRepo.InsertSnapshot(ctx, snapshot); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Не удалось сохранить снимок рейтинга")
	}

	return &result, nil
}

// ScoreHistory возвращает последние снимки рейтинга пользователя
func (s *InsightService) ScoreHistory(ctx context.Context, userID uuid.UUID, limit int) ([]model.ScoreSnapshot, error) {
	if limit <= 0 || limit > 90 {
		limit = 30
	}
	return s.scoreRepo.ListByUser(ctx, userID, limit)
}

// ClassifyExpense подбирает категорию расхода по описанию
func (s *InsightService) ClassifyExpense(description string, amount decimal.Decimal) (insight.Classification, error) {
	return s.engine.Classify(description, amount)
}

// DetectAnomalyForExpense проверяет транзакцию на аномальность
// относительно истории трат пользователя в той же категории
func (s *InsightService) DetectAnomalyForExpense(
	ctx context.Context,
	userID uuid.UUID,
	sample insight.TransactionSample,
) (insight.AnomalyResult, error) {
	historical, err := s.expenseRepo.RecentAmountsByCategory(ctx, userID, sample.Category, anomalySampleSize)
	if err != nil {
		return insight.AnomalyResult{}, fmt.Errorf("failed to load historical amounts: %w", err)
	}
	return s.engine.DetectAnomaly(sample, historical)
}

// SnapshotScores пересчитывает и сохраняет рейтинг каждого пользователя.
// Запускается планировщиком ночью; ошибка по одному пользователю не
// останавливает обход.
func (s *InsightService) SnapshotScores(ctx context.Context) {
	s.logger.Info("Запуск ночного пересчета финансовых рейтингов")

	userIDs, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Не удалось получить список пользователей для пересчета")
		return
	}

	processed := 0
	for _, userID := range userIDs {
		if _, err := s.ComputeHealthScore(ctx, userID); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Error("Ошибка пересчета рейтинга")
			continue
		}
		processed++
	}

	s.logger.WithFields(logrus.Fields{
		"total":     len(userIDs),
		"processed": processed,
	}).Info("Ночной пересчет рейтингов завершен")
}
