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

// expenseStore - операции хранилища расходов, нужные сервису
type expenseStore interface {
	Create(ctx context.Context, expense *model.Expense) error
	ListByUserAndPeriod(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) ([]model.Expense, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.Expense, error)
}

// budgetSpender обновляет потраченную сумму активного бюджета
type budgetSpender interface {
	IncrementSpent(ctx context.Context, userID uuid.UUID, category model.ExpenseCategory, amount decimal.Decimal) error
}

// expenseInsights - аналитика, участвующая в записи расхода
type expenseInsights interface {
	ClassifyExpense(description string, amount decimal.Decimal) (insight.Classification, error)
	DetectAnomalyForExpense(ctx context.Context, userID uuid.UUID, sample insight.TransactionSample) (insight.AnomalyResult, error)
}

// activityTracker продвигает серию активности пользователя
type activityTracker interface {
	Track(ctx context.Context, userID uuid.UUID, activity time.Time) (*model.Streak, error)
}

// ExpenseService ведет расходы пользователя. Создание расхода - главная
// точка входа движка: здесь подбирается категория, проверяется
// аномальность, обновляется бюджет и продвигается серия активности.
type ExpenseService struct {
	expenseRepo expenseStore
	budgetRepo  budgetSpender
	userRepo    *repository.UserRepository
	insights    expenseInsights
	streaks     activityTracker
	emailSender *EmailSender
	logger      *logrus.Logger
}

func NewExpenseService(
	expenseRepo expenseStore,
	budgetRepo budgetSpender,
	userRepo *repository.UserRepository,
	insights expenseInsights,
	streaks activityTracker,
	emailSender *EmailSender,
	logger *logrus.Logger,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		budgetRepo:  budgetRepo,
		userRepo:    userRepo,
		insights:    insights,
		streaks:     streaks,
		emailSender: emailSender,
		logger:      logger,
	}
}

// Create создает расход. Категория при необходимости подбирается
// классификатором, транзакция проверяется на аномальность до записи.
// Обновление бюджета, серии и отправка уведомления расход не блокируют.
func (s *ExpenseService) Create(ctx context.Context, userID uuid.UUID, req model.CreateExpenseRequest) (*model.Expense, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	date, err := parseDateOrToday(req.Date)
	if err != nil {
		return nil, err
	}

	category := req.Category
	if category == "" {
		classification, err := s.insights.ClassifyExpense(req.Description, req.Amount)
		if err != nil {
			return nil, fmt.Errorf("failed to classify expense: %w", err)
		}
		category = classification.Category
		s.logger.WithFields(logrus.Fields{
			"user_id":    userID,
			"category":   category,
			"confidence": classification.Confidence,
		}).Info("Категория расхода подобрана классификатором")
	}

	anomaly, err := s.insights.DetectAnomalyForExpense(ctx, userID, insight.TransactionSample{
		Amount:    req.Amount,
		Category:  category,
		DayOfWeek: int(date.Weekday()),
		HourOfDay: time.Now().Hour(),
	})
	if err != nil {
		// Недоступность аналитики не блокирует запись: расход
		// сохраняется без пометки аномальности
		s.logger.WithError(err).WithField("user_id", userID).Warn("Проверка аномальности недоступна, расход сохраняется без пометки")
		anomaly = insight.AnomalyResult{}
	}

	now := time.Now()
	expense := &model.Expense{
		ID:           uuid.New(),
		UserID:       userID,
		Amount:       req.Amount,
		Category:     category,
		Description:  req.Description,
		Date:         date,
		IsAnomaly:    anomaly.IsAnomaly,
		AnomalyScore: anomaly.Score,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	// Побочные эффекты после записи: их сбой не отменяет созданный расход
	if err := s.budgetRepo.IncrementSpent(ctx, userID, category, req.Amount); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Не удалось обновить потраченную сумму бюджета")
	}

	if _, err := s.streaks.Track(ctx, userID, now); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Не удалось обновить серию активности")
	}

	if anomaly.IsAnomaly {
		s.notifyAnomaly(ctx, userID, expense, anomaly.Explanation)
	}

	return expense, nil
}

// notifyAnomaly отправляет пользователю письмо о подозрительной транзакции
func (s *ExpenseService) notifyAnomaly(ctx context.Context, userID uuid.UUID, expense *model.Expense, explanation string) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Не удалось найти пользователя для уведомления")
		return
	}
	if err := s.emailSender.SendAnomalyAlert(user.Email, expense, explanation); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Не удалось отправить уведомление об аномалии")
	}
}

// ListByMonth возвращает расходы пользователя за текущий месяц
func (s *ExpenseService) ListByMonth(ctx context.Context, userID uuid.UUID) ([]model.Expense, error) {
	start, end := monthRange(time.Now())
	return s.expenseRepo.ListByUserAndPeriod(ctx, userID, start, end)
}

// ListRecent возвращает последние расходы пользователя
func (s *ExpenseService) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.Expense, error) {
	if limit <= 0 || limit > 100 {
		limit = recentExpensesLimit
	}
	return s.expenseRepo.ListRecent(ctx, userID, limit)
}
