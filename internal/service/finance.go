package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/model"
	"cashflow-api/internal/repository"
)

// incomeStore - операции хранилища доходов, нужные сервису
type incomeStore interface {
	Create(ctx context.Context, income *model.Income) error
	ListByUserAndPeriod(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) ([]model.Income, error)
}

// FinanceService ведет доходы, бюджеты, счета и кошельки пользователя
type FinanceService struct {
	incomeRepo incomeStore
	budgetRepo *repository.BudgetRepository
	billRepo   *repository.BillRepository
	walletRepo *repository.WalletRepository
	streaks    activityTracker
	logger     *logrus.Logger
}

func NewFinanceService(
	incomeRepo incomeStore,
	budgetRepo *repository.BudgetRepository,
	billRepo *repository.BillRepository,
	walletRepo *repository.WalletRepository,
	streaks activityTracker,
	logger *logrus.Logger,
) *FinanceService {
	return &FinanceService{
		incomeRepo: incomeRepo,
		budgetRepo: budgetRepo,
		billRepo:   billRepo,
		walletRepo: walletRepo,
		streaks:    streaks,
		logger:     logger,
	}
}

// CreateIncome регистрирует доход. Запись дохода - такая же финансовая
// активность, как и расход, и продвигает серию.
func (s *FinanceService) CreateIncome(ctx context.Context, userID uuid.UUID, req model.CreateIncomeRequest) (*model.Income, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Пустая дата допустима по контракту запроса и означает сегодня
	date, err := parseDateOrToday(req.Date)
	if err != nil {
		return nil, err
	}

	income := &model.Income{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    req.Amount,
		Source:    req.Source,
		Date:      date,
		CreatedAt: time.Now(),
	}

	if err := s.incomeRepo.Create(ctx, income); err != nil {
		return nil, err
	}

	if _, err := s.streaks.Track(ctx, userID, time.Now()); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Не удалось обновить серию активности")
	}

	return income, nil
}

// ListIncomeByMonth возвращает доходы за текущий месяц
func (s *FinanceService) ListIncomeByMonth(ctx context.Context, userID uuid.UUID) ([]model.Income, error) {
	start, end := monthRange(time.Now())
	return s.incomeRepo.ListByUserAndPeriod(ctx, userID, start, end)
}

// CreateBudget создает активный бюджет категории
func (s *FinanceService) CreateBudget(ctx context.Context, userID uuid.UUID, req model.CreateBudgetRequest) (*model.Budget, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	budget := &model.Budget{
		ID:        uuid.New(),
		UserID:    userID,
		Category:  req.Category,
		Amount:    req.Amount,
		Spent:     decimal.Zero,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.budgetRepo.Create(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// ListBudgets возвращает активные бюджеты пользователя
func (s *FinanceService) ListBudgets(ctx context.Context, userID uuid.UUID) ([]model.Budget, error) {
	return s.budgetRepo.ListActiveByUser(ctx, userID)
}

// CreateBill создает счет или обязательство
func (s *FinanceService) CreateBill(ctx context.Context, userID uuid.UUID, req model.CreateBillRequest) (*model.Bill, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due date format, expected YYYY-MM-DD")
	}

	bill := &model.Bill{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            req.Name,
		Type:            req.Type,
		Amount:          req.Amount,
		RemainingAmount: req.RemainingAmount,
		DueDate:         dueDate,
		IsPaid:          false,
		CreatedAt:       time.Now(),
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// ListBills возвращает счета пользователя
func (s *FinanceService) ListBills(ctx context.Context, userID uuid.UUID) ([]model.Bill, error) {
	return s.billRepo.ListByUser(ctx, userID)
}

// CreateWallet создает кошелек
func (s *FinanceService) CreateWallet(ctx context.Context, userID uuid.UUID, req model.CreateWalletRequest) (*model.Wallet, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	wallet := &model.Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      req.Name,
		Balance:   req.Balance,
		Currency:  req.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// ListWallets возвращает кошельки пользователя
func (s *FinanceService) ListWallets(ctx context.Context, userID uuid.UUID) ([]model.Wallet, error) {
	return s.walletRepo.ListByUser(ctx, userID)
}

// parseDateOrToday разбирает дату запроса; пустая строка означает
// сегодняшний день
func parseDateOrToday(value string) (time.Time, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected YYYY-MM-DD")
	}
	return parsed, nil
}
