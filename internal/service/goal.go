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

// goalBonusPoints - бонус за достижение финансовой цели
const goalBonusPoints = 100

type GoalService struct {
	goalRepo    *repository.GoalRepository
	userRepo    *repository.UserRepository
	streaks     *StreakService
	emailSender *EmailSender
	logger      *logrus.Logger
}

func NewGoalService(
	goalRepo *repository.GoalRepository,
	userRepo *repository.UserRepository,
	streaks *StreakService,
	emailSender *EmailSender,
	logger *logrus.Logger,
) *GoalService {
	return &GoalService{
		goalRepo:    goalRepo,
		userRepo:    userRepo,
		streaks:     streaks,
		emailSender: emailSender,
		logger:      logger,
	}
}

// Create создает финансовую цель
func (s *GoalService) Create(ctx context.Context, userID uuid.UUID, req model.CreateGoalRequest) (*model.Goal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	deadline, err := time.Parse("2006-01-02", req.Deadline)
	if err != nil {
		return nil, fmt.Errorf("invalid deadline format, expected YYYY-MM-DD")
	}

	now := time.Now()
	goal := &model.Goal{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         req.Title,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      deadline,
		Status:        model.GoalStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// List возвращает активные цели пользователя
func (s *GoalService) List(ctx context.Context, userID uuid.UUID) ([]model.Goal, error) {
	return s.goalRepo.ListActiveByUser(ctx, userID)
}

// AddProgress увеличивает накопленную сумму цели. Пополнение считается
// финансовой активностью и продвигает серию; при достижении цели
// начисляются бонусные баллы и отправляется поздравление.
func (s *GoalService) AddProgress(ctx context.Context, userID, goalID uuid.UUID, amount decimal.Decimal) (*model.Goal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be positive")
	}

	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, fmt.Errorf("goal not found")
	}
	if goal.Status != model.GoalStatusActive {
		return nil, fmt.Errorf("goal is not active")
	}

	updated, err := s.goalRepo.AddProgress(ctx, goalID, amount)
	if err != nil {
		return nil, err
	}

	if _, err := s.streaks.Track(ctx, userID, time.Now()); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Не удалось обновить серию активности")
	}

	if updated.CurrentAmount.GreaterThanOrEqual(updated.TargetAmount) {
		s.completeGoal(ctx, userID, updated)
	}

	return updated, nil
}

// completeGoal отмечает цель достигнутой и начисляет награду.
// Сбой любого шага логируется, но пополнение уже применено.
func (s *GoalService) completeGoal(ctx context.Context, userID uuid.UUID, goal *model.Goal) {
	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"goal_id": goal.ID,
		"title":   goal.Title,
	}).Info("Финансовая цель достигнута")

	if err := s.goalRepo.UpdateStatus(ctx, goal.ID, model.GoalStatusCompleted); err != nil {
		s.logger.WithError(err).WithField("goal_id", goal.ID).Error("Не удалось отметить цель достигнутой")
		return
	}
	goal.Status = model.GoalStatusCompleted

	if err := s.streaks.AwardBonusPoints(ctx, userID, goalBonusPoints); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Не удалось начислить бонус за цель")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Не удалось найти пользователя для поздравления")
		return
	}
	if err := s.emailSender.SendGoalAchieved(user.Email, goal.Title, goal.TargetAmount); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Не удалось отправить поздравление")
	}
}
