package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/insight"
	"cashflow-api/internal/model"
)

// maxStreakRetries - число повторов при конкурентном обновлении серии
const maxStreakRetries = 3

// streakStore - операции хранилища серий. Условное обновление и вставка
// сигнализируют о конкурентном изменении через insight.ErrConcurrentUpdate.
type streakStore interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.Streak, error)
	Create(ctx context.Context, streak *model.Streak) error
	UpdateConditional(ctx context.Context, streak *model.Streak, prevLastActivity *time.Time) error
	AddPoints(ctx context.Context, userID uuid.UUID, points int) error
}

type StreakService struct {
	streakRepo streakStore
	logger     *logrus.Logger
}

func NewStreakService(streakRepo streakStore, logger *logrus.Logger) *StreakService {
	return &StreakService{streakRepo: streakRepo, logger: logger}
}

// Get возвращает состояние серии; для пользователя без активности -
// нулевое состояние, а не ошибку
func (s *StreakService) Get(ctx context.Context, userID uuid.UUID) (*model.Streak, error) {
	streak, err := s.streakRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if streak == nil {
		return &model.Streak{UserID: userID}, nil
	}
	return streak, nil
}

// Track фиксирует финансовую активность пользователя и продвигает
// серию. Состояние читается, переход вычисляется чистой функцией и
// записывается условным обновлением; при конкурентном изменении
// операция повторяется на свежем состоянии.
func (s *StreakService) Track(ctx context.Context, userID uuid.UUID, activity time.Time) (*model.Streak, error) {
	for attempt := 0; attempt < maxStreakRetries; attempt++ {
		current, err := s.streakRepo.GetByUser(ctx, userID)
		if err != nil {
			return nil, err
		}

		if current == nil {
			created, err := s.createInitial(ctx, userID, activity)
			if err != nil {
				if errors.Is(err, insight.ErrConcurrentUpdate) {
					continue
				}
				return nil, err
			}
			return created, nil
		}

		state := insight.StreakState{
			CurrentStreak: current.CurrentStreak,
			LongestStreak: current.LongestStreak,
			TotalPoints:   current.TotalPoints,
		}
		if current.LastActivityDate != nil {
			state.LastActivity = *current.LastActivityDate
		}

		next, changed := insight.AdvanceStreak(state, activity)
		if !changed {
			return current, nil
		}

		updated := &model.Streak{
			UserID:           userID,
			CurrentStreak:    next.CurrentStreak,
			LongestStreak:    next.LongestStreak,
			TotalPoints:      next.TotalPoints,
			LastActivityDate: &next.LastActivity,
			UpdatedAt:        time.Now(),
		}

		err = s.streakRepo.UpdateConditional(ctx, updated, current.LastActivityDate)
		if err == nil {
			s.logger.WithFields(logrus.Fields{
				"user_id":        userID,
				"current_streak": updated.CurrentStreak,
				"total_points":   updated.TotalPoints,
			}).Info("Серия активности обновлена")
			return updated, nil
		}
		if errors.Is(err, insight.ErrConcurrentUpdate) {
			s.logger.WithField("user_id", userID).Debug("Повтор обновления серии после конкурентного изменения")
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to update streak after %d attempts: %w", maxStreakRetries, insight.ErrConcurrentUpdate)
}

// createInitial создает первую запись серии для пользователя
func (s *StreakService) createInitial(ctx context.Context, userID uuid.UUID, activity time.Time) (*model.Streak, error) {
	next, _ := insight.AdvanceStreak(insight.StreakState{}, activity)
	streak := &model.Streak{
		UserID:           userID,
		CurrentStreak:    next.CurrentStreak,
		LongestStreak:    next.LongestStreak,
		TotalPoints:      next.TotalPoints,
		LastActivityDate: &next.LastActivity,
		UpdatedAt:        time.Now(),
	}
	if err := s.streakRepo.Create(ctx, streak); err != nil {
		return nil, err
	}
	return streak, nil
}

// AwardBonusPoints начисляет бонусные баллы вне механики серии,
// например за достижение цели
func (s *StreakService) AwardBonusPoints(ctx context.Context, userID uuid.UUID, points int) error {
	if points <= 0 {
		return fmt.Errorf("points must be positive")
	}
	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"points":  points,
	}).Info("Начисление бонусных баллов")
	return s.streakRepo.AddPoints(ctx, userID, points)
}
