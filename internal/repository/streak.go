package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/insight"
	"cashflow-api/internal/model"
)

type StreakRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewStreakRepository(db *sql.DB, logger *logrus.Logger) *StreakRepository {
	return &StreakRepository{db: db, logger: logger}
}

// GetByUser возвращает состояние серии пользователя или nil, если записи нет
func (r *StreakRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Streak, error) {
	const query = `SELECT user_id, current_streak, longest_streak, total_points, last_activity_date, updated_at
	              FROM streaks
	              WHERE user_id = $1`

	var s model.Streak
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID,
		&s.CurrentStreak,
		&s.LongestStreak,
		&s.TotalPoints,
		&s.LastActivityDate,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithError(err).Error("Ошибка получения состояния серии")
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}

	return &s, nil
}

// Create создает первую запись серии. При конкурентной вставке возвращает
// ErrConcurrentUpdate, чтобы вызывающая сторона перечитала состояние.
func (r *StreakRepository) Create(ctx context.Context, streak *model.Streak) error {
	r.logger.WithFields(logrus.Fields{
		"user_id":        streak.UserID,
		"current_streak": streak.CurrentStreak,
		"total_points":   streak.TotalPoints,
	}).Info("Создание записи серии активности")

	query := `
		INSERT INTO streaks (user_id, current_streak, longest_streak, total_points, last_activity_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		streak.UserID,
		streak.CurrentStreak,
		streak.LongestStreak,
		streak.TotalPoints,
		streak.LastActivityDate,
		streak.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return insight.ErrConcurrentUpdate
		}
		r.logger.WithError(err).Error("Ошибка создания записи серии")
		return fmt.Errorf("failed to create streak: %w", err)
	}

	return nil
}

// UpdateConditional применяет переход серии только если дата последней
// активности не изменилась с момента чтения (условное обновление вместо
// чтения и слепой записи). Ноль затронутых строк означает конкурентное
// обновление.
func (r *StreakRepository) UpdateConditional(
	ctx context.Context,
	streak *model.Streak,
	prevLastActivity *time.Time,
) error {
	var (
		result sql.Result
		err    error
	)

	if prevLastActivity == nil {
		const query = `UPDATE streaks
		              SET current_streak = $2, longest_streak = $3, total_points = $4,
		                  last_activity_date = $5, updated_at = $6
		              WHERE user_id = $1 AND last_activity_date IS NULL`
		result, err = r.db.ExecContext(ctx, query,
			streak.UserID,
			streak.CurrentStreak,
			streak.LongestStreak,
			streak.TotalPoints,
			streak.LastActivityDate,
			streak.UpdatedAt,
		)
	} else {
		const query = `UPDATE streaks
		              SET current_streak = $2, longest_streak = $3, total_points = $4,
		                  last_activity_date = $5, updated_at = $6
		              WHERE user_id = $1 AND last_activity_date = $7`
		result, err = r.db.ExecContext(ctx, query,
			streak.UserID,
			streak.CurrentStreak,
			streak.LongestStreak,
			streak.TotalPoints,
			streak.LastActivityDate,
			streak.UpdatedAt,
			*prevLastActivity,
		)
	}

	if err != nil {
		r.logger.WithError(err).Error("Ошибка обновления серии")
		return fmt.Errorf("failed to update streak: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		r.logger.WithField("user_id", streak.UserID).Warn("Конкурентное обновление серии, требуется повтор")
		return insight.ErrConcurrentUpdate
	}

	return nil
}

// AddPoints начисляет бонусные баллы без изменения серии
func (r *StreakRepository) AddPoints(ctx context.Context, userID uuid.UUID, points int) error {
	const query = `UPDATE streaks
	              SET total_points = total_points + $2, updated_at = NOW()
	              WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, points)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка начисления бонусных баллов")
		return fmt.Errorf("failed to add points: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("streak record not found")
	}

	return nil
}
