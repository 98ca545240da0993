package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/model"
)

type GoalRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewGoalRepository(db *sql.DB, logger *logrus.Logger) *GoalRepository {
	return &GoalRepository{db: db, logger: logger}
}

func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	r.logger.WithFields(logrus.Fields{
		"goal_id":       goal.ID,
		"user_id":       goal.UserID,
		"title":         goal.Title,
		"target_amount": goal.TargetAmount,
		"deadline":      goal.Deadline.Format("2006-01-02"),
	}).Info("Создание новой цели")

	query := `
		INSERT INTO goals (id, user_id, title, target_amount, current_amount, deadline, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Deadline,
		goal.Status,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	if err != nil {
		r.logger.WithError(err).Error("Ошибка при создании цели")
		return fmt.Errorf("failed to create goal: %w", err)
	}

	return nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Goal, error) {
	const query = `SELECT id, user_id, title, target_amount, current_amount, deadline, status, created_at, updated_at
	              FROM goals
	              WHERE id = $1`

	var g model.Goal
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.Deadline,
		&g.Status,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("goal not found")
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	return &g, nil
}

// ListActiveByUser возвращает активные цели пользователя
func (r *GoalRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.Goal, error) {
	const query = `SELECT id, user_id, title, target_amount, current_amount, deadline, status, created_at, updated_at
	              FROM goals
	              WHERE user_id = $1 AND status = 'active'
	              ORDER BY deadline`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса целей")
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		var g model.Goal
		if err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.Title,
			&g.TargetAmount,
			&g.CurrentAmount,
			&g.Deadline,
			&g.Status,
			&g.CreatedAt,
			&g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}

	return goals, nil
}

// AddProgress увеличивает накопленную сумму цели и возвращает обновленную цель
func (r *GoalRepository) AddProgress(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*model.Goal, error) {
	const query = `UPDATE goals
	              SET current_amount = current_amount + $2, updated_at = NOW()
	              WHERE id = $1
	              RETURNING id, user_id, title, target_amount, current_amount, deadline, status, created_at, updated_at`

	var g model.Goal
	err := r.db.QueryRowContext(ctx, query, id, amount).Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.Deadline,
		&g.Status,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("goal not found")
		}
		return nil, fmt.Errorf("failed to add goal progress: %w", err)
	}

	return &g, nil
}

// UpdateStatus меняет статус цели
func (r *GoalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.GoalStatus) error {
	const query = `UPDATE goals SET status = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		r.logger.WithError(err).Error("Ошибка обновления статуса цели")
		return fmt.Errorf("failed to update goal status: %w", err)
	}

	return nil
}
