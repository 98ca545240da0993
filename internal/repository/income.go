package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/model"
)

type IncomeRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewIncomeRepository(db *sql.DB, logger *logrus.Logger) *IncomeRepository {
	return &IncomeRepository{db: db, logger: logger}
}

func (r *IncomeRepository) Create(ctx context.Context, income *model.Income) error {
	r.logger.WithFields(logrus.Fields{
		"income_id": income.ID,
		"user_id":   income.UserID,
		"amount":    income.Amount,
		"source":    income.Source,
	}).Info("Создание новой записи о доходе")

	query := `
		INSERT INTO income (id, user_id, amount, source, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		income.ID,
		income.UserID,
		income.Amount,
		income.Source,
		income.Date,
		income.CreatedAt,
	)

	if err != nil {
		r.logger.WithError(err).Error("Ошибка при создании записи о доходе")
		return fmt.Errorf("failed to create income: %w", err)
	}

	return nil
}

// ListByUserAndPeriod возвращает доходы пользователя за период
func (r *IncomeRepository) ListByUserAndPeriod(
	ctx context.Context,
	userID uuid.UUID,
	startDate, endDate time.Time,
) ([]model.Income, error) {
	const query = `SELECT id, user_id, amount, source, date, created_at
	              FROM income
	              WHERE user_id = $1 AND date >= $2 AND date < $3
	              ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, startDate, endDate)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса доходов")
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []model.Income
	for rows.Next() {
		var inc model.Income
		if err := rows.Scan(
			&inc.ID,
			&inc.UserID,
			&inc.Amount,
			&inc.Source,
			&inc.Date,
			&inc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		incomes = append(incomes, inc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate incomes: %w", err)
	}

	return incomes, nil
}
