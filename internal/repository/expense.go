package repository

import (
	"context"
	"fmt"
	"time"

	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/model"
)

type ExpenseRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewExpenseRepository(db *sql.DB, logger *logrus.Logger) *ExpenseRepository {
	return &ExpenseRepository{db: db, logger: logger}
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	r.logger.WithFields(logrus.Fields{
		"expense_id": expense.ID,
		"user_id":    expense.UserID,
		"amount":     expense.Amount,
		"category":   expense.Category,
		"is_anomaly": expense.IsAnomaly,
	}).Info("Создание нового расхода")

	query := `
		INSERT INTO expenses (id, user_id, amount, category, description, date, is_anomaly, anomaly_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		expense.ID,
		expense.UserID,
		expense.Amount,
		expense.Category,
		expense.Description,
		expense.Date,
		expense.IsAnomaly,
		expense.AnomalyScore,
		expense.CreatedAt,
		expense.UpdatedAt,
	)

	if err != nil {
		r.logger.WithError(err).Error("Ошибка при создании расхода")
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// ListByUserAndPeriod возвращает расходы пользователя за период
func (r *ExpenseRepository) ListByUserAndPeriod(
	ctx context.Context,
	userID uuid.UUID,
	startDate, endDate time.Time,
) ([]model.Expense, error) {
	r.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"start_date": startDate.Format("2006-01-02"),
		"end_date":   endDate.Format("2006-01-02"),
	}).Debug("Запрос расходов за период")

	const query = `SELECT id, user_id, amount, category, description, date, is_anomaly, anomaly_score, created_at, updated_at
	              FROM expenses
	              WHERE user_id = $1 AND date >= $2 AND date < $3
	              ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, startDate, endDate)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса расходов")
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// ListRecent возвращает последние расходы пользователя (новые в начале)
func (r *ExpenseRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.Expense, error) {
	const query = `SELECT id, user_id, amount, category, description, date, is_anomaly, anomaly_score, created_at, updated_at
	              FROM expenses
	              WHERE user_id = $1
	              ORDER BY date DESC
	              LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса последних расходов")
		return nil, fmt.Errorf("failed to list recent expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// RecentAmountsByCategory возвращает суммы последних расходов той же
// категории - историческую выборку для детектора аномалий
func (r *ExpenseRepository) RecentAmountsByCategory(
	ctx context.Context,
	userID uuid.UUID,
	category model.ExpenseCategory,
	limit int,
) ([]decimal.Decimal, error) {
	const query = `SELECT amount
	              FROM expenses
	              WHERE user_id = $1 AND category = $2
	              ORDER BY date DESC
	              LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, userID, category, limit)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса исторических сумм")
		return nil, fmt.Errorf("failed to query historical amounts: %w", err)
	}
	defer rows.Close()

	var amounts []decimal.Decimal
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return nil, fmt.Errorf("failed to scan amount: %w", err)
		}
		amounts = append(amounts, amount)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate amounts: %w", err)
	}

	return amounts, nil
}

func scanExpenses(rows *sql.Rows) ([]model.Expense, error) {
	var expenses []model.Expense
	for rows.Next() {
		var e model.Expense
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Amount,
			&e.Category,
			&e.Description,
			&e.Date,
			&e.IsAnomaly,
			&e.AnomalyScore,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}
