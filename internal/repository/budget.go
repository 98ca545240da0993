package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/model"
)

type BudgetRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewBudgetRepository(db *sql.DB, logger *logrus.Logger) *BudgetRepository {
	return &BudgetRepository{db: db, logger: logger}
}

func (r *BudgetRepository) Create(ctx context.Context, budget *model.Budget) error {
	r.logger.WithFields(logrus.Fields{
		"budget_id": budget.ID,
		"user_id":   budget.UserID,
		"category":  budget.Category,
		"amount":    budget.Amount,
	}).Info("Создание нового бюджета")

	query := `
		INSERT INTO budgets (id, user_id, category, amount, spent, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		budget.ID,
		budget.UserID,
		budget.Category,
		budget.Amount,
		budget.Spent,
		budget.IsActive,
		budget.CreatedAt,
		budget.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("active budget for category %s already exists", budget.Category)
		}
		r.logger.WithError(err).Error("Ошибка при создании бюджета")
		return fmt.Errorf("failed to create budget: %w", err)
	}

	return nil
}

// ListActiveByUser возвращает активные бюджеты пользователя
func (r *BudgetRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.Budget, error) {
	const query = `SELECT id, user_id, category, amount, spent, is_active, created_at, updated_at
	              FROM budgets
	              WHERE user_id = $1 AND is_active = TRUE
	              ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса бюджетов")
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		if err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.Category,
			&b.Amount,
			&b.Spent,
			&b.IsActive,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}

	return budgets, nil
}

// IncrementSpent увеличивает потраченную сумму активного бюджета категории.
// Отсутствие бюджета для категории не является ошибкой.
func (r *BudgetRepository) IncrementSpent(
	ctx context.Context,
	userID uuid.UUID,
	category model.ExpenseCategory,
	amount decimal.Decimal,
) error {
	const query = `UPDATE budgets
	              SET spent = spent + $3, updated_at = NOW()
	              WHERE user_id = $1 AND category = $2 AND is_active = TRUE`

	result, err := r.db.ExecContext(ctx, query, userID, category, amount)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка обновления потраченной суммы бюджета")
		return fmt.Errorf("failed to increment budget spent: %w", err)
	}

	affected, _ := result.RowsAffected()
	r.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"category": category,
		"amount":   amount,
		"updated":  affected,
	}).Debug("Потраченная сумма бюджета обновлена")

	return nil
}
