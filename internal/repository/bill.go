package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/model"
)

type BillRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewBillRepository(db *sql.DB, logger *logrus.Logger) *BillRepository {
	return &BillRepository{db: db, logger: logger}
}

func (r *BillRepository) Create(ctx context.Context, bill *model.Bill) error {
	r.logger.WithFields(logrus.Fields{
		"bill_id":  bill.ID,
		"user_id":  bill.UserID,
		"name":     bill.Name,
		"type":     bill.Type,
		"due_date": bill.DueDate.Format("2006-01-02"),
	}).Info("Создание нового счета к оплате")

	query := `
		INSERT INTO bills (id, user_id, name, type, amount, remaining_amount, due_date, is_paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		bill.ID,
		bill.UserID,
		bill.Name,
		bill.Type,
		bill.Amount,
		bill.RemainingAmount,
		bill.DueDate,
		bill.IsPaid,
		bill.CreatedAt,
	)

	if err != nil {
		r.logger.WithError(err).Error("Ошибка при создании счета")
		return fmt.Errorf("failed to create bill: %w", err)
	}

	return nil
}

// ListByUser возвращает все счета пользователя
func (r *BillRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Bill, error) {
	const query = `SELECT id, user_id, name, type, amount, remaining_amount, due_date, is_paid, created_at
	              FROM bills
	              WHERE user_id = $1
	              ORDER BY due_date`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса счетов")
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	return scanBills(rows)
}

// ListDueWithin возвращает неоплаченные счета всех пользователей со сроком
// оплаты в указанном окне. Используется заданием рассылки напоминаний.
func (r *BillRepository) ListDueWithin(ctx context.Context, from, to time.Time) ([]model.Bill, error) {
	r.logger.WithFields(logrus.Fields{
		"from": from.Format("2006-01-02"),
		"to":   to.Format("2006-01-02"),
	}).Debug("Запрос счетов с приближающимся сроком оплаты")

	const query = `SELECT id, user_id, name, type, amount, remaining_amount, due_date, is_paid, created_at
	              FROM bills
	              WHERE is_paid = FALSE AND due_date >= $1 AND due_date < $2
	              ORDER BY due_date`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса счетов к напоминанию")
		return nil, fmt.Errorf("failed to list due bills: %w", err)
	}
	defer rows.Close()

	return scanBills(rows)
}

// TotalOutstandingDebt возвращает суммарный остаток по кредитным
// обязательствам пользователя (loan/emi) - агрегат задолженности
func (r *BillRepository) TotalOutstandingDebt(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	const query = `SELECT COALESCE(SUM(remaining_amount), 0)
	              FROM bills
	              WHERE user_id = $1 AND type IN ('loan', 'emi')`

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		r.logger.WithError(err).Error("Ошибка расчета суммарной задолженности")
		return decimal.Zero, fmt.Errorf("failed to sum outstanding debt: %w", err)
	}

	return total, nil
}

func scanBills(rows *sql.Rows) ([]model.Bill, error) {
	var bills []model.Bill
	for rows.Next() {
		var b model.Bill
		if err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.Name,
			&b.Type,
			&b.Amount,
			&b.RemainingAmount,
			&b.DueDate,
			&b.IsPaid,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, nil
}
