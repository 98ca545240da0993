package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/model"
)

type ScoreRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewScoreRepository(db *sql.DB, logger *logrus.Logger) *ScoreRepository {
	return &ScoreRepository{db: db, logger: logger}
}

// InsertSnapshot сохраняет снимок финансового рейтинга за день.
// Повторный снимок за тот же день перезаписывает предыдущий.
func (r *ScoreRepository) InsertSnapshot(ctx context.Context, snapshot *model.ScoreSnapshot) error {
	r.logger.WithFields(logrus.Fields{
		"user_id":    snapshot.UserID,
		"score":      snapshot.Score,
		"trend":      snapshot.Trend,
		"score_date": snapshot.ScoreDate.Format("2006-01-02"),
	}).Info("Сохранение снимка финансового рейтинга")

	query := `
		INSERT INTO score_snapshots (id, user_id, score, income_score, expense_score, savings_score,
		                             debt_score, liquidity_score, trend, recommendations, score_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, score_date) DO UPDATE
		SET score = EXCLUDED.score,
		    income_score = EXCLUDED.income_score,
		    expense_score = EXCLUDED.expense_score,
		    savings_score = EXCLUDED.savings_score,
		    debt_score = EXCLUDED.debt_score,
		    liquidity_score = EXCLUDED.liquidity_score,
		    trend = EXCLUDED.trend,
		    recommendations = EXCLUDED.recommendations,
		    created_at = EXCLUDED.created_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		snapshot.ID,
		snapshot.UserID,
		snapshot.Score,
		snapshot.IncomeScore,
		snapshot.ExpenseScore,
		snapshot.SavingsScore,
		snapshot.DebtScore,
		snapshot.LiquidityScore,
		snapshot.Trend,
		pq.Array(snapshot.Recommendations),
		snapshot.ScoreDate,
		snapshot.CreatedAt,
	)

	if err != nil {
		r.logger.WithError(err).Error("Ошибка сохранения снимка рейтинга")
		return fmt.Errorf("failed to insert score snapshot: %w", err)
	}

	return nil
}

// ListByUser возвращает последние снимки рейтинга, новые первыми
func (r *ScoreRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.ScoreSnapshot, error) {
	const query = `SELECT id, user_id, score, income_score, expense_score, savings_score,
	                      debt_score, liquidity_score, trend, recommendations, score_date, created_at
	              FROM score_snapshots
	              WHERE user_id = $1
	              ORDER BY score_date DESC
	              LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка получения снимков рейтинга")
		return nil, fmt.Errorf("failed to list score snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []model.ScoreSnapshot
	for rows.Next() {
		var s model.ScoreSnapshot
		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Score,
			&s.IncomeScore,
			&s.ExpenseScore,
			&s.SavingsScore,
			&s.DebtScore,
			&s.LiquidityScore,
			&s.Trend,
			pq.Array(&s.Recommendations),
			&s.ScoreDate,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return snapshots, nil
}
