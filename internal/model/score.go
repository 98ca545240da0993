package model

import (
	"time"

	"github.com/google/uuid"
)

// ScoreSnapshot - сохраненный результат расчета финансового рейтинга.
// История снимков используется для отображения динамики рейтинга.
type ScoreSnapshot struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Score           int       `json:"score" db:"score"`
	IncomeScore     int       `json:"income_score" db:"income_score"`
	ExpenseScore    int       `json:"expense_score" db:"expense_score"`
	SavingsScore    int       `json:"savings_score" db:"savings_score"`
	DebtScore       int       `json:"debt_score" db:"debt_score"`
	LiquidityScore  int       `json:"liquidity_score" db:"liquidity_score"`
	Trend           string    `json:"trend" db:"trend"`
	Recommendations []string  `json:"recommendations" db:"recommendations"`
	ScoreDate       time.Time `json:"score_date" db:"score_date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
