package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget - месячный лимит расходов по категории.
// Поле Spent обновляется при создании каждого расхода этой категории.
type Budget struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Category  ExpenseCategory `json:"category" db:"category"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Spent     decimal.Decimal `json:"spent" db:"spent"`
	IsActive  bool            `json:"is_active" db:"is_active"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateBudgetRequest struct {
	Category ExpenseCategory `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

func (r *CreateBudgetRequest) Validate() error {
	if !r.Category.Valid() {
		return fmt.Errorf("unknown expense category: %s", r.Category)
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}
