package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory - закрытый перечень категорий расходов
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "food"
	CategoryTransport     ExpenseCategory = "transport"
	CategoryShopping      ExpenseCategory = "shopping"
	CategoryEntertainment ExpenseCategory = "entertainment"
	CategoryBills         ExpenseCategory = "bills"
	CategoryHealth        ExpenseCategory = "health"
	CategoryGroceries     ExpenseCategory = "groceries"
	CategoryEducation     ExpenseCategory = "education"
	CategoryOther         ExpenseCategory = "other"
)

// Categories - все допустимые категории в порядке объявления
var Categories = []ExpenseCategory{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryEntertainment,
	CategoryBills,
	CategoryHealth,
	CategoryGroceries,
	CategoryEducation,
	CategoryOther,
}

// Valid проверяет, что категория входит в закрытый перечень
func (c ExpenseCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Expense struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	UserID       uuid.UUID       `json:"user_id" db:"user_id"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	Category     ExpenseCategory `json:"category" db:"category"`
	Description  string          `json:"description" db:"description"`
	Date         time.Time       `json:"date" db:"date"`
	IsAnomaly    bool            `json:"is_anomaly" db:"is_anomaly"`
	AnomalyScore float64         `json:"anomaly_score" db:"anomaly_score"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateExpenseRequest - входные данные для создания расхода.
// Категория необязательна: при пустом значении она подбирается классификатором.
type CreateExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    ExpenseCategory `json:"category"`
	Description string          `json:"description" validate:"required,max=255"`
	Date        string          `json:"date"` // YYYY-MM-DD, по умолчанию сегодня
}

func (r *CreateExpenseRequest) Validate() error {
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive")
	}
	if r.Description == "" {
		return fmt.Errorf("description is required")
	}
	if r.Category != "" && !r.Category.Valid() {
		return fmt.Errorf("unknown expense category: %s", r.Category)
	}
	if r.Date != "" {
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD)")
		}
	}
	return nil
}
