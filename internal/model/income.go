package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeSource - закрытый перечень источников дохода
type IncomeSource string

const (
	IncomeSourceSalary     IncomeSource = "salary"
	IncomeSourceFreelance  IncomeSource = "freelance"
	IncomeSourceBusiness   IncomeSource = "business"
	IncomeSourceInvestment IncomeSource = "investment"
	IncomeSourceOther      IncomeSource = "other"
)

func (s IncomeSource) Valid() bool {
	switch s {
	case IncomeSourceSalary, IncomeSourceFreelance, IncomeSourceBusiness,
		IncomeSourceInvestment, IncomeSourceOther:
		return true
	}
	return false
}

type Income struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Source    IncomeSource    `json:"source" db:"source"`
	Date      time.Time       `json:"date" db:"date"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

type CreateIncomeRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Source IncomeSource    `json:"source"`
	Date   string          `json:"date"` // YYYY-MM-DD
}

func (r *CreateIncomeRequest) Validate() error {
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive")
	}
	if r.Source == "" {
		r.Source = IncomeSourceOther
	}
	if !r.Source.Valid() {
		return fmt.Errorf("unknown income source: %s", r.Source)
	}
	if r.Date != "" {
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD)")
		}
	}
	return nil
}
