package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BillType string

const (
	BillTypeLoan         BillType = "loan"
	BillTypeEMI          BillType = "emi"
	BillTypeSubscription BillType = "subscription"
	BillTypeUtility      BillType = "utility"
)

func (t BillType) Valid() bool {
	switch t {
	case BillTypeLoan, BillTypeEMI, BillTypeSubscription, BillTypeUtility:
		return true
	}
	return false
}

// IsDebt - кредитные обязательства учитываются в агрегате задолженности
func (t BillType) IsDebt() bool {
	return t == BillTypeLoan || t == BillTypeEMI
}

// Bill - регулярный платеж или кредитное обязательство.
// RemainingAmount заполняется только для loan/emi.
type Bill struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"user_id" db:"user_id"`
	Name            string          `json:"name" db:"name"`
	Type            BillType        `json:"type" db:"type"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount" db:"remaining_amount"`
	DueDate         time.Time       `json:"due_date" db:"due_date"`
	IsPaid          bool            `json:"is_paid" db:"is_paid"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

type CreateBillRequest struct {
	Name            string          `json:"name" validate:"required,max=100"`
	Type            BillType        `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	DueDate         string          `json:"due_date"` // YYYY-MM-DD
}

func (r *CreateBillRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !r.Type.Valid() {
		return fmt.Errorf("unknown bill type: %s", r.Type)
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive")
	}
	if r.RemainingAmount.IsNegative() {
		return fmt.Errorf("remaining amount cannot be negative")
	}
	if _, err := time.Parse("2006-01-02", r.DueDate); err != nil {
		return fmt.Errorf("invalid due date format (use YYYY-MM-DD)")
	}
	return nil
}
