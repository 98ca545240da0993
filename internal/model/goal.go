package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusCancelled GoalStatus = "cancelled"
)

// Goal - накопительная цель с дедлайном
type Goal struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	Title         string          `json:"title" db:"title"`
	TargetAmount  decimal.Decimal `json:"target_amount" db:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount" db:"current_amount"`
	Deadline      time.Time       `json:"deadline" db:"deadline"`
	Status        GoalStatus      `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateGoalRequest struct {
	Title        string          `json:"title" validate:"required,max=100"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	Deadline     string          `json:"deadline"` // YYYY-MM-DD
}

func (r *CreateGoalRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("target amount must be positive")
	}
	deadline, err := time.Parse("2006-01-02", r.Deadline)
	if err != nil {
		return fmt.Errorf("invalid deadline format (use YYYY-MM-DD)")
	}
	if !deadline.After(time.Now()) {
		return fmt.Errorf("deadline must be in the future")
	}
	return nil
}

// AddProgressRequest - пополнение цели
type AddProgressRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r *AddProgressRequest) Validate() error {
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}
