package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet - кошелек с балансом в определенной валюте.
// Балансы всех кошельков, приведенные к базовой валюте, образуют
// агрегат ликвидности для расчета финансового рейтинга.
type Wallet struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Name      string          `json:"name" db:"name"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	Currency  string          `json:"currency" db:"currency"` // ISO 4217, например INR
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateWalletRequest struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

func (r *CreateWalletRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Balance.IsNegative() {
		return fmt.Errorf("balance cannot be negative")
	}
	if len(r.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter ISO code")
	}
	return nil
}
