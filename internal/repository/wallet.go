package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/model"
)

type WalletRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewWalletRepository(db *sql.DB, logger *logrus.Logger) *WalletRepository {
	return &WalletRepository{db: db, logger: logger}
}

func (r *WalletRepository) Create(ctx context.Context, wallet *model.Wallet) error {
	r.logger.WithFields(logrus.Fields{
		"wallet_id": wallet.ID,
		"user_id":   wallet.UserID,
		"name":      wallet.Name,
		"currency":  wallet.Currency,
	}).Info("Создание нового кошелька")

	query := `
		INSERT INTO wallets (id, user_id, name, balance, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		wallet.ID,
		wallet.UserID,
		wallet.Name,
		wallet.Balance,
		wallet.Currency,
		wallet.CreatedAt,
		wallet.UpdatedAt,
	)

	if err != nil {
		r.logger.WithError(err).Error("Ошибка при создании кошелька")
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

// ListByUser возвращает кошельки пользователя
func (r *WalletRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Wallet, error) {
	const query = `SELECT id, user_id, name, balance, currency, created_at, updated_at
	              FROM wallets
	              WHERE user_id = $1
	              ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса кошельков")
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []model.Wallet
	for rows.Next() {
		var w model.Wallet
		if err := rows.Scan(
			&w.ID,
			&w.UserID,
			&w.Name,
			&w.Balance,
			&w.Currency,
			&w.CreatedAt,
			&w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallets: %w", err)
	}

	return wallets, nil
}
