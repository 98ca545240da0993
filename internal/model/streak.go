package model

import (
	"time"

	"github.com/google/uuid"
)

// Streak - состояние серии активности и накопленных баллов.
// Одна запись на пользователя, создается лениво при первом действии.
type Streak struct {
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	CurrentStreak    int        `json:"current_streak" db:"current_streak"`
	LongestStreak    int        `json:"longest_streak" db:"longest_streak"`
	TotalPoints      int        `json:"total_points" db:"total_points"`
	LastActivityDate *time.Time `json:"last_activity_date" db:"last_activity_date"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}
