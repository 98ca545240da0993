package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(yearDay int) time.Time {
	return time.Date(2026, 1, 1, 15, 30, 0, 0, time.UTC).AddDate(0, 0, yearDay-1)
}

func TestAdvanceStreakFirstActivity(t *testing.T) {
	next, changed := AdvanceStreak(StreakState{}, day(1))

	assert.True(t, changed)
	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 1, next.LongestStreak)
	assert.Equal(t, 10, next.TotalPoints)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), next.LastActivity)
}

func TestAdvanceStreakSameDayIsIdempotent(t *testing.T) {
	state, _ := AdvanceStreak(StreakState{}, day(1))

	// Вторая активность в тот же день, даже в другое время суток
	next, changed := AdvanceStreak(state, day(1).Add(5*time.Hour))
	assert.False(t, changed)
	assert.Equal(t, state, next)
}

func TestAdvanceStreakConsecutiveDays(t *testing.T) {
	state, _ := AdvanceStreak(StreakState{}, day(1))

	state, changed := AdvanceStreak(state, day(2))
	assert.True(t, changed)
	assert.Equal(t, 2, state.CurrentStreak)
	assert.Equal(t, 2, state.LongestStreak)
	assert.Equal(t, 30, state.TotalPoints) // 10 + 2*10

	state, changed = AdvanceStreak(state, day(3))
	assert.True(t, changed)
	assert.Equal(t, 3, state.CurrentStreak)
	assert.Equal(t, 60, state.TotalPoints) // 30 + 3*10
}

func TestAdvanceStreakBreakPreservesLongest(t *testing.T) {
	state, _ := AdvanceStreak(StreakState{}, day(1))
	state, _ = AdvanceStreak(state, day(2))
	state, _ = AdvanceStreak(state, day(3))

	// Пропуск двух дней обнуляет текущую серию, но не рекорд
	next, changed := AdvanceStreak(state, day(6))
	assert.True(t, changed)
	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 3, next.LongestStreak)
	assert.Equal(t, 70, next.TotalPoints) // 60 + базовые 10
}

func TestAdvanceStreakBackdatedActivityIsNoop(t *testing.T) {
	state, _ := AdvanceStreak(StreakState{}, day(5))

	next, changed := AdvanceStreak(state, day(3))
	assert.False(t, changed)
	assert.Equal(t, state, next)
}

func TestAdvanceStreakResumeAfterBreak(t *testing.T) {
	state, _ := AdvanceStreak(StreakState{}, day(1))
	state, _ = AdvanceStreak(state, day(4)) // разрыв

	state, _ = AdvanceStreak(state, day(5))
	assert.Equal(t, 2, state.CurrentStreak)
	assert.Equal(t, 2, state.LongestStreak)
	assert.Equal(t, 40, state.TotalPoints) // 10 + 10 + 2*10
}
