package insight

import "time"

// StreakState - состояние серии последовательных дней активности.
// Нулевая LastActivity означает отсутствие предыдущей активности.
type StreakState struct {
	CurrentStreak int
	LongestStreak int
	TotalPoints   int
	LastActivity  time.Time
}

const (
	basePoints = 10
)

// AdvanceStreak применяет переход конечного автомата серии к новому дню
// активности и возвращает новое состояние и признак изменения.
// Сравнение идет по календарным дням, время суток не учитывается.
// Активность задним числом (день раньше последней активности) считается
// повтором того же дня и не меняет состояние.
func AdvanceStreak(state StreakState, activity time.Time) (StreakState, bool) {
	activityDay := truncateToDay(activity)

	// Первая активность пользователя. Запись без даты последней
	// активности обрабатывается так же, как создание новой.
	if state.LastActivity.IsZero() {
		return StreakState{
			CurrentStreak: 1,
			LongestStreak: 1,
			TotalPoints:   basePoints,
			LastActivity:  activityDay,
		}, true
	}

	lastDay := truncateToDay(state.LastActivity)
	diffDays := int(activityDay.Sub(lastDay).Hours() / 24)

	switch {
	case diffDays <= 0:
		// Тот же день или активность задним числом - без изменений
		return state, false
	case diffDays == 1:
		// Последовательный день - серия растет, баллы пропорциональны длине
		next := state
		next.CurrentStreak++
		next.TotalPoints += next.CurrentStreak * basePoints
		if next.CurrentStreak > next.LongestStreak {
			next.LongestStreak = next.CurrentStreak
		}
		next.LastActivity = activityDay
		return next, true
	default:
		// Пропуск дней - серия обнуляется, LongestStreak сохраняется
		next := state
		next.CurrentStreak = 1
		next.TotalPoints += basePoints
		next.LastActivity = activityDay
		return next, true
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
