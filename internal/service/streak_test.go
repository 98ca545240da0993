package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow-api/internal/insight"
	"cashflow-api/internal/model"
)

// fakeStreakStore имитирует хранилище серий и позволяет задавать
// конфликты конкурентного обновления
type fakeStreakStore struct {
	streak          *model.Streak
	updateConflicts int
	createConflict  *model.Streak

	createCalls int
	updateCalls int
}

func (f *fakeStreakStore) GetByUser(_ context.Context, _ uuid.UUID) (*model.Streak, error) {
	if f.streak == nil {
		return nil, nil
	}
	copied := *f.streak
	return &copied, nil
}

func (f *fakeStreakStore) Create(_ context.Context, streak *model.Streak) error {
	f.createCalls++
	if f.createConflict != nil {
		// Конкурирующая запись успела появиться первой
		f.streak = f.createConflict
		f.createConflict = nil
		return insight.ErrConcurrentUpdate
	}
	f.streak = streak
	return nil
}

func (f *fakeStreakStore) UpdateConditional(_ context.Context, streak *model.Streak, _ *time.Time) error {
	f.updateCalls++
	if f.updateConflicts > 0 {
		f.updateConflicts--
		return insight.ErrConcurrentUpdate
	}
	f.streak = streak
	return nil
}

func (f *fakeStreakStore) AddPoints(_ context.Context, _ uuid.UUID, points int) error {
	if f.streak != nil {
		f.streak.TotalPoints += points
	}
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func dayPtr(t time.Time) *time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &day
}

func TestStreakTrackFirstActivity(t *testing.T) {
	store := &fakeStreakStore{}
	svc := NewStreakService(store, quietLogger())

	streak, err := svc.Track(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)
	assert.Equal(t, 10, streak.TotalPoints)
	assert.Equal(t, 1, store.createCalls)
}

func TestStreakTrackConsecutiveDay(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	store := &fakeStreakStore{
		streak: &model.Streak{
			UserID:           userID,
			CurrentStreak:    3,
			LongestStreak:    5,
			TotalPoints:      100,
			LastActivityDate: dayPtr(now.AddDate(0, 0, -1)),
		},
	}
	svc := NewStreakService(store, quietLogger())

	streak, err := svc.Track(context.Background(), userID, now)
	require.NoError(t, err)

	assert.Equal(t, 4, streak.CurrentStreak)
	assert.Equal(t, 5, streak.LongestStreak)
	assert.Equal(t, 140, streak.TotalPoints)
}

func TestStreakTrackSameDayNoWrite(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	store := &fakeStreakStore{
		streak: &model.Streak{
			UserID:           userID,
			CurrentStreak:    2,
			LongestStreak:    2,
			TotalPoints:      30,
			LastActivityDate: dayPtr(now),
		},
	}
	svc := NewStreakService(store, quietLogger())

	streak, err := svc.Track(context.Background(), userID, now)
	require.NoError(t, err)

	assert.Equal(t, 2, streak.CurrentStreak)
	assert.Equal(t, 0, store.updateCalls)
}

func TestStreakTrackRetriesAfterConflict(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	store := &fakeStreakStore{
		streak: &model.Streak{
			UserID:           userID,
			CurrentStreak:    1,
			LongestStreak:    1,
			TotalPoints:      10,
			LastActivityDate: dayPtr(now.AddDate(0, 0, -1)),
		},
		updateConflicts: 1,
	}
	svc := NewStreakService(store, quietLogger())

	streak, err := svc.Track(context.Background(), userID, now)
	require.NoError(t, err)

	// Первый проход упирается в конкурентное изменение, второй проходит
	assert.Equal(t, 2, store.updateCalls)
	assert.Equal(t, 2, streak.CurrentStreak)
}

func TestStreakTrackConflictsExhaustRetries(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	store := &fakeStreakStore{
		streak: &model.Streak{
			UserID:           userID,
			CurrentStreak:    1,
			LongestStreak:    1,
			TotalPoints:      10,
			LastActivityDate: dayPtr(now.AddDate(0, 0, -1)),
		},
		updateConflicts: maxStreakRetries,
	}
	svc := NewStreakService(store, quietLogger())

	_, err := svc.Track(context.Background(), userID, now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, insight.ErrConcurrentUpdate))
	assert.Equal(t, maxStreakRetries, store.updateCalls)
}

func TestStreakTrackCreateRaceFoldsIntoRetry(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	competing := &model.Streak{
		UserID:           userID,
		CurrentStreak:    1,
		LongestStreak:    1,
		TotalPoints:      10,
		LastActivityDate: dayPtr(now),
	}
	store := &fakeStreakStore{createConflict: competing}
	svc := NewStreakService(store, quietLogger())

	streak, err := svc.Track(context.Background(), userID, now)
	require.NoError(t, err)

	// Вставка проиграла гонку, повтор читает чужую запись того же дня
	assert.Equal(t, 1, store.createCalls)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 10, streak.TotalPoints)
}
