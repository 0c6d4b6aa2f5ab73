package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

type SessionRepoMock struct{ mock.Mock }

func (m *SessionRepoMock) CreateSession(ctx context.Context, employeeID int, startAt time.Time) (*models.WorkSession, error) {
	args := m.Called(ctx, employeeID, startAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkSession), args.Error(1)
}
func (m *SessionRepoMock) FindActiveSession(ctx context.Context, employeeID int) (*models.WorkSession, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkSession), args.Error(1)
}
func (m *SessionRepoMock) AddSessionBreak(ctx context.Context, sessionID, minutes int) (int, error) {
	args := m.Called(ctx, sessionID, minutes)
	return args.Int(0), args.Error(1)
}
func (m *SessionRepoMock) CloseSession(ctx context.Context, sessionID int, endAt time.Time, durationMinutes int) (*models.WorkSession, error) {
	args := m.Called(ctx, sessionID, endAt, durationMinutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkSession), args.Error(1)
}
func (m *SessionRepoMock) ListClosedSessions(ctx context.Context, employeeID int, from, to time.Time) ([]*models.WorkSession, error) {
	args := m.Called(ctx, employeeID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WorkSession), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestTimerService_Start(t *testing.T) {
	t.Run("opens session when none is active", func(t *testing.T) {
		repo := new(SessionRepoMock)
		repo.On("FindActiveSession", mock.Anything, 1).Return(nil, errs.ErrNotFound).Once()
		repo.On("CreateSession", mock.Anything, 1, mock.Anything).
			Return(&models.WorkSession{ID: 10, EmployeeID: 1}, nil).Once()

		svc := NewTimerService(repo, newNoopLogger())
		session, err := svc.Start(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, 10, session.ID)
		repo.AssertExpectations(t)
	})

	t.Run("second start conflicts while session is open", func(t *testing.T) {
		repo := new(SessionRepoMock)
		repo.On("FindActiveSession", mock.Anything, 1).
			Return(&models.WorkSession{ID: 10, EmployeeID: 1}, nil).Once()

		svc := NewTimerService(repo, newNoopLogger())
		_, err := svc.Start(context.Background(), 1)

		assert.ErrorIs(t, err, errs.ErrConflict)
		repo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTimerService_Break(t *testing.T) {
	tests := []struct {
		name        string
		requested   int
		wantMinutes int
	}{
		{name: "default break without explicit duration", requested: 0, wantMinutes: DefaultBreakMinutes},
		{name: "explicit break duration", requested: 10, wantMinutes: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(SessionRepoMock)
			repo.On("FindActiveSession", mock.Anything, 1).
				Return(&models.WorkSession{ID: 5, EmployeeID: 1, BreakDuration: 15}, nil).Once()
			repo.On("AddSessionBreak", mock.Anything, 5, tt.wantMinutes).
				Return(15+tt.wantMinutes, nil).Once()

			svc := NewTimerService(repo, newNoopLogger())
			session, err := svc.Break(context.Background(), 1, tt.requested)

			assert.NoError(t, err)
			assert.Equal(t, 15+tt.wantMinutes, session.BreakDuration)
			repo.AssertExpectations(t)
		})
	}

	t.Run("break without active session", func(t *testing.T) {
		repo := new(SessionRepoMock)
		repo.On("FindActiveSession", mock.Anything, 1).Return(nil, errs.ErrNotFound).Once()

		svc := NewTimerService(repo, newNoopLogger())
		_, err := svc.Break(context.Background(), 1, 10)

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestTimerService_Stop(t *testing.T) {
	t.Run("duration subtracts accumulated breaks", func(t *testing.T) {
		startAt := time.Now().Add(-2 * time.Hour)
		repo := new(SessionRepoMock)
		repo.On("FindActiveSession", mock.Anything, 1).
			Return(&models.WorkSession{ID: 5, EmployeeID: 1, StartAt: startAt, BreakDuration: 25}, nil).Once()
		repo.On("CloseSession", mock.Anything, 5, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				duration := args.Int(3)
				// 120 минут минус 25 минут перерывов, минус возможная
				// секунда на исполнение теста.
				assert.InDelta(t, 95, duration, 1)
			}).
			Return(&models.WorkSession{ID: 5, DurationMinutes: 95}, nil).Once()

		svc := NewTimerService(repo, newNoopLogger())
		closed, err := svc.Stop(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, 95, closed.DurationMinutes)
		repo.AssertExpectations(t)
	})

	t.Run("stop without active session", func(t *testing.T) {
		repo := new(SessionRepoMock)
		repo.On("FindActiveSession", mock.Anything, 1).Return(nil, errs.ErrNotFound).Once()

		svc := NewTimerService(repo, newNoopLogger())
		_, err := svc.Stop(context.Background(), 1)

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestTimerService_Current(t *testing.T) {
	t.Run("inactive timer", func(t *testing.T) {
		repo := new(SessionRepoMock)
		repo.On("FindActiveSession", mock.Anything, 1).Return(nil, errs.ErrNotFound).Once()

		svc := NewTimerService(repo, newNoopLogger())
		current, err := svc.Current(context.Background(), 1)

		assert.NoError(t, err)
		assert.False(t, current.Active)
		assert.Nil(t, current.Session)
	})

	t.Run("active timer reports live duration", func(t *testing.T) {
		startAt := time.Now().Add(-90 * time.Minute)
		repo := new(SessionRepoMock)
		repo.On("FindActiveSession", mock.Anything, 1).
			Return(&models.WorkSession{ID: 5, StartAt: startAt, BreakDuration: 30}, nil).Once()

		svc := NewTimerService(repo, newNoopLogger())
		current, err := svc.Current(context.Background(), 1)

		assert.NoError(t, err)
		assert.True(t, current.Active)
		assert.InDelta(t, 60, current.CurrentDurationMinutes, 1)
	})
}

func TestTimerService_Report(t *testing.T) {
	sessions := []*models.WorkSession{
		{ID: 1, DurationMinutes: 90, BreakDuration: 15},
		{ID: 2, DurationMinutes: 30, BreakDuration: 0},
	}

	tests := []struct {
		name     string
		period   string
		wantDays int
	}{
		{name: "default window is a week", period: "", wantDays: 7},
		{name: "month period widens the window", period: "month", wantDays: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(SessionRepoMock)
			repo.On("ListClosedSessions", mock.Anything, 1, mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) {
					from := args.Get(2).(time.Time)
					to := args.Get(3).(time.Time)
					assert.InDelta(t, float64(tt.wantDays), to.Sub(from).Hours()/24, 0.1)
				}).
				Return(sessions, nil).Once()

			svc := NewTimerService(repo, newNoopLogger())
			report, err := svc.Report(context.Background(), 1, tt.period, nil, nil)

			assert.NoError(t, err)
			assert.Equal(t, 2, report.Statistics.TotalSessions)
			assert.Equal(t, 120, report.Statistics.TotalMinutes)
			assert.Equal(t, 15, report.Statistics.TotalBreakMinutes)
			assert.InDelta(t, 2.0, report.Statistics.TotalHours, 0.001)
			assert.InDelta(t, 1.0, report.Statistics.AverageSessionHours, 0.001)
			repo.AssertExpectations(t)
		})
	}

	t.Run("explicit dates take precedence", func(t *testing.T) {
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

		repo := new(SessionRepoMock)
		repo.On("ListClosedSessions", mock.Anything, 1, from, to).
			Return([]*models.WorkSession{}, nil).Once()

		svc := NewTimerService(repo, newNoopLogger())
		report, err := svc.Report(context.Background(), 1, "month", &from, &to)

		assert.NoError(t, err)
		assert.Equal(t, 0, report.Statistics.TotalSessions)
		assert.Zero(t, report.Statistics.AverageSessionHours)
		repo.AssertExpectations(t)
	})
}

func TestWorkedMinutes(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		endAt        time.Time
		breakMinutes int
		want         int
	}{
		{name: "no break", endAt: start.Add(90 * time.Minute), breakMinutes: 0, want: 90},
		{name: "break subtracted", endAt: start.Add(90 * time.Minute), breakMinutes: 25, want: 65},
		{name: "partial minute rounds down", endAt: start.Add(90*time.Minute + 59*time.Second), breakMinutes: 0, want: 90},
		{name: "break longer than session goes negative", endAt: start.Add(10 * time.Minute), breakMinutes: 30, want: -20},
		{name: "negative value still floors down", endAt: start.Add(10*time.Minute + 30*time.Second), breakMinutes: 30, want: -20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, workedMinutes(start, tt.endAt, tt.breakMinutes))
		})
	}
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, int64(1), floorDiv(90000, 60000))
	assert.Equal(t, int64(-2), floorDiv(-90000, 60000))
	assert.Equal(t, int64(-1), floorDiv(-60000, 60000))
	assert.Equal(t, int64(0), floorDiv(59999, 60000))
}

func TestTimerService_StartRepoError(t *testing.T) {
	repo := new(SessionRepoMock)
	repo.On("FindActiveSession", mock.Anything, 1).Return(nil, errors.New("db down")).Once()

	svc := NewTimerService(repo, newNoopLogger())
	_, err := svc.Start(context.Background(), 1)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrConflict)
}
