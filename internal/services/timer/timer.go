// Package services содержит бизнес-логику учета рабочего времени:
// старт/стоп/перерывы и отчеты по закрытым сессиям.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// DefaultBreakMinutes — длительность перерыва, если она не указана в запросе.
const DefaultBreakMinutes = 15

// SessionRepository определяет методы для работы с рабочими сессиями в хранилище.
type SessionRepository interface {
	// CreateSession открывает новую рабочую сессию сотрудника.
	CreateSession(ctx context.Context, employeeID int, startAt time.Time) (*models.WorkSession, error)
	// FindActiveSession возвращает открытую сессию сотрудника или errs.ErrNotFound.
	FindActiveSession(ctx context.Context, employeeID int) (*models.WorkSession, error)
	// AddSessionBreak накапливает минуты перерыва в открытой сессии.
	AddSessionBreak(ctx context.Context, sessionID, minutes int) (int, error)
	// CloseSession закрывает сессию, фиксируя конец и итоговую длительность.
	CloseSession(ctx context.Context, sessionID int, endAt time.Time, durationMinutes int) (*models.WorkSession, error)
	// ListClosedSessions возвращает закрытые сессии за интервал, новые первыми.
	ListClosedSessions(ctx context.Context, employeeID int, from, to time.Time) ([]*models.WorkSession, error)
}

// TimerService реализует машину состояний таймера: на сотрудника приходится
// не более одной открытой сессии. Проверка перед вставкой — только быстрый
// путь; настоящей гарантией служит частичный уникальный индекс в базе.
type TimerService struct {
	repo SessionRepository
	log  *slog.Logger
}

// NewTimerService создает новый экземпляр TimerService.
func NewTimerService(repo SessionRepository, log *slog.Logger) *TimerService {
	return &TimerService{
		repo: repo,
		log:  log,
	}
}

// Start открывает новую сессию. Если сессия уже открыта — errs.ErrConflict.
func (s *TimerService) Start(ctx context.Context, employeeID int) (*models.WorkSession, error) {
	active, err := s.repo.FindActiveSession(ctx, employeeID)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if active != nil {
		return nil, fmt.Errorf("таймер уже запущен: %w", errs.ErrConflict)
	}

	session, err := s.repo.CreateSession(ctx, employeeID, time.Now())
	if err != nil {
		return nil, err
	}
	s.log.Info("started work session",
		slog.Int("employee_id", employeeID), slog.Int("session_id", session.ID))
	return session, nil
}

// Break добавляет перерыв к открытой сессии. При minutes <= 0 используется
// значение по умолчанию. Без открытой сессии — errs.ErrNotFound.
func (s *TimerService) Break(ctx context.Context, employeeID, minutes int) (*models.WorkSession, error) {
	if minutes <= 0 {
		minutes = DefaultBreakMinutes
	}
	session, err := s.repo.FindActiveSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("нет активной сессии: %w", errs.ErrNotFound)
		}
		return nil, err
	}

	total, err := s.repo.AddSessionBreak(ctx, session.ID, minutes)
	if err != nil {
		return nil, err
	}
	session.BreakDuration = total
	s.log.Info("added break to work session",
		slog.Int("session_id", session.ID), slog.Int("minutes", minutes))
	return session, nil
}

// Stop закрывает открытую сессию. Итоговая длительность — прошедшее время
// за вычетом перерывов, округленное вниз до минуты; при перерывах дольше
// самой сессии значение уходит в минус. Без открытой сессии — errs.ErrNotFound.
func (s *TimerService) Stop(ctx context.Context, employeeID int) (*models.WorkSession, error) {
	session, err := s.repo.FindActiveSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("нет активной сессии: %w", errs.ErrNotFound)
		}
		return nil, err
	}

	endAt := time.Now()
	duration := workedMinutes(session.StartAt, endAt, session.BreakDuration)
	closed, err := s.repo.CloseSession(ctx, session.ID, endAt, duration)
	if err != nil {
		return nil, err
	}
	s.log.Info("stopped work session",
		slog.Int("session_id", closed.ID), slog.Int("duration_minutes", duration))
	return closed, nil
}

// Current возвращает состояние таймера без изменения данных. Для открытой
// сессии длительность считается той же формулой на момент вызова.
func (s *TimerService) Current(ctx context.Context, employeeID int) (*models.CurrentSession, error) {
	session, err := s.repo.FindActiveSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return &models.CurrentSession{Active: false}, nil
		}
		return nil, err
	}

	minutes := workedMinutes(session.StartAt, time.Now(), session.BreakDuration)
	return &models.CurrentSession{
		Active:                 true,
		Session:                session,
		CurrentDurationMinutes: minutes,
		CurrentDurationHours:   round2(float64(minutes) / 60),
	}, nil
}

// Report агрегирует закрытые сессии, начавшиеся в интервале [from, to].
// Без явных дат окно — последние 7 дней, для period=month — 30.
func (s *TimerService) Report(ctx context.Context, employeeID int, period string, from, to *time.Time) (*models.TimerReport, error) {
	now := time.Now()
	dateTo := now
	if to != nil {
		dateTo = *to
	}
	var dateFrom time.Time
	switch {
	case from != nil:
		dateFrom = *from
	case period == "month":
		dateFrom = now.AddDate(0, 0, -30)
	default:
		dateFrom = now.AddDate(0, 0, -7)
	}

	sessions, err := s.repo.ListClosedSessions(ctx, employeeID, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	var stats models.TimerStats
	stats.TotalSessions = len(sessions)
	for _, ws := range sessions {
		stats.TotalMinutes += ws.DurationMinutes
		stats.TotalBreakMinutes += ws.BreakDuration
	}
	stats.TotalHours = round2(float64(stats.TotalMinutes) / 60)
	stats.TotalBreakHours = round2(float64(stats.TotalBreakMinutes) / 60)
	if stats.TotalSessions > 0 {
		stats.AverageSessionHours = round2(float64(stats.TotalMinutes) / 60 / float64(stats.TotalSessions))
	}

	return &models.TimerReport{
		EmployeeID: employeeID,
		From:       dateFrom,
		To:         dateTo,
		Statistics: stats,
		Sessions:   sessions,
	}, nil
}

// workedMinutes считает отработанные минуты: floor((elapsed_ms −
// break·60000)/60000). Округление всегда вниз, в том числе для
// отрицательных значений.
func workedMinutes(startAt, endAt time.Time, breakMinutes int) int {
	ms := endAt.Sub(startAt).Milliseconds() - int64(breakMinutes)*60000
	return int(floorDiv(ms, 60000))
}

// floorDiv делит с округлением к минус бесконечности, а не к нулю.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
