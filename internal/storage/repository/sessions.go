package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

func scanSession(row interface{ Scan(...any) error }) (*models.WorkSession, error) {
	ws := &models.WorkSession{}
	var endAt sql.NullTime
	var notes sql.NullString
	if err := row.Scan(&ws.ID, &ws.EmployeeID, &ws.StartAt, &endAt,
		&ws.BreakDuration, &ws.DurationMinutes, &notes, &ws.CreatedAt); err != nil {
		return nil, err
	}
	if endAt.Valid {
		ws.EndAt = &endAt.Time
	}
	ws.Notes = notes.String
	return ws, nil
}

const sessionColumns = `id, employee_id, start_at, end_at, break_duration,
			      duration_minutes, notes, created_at`

// CreateSession открывает новую рабочую сессию сотрудника. Частичный
// уникальный индекс (employee_id WHERE end_at IS NULL) гарантирует не более
// одной открытой сессии: гонка двух стартов приводит к errs.ErrConflict.
func (s *Storage) CreateSession(ctx context.Context, employeeID int, startAt time.Time) (*models.WorkSession, error) {
	const op = "storage.CreateSession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO work_sessions (employee_id, start_at, break_duration, duration_minutes)
			  VALUES ($1, $2, 0, 0)
			  RETURNING ` + sessionColumns
	ws, err := scanSession(s.DB.QueryRowContext(ctx, query, employeeID, startAt))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return ws, nil
}

// FindActiveSession возвращает открытую сессию сотрудника
// или errs.ErrNotFound, если её нет.
func (s *Storage) FindActiveSession(ctx context.Context, employeeID int) (*models.WorkSession, error) {
	const op = "storage.FindActiveSession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sessionColumns + `
		      FROM work_sessions
		      WHERE employee_id = $1 AND end_at IS NULL
		      ORDER BY start_at DESC
		      LIMIT 1`
	ws, err := scanSession(s.DB.QueryRowContext(ctx, query, employeeID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return ws, nil
}

// AddSessionBreak накапливает минуты перерыва в открытой сессии.
func (s *Storage) AddSessionBreak(ctx context.Context, sessionID, minutes int) (int, error) {
	const op = "storage.AddSessionBreak"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE work_sessions
			  SET break_duration = break_duration + $1
			  WHERE id = $2 AND end_at IS NULL
			  RETURNING break_duration`
	var total int
	if err := s.DB.QueryRowContext(ctx, query, minutes, sessionID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return total, nil
}

// CloseSession закрывает сессию, фиксируя конец и итоговую длительность.
// Закрытая сессия неизменяема: условие end_at IS NULL исключает повторное
// закрытие.
func (s *Storage) CloseSession(ctx context.Context, sessionID int, endAt time.Time, durationMinutes int) (*models.WorkSession, error) {
	const op = "storage.CloseSession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE work_sessions
			  SET end_at = $1, duration_minutes = $2
			  WHERE id = $3 AND end_at IS NULL
			  RETURNING ` + sessionColumns
	ws, err := scanSession(s.DB.QueryRowContext(ctx, query, endAt, durationMinutes, sessionID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return ws, nil
}

// ListClosedSessions возвращает закрытые сессии сотрудника, начавшиеся
// в интервале [from, to], новые первыми.
func (s *Storage) ListClosedSessions(ctx context.Context, employeeID int, from, to time.Time) ([]*models.WorkSession, error) {
	const op = "storage.ListClosedSessions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sessionColumns + `
		      FROM work_sessions
		      WHERE employee_id = $1
		        AND end_at IS NOT NULL
		        AND start_at BETWEEN $2 AND $3
		      ORDER BY start_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.WorkSession
	for rows.Next() {
		ws, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, ws)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SumClosedSessions возвращает количество закрытых сессий сотрудника
// и суммарную длительность в минутах за все время.
func (s *Storage) SumClosedSessions(ctx context.Context, employeeID int) (int, int, error) {
	const op = "storage.SumClosedSessions"
	select {
	case <-ctx.Done():
		return 0, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*), COALESCE(SUM(duration_minutes), 0)
		      FROM work_sessions
		      WHERE employee_id = $1 AND end_at IS NOT NULL`
	var count, minutes int
	if err := s.DB.QueryRowContext(ctx, query, employeeID).Scan(&count, &minutes); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, minutes, nil
}

// ListRecentClosedSessions возвращает последние закрытые сессии сотрудника.
func (s *Storage) ListRecentClosedSessions(ctx context.Context, employeeID, limit int) ([]*models.WorkSession, error) {
	const op = "storage.ListRecentClosedSessions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sessionColumns + `
		      FROM work_sessions
		      WHERE employee_id = $1 AND end_at IS NOT NULL
		      ORDER BY start_at DESC
		      LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.WorkSession
	for rows.Next() {
		ws, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, ws)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
