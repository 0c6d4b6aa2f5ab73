package models

import "time"

// WorkSession — интервал рабочего времени сотрудника. Открытая сессия имеет
// EndAt == nil; на одного сотрудника может приходиться не более одной
// открытой сессии (частичный уникальный индекс в базе). BreakDuration —
// накопленные минуты перерывов. DurationMinutes заполняется при закрытии:
// floor((EndAt-StartAt в мс - BreakDuration*60000)/60000), может быть
// отрицательным, если перерывы превысили время сессии.
type WorkSession struct {
	ID              int        `json:"id"`
	EmployeeID      int        `json:"employee_id"`
	StartAt         time.Time  `json:"start_at"`
	EndAt           *time.Time `json:"end_at,omitempty"`
	BreakDuration   int        `json:"break_duration"`
	DurationMinutes int        `json:"duration_minutes"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CurrentSession — ответ на запрос текущей сессии: живая длительность
// считается на момент вызова без изменения состояния.
type CurrentSession struct {
	Active                 bool         `json:"active"`
	Session                *WorkSession `json:"session,omitempty"`
	CurrentDurationMinutes int          `json:"current_duration_minutes,omitempty"`
	CurrentDurationHours   float64      `json:"current_duration_hours,omitempty"`
}

// TimerReport — агрегат по закрытым сессиям за период.
type TimerReport struct {
	EmployeeID int            `json:"employee_id"`
	From       time.Time      `json:"from"`
	To         time.Time      `json:"to"`
	Statistics TimerStats     `json:"statistics"`
	Sessions   []*WorkSession `json:"sessions"`
}

// TimerStats — статистика отчета по рабочему времени.
type TimerStats struct {
	TotalSessions       int     `json:"total_sessions"`
	TotalMinutes        int     `json:"total_minutes"`
	TotalHours          float64 `json:"total_hours"`
	TotalBreakMinutes   int     `json:"total_break_minutes"`
	TotalBreakHours     float64 `json:"total_break_hours"`
	AverageSessionHours float64 `json:"average_session_hours"`
}
