package models

import "time"

// Статусы напоминания о звонке.
const (
	ReminderStatusPending   = "pending"
	ReminderStatusCompleted = "completed"
	ReminderStatusCancelled = "cancelled"
)

// CallReminder — запланированный звонок клиенту. NotifiedAt проставляется
// планировщиком уведомлений, чтобы не публиковать напоминание повторно.
type CallReminder struct {
	ID           int        `json:"id"`
	ClientID     int        `json:"client_id"`
	ManagerID    int        `json:"manager_id"`
	ReminderDate time.Time  `json:"reminder_date"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	NotifiedAt   *time.Time `json:"notified_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	// Данные для отображения и для письма-уведомления.
	ClientName   string `json:"client_name,omitempty"`
	ClientPhone  string `json:"client_phone,omitempty"`
	ManagerName  string `json:"manager_name,omitempty"`
	ManagerEmail string `json:"manager_email,omitempty"`
}

// DummyReminder — тело запроса на создание напоминания. Дата приходит
// строкой в формате RFC3339 либо 2006-01-02.
type DummyReminder struct {
	ClientID     int    `json:"client_id" validate:"required,gt=0"`
	ReminderDate string `json:"reminder_date" validate:"required"`
	Description  string `json:"description,omitempty"`
}

// UpdateReminder — частичное обновление напоминания.
type UpdateReminder struct {
	ReminderDate *string `json:"reminder_date,omitempty"`
	Description  *string `json:"description,omitempty"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=pending completed cancelled"`
}

// ReminderFilter — параметры фильтрации списка напоминаний.
type ReminderFilter struct {
	ManagerID *int
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
}
