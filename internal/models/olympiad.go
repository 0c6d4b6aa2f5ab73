package models

import "time"

// Предметы олимпиад. Закрытый список из девяти значений.
const (
	SubjectMathematics     = "mathematics"
	SubjectPhysics         = "physics"
	SubjectChemistry       = "chemistry"
	SubjectComputerScience = "computer_science"
	SubjectEnglish         = "english"
	SubjectRussian         = "russian"
	SubjectHistory         = "history"
	SubjectBiology         = "biology"
	SubjectOther           = "other"
)

// Статусы олимпиады.
const (
	OlympiadStatusPlanned   = "planned"
	OlympiadStatusActive    = "active"
	OlympiadStatusCompleted = "completed"
	OlympiadStatusCancelled = "cancelled"
)

// Форматы проведения.
const (
	FormatOnline  = "online"
	FormatOffline = "offline"
)

// Olympiad — олимпиадное мероприятие.
type Olympiad struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Subject     string    `json:"subject"`
	Date        time.Time `json:"date"`
	Format      string    `json:"format"`
	Price       float64   `json:"price"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DummyOlympiad используется для приёма данных при создании олимпиады.
// Дата приходит строкой в формате RFC3339 либо 2006-01-02.
type DummyOlympiad struct {
	Name        string  `json:"name" validate:"required"`
	Subject     string  `json:"subject" validate:"required,oneof=mathematics physics chemistry computer_science english russian history biology other"`
	Date        string  `json:"date" validate:"required"`
	Format      string  `json:"format,omitempty" validate:"omitempty,oneof=online offline"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Location    string  `json:"location,omitempty"`
	Description string  `json:"description,omitempty"`
}

// UpdateOlympiad — частичное обновление олимпиады.
type UpdateOlympiad struct {
	Name        *string  `json:"name,omitempty"`
	Subject     *string  `json:"subject,omitempty" validate:"omitempty,oneof=mathematics physics chemistry computer_science english russian history biology other"`
	Date        *string  `json:"date,omitempty"`
	Format      *string  `json:"format,omitempty" validate:"omitempty,oneof=online offline"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Location    *string  `json:"location,omitempty"`
	Description *string  `json:"description,omitempty"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=planned active completed cancelled"`
}

// OlympiadFilter — параметры фильтрации и пагинации списка олимпиад.
type OlympiadFilter struct {
	Subject  string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

// OlympiadPage — страница списка олимпиад.
type OlympiadPage struct {
	Olympiads  []*Olympiad `json:"olympiads"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}
