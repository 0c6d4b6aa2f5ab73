// Package models содержит доменные структуры CRM: сотрудники, клиенты,
// история изменений, рабочие сессии, олимпиады, регистрации и напоминания,
// а также вспомогательные структуры для приёма данных из JSON-запросов.
package models

import "time"

// Роли сотрудников. Закрытый список, проверяется валидатором и матрицей прав.
const (
	RoleDirector     = "director"
	RoleViceDirector = "vice_director"
	RoleManager      = "manager"
	RoleMarketer     = "marketer"
	RoleProgrammer   = "programmer"
)

// Статусы сотрудников.
const (
	EmployeeStatusActive   = "active"
	EmployeeStatusInactive = "inactive"
	EmployeeStatusOnLeave  = "on_leave"
)

// Employee представляет сотрудника компании.
// PasswordHash никогда не отдается наружу.
type Employee struct {
	ID           int       `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	HireDate     time.Time `json:"hire_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DummyEmployee используется для приёма данных при создании сотрудника.
type DummyEmployee struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone,omitempty" validate:"omitempty"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=director vice_director manager marketer programmer"`
	Status   string `json:"status,omitempty" validate:"omitempty,oneof=active inactive on_leave"`
}

// UpdateEmployee — частичное обновление сотрудника. Поля-указатели:
// nil означает «поле не передано, не трогать».
type UpdateEmployee struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=director vice_director manager marketer programmer"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive on_leave"`
}

// UpdateProfile — обновление собственного профиля сотрудником.
// Роль и статус через профиль менять нельзя.
type UpdateProfile struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty"`
}

// ChangePassword — смена пароля с проверкой текущего.
type ChangePassword struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// EmployeeFilter — параметры фильтрации списка сотрудников.
type EmployeeFilter struct {
	Role   string
	Status string
	Search string
}

// EmployeeActivity — сводка активности сотрудника: количество клиентов,
// количество закрытых сессий и суммарные часы работы.
type EmployeeActivity struct {
	EmployeeID     int            `json:"employee_id"`
	ClientsCount   int            `json:"clients_count"`
	SessionsCount  int            `json:"work_sessions_count"`
	TotalWorkHours float64        `json:"total_work_hours"`
	RecentSessions []*WorkSession `json:"recent_sessions"`
}
