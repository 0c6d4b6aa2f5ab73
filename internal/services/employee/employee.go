// Package services содержит бизнес-логику административного управления
// сотрудниками: CRUD и сводка активности.
package services

import (
	"context"
	"log/slog"
	"math"

	"github.com/magabrotheeeer/olympiad-crm/internal/lib/password"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// EmployeeRepository определяет методы для работы с сотрудниками в хранилище.
type EmployeeRepository interface {
	// CreateEmployee сохраняет нового сотрудника и возвращает его ID.
	CreateEmployee(ctx context.Context, e models.Employee) (int, error)
	// GetEmployeeByID возвращает сотрудника по ID.
	GetEmployeeByID(ctx context.Context, id int) (*models.Employee, error)
	// ListEmployees возвращает сотрудников по фильтру.
	ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, error)
	// UpdateEmployee перезаписывает изменяемые поля сотрудника.
	UpdateEmployee(ctx context.Context, e models.Employee) error
	// DeleteEmployee удаляет сотрудника по ID.
	DeleteEmployee(ctx context.Context, id int) error
	// CountClientsByManager возвращает количество клиентов менеджера.
	CountClientsByManager(ctx context.Context, managerID int) (int, error)
	// SumClosedSessions возвращает количество и суммарные минуты закрытых сессий.
	SumClosedSessions(ctx context.Context, employeeID int) (int, int, error)
	// ListRecentClosedSessions возвращает последние закрытые сессии.
	ListRecentClosedSessions(ctx context.Context, employeeID, limit int) ([]*models.WorkSession, error)
}

// EmployeeService реализует административные операции над сотрудниками.
type EmployeeService struct {
	repo EmployeeRepository
	log  *slog.Logger
}

// NewEmployeeService создает новый экземпляр EmployeeService.
func NewEmployeeService(repo EmployeeRepository, log *slog.Logger) *EmployeeService {
	return &EmployeeService{
		repo: repo,
		log:  log,
	}
}

// Create создает сотрудника с хэшированием пароля. Роль по умолчанию
// manager, статус active. Занятый email дает errs.ErrConflict.
func (s *EmployeeService) Create(ctx context.Context, req models.DummyEmployee) (*models.Employee, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, err
	}
	employee := models.Employee{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hashed,
		Phone:        req.Phone,
		Role:         req.Role,
		Status:       req.Status,
	}
	if employee.Role == "" {
		employee.Role = models.RoleManager
	}
	if employee.Status == "" {
		employee.Status = models.EmployeeStatusActive
	}

	id, err := s.repo.CreateEmployee(ctx, employee)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new employee", slog.Int("id", id))
	return s.repo.GetEmployeeByID(ctx, id)
}

// Read возвращает сотрудника по ID.
func (s *EmployeeService) Read(ctx context.Context, id int) (*models.Employee, error) {
	return s.repo.GetEmployeeByID(ctx, id)
}

// List возвращает сотрудников по фильтру.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, error) {
	return s.repo.ListEmployees(ctx, filter)
}

// Update применяет частичное обновление: отсутствующие поля не трогаются,
// переданный пароль хэшируется заново.
func (s *EmployeeService) Update(ctx context.Context, id int, patch models.UpdateEmployee) (*models.Employee, error) {
	employee, err := s.repo.GetEmployeeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		employee.FullName = *patch.FullName
	}
	if patch.Email != nil {
		employee.Email = *patch.Email
	}
	if patch.Password != nil {
		hashed, err := password.GetHash(*patch.Password)
		if err != nil {
			return nil, err
		}
		employee.PasswordHash = hashed
	}
	if patch.Phone != nil {
		employee.Phone = *patch.Phone
	}
	if patch.Role != nil {
		employee.Role = *patch.Role
	}
	if patch.Status != nil {
		employee.Status = *patch.Status
	}

	if err := s.repo.UpdateEmployee(ctx, *employee); err != nil {
		return nil, err
	}
	s.log.Info("updated employee", slog.Int("id", id))
	return s.repo.GetEmployeeByID(ctx, id)
}

// Delete удаляет сотрудника. Его рабочие сессии удаляются каскадом,
// клиенты и журнальные записи теряют ссылку (SET NULL) на уровне схемы.
func (s *EmployeeService) Delete(ctx context.Context, id int) error {
	return s.repo.DeleteEmployee(ctx, id)
}

// Activity возвращает сводку активности сотрудника: клиенты в работе,
// закрытые сессии, суммарные часы и последние сессии.
func (s *EmployeeService) Activity(ctx context.Context, id int) (*models.EmployeeActivity, error) {
	if _, err := s.repo.GetEmployeeByID(ctx, id); err != nil {
		return nil, err
	}

	clientsCount, err := s.repo.CountClientsByManager(ctx, id)
	if err != nil {
		return nil, err
	}
	sessionsCount, totalMinutes, err := s.repo.SumClosedSessions(ctx, id)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.ListRecentClosedSessions(ctx, id, 10)
	if err != nil {
		return nil, err
	}

	return &models.EmployeeActivity{
		EmployeeID:     id,
		ClientsCount:   clientsCount,
		SessionsCount:  sessionsCount,
		TotalWorkHours: math.Round(float64(totalMinutes)/60*100) / 100,
		RecentSessions: recent,
	}, nil
}
