// Package services содержит логику бизнес-уровня для аутентификации
// и работы с собственным аккаунтом сотрудника.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/jwt"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/password"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// EmployeeRepository описывает контракт для работы с сотрудниками в базе данных.
type EmployeeRepository interface {
	// CreateEmployee сохраняет нового сотрудника и возвращает его ID.
	CreateEmployee(ctx context.Context, e models.Employee) (int, error)

	// GetEmployeeByID возвращает сотрудника по ID или ошибку, если не найден.
	GetEmployeeByID(ctx context.Context, id int) (*models.Employee, error)

	// GetEmployeeByEmail возвращает сотрудника по email или ошибку, если не найден.
	GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)

	// UpdateEmployee перезаписывает изменяемые поля сотрудника.
	UpdateEmployee(ctx context.Context, e models.Employee) error
}

// AuthService отвечает за регистрацию, авторизацию и операции
// с собственным аккаунтом.
type AuthService struct {
	employees EmployeeRepository
	jwtMaker  jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(employees EmployeeRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		employees: employees,
		jwtMaker:  jwtMaker,
	}
}

// Register создает нового сотрудника с хэшированием пароля и сразу
// выпускает для него токен. Занятый email дает errs.ErrConflict.
func (s *AuthService) Register(ctx context.Context, req models.DummyEmployee) (string, *models.Employee, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", nil, err
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
		employee.Role = models.RoleManager // дефолтная роль при регистрации
	}
	if employee.Status == "" {
		employee.Status = models.EmployeeStatusActive
	}

	id, err := s.employees.CreateEmployee(ctx, employee)
	if err != nil {
		return "", nil, err
	}

	created, err := s.employees.GetEmployeeByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	token, err := s.jwtMaker.GenerateToken(created.ID, created.Email, created.Role)
	if err != nil {
		return "", nil, err
	}
	return token, created, nil
}

// Login проверяет email и пароль и выпускает JWT. Неизвестный email
// и неверный пароль дают одинаковую ошибку errs.ErrUnauthorized —
// причина отказа наружу не раскрывается.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.Employee, error) {
	employee, err := s.employees.GetEmployeeByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", nil, errs.ErrUnauthorized
		}
		return "", nil, err
	}
	if err := password.CompareHash(employee.PasswordHash, rawPassword); err != nil {
		return "", nil, errs.ErrUnauthorized
	}
	token, err := s.jwtMaker.GenerateToken(employee.ID, employee.Email, employee.Role)
	if err != nil {
		return "", nil, err
	}
	return token, employee, nil
}

// ValidateToken проверяет JWT, загружает сотрудника и требует статус active.
// Любая причина отказа дает одинаковый errs.ErrUnauthorized.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.Employee, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	employee, err := s.employees.GetEmployeeByID(ctx, claims.EmployeeID)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	if employee.Status != models.EmployeeStatusActive {
		return nil, errs.ErrUnauthorized
	}
	return employee, nil
}

// Me возвращает сотрудника по ID из токена.
func (s *AuthService) Me(ctx context.Context, employeeID int) (*models.Employee, error) {
	return s.employees.GetEmployeeByID(ctx, employeeID)
}

// UpdateProfile частично обновляет собственный профиль. При смене email
// проверяется, что он не занят другим аккаунтом.
func (s *AuthService) UpdateProfile(ctx context.Context, employeeID int, patch models.UpdateProfile) (*models.Employee, error) {
	employee, err := s.employees.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if patch.Email != nil && *patch.Email != employee.Email {
		existing, err := s.employees.GetEmployeeByEmail(ctx, *patch.Email)
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("email уже используется: %w", errs.ErrConflict)
		}
		employee.Email = *patch.Email
	}
	if patch.FullName != nil {
		employee.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		employee.Phone = *patch.Phone
	}
	if err := s.employees.UpdateEmployee(ctx, *employee); err != nil {
		return nil, err
	}
	return s.employees.GetEmployeeByID(ctx, employeeID)
}

// ChangePassword меняет пароль после проверки текущего.
func (s *AuthService) ChangePassword(ctx context.Context, employeeID int, req models.ChangePassword) error {
	employee, err := s.employees.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if err := password.CompareHash(employee.PasswordHash, req.CurrentPassword); err != nil {
		return fmt.Errorf("неверный текущий пароль: %w", errs.ErrValidation)
	}
	hashed, err := password.GetHash(req.NewPassword)
	if err != nil {
		return err
	}
	employee.PasswordHash = hashed
	return s.employees.UpdateEmployee(ctx, *employee)
}
