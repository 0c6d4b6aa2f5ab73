package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

const employeeColumns = `id, full_name, email, password, phone, role, status,
			      hire_date, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (*models.Employee, error) {
	e := &models.Employee{}
	if err := row.Scan(&e.ID, &e.FullName, &e.Email, &e.PasswordHash, &e.Phone,
		&e.Role, &e.Status, &e.HireDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateEmployee сохраняет нового сотрудника и возвращает его ID.
// Занятый email приводит к errs.ErrConflict (уникальный индекс).
func (s *Storage) CreateEmployee(ctx context.Context, e models.Employee) (int, error) {
	const op = "storage.CreateEmployee"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO employees (full_name, email, password, phone, role, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		e.FullName, e.Email, e.PasswordHash, e.Phone, e.Role, e.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetEmployeeByID возвращает сотрудника по ID.
func (s *Storage) GetEmployeeByID(ctx context.Context, id int) (*models.Employee, error) {
	const op = "storage.GetEmployeeByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	e, err := scanEmployee(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return e, nil
}

// GetEmployeeByEmail возвращает сотрудника по email.
func (s *Storage) GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	const op = "storage.GetEmployeeByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1`
	e, err := scanEmployee(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return e, nil
}

// ListEmployees возвращает сотрудников по фильтру, новые первыми.
func (s *Storage) ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, error) {
	const op = "storage.ListEmployees"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conds []string
	var args []any
	if filter.Role != "" {
		args = append(args, filter.Role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateEmployee перезаписывает изменяемые поля сотрудника.
func (s *Storage) UpdateEmployee(ctx context.Context, e models.Employee) error {
	const op = "storage.UpdateEmployee"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE employees
			  SET full_name = $1, email = $2, password = $3, phone = $4,
			      role = $5, status = $6, updated_at = NOW()
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		e.FullName, e.Email, e.PasswordHash, e.Phone, e.Role, e.Status, e.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// DeleteEmployee удаляет сотрудника по ID.
func (s *Storage) DeleteEmployee(ctx context.Context, id int) error {
	const op = "storage.DeleteEmployee"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// CountClientsByManager возвращает количество клиентов, закрепленных за менеджером.
func (s *Storage) CountClientsByManager(ctx context.Context, managerID int) (int, error) {
	const op = "storage.CountClientsByManager"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clients WHERE manager_id = $1`, managerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
