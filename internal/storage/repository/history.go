package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// AddClientHistory добавляет запись в журнал изменений клиента.
// Журнал только на добавление, методов изменения и удаления нет.
func (s *Storage) AddClientHistory(ctx context.Context, h models.ClientHistory) (int, error) {
	const op = "storage.AddClientHistory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO client_history (client_id, employee_id, action,
			      old_value, new_value, description)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		h.ClientID, nullableInt(h.EmployeeID), h.Action,
		nullableString(h.OldValue), nullableString(h.NewValue),
		nullableString(h.Description)).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// ListClientHistory возвращает журнал клиента, новые записи первыми,
// вместе с именами сотрудников-авторов.
func (s *Storage) ListClientHistory(ctx context.Context, clientID int) ([]*models.ClientHistory, error) {
	const op = "storage.ListClientHistory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT h.id, h.client_id, h.employee_id, h.action, h.old_value,
			      h.new_value, h.description, h.created_at, e.full_name
		      FROM client_history h
		      LEFT JOIN employees e ON e.id = h.employee_id
		      WHERE h.client_id = $1
		      ORDER BY h.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ClientHistory
	for rows.Next() {
		h := &models.ClientHistory{}
		var employeeID sql.NullInt64
		var oldValue, newValue, description, employeeName sql.NullString
		if err = rows.Scan(&h.ID, &h.ClientID, &employeeID, &h.Action, &oldValue,
			&newValue, &description, &h.CreatedAt, &employeeName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if employeeID.Valid {
			v := int(employeeID.Int64)
			h.EmployeeID = &v
		}
		h.OldValue = oldValue.String
		h.NewValue = newValue.String
		h.Description = description.String
		h.EmployeeName = employeeName.String
		result = append(result, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
