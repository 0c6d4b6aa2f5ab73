package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

func scanClient(row interface{ Scan(...any) error }) (*models.Client, error) {
	c := &models.Client{}
	var age, managerID sql.NullInt64
	var classGrade, comment, managerName sql.NullString
	if err := row.Scan(&c.ID, &c.FullName, &c.Phone, &age, &classGrade,
		&managerID, &c.Status, &comment, &c.Source, &c.CreatedAt, &c.UpdatedAt,
		&managerName); err != nil {
		return nil, err
	}
	if age.Valid {
		v := int(age.Int64)
		c.Age = &v
	}
	if managerID.Valid {
		v := int(managerID.Int64)
		c.ManagerID = &v
	}
	c.ClassGrade = classGrade.String
	c.Comment = comment.String
	c.ManagerName = managerName.String
	return c, nil
}

const clientSelect = `SELECT c.id, c.full_name, c.phone, c.age, c.class_grade,
			      c.manager_id, c.status, c.comment, c.source, c.created_at, c.updated_at,
			      e.full_name
		      FROM clients c
		      LEFT JOIN employees e ON e.id = c.manager_id`

// CreateClient вставляет нового клиента и возвращает его ID.
func (s *Storage) CreateClient(ctx context.Context, c models.Client) (int, error) {
	const op = "storage.CreateClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO clients (full_name, phone, age, class_grade, manager_id,
			      status, comment, source)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		c.FullName, c.Phone, nullableInt(c.Age), nullableString(c.ClassGrade),
		nullableInt(c.ManagerID), c.Status, nullableString(c.Comment), c.Source).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetClientByID возвращает клиента по ID вместе с именем менеджера.
func (s *Storage) GetClientByID(ctx context.Context, id int) (*models.Client, error) {
	const op = "storage.GetClientByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	c, err := scanClient(s.DB.QueryRowContext(ctx, clientSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return c, nil
}

// ListClients возвращает страницу клиентов по фильтру и общее количество,
// новые первыми.
func (s *Storage) ListClients(ctx context.Context, filter models.ClientFilter) ([]*models.Client, int, error) {
	const op = "storage.ListClients"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conds []string
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("c.status = $%d", len(args)))
	}
	if filter.ManagerID != nil {
		args = append(args, *filter.ManagerID)
		conds = append(conds, fmt.Sprintf("c.manager_id = $%d", len(args)))
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		conds = append(conds, fmt.Sprintf("c.source = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(c.full_name ILIKE $%d OR c.phone ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM clients c` + where
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, (filter.Page-1)*filter.Limit)
	offsetPos := len(args)

	query := clientSelect + where +
		fmt.Sprintf(" ORDER BY c.created_at DESC LIMIT $%d OFFSET $%d", limitPos, offsetPos)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// ListAllClients возвращает всех клиентов по фильтру без пагинации,
// используется отчетами и экспортом.
func (s *Storage) ListAllClients(ctx context.Context, filter models.ClientFilter) ([]*models.Client, error) {
	filter.Page = 1
	filter.Limit = 1 << 30
	clients, _, err := s.ListClients(ctx, filter)
	return clients, err
}

// UpdateClient перезаписывает изменяемые поля клиента.
func (s *Storage) UpdateClient(ctx context.Context, c models.Client) error {
	const op = "storage.UpdateClient"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE clients
			  SET full_name = $1, phone = $2, age = $3, class_grade = $4,
			      manager_id = $5, status = $6, comment = $7, source = $8,
			      updated_at = NOW()
			  WHERE id = $9`
	result, err := s.DB.ExecContext(ctx, query,
		c.FullName, c.Phone, nullableInt(c.Age), nullableString(c.ClassGrade),
		nullableInt(c.ManagerID), c.Status, nullableString(c.Comment), c.Source, c.ID)
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

// DeleteClient удаляет клиента; зависимые строки удаляются каскадом
// на уровне схемы.
func (s *Storage) DeleteClient(ctx context.Context, id int) error {
	const op = "storage.DeleteClient"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
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

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
