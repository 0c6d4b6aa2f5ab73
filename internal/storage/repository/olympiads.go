package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

const olympiadColumns = `id, name, subject, date, format, price, location,
			      description, status, created_at, updated_at`

func scanOlympiad(row interface{ Scan(...any) error }) (*models.Olympiad, error) {
	o := &models.Olympiad{}
	var location, description sql.NullString
	if err := row.Scan(&o.ID, &o.Name, &o.Subject, &o.Date, &o.Format, &o.Price,
		&location, &description, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Location = location.String
	o.Description = description.String
	return o, nil
}

// CreateOlympiad сохраняет новую олимпиаду и возвращает её ID.
func (s *Storage) CreateOlympiad(ctx context.Context, o models.Olympiad) (int, error) {
	const op = "storage.CreateOlympiad"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO olympiads (name, subject, date, format, price, location,
			      description, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		o.Name, o.Subject, o.Date, o.Format, o.Price,
		nullableString(o.Location), nullableString(o.Description), o.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetOlympiadByID возвращает олимпиаду по ID.
func (s *Storage) GetOlympiadByID(ctx context.Context, id int) (*models.Olympiad, error) {
	const op = "storage.GetOlympiadByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + olympiadColumns + ` FROM olympiads WHERE id = $1`
	o, err := scanOlympiad(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return o, nil
}

// ListOlympiads возвращает страницу олимпиад по фильтру и общее количество,
// отсортированные по дате проведения по возрастанию.
func (s *Storage) ListOlympiads(ctx context.Context, filter models.OlympiadFilter) ([]*models.Olympiad, int, error) {
	const op = "storage.ListOlympiads"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conds []string
	var args []any
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		conds = append(conds, fmt.Sprintf("subject = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM olympiads` + where
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, (filter.Page-1)*filter.Limit)
	offsetPos := len(args)

	query := `SELECT ` + olympiadColumns + ` FROM olympiads` + where +
		fmt.Sprintf(" ORDER BY date ASC LIMIT $%d OFFSET $%d", limitPos, offsetPos)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Olympiad
	for rows.Next() {
		o, err := scanOlympiad(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// ListAllOlympiads возвращает все олимпиады по фильтру без пагинации,
// используется отчетами.
func (s *Storage) ListAllOlympiads(ctx context.Context, filter models.OlympiadFilter) ([]*models.Olympiad, error) {
	filter.Page = 1
	filter.Limit = 1 << 30
	olympiads, _, err := s.ListOlympiads(ctx, filter)
	return olympiads, err
}

// UpdateOlympiad перезаписывает изменяемые поля олимпиады.
func (s *Storage) UpdateOlympiad(ctx context.Context, o models.Olympiad) error {
	const op = "storage.UpdateOlympiad"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE olympiads
			  SET name = $1, subject = $2, date = $3, format = $4, price = $5,
			      location = $6, description = $7, status = $8, updated_at = NOW()
			  WHERE id = $9`
	result, err := s.DB.ExecContext(ctx, query,
		o.Name, o.Subject, o.Date, o.Format, o.Price,
		nullableString(o.Location), nullableString(o.Description), o.Status, o.ID)
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

// DeleteOlympiad удаляет олимпиаду; регистрации удаляются каскадом
// на уровне схемы.
func (s *Storage) DeleteOlympiad(ctx context.Context, id int) error {
	const op = "storage.DeleteOlympiad"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM olympiads WHERE id = $1`, id)
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
