package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

func scanReminder(row interface{ Scan(...any) error }) (*models.CallReminder, error) {
	r := &models.CallReminder{}
	var description sql.NullString
	var notifiedAt sql.NullTime
	var clientName, clientPhone, managerName, managerEmail sql.NullString
	if err := row.Scan(&r.ID, &r.ClientID, &r.ManagerID, &r.ReminderDate,
		&description, &r.Status, &notifiedAt, &r.CreatedAt,
		&clientName, &clientPhone, &managerName, &managerEmail); err != nil {
		return nil, err
	}
	r.Description = description.String
	if notifiedAt.Valid {
		r.NotifiedAt = &notifiedAt.Time
	}
	r.ClientName = clientName.String
	r.ClientPhone = clientPhone.String
	r.ManagerName = managerName.String
	r.ManagerEmail = managerEmail.String
	return r, nil
}

const reminderSelect = `SELECT r.id, r.client_id, r.manager_id, r.reminder_date,
			      r.description, r.status, r.notified_at, r.created_at,
			      c.full_name, c.phone, e.full_name, e.email
		      FROM call_reminders r
		      LEFT JOIN clients c ON c.id = r.client_id
		      LEFT JOIN employees e ON e.id = r.manager_id`

// CreateReminder сохраняет новое напоминание о звонке и возвращает его ID.
func (s *Storage) CreateReminder(ctx context.Context, r models.CallReminder) (int, error) {
	const op = "storage.CreateReminder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO call_reminders (client_id, manager_id, reminder_date, description, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		r.ClientID, r.ManagerID, r.ReminderDate,
		nullableString(r.Description), r.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetReminderByID возвращает напоминание по ID вместе с данными клиента
// и менеджера.
func (s *Storage) GetReminderByID(ctx context.Context, id int) (*models.CallReminder, error) {
	const op = "storage.GetReminderByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	r, err := scanReminder(s.DB.QueryRowContext(ctx, reminderSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return r, nil
}

// ListReminders возвращает напоминания по фильтру, ближайшие по дате первыми.
func (s *Storage) ListReminders(ctx context.Context, filter models.ReminderFilter) ([]*models.CallReminder, error) {
	const op = "storage.ListReminders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conds []string
	var args []any
	if filter.ManagerID != nil {
		args = append(args, *filter.ManagerID)
		conds = append(conds, fmt.Sprintf("r.manager_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conds = append(conds, fmt.Sprintf("r.reminder_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conds = append(conds, fmt.Sprintf("r.reminder_date <= $%d", len(args)))
	}

	query := reminderSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY r.reminder_date ASC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CallReminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateReminder перезаписывает изменяемые поля напоминания.
func (s *Storage) UpdateReminder(ctx context.Context, r models.CallReminder) error {
	const op = "storage.UpdateReminder"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE call_reminders
			  SET reminder_date = $1, description = $2, status = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query,
		r.ReminderDate, nullableString(r.Description), r.Status, r.ID)
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

// DeleteReminder удаляет напоминание по ID.
func (s *Storage) DeleteReminder(ctx context.Context, id int) error {
	const op = "storage.DeleteReminder"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM call_reminders WHERE id = $1`, id)
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

// FindDueReminders возвращает ожидающие напоминания, чья дата попадает
// в окно [now, now+window] и по которым уведомление еще не отправлялось.
func (s *Storage) FindDueReminders(ctx context.Context, now time.Time, window time.Duration) ([]*models.CallReminder, error) {
	const op = "storage.FindDueReminders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := reminderSelect + `
		      WHERE r.status = $1
		        AND r.notified_at IS NULL
		        AND r.reminder_date BETWEEN $2 AND $3
		      ORDER BY r.reminder_date ASC`
	rows, err := s.DB.QueryContext(ctx, query,
		models.ReminderStatusPending, now, now.Add(window))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CallReminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkReminderNotified фиксирует отправку уведомления по напоминанию.
func (s *Storage) MarkReminderNotified(ctx context.Context, id int, notifiedAt time.Time) error {
	const op = "storage.MarkReminderNotified"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE call_reminders SET notified_at = $1 WHERE id = $2 AND notified_at IS NULL`,
		notifiedAt, id)
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
