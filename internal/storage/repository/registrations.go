package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

func scanRegistration(row interface{ Scan(...any) error }) (*models.OlympiadRegistration, error) {
	r := &models.OlympiadRegistration{}
	var paidAt sql.NullTime
	var score sql.NullInt64
	var certificateURL, clientName sql.NullString
	if err := row.Scan(&r.ID, &r.ClientID, &r.OlympiadID, &r.Status, &r.PaidAmount,
		&paidAt, &score, &certificateURL, &r.CreatedAt, &r.UpdatedAt, &clientName); err != nil {
		return nil, err
	}
	if paidAt.Valid {
		r.PaidAt = &paidAt.Time
	}
	if score.Valid {
		v := int(score.Int64)
		r.Score = &v
	}
	r.CertificateURL = certificateURL.String
	r.ClientName = clientName.String
	return r, nil
}

const registrationSelect = `SELECT r.id, r.client_id, r.olympiad_id, r.status,
			      r.paid_amount, r.paid_at, r.score, r.certificate_url,
			      r.created_at, r.updated_at, c.full_name
		      FROM olympiad_registrations r
		      LEFT JOIN clients c ON c.id = r.client_id`

// CreateRegistration регистрирует клиента на олимпиаду. Повторная
// регистрация той же пары (client_id, olympiad_id) приводит
// к errs.ErrConflict.
func (s *Storage) CreateRegistration(ctx context.Context, clientID, olympiadID int) (int, error) {
	const op = "storage.CreateRegistration"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO olympiad_registrations (client_id, olympiad_id, status, paid_amount)
			  VALUES ($1, $2, $3, 0)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		clientID, olympiadID, models.RegistrationStatusRegistered).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetRegistrationByID возвращает регистрацию по ID в рамках конкретной
// олимпиады.
func (s *Storage) GetRegistrationByID(ctx context.Context, olympiadID, registrationID int) (*models.OlympiadRegistration, error) {
	const op = "storage.GetRegistrationByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := registrationSelect + ` WHERE r.id = $1 AND r.olympiad_id = $2`
	r, err := scanRegistration(s.DB.QueryRowContext(ctx, query, registrationID, olympiadID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return r, nil
}

// ListRegistrationsByOlympiad возвращает регистрации олимпиады,
// новые первыми, вместе с именами клиентов.
func (s *Storage) ListRegistrationsByOlympiad(ctx context.Context, olympiadID int) ([]*models.OlympiadRegistration, error) {
	const op = "storage.ListRegistrationsByOlympiad"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := registrationSelect + ` WHERE r.olympiad_id = $1 ORDER BY r.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, olympiadID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.OlympiadRegistration
	for rows.Next() {
		r, err := scanRegistration(rows)
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

// ListRegistrationsByClient возвращает регистрации клиента, новые первыми.
func (s *Storage) ListRegistrationsByClient(ctx context.Context, clientID int) ([]*models.OlympiadRegistration, error) {
	const op = "storage.ListRegistrationsByClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := registrationSelect + ` WHERE r.client_id = $1 ORDER BY r.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.OlympiadRegistration
	for rows.Next() {
		r, err := scanRegistration(rows)
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

// UpdateRegistration перезаписывает изменяемые поля регистрации.
func (s *Storage) UpdateRegistration(ctx context.Context, r models.OlympiadRegistration) error {
	const op = "storage.UpdateRegistration"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var paidAt any
	if r.PaidAt != nil {
		paidAt = *r.PaidAt
	}
	query := `UPDATE olympiad_registrations
			  SET status = $1, paid_amount = $2, paid_at = $3, score = $4,
			      certificate_url = $5, updated_at = NOW()
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		r.Status, r.PaidAmount, paidAt, nullableInt(r.Score),
		nullableString(r.CertificateURL), r.ID)
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
