// Package services содержит бизнес-логику олимпиад и регистраций клиентов
// на них, включая правило автоматического перевода регистрации в paid
// при фиксации оплаты.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// OlympiadRepository определяет методы для работы с олимпиадами
// и регистрациями в хранилище.
type OlympiadRepository interface {
	// CreateOlympiad сохраняет новую олимпиаду и возвращает её ID.
	CreateOlympiad(ctx context.Context, o models.Olympiad) (int, error)
	// GetOlympiadByID возвращает олимпиаду по ID.
	GetOlympiadByID(ctx context.Context, id int) (*models.Olympiad, error)
	// ListOlympiads возвращает страницу олимпиад и общее количество.
	ListOlympiads(ctx context.Context, filter models.OlympiadFilter) ([]*models.Olympiad, int, error)
	// UpdateOlympiad перезаписывает изменяемые поля олимпиады.
	UpdateOlympiad(ctx context.Context, o models.Olympiad) error
	// DeleteOlympiad удаляет олимпиаду по ID.
	DeleteOlympiad(ctx context.Context, id int) error
	// GetClientByID возвращает клиента по ID.
	GetClientByID(ctx context.Context, id int) (*models.Client, error)
	// CreateRegistration регистрирует клиента на олимпиаду.
	CreateRegistration(ctx context.Context, clientID, olympiadID int) (int, error)
	// GetRegistrationByID возвращает регистрацию в рамках олимпиады.
	GetRegistrationByID(ctx context.Context, olympiadID, registrationID int) (*models.OlympiadRegistration, error)
	// ListRegistrationsByOlympiad возвращает регистрации олимпиады.
	ListRegistrationsByOlympiad(ctx context.Context, olympiadID int) ([]*models.OlympiadRegistration, error)
	// UpdateRegistration перезаписывает изменяемые поля регистрации.
	UpdateRegistration(ctx context.Context, r models.OlympiadRegistration) error
}

// OlympiadService реализует бизнес-логику олимпиад и регистраций.
type OlympiadService struct {
	repo OlympiadRepository
	log  *slog.Logger
}

// NewOlympiadService создает новый экземпляр OlympiadService.
func NewOlympiadService(repo OlympiadRepository, log *slog.Logger) *OlympiadService {
	return &OlympiadService{
		repo: repo,
		log:  log,
	}
}

// Create создает олимпиаду. Формат по умолчанию online, статус planned.
func (s *OlympiadService) Create(ctx context.Context, req models.DummyOlympiad) (*models.Olympiad, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("некорректная дата: %w", errs.ErrValidation)
	}

	olympiad := models.Olympiad{
		Name:        req.Name,
		Subject:     req.Subject,
		Date:        date,
		Format:      req.Format,
		Price:       req.Price,
		Location:    req.Location,
		Description: req.Description,
		Status:      models.OlympiadStatusPlanned,
	}
	if olympiad.Format == "" {
		olympiad.Format = models.FormatOnline
	}

	id, err := s.repo.CreateOlympiad(ctx, olympiad)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new olympiad", slog.Int("id", id))
	return s.repo.GetOlympiadByID(ctx, id)
}

// Read возвращает олимпиаду по ID.
func (s *OlympiadService) Read(ctx context.Context, id int) (*models.Olympiad, error) {
	return s.repo.GetOlympiadByID(ctx, id)
}

// List возвращает страницу олимпиад по фильтру. Страница по умолчанию 1,
// размер страницы по умолчанию 50.
func (s *OlympiadService) List(ctx context.Context, filter models.OlympiadFilter) (*models.OlympiadPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	olympiads, total, err := s.repo.ListOlympiads(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalPages := (total + filter.Limit - 1) / filter.Limit
	return &models.OlympiadPage{
		Olympiads:  olympiads,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Update применяет частичное обновление: отсутствующие поля не трогаются.
func (s *OlympiadService) Update(ctx context.Context, id int, patch models.UpdateOlympiad) (*models.Olympiad, error) {
	olympiad, err := s.repo.GetOlympiadByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		olympiad.Name = *patch.Name
	}
	if patch.Subject != nil {
		olympiad.Subject = *patch.Subject
	}
	if patch.Date != nil {
		date, err := parseDate(*patch.Date)
		if err != nil {
			return nil, fmt.Errorf("некорректная дата: %w", errs.ErrValidation)
		}
		olympiad.Date = date
	}
	if patch.Format != nil {
		olympiad.Format = *patch.Format
	}
	if patch.Price != nil {
		olympiad.Price = *patch.Price
	}
	if patch.Location != nil {
		olympiad.Location = *patch.Location
	}
	if patch.Description != nil {
		olympiad.Description = *patch.Description
	}
	if patch.Status != nil {
		olympiad.Status = *patch.Status
	}

	if err := s.repo.UpdateOlympiad(ctx, *olympiad); err != nil {
		return nil, err
	}
	s.log.Info("updated olympiad", slog.Int("id", id))
	return s.repo.GetOlympiadByID(ctx, id)
}

// Delete удаляет олимпиаду; регистрации удаляются каскадом на уровне схемы.
func (s *OlympiadService) Delete(ctx context.Context, id int) error {
	return s.repo.DeleteOlympiad(ctx, id)
}

// Register регистрирует клиента на олимпиаду. Отсутствие олимпиады или
// клиента дает errs.ErrNotFound, повторная регистрация пары —
// errs.ErrConflict (уникальный индекс по паре).
func (s *OlympiadService) Register(ctx context.Context, olympiadID, clientID int) (*models.OlympiadRegistration, error) {
	if _, err := s.repo.GetOlympiadByID(ctx, olympiadID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetClientByID(ctx, clientID); err != nil {
		return nil, err
	}

	id, err := s.repo.CreateRegistration(ctx, clientID, olympiadID)
	if err != nil {
		return nil, err
	}
	s.log.Info("registered client for olympiad",
		slog.Int("client_id", clientID), slog.Int("olympiad_id", olympiadID))
	return s.repo.GetRegistrationByID(ctx, olympiadID, id)
}

// Registrations возвращает регистрации олимпиады, новые первыми.
func (s *OlympiadService) Registrations(ctx context.Context, olympiadID int) ([]*models.OlympiadRegistration, error) {
	if _, err := s.repo.GetOlympiadByID(ctx, olympiadID); err != nil {
		return nil, err
	}
	return s.repo.ListRegistrationsByOlympiad(ctx, olympiadID)
}

// UpdateRegistration применяет частичное обновление регистрации.
// Правило оплаты: paid_amount > 0 при пустом paid_at проставляет paid_at
// и переводит статус в paid уже после применения явного статуса из того же
// запроса — побочный эффект оплаты имеет приоритет.
func (s *OlympiadService) UpdateRegistration(ctx context.Context, olympiadID, registrationID int, patch models.UpdateRegistration) (*models.OlympiadRegistration, error) {
	reg, err := s.repo.GetRegistrationByID(ctx, olympiadID, registrationID)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		reg.Status = *patch.Status
	}
	if patch.Score != nil {
		reg.Score = patch.Score
	}
	if patch.CertificateURL != nil {
		reg.CertificateURL = *patch.CertificateURL
	}
	if patch.PaidAmount != nil {
		reg.PaidAmount = *patch.PaidAmount
		if reg.PaidAmount > 0 && reg.PaidAt == nil {
			now := time.Now()
			reg.PaidAt = &now
			reg.Status = models.RegistrationStatusPaid
		}
	}

	if err := s.repo.UpdateRegistration(ctx, *reg); err != nil {
		return nil, err
	}
	s.log.Info("updated olympiad registration", slog.Int("id", registrationID))
	return s.repo.GetRegistrationByID(ctx, olympiadID, registrationID)
}

// parseDate принимает дату в формате RFC3339 либо 2006-01-02.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
