// Package services содержит бизнес-логику напоминаний о звонках клиентам.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// ReminderRepository определяет методы для работы с напоминаниями в хранилище.
type ReminderRepository interface {
	// CreateReminder сохраняет новое напоминание и возвращает его ID.
	CreateReminder(ctx context.Context, r models.CallReminder) (int, error)
	// GetReminderByID возвращает напоминание по ID.
	GetReminderByID(ctx context.Context, id int) (*models.CallReminder, error)
	// ListReminders возвращает напоминания по фильтру.
	ListReminders(ctx context.Context, filter models.ReminderFilter) ([]*models.CallReminder, error)
	// UpdateReminder перезаписывает изменяемые поля напоминания.
	UpdateReminder(ctx context.Context, r models.CallReminder) error
	// DeleteReminder удаляет напоминание по ID.
	DeleteReminder(ctx context.Context, id int) error
	// GetClientByID возвращает клиента по ID.
	GetClientByID(ctx context.Context, id int) (*models.Client, error)
}

// ReminderService реализует CRUD напоминаний о звонках. Менеджер-владелец
// напоминания берется из токена создающего сотрудника.
type ReminderService struct {
	repo ReminderRepository
	log  *slog.Logger
}

// NewReminderService создает новый экземпляр ReminderService.
func NewReminderService(repo ReminderRepository, log *slog.Logger) *ReminderService {
	return &ReminderService{
		repo: repo,
		log:  log,
	}
}

// Create создает напоминание со статусом pending. Клиент должен существовать.
func (s *ReminderService) Create(ctx context.Context, req models.DummyReminder, managerID int) (*models.CallReminder, error) {
	if _, err := s.repo.GetClientByID(ctx, req.ClientID); err != nil {
		return nil, err
	}
	date, err := parseDate(req.ReminderDate)
	if err != nil {
		return nil, fmt.Errorf("некорректная дата напоминания: %w", errs.ErrValidation)
	}

	reminder := models.CallReminder{
		ClientID:     req.ClientID,
		ManagerID:    managerID,
		ReminderDate: date,
		Description:  req.Description,
		Status:       models.ReminderStatusPending,
	}
	id, err := s.repo.CreateReminder(ctx, reminder)
	if err != nil {
		return nil, err
	}
	s.log.Info("created call reminder",
		slog.Int("id", id), slog.Int("client_id", req.ClientID))
	return s.repo.GetReminderByID(ctx, id)
}

// List возвращает напоминания по фильтру, ближайшие по дате первыми.
func (s *ReminderService) List(ctx context.Context, filter models.ReminderFilter) ([]*models.CallReminder, error) {
	return s.repo.ListReminders(ctx, filter)
}

// Update применяет частичное обновление напоминания.
func (s *ReminderService) Update(ctx context.Context, id int, patch models.UpdateReminder) (*models.CallReminder, error) {
	reminder, err := s.repo.GetReminderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.ReminderDate != nil {
		date, err := parseDate(*patch.ReminderDate)
		if err != nil {
			return nil, fmt.Errorf("некорректная дата напоминания: %w", errs.ErrValidation)
		}
		reminder.ReminderDate = date
	}
	if patch.Description != nil {
		reminder.Description = *patch.Description
	}
	if patch.Status != nil {
		reminder.Status = *patch.Status
	}

	if err := s.repo.UpdateReminder(ctx, *reminder); err != nil {
		return nil, err
	}
	s.log.Info("updated call reminder", slog.Int("id", id))
	return s.repo.GetReminderByID(ctx, id)
}

// Delete удаляет напоминание по ID.
func (s *ReminderService) Delete(ctx context.Context, id int) error {
	return s.repo.DeleteReminder(ctx, id)
}

// parseDate принимает дату в формате RFC3339 либо 2006-01-02.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
