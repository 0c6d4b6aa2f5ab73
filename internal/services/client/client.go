// Package services содержит бизнес-логику работы с клиентами: жизненный
// цикл лида, журнал изменений и кеширование карточек.
package services

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/magabrotheeeer/olympiad-crm/internal/cache"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// ClientRepository определяет методы для работы с клиентами в хранилище.
type ClientRepository interface {
	// CreateClient вставляет нового клиента и возвращает его ID.
	CreateClient(ctx context.Context, c models.Client) (int, error)
	// GetClientByID возвращает клиента по ID.
	GetClientByID(ctx context.Context, id int) (*models.Client, error)
	// ListClients возвращает страницу клиентов и общее количество.
	ListClients(ctx context.Context, filter models.ClientFilter) ([]*models.Client, int, error)
	// UpdateClient перезаписывает изменяемые поля клиента.
	UpdateClient(ctx context.Context, c models.Client) error
	// DeleteClient удаляет клиента по ID.
	DeleteClient(ctx context.Context, id int) error
	// AddClientHistory добавляет запись в журнал изменений клиента.
	AddClientHistory(ctx context.Context, h models.ClientHistory) (int, error)
	// ListClientHistory возвращает журнал клиента, новые записи первыми.
	ListClientHistory(ctx context.Context, clientID int) ([]*models.ClientHistory, error)
	// ListRegistrationsByClient возвращает регистрации клиента, новые первыми.
	ListRegistrationsByClient(ctx context.Context, clientID int) ([]*models.OlympiadRegistration, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ClientService реализует жизненный цикл клиента. Каждое значимое изменение
// (статус, менеджер, комментарий) сопровождается записью в журнал в рамках
// той же операции.
type ClientService struct {
	repo  ClientRepository
	cache Cache
	log   *slog.Logger
}

// NewClientService создает новый экземпляр ClientService.
func NewClientService(repo ClientRepository, cache Cache, log *slog.Logger) *ClientService {
	return &ClientService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает клиента и добавляет запись created в журнал.
// Статус по умолчанию new, источник по умолчанию other.
func (s *ClientService) Create(ctx context.Context, req models.DummyClient, actorID int) (*models.Client, error) {
	client := models.Client{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Age:        req.Age,
		ClassGrade: req.ClassGrade,
		ManagerID:  req.ManagerID,
		Status:     req.Status,
		Comment:    req.Comment,
		Source:     req.Source,
	}
	if client.Status == "" {
		client.Status = models.ClientStatusNew
	}
	if client.Source == "" {
		client.Source = models.SourceOther
	}

	id, err := s.repo.CreateClient(ctx, client)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new client", slog.Int("id", id))

	if err := s.appendHistory(ctx, models.ClientHistory{
		ClientID:    id,
		EmployeeID:  &actorID,
		Action:      models.HistoryActionCreated,
		Description: "Клиент создан",
	}); err != nil {
		return nil, err
	}

	return s.repo.GetClientByID(ctx, id)
}

// Read возвращает клиента по ID, используя кеш или репозиторий.
func (s *ClientService) Read(ctx context.Context, id int) (*models.Client, error) {
	var result *models.Client
	cacheKey := cache.ClientKey(id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache client", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// List возвращает страницу клиентов по фильтру. Страница по умолчанию 1,
// размер страницы по умолчанию 50.
func (s *ClientService) List(ctx context.Context, filter models.ClientFilter) (*models.ClientPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	clients, total, err := s.repo.ListClients(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalPages := (total + filter.Limit - 1) / filter.Limit
	return &models.ClientPage{
		Clients:    clients,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Update применяет частичное обновление: отсутствующие поля не трогаются.
// По отслеживаемым полям (статус, менеджер, комментарий) добавляется
// по одной записи журнала со снимками старого и нового значения.
// ManagerID == 0 снимает клиента с менеджера.
func (s *ClientService) Update(ctx context.Context, id int, patch models.UpdateClient, actorID int) (*models.Client, error) {
	client, err := s.repo.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := client.Status
	oldManagerID := client.ManagerID
	oldComment := client.Comment

	if patch.FullName != nil {
		client.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		client.Phone = *patch.Phone
	}
	if patch.Age != nil {
		client.Age = patch.Age
	}
	if patch.ClassGrade != nil {
		client.ClassGrade = *patch.ClassGrade
	}
	if patch.ManagerID != nil {
		if *patch.ManagerID == 0 {
			client.ManagerID = nil
		} else {
			client.ManagerID = patch.ManagerID
		}
	}
	if patch.Status != nil {
		client.Status = *patch.Status
	}
	if patch.Comment != nil {
		client.Comment = *patch.Comment
	}
	if patch.Source != nil {
		client.Source = *patch.Source
	}

	if err := s.repo.UpdateClient(ctx, *client); err != nil {
		return nil, err
	}
	s.log.Info("updated client", slog.Int("id", id))

	if client.Status != oldStatus {
		if err := s.appendHistory(ctx, models.ClientHistory{
			ClientID:   id,
			EmployeeID: &actorID,
			Action:     models.HistoryActionStatusChanged,
			OldValue:   oldStatus,
			NewValue:   client.Status,
		}); err != nil {
			return nil, err
		}
	}
	if !equalManager(oldManagerID, client.ManagerID) {
		if err := s.appendHistory(ctx, models.ClientHistory{
			ClientID:   id,
			EmployeeID: &actorID,
			Action:     models.HistoryActionAssigned,
			OldValue:   managerValue(oldManagerID),
			NewValue:   managerValue(client.ManagerID),
		}); err != nil {
			return nil, err
		}
	}
	if client.Comment != oldComment {
		if err := s.appendHistory(ctx, models.ClientHistory{
			ClientID:   id,
			EmployeeID: &actorID,
			Action:     models.HistoryActionCommentAdded,
			OldValue:   oldComment,
			NewValue:   client.Comment,
		}); err != nil {
			return nil, err
		}
	}

	if err := s.cache.Invalidate(cache.ClientKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Int("id", id), sl.Err(err))
	}
	return s.repo.GetClientByID(ctx, id)
}

// Delete удаляет клиента; журнал, напоминания и регистрации удаляются
// каскадом на уровне схемы.
func (s *ClientService) Delete(ctx context.Context, id int) error {
	if err := s.cache.Invalidate(cache.ClientKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Int("id", id), sl.Err(err))
	}
	return s.repo.DeleteClient(ctx, id)
}

// History возвращает журнал клиента, новые записи первыми.
func (s *ClientService) History(ctx context.Context, clientID int) ([]*models.ClientHistory, error) {
	if _, err := s.repo.GetClientByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListClientHistory(ctx, clientID)
}

// Registrations возвращает регистрации клиента на олимпиады.
func (s *ClientService) Registrations(ctx context.Context, clientID int) ([]*models.OlympiadRegistration, error) {
	if _, err := s.repo.GetClientByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListRegistrationsByClient(ctx, clientID)
}

// appendHistory пишет запись журнала. Изменение без записи журнала
// недопустимо, поэтому сбой возвращается вызывающему.
func (s *ClientService) appendHistory(ctx context.Context, h models.ClientHistory) error {
	if _, err := s.repo.AddClientHistory(ctx, h); err != nil {
		s.log.Error("failed to append client history",
			slog.Int("client_id", h.ClientID), slog.String("action", h.Action), sl.Err(err))
		return err
	}
	return nil
}

func equalManager(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func managerValue(id *int) string {
	if id == nil {
		return ""
	}
	return strconv.Itoa(*id)
}
