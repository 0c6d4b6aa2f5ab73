package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

type ClientRepoMock struct{ mock.Mock }

func (m *ClientRepoMock) CreateClient(ctx context.Context, c models.Client) (int, error) {
	args := m.Called(ctx, c)
	return args.Int(0), args.Error(1)
}
func (m *ClientRepoMock) GetClientByID(ctx context.Context, id int) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}
func (m *ClientRepoMock) ListClients(ctx context.Context, filter models.ClientFilter) ([]*models.Client, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Client), args.Int(1), args.Error(2)
}
func (m *ClientRepoMock) UpdateClient(ctx context.Context, c models.Client) error {
	return m.Called(ctx, c).Error(0)
}
func (m *ClientRepoMock) DeleteClient(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}
func (m *ClientRepoMock) AddClientHistory(ctx context.Context, h models.ClientHistory) (int, error) {
	args := m.Called(ctx, h)
	return args.Int(0), args.Error(1)
}
func (m *ClientRepoMock) ListClientHistory(ctx context.Context, clientID int) ([]*models.ClientHistory, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ClientHistory), args.Error(1)
}
func (m *ClientRepoMock) ListRegistrationsByClient(ctx context.Context, clientID int) ([]*models.OlympiadRegistration, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OlympiadRegistration), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func historyByAction(calls []mock.Call) map[string][]models.ClientHistory {
	result := make(map[string][]models.ClientHistory)
	for _, c := range calls {
		if c.Method != "AddClientHistory" {
			continue
		}
		h := c.Arguments.Get(1).(models.ClientHistory)
		result[h.Action] = append(result[h.Action], h)
	}
	return result
}

func TestClientService_Create(t *testing.T) {
	t.Run("defaults and created history entry", func(t *testing.T) {
		repo := new(ClientRepoMock)
		repo.On("CreateClient", mock.Anything, mock.MatchedBy(func(c models.Client) bool {
			return c.Status == models.ClientStatusNew && c.Source == models.SourceOther
		})).Return(3, nil).Once()
		repo.On("AddClientHistory", mock.Anything, mock.MatchedBy(func(h models.ClientHistory) bool {
			return h.ClientID == 3 && h.Action == models.HistoryActionCreated && *h.EmployeeID == 7
		})).Return(1, nil).Once()
		repo.On("GetClientByID", mock.Anything, 3).
			Return(&models.Client{ID: 3, FullName: "Айдана Смагулова", Status: models.ClientStatusNew}, nil).Once()

		svc := NewClientService(repo, new(CacheMock), newNoopLogger())
		client, err := svc.Create(context.Background(),
			models.DummyClient{FullName: "Айдана Смагулова", Phone: "+77001234567"}, 7)

		assert.NoError(t, err)
		assert.Equal(t, 3, client.ID)
		repo.AssertExpectations(t)
	})

	t.Run("history failure fails creation", func(t *testing.T) {
		historyErr := errors.New("history table is broken")
		repo := new(ClientRepoMock)
		repo.On("CreateClient", mock.Anything, mock.Anything).Return(4, nil).Once()
		repo.On("AddClientHistory", mock.Anything, mock.Anything).
			Return(0, historyErr).Once()

		svc := NewClientService(repo, new(CacheMock), newNoopLogger())
		client, err := svc.Create(context.Background(),
			models.DummyClient{FullName: "Тест", Phone: "+77000000000"}, 1)

		assert.ErrorIs(t, err, historyErr)
		assert.Nil(t, client)
		repo.AssertNotCalled(t, "GetClientByID", mock.Anything, mock.Anything)
	})
}

func TestClientService_Read(t *testing.T) {
	t.Run("cache hit skips repository", func(t *testing.T) {
		cacheMock := new(CacheMock)
		cacheMock.On("Get", "client:5", mock.Anything).Return(true, nil).Once()

		repo := new(ClientRepoMock)
		svc := NewClientService(repo, cacheMock, newNoopLogger())
		_, err := svc.Read(context.Background(), 5)

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "GetClientByID", mock.Anything, mock.Anything)
		cacheMock.AssertExpectations(t)
	})

	t.Run("cache miss loads and caches", func(t *testing.T) {
		cacheMock := new(CacheMock)
		cacheMock.On("Get", "client:5", mock.Anything).Return(false, nil).Once()
		cacheMock.On("Set", "client:5", mock.Anything, time.Hour).Return(nil).Once()

		repo := new(ClientRepoMock)
		repo.On("GetClientByID", mock.Anything, 5).
			Return(&models.Client{ID: 5}, nil).Once()

		svc := NewClientService(repo, cacheMock, newNoopLogger())
		client, err := svc.Read(context.Background(), 5)

		assert.NoError(t, err)
		assert.Equal(t, 5, client.ID)
		cacheMock.AssertExpectations(t)
	})

	t.Run("cache error falls back to repository", func(t *testing.T) {
		cacheMock := new(CacheMock)
		cacheMock.On("Get", "client:5", mock.Anything).Return(false, errors.New("redis down")).Once()
		cacheMock.On("Set", "client:5", mock.Anything, time.Hour).Return(errors.New("redis down")).Once()

		repo := new(ClientRepoMock)
		repo.On("GetClientByID", mock.Anything, 5).
			Return(&models.Client{ID: 5}, nil).Once()

		svc := NewClientService(repo, cacheMock, newNoopLogger())
		client, err := svc.Read(context.Background(), 5)

		assert.NoError(t, err)
		assert.Equal(t, 5, client.ID)
	})
}

func TestClientService_List(t *testing.T) {
	repo := new(ClientRepoMock)
	repo.On("ListClients", mock.Anything, mock.MatchedBy(func(f models.ClientFilter) bool {
		return f.Page == 1 && f.Limit == 50
	})).Return([]*models.Client{{ID: 1}}, 101, nil).Once()

	svc := NewClientService(repo, new(CacheMock), newNoopLogger())
	page, err := svc.List(context.Background(), models.ClientFilter{})

	assert.NoError(t, err)
	assert.Equal(t, 101, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	repo.AssertExpectations(t)
}

func TestClientService_Update(t *testing.T) {
	manager := 2
	paid := models.ClientStatusPaid

	t.Run("status change appends exactly one status entry", func(t *testing.T) {
		repo := new(ClientRepoMock)
		repo.On("GetClientByID", mock.Anything, 1).
			Return(&models.Client{ID: 1, Status: models.ClientStatusNew, ManagerID: &manager}, nil).Once()
		repo.On("UpdateClient", mock.Anything, mock.Anything).Return(nil).Once()
		repo.On("AddClientHistory", mock.Anything, mock.Anything).Return(1, nil)
		repo.On("GetClientByID", mock.Anything, 1).
			Return(&models.Client{ID: 1, Status: paid, ManagerID: &manager}, nil).Once()

		cacheMock := new(CacheMock)
		cacheMock.On("Invalidate", "client:1").Return(nil).Once()

		svc := NewClientService(repo, cacheMock, newNoopLogger())
		_, err := svc.Update(context.Background(), 1, models.UpdateClient{Status: &paid}, 7)

		assert.NoError(t, err)
		entries := historyByAction(repo.Calls)
		assert.Len(t, entries[models.HistoryActionStatusChanged], 1)
		entry := entries[models.HistoryActionStatusChanged][0]
		assert.Equal(t, models.ClientStatusNew, entry.OldValue)
		assert.Equal(t, paid, entry.NewValue)
		assert.Empty(t, entries[models.HistoryActionAssigned])
		assert.Empty(t, entries[models.HistoryActionCommentAdded])
	})

	t.Run("manager zero unassigns and records snapshot", func(t *testing.T) {
		zero := 0
		repo := new(ClientRepoMock)
		repo.On("GetClientByID", mock.Anything, 1).
			Return(&models.Client{ID: 1, Status: models.ClientStatusNew, ManagerID: &manager}, nil).Once()
		repo.On("UpdateClient", mock.Anything, mock.MatchedBy(func(c models.Client) bool {
			return c.ManagerID == nil
		})).Return(nil).Once()
		repo.On("AddClientHistory", mock.Anything, mock.Anything).Return(1, nil)
		repo.On("GetClientByID", mock.Anything, 1).
			Return(&models.Client{ID: 1, Status: models.ClientStatusNew}, nil).Once()

		cacheMock := new(CacheMock)
		cacheMock.On("Invalidate", "client:1").Return(nil).Once()

		svc := NewClientService(repo, cacheMock, newNoopLogger())
		_, err := svc.Update(context.Background(), 1, models.UpdateClient{ManagerID: &zero}, 7)

		assert.NoError(t, err)
		entries := historyByAction(repo.Calls)
		assert.Len(t, entries[models.HistoryActionAssigned], 1)
		entry := entries[models.HistoryActionAssigned][0]
		assert.Equal(t, "2", entry.OldValue)
		assert.Equal(t, "", entry.NewValue)
	})

	t.Run("untouched fields add no history", func(t *testing.T) {
		name := "Новое Имя"
		repo := new(ClientRepoMock)
		repo.On("GetClientByID", mock.Anything, 1).
			Return(&models.Client{ID: 1, Status: models.ClientStatusNew}, nil).Twice()
		repo.On("UpdateClient", mock.Anything, mock.Anything).Return(nil).Once()

		cacheMock := new(CacheMock)
		cacheMock.On("Invalidate", "client:1").Return(nil).Once()

		svc := NewClientService(repo, cacheMock, newNoopLogger())
		_, err := svc.Update(context.Background(), 1, models.UpdateClient{FullName: &name}, 7)

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "AddClientHistory", mock.Anything, mock.Anything)
	})

	t.Run("missing client", func(t *testing.T) {
		repo := new(ClientRepoMock)
		repo.On("GetClientByID", mock.Anything, 99).Return(nil, errs.ErrNotFound).Once()

		svc := NewClientService(repo, new(CacheMock), newNoopLogger())
		_, err := svc.Update(context.Background(), 99, models.UpdateClient{}, 7)

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("history failure fails the update", func(t *testing.T) {
		historyErr := errors.New("history table is broken")
		repo := new(ClientRepoMock)
		repo.On("GetClientByID", mock.Anything, 1).
			Return(&models.Client{ID: 1, Status: models.ClientStatusNew}, nil).Once()
		repo.On("UpdateClient", mock.Anything, mock.Anything).Return(nil).Once()
		repo.On("AddClientHistory", mock.Anything, mock.Anything).
			Return(0, historyErr).Once()

		svc := NewClientService(repo, new(CacheMock), newNoopLogger())
		client, err := svc.Update(context.Background(), 1, models.UpdateClient{Status: &paid}, 7)

		assert.ErrorIs(t, err, historyErr)
		assert.Nil(t, client)
	})
}

func TestClientService_History(t *testing.T) {
	t.Run("missing client", func(t *testing.T) {
		repo := new(ClientRepoMock)
		repo.On("GetClientByID", mock.Anything, 99).Return(nil, errs.ErrNotFound).Once()

		svc := NewClientService(repo, new(CacheMock), newNoopLogger())
		_, err := svc.History(context.Background(), 99)

		assert.ErrorIs(t, err, errs.ErrNotFound)
		repo.AssertNotCalled(t, "ListClientHistory", mock.Anything, mock.Anything)
	})

	t.Run("returns ledger entries", func(t *testing.T) {
		repo := new(ClientRepoMock)
		repo.On("GetClientByID", mock.Anything, 1).Return(&models.Client{ID: 1}, nil).Once()
		repo.On("ListClientHistory", mock.Anything, 1).
			Return([]*models.ClientHistory{{ID: 2, Action: models.HistoryActionStatusChanged}}, nil).Once()

		svc := NewClientService(repo, new(CacheMock), newNoopLogger())
		entries, err := svc.History(context.Background(), 1)

		assert.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestClientService_Registrations(t *testing.T) {
	t.Run("missing client", func(t *testing.T) {
		repo := new(ClientRepoMock)
		repo.On("GetClientByID", mock.Anything, 99).Return(nil, errs.ErrNotFound).Once()

		svc := NewClientService(repo, new(CacheMock), newNoopLogger())
		_, err := svc.Registrations(context.Background(), 99)

		assert.ErrorIs(t, err, errs.ErrNotFound)
		repo.AssertNotCalled(t, "ListRegistrationsByClient", mock.Anything, mock.Anything)
	})

	t.Run("returns registrations", func(t *testing.T) {
		repo := new(ClientRepoMock)
		repo.On("GetClientByID", mock.Anything, 1).Return(&models.Client{ID: 1}, nil).Once()
		repo.On("ListRegistrationsByClient", mock.Anything, 1).
			Return([]*models.OlympiadRegistration{{ID: 33, OlympiadID: 9}}, nil).Once()

		svc := NewClientService(repo, new(CacheMock), newNoopLogger())
		items, err := svc.Registrations(context.Background(), 1)

		assert.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestClientService_Delete(t *testing.T) {
	repo := new(ClientRepoMock)
	repo.On("DeleteClient", mock.Anything, 1).Return(nil).Once()

	cacheMock := new(CacheMock)
	cacheMock.On("Invalidate", "client:1").Return(nil).Once()

	svc := NewClientService(repo, cacheMock, newNoopLogger())
	assert.NoError(t, svc.Delete(context.Background(), 1))
	repo.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}
