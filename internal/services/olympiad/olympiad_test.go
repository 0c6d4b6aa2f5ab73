package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

type OlympiadRepoMock struct{ mock.Mock }

func (m *OlympiadRepoMock) CreateOlympiad(ctx context.Context, o models.Olympiad) (int, error) {
	args := m.Called(ctx, o)
	return args.Int(0), args.Error(1)
}
func (m *OlympiadRepoMock) GetOlympiadByID(ctx context.Context, id int) (*models.Olympiad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Olympiad), args.Error(1)
}
func (m *OlympiadRepoMock) ListOlympiads(ctx context.Context, filter models.OlympiadFilter) ([]*models.Olympiad, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Olympiad), args.Int(1), args.Error(2)
}
func (m *OlympiadRepoMock) UpdateOlympiad(ctx context.Context, o models.Olympiad) error {
	return m.Called(ctx, o).Error(0)
}
func (m *OlympiadRepoMock) DeleteOlympiad(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}
func (m *OlympiadRepoMock) GetClientByID(ctx context.Context, id int) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}
func (m *OlympiadRepoMock) CreateRegistration(ctx context.Context, clientID, olympiadID int) (int, error) {
	args := m.Called(ctx, clientID, olympiadID)
	return args.Int(0), args.Error(1)
}
func (m *OlympiadRepoMock) GetRegistrationByID(ctx context.Context, olympiadID, registrationID int) (*models.OlympiadRegistration, error) {
	args := m.Called(ctx, olympiadID, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OlympiadRegistration), args.Error(1)
}
func (m *OlympiadRepoMock) ListRegistrationsByOlympiad(ctx context.Context, olympiadID int) ([]*models.OlympiadRegistration, error) {
	args := m.Called(ctx, olympiadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OlympiadRegistration), args.Error(1)
}
func (m *OlympiadRepoMock) UpdateRegistration(ctx context.Context, r models.OlympiadRegistration) error {
	return m.Called(ctx, r).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestOlympiadService_Create(t *testing.T) {
	t.Run("defaults format and status", func(t *testing.T) {
		repo := new(OlympiadRepoMock)
		repo.On("CreateOlympiad", mock.Anything, mock.MatchedBy(func(o models.Olympiad) bool {
			return o.Format == models.FormatOnline && o.Status == models.OlympiadStatusPlanned
		})).Return(1, nil).Once()
		repo.On("GetOlympiadByID", mock.Anything, 1).
			Return(&models.Olympiad{ID: 1, Name: "Весенняя математика"}, nil).Once()

		svc := NewOlympiadService(repo, newNoopLogger())
		olympiad, err := svc.Create(context.Background(), models.DummyOlympiad{
			Name:    "Весенняя математика",
			Subject: "математика",
			Date:    "2026-03-15",
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, olympiad.ID)
		repo.AssertExpectations(t)
	})

	t.Run("invalid date", func(t *testing.T) {
		repo := new(OlympiadRepoMock)
		svc := NewOlympiadService(repo, newNoopLogger())
		_, err := svc.Create(context.Background(), models.DummyOlympiad{
			Name:    "Тест",
			Subject: "физика",
			Date:    "не дата",
		})

		assert.ErrorIs(t, err, errs.ErrValidation)
		repo.AssertNotCalled(t, "CreateOlympiad", mock.Anything, mock.Anything)
	})
}

func TestOlympiadService_Register(t *testing.T) {
	t.Run("missing olympiad", func(t *testing.T) {
		repo := new(OlympiadRepoMock)
		repo.On("GetOlympiadByID", mock.Anything, 9).Return(nil, errs.ErrNotFound).Once()

		svc := NewOlympiadService(repo, newNoopLogger())
		_, err := svc.Register(context.Background(), 9, 1)

		assert.ErrorIs(t, err, errs.ErrNotFound)
		repo.AssertNotCalled(t, "CreateRegistration", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing client", func(t *testing.T) {
		repo := new(OlympiadRepoMock)
		repo.On("GetOlympiadByID", mock.Anything, 9).Return(&models.Olympiad{ID: 9}, nil).Once()
		repo.On("GetClientByID", mock.Anything, 1).Return(nil, errs.ErrNotFound).Once()

		svc := NewOlympiadService(repo, newNoopLogger())
		_, err := svc.Register(context.Background(), 9, 1)

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("duplicate pair conflicts", func(t *testing.T) {
		repo := new(OlympiadRepoMock)
		repo.On("GetOlympiadByID", mock.Anything, 9).Return(&models.Olympiad{ID: 9}, nil).Once()
		repo.On("GetClientByID", mock.Anything, 1).Return(&models.Client{ID: 1}, nil).Once()
		repo.On("CreateRegistration", mock.Anything, 1, 9).Return(0, errs.ErrConflict).Once()

		svc := NewOlympiadService(repo, newNoopLogger())
		_, err := svc.Register(context.Background(), 9, 1)

		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("successful registration", func(t *testing.T) {
		repo := new(OlympiadRepoMock)
		repo.On("GetOlympiadByID", mock.Anything, 9).Return(&models.Olympiad{ID: 9}, nil).Once()
		repo.On("GetClientByID", mock.Anything, 1).Return(&models.Client{ID: 1}, nil).Once()
		repo.On("CreateRegistration", mock.Anything, 1, 9).Return(33, nil).Once()
		repo.On("GetRegistrationByID", mock.Anything, 9, 33).
			Return(&models.OlympiadRegistration{ID: 33, Status: models.RegistrationStatusRegistered}, nil).Once()

		svc := NewOlympiadService(repo, newNoopLogger())
		reg, err := svc.Register(context.Background(), 9, 1)

		assert.NoError(t, err)
		assert.Equal(t, models.RegistrationStatusRegistered, reg.Status)
		repo.AssertExpectations(t)
	})
}

func TestOlympiadService_UpdateRegistration(t *testing.T) {
	t.Run("payment overrides explicit status", func(t *testing.T) {
		cancelled := models.RegistrationStatusCancelled
		amount := 5000.0

		repo := new(OlympiadRepoMock)
		repo.On("GetRegistrationByID", mock.Anything, 9, 33).
			Return(&models.OlympiadRegistration{ID: 33, Status: models.RegistrationStatusRegistered}, nil).Once()
		repo.On("UpdateRegistration", mock.Anything, mock.MatchedBy(func(r models.OlympiadRegistration) bool {
			return r.Status == models.RegistrationStatusPaid && r.PaidAt != nil && r.PaidAmount == amount
		})).Return(nil).Once()
		repo.On("GetRegistrationByID", mock.Anything, 9, 33).
			Return(&models.OlympiadRegistration{ID: 33, Status: models.RegistrationStatusPaid}, nil).Once()

		svc := NewOlympiadService(repo, newNoopLogger())
		reg, err := svc.UpdateRegistration(context.Background(), 9, 33, models.UpdateRegistration{
			Status:     &cancelled,
			PaidAmount: &amount,
		})

		assert.NoError(t, err)
		assert.Equal(t, models.RegistrationStatusPaid, reg.Status)
		repo.AssertExpectations(t)
	})

	t.Run("already paid registration keeps original paid_at", func(t *testing.T) {
		paidAt := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
		amount := 7000.0
		completed := models.RegistrationStatusCompleted

		repo := new(OlympiadRepoMock)
		repo.On("GetRegistrationByID", mock.Anything, 9, 33).
			Return(&models.OlympiadRegistration{
				ID: 33, Status: models.RegistrationStatusPaid, PaidAmount: 5000, PaidAt: &paidAt,
			}, nil).Once()
		repo.On("UpdateRegistration", mock.Anything, mock.MatchedBy(func(r models.OlympiadRegistration) bool {
			return r.Status == completed && r.PaidAt.Equal(paidAt) && r.PaidAmount == amount
		})).Return(nil).Once()
		repo.On("GetRegistrationByID", mock.Anything, 9, 33).
			Return(&models.OlympiadRegistration{ID: 33, Status: completed}, nil).Once()

		svc := NewOlympiadService(repo, newNoopLogger())
		_, err := svc.UpdateRegistration(context.Background(), 9, 33, models.UpdateRegistration{
			Status:     &completed,
			PaidAmount: &amount,
		})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("score and certificate only", func(t *testing.T) {
		score := 87
		url := "https://certs.example.com/33.pdf"

		repo := new(OlympiadRepoMock)
		repo.On("GetRegistrationByID", mock.Anything, 9, 33).
			Return(&models.OlympiadRegistration{ID: 33, Status: models.RegistrationStatusRegistered}, nil).Once()
		repo.On("UpdateRegistration", mock.Anything, mock.MatchedBy(func(r models.OlympiadRegistration) bool {
			return *r.Score == score && r.CertificateURL == url &&
				r.Status == models.RegistrationStatusRegistered && r.PaidAt == nil
		})).Return(nil).Once()
		repo.On("GetRegistrationByID", mock.Anything, 9, 33).
			Return(&models.OlympiadRegistration{ID: 33, Score: &score}, nil).Once()

		svc := NewOlympiadService(repo, newNoopLogger())
		_, err := svc.UpdateRegistration(context.Background(), 9, 33, models.UpdateRegistration{
			Score:          &score,
			CertificateURL: &url,
		})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestOlympiadService_List(t *testing.T) {
	repo := new(OlympiadRepoMock)
	repo.On("ListOlympiads", mock.Anything, mock.MatchedBy(func(f models.OlympiadFilter) bool {
		return f.Page == 1 && f.Limit == 50
	})).Return([]*models.Olympiad{{ID: 1}}, 1, nil).Once()

	svc := NewOlympiadService(repo, newNoopLogger())
	page, err := svc.List(context.Background(), models.OlympiadFilter{})

	assert.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	repo.AssertExpectations(t)
}
