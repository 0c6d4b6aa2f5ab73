package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/password"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

type EmployeeRepoMock struct{ mock.Mock }

func (m *EmployeeRepoMock) CreateEmployee(ctx context.Context, e models.Employee) (int, error) {
	args := m.Called(ctx, e)
	return args.Int(0), args.Error(1)
}
func (m *EmployeeRepoMock) GetEmployeeByID(ctx context.Context, id int) (*models.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}
func (m *EmployeeRepoMock) ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Employee), args.Error(1)
}
func (m *EmployeeRepoMock) UpdateEmployee(ctx context.Context, e models.Employee) error {
	return m.Called(ctx, e).Error(0)
}
func (m *EmployeeRepoMock) DeleteEmployee(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}
func (m *EmployeeRepoMock) CountClientsByManager(ctx context.Context, managerID int) (int, error) {
	args := m.Called(ctx, managerID)
	return args.Int(0), args.Error(1)
}
func (m *EmployeeRepoMock) SumClosedSessions(ctx context.Context, employeeID int) (int, int, error) {
	args := m.Called(ctx, employeeID)
	return args.Int(0), args.Int(1), args.Error(2)
}
func (m *EmployeeRepoMock) ListRecentClosedSessions(ctx context.Context, employeeID, limit int) ([]*models.WorkSession, error) {
	args := m.Called(ctx, employeeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WorkSession), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestEmployeeService_Create(t *testing.T) {
	t.Run("hashes password and defaults role", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		repo.On("CreateEmployee", mock.Anything, mock.MatchedBy(func(e models.Employee) bool {
			return e.Role == models.RoleManager && e.Status == models.EmployeeStatusActive &&
				password.CompareHash(e.PasswordHash, "secret123") == nil
		})).Return(3, nil).Once()
		repo.On("GetEmployeeByID", mock.Anything, 3).
			Return(&models.Employee{ID: 3, Role: models.RoleManager}, nil).Once()

		svc := NewEmployeeService(repo, newNoopLogger())
		employee, err := svc.Create(context.Background(), models.DummyEmployee{
			FullName: "Петрова Анна",
			Email:    "petrova@example.com",
			Password: "secret123",
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, employee.ID)
		repo.AssertExpectations(t)
	})

	t.Run("explicit role kept", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		repo.On("CreateEmployee", mock.Anything, mock.MatchedBy(func(e models.Employee) bool {
			return e.Role == models.RoleMarketer
		})).Return(4, nil).Once()
		repo.On("GetEmployeeByID", mock.Anything, 4).
			Return(&models.Employee{ID: 4, Role: models.RoleMarketer}, nil).Once()

		svc := NewEmployeeService(repo, newNoopLogger())
		_, err := svc.Create(context.Background(), models.DummyEmployee{
			FullName: "Сидоров Петр",
			Email:    "sidorov@example.com",
			Password: "secret123",
			Role:     models.RoleMarketer,
		})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		repo.On("CreateEmployee", mock.Anything, mock.Anything).
			Return(0, errs.ErrConflict).Once()

		svc := NewEmployeeService(repo, newNoopLogger())
		_, err := svc.Create(context.Background(), models.DummyEmployee{
			FullName: "Петрова Анна",
			Email:    "petrova@example.com",
			Password: "secret123",
		})

		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	t.Run("rehashes new password", func(t *testing.T) {
		newPassword := "newsecret"

		repo := new(EmployeeRepoMock)
		repo.On("GetEmployeeByID", mock.Anything, 3).
			Return(&models.Employee{ID: 3, PasswordHash: "old-hash"}, nil).Once()
		repo.On("UpdateEmployee", mock.Anything, mock.MatchedBy(func(e models.Employee) bool {
			return password.CompareHash(e.PasswordHash, newPassword) == nil
		})).Return(nil).Once()
		repo.On("GetEmployeeByID", mock.Anything, 3).
			Return(&models.Employee{ID: 3}, nil).Once()

		svc := NewEmployeeService(repo, newNoopLogger())
		_, err := svc.Update(context.Background(), 3, models.UpdateEmployee{Password: &newPassword})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("status only patch", func(t *testing.T) {
		inactive := models.EmployeeStatusInactive

		repo := new(EmployeeRepoMock)
		repo.On("GetEmployeeByID", mock.Anything, 3).
			Return(&models.Employee{
				ID: 3, FullName: "Петрова Анна", Role: models.RoleManager,
				Status: models.EmployeeStatusActive,
			}, nil).Once()
		repo.On("UpdateEmployee", mock.Anything, mock.MatchedBy(func(e models.Employee) bool {
			return e.Status == inactive && e.FullName == "Петрова Анна" && e.Role == models.RoleManager
		})).Return(nil).Once()
		repo.On("GetEmployeeByID", mock.Anything, 3).
			Return(&models.Employee{ID: 3, Status: inactive}, nil).Once()

		svc := NewEmployeeService(repo, newNoopLogger())
		employee, err := svc.Update(context.Background(), 3, models.UpdateEmployee{Status: &inactive})

		assert.NoError(t, err)
		assert.Equal(t, inactive, employee.Status)
		repo.AssertExpectations(t)
	})

	t.Run("missing employee", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		repo.On("GetEmployeeByID", mock.Anything, 99).Return(nil, errs.ErrNotFound).Once()

		svc := NewEmployeeService(repo, newNoopLogger())
		_, err := svc.Update(context.Background(), 99, models.UpdateEmployee{})

		assert.ErrorIs(t, err, errs.ErrNotFound)
		repo.AssertNotCalled(t, "UpdateEmployee", mock.Anything, mock.Anything)
	})
}

func TestEmployeeService_Activity(t *testing.T) {
	t.Run("aggregates counters and hours", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		repo.On("GetEmployeeByID", mock.Anything, 3).
			Return(&models.Employee{ID: 3}, nil).Once()
		repo.On("CountClientsByManager", mock.Anything, 3).Return(14, nil).Once()
		repo.On("SumClosedSessions", mock.Anything, 3).Return(9, 510, nil).Once()
		repo.On("ListRecentClosedSessions", mock.Anything, 3, 10).
			Return([]*models.WorkSession{{ID: 21}, {ID: 20}}, nil).Once()

		svc := NewEmployeeService(repo, newNoopLogger())
		activity, err := svc.Activity(context.Background(), 3)

		assert.NoError(t, err)
		assert.Equal(t, 14, activity.ClientsCount)
		assert.Equal(t, 9, activity.SessionsCount)
		assert.InDelta(t, 8.5, activity.TotalWorkHours, 0.001)
		assert.Len(t, activity.RecentSessions, 2)
		repo.AssertExpectations(t)
	})

	t.Run("missing employee", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		repo.On("GetEmployeeByID", mock.Anything, 99).Return(nil, errs.ErrNotFound).Once()

		svc := NewEmployeeService(repo, newNoopLogger())
		_, err := svc.Activity(context.Background(), 99)

		assert.ErrorIs(t, err, errs.ErrNotFound)
		repo.AssertNotCalled(t, "CountClientsByManager", mock.Anything, mock.Anything)
	})
}

func TestEmployeeService_List(t *testing.T) {
	repo := new(EmployeeRepoMock)
	repo.On("ListEmployees", mock.Anything, mock.MatchedBy(func(f models.EmployeeFilter) bool {
		return f.Role == models.RoleManager && f.Search == "Петрова"
	})).Return([]*models.Employee{{ID: 3}}, nil).Once()

	svc := NewEmployeeService(repo, newNoopLogger())
	items, err := svc.List(context.Background(), models.EmployeeFilter{
		Role:   models.RoleManager,
		Search: "Петрова",
	})

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	repo.AssertExpectations(t)
}
