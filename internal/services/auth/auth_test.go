package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/jwt"
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
func (m *EmployeeRepoMock) GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}
func (m *EmployeeRepoMock) UpdateEmployee(ctx context.Context, e models.Employee) error {
	return m.Called(ctx, e).Error(0)
}

type JwtMakerMock struct{ mock.Mock }

func (m *JwtMakerMock) GenerateToken(employeeID int, email, role string) (string, error) {
	args := m.Called(employeeID, email, role)
	return args.String(0), args.Error(1)
}
func (m *JwtMakerMock) ParseToken(tokenStr string) (*jwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.CustomClaims), args.Error(1)
}

func mustHash(t *testing.T, raw string) string {
	t.Helper()
	hashed, err := password.GetHash(raw)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hashed
}

func TestAuthService_Register(t *testing.T) {
	t.Run("defaults role and status", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		maker := new(JwtMakerMock)
		repo.On("CreateEmployee", mock.Anything, mock.MatchedBy(func(e models.Employee) bool {
			return e.Role == models.RoleManager && e.Status == models.EmployeeStatusActive &&
				e.PasswordHash != "" && e.PasswordHash != "secret123"
		})).Return(4, nil).Once()
		repo.On("GetEmployeeByID", mock.Anything, 4).
			Return(&models.Employee{ID: 4, Email: "ivanov@example.com", Role: models.RoleManager}, nil).Once()
		maker.On("GenerateToken", 4, "ivanov@example.com", models.RoleManager).
			Return("token", nil).Once()

		svc := NewAuthService(repo, maker)
		token, employee, err := svc.Register(context.Background(), models.DummyEmployee{
			FullName: "Иванов Иван",
			Email:    "ivanov@example.com",
			Password: "secret123",
		})

		assert.NoError(t, err)
		assert.Equal(t, "token", token)
		assert.Equal(t, 4, employee.ID)
		repo.AssertExpectations(t)
		maker.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		maker := new(JwtMakerMock)
		repo.On("CreateEmployee", mock.Anything, mock.Anything).
			Return(0, errs.ErrConflict).Once()

		svc := NewAuthService(repo, maker)
		_, _, err := svc.Register(context.Background(), models.DummyEmployee{
			FullName: "Иванов Иван",
			Email:    "ivanov@example.com",
			Password: "secret123",
		})

		assert.ErrorIs(t, err, errs.ErrConflict)
		maker.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		maker := new(JwtMakerMock)
		repo.On("GetEmployeeByEmail", mock.Anything, "ivanov@example.com").
			Return(&models.Employee{
				ID: 4, Email: "ivanov@example.com", Role: models.RoleManager,
				PasswordHash: mustHash(t, "secret123"),
			}, nil).Once()
		maker.On("GenerateToken", 4, "ivanov@example.com", models.RoleManager).
			Return("token", nil).Once()

		svc := NewAuthService(repo, maker)
		token, employee, err := svc.Login(context.Background(), "ivanov@example.com", "secret123")

		assert.NoError(t, err)
		assert.Equal(t, "token", token)
		assert.Equal(t, 4, employee.ID)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		repoUnknown := new(EmployeeRepoMock)
		repoUnknown.On("GetEmployeeByEmail", mock.Anything, "ghost@example.com").
			Return(nil, errs.ErrNotFound).Once()

		repoWrongPass := new(EmployeeRepoMock)
		repoWrongPass.On("GetEmployeeByEmail", mock.Anything, "ivanov@example.com").
			Return(&models.Employee{ID: 4, PasswordHash: mustHash(t, "secret123")}, nil).Once()

		maker := new(JwtMakerMock)

		_, _, errUnknown := NewAuthService(repoUnknown, maker).
			Login(context.Background(), "ghost@example.com", "secret123")
		_, _, errWrongPass := NewAuthService(repoWrongPass, maker).
			Login(context.Background(), "ivanov@example.com", "wrong")

		assert.ErrorIs(t, errUnknown, errs.ErrUnauthorized)
		assert.ErrorIs(t, errWrongPass, errs.ErrUnauthorized)
		assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
		maker.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	t.Run("invalid token", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		maker := new(JwtMakerMock)
		maker.On("ParseToken", "broken").Return(nil, errors.New("signature invalid")).Once()

		svc := NewAuthService(repo, maker)
		_, err := svc.ValidateToken(context.Background(), "broken")

		assert.ErrorIs(t, err, errs.ErrUnauthorized)
		repo.AssertNotCalled(t, "GetEmployeeByID", mock.Anything, mock.Anything)
	})

	t.Run("inactive employee rejected", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		maker := new(JwtMakerMock)
		maker.On("ParseToken", "token").
			Return(&jwt.CustomClaims{EmployeeID: 4}, nil).Once()
		repo.On("GetEmployeeByID", mock.Anything, 4).
			Return(&models.Employee{ID: 4, Status: models.EmployeeStatusInactive}, nil).Once()

		svc := NewAuthService(repo, maker)
		_, err := svc.ValidateToken(context.Background(), "token")

		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("active employee passes", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		maker := new(JwtMakerMock)
		maker.On("ParseToken", "token").
			Return(&jwt.CustomClaims{EmployeeID: 4}, nil).Once()
		repo.On("GetEmployeeByID", mock.Anything, 4).
			Return(&models.Employee{ID: 4, Status: models.EmployeeStatusActive}, nil).Once()

		svc := NewAuthService(repo, maker)
		employee, err := svc.ValidateToken(context.Background(), "token")

		assert.NoError(t, err)
		assert.Equal(t, 4, employee.ID)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	t.Run("email taken by another account", func(t *testing.T) {
		newEmail := "busy@example.com"

		repo := new(EmployeeRepoMock)
		repo.On("GetEmployeeByID", mock.Anything, 4).
			Return(&models.Employee{ID: 4, Email: "ivanov@example.com"}, nil).Once()
		repo.On("GetEmployeeByEmail", mock.Anything, newEmail).
			Return(&models.Employee{ID: 7, Email: newEmail}, nil).Once()

		svc := NewAuthService(repo, new(JwtMakerMock))
		_, err := svc.UpdateProfile(context.Background(), 4, models.UpdateProfile{Email: &newEmail})

		assert.ErrorIs(t, err, errs.ErrConflict)
		repo.AssertNotCalled(t, "UpdateEmployee", mock.Anything, mock.Anything)
	})

	t.Run("free email updates", func(t *testing.T) {
		newEmail := "new@example.com"
		newName := "Иванов И. И."

		repo := new(EmployeeRepoMock)
		repo.On("GetEmployeeByID", mock.Anything, 4).
			Return(&models.Employee{ID: 4, Email: "ivanov@example.com", FullName: "Иванов Иван"}, nil).Once()
		repo.On("GetEmployeeByEmail", mock.Anything, newEmail).
			Return(nil, errs.ErrNotFound).Once()
		repo.On("UpdateEmployee", mock.Anything, mock.MatchedBy(func(e models.Employee) bool {
			return e.Email == newEmail && e.FullName == newName
		})).Return(nil).Once()
		repo.On("GetEmployeeByID", mock.Anything, 4).
			Return(&models.Employee{ID: 4, Email: newEmail, FullName: newName}, nil).Once()

		svc := NewAuthService(repo, new(JwtMakerMock))
		employee, err := svc.UpdateProfile(context.Background(), 4, models.UpdateProfile{
			Email:    &newEmail,
			FullName: &newName,
		})

		assert.NoError(t, err)
		assert.Equal(t, newEmail, employee.Email)
		repo.AssertExpectations(t)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Run("wrong current password", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		repo.On("GetEmployeeByID", mock.Anything, 4).
			Return(&models.Employee{ID: 4, PasswordHash: mustHash(t, "secret123")}, nil).Once()

		svc := NewAuthService(repo, new(JwtMakerMock))
		err := svc.ChangePassword(context.Background(), 4, models.ChangePassword{
			CurrentPassword: "wrong",
			NewPassword:     "newsecret",
		})

		assert.ErrorIs(t, err, errs.ErrValidation)
		repo.AssertNotCalled(t, "UpdateEmployee", mock.Anything, mock.Anything)
	})

	t.Run("stores new hash", func(t *testing.T) {
		repo := new(EmployeeRepoMock)
		repo.On("GetEmployeeByID", mock.Anything, 4).
			Return(&models.Employee{ID: 4, PasswordHash: mustHash(t, "secret123")}, nil).Once()
		repo.On("UpdateEmployee", mock.Anything, mock.MatchedBy(func(e models.Employee) bool {
			return password.CompareHash(e.PasswordHash, "newsecret") == nil
		})).Return(nil).Once()

		svc := NewAuthService(repo, new(JwtMakerMock))
		err := svc.ChangePassword(context.Background(), 4, models.ChangePassword{
			CurrentPassword: "secret123",
			NewPassword:     "newsecret",
		})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
