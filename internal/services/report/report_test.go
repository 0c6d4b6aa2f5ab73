package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

type ReportRepoMock struct{ mock.Mock }

func (m *ReportRepoMock) ListAllClients(ctx context.Context, filter models.ClientFilter) ([]*models.Client, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Client), args.Error(1)
}
func (m *ReportRepoMock) ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Employee), args.Error(1)
}
func (m *ReportRepoMock) ListAllOlympiads(ctx context.Context, filter models.OlympiadFilter) ([]*models.Olympiad, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Olympiad), args.Error(1)
}
func (m *ReportRepoMock) ListRegistrationsByOlympiad(ctx context.Context, olympiadID int) ([]*models.OlympiadRegistration, error) {
	args := m.Called(ctx, olympiadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OlympiadRegistration), args.Error(1)
}
func (m *ReportRepoMock) SumClosedSessions(ctx context.Context, employeeID int) (int, int, error) {
	args := m.Called(ctx, employeeID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestReportService_Clients(t *testing.T) {
	repo := new(ReportRepoMock)
	repo.On("ListAllClients", mock.Anything, models.ClientFilter{}).
		Return([]*models.Client{
			{ID: 1, Status: models.ClientStatusNew, Source: "instagram", ManagerName: "Петрова Анна"},
			{ID: 2, Status: models.ClientStatusPaid, Source: "instagram", ManagerName: "Петрова Анна"},
			{ID: 3, Status: models.ClientStatusNew, Source: "direct"},
		}, nil).Once()

	svc := NewReportService(repo, newNoopLogger())
	report, err := svc.Clients(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.ByStatus[models.ClientStatusNew])
	assert.Equal(t, 2, report.BySource["instagram"])
	assert.Equal(t, 2, report.ByManager["Петрова Анна"])
	assert.Equal(t, 1, report.ByManager["без менеджера"])
	repo.AssertExpectations(t)
}

func TestReportService_Olympiads(t *testing.T) {
	paidAt := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	repo := new(ReportRepoMock)
	repo.On("ListAllOlympiads", mock.Anything, models.OlympiadFilter{}).
		Return([]*models.Olympiad{
			{ID: 1, Name: "Весенняя математика", Subject: "математика", Status: models.OlympiadStatusPlanned},
			{ID: 2, Name: "Осенняя физика", Subject: "физика", Status: models.OlympiadStatusCompleted},
		}, nil).Once()
	repo.On("ListRegistrationsByOlympiad", mock.Anything, 1).
		Return([]*models.OlympiadRegistration{
			{ID: 10, PaidAmount: 3000, PaidAt: &paidAt},
			{ID: 11},
		}, nil).Once()
	repo.On("ListRegistrationsByOlympiad", mock.Anything, 2).
		Return([]*models.OlympiadRegistration{
			{ID: 12, PaidAmount: 4500, PaidAt: &paidAt},
		}, nil).Once()

	svc := NewReportService(repo, newNoopLogger())
	report, err := svc.Olympiads(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.BySubject["математика"])
	assert.InDelta(t, 7500, report.TotalRevenue, 0.001)
	require.Len(t, report.Olympiads, 2)
	assert.Equal(t, 2, report.Olympiads[0].Registrations)
	assert.Equal(t, 1, report.Olympiads[0].PaidCount)
	assert.InDelta(t, 3000, report.Olympiads[0].Revenue, 0.001)
	repo.AssertExpectations(t)
}

func TestReportService_Managers(t *testing.T) {
	repo := new(ReportRepoMock)
	repo.On("ListEmployees", mock.Anything, models.EmployeeFilter{Role: models.RoleManager}).
		Return([]*models.Employee{
			{ID: 2, FullName: "Петрова Анна"},
			{ID: 3, FullName: "Сидоров Петр"},
		}, nil).Once()
	repo.On("ListAllClients", mock.Anything, mock.MatchedBy(func(f models.ClientFilter) bool {
		return f.ManagerID != nil && *f.ManagerID == 2
	})).Return([]*models.Client{
		{ID: 1, Status: models.ClientStatusPaid},
		{ID: 2, Status: models.ClientStatusParticipating},
		{ID: 3, Status: models.ClientStatusNew},
	}, nil).Once()
	repo.On("ListAllClients", mock.Anything, mock.MatchedBy(func(f models.ClientFilter) bool {
		return f.ManagerID != nil && *f.ManagerID == 3
	})).Return([]*models.Client{}, nil).Once()

	svc := NewReportService(repo, newNoopLogger())
	report, err := svc.Managers(context.Background())

	require.NoError(t, err)
	require.Len(t, report.Managers, 2)
	assert.Equal(t, 3, report.Managers[0].ClientsTotal)
	assert.Equal(t, 2, report.Managers[0].ClientsPaid)
	assert.InDelta(t, 66.67, report.Managers[0].ConversionRate, 0.001)
	assert.Zero(t, report.Managers[1].ConversionRate)
	repo.AssertExpectations(t)
}

func TestReportService_Export(t *testing.T) {
	t.Run("clients sheet", func(t *testing.T) {
		age := 12

		repo := new(ReportRepoMock)
		repo.On("ListAllClients", mock.Anything, models.ClientFilter{}).
			Return([]*models.Client{
				{ID: 1, FullName: "Смирнов Алексей", Phone: "+79001112233", Age: &age,
					Status: models.ClientStatusNew, Source: "instagram",
					CreatedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
			}, nil).Once()

		svc := NewReportService(repo, newNoopLogger())
		file, filename, err := svc.Export(context.Background(), "clients")

		require.NoError(t, err)
		assert.Equal(t, "clients.xlsx", filename)

		name, err := file.GetCellValue("Клиенты", "B2")
		require.NoError(t, err)
		assert.Equal(t, "Смирнов Алексей", name)
		created, err := file.GetCellValue("Клиенты", "I2")
		require.NoError(t, err)
		assert.Equal(t, "15.01.2026", created)
	})

	t.Run("work time sheet", func(t *testing.T) {
		repo := new(ReportRepoMock)
		repo.On("ListEmployees", mock.Anything, models.EmployeeFilter{}).
			Return([]*models.Employee{{ID: 2, FullName: "Петрова Анна", Role: models.RoleManager}}, nil).Once()
		repo.On("SumClosedSessions", mock.Anything, 2).Return(4, 255, nil).Once()

		svc := NewReportService(repo, newNoopLogger())
		file, filename, err := svc.Export(context.Background(), "work_time")

		require.NoError(t, err)
		assert.Equal(t, "work_time.xlsx", filename)

		hours, err := file.GetCellValue("Рабочее время", "F2")
		require.NoError(t, err)
		assert.Equal(t, "4.25", hours)
	})

	t.Run("unknown type", func(t *testing.T) {
		svc := NewReportService(new(ReportRepoMock), newNoopLogger())
		_, _, err := svc.Export(context.Background(), "payments")

		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}
