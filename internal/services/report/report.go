// Package services содержит бизнес-логику отчетов: сводки по клиентам,
// олимпиадам и менеджерам, а также выгрузку в xlsx.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// ReportRepository определяет методы чтения, необходимые отчетам.
type ReportRepository interface {
	// ListAllClients возвращает всех клиентов по фильтру без пагинации.
	ListAllClients(ctx context.Context, filter models.ClientFilter) ([]*models.Client, error)
	// ListEmployees возвращает сотрудников по фильтру.
	ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, error)
	// ListAllOlympiads возвращает все олимпиады по фильтру без пагинации.
	ListAllOlympiads(ctx context.Context, filter models.OlympiadFilter) ([]*models.Olympiad, error)
	// ListRegistrationsByOlympiad возвращает регистрации олимпиады.
	ListRegistrationsByOlympiad(ctx context.Context, olympiadID int) ([]*models.OlympiadRegistration, error)
	// SumClosedSessions возвращает количество и суммарные минуты закрытых сессий.
	SumClosedSessions(ctx context.Context, employeeID int) (int, int, error)
}

// ReportService строит агрегированные отчеты поверх хранилища.
type ReportService struct {
	repo ReportRepository
	log  *slog.Logger
}

// NewReportService создает новый экземпляр ReportService.
func NewReportService(repo ReportRepository, log *slog.Logger) *ReportService {
	return &ReportService{
		repo: repo,
		log:  log,
	}
}

// Clients строит сводку по базе клиентов: всего, по статусам, источникам
// и менеджерам.
func (s *ReportService) Clients(ctx context.Context) (*models.ClientsReport, error) {
	clients, err := s.repo.ListAllClients(ctx, models.ClientFilter{})
	if err != nil {
		return nil, err
	}

	report := &models.ClientsReport{
		Total:     len(clients),
		ByStatus:  make(map[string]int),
		BySource:  make(map[string]int),
		ByManager: make(map[string]int),
	}
	for _, c := range clients {
		report.ByStatus[c.Status]++
		report.BySource[c.Source]++
		manager := c.ManagerName
		if manager == "" {
			manager = "без менеджера"
		}
		report.ByManager[manager]++
	}
	return report, nil
}

// Olympiads строит сводку по олимпиадам: регистрации, оплаты и выручка.
func (s *ReportService) Olympiads(ctx context.Context) (*models.OlympiadsReport, error) {
	olympiads, err := s.repo.ListAllOlympiads(ctx, models.OlympiadFilter{})
	if err != nil {
		return nil, err
	}

	report := &models.OlympiadsReport{
		Total:     len(olympiads),
		BySubject: make(map[string]int),
		ByStatus:  make(map[string]int),
	}
	for _, o := range olympiads {
		report.BySubject[o.Subject]++
		report.ByStatus[o.Status]++

		registrations, err := s.repo.ListRegistrationsByOlympiad(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		summary := &models.OlympiadSummary{
			OlympiadID:    o.ID,
			Name:          o.Name,
			Subject:       o.Subject,
			Status:        o.Status,
			Registrations: len(registrations),
		}
		for _, r := range registrations {
			if r.PaidAt != nil {
				summary.PaidCount++
				summary.Revenue += r.PaidAmount
			}
		}
		report.TotalRevenue += summary.Revenue
		report.Olympiads = append(report.Olympiads, summary)
	}
	return report, nil
}

// Managers строит сводку по менеджерам: клиенты в работе и конверсия —
// доля клиентов, дошедших до оплаты и дальше.
func (s *ReportService) Managers(ctx context.Context) (*models.ManagersReport, error) {
	managers, err := s.repo.ListEmployees(ctx, models.EmployeeFilter{Role: models.RoleManager})
	if err != nil {
		return nil, err
	}

	report := &models.ManagersReport{}
	for _, m := range managers {
		clients, err := s.repo.ListAllClients(ctx, models.ClientFilter{ManagerID: &m.ID})
		if err != nil {
			return nil, err
		}
		summary := &models.ManagerSummary{
			ManagerID:    m.ID,
			FullName:     m.FullName,
			ClientsTotal: len(clients),
		}
		for _, c := range clients {
			switch c.Status {
			case models.ClientStatusPaid, models.ClientStatusParticipating, models.ClientStatusCompleted:
				summary.ClientsPaid++
			}
		}
		if summary.ClientsTotal > 0 {
			summary.ConversionRate = math.Round(float64(summary.ClientsPaid)/float64(summary.ClientsTotal)*10000) / 100
		}
		report.Managers = append(report.Managers, summary)
	}
	return report, nil
}

// Export строит xlsx-файл по типу выгрузки: clients либо work_time.
// Возвращает файл и имя для заголовка Content-Disposition.
func (s *ReportService) Export(ctx context.Context, exportType string) (*excelize.File, string, error) {
	switch exportType {
	case "clients":
		f, err := s.exportClients(ctx)
		return f, "clients.xlsx", err
	case "work_time":
		f, err := s.exportWorkTime(ctx)
		return f, "work_time.xlsx", err
	default:
		return nil, "", fmt.Errorf("неизвестный тип выгрузки: %w", errs.ErrValidation)
	}
}

func (s *ReportService) exportClients(ctx context.Context) (*excelize.File, error) {
	clients, err := s.repo.ListAllClients(ctx, models.ClientFilter{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Клиенты"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"ID", "ФИО", "Телефон", "Возраст", "Класс", "Менеджер", "Статус", "Источник", "Создан"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for row, c := range clients {
		values := []any{c.ID, c.FullName, c.Phone, intOrEmpty(c.Age), c.ClassGrade,
			c.ManagerName, c.Status, c.Source, c.CreatedAt.Format("02.01.2006")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func (s *ReportService) exportWorkTime(ctx context.Context) (*excelize.File, error) {
	employees, err := s.repo.ListEmployees(ctx, models.EmployeeFilter{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Рабочее время"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"ID", "ФИО", "Роль", "Сессий", "Минут", "Часов"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for row, e := range employees {
		count, minutes, err := s.repo.SumClosedSessions(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		values := []any{e.ID, e.FullName, e.Role, count, minutes,
			math.Round(float64(minutes)/60*100) / 100}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func intOrEmpty(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
