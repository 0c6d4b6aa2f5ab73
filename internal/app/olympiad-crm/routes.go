// Package olympiadcrm предоставляет маршруты основного приложения.
package olympiadcrm

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	authlogin "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/auth/login"
	authme "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/auth/me"
	authpassword "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/auth/password"
	authprofile "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/auth/profile"
	authregister "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/auth/register"
	clientcreate "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/client/create"
	clienthistory "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/client/history"
	clientlist "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/client/list"
	clientread "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/client/read"
	clientregistrations "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/client/registrations"
	clientremove "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/client/remove"
	clientupdate "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/client/update"
	employeeactivity "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/employee/activity"
	employeecreate "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/employee/create"
	employeelist "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/employee/list"
	employeeread "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/employee/read"
	employeeremove "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/employee/remove"
	employeeupdate "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/employee/update"
	olympiadcreate "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/olympiad/create"
	olympiadlist "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/olympiad/list"
	olympiadread "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/olympiad/read"
	olympiadregister "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/olympiad/register"
	olympiadregistrations "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/olympiad/registrations"
	olympiadremove "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/olympiad/remove"
	olympiadupdate "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/olympiad/update"
	olympiadupdreg "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/olympiad/updateregistration"
	remindercreate "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/reminder/create"
	reminderlist "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/reminder/list"
	reminderremove "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/reminder/remove"
	reminderupdate "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/reminder/update"
	reportclients "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/report/clients"
	reportexport "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/report/export"
	reportmanagers "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/report/managers"
	reportolympiads "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/report/olympiads"
	timercurrent "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/timer/current"
	timerreport "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/timer/report"
	timerstart "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/timer/start"
	timerstop "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/timer/stop"
	timertakebreak "github.com/magabrotheeeer/olympiad-crm/internal/http/handlers/timer/takebreak"
	"github.com/magabrotheeeer/olympiad-crm/internal/http/middlewarectx"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/rbac"
	authservice "github.com/magabrotheeeer/olympiad-crm/internal/services/auth"
	clientservice "github.com/magabrotheeeer/olympiad-crm/internal/services/client"
	employeeservice "github.com/magabrotheeeer/olympiad-crm/internal/services/employee"
	olympiadservice "github.com/magabrotheeeer/olympiad-crm/internal/services/olympiad"
	reminderservice "github.com/magabrotheeeer/olympiad-crm/internal/services/reminder"
	reportservice "github.com/magabrotheeeer/olympiad-crm/internal/services/report"
	timerservice "github.com/magabrotheeeer/olympiad-crm/internal/services/timer"
)

// Services — набор сервисов, используемых маршрутами приложения.
type Services struct {
	Auth     *authservice.AuthService
	Client   *clientservice.ClientService
	Timer    *timerservice.TimerService
	Olympiad *olympiadservice.OlympiadService
	Employee *employeeservice.EmployeeService
	Reminder *reminderservice.ReminderService
	Report   *reportservice.ReportService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	permit := func(resource, action string) func(next http.Handler) http.Handler {
		return middlewarectx.PermitMiddleware(resource, action, logger)
	}

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/login", authlogin.New(logger, s.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.With(permit(rbac.ResourceEmployees, rbac.ActionRegister)).
				Post("/auth/register", authregister.New(logger, s.Auth).ServeHTTP)
			r.Get("/auth/me", authme.New(logger, s.Auth).ServeHTTP)
			r.Put("/auth/profile", authprofile.New(logger, s.Auth).ServeHTTP)
			r.Put("/auth/password", authpassword.New(logger, s.Auth).ServeHTTP)

			// Таймер доступен любому активному сотруднику, матрица прав
			// к нему не применяется.
			r.Post("/timer/start", timerstart.New(logger, s.Timer).ServeHTTP)
			r.Post("/timer/stop", timerstop.New(logger, s.Timer).ServeHTTP)
			r.Post("/timer/break", timertakebreak.New(logger, s.Timer).ServeHTTP)
			r.Get("/timer/current", timercurrent.New(logger, s.Timer).ServeHTTP)
			r.Get("/timer/report", timerreport.New(logger, s.Timer).ServeHTTP)

			r.With(permit(rbac.ResourceClients, rbac.ActionRead)).
				Get("/clients", clientlist.New(logger, s.Client).ServeHTTP)
			r.With(permit(rbac.ResourceClients, rbac.ActionRead)).
				Get("/clients/{id}", clientread.New(logger, s.Client).ServeHTTP)
			r.With(permit(rbac.ResourceClients, rbac.ActionRead)).
				Get("/clients/{id}/history", clienthistory.New(logger, s.Client).ServeHTTP)
			r.With(permit(rbac.ResourceClients, rbac.ActionRead)).
				Get("/clients/{id}/registrations", clientregistrations.New(logger, s.Client).ServeHTTP)
			r.With(permit(rbac.ResourceClients, rbac.ActionWrite)).
				Post("/clients", clientcreate.New(logger, s.Client).ServeHTTP)
			r.With(permit(rbac.ResourceClients, rbac.ActionWrite)).
				Put("/clients/{id}", clientupdate.New(logger, s.Client).ServeHTTP)
			r.With(permit(rbac.ResourceClients, rbac.ActionDelete)).
				Delete("/clients/{id}", clientremove.New(logger, s.Client).ServeHTTP)

			r.With(permit(rbac.ResourceOlympiads, rbac.ActionRead)).
				Get("/olympiads", olympiadlist.New(logger, s.Olympiad).ServeHTTP)
			r.With(permit(rbac.ResourceOlympiads, rbac.ActionRead)).
				Get("/olympiads/{id}", olympiadread.New(logger, s.Olympiad).ServeHTTP)
			r.With(permit(rbac.ResourceOlympiads, rbac.ActionRead)).
				Get("/olympiads/{id}/registrations", olympiadregistrations.New(logger, s.Olympiad).ServeHTTP)
			r.With(permit(rbac.ResourceOlympiads, rbac.ActionCreate)).
				Post("/olympiads", olympiadcreate.New(logger, s.Olympiad).ServeHTTP)
			r.With(permit(rbac.ResourceOlympiads, rbac.ActionWrite)).
				Put("/olympiads/{id}", olympiadupdate.New(logger, s.Olympiad).ServeHTTP)
			r.With(permit(rbac.ResourceOlympiads, rbac.ActionWrite)).
				Post("/olympiads/{id}/register", olympiadregister.New(logger, s.Olympiad).ServeHTTP)
			r.With(permit(rbac.ResourceOlympiads, rbac.ActionWrite)).
				Put("/olympiads/{id}/registrations/{registrationId}", olympiadupdreg.New(logger, s.Olympiad).ServeHTTP)
			r.With(permit(rbac.ResourceOlympiads, rbac.ActionDelete)).
				Delete("/olympiads/{id}", olympiadremove.New(logger, s.Olympiad).ServeHTTP)

			r.With(permit(rbac.ResourceEmployees, rbac.ActionRead)).
				Get("/employees", employeelist.New(logger, s.Employee).ServeHTTP)
			r.With(permit(rbac.ResourceEmployees, rbac.ActionRead)).
				Get("/employees/{id}", employeeread.New(logger, s.Employee).ServeHTTP)
			r.With(permit(rbac.ResourceEmployees, rbac.ActionRead)).
				Get("/employees/{id}/activity", employeeactivity.New(logger, s.Employee).ServeHTTP)
			r.With(permit(rbac.ResourceEmployees, rbac.ActionWrite)).
				Post("/employees", employeecreate.New(logger, s.Employee).ServeHTTP)
			r.With(permit(rbac.ResourceEmployees, rbac.ActionWrite)).
				Put("/employees/{id}", employeeupdate.New(logger, s.Employee).ServeHTTP)
			r.With(permit(rbac.ResourceEmployees, rbac.ActionDelete)).
				Delete("/employees/{id}", employeeremove.New(logger, s.Employee).ServeHTTP)

			r.With(permit(rbac.ResourceReminders, rbac.ActionRead)).
				Get("/reminders", reminderlist.New(logger, s.Reminder).ServeHTTP)
			r.With(permit(rbac.ResourceReminders, rbac.ActionWrite)).
				Post("/reminders", remindercreate.New(logger, s.Reminder).ServeHTTP)
			r.With(permit(rbac.ResourceReminders, rbac.ActionWrite)).
				Put("/reminders/{id}", reminderupdate.New(logger, s.Reminder).ServeHTTP)
			r.With(permit(rbac.ResourceReminders, rbac.ActionDelete)).
				Delete("/reminders/{id}", reminderremove.New(logger, s.Reminder).ServeHTTP)

			r.With(permit(rbac.ResourceReports, rbac.ActionRead)).
				Get("/reports/clients", reportclients.New(logger, s.Report).ServeHTTP)
			r.With(permit(rbac.ResourceReports, rbac.ActionRead)).
				Get("/reports/olympiads", reportolympiads.New(logger, s.Report).ServeHTTP)
			r.With(permit(rbac.ResourceReports, rbac.ActionRead)).
				Get("/reports/managers", reportmanagers.New(logger, s.Report).ServeHTTP)
			r.With(permit(rbac.ResourceReports, rbac.ActionRead)).
				Get("/reports/export", reportexport.New(logger, s.Report).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
