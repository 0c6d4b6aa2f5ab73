// Package report реализует HTTP-обработчик отчета по рабочему времени.
//
// По умолчанию отчет строится для текущего сотрудника за последние 7 дней;
// period=month расширяет окно до 30 дней, явные date_from/date_to имеют
// приоритет. Параметр employee_id позволяет построить отчет по другому
// сотруднику.
package report

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/olympiad-crm/internal/http/middlewarectx"
	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// Handler обрабатывает запросы на отчет по рабочему времени.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отчета.
type Service interface {
	Report(ctx context.Context, employeeID int, period string, from, to *time.Time) (*models.TimerReport, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отчет по рабочему времени
// @Description Агрегирует закрытые сессии за период: суммы минут и перерывов, средняя длительность.
// @Tags Timer
// @Produce  json
// @Param period query string false "Период: week или month"
// @Param date_from query string false "Начало интервала (RFC3339 или 2006-01-02)"
// @Param date_to query string false "Конец интервала (RFC3339 или 2006-01-02)"
// @Param employee_id query int false "ID сотрудника (по умолчанию текущий)"
// @Success 200 {object} map[string]any "Отчет по сессиям"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /timer/report [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.timer.report"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	employeeID, ok := middlewarectx.EmployeeIDFromContext(r.Context())
	if !ok {
		log.Error("employee id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Не авторизован"))
		return
	}
	if v := r.URL.Query().Get("employee_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			employeeID = id
		}
	}

	period := r.URL.Query().Get("period")
	from := parseDateParam(r.URL.Query().Get("date_from"))
	to := parseDateParam(r.URL.Query().Get("date_to"))

	rep, err := h.service.Report(r.Context(), employeeID, period, from, to)
	if err != nil {
		log.Error("failed to build timer report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Не удалось построить отчет"))
		return
	}

	render.JSON(w, r, response.OKWithData(rep))
}

func parseDateParam(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t
	}
	return nil
}
