// Package list реализует HTTP-обработчик списка напоминаний о звонках.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// Handler обрабатывает запросы на список напоминаний.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка напоминаний.
type Service interface {
	List(ctx context.Context, filter models.ReminderFilter) ([]*models.CallReminder, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список напоминаний
// @Description Возвращает напоминания с фильтрами по менеджеру, статусу и датам, ближайшие первыми.
// @Tags Reminders
// @Produce  json
// @Param manager_id query int false "Фильтр по менеджеру"
// @Param status query string false "Фильтр по статусу"
// @Param date_from query string false "Дата напоминания от"
// @Param date_to query string false "Дата напоминания до"
// @Success 200 {object} map[string]any "Список напоминаний"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reminders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reminder.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	filter := models.ReminderFilter{
		Status:   query.Get("status"),
		DateFrom: parseDateParam(query.Get("date_from")),
		DateTo:   parseDateParam(query.Get("date_to")),
	}
	if v := query.Get("manager_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			filter.ManagerID = &id
		}
	}

	reminders, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list reminders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Не удалось получить список напоминаний"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"reminders": reminders,
	}))
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
