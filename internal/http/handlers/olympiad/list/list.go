// Package list реализует HTTP-обработчик списка олимпиад с фильтрами
// и пагинацией.
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

// Handler обрабатывает запросы на список олимпиад.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка олимпиад.
type Service interface {
	List(ctx context.Context, filter models.OlympiadFilter) (*models.OlympiadPage, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список олимпиад
// @Description Возвращает олимпиады с фильтрами по предмету, статусу и диапазону дат.
// @Tags Olympiads
// @Produce  json
// @Param subject query string false "Фильтр по предмету"
// @Param status query string false "Фильтр по статусу"
// @Param date_from query string false "Дата проведения от (2006-01-02)"
// @Param date_to query string false "Дата проведения до (2006-01-02)"
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} map[string]any "Список олимпиад с пагинацией"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /olympiads [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.olympiad.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	filter := models.OlympiadFilter{
		Subject:  query.Get("subject"),
		Status:   query.Get("status"),
		DateFrom: parseDateParam(query.Get("date_from")),
		DateTo:   parseDateParam(query.Get("date_to")),
	}
	if v := query.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			filter.Page = page
		}
	}
	if v := query.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list olympiads", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Не удалось получить список олимпиад"))
		return
	}

	render.JSON(w, r, response.OKWithData(list))
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
