// Package list реализует HTTP-обработчик списка клиентов с фильтрами
// и пагинацией.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// Handler обрабатывает запросы на список клиентов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка клиентов.
type Service interface {
	List(ctx context.Context, filter models.ClientFilter) (*models.ClientPage, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список клиентов
// @Description Возвращает страницу клиентов. Фильтры: status, manager_id, source, search (по имени и телефону). Пагинация: page (по умолчанию 1), limit (по умолчанию 50).
// @Tags Clients
// @Produce  json
// @Param status query string false "Статус клиента"
// @Param manager_id query int false "ID менеджера"
// @Param source query string false "Источник лида"
// @Param search query string false "Поиск по имени и телефону"
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} map[string]any "Страница клиентов"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /clients [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.ClientFilter{
		Status: r.URL.Query().Get("status"),
		Source: r.URL.Query().Get("source"),
		Search: r.URL.Query().Get("search"),
	}
	if v := r.URL.Query().Get("manager_id"); v != "" {
		if managerID, err := strconv.Atoi(v); err == nil {
			filter.ManagerID = &managerID
		}
	}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list clients", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Не удалось получить список клиентов"))
		return
	}

	render.JSON(w, r, response.OKWithData(page))
}
