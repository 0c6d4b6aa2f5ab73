// Package list реализует HTTP-обработчик списка сотрудников с фильтрами
// по роли, статусу и поисковой строке.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// Handler обрабатывает запросы на список сотрудников.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка сотрудников.
type Service interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список сотрудников
// @Description Возвращает сотрудников с фильтрами по роли, статусу и поиску по имени или email.
// @Tags Employees
// @Produce  json
// @Param role query string false "Фильтр по роли"
// @Param status query string false "Фильтр по статусу"
// @Param search query string false "Поиск по имени или email"
// @Success 200 {object} map[string]any "Список сотрудников"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав доступа"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /employees [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.employee.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	filter := models.EmployeeFilter{
		Role:   query.Get("role"),
		Status: query.Get("status"),
		Search: query.Get("search"),
	}

	employees, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list employees", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Не удалось получить список сотрудников"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"employees": employees,
	}))
}
