// Package me реализует HTTP-обработчик получения данных текущего сотрудника.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/olympiad-crm/internal/http/middlewarectx"
	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// Handler обрабатывает запросы на чтение собственного профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения профиля.
type Service interface {
	Me(ctx context.Context, employeeID int) (*models.Employee, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущий сотрудник
// @Description Возвращает данные сотрудника из токена.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Данные сотрудника"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

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

	employee, err := h.service.Me(r.Context(), employeeID)
	if err != nil {
		log.Error("failed to read employee", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("Не удалось получить данные сотрудника"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": employee,
	}))
}
