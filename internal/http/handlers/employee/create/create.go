// Package create реализует HTTP-обработчик создания сотрудника
// директором или заместителем.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// Handler обрабатывает запросы на создание сотрудников.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания сотрудника.
type Service interface {
	Create(ctx context.Context, req models.DummyEmployee) (*models.Employee, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать сотрудника
// @Description Создает сотрудника. Роль по умолчанию manager, статус active.
// @Tags Employees
// @Accept  json
// @Produce  json
// @Param request body models.DummyEmployee true "Данные нового сотрудника"
// @Success 200 {object} map[string]any "Созданный сотрудник"
// @Failure 400 {object} response.ErrorResponse "Сотрудник с таким email уже существует"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав доступа"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /employees [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.employee.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyEmployee
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	employee, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Сотрудник с таким email уже существует"))
			return
		}
		log.Error("failed to create employee", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Не удалось создать сотрудника"))
		return
	}

	log.Info("employee created", slog.Int("id", employee.ID), slog.String("role", employee.Role))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"employee": employee,
	}))
}
