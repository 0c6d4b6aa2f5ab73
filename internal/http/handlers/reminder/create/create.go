// Package create реализует HTTP-обработчик создания напоминания
// о звонке. Владелец напоминания берется из токена.
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
	"github.com/magabrotheeeer/olympiad-crm/internal/http/middlewarectx"
	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// Handler обрабатывает запросы на создание напоминаний.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания напоминания.
type Service interface {
	Create(ctx context.Context, req models.DummyReminder, managerID int) (*models.CallReminder, error)
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
// @Summary Создать напоминание о звонке
// @Description Создает напоминание со статусом pending для текущего сотрудника.
// @Tags Reminders
// @Accept  json
// @Produce  json
// @Param request body models.DummyReminder true "Данные напоминания"
// @Success 200 {object} map[string]any "Созданное напоминание"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или дата"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reminders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reminder.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	managerID, ok := middlewarectx.EmployeeIDFromContext(r.Context())
	if !ok {
		log.Error("employee id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Не авторизован"))
		return
	}

	var req models.DummyReminder
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

	reminder, err := h.service.Create(r.Context(), req, managerID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Клиент не найден"))
		case errors.Is(err, errs.ErrValidation):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Некорректная дата напоминания"))
		default:
			log.Error("failed to create reminder", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Не удалось создать напоминание"))
		}
		return
	}

	log.Info("reminder created",
		slog.Int("id", reminder.ID), slog.Int("client_id", reminder.ClientID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"reminder": reminder,
	}))
}
