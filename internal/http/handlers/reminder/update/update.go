// Package update реализует HTTP-обработчик частичного обновления
// напоминания о звонке.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// Handler обрабатывает запросы на обновление напоминания.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления напоминания.
type Service interface {
	Update(ctx context.Context, id int, patch models.UpdateReminder) (*models.CallReminder, error)
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
// @Summary Обновить напоминание
// @Description Частично обновляет дату, описание или статус напоминания.
// @Tags Reminders
// @Accept  json
// @Produce  json
// @Param id path int true "ID напоминания"
// @Param request body models.UpdateReminder true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновленное напоминание"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или дата"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Напоминание не найдено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reminders/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reminder.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Некорректный ID напоминания"))
		return
	}

	var patch models.UpdateReminder
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(patch); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	reminder, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Напоминание не найдено"))
		case errors.Is(err, errs.ErrValidation):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Некорректная дата напоминания"))
		default:
			log.Error("failed to update reminder", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Не удалось обновить напоминание"))
		}
		return
	}

	log.Info("reminder updated", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"reminder": reminder,
	}))
}
