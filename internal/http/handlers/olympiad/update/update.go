// Package update реализует HTTP-обработчик частичного обновления олимпиады.
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

// Handler обрабатывает запросы на обновление олимпиады.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления олимпиады.
type Service interface {
	Update(ctx context.Context, id int, patch models.UpdateOlympiad) (*models.Olympiad, error)
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
// @Summary Обновить олимпиаду
// @Description Частично обновляет олимпиаду: присутствующие поля перезаписываются, отсутствующие не меняются.
// @Tags Olympiads
// @Accept  json
// @Produce  json
// @Param id path int true "ID олимпиады"
// @Param request body models.UpdateOlympiad true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновленная олимпиада"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав доступа"
// @Failure 404 {object} response.ErrorResponse "Олимпиада не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /olympiads/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.olympiad.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Некорректный ID олимпиады"))
		return
	}

	var patch models.UpdateOlympiad
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

	olympiad, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Олимпиада не найдена"))
		case errors.Is(err, errs.ErrValidation):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Некорректная дата олимпиады"))
		default:
			log.Error("failed to update olympiad", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Не удалось обновить олимпиаду"))
		}
		return
	}

	log.Info("olympiad updated", slog.Int("id", olympiad.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"olympiad": olympiad,
	}))
}
