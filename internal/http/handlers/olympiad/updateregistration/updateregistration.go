// Package updateregistration реализует HTTP-обработчик обновления
// регистрации: статус, оплата, результаты.
//
// Первая фиксация оплаты переводит регистрацию в статус paid и
// проставляет дату оплаты независимо от статуса в запросе.
package updateregistration

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

// Handler обрабатывает запросы на обновление регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления регистрации.
type Service interface {
	UpdateRegistration(ctx context.Context, olympiadID, registrationID int, patch models.UpdateRegistration) (*models.OlympiadRegistration, error)
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
// @Summary Обновить регистрацию
// @Description Обновляет статус, оплату, балл и сертификат регистрации.
// @Tags Olympiads
// @Accept  json
// @Produce  json
// @Param id path int true "ID олимпиады"
// @Param registrationId path int true "ID регистрации"
// @Param request body models.UpdateRegistration true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновленная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Регистрация не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /olympiads/{id}/registrations/{registrationId} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.olympiad.updateregistration"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	olympiadID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Некорректный ID олимпиады"))
		return
	}

	registrationID, err := strconv.Atoi(chi.URLParam(r, "registrationId"))
	if err != nil {
		log.Error("failed to decode registration id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Некорректный ID регистрации"))
		return
	}

	var patch models.UpdateRegistration
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

	registration, err := h.service.UpdateRegistration(r.Context(), olympiadID, registrationID, patch)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Регистрация не найдена"))
			return
		}
		log.Error("failed to update registration", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Не удалось обновить регистрацию"))
		return
	}

	log.Info("registration updated",
		slog.Int("olympiad_id", olympiadID),
		slog.Int("registration_id", registrationID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"registration": registration,
	}))
}
