// Package create реализует HTTP-обработчик создания олимпиады.
// Создание доступно только директору и заместителю.
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

// Handler обрабатывает запросы на создание олимпиад.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания олимпиады.
type Service interface {
	Create(ctx context.Context, req models.DummyOlympiad) (*models.Olympiad, error)
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
// @Summary Создать олимпиаду
// @Description Создает олимпиаду. Формат по умолчанию online, статус planned.
// @Tags Olympiads
// @Accept  json
// @Produce  json
// @Param request body models.DummyOlympiad true "Данные новой олимпиады"
// @Success 200 {object} map[string]any "Созданная олимпиада"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав доступа"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /olympiads [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.olympiad.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyOlympiad
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

	olympiad, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Некорректная дата олимпиады"))
			return
		}
		log.Error("failed to create olympiad", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Не удалось создать олимпиаду"))
		return
	}

	log.Info("olympiad created", slog.Int("id", olympiad.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"olympiad": olympiad,
	}))
}
