// Package register реализует HTTP-обработчик регистрации клиента
// на олимпиаду. Пара клиент-олимпиада уникальна.
package register

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

// Handler обрабатывает запросы на регистрацию клиента на олимпиаду.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, olympiadID, clientID int) (*models.OlympiadRegistration, error)
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
// @Summary Зарегистрировать клиента на олимпиаду
// @Description Создает регистрацию со статусом registered. Повторная регистрация той же пары отклоняется.
// @Tags Olympiads
// @Accept  json
// @Produce  json
// @Param id path int true "ID олимпиады"
// @Param request body models.DummyRegistration true "ID клиента"
// @Success 200 {object} map[string]any "Созданная регистрация"
// @Failure 400 {object} response.ErrorResponse "Клиент уже зарегистрирован на олимпиаду"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Олимпиада или клиент не найдены"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /olympiads/{id}/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.olympiad.register"

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

	var req models.DummyRegistration
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

	registration, err := h.service.Register(r.Context(), olympiadID, req.ClientID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrConflict):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Клиент уже зарегистрирован на олимпиаду"))
		case errors.Is(err, errs.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Олимпиада или клиент не найдены"))
		default:
			log.Error("failed to register client", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Не удалось зарегистрировать клиента"))
		}
		return
	}

	log.Info("client registered",
		slog.Int("olympiad_id", olympiadID),
		slog.Int("client_id", registration.ClientID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"registration": registration,
	}))
}
