// Package takebreak реализует HTTP-обработчик добавления перерыва
// к открытой рабочей сессии. Без указания длительности добавляется
// перерыв по умолчанию.
package takebreak

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/http/middlewarectx"
	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// Request — тело запроса перерыва. Длительность необязательна.
type Request struct {
	DurationMinutes int `json:"duration_minutes,omitempty" validate:"omitempty,gt=0"`
}

// Handler обрабатывает запросы на перерыв.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики перерыва.
type Service interface {
	Break(ctx context.Context, employeeID, minutes int) (*models.WorkSession, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Добавить перерыв
// @Description Накапливает минуты перерыва в открытой сессии. Без тела запроса добавляется 15 минут. Перерывы могут повторяться.
// @Tags Timer
// @Accept  json
// @Produce  json
// @Param request body Request false "Длительность перерыва в минутах"
// @Success 200 {object} map[string]any "Сессия с обновленным перерывом"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Нет активной сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /timer/break [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.timer.takebreak"

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

	// Тело запроса опционально: пустое тело означает перерыв по умолчанию.
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	session, err := h.service.Break(r.Context(), employeeID, req.DurationMinutes)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Нет активной сессии"))
			return
		}
		log.Error("failed to add break", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Не удалось добавить перерыв"))
		return
	}

	log.Info("break added", slog.Int("session_id", session.ID),
		slog.Int("break_duration", session.BreakDuration))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"session": session,
	}))
}
