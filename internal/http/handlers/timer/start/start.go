// Package start реализует HTTP-обработчик запуска таймера рабочего времени.
//
// Повторный запуск при уже открытой сессии отклоняется: на сотрудника
// приходится не более одной открытой сессии.
package start

import (
	"context"
	"errors"
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

// Handler обрабатывает запросы на запуск таймера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики запуска таймера.
type Service interface {
	Start(ctx context.Context, employeeID int) (*models.WorkSession, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запустить таймер
// @Description Открывает новую рабочую сессию текущего сотрудника. Повторный запуск при открытой сессии дает ошибку.
// @Tags Timer
// @Produce  json
// @Success 200 {object} map[string]any "Открытая сессия"
// @Failure 400 {object} response.ErrorResponse "Таймер уже запущен"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /timer/start [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.timer.start"

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

	session, err := h.service.Start(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Таймер уже запущен"))
			return
		}
		log.Error("failed to start timer", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Не удалось запустить таймер"))
		return
	}

	log.Info("timer started", slog.Int("session_id", session.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"session": session,
	}))
}
