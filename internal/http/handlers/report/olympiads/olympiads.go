// Package olympiads реализует HTTP-обработчик сводного отчета по олимпиадам.
package olympiads

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// Handler обрабатывает запросы на отчет по олимпиадам.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отчета по олимпиадам.
type Service interface {
	Olympiads(ctx context.Context) (*models.OlympiadsReport, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отчет по олимпиадам
// @Description Возвращает распределение олимпиад по предметам и статусам, регистрации и выручку по оплаченным участиям.
// @Tags Reports
// @Produce  json
// @Success 200 {object} map[string]any "Сводный отчет"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав доступа"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reports/olympiads [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.olympiads"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	report, err := h.service.Olympiads(r.Context())
	if err != nil {
		log.Error("failed to build olympiads report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Не удалось построить отчет"))
		return
	}

	render.JSON(w, r, response.OKWithData(report))
}
