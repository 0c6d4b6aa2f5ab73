// Package export реализует HTTP-обработчик выгрузки отчета в xlsx.
// Файл отдается напрямую в тело ответа с заголовком Content-Disposition.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/xuri/excelize/v2"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler обрабатывает запросы на экспорт отчетов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики экспорта.
type Service interface {
	Export(ctx context.Context, exportType string) (*excelize.File, string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Экспорт отчета в xlsx
// @Description Выгружает отчет типа clients или work_time в файл xlsx.
// @Tags Reports
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param type query string true "Тип отчета: clients или work_time"
// @Success 200 {file} file "Файл xlsx"
// @Failure 400 {object} response.ErrorResponse "Неизвестный тип отчета"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав доступа"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reports/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.export"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	exportType := r.URL.Query().Get("type")

	file, filename, err := h.service.Export(r.Context(), exportType)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Неизвестный тип отчета"))
			return
		}
		log.Error("failed to export report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Не удалось выгрузить отчет"))
		return
	}

	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := file.Write(w); err != nil {
		log.Error("failed to write xlsx response", sl.Err(err))
		return
	}

	log.Info("report exported", slog.String("type", exportType), slog.String("filename", filename))
}
