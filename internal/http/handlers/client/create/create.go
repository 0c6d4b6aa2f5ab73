// Package create реализует HTTP-обработчик создания клиента.
//
// Принимает JSON с данными лида, валидирует их и вызывает бизнес-логику,
// которая вместе с созданием добавляет запись created в журнал клиента.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/olympiad-crm/internal/http/middlewarectx"
	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// Handler обрабатывает HTTP-запросы на создание клиентов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания клиента.
type Service interface {
	Create(ctx context.Context, req models.DummyClient, actorID int) (*models.Client, error)
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
// @Summary Создать клиента
// @Description Создает нового клиента. Статус по умолчанию new, источник other. В журнал добавляется запись created.
// @Tags Clients
// @Accept  json
// @Produce  json
// @Param request body models.DummyClient true "Данные нового клиента"
// @Success 200 {object} map[string]any "Созданный клиент"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав доступа"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /clients [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyClient
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

	actorID, ok := middlewarectx.EmployeeIDFromContext(r.Context())
	if !ok {
		log.Error("employee id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Не авторизован"))
		return
	}

	client, err := h.service.Create(r.Context(), req, actorID)
	if err != nil {
		log.Error("failed to create client", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("Не удалось создать клиента"))
		return
	}

	log.Info("client created", slog.Int("id", client.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"client": client,
	}))
}
