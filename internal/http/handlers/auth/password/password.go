// Package password реализует HTTP-обработчик смены пароля сотрудника.
package password

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
	"github.com/magabrotheeeer/olympiad-crm/internal/http/middlewarectx"
	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// Handler обрабатывает запросы на смену пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены пароля.
type Service interface {
	ChangePassword(ctx context.Context, employeeID int, req models.ChangePassword) error
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
// @Summary Сменить пароль
// @Description Меняет пароль текущего сотрудника после проверки текущего пароля.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.ChangePassword true "Текущий и новый пароль"
// @Success 200 {object} map[string]any "Пароль изменен"
// @Failure 400 {object} response.ErrorResponse "Неверный текущий пароль"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/password [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.password"

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

	var req models.ChangePassword
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

	if err := h.service.ChangePassword(r.Context(), employeeID, req); err != nil {
		if errors.Is(err, errs.ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Неверный текущий пароль"))
			return
		}
		log.Error("failed to change password", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("Не удалось сменить пароль"))
		return
	}

	log.Info("password changed", slog.Int("id", employeeID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "Пароль успешно изменен",
	}))
}
