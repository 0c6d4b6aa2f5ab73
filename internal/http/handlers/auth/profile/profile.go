// Package profile реализует HTTP-обработчик частичного обновления
// собственного профиля сотрудника.
package profile

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

// Handler обрабатывает запросы на обновление собственного профиля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления профиля.
type Service interface {
	UpdateProfile(ctx context.Context, employeeID int, patch models.UpdateProfile) (*models.Employee, error)
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
// @Summary Обновить профиль
// @Description Частично обновляет профиль текущего сотрудника. Email проверяется на уникальность.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.UpdateProfile true "Изменяемые поля профиля"
// @Success 200 {object} map[string]any "Обновленный профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или занятый email"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"

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

	var patch models.UpdateProfile
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

	employee, err := h.service.UpdateProfile(r.Context(), employeeID, patch)
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Email уже используется"))
			return
		}
		log.Error("failed to update profile", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.Error("Не удалось обновить профиль"))
		return
	}

	log.Info("profile updated", slog.Int("id", employeeID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": employee,
	}))
}
