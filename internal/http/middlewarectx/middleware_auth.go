// Package middlewarectx содержит HTTP middleware аутентификации,
// авторизации и ограничения частоты запросов.
//
// JWTMiddleware проверяет токен из заголовка Authorization, загружает
// сотрудника и кладет его id, email и роль в контекст запроса. Любая
// причина отказа дает одинаковый ответ 401 — причина наружу не
// раскрывается.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// EmployeeID — ключ для ID сотрудника в контексте.
	EmployeeID Key = "employee_id"
	// Email — ключ для email сотрудника в контексте.
	Email Key = "email"
	// Role — ключ для роли сотрудника в контексте.
	Role Key = "role"
)

// Service описывает интерфейс сервиса для валидации JWT токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.Employee, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT
// в заголовке Authorization.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Не авторизован"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			employee, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid token or inactive employee")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Не авторизован"))
				return
			}

			ctx := context.WithValue(r.Context(), EmployeeID, employee.ID)
			ctx = context.WithValue(ctx, Email, employee.Email)
			ctx = context.WithValue(ctx, Role, employee.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmployeeIDFromContext достает ID сотрудника, положенный JWTMiddleware.
func EmployeeIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(EmployeeID).(int)
	return id, ok
}

// RoleFromContext достает роль сотрудника, положенную JWTMiddleware.
func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(Role).(string)
	return role, ok
}
