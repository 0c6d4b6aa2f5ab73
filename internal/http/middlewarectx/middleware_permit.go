package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/olympiad-crm/internal/http/response"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/rbac"
)

// PermitMiddleware возвращает middleware, проверяющий право роли из токена
// на действие над ресурсом. Отказ отличим от неаутентифицированности:
// здесь 403, в JWTMiddleware — 401.
func PermitMiddleware(resource, action string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.PermitMiddleware"

			role, ok := RoleFromContext(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Не авторизован"))
				return
			}

			if !rbac.Permit(role, resource, action) {
				log.Warn("access denied",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("role", role),
					slog.String("resource", resource),
					slog.String("action", action),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("Недостаточно прав доступа"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
