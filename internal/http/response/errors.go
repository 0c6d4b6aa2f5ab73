package response

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
)

// StatusCode переводит ошибку бизнес-уровня в HTTP-статус.
// Дубликаты исторически возвращают 400, а не 409.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
