package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errs.ErrValidation, http.StatusBadRequest},
		{"unauthorized", errs.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", errs.ErrForbidden, http.StatusForbidden},
		{"not found", errs.ErrNotFound, http.StatusNotFound},
		{"conflict maps to 400", errs.ErrConflict, http.StatusBadRequest},
		{"wrapped conflict", fmt.Errorf("email уже используется: %w", errs.ErrConflict), http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"nil-like plain error", errors.New(""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}
