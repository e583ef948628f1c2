package view

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "ordercrm/internal/errors"
)

// PathID reads the positive integer route parameter key. Anything else is
// reported as a not-found error so that handlers answer 404.
func PathID(r *http.Request, key string) (int, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFoundError(fmt.Sprintf("no page for %s %q", key, raw))
	}
	return id, nil
}
