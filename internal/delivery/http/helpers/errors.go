package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"teamhub/internal/domain"
)

// WriteServiceError maps a service error to its HTTP status and error code.
// Unclassified errors are logged and reported as 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var se *domain.StoreError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.As(err, &se):
		msg := string(se.Kind) + " violation"
		if se.Constraint != "" {
			msg += ": " + se.Constraint
		}
		if se.Kind == domain.KindUnique {
			WriteJSONError(w, http.StatusConflict, ErrCodeConflict, msg)
			return
		}
		WriteJSONError(w, http.StatusUnprocessableEntity, ErrCodeConstraintViolation, msg)
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}
