package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	h "eventregistry/internal/delivery/http/helpers"
	"eventregistry/internal/domain"
)

// validID reports whether s is a canonical UUID, the shape of every
// server-assigned identifier.
func validID(s string) bool {
	return uuid.Validate(s) == nil
}

// respondServiceError maps domain error kinds to HTTP status codes:
// not-found to 404, validation and conflicts to 400, bad credentials to 401,
// forbidden to 403, everything else to a logged 500. notFoundMsg replaces
// the bare sentinel text so callers see which resource was missing.
func respondServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEventFull),
		errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrEventNotActive),
		errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, domain.ErrDuplicateEmail):
		h.WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.WriteJSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, "forbidden")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
