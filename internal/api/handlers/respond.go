package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/artcampus-be/internal/apperror"
	"github.com/rs/zerolog/log"
)

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError maps the service error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrDuplicateEmail),
		errors.Is(err, apperror.ErrDuplicateUsername):
		status = http.StatusConflict
	case errors.Is(err, apperror.ErrUserNotFound),
		errors.Is(err, apperror.ErrProjectNotFound),
		errors.Is(err, apperror.ErrCommentNotFound),
		errors.Is(err, apperror.ErrNotificationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidPassword),
		errors.Is(err, apperror.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Unhandled service error")
		http.Error(w, "Internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
