package http

import (
	"errors"
	"net/http"

	"subtitle-widget/domain/model"
)

// statusForError maps domain errors to the admin API status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrUnsupportedURL):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrAccountNotFound),
		errors.Is(err, model.ErrVideoNotFound),
		errors.Is(err, model.ErrLanguageNotFound),
		errors.Is(err, model.ErrVersionNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrImproperlyConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
