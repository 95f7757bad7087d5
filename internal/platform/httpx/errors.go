package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// RespondError maps domain errors to JSON API error responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Fail(w, NewAPIError(http.StatusNotFound, err.Error()))
	case errors.Is(err, ErrDuplicate):
		Fail(w, NewAPIError(http.StatusConflict, err.Error()))
	case errors.Is(err, ErrValidation):
		Fail(w, NewAPIError(http.StatusBadRequest, err.Error()))
	case errors.Is(err, ErrForbidden):
		Fail(w, NewAPIError(http.StatusForbidden, "Insufficient permissions"))
	case errors.Is(err, ErrUnauthorized):
		Fail(w, NewAPIError(http.StatusUnauthorized, err.Error()))
	default:
		Fail(w, NewAPIError(http.StatusInternalServerError, "Internal error"))
	}
}
