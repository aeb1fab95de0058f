package api

import (
	"errors"
	"net/http"
	"strings"

	"sharely/internal/service"
)

var errorKinds = []error{
	service.ErrInvalidInput,
	service.ErrNotFound,
	service.ErrBookingConflict,
	service.ErrConflict,
}

// writeServiceError maps a service error kind to a response status.
// Visibility violations return 404 so the API does not reveal whether
// the entity exists.
func writeServiceError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		statusCode = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, service.ErrBookingConflict):
		statusCode = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		statusCode = http.StatusConflict
	}

	if statusCode == http.StatusInternalServerError {
		writeError(w, statusCode, "internal error")
		return
	}
	writeError(w, statusCode, errorMessage(err))
}

// errorMessage strips the kind sentinel prefix so clients see only the
// human-readable part.
func errorMessage(err error) string {
	msg := err.Error()
	for _, kind := range errorKinds {
		prefix := kind.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
		if msg == kind.Error() {
			return msg
		}
	}
	return msg
}
