package httpx

import (
	"errors"
	"net/http"

	"github.com/casavia/casavia/internal/shared"
)

// Error converts a service failure into the uniform `{"message": ...}`
// payload. Domain errors pick their own status (default 400); anything
// else is reported as an internal error without leaking detail.
func Error(w http.ResponseWriter, err error) {
	var domain *shared.Error
	if errors.As(err, &domain) {
		JSON(w, domain.Status(), ErrorBody{Message: domain.Message})
		return
	}
	JSON(w, http.StatusInternalServerError, ErrorBody{Message: "An error occured"})
}

// BadRequest reports a request-shape problem with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, ErrorBody{Message: message})
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(w http.ResponseWriter) {
	JSON(w, http.StatusUnauthorized, ErrorBody{Message: "Unauthenticated"})
}
