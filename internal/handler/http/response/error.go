package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Token problems
	case errors.Is(err, jwtauth.ErrNoTokenFound),
		errors.Is(err, jwtauth.ErrExpired),
		errors.Is(err, jwtauth.ErrUnauthorized),
		errors.Is(err, jwtauth.ErrIATInvalid),
		errors.Is(err, jwtauth.ErrNBFInvalid),
		errors.Is(err, user.ErrInvalidToken),
		errors.Is(err, user.ErrMissingClaims),
		errors.Is(err, user.ErrUnknownRole):
		Unauthorized(w, apperror.Message(err))

	case errors.Is(err, apperror.ErrValidation):
		BadRequest(w, apperror.Message(err), nil)
	case errors.Is(err, apperror.ErrConflict):
		Conflict(w, apperror.Message(err))
	case errors.Is(err, apperror.ErrState):
		InvalidState(w, apperror.Message(err))
	case errors.Is(err, apperror.ErrNotFound):
		NotFound(w, apperror.Message(err))
	case errors.Is(err, apperror.ErrForbidden):
		Forbidden(w, apperror.Message(err))

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
