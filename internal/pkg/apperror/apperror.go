// Package apperror classifies domain errors so the transport layer can map
// them to status codes without knowing every sentinel.
package apperror

import "errors"

// Error kinds.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrState      = errors.New("invalid state")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

// Is reports whether target is the error's kind, so errors.Is matches both
// the sentinel itself and its kind.
func (e *kindError) Is(target error) bool {
	return target == e.kind
}

func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func Validation(msg string) error { return New(ErrValidation, msg) }

func Conflict(msg string) error { return New(ErrConflict, msg) }

func State(msg string) error { return New(ErrState, msg) }

func NotFound(msg string) error { return New(ErrNotFound, msg) }

func Forbidden(msg string) error { return New(ErrForbidden, msg) }

// KindOf returns the kind err belongs to, or nil when it carries none.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrConflict, ErrState, ErrNotFound, ErrForbidden} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Message returns the innermost classified message, or err.Error() when err
// carries no kind.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return err.Error()
}
