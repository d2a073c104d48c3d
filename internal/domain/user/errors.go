package user

import (
	"errors"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"
)

var (
	ErrInvalidToken     = errors.New("invalid or expired access token")
	ErrMissingClaims    = errors.New("access token is missing required claims")
	ErrUnknownRole      = errors.New("access token carries an unknown role")
	ErrPermissionDenied = apperror.Forbidden("you do not have permission to perform this action")
)
