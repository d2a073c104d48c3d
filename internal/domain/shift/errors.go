package shift

import "github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"

var (
	ErrInvalidClock     = apperror.Validation("time of day must be HH:MM between 00:00 and 23:59")
	ErrShiftNotFound    = apperror.NotFound("shift not found")
	ErrShiftNameExists  = apperror.Conflict("shift name already exists")
	ErrShiftInUse       = apperror.Conflict("shift is assigned to one or more employees")
	ErrNonPositiveHours = apperror.Validation("break must be shorter than the shift span")
)
