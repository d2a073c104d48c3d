package employee

import "github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"

var (
	ErrEmployeeNotFound   = apperror.NotFound("employee not found")
	ErrEmployeeCodeExists = apperror.Conflict("employee code or email already exists")
	ErrEmployeeInactive   = apperror.Forbidden("employee is inactive")
	ErrShiftInactive      = apperror.Validation("shift is not active")
	ErrForbiddenEmployee  = apperror.Forbidden("you can only view your own employee record")
	ErrSelfDeactivation   = apperror.Forbidden("you cannot deactivate yourself")
)
