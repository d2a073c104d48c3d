package department

import "github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"

var (
	ErrDepartmentNotFound   = apperror.NotFound("department not found")
	ErrDepartmentNameExists = apperror.Conflict("department name already exists")
	ErrManagerNotFound      = apperror.Validation("manager does not reference an existing employee")
)
