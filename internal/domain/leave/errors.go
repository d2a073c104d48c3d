package leave

import "github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"

var (
	ErrLeaveRequestNotFound         = apperror.NotFound("leave request not found")
	ErrInsufficientBalance          = apperror.Conflict("insufficient leave balance")
	ErrOverlappingLeave             = apperror.Conflict("leave request overlaps an existing pending or approved leave")
	ErrLeaveRequestAlreadyProcessed = apperror.State("leave request is no longer pending")
	ErrInvalidDateRange             = apperror.Validation("start date must be before end date")
	ErrStartDateInPast              = apperror.Validation("start date must not be in the past")
	ErrInvalidType                  = apperror.Validation("invalid leave type")
	ErrInvalidDuration              = apperror.Validation("leave duration must be positive")
	ErrUnauthorized                 = apperror.Forbidden("unauthorized to access this leave request")
	ErrSelfApproval                 = apperror.Forbidden("you cannot approve or reject your own leave request")
)
