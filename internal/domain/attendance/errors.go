package attendance

import "github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"

// Attendance domain errors
var (
	// Check-in / check-out
	ErrAlreadyCheckedIn      = apperror.Conflict("you have already checked in today")
	ErrNotCheckedIn          = apperror.State("you have not checked in yet")
	ErrAlreadyCheckedOut     = apperror.State("you have already checked out")
	ErrCheckOutBeforeCheckIn = apperror.Validation("check-out time must not be before check-in time")
	ErrPunchInFuture         = apperror.Validation("punch time must not be in the future")
	ErrCheckInOutsideDay     = apperror.Validation("corrected check-in must fall on the record's date")

	// Values
	ErrInvalidMethod = apperror.Validation("method must be one of manual, biometric, system")
	ErrInvalidStatus = apperror.Validation("invalid attendance status")

	// General
	ErrAttendanceNotFound = apperror.NotFound("attendance record not found")
	ErrUnauthorized       = apperror.Forbidden("unauthorized to access this attendance record")
)
