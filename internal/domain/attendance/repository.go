package attendance

import (
	"context"
	"time"
)

type ListFilter struct {
	EmployeeID *string
	From       *time.Time
	To         *time.Time
	Status     *Status
}

type AttendanceRepository interface {
	// Create inserts a checked-in record; a second record for the same
	// employee and date fails with ErrAlreadyCheckedIn.
	Create(ctx context.Context, a Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)
	List(ctx context.Context, filter ListFilter) ([]Attendance, error)
	// RecordCheckOut stores check-out and derived fields only while the
	// record has no check-out yet, otherwise ErrAlreadyCheckedOut.
	RecordCheckOut(ctx context.Context, a Attendance) error
	Update(ctx context.Context, a Attendance) error
}
