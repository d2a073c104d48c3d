package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
)

type Employee struct {
	ID           string
	UserID       string
	EmployeeCode string
	FullName     string
	Email        string
	Role         user.Role
	DepartmentID *string
	ShiftID      *string
	LeaveBalance leave.Balance
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
