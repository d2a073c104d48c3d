package employee

import (
	"context"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
)

type ListFilter struct {
	DepartmentID *string
	ShiftID      *string
	ActiveOnly   bool
}

type EmployeeRepository interface {
	leave.BalanceStore

	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, filter ListFilter) ([]Employee, error)
	// SetLeaveBalance overwrites the listed types, leaving others untouched.
	SetLeaveBalance(ctx context.Context, id string, balance leave.Balance) error
	AssignShift(ctx context.Context, id string, shiftID *string) error
	SetActive(ctx context.Context, id string, active bool) error
	CountByShift(ctx context.Context, shiftID string) (int, error)
}
