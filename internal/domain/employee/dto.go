package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	UserID       *string            `json:"user_id,omitempty"`
	EmployeeCode string             `json:"employee_code"`
	FullName     string             `json:"full_name"`
	Email        string             `json:"email"`
	Role         string             `json:"role"`
	DepartmentID *string            `json:"department_id,omitempty"`
	ShiftID      *string            `json:"shift_id,omitempty"`
	LeaveBalance map[string]float64 `json:"leave_balance,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code must be 3-20 upper-case letters, digits or dashes")
	}
	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	} else if len(r.FullName) > 255 {
		errs.Add("full_name", "full_name must not exceed 255 characters")
	}
	if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if !validator.IsInSlice(r.Role, user.RoleValues) {
		errs.Add("role", "role must be one of admin, manager, employee")
	}
	if r.UserID != nil && validator.IsEmpty(*r.UserID) {
		errs.Add("user_id", "user_id must not be empty")
	}
	if r.DepartmentID != nil && !validator.IsValidUUID(*r.DepartmentID) {
		errs.Add("department_id", "department_id must be a valid UUID")
	}
	if r.ShiftID != nil && !validator.IsValidUUID(*r.ShiftID) {
		errs.Add("shift_id", "shift_id must be a valid UUID")
	}
	validateBalances(&errs, r.LeaveBalance)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateBalances(errs *validator.ValidationErrors, balances map[string]float64) {
	for name, days := range balances {
		if !validator.IsInSlice(name, leave.TypeValues) {
			errs.Add("leave_balance."+name, "unknown leave type")
			continue
		}
		if days < 0 {
			errs.Add("leave_balance."+name, "balance must not be negative")
		}
	}
}

func toBalance(m map[string]float64) leave.Balance {
	b := make(leave.Balance, len(m))
	for name, days := range m {
		b[leave.Type(name)] = days
	}
	return b
}

// Balance returns the requested balances layered over defaults.
func (r *CreateEmployeeRequest) Balance(defaults leave.Balance) leave.Balance {
	b := defaults.Clone()
	for t, days := range toBalance(r.LeaveBalance) {
		b[t] = days
	}
	return b
}

type SetLeaveBalanceRequest struct {
	EmployeeID string             `json:"-"`
	Balances   map[string]float64 `json:"balances"`
}

func (r *SetLeaveBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("id", "id is required")
	}
	if len(r.Balances) == 0 {
		errs.Add("balances", "at least one leave type balance is required")
	}
	validateBalances(&errs, r.Balances)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *SetLeaveBalanceRequest) Balance() leave.Balance {
	return toBalance(r.Balances)
}

type AssignShiftRequest struct {
	EmployeeID string `json:"-"`
	// ShiftID nil clears the assignment.
	ShiftID *string `json:"shift_id"`
}

func (r *AssignShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("id", "id is required")
	}
	if r.ShiftID != nil && !validator.IsValidUUID(*r.ShiftID) {
		errs.Add("shift_id", "shift_id must be a valid UUID")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetActiveRequest struct {
	EmployeeID string `json:"-"`
	IsActive   *bool  `json:"is_active"`
}

func (r *SetActiveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("id", "id is required")
	}
	if r.IsActive == nil {
		errs.Add("is_active", "is_active is required")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeFilter struct {
	DepartmentID *string
	ShiftID      *string
	ActiveOnly   bool
}

func (f EmployeeFilter) ToListFilter() ListFilter {
	return ListFilter(f)
}

type EmployeeResponse struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	EmployeeCode string             `json:"employee_code"`
	FullName     string             `json:"full_name"`
	Email        string             `json:"email"`
	Role         string             `json:"role"`
	DepartmentID *string            `json:"department_id,omitempty"`
	ShiftID      *string            `json:"shift_id,omitempty"`
	LeaveBalance map[string]float64 `json:"leave_balance"`
	IsActive     bool               `json:"is_active"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		Email:        e.Email,
		Role:         string(e.Role),
		DepartmentID: e.DepartmentID,
		ShiftID:      e.ShiftID,
		LeaveBalance: leave.NewBalanceResponse(e.ID, e.LeaveBalance).Balances,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
