package employee

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/department"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/google/uuid"
)

type EmployeeServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	departmentRepo department.DepartmentRepository
	shiftRepo      shift.ShiftRepository
	defaultBalance leave.Balance
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	departmentRepo department.DepartmentRepository,
	shiftRepo shift.ShiftRepository,
	defaultBalance leave.Balance,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		shiftRepo:      shiftRepo,
		defaultBalance: defaultBalance,
	}
}

func (s *EmployeeServiceImpl) authorize(ctx context.Context, permission user.Permission) (user.Actor, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return user.Actor{}, err
	}
	if !actor.Can(permission) {
		return user.Actor{}, user.ErrPermissionDenied
	}
	return actor, nil
}

// activeShift returns an error unless shiftID names an active shift.
func (s *EmployeeServiceImpl) activeShift(ctx context.Context, shiftID string) error {
	sh, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return fmt.Errorf("failed to get shift: %w", err)
	}
	if !sh.IsActive {
		return employee.ErrShiftInactive
	}
	return nil
}

func (s *EmployeeServiceImpl) reload(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee.NewEmployeeResponse(e), nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	actor, err := s.authorize(ctx, user.PermissionEmployeeManage)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.DepartmentID != nil {
		if _, err := s.departmentRepo.GetByID(ctx, *req.DepartmentID); err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to get department: %w", err)
		}
	}
	if req.ShiftID != nil {
		if err := s.activeShift(ctx, *req.ShiftID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	userID := uuid.Must(uuid.NewV7()).String()
	if req.UserID != nil {
		userID = *req.UserID
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		UserID:       userID,
		EmployeeCode: req.EmployeeCode,
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         user.Role(req.Role),
		DepartmentID: req.DepartmentID,
		ShiftID:      req.ShiftID,
		LeaveBalance: req.Balance(s.defaultBalance),
		IsActive:     true,
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("Employee created",
		"employee_id", created.ID,
		"employee_code", created.EmployeeCode,
		"role", created.Role,
		"created_by", actor.EmployeeID,
	)
	return employee.NewEmployeeResponse(created), nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if id != actor.EmployeeID && !actor.Can(user.PermissionEmployeeViewAll) {
		return employee.EmployeeResponse{}, employee.ErrForbiddenEmployee
	}
	return s.reload(ctx, id)
}

// GetMe implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetMe(ctx context.Context) (employee.EmployeeResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.reload(ctx, actor.EmployeeID)
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	if _, err := s.authorize(ctx, user.PermissionEmployeeViewAll); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, filter.ToListFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, employee.NewEmployeeResponse(e))
	}
	return resp, nil
}

// SetLeaveBalance implements employee.EmployeeService. Only the listed leave
// types are overwritten.
func (s *EmployeeServiceImpl) SetLeaveBalance(ctx context.Context, req employee.SetLeaveBalanceRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	actor, err := s.authorize(ctx, user.PermissionLeaveManageBalance)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.employeeRepo.SetLeaveBalance(ctx, req.EmployeeID, req.Balance()); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to set leave balance: %w", err)
	}

	slog.Info("Leave balance overridden",
		"employee_id", req.EmployeeID,
		"balances", req.Balances,
		"set_by", actor.EmployeeID,
	)
	return s.reload(ctx, req.EmployeeID)
}

// AssignShift implements employee.EmployeeService.
func (s *EmployeeServiceImpl) AssignShift(ctx context.Context, req employee.AssignShiftRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if _, err := s.authorize(ctx, user.PermissionEmployeeManage); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.ShiftID != nil {
		if err := s.activeShift(ctx, *req.ShiftID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	if err := s.employeeRepo.AssignShift(ctx, req.EmployeeID, req.ShiftID); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to assign shift: %w", err)
	}

	slog.Info("Shift assigned", "employee_id", req.EmployeeID, "shift_id", req.ShiftID)
	return s.reload(ctx, req.EmployeeID)
}

// SetActive implements employee.EmployeeService.
func (s *EmployeeServiceImpl) SetActive(ctx context.Context, req employee.SetActiveRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	actor, err := s.authorize(ctx, user.PermissionEmployeeManage)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if req.EmployeeID == actor.EmployeeID && !*req.IsActive {
		return employee.EmployeeResponse{}, employee.ErrSelfDeactivation
	}

	if err := s.employeeRepo.SetActive(ctx, req.EmployeeID, *req.IsActive); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to set employee status: %w", err)
	}

	slog.Info("Employee status changed", "employee_id", req.EmployeeID, "is_active", *req.IsActive)
	return s.reload(ctx, req.EmployeeID)
}
