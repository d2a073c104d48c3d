package shift

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/department"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
)

type ShiftServiceImpl struct {
	shiftRepo      shift.ShiftRepository
	employeeRepo   employee.EmployeeRepository
	departmentRepo department.DepartmentRepository
}

func NewShiftService(shiftRepo shift.ShiftRepository, employeeRepo employee.EmployeeRepository, departmentRepo department.DepartmentRepository) shift.ShiftService {
	return &ShiftServiceImpl{
		shiftRepo:      shiftRepo,
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
	}
}

// recompute refreshes TotalHours and refuses shifts with no working time.
func recompute(s *shift.Shift) error {
	if err := s.Recompute(); err != nil {
		return err
	}
	if s.TotalHours <= 0 {
		return shift.ErrNonPositiveHours
	}
	return nil
}

func (s *ShiftServiceImpl) checkDepartment(ctx context.Context, departmentID *string) error {
	if departmentID == nil {
		return nil
	}
	if _, err := s.departmentRepo.GetByID(ctx, *departmentID); err != nil {
		return fmt.Errorf("failed to get department: %w", err)
	}
	return nil
}

// Create implements shift.ShiftService.
func (s *ShiftServiceImpl) Create(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return shift.ShiftResponse{}, err
	}

	newShift := shift.Shift{
		Name:         req.Name,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		BreakMinutes: shift.DefaultBreakMinutes,
		IsActive:     true,
		DepartmentID: req.DepartmentID,
	}
	if req.BreakMinutes != nil {
		newShift.BreakMinutes = *req.BreakMinutes
	}
	if req.IsActive != nil {
		newShift.IsActive = *req.IsActive
	}
	if err := recompute(&newShift); err != nil {
		return shift.ShiftResponse{}, err
	}

	created, err := s.shiftRepo.Create(ctx, newShift)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}

	slog.Info("Shift created", "shift_id", created.ID, "name", created.Name, "total_hours", created.TotalHours)
	return shift.NewShiftResponse(created), nil
}

// Update implements shift.ShiftService.
func (s *ShiftServiceImpl) Update(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	existing, err := s.shiftRepo.GetByID(ctx, req.ID)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.StartTime != nil {
		existing.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		existing.EndTime = *req.EndTime
	}
	if req.BreakMinutes != nil {
		existing.BreakMinutes = *req.BreakMinutes
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	if req.DepartmentID != nil {
		if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
			return shift.ShiftResponse{}, err
		}
		existing.DepartmentID = req.DepartmentID
	}
	if err := recompute(&existing); err != nil {
		return shift.ShiftResponse{}, err
	}

	if err := s.shiftRepo.Update(ctx, existing); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift: %w", err)
	}

	updated, err := s.shiftRepo.GetByID(ctx, existing.ID)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to reload shift: %w", err)
	}

	slog.Info("Shift updated", "shift_id", updated.ID, "total_hours", updated.TotalHours)
	return shift.NewShiftResponse(updated), nil
}

// Get implements shift.ShiftService.
func (s *ShiftServiceImpl) Get(ctx context.Context, id string) (shift.ShiftResponse, error) {
	found, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return shift.NewShiftResponse(found), nil
}

// List implements shift.ShiftService.
func (s *ShiftServiceImpl) List(ctx context.Context, activeOnly bool) ([]shift.ShiftResponse, error) {
	shifts, err := s.shiftRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	resp := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		resp = append(resp, shift.NewShiftResponse(sh))
	}
	return resp, nil
}

// Delete implements shift.ShiftService.
func (s *ShiftServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.shiftRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("failed to get shift: %w", err)
	}

	assigned, err := s.employeeRepo.CountByShift(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count employees on shift: %w", err)
	}
	if assigned > 0 {
		return shift.ErrShiftInUse
	}

	if err := s.shiftRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}

	slog.Info("Shift deleted", "shift_id", id)
	return nil
}
