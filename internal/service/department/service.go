package department

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/department"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
)

type DepartmentServiceImpl struct {
	departmentRepo department.DepartmentRepository
	employeeRepo   employee.EmployeeRepository
}

func NewDepartmentService(departmentRepo department.DepartmentRepository, employeeRepo employee.EmployeeRepository) department.DepartmentService {
	return &DepartmentServiceImpl{
		departmentRepo: departmentRepo,
		employeeRepo:   employeeRepo,
	}
}

// Create implements department.DepartmentService.
func (s *DepartmentServiceImpl) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	if req.ManagerID != nil {
		if _, err := s.employeeRepo.GetByID(ctx, *req.ManagerID); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return department.DepartmentResponse{}, department.ErrManagerNotFound
			}
			return department.DepartmentResponse{}, fmt.Errorf("failed to get manager: %w", err)
		}
	}

	created, err := s.departmentRepo.Create(ctx, department.Department{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
	})
	if err != nil {
		return department.DepartmentResponse{}, fmt.Errorf("failed to create department: %w", err)
	}

	slog.Info("Department created", "department_id", created.ID, "name", created.Name)
	return department.NewDepartmentResponse(created), nil
}

// Get implements department.DepartmentService.
func (s *DepartmentServiceImpl) Get(ctx context.Context, id string) (department.DepartmentResponse, error) {
	d, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, fmt.Errorf("failed to get department: %w", err)
	}
	return department.NewDepartmentResponse(d), nil
}

// List implements department.DepartmentService.
func (s *DepartmentServiceImpl) List(ctx context.Context) ([]department.DepartmentResponse, error) {
	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	resp := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		resp = append(resp, department.NewDepartmentResponse(d))
	}
	return resp, nil
}
