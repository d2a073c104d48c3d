package employee

import "context"

type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	GetMe(ctx context.Context) (EmployeeResponse, error)
	List(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)
	SetLeaveBalance(ctx context.Context, req SetLeaveBalanceRequest) (EmployeeResponse, error)
	AssignShift(ctx context.Context, req AssignShiftRequest) (EmployeeResponse, error)
	SetActive(ctx context.Context, req SetActiveRequest) (EmployeeResponse, error)
}
