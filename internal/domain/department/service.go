package department

import "context"

type DepartmentService interface {
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	Get(ctx context.Context, id string) (DepartmentResponse, error)
	List(ctx context.Context) ([]DepartmentResponse, error)
}
