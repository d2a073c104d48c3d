package department

import "context"

type DepartmentRepository interface {
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	List(ctx context.Context) ([]Department, error)
}
