package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/department"
)

type departmentRepository struct {
	s *Store
}

func NewDepartmentRepository(s *Store) department.DepartmentRepository {
	return &departmentRepository{s: s}
}

func (r *departmentRepository) Create(ctx context.Context, d department.Department) (department.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.departments {
		if existing.Name == d.Name {
			return department.Department{}, department.ErrDepartmentNameExists
		}
	}

	now := r.s.now()
	d.ID = newID()
	d.CreatedAt, d.UpdatedAt = now, now
	r.s.departments[d.ID] = d
	r.s.record(ctx, func() { delete(r.s.departments, d.ID) })
	return d, nil
}

func (r *departmentRepository) GetByID(_ context.Context, id string) (department.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.departments[id]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return d, nil
}

func (r *departmentRepository) List(_ context.Context) ([]department.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]department.Department, 0, len(r.s.departments))
	for _, d := range r.s.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
