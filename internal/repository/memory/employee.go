package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func cloneEmployee(e employee.Employee) employee.Employee {
	e.LeaveBalance = e.LeaveBalance.Clone()
	return e
}

func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.employees {
		if existing.EmployeeCode == e.EmployeeCode || existing.Email == e.Email {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}

	now := r.s.now()
	if e.ID == "" {
		e.ID = newID()
	}
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.employees[e.ID] = cloneEmployee(e)
	r.s.record(ctx, func() { delete(r.s.employees, e.ID) })
	return e, nil
}

func (r *employeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return cloneEmployee(e), nil
}

func (r *employeeRepository) List(_ context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]employee.Employee, 0)
	for _, e := range r.s.employees {
		if filter.ActiveOnly && !e.IsActive {
			continue
		}
		if filter.DepartmentID != nil && (e.DepartmentID == nil || *e.DepartmentID != *filter.DepartmentID) {
			continue
		}
		if filter.ShiftID != nil && (e.ShiftID == nil || *e.ShiftID != *filter.ShiftID) {
			continue
		}
		out = append(out, cloneEmployee(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out, nil
}

// mutate applies fn to a stored employee. fn returns the step that reverts
// only the fields it changed, so a rollback keeps writes made outside the
// transaction.
func (r *employeeRepository) mutate(ctx context.Context, id string, fn func(e *employee.Employee) (func(e *employee.Employee), error)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	next := cloneEmployee(cur)
	revert, err := fn(&next)
	if err != nil {
		return err
	}
	next.UpdatedAt = r.s.now()
	r.s.employees[id] = next
	r.s.record(ctx, func() {
		if e, ok := r.s.employees[id]; ok {
			e = cloneEmployee(e)
			revert(&e)
			r.s.employees[id] = e
		}
	})
	return nil
}

func (r *employeeRepository) SetLeaveBalance(ctx context.Context, id string, balance leave.Balance) error {
	return r.mutate(ctx, id, func(e *employee.Employee) (func(*employee.Employee), error) {
		if e.LeaveBalance == nil {
			e.LeaveBalance = leave.Balance{}
		}
		prev := make(map[leave.Type]*float64, len(balance))
		for t, days := range balance {
			if old, ok := e.LeaveBalance[t]; ok {
				prev[t] = &old
			} else {
				prev[t] = nil
			}
			e.LeaveBalance[t] = days
		}
		return func(e *employee.Employee) {
			for t, old := range prev {
				if old == nil {
					delete(e.LeaveBalance, t)
				} else {
					e.LeaveBalance[t] = *old
				}
			}
		}, nil
	})
}

func (r *employeeRepository) AssignShift(ctx context.Context, id string, shiftID *string) error {
	return r.mutate(ctx, id, func(e *employee.Employee) (func(*employee.Employee), error) {
		prev := e.ShiftID
		e.ShiftID = shiftID
		return func(e *employee.Employee) { e.ShiftID = prev }, nil
	})
}

func (r *employeeRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.mutate(ctx, id, func(e *employee.Employee) (func(*employee.Employee), error) {
		prev := e.IsActive
		e.IsActive = active
		return func(e *employee.Employee) { e.IsActive = prev }, nil
	})
}

func (r *employeeRepository) CountByShift(_ context.Context, shiftID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, e := range r.s.employees {
		if e.ShiftID != nil && *e.ShiftID == shiftID {
			n++
		}
	}
	return n, nil
}

// DebitBalance implements leave.BalanceStore. Rollback credits the debited
// days back.
func (r *employeeRepository) DebitBalance(ctx context.Context, employeeID string, leaveType leave.Type, duration float64) error {
	return r.mutate(ctx, employeeID, func(e *employee.Employee) (func(*employee.Employee), error) {
		if !leave.CheckSufficient(e.LeaveBalance, leaveType, duration) {
			return nil, leave.ErrInsufficientBalance
		}
		e.LeaveBalance[leaveType] -= duration
		return func(e *employee.Employee) {
			if e.LeaveBalance == nil {
				e.LeaveBalance = leave.Balance{}
			}
			e.LeaveBalance[leaveType] += duration
		}, nil
	})
}
