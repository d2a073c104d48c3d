package employee

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc       employee.EmployeeService
	employees employee.EmployeeRepository
	shifts    shift.ShiftRepository
	admin     employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		employees: memory.NewEmployeeRepository(store),
		shifts:    memory.NewShiftRepository(store),
	}
	f.svc = NewEmployeeService(f.employees, memory.NewDepartmentRepository(store), f.shifts, leave.DefaultBalance())

	admin, err := f.employees.Create(context.Background(), employee.Employee{
		UserID: "user-admin", EmployeeCode: "ADM-001", FullName: "Admin", Email: "admin@example.com",
		Role: user.RoleAdmin, LeaveBalance: leave.DefaultBalance(), IsActive: true,
	})
	require.NoError(t, err)
	f.admin = admin
	return f
}

func actorContext(t *testing.T, userID, employeeID string, role user.Role) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":     userID,
		"employee_id": employeeID,
		"role":        string(role),
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func (f *fixture) adminContext(t *testing.T) context.Context {
	return actorContext(t, f.admin.UserID, f.admin.ID, user.RoleAdmin)
}

func TestCreateAppliesDefaultBalance(t *testing.T) {
	f := newFixture(t)
	ctx := f.adminContext(t)

	created, err := f.svc.Create(ctx, employee.CreateEmployeeRequest{
		EmployeeCode: "EMP-001",
		FullName:     "Sari Dewi",
		Email:        "Sari@Example.com",
		Role:         "employee",
		LeaveBalance: map[string]float64{"annual": 12},
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.NotEmpty(t, created.UserID)
	assert.Equal(t, "sari@example.com", created.Email)
	assert.Equal(t, 12.0, created.LeaveBalance["annual"])
	assert.Equal(t, 10.0, created.LeaveBalance["sick"])
	assert.Equal(t, 90.0, created.LeaveBalance["maternity"])

	_, err = f.svc.Create(ctx, employee.CreateEmployeeRequest{
		EmployeeCode: "EMP-001", FullName: "Dup", Email: "dup@example.com", Role: "employee",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateValidatesReferences(t *testing.T) {
	f := newFixture(t)
	ctx := f.adminContext(t)
	ghost := "0190a6e2-7b8c-7b4a-8a2b-6b8b8b8b8b8b"

	_, err := f.svc.Create(ctx, employee.CreateEmployeeRequest{
		EmployeeCode: "EMP-002", FullName: "A", Email: "a@example.com", Role: "employee", DepartmentID: &ghost,
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	inactive, err := f.shifts.Create(context.Background(), shift.Shift{Name: "Old", StartTime: "09:00", EndTime: "17:00", BreakMinutes: 60, TotalHours: 7})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, employee.CreateEmployeeRequest{
		EmployeeCode: "EMP-002", FullName: "A", Email: "a@example.com", Role: "employee", ShiftID: &inactive.ID,
	})
	assert.ErrorIs(t, err, employee.ErrShiftInactive)

	var verrs validator.ValidationErrors
	_, err = f.svc.Create(ctx, employee.CreateEmployeeRequest{EmployeeCode: "x"})
	assert.ErrorAs(t, err, &verrs)
}

func TestPermissions(t *testing.T) {
	f := newFixture(t)
	worker, err := f.svc.Create(f.adminContext(t), employee.CreateEmployeeRequest{
		EmployeeCode: "EMP-003", FullName: "Budi", Email: "budi@example.com", Role: "employee",
	})
	require.NoError(t, err)
	ctx := actorContext(t, worker.UserID, worker.ID, user.RoleEmployee)

	_, err = f.svc.Create(ctx, employee.CreateEmployeeRequest{
		EmployeeCode: "EMP-004", FullName: "X", Email: "x@example.com", Role: "admin",
	})
	assert.ErrorIs(t, err, user.ErrPermissionDenied)

	_, err = f.svc.List(ctx, employee.EmployeeFilter{})
	assert.ErrorIs(t, err, user.ErrPermissionDenied)

	_, err = f.svc.Get(ctx, f.admin.ID)
	assert.ErrorIs(t, err, employee.ErrForbiddenEmployee)

	me, err := f.svc.GetMe(ctx)
	require.NoError(t, err)
	assert.Equal(t, worker.ID, me.ID)

	own, err := f.svc.Get(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, "EMP-003", own.EmployeeCode)

	all, err := f.svc.List(f.adminContext(t), employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSetLeaveBalanceMerges(t *testing.T) {
	f := newFixture(t)
	ctx := f.adminContext(t)

	updated, err := f.svc.SetLeaveBalance(ctx, employee.SetLeaveBalanceRequest{
		EmployeeID: f.admin.ID,
		Balances:   map[string]float64{"annual": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, updated.LeaveBalance["annual"])
	assert.Equal(t, 10.0, updated.LeaveBalance["sick"])

	_, err = f.svc.SetLeaveBalance(ctx, employee.SetLeaveBalanceRequest{
		EmployeeID: "missing",
		Balances:   map[string]float64{"annual": 3},
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAssignShiftAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := f.adminContext(t)

	day, err := f.shifts.Create(context.Background(), shift.Shift{Name: "Day", StartTime: "09:00", EndTime: "17:00", BreakMinutes: 60, TotalHours: 7, IsActive: true})
	require.NoError(t, err)

	worker, err := f.svc.Create(ctx, employee.CreateEmployeeRequest{
		EmployeeCode: "EMP-005", FullName: "Citra", Email: "citra@example.com", Role: "employee",
	})
	require.NoError(t, err)

	assigned, err := f.svc.AssignShift(ctx, employee.AssignShiftRequest{EmployeeID: worker.ID, ShiftID: &day.ID})
	require.NoError(t, err)
	require.NotNil(t, assigned.ShiftID)
	assert.Equal(t, day.ID, *assigned.ShiftID)

	cleared, err := f.svc.AssignShift(ctx, employee.AssignShiftRequest{EmployeeID: worker.ID})
	require.NoError(t, err)
	assert.Nil(t, cleared.ShiftID)

	off := false
	deactivated, err := f.svc.SetActive(ctx, employee.SetActiveRequest{EmployeeID: worker.ID, IsActive: &off})
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	_, err = f.svc.SetActive(ctx, employee.SetActiveRequest{EmployeeID: f.admin.ID, IsActive: &off})
	assert.ErrorIs(t, err, employee.ErrSelfDeactivation)
}
