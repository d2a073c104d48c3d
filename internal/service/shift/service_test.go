package shift

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (shift.ShiftService, employee.EmployeeRepository) {
	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)
	return NewShiftService(memory.NewShiftRepository(store), employees, memory.NewDepartmentRepository(store)), employees
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestCreateComputesTotalHours(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	day, err := svc.Create(ctx, shift.CreateShiftRequest{Name: "Day", StartTime: "09:00", EndTime: "17:00"})
	require.NoError(t, err)
	assert.Equal(t, 60, day.BreakMinutes)
	assert.Equal(t, 7.0, day.TotalHours)
	assert.True(t, day.IsActive)
	assert.False(t, day.IsOvernight)

	night, err := svc.Create(ctx, shift.CreateShiftRequest{Name: "Night", StartTime: "22:00", EndTime: "06:00", BreakMinutes: intPtr(30)})
	require.NoError(t, err)
	assert.Equal(t, 7.5, night.TotalHours)
	assert.True(t, night.IsOvernight)
}

func TestCreateRejectsBadShifts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, shift.CreateShiftRequest{Name: "Short", StartTime: "09:00", EndTime: "10:00", BreakMinutes: intPtr(90)})
	assert.ErrorIs(t, err, shift.ErrNonPositiveHours)

	_, err = svc.Create(ctx, shift.CreateShiftRequest{Name: "Day", StartTime: "09:00", EndTime: "17:00"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, shift.CreateShiftRequest{Name: "Day", StartTime: "08:00", EndTime: "16:00"})
	assert.ErrorIs(t, err, shift.ErrShiftNameExists)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.Create(ctx, shift.CreateShiftRequest{Name: "Ghost dept", StartTime: "08:00", EndTime: "16:00", DepartmentID: strPtr("0190a6e2-7b8c-7b4a-8a2b-6b8b8b8b8b8b")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateRecomputes(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, shift.CreateShiftRequest{Name: "Day", StartTime: "09:00", EndTime: "17:00"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, shift.UpdateShiftRequest{ID: created.ID, EndTime: strPtr("18:00"), BreakMinutes: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 9.0, updated.TotalHours)
	assert.Equal(t, "Day", updated.Name)

	_, err = svc.Update(ctx, shift.UpdateShiftRequest{ID: "missing"})
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}

func TestDeleteRefusedWhileAssigned(t *testing.T) {
	svc, employees := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, shift.CreateShiftRequest{Name: "Day", StartTime: "09:00", EndTime: "17:00"})
	require.NoError(t, err)

	e, err := employees.Create(ctx, employee.Employee{
		UserID: "u", EmployeeCode: "EMP-001", FullName: "A", Email: "a@example.com",
		Role: user.RoleEmployee, ShiftID: &created.ID, IsActive: true,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), shift.ErrShiftInUse)

	require.NoError(t, employees.AssignShift(ctx, e.ID, nil))
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}

func TestListActiveOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	inactive := false

	_, err := svc.Create(ctx, shift.CreateShiftRequest{Name: "A", StartTime: "09:00", EndTime: "17:00"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, shift.CreateShiftRequest{Name: "B", StartTime: "09:00", EndTime: "17:00", IsActive: &inactive})
	require.NoError(t, err)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "A", active[0].Name)
}
