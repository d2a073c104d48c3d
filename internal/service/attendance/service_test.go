package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

type fixture struct {
	svc       *AttendanceServiceImpl
	employees employee.EmployeeRepository
	shifts    shift.ShiftRepository
	records   attendance.AttendanceRepository
}

func newFixture(t *testing.T, source attendance.PolicySource) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		employees: memory.NewEmployeeRepository(store),
		shifts:    memory.NewShiftRepository(store),
		records:   memory.NewAttendanceRepository(store),
	}
	f.svc = NewAttendanceService(f.records, f.employees, f.shifts, attendance.DefaultPolicy(), source, wib).(*AttendanceServiceImpl)
	return f
}

func (f *fixture) addEmployee(t *testing.T, code string, role user.Role, shiftID *string) employee.Employee {
	t.Helper()
	e, err := f.employees.Create(context.Background(), employee.Employee{
		UserID:       "user-" + code,
		EmployeeCode: code,
		FullName:     "Employee " + code,
		Email:        code + "@example.com",
		Role:         role,
		ShiftID:      shiftID,
		LeaveBalance: leave.DefaultBalance(),
		IsActive:     true,
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) at(clock time.Time) {
	f.svc.now = func() time.Time { return clock }
}

func actorContext(t *testing.T, e employee.Employee) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":     e.UserID,
		"employee_id": e.ID,
		"role":        string(e.Role),
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func manual() attendance.PunchRequest {
	return attendance.PunchRequest{Method: "manual"}
}

func day(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, wib)
}

func TestCheckInCheckOutOfficeDay(t *testing.T) {
	f := newFixture(t, attendance.PolicySourceGlobal)
	emp := f.addEmployee(t, "EMP-001", user.RoleEmployee, nil)
	ctx := actorContext(t, emp)

	f.at(day(9, 0))
	in, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{PunchRequest: manual()})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", in.Date)
	assert.Equal(t, "present", in.Status)
	assert.Nil(t, in.CheckOut)
	assert.Zero(t, in.TotalHours)

	f.at(day(17, 0))
	out, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{PunchRequest: manual()})
	require.NoError(t, err)
	assert.Equal(t, 8.0, out.TotalHours)
	assert.Equal(t, 0.0, out.OvertimeHours)
	assert.Equal(t, 0, out.LateMinutes)
	assert.Equal(t, 0, out.EarlyLeaveMinutes)
	assert.Equal(t, "present", out.Status)
	require.NotNil(t, out.CheckOut)
}

func TestCheckOutDerivesStatus(t *testing.T) {
	cases := []struct {
		name    string
		in, out time.Time
		status  string
	}{
		{"late", day(9, 45), day(17, 0), "late"},
		{"overtime", day(9, 0), day(19, 0), "overtime"},
		{"half day", day(9, 0), day(12, 0), "half_day"},
		{"early leave", day(8, 0), day(15, 30), "early_leave"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t, attendance.PolicySourceGlobal)
			ctx := actorContext(t, f.addEmployee(t, "EMP-001", user.RoleEmployee, nil))

			f.at(c.in)
			_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{PunchRequest: manual()})
			require.NoError(t, err)
			f.at(c.out)
			got, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{PunchRequest: manual()})
			require.NoError(t, err)
			assert.Equal(t, c.status, got.Status)
		})
	}
}

func TestDuplicateCheckInIsConflict(t *testing.T) {
	f := newFixture(t, attendance.PolicySourceGlobal)
	ctx := actorContext(t, f.addEmployee(t, "EMP-001", user.RoleEmployee, nil))

	f.at(day(9, 0))
	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{PunchRequest: manual()})
	require.NoError(t, err)

	f.at(day(9, 5))
	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{PunchRequest: manual()})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestConcurrentCheckInPersistsOneRecord(t *testing.T) {
	f := newFixture(t, attendance.PolicySourceGlobal)
	emp := f.addEmployee(t, "EMP-001", user.RoleEmployee, nil)
	ctx := actorContext(t, emp)
	f.at(day(9, 0))

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, conflicts := 0, 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{PunchRequest: manual()})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 24, conflicts)

	records, err := f.records.List(context.Background(), attendance.ListFilter{EmployeeID: &emp.ID})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCheckOutErrors(t *testing.T) {
	f := newFixture(t, attendance.PolicySourceGlobal)
	ctx := actorContext(t, f.addEmployee(t, "EMP-001", user.RoleEmployee, nil))

	f.at(day(17, 0))
	_, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{PunchRequest: manual()})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
	assert.ErrorIs(t, err, apperror.ErrState)

	f.at(day(9, 0))
	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{PunchRequest: manual()})
	require.NoError(t, err)

	f.at(day(17, 0))
	early := "2025-03-10T01:00:00Z" // 08:00 WIB, before check-in
	_, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{PunchRequest: attendance.PunchRequest{Method: "manual", At: &early}})
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{PunchRequest: manual()})
	require.NoError(t, err)

	f.at(day(17, 30))
	_, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{PunchRequest: manual()})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
	assert.ErrorIs(t, err, apperror.ErrState)
}

func TestCheckInRejectsFuturePunchAndInactiveEmployee(t *testing.T) {
	f := newFixture(t, attendance.PolicySourceGlobal)
	emp := f.addEmployee(t, "EMP-001", user.RoleEmployee, nil)
	ctx := actorContext(t, emp)

	f.at(day(9, 0))
	future := "2025-03-10T04:00:00Z" // 11:00 WIB
	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{PunchRequest: attendance.PunchRequest{Method: "biometric", At: &future}})
	assert.ErrorIs(t, err, attendance.ErrPunchInFuture)

	require.NoError(t, f.employees.SetActive(context.Background(), emp.ID, false))
	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{PunchRequest: manual()})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestOvernightShiftCheckOutNextDay(t *testing.T) {
	f := newFixture(t, attendance.PolicySourceShift)
	night := shift.Shift{Name: "Night", StartTime: "22:00", EndTime: "06:00", BreakMinutes: 60, IsActive: true}
	require.NoError(t, night.Recompute())
	night, err := f.shifts.Create(context.Background(), night)
	require.NoError(t, err)

	ctx := actorContext(t, f.addEmployee(t, "EMP-001", user.RoleEmployee, &night.ID))

	f.at(day(22, 0))
	in, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{PunchRequest: manual()})
	require.NoError(t, err)
	require.NotNil(t, in.ShiftID)
	assert.Equal(t, night.ID, *in.ShiftID)

	f.at(time.Date(2025, 3, 11, 6, 0, 0, 0, wib))
	out, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{PunchRequest: manual()})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", out.Date)
	assert.Equal(t, 8.0, out.TotalHours)
	assert.Equal(t, 1.0, out.OvertimeHours)
	assert.Equal(t, 0, out.LateMinutes)
	assert.Equal(t, 0, out.EarlyLeaveMinutes)
	assert.Equal(t, "overtime", out.Status)
}

func TestAmendRecomputesAndStamps(t *testing.T) {
	f := newFixture(t, attendance.PolicySourceGlobal)
	emp := f.addEmployee(t, "EMP-001", user.RoleEmployee, nil)
	mgr := f.addEmployee(t, "MGR-001", user.RoleManager, nil)
	empCtx, mgrCtx := actorContext(t, emp), actorContext(t, mgr)

	f.at(day(9, 45))
	rec, err := f.svc.CheckIn(empCtx, attendance.CheckInRequest{PunchRequest: manual()})
	require.NoError(t, err)
	f.at(day(17, 0))
	rec, err = f.svc.CheckOut(empCtx, attendance.CheckOutRequest{PunchRequest: manual()})
	require.NoError(t, err)
	require.Equal(t, "late", rec.Status)

	corrected := "2025-03-10T02:00:00Z" // 09:00 WIB
	notes := "badge reader outage"
	_, err = f.svc.Amend(empCtx, attendance.AmendAttendanceRequest{ID: rec.ID, CheckInTime: &corrected})
	assert.ErrorIs(t, err, user.ErrPermissionDenied)

	f.at(day(18, 0))
	amended, err := f.svc.Amend(mgrCtx, attendance.AmendAttendanceRequest{ID: rec.ID, CheckInTime: &corrected, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "present", amended.Status)
	assert.Equal(t, 0, amended.LateMinutes)
	assert.Equal(t, 8.0, amended.TotalHours)
	assert.Equal(t, &notes, amended.Notes)
	require.NotNil(t, amended.ApprovedBy)
	assert.Equal(t, mgr.ID, *amended.ApprovedBy)
	assert.Equal(t, "manual", amended.CheckIn.Method)

	absent := "absent"
	amended, err = f.svc.Amend(mgrCtx, attendance.AmendAttendanceRequest{ID: rec.ID, Status: &absent})
	require.NoError(t, err)
	assert.Equal(t, "absent", amended.Status)
	assert.Equal(t, 8.0, amended.TotalHours)

	otherDay := "2025-03-11T02:00:00Z"
	_, err = f.svc.Amend(mgrCtx, attendance.AmendAttendanceRequest{ID: rec.ID, CheckInTime: &otherDay})
	assert.ErrorIs(t, err, attendance.ErrCheckInOutsideDay)
}

func TestGetAndListRespectOwnership(t *testing.T) {
	f := newFixture(t, attendance.PolicySourceGlobal)
	alice := f.addEmployee(t, "EMP-001", user.RoleEmployee, nil)
	bob := f.addEmployee(t, "EMP-002", user.RoleEmployee, nil)
	admin := f.addEmployee(t, "ADM-001", user.RoleAdmin, nil)
	aliceCtx, bobCtx, adminCtx := actorContext(t, alice), actorContext(t, bob), actorContext(t, admin)

	f.at(day(9, 0))
	rec, err := f.svc.CheckIn(aliceCtx, attendance.CheckInRequest{PunchRequest: manual()})
	require.NoError(t, err)
	_, err = f.svc.CheckIn(bobCtx, attendance.CheckInRequest{PunchRequest: manual()})
	require.NoError(t, err)

	_, err = f.svc.Get(bobCtx, rec.ID)
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	got, err := f.svc.Get(adminCtx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.EmployeeID)

	mine, err := f.svc.ListMine(bobCtx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, bob.ID, mine[0].EmployeeID)

	_, err = f.svc.List(bobCtx, attendance.AttendanceFilter{})
	assert.ErrorIs(t, err, user.ErrPermissionDenied)

	all, err := f.svc.List(adminCtx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
