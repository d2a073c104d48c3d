package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hris-timekeeping/internal/service/attendance"
	departmentService "github.com/cmlabs-hris/hris-timekeeping/internal/service/department"
	employeeService "github.com/cmlabs-hris/hris-timekeeping/internal/service/employee"
	leaveService "github.com/cmlabs-hris/hris-timekeeping/internal/service/leave"
	shiftService "github.com/cmlabs-hris/hris-timekeeping/internal/service/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	handler http.Handler
	loc     *time.Location

	admin, manager, worker string
	workerID               string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	loc := time.FixedZone("WIB", 7*3600)

	store := memory.NewStore()
	departments := memory.NewDepartmentRepository(store)
	employees := memory.NewEmployeeRepository(store)
	shifts := memory.NewShiftRepository(store)
	attendances := memory.NewAttendanceRepository(store)
	requests := memory.NewLeaveRequestRepository(store)

	jwtService, err := jwt.NewJWTService("test-secret", "1h")
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		TokenAuth:      jwtService.JWTAuth(),
	}, Handlers{
		Department: NewDepartmentHandler(departmentService.NewDepartmentService(departments, employees)),
		Employee:   NewEmployeeHandler(employeeService.NewEmployeeService(employees, departments, shifts, leave.DefaultBalance())),
		Shift:      NewShiftHandler(shiftService.NewShiftService(shifts, employees, departments)),
		Attendance: NewAttendanceHandler(attendanceService.NewAttendanceService(
			attendances, employees, shifts, attendance.DefaultPolicy(), attendance.PolicySourceGlobal, loc,
		)),
		Leave: NewLeaveHandler(leaveService.NewLeaveService(requests, employees, store, loc)),
	})

	ts := &testServer{handler: router, loc: loc}
	token := func(code string, role user.Role) (string, string) {
		e, err := employees.Create(context.Background(), employee.Employee{
			UserID:       "user-" + code,
			EmployeeCode: code,
			FullName:     "Employee " + code,
			Email:        code + "@example.com",
			Role:         role,
			LeaveBalance: leave.DefaultBalance(),
			IsActive:     true,
		})
		require.NoError(t, err)
		tok, _, err := jwtService.GenerateAccessToken(e.UserID, e.ID, role)
		require.NoError(t, err)
		return tok, e.ID
	}
	ts.admin, _ = token("ADM-001", user.RoleAdmin)
	ts.manager, _ = token("MGR-001", user.RoleManager)
	ts.worker, ts.workerID = token("EMP-001", user.RoleEmployee)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestRouter_RequiresToken(t *testing.T) {
	ts := newTestServer(t)

	code, env := ts.do(t, http.MethodGet, "/api/v1/employees/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	code, _ = ts.do(t, http.MethodGet, "/api/v1/employees/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = ts.do(t, http.MethodGet, "/api/v1/employees/me", ts.worker, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestRouter_PermissionsAndValidation(t *testing.T) {
	ts := newTestServer(t)
	shiftBody := map[string]interface{}{"name": "Morning", "start_time": "08:00", "end_time": "16:00"}

	code, env := ts.do(t, http.MethodPost, "/api/v1/shifts", ts.worker, shiftBody)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, env = ts.do(t, http.MethodPost, "/api/v1/shifts", ts.admin, shiftBody)
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		TotalHours float64 `json:"total_hours"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, 7.0, created.TotalHours)

	code, env = ts.do(t, http.MethodPost, "/api/v1/shifts", ts.admin, shiftBody)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	code, env = ts.do(t, http.MethodPost, "/api/v1/shifts", ts.admin, map[string]interface{}{"name": "Bad", "start_time": "8am", "end_time": "16:00"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Error.Details, "start_time")

	code, _ = ts.do(t, http.MethodPost, "/api/v1/shifts", ts.admin, "{not json")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = ts.do(t, http.MethodGet, "/api/v1/employees", ts.worker, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = ts.do(t, http.MethodGet, "/api/v1/employees", ts.manager, nil)
	assert.Equal(t, http.StatusOK, code)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 3)
}

func TestRouter_AttendanceFlow(t *testing.T) {
	ts := newTestServer(t)
	punch := map[string]interface{}{"method": "biometric"}

	code, env := ts.do(t, http.MethodPost, "/api/v1/attendance/check-out", ts.worker, punch)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	code, _ = ts.do(t, http.MethodPost, "/api/v1/attendance/check-in", ts.worker, punch)
	require.Equal(t, http.StatusCreated, code)

	code, env = ts.do(t, http.MethodPost, "/api/v1/attendance/check-in", ts.worker, punch)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	code, _ = ts.do(t, http.MethodPost, "/api/v1/attendance/check-out", ts.worker, punch)
	require.Equal(t, http.StatusOK, code)

	code, env = ts.do(t, http.MethodPost, "/api/v1/attendance/check-out", ts.worker, punch)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	code, env = ts.do(t, http.MethodGet, "/api/v1/attendance/me", ts.worker, nil)
	require.Equal(t, http.StatusOK, code)
	var records []attendance.AttendanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 1)
	assert.NotNil(t, records[0].CheckOut)

	code, _ = ts.do(t, http.MethodGet, "/api/v1/attendance", ts.worker, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRouter_LeaveFlow(t *testing.T) {
	ts := newTestServer(t)
	start := time.Now().In(ts.loc).AddDate(0, 0, 7)

	code, env := ts.do(t, http.MethodPost, "/api/v1/leaves", ts.worker, map[string]interface{}{
		"leave_type": "annual",
		"start_date": start.Format("2006-01-02"),
		"end_date":   start.AddDate(0, 0, 2).Format("2006-01-02"),
		"reason":     "family trip",
	})
	require.Equal(t, http.StatusCreated, code, env)
	var request leave.LeaveRequestResponse
	require.NoError(t, json.Unmarshal(env.Data, &request))
	assert.Equal(t, 3.0, request.Duration)
	assert.Equal(t, "pending", request.Status)

	code, _ = ts.do(t, http.MethodPost, "/api/v1/leaves/"+request.ID+"/approve", ts.worker, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = ts.do(t, http.MethodPost, "/api/v1/leaves/"+request.ID+"/comments", ts.manager, map[string]string{"body": "enjoy"})
	assert.Equal(t, http.StatusCreated, code)

	code, env = ts.do(t, http.MethodPost, "/api/v1/leaves/"+request.ID+"/approve", ts.manager, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &request))
	assert.Equal(t, "approved", request.Status)
	assert.Len(t, request.Comments, 1)

	code, env = ts.do(t, http.MethodPost, "/api/v1/leaves/"+request.ID+"/cancel", ts.worker, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	code, env = ts.do(t, http.MethodGet, "/api/v1/leaves/balance/me", ts.worker, nil)
	require.Equal(t, http.StatusOK, code)
	var balance leave.BalanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	assert.Equal(t, ts.workerID, balance.EmployeeID)
	assert.Equal(t, 17.0, balance.Balances["annual"])

	code, env = ts.do(t, http.MethodPost, "/api/v1/leaves", ts.worker, map[string]interface{}{
		"leave_type": "annual",
		"start_date": start.AddDate(0, 0, 1).Format("2006-01-02"),
		"end_date":   start.AddDate(0, 0, 4).Format("2006-01-02"),
		"reason":     "overlaps the trip",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	code, _ = ts.do(t, http.MethodPost, "/api/v1/leaves/"+request.ID+"/reject", ts.manager, map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}
