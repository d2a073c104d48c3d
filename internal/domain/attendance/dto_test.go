package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPunchRequestValidate(t *testing.T) {
	bad := "yesterday"
	req := PunchRequest{Method: "fingerprint", At: &bad}

	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "method")
	assert.Contains(t, verrs.ToMap(), "at")

	assert.NoError(t, (&PunchRequest{Method: "biometric"}).Validate())
}

func TestPunchRequestPunch(t *testing.T) {
	now := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	loc := "Gate A"
	req := PunchRequest{Method: "manual", Location: &loc}
	p := req.Punch(now)
	assert.Equal(t, now, p.Time)
	assert.Equal(t, MethodManual, p.Method)
	assert.Equal(t, &loc, p.Location)

	device := "2025-03-10T01:55:00Z"
	req.At = &device
	assert.True(t, req.Punch(now).Time.Equal(time.Date(2025, 3, 10, 1, 55, 0, 0, time.UTC)))
}

func TestAmendAttendanceRequestValidate(t *testing.T) {
	var verrs validator.ValidationErrors
	require.ErrorAs(t, (&AmendAttendanceRequest{ID: "a"}).Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "body")

	status := "sleeping"
	require.ErrorAs(t, (&AmendAttendanceRequest{ID: "a", Status: &status}).Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "status")

	status = "absent"
	assert.NoError(t, (&AmendAttendanceRequest{ID: "a", Status: &status}).Validate())
}

func TestAttendanceFilterToListFilter(t *testing.T) {
	from, to, status := "2025-03-01", "2025-03-31", "late"
	f := AttendanceFilter{From: &from, To: &to, Status: &status}
	require.NoError(t, f.Validate())

	lf := f.ToListFilter(jakarta)
	require.NotNil(t, lf.From)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, jakarta), *lf.From)
	assert.Equal(t, StatusLate, *lf.Status)
}
