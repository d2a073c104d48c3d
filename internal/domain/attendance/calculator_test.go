package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*3600)

func at(day time.Time, clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", day.Format("2006-01-02")+" "+clock, day.Location())
	if err != nil {
		panic(err)
	}
	return t
}

func TestCalculate(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, jakarta)
	p := DefaultPolicy()

	cases := []struct {
		name    string
		in, out string
		want    Result
	}{
		{"office hours", "09:00", "17:00", Result{TotalHours: 8, Status: StatusPresent}},
		{"late", "09:45", "17:00", Result{TotalHours: 7.25, LateMinutes: 45, Status: StatusLate}},
		{"late within threshold", "09:30", "17:30", Result{TotalHours: 8, LateMinutes: 30, Status: StatusPresent}},
		{"overtime", "09:00", "19:00", Result{TotalHours: 10, OvertimeHours: 2, Status: StatusOvertime}},
		{"half day", "09:00", "12:00", Result{TotalHours: 3, EarlyLeaveMinutes: 300, Status: StatusHalfDay}},
		{"early leave", "08:00", "15:30", Result{TotalHours: 7.5, EarlyLeaveMinutes: 90, Status: StatusEarlyLeave}},
		{"late beats early leave", "09:45", "15:30", Result{TotalHours: 5.75, LateMinutes: 45, EarlyLeaveMinutes: 90, Status: StatusLate}},
		{"rounded hours", "09:00", "17:20", Result{TotalHours: 8.33, OvertimeHours: 0.33, Status: StatusOvertime}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Calculate(at(day, c.in), at(day, c.out), day, p)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestCalculateEarlyLeaveBeforeHalfDay(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, jakarta)
	p := DefaultPolicy()
	p.EarlyLeaveBeforeHalfDay = true

	got := Calculate(at(day, "09:00"), at(day, "12:00"), day, p)
	assert.Equal(t, 3.0, got.TotalHours)
	assert.Equal(t, 300, got.EarlyLeaveMinutes)
	assert.Equal(t, StatusEarlyLeave, got.Status)

	// Still half_day when the short day does not leave early.
	p.OfficeEnd = 12 * 60
	got = Calculate(at(day, "09:00"), at(day, "12:00"), day, p)
	assert.Equal(t, StatusHalfDay, got.Status)
}

func TestCalculateFloorsMinutes(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, jakarta)
	in := at(day, "09:31").Add(59 * time.Second)
	out := at(day, "16:58").Add(30 * time.Second)

	got := Calculate(in, out, day, DefaultPolicy())
	assert.Equal(t, 31, got.LateMinutes)
	assert.Equal(t, 1, got.EarlyLeaveMinutes)
	assert.Equal(t, StatusLate, got.Status)
}

func TestCalculateIsIdempotent(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, jakarta)
	in, out := at(day, "08:52"), at(day, "18:07")

	first := Calculate(in, out, day, DefaultPolicy())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Calculate(in, out, day, DefaultPolicy()))
	}
}

func TestCalculateCheckOutBeforeCheckIn(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, jakarta)
	got := Calculate(at(day, "17:00"), at(day, "09:00"), day, DefaultPolicy())
	assert.Equal(t, -8.0, got.TotalHours)
	assert.Equal(t, 0.0, got.OvertimeHours)
	assert.Equal(t, 480, got.LateMinutes)
	assert.Equal(t, StatusLate, got.Status)
}

func TestCalculateOvernightShiftPolicy(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, jakarta)
	night := shift.Shift{ID: "night", StartTime: "22:00", EndTime: "06:00", BreakMinutes: 60}
	require.NoError(t, night.Recompute())

	p, err := DefaultPolicy().ForShift(night)
	require.NoError(t, err)
	assert.Equal(t, 22*60, p.OfficeStart)
	assert.Equal(t, 30*60, p.OfficeEnd)
	assert.Equal(t, 7.0, p.StandardHours)
	assert.Equal(t, 30, p.LateThresholdMinutes)

	in := at(day, "22:10")
	out := time.Date(2025, 3, 11, 6, 0, 0, 0, jakarta)
	got := Calculate(in, out, day, p)
	assert.Equal(t, Result{TotalHours: 7.83, OvertimeHours: 0.83, LateMinutes: 10, Status: StatusOvertime}, got)
}

func TestForShiftInvalidClock(t *testing.T) {
	_, err := DefaultPolicy().ForShift(shift.Shift{StartTime: "bad", EndTime: "06:00"})
	assert.ErrorIs(t, err, shift.ErrInvalidClock)
}

func TestRecalculate(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, jakarta)
	a := Attendance{
		Date:    day,
		CheckIn: Punch{Time: at(day, "09:45"), Method: MethodManual},
	}
	a.Recalculate(DefaultPolicy())
	assert.Equal(t, StatusPresent, a.Status)
	assert.Zero(t, a.LateMinutes)

	a.CheckOut = &Punch{Time: at(day, "17:00"), Method: MethodManual}
	a.Recalculate(DefaultPolicy())
	assert.Equal(t, StatusLate, a.Status)
	assert.Equal(t, 45, a.LateMinutes)
	assert.Equal(t, 7.25, a.TotalHours)
}

func TestDayOf(t *testing.T) {
	utc := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, jakarta), DayOf(utc, jakarta))
}

func TestAnchorDate(t *testing.T) {
	a := Attendance{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}
	a.AnchorDate(jakarta)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, jakarta), a.Date)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), CalendarDate(a.Date))
}
