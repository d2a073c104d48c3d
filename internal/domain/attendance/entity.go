package attendance

import (
	"time"
)

type Method string

const (
	MethodManual    Method = "manual"
	MethodBiometric Method = "biometric"
	MethodSystem    Method = "system"
)

var MethodValues = []string{
	string(MethodManual),
	string(MethodBiometric),
	string(MethodSystem),
}

type Status string

const (
	StatusPresent    Status = "present"
	StatusAbsent     Status = "absent"
	StatusLate       Status = "late"
	StatusEarlyLeave Status = "early_leave"
	StatusHalfDay    Status = "half_day"
	StatusOvertime   Status = "overtime"
)

var StatusValues = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusLate),
	string(StatusEarlyLeave),
	string(StatusHalfDay),
	string(StatusOvertime),
}

// Punch is one check-in or check-out event.
type Punch struct {
	Time     time.Time
	Method   Method
	Location *string
}

type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time // calendar day, midnight in the configured timezone
	CheckIn    Punch
	CheckOut   *Punch
	ShiftID    *string

	TotalHours        float64
	OvertimeHours     float64
	LateMinutes       int
	EarlyLeaveMinutes int
	Status            Status

	Notes      *string
	ApprovedBy *string
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Recalculate refreshes the derived fields. Before check-out they stay at
// their defaults.
func (a *Attendance) Recalculate(p Policy) {
	if a.CheckOut == nil {
		a.TotalHours = 0
		a.OvertimeHours = 0
		a.LateMinutes = 0
		a.EarlyLeaveMinutes = 0
		a.Status = StatusPresent
		return
	}
	a.apply(Calculate(a.CheckIn.Time, a.CheckOut.Time, a.Date, p))
}

func (a *Attendance) apply(r Result) {
	a.TotalHours = r.TotalHours
	a.OvertimeHours = r.OvertimeHours
	a.LateMinutes = r.LateMinutes
	a.EarlyLeaveMinutes = r.EarlyLeaveMinutes
	a.Status = r.Status
}

// AnchorDate re-expresses the stored calendar date as midnight in loc.
// Storage keeps only the date, so the zone it comes back in is arbitrary.
func (a *Attendance) AnchorDate(loc *time.Location) {
	a.Date = time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), 0, 0, 0, 0, loc)
}

// CalendarDate is the zone-free form of date used by storage: UTC midnight
// of date's own calendar day.
func CalendarDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// DayOf returns midnight of t's calendar day in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func ParseMethod(s string) (Method, error) {
	for _, v := range MethodValues {
		if s == v {
			return Method(s), nil
		}
	}
	return "", ErrInvalidMethod
}

func ParseStatus(s string) (Status, error) {
	for _, v := range StatusValues {
		if s == v {
			return Status(s), nil
		}
	}
	return "", ErrInvalidStatus
}
