package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Result struct {
	TotalHours        float64
	OvertimeHours     float64
	LateMinutes       int
	EarlyLeaveMinutes int
	Status            Status
}

// Calculate derives the day's figures from a check-in/check-out pair.
// Office hours are anchored on date's calendar day in date's location.
// checkOut before checkIn is not rejected here.
func Calculate(checkIn, checkOut, date time.Time, p Policy) Result {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	officeStart := midnight.Add(time.Duration(p.OfficeStart) * time.Minute)
	officeEnd := midnight.Add(time.Duration(p.OfficeEnd) * time.Minute)

	total := decimal.NewFromInt(int64(checkOut.Sub(checkIn))).
		Div(decimal.NewFromInt(int64(time.Hour))).
		Round(2)
	overtime := total.Sub(decimal.NewFromFloat(p.StandardHours))
	if overtime.IsNegative() {
		overtime = decimal.Zero
	}

	r := Result{
		LateMinutes:       wholeMinutes(checkIn.Sub(officeStart)),
		EarlyLeaveMinutes: wholeMinutes(officeEnd.Sub(checkOut)),
		Status:            StatusPresent,
	}
	r.TotalHours, _ = total.Float64()
	r.OvertimeHours, _ = overtime.Float64()

	halfDay := total.LessThan(decimal.NewFromFloat(p.HalfDayHours))
	earlyLeave := r.EarlyLeaveMinutes > p.EarlyLeaveThresholdMinutes

	// First match wins.
	switch {
	case r.LateMinutes > p.LateThresholdMinutes:
		r.Status = StatusLate
	case halfDay && !p.EarlyLeaveBeforeHalfDay:
		r.Status = StatusHalfDay
	case earlyLeave:
		r.Status = StatusEarlyLeave
	case halfDay:
		r.Status = StatusHalfDay
	case overtime.IsPositive():
		r.Status = StatusOvertime
	}
	return r
}

// wholeMinutes floors a positive duration to minutes; non-positive is 0.
func wholeMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
