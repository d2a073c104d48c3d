package attendance

import (
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
)

// PolicySource selects where office hours come from.
type PolicySource string

const (
	PolicySourceGlobal PolicySource = "global"
	PolicySourceShift  PolicySource = "shift"
)

// Policy holds the constants the calculator measures a day against.
// OfficeStart and OfficeEnd are minutes after the record date's midnight;
// OfficeEnd exceeds 1440 for overnight shifts.
type Policy struct {
	StandardHours              float64
	OfficeStart                int
	OfficeEnd                  int
	LateThresholdMinutes       int
	EarlyLeaveThresholdMinutes int
	HalfDayHours               float64
	// EarlyLeaveBeforeHalfDay selects the status order late, early_leave,
	// half_day, overtime. When false (the default) the order is late,
	// half_day, early_leave, overtime, so a 09:00-12:00 day reads as
	// half_day rather than early_leave.
	EarlyLeaveBeforeHalfDay bool
}

func DefaultPolicy() Policy {
	return Policy{
		StandardHours:              8,
		OfficeStart:                9 * 60,
		OfficeEnd:                  17 * 60,
		LateThresholdMinutes:       30,
		EarlyLeaveThresholdMinutes: 60,
		HalfDayHours:               4,
	}
}

// ForShift keeps p's thresholds and takes office hours and the standard
// day from s.
func (p Policy) ForShift(s shift.Shift) (Policy, error) {
	start, end, err := shift.Span(s.StartTime, s.EndTime)
	if err != nil {
		return Policy{}, fmt.Errorf("shift %s: %w", s.ID, err)
	}
	p.OfficeStart = start
	p.OfficeEnd = end
	p.StandardHours = s.TotalHours
	return p, nil
}
