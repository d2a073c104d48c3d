package shift

import "time"

const DefaultBreakMinutes = 60

type Shift struct {
	ID           string
	Name         string
	StartTime    string // HH:MM
	EndTime      string // HH:MM, earlier than StartTime for overnight shifts
	BreakMinutes int
	TotalHours   float64
	IsActive     bool
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOvernight reports whether the shift ends on the following calendar day.
func (s Shift) IsOvernight() bool {
	return s.EndTime < s.StartTime
}

// Recompute refreshes TotalHours from the shift's clock fields.
func (s *Shift) Recompute() error {
	hours, err := NominalHours(s.StartTime, s.EndTime, s.BreakMinutes)
	if err != nil {
		return err
	}
	s.TotalHours = hours
	return nil
}
