package leave

import "time"

// Window is the resolved time span a request covers.
type Window struct {
	Start    time.Time
	End      time.Time // inclusive, last instant covered
	Duration float64   // days
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FullDayWindow covers start through end. A date-only end extends to the
// last instant of that day.
func FullDayWindow(start, end time.Time, endDateOnly bool) Window {
	if endDateOnly {
		end = endOfDay(startOfDay(end))
	}
	return Window{Start: start, End: end, Duration: CalendarDays(start, end)}
}

// HalfDayWindow covers the morning (before noon) or afternoon of day's
// calendar date in loc.
func HalfDayWindow(day time.Time, half HalfDayType, loc *time.Location) Window {
	midnight := startOfDay(day.In(loc))
	noon := midnight.Add(12 * time.Hour)
	if half == HalfDayMorning {
		return Window{Start: midnight, End: noon.Add(-time.Nanosecond), Duration: 0.5}
	}
	return Window{Start: noon, End: endOfDay(midnight), Duration: 0.5}
}

// CalendarDays counts the calendar days touched by [start, end].
func CalendarDays(start, end time.Time) float64 {
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.In(start.Location()).Date()
	// Counted on UTC dates so DST shifts cannot skew the day count.
	first := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	last := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return float64(last.Sub(first)/(24*time.Hour)) + 1
}
