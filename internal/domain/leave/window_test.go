package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var wib = time.FixedZone("WIB", 7*3600)

func TestFullDayWindow(t *testing.T) {
	start := time.Date(2025, 6, 5, 0, 0, 0, 0, wib)
	end := time.Date(2025, 6, 10, 0, 0, 0, 0, wib)

	w := FullDayWindow(start, end, true)
	assert.Equal(t, start, w.Start)
	assert.Equal(t, time.Date(2025, 6, 10, 23, 59, 59, 999999999, wib), w.End)
	assert.Equal(t, 6.0, w.Duration)

	single := FullDayWindow(start, start, true)
	assert.True(t, single.Start.Before(single.End))
	assert.Equal(t, 1.0, single.Duration)

	exact := FullDayWindow(start, time.Date(2025, 6, 6, 12, 0, 0, 0, wib), false)
	assert.Equal(t, time.Date(2025, 6, 6, 12, 0, 0, 0, wib), exact.End)
	assert.Equal(t, 2.0, exact.Duration)
}

func TestHalfDayWindow(t *testing.T) {
	d := time.Date(2025, 6, 5, 0, 0, 0, 0, wib)

	morning := HalfDayWindow(d, HalfDayMorning, wib)
	afternoon := HalfDayWindow(d, HalfDayAfternoon, wib)
	assert.Equal(t, 0.5, morning.Duration)
	assert.Equal(t, 0.5, afternoon.Duration)
	assert.Equal(t, d, morning.Start)
	assert.Equal(t, time.Date(2025, 6, 5, 12, 0, 0, 0, wib), afternoon.Start)
	assert.True(t, morning.End.Before(afternoon.Start))

	existing := LeaveRequest{StartDate: morning.Start, EndDate: morning.End, Status: StatusApproved}
	assert.False(t, Overlaps(existing, afternoon.Start, afternoon.End))
}

func TestHalfDayWindowAnchorsInLocation(t *testing.T) {
	// 20:00 on 4 June at UTC-5 is already 5 June in WIB.
	d := time.Date(2025, 6, 4, 20, 0, 0, 0, time.FixedZone("EST", -5*3600))

	morning := HalfDayWindow(d, HalfDayMorning, wib)
	assert.True(t, morning.Start.Equal(time.Date(2025, 6, 5, 0, 0, 0, 0, wib)))
	assert.Equal(t, wib, morning.Start.Location())

	afternoon := HalfDayWindow(d, HalfDayAfternoon, wib)
	assert.True(t, afternoon.Start.Equal(time.Date(2025, 6, 5, 12, 0, 0, 0, wib)))
	assert.True(t, afternoon.End.Equal(time.Date(2025, 6, 6, 0, 0, 0, 0, wib).Add(-time.Nanosecond)))
}

func TestCalendarDaysAcrossMonths(t *testing.T) {
	start := time.Date(2025, 1, 30, 0, 0, 0, 0, wib)
	end := time.Date(2025, 2, 2, 23, 0, 0, 0, wib)
	assert.Equal(t, 4.0, CalendarDays(start, end))
}
