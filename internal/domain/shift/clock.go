package shift

import (
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const minutesPerDay = 24 * 60

// ParseClock converts an "HH:MM" wall-clock value to minutes since midnight.
func ParseClock(s string) (int, error) {
	if !validator.IsValidClock(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	return h*60 + m, nil
}

// Span returns start and end as minutes since the start day's midnight.
// For shifts crossing midnight end is pushed past 1440.
func Span(start, end string) (startMin, endMin int, err error) {
	startMin, err = ParseClock(start)
	if err != nil {
		return 0, 0, err
	}
	endMin, err = ParseClock(end)
	if err != nil {
		return 0, 0, err
	}
	if endMin < startMin {
		endMin += minutesPerDay
	}
	return startMin, endMin, nil
}

// NominalHours is (end - start - break) / 60 rounded to two decimals.
// A break longer than the span yields a negative value.
func NominalHours(start, end string, breakMinutes int) (float64, error) {
	startMin, endMin, err := Span(start, end)
	if err != nil {
		return 0, err
	}
	worked := decimal.NewFromInt(int64(endMin - startMin - breakMinutes))
	hours, _ := worked.Div(decimal.NewFromInt(60)).Round(2).Float64()
	return hours, nil
}
