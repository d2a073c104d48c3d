package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// UUIDv7 regex: version 7 (the 15th character must be '7'), all lowercase hex digits.
var uuidv7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UUIDv7 validation
func IsValidUUID(uuid string) bool {
	return uuidv7Regex.MatchString(strings.ToLower(uuid))
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// Employee codes: 3-20 chars, upper-case letters, digits and dashes.
var employeeCodeRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{2,19}$`)

func IsValidEmployeeCode(code string) bool {
	return employeeCodeRegex.MatchString(code)
}

var clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsValidClock reports whether s is a 24-hour "HH:MM" wall-clock value.
func IsValidClock(s string) bool {
	return clockRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
// Accepts formats like: "2024-01-15T10:30:00Z" or "2024-01-15T10:30:00+07:00"
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ParseDateOrDateTime accepts "YYYY-MM-DD" (interpreted at midnight in loc)
// or an RFC3339 timestamp. dateOnly reports which form matched.
func ParseDateOrDateTime(s string, loc *time.Location) (t time.Time, dateOnly bool, ok bool) {
	if d, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return d, true, true
	}
	if dt, valid := IsValidDateTime(s); valid {
		return dt.In(loc), false, true
	}
	return time.Time{}, false, false
}
