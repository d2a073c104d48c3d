package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // v1
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"",
	}
	for _, uuid := range valid {
		assert.True(t, IsValidUUID(uuid), uuid)
	}
	for _, uuid := range invalid {
		assert.False(t, IsValidUUID(uuid), uuid)
	}
}

func TestIsValidClock(t *testing.T) {
	for _, s := range []string{"00:00", "09:30", "23:59", "12:05"} {
		assert.True(t, IsValidClock(s), s)
	}
	for _, s := range []string{"24:00", "9:30", "09:60", "0930", "", "09:3a", " 09:30"} {
		assert.False(t, IsValidClock(s), s)
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	assert.True(t, IsValidEmployeeCode("EMP-0001"))
	assert.True(t, IsValidEmployeeCode("A12"))
	assert.False(t, IsValidEmployeeCode("emp-1"))
	assert.False(t, IsValidEmployeeCode("-AB"))
	assert.False(t, IsValidEmployeeCode("AB"))
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	errs.Add("start_time", "must be HH:MM")
	errs.Add("name", "is required")

	assert.Len(t, errs, 2)
	assert.Equal(t, "start_time: must be HH:MM; name: is required", errs.Error())
	assert.Equal(t, map[string]string{"start_time": "must be HH:MM", "name": "is required"}, errs.ToMap())
}

func TestParseDateOrDateTime(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)

	d, dateOnly, ok := ParseDateOrDateTime("2025-03-10", loc)
	require.True(t, ok)
	assert.True(t, dateOnly)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), d)

	dt, dateOnly, ok := ParseDateOrDateTime("2025-03-10T02:00:00Z", loc)
	require.True(t, ok)
	assert.False(t, dateOnly)
	assert.True(t, dt.Equal(time.Date(2025, 3, 10, 9, 0, 0, 0, loc)))
	assert.Equal(t, loc, dt.Location())

	_, _, ok = ParseDateOrDateTime("10/03/2025", loc)
	assert.False(t, ok)
}
