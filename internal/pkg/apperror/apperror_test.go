package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	errBalance := Conflict("insufficient leave balance")
	wrapped := fmt.Errorf("approve leave: %w", errBalance)

	assert.True(t, errors.Is(wrapped, errBalance))
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.False(t, errors.Is(wrapped, ErrState))
	assert.Equal(t, "insufficient leave balance", errBalance.Error())
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want error
	}{
		{Validation("bad clock"), ErrValidation},
		{State("already checked out"), ErrState},
		{NotFound("shift not found"), ErrNotFound},
		{Forbidden("not yours"), ErrForbidden},
		{fmt.Errorf("wrapped: %w", Conflict("dup")), ErrConflict},
		{errors.New("plain"), nil},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, KindOf(c.err), c.err.Error())
	}
}

func TestMessageUnwraps(t *testing.T) {
	err := fmt.Errorf("approve leave abc: %w", fmt.Errorf("debit: %w", Conflict("insufficient leave balance")))
	assert.Equal(t, "insufficient leave balance", Message(err))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}
