package leave

import (
	"fmt"
	"strconv"
	"strings"
)

// Balance is the remaining days per leave type.
type Balance map[Type]float64

// DefaultBalance is granted to new employees unless configured otherwise.
func DefaultBalance() Balance {
	return Balance{
		TypeAnnual:      20,
		TypeSick:        10,
		TypePersonal:    5,
		TypeMaternity:   90,
		TypePaternity:   10,
		TypeBereavement: 5,
		TypeOther:       0,
	}
}

// ParseBalance reads "annual=20,sick=10" style overrides on top of the
// default balance.
func ParseBalance(s string) (Balance, error) {
	b := DefaultBalance()
	if strings.TrimSpace(s) == "" {
		return b, nil
	}
	for _, pair := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("leave balance entry %q: expected type=days", pair)
		}
		t, err := ParseType(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("leave balance entry %q: %w", pair, err)
		}
		days, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || days < 0 {
			return nil, fmt.Errorf("leave balance entry %q: days must be a non-negative number", pair)
		}
		b[t] = days
	}
	return b, nil
}

func (b Balance) Clone() Balance {
	out := make(Balance, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Remaining returns the days left for t; unknown types have none.
func (b Balance) Remaining(t Type) float64 {
	return b[t]
}
