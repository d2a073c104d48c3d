package leave

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// BalanceStore persists balances. DebitBalance must subtract only when the
// stored remaining days cover duration, in a single conditional write, and
// return ErrInsufficientBalance otherwise.
type BalanceStore interface {
	DebitBalance(ctx context.Context, employeeID string, leaveType Type, duration float64) error
}

// Ledger guards balance mutations made by the leave workflow.
type Ledger struct {
	store BalanceStore
}

func NewLedger(store BalanceStore) *Ledger {
	return &Ledger{store: store}
}

// CheckSufficient reports whether b covers duration days of t.
func CheckSufficient(b Balance, t Type, duration float64) bool {
	return decimal.NewFromFloat(b.Remaining(t)).GreaterThanOrEqual(decimal.NewFromFloat(duration))
}

func (l *Ledger) CheckSufficient(b Balance, t Type, duration float64) bool {
	return CheckSufficient(b, t, duration)
}

// Debit re-validates and subtracts atomically. It must run once, when a
// request moves from pending to approved.
func (l *Ledger) Debit(ctx context.Context, employeeID string, t Type, duration float64) error {
	if duration <= 0 {
		return ErrInvalidDuration
	}
	if err := l.store.DebitBalance(ctx, employeeID, t, duration); err != nil {
		return fmt.Errorf("debit %s leave for employee %s: %w", t, employeeID, err)
	}
	return nil
}
