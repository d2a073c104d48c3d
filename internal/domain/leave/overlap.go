package leave

import (
	"context"
	"fmt"
	"time"
)

// OverlapFinder returns the employee's pending and approved requests that
// may intersect [start, end]. It may over-select; Overlaps decides.
type OverlapFinder interface {
	FindOverlapCandidates(ctx context.Context, employeeID string, start, end time.Time) ([]LeaveRequest, error)
}

// Overlaps applies the inclusive interval test to an existing request.
// Rejected and cancelled requests never overlap.
func Overlaps(existing LeaveRequest, start, end time.Time) bool {
	if !existing.Status.Blocking() {
		return false
	}
	return !existing.StartDate.After(end) && !existing.EndDate.Before(start)
}

type OverlapGuard struct {
	finder OverlapFinder
}

func NewOverlapGuard(finder OverlapFinder) *OverlapGuard {
	return &OverlapGuard{finder: finder}
}

// HasOverlap checks the employee's leave against [start, end], skipping
// excludeID when non-empty.
func (g *OverlapGuard) HasOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	candidates, err := g.finder.FindOverlapCandidates(ctx, employeeID, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to load leave requests for overlap check: %w", err)
	}
	for _, existing := range candidates {
		if excludeID != "" && existing.ID == excludeID {
			continue
		}
		if existing.EmployeeID != employeeID {
			continue
		}
		if Overlaps(existing, start, end) {
			return true, nil
		}
	}
	return false, nil
}
