package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
)

type leaveRequestRepository struct {
	s *Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{s: s}
}

func cloneLeave(l leave.LeaveRequest) leave.LeaveRequest {
	l.Attachments = append([]string(nil), l.Attachments...)
	l.Comments = append([]leave.Comment(nil), l.Comments...)
	return l
}

func (r *leaveRequestRepository) Create(ctx context.Context, l leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	l.ID = newID()
	l.CreatedAt, l.UpdatedAt = now, now
	r.s.leaves[l.ID] = cloneLeave(l)
	r.s.record(ctx, func() { delete(r.s.leaves, l.ID) })
	return l, nil
}

func (r *leaveRequestRepository) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return cloneLeave(l), nil
}

func (r *leaveRequestRepository) List(_ context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]leave.LeaveRequest, 0)
	for _, l := range r.s.leaves {
		if filter.EmployeeID != nil && l.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && l.Type != *filter.Type {
			continue
		}
		if filter.From != nil && l.EndDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && l.StartDate.After(*filter.To) {
			continue
		}
		out = append(out, cloneLeave(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r *leaveRequestRepository) FindOverlapCandidates(_ context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]leave.LeaveRequest, 0)
	for _, l := range r.s.leaves {
		if l.EmployeeID == employeeID && leave.Overlaps(l, start, end) {
			out = append(out, cloneLeave(l))
		}
	}
	return out, nil
}

func (r *leaveRequestRepository) TransitionStatus(ctx context.Context, t leave.StatusTransition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.leaves[t.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if prev.Status != leave.StatusPending {
		return leave.ErrLeaveRequestAlreadyProcessed
	}

	next := cloneLeave(prev)
	next.Status = t.To
	next.UpdatedAt = t.At
	if t.To == leave.StatusApproved || t.To == leave.StatusRejected {
		actor, at := t.ActorID, t.At
		next.ApprovedBy, next.ApprovedAt = &actor, &at
		next.RejectionReason = t.RejectionReason
	}
	r.s.leaves[t.ID] = next
	r.s.record(ctx, func() {
		cur, ok := r.s.leaves[t.ID]
		if !ok {
			return
		}
		cur = cloneLeave(cur)
		cur.Status = prev.Status
		cur.ApprovedBy, cur.ApprovedAt = prev.ApprovedBy, prev.ApprovedAt
		cur.RejectionReason = prev.RejectionReason
		r.s.leaves[t.ID] = cur
	})
	return nil
}

func (r *leaveRequestRepository) AddComment(ctx context.Context, requestID string, c leave.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.leaves[requestID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	next := cloneLeave(prev)
	if c.ID == "" {
		c.ID = newID()
	}
	next.Comments = append(next.Comments, c)
	next.UpdatedAt = c.CreatedAt
	r.s.leaves[requestID] = next
	r.s.record(ctx, func() {
		cur, ok := r.s.leaves[requestID]
		if !ok {
			return
		}
		cur = cloneLeave(cur)
		for i := range cur.Comments {
			if cur.Comments[i].ID == c.ID {
				cur.Comments = append(cur.Comments[:i], cur.Comments[i+1:]...)
				break
			}
		}
		r.s.leaves[requestID] = cur
	})
	return nil
}
