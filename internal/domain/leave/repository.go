package leave

import (
	"context"
	"time"
)

type ListFilter struct {
	EmployeeID *string
	Status     *Status
	Type       *Type
	From       *time.Time
	To         *time.Time
}

type LeaveRequestRepository interface {
	OverlapFinder

	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, error)
	// TransitionStatus applies t only while the request is pending, otherwise
	// ErrLeaveRequestAlreadyProcessed.
	TransitionStatus(ctx context.Context, t StatusTransition) error
	AddComment(ctx context.Context, requestID string, comment Comment) error
}
