package leave

import "context"

type LeaveService interface {
	Submit(ctx context.Context, req CreateLeaveRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, req RejectLeaveRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	AddComment(ctx context.Context, req AddCommentRequest) (LeaveRequestResponse, error)
	Get(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	ListMine(ctx context.Context, filter LeaveFilter) ([]LeaveRequestResponse, error)
	List(ctx context.Context, filter LeaveFilter) ([]LeaveRequestResponse, error)
	MyBalance(ctx context.Context) (BalanceResponse, error)
}
