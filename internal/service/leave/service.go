package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/google/uuid"
)

type LeaveServiceImpl struct {
	requestRepo  leave.LeaveRequestRepository
	employeeRepo employee.EmployeeRepository
	transactor   database.Transactor
	ledger       *leave.Ledger
	guard        *leave.OverlapGuard
	loc          *time.Location
	now          func() time.Time
}

func NewLeaveService(
	requestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	transactor database.Transactor,
	loc *time.Location,
) leave.LeaveService {
	return &LeaveServiceImpl{
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		transactor:   transactor,
		ledger:       leave.NewLedger(employeeRepo),
		guard:        leave.NewOverlapGuard(requestRepo),
		loc:          loc,
		now:          time.Now,
	}
}

func (s *LeaveServiceImpl) startOfToday() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func (s *LeaveServiceImpl) localize(r leave.LeaveRequest) leave.LeaveRequest {
	r.StartDate = r.StartDate.In(s.loc)
	r.EndDate = r.EndDate.In(s.loc)
	return r
}

func (s *LeaveServiceImpl) load(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return s.localize(r), nil
}

func (s *LeaveServiceImpl) respond(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(r), nil
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !actor.Can(user.PermissionLeaveCreate) {
		return leave.LeaveRequestResponse{}, user.ErrPermissionDenied
	}

	leaveType, err := leave.ParseType(req.Type)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	window := req.Window(s.loc)
	if !window.Start.Before(window.End) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDateRange
	}
	if window.Start.Before(s.startOfToday()) {
		return leave.LeaveRequestResponse{}, leave.ErrStartDateInPast
	}

	request := leave.LeaveRequest{
		EmployeeID:  actor.EmployeeID,
		Type:        leaveType,
		StartDate:   window.Start,
		EndDate:     window.End,
		Duration:    window.Duration,
		Reason:      req.Reason,
		Status:      leave.StatusPending,
		IsHalfDay:   req.IsHalfDay,
		Attachments: req.Attachments,
	}
	if req.IsHalfDay {
		half := leave.HalfDayType(*req.HalfDayType)
		request.HalfDayType = &half
	}

	var created leave.LeaveRequest
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, actor.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to get employee: %w", err)
		}
		if !emp.IsActive {
			return employee.ErrEmployeeInactive
		}

		overlap, err := s.guard.HasOverlap(ctx, emp.ID, window.Start, window.End, "")
		if err != nil {
			return err
		}
		if overlap {
			return leave.ErrOverlappingLeave
		}

		if !s.ledger.CheckSufficient(emp.LeaveBalance, leaveType, window.Duration) {
			return leave.ErrInsufficientBalance
		}

		created, err = s.requestRepo.Create(ctx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request submitted",
		"request_id", created.ID,
		"employee_id", created.EmployeeID,
		"leave_type", created.Type,
		"duration", created.Duration,
	)

	return leave.NewLeaveRequestResponse(s.localize(created)), nil
}

func (s *LeaveServiceImpl) approver(ctx context.Context) (user.Actor, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return user.Actor{}, err
	}
	if !actor.IsApprover() {
		return user.Actor{}, user.ErrPermissionDenied
	}
	return actor, nil
}

// Approve implements leave.LeaveService. The balance debit and the status
// change commit together or not at all.
func (s *LeaveServiceImpl) Approve(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	actor, err := s.approver(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var approved leave.LeaveRequest
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.load(ctx, requestID)
		if err != nil {
			return err
		}
		if !request.IsPending() {
			return leave.ErrLeaveRequestAlreadyProcessed
		}
		if request.EmployeeID == actor.EmployeeID {
			return leave.ErrSelfApproval
		}

		overlap, err := s.guard.HasOverlap(ctx, request.EmployeeID, request.StartDate, request.EndDate, request.ID)
		if err != nil {
			return err
		}
		if overlap {
			return leave.ErrOverlappingLeave
		}

		if err := s.ledger.Debit(ctx, request.EmployeeID, request.Type, request.Duration); err != nil {
			return err
		}

		now := s.now()
		if err := s.requestRepo.TransitionStatus(ctx, leave.StatusTransition{
			ID:      request.ID,
			To:      leave.StatusApproved,
			ActorID: actor.EmployeeID,
			At:      now,
		}); err != nil {
			return fmt.Errorf("failed to approve leave request: %w", err)
		}

		request.Status = leave.StatusApproved
		request.ApprovedBy = &actor.EmployeeID
		request.ApprovedAt = &now
		request.UpdatedAt = now
		approved = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request approved",
		"request_id", approved.ID,
		"employee_id", approved.EmployeeID,
		"approved_by", actor.EmployeeID,
		"leave_type", approved.Type,
		"duration", approved.Duration,
	)

	return leave.NewLeaveRequestResponse(approved), nil
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	actor, err := s.approver(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.load(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !request.IsPending() {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	if request.EmployeeID == actor.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrSelfApproval
	}

	if err := s.requestRepo.TransitionStatus(ctx, leave.StatusTransition{
		ID:              request.ID,
		To:              leave.StatusRejected,
		ActorID:         actor.EmployeeID,
		At:              s.now(),
		RejectionReason: &req.Reason,
	}); err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to reject leave request: %w", err)
	}

	slog.Info("Leave request rejected",
		"request_id", request.ID,
		"employee_id", request.EmployeeID,
		"rejected_by", actor.EmployeeID,
	)

	return s.respond(ctx, request.ID)
}

// Cancel implements leave.LeaveService. The owner or an approver may cancel
// a pending request.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.load(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.EmployeeID != actor.EmployeeID && !actor.IsApprover() {
		return leave.LeaveRequestResponse{}, leave.ErrUnauthorized
	}
	if !request.IsPending() {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	if err := s.requestRepo.TransitionStatus(ctx, leave.StatusTransition{
		ID:      request.ID,
		To:      leave.StatusCancelled,
		ActorID: actor.EmployeeID,
		At:      s.now(),
	}); err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to cancel leave request: %w", err)
	}

	slog.Info("Leave request cancelled", "request_id", request.ID, "cancelled_by", actor.EmployeeID)

	return s.respond(ctx, request.ID)
}

// AddComment implements leave.LeaveService.
func (s *LeaveServiceImpl) AddComment(ctx context.Context, req leave.AddCommentRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.load(ctx, req.RequestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.EmployeeID != actor.EmployeeID && !actor.IsApprover() {
		return leave.LeaveRequestResponse{}, leave.ErrUnauthorized
	}

	if err := s.requestRepo.AddComment(ctx, request.ID, leave.Comment{
		ID:        uuid.Must(uuid.NewV7()).String(),
		AuthorID:  actor.EmployeeID,
		Body:      req.Body,
		CreatedAt: s.now(),
	}); err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to add comment: %w", err)
	}

	return s.respond(ctx, request.ID)
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.load(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.EmployeeID != actor.EmployeeID && !actor.Can(user.PermissionLeaveViewAll) {
		return leave.LeaveRequestResponse{}, leave.ErrUnauthorized
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRequestResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	filter.EmployeeID = &actor.EmployeeID
	return s.list(ctx, filter)
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRequestResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Can(user.PermissionLeaveViewAll) {
		return nil, user.ErrPermissionDenied
	}
	return s.list(ctx, filter)
}

func (s *LeaveServiceImpl) list(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.List(ctx, filter.ToListFilter(s.loc))
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	for i := range requests {
		requests[i] = s.localize(requests[i])
	}
	return leave.NewLeaveRequestResponses(requests), nil
}

// MyBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) MyBalance(ctx context.Context) (leave.BalanceResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return leave.NewBalanceResponse(emp.ID, emp.LeaveBalance), nil
}
