package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	AddComment(w http.ResponseWriter, r *http.Request)
	GetMyBalance(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveRequest, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", leaveRequest)
}

func leaveFilterFromQuery(r *http.Request) leave.LeaveFilter {
	return leave.LeaveFilter{
		EmployeeID: queryParam(r, "employee_id"),
		Status:     queryParam(r, "status"),
		Type:       queryParam(r, "leave_type"),
		From:       queryParam(r, "from"),
		To:         queryParam(r, "to"),
	}
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	filter := leaveFilterFromQuery(r)
	filter.EmployeeID = nil

	requests, err := l.leaveService.ListMine(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, requests, len(requests))
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := l.leaveService.List(r.Context(), leaveFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, requests, len(requests))
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	leaveRequest, err := l.leaveService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leaveRequest)
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	leaveRequest, err := l.leaveService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", leaveRequest)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.RejectLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveRequest, err := l.leaveService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", leaveRequest)
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	leaveRequest, err := l.leaveService.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", leaveRequest)
}

// AddComment implements LeaveHandler.
func (l *LeaveHandlerImpl) AddComment(w http.ResponseWriter, r *http.Request) {
	var req leave.AddCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveRequest, err := l.leaveService.AddComment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Comment added successfully", leaveRequest)
}

// GetMyBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := l.leaveService.MyBalance(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}
