package leave

import (
	"net/url"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	Type        string   `json:"leave_type"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Reason      string   `json:"reason"`
	IsHalfDay   bool     `json:"is_half_day"`
	HalfDayType *string  `json:"half_day_type,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Type, TypeValues) {
		errs.Add("leave_type", "leave_type must be one of annual, sick, personal, maternity, paternity, bereavement, other")
	}

	if validator.IsEmpty(r.StartDate) {
		errs.Add("start_date", "start_date is required")
	} else if _, _, ok := validator.ParseDateOrDateTime(r.StartDate, time.UTC); !ok {
		errs.Add("start_date", "start_date must be YYYY-MM-DD or an RFC3339 timestamp")
	}

	if r.IsHalfDay {
		if r.HalfDayType == nil || !validator.IsInSlice(*r.HalfDayType, HalfDayTypeValues) {
			errs.Add("half_day_type", "half_day_type must be morning or afternoon for a half-day leave")
		}
		if !validator.IsEmpty(r.EndDate) && r.EndDate != r.StartDate {
			errs.Add("end_date", "a half-day leave must start and end on the same date")
		}
	} else {
		if r.HalfDayType != nil {
			errs.Add("half_day_type", "half_day_type is only allowed for a half-day leave")
		}
		if validator.IsEmpty(r.EndDate) {
			errs.Add("end_date", "end_date is required")
		} else if _, _, ok := validator.ParseDateOrDateTime(r.EndDate, time.UTC); !ok {
			errs.Add("end_date", "end_date must be YYYY-MM-DD or an RFC3339 timestamp")
		}
	}

	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	if len(r.Attachments) > 10 {
		errs.Add("attachments", "at most 10 attachments are allowed")
	}
	for _, a := range r.Attachments {
		u, err := url.ParseRequestURI(a)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs.Add("attachments", "attachments must be http(s) URLs")
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Window resolves the request's span in loc. Call after Validate.
func (r *CreateLeaveRequest) Window(loc *time.Location) Window {
	start, _, _ := validator.ParseDateOrDateTime(r.StartDate, loc)
	if r.IsHalfDay {
		return HalfDayWindow(start, HalfDayType(*r.HalfDayType), loc)
	}
	end, endDateOnly, _ := validator.ParseDateOrDateTime(r.EndDate, loc)
	return FullDayWindow(start, end, endDateOnly)
}

type RejectLeaveRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "rejection reason is required")
	} else if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddCommentRequest struct {
	RequestID string `json:"-"`
	Body      string `json:"body"`
}

func (r *AddCommentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.Body) {
		errs.Add("body", "body is required")
	} else if len(r.Body) > 2000 {
		errs.Add("body", "body must not exceed 2000 characters")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveFilter struct {
	EmployeeID *string
	Status     *string
	Type       *string
	From       *string // YYYY-MM-DD
	To         *string // YYYY-MM-DD
}

func (f *LeaveFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, StatusValues) {
		errs.Add("status", "status is not a valid leave status")
	}
	if f.Type != nil && !validator.IsInSlice(*f.Type, TypeValues) {
		errs.Add("leave_type", "leave_type is not a valid leave type")
	}
	if f.From != nil {
		if _, ok := validator.IsValidDate(*f.From); !ok {
			errs.Add("from", "from must be YYYY-MM-DD")
		}
	}
	if f.To != nil {
		if _, ok := validator.IsValidDate(*f.To); !ok {
			errs.Add("to", "to must be YYYY-MM-DD")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToListFilter converts a validated filter. To covers the whole named day.
func (f *LeaveFilter) ToListFilter(loc *time.Location) ListFilter {
	lf := ListFilter{EmployeeID: f.EmployeeID}
	if f.Status != nil {
		s := Status(*f.Status)
		lf.Status = &s
	}
	if f.Type != nil {
		t := Type(*f.Type)
		lf.Type = &t
	}
	if f.From != nil {
		if d, err := time.ParseInLocation("2006-01-02", *f.From, loc); err == nil {
			lf.From = &d
		}
	}
	if f.To != nil {
		if d, err := time.ParseInLocation("2006-01-02", *f.To, loc); err == nil {
			end := endOfDay(d)
			lf.To = &end
		}
	}
	return lf
}

type CommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type LeaveRequestResponse struct {
	ID              string            `json:"id"`
	EmployeeID      string            `json:"employee_id"`
	Type            string            `json:"leave_type"`
	StartDate       time.Time         `json:"start_date"`
	EndDate         time.Time         `json:"end_date"`
	Duration        float64           `json:"duration"`
	Reason          string            `json:"reason"`
	Status          string            `json:"status"`
	IsHalfDay       bool              `json:"is_half_day"`
	HalfDayType     *string           `json:"half_day_type,omitempty"`
	ApprovedBy      *string           `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time        `json:"approved_at,omitempty"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	Attachments     []string          `json:"attachments"`
	Comments        []CommentResponse `json:"comments"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Type:            string(r.Type),
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Duration:        r.Duration,
		Reason:          r.Reason,
		Status:          string(r.Status),
		IsHalfDay:       r.IsHalfDay,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		Attachments:     r.Attachments,
		Comments:        make([]CommentResponse, 0, len(r.Comments)),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.HalfDayType != nil {
		h := string(*r.HalfDayType)
		resp.HalfDayType = &h
	}
	if resp.Attachments == nil {
		resp.Attachments = []string{}
	}
	for _, c := range r.Comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:        c.ID,
			AuthorID:  c.AuthorID,
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
		})
	}
	return resp
}

func NewLeaveRequestResponses(requests []LeaveRequest) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, NewLeaveRequestResponse(r))
	}
	return out
}

type BalanceResponse struct {
	EmployeeID string             `json:"employee_id"`
	Balances   map[string]float64 `json:"balances"`
}

func NewBalanceResponse(employeeID string, b Balance) BalanceResponse {
	out := make(map[string]float64, len(TypeValues))
	for _, t := range TypeValues {
		out[t] = b.Remaining(Type(t))
	}
	return BalanceResponse{EmployeeID: employeeID, Balances: out}
}
