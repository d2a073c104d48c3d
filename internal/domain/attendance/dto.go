package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

type PunchRequest struct {
	Method   string  `json:"method"`
	Location *string `json:"location,omitempty"`
	// At is an optional RFC3339 punch time reported by the device; the
	// server clock is used when absent.
	At *string `json:"at,omitempty"`
}

type CheckInRequest struct {
	PunchRequest
}

type CheckOutRequest struct {
	PunchRequest
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Method, MethodValues) {
		errs.Add("method", "method must be one of manual, biometric, system")
	}
	if r.Location != nil && len(*r.Location) > 255 {
		errs.Add("location", "location must not exceed 255 characters")
	}
	if r.At != nil {
		if _, ok := validator.IsValidDateTime(*r.At); !ok {
			errs.Add("at", "at must be an RFC3339 timestamp")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Punch builds the event, falling back to now when no device time is given.
// Call after Validate.
func (r *PunchRequest) Punch(now time.Time) Punch {
	t := now
	if r.At != nil {
		if at, ok := validator.IsValidDateTime(*r.At); ok {
			t = at
		}
	}
	return Punch{Time: t, Method: Method(r.Method), Location: r.Location}
}

type AmendAttendanceRequest struct {
	ID           string  `json:"-"`
	Status       *string `json:"status,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
}

func (r *AmendAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, StatusValues) {
		errs.Add("status", "status is not a valid attendance status")
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs.Add("notes", "notes must not exceed 1000 characters")
	}
	if r.CheckInTime != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckInTime); !ok {
			errs.Add("check_in_time", "check_in_time must be an RFC3339 timestamp")
		}
	}
	if r.CheckOutTime != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckOutTime); !ok {
			errs.Add("check_out_time", "check_out_time must be an RFC3339 timestamp")
		}
	}
	if r.Status == nil && r.Notes == nil && r.CheckInTime == nil && r.CheckOutTime == nil {
		errs.Add("body", "at least one field must be provided")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceFilter struct {
	EmployeeID *string
	From       *string // YYYY-MM-DD
	To         *string // YYYY-MM-DD
	Status     *string
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

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
	if f.Status != nil && !validator.IsInSlice(*f.Status, StatusValues) {
		errs.Add("status", "status is not a valid attendance status")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToListFilter converts a validated filter, anchoring dates in loc.
func (f *AttendanceFilter) ToListFilter(loc *time.Location) ListFilter {
	lf := ListFilter{EmployeeID: f.EmployeeID}
	if f.From != nil {
		if d, err := time.ParseInLocation("2006-01-02", *f.From, loc); err == nil {
			lf.From = &d
		}
	}
	if f.To != nil {
		if d, err := time.ParseInLocation("2006-01-02", *f.To, loc); err == nil {
			lf.To = &d
		}
	}
	if f.Status != nil {
		s := Status(*f.Status)
		lf.Status = &s
	}
	return lf
}

type PunchResponse struct {
	Time     time.Time `json:"time"`
	Method   string    `json:"method"`
	Location *string   `json:"location,omitempty"`
}

type AttendanceResponse struct {
	ID                string         `json:"id"`
	EmployeeID        string         `json:"employee_id"`
	Date              string         `json:"date"`
	CheckIn           PunchResponse  `json:"check_in"`
	CheckOut          *PunchResponse `json:"check_out,omitempty"`
	ShiftID           *string        `json:"shift_id,omitempty"`
	TotalHours        float64        `json:"total_hours"`
	OvertimeHours     float64        `json:"overtime_hours"`
	LateMinutes       int            `json:"late_minutes"`
	EarlyLeaveMinutes int            `json:"early_leave_minutes"`
	Status            string         `json:"status"`
	Notes             *string        `json:"notes,omitempty"`
	ApprovedBy        *string        `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time     `json:"approved_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Date:       a.Date.Format("2006-01-02"),
		CheckIn: PunchResponse{
			Time:     a.CheckIn.Time,
			Method:   string(a.CheckIn.Method),
			Location: a.CheckIn.Location,
		},
		ShiftID:           a.ShiftID,
		TotalHours:        a.TotalHours,
		OvertimeHours:     a.OvertimeHours,
		LateMinutes:       a.LateMinutes,
		EarlyLeaveMinutes: a.EarlyLeaveMinutes,
		Status:            string(a.Status),
		Notes:             a.Notes,
		ApprovedBy:        a.ApprovedBy,
		ApprovedAt:        a.ApprovedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	if a.CheckOut != nil {
		resp.CheckOut = &PunchResponse{
			Time:     a.CheckOut.Time,
			Method:   string(a.CheckOut.Method),
			Location: a.CheckOut.Location,
		}
	}
	return resp
}

func NewAttendanceResponses(records []Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, a := range records {
		out = append(out, NewAttendanceResponse(a))
	}
	return out
}
