package shift

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

type CreateShiftRequest struct {
	Name         string  `json:"name"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	BreakMinutes *int    `json:"break_minutes,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}
	if !validator.IsValidClock(r.StartTime) {
		errs.Add("start_time", "start_time must be in HH:MM format")
	}
	if !validator.IsValidClock(r.EndTime) {
		errs.Add("end_time", "end_time must be in HH:MM format")
	}
	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs.Add("break_minutes", "break_minutes must not be negative")
	}
	if r.DepartmentID != nil && !validator.IsValidUUID(*r.DepartmentID) {
		errs.Add("department_id", "department_id must be a valid UUID")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateShiftRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	StartTime    *string `json:"start_time,omitempty"`
	EndTime      *string `json:"end_time,omitempty"`
	BreakMinutes *int    `json:"break_minutes,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	if r.StartTime != nil && !validator.IsValidClock(*r.StartTime) {
		errs.Add("start_time", "start_time must be in HH:MM format")
	}
	if r.EndTime != nil && !validator.IsValidClock(*r.EndTime) {
		errs.Add("end_time", "end_time must be in HH:MM format")
	}
	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs.Add("break_minutes", "break_minutes must not be negative")
	}
	if r.DepartmentID != nil && !validator.IsValidUUID(*r.DepartmentID) {
		errs.Add("department_id", "department_id must be a valid UUID")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	BreakMinutes int       `json:"break_minutes"`
	TotalHours   float64   `json:"total_hours"`
	IsOvernight  bool      `json:"is_overnight"`
	IsActive     bool      `json:"is_active"`
	DepartmentID *string   `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewShiftResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:           s.ID,
		Name:         s.Name,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		BreakMinutes: s.BreakMinutes,
		TotalHours:   s.TotalHours,
		IsOvernight:  s.IsOvernight(),
		IsActive:     s.IsActive,
		DepartmentID: s.DepartmentID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
