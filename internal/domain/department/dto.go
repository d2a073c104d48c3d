package department

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

type CreateDepartmentRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ManagerID   *string `json:"manager_id,omitempty"`
}

func (r *CreateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}
	if r.Description != nil && len(*r.Description) > 500 {
		errs.Add("description", "description must not exceed 500 characters")
	}
	if r.ManagerID != nil && !validator.IsValidUUID(*r.ManagerID) {
		errs.Add("manager_id", "manager_id must be a valid UUID")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ManagerID   *string   `json:"manager_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewDepartmentResponse(d Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ManagerID:   d.ManagerID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
