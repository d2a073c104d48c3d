package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetMe(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	SetLeaveBalance(w http.ResponseWriter, r *http.Request)
	AssignShift(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// Create implements EmployeeHandler.
func (h *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{
		DepartmentID: queryParam(r, "department_id"),
		ShiftID:      queryParam(r, "shift_id"),
	}
	if v := queryParam(r, "active_only"); v != nil {
		activeOnly, err := strconv.ParseBool(*v)
		if err != nil {
			response.BadRequest(w, "active_only must be a boolean", nil)
			return
		}
		filter.ActiveOnly = activeOnly
	}

	employees, err := h.employeeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, employees, len(employees))
}

// GetMe implements EmployeeHandler.
func (h *employeeHandlerImpl) GetMe(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.GetMe(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements EmployeeHandler.
func (h *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SetLeaveBalance implements EmployeeHandler.
func (h *employeeHandlerImpl) SetLeaveBalance(w http.ResponseWriter, r *http.Request) {
	var req employee.SetLeaveBalanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.SetLeaveBalance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance updated successfully", result)
}

// AssignShift implements EmployeeHandler.
func (h *employeeHandlerImpl) AssignShift(w http.ResponseWriter, r *http.Request) {
	var req employee.AssignShiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.AssignShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift assigned successfully", result)
}

// SetStatus implements EmployeeHandler.
func (h *employeeHandlerImpl) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req employee.SetActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.SetActive(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Employee activated successfully"
	if !*req.IsActive {
		message = "Employee inactivated successfully"
	}
	response.SuccessWithMessage(w, message, result)
}
