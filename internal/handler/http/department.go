package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/department"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DepartmentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type departmentHandlerImpl struct {
	departmentService department.DepartmentService
}

func NewDepartmentHandler(departmentService department.DepartmentService) DepartmentHandler {
	return &departmentHandlerImpl{
		departmentService: departmentService,
	}
}

func (h *departmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req department.CreateDepartmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.departmentService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Department created successfully", result)
}

func (h *departmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	departments, err := h.departmentService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, departments, len(departments))
}

func (h *departmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.departmentService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
