package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	TokenAuth      *jwtauth.JWTAuth
}

type Handlers struct {
	Department DepartmentHandler
	Employee   EmployeeHandler
	Shift      ShiftHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
}

func NewRouter(cfg RouterConfig, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	can := middleware.RequirePermission

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  cfg.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(cfg.TokenAuth))
		r.Use(middleware.AuthRequired)

		r.Route("/departments", func(r chi.Router) {
			r.With(can(user.PermissionEmployeeManage)).Post("/", h.Department.Create)
			r.Get("/", h.Department.List)
			r.Get("/{id}", h.Department.Get)
		})

		r.Route("/employees", func(r chi.Router) {
			r.With(can(user.PermissionEmployeeManage)).Post("/", h.Employee.Create)
			r.With(can(user.PermissionEmployeeViewAll)).Get("/", h.Employee.List)
			r.Get("/me", h.Employee.GetMe)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Employee.Get)
				r.With(can(user.PermissionLeaveManageBalance)).Put("/leave-balance", h.Employee.SetLeaveBalance)
				r.With(can(user.PermissionEmployeeManage)).Put("/shift", h.Employee.AssignShift)
				r.With(can(user.PermissionEmployeeManage)).Put("/status", h.Employee.SetStatus)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.Shift.List)
			r.Get("/{id}", h.Shift.Get)

			r.Group(func(r chi.Router) {
				r.Use(can(user.PermissionShiftManage))
				r.Post("/", h.Shift.Create)
				r.Put("/{id}", h.Shift.Update)
				r.Delete("/{id}", h.Shift.Delete)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.With(can(user.PermissionAttendanceCreate)).Post("/check-in", h.Attendance.CheckIn)
			r.With(can(user.PermissionAttendanceCreate)).Post("/check-out", h.Attendance.CheckOut)
			r.Get("/me", h.Attendance.GetMyAttendance)
			r.With(can(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
			r.Get("/{id}", h.Attendance.Get)
			r.With(can(user.PermissionAttendanceApprove)).Put("/{id}", h.Attendance.Amend)
		})

		r.Route("/leaves", func(r chi.Router) {
			r.With(can(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateRequest)
			r.Get("/me", h.Leave.GetMyRequests)
			r.Get("/balance/me", h.Leave.GetMyBalance)
			r.With(can(user.PermissionLeaveViewAll)).Get("/", h.Leave.ListRequests)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Leave.GetRequest)
				r.With(can(user.PermissionLeaveApprove)).Post("/approve", h.Leave.ApproveRequest)
				r.With(can(user.PermissionLeaveApprove)).Post("/reject", h.Leave.RejectRequest)
				r.Post("/cancel", h.Leave.CancelRequest)
				r.Post("/comments", h.Leave.AddComment)
			})
		})
	})
	return r
}
