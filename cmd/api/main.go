package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-timekeeping/internal/handler/http"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	attendanceService "github.com/cmlabs-hris/hris-timekeeping/internal/service/attendance"
	departmentService "github.com/cmlabs-hris/hris-timekeeping/internal/service/department"
	employeeService "github.com/cmlabs-hris/hris-timekeeping/internal/service/employee"
	leaveService "github.com/cmlabs-hris/hris-timekeeping/internal/service/leave"
	shiftService "github.com/cmlabs-hris/hris-timekeeping/internal/service/shift"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-timekeeping"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Validate has already checked these.
	loc, _ := cfg.Location()
	policy, _ := cfg.AttendancePolicy()
	policySource, _ := cfg.PolicySource()
	defaultBalance, _ := cfg.DefaultLeaveBalance()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return err
	}

	departmentSvc := departmentService.NewDepartmentService(repos.departmentRepo, repos.employeeRepo)
	employeeSvc := employeeService.NewEmployeeService(repos.employeeRepo, repos.departmentRepo, repos.shiftRepo, defaultBalance)
	shiftSvc := shiftService.NewShiftService(repos.shiftRepo, repos.employeeRepo, repos.departmentRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		repos.attendanceRepo,
		repos.employeeRepo,
		repos.shiftRepo,
		policy,
		policySource,
		loc,
	)
	leaveSvc := leaveService.NewLeaveService(repos.leaveRepo, repos.employeeRepo, repos.transactor, loc)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		TokenAuth:      JWTService.JWTAuth(),
	}, appHTTP.Handlers{
		Department: appHTTP.NewDepartmentHandler(departmentSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Shift:      appHTTP.NewShiftHandler(shiftSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running",
			"addr", server.Addr,
			"driver", cfg.Database.Driver,
			"timezone", loc.String(),
			"policy_source", string(policySource),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
