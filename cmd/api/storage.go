package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timekeeping/internal/config"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/department"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/memory"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/mongodb"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/postgresql"
)

type repositories struct {
	transactor database.Transactor

	departmentRepo department.DepartmentRepository
	employeeRepo   employee.EmployeeRepository
	shiftRepo      shift.ShiftRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository

	close func()
}

// openRepositories connects the backend selected by DB_DRIVER.
func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return &repositories{
			transactor:     postgresql.NewTransactor(db),
			departmentRepo: postgresql.NewDepartmentRepository(db),
			employeeRepo:   postgresql.NewEmployeeRepository(db),
			shiftRepo:      postgresql.NewShiftRepository(db),
			attendanceRepo: postgresql.NewAttendanceRepository(db),
			leaveRepo:      postgresql.NewLeaveRequestRepository(db),
			close:          db.Close,
		}, nil

	case config.DriverMongoDB:
		m, err := database.NewMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		if err := mongodb.EnsureIndexes(ctx, m); err != nil {
			_ = m.Close(ctx)
			return nil, fmt.Errorf("failed to ensure mongodb indexes: %w", err)
		}
		return &repositories{
			transactor:     mongodb.NewTransactor(m),
			departmentRepo: mongodb.NewDepartmentRepository(m),
			employeeRepo:   mongodb.NewEmployeeRepository(m),
			shiftRepo:      mongodb.NewShiftRepository(m),
			attendanceRepo: mongodb.NewAttendanceRepository(m),
			leaveRepo:      mongodb.NewLeaveRequestRepository(m),
			close: func() {
				if err := m.Close(context.Background()); err != nil {
					slog.Error("Failed to disconnect mongodb", "error", err)
				}
			},
		}, nil

	case config.DriverMemory:
		slog.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			transactor:     store,
			departmentRepo: memory.NewDepartmentRepository(store),
			employeeRepo:   memory.NewEmployeeRepository(store),
			shiftRepo:      memory.NewShiftRepository(store),
			attendanceRepo: memory.NewAttendanceRepository(store),
			leaveRepo:      memory.NewLeaveRequestRepository(store),
			close:          func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
}
