package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

// Device clocks may run slightly ahead of the server.
const maxClockSkew = 5 * time.Minute

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	shiftRepo      shift.ShiftRepository
	policy         attendance.Policy
	policySource   attendance.PolicySource
	loc            *time.Location
	now            func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	policy attendance.Policy,
	policySource attendance.PolicySource,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		shiftRepo:      shiftRepo,
		policy:         policy,
		policySource:   policySource,
		loc:            loc,
		now:            time.Now,
	}
}

func (s *AttendanceServiceImpl) punch(req *attendance.PunchRequest) (attendance.Punch, error) {
	now := s.now()
	p := req.Punch(now)
	if p.Time.After(now.Add(maxClockSkew)) {
		return attendance.Punch{}, attendance.ErrPunchInFuture
	}
	p.Time = p.Time.In(s.loc)
	return p, nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeInactive
	}

	punch, err := s.punch(&req.PunchRequest)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record := attendance.Attendance{
		EmployeeID: emp.ID,
		Date:       attendance.DayOf(punch.Time, s.loc),
		CheckIn:    punch,
		ShiftID:    emp.ShiftID,
		Status:     attendance.StatusPresent,
	}

	created, err := s.attendanceRepo.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	slog.Info("Employee checked in",
		"employee_id", emp.ID,
		"attendance_id", created.ID,
		"date", created.Date.Format("2006-01-02"),
		"method", punch.Method,
	)

	return attendance.NewAttendanceResponse(created), nil
}

// openRecord finds the record a check-out at t closes: the one for t's day,
// or yesterday's still-open record for shifts that cross midnight.
func (s *AttendanceServiceImpl) openRecord(ctx context.Context, employeeID string, t time.Time) (attendance.Attendance, error) {
	today := attendance.DayOf(t, s.loc)

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
	if err == nil {
		record.AnchorDate(s.loc)
		return record, nil
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	record, err = s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today.AddDate(0, 0, -1))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get yesterday's attendance: %w", err)
	}
	if record.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}
	record.AnchorDate(s.loc)
	return record, nil
}

// policyFor returns the policy a record is measured against.
func (s *AttendanceServiceImpl) policyFor(ctx context.Context, record attendance.Attendance) (attendance.Policy, error) {
	if s.policySource != attendance.PolicySourceShift || record.ShiftID == nil {
		return s.policy, nil
	}

	sh, err := s.shiftRepo.GetByID(ctx, *record.ShiftID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			slog.Warn("Shift of attendance record no longer exists, using global policy",
				"attendance_id", record.ID,
				"shift_id", *record.ShiftID,
			)
			return s.policy, nil
		}
		return attendance.Policy{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s.policy.ForShift(sh)
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	punch, err := s.punch(&req.PunchRequest)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.openRecord(ctx, actor.EmployeeID, punch.Time)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if record.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}
	if punch.Time.Before(record.CheckIn.Time) {
		return attendance.AttendanceResponse{}, attendance.ErrCheckOutBeforeCheckIn
	}

	policy, err := s.policyFor(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record.CheckOut = &punch
	record.Recalculate(policy)

	if err := s.attendanceRepo.RecordCheckOut(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to record check-out: %w", err)
	}
	record.UpdatedAt = s.now()

	slog.Info("Employee checked out",
		"employee_id", record.EmployeeID,
		"attendance_id", record.ID,
		"total_hours", record.TotalHours,
		"status", record.Status,
	)

	return attendance.NewAttendanceResponse(record), nil
}

// Amend implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Amend(ctx context.Context, req attendance.AmendAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !actor.Can(user.PermissionAttendanceApprove) {
		return attendance.AttendanceResponse{}, user.ErrPermissionDenied
	}

	record, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	record.AnchorDate(s.loc)

	timesChanged := false
	if req.CheckInTime != nil {
		t, _ := validator.IsValidDateTime(*req.CheckInTime)
		t = t.In(s.loc)
		if !attendance.DayOf(t, s.loc).Equal(record.Date) {
			return attendance.AttendanceResponse{}, attendance.ErrCheckInOutsideDay
		}
		record.CheckIn.Time = t
		record.CheckIn.Method = attendance.MethodManual
		timesChanged = true
	}
	if req.CheckOutTime != nil {
		t, _ := validator.IsValidDateTime(*req.CheckOutTime)
		out := attendance.Punch{Time: t.In(s.loc), Method: attendance.MethodManual}
		if record.CheckOut != nil {
			out.Location = record.CheckOut.Location
		}
		record.CheckOut = &out
		timesChanged = true
	}
	if record.CheckOut != nil && record.CheckOut.Time.Before(record.CheckIn.Time) {
		return attendance.AttendanceResponse{}, attendance.ErrCheckOutBeforeCheckIn
	}

	if timesChanged {
		policy, err := s.policyFor(ctx, record)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		record.Recalculate(policy)
	}
	if req.Status != nil {
		record.Status = attendance.Status(*req.Status)
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}

	now := s.now()
	record.ApprovedBy = &actor.EmployeeID
	record.ApprovedAt = &now

	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	record.UpdatedAt = now

	slog.Info("Attendance amended",
		"attendance_id", record.ID,
		"employee_id", record.EmployeeID,
		"approved_by", actor.EmployeeID,
		"status", record.Status,
	)

	return attendance.NewAttendanceResponse(record), nil
}

// Get implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if record.EmployeeID != actor.EmployeeID && !actor.Can(user.PermissionAttendanceViewAll) {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}
	record.AnchorDate(s.loc)

	return attendance.NewAttendanceResponse(record), nil
}

// ListMine implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListMine(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	filter.EmployeeID = &actor.EmployeeID
	return s.list(ctx, filter)
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Can(user.PermissionAttendanceViewAll) {
		return nil, user.ErrPermissionDenied
	}
	return s.list(ctx, filter)
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.List(ctx, filter.ToListFilter(s.loc))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	for i := range records {
		records[i].AnchorDate(s.loc)
	}
	return attendance.NewAttendanceResponses(records), nil
}
