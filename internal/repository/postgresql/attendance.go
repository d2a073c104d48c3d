package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, date,
	check_in_time, check_in_method, check_in_location,
	check_out_time, check_out_method, check_out_location,
	shift_id, total_hours, overtime_hours, late_minutes, early_leave_minutes,
	status, notes, approved_by, approved_at, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		a           attendance.Attendance
		outTime     *time.Time
		outMethod   *string
		outLocation *string
	)
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date,
		&a.CheckIn.Time, &a.CheckIn.Method, &a.CheckIn.Location,
		&outTime, &outMethod, &outLocation,
		&a.ShiftID, &a.TotalHours, &a.OvertimeHours, &a.LateMinutes, &a.EarlyLeaveMinutes,
		&a.Status, &a.Notes, &a.ApprovedBy, &a.ApprovedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if outTime != nil {
		out := attendance.Punch{Time: *outTime, Location: outLocation}
		if outMethod != nil {
			out.Method = attendance.Method(*outMethod)
		}
		a.CheckOut = &out
	}
	return a, nil
}

// checkOutColumns splits an optional check-out into its nullable columns.
func checkOutColumns(p *attendance.Punch) (*time.Time, *string, *string) {
	if p == nil {
		return nil, nil, nil
	}
	method := string(p.Method)
	return &p.Time, &method, p.Location
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a.ID = newID()
	query := `
		INSERT INTO attendances (
			id, employee_id, date, check_in_time, check_in_method, check_in_location,
			shift_id, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		a.ID,
		a.EmployeeID,
		attendance.CalendarDate(a.Date),
		a.CheckIn.Time,
		string(a.CheckIn.Method),
		a.CheckIn.Location,
		a.ShiftID,
		string(a.Status),
		a.Notes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "attendances_employee_date_key") {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a, nil
}

func (r *attendanceRepository) getOne(ctx context.Context, query string, args ...interface{}) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.getOne(ctx, `SELECT `+attendanceColumns+` FROM attendances WHERE id = $1`, id)
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	return r.getOne(ctx,
		`SELECT `+attendanceColumns+` FROM attendances WHERE employee_id = $1 AND date = $2`,
		employeeID, attendance.CalendarDate(date),
	)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.From != nil {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, attendance.CalendarDate(*filter.From))
		argIdx++
	}
	if filter.To != nil {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, attendance.CalendarDate(*filter.To))
		argIdx++
	}
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(*filter.Status))
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM attendances %s ORDER BY date DESC, employee_id`, attendanceColumns, baseWhere)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (r *attendanceRepository) exists(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var found bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attendances WHERE id = $1)`, id).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to check attendance: %w", err)
	}
	return found, nil
}

// RecordCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepository) RecordCheckOut(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	outTime, outMethod, outLocation := checkOutColumns(a.CheckOut)
	query := `
		UPDATE attendances
		SET check_out_time = $2, check_out_method = $3, check_out_location = $4,
			total_hours = $5, overtime_hours = $6, late_minutes = $7, early_leave_minutes = $8,
			status = $9, updated_at = now()
		WHERE id = $1 AND check_out_time IS NULL
	`
	tag, err := q.Exec(ctx, query,
		a.ID, outTime, outMethod, outLocation,
		a.TotalHours, a.OvertimeHours, a.LateMinutes, a.EarlyLeaveMinutes,
		string(a.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to record check-out: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	found, err := r.exists(ctx, a.ID)
	if err != nil {
		return err
	}
	if !found {
		return attendance.ErrAttendanceNotFound
	}
	return attendance.ErrAlreadyCheckedOut
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	outTime, outMethod, outLocation := checkOutColumns(a.CheckOut)
	query := `
		UPDATE attendances
		SET check_in_time = $2, check_in_method = $3, check_in_location = $4,
			check_out_time = $5, check_out_method = $6, check_out_location = $7,
			shift_id = $8, total_hours = $9, overtime_hours = $10, late_minutes = $11,
			early_leave_minutes = $12, status = $13, notes = $14,
			approved_by = $15, approved_at = $16, updated_at = now()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		a.ID,
		a.CheckIn.Time, string(a.CheckIn.Method), a.CheckIn.Location,
		outTime, outMethod, outLocation,
		a.ShiftID, a.TotalHours, a.OvertimeHours, a.LateMinutes,
		a.EarlyLeaveMinutes, string(a.Status), a.Notes,
		a.ApprovedBy, a.ApprovedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
