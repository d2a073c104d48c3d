package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `id, name, start_time, end_time, break_minutes, total_hours, is_active, department_id, created_at, updated_at`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.BreakMinutes, &s.TotalHours,
		&s.IsActive, &s.DepartmentID, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s.ID = newID()
	query := `
		INSERT INTO shifts (id, name, start_time, end_time, break_minutes, total_hours, is_active, department_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		s.ID, s.Name, s.StartTime, s.EndTime, s.BreakMinutes, s.TotalHours, s.IsActive, s.DepartmentID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "shifts_name_key") {
			return shift.Shift{}, shift.ErrShiftNameExists
		}
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by id: %w", err)
	}
	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, activeOnly bool) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	shifts := make([]shift.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET name = $2, start_time = $3, end_time = $4, break_minutes = $5,
			total_hours = $6, is_active = $7, department_id = $8, updated_at = now()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		s.ID, s.Name, s.StartTime, s.EndTime, s.BreakMinutes, s.TotalHours, s.IsActive, s.DepartmentID,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "shifts_name_key") {
			return shift.ErrShiftNameExists
		}
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return shift.ErrShiftInUse
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}
