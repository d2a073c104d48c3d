package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
	tx *Transactor
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db, tx: NewTransactor(db)}
}

const employeeColumns = `id, user_id, employee_code, full_name, email, role, department_id, shift_id, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.UserID, &e.EmployeeCode, &e.FullName, &e.Email, &e.Role,
		&e.DepartmentID, &e.ShiftID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func upsertBalance(ctx context.Context, q database.Querier, employeeID string, b leave.Balance) error {
	query := `
		INSERT INTO leave_balances (employee_id, leave_type, remaining)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, leave_type) DO UPDATE SET remaining = EXCLUDED.remaining
	`
	for t, days := range b {
		if _, err := q.Exec(ctx, query, employeeID, string(t), days); err != nil {
			return fmt.Errorf("failed to upsert %s balance: %w", t, err)
		}
	}
	return nil
}

// balances loads leave balances for the given employees.
func (r *employeeRepository) balances(ctx context.Context, ids []string) (map[string]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT employee_id, leave_type, remaining
		FROM leave_balances
		WHERE employee_id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave balances: %w", err)
	}
	defer rows.Close()

	out := make(map[string]leave.Balance, len(ids))
	for rows.Next() {
		var (
			employeeID, leaveType string
			remaining             float64
		)
		if err := rows.Scan(&employeeID, &leaveType, &remaining); err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		if out[employeeID] == nil {
			out[employeeID] = leave.Balance{}
		}
		out[employeeID][leave.Type(leaveType)] = remaining
	}
	return out, rows.Err()
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if e.ID == "" {
		e.ID = newID()
	}

	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			INSERT INTO employees (id, user_id, employee_code, full_name, email, role, department_id, shift_id, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING created_at, updated_at
		`
		err := q.QueryRow(ctx, query,
			e.ID, e.UserID, e.EmployeeCode, e.FullName, e.Email, string(e.Role),
			e.DepartmentID, e.ShiftID, e.IsActive,
		).Scan(&e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			if database.IsUniqueViolation(err, "") {
				return employee.ErrEmployeeCodeExists
			}
			return fmt.Errorf("failed to create employee: %w", err)
		}
		return upsertBalance(ctx, q, e.ID, e.LeaveBalance)
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	balances, err := r.balances(ctx, []string{e.ID})
	if err != nil {
		return employee.Employee{}, err
	}
	e.LeaveBalance = balances[e.ID]
	if e.LeaveBalance == nil {
		e.LeaveBalance = leave.Balance{}
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepository) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.DepartmentID != nil {
		query += fmt.Sprintf(" AND department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.ShiftID != nil {
		query += fmt.Sprintf(" AND shift_id = $%d", argIdx)
		args = append(args, *filter.ShiftID)
		argIdx++
	}
	if filter.ActiveOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY employee_code"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	ids := make([]string, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	balances, err := r.balances(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		employees[i].LeaveBalance = balances[employees[i].ID]
		if employees[i].LeaveBalance == nil {
			employees[i].LeaveBalance = leave.Balance{}
		}
	}
	return employees, nil
}

// SetLeaveBalance implements employee.EmployeeRepository.
func (r *employeeRepository) SetLeaveBalance(ctx context.Context, id string, balance leave.Balance) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		tag, err := q.Exec(ctx, `UPDATE employees SET updated_at = now() WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to touch employee: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return employee.ErrEmployeeNotFound
		}
		return upsertBalance(ctx, q, id, balance)
	})
}

func (r *employeeRepository) update(ctx context.Context, query string, args ...interface{}) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// AssignShift implements employee.EmployeeRepository.
func (r *employeeRepository) AssignShift(ctx context.Context, id string, shiftID *string) error {
	return r.update(ctx, `UPDATE employees SET shift_id = $2, updated_at = now() WHERE id = $1`, id, shiftID)
}

// SetActive implements employee.EmployeeRepository.
func (r *employeeRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.update(ctx, `UPDATE employees SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
}

// CountByShift implements employee.EmployeeRepository.
func (r *employeeRepository) CountByShift(ctx context.Context, shiftID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE shift_id = $1`, shiftID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees on shift: %w", err)
	}
	return count, nil
}

// DebitBalance implements leave.BalanceStore as a single conditional update.
func (r *employeeRepository) DebitBalance(ctx context.Context, employeeID string, leaveType leave.Type, duration float64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_balances
		SET remaining = remaining - $3
		WHERE employee_id = $1 AND leave_type = $2 AND remaining >= $3
	`, employeeID, string(leaveType), duration)
	if err != nil {
		return fmt.Errorf("failed to debit leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrInsufficientBalance
	}
	return nil
}
