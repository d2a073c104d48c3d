package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/department"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

type departmentRepository struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepository{db: db}
}

const departmentColumns = `id, name, description, manager_id, created_at, updated_at`

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// Create implements department.DepartmentRepository.
func (r *departmentRepository) Create(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	d.ID = newID()
	query := `
		INSERT INTO departments (id, name, description, manager_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query, d.ID, d.Name, d.Description, d.ManagerID).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "departments_name_key") {
			return department.Department{}, department.ErrDepartmentNameExists
		}
		return department.Department{}, fmt.Errorf("failed to create department: %w", err)
	}
	return d, nil
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepository) GetByID(ctx context.Context, id string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1`
	d, err := scanDepartment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, fmt.Errorf("failed to get department by id: %w", err)
	}
	return d, nil
}

// List implements department.DepartmentRepository.
func (r *departmentRepository) List(ctx context.Context) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	departments := make([]department.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}
