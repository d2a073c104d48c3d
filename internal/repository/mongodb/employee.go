package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type employeeDocument struct {
	ID           string             `bson:"_id"`
	UserID       string             `bson:"user_id"`
	EmployeeCode string             `bson:"employee_code"`
	FullName     string             `bson:"full_name"`
	Email        string             `bson:"email"`
	Role         string             `bson:"role"`
	DepartmentID *string            `bson:"department_id,omitempty"`
	ShiftID      *string            `bson:"shift_id"`
	LeaveBalance map[string]float64 `bson:"leave_balance"`
	IsActive     bool               `bson:"is_active"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func newEmployeeDocument(e employee.Employee) employeeDocument {
	balance := make(map[string]float64, len(e.LeaveBalance))
	for t, days := range e.LeaveBalance {
		balance[string(t)] = days
	}
	return employeeDocument{
		ID:           e.ID,
		UserID:       e.UserID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		Email:        e.Email,
		Role:         string(e.Role),
		DepartmentID: e.DepartmentID,
		ShiftID:      e.ShiftID,
		LeaveBalance: balance,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (d employeeDocument) toDomain() employee.Employee {
	balance := make(leave.Balance, len(d.LeaveBalance))
	for t, days := range d.LeaveBalance {
		balance[leave.Type(t)] = days
	}
	return employee.Employee{
		ID:           d.ID,
		UserID:       d.UserID,
		EmployeeCode: d.EmployeeCode,
		FullName:     d.FullName,
		Email:        d.Email,
		Role:         user.Role(d.Role),
		DepartmentID: d.DepartmentID,
		ShiftID:      d.ShiftID,
		LeaveBalance: balance,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type employeeRepository struct {
	coll *mongo.Collection
}

func NewEmployeeRepository(m *database.MongoDB) employee.EmployeeRepository {
	return &employeeRepository{coll: m.Database.Collection(employeesCollection)}
}

func balanceField(t leave.Type) string {
	return "leave_balance." + string(t)
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	now := time.Now().UTC()
	if e.ID == "" {
		e.ID = newID()
	}
	e.CreatedAt, e.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, newEmployeeDocument(e)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var doc employeeDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return doc.toDomain(), nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepository) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	query := bson.M{}
	if filter.DepartmentID != nil {
		query["department_id"] = *filter.DepartmentID
	}
	if filter.ShiftID != nil {
		query["shift_id"] = *filter.ShiftID
	}
	if filter.ActiveOnly {
		query["is_active"] = true
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "employee_code", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}

	out := make([]employee.Employee, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

func (r *employeeRepository) set(ctx context.Context, id string, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if res.MatchedCount == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// SetLeaveBalance implements employee.EmployeeRepository.
func (r *employeeRepository) SetLeaveBalance(ctx context.Context, id string, balance leave.Balance) error {
	fields := bson.M{}
	for t, days := range balance {
		fields[balanceField(t)] = days
	}
	return r.set(ctx, id, fields)
}

// AssignShift implements employee.EmployeeRepository.
func (r *employeeRepository) AssignShift(ctx context.Context, id string, shiftID *string) error {
	return r.set(ctx, id, bson.M{"shift_id": shiftID})
}

// SetActive implements employee.EmployeeRepository.
func (r *employeeRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.set(ctx, id, bson.M{"is_active": active})
}

// CountByShift implements employee.EmployeeRepository.
func (r *employeeRepository) CountByShift(ctx context.Context, shiftID string) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"shift_id": shiftID})
	if err != nil {
		return 0, fmt.Errorf("failed to count employees on shift: %w", err)
	}
	return int(n), nil
}

// DebitBalance implements leave.BalanceStore. The filter only matches while
// the remaining balance covers duration.
func (r *employeeRepository) DebitBalance(ctx context.Context, employeeID string, leaveType leave.Type, duration float64) error {
	field := balanceField(leaveType)
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": employeeID, field: bson.M{"$gte": duration}},
		bson.M{
			"$inc": bson.M{field: -duration},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to debit leave balance: %w", err)
	}
	if res.MatchedCount == 0 {
		return leave.ErrInsufficientBalance
	}
	return nil
}

// lockEmployeeLeave writes to the employee document so that concurrent
// transactions working on the same employee's leave conflict.
func lockEmployeeLeave(ctx context.Context, employees *mongo.Collection, employeeID string) error {
	_, err := employees.UpdateOne(ctx, bson.M{"_id": employeeID}, bson.M{"$inc": bson.M{"leave_lock": 1}})
	if err != nil {
		return fmt.Errorf("failed to lock employee leave: %w", err)
	}
	return nil
}
