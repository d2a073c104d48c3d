// Package memory keeps every aggregate in process memory. It backs the
// "memory" storage driver and the service tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/department"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/google/uuid"
)

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	departments     map[string]department.Department
	employees       map[string]employee.Employee
	shifts          map[string]shift.Shift
	attendance      map[string]attendance.Attendance
	attendanceByDay map[string]string // employeeID|YYYY-MM-DD -> id
	leaves          map[string]leave.LeaveRequest

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		departments:     make(map[string]department.Department),
		employees:       make(map[string]employee.Employee),
		shifts:          make(map[string]shift.Shift),
		attendance:      make(map[string]attendance.Attendance),
		attendanceByDay: make(map[string]string),
		leaves:          make(map[string]leave.LeaveRequest),
		now:             time.Now,
	}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

type journal struct {
	undo []func()
}

type journalKey struct{}

// WithinTransaction serializes transactions and reverts every mutation made
// through ctx when fn fails or panics.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(journalKey{}).(*journal); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	j := &journal{}
	defer func() {
		if p := recover(); p != nil {
			s.rollback(j)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		s.rollback(j)
		return err
	}
	return nil
}

func (s *Store) rollback(j *journal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
}

// record registers an undo step. Callers hold s.mu.
func (s *Store) record(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}

func dayKey(employeeID string, date time.Time) string {
	return fmt.Sprintf("%s|%s", employeeID, date.Format("2006-01-02"))
}
