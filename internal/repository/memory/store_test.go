package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEmployee(t *testing.T, repo employee.EmployeeRepository, balance leave.Balance) employee.Employee {
	t.Helper()
	e, err := repo.Create(context.Background(), employee.Employee{
		UserID:       "user-1",
		EmployeeCode: "EMP-001",
		FullName:     "Budi Santoso",
		Email:        "budi@example.com",
		Role:         user.RoleEmployee,
		LeaveBalance: balance,
		IsActive:     true,
	})
	require.NoError(t, err)
	return e
}

func TestTransactionRollsBackOnError(t *testing.T) {
	store := NewStore()
	employees := NewEmployeeRepository(store)
	e := seedEmployee(t, employees, leave.Balance{leave.TypeAnnual: 10})

	boom := errors.New("status update failed")
	err := store.WithinTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, employees.DebitBalance(ctx, e.ID, leave.TypeAnnual, 4))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := employees.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.LeaveBalance[leave.TypeAnnual])
}

func TestTransactionCommits(t *testing.T) {
	store := NewStore()
	employees := NewEmployeeRepository(store)
	e := seedEmployee(t, employees, leave.Balance{leave.TypeAnnual: 10})

	err := store.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return employees.DebitBalance(ctx, e.ID, leave.TypeAnnual, 4)
	})
	require.NoError(t, err)

	got, _ := employees.GetByID(context.Background(), e.ID)
	assert.Equal(t, 6.0, got.LeaveBalance[leave.TypeAnnual])
}

func TestRollbackKeepsWritesMadeOutsideTransaction(t *testing.T) {
	store := NewStore()
	employees := NewEmployeeRepository(store)
	e := seedEmployee(t, employees, leave.Balance{leave.TypeAnnual: 10, leave.TypeSick: 2})

	boom := errors.New("status update failed")
	err := store.WithinTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, employees.DebitBalance(ctx, e.ID, leave.TypeAnnual, 4))
		require.NoError(t, employees.SetLeaveBalance(context.Background(), e.ID, leave.Balance{leave.TypeSick: 7}))
		require.NoError(t, employees.SetActive(context.Background(), e.ID, false))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := employees.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.LeaveBalance[leave.TypeAnnual])
	assert.Equal(t, 7.0, got.LeaveBalance[leave.TypeSick])
	assert.False(t, got.IsActive)
}

func TestRollbackRevertsOnlyTransactionalBalanceChanges(t *testing.T) {
	store := NewStore()
	employees := NewEmployeeRepository(store)
	e := seedEmployee(t, employees, leave.Balance{leave.TypeAnnual: 10})

	err := store.WithinTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, employees.SetLeaveBalance(ctx, e.ID, leave.Balance{leave.TypeAnnual: 5, leave.TypePersonal: 3}))
		require.NoError(t, employees.SetLeaveBalance(context.Background(), e.ID, leave.Balance{leave.TypeSick: 9}))
		return errors.New("abort")
	})
	require.Error(t, err)

	got, _ := employees.GetByID(context.Background(), e.ID)
	assert.Equal(t, 10.0, got.LeaveBalance[leave.TypeAnnual])
	assert.NotContains(t, got.LeaveBalance, leave.TypePersonal)
	assert.Equal(t, 9.0, got.LeaveBalance[leave.TypeSick])
}

func TestDebitBalanceIsConditional(t *testing.T) {
	store := NewStore()
	employees := NewEmployeeRepository(store)
	e := seedEmployee(t, employees, leave.Balance{leave.TypeAnnual: 3})

	err := employees.DebitBalance(context.Background(), e.ID, leave.TypeAnnual, 5)
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	got, _ := employees.GetByID(context.Background(), e.ID)
	assert.Equal(t, 3.0, got.LeaveBalance[leave.TypeAnnual])
}

func TestEmployeeReadsAreCopies(t *testing.T) {
	store := NewStore()
	employees := NewEmployeeRepository(store)
	e := seedEmployee(t, employees, leave.Balance{leave.TypeAnnual: 3})

	got, _ := employees.GetByID(context.Background(), e.ID)
	got.LeaveBalance[leave.TypeAnnual] = 100

	again, _ := employees.GetByID(context.Background(), e.ID)
	assert.Equal(t, 3.0, again.LeaveBalance[leave.TypeAnnual])
}

func TestAttendanceUniquePerDay(t *testing.T) {
	store := NewStore()
	repo := NewAttendanceRepository(store)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), attendance.Attendance{
				EmployeeID: "emp",
				Date:       day,
				CheckIn:    attendance.Punch{Time: day.Add(9 * time.Hour), Method: attendance.MethodManual},
				Status:     attendance.StatusPresent,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
		}
	}
	assert.Equal(t, 1, ok)

	all, err := repo.List(context.Background(), attendance.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRecordCheckOutOnlyOnce(t *testing.T) {
	store := NewStore()
	repo := NewAttendanceRepository(store)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	a, err := repo.Create(context.Background(), attendance.Attendance{
		EmployeeID: "emp",
		Date:       day,
		CheckIn:    attendance.Punch{Time: day.Add(9 * time.Hour), Method: attendance.MethodManual},
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)

	a.CheckOut = &attendance.Punch{Time: day.Add(17 * time.Hour), Method: attendance.MethodManual}
	a.Recalculate(attendance.DefaultPolicy())
	require.NoError(t, repo.RecordCheckOut(context.Background(), a))
	assert.ErrorIs(t, repo.RecordCheckOut(context.Background(), a), attendance.ErrAlreadyCheckedOut)

	got, err := repo.GetByEmployeeAndDate(context.Background(), "emp", day)
	require.NoError(t, err)
	assert.Equal(t, 8.0, got.TotalHours)
}

func TestLeaveTransitionIsCompareAndSwap(t *testing.T) {
	store := NewStore()
	repo := NewLeaveRequestRepository(store)
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	l, err := repo.Create(context.Background(), leave.LeaveRequest{
		EmployeeID: "emp",
		Type:       leave.TypeAnnual,
		StartDate:  now,
		EndDate:    now.Add(48 * time.Hour),
		Duration:   3,
		Status:     leave.StatusPending,
	})
	require.NoError(t, err)

	require.NoError(t, repo.TransitionStatus(context.Background(), leave.StatusTransition{ID: l.ID, To: leave.StatusCancelled, At: now}))
	err = repo.TransitionStatus(context.Background(), leave.StatusTransition{ID: l.ID, To: leave.StatusApproved, ActorID: "mgr", At: now})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	got, _ := repo.GetByID(context.Background(), l.ID)
	assert.Equal(t, leave.StatusCancelled, got.Status)
	assert.Nil(t, got.ApprovedBy)

	candidates, err := repo.FindOverlapCandidates(context.Background(), "emp", now, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestTransitionRollbackKeepsConcurrentComments(t *testing.T) {
	store := NewStore()
	repo := NewLeaveRequestRepository(store)
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	l, err := repo.Create(context.Background(), leave.LeaveRequest{
		EmployeeID: "emp",
		Type:       leave.TypeAnnual,
		StartDate:  now,
		EndDate:    now.Add(24 * time.Hour),
		Duration:   2,
		Status:     leave.StatusPending,
	})
	require.NoError(t, err)

	err = store.WithinTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, repo.TransitionStatus(ctx, leave.StatusTransition{ID: l.ID, To: leave.StatusApproved, ActorID: "mgr", At: now}))
		require.NoError(t, repo.AddComment(context.Background(), l.ID, leave.Comment{ID: "c1", AuthorID: "emp", Body: "handover done", CreatedAt: now}))
		return errors.New("abort")
	})
	require.Error(t, err)

	got, _ := repo.GetByID(context.Background(), l.ID)
	assert.Equal(t, leave.StatusPending, got.Status)
	assert.Nil(t, got.ApprovedBy)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "handover done", got.Comments[0].Body)
}
