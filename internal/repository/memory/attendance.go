package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func cloneAttendance(a attendance.Attendance) attendance.Attendance {
	if a.CheckOut != nil {
		out := *a.CheckOut
		a.CheckOut = &out
	}
	return a
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := dayKey(a.EmployeeID, a.Date)
	if _, exists := r.s.attendanceByDay[key]; exists {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}

	now := r.s.now()
	a.ID = newID()
	a.CreatedAt, a.UpdatedAt = now, now
	r.s.attendance[a.ID] = cloneAttendance(a)
	r.s.attendanceByDay[key] = a.ID
	r.s.record(ctx, func() {
		delete(r.s.attendance, a.ID)
		delete(r.s.attendanceByDay, key)
	})
	return a, nil
}

func (r *attendanceRepository) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.attendance[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return cloneAttendance(a), nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.attendanceByDay[dayKey(employeeID, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return cloneAttendance(r.s.attendance[id]), nil
}

func (r *attendanceRepository) List(_ context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]attendance.Attendance, 0)
	for _, a := range r.s.attendance {
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		day := a.Date.Format("2006-01-02")
		if filter.From != nil && day < filter.From.Format("2006-01-02") {
			continue
		}
		if filter.To != nil && day > filter.To.Format("2006-01-02") {
			continue
		}
		out = append(out, cloneAttendance(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

func (r *attendanceRepository) RecordCheckOut(ctx context.Context, a attendance.Attendance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.attendance[a.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	if prev.CheckOut != nil {
		return attendance.ErrAlreadyCheckedOut
	}

	next := cloneAttendance(prev)
	next.CheckOut = a.CheckOut
	next.TotalHours = a.TotalHours
	next.OvertimeHours = a.OvertimeHours
	next.LateMinutes = a.LateMinutes
	next.EarlyLeaveMinutes = a.EarlyLeaveMinutes
	next.Status = a.Status
	next.UpdatedAt = r.s.now()
	r.s.attendance[a.ID] = cloneAttendance(next)
	r.s.record(ctx, func() { r.s.attendance[a.ID] = prev })
	return nil
}

func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.attendance[a.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	a.EmployeeID, a.Date, a.CreatedAt = prev.EmployeeID, prev.Date, prev.CreatedAt
	a.UpdatedAt = r.s.now()
	r.s.attendance[a.ID] = cloneAttendance(a)
	r.s.record(ctx, func() { r.s.attendance[a.ID] = prev })
	return nil
}
