package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
)

type shiftRepository struct {
	s *Store
}

func NewShiftRepository(s *Store) shift.ShiftRepository {
	return &shiftRepository{s: s}
}

func (r *shiftRepository) nameTaken(name, exceptID string) bool {
	for _, existing := range r.s.shifts {
		if existing.Name == name && existing.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *shiftRepository) Create(ctx context.Context, sh shift.Shift) (shift.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(sh.Name, "") {
		return shift.Shift{}, shift.ErrShiftNameExists
	}

	now := r.s.now()
	sh.ID = newID()
	sh.CreatedAt, sh.UpdatedAt = now, now
	r.s.shifts[sh.ID] = sh
	r.s.record(ctx, func() { delete(r.s.shifts, sh.ID) })
	return sh, nil
}

func (r *shiftRepository) GetByID(_ context.Context, id string) (shift.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sh, ok := r.s.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return sh, nil
}

func (r *shiftRepository) List(_ context.Context, activeOnly bool) ([]shift.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]shift.Shift, 0, len(r.s.shifts))
	for _, sh := range r.s.shifts {
		if activeOnly && !sh.IsActive {
			continue
		}
		out = append(out, sh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *shiftRepository) Update(ctx context.Context, sh shift.Shift) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.shifts[sh.ID]
	if !ok {
		return shift.ErrShiftNotFound
	}
	if r.nameTaken(sh.Name, sh.ID) {
		return shift.ErrShiftNameExists
	}
	sh.CreatedAt = prev.CreatedAt
	sh.UpdatedAt = r.s.now()
	r.s.shifts[sh.ID] = sh
	r.s.record(ctx, func() { r.s.shifts[sh.ID] = prev })
	return nil
}

func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.shifts[id]
	if !ok {
		return shift.ErrShiftNotFound
	}
	delete(r.s.shifts, id)
	r.s.record(ctx, func() { r.s.shifts[id] = prev })
	return nil
}
