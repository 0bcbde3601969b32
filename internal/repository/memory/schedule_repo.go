package memory

import (
	"context"

	"github.com/google/uuid"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository"
)

type scheduleRepository struct {
	s *Store
}

func NewScheduleRepository(s *Store) repository.ScheduleRepository {
	return &scheduleRepository{s: s}
}

func (r *scheduleRepository) ListRushWindows(ctx context.Context) ([]domain.RushHourWindow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]domain.RushHourWindow(nil), r.s.rushWindows...), nil
}

func (r *scheduleRepository) ListVacations(ctx context.Context) ([]domain.Vacation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]domain.Vacation(nil), r.s.vacations...), nil
}

func (r *scheduleRepository) CreateRushWindow(ctx context.Context, w *domain.RushHourWindow) (*domain.RushHourWindow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	r.s.rushWindows = append(r.s.rushWindows, *w)
	return w, nil
}

func (r *scheduleRepository) DeleteRushWindow(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, w := range r.s.rushWindows {
		if w.ID == id {
			r.s.rushWindows = append(r.s.rushWindows[:i], r.s.rushWindows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *scheduleRepository) CreateVacation(ctx context.Context, v *domain.Vacation) (*domain.Vacation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	r.s.vacations = append(r.s.vacations, *v)
	return v, nil
}

func (r *scheduleRepository) DeleteVacation(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, v := range r.s.vacations {
		if v.ID == id {
			r.s.vacations = append(r.s.vacations[:i], r.s.vacations[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
