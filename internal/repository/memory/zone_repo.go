package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository"
)

type zoneRepository struct {
	s *Store
}

func NewZoneRepository(s *Store) repository.ZoneRepository {
	return &zoneRepository{s: s}
}

func (r *zoneRepository) FindByID(ctx context.Context, id string) (*domain.Zone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	z, ok := r.s.zones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneZone(z), nil
}

func (r *zoneRepository) FindAll(ctx context.Context) ([]domain.Zone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.collect(func(*domain.Zone) bool { return true }), nil
}

func (r *zoneRepository) FindByGateID(ctx context.Context, gateID string) ([]domain.Zone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.collect(func(z *domain.Zone) bool {
		for _, g := range z.GateIDs {
			if g == gateID {
				return true
			}
		}
		return false
	}), nil
}

func (r *zoneRepository) FindByCategoryID(ctx context.Context, categoryID string) ([]domain.Zone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.collect(func(z *domain.Zone) bool { return z.CategoryID == categoryID }), nil
}

// collect must be called with at least the read lock held.
func (r *zoneRepository) collect(match func(*domain.Zone) bool) []domain.Zone {
	out := make([]domain.Zone, 0)
	for _, z := range r.s.zones {
		if match(z) {
			out = append(out, *cloneZone(z))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *zoneRepository) SetOpen(ctx context.Context, id string, open bool) (*domain.Zone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	z, ok := r.s.zones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	z.Open = open
	z.UpdatedAt = time.Now().UTC()
	return cloneZone(z), nil
}

func (r *zoneRepository) IncrementOccupied(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	z, ok := r.s.zones[id]
	if !ok {
		return repository.ErrNotFound
	}
	if z.Occupied >= z.TotalSlots {
		return fmt.Errorf("%w: zone %s", repository.ErrCapacityExceeded, id)
	}
	z.Occupied++
	z.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *zoneRepository) DecrementOccupied(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	z, ok := r.s.zones[id]
	if !ok {
		return repository.ErrNotFound
	}
	if z.Occupied > 0 {
		z.Occupied--
	}
	z.UpdatedAt = time.Now().UTC()
	return nil
}
