package memory

import (
	"context"
	"sort"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository"
)

type gateRepository struct {
	s *Store
}

func NewGateRepository(s *Store) repository.GateRepository {
	return &gateRepository{s: s}
}

func (r *gateRepository) FindByID(ctx context.Context, id string) (*domain.Gate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.gates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneGate(g), nil
}

func (r *gateRepository) FindAll(ctx context.Context) ([]domain.Gate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Gate, 0, len(r.s.gates))
	for _, g := range r.s.gates {
		out = append(out, *cloneGate(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
