package memory

import (
	"context"
	"sort"
	"time"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository"
)

type categoryRepository struct {
	s *Store
}

func NewCategoryRepository(s *Store) repository.CategoryRepository {
	return &categoryRepository{s: s}
}

func (r *categoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneCategory(c), nil
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, *cloneCategory(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.categories[category.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now().UTC()
	r.s.categories[category.ID] = cloneCategory(category)
	return cloneCategory(category), nil
}
