package memory

import (
	"context"
	"sort"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository"
)

type subscriptionRepository struct {
	s *Store
}

func NewSubscriptionRepository(s *Store) repository.SubscriptionRepository {
	return &subscriptionRepository{s: s}
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id string) (*domain.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sub, ok := r.s.subscriptions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneSubscription(sub), nil
}

func (r *subscriptionRepository) FindActiveByCategory(ctx context.Context, categoryID string) ([]domain.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Subscription, 0)
	for _, sub := range r.s.subscriptions {
		if sub.Active && sub.CategoryID == categoryID {
			out = append(out, *cloneSubscription(sub))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *subscriptionRepository) AppendCheckin(ctx context.Context, subscriptionID string, ref domain.CheckinRef) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sub, ok := r.s.subscriptions[subscriptionID]
	if !ok {
		return repository.ErrNotFound
	}
	sub.CurrentCheckins = append(sub.CurrentCheckins, ref)
	return nil
}

func (r *subscriptionRepository) RemoveCheckin(ctx context.Context, subscriptionID, ticketID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sub, ok := r.s.subscriptions[subscriptionID]
	if !ok {
		return repository.ErrNotFound
	}
	for i, ref := range sub.CurrentCheckins {
		if ref.TicketID == ticketID {
			sub.CurrentCheckins = append(sub.CurrentCheckins[:i], sub.CurrentCheckins[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
