package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository"
)

type ticketRepository struct {
	s *Store
}

func NewTicketRepository(s *Store) repository.TicketRepository {
	return &ticketRepository{s: s}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	if _, exists := r.s.tickets[ticket.ID]; exists {
		return nil, fmt.Errorf("%w: ticket %s", repository.ErrDuplicateEntry, ticket.ID)
	}
	r.s.tickets[ticket.ID] = cloneTicket(ticket)
	return cloneTicket(ticket), nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneTicket(t), nil
}

func (r *ticketRepository) CountOpenByZoneAndType(ctx context.Context, zoneID string, ticketType domain.TicketType) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, t := range r.s.tickets {
		if t.ZoneID == zoneID && t.Type == ticketType && !t.CheckoutAt.Valid {
			count++
		}
	}
	return count, nil
}

func (r *ticketRepository) Close(ctx context.Context, id string, checkoutAt time.Time, billingType domain.TicketType, amount decimal.Decimal) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if t.CheckoutAt.Valid {
		return nil, repository.ErrTicketClosed
	}
	t.CheckoutAt = null.TimeFrom(checkoutAt)
	t.BillingType = null.StringFrom(string(billingType))
	t.TotalAmount = decimal.NewNullDecimal(amount)
	return cloneTicket(t), nil
}

func (r *ticketRepository) Find(ctx context.Context, filter domain.TicketFilterDTO) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Ticket, 0)
	for _, t := range r.s.tickets {
		if filter.ZoneID != "" && t.ZoneID != filter.ZoneID {
			continue
		}
		switch filter.Status {
		case "open":
			if t.CheckoutAt.Valid {
				continue
			}
		case "closed":
			if !t.CheckoutAt.Valid {
				continue
			}
		}
		out = append(out, *cloneTicket(t))
	}
	// Newest first, same as the report screens expect.
	sort.Slice(out, func(i, j int) bool { return out[i].CheckinAt.After(out[j].CheckinAt) })
	return out, nil
}
