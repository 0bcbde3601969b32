package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"parking_ops/internal/domain"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateEntry   = errors.New("record already exists")
	ErrTicketClosed     = errors.New("ticket already checked out")
	ErrCapacityExceeded = errors.New("zone capacity exceeded")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
}

type GateRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Gate, error)
	FindAll(ctx context.Context) ([]domain.Gate, error)
}

type ZoneRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Zone, error)
	FindAll(ctx context.Context) ([]domain.Zone, error)
	FindByGateID(ctx context.Context, gateID string) ([]domain.Zone, error)
	FindByCategoryID(ctx context.Context, categoryID string) ([]domain.Zone, error)
	SetOpen(ctx context.Context, id string, open bool) (*domain.Zone, error)
	// IncrementOccupied adds one occupied slot; it fails with
	// ErrCapacityExceeded rather than overcommit the zone.
	IncrementOccupied(ctx context.Context, id string) error
	// DecrementOccupied releases one occupied slot, flooring at zero.
	DecrementOccupied(ctx context.Context, id string) error
}

type SubscriptionRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Subscription, error)
	FindActiveByCategory(ctx context.Context, categoryID string) ([]domain.Subscription, error)
	AppendCheckin(ctx context.Context, subscriptionID string, ref domain.CheckinRef) error
	RemoveCheckin(ctx context.Context, subscriptionID, ticketID string) error
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	// CountOpenByZoneAndType counts open tickets of the given type in a zone
	// (the reservedOccupied input of the availability calculation).
	CountOpenByZoneAndType(ctx context.Context, zoneID string, ticketType domain.TicketType) (int, error)
	// Close stamps the checkout fields. It fails with ErrTicketClosed when
	// the ticket was already checked out, which makes double checkout safe
	// even without the caller holding a lock.
	Close(ctx context.Context, id string, checkoutAt time.Time, billingType domain.TicketType, amount decimal.Decimal) (*domain.Ticket, error)
	Find(ctx context.Context, filter domain.TicketFilterDTO) ([]domain.Ticket, error)
}

type ScheduleRepository interface {
	ListRushWindows(ctx context.Context) ([]domain.RushHourWindow, error)
	ListVacations(ctx context.Context) ([]domain.Vacation, error)
	CreateRushWindow(ctx context.Context, w *domain.RushHourWindow) (*domain.RushHourWindow, error)
	DeleteRushWindow(ctx context.Context, id string) error
	CreateVacation(ctx context.Context, v *domain.Vacation) (*domain.Vacation, error)
	DeleteVacation(ctx context.Context, id string) error
}
