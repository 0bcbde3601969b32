// Package memory implements the repository interfaces on mutex-guarded
// maps. It is the reference backend: state lives for the process lifetime
// and is not required to survive a restart.
package memory

import (
	"sync"

	"parking_ops/internal/domain"
)

type Store struct {
	mu sync.RWMutex

	users         map[string]*domain.User
	categories    map[string]*domain.Category
	gates         map[string]*domain.Gate
	zones         map[string]*domain.Zone
	subscriptions map[string]*domain.Subscription
	tickets       map[string]*domain.Ticket

	// Declaration order matters for rush windows: overlaps tie-break to the
	// first match, so slices keep insertion order.
	rushWindows []domain.RushHourWindow
	vacations   []domain.Vacation
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]*domain.User),
		categories:    make(map[string]*domain.Category),
		gates:         make(map[string]*domain.Gate),
		zones:         make(map[string]*domain.Zone),
		subscriptions: make(map[string]*domain.Subscription),
		tickets:       make(map[string]*domain.Ticket),
	}
}

// Repositories return copies so callers never share mutable state with the
// store; all mutation goes through repository methods under the write lock.

func cloneZone(z *domain.Zone) *domain.Zone {
	c := *z
	c.GateIDs = append([]string(nil), z.GateIDs...)
	return &c
}

func cloneGate(g *domain.Gate) *domain.Gate {
	c := *g
	c.ZoneIDs = append([]string(nil), g.ZoneIDs...)
	return &c
}

func cloneSubscription(s *domain.Subscription) *domain.Subscription {
	c := *s
	c.Cars = append([]domain.Car(nil), s.Cars...)
	c.CurrentCheckins = append([]domain.CheckinRef(nil), s.CurrentCheckins...)
	return &c
}

func cloneTicket(t *domain.Ticket) *domain.Ticket {
	c := *t
	return &c
}

func cloneCategory(cat *domain.Category) *domain.Category {
	c := *cat
	return &c
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}
