package memory

import "parking_ops/internal/domain"

// Fixture is a declarative dataset for bootstrapping a store, used by tests
// and by operational tooling that needs a precise starting state.
type Fixture struct {
	Users         []domain.User
	Categories    []domain.Category
	Zones         []domain.Zone
	Gates         []domain.Gate
	Subscriptions []domain.Subscription
	Tickets       []domain.Ticket
	RushWindows   []domain.RushHourWindow
	Vacations     []domain.Vacation
}

// Load replaces the store contents with the fixture.
func Load(s *Store, f Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range f.Users {
		u := f.Users[i]
		s.users[u.ID] = &u
	}
	for i := range f.Categories {
		c := f.Categories[i]
		s.categories[c.ID] = &c
	}
	for i := range f.Zones {
		z := f.Zones[i]
		s.zones[z.ID] = cloneZone(&z)
	}
	for i := range f.Gates {
		g := f.Gates[i]
		s.gates[g.ID] = cloneGate(&g)
	}
	for i := range f.Subscriptions {
		sub := f.Subscriptions[i]
		s.subscriptions[sub.ID] = cloneSubscription(&sub)
	}
	for i := range f.Tickets {
		t := f.Tickets[i]
		s.tickets[t.ID] = &t
	}
	s.rushWindows = append([]domain.RushHourWindow(nil), f.RushWindows...)
	s.vacations = append([]domain.Vacation(nil), f.Vacations...)
}
