package memory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"parking_ops/internal/domain"
)

// Seed loads the demo dataset: enough categories, gates, zones and
// subscriptions to drive the gate/checkpoint/admin screens without admin
// tooling. Default accounts: admin/admin123 and employee/employee123.
func Seed(s *Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	for _, u := range []struct {
		id, username, password, role string
	}{
		{"user_admin", "admin", "admin123", "admin"},
		{"user_employee", "employee", "employee123", "employee"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing seed password: %w", err)
		}
		s.users[u.id] = &domain.User{
			ID:        u.id,
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	categories := []domain.Category{
		{ID: "cat_premium", Name: "Premium", Description: "Covered slots close to the entrance", RateNormal: decimal.NewFromInt(5), RateSpecial: decimal.NewFromInt(8)},
		{ID: "cat_standard", Name: "Standard", Description: "Regular uncovered slots", RateNormal: decimal.NewFromInt(3), RateSpecial: decimal.NewFromInt(5)},
		{ID: "cat_economy", Name: "Economy", Description: "Far lots, shuttle service", RateNormal: decimal.NewFromInt(2), RateSpecial: decimal.NewFromInt(3)},
	}
	for i := range categories {
		categories[i].CreatedAt = now
		categories[i].UpdatedAt = now
		c := categories[i]
		s.categories[c.ID] = &c
	}

	zones := []domain.Zone{
		{ID: "zone_a", Name: "Zone A", CategoryID: "cat_premium", TotalSlots: 100, Occupied: 0, Open: true, GateIDs: []string{"gate_1", "gate_2"}},
		{ID: "zone_b", Name: "Zone B", CategoryID: "cat_premium", TotalSlots: 80, Occupied: 0, Open: true, GateIDs: []string{"gate_1"}},
		{ID: "zone_c", Name: "Zone C", CategoryID: "cat_standard", TotalSlots: 120, Occupied: 0, Open: true, GateIDs: []string{"gate_2", "gate_3"}},
		{ID: "zone_d", Name: "Zone D", CategoryID: "cat_economy", TotalSlots: 200, Occupied: 0, Open: true, GateIDs: []string{"gate_3", "gate_4"}},
	}
	for i := range zones {
		zones[i].CreatedAt = now
		zones[i].UpdatedAt = now
		z := zones[i]
		s.zones[z.ID] = &z
	}

	gates := []domain.Gate{
		{ID: "gate_1", Name: "Main Entrance", Location: "North", ZoneIDs: []string{"zone_a", "zone_b"}},
		{ID: "gate_2", Name: "East Entrance", Location: "East", ZoneIDs: []string{"zone_a", "zone_c"}},
		{ID: "gate_3", Name: "South Entrance", Location: "South", ZoneIDs: []string{"zone_c", "zone_d"}},
		{ID: "gate_4", Name: "Overflow Gate", Location: "West", ZoneIDs: []string{"zone_d"}},
	}
	for i := range gates {
		g := gates[i]
		s.gates[g.ID] = &g
	}

	subscriptions := []domain.Subscription{
		{
			ID: "sub_001", HolderName: "Aisha Khalil", CategoryID: "cat_premium", Active: true,
			Cars:     []domain.Car{{Plate: "ABC-123", Brand: "Toyota", Model: "Corolla", Color: "white"}},
			StartsAt: now.AddDate(0, -2, 0), ExpiresAt: now.AddDate(0, 10, 0),
		},
		{
			ID: "sub_002", HolderName: "Omar Haddad", CategoryID: "cat_premium", Active: true,
			Cars: []domain.Car{
				{Plate: "XYZ-789", Brand: "Honda", Model: "Civic", Color: "black"},
				{Plate: "XYZ-790", Brand: "Kia", Model: "Sportage", Color: "grey"},
			},
			StartsAt: now.AddDate(0, -1, 0), ExpiresAt: now.AddDate(0, 11, 0),
		},
		{
			ID: "sub_003", HolderName: "Lina Nassar", CategoryID: "cat_standard", Active: true,
			Cars:     []domain.Car{{Plate: "JKL-456", Brand: "Hyundai", Model: "Elantra", Color: "blue"}},
			StartsAt: now.AddDate(0, -6, 0), ExpiresAt: now.AddDate(0, 6, 0),
		},
		{
			ID: "sub_004", HolderName: "Sami Qasem", CategoryID: "cat_standard", Active: false,
			Cars:     []domain.Car{{Plate: "QRS-321", Brand: "Nissan", Model: "Sunny", Color: "red"}},
			StartsAt: now.AddDate(-1, 0, 0), ExpiresAt: now.AddDate(0, -1, 0),
		},
	}
	for i := range subscriptions {
		sub := subscriptions[i]
		s.subscriptions[sub.ID] = &sub
	}

	s.rushWindows = []domain.RushHourWindow{
		{ID: "rush_1", Weekday: 1, From: "07:00", To: "09:00"},
		{ID: "rush_2", Weekday: 1, From: "16:00", To: "19:00"},
		{ID: "rush_3", Weekday: 4, From: "16:00", To: "19:00"},
	}
	s.vacations = []domain.Vacation{
		{ID: "vac_1", Name: "Eid", From: "2026-03-19", To: "2026-03-22"},
		{ID: "vac_2", Name: "New Year", From: "2026-12-31", To: "2027-01-01"},
	}

	return nil
}
