package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository"
)

func newZoneStore() *Store {
	s := NewStore()
	Load(s, Fixture{
		Zones: []domain.Zone{
			{ID: "zone_x", Name: "Zone X", CategoryID: "cat_standard", TotalSlots: 2, Open: true, GateIDs: []string{"gate_1"}},
		},
	})
	return s
}

func TestZoneRepository_IncrementStopsAtCapacity(t *testing.T) {
	repo := NewZoneRepository(newZoneStore())
	ctx := context.Background()

	require.NoError(t, repo.IncrementOccupied(ctx, "zone_x"))
	require.NoError(t, repo.IncrementOccupied(ctx, "zone_x"))
	assert.ErrorIs(t, repo.IncrementOccupied(ctx, "zone_x"), repository.ErrCapacityExceeded)

	zone, err := repo.FindByID(ctx, "zone_x")
	require.NoError(t, err)
	assert.Equal(t, 2, zone.Occupied)
}

func TestZoneRepository_DecrementFloorsAtZero(t *testing.T) {
	repo := NewZoneRepository(newZoneStore())
	ctx := context.Background()

	require.NoError(t, repo.DecrementOccupied(ctx, "zone_x"))
	zone, err := repo.FindByID(ctx, "zone_x")
	require.NoError(t, err)
	assert.Equal(t, 0, zone.Occupied)
}

func TestZoneRepository_ReturnsCopies(t *testing.T) {
	repo := NewZoneRepository(newZoneStore())
	ctx := context.Background()

	zone, err := repo.FindByID(ctx, "zone_x")
	require.NoError(t, err)
	zone.Occupied = 99
	zone.GateIDs[0] = "tampered"

	fresh, err := repo.FindByID(ctx, "zone_x")
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Occupied)
	assert.Equal(t, "gate_1", fresh.GateIDs[0])
}

func TestTicketRepository_CloseIsConditional(t *testing.T) {
	s := NewStore()
	repo := NewTicketRepository(s)
	ctx := context.Background()

	ticket, err := repo.Create(ctx, &domain.Ticket{
		Type:      domain.TicketVisitor,
		ZoneID:    "zone_x",
		GateID:    "gate_1",
		CheckinAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, ticket.ID)

	closed, err := repo.Close(ctx, ticket.ID, time.Now().UTC(), domain.TicketVisitor, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.False(t, closed.Open())

	_, err = repo.Close(ctx, ticket.ID, time.Now().UTC(), domain.TicketVisitor, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, repository.ErrTicketClosed)

	_, err = repo.Close(ctx, "missing", time.Now().UTC(), domain.TicketVisitor, decimal.Zero)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTicketRepository_FindFilters(t *testing.T) {
	s := NewStore()
	repo := NewTicketRepository(s)
	ctx := context.Background()
	now := time.Now().UTC()

	open, err := repo.Create(ctx, &domain.Ticket{Type: domain.TicketVisitor, ZoneID: "zone_x", CheckinAt: now})
	require.NoError(t, err)
	toClose, err := repo.Create(ctx, &domain.Ticket{Type: domain.TicketVisitor, ZoneID: "zone_x", CheckinAt: now.Add(time.Minute)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Ticket{Type: domain.TicketVisitor, ZoneID: "zone_y", CheckinAt: now})
	require.NoError(t, err)

	_, err = repo.Close(ctx, toClose.ID, now.Add(time.Hour), domain.TicketVisitor, decimal.NewFromInt(5))
	require.NoError(t, err)

	openOnly, err := repo.Find(ctx, domain.TicketFilterDTO{Status: "open", ZoneID: "zone_x"})
	require.NoError(t, err)
	require.Len(t, openOnly, 1)
	assert.Equal(t, open.ID, openOnly[0].ID)

	closedOnly, err := repo.Find(ctx, domain.TicketFilterDTO{Status: "closed"})
	require.NoError(t, err)
	require.Len(t, closedOnly, 1)
	assert.Equal(t, toClose.ID, closedOnly[0].ID)

	all, err := repo.Find(ctx, domain.TicketFilterDTO{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSubscriptionRepository_CheckinLifecycle(t *testing.T) {
	s := NewStore()
	Load(s, Fixture{
		Subscriptions: []domain.Subscription{
			{ID: "sub_1", CategoryID: "cat_standard", Active: true, Cars: []domain.Car{{Plate: "ABC-123"}}},
		},
	})
	repo := NewSubscriptionRepository(s)
	ctx := context.Background()

	ref := domain.CheckinRef{TicketID: "t1", ZoneID: "zone_x", CheckinAt: time.Now().UTC()}
	require.NoError(t, repo.AppendCheckin(ctx, "sub_1", ref))

	sub, err := repo.FindByID(ctx, "sub_1")
	require.NoError(t, err)
	require.Len(t, sub.CurrentCheckins, 1)
	assert.Equal(t, "t1", sub.CurrentCheckins[0].TicketID)

	require.NoError(t, repo.RemoveCheckin(ctx, "sub_1", "t1"))
	assert.ErrorIs(t, repo.RemoveCheckin(ctx, "sub_1", "t1"), repository.ErrNotFound)

	sub, err = repo.FindByID(ctx, "sub_1")
	require.NoError(t, err)
	assert.Empty(t, sub.CurrentCheckins)
}

func TestSeed_LoadsDemoDataset(t *testing.T) {
	s := NewStore()
	require.NoError(t, Seed(s))

	users := NewUserRepository(s)
	admin, err := users.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Role)

	zones, err := NewZoneRepository(s).FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, zones, 4)

	windows, err := NewScheduleRepository(s).ListRushWindows(context.Background())
	require.NoError(t, err)
	assert.Len(t, windows, 3)
}
