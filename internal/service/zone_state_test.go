package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"parking_ops/internal/domain"
)

func testZone(total, occupied int) *domain.Zone {
	return &domain.Zone{
		ID:         "zone_a",
		Name:       "Zone A",
		CategoryID: "cat_premium",
		TotalSlots: total,
		Occupied:   occupied,
		Open:       true,
	}
}

func testCategory() *domain.Category {
	return &domain.Category{
		ID:          "cat_premium",
		RateNormal:  decimal.NewFromInt(5),
		RateSpecial: decimal.NewFromInt(8),
	}
}

func subsOutside(n int) []domain.Subscription {
	subs := make([]domain.Subscription, n)
	for i := range subs {
		subs[i] = domain.Subscription{Active: true}
	}
	return subs
}

func TestComputeZoneState_ReservedIsCeil(t *testing.T) {
	// 10 subscribers outside: ceil(10 * 0.15) = 2.
	state := ComputeZoneState(testZone(100, 0), testCategory(), subsOutside(10), 0)
	assert.Equal(t, 2, state.Reserved)
	assert.Equal(t, 100, state.Free)
	assert.Equal(t, 98, state.AvailableForVisitors)
	assert.Equal(t, 100, state.AvailableForSubscribers)
}

func TestComputeZoneState_SingleSubscriberStillReserves(t *testing.T) {
	// ceil(1 * 0.15) = 1: even one subscriber outside holds a slot.
	state := ComputeZoneState(testZone(10, 0), testCategory(), subsOutside(1), 0)
	assert.Equal(t, 1, state.Reserved)
	assert.Equal(t, 9, state.AvailableForVisitors)
}

func TestComputeZoneState_ReservedCappedAtTotalSlots(t *testing.T) {
	state := ComputeZoneState(testZone(2, 0), testCategory(), subsOutside(100), 0)
	assert.Equal(t, 2, state.Reserved)
	assert.Equal(t, 0, state.AvailableForVisitors)
	assert.Equal(t, 2, state.AvailableForSubscribers)
}

func TestComputeZoneState_ReservedMonotonicInSubscribers(t *testing.T) {
	// Sweep the outside-subscriber count well past capacity: reserved must
	// never shrink as subscribers are added and never exceed totalSlots.
	zone := testZone(20, 0)
	prev := 0
	for n := 0; n <= 200; n++ {
		state := ComputeZoneState(zone, testCategory(), subsOutside(n), 0)
		assert.GreaterOrEqual(t, state.Reserved, prev, "reserved shrank at n=%d", n)
		assert.LessOrEqual(t, state.Reserved, zone.TotalSlots, "reserved above capacity at n=%d", n)
		prev = state.Reserved
	}
	assert.Equal(t, zone.TotalSlots, prev, "cap must be reached by the end of the sweep")
}

func TestComputeZoneState_CheckedInSubscribersDoNotReserve(t *testing.T) {
	subs := subsOutside(10)
	// Four of the ten are already inside.
	for i := 0; i < 4; i++ {
		subs[i].CurrentCheckins = []domain.CheckinRef{{TicketID: "t"}}
	}
	// ceil(6 * 0.15) = 1.
	state := ComputeZoneState(testZone(100, 4), testCategory(), subs, 4)
	assert.Equal(t, 1, state.Reserved)
}

func TestComputeZoneState_ReservedOccupiedFreesVisitorSlots(t *testing.T) {
	// Reserved 2, but both reserved slots already hold subscribers: the
	// carve-out is satisfied, visitors see all remaining free slots.
	state := ComputeZoneState(testZone(100, 2), testCategory(), subsOutside(10), 2)
	assert.Equal(t, 2, state.Reserved)
	assert.Equal(t, 98, state.Free)
	assert.Equal(t, 98, state.AvailableForVisitors)
}

func TestComputeZoneState_FullZone(t *testing.T) {
	state := ComputeZoneState(testZone(50, 50), testCategory(), subsOutside(5), 0)
	assert.Equal(t, 0, state.Free)
	assert.Equal(t, 0, state.AvailableForVisitors)
	assert.Equal(t, 0, state.AvailableForSubscribers)
}

func TestComputeZoneState_NoSubscribers(t *testing.T) {
	state := ComputeZoneState(testZone(50, 10), testCategory(), nil, 0)
	assert.Equal(t, 0, state.Reserved)
	assert.Equal(t, 40, state.AvailableForVisitors)
}

func TestComputeZoneState_RatesAndOpenCarriedThrough(t *testing.T) {
	state := ComputeZoneState(testZone(50, 0), testCategory(), nil, 0)
	assert.True(t, state.RateNormal.Equal(decimal.NewFromInt(5)))
	assert.True(t, state.RateSpecial.Equal(decimal.NewFromInt(8)))
	assert.True(t, state.Open)
}
