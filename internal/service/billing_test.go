package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking_ops/internal/domain"
	"parking_ops/internal/tariff"
)

func billingCategory(normal, special int64) *domain.Category {
	return &domain.Category{
		ID:          "cat_standard",
		RateNormal:  decimal.NewFromInt(normal),
		RateSpecial: decimal.NewFromInt(special),
	}
}

func TestComputeBill_VacationStay(t *testing.T) {
	sched := tariff.Schedule{
		Vacations: []domain.Vacation{{ID: "v1", From: "2024-12-25", To: "2024-12-26"}},
	}
	engine := NewBillingEngine(time.Minute)

	checkin := time.Date(2024, 12, 25, 8, 0, 0, 0, time.UTC)
	checkout := time.Date(2024, 12, 25, 10, 0, 0, 0, time.UTC)
	bill := engine.ComputeBill(sched, billingCategory(5, 10), "t1", domain.TicketVisitor, checkin, checkout)

	require.Len(t, bill.Breakdown, 1)
	seg := bill.Breakdown[0]
	assert.Equal(t, RateModeSpecial, seg.RateMode)
	assert.Equal(t, 2.0, seg.Hours)
	assert.True(t, seg.Amount.Equal(decimal.RequireFromString("20.00")), "got %s", seg.Amount)
	assert.True(t, bill.Amount.Equal(decimal.RequireFromString("20.00")), "got %s", bill.Amount)
	assert.Equal(t, 2.0, bill.DurationHours)
}

func TestComputeBill_SplitsAtRushBoundary(t *testing.T) {
	// 2026-03-02 is a Monday with rush 07:00-09:00. A 06:00-10:00 stay
	// splits into normal, special, normal.
	sched := tariff.Schedule{
		Windows: []domain.RushHourWindow{{ID: "w1", Weekday: 1, From: "07:00", To: "09:00"}},
	}
	engine := NewBillingEngine(time.Minute)

	checkin := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	checkout := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	bill := engine.ComputeBill(sched, billingCategory(5, 10), "t1", domain.TicketVisitor, checkin, checkout)

	require.Len(t, bill.Breakdown, 3)
	assert.Equal(t, RateModeNormal, bill.Breakdown[0].RateMode)
	assert.Equal(t, RateModeSpecial, bill.Breakdown[1].RateMode)
	assert.Equal(t, RateModeNormal, bill.Breakdown[2].RateMode)

	assert.Equal(t, checkin, bill.Breakdown[0].From)
	assert.Equal(t, bill.Breakdown[0].To, bill.Breakdown[1].From)
	assert.Equal(t, bill.Breakdown[1].To, bill.Breakdown[2].From)
	assert.Equal(t, checkout, bill.Breakdown[2].To)

	// 1h normal + 2h special + 1h normal = 5 + 20 + 5.
	assert.True(t, bill.Amount.Equal(decimal.NewFromInt(30)), "got %s", bill.Amount)
}

func TestComputeBill_StepGranularityInvariant(t *testing.T) {
	// Transitions sit on minute boundaries, so a finer step must produce
	// the same segments and total.
	sched := tariff.Schedule{
		Windows: []domain.RushHourWindow{{ID: "w1", Weekday: 1, From: "07:00", To: "09:00"}},
	}
	checkin := time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)
	checkout := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	coarse := NewBillingEngine(time.Minute).
		ComputeBill(sched, billingCategory(5, 10), "t1", domain.TicketVisitor, checkin, checkout)
	fine := NewBillingEngine(30 * time.Second).
		ComputeBill(sched, billingCategory(5, 10), "t1", domain.TicketVisitor, checkin, checkout)

	require.Equal(t, len(coarse.Breakdown), len(fine.Breakdown))
	for i := range coarse.Breakdown {
		assert.Equal(t, coarse.Breakdown[i].From, fine.Breakdown[i].From)
		assert.Equal(t, coarse.Breakdown[i].To, fine.Breakdown[i].To)
		assert.Equal(t, coarse.Breakdown[i].RateMode, fine.Breakdown[i].RateMode)
	}
	assert.True(t, coarse.Amount.Equal(fine.Amount))
}

func TestComputeBill_TruncatedLastStep(t *testing.T) {
	engine := NewBillingEngine(time.Minute)
	checkin := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	checkout := checkin.Add(90 * time.Second)

	bill := engine.ComputeBill(tariff.Schedule{}, billingCategory(4, 8), "t1", domain.TicketVisitor, checkin, checkout)

	require.Len(t, bill.Breakdown, 1)
	assert.Equal(t, checkout, bill.Breakdown[0].To)
	// 90s at 4/h = 0.10.
	assert.True(t, bill.Amount.Equal(decimal.RequireFromString("0.10")), "got %s", bill.Amount)
}

func TestComputeBill_ZeroDuration(t *testing.T) {
	engine := NewBillingEngine(time.Minute)
	at := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)

	bill := engine.ComputeBill(tariff.Schedule{}, billingCategory(4, 8), "t1", domain.TicketVisitor, at, at)

	assert.Empty(t, bill.Breakdown)
	assert.True(t, bill.Amount.IsZero())
	assert.Equal(t, 0.0, bill.DurationHours)
}

func TestComputeBill_SumsBeforeRounding(t *testing.T) {
	// Rate 1/h for one minute is 0.01666...; sixty such minutes must bill
	// exactly 1.00, not 60 * round(0.0167).
	engine := NewBillingEngine(time.Minute)
	checkin := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	checkout := checkin.Add(time.Hour)

	bill := engine.ComputeBill(tariff.Schedule{}, billingCategory(1, 2), "t1", domain.TicketVisitor, checkin, checkout)

	require.Len(t, bill.Breakdown, 1)
	assert.True(t, bill.Amount.Equal(decimal.NewFromInt(1)), "got %s", bill.Amount)
}

func TestComputeBill_CarriesBillingType(t *testing.T) {
	engine := NewBillingEngine(time.Minute)
	checkin := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)

	bill := engine.ComputeBill(tariff.Schedule{}, billingCategory(4, 8), "t1", domain.TicketSubscriber, checkin, checkin.Add(time.Hour))
	assert.Equal(t, domain.TicketSubscriber, bill.BillingType)
	assert.Equal(t, "t1", bill.TicketID)
}
