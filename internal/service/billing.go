package service

import (
	"time"

	"github.com/shopspring/decimal"

	"parking_ops/internal/domain"
	"parking_ops/internal/tariff"
)

const (
	RateModeNormal  = "normal"
	RateModeSpecial = "special"
)

var secondsPerHour = decimal.NewFromInt(3600)

// BillingEngine prices a stay by walking it in fixed steps against the
// tariff schedule and merging consecutive same-rate steps into segments.
type BillingEngine struct {
	// Step is the sampling granularity. The merge makes results independent
	// of the step for schedules whose transitions align with it, so the
	// default of one minute matches HH:MM rush boundaries exactly.
	Step time.Duration
}

func NewBillingEngine(step time.Duration) *BillingEngine {
	if step <= 0 {
		step = time.Minute
	}
	return &BillingEngine{Step: step}
}

// ComputeBill partitions [checkinAt, checkoutAt) into contiguous same-rate
// segments and prices each at the category's hourly rate. A zero-length
// interval yields zero segments and a zero amount. Summation happens on
// unrounded values; per-segment and total amounts are rounded to 2 decimals
// only for the returned payload.
func (e *BillingEngine) ComputeBill(sched tariff.Schedule, category *domain.Category, ticketID string, billingType domain.TicketType, checkinAt, checkoutAt time.Time) *domain.Bill {
	type rawSegment struct {
		from, to time.Time
		mode     string
	}

	var segments []rawSegment
	for cursor := checkinAt; cursor.Before(checkoutAt); {
		stepEnd := cursor.Add(e.Step)
		if stepEnd.After(checkoutAt) {
			stepEnd = checkoutAt
		}

		mode := RateModeNormal
		if special, _ := sched.Evaluate(cursor); special {
			mode = RateModeSpecial
		}

		if n := len(segments); n > 0 && segments[n-1].mode == mode {
			segments[n-1].to = stepEnd
		} else {
			segments = append(segments, rawSegment{from: cursor, to: stepEnd, mode: mode})
		}
		cursor = stepEnd
	}

	bill := &domain.Bill{
		TicketID:    ticketID,
		CheckinAt:   checkinAt,
		CheckoutAt:  checkoutAt,
		BillingType: billingType,
		Breakdown:   make([]domain.BillSegment, 0, len(segments)),
	}

	total := decimal.Zero
	for _, seg := range segments {
		rate := category.RateNormal
		if seg.mode == RateModeSpecial {
			rate = category.RateSpecial
		}
		hours := decimal.NewFromInt(int64(seg.to.Sub(seg.from) / time.Second)).Div(secondsPerHour)
		amount := rate.Mul(hours)
		total = total.Add(amount)

		bill.Breakdown = append(bill.Breakdown, domain.BillSegment{
			From:     seg.from,
			To:       seg.to,
			Hours:    hours.Round(2).InexactFloat64(),
			RateMode: seg.mode,
			Rate:     rate,
			Amount:   amount.Round(2),
		})
	}

	bill.Amount = total.Round(2)
	bill.DurationHours = decimal.NewFromInt(int64(checkoutAt.Sub(checkinAt) / time.Second)).Div(secondsPerHour).Round(2).InexactFloat64()
	return bill
}
