package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"
)

type TicketType string

const (
	TicketVisitor    TicketType = "visitor"
	TicketSubscriber TicketType = "subscriber"
)

// Ticket is the record of one vehicle's stay. It is open while CheckoutAt
// is null and immutable once checked out except for the checkout fields.
type Ticket struct {
	ID             string              `json:"id"`
	Type           TicketType          `json:"type"`
	ZoneID         string              `json:"zoneId"`
	GateID         string              `json:"gateId"`
	SubscriptionID null.String         `json:"subscriptionId,omitempty"`
	CheckinAt      time.Time           `json:"checkinAt"`
	CheckoutAt     null.Time           `json:"checkoutAt"`
	BillingType    null.String         `json:"billingType,omitempty"`
	TotalAmount    decimal.NullDecimal `json:"totalAmount,omitempty"`
}

// Open reports whether the ticket has not been checked out yet.
func (t *Ticket) Open() bool {
	return !t.CheckoutAt.Valid
}

type CheckInDTO struct {
	GateID         string     `json:"gateId" binding:"required"`
	ZoneID         string     `json:"zoneId" binding:"required"`
	Type           TicketType `json:"type" binding:"required,oneof=visitor subscriber"`
	SubscriptionID string     `json:"subscriptionId,omitempty"`
}

type CheckOutDTO struct {
	TicketID              string `json:"ticketId" binding:"required"`
	ForceConvertToVisitor bool   `json:"forceConvertToVisitor,omitempty"`
}

type TicketFilterDTO struct {
	Status string `form:"status"` // "open", "closed" or empty for all
	ZoneID string `form:"zoneId"`
}

// BillSegment is one contiguous same-rate slice of a stay. Hours and Amount
// are rounded for display; totals are summed before rounding.
type BillSegment struct {
	From     time.Time       `json:"from"`
	To       time.Time       `json:"to"`
	Hours    float64         `json:"hours"`
	RateMode string          `json:"rateMode"` // "normal" or "special"
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// Bill is the itemized checkout result.
type Bill struct {
	TicketID      string          `json:"ticketId"`
	CheckinAt     time.Time       `json:"checkinAt"`
	CheckoutAt    time.Time       `json:"checkoutAt"`
	DurationHours float64         `json:"durationHours"`
	BillingType   TicketType      `json:"billingType"`
	Breakdown     []BillSegment   `json:"breakdown"`
	Amount        decimal.Decimal `json:"amount"`
}
