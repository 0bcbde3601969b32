package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Zone is a physically distinct parking area with fixed capacity.
// Occupied is mutated on check-in/check-out and must stay within
// [0, TotalSlots]. Open gates new check-ins only; checkouts always proceed.
type Zone struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CategoryID string    `json:"categoryId"`
	TotalSlots int       `json:"totalSlots"`
	Occupied   int       `json:"occupied"`
	Open       bool      `json:"open"`
	GateIDs    []string  `json:"gateIds"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ZoneState is the full derived payload the gate and checkpoint screens
// consume. It is recomputed on every read and never cached.
type ZoneState struct {
	ID                      string          `json:"id"`
	Name                    string          `json:"name"`
	CategoryID              string          `json:"categoryId"`
	TotalSlots              int             `json:"totalSlots"`
	Occupied                int             `json:"occupied"`
	Free                    int             `json:"free"`
	Reserved                int             `json:"reserved"`
	AvailableForVisitors    int             `json:"availableForVisitors"`
	AvailableForSubscribers int             `json:"availableForSubscribers"`
	RateNormal              decimal.Decimal `json:"rateNormal"`
	RateSpecial             decimal.Decimal `json:"rateSpecial"`
	Open                    bool            `json:"open"`
}

type SetZoneOpenDTO struct {
	Open *bool `json:"open" binding:"required"`
}

// Gate is a physical entry/exit point. A gate exposes one or more zones;
// websocket subscriptions are per gate.
type Gate struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location string   `json:"location,omitempty"`
	ZoneIDs  []string `json:"zoneIds"`
}
