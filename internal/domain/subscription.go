package domain

import "time"

// Car is a vehicle registered on a subscription.
type Car struct {
	Plate string `json:"plate"`
	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`
	Color string `json:"color,omitempty"`
}

// CheckinRef links a subscription to one of its open tickets. Entries are
// appended on check-in and removed on checkout.
type CheckinRef struct {
	TicketID  string    `json:"ticketId"`
	ZoneID    string    `json:"zoneId"`
	CheckinAt time.Time `json:"checkinAt"`
}

// Subscription entitles its holder to park in zones of a single category.
// Invariant: len(CurrentCheckins) <= len(Cars) whenever Cars is non-empty.
type Subscription struct {
	ID              string       `json:"id"`
	HolderName      string       `json:"holderName"`
	CategoryID      string       `json:"categoryId"`
	Active          bool         `json:"active"`
	Cars            []Car        `json:"cars"`
	CurrentCheckins []CheckinRef `json:"currentCheckins"`
	StartsAt        time.Time    `json:"startsAt"`
	ExpiresAt       time.Time    `json:"expiresAt"`
}
