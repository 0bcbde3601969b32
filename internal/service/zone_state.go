package service

import (
	"math"

	"parking_ops/internal/domain"
)

// ReservedShare is the fraction of active subscribers currently outside the
// lot for whom capacity is notionally held back.
const ReservedShare = 0.15

// ComputeZoneState derives the live availability payload for a zone. Pure
// function of its inputs; it is recomputed on every read because occupancy
// and subscription state change continuously.
//
// reservedOccupied is the number of open subscriber tickets in the zone.
// Visitors are blocked from the reserved carve-out; subscribers draw from
// the total free count, not a dedicated sub-pool.
func ComputeZoneState(zone *domain.Zone, category *domain.Category, activeSubs []domain.Subscription, reservedOccupied int) *domain.ZoneState {
	checkedIn := 0
	for _, sub := range activeSubs {
		checkedIn += len(sub.CurrentCheckins)
	}
	subscribersOutside := len(activeSubs) - checkedIn
	if subscribersOutside < 0 {
		subscribersOutside = 0
	}

	reserved := int(math.Ceil(float64(subscribersOutside) * ReservedShare))
	if reserved > zone.TotalSlots {
		reserved = zone.TotalSlots
	}

	free := zone.TotalSlots - zone.Occupied
	if free < 0 {
		free = 0
	}

	reservedFree := reserved - reservedOccupied
	if reservedFree < 0 {
		reservedFree = 0
	}

	availableForVisitors := free - reservedFree
	if availableForVisitors < 0 {
		availableForVisitors = 0
	}

	return &domain.ZoneState{
		ID:                      zone.ID,
		Name:                    zone.Name,
		CategoryID:              zone.CategoryID,
		TotalSlots:              zone.TotalSlots,
		Occupied:                zone.Occupied,
		Free:                    free,
		Reserved:                reserved,
		AvailableForVisitors:    availableForVisitors,
		AvailableForSubscribers: free,
		RateNormal:              category.RateNormal,
		RateSpecial:             category.RateSpecial,
		Open:                    zone.Open,
	}
}
