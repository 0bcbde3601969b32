package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/guregu/null.v4"

	"parking_ops/internal/domain"
	"parking_ops/internal/monitoring"
	"parking_ops/internal/repository"
	"parking_ops/internal/tariff"
)

var (
	ErrZoneClosed          = errors.New("zone is closed")
	ErrNoSlots             = errors.New("no slots available")
	ErrInvalidSubscription = errors.New("invalid subscription")
	ErrCategoryMismatch    = errors.New("subscription category does not match zone category")
	ErrCarLimitReached     = errors.New("subscription has no free registered car")
	ErrScheduleOverlap     = errors.New("rush window overlaps an existing window for that weekday")
	ErrInvalidSchedule     = errors.New("invalid schedule definition")
	ErrInvalidRate         = errors.New("rates must not be negative")
)

// ChangeNotifier receives zone-state deltas and admin broadcasts after
// every mutating operation. Delivery is best-effort; implementations must
// not block the calling request.
type ChangeNotifier interface {
	PublishZoneUpdate(state *domain.ZoneState, gateIDs []string)
	BroadcastAdminUpdate(update domain.AdminUpdate)
}

// ParkingService is the zone-state and billing engine: admission control,
// checkout billing and the admin mutations that feed the change notifier.
type ParkingService struct {
	zones      repository.ZoneRepository
	gates      repository.GateRepository
	categories repository.CategoryRepository
	subs       repository.SubscriptionRepository
	tickets    repository.TicketRepository
	schedules  repository.ScheduleRepository
	calendar   *tariff.Calendar
	billing    *BillingEngine
	notifier   ChangeNotifier
	log        *zap.Logger

	now func() time.Time

	// Per-zone mutexes serialize the read-check-then-write of admission and
	// checkout so two concurrent check-ins cannot both observe the last
	// free slot.
	zoneMuGuard sync.Mutex
	zoneMu      map[string]*sync.Mutex
}

func NewParkingService(
	zones repository.ZoneRepository,
	gates repository.GateRepository,
	categories repository.CategoryRepository,
	subs repository.SubscriptionRepository,
	tickets repository.TicketRepository,
	schedules repository.ScheduleRepository,
	calendar *tariff.Calendar,
	billing *BillingEngine,
	notifier ChangeNotifier,
	log *zap.Logger,
) *ParkingService {
	return &ParkingService{
		zones:      zones,
		gates:      gates,
		categories: categories,
		subs:       subs,
		tickets:    tickets,
		schedules:  schedules,
		calendar:   calendar,
		billing:    billing,
		notifier:   notifier,
		log:        log,
		now:        time.Now,
		zoneMu:     make(map[string]*sync.Mutex),
	}
}

func (s *ParkingService) lockZone(zoneID string) *sync.Mutex {
	s.zoneMuGuard.Lock()
	mu, ok := s.zoneMu[zoneID]
	if !ok {
		mu = &sync.Mutex{}
		s.zoneMu[zoneID] = mu
	}
	s.zoneMuGuard.Unlock()
	mu.Lock()
	return mu
}

// --- Check-in ---

// CheckIn validates a visitor or subscriber check-in against current zone
// availability and, when admissible, creates an open ticket and commits the
// occupancy mutation atomically with respect to the availability check.
func (s *ParkingService) CheckIn(ctx context.Context, dto domain.CheckInDTO) (*domain.Ticket, *domain.ZoneState, error) {
	if _, err := s.zones.FindByID(ctx, dto.ZoneID); err != nil {
		monitoring.CheckinsRejectedTotal.WithLabelValues("zone_not_found").Inc()
		return nil, nil, err
	}

	mu := s.lockZone(dto.ZoneID)
	defer mu.Unlock()

	// Re-read under the lock: the snapshot taken for the existence check
	// may already be stale.
	zone, err := s.zones.FindByID(ctx, dto.ZoneID)
	if err != nil {
		return nil, nil, err
	}
	if !zone.Open {
		monitoring.CheckinsRejectedTotal.WithLabelValues("zone_closed").Inc()
		return nil, nil, ErrZoneClosed
	}

	category, err := s.categories.FindByID(ctx, zone.CategoryID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading category %s: %w", zone.CategoryID, err)
	}

	state, err := s.computeState(ctx, zone, category)
	if err != nil {
		return nil, nil, err
	}

	ticket := &domain.Ticket{
		ID:        uuid.NewString(),
		Type:      dto.Type,
		ZoneID:    dto.ZoneID,
		GateID:    dto.GateID,
		CheckinAt: s.now().UTC(),
	}

	switch dto.Type {
	case domain.TicketVisitor:
		if state.AvailableForVisitors <= 0 {
			monitoring.CheckinsRejectedTotal.WithLabelValues("no_slots").Inc()
			return nil, nil, ErrNoSlots
		}

	case domain.TicketSubscriber:
		sub, err := s.subs.FindByID(ctx, dto.SubscriptionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				monitoring.CheckinsRejectedTotal.WithLabelValues("invalid_subscription").Inc()
				return nil, nil, ErrInvalidSubscription
			}
			return nil, nil, err
		}
		if !sub.Active {
			monitoring.CheckinsRejectedTotal.WithLabelValues("invalid_subscription").Inc()
			return nil, nil, ErrInvalidSubscription
		}
		if sub.CategoryID != zone.CategoryID {
			monitoring.CheckinsRejectedTotal.WithLabelValues("category_mismatch").Inc()
			return nil, nil, ErrCategoryMismatch
		}
		if len(sub.Cars) > 0 && len(sub.CurrentCheckins) >= len(sub.Cars) {
			monitoring.CheckinsRejectedTotal.WithLabelValues("car_limit").Inc()
			return nil, nil, ErrCarLimitReached
		}
		// Subscribers draw from the total free count, not a dedicated
		// reserved sub-pool.
		if state.Free <= 0 {
			monitoring.CheckinsRejectedTotal.WithLabelValues("no_slots").Inc()
			return nil, nil, ErrNoSlots
		}
		ticket.SubscriptionID = null.StringFrom(sub.ID)
	}

	// Commit the slot before creating the ticket: when the store-level
	// capacity backstop loses the race to another writer, the rejection
	// must leave nothing behind, or the leaked open ticket would inflate
	// the reserved-occupied count forever.
	if err := s.zones.IncrementOccupied(ctx, zone.ID); err != nil {
		if errors.Is(err, repository.ErrCapacityExceeded) {
			monitoring.CheckinsRejectedTotal.WithLabelValues("no_slots").Inc()
			return nil, nil, ErrNoSlots
		}
		return nil, nil, err
	}
	if _, err := s.tickets.Create(ctx, ticket); err != nil {
		if derr := s.zones.DecrementOccupied(ctx, zone.ID); derr != nil {
			s.log.Error("releasing slot after failed ticket create",
				zap.String("zoneId", zone.ID), zap.Error(derr))
		}
		return nil, nil, fmt.Errorf("creating ticket: %w", err)
	}
	if ticket.Type == domain.TicketSubscriber {
		ref := domain.CheckinRef{TicketID: ticket.ID, ZoneID: zone.ID, CheckinAt: ticket.CheckinAt}
		if err := s.subs.AppendCheckin(ctx, dto.SubscriptionID, ref); err != nil {
			return nil, nil, fmt.Errorf("recording subscription check-in: %w", err)
		}
	}

	monitoring.CheckinsTotal.WithLabelValues(string(ticket.Type), zone.ID).Inc()
	s.log.Info("check-in admitted",
		zap.String("ticketId", ticket.ID),
		zap.String("zoneId", zone.ID),
		zap.String("gateId", ticket.GateID),
		zap.String("type", string(ticket.Type)))

	newState, err := s.refreshState(ctx, zone.ID)
	if err != nil {
		return nil, nil, err
	}
	s.notifier.PublishZoneUpdate(newState, zone.GateIDs)
	return ticket, newState, nil
}

// --- Checkout ---

// Checkout closes an open ticket, bills the stay against the tariff
// calendar and releases the occupied slot.
func (s *ParkingService) Checkout(ctx context.Context, dto domain.CheckOutDTO) (*domain.Bill, *domain.ZoneState, error) {
	ticket, err := s.tickets.FindByID(ctx, dto.TicketID)
	if err != nil {
		return nil, nil, err
	}

	mu := s.lockZone(ticket.ZoneID)
	defer mu.Unlock()

	ticket, err = s.tickets.FindByID(ctx, dto.TicketID)
	if err != nil {
		return nil, nil, err
	}
	if !ticket.Open() {
		return nil, nil, repository.ErrTicketClosed
	}

	zone, err := s.zones.FindByID(ctx, ticket.ZoneID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading zone %s: %w", ticket.ZoneID, err)
	}
	category, err := s.categories.FindByID(ctx, zone.CategoryID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading category %s: %w", zone.CategoryID, err)
	}
	sched, err := s.calendar.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	billingType := ticket.Type
	if dto.ForceConvertToVisitor && ticket.Type == domain.TicketSubscriber {
		billingType = domain.TicketVisitor
	}

	checkoutAt := s.now().UTC()
	if checkoutAt.Before(ticket.CheckinAt) {
		checkoutAt = ticket.CheckinAt
	}

	bill := s.billing.ComputeBill(sched, category, ticket.ID, billingType, ticket.CheckinAt, checkoutAt)

	if _, err := s.tickets.Close(ctx, ticket.ID, checkoutAt, billingType, bill.Amount); err != nil {
		return nil, nil, err
	}
	if err := s.zones.DecrementOccupied(ctx, zone.ID); err != nil {
		return nil, nil, err
	}
	if ticket.Type == domain.TicketSubscriber && ticket.SubscriptionID.Valid {
		if err := s.subs.RemoveCheckin(ctx, ticket.SubscriptionID.String, ticket.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("releasing subscription check-in: %w", err)
		}
	}

	monitoring.CheckoutsTotal.WithLabelValues(string(billingType)).Inc()
	monitoring.BilledAmountTotal.Add(bill.Amount.InexactFloat64())
	s.log.Info("checkout billed",
		zap.String("ticketId", ticket.ID),
		zap.String("zoneId", zone.ID),
		zap.String("billingType", string(billingType)),
		zap.String("amount", bill.Amount.String()),
		zap.Int("segments", len(bill.Breakdown)))

	newState, err := s.refreshState(ctx, zone.ID)
	if err != nil {
		return nil, nil, err
	}
	s.notifier.PublishZoneUpdate(newState, zone.GateIDs)
	return bill, newState, nil
}

// --- Reads ---

func (s *ParkingService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.FindByID(ctx, id)
}

func (s *ParkingService) FindTickets(ctx context.Context, filter domain.TicketFilterDTO) ([]domain.Ticket, error) {
	return s.tickets.Find(ctx, filter)
}

func (s *ParkingService) GetSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	return s.subs.FindByID(ctx, id)
}

func (s *ParkingService) ListGates(ctx context.Context) ([]domain.Gate, error) {
	return s.gates.FindAll(ctx)
}

// ZoneStatesForGate returns the derived payload for every zone the gate
// exposes. Also serves the websocket hub's initial snapshot on subscribe.
func (s *ParkingService) ZoneStatesForGate(ctx context.Context, gateID string) ([]domain.ZoneState, error) {
	if _, err := s.gates.FindByID(ctx, gateID); err != nil {
		return nil, err
	}
	zones, err := s.zones.FindByGateID(ctx, gateID)
	if err != nil {
		return nil, err
	}
	states := make([]domain.ZoneState, 0, len(zones))
	for i := range zones {
		category, err := s.categories.FindByID(ctx, zones[i].CategoryID)
		if err != nil {
			return nil, fmt.Errorf("loading category %s: %w", zones[i].CategoryID, err)
		}
		state, err := s.computeState(ctx, &zones[i], category)
		if err != nil {
			return nil, err
		}
		states = append(states, *state)
	}
	return states, nil
}

// --- Admin mutations ---

func (s *ParkingService) UpdateCategory(ctx context.Context, id string, dto domain.UpdateCategoryDTO, actorID string) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.Name != nil {
		category.Name = *dto.Name
	}
	if dto.Description != nil {
		category.Description = *dto.Description
	}
	if dto.RateNormal != nil {
		if dto.RateNormal.IsNegative() {
			return nil, ErrInvalidRate
		}
		category.RateNormal = *dto.RateNormal
	}
	if dto.RateSpecial != nil {
		if dto.RateSpecial.IsNegative() {
			return nil, ErrInvalidRate
		}
		category.RateSpecial = *dto.RateSpecial
	}

	updated, err := s.categories.Update(ctx, category)
	if err != nil {
		return nil, err
	}
	s.log.Info("category updated", zap.String("categoryId", id), zap.String("actorId", actorID))

	s.notifier.BroadcastAdminUpdate(domain.AdminUpdate{
		ActorID:    actorID,
		Action:     "category-rates-updated",
		TargetType: "category",
		TargetID:   id,
		Details: map[string]any{
			"rateNormal":  updated.RateNormal,
			"rateSpecial": updated.RateSpecial,
		},
		Timestamp: s.now().UTC(),
	})

	// Rate changes alter every zone payload of the category.
	zones, err := s.zones.FindByCategoryID(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range zones {
		state, err := s.refreshState(ctx, zones[i].ID)
		if err != nil {
			return nil, err
		}
		s.notifier.PublishZoneUpdate(state, zones[i].GateIDs)
	}
	return updated, nil
}

func (s *ParkingService) SetZoneOpen(ctx context.Context, id string, open bool, actorID string) (*domain.Zone, error) {
	zone, err := s.zones.SetOpen(ctx, id, open)
	if err != nil {
		return nil, err
	}
	action := "zone-closed"
	if open {
		action = "zone-opened"
	}
	s.log.Info("zone open state changed", zap.String("zoneId", id), zap.Bool("open", open), zap.String("actorId", actorID))

	s.notifier.BroadcastAdminUpdate(domain.AdminUpdate{
		ActorID:    actorID,
		Action:     action,
		TargetType: "zone",
		TargetID:   id,
		Timestamp:  s.now().UTC(),
	})
	state, err := s.refreshState(ctx, zone.ID)
	if err != nil {
		return nil, err
	}
	s.notifier.PublishZoneUpdate(state, zone.GateIDs)
	return zone, nil
}

func (s *ParkingService) AddRushWindow(ctx context.Context, dto domain.CreateRushWindowDTO, actorID string) (*domain.RushHourWindow, error) {
	if _, err := time.Parse("15:04", dto.From); err != nil {
		return nil, fmt.Errorf("%w: bad from time %q", ErrInvalidSchedule, dto.From)
	}
	if _, err := time.Parse("15:04", dto.To); err != nil {
		return nil, fmt.Errorf("%w: bad to time %q", ErrInvalidSchedule, dto.To)
	}
	if dto.From >= dto.To {
		return nil, fmt.Errorf("%w: from must precede to", ErrInvalidSchedule)
	}

	// Overlap within one weekday is a configuration error; evaluation
	// tie-breaks to declaration order, so silently accepting overlaps would
	// hide mistakes.
	existing, err := s.calendar.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range existing.Windows {
		if w.Weekday == *dto.Weekday && dto.From < w.To && w.From < dto.To {
			return nil, ErrScheduleOverlap
		}
	}

	window, err := s.schedules.CreateRushWindow(ctx, &domain.RushHourWindow{
		Weekday: *dto.Weekday,
		From:    dto.From,
		To:      dto.To,
	})
	if err != nil {
		return nil, err
	}
	s.broadcastScheduleChange(actorID, "rush-updated", "rushWindow", window.ID)
	return window, nil
}

func (s *ParkingService) RemoveRushWindow(ctx context.Context, id, actorID string) error {
	if err := s.schedules.DeleteRushWindow(ctx, id); err != nil {
		return err
	}
	s.broadcastScheduleChange(actorID, "rush-updated", "rushWindow", id)
	return nil
}

func (s *ParkingService) AddVacation(ctx context.Context, dto domain.CreateVacationDTO, actorID string) (*domain.Vacation, error) {
	if _, err := time.Parse("2006-01-02", dto.From); err != nil {
		return nil, fmt.Errorf("%w: bad from date %q", ErrInvalidSchedule, dto.From)
	}
	if _, err := time.Parse("2006-01-02", dto.To); err != nil {
		return nil, fmt.Errorf("%w: bad to date %q", ErrInvalidSchedule, dto.To)
	}
	if dto.From > dto.To {
		return nil, fmt.Errorf("%w: from must not follow to", ErrInvalidSchedule)
	}

	vacation, err := s.schedules.CreateVacation(ctx, &domain.Vacation{
		Name: dto.Name,
		From: dto.From,
		To:   dto.To,
	})
	if err != nil {
		return nil, err
	}
	s.broadcastScheduleChange(actorID, "vacation-updated", "vacation", vacation.ID)
	return vacation, nil
}

func (s *ParkingService) RemoveVacation(ctx context.Context, id, actorID string) error {
	if err := s.schedules.DeleteVacation(ctx, id); err != nil {
		return err
	}
	s.broadcastScheduleChange(actorID, "vacation-updated", "vacation", id)
	return nil
}

// --- Internals ---

func (s *ParkingService) broadcastScheduleChange(actorID, action, targetType, targetID string) {
	s.log.Info("schedule changed", zap.String("action", action), zap.String("targetId", targetID), zap.String("actorId", actorID))
	s.notifier.BroadcastAdminUpdate(domain.AdminUpdate{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Timestamp:  s.now().UTC(),
	})
}

func (s *ParkingService) computeState(ctx context.Context, zone *domain.Zone, category *domain.Category) (*domain.ZoneState, error) {
	activeSubs, err := s.subs.FindActiveByCategory(ctx, zone.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("loading subscriptions for category %s: %w", zone.CategoryID, err)
	}
	reservedOccupied, err := s.tickets.CountOpenByZoneAndType(ctx, zone.ID, domain.TicketSubscriber)
	if err != nil {
		return nil, fmt.Errorf("counting open subscriber tickets in zone %s: %w", zone.ID, err)
	}
	return ComputeZoneState(zone, category, activeSubs, reservedOccupied), nil
}

// refreshState re-reads the zone and recomputes its payload after a
// mutation; the result is what the notifier publishes.
func (s *ParkingService) refreshState(ctx context.Context, zoneID string) (*domain.ZoneState, error) {
	zone, err := s.zones.FindByID(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.FindByID(ctx, zone.CategoryID)
	if err != nil {
		return nil, err
	}
	state, err := s.computeState(ctx, zone, category)
	if err != nil {
		return nil, err
	}
	monitoring.ZoneOccupied.WithLabelValues(zone.ID).Set(float64(zone.Occupied))
	return state, nil
}
