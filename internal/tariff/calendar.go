// Package tariff answers "is this instant special-rate?" from the configured
// weekly rush-hour windows and vacation date ranges.
package tariff

import (
	"context"
	"fmt"
	"time"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository"
)

const (
	ReasonVacation = "vacation"
	ReasonRush     = "rush"
)

// Schedule is an immutable snapshot of the rate calendar. Evaluation is
// pure so the billing engine can walk long intervals without touching the
// store.
type Schedule struct {
	Windows   []domain.RushHourWindow
	Vacations []domain.Vacation
}

// Evaluate reports whether t falls under the special rate and why.
// Vacations take precedence over rush windows. Vacation ranges are
// inclusive; comparing fixed-width ISO dates lexicographically is safe.
// Rush windows are half-open [from, to) and first match wins, in
// declaration order.
func (s Schedule) Evaluate(t time.Time) (special bool, reason string) {
	utc := t.UTC()
	date := utc.Format("2006-01-02")
	for _, v := range s.Vacations {
		if v.From <= date && date <= v.To {
			return true, ReasonVacation
		}
	}

	weekday := int(utc.Weekday())
	hhmm := utc.Format("15:04")
	for _, w := range s.Windows {
		if w.Weekday == weekday && w.From <= hhmm && hhmm < w.To {
			return true, ReasonRush
		}
	}
	return false, ""
}

// Calendar loads schedule snapshots from the store. Admin edits take effect
// on the next snapshot; nothing is cached across requests.
type Calendar struct {
	schedules repository.ScheduleRepository
}

func NewCalendar(schedules repository.ScheduleRepository) *Calendar {
	return &Calendar{schedules: schedules}
}

func (c *Calendar) Snapshot(ctx context.Context) (Schedule, error) {
	windows, err := c.schedules.ListRushWindows(ctx)
	if err != nil {
		return Schedule{}, fmt.Errorf("loading rush windows: %w", err)
	}
	vacations, err := c.schedules.ListVacations(ctx)
	if err != nil {
		return Schedule{}, fmt.Errorf("loading vacations: %w", err)
	}
	return Schedule{Windows: windows, Vacations: vacations}, nil
}

// IsSpecial is the one-shot form of Snapshot + Evaluate.
func (c *Calendar) IsSpecial(ctx context.Context, t time.Time) (bool, string, error) {
	sched, err := c.Snapshot(ctx)
	if err != nil {
		return false, "", err
	}
	special, reason := sched.Evaluate(t)
	return special, reason, nil
}
