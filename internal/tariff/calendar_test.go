package tariff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"parking_ops/internal/domain"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parsing %q: %v", value, err)
	}
	return parsed
}

func TestScheduleEvaluate_RushWindow(t *testing.T) {
	sched := Schedule{
		Windows: []domain.RushHourWindow{
			{ID: "w1", Weekday: 1, From: "07:00", To: "09:00"},
		},
	}

	// 2026-03-02 is a Monday.
	tests := []struct {
		name    string
		at      string
		special bool
	}{
		{"before window", "2026-03-02T06:59:00Z", false},
		{"lower bound inclusive", "2026-03-02T07:00:00Z", true},
		{"inside window", "2026-03-02T08:30:00Z", true},
		{"upper bound exclusive", "2026-03-02T09:00:00Z", false},
		{"same time wrong weekday", "2026-03-03T08:00:00Z", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			special, reason := sched.Evaluate(mustTime(t, tc.at))
			assert.Equal(t, tc.special, special)
			if tc.special {
				assert.Equal(t, ReasonRush, reason)
			} else {
				assert.Empty(t, reason)
			}
		})
	}
}

func TestScheduleEvaluate_VacationInclusive(t *testing.T) {
	sched := Schedule{
		Vacations: []domain.Vacation{
			{ID: "v1", Name: "Eid", From: "2026-03-19", To: "2026-03-22"},
		},
	}

	special, reason := sched.Evaluate(mustTime(t, "2026-03-19T00:00:00Z"))
	assert.True(t, special)
	assert.Equal(t, ReasonVacation, reason)

	// Last day counts in full.
	special, _ = sched.Evaluate(mustTime(t, "2026-03-22T23:59:00Z"))
	assert.True(t, special)

	special, _ = sched.Evaluate(mustTime(t, "2026-03-23T00:00:00Z"))
	assert.False(t, special)
}

func TestScheduleEvaluate_VacationBeatsRush(t *testing.T) {
	// 2026-03-23 is a Monday inside the vacation: the reason must say
	// vacation even though a rush window matches too.
	sched := Schedule{
		Windows:   []domain.RushHourWindow{{ID: "w1", Weekday: 1, From: "07:00", To: "09:00"}},
		Vacations: []domain.Vacation{{ID: "v1", From: "2026-03-23", To: "2026-03-23"}},
	}

	special, reason := sched.Evaluate(mustTime(t, "2026-03-23T08:00:00Z"))
	assert.True(t, special)
	assert.Equal(t, ReasonVacation, reason)
}

func TestScheduleEvaluate_DeclarationOrderBreaksTies(t *testing.T) {
	sched := Schedule{
		Windows: []domain.RushHourWindow{
			{ID: "w1", Weekday: 1, From: "07:00", To: "09:00"},
			{ID: "w2", Weekday: 1, From: "08:00", To: "10:00"},
		},
	}

	// Both windows cover 08:30; the first declared one answers. The result
	// is the same either way, this pins the first-match contract.
	special, reason := sched.Evaluate(mustTime(t, "2026-03-02T08:30:00Z"))
	assert.True(t, special)
	assert.Equal(t, ReasonRush, reason)
}

func TestScheduleEvaluate_EmptySchedule(t *testing.T) {
	special, reason := Schedule{}.Evaluate(mustTime(t, "2026-03-02T08:00:00Z"))
	assert.False(t, special)
	assert.Empty(t, reason)
}
