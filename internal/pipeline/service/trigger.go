package service

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// TriggerMode selects how aggregation runs are scheduled.
type TriggerMode string

const (
	// TriggerModeFixed fires at a configured wall-clock time, at most once
	// per calendar day.
	TriggerModeFixed TriggerMode = "fixed"
	// TriggerModeInterval fires immediately on startup and then on a fixed
	// period, with no daily cap.
	TriggerModeInterval TriggerMode = "interval"
)

// Trigger is the aggregation scheduler's state machine. It tracks a single
// next-fire instant; ShouldFire advances it according to the mode.
type Trigger struct {
	mode     TriggerMode
	schedule cron.Schedule
	interval time.Duration
	next     time.Time
}

// NewTrigger creates a Trigger. For fixed mode, fixedTime is "HH:MM" and the
// first fire is the next occurrence of that wall-clock time after now. For
// interval mode, the first fire is immediate.
func NewTrigger(mode TriggerMode, fixedTime string, interval time.Duration, now time.Time) (*Trigger, error) {
	switch mode {
	case TriggerModeFixed:
		at, err := time.Parse("15:04", fixedTime)
		if err != nil {
			return nil, fmt.Errorf("invalid fixed trigger time %q: %w", fixedTime, err)
		}
		schedule, err := cron.ParseStandard(fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour()))
		if err != nil {
			return nil, fmt.Errorf("failed to build schedule for %q: %w", fixedTime, err)
		}
		return &Trigger{
			mode:     mode,
			schedule: schedule,
			next:     schedule.Next(now),
		}, nil
	case TriggerModeInterval:
		if interval <= 0 {
			return nil, fmt.Errorf("interval must be positive, got %s", interval)
		}
		return &Trigger{
			mode:     mode,
			interval: interval,
			next:     now,
		}, nil
	default:
		return nil, fmt.Errorf("unknown trigger mode %q", mode)
	}
}

// ShouldFire reports whether a run is due at now and, if so, advances the
// next-fire instant. Fixed mode advances through the cron schedule, which
// lands on the same wall-clock time the following day; interval mode adds the
// period. At most one fire is due per call, regardless of how much time has
// passed since the previous check.
func (t *Trigger) ShouldFire(now time.Time) bool {
	if now.Before(t.next) {
		return false
	}
	switch t.mode {
	case TriggerModeFixed:
		t.next = t.schedule.Next(now)
	case TriggerModeInterval:
		t.next = now.Add(t.interval)
	}
	return true
}

// NextRun returns the instant the trigger will fire next.
func (t *Trigger) NextRun() time.Time {
	return t.next
}

// Mode returns the trigger's mode tag.
func (t *Trigger) Mode() TriggerMode {
	return t.mode
}
