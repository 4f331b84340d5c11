package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerFixed_FiresOncePerDay(t *testing.T) {
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	trigger, err := NewTrigger(TriggerModeFixed, "00:01", 0, start)
	require.NoError(t, err)

	// Walk a minute-granularity clock across two full days, the way the
	// scheduler loop checks the trigger.
	fires := 0
	var fireTimes []time.Time
	for now := start; now.Before(start.Add(48 * time.Hour)); now = now.Add(time.Minute) {
		if trigger.ShouldFire(now) {
			fires++
			fireTimes = append(fireTimes, now)
		}
	}

	require.Equal(t, 2, fires)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 1, 0, 0, time.UTC), fireTimes[0])
	assert.Equal(t, time.Date(2025, 8, 2, 0, 1, 0, 0, time.UTC), fireTimes[1])
}

func TestTriggerFixed_LateCheckStillFiresOnce(t *testing.T) {
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	trigger, err := NewTrigger(TriggerModeFixed, "06:00", 0, start)
	require.NoError(t, err)

	// The process was stalled past the scheduled time; the first check after
	// catches up with exactly one fire.
	late := start.Add(10 * time.Hour)
	assert.True(t, trigger.ShouldFire(late))
	assert.False(t, trigger.ShouldFire(late.Add(time.Minute)))

	// Next fire is the same wall-clock time the following day.
	assert.Equal(t, time.Date(2025, 8, 2, 6, 0, 0, 0, time.UTC), trigger.NextRun())
}

func TestTriggerInterval_FiresImmediatelyThenPeriodically(t *testing.T) {
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	trigger, err := NewTrigger(TriggerModeInterval, "", 4*time.Hour, start)
	require.NoError(t, err)

	assert.True(t, trigger.ShouldFire(start))
	assert.False(t, trigger.ShouldFire(start.Add(time.Hour)))
	assert.False(t, trigger.ShouldFire(start.Add(3*time.Hour)))
	assert.True(t, trigger.ShouldFire(start.Add(4*time.Hour)))
}

func TestNewTrigger_RejectsBadConfig(t *testing.T) {
	now := time.Now()

	_, err := NewTrigger(TriggerModeFixed, "25:99", 0, now)
	assert.Error(t, err)

	_, err = NewTrigger(TriggerModeInterval, "", 0, now)
	assert.Error(t, err)

	_, err = NewTrigger(TriggerMode("cron"), "", time.Hour, now)
	assert.Error(t, err)
}
