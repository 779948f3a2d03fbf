package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kvuthe/ITO/internal/config"
)

func newTestRotator(t *testing.T) *HighlightRotator {
	t.Helper()
	rotator, err := NewHighlightRotator(nil, nil, config.HighlightConfig{
		Hour:     12,
		Minute:   59,
		Timezone: "America/New_York",
	})
	require.NoError(t, err)
	return rotator
}

func TestNextRunLaterToday(t *testing.T) {
	rotator := newTestRotator(t)

	now := time.Date(2025, 6, 10, 8, 0, 0, 0, rotator.location)
	next := rotator.nextRun(now)

	assert.Equal(t, time.Date(2025, 6, 10, 12, 59, 0, 0, rotator.location), next)
}

func TestNextRunRollsToTomorrow(t *testing.T) {
	rotator := newTestRotator(t)

	now := time.Date(2025, 6, 10, 13, 30, 0, 0, rotator.location)
	next := rotator.nextRun(now)

	assert.Equal(t, time.Date(2025, 6, 11, 12, 59, 0, 0, rotator.location), next)
}

func TestNextRunAtExactScheduleTime(t *testing.T) {
	rotator := newTestRotator(t)

	// Exactly on the schedule instant the next run is tomorrow, never now.
	now := time.Date(2025, 6, 10, 12, 59, 0, 0, rotator.location)
	next := rotator.nextRun(now)

	assert.Equal(t, time.Date(2025, 6, 11, 12, 59, 0, 0, rotator.location), next)
	assert.True(t, next.After(now))
}

func TestNewHighlightRotatorRejectsBadTimezone(t *testing.T) {
	_, err := NewHighlightRotator(nil, nil, config.HighlightConfig{
		Hour:     12,
		Minute:   59,
		Timezone: "Not/AZone",
	})
	assert.Error(t, err)
}
