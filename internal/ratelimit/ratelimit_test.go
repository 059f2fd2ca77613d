package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowRequestMinuteLimit(t *testing.T) {
	rl := NewRateLimiter(3, 0, true)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.AllowRequest(), "request %d within the limit", i+1)
	}
	assert.False(t, rl.AllowRequest(), "fourth request in the same minute is rejected")
}

func TestAllowRequestHourLimit(t *testing.T) {
	rl := NewRateLimiter(0, 2, true)

	assert.True(t, rl.AllowRequest())
	assert.True(t, rl.AllowRequest())
	assert.False(t, rl.AllowRequest())
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	rl := NewRateLimiter(1, 1, false)

	for i := 0; i < 10; i++ {
		assert.True(t, rl.AllowRequest())
	}
	assert.False(t, rl.GetStats().Enabled)
}

func TestZeroLimitsMeanUnbounded(t *testing.T) {
	rl := NewRateLimiter(0, 0, true)

	for i := 0; i < 100; i++ {
		assert.True(t, rl.AllowRequest())
	}
}

func TestWindowCleanupExpiresOldEntries(t *testing.T) {
	rl := NewRateLimiter(2, 0, true)

	// Seed entries older than the minute window directly, then verify they
	// no longer count against the limit.
	stale := time.Now().Add(-2 * time.Minute)
	rl.mu.Lock()
	rl.minuteWindow = append(rl.minuteWindow, stale, stale)
	rl.mu.Unlock()

	assert.True(t, rl.AllowRequest())
	assert.True(t, rl.AllowRequest())
	assert.False(t, rl.AllowRequest())
}

func TestGetStats(t *testing.T) {
	rl := NewRateLimiter(5, 50, true)
	rl.AllowRequest()
	rl.AllowRequest()

	stats := rl.GetStats()
	assert.True(t, stats.Enabled)
	assert.Equal(t, 2, stats.RequestsLastMin)
	assert.Equal(t, 2, stats.RequestsLastHour)
	assert.Equal(t, 5, stats.RequestsPerMinute)
	assert.Equal(t, 50, stats.RequestsPerHour)
}
