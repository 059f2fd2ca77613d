package ratelimit

import (
	"sync"
	"time"
)

// RateLimiter tracks and enforces request rate limits over sliding
// minute/hour windows. One instance guards one endpoint.
type RateLimiter struct {
	requestsPerMinute int
	requestsPerHour   int
	enabled           bool

	// Request tracking
	minuteWindow []time.Time
	hourWindow   []time.Time
	mu           sync.Mutex
}

// NewRateLimiter creates a new rate limiter with the given limits. A limit of
// zero means unbounded for that window.
func NewRateLimiter(requestsPerMinute, requestsPerHour int, enabled bool) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		requestsPerHour:   requestsPerHour,
		enabled:           enabled,
		minuteWindow:      make([]time.Time, 0),
		hourWindow:        make([]time.Time, 0),
	}
}

// AllowRequest checks if a request is allowed based on rate limits
// Returns true if allowed, false if rate limit exceeded
func (rl *RateLimiter) AllowRequest() bool {
	if !rl.enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	// Clean up old entries
	rl.cleanup(now)

	// Check limits
	if rl.requestsPerMinute > 0 && len(rl.minuteWindow) >= rl.requestsPerMinute {
		return false
	}
	if rl.requestsPerHour > 0 && len(rl.hourWindow) >= rl.requestsPerHour {
		return false
	}

	// Record the request
	rl.minuteWindow = append(rl.minuteWindow, now)
	rl.hourWindow = append(rl.hourWindow, now)

	return true
}

// cleanup removes expired entries from the time windows
func (rl *RateLimiter) cleanup(now time.Time) {
	// Clean minute window (keep last 60 seconds)
	minuteAgo := now.Add(-1 * time.Minute)
	rl.minuteWindow = filterTimes(rl.minuteWindow, minuteAgo)

	// Clean hour window (keep last 60 minutes)
	hourAgo := now.Add(-1 * time.Hour)
	rl.hourWindow = filterTimes(rl.hourWindow, hourAgo)
}

// filterTimes keeps only times after the cutoff
func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := make([]time.Time, 0, len(times))
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}

// Stats is a point-in-time view of a limiter's windows.
type Stats struct {
	Enabled           bool `json:"enabled"`
	RequestsLastMin   int  `json:"requests_last_minute"`
	RequestsLastHour  int  `json:"requests_last_hour"`
	RequestsPerMinute int  `json:"requests_per_minute"`
	RequestsPerHour   int  `json:"requests_per_hour"`
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() Stats {
	if !rl.enabled {
		return Stats{Enabled: false}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanup(time.Now())

	return Stats{
		Enabled:           true,
		RequestsLastMin:   len(rl.minuteWindow),
		RequestsLastHour:  len(rl.hourWindow),
		RequestsPerMinute: rl.requestsPerMinute,
		RequestsPerHour:   rl.requestsPerHour,
	}
}
