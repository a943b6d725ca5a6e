package server

import (
	"fmt"
	"sync"
	"time"
)

// maxTrackedClients bounds the usage table; idle clients are pruned once it
// grows past this size.
const maxTrackedClients = 10000

// RateLimiter enforces per-client request rates and daily quotas. A zero
// limit disables that check.
type RateLimiter struct {
	mu sync.Mutex

	requestsPerMinute int
	requestsPerHour   int
	maxRequestsPerDay int
	maxDataPerDay     int64 // bytes

	clients map[string]*clientUsage
	now     func() time.Time
}

// clientUsage counts requests in fixed windows anchored at the first
// request of each window.
type clientUsage struct {
	minuteStart time.Time
	hourStart   time.Time
	day         time.Time // local midnight of the current quota day

	minute    int
	hour      int
	today     int
	dataToday int64
	lastSeen  time.Time
}

// Usage is a snapshot of one client's counters.
type Usage struct {
	RequestsLastMinute int
	RequestsLastHour   int
	RequestsToday      int
	DataToday          int64
}

// NewRateLimiter creates a rate limiter with the given limits.
func NewRateLimiter(requestsPerMinute, requestsPerHour, maxRequestsPerDay int, maxDataPerDay int64) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		requestsPerHour:   requestsPerHour,
		maxRequestsPerDay: maxRequestsPerDay,
		maxDataPerDay:     maxDataPerDay,
		clients:           make(map[string]*clientUsage),
		now:               time.Now,
	}
}

// CheckRateLimit records a request of dataSize bytes from clientID, or
// returns a *RateLimitError or *QuotaExceededError without recording it.
func (rl *RateLimiter) CheckRateLimit(clientID string, dataSize int64) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	usage := rl.usageFor(clientID, now)
	usage.roll(now)

	if rl.requestsPerMinute > 0 && usage.minute >= rl.requestsPerMinute {
		return &RateLimitError{
			Type:       "minute",
			Limit:      rl.requestsPerMinute,
			RetryAfter: usage.minuteStart.Add(time.Minute).Sub(now),
		}
	}
	if rl.requestsPerHour > 0 && usage.hour >= rl.requestsPerHour {
		return &RateLimitError{
			Type:       "hour",
			Limit:      rl.requestsPerHour,
			RetryAfter: usage.hourStart.Add(time.Hour).Sub(now),
		}
	}

	resets := usage.day.AddDate(0, 0, 1)
	if rl.maxRequestsPerDay > 0 && usage.today >= rl.maxRequestsPerDay {
		return &QuotaExceededError{
			Type:   "requests",
			Limit:  int64(rl.maxRequestsPerDay),
			Used:   int64(usage.today),
			Resets: resets,
		}
	}
	if rl.maxDataPerDay > 0 && usage.dataToday+dataSize > rl.maxDataPerDay {
		return &QuotaExceededError{
			Type:   "data",
			Limit:  rl.maxDataPerDay,
			Used:   usage.dataToday,
			Resets: resets,
		}
	}

	usage.minute++
	usage.hour++
	usage.today++
	usage.dataToday += dataSize
	usage.lastSeen = now
	return nil
}

// GetUsage returns a snapshot of clientID's counters.
func (rl *RateLimiter) GetUsage(clientID string) Usage {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	u, ok := rl.clients[clientID]
	if !ok {
		return Usage{}
	}
	return Usage{
		RequestsLastMinute: u.minute,
		RequestsLastHour:   u.hour,
		RequestsToday:      u.today,
		DataToday:          u.dataToday,
	}
}

func (rl *RateLimiter) usageFor(clientID string, now time.Time) *clientUsage {
	if u, ok := rl.clients[clientID]; ok {
		return u
	}
	if len(rl.clients) >= maxTrackedClients {
		rl.pruneIdle(now)
	}
	u := &clientUsage{minuteStart: now, hourStart: now, day: startOfDay(now), lastSeen: now}
	rl.clients[clientID] = u
	return u
}

// pruneIdle drops clients with no request in the last hour that have not
// used up a daily quota.
func (rl *RateLimiter) pruneIdle(now time.Time) {
	for id, u := range rl.clients {
		if now.Sub(u.lastSeen) < time.Hour {
			continue
		}
		exhausted := (rl.maxRequestsPerDay > 0 && u.today >= rl.maxRequestsPerDay) ||
			(rl.maxDataPerDay > 0 && u.dataToday >= rl.maxDataPerDay)
		if !exhausted || !startOfDay(now).Equal(u.day) {
			delete(rl.clients, id)
		}
	}
}

func (u *clientUsage) roll(now time.Time) {
	if now.Sub(u.minuteStart) >= time.Minute {
		u.minute, u.minuteStart = 0, now
	}
	if now.Sub(u.hourStart) >= time.Hour {
		u.hour, u.hourStart = 0, now
	}
	if day := startOfDay(now); !day.Equal(u.day) {
		u.today, u.dataToday, u.day = 0, 0, day
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// RateLimitError represents a rate limit violation.
type RateLimitError struct {
	Type       string        // "minute" or "hour"
	Limit      int           // the limit that was exceeded
	RetryAfter time.Duration // how long to wait before retrying
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s (limit: %d, retry after: %v)", e.Type, e.Limit, e.RetryAfter)
}

// QuotaExceededError represents a daily quota violation.
type QuotaExceededError struct {
	Type   string    // "requests" or "data"
	Limit  int64     // the limit that was exceeded
	Used   int64     // current usage
	Resets time.Time // when the quota resets
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded for %s (used: %d, limit: %d, resets: %s)",
		e.Type, e.Used, e.Limit, e.Resets.Format(time.RFC3339))
}
