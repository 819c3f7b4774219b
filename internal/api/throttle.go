package api

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const maxTrackedClients = 1024

// Throttle limits login attempts per client address. It sits in front of
// the session service, which itself never delays or counts attempts.
type Throttle struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

// NewThrottle allows perMinute attempts per client with the given burst.
// A zero perMinute disables throttling.
func NewThrottle(perMinute int, burst int) *Throttle {
	if perMinute <= 0 {
		return nil
	}
	return &Throttle{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   max(burst, 1),
		clients: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether client may attempt a login now. A nil Throttle
// allows everything.
func (t *Throttle) Allow(client string) bool {
	if t == nil {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	limiter, ok := t.clients[client]
	if !ok {
		if len(t.clients) >= maxTrackedClients {
			t.evictIdle(time.Now())
		}
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.clients[client] = limiter
	}
	return limiter.Allow()
}

// evictIdle forgets clients whose bucket has refilled; they'd get a fresh
// limiter with the same state anyway.
func (t *Throttle) evictIdle(now time.Time) {
	for client, limiter := range t.clients {
		if limiter.TokensAt(now) >= float64(t.burst) {
			delete(t.clients, client)
		}
	}
}
