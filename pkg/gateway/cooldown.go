package gateway

import (
	"sync"
	"time"

	"github.com/promptpal/promptpal-go/pkg/credstore"
)

// Cooldown enforces the advisory wait between OTP resends for the same
// identifier. It is client-side rate limiting only: the server remains the
// authority on how often codes actually go out.
type Cooldown struct {
	mu       sync.Mutex
	interval time.Duration
	clock    credstore.Clock
	last     map[string]time.Time
}

// NewCooldown creates a cooldown tracker. A zero or negative interval allows
// every request.
func NewCooldown(interval time.Duration, clock credstore.Clock) *Cooldown {
	if clock == nil {
		clock = credstore.SystemClock()
	}
	return &Cooldown{
		interval: interval,
		clock:    clock,
		last:     make(map[string]time.Time),
	}
}

// Allow reports whether a resend for the identifier may go out now. When it
// may not, the remaining wait is returned. An allowed call starts the next
// cooldown window immediately.
func (c *Cooldown) Allow(identifier string) (bool, time.Duration) {
	if c.interval <= 0 {
		return true, 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if last, ok := c.last[identifier]; ok {
		if wait := c.interval - now.Sub(last); wait > 0 {
			return false, wait
		}
	}

	c.last[identifier] = now
	return true, 0
}

// Remaining returns the wait left for an identifier without consuming a slot.
func (c *Cooldown) Remaining(identifier string) time.Duration {
	if c.interval <= 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	last, ok := c.last[identifier]
	if !ok {
		return 0
	}
	if wait := c.interval - c.clock.Now().Sub(last); wait > 0 {
		return wait
	}
	return 0
}
