package handshake

import (
	"log/slog"
	"time"

	"github.com/promptpal/promptpal-go/pkg/credstore"
)

// CoordinatorOption is a functional option for configuring the Coordinator.
type CoordinatorOption func(*Coordinator)

// WithConfig sets custom configuration.
func WithConfig(cfg Config) CoordinatorOption {
	return func(c *Coordinator) {
		c.config = cfg
	}
}

// WithOrigin sets the exact origin accepted on handshake messages.
func WithOrigin(origin string) CoordinatorOption {
	return func(c *Coordinator) {
		c.config.Origin = origin
	}
}

// WithFreshness sets the replay window for timestamped payloads.
func WithFreshness(window time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.config.Freshness = window
	}
}

// WithPollInterval sets how often window closure is checked.
func WithPollInterval(interval time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.config.PollInterval = interval
	}
}

// WithFallback sets the fallback store shared with the callback relay.
func WithFallback(store FallbackStore) CoordinatorOption {
	return func(c *Coordinator) {
		if store != nil {
			c.fallback = store
		}
	}
}

// WithClock sets a custom clock for freshness checks.
func WithClock(clock credstore.Clock) CoordinatorOption {
	return func(c *Coordinator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the coordinator logger.
func WithLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}
