package handshake

import (
	"net/url"
	"time"
)

// Config holds handshake coordinator configuration.
type Config struct {
	// Origin is the exact origin handshake messages must carry; messages
	// from any other origin are dropped without settling the attempt
	Origin string `env:"HANDSHAKE_ORIGIN" envDefault:"https://promptpal.app"`

	// Freshness bounds how old a timestamped payload may be at acceptance
	Freshness time.Duration `env:"HANDSHAKE_FRESHNESS" envDefault:"30s"`

	// PollInterval is how often the coordinator checks whether the window
	// was closed without a message
	PollInterval time.Duration `env:"HANDSHAKE_POLL_INTERVAL" envDefault:"1s"`
}

// DefaultConfig returns default handshake configuration.
func DefaultConfig() Config {
	return Config{
		Origin:       "https://promptpal.app",
		Freshness:    30 * time.Second,
		PollInterval: time.Second,
	}
}

// secureOrigin reports whether an origin is a secure context: https, or
// plain http only on loopback hosts.
func secureOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}

	switch u.Scheme {
	case "https":
		return true
	case "http":
		host := u.Hostname()
		return host == "localhost" || host == "127.0.0.1" || host == "::1"
	default:
		return false
	}
}
