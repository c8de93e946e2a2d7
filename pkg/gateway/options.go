package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/promptpal/promptpal-go/pkg/credstore"
)

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithConfig sets custom configuration.
func WithConfig(cfg Config) Option {
	return func(c *Client) {
		c.config = cfg
	}
}

// WithBaseURL overrides the API root.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.config.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. The caller is responsible for
// wiring bearer injection into its transport when needed.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithClock sets a custom clock for refresh-skew and cooldown checks.
func WithClock(clock credstore.Clock) Option {
	return func(c *Client) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithResendCooldown overrides the advisory OTP resend interval.
func WithResendCooldown(interval time.Duration) Option {
	return func(c *Client) {
		c.config.ResendCooldown = interval
	}
}

// WithRefreshSkew overrides the proactive token refresh window.
func WithRefreshSkew(skew time.Duration) Option {
	return func(c *Client) {
		c.config.RefreshSkew = skew
	}
}
