package gateway

import "time"

// Config holds gateway client configuration.
type Config struct {
	// BaseURL is the API root every endpoint path is resolved against
	BaseURL string `env:"PROMPTPAL_API_URL" envDefault:"https://promptpal.app/api"`

	// Timeout bounds each HTTP round-trip
	Timeout time.Duration `env:"PROMPTPAL_API_TIMEOUT" envDefault:"15s"`

	// RefreshSkew rotates tokens before authenticated calls when the access
	// token expires within this window (0 disables proactive refresh)
	RefreshSkew time.Duration `env:"PROMPTPAL_REFRESH_SKEW" envDefault:"30s"`

	// ResendCooldown is the advisory client-side wait between OTP resends
	// for the same identifier (0 disables the cooldown)
	ResendCooldown time.Duration `env:"PROMPTPAL_RESEND_COOLDOWN" envDefault:"60s"`
}

// DefaultConfig returns default gateway configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://promptpal.app/api",
		Timeout:        15 * time.Second,
		RefreshSkew:    30 * time.Second,
		ResendCooldown: 60 * time.Second,
	}
}
