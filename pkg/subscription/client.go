package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/promptpal/promptpal-go/pkg/credstore"
	"github.com/promptpal/promptpal-go/pkg/gateway"
	"github.com/promptpal/promptpal-go/pkg/logger"
)

// ErrUnauthenticated indicates the status endpoint rejected the session;
// subscription data only exists for signed-in users
var ErrUnauthenticated = errors.New("subscription.unauthenticated")

// Config holds subscription client configuration.
type Config struct {
	// BaseURL is the API root every endpoint path is resolved against
	BaseURL string `env:"PROMPTPAL_API_URL" envDefault:"https://promptpal.app/api"`

	// Timeout bounds each HTTP round-trip
	Timeout time.Duration `env:"PROMPTPAL_API_TIMEOUT" envDefault:"15s"`
}

// DefaultConfig returns default subscription client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://promptpal.app/api",
		Timeout: 15 * time.Second,
	}
}

// Client fetches plan and usage for the authenticated user.
type Client struct {
	config Config
	http   *http.Client
	logger *slog.Logger
}

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

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a subscription client over the given credential store.
func New(creds *credstore.Manager, opts ...Option) *Client {
	c := &Client{
		config: DefaultConfig(),
		logger: logger.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{
			Timeout:   c.config.Timeout,
			Transport: gateway.NewBearerTransport(creds, nil),
		}
	}
	c.config.BaseURL = strings.TrimRight(c.config.BaseURL, "/")

	return c
}

// Status fetches the current plan and period usage in one call.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/subscription/status", nil)
	if err != nil {
		return nil, &gateway.APIError{Message: "an unexpected error occurred", Kind: gateway.KindClient}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &gateway.APIError{Message: "network error, please check your connection", Kind: gateway.KindNetwork}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthenticated
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		if failure.Message == "" {
			failure.Message = "request failed"
		}
		return nil, &gateway.APIError{StatusCode: resp.StatusCode, Message: failure.Message, Kind: gateway.KindServer}
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, &gateway.APIError{StatusCode: resp.StatusCode, Message: "invalid response from server", Kind: gateway.KindServer}
	}

	if status.Plan.Name == "" {
		status.Plan.Name = PlanFree
	}

	return &status, nil
}
