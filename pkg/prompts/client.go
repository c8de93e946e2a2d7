package prompts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/promptpal/promptpal-go/pkg/credstore"
	"github.com/promptpal/promptpal-go/pkg/gateway"
	"github.com/promptpal/promptpal-go/pkg/logger"
)

// Config holds prompt library client configuration.
type Config struct {
	// BaseURL is the API root every endpoint path is resolved against
	BaseURL string `env:"PROMPTPAL_API_URL" envDefault:"https://promptpal.app/api"`

	// Timeout bounds each HTTP round-trip
	Timeout time.Duration `env:"PROMPTPAL_API_TIMEOUT" envDefault:"15s"`
}

// DefaultConfig returns default prompt library configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://promptpal.app/api",
		Timeout: 15 * time.Second,
	}
}

// Client browses and manages the prompt library.
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

// New creates a prompt library client. Requests carry the session from the
// given credential store via the gateway bearer transport.
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

// List fetches one page of the library, filtered per params.
func (c *Client) List(ctx context.Context, params ListParams) (*PromptPage, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		query.Set("perPage", strconv.Itoa(params.PerPage))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if len(params.Tags) > 0 {
		query.Set("tags", strings.Join(params.Tags, ","))
	}
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}

	path := "/prompts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page PromptPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a single prompt by ID.
func (c *Client) Get(ctx context.Context, id string) (*Prompt, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	var prompt Prompt
	err := c.do(ctx, http.MethodGet, "/prompts/"+url.PathEscape(id), nil, &prompt)
	if err != nil {
		if gateway.StatusCode(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &prompt, nil
}

// Create publishes a new prompt owned by the authenticated user.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Prompt, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrInvalidPrompt)
	}

	var prompt Prompt
	if err := c.do(ctx, http.MethodPost, "/prompts", req, &prompt); err != nil {
		return nil, err
	}

	c.logger.Info("prompt created",
		logger.Component("prompts"),
		slog.String("prompt_id", prompt.ID),
	)
	return &prompt, nil
}

// Delete removes a prompt the authenticated user owns. Deleting someone
// else's prompt returns ErrNotOwner; a missing prompt returns ErrNotFound.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	err := c.do(ctx, http.MethodDelete, "/prompts/"+url.PathEscape(id), nil, nil)
	switch gateway.StatusCode(err) {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrNotOwner, id)
	}
	return err
}

// do dispatches one API call, decoding a success body into out when out is
// non-nil. Failures follow the gateway error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &gateway.APIError{Message: "an unexpected error occurred", Kind: gateway.KindClient}
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return &gateway.APIError{Message: "an unexpected error occurred", Kind: gateway.KindClient}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &gateway.APIError{Message: "network error, please check your connection", Kind: gateway.KindNetwork}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		if failure.Message == "" {
			failure.Message = "request failed"
		}
		return &gateway.APIError{StatusCode: resp.StatusCode, Message: failure.Message, Kind: gateway.KindServer}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &gateway.APIError{StatusCode: resp.StatusCode, Message: "invalid response from server", Kind: gateway.KindServer}
	}
	return nil
}
