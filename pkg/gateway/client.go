package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/promptpal/promptpal-go/pkg/credstore"
	"github.com/promptpal/promptpal-go/pkg/logger"
	"github.com/promptpal/promptpal-go/pkg/sanitizer"
)

var otpPattern = regexp.MustCompile(`^\d{6}$`)

// Client talks to the PromptPal auth API and keeps the credential store in
// sync with every authentication outcome.
type Client struct {
	config   Config
	http     *http.Client
	creds    *credstore.Manager
	clock    credstore.Clock
	logger   *slog.Logger
	cooldown *Cooldown
}

// New creates a gateway client over the given credential store.
func New(creds *credstore.Manager, opts ...Option) *Client {
	c := &Client{
		config: DefaultConfig(),
		creds:  creds,
		clock:  credstore.SystemClock(),
		logger: logger.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.creds == nil {
		panic("gateway: credential store is required")
	}

	if c.http == nil {
		c.http = &http.Client{
			Timeout:   c.config.Timeout,
			Transport: NewBearerTransport(c.creds, nil),
		}
	}

	if c.cooldown == nil {
		c.cooldown = NewCooldown(c.config.ResendCooldown, c.clock)
	}

	c.config.BaseURL = strings.TrimRight(c.config.BaseURL, "/")

	return c
}

// Register creates an account and persists the returned session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if req.Username != "" {
		req.Username = sanitizer.NormalizeUsername(req.Username)
	}

	env, status, err := c.post(ctx, "/auth/register", req)
	if err != nil {
		return nil, err
	}

	return c.persistSession(ctx, env, status)
}

// SignIn authenticates with a password against exactly one identifier and
// persists the returned session.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (*AuthResult, error) {
	if creds.Email == "" && creds.Username == "" {
		return nil, ErrNoIdentifier
	}
	if creds.Email != "" && creds.Username != "" {
		return nil, ErrAmbiguousIdentifier
	}

	if creds.Email != "" {
		creds.Email = sanitizer.NormalizeEmail(creds.Email)
	} else {
		creds.Username = sanitizer.NormalizeUsername(creds.Username)
	}

	env, status, err := c.post(ctx, "/auth/login", creds)
	if err != nil {
		return nil, err
	}

	return c.persistSession(ctx, env, status)
}

// VerifyOTP confirms the 6-digit emailed code and persists the returned
// session as if the user had logged in.
func (c *Client) VerifyOTP(ctx context.Context, identifier, otp string) (*AuthResult, error) {
	otp = sanitizer.TrimOTP(otp)
	if !otpPattern.MatchString(otp) {
		return nil, ErrInvalidOTP
	}

	body := map[string]string{
		"email": sanitizer.NormalizeEmail(identifier),
		"otp":   otp,
	}

	env, status, err := c.post(ctx, "/auth/verify-email", body)
	if err != nil {
		return nil, err
	}

	return c.persistSession(ctx, env, status)
}

// RequestOTP asks the server to send a fresh code. It is purely advisory:
// the stored session is never touched, and a client-side cooldown prevents
// hammering the endpoint for the same identifier.
func (c *Client) RequestOTP(ctx context.Context, identifier string) (*Response, error) {
	identifier = sanitizer.NormalizeEmail(identifier)

	if ok, wait := c.cooldown.Allow(identifier); !ok {
		return nil, fmt.Errorf("%w: retry in %s", ErrCooldown, wait.Round(time.Second))
	}

	env, status, err := c.post(ctx, "/auth/resend-otp", map[string]string{"email": identifier})
	if err != nil {
		return nil, err
	}

	return &Response{Success: true, Message: env.Message, StatusCode: status}, nil
}

// ForgotPassword requests a reset link for an email or phone identifier.
// No session state is touched.
func (c *Client) ForgotPassword(ctx context.Context, identifier string) (*Response, error) {
	body := map[string]string{}
	if strings.Contains(identifier, "@") {
		body["email"] = sanitizer.NormalizeEmail(identifier)
	} else {
		body["phone"] = strings.TrimSpace(identifier)
	}

	env, status, err := c.post(ctx, "/auth/forgot-password", body)
	if err != nil {
		return nil, err
	}

	return &Response{Success: true, Message: env.Message, StatusCode: status}, nil
}

// ResetPassword consumes a reset token. It does not log the user in; the
// caller is expected to go through SignIn afterwards.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) (*Response, error) {
	body := map[string]string{
		"resetToken":  resetToken,
		"newPassword": newPassword,
	}

	env, status, err := c.post(ctx, "/auth/reset-password", body)
	if err != nil {
		return nil, err
	}

	return &Response{Success: true, Message: env.Message, StatusCode: status}, nil
}

// Refresh rotates the token pair using the stored refresh token and persists
// the replacement session.
func (c *Client) Refresh(ctx context.Context) (*AuthResult, error) {
	refresh, err := c.creds.RefreshToken(ctx)
	if err != nil || refresh == "" {
		return nil, ErrNoRefreshToken
	}

	env, status, err := c.post(ctx, "/auth/refresh-token", map[string]string{"refreshToken": refresh})
	if err != nil {
		return nil, err
	}

	return c.persistSession(ctx, env, status)
}

// Profile fetches the current user record and overwrites the cached copy.
// A 401 means the session is gone server-side: local credentials are cleared
// and ErrAuthExpired is returned so callers treat it as a forced logout, not
// a retryable failure.
func (c *Client) Profile(ctx context.Context) (*credstore.User, error) {
	c.refreshIfExpiring(ctx)

	env, _, err := c.do(ctx, http.MethodGet, "/auth/profile", nil)
	if err != nil {
		if StatusCode(err) == http.StatusUnauthorized {
			if clearErr := c.creds.Clear(ctx); clearErr != nil {
				c.logger.Error("failed to clear credentials after 401",
					logger.Component("gateway"),
					logger.Error(clearErr),
				)
			}
			return nil, errors.Join(ErrAuthExpired, err)
		}
		return nil, err
	}

	if env.User == nil {
		return nil, serverError(0, "profile response missing user")
	}

	if err := c.creds.SetUser(ctx, env.User); err != nil {
		return nil, err
	}
	return env.User, nil
}

// Logout tells the server to invalidate the session, then clears local
// credentials no matter what the network did. The client must never be left
// in an ambiguous authenticated state, so the reported outcome is always
// success.
func (c *Client) Logout(ctx context.Context) *Response {
	if _, _, err := c.post(ctx, "/auth/logout", nil); err != nil {
		c.logger.Warn("remote logout failed, clearing local session anyway",
			logger.Component("gateway"),
			logger.Error(err),
			logger.StatusCode(StatusCode(err)),
		)
	}

	if err := c.creds.Clear(ctx); err != nil {
		c.logger.Error("failed to clear local credentials",
			logger.Component("gateway"),
			logger.Error(err),
		)
	}

	return &Response{Success: true, Message: "logged out", StatusCode: http.StatusOK}
}

// Credentials exposes the underlying credential store for façade reads.
func (c *Client) Credentials() *credstore.Manager {
	return c.creds
}

// refreshIfExpiring rotates tokens before an authenticated call when the
// access token is inside the refresh skew. Failures are logged and ignored;
// the upcoming request will surface the real authentication state.
func (c *Client) refreshIfExpiring(ctx context.Context) {
	token, err := c.creds.AccessToken(ctx)
	if err != nil {
		return
	}
	if !tokenExpiresWithin(token, c.config.RefreshSkew, c.clock.Now()) {
		return
	}

	if _, err := c.Refresh(ctx); err != nil {
		c.logger.Debug("proactive token refresh failed",
			logger.Component("gateway"),
			logger.Error(err),
		)
	}
}

// persistSession stores the session payload from an authentication response
// and builds the normalized result.
func (c *Client) persistSession(ctx context.Context, env *apiEnvelope, status int) (*AuthResult, error) {
	access := env.accessToken()
	if access != "" && env.User != nil {
		if err := c.creds.SetSession(ctx, access, env.RefreshToken, env.User); err != nil {
			return nil, err
		}
	}

	return &AuthResult{
		Response:     Response{Success: true, Message: env.Message, StatusCode: status},
		AccessToken:  access,
		RefreshToken: env.RefreshToken,
		User:         env.User,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*apiEnvelope, int, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// do dispatches one API call and normalizes the outcome per the error
// taxonomy: server rejection, network failure, or pre-dispatch failure.
func (c *Client) do(ctx context.Context, method, path string, body any) (*apiEnvelope, int, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, clientError()
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, 0, clientError()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, networkError()
	}
	defer func() { _ = resp.Body.Close() }()

	var env apiEnvelope
	// Error responses may carry no body or a non-JSON body; decode failures
	// must not mask the HTTP status.
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, resp.StatusCode, serverError(resp.StatusCode, env.Message)
	}

	if decodeErr != nil {
		return nil, resp.StatusCode, serverError(resp.StatusCode, "invalid response from server")
	}

	return &env, resp.StatusCode, nil
}
