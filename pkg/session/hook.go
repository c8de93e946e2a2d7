package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/promptpal/promptpal-go/pkg/credstore"
	"github.com/promptpal/promptpal-go/pkg/gateway"
	"github.com/promptpal/promptpal-go/pkg/logger"
)

// LoginInput carries sign-in fields from a login form. Whichever identifier
// is non-empty selects the payload shape; when both are filled, email wins.
type LoginInput struct {
	Email    string
	Username string
	Password string
}

// Hook orchestrates authentication flows for a UI layer.
type Hook struct {
	gateway *gateway.Client
	nav     Navigator
	logger  *slog.Logger
	loading atomic.Bool
}

// Option is a functional option for configuring the Hook.
type Option func(*Hook)

// WithLogger sets the façade logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hook) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a session façade over a gateway client and a navigator.
func New(gw *gateway.Client, nav Navigator, opts ...Option) *Hook {
	if nav == nil {
		nav = NopNavigator{}
	}

	h := &Hook{
		gateway: gw,
		nav:     nav,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Loading reports whether an authentication call is in flight.
func (h *Hook) Loading() bool {
	return h.loading.Load()
}

// Login signs in with whichever identifier is filled. A 403 whose message
// says the account is not verified is a soft success: the user is routed to
// OTP verification with the FromLogin flag set, and no error is returned.
// Hard failures return the server's error and leave navigation alone.
func (h *Hook) Login(ctx context.Context, input LoginInput) error {
	h.loading.Store(true)
	defer h.loading.Store(false)

	creds := gateway.Credentials{Password: input.Password}
	if input.Email != "" {
		creds.Email = input.Email
	} else {
		creds.Username = input.Username
	}

	result, err := h.gateway.SignIn(ctx, creds)
	if err != nil {
		if isNotVerified(err) {
			// A username-only login still needs an identifier on the
			// verification view so the resend call has something to post.
			identifier := input.Email
			if identifier == "" {
				identifier = input.Username
			}
			h.nav.Navigate(Route{View: ViewVerifyOTP, Email: identifier, FromLogin: true})
			return nil
		}
		return err
	}

	h.logger.Info("user signed in",
		logger.Component("session"),
		logger.UserID(userID(result.User)),
	)
	h.nav.Navigate(Route{View: ViewDashboard})
	return nil
}

// Register creates an account and always routes to OTP verification on
// success, ignoring the caller's requested destination: a fresh account
// cannot do anything useful before its email is verified.
func (h *Hook) Register(ctx context.Context, input gateway.RegisterRequest, redirect string) error {
	h.loading.Store(true)
	defer h.loading.Store(false)

	result, err := h.gateway.Register(ctx, input)
	if err != nil {
		return err
	}

	h.logger.Info("user registered",
		logger.Component("session"),
		logger.UserID(userID(result.User)),
	)

	h.nav.Navigate(Route{View: ViewVerifyOTP, Email: input.Email, FromLogin: false})
	return nil
}

// Logout ends the session. The local session is always cleared and the user
// always lands on the login view, remote outcome notwithstanding.
func (h *Hook) Logout(ctx context.Context) {
	h.loading.Store(true)
	defer h.loading.Store(false)

	h.gateway.Logout(ctx)
	h.nav.Navigate(Route{View: ViewLogin})
}

// IsAuthenticated is a synchronous credential store read; no network call.
func (h *Hook) IsAuthenticated(ctx context.Context) bool {
	return h.gateway.Credentials().IsAuthenticated(ctx)
}

// CurrentUser is a synchronous credential store read; nil when there is no
// readable user record.
func (h *Hook) CurrentUser(ctx context.Context) *credstore.User {
	user, err := h.gateway.Credentials().User(ctx)
	if err != nil {
		return nil
	}
	return user
}

// isNotVerified matches the server's 403 sent for accounts that exist but
// have not completed email verification.
func isNotVerified(err error) bool {
	return gateway.StatusCode(err) == http.StatusForbidden &&
		strings.Contains(strings.ToLower(gateway.ErrorMessage(err)), "not verified")
}

func userID(user *credstore.User) string {
	if user == nil {
		return ""
	}
	return user.ID
}
