package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/promptpal/promptpal-go/pkg/logger"
)

// Manager coordinates persisted session artifacts against a Store backend.
// All writes carry the configured TTL and replace prior values; expiry is
// validated on read against the injected Clock.
type Manager struct {
	store  Store
	clock  Clock
	config Config
	logger *slog.Logger
}

// New creates a Manager over the given store.
func New(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		clock:  SystemClock(),
		config: DefaultConfig(),
		logger: logger.Discard(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		// Fail fast on misconfiguration, same as running without cookies
		panic(ErrNoStore)
	}

	return m
}

// SetAccessToken persists the access token with the configured TTL.
func (m *Manager) SetAccessToken(ctx context.Context, token string) error {
	return m.set(ctx, KeyAccessToken, token)
}

// SetRefreshToken persists the refresh token with the configured TTL.
func (m *Manager) SetRefreshToken(ctx context.Context, token string) error {
	return m.set(ctx, KeyRefreshToken, token)
}

// SetUser persists the user record as JSON with the configured TTL.
func (m *Manager) SetUser(ctx context.Context, user *User) error {
	if user == nil {
		return m.store.Delete(ctx, KeyUser)
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return m.set(ctx, KeyUser, string(data))
}

// SetSession persists both tokens and the user record in one call. A blank
// refresh token is skipped rather than clearing the stored one, since some
// endpoints (registration) return only an access token.
func (m *Manager) SetSession(ctx context.Context, accessToken, refreshToken string, user *User) error {
	if err := m.SetAccessToken(ctx, accessToken); err != nil {
		return err
	}
	if refreshToken != "" {
		if err := m.SetRefreshToken(ctx, refreshToken); err != nil {
			return err
		}
	}
	return m.SetUser(ctx, user)
}

// AccessToken returns the stored access token, or ErrNotFound when absent or
// expired.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	return m.get(ctx, KeyAccessToken)
}

// RefreshToken returns the stored refresh token, or ErrNotFound when absent
// or expired.
func (m *Manager) RefreshToken(ctx context.Context) (string, error) {
	return m.get(ctx, KeyRefreshToken)
}

// User returns the cached user record. A malformed persisted record is
// treated as absence: the artifact is dropped and ErrNotFound is returned, so
// callers never see a half-decoded user.
func (m *Manager) User(ctx context.Context) (*User, error) {
	raw, err := m.get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.logger.Warn("dropping malformed user record",
			logger.Component("credstore"),
			logger.Error(errors.Join(ErrMalformedUser, err)),
		)
		_ = m.store.Delete(ctx, KeyUser)
		return nil, ErrNotFound
	}

	return &user, nil
}

// IsAuthenticated reports whether both an access token and a readable user
// record are present. A token without a user record does not count.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	if _, err := m.AccessToken(ctx); err != nil {
		return false
	}
	if _, err := m.User(ctx); err != nil {
		return false
	}
	return true
}

// Clear removes all three artifacts unconditionally.
func (m *Manager) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
		if err := m.store.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

func (m *Manager) set(ctx context.Context, key, value string) error {
	return m.store.Set(ctx, key, Artifact{
		Value:     value,
		ExpiresAt: m.clock.Now().Add(m.config.TTL),
	})
}

func (m *Manager) get(ctx context.Context, key string) (string, error) {
	art, err := m.store.Get(ctx, key)
	if err != nil {
		return "", err
	}

	if !art.ExpiresAt.IsZero() && !art.ExpiresAt.After(m.clock.Now()) {
		_ = m.store.Delete(ctx, key)
		return "", ErrNotFound
	}

	return art.Value, nil
}
