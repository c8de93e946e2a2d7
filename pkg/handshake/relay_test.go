package handshake_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptpal/promptpal-go/pkg/handshake"
)

func newRelayFixture(t *testing.T) (*fixture, *handshake.Relay) {
	t.Helper()

	f := newFixture(t)
	relay := handshake.NewRelay(f.coordinator, f.creds, "/login", "/dashboard", nil)
	return f, relay
}

func callbackURL(params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return "/auth/google/callback?" + q.Encode()
}

func TestRelay_ErrorWithoutOpenerRedirectsToLogin(t *testing.T) {
	t.Parallel()

	_, relay := newRelayFixture(t)

	req := httptest.NewRequest(http.MethodGet, callbackURL(map[string]string{"error": "access denied"}), nil)
	rec := httptest.NewRecorder()
	relay.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?error=access+denied", rec.Header().Get("Location"))
}

func TestRelay_SuccessWithoutOpenerPersistsAndRedirects(t *testing.T) {
	t.Parallel()

	f, relay := newRelayFixture(t)

	userJSON, err := json.Marshal(validUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, callbackURL(map[string]string{
		"accessToken": "cb-token",
		"user":        string(userJSON),
	}), nil)
	rec := httptest.NewRecorder()
	relay.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	ctx := context.Background()
	assert.True(t, f.creds.IsAuthenticated(ctx))
	token, err := f.creds.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cb-token", token)
}

func TestRelay_SuccessWithOpenerDeliversToAttempt(t *testing.T) {
	t.Parallel()

	f, relay := newRelayFixture(t)
	outcome := f.authenticate(context.Background())

	userJSON, err := json.Marshal(validUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, callbackURL(map[string]string{
		"accessToken": "popup-token",
		"user":        string(userJSON),
	}), nil)
	rec := httptest.NewRecorder()
	relay.Router().ServeHTTP(rec, req)

	// The opener branch renders a close-window page, not a redirect.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "close this window")

	out := <-outcome
	require.NoError(t, out.err)
	assert.Equal(t, "popup-token", out.result.Token)
}

func TestRelay_ErrorWithOpenerRejectsAttempt(t *testing.T) {
	t.Parallel()

	f, relay := newRelayFixture(t)
	outcome := f.authenticate(context.Background())

	req := httptest.NewRequest(http.MethodGet, callbackURL(map[string]string{"error": "consent denied"}), nil)
	rec := httptest.NewRecorder()
	relay.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	out := <-outcome
	require.ErrorIs(t, out.err, handshake.ErrProviderError)
	assert.Contains(t, out.err.Error(), "consent denied")
}

func TestRelay_MalformedUserIsAnError(t *testing.T) {
	t.Parallel()

	f, relay := newRelayFixture(t)

	req := httptest.NewRequest(http.MethodGet, callbackURL(map[string]string{
		"accessToken": "token",
		"user":        "{broken",
	}), nil)
	rec := httptest.NewRecorder()
	relay.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=")
	assert.False(t, f.creds.IsAuthenticated(context.Background()))
}

func TestRelay_MissingParametersIsAnError(t *testing.T) {
	t.Parallel()

	_, relay := newRelayFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil)
	rec := httptest.NewRecorder()
	relay.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login?error=")
}
