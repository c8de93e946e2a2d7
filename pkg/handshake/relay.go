package handshake

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/promptpal/promptpal-go/pkg/credstore"
	"github.com/promptpal/promptpal-go/pkg/logger"
)

// Relay is the same-window callback endpoint. The provider redirects here
// with accessToken/user/error query parameters; the relay either hands the
// outcome to a pending coordinator attempt (the opener-window case) or, with
// no attempt listening, persists the session itself and redirects.
type Relay struct {
	coordinator *Coordinator
	creds       *credstore.Manager
	logger      *slog.Logger

	// LoginURL receives redirects on error, with the error in the query
	// string; SuccessURL receives redirects after a standalone success.
	LoginURL   string
	SuccessURL string
}

// NewRelay creates a callback relay bound to a coordinator.
func NewRelay(coordinator *Coordinator, creds *credstore.Manager, loginURL, successURL string, log *slog.Logger) *Relay {
	if log == nil {
		log = logger.Discard()
	}
	return &Relay{
		coordinator: coordinator,
		creds:       creds,
		logger:      log,
		LoginURL:    loginURL,
		SuccessURL:  successURL,
	}
}

// Router mounts the callback route.
func (rl *Relay) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/auth/google/callback", rl.handleCallback)
	return r
}

func (rl *Relay) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	errParam := q.Get("error")
	token := q.Get("accessToken")
	userJSON := q.Get("user")

	if errParam != "" {
		rl.relayError(w, r, errParam)
		return
	}

	if token == "" || userJSON == "" {
		rl.relayError(w, r, "missing authentication parameters")
		return
	}

	var user credstore.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		rl.logger.Warn("callback carried malformed user payload",
			logger.Component("handshake"),
			logger.Error(err),
		)
		rl.relayError(w, r, "invalid user data")
		return
	}

	if rl.coordinator.pending() {
		now := rl.coordinator.clock.Now().UnixMilli()

		// Write the fallback first: if the poller notices the window is
		// gone before the message lands, the handoff still succeeds.
		_ = rl.coordinator.Fallback().Write(r.Context(), &FallbackPayload{
			Source:    FallbackSource,
			Token:     token,
			User:      &user,
			Timestamp: now,
		})

		rl.coordinator.Deliver(rl.coordinator.config.Origin, Envelope{
			Type:      TypeAuthSuccess,
			Token:     token,
			User:      &user,
			Timestamp: now,
		})
		rl.closeWindowPage(w)
		return
	}

	// No opener listening: persist and navigate in this window.
	if err := rl.creds.SetSession(r.Context(), token, "", &user); err != nil {
		rl.logger.Error("failed to persist session from callback",
			logger.Component("handshake"),
			logger.Error(err),
		)
		rl.relayError(w, r, "failed to store session")
		return
	}

	http.Redirect(w, r, rl.SuccessURL, http.StatusFound)
}

func (rl *Relay) relayError(w http.ResponseWriter, r *http.Request, message string) {
	if rl.coordinator.pending() {
		rl.coordinator.Deliver(rl.coordinator.config.Origin, Envelope{
			Type:      TypeAuthError,
			Error:     message,
			Timestamp: rl.coordinator.clock.Now().UnixMilli(),
		})
		rl.closeWindowPage(w)
		return
	}

	redirect := rl.LoginURL + "?error=" + url.QueryEscape(message)
	http.Redirect(w, r, redirect, http.StatusFound)
}

func (rl *Relay) closeWindowPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<!doctype html><title>PromptPal</title><p>Authentication complete. You may close this window.</p>"))
}

// pending reports whether an attempt is currently waiting for a handshake.
func (c *Coordinator) pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}
