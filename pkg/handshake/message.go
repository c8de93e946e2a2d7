package handshake

import (
	"time"

	"github.com/promptpal/promptpal-go/pkg/credstore"
)

// Handshake message types exchanged between the callback window and the
// initiating client.
const (
	TypeAuthSuccess = "GOOGLE_AUTH_SUCCESS"
	TypeAuthError   = "GOOGLE_AUTH_ERROR"
	TypeLinkSuccess = "GOOGLE_LINK_SUCCESS"
	TypeLinkError   = "GOOGLE_LINK_ERROR"
)

// FallbackSource is the only source accepted from the fallback store.
const FallbackSource = "google"

// Envelope is one handshake message. Timestamp is unix milliseconds, zero
// when the sender attached none.
type Envelope struct {
	Type      string          `json:"type"`
	Token     string          `json:"token,omitempty"`
	User      *credstore.User `json:"user,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// FallbackPayload is the handoff written by the callback window when the
// initiating client may no longer be listening.
type FallbackPayload struct {
	Source    string          `json:"source"`
	Token     string          `json:"token"`
	User      *credstore.User `json:"user"`
	Timestamp int64           `json:"timestamp"`
}

// fresh reports whether a unix-millisecond timestamp is within the replay
// window relative to now. A zero timestamp counts as fresh (absent).
func fresh(timestamp int64, window time.Duration, now time.Time) bool {
	if timestamp == 0 {
		return true
	}
	return now.Sub(time.UnixMilli(timestamp)) <= window
}

// valid reports whether a fallback payload can stand in for a success
// message. Unlike Envelope freshness, the fallback timestamp is mandatory.
func (p *FallbackPayload) valid(window time.Duration, now time.Time) bool {
	if p == nil || p.Source != FallbackSource {
		return false
	}
	if p.Token == "" || p.User == nil || p.User.ID == "" || p.User.Email == "" {
		return false
	}
	if p.Timestamp == 0 {
		return false
	}
	return now.Sub(time.UnixMilli(p.Timestamp)) <= window
}
