package handshake

import (
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleConfig holds configuration for the Google OAuth entry point.
type GoogleConfig struct {
	ClientID    string   `env:"GOOGLE_OAUTH_CLIENT_ID"`
	RedirectURL string   `env:"GOOGLE_OAUTH_REDIRECT_URL"`
	Scopes      []string `env:"GOOGLE_OAUTH_SCOPES" envSeparator:"," envDefault:"https://www.googleapis.com/auth/userinfo.email,https://www.googleapis.com/auth/userinfo.profile"`
}

// Provider builds the authorization URL the secondary window is pointed at.
// The code exchange itself happens server-side; the client only needs the
// entry point.
type Provider interface {
	// AuthURL returns the provider URL carrying the given state token
	AuthURL(state string) string
}

type googleProvider struct {
	conf *oauth2.Config
}

// NewGoogleProvider creates the Google entry-point provider.
func NewGoogleProvider(cfg GoogleConfig) Provider {
	return &googleProvider{
		conf: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
			Endpoint:    google.Endpoint,
		},
	}
}

func (p *googleProvider) AuthURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// endpointProvider points the window at an arbitrary URL, appending the
// state as a query parameter through oauth2.Config as well. Used when the
// API gateway hosts the redirect entry point (GET /auth/google).
type endpointProvider struct {
	conf *oauth2.Config
}

// NewEndpointProvider creates a provider for an API-hosted OAuth entry point.
func NewEndpointProvider(authURL string) Provider {
	return &endpointProvider{
		conf: &oauth2.Config{
			Endpoint: oauth2.Endpoint{AuthURL: authURL},
		},
	}
}

func (e *endpointProvider) AuthURL(state string) string {
	return e.conf.AuthCodeURL(state)
}

// newState generates a per-attempt correlation token.
func newState() string {
	return uuid.NewString()
}
