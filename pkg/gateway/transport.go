package gateway

import (
	"net/http"

	"github.com/promptpal/promptpal-go/pkg/credstore"
)

// BearerTransport is an http.RoundTripper that attaches the stored access
// token as a bearer credential to every outgoing request, the Go analog of a
// request interceptor. Requests made without a stored token go out
// unauthenticated and the server decides.
type BearerTransport struct {
	creds *credstore.Manager
	base  http.RoundTripper
}

// NewBearerTransport wraps base with bearer injection from the credential
// store. A nil base falls back to http.DefaultTransport.
func NewBearerTransport(creds *credstore.Manager, base http.RoundTripper) *BearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &BearerTransport{creds: creds, base: base}
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// mutation per the RoundTripper contract.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.creds.AccessToken(req.Context())
	if err != nil || token == "" {
		return t.base.RoundTrip(req)
	}

	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(authed)
}

var _ http.RoundTripper = (*BearerTransport)(nil)
