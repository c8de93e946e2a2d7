package gateway

import "github.com/promptpal/promptpal-go/pkg/credstore"

// RegisterRequest holds the fields posted to the registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// Credentials identifies an account for sign-in. Exactly one of Email or
// Username must be set.
type Credentials struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// Response is the normalized outcome shape shared by every operation.
type Response struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// AuthResult carries a normalized response plus the session payload for
// operations that authenticate (register, sign in, OTP verify, refresh).
type AuthResult struct {
	Response
	AccessToken  string          `json:"accessToken,omitempty"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	User         *credstore.User `json:"user,omitempty"`
}

// apiEnvelope mirrors the wire shape of API responses. Registration responds
// with the access token under "token"; every other endpoint uses
// "accessToken".
type apiEnvelope struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	AccessToken  string          `json:"accessToken"`
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	User         *credstore.User `json:"user"`
}

func (e *apiEnvelope) accessToken() string {
	if e.AccessToken != "" {
		return e.AccessToken
	}
	return e.Token
}
