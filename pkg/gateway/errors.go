package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthExpired indicates the server rejected the stored credentials;
	// the local session has already been cleared when this is returned
	ErrAuthExpired = errors.New("gateway.authentication_expired")

	// ErrNoIdentifier indicates neither email nor username was supplied
	ErrNoIdentifier = errors.New("gateway.no_identifier")

	// ErrAmbiguousIdentifier indicates both email and username were supplied
	ErrAmbiguousIdentifier = errors.New("gateway.ambiguous_identifier")

	// ErrInvalidOTP indicates the OTP is not a 6-digit code
	ErrInvalidOTP = errors.New("gateway.invalid_otp")

	// ErrNoRefreshToken indicates a token rotation was requested without a stored refresh token
	ErrNoRefreshToken = errors.New("gateway.no_refresh_token")

	// ErrCooldown indicates an OTP resend was requested inside the advisory cooldown window
	ErrCooldown = errors.New("gateway.resend_cooldown")
)

// Error kind constants, one per branch of the taxonomy.
const (
	KindServer  = "server"  // server responded with an error status
	KindNetwork = "network" // request sent, no response received
	KindClient  = "client"  // failed before dispatch
)

// APIError is the normalized failure shape for every network operation.
// StatusCode is the real HTTP status for server rejections and 0 for both
// network and client failures; Kind tells those two apart.
type APIError struct {
	StatusCode int
	Message    string
	Kind       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return e.Message
}

// serverError builds an APIError for a rejected request.
func serverError(status int, message string) *APIError {
	if message == "" {
		message = "request failed"
	}
	return &APIError{StatusCode: status, Message: message, Kind: KindServer}
}

// networkError builds an APIError for an unreachable server.
func networkError() *APIError {
	return &APIError{StatusCode: 0, Message: "network error, please check your connection", Kind: KindNetwork}
}

// clientError builds an APIError for a failure before dispatch.
func clientError() *APIError {
	return &APIError{StatusCode: 0, Message: "an unexpected error occurred", Kind: KindClient}
}

// StatusCode extracts the HTTP status from an operation error, or 0 when the
// error carries none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// ErrorMessage extracts the normalized message from an operation error.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// IsNetworkError reports whether the request was dispatched but no response
// came back.
func IsNetworkError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindNetwork
}
