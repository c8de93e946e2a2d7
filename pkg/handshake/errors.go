package handshake

import "errors"

var (
	// ErrInsecureContext indicates the configured origin is not secure enough to run OAuth
	ErrInsecureContext = errors.New("handshake.insecure_context")

	// ErrWindowBlocked indicates the secondary window could not be opened
	ErrWindowBlocked = errors.New("handshake.window_blocked: allow popup windows for this site and try again")

	// ErrInvalidAuthData indicates a success message arrived without token, user id or user email
	ErrInvalidAuthData = errors.New("handshake.invalid_authentication_data")

	// ErrExpired indicates a handshake payload was older than the accepted replay window
	ErrExpired = errors.New("handshake.expired")

	// ErrCancelled indicates the window was closed before any handshake completed
	ErrCancelled = errors.New("handshake.authentication_cancelled")

	// ErrProviderError is the fallback for an error message with no detail
	ErrProviderError = errors.New("handshake.authentication_failed")

	// ErrAttemptInProgress indicates Authenticate was called while another attempt is pending
	ErrAttemptInProgress = errors.New("handshake.attempt_in_progress")
)
