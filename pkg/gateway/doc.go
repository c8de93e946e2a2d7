// Package gateway is the HTTP client for the PromptPal auth API. It
// translates SDK intents (sign in, register, verify OTP, refresh, logout)
// into calls against the remote API and normalizes every outcome into a
// uniform response shape with a consistent error taxonomy:
//
//   - the server answered with an error status: the server's message is
//     surfaced with the real HTTP status code;
//   - the request was sent but no response arrived: a network error with
//     status code 0, so the UI can suggest checking the connection;
//   - the request never left the client: a generic unexpected error, also
//     with status code 0.
//
// Successful authentication responses are persisted into the credential
// store as a side effect, and a profile fetch answered with 401 clears the
// store and reports ErrAuthExpired so callers can force a logout instead of
// retrying. Logout itself never fails from the caller's perspective: local
// credentials are cleared regardless of what the network does.
//
// Authenticated requests carry a bearer token attached from the credential
// store; when the stored access token's exp claim is close to expiry, the
// client transparently rotates tokens through the refresh endpoint first.
package gateway
