// Package session is the façade UI layers talk to. It orchestrates gateway
// calls with a loading flag and post-action navigation, and exposes
// synchronous session reads backed by the credential store.
//
// The façade owns two pieces of flow logic the gateway deliberately does
// not: a sign-in rejected with 403 "not verified" is treated as a soft
// success that routes to the OTP verification view, and a successful
// registration always routes to OTP verification no matter what destination
// the caller asked for. Logout clears the local session and routes to the
// login view even when the server call fails.
package session
