// Package promptpal is the Go client SDK for the PromptPal API: session and
// credential management, password and OTP authentication, popup-style Google
// OAuth coordination, and prompt library access.
//
// The SDK is split into focused packages under pkg/:
//
//   - credstore: session artifact persistence with TTL expiry and pluggable
//     backends (in-memory, encrypted file, redis)
//   - gateway: the authentication API client with a normalized error
//     taxonomy, bearer transport and proactive token refresh
//   - handshake: the cross-window OAuth coordinator with exactly-once
//     settlement and a fallback handoff channel
//   - session: the UI-facing façade mapping authentication outcomes to
//     navigation decisions
//   - prompts, subscription: resource clients riding the same transport
//
// Basic Usage:
//
//	creds := credstore.New(credstore.NewMemoryStore())
//	client := gateway.New(creds)
//
//	result, err := client.SignIn(ctx, gateway.Credentials{
//		Email:    "a@b.com",
//		Password: "secret",
//	})
//	if err != nil {
//		return err
//	}
//	// result.User is persisted in creds alongside the token pair
//
// A runnable terminal client lives at cmd/promptpal.
package promptpal
