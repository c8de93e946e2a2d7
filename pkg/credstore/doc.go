// Package credstore is the single source of truth for persisted session
// artifacts: the access token, the refresh token, and the cached user record.
//
// A Manager coordinates reads and writes against a pluggable Store backend and
// validates artifact expiry against an injected Clock. Three backends ship out
// of the box: a concurrent in-memory store, a file store encrypted at rest
// (AES-GCM with an scrypt-derived key), and a Redis store for sharing one
// session across processes.
//
// Every artifact is written with a fixed time-to-live (7 days by default) and
// overwrites whatever was there before; there are no merge semantics. An
// access token without a readable user record counts as unauthenticated, so a
// corrupted user artifact can never produce a half-authenticated client.
//
//	store := credstore.NewMemoryStore()
//	mgr := credstore.New(store)
//
//	_ = mgr.SetAccessToken(ctx, token)
//	_ = mgr.SetUser(ctx, user)
//	ok := mgr.IsAuthenticated(ctx)
//	_ = mgr.Clear(ctx)
package credstore
