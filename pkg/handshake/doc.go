// Package handshake coordinates third-party OAuth sign-in through a
// secondary browsing context (a popup window or system browser) and a
// message-based handshake back to the initiating client.
//
// A Coordinator runs one authentication attempt at a time as a small state
// machine: Idle → WindowOpened → Resolved or Rejected. While the window is
// open, two independent completion sources race to finish the attempt:
//
//   - messages relayed from the callback endpoint, validated for exact
//     origin match, recognized type, payload completeness and freshness;
//   - a poller that notices the user closed the window without completing,
//     which consults a best-effort fallback store before giving up.
//
// Whichever source fires first wins; the attempt settles exactly once
// through a single-fire gate, and the loser's outcome is discarded. Cleanup
// (closing the window, stopping the poller, deleting the fallback key) is
// idempotent.
//
// The fallback store mirrors the original product's localStorage handoff: a
// race mitigation for the window closing before its message is delivered,
// not a guaranteed transport.
package handshake
