// Package prompts is the prompt library client: paginated browsing with
// search, tag, and sort filters, single-prompt fetch, and create/delete for
// prompts the authenticated user owns.
//
// Requests go through the gateway bearer transport, so a stored session is
// attached automatically and list browsing works anonymously when there is
// none. Failures use the same error taxonomy as the gateway package;
// gateway.StatusCode and friends work on errors returned here.
package prompts
