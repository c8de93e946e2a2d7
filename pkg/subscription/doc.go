// Package subscription reads the authenticated user's plan and usage
// counters for the dashboard subscription panel. It is read-only; plan
// changes and billing happen on the provider's hosted pages, not through
// this client.
package subscription
