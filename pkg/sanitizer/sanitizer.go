// Package sanitizer normalizes user-supplied identifiers before they are sent
// to the API, so the same account never looks like two different ones because
// of casing or stray whitespace.
package sanitizer

import (
	"regexp"
	"strings"
)

var consecutiveDots = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail lowercases and trims an email address and collapses
// consecutive dots in the local part. Values that do not look like an email
// are returned trimmed and lowercased as-is.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := consecutiveDots.ReplaceAllString(parts[0], ".")
	local = strings.Trim(local, ".")

	return local + "@" + parts[1]
}

// NormalizeUsername trims surrounding whitespace and lowercases a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// TrimOTP strips whitespace from an OTP code without altering its digits.
func TrimOTP(otp string) string {
	return strings.TrimSpace(otp)
}
