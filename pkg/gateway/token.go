package gateway

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiresWithin reports whether the access token's exp claim falls
// inside the skew window relative to now. The claim is read without
// signature verification: the client does not hold the server's signing key,
// and the server re-validates every request anyway. Tokens that cannot be
// parsed or carry no exp claim are treated as not expiring, so a server that
// issues opaque tokens simply never triggers proactive refresh.
func tokenExpiresWithin(token string, skew time.Duration, now time.Time) bool {
	if token == "" || skew <= 0 {
		return false
	}

	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}

	return claims.ExpiresAt.Time.Before(now.Add(skew))
}
