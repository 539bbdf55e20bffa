// Package tokens inspects bearer tokens held by the client. It never
// verifies signatures — validity is the server's business; the client only
// needs to know whether a token is worth sending at all.
package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// now is a test seam.
var now = time.Now

// IsExpired reports whether the access token's exp claim is in the past.
//
// Fail-closed: any token that is not a well-formed three-segment JWT with a
// numeric exp claim is treated as expired. A token the client cannot read is
// a token it cannot trust to be fresh.
func IsExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return exp.Before(now())
}
