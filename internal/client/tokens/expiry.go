package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiresAt reads the exp claim of a JWT without verifying its signature;
// the backend remains the authority on validity. ok is false for opaque
// tokens and tokens without exp.
func expiresAt(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// knownExpired is true only when the token carries an exp that falls within
// leeway of now. Tokens whose expiry cannot be read are assumed usable and
// left for the 401 path to catch.
func knownExpired(token string, now time.Time, leeway time.Duration) bool {
	exp, ok := expiresAt(token)
	if !ok {
		return false
	}
	return !now.Add(leeway).Before(exp)
}
