package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "user-1"}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestKnownExpired(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		token  string
		leeway time.Duration
		want   bool
	}{
		{"future exp", signedToken(t, now.Add(time.Hour)), 0, false},
		{"past exp", signedToken(t, now.Add(-time.Minute)), 0, true},
		{"inside leeway", signedToken(t, now.Add(5*time.Second)), 10 * time.Second, true},
		{"no exp claim", signedToken(t, time.Time{}), 0, false},
		{"opaque token", "opaque-token-value", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, knownExpired(tt.token, now, tt.leeway))
		})
	}
}
