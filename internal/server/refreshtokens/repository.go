// Package refreshtokens stores the dev backend's opaque refresh tokens.
package refreshtokens

import (
	"context"
	"time"
)

type RefreshToken struct {
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*RefreshToken, error)
	// Delete removes token. It fails with common.ErrorNotFound when the token
	// is already gone, so only one of two concurrent rotations can win.
	Delete(ctx context.Context, token string) error
}
