package tokens

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fyndrai/fyndr/internal/client/repositories/storage"
)

// MinTokenLength is the shortest string accepted as a token.
const MinTokenLength = 10

// Pair is an access/refresh token pair as issued by the backend.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Store persists the token pair. Both values are written and removed together.
type Store struct {
	storage storage.Store
}

func NewStore(s storage.Store) *Store {
	return &Store{storage: s}
}

// SetTokens overwrites both tokens in one atomic write.
func (s *Store) SetTokens(ctx context.Context, access, refresh string) error {
	if err := s.storage.SetMany(ctx, map[string]string{
		storage.KeyAccessToken:  access,
		storage.KeyRefreshToken: refresh,
	}); err != nil {
		return fmt.Errorf("store tokens: %w", err)
	}
	return nil
}

// SetTokensWith writes both tokens and the extra keys in one atomic write, so
// no reader sees the tokens without the rest of the session.
func (s *Store) SetTokensWith(ctx context.Context, access, refresh string, extra map[string]string) error {
	values := make(map[string]string, len(extra)+2)
	for k, v := range extra {
		values[k] = v
	}
	values[storage.KeyAccessToken] = access
	values[storage.KeyRefreshToken] = refresh
	if err := s.storage.SetMany(ctx, values); err != nil {
		return fmt.Errorf("store tokens: %w", err)
	}
	return nil
}

// AccessToken returns the stored access token if it is structurally valid.
func (s *Store) AccessToken(ctx context.Context) (string, bool) {
	return s.valid(ctx, storage.KeyAccessToken)
}

// RefreshToken returns the stored refresh token if it is structurally valid.
func (s *Store) RefreshToken(ctx context.Context) (string, bool) {
	return s.valid(ctx, storage.KeyRefreshToken)
}

// ClearTokens removes both tokens.
func (s *Store) ClearTokens(ctx context.Context) error {
	if err := s.storage.DeleteMany(ctx, storage.KeyAccessToken, storage.KeyRefreshToken); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a structurally valid access token is stored.
// Nothing is verified against the server.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.AccessToken(ctx)
	return ok
}

func (s *Store) valid(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.storage.Get(ctx, key)
	if err != nil || !ok || !IsStructurallyValid(v) {
		return "", false
	}
	return v, true
}

// IsStructurallyValid rejects empty strings, the "null"/"undefined" leftovers
// of serialised absent values, and strings shorter than MinTokenLength.
func IsStructurallyValid(token string) bool {
	switch token {
	case "", "null", "undefined":
		return false
	}
	return len(token) >= MinTokenLength
}

// Fingerprint identifies a token in logs without revealing it.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:4])
}
