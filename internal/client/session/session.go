package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fyndrai/fyndr/internal/client/api"
	"github.com/fyndrai/fyndr/internal/client/repositories/storage"
	"github.com/fyndrai/fyndr/internal/client/tokens"
	"github.com/fyndrai/fyndr/internal/common"
	"github.com/fyndrai/fyndr/internal/logging"
)

// Session owns the persisted session: tokens, user record and role flags.
type Session struct {
	client *api.Client
	tokens *tokens.Store
	store  storage.Store
	logger logging.Logger
}

type Option func(*Session)

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func New(client *api.Client, tokenStore *tokens.Store, store storage.Store, opts ...Option) *Session {
	s := &Session{
		client: client,
		tokens: tokenStore,
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginResult is a signed-in user and where to send them.
type LoginResult struct {
	User  UserRecord
	Route string
}

// Login signs in, fetches the profile with the new access token and persists
// tokens, user record and flags in one write. A rejected login returns
// *FormErrors. A failed profile fetch returns an error matching
// common.ErrAuthenticationFailed. In both cases nothing is persisted.
func (s *Session) Login(ctx context.Context, creds api.Credentials) (LoginResult, error) {
	pair, err := s.client.Login(ctx, creds)
	if err != nil {
		return LoginResult{}, NewFormErrors(err)
	}

	raw, err := s.client.Profile(ctx, api.WithToken(pair.Access))
	if err != nil {
		s.logger.Warn(ctx, "profile fetch after login failed", "error", err)
		return LoginResult{}, fmt.Errorf("%w: fetch profile: %w", common.ErrAuthenticationFailed, err)
	}
	user, err := DecodeProfile(raw)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: %w", common.ErrAuthenticationFailed, err)
	}

	values, err := userValues(user)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.tokens.SetTokensWith(ctx, pair.Access, pair.Refresh, values); err != nil {
		return LoginResult{}, err
	}

	route := LandingRoute(user.Role, user.OnboardingComplete)
	s.logger.Info(ctx, "logged in", "user", user.Username, "role", user.Role, "route", route)
	return LoginResult{User: user, Route: route}, nil
}

// Register creates an account without signing in. Rejections are returned
// as *FormErrors.
func (s *Session) Register(ctx context.Context, reg api.Registration) error {
	if _, err := s.client.Register(ctx, reg); err != nil {
		return NewFormErrors(err)
	}
	s.logger.Info(ctx, "registered", "user", reg.Username, "role", reg.Role)
	return nil
}

// UpdateProfile sends changes and replaces the persisted record with the
// normalized response. Validation failures are returned as *FormErrors.
func (s *Session) UpdateProfile(ctx context.Context, changes map[string]any) (UserRecord, error) {
	raw, err := s.client.UpdateProfile(ctx, changes)
	if err != nil {
		var httpErr *api.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusBadRequest {
			return UserRecord{}, NewFormErrors(err)
		}
		return UserRecord{}, err
	}
	return s.persistProfile(ctx, raw)
}

// Reload fetches the profile again and replaces the persisted record.
func (s *Session) Reload(ctx context.Context) (UserRecord, error) {
	raw, err := s.client.Profile(ctx)
	if err != nil {
		return UserRecord{}, err
	}
	return s.persistProfile(ctx, raw)
}

func (s *Session) persistProfile(ctx context.Context, raw json.RawMessage) (UserRecord, error) {
	user, err := DecodeProfile(raw)
	if err != nil {
		return UserRecord{}, err
	}
	values, err := userValues(user)
	if err != nil {
		return UserRecord{}, err
	}
	if err := s.store.SetMany(ctx, values); err != nil {
		return UserRecord{}, fmt.Errorf("persist profile: %w", err)
	}
	s.logger.Debug(ctx, "profile persisted", "user", user.Username)
	return user, nil
}

// Current returns the persisted user record. ok is false when there is no
// signed-in session or the record cannot be decoded.
func (s *Session) Current(ctx context.Context) (UserRecord, bool) {
	if !s.tokens.IsAuthenticated(ctx) {
		return UserRecord{}, false
	}
	v, ok, err := s.store.Get(ctx, storage.KeyUser)
	if err != nil || !ok {
		return UserRecord{}, false
	}
	var user UserRecord
	if err := json.Unmarshal([]byte(v), &user); err != nil {
		s.logger.Warn(ctx, "stored user record is unreadable", "error", err)
		return UserRecord{}, false
	}
	return user, true
}

// Logout removes tokens and every session key. The navbar preference stays.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.DeleteMany(ctx, storage.SessionKeys...); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info(ctx, "logged out")
	return nil
}

// HandleAuthFailure ends the session when err is a failed 401 recovery and
// returns the login route. Other errors are left to the caller.
func (s *Session) HandleAuthFailure(ctx context.Context, err error) (string, bool) {
	var recErr *api.AuthRecoveryError
	if !errors.As(err, &recErr) {
		return "", false
	}
	s.logger.Warn(ctx, "session expired", "kind", recErr.Kind)
	if lerr := s.Logout(ctx); lerr != nil {
		s.logger.Error(ctx, "failed to clear session", "error", lerr)
	}
	return RouteLogin, true
}

// NavbarVisible reads the navbar preference. It defaults to visible.
func (s *Session) NavbarVisible(ctx context.Context) bool {
	v, ok, err := s.store.Get(ctx, storage.KeyNavbarVisible)
	if err != nil || !ok {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return b
}

func (s *Session) SetNavbarVisible(ctx context.Context, visible bool) error {
	return s.store.Set(ctx, storage.KeyNavbarVisible, strconv.FormatBool(visible))
}

// userValues are the keys written for a signed-in user besides the tokens.
func userValues(user UserRecord) (map[string]string, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode user record: %w", err)
	}
	values := user.OnboardingFlags()
	values[storage.KeyUser] = string(data)
	values[storage.KeyIsAuthenticated] = "true"
	values[storage.KeyUserRole] = string(user.Role)
	return values, nil
}
