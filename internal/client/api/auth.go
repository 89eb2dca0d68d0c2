package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fyndrai/fyndr/internal/client/tokens"
	"github.com/fyndrai/fyndr/internal/common"
)

const (
	EndpointLogin    = "/auth/login/"
	EndpointRegister = "/auth/register/"
	EndpointProfile  = "/auth/profile/"
	EndpointRefresh  = "/auth/token/refresh/"
)

// Credentials are posted to the login endpoint. Username may also hold the
// account's email address.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the sign-up payload.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role"`
}

// Login exchanges credentials for a token pair. It never sends stored
// credentials.
func (c *Client) Login(ctx context.Context, creds Credentials) (tokens.Pair, error) {
	pair, err := RequestJSON[tokens.Pair](ctx, c, EndpointLogin, http.MethodPost, creds, WithoutAuth())
	if err != nil {
		return tokens.Pair{}, err
	}
	if !tokens.IsStructurallyValid(pair.Access) {
		return tokens.Pair{}, fmt.Errorf("login response: %w", common.ErrInvalidToken)
	}
	return pair, nil
}

// Register creates an account. The response body is returned unparsed.
func (c *Client) Register(ctx context.Context, reg Registration) (json.RawMessage, error) {
	return c.Request(ctx, EndpointRegister, http.MethodPost, reg, WithoutAuth())
}

// Profile fetches the authenticated user's raw profile.
func (c *Client) Profile(ctx context.Context, opts ...RequestOption) (json.RawMessage, error) {
	return c.Request(ctx, EndpointProfile, http.MethodGet, nil, opts...)
}

// UpdateProfile sends a partial profile and returns the updated raw profile.
func (c *Client) UpdateProfile(ctx context.Context, changes map[string]any) (json.RawMessage, error) {
	return c.Request(ctx, EndpointProfile, http.MethodPut, changes)
}

// Refresher performs the token refresh exchange. It must be built on a client
// without a token source so that a rejected refresh is never itself recovered.
type Refresher struct {
	client *Client
}

func NewRefresher(c *Client) *Refresher {
	return &Refresher{client: c}
}

// Refresh implements tokens.Refresher. 400 and 401 answers are reported as
// common.ErrRefreshTokenExpired.
func (r *Refresher) Refresh(ctx context.Context, refreshToken string) (tokens.Pair, error) {
	pair, err := RequestJSON[tokens.Pair](ctx, r.client, EndpointRefresh, http.MethodPost,
		map[string]string{"refresh": refreshToken}, WithoutAuth())
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && (httpErr.Status == http.StatusUnauthorized || httpErr.Status == http.StatusBadRequest) {
			return tokens.Pair{}, fmt.Errorf("%w: %w", common.ErrRefreshTokenExpired, err)
		}
		return tokens.Pair{}, err
	}
	return pair, nil
}
