package tokens

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fyndrai/fyndr/internal/client/metrics"
	"github.com/fyndrai/fyndr/internal/common"
	"github.com/fyndrai/fyndr/internal/logging"
)

// Refresher exchanges a refresh token for a new pair. A response without a
// refresh token leaves Pair.Refresh empty. A rejected exchange must return an
// error matching common.ErrRefreshTokenExpired; transport failures are passed
// through unchanged.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (Pair, error)
}

// Manager resolves usable access tokens and recovers from 401 responses.
type Manager struct {
	store     *Store
	refresher Refresher
	logger    logging.Logger
	metrics   *metrics.Metrics
	leeway    time.Duration
	now       func() time.Time

	group singleflight.Group
}

type Option func(*Manager)

// WithLeeway treats tokens expiring within d as already expired.
func WithLeeway(d time.Duration) Option {
	return func(m *Manager) { m.leeway = d }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mx }
}

func NewManager(store *Store, refresher Refresher, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		refresher: refresher,
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the token store the manager reads and writes.
func (m *Manager) Store() *Store {
	return m.store
}

// IsAuthenticated reports whether the store holds a structurally valid
// access token.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.store.IsAuthenticated(ctx)
}

// GetValidAccessToken returns the stored access token, refreshing it first
// when its exp claim shows it has expired. It fails with ErrNoAccessToken when
// nothing is stored and ErrRefreshTokenExpired when a needed refresh is
// rejected or no refresh token is stored.
// A failed refresh here leaves the stored tokens untouched.
func (m *Manager) GetValidAccessToken(ctx context.Context) (string, error) {
	access, ok := m.store.AccessToken(ctx)
	if !ok {
		return "", common.ErrNoAccessToken
	}
	if !knownExpired(access, m.now(), m.leeway) {
		return access, nil
	}

	m.logger.Debug(ctx, "access token expired, refreshing", "token", Fingerprint(access))
	pair, err := m.refresh(ctx)
	if err != nil {
		return "", err
	}
	return pair.Access, nil
}

// Handle401Error refreshes the pair after the backend rejected an access
// token. On failure the stored tokens are cleared and the returned error
// matches ErrAuthenticationFailed as well as the underlying cause.
func (m *Manager) Handle401Error(ctx context.Context) (string, error) {
	pair, err := m.refresh(ctx)
	if err != nil {
		if cerr := m.store.ClearTokens(ctx); cerr != nil {
			m.logger.Error(ctx, "failed to clear tokens after refresh failure", "error", cerr)
		}
		m.logger.Warn(ctx, "session could not be recovered", "error", err)
		return "", fmt.Errorf("%w: %w", common.ErrAuthenticationFailed, err)
	}
	return pair.Access, nil
}

// refresh runs at most one exchange per refresh token at a time. Callers that
// arrive while an exchange is running wait for it and share its result.
func (m *Manager) refresh(ctx context.Context) (Pair, error) {
	rt, ok := m.store.RefreshToken(ctx)
	if !ok {
		m.metrics.ObserveRefresh("failed", false)
		return Pair{}, common.ErrRefreshTokenExpired
	}

	// The exchange outlives any single caller's cancellation.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := m.group.Do(rt, func() (any, error) {
		return m.exchange(flightCtx, rt)
	})
	if err != nil {
		m.metrics.ObserveRefresh("failed", shared)
		return Pair{}, err
	}
	m.metrics.ObserveRefresh("ok", shared)
	return v.(Pair), nil
}

func (m *Manager) exchange(ctx context.Context, rt string) (Pair, error) {
	// A previous flight for rt may have finished between our read and Do;
	// the rotated pair is already stored and rt may no longer be accepted.
	if current, ok := m.store.RefreshToken(ctx); ok && current != rt {
		if access, ok := m.store.AccessToken(ctx); ok {
			return Pair{Access: access, Refresh: current}, nil
		}
	}

	pair, err := m.refresher.Refresh(ctx, rt)
	if err != nil {
		return Pair{}, fmt.Errorf("refresh tokens: %w", err)
	}
	if !IsStructurallyValid(pair.Access) {
		return Pair{}, fmt.Errorf("refresh tokens: %w", common.ErrInvalidToken)
	}
	if pair.Refresh == "" {
		pair.Refresh = rt
	}
	if err := m.store.SetTokens(ctx, pair.Access, pair.Refresh); err != nil {
		return Pair{}, err
	}

	m.logger.Debug(ctx, "tokens refreshed", "token", Fingerprint(pair.Access))
	return pair, nil
}
