package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fyndrai/fyndr/internal/client/api"
	"github.com/fyndrai/fyndr/internal/client/config"
	"github.com/fyndrai/fyndr/internal/client/guard"
	"github.com/fyndrai/fyndr/internal/client/metrics"
	"github.com/fyndrai/fyndr/internal/client/repositories/storage"
	"github.com/fyndrai/fyndr/internal/client/session"
	"github.com/fyndrai/fyndr/internal/client/tokens"
	"github.com/fyndrai/fyndr/internal/filex"
	"github.com/fyndrai/fyndr/internal/logging"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	store    storage.Store
	client   *api.Client
	session  *session.Session
	guard    *guard.Guard
	registry *prometheus.Registry
	reader   *bufio.Reader
	out      io.Writer

	// ended is set once the end of the current session has been reported.
	ended atomic.Bool
}

// NewApp opens the configured session store and wires the client stack on
// top of it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("open %s session store: %w", c.StorageBackend, err)
	}

	reg := prometheus.NewRegistry()
	app := newApp(c, store, logger, reg)
	return app, nil
}

func newApp(c *config.Config, store storage.Store, logger logging.Logger, reg *prometheus.Registry) *App {
	m := metrics.New(reg)

	base := api.New(c.APIBaseURL,
		api.WithTimeout(c.RequestTimeout),
		api.WithLogger(logger),
		api.WithMetrics(m),
	)
	tokenStore := tokens.NewStore(store)
	manager := tokens.NewManager(tokenStore, api.NewRefresher(base),
		tokens.WithLeeway(c.RefreshLeeway),
		tokens.WithLogger(logger),
		tokens.WithMetrics(m),
	)
	client := base.WithTokenSource(manager)
	sess := session.New(client, tokenStore, store, session.WithLogger(logger))

	return &App{
		config:   c,
		logger:   logger,
		store:    store,
		client:   client,
		session:  sess,
		guard:    guard.New(sess, guard.DefaultRoutes()),
		registry: reg,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
}

func openStore(ctx context.Context, c *config.Config) (storage.Store, error) {
	switch c.StorageBackend {
	case config.StorageMemory:
		return storage.NewMemoryStore(), nil
	case config.StorageRedis:
		return storage.OpenRedis(ctx, c.RedisURL, c.Profile)
	case config.StorageSQLite, "":
		if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
			return nil, err
		}
		return storage.OpenSQLite(ctx, c.DatabasePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

// Run starts the metrics endpoint and the session watcher, then blocks in the
// REPL until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.store.Close()

	if a.config.MetricsAddr != "" {
		go a.serveMetrics(ctx, a.config.MetricsAddr)
	}
	if err := a.watchSession(ctx); err != nil {
		a.logger.Warn(ctx, "session watcher unavailable", "error", err)
	}

	fmt.Fprintln(a.out, "Fyndr CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

func (a *App) serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.logger.Info(ctx, "serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error(ctx, "metrics server stopped", "error", err)
	}
}

// watchSession prints a notice when the session is ended by something other
// than the logout command, such as another process sharing the store.
func (a *App) watchSession(ctx context.Context) error {
	events, err := a.session.Watch(ctx)
	if err != nil {
		return err
	}
	a.ended.Store(!a.isLoggedIn())
	go func() {
		for ev := range events {
			if ev == session.EventLoggedOut && a.ended.CompareAndSwap(false, true) {
				fmt.Fprintln(a.out, "session ended")
			}
		}
	}()
	return nil
}

func (a *App) isLoggedIn() bool {
	_, ok := a.session.Current(context.Background())
	return ok
}

// status is shown in the prompt.
func (a *App) status() string {
	user, ok := a.session.Current(context.Background())
	if !ok {
		return "guest"
	}
	return fmt.Sprintf("%s %s", user.Username, user.Role)
}
