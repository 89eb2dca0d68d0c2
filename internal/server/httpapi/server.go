// Package httpapi exposes the dev backend over the same REST contract the
// Fyndr client talks to: /api/auth/{register,login,token/refresh,profile}/.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/fyndrai/fyndr/internal/logging"
	"github.com/fyndrai/fyndr/internal/server/config"
	"github.com/fyndrai/fyndr/internal/server/users"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	users    *users.Service
	logger   logging.Logger
	metrics  *metrics
	registry *prometheus.Registry
	origins  []string
	limiter  *rateLimiter
}

func New(svc *users.Service, cfg *config.Config, logger logging.Logger, reg *prometheus.Registry) *Server {
	return &Server{
		users:    svc,
		logger:   logger.With("module", "httpapi"),
		metrics:  newMetrics(reg),
		registry: reg,
		origins:  cfg.AllowedOrigins,
		limiter:  newRateLimiter(cfg.LoginRatePerMinute),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(corsHandler(s.origins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api/auth", func(api chi.Router) {
		api.With(s.limiter.Handler).Post("/register/", s.register)
		api.With(s.limiter.Handler).Post("/login/", s.login)
		api.Post("/token/refresh/", s.refresh)

		api.Group(func(authed chi.Router) {
			authed.Use(s.requireAuth)
			authed.Get("/profile/", s.profile)
			authed.Put("/profile/", s.updateProfile)
			authed.Patch("/profile/", s.updateProfile)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found.", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, `Method "`+r.Method+`" not allowed.`, "")
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
