// Package metrics provides Prometheus instrumentation for the client's HTTP
// and token-refresh paths.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the client collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RetriesTotal    prometheus.Counter
	RefreshTotal    *prometheus.CounterVec
	RefreshShared   prometheus.Counter
}

// New registers the client collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fyndr_client_requests_total",
			Help: "Backend requests by method and outcome (status code, or network/format)",
		}, []string{"method", "outcome"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fyndr_client_request_duration_seconds",
			Help:    "Duration of one backend round trip",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		RetriesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "fyndr_client_auth_retries_total",
			Help: "Requests retried after a 401 and a successful token refresh",
		}),
		RefreshTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fyndr_client_token_refresh_total",
			Help: "Token refresh exchanges by result",
		}, []string{"result"}),
		RefreshShared: f.NewCounter(prometheus.CounterOpts{
			Name: "fyndr_client_token_refresh_shared_total",
			Help: "Callers that joined a refresh already in flight",
		}),
	}
}

// ObserveRequest records one round trip. status 0 means no HTTP response;
// outcome then names the failure.
func (m *Metrics) ObserveRequest(method string, status int, outcome string, start time.Time) {
	if m == nil {
		return
	}
	if status > 0 {
		outcome = strconv.Itoa(status)
	}
	m.RequestsTotal.WithLabelValues(method, outcome).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncRetry() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// ObserveRefresh records a refresh result ("ok" or "failed") and whether the
// caller joined an exchange started by someone else.
func (m *Metrics) ObserveRefresh(result string, shared bool) {
	if m == nil {
		return
	}
	m.RefreshTotal.WithLabelValues(result).Inc()
	if shared {
		m.RefreshShared.Inc()
	}
}
