package httpapi

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	authEvents *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fyndr_devserver_requests_total",
			Help: "HTTP requests served, by route pattern and status.",
		}, []string{"route", "method", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fyndr_devserver_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		authEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fyndr_devserver_auth_events_total",
			Help: "Register, login and refresh attempts by result.",
		}, []string{"event", "result"}),
	}
}

func (m *metrics) observe(route, method string, status int, start time.Time) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

func (m *metrics) authEvent(event string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.authEvents.WithLabelValues(event, result).Inc()
}
