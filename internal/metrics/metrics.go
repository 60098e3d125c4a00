// Package metrics exposes Prometheus counters for HTTP traffic and recorded
// games. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/farklestats/internal/middleware"
)

const namespace = "farkle"

// Metrics holds the service's collectors and the registry they belong to
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	playersRegistered prometheus.Counter
	usersCreated      prometheus.Counter
	playersDeleted    prometheus.Counter
	gamesRecorded     prometheus.Counter
	resultsRecorded   prometheus.Counter
}

// New creates Metrics on a fresh registry, including Go runtime and
// process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route template and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		playersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_registered_total",
			Help:      "Player profiles registered.",
		}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "Users created implicitly by player registration.",
		}),
		playersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_deleted_total",
			Help:      "Player profiles deleted.",
		}),
		gamesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_recorded_total",
			Help:      "Completed games recorded.",
		}),
		resultsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "game_results_recorded_total",
			Help:      "Per-player game results recorded.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.playersRegistered,
		m.usersCreated,
		m.playersDeleted,
		m.gamesRecorded,
		m.resultsRecorded,
	)

	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// PlayerRegistered counts a registration and, if one was made, the new user
func (m *Metrics) PlayerRegistered(userCreated bool) {
	if m == nil {
		return
	}
	m.playersRegistered.Inc()
	if userCreated {
		m.usersCreated.Inc()
	}
}

// PlayerDeleted counts a deleted profile
func (m *Metrics) PlayerDeleted() {
	if m == nil {
		return
	}
	m.playersDeleted.Inc()
}

// GameRecorded counts a game and its results
func (m *Metrics) GameRecorded(results int) {
	if m == nil {
		return
	}
	m.gamesRecorded.Inc()
	m.resultsRecorded.Add(float64(results))
}

// Middleware records request counts and latencies, labelled by the matched
// mux route template so ids in paths do not create new series
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := middleware.NewResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		route := routeTemplate(r)
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.Status())).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tpl
}
