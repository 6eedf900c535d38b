// Package metrics exposes Prometheus collectors for roster reconciles, store failures and
// HTTP request latency.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"teamhub/internal/domain"
)

// Roster implements domain.RosterObserver with Prometheus counters.
type Roster struct {
	reconciliations *prometheus.CounterVec
	storeErrors     *prometheus.CounterVec
}

// NewRoster registers the counters on reg.
func NewRoster(reg prometheus.Registerer) (*Roster, error) {
	r := &Roster{
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teamhub",
			Name:      "roster_reconciliations_total",
			Help:      "Roster reconciles by roster and outcome.",
		}, []string{"roster", "outcome"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teamhub",
			Name:      "store_errors_total",
			Help:      "Constraint and input failures reported by the store, by kind.",
		}, []string{"kind"}),
	}
	for _, c := range []prometheus.Collector{r.reconciliations, r.storeErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Roster) ReconcileFinished(roster string, outcome domain.RosterOutcome) {
	r.reconciliations.WithLabelValues(roster, string(outcome)).Inc()
}

func (r *Roster) StoreFailed(kind domain.ErrorKind) {
	r.storeErrors.WithLabelValues(string(kind)).Inc()
}

// HTTP records request latency. It implements middleware.RequestObserver.
type HTTP struct {
	latency *prometheus.HistogramVec
}

// NewHTTP registers the latency histogram on reg.
func NewHTTP(reg prometheus.Registerer) (*HTTP, error) {
	h := &HTTP{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "teamhub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	if err := reg.Register(h.latency); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *HTTP) ObserveRequest(method, route string, status int, d time.Duration) {
	h.latency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
