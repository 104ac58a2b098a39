// Package metrics exposes fetch and publish counters for the dashboard's
// /metrics endpoint. A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the Prometheus metrics of one bot process.
type Recorder struct {
	registry *prometheus.Registry

	fetchRuns    *prometheus.CounterVec
	itemsFetched prometheus.Gauge
	publishes    *prometheus.CounterVec
	pending      prometheus.Gauge
}

// New creates a recorder on its own registry so tests can build several.
func New(namespace string) *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		fetchRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_runs_total",
				Help:      "Subreddit fetch runs by result",
			},
			[]string{"result"},
		),
		itemsFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_items",
			Help:      "Items kept by the last successful fetch",
		}),
		publishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "publish_cycles_total",
				Help:      "Scheduler cycles by outcome",
			},
			[]string{"outcome"},
		),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_items",
			Help:      "Unposted items seen by the last cycle",
		}),
	}

	registry.MustRegister(r.fetchRuns, r.itemsFetched, r.publishes, r.pending)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) Fetched(n int) {
	if r == nil {
		return
	}
	r.fetchRuns.WithLabelValues("success").Inc()
	r.itemsFetched.Set(float64(n))
}

func (r *Recorder) FetchFailed() {
	if r == nil {
		return
	}
	r.fetchRuns.WithLabelValues("error").Inc()
}

// Cycle counts one scheduler cycle. Outcomes are "published", "failed",
// "idle" and "no_token".
func (r *Recorder) Cycle(outcome string) {
	if r == nil {
		return
	}
	r.publishes.WithLabelValues(outcome).Inc()
}

func (r *Recorder) SetPending(n int) {
	if r == nil {
		return
	}
	r.pending.Set(float64(n))
}
