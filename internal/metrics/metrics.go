package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "deckswipe"

// Metrics holds the gameplay counters. Metrics are registered in their own
// registry rather than prometheus.DefaultRegistry. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	decisions     *prometheus.CounterVec
	draws         *prometheus.CounterVec
	gameOvers     *prometheus.CounterVec
	saves         *prometheus.CounterVec
	activeSession prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Total number of card decisions, partitioned by side.",
		}, []string{"side"}),
		draws: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_total",
			Help:      "Total number of drawn cards, partitioned by source (terminal, followup, random).",
		}, []string{"source"}),
		gameOvers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "game_overs_total",
			Help:      "Total number of finished runs, partitioned by exhausted resource.",
		}, []string{"resource"}),
		saves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "progress_saves_total",
			Help:      "Total number of progress saves, partitioned by result.",
		}, []string{"result"}),
		activeSession: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of game sessions currently held in memory.",
		}),
	}
}

func (m *Metrics) Decision(side string) {
	if m != nil {
		m.decisions.WithLabelValues(side).Inc()
	}
}

func (m *Metrics) Draw(source string) {
	if m != nil {
		m.draws.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) GameOver(resource string) {
	if m != nil {
		m.gameOvers.WithLabelValues(resource).Inc()
	}
}

// Save records a finished save; err == nil counts as success.
func (m *Metrics) Save(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.saves.WithLabelValues(result).Inc()
}

func (m *Metrics) SessionOpened() {
	if m != nil {
		m.activeSession.Inc()
	}
}

func (m *Metrics) SessionClosed() {
	if m != nil {
		m.activeSession.Dec()
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
