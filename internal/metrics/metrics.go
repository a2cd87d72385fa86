// Package metrics provides Prometheus collectors for the globe viewer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry registers the collectors on reg instead of a private
// registry, so they can be served next to runtime collectors.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}

// Manager owns the globe's collectors.
type Manager struct {
	namespace   string
	registry    *prometheus.Registry
	pickBuckets []float64

	recordsLoaded    prometheus.Counter
	recordsRejected  prometheus.Counter
	fetchFailures    prometheus.Counter
	glyphs           prometheus.Gauge
	frames           prometheus.Counter
	hoverTransitions prometheus.Counter
	pickLatency      prometheus.Histogram
}

// NewManager creates a Manager on a private registry unless told otherwise.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:   "globeview",
		registry:    prometheus.NewRegistry(),
		pickBuckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.recordsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "data",
		Name:      "records_loaded_total",
		Help:      "City records accepted from the data source",
	})
	m.recordsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "data",
		Name:      "records_rejected_total",
		Help:      "City records skipped because they failed to parse or validate",
	})
	m.fetchFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "data",
		Name:      "fetch_failures_total",
		Help:      "Data source loads that failed before producing records",
	})
	m.glyphs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "scene",
		Name:      "glyphs",
		Help:      "Glyphs currently on the globe",
	})
	m.frames = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scene",
		Name:      "frames_total",
		Help:      "Render loop ticks",
	})
	m.hoverTransitions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "picking",
		Name:      "hover_transitions_total",
		Help:      "Changes of the highlighted glyph, including clears",
	})
	m.pickLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "picking",
		Name:      "pick_duration_seconds",
		Help:      "Time spent resolving the glyph under the pointer",
		Buckets:   m.pickBuckets,
	})
	return m
}

func (m *Manager) RecordsLoaded(n int)   { m.recordsLoaded.Add(float64(n)) }
func (m *Manager) RecordsRejected(n int) { m.recordsRejected.Add(float64(n)) }
func (m *Manager) FetchFailed()          { m.fetchFailures.Inc() }
func (m *Manager) GlyphsBuilt(n int)     { m.glyphs.Set(float64(n)) }
func (m *Manager) FrameRendered()        { m.frames.Inc() }
func (m *Manager) HoverChanged()         { m.hoverTransitions.Inc() }

func (m *Manager) PickObserved(d time.Duration) {
	m.pickLatency.Observe(d.Seconds())
}

// Registry exposes the registry the collectors live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the collectors in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
