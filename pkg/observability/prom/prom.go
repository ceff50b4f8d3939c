// Package prom implements the observability hooks with Prometheus
// collectors and writes them as a node-exporter textfile.
//
// A batch run is short-lived, so nothing is served over HTTP: the CLI
// writes the registry to a file that a node exporter's textfile collector
// picks up.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/geofig/pkg/observability"
)

const namespace = "geofig"

// Metrics collects pipeline and cache events in a private registry.
type Metrics struct {
	registry *prometheus.Registry

	figures       *prometheus.CounterVec
	figureSeconds *prometheus.HistogramVec
	stageSeconds  *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
	cacheEvents   *prometheus.CounterVec
	cacheBytes    prometheus.Counter
}

// New creates the collectors and registers them.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		figures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "figures_total",
			Help:      "Figures processed, by type, final state and failure kind",
		}, []string{"type", "state", "kind"}),
		figureSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "figure_duration_seconds",
			Help:      "Wall time per figure",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"type"}),
		stageSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time per pipeline stage",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"stage"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Stages that ended in an error",
		}, []string{"stage"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Degraded figures and placeholders, by stage and kind",
		}, []string{"stage", "kind"}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Memo lookups and writes",
		}, []string{"key_type", "event"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the memo",
		}),
	}
}

// Registry exposes the underlying registry, for tests and custom export.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes every metric in text exposition format. The file
// is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnFigureStart(context.Context, string, string) {}

func (m *Metrics) OnStageComplete(_ context.Context, stage, _ string, d time.Duration, err error) {
	m.stageSeconds.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) OnFallback(_ context.Context, _, stage, kind string) {
	m.fallbacks.WithLabelValues(stage, kind).Inc()
}

func (m *Metrics) OnFigureComplete(_ context.Context, _, figType, state, kind string, d time.Duration) {
	m.figures.WithLabelValues(figType, state, kind).Inc()
	m.figureSeconds.WithLabelValues(figType).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
)
