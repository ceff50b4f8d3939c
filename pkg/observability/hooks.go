// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. The CLI registers hooks
// at startup; the pipeline and cache emit events through whatever is
// registered.
//
// Two interfaces cover the events a figure run produces: [PipelineHooks]
// for stage timings, fallbacks and final states, and [CacheHooks] for the
// artifact memo. Both default to no-ops.
//
// The Prometheus implementation lives in [prom], which writes batch
// metrics to a node-exporter textfile.
//
// # Usage
//
// The batch command registers metrics around a run:
//
//	m := prom.New()
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//	defer observability.Reset()
//	// ... run batch
//	m.WriteTextfile("geofig.prom")
//
// The pipeline emits events:
//
//	observability.Pipeline().OnFigureStart(ctx, id, figType)
//	// ... solve, place, render ...
//	observability.Pipeline().OnFigureComplete(ctx, id, figType, state, kind, duration)
//
// [prom]: github.com/matzehuels/geofig/pkg/observability/prom
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the figure pipeline. Figure types and
// failure kinds are plain strings so that backends need no geofig imports.
type PipelineHooks interface {
	// OnFigureStart fires once per figure before parsing.
	OnFigureStart(ctx context.Context, id, figType string)

	// OnStageComplete fires after each stage (validate, solve, layout,
	// render) with the stage's error, if any.
	OnStageComplete(ctx context.Context, stage, figType string, duration time.Duration, err error)

	// OnFallback fires whenever a figure degrades or fails over to a
	// placeholder. kind is the failure kind code.
	OnFallback(ctx context.Context, id, stage, kind string)

	// OnFigureComplete fires once per figure with its final state.
	OnFigureComplete(ctx context.Context, id, figType, state, kind string, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnFigureStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopPipelineHooks) OnFallback(context.Context, string, string, string) {}
func (NoopPipelineHooks) OnFigureComplete(context.Context, string, string, string, string, time.Duration) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// hookSet is swapped as a whole so readers on worker goroutines never see
// a half-updated registry and never take a lock.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
}

var registry atomic.Pointer[hookSet]

func init() { Reset() }

func current() *hookSet { return registry.Load() }

// SetPipelineHooks registers pipeline hooks. nil is ignored. Call it
// before starting a batch.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	next := *current()
	next.pipeline = h
	registry.Store(&next)
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	next := *current()
	next.cache = h
	registry.Store(&next)
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current().cache }

// Reset restores the no-op hooks. The CLI defers it after a batch that
// registered metrics.
func Reset() {
	registry.Store(&hookSet{pipeline: NoopPipelineHooks{}, cache: NoopCacheHooks{}})
}
