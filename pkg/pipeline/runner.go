package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/geofig/pkg/cache"
	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/observability"
	"github.com/matzehuels/geofig/pkg/render"
	"github.com/matzehuels/geofig/pkg/solver"
)

const keyTypeArtifact = "artifact"

// Runner encapsulates pipeline execution with memoisation.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner; identical blocks running at the same time are solved once.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	inflight singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (memoisation disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Run takes one block through every stage. The returned error is non-nil
// only when opts are invalid; figure failures are reported in the Result.
func (r *Runner) Run(ctx context.Context, job Job, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	key := r.Keyer.ArtifactKey(cache.HashBlock(job.Block), opts.ArtifactKeyOpts())
	leader := false
	v, _, _ := r.inflight.Do(key, func() (any, error) {
		leader = true
		if res, ok := r.lookup(ctx, key, job); ok {
			opts.Logger.Debug("served from memo", "figure", job.ID, "type", res.Type)
			return res, nil
		}
		res := r.execute(ctx, job, opts)
		r.store(ctx, key, res)
		return res, nil
	})
	res := v.(*Result)
	if !leader {
		res = res.clone(job.ID)
		res.CacheHit = true
	}
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// execute is the single-figure boundary: nothing it calls can fail the
// caller.
func (r *Runner) execute(ctx context.Context, job Job, opts Options) *Result {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	res := &Result{ID: job.ID, State: StatePending}
	observability.Pipeline().OnFigureStart(ctx, job.ID, "")

	// Stage 1: Parse
	spec, err := runStage(ctx, res, StageParse, &res.Stats.ParseTime, func() (*figure.Spec, error) {
		return parseBlock(job.Block)
	})
	if spec != nil {
		res.Spec, res.Type, res.Description = spec, spec.Type, spec.Description
	}
	if err != nil {
		return r.fail(ctx, res, StageParse, err, opts, start)
	}
	res.State = StateParsed

	// Stage 2: Validate
	if _, err := runStage(ctx, res, StageValidate, &res.Stats.ParseTime, func() (struct{}, error) {
		return struct{}{}, validateSpec(spec)
	}); err != nil {
		return r.fail(ctx, res, StageValidate, err, opts, start)
	}
	res.State = StateValidated

	// Stage 3: Solve
	resolved, err := runStage(ctx, res, StageSolve, &res.Stats.SolveTime, func() (*solver.Resolved, error) {
		return solve(spec, opts)
	})
	if err != nil {
		return r.fail(ctx, res, StageSolve, err, opts, start)
	}
	res.State = StateResolved
	res.Stats.Points = len(resolved.Points)
	opts.Logger.Debug("solved figure", "figure", job.ID, "type", res.Type, "points", res.Stats.Points, "duration", res.Stats.SolveTime)

	// Stage 4: Layout
	placed, err := runStage(ctx, res, StageLayout, &res.Stats.LayoutTime, func() (*layout.Placed, error) {
		return place(ctx, resolved, opts)
	})
	if err != nil {
		return r.fail(ctx, res, StageLayout, err, opts, start)
	}
	res.State = StateLaidOut
	res.Stats.Labels = len(placed.Labels)
	if placed.Degraded {
		for _, d := range placed.Diagnostics {
			opts.Logger.Warn("label placement degraded",
				"figure", job.ID, "stage", d.Stage, "kind", d.Code, "error", d.Message)
		}
		observability.Pipeline().OnFallback(ctx, job.ID, StageLayout, string(geoerrors.ErrCodeLayout))
	}

	// Stage 5: Render
	artifacts, err := runStage(ctx, res, StageRender, &res.Stats.RenderTime, func() (map[render.Format][]byte, error) {
		return renderArtifacts(ctx, placed, opts)
	})
	if err != nil {
		return r.fail(ctx, res, StageRender, err, opts, start)
	}
	res.State = StateRendered
	res.Artifacts = artifacts
	res.Metadata = render.MetadataOf(placed)
	res.Stats.Total = time.Since(start)

	opts.Logger.Info("rendered figure",
		"figure", job.ID,
		"type", res.Type,
		"formats", opts.Formats,
		"degraded", placed.Degraded,
		"duration", res.Stats.Total)
	observability.Pipeline().OnFigureComplete(ctx, job.ID, string(res.Type), res.State.String(), "", res.Stats.Total)
	return res
}

// fail turns res into a placeholder result and reports the fallback.
func (r *Runner) fail(ctx context.Context, res *Result, stage string, err error, opts Options, start time.Time) *Result {
	kind := geoerrors.GetCode(err)
	if kind == "" {
		kind = geoerrors.ErrCodeInternal
	}
	res.State = StateFailed
	res.Stage = stage
	res.Err = err

	diags := diagnosticsFor(stage, err)
	artifacts, perr := placeholders(ctx, res.Description, opts)
	if perr != nil {
		diags = append(diags, geoerrors.NewDiagnostic(StageRender, perr))
		opts.Logger.Error("placeholder failed", "figure", res.ID, "error", perr)
	}
	res.Artifacts = artifacts
	res.Metadata = render.Failed(opts.Canvas, kind, diags)
	res.Stats.Total = time.Since(start)

	opts.Logger.Warn("figure failed",
		"figure", res.ID,
		"stage", stage,
		"kind", kind,
		"error", err)
	hooks := observability.Pipeline()
	hooks.OnFallback(ctx, res.ID, stage, string(kind))
	hooks.OnFigureComplete(ctx, res.ID, string(res.Type), res.State.String(), string(kind), res.Stats.Total)
	return res
}

// runStage runs one stage: it refuses to start once ctx is done, turns a
// panic into an internal error, adds the elapsed time to acc and reports
// the stage to the hooks. fn runs on its own goroutine so that a stage
// which ignores ctx still ends at the deadline; its late result is dropped.
func runStage[T any](ctx context.Context, res *Result, stage string, acc *time.Duration, fn func() (T, error)) (T, error) {
	type outcome struct {
		v   T
		err error
	}
	if cerr := ctx.Err(); cerr != nil {
		var zero T
		return zero, geoerrors.Wrap(geoerrors.ErrCodeRenderTimeout, cerr, "figure timed out before %s", stage)
	}

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		var o outcome
		defer func() {
			if p := recover(); p != nil {
				o = outcome{err: geoerrors.New(geoerrors.ErrCodeInternal, "%s panicked: %v", stage, p)}
			}
			done <- o
		}()
		o.v, o.err = fn()
	}()

	var o outcome
	select {
	case o = <-done:
		// A stage that overran the deadline is a timeout whatever it returned.
		if o.err != nil && ctx.Err() != nil && !geoerrors.Is(o.err, geoerrors.ErrCodeRenderTimeout) {
			o.err = geoerrors.Wrap(geoerrors.ErrCodeRenderTimeout, o.err, "%s exceeded the figure deadline", stage)
		}
	case <-ctx.Done():
		o.err = geoerrors.Wrap(geoerrors.ErrCodeRenderTimeout, ctx.Err(), "%s exceeded the figure deadline", stage)
	}

	d := time.Since(start)
	*acc += d
	observability.Pipeline().OnStageComplete(ctx, stage, string(res.Type), d, o.err)
	return o.v, o.err
}

// =============================================================================
// Memo
// =============================================================================

// memoEntry is the stored form of a finished figure.
type memoEntry struct {
	Type        figure.Type              `json:"type"`
	Description string                   `json:"description"`
	State       State                    `json:"state"`
	Stage       string                   `json:"stage,omitempty"`
	Artifacts   map[render.Format][]byte `json:"artifacts"`
	Metadata    render.Metadata          `json:"metadata"`
	ErrCode     geoerrors.Code           `json:"err_code,omitempty"`
	ErrMessage  string                   `json:"err_message,omitempty"`
	Stats       Stats                    `json:"stats"`
}

func (r *Runner) lookup(ctx context.Context, key string, job Job) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		return nil, false
	}
	var e memoEntry
	if err := json.Unmarshal(data, &e); err != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
	res := &Result{
		ID:          job.ID,
		Type:        e.Type,
		Description: e.Description,
		State:       e.State,
		Stage:       e.Stage,
		Artifacts:   e.Artifacts,
		Metadata:    e.Metadata,
		Stats:       e.Stats,
		CacheHit:    true,
	}
	if e.State == StateFailed {
		res.Err = geoerrors.New(e.ErrCode, "%s", e.ErrMessage)
	}
	return res, true
}

// store memoises res. Timeouts depend on load, not on the block, so they
// are never stored.
func (r *Runner) store(ctx context.Context, key string, res *Result) {
	if res.Failed() && geoerrors.Is(res.Err, geoerrors.ErrCodeRenderTimeout) {
		return
	}
	e := memoEntry{
		Type:        res.Type,
		Description: res.Description,
		State:       res.State,
		Stage:       res.Stage,
		Artifacts:   res.Artifacts,
		Metadata:    res.Metadata,
		Stats:       res.Stats,
	}
	if res.Err != nil {
		e.ErrCode = geoerrors.GetCode(res.Err)
		e.ErrMessage = geoerrors.UserMessage(res.Err)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
}

// clone copies res for another job that shared its run.
func (res *Result) clone(id string) *Result {
	c := *res
	c.ID = id
	c.Artifacts = maps.Clone(res.Artifacts)
	return &c
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
