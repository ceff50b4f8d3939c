// Package pipeline runs figure blocks through every stage of the engine.
//
// This package implements the complete parse → validate → solve → layout →
// render pipeline used by every CLI command. By centralizing this logic,
// single renders, batch runs, watch mode and the smoke surface all share
// the same failure handling.
//
// # Stages and states
//
// A figure moves through the states
//
//	Parsed → Validated → Resolved → LaidOut → Rendered
//
// and any transition may end in Failed instead. A failed figure still
// yields an artifact in every requested format: a placeholder carrying the
// figure's description, with metadata naming the failure kind. Errors never
// cross the single-figure boundary; [Runner.Run] only returns an error for
// invalid [Options].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	res, err := runner.Run(ctx, pipeline.Job{ID: "q1", Block: text}, pipeline.Options{
//	    Formats: []render.Format{render.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := res.Artifacts[render.FormatSVG]
//
// Batches run on a bounded worker pool:
//
//	results, err := runner.RunBatch(ctx, jobs, opts, nil)
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/geofig/pkg/cache"
	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/render"
	"github.com/matzehuels/geofig/pkg/render/styles"
	"github.com/matzehuels/geofig/pkg/solver"
)

// =============================================================================
// Default Values - Single Source of Truth for every command
// =============================================================================

// DefaultTimeout bounds the wall time of one figure.
const DefaultTimeout = 10 * time.Second

// DefaultFormats is used when no format is requested.
var DefaultFormats = []render.Format{render.FormatSVG}

// Stage names, as they appear in logs, diagnostics and metrics.
const (
	StageParse    = "parse"
	StageValidate = "validate"
	StageSolve    = "solve"
	StageLayout   = "layout"
	StageRender   = "render"
)

// =============================================================================
// State
// =============================================================================

// State is how far a figure got.
type State int

const (
	StatePending State = iota
	StateParsed
	StateValidated
	StateResolved
	StateLaidOut
	StateRendered
	StateFailed
)

var stateNames = [...]string{"pending", "parsed", "validated", "resolved", "laid_out", "rendered", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(text []byte) error {
	for i, n := range stateNames {
		if n == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Job is one figure block to render.
type Job struct {
	// ID names the figure in logs, metrics and output file names.
	ID string `json:"id"`
	// Block is the raw declarative text, without [FIGURE] markers.
	Block string `json:"block"`
	// Source is where the block came from, e.g. "bank.txt#3". Optional.
	Source string `json:"source,omitempty"`
}

// Options contains all configuration for the figure pipeline.
type Options struct {
	Formats []render.Format `json:"formats"`
	Canvas  layout.Canvas   `json:"canvas"`
	Solver  solver.Options  `json:"solver"`
	Layout  layout.Options  `json:"layout"`
	Styles  *styles.Table   `json:"styles,omitempty"`

	// Timeout bounds each figure; zero means DefaultTimeout.
	Timeout time.Duration `json:"timeout,omitempty"`
	// Workers bounds RunBatch; zero means runtime.NumCPU().
	Workers int `json:"workers,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

var optionsValidator = validator.New()

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = append([]render.Format(nil), DefaultFormats...)
	}
	for _, f := range o.Formats {
		if _, err := render.ParseFormat(string(f)); err != nil {
			return err
		}
	}

	if o.Canvas == (layout.Canvas{}) {
		o.Canvas = layout.DefaultCanvas()
	}
	if err := optionsValidator.Struct(o.Canvas); err != nil {
		return geoerrors.Wrap(geoerrors.ErrCodeInvalidConfig, err, "canvas")
	}
	o.Canvas = o.Canvas.WithDefaults()
	o.Solver = o.Solver.WithDefaults()
	o.Layout = o.Layout.WithDefaults()

	if o.Styles == nil {
		t := styles.Default()
		o.Styles = &t
	}
	if o.Timeout < 0 {
		return geoerrors.New(geoerrors.ErrCodeInvalidConfig, "timeout must not be negative")
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Workers < 0 {
		return geoerrors.New(geoerrors.ErrCodeInvalidConfig, "workers must not be negative")
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns the memo key options: everything that changes
// the rendered bytes.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	formats := make([]string, len(o.Formats))
	for i, f := range o.Formats {
		formats[i] = string(f)
	}
	return cache.ArtifactKeyOpts{
		Formats: formats,
		Settings: struct {
			Canvas layout.Canvas  `json:"canvas"`
			Solver solver.Options `json:"solver"`
			Layout layout.Options `json:"layout"`
			Styles *styles.Table  `json:"styles"`
		}{o.Canvas, o.Solver, o.Layout, o.Styles},
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of one figure run.
type Result struct {
	ID          string
	Type        figure.Type
	Description string

	// Spec is the decoded block. It is nil when the result came from the
	// memo.
	Spec *figure.Spec

	State State
	// Stage is where a failed figure stopped.
	Stage string

	// Artifacts contains rendered outputs keyed by format. Failed figures
	// carry placeholders.
	Artifacts map[render.Format][]byte
	Metadata  render.Metadata

	// Err is the failure cause when State is StateFailed.
	Err error

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports that the artifacts came from the memo.
	CacheHit bool
}

// Failed reports whether the figure ended in a placeholder.
func (r *Result) Failed() bool { return r.State == StateFailed }

// Stats contains pipeline execution statistics.
type Stats struct {
	Points     int
	Labels     int
	ParseTime  time.Duration
	SolveTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
	Total      time.Duration
}
