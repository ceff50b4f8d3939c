// Package cli implements the geofig command-line interface.
//
// Commands read question banks (text files with [FIGURE] blocks), push
// every block through the rendering pipeline, and write one artifact per
// requested format next to a .meta.json sidecar.
//
// # Commands
//
//   - render: render the blocks of one file
//   - batch: render many files concurrently with a progress view
//   - validate: parse and check blocks without rendering
//   - smoke: render one canonical figure of every type
//   - graph: draw a block's element references as a Graphviz diagram
//   - watch: re-render files whenever they change
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging through
// charmbracelet/log.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geofig/pkg/pipeline"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Rendered 12 figures (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logResult writes one line per finished figure. It is the non-interactive
// counterpart of the batch progress view.
func logResult(l *log.Logger, done, total int, res *pipeline.Result) {
	kv := []any{"figure", res.ID, "type", res.Type, "n", fmt.Sprintf("%d/%d", done, total)}
	switch {
	case res.Failed():
		kv = append(kv, "stage", res.Stage, "kind", res.Metadata.FailureKind, "error", res.Err)
		l.Warn("placeholder", kv...)
	case res.Metadata.Degraded:
		kv = append(kv, "diagnostics", len(res.Metadata.Diagnostics))
		l.Warn("degraded", kv...)
	default:
		kv = append(kv, "points", res.Stats.Points, "cached", res.CacheHit, "took", res.Stats.Total.Round(time.Microsecond))
		l.Debug("rendered", kv...)
	}
}
