package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/pipeline"
)

// captureStdout redirects status output for the duration of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintResult(t *testing.T) {
	tests := []struct {
		name  string
		res   *pipeline.Result
		paths []string
		want  []string
	}{
		{
			name:  "rendered",
			res:   &pipeline.Result{ID: "q1", Type: "circle_tangent", State: pipeline.StateRendered, Stats: pipeline.Stats{Points: 5, Labels: 4, Total: 3 * time.Millisecond}},
			paths: []string{"out/q1.svg"},
			want:  []string{iconSuccess, "q1", "5 points", "4 labels", iconFresh, "out/q1.svg"},
		},
		{
			name: "memo",
			res:  &pipeline.Result{ID: "q1", State: pipeline.StateRendered, CacheHit: true, Stats: pipeline.Stats{Points: 5}},
			want: []string{iconCached},
		},
		{
			name: "degraded",
			res: func() *pipeline.Result {
				r := rendered("q3")
				r.Metadata.Degraded = true
				r.Metadata.Diagnostics = []geoerrors.Diagnostic{{Code: geoerrors.ErrCodeLayout, Stage: pipeline.StageLayout, Element: "label[B]", Message: "overlaps"}}
				return r
			}(),
			want: []string{iconWarning, "degraded", "LAYOUT at layout (label[B]): overlaps"},
		},
		{
			name: "failed",
			res:  failed("q2"),
			want: []string{iconError, "placeholder, failed at validate", "SCHEMA at validate"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			printResult(tt.res, tt.paths)
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestPrintStatusLines(t *testing.T) {
	out := captureStdout(t)
	printSuccess("wrote %d files", 3)
	printError("bad block")
	printInfo("watching")
	printKeyValue("output", "figures")
	printNextStep("Inspect the failing blocks", "geofig validate a.txt")

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), out.String())
	}
	for i, want := range []string{"wrote 3 files", "bad block", "watching", "figures", "geofig validate a.txt"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}
