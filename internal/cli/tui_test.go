package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/pipeline"
	"github.com/matzehuels/geofig/pkg/render"
)

func rendered(id string) *pipeline.Result {
	return &pipeline.Result{ID: id, Type: figure.TypeCircleTangent, State: pipeline.StateRendered}
}

func failed(id string) *pipeline.Result {
	return &pipeline.Result{
		ID:    id,
		Type:  figure.TypeTriangleProperties,
		State: pipeline.StateFailed,
		Stage: pipeline.StageValidate,
		Err:   errors.New("references undefined point"),
		Metadata: render.Metadata{
			Degraded:    true,
			FailureKind: geoerrors.ErrCodeSchema,
			Diagnostics: []geoerrors.Diagnostic{{Code: geoerrors.ErrCodeSchema, Stage: pipeline.StageValidate, Message: `references undefined point "Z"`}},
		},
	}
}

func TestBatchModelUpdate(t *testing.T) {
	aborted := false
	var m tea.Model = NewBatchModel(3, func() { aborted = true })

	m, _ = m.Update(figureDoneMsg{done: 1, total: 3, res: rendered("q1")})
	m, _ = m.Update(figureDoneMsg{done: 2, total: 3, res: failed("q2")})
	bm := m.(BatchModel)
	if bm.Done != 2 || bm.Rendered != 1 || bm.Failed != 1 {
		t.Fatalf("counts = done %d rendered %d failed %d", bm.Done, bm.Rendered, bm.Failed)
	}

	view := bm.View()
	for _, want := range []string{"q1", "q2", "Rendering figures"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(batchDoneMsg{})
	if cmd == nil {
		t.Error("batchDoneMsg should quit")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.(BatchModel).Aborted || !aborted {
		t.Error("ctrl+c should abort the batch")
	}
}

func TestBatchModelRecentLimit(t *testing.T) {
	var m tea.Model = NewBatchModel(20, nil)
	for i := range 20 {
		m, _ = m.Update(figureDoneMsg{done: i + 1, total: 20, res: rendered("q")})
	}
	if n := len(m.(BatchModel).Recent); n != recentLimit {
		t.Errorf("recent list has %d entries, want %d", n, recentLimit)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total, width int
		full               int
	}{
		{0, 10, 10, 0},
		{5, 10, 10, 5},
		{10, 10, 10, 10},
		{0, 0, 4, 0},
	}
	for _, tt := range tests {
		bar := progressBar(tt.done, tt.total, tt.width)
		if got := strings.Count(bar, "█"); got != tt.full {
			t.Errorf("progressBar(%d, %d, %d) has %d full cells, want %d", tt.done, tt.total, tt.width, got, tt.full)
		}
	}
}

func TestSummaryTable(t *testing.T) {
	out := summaryTable([]*pipeline.Result{rendered("q1"), failed("q2")})
	for _, want := range []string{"2 figures", "q2", "failed at validate", "SCHEMA"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "q1") {
		t.Error("clean figures should not get a row")
	}

	clean := summaryTable([]*pipeline.Result{rendered("q1")})
	if strings.Contains(clean, "Outcome") {
		t.Error("no table expected when every figure rendered cleanly")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate kept %q", got)
	}
	if got := truncate("°°°°°°", 4); got != "°°°…" {
		t.Errorf("truncate = %q", got)
	}
}
