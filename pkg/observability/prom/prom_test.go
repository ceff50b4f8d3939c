package prom

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMetricsTextfile(t *testing.T) {
	ctx := context.Background()
	m := New()
	m.OnStageComplete(ctx, "solve", "circle_tangent", 2*time.Millisecond, nil)
	m.OnStageComplete(ctx, "solve", "triangle_properties", time.Millisecond, errors.New("degenerate"))
	m.OnFallback(ctx, "q2", "solve", "GEOMETRY_SOLVE")
	m.OnFigureComplete(ctx, "q1", "circle_tangent", "rendered", "", 10*time.Millisecond)
	m.OnFigureComplete(ctx, "q2", "triangle_properties", "failed", "GEOMETRY_SOLVE", 5*time.Millisecond)
	m.OnCacheMiss(ctx, "artifact")
	m.OnCacheSet(ctx, "artifact", 2048)
	m.OnCacheHit(ctx, "artifact")

	path := filepath.Join(t.TempDir(), "geofig.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		`geofig_figures_total{kind="",state="rendered",type="circle_tangent"} 1`,
		`geofig_figures_total{kind="GEOMETRY_SOLVE",state="failed",type="triangle_properties"} 1`,
		`geofig_stage_errors_total{stage="solve"} 1`,
		`geofig_fallbacks_total{kind="GEOMETRY_SOLVE",stage="solve"} 1`,
		`geofig_cache_events_total{event="hit",key_type="artifact"} 1`,
		`geofig_cache_written_bytes_total 2048`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("textfile missing %s", want)
		}
	}
}
