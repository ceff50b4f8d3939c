package smoke

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/pipeline"
)

func TestCanonicalCoversEveryType(t *testing.T) {
	for _, typ := range figure.Types {
		if _, ok := Canonical[typ]; !ok {
			t.Errorf("no canonical block for %s", typ)
		}
	}
	if len(Jobs()) != len(figure.Types) {
		t.Errorf("Jobs() = %d, want %d", len(Jobs()), len(figure.Types))
	}
}

func TestCanonicalBlocksValidate(t *testing.T) {
	for typ, block := range Canonical {
		t.Run(string(typ), func(t *testing.T) {
			spec, errs := figure.ParseAndValidate(block)
			if len(errs) > 0 {
				t.Fatalf("schema errors: %v", errs)
			}
			if spec.Type != typ {
				t.Errorf("block declares %s", spec.Type)
			}
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	report, err := Run(context.Background(), pipeline.NewRunner(nil, nil, nil), dir, pipeline.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Entries) != len(figure.Types) {
		t.Fatalf("%d entries, want %d", len(report.Entries), len(figure.Types))
	}
	for _, e := range report.Entries {
		if !e.Pass {
			t.Errorf("%s failed at %s: %v", e.Type, e.Stage, e.Err)
		}
		if len(e.Paths) != 2 {
			t.Errorf("%s wrote %v", e.Type, e.Paths)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "circle_tangent.svg")); err != nil {
		t.Errorf("tangent svg missing: %v", err)
	}
	if !report.OK() {
		t.Errorf("passed %d of %d", report.Passed(), len(report.Entries))
	}
}
