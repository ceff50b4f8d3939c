package layout_test

import (
	"context"
	"testing"

	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/smoke"
	"github.com/matzehuels/geofig/pkg/solver"
)

// maxSparseLabels is the label count up to which a standard canvas must
// place every label without overlap.
const maxSparseLabels = 6

func TestPlace_CanonicalCorpusNoOverlap(t *testing.T) {
	families := make(map[string]int)
	for _, typ := range figure.Types {
		block, ok := smoke.Canonical[typ]
		if !ok {
			t.Fatalf("no canonical block for %s", typ)
		}
		v, _ := solver.VariantFor(typ)

		t.Run(string(typ), func(t *testing.T) {
			spec, errs := figure.ParseAndValidate(block)
			if len(errs) > 0 {
				t.Fatalf("ParseAndValidate: %v", errs)
			}
			r, err := solver.Resolve(spec, solver.Options{})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			p, err := layout.Place(context.Background(), r, layout.DefaultCanvas(), layout.Options{})
			if err != nil {
				t.Fatalf("Place: %v", err)
			}
			if len(p.Labels) > maxSparseLabels {
				return
			}
			families[v.Name()]++
			for i := range p.Labels {
				for j := i + 1; j < len(p.Labels); j++ {
					if a := p.Labels[i].Box.Overlap(p.Labels[j].Box); a > 0 {
						t.Errorf("labels %q and %q overlap by %g", p.Labels[i].Text, p.Labels[j].Text, a)
					}
				}
			}
		})
	}

	for _, name := range solver.Variants() {
		if families[name] == 0 {
			t.Errorf("no figure with at most %d labels exercises the %s variant", maxSparseLabels, name)
		}
	}
}
