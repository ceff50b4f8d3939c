package pipeline

import (
	"context"

	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/solver"
)

func solve(spec *figure.Spec, opts Options) (*solver.Resolved, error) {
	return solver.Resolve(spec, opts.Solver)
}

func place(ctx context.Context, r *solver.Resolved, opts Options) (*layout.Placed, error) {
	return layout.Place(ctx, r, opts.Canvas, opts.Layout)
}
