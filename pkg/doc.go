// Package pkg provides the libraries behind geofig, a renderer for the
// geometry figures in exam question banks.
//
// # Overview
//
// A figure is described in a small YAML block: a figure type, the elements
// to draw (circles, triangles, tangents, solids), given values and the
// values the question asks for. geofig resolves the missing coordinates,
// places labels so they do not collide, and draws the result.
//
// The data flow for one block:
//
//	question bank text
//	         ↓
//	    [io]       extract [FIGURE] blocks
//	         ↓
//	    [figure]   parse and validate the block
//	         ↓
//	    [solver]   resolve coordinates from the constraints
//	         ↓
//	    [layout]   fit to the canvas, place labels and marks
//	         ↓
//	    [render]   SVG, PNG, PDF and JSON output
//
// [pipeline] runs these stages with a per-figure time limit and turns any
// failure into a labelled placeholder, so a batch always yields one image
// per block.
//
// # Quick Start
//
//	import (
//	    "context"
//
//	    "github.com/matzehuels/geofig/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Run(context.Background(), pipeline.Job{
//	    ID:    "q1",
//	    Block: block,
//	}, pipeline.Options{})
//	// res.Artifacts[render.FormatSVG] holds the drawing.
//
// # Packages
//
// Domain:
//
//   - [figure]: block schema, element kinds, value parsing, validation
//   - [geometry]: vectors, lines, circles, hulls and bounding boxes
//   - [solver]: coordinate resolution per figure family
//   - [layout]: canvas fitting, label placement, angle and tick marks
//   - [render]: output formats; [render/sink] draws, [render/styles]
//     holds role styles, [render/nodelink] draws reference graphs
//
// Orchestration and infrastructure:
//
//   - [pipeline]: stage runner, memo, batch worker pool
//   - [cache]: memo storage and key derivation
//   - [config]: geofig.toml loading
//   - [io]: question bank reading, atomic artifact writing
//   - [errors]: error codes, diagnostics and path validation
//   - [observability]: hooks, with Prometheus in [observability/prom]
//   - [smoke]: one canonical figure per type
//   - [fonts]: the embedded label font
//   - [buildinfo]: version information
//
// [figure]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/figure
// [geometry]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/geometry
// [solver]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/solver
// [layout]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/render/sink
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/render/styles
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/observability/prom
// [smoke]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/smoke
// [fonts]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/fonts
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/geofig/pkg/buildinfo
package pkg
