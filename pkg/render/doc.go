// Package render turns placed figures into artifacts.
//
// # Overview
//
// Rendering is split the same way for every figure:
//
//   - [styles]: the role-keyed style table
//   - [sink]: SVG, PNG, PDF, JSON and placeholder output
//   - [nodelink]: a Graphviz view of a figure's references, for debugging
//
// This package holds what the sinks share: the output [Format] list, the
// [Metadata] that accompanies every artifact, and SVG conversion through
// the external rsvg-convert tool.
//
//	svg := sink.RenderSVG(placed, styles.Default())
//	pdf, err := render.ToPDF(ctx, svg)
//
// [styles]: github.com/matzehuels/geofig/pkg/render/styles
// [sink]: github.com/matzehuels/geofig/pkg/render/sink
// [nodelink]: github.com/matzehuels/geofig/pkg/render/nodelink
package render
