// Package sink provides output format renderers for placed figures.
//
// # Overview
//
// A "sink" transforms a [layout.Placed] figure into a final output format:
//
//   - SVG: hand-written vector output with the label font embedded
//   - PNG: rasterised in-process with a gogpu/gg software context
//   - PDF: the SVG converted by rsvg-convert
//   - JSON: placed geometry, canonical coordinates and metadata
//
// All of them share one draw order: filled solids, then visible circles
// and lines, then hidden (dashed) overlays, then angle marks, point
// markers and labels last. Colors and dash patterns come only from the
// [styles.Table] passed in.
//
// # Placeholders
//
// [Placeholder] renders the figure description inside a dashed frame. The
// pipeline emits it whenever a figure fails so that every request yields
// an artifact.
//
//	svg := sink.RenderSVG(placed, styles.Default())
//	png, err := sink.RenderPNG(ctx, placed, styles.Default(), sink.WithScale(2))
//
// [layout.Placed]: github.com/matzehuels/geofig/pkg/layout.Placed
// [styles.Table]: github.com/matzehuels/geofig/pkg/render/styles.Table
package sink
