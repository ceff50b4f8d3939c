// Package nodelink renders a figure's reference graph with Graphviz.
//
// # Overview
//
// The graph is a debugging view of a figure block: every point id and
// every element becomes a node, and each element points at the ids it
// names. A solid edge marks the element that defines a point; dashed edges
// mark later uses. Find targets are tinted and label-only points are
// dashed.
//
// # Usage
//
//	dot := nodelink.ToDOT(spec, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT text can also be piped into any Graphviz tool.
package nodelink
