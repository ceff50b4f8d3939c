package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/render"
)

// Options configures reference graph rendering.
type Options struct {
	// Detailed adds element fields (radius, value, style) to node labels.
	// When false, only the element name is shown.
	Detailed bool
}

// ref is one edge from an element to a point it names. A defining ref
// introduces the point; the others only use it.
type ref struct {
	field   string
	id      string
	defines bool
}

// ToDOT converts a figure into Graphviz DOT. Points are ellipses, elements
// are boxes; solid edges mark the element that defines a point and dashed
// edges mark later uses.
func ToDOT(spec *figure.Spec, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	fmt.Fprintf(&buf, "  label=%q;\n", string(spec.Type))
	buf.WriteString("\n")

	for _, id := range spec.PointIDs() {
		attrs := []string{fmt.Sprintf("label=%q", id), "shape=ellipse"}
		switch {
		case spec.IsFind(id):
			attrs = append(attrs, "fillcolor=\"#fadbd8\"")
		case spec.PointElement(id) != nil && spec.PointElement(id).LabelOnly:
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", "pt:"+id, strings.Join(attrs, ", "))
	}
	buf.WriteString("\n")

	for _, e := range spec.Elements {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", e.Name(), elementLabel(e, opts.Detailed))
	}
	buf.WriteString("\n")

	defined := make(map[string]bool)
	for _, e := range spec.Elements {
		for _, r := range refsOf(e) {
			if r.id == "" {
				continue
			}
			style := "dashed"
			if r.defines && !defined[r.id] {
				defined[r.id] = true
				style = "solid"
			}
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, style=%s];\n", e.Name(), "pt:"+r.id, r.field, style)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func refsOf(e figure.Element) []ref {
	var out []ref
	add := func(field string, defines bool, ids ...string) {
		for _, id := range ids {
			out = append(out, ref{field: field, id: id, defines: defines})
		}
	}
	switch {
	case e.Point != nil:
		p := e.Point
		add("label", true, p.Label)
		add("on_circle", false, p.OnCircle)
		add("on", false, p.On...)
		add("midpoint", false, p.Midpoint...)
		add("intersection", false, p.Intersection...)
		if p.Foot != nil {
			add("foot", false, p.Foot.From)
			add("foot", false, p.Foot.To...)
		}
		if p.Reflect != nil {
			add("reflect", false, p.Reflect.Of)
			add("reflect", false, p.Reflect.In...)
		}
	case e.Circle != nil:
		add("center", true, e.Circle.Center)
		add("points", true, e.Circle.Points...)
	case e.Tangent != nil:
		add("circle", false, e.Tangent.Circle)
		add("point", true, e.Tangent.Point)
		add("external_point", true, e.Tangent.ExternalPoint)
	case e.Polygon != nil:
		add("vertices", true, e.Polygon.Vertices...)
		add("inscribed_in", false, e.Polygon.InscribedIn)
		add("reference", false, e.Polygon.Reference()...)
	case e.Line != nil:
		add("points", false, e.Line.Points...)
	case e.Angle != nil:
		add("vertex", false, e.Angle.Vertex)
		add("rays", false, e.Angle.Rays...)
	case e.Arc != nil:
		add("circle", false, e.Arc.Circle)
		add("from", false, e.Arc.From)
		add("to", false, e.Arc.To)
	case e.Locus != nil:
		add("points", false, e.Locus.Points...)
	}
	return out
}

func elementLabel(e figure.Element, detailed bool) string {
	if !detailed {
		return e.Name()
	}
	var parts []string
	switch {
	case e.Circle != nil:
		if e.Circle.Radius != nil {
			parts = append(parts, "radius: "+strconv.FormatFloat(*e.Circle.Radius, 'g', -1, 64))
		}
	case e.Line != nil:
		if e.Line.Style != "" {
			parts = append(parts, "style: "+e.Line.Style)
		}
		if e.Line.Value != "" {
			parts = append(parts, "value: "+e.Line.Value)
		}
	case e.Angle != nil:
		parts = append(parts, "angle: "+e.Angle.Name())
		if e.Angle.Value != "" {
			parts = append(parts, "value: "+e.Angle.Value)
		}
	case e.Polygon != nil:
		if e.Polygon.Cyclic {
			parts = append(parts, "cyclic")
		}
		if e.Polygon.Ratio != "" {
			parts = append(parts, "ratio: "+e.Polygon.Ratio)
		}
	case e.Locus != nil:
		parts = append(parts, "kind: "+e.Locus.Kind)
	case e.Solid != nil:
		for s := e.Solid; s != nil; s = s.Nested {
			parts = append(parts, s.Kind)
		}
	}
	if len(parts) == 0 {
		return e.Name()
	}
	return e.Name() + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, geoerrors.Wrap(geoerrors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, geoerrors.Wrap(geoerrors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, geoerrors.Wrap(geoerrors.ErrCodeRender, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
