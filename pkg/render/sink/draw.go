package sink

import (
	"math"

	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/geometry"
	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/render/styles"
	"github.com/matzehuels/geofig/pkg/solver"
)

// =============================================================================
// Draw list
// =============================================================================

// Every sink walks the same draw list so SVG and PNG stack identically:
// fills, visible strokes, hidden overlays, angle marks, point markers,
// labels.

type op int

const (
	opFill op = iota
	opStroke
	opDot
	opText
)

type shapeKind int

const (
	shapePoly shapeKind = iota
	shapeCircle
	shapeArc
)

type shape struct {
	kind   shapeKind
	pts    []geometry.Vec
	closed bool
	center geometry.Vec
	r      float64
	start  float64
	sweep  float64
}

type item struct {
	op    op
	layer string
	shape shape
	style styles.Style
	text  string
	at    geometry.Vec
	size  float64
}

const fullTurn = 2 * math.Pi

func drawList(p *layout.Placed, t styles.Table) []item {
	s := &p.Scene
	var out []item

	for _, f := range s.Fills {
		st := t.For(f.Role)
		if st.Fill == "" || st.Fill == "none" {
			st.Fill = styles.ColorFill
		}
		out = append(out, item{op: opFill, layer: "fill", shape: shape{kind: shapePoly, pts: f.Points, closed: true}, style: st})
	}

	strokes := func(hidden bool) {
		layer := "lines"
		if hidden {
			layer = "hidden"
		}
		keep := func(r figure.Role) bool { return (r == figure.RoleHidden) == hidden }
		for _, c := range s.Circles {
			if keep(c.Role) {
				out = append(out, item{op: opStroke, layer: layer, shape: shape{kind: shapeCircle, center: c.Center, r: c.Radius}, style: t.Circle(c.Role)})
			}
		}
		for _, sg := range s.Segments {
			if keep(sg.Role) {
				out = append(out, item{op: opStroke, layer: layer, shape: shape{kind: shapePoly, pts: []geometry.Vec{sg.A, sg.B}}, style: t.For(sg.Role)})
			}
		}
		for _, pl := range s.Polylines {
			if keep(pl.Role) && len(pl.Points) > 1 {
				out = append(out, item{op: opStroke, layer: layer, shape: shape{kind: shapePoly, pts: pl.Points, closed: pl.Closed}, style: t.For(pl.Role)})
			}
		}
		for _, a := range s.Arcs {
			if keep(a.Role) {
				out = append(out, item{op: opStroke, layer: layer, shape: arcShape(a.Center, a.Radius, a.Start, a.Sweep), style: t.Circle(a.Role)})
			}
		}
	}
	strokes(false)
	strokes(true)

	for _, m := range s.Angles {
		st := t.Angle(m.Role)
		if m.Right {
			c := layout.RightMark(m)
			out = append(out, item{op: opStroke, layer: "angles", shape: shape{kind: shapePoly, pts: c[:]}, style: st})
			continue
		}
		start, sweep := layout.MarkArc(m)
		for _, r := range layout.MarkRadii(m) {
			out = append(out, item{op: opStroke, layer: "angles", shape: arcShape(m.Vertex, r, start, sweep), style: st})
		}
	}

	dot := styles.Style{Fill: t.Text()}
	for _, pt := range s.Points {
		if pt.Kind == solver.PointLabelOnly {
			continue
		}
		out = append(out, item{op: opDot, layer: "points", shape: shape{kind: shapeCircle, center: pt.Pos, r: layout.PointRadius}, style: dot})
	}

	for _, l := range p.Labels {
		st := styles.Style{Fill: labelColor(t, l.Role)}
		out = append(out, item{op: opText, layer: "labels", text: l.Text, at: l.Pos, size: p.FontSize, style: st})
	}
	return out
}

func arcShape(c geometry.Vec, r, start, sweep float64) shape {
	if math.Abs(sweep) >= fullTurn-1e-9 {
		return shape{kind: shapeCircle, center: c, r: r}
	}
	return shape{kind: shapeArc, center: c, r: r, start: start, sweep: sweep}
}

func labelColor(t styles.Table, role figure.Role) string {
	switch role {
	case figure.RoleFind, figure.RoleConstruction:
		return t.For(role).Color
	}
	return t.Text()
}

// endpoints returns the first and last point of an arc shape.
func (s shape) endpoints() (geometry.Vec, geometry.Vec) {
	return s.center.Add(geometry.Polar(s.r, s.start)), s.center.Add(geometry.Polar(s.r, s.start+s.sweep))
}
