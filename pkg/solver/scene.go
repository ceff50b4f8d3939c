package solver

import (
	"math"

	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/geometry"
)

// =============================================================================
// Primitives
// =============================================================================

// PointKind tells how a point got its position.
type PointKind int

const (
	PointGiven     PointKind = iota // authored or placed by the default policy
	PointDerived                    // computed from other points
	PointLabelOnly                  // labelled but drawn without a marker
)

// Point is a placed point id.
type Point struct {
	ID   string       `json:"id"`
	Pos  geometry.Vec `json:"pos"`
	Kind PointKind    `json:"kind"`
	Role figure.Role  `json:"role"`
}

// Circle is a drawn circle outline.
type Circle struct {
	ID     string       `json:"id,omitempty"`
	Center geometry.Vec `json:"center"`
	Radius float64      `json:"radius"`
	Role   figure.Role  `json:"role"`
}

// Segment is a drawn straight segment.
type Segment struct {
	A    geometry.Vec `json:"a"`
	B    geometry.Vec `json:"b"`
	From string       `json:"from,omitempty"`
	To   string       `json:"to,omitempty"`
	Role figure.Role  `json:"role"`
}

// Arc is a circular arc from Start, sweeping Sweep radians
// counter-clockwise (negative sweeps run clockwise).
type Arc struct {
	Center geometry.Vec `json:"center"`
	Radius float64      `json:"radius"`
	Start  float64      `json:"start"`
	Sweep  float64      `json:"sweep"`
	Role   figure.Role  `json:"role"`
}

// At returns the point of the arc at fraction t of its sweep.
func (a Arc) At(t float64) geometry.Vec {
	return a.Center.Add(geometry.Polar(a.Radius, a.Start+t*a.Sweep))
}

// AngleMark marks the angle at Vertex between the rays toward A and B.
// Renderers size the mark in canvas units.
type AngleMark struct {
	Name   string       `json:"name"`
	Vertex geometry.Vec `json:"vertex"`
	A      geometry.Vec `json:"a"`
	B      geometry.Vec `json:"b"`
	Text   string       `json:"text,omitempty"`
	Arcs   int          `json:"arcs"`
	Right  bool         `json:"right"`
	Role   figure.Role  `json:"role"`
}

// Bisector returns the unit direction halving the marked angle.
func (m AngleMark) Bisector() geometry.Vec {
	return geometry.AngleBisector(m.Vertex, m.A, m.B).D.Unit()
}

// Polyline is a sampled curve or a run of straight pieces.
type Polyline struct {
	Points []geometry.Vec `json:"points"`
	Closed bool           `json:"closed,omitempty"`
	Role   figure.Role    `json:"role"`
}

// Fill is a shaded region.
type Fill struct {
	Points []geometry.Vec `json:"points"`
	Role   figure.Role    `json:"role"`
}

// LabelKind selects how a label is offset from its anchor.
type LabelKind int

const (
	LabelPoint LabelKind = iota // point name, pushed away from the figure
	LabelAngle                  // angle value, placed along the bisector
	LabelValue                  // length or dimension, beside a segment
)

// Label is text waiting to be placed by the layout stage.
type Label struct {
	Text   string       `json:"text"`
	Anchor geometry.Vec `json:"anchor"`
	Kind   LabelKind    `json:"kind"`
	// Dir is the preferred offset direction; zero means outward from the
	// figure's centroid.
	Dir  geometry.Vec `json:"dir"`
	Role figure.Role  `json:"role"`
}

// =============================================================================
// Scene
// =============================================================================

// Scene holds everything a renderer draws, grouped by draw layer.
type Scene struct {
	Fills     []Fill      `json:"fills,omitempty"`
	Circles   []Circle    `json:"circles,omitempty"`
	Segments  []Segment   `json:"segments,omitempty"`
	Polylines []Polyline  `json:"polylines,omitempty"`
	Arcs      []Arc       `json:"arcs,omitempty"`
	Angles    []AngleMark `json:"angles,omitempty"`
	Points    []Point     `json:"points,omitempty"`
	Labels    []Label     `json:"labels,omitempty"`
}

// Bounds returns the box around all drawn geometry. Labels are excluded;
// they have no size until laid out.
func (s *Scene) Bounds() geometry.Rect {
	var r geometry.Rect
	for _, f := range s.Fills {
		for _, p := range f.Points {
			r = r.Extend(p)
		}
	}
	for _, c := range s.Circles {
		r = r.Union(geometry.RectAround(c.Center, 2*c.Radius, 2*c.Radius))
	}
	for _, sg := range s.Segments {
		r = r.Extend(sg.A).Extend(sg.B)
	}
	for _, pl := range s.Polylines {
		for _, p := range pl.Points {
			r = r.Extend(p)
		}
	}
	for _, a := range s.Arcs {
		const n = 24
		for i := 0; i <= n; i++ {
			r = r.Extend(a.At(float64(i) / n))
		}
	}
	for _, m := range s.Angles {
		r = r.Extend(m.Vertex)
	}
	for _, p := range s.Points {
		r = r.Extend(p.Pos)
	}
	return r
}

// Transform maps every coordinate through f, which must be a uniform scale
// by k followed by a translation, optionally mirrored in y. Radii scale by
// k and arc directions follow the mirror.
func (s Scene) Transform(f func(geometry.Vec) geometry.Vec, k float64, flipY bool) Scene {
	out := Scene{
		Fills:     make([]Fill, len(s.Fills)),
		Circles:   make([]Circle, len(s.Circles)),
		Segments:  make([]Segment, len(s.Segments)),
		Polylines: make([]Polyline, len(s.Polylines)),
		Arcs:      make([]Arc, len(s.Arcs)),
		Angles:    make([]AngleMark, len(s.Angles)),
		Points:    make([]Point, len(s.Points)),
		Labels:    make([]Label, len(s.Labels)),
	}
	mapAll := func(ps []geometry.Vec) []geometry.Vec {
		m := make([]geometry.Vec, len(ps))
		for i, p := range ps {
			m[i] = f(p)
		}
		return m
	}
	for i, v := range s.Fills {
		v.Points = mapAll(v.Points)
		out.Fills[i] = v
	}
	for i, v := range s.Circles {
		v.Center, v.Radius = f(v.Center), v.Radius*k
		out.Circles[i] = v
	}
	for i, v := range s.Segments {
		v.A, v.B = f(v.A), f(v.B)
		out.Segments[i] = v
	}
	for i, v := range s.Polylines {
		v.Points = mapAll(v.Points)
		out.Polylines[i] = v
	}
	for i, v := range s.Arcs {
		v.Center, v.Radius = f(v.Center), v.Radius*k
		if flipY {
			v.Start, v.Sweep = -v.Start, -v.Sweep
		}
		out.Arcs[i] = v
	}
	for i, v := range s.Angles {
		v.Vertex, v.A, v.B = f(v.Vertex), f(v.A), f(v.B)
		out.Angles[i] = v
	}
	for i, v := range s.Points {
		v.Pos = f(v.Pos)
		out.Points[i] = v
	}
	for i, v := range s.Labels {
		v.Anchor = f(v.Anchor)
		if flipY {
			v.Dir.Y = -v.Dir.Y
		}
		out.Labels[i] = v
	}
	return out
}

// =============================================================================
// Resolved
// =============================================================================

// Resolved is a solved figure. It is never modified after Resolve returns.
type Resolved struct {
	Spec   *figure.Spec
	Points map[string]geometry.Vec
	Order  []string // point ids in first-definition order
	Scene  Scene
	// Solid holds the projection used for mensuration figures.
	Solid *SolidInfo
}

// SolidInfo records how a mensuration figure was projected.
type SolidInfo struct {
	Elevation float64 `json:"elevation"`
	Solids    int     `json:"solids"`
}

// Point returns the position of id.
func (r *Resolved) Point(id string) (geometry.Vec, bool) {
	p, ok := r.Points[id]
	return p, ok
}

// Bounds returns the box around all drawn geometry.
func (r *Resolved) Bounds() geometry.Rect { return r.Scene.Bounds() }

// AngleDeg returns the angle in degrees at vertex between rays to a and b.
func (r *Resolved) AngleDeg(vertex, a, b string) (float64, bool) {
	v, ok1 := r.Points[vertex]
	p, ok2 := r.Points[a]
	q, ok3 := r.Points[b]
	if !ok1 || !ok2 || !ok3 {
		return math.NaN(), false
	}
	return geometry.Deg(geometry.AngleAt(v, p, q)), true
}
