package layout

import (
	"math"

	"github.com/matzehuels/geofig/pkg/geometry"
	"github.com/matzehuels/geofig/pkg/solver"
)

// MarkArc returns the start angle and signed sweep of the minor arc from
// ray A to ray B, in canvas coordinates.
func MarkArc(m solver.AngleMark) (start, sweep float64) {
	u, w := m.A.Sub(m.Vertex), m.B.Sub(m.Vertex)
	return u.Angle(), math.Atan2(u.Cross(w), u.Dot(w))
}

// MarkRadii returns the radius of each arc of m, innermost first.
func MarkRadii(m solver.AngleMark) []float64 {
	n := max(m.Arcs, 1)
	out := make([]float64, n)
	for i := range out {
		out[i] = MarkRadius + float64(i)*ArcSpacing
	}
	return out
}

// RightMark returns the three corners of the right-angle square that are
// not the vertex: on ray A, opposite the vertex, and on ray B.
func RightMark(m solver.AngleMark) [3]geometry.Vec {
	u := m.A.Sub(m.Vertex).Unit().Scale(RightMarkSize)
	w := m.B.Sub(m.Vertex).Unit().Scale(RightMarkSize)
	return [3]geometry.Vec{m.Vertex.Add(u), m.Vertex.Add(u).Add(w), m.Vertex.Add(w)}
}

// markPieces samples the drawn strokes of m as straight pieces.
func markPieces(m solver.AngleMark) []geometry.Segment {
	if m.Right {
		c := RightMark(m)
		return []geometry.Segment{{A: c[0], B: c[1]}, {A: c[1], B: c[2]}}
	}
	start, sweep := MarkArc(m)
	var out []geometry.Segment
	for _, r := range MarkRadii(m) {
		out = append(out, arcPieces(m.Vertex, r, start, sweep, 8)...)
	}
	return out
}

func arcPieces(c geometry.Vec, r, start, sweep float64, n int) []geometry.Segment {
	out := make([]geometry.Segment, 0, n)
	prev := c.Add(geometry.Polar(r, start))
	for i := 1; i <= n; i++ {
		next := c.Add(geometry.Polar(r, start+sweep*float64(i)/float64(n)))
		out = append(out, geometry.Segment{A: prev, B: next})
		prev = next
	}
	return out
}
