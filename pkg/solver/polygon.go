package solver

import (
	"math"
	"strings"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/geometry"
)

// =============================================================================
// Canonical shapes
// =============================================================================

// triangleShape places vs[1] and vs[2] on a horizontal baseline of the
// configured length and finds the apex vs[0] above it.
//
// Known interior angles win: missing ones share the 180° budget and the
// apex follows from the law of sines. Otherwise three known side lengths
// fix the shape by the law of cosines, scaled to the baseline. Otherwise
// the apex sits at (0.4·L, 0.7·L), a scalene default.
func (b *builder) triangleShape(vs []string) ([3]geometry.Vec, error) {
	L := b.opts.BaseLength
	out := [3]geometry.Vec{{}, geometry.V(0, 0), geometry.V(L, 0)}
	name := strings.Join(vs, "")

	known := make([]float64, 3)
	anyAngle := false
	for i := range 3 {
		if a, ok := b.knownAngle(vs[i], vs[(i+2)%3], vs[(i+1)%3]); ok {
			known[i] = a
			anyAngle = true
		} else {
			known[i] = math.NaN()
		}
	}
	if anyAngle {
		angles, err := DistributeAngles(180, known)
		if err != nil {
			return out, solveError("triangle %s: %s", name, geoerrors.UserMessage(err))
		}
		a0, a1, a2 := geometry.Rad(angles[0]), geometry.Rad(angles[1]), geometry.Rad(angles[2])
		side := L * math.Sin(a2) / math.Sin(a0)
		out[0] = out[1].Add(geometry.Polar(side, a1))
		return out, nil
	}

	a, okA := b.knownLength(vs[1], vs[2])
	bl, okB := b.knownLength(vs[0], vs[2])
	c, okC := b.knownLength(vs[0], vs[1])
	if okA && okB && okC {
		if a >= bl+c || bl >= a+c || c >= a+bl {
			return out, solveError("triangle %s: sides %g, %g, %g cannot close", name, a, bl, c)
		}
		s := L / a
		x := (c*c + a*a - bl*bl) / (2 * a)
		y := math.Sqrt(math.Max(c*c-x*x, 0))
		out[0] = geometry.V(x*s, y*s)
		return out, nil
	}

	out[0] = geometry.V(0.4*L, 0.7*L)
	return out, nil
}

// quadShape builds a quadrilateral with V0V1 on the baseline and V0V3 of
// the same length, its angles taken from the 360° budget.
func (b *builder) quadShape(vs []string) ([]geometry.Vec, error) {
	L := b.opts.BaseLength
	name := strings.Join(vs, "")
	known := make([]float64, 4)
	for i := range 4 {
		if a, ok := b.knownAngle(vs[i], vs[(i+3)%4], vs[(i+1)%4]); ok {
			known[i] = a
		} else {
			known[i] = math.NaN()
		}
	}
	angles, err := DistributeAngles(InteriorSum(4), known)
	if err != nil {
		return nil, solveError("quadrilateral %s: %s", name, geoerrors.UserMessage(err))
	}
	a0, a1, a3 := geometry.Rad(angles[0]), geometry.Rad(angles[1]), geometry.Rad(angles[3])

	v0, v1 := geometry.V(0, 0), geometry.V(L, 0)
	v3 := geometry.Polar(L, a0)
	d1 := geometry.Polar(1, math.Pi-a1)
	d3 := geometry.Polar(1, a0+math.Pi+a3)
	v2, err := geometry.Intersect(geometry.Line{P: v1, D: d1}, geometry.Line{P: v3, D: d3})
	if err != nil || v2.Sub(v1).Dot(d1) <= 0 || v2.Sub(v3).Dot(d3) <= 0 {
		return nil, solveError("quadrilateral %s: angles %g°, %g°, %g°, %g° do not close", name,
			angles[0], angles[1], angles[2], angles[3])
	}
	return []geometry.Vec{v0, v1, v2, v3}, nil
}

// regularShape places an n-gon with side BaseLength and a horizontal base.
// Authored angles only have to fit the (n−2)·180° budget.
func (b *builder) regularShape(vs []string) ([]geometry.Vec, error) {
	n := len(vs)
	known := make([]float64, n)
	for i := range n {
		if a, ok := b.knownAngle(vs[i], vs[(i+n-1)%n], vs[(i+1)%n]); ok {
			known[i] = a
		} else {
			known[i] = math.NaN()
		}
	}
	if _, err := DistributeAngles(InteriorSum(n), known); err != nil {
		return nil, solveError("polygon %s: %s", strings.Join(vs, ""), geoerrors.UserMessage(err))
	}

	R := b.opts.BaseLength / (2 * math.Sin(math.Pi/float64(n)))
	out := make([]geometry.Vec, n)
	start := -math.Pi/2 - math.Pi/float64(n)
	for i := range out {
		out[i] = geometry.Polar(R, start+2*math.Pi*float64(i)/float64(n))
	}
	return out, nil
}

func (b *builder) shape(vs []string) ([]geometry.Vec, error) {
	switch len(vs) {
	case 3:
		t, err := b.triangleShape(vs)
		return t[:], err
	case 4:
		return b.quadShape(vs)
	}
	return b.regularShape(vs)
}

// =============================================================================
// Placement
// =============================================================================

// placePolygons places polygons none of whose vertices has a position,
// plus triangles missing only one vertex. Polygons similar or congruent
// to another are left to placeSimilar. Shapes are set beside what is
// already placed.
func (b *builder) placePolygons() (bool, error) {
	progress := false
	for _, e := range b.spec.Elements {
		p := e.Polygon
		if p == nil || len(p.Reference()) > 0 || b.allPlaced(p.Vertices) {
			continue
		}
		var free []int
		for i, id := range p.Vertices {
			if !b.placed(id) {
				free = append(free, i)
			}
		}

		switch {
		case len(free) == len(p.Vertices):
			shape, err := b.shape(p.Vertices)
			if err != nil {
				return progress, err
			}
			shape = b.besidePlaced(shape)
			for i, id := range p.Vertices {
				b.pin(id, shape[i], PointGiven)
			}
			progress = true
		case len(p.Vertices) == 3 && len(free) == 1:
			if err := b.completeTriangle(p.Vertices, free[0]); err != nil {
				return progress, err
			}
			progress = true
		}
	}
	return progress, nil
}

// besidePlaced translates shape to the right of the placed figure, bottoms
// aligned. With nothing placed the shape is returned as is.
func (b *builder) besidePlaced(shape []geometry.Vec) []geometry.Vec {
	ext := b.extent()
	if ext.Empty() {
		return shape
	}
	var box geometry.Rect
	for _, p := range shape {
		box = box.Extend(p)
	}
	shift := geometry.V(ext.Max.X+0.3*b.opts.BaseLength-box.Min.X, ext.Min.Y-box.Min.Y)
	out := make([]geometry.Vec, len(shape))
	for i, p := range shape {
		out[i] = p.Add(shift)
	}
	return out
}

// completeTriangle places the one free vertex of a triangle on its two
// placed ones, keeping the canonical shape and putting the new vertex on
// the side away from the rest of the figure.
func (b *builder) completeTriangle(vs []string, free int) error {
	rot := []string{vs[free], vs[(free+1)%3], vs[(free+2)%3]}
	shape, err := b.triangleShape(rot)
	if err != nil {
		return err
	}
	p1, p2 := b.pts[rot[1]], b.pts[rot[2]]
	if p1.Dist(p2) < geometry.Eps {
		return solveError("triangle %s has a zero-length side %s%s", strings.Join(vs, ""), rot[1], rot[2])
	}
	apex := similarity(shape[1], shape[2], p1, p2)(shape[0])

	var others []geometry.Vec
	for _, id := range b.spec.PointIDs() {
		if p, ok := b.pts[id]; ok && id != rot[1] && id != rot[2] {
			others = append(others, p)
		}
	}
	if len(others) > 0 {
		c := geometry.Centroid(others)
		side := func(q geometry.Vec) float64 { return geometry.SignedArea(p1, p2, q) }
		if side(apex)*side(c) > 0 {
			apex = geometry.Reflect(apex, p1, p2)
		}
	}
	b.pin(rot[0], apex, PointGiven)
	return nil
}

// placeSimilar places polygons declared similar or congruent to another
// once that other polygon is placed. Vertices correspond in order. The
// copy is scaled by the ratio, optionally mirrored, and set to the right.
func (b *builder) placeSimilar() (bool, error) {
	progress := false
	for _, e := range b.spec.Elements {
		p := e.Polygon
		if p == nil || len(p.Reference()) == 0 || !b.allPlaced(p.Reference()) {
			continue
		}
		var free int
		for _, id := range p.Vertices {
			if !b.placed(id) {
				free++
			}
		}
		if free == 0 {
			continue
		}
		if free != len(p.Vertices) {
			// shares vertices with the reference, as in a BPT figure
			continue
		}

		scale := 1.0
		if len(p.CongruentTo) == 0 {
			scale = 1.5
			if f, ok := figure.ScaleFactor(p.Ratio); ok {
				scale = f
			}
		}
		ref := b.positions(p.Reference())
		origin := ref[0]
		shape := make([]geometry.Vec, len(ref))
		for i, q := range ref {
			d := q.Sub(origin).Scale(scale)
			if p.Mirror {
				d.X = -d.X
			}
			shape[i] = origin.Add(d)
		}
		shape = b.besidePlaced(shape)
		for i, id := range p.Vertices {
			b.pin(id, shape[i], PointGiven)
		}
		progress = true
	}
	return progress, nil
}

// similarity returns the map sending a to a2 and b to b2 by rotation,
// uniform scale and translation.
func similarity(a, b, a2, b2 geometry.Vec) func(geometry.Vec) geometry.Vec {
	d, d2 := b.Sub(a), b2.Sub(a2)
	k := d2.Len() / d.Len()
	rot := d2.Angle() - d.Angle()
	return func(p geometry.Vec) geometry.Vec {
		return a2.Add(p.Sub(a).Rotate(rot).Scale(k))
	}
}

// checkPolygons rejects polygons with coincident consecutive vertices and
// triangles with collinear vertices.
func (b *builder) checkPolygons() error {
	for _, e := range b.spec.Elements {
		p := e.Polygon
		if p == nil || !b.allPlaced(p.Vertices) {
			continue
		}
		name := strings.Join(p.Vertices, "")
		ps := b.positions(p.Vertices)
		scale := b.extent().W() + b.extent().H()
		for i := range ps {
			j := (i + 1) % len(ps)
			if ps[i].Dist(ps[j]) <= 1e-9*math.Max(scale, 1) {
				return solveError("polygon %s has a zero-length side %s%s", name, p.Vertices[i], p.Vertices[j])
			}
		}
		if len(ps) == 3 && geometry.Collinear(ps[0], ps[1], ps[2]) {
			return solveError("triangle %s is degenerate: its vertices are collinear", name)
		}
	}
	return nil
}
