package solver

import (
	"math"

	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/geometry"
)

type constructionVariant struct{}

func init() { register(constructionVariant{}) }

func (constructionVariant) Name() string { return "construction" }

func (constructionVariant) Types() []figure.Type {
	return []figure.Type{
		figure.TypeConstructionCircumcircle,
		figure.TypeConstructionIncircle,
		figure.TypeConstructionLocus,
	}
}

// Resolve places the base triangle, then the circumcircle or incircle the
// type asks for. Loci are drawn by finish.
func (constructionVariant) Resolve(spec *figure.Spec, opts Options) (*Resolved, error) {
	b := newBuilder(spec, opts)
	b.explicit()
	if err := b.settle(); err != nil {
		return nil, err
	}

	tri := b.baseTriangle()
	if tri != nil {
		var err error
		switch spec.Type {
		case figure.TypeConstructionCircumcircle:
			err = b.circumcircle(tri)
		case figure.TypeConstructionIncircle:
			err = b.incircle(tri)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := b.settle(); err != nil {
		return nil, err
	}
	if err := b.placeRemaining(); err != nil {
		return nil, err
	}
	return b.finish()
}

// baseTriangle returns the vertices of the first placed triangle.
func (b *builder) baseTriangle() []string {
	for _, e := range b.spec.Elements {
		if p := e.Polygon; p != nil && len(p.Vertices) == 3 && b.allPlaced(p.Vertices) {
			return p.Vertices
		}
	}
	return nil
}

// constructionCircle returns the circle element the construction fills
// in. Without one the circle is drawn as a construction primitive about an
// unnamed center.
func (b *builder) constructionCircle() *figure.Circle {
	for _, e := range b.spec.Elements {
		if e.Circle != nil {
			return e.Circle
		}
	}
	return nil
}

// circumcircle places the center where two perpendicular bisectors meet
// and draws those bisectors.
func (b *builder) circumcircle(tri []string) error {
	ps := b.positions(tri)
	if geometry.Collinear(ps[0], ps[1], ps[2]) {
		return solveError("triangle %s%s%s is degenerate: its vertices are collinear", tri[0], tri[1], tri[2])
	}
	o, err := geometry.Intersect(geometry.PerpBisector(ps[0], ps[1]), geometry.PerpBisector(ps[1], ps[2]))
	if err != nil {
		return solveError("triangle %s%s%s has no circumcenter", tri[0], tri[1], tri[2])
	}
	r := o.Dist(ps[0])

	if !b.hasLocus(figure.LocusPerpendicularBisector) {
		for i := range 3 {
			a, c := ps[i], ps[(i+1)%3]
			mid := a.Lerp(c, 0.5)
			dir := c.Sub(a).Perp().Unit()
			if dir.Dot(o.Sub(mid)) < 0 {
				dir = dir.Scale(-1)
			}
			reach := o.Dist(mid) + 0.3*r
			b.scene.Segments = append(b.scene.Segments, Segment{A: mid.Sub(dir.Scale(0.3 * r)), B: mid.Add(dir.Scale(reach)), Role: figure.RoleConstruction})
		}
	}
	b.placeCenter(o, r)
	return nil
}

// incircle places the incenter at the side-weighted vertex average with
// radius 2·area/perimeter. The circle's points become the touch points.
func (b *builder) incircle(tri []string) error {
	ps := b.positions(tri)
	if geometry.Collinear(ps[0], ps[1], ps[2]) {
		return solveError("triangle %s%s%s is degenerate: its vertices are collinear", tri[0], tri[1], tri[2])
	}
	a := ps[1].Dist(ps[2])
	bb := ps[0].Dist(ps[2])
	c := ps[0].Dist(ps[1])
	per := a + bb + c
	center := ps[0].Scale(a).Add(ps[1].Scale(bb)).Add(ps[2].Scale(c)).Scale(1 / per)
	r := math.Abs(geometry.SignedArea(ps[0], ps[1], ps[2])) / per

	if circle := b.constructionCircle(); circle != nil {
		sides := [][2]int{{1, 2}, {2, 0}, {0, 1}}
		for i, id := range circle.Points {
			if i >= 3 || b.placed(id) {
				continue
			}
			s := sides[i]
			b.pin(id, geometry.Foot(center, ps[s[0]], ps[s[1]]), PointDerived)
		}
	}
	if !b.hasLocus(figure.LocusAngleBisector) {
		for i := range 3 {
			b.scene.Segments = append(b.scene.Segments, Segment{A: ps[i], B: center, Role: figure.RoleConstruction})
		}
	}
	b.placeCenter(center, r)
	return nil
}

// placeCenter records a constructed circle, either on the authored circle
// element or as a bare construction circle.
func (b *builder) placeCenter(o geometry.Vec, r float64) {
	c := b.constructionCircle()
	if c == nil {
		b.scene.Circles = append(b.scene.Circles, Circle{Center: o, Radius: r, Role: figure.RoleConstruction})
		return
	}
	b.pin(c.Center, o, PointDerived)
	b.radius[c.Center] = r
}

func (b *builder) hasLocus(kind string) bool {
	for _, e := range b.spec.Elements {
		if e.Locus != nil && e.Locus.Kind == kind {
			return true
		}
	}
	return false
}
