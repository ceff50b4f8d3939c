package solver

import (
	"math"
	"slices"
	"sort"

	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/geometry"
)

// minSpread is the smallest arc, in degrees, kept between a freely placed
// circle point and its neighbours.
const minSpread = 15.0

type circleVariant struct{}

func init() { register(circleVariant{}) }

func (circleVariant) Name() string { return "circle" }

func (circleVariant) Types() []figure.Type {
	return []figure.Type{
		figure.TypeCircleInscribedAngle,
		figure.TypeCircleTangent,
		figure.TypeCircleChord,
		figure.TypeCircleSecant,
		figure.TypeCyclicQuadrilateral,
		figure.TypeAlternateSegment,
		figure.TypeConstructionTangent,
	}
}

// Resolve places the circles first, then the points on them, then the
// tangents, and finally moves free circle points until the authored
// angles hold.
func (circleVariant) Resolve(spec *figure.Spec, opts Options) (*Resolved, error) {
	b := newBuilder(spec, opts)
	b.explicit()

	circles := b.placeCircles()
	if len(circles) == 0 {
		return nil, solveError("%s figure has no circle", spec.Type)
	}
	members := b.circleMembers(circles)

	for _, c := range circles {
		if err := b.pinOnCircle(c, members[c.Center]); err != nil {
			return nil, err
		}
	}
	if err := b.placeCyclic(circles[0]); err != nil {
		return nil, err
	}
	if err := b.placeTangents(true); err != nil {
		return nil, err
	}
	for _, c := range circles {
		b.distribute(c, members[c.Center])
	}
	if err := b.placeTangents(false); err != nil {
		return nil, err
	}
	if err := b.applyAngleConstraints(circles); err != nil {
		return nil, err
	}
	for _, c := range circles {
		b.spread(c, members[c.Center])
	}

	if err := b.settle(); err != nil {
		return nil, err
	}
	if err := b.placeRemaining(); err != nil {
		return nil, err
	}

	if spec.Type == figure.TypeConstructionTangent {
		b.tangentConstruction()
	}
	return b.finish()
}

// =============================================================================
// Circles and their points
// =============================================================================

// placeCircles fixes every circle center and radius. The first circle
// without an authored center goes to the origin, later ones to its right.
func (b *builder) placeCircles() []*figure.Circle {
	var circles []*figure.Circle
	for _, e := range b.spec.Elements {
		if e.Circle != nil && !slices.ContainsFunc(circles, func(c *figure.Circle) bool { return c.Center == e.Circle.Center }) {
			circles = append(circles, e.Circle)
		}
	}
	var right float64
	for i, c := range circles {
		r := b.circleRadius(c)
		if !b.placed(c.Center) {
			o := geometry.Vec{}
			if i > 0 {
				o = geometry.V(right+r+0.5*b.opts.BaseLength, 0)
			}
			b.pin(c.Center, o, PointGiven)
		}
		b.radius[c.Center] = r
		right = math.Max(right, b.pts[c.Center].X+r)
	}
	return circles
}

// circleMembers lists, per circle center, the points that lie on that
// circle in declaration order.
func (b *builder) circleMembers(circles []*figure.Circle) map[string][]string {
	out := make(map[string][]string)
	add := func(center, id string) {
		if id != "" && id != center && !slices.Contains(out[center], id) {
			out[center] = append(out[center], id)
		}
	}
	first := circles[0].Center
	for _, e := range b.spec.Elements {
		switch {
		case e.Circle != nil:
			for _, id := range e.Circle.Points {
				add(e.Circle.Center, id)
			}
		case e.Polygon != nil:
			p := e.Polygon
			center := p.InscribedIn
			if center == "" && len(p.Vertices) == 4 && (p.Cyclic || b.spec.Type == figure.TypeCyclicQuadrilateral) {
				center = first
			}
			if center != "" {
				for _, id := range p.Vertices {
					add(center, id)
				}
			}
		case e.Point != nil && e.Point.OnCircle != "" && len(e.Point.On) == 0:
			add(e.Point.OnCircle, e.Point.Label)
		case e.Tangent != nil:
			add(e.Tangent.Circle, e.Tangent.Point)
		}
	}
	return out
}

func (b *builder) onCircle(center string, deg float64) geometry.Vec {
	return b.pts[center].Add(geometry.Polar(b.radius[center], geometry.Rad(deg)))
}

// pinOnCircle places points with an authored polar angle and checks that
// points with authored coordinates lie on the circle.
func (b *builder) pinOnCircle(c *figure.Circle, members []string) error {
	o, r := b.pts[c.Center], b.radius[c.Center]
	for _, id := range members {
		p := b.spec.PointElement(id)
		switch {
		case p != nil && p.HasCoords():
			if d := b.pts[id].Dist(o); math.Abs(d-r) > onCircleTolerance*r {
				return solveError("point %s at distance %.3g from %s does not lie on the circle of radius %.3g", id, d, c.Center, r)
			}
		case p != nil && p.Angle != nil:
			b.pin(id, b.onCircle(c.Center, *p.Angle), PointGiven)
		}
	}
	return nil
}

// distribute spaces the still unplaced points of a circle evenly, from 90°
// clockwise in declaration order.
func (b *builder) distribute(c *figure.Circle, members []string) {
	var free []string
	for _, id := range members {
		if !b.placed(id) {
			free = append(free, id)
		}
	}
	for k, id := range free {
		b.set(id, b.onCircle(c.Center, 90-360*float64(k)/float64(len(free))), PointGiven)
	}
}

// spread moves free circle points that crowd a neighbour into the middle
// of the widest gap.
func (b *builder) spread(c *figure.Circle, members []string) {
	o := b.pts[c.Center]
	deg := func(id string) float64 { return geometry.Deg(geometry.NormAngle(b.pts[id].Sub(o).Angle())) }

	for _, id := range members {
		if b.pinned[id] || !b.placed(id) {
			continue
		}
		var others []float64
		crowded := false
		for _, other := range members {
			if other == id || !b.placed(other) {
				continue
			}
			a := deg(other)
			others = append(others, a)
			if d := math.Abs(a - deg(id)); math.Min(d, 360-d) < minSpread {
				crowded = true
			}
		}
		if !crowded || len(others) == 0 {
			continue
		}
		sort.Float64s(others)
		best, at := -1.0, 0.0
		for i, a := range others {
			next := others[(i+1)%len(others)]
			gap := next - a
			if gap <= 0 {
				gap += 360
			}
			if gap > best {
				best, at = gap, a+gap/2
			}
		}
		b.set(id, b.onCircle(c.Center, at), PointGiven)
	}
}

// =============================================================================
// Cyclic quadrilaterals
// =============================================================================

// placeCyclic places an inscribed quadrilateral whose vertices are all
// free. Opposite angles are supplementary; a missing angle is taken from
// its opposite, else 90°.
func (b *builder) placeCyclic(c *figure.Circle) error {
	for _, e := range b.spec.Elements {
		p := e.Polygon
		if p == nil || len(p.Vertices) != 4 {
			continue
		}
		if p.InscribedIn != c.Center && !(p.InscribedIn == "" && (p.Cyclic || b.spec.Type == figure.TypeCyclicQuadrilateral)) {
			continue
		}
		if slices.ContainsFunc(p.Vertices, b.placed) {
			continue
		}
		vs := p.Vertices
		var angles [4]float64
		var known [4]bool
		for i := range 4 {
			angles[i], known[i] = b.knownAngle(vs[i], vs[(i+3)%4], vs[(i+1)%4])
		}
		for i := range 2 {
			j := i + 2
			switch {
			case known[i] && known[j]:
				if math.Abs(angles[i]+angles[j]-180) > 1e-6 {
					return solveError("cyclic quadrilateral %s%s%s%s: opposite angles %g° and %g° must sum to 180°",
						vs[0], vs[1], vs[2], vs[3], angles[i], angles[j])
				}
			case known[j]:
				angles[i] = 180 - angles[j]
			case !known[i]:
				angles[i] = 90
			}
		}
		arcs, err := CyclicArcs(angles[0], angles[1])
		if err != nil {
			return err
		}
		at := 90.0
		for i, id := range vs {
			b.pin(id, b.onCircle(c.Center, at), PointGiven)
			at -= arcs[i]
		}
	}
	return nil
}

// =============================================================================
// Tangents
// =============================================================================

// placeTangents computes tangency points and external points. With
// fromExternal set only tangents whose external point is placed and whose
// tangency point is not are handled, so the tangency point never takes a
// default circle position.
func (b *builder) placeTangents(fromExternal bool) error {
	used := make(map[string]int)
	free := 0
	for _, e := range b.spec.Elements {
		t := e.Tangent
		if t == nil {
			continue
		}
		c := b.spec.Circle(t.Circle)
		if c == nil {
			continue
		}
		o, r := b.pts[c.Center], b.radius[c.Center]
		extPlaced := t.ExternalPoint != "" && b.placed(t.ExternalPoint)
		if fromExternal && (!extPlaced || b.placed(t.Point)) {
			continue
		}

		switch {
		case b.placed(t.Point) && (t.ExternalPoint == "" || extPlaced):
			if extPlaced {
				a, ext := b.pts[t.Point], b.pts[t.ExternalPoint]
				radial, along := a.Sub(o), ext.Sub(a)
				if math.Abs(radial.Dot(along)) > 1e-6*radial.Len()*along.Len() {
					return solveError("tangent %s%s is not perpendicular to radius %s%s", t.ExternalPoint, t.Point, c.Center, t.Point)
				}
			}
		case extPlaced:
			ccw, cw, err := geometry.TangentPoints(o, r, b.pts[t.ExternalPoint])
			if err != nil {
				return solveError("external point %s lies inside circle %s", t.ExternalPoint, c.Center)
			}
			pick := ccw
			if t.Side == "left" {
				pick = cw
			}
			if used[t.ExternalPoint] > 0 {
				if pick == ccw {
					pick = cw
				} else {
					pick = ccw
				}
			}
			used[t.ExternalPoint]++
			b.pin(t.Point, pick, PointDerived)
		case b.placed(t.Point):
			a := b.pts[t.Point]
			u := a.Sub(o).Unit().Perp()
			if t.Side != "left" {
				u = u.Scale(-1)
			}
			f := b.opts.ExternalFactor
			b.pin(t.Point, a, PointGiven)
			b.pin(t.ExternalPoint, a.Add(u.Scale(r*math.Sqrt(f*f-1))), PointGiven)
		default:
			dirs := []float64{0, math.Pi, math.Pi / 2, -math.Pi / 2}
			ext := o.Add(geometry.Polar(b.opts.ExternalFactor*r, dirs[free%len(dirs)]))
			free++
			ccw, cw, _ := geometry.TangentPoints(o, r, ext)
			pick := ccw
			if t.Side == "left" {
				pick = cw
			}
			if t.ExternalPoint != "" {
				b.pin(t.ExternalPoint, ext, PointGiven)
			}
			b.pin(t.Point, pick, PointDerived)
		}
	}
	return nil
}

// tangentConstruction draws the circle on the segment from the center to
// the external point, whose meeting points with the given circle are the
// tangency points.
func (b *builder) tangentConstruction() {
	for _, e := range b.spec.Elements {
		t := e.Tangent
		if t == nil || t.ExternalPoint == "" {
			continue
		}
		o, ext := b.pts[t.Circle], b.pts[t.ExternalPoint]
		b.scene.Circles = append(b.scene.Circles, Circle{
			Center: o.Lerp(ext, 0.5), Radius: o.Dist(ext) / 2, Role: figure.RoleConstruction,
		})
		b.segment(t.Circle, t.ExternalPoint, figure.RoleConstruction)
	}
}

// =============================================================================
// Angle constraints
// =============================================================================

type angleFact struct {
	vertex, r1, r2 string
	deg            float64
}

// angleFacts collects every authored angle size, once per angle.
func (b *builder) angleFacts() []angleFact {
	seen := make(map[string]bool)
	var out []angleFact
	add := func(v, r1, r2 string) {
		k := angleKey(v, r1, r2)
		if seen[k] {
			return
		}
		if deg, ok := b.knownAngle(v, r1, r2); ok {
			seen[k] = true
			out = append(out, angleFact{v, r1, r2, deg})
		}
	}
	for _, e := range b.spec.Elements {
		if a := e.Angle; a != nil && len(a.Rays) == 2 {
			add(a.Vertex, a.Rays[0], a.Rays[1])
		}
	}
	ids := b.spec.PointIDs()
	for _, k := range b.spec.GivenValues.Keys() {
		if parts, ok := figure.SplitName(k, ids); ok && len(parts) == 3 {
			add(parts[1], parts[0], parts[2])
		}
	}
	return out
}

// applyAngleConstraints moves free circle points so that authored angles
// hold. Chord–tangent angles put the chord end at chord length 2r·sinθ,
// central angles rotate the second ray end by θ and inscribed angles put
// it 2θ of arc from the first. Angles whose points are all fixed are
// checked instead.
func (b *builder) applyAngleConstraints(circles []*figure.Circle) error {
	facts := b.angleFacts()
	for range len(facts) + 1 {
		moved := false
		for _, f := range facts {
			if !b.allPlaced([]string{f.vertex, f.r1, f.r2}) {
				continue
			}
			for _, c := range circles {
				m, err := b.applyAngle(c, f)
				if err != nil {
					return err
				}
				if m {
					moved = true
					break
				}
			}
		}
		if !moved {
			break
		}
	}
	for _, f := range facts {
		if !b.allPlaced([]string{f.vertex, f.r1, f.r2}) {
			continue
		}
		got := geometry.Deg(geometry.AngleAt(b.pts[f.vertex], b.pts[f.r1], b.pts[f.r2]))
		if f.deg <= 180 && math.Abs(got-f.deg) > 0.5 && b.constrainedBy(circles, f) {
			return solveError("angle %s%s%s is %.1f° but %g° was given", f.r1, f.vertex, f.r2, got, f.deg)
		}
	}
	return nil
}

// constrainedBy reports whether f is an angle the circle rules cover,
// so a mismatch means the authored values contradict each other.
func (b *builder) constrainedBy(circles []*figure.Circle, f angleFact) bool {
	for _, c := range circles {
		on := func(id string) bool { return b.isOn(c, id) }
		switch {
		case on(f.vertex) && on(f.r1) && on(f.r2):
			return true
		case f.vertex == c.Center && on(f.r1) && on(f.r2):
			return true
		case b.tangentAt(f.vertex, f.r1) != nil && on(f.r2), b.tangentAt(f.vertex, f.r2) != nil && on(f.r1):
			return true
		}
	}
	return false
}

func (b *builder) isOn(c *figure.Circle, id string) bool {
	p, ok := b.pts[id]
	if !ok || id == c.Center {
		return false
	}
	r := b.radius[c.Center]
	return math.Abs(p.Dist(b.pts[c.Center])-r) <= onCircleTolerance*r
}

// tangentAt returns the tangent touching at point whose external point is
// ext.
func (b *builder) tangentAt(point, ext string) *figure.Tangent {
	for _, e := range b.spec.Elements {
		if t := e.Tangent; t != nil && t.Point == point && t.ExternalPoint == ext {
			return t
		}
	}
	return nil
}

// applyAngle enforces one angle on circle c and reports whether it moved
// a point.
func (b *builder) applyAngle(c *figure.Circle, f angleFact) (bool, error) {
	o, r := b.pts[c.Center], b.radius[c.Center]
	on := func(id string) bool { return b.isOn(c, id) }
	free := func(id string) bool { return on(id) && !b.pinned[id] }
	theta := geometry.Rad(f.deg)

	// chord–tangent
	for _, pair := range [][2]string{{f.r1, f.r2}, {f.r2, f.r1}} {
		ext, w := pair[0], pair[1]
		if b.tangentAt(f.vertex, ext) == nil || !free(w) || f.deg <= 0 || f.deg >= 180 {
			continue
		}
		v := b.pts[f.vertex]
		t := b.pts[ext].Sub(v).Unit()
		n := o.Sub(v).Unit()
		b.pin(w, v.Add(t.Scale(math.Cos(theta)).Add(n.Scale(math.Sin(theta))).Scale(2*r*math.Sin(theta))), PointGiven)
		return true, nil
	}

	// central
	if f.vertex == c.Center && on(f.r1) && on(f.r2) {
		for _, pair := range [][2]string{{f.r1, f.r2}, {f.r2, f.r1}} {
			x, y := pair[0], pair[1]
			if !free(y) {
				continue
			}
			sign := -1.0
			if s := geometry.SignedArea(o, b.pts[x], b.pts[y]); s > geometry.Eps {
				sign = 1
			}
			b.pin(y, b.pts[x].RotateAbout(o, sign*theta), PointGiven)
			return true, nil
		}
		return false, nil
	}

	// inscribed
	if !on(f.vertex) || !on(f.r1) || !on(f.r2) || f.deg <= 0 || f.deg >= 180 {
		return false, nil
	}
	v := b.pts[f.vertex]
	for _, pair := range [][2]string{{f.r2, f.r1}, {f.r1, f.r2}} {
		x, y := pair[0], pair[1]
		if !free(y) {
			continue
		}
		if math.Abs(geometry.Deg(geometry.AngleAt(v, b.pts[x], b.pts[y]))-f.deg) < 1e-9 {
			return false, nil
		}
		best, found := geometry.Vec{}, false
		for _, sign := range []float64{1, -1} {
			cand := b.pts[x].RotateAbout(o, sign*2*theta)
			if math.Abs(geometry.Deg(geometry.AngleAt(v, b.pts[x], cand))-f.deg) > 1e-6 {
				continue // the vertex sits on the arc being swept
			}
			if !found || cand.Dist(b.pts[y]) < best.Dist(b.pts[y]) {
				best, found = cand, true
			}
		}
		if found {
			b.pin(y, best, PointGiven)
			return true, nil
		}
	}
	if free(f.vertex) {
		// the vertex goes to the middle of the arc that sees xy at the given angle
		x, y := b.pts[f.r1], b.pts[f.r2]
		mid := x.Lerp(y, 0.5).Sub(o)
		if mid.Len() < geometry.Eps {
			mid = x.Sub(o).Perp()
		}
		for _, cand := range []geometry.Vec{o.Add(mid.Unit().Scale(r)), o.Sub(mid.Unit().Scale(r))} {
			if math.Abs(geometry.Deg(geometry.AngleAt(cand, x, y))-f.deg) < 0.5 {
				if cand.Dist(v) > geometry.Eps {
					b.pin(f.vertex, cand, PointGiven)
					return true, nil
				}
				return false, nil
			}
		}
	}
	return false, nil
}
