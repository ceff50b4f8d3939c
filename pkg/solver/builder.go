package solver

import (
	"math"

	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/geometry"
)

// onCircleTolerance is how far, relative to the radius, an authored point
// may sit from the circle it is declared on.
const onCircleTolerance = 0.02

// builder accumulates positions and primitives for one Resolve call.
type builder struct {
	spec *figure.Spec
	opts Options

	pts    map[string]geometry.Vec
	kinds  map[string]PointKind
	pinned map[string]bool    // fixed by authoring or by a constraint
	radius map[string]float64 // circle center id to radius

	scene Scene
	edges map[[2]string]bool // drawn segments, by sorted endpoint ids
	marks map[string]bool    // marked angles, by angleKey
	solid *SolidInfo

	secantUse map[[2]string]int
}

func newBuilder(spec *figure.Spec, opts Options) *builder {
	return &builder{
		spec:      spec,
		opts:      opts,
		pts:       make(map[string]geometry.Vec),
		kinds:     make(map[string]PointKind),
		pinned:    make(map[string]bool),
		radius:    make(map[string]float64),
		edges:     make(map[[2]string]bool),
		marks:     make(map[string]bool),
		secantUse: make(map[[2]string]int),
	}
}

func (b *builder) placed(id string) bool {
	_, ok := b.pts[id]
	return ok
}

func (b *builder) set(id string, p geometry.Vec, k PointKind) {
	b.pts[id] = p
	if _, ok := b.kinds[id]; !ok {
		b.kinds[id] = k
	}
}

func (b *builder) pin(id string, p geometry.Vec, k PointKind) {
	b.set(id, p, k)
	b.pinned[id] = true
}

func (b *builder) allPlaced(ids []string) bool {
	for _, id := range ids {
		if !b.placed(id) {
			return false
		}
	}
	return true
}

func (b *builder) positions(ids []string) []geometry.Vec {
	out := make([]geometry.Vec, len(ids))
	for i, id := range ids {
		out[i] = b.pts[id]
	}
	return out
}

// extent returns the box around the placed points.
func (b *builder) extent() geometry.Rect {
	var r geometry.Rect
	for _, id := range b.spec.PointIDs() {
		if p, ok := b.pts[id]; ok {
			r = r.Extend(p)
		}
	}
	for id, rad := range b.radius {
		if c, ok := b.pts[id]; ok {
			r = r.Union(geometry.RectAround(c, 2*rad, 2*rad))
		}
	}
	return r
}

// explicit places every point element with authored coordinates.
func (b *builder) explicit() {
	for _, e := range b.spec.Elements {
		if p := e.Point; p != nil && p.HasCoords() {
			b.pin(p.Label, geometry.V(*p.X, *p.Y), PointGiven)
		}
	}
}

// circleRadius returns the radius of the circle about center.
func (b *builder) circleRadius(c *figure.Circle) float64 {
	if r, ok := b.radius[c.Center]; ok {
		return r
	}
	if c.Radius != nil {
		return *c.Radius
	}
	if o, ok := b.pts[c.Center]; ok {
		for _, id := range c.Points {
			if p, ok := b.pts[id]; ok && p.Dist(o) > geometry.Eps {
				return p.Dist(o)
			}
		}
	}
	return b.opts.DisplayRadius
}

// placeRemaining spaces every free point still without a position on a
// ring around the figure: evenly, from 90° clockwise, in declaration order.
// Constructed points are then derived from them; one that still cannot be
// built is an error rather than a ring position.
func (b *builder) placeRemaining() error {
	var free []string
	for _, id := range b.spec.PointIDs() {
		if !b.placed(id) && !b.constructed(id) {
			free = append(free, id)
		}
	}
	if len(free) > 0 {
		b.ring(free)
	}
	if _, err := b.derive(); err != nil {
		return err
	}
	for _, id := range b.spec.PointIDs() {
		if !b.placed(id) {
			return solveError("point %s: its construction cannot be resolved from the other points", id)
		}
	}
	return nil
}

// constructed reports whether a point element builds id from other points.
func (b *builder) constructed(id string) bool {
	for _, e := range b.spec.Elements {
		p := e.Point
		if p == nil || p.Label != id {
			continue
		}
		if p.Constructed() {
			return true
		}
		if p.Description != "" && !p.HasCoords() && describedPoint(p.Description, b.spec.PointIDs()) != nil {
			return true
		}
	}
	return false
}

func (b *builder) ring(free []string) {
	center := geometry.Vec{}
	ring := b.opts.BaseLength / 2
	if ext := b.extent(); !ext.Empty() {
		center = ext.Center()
		ring = math.Max(ring, 0.6*math.Max(ext.W(), ext.H())+b.opts.BaseLength/4)
	}
	for k, id := range free {
		a := math.Pi/2 - 2*math.Pi*float64(k)/float64(len(free))
		b.set(id, center.Add(geometry.Polar(ring, a)), PointGiven)
	}
}

// =============================================================================
// Known quantities
// =============================================================================

// knownAngle returns the authored size in degrees of the angle at vertex
// between rays to r1 and r2.
func (b *builder) knownAngle(vertex, r1, r2 string) (float64, bool) {
	if raw, ok := b.spec.GivenValues.LookupAngle(vertex, r1, r2); ok {
		if deg, ok := angleDegrees(raw); ok {
			return deg, true
		}
	}
	for _, e := range b.spec.Elements {
		a := e.Angle
		if a == nil || a.Vertex != vertex || len(a.Rays) != 2 {
			continue
		}
		if !(a.Rays[0] == r1 && a.Rays[1] == r2) && !(a.Rays[0] == r2 && a.Rays[1] == r1) {
			continue
		}
		if deg, ok := angleDegrees(a.Value); ok {
			return deg, true
		}
		if a.Right {
			return 90, true
		}
	}
	return 0, false
}

// knownLength returns the authored length of segment pq.
func (b *builder) knownLength(p, q string) (float64, bool) {
	for _, key := range []string{p + q, q + p} {
		if raw, ok := b.spec.GivenValues.Get(key); ok {
			if v := figure.ParseValue(raw); v.Kind == figure.ValueNumeric && !v.IsAngle() && v.Num > 0 {
				return v.Num, true
			}
		}
	}
	for _, e := range b.spec.Elements {
		l := e.Line
		if l == nil || len(l.Points) != 2 {
			continue
		}
		if (l.Points[0] == p && l.Points[1] == q) || (l.Points[0] == q && l.Points[1] == p) {
			if v := figure.ParseValue(l.Value); v.Kind == figure.ValueNumeric && !v.IsAngle() && v.Num > 0 {
				return v.Num, true
			}
		}
	}
	return 0, false
}

// angleDegrees reads a numeric angle; a bare number counts as degrees.
func angleDegrees(raw string) (float64, bool) {
	v := figure.ParseValue(raw)
	if v.Kind != figure.ValueNumeric || (v.Unit != "" && v.Unit != "°") {
		return 0, false
	}
	return v.Num, true
}

// result packages the builder state once every point is placed.
func (b *builder) result() *Resolved {
	pts := make(map[string]geometry.Vec, len(b.pts))
	for id, p := range b.pts {
		pts[id] = p
	}
	return &Resolved{
		Spec:   b.spec,
		Points: pts,
		Order:  b.spec.PointIDs(),
		Scene:  b.scene,
		Solid:  b.solid,
	}
}
