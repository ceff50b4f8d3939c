package solver

import (
	"math"

	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/geometry"
)

// Canonical solid sizes when none is authored.
const (
	defaultSolidRadius = 2.0
	heightPerRadius    = 2.5
)

type solidVariant struct{}

func init() { register(solidVariant{}) }

func (solidVariant) Name() string { return "solid" }

func (solidVariant) Types() []figure.Type {
	return []figure.Type{
		figure.TypeMensurationCylinder,
		figure.TypeMensurationCone,
		figure.TypeMensurationSphere,
		figure.TypeMensurationCombined,
	}
}

// Resolve projects every solid, marks the edges each solid hides from
// itself, then applies the occlusion rule between solids.
func (solidVariant) Resolve(spec *figure.Spec, opts Options) (*Resolved, error) {
	b := newBuilder(spec, opts)
	var bodies []body
	var right float64
	for _, e := range spec.Elements {
		if e.Solid == nil {
			continue
		}
		group := stackSolid(e.Solid)
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, bd := range group {
			lo, hi = math.Min(lo, bd.x-bd.r), math.Max(hi, bd.x+bd.r)
		}
		shift := 0.0
		if len(bodies) > 0 {
			shift = right + defaultSolidRadius - lo
		}
		for i := range group {
			group[i].x += shift
			if group[i].parent >= 0 {
				group[i].parent += len(bodies)
			}
		}
		right = hi + shift
		bodies = append(bodies, group...)
	}
	if len(bodies) == 0 {
		return nil, solveError("%s figure has no solid", spec.Type)
	}

	v := &view{pr: geometry.NewProjection(opts.Elevation), bodies: bodies, samples: opts.Samples}
	if err := v.build(); err != nil {
		return nil, err
	}
	for i := range bodies {
		v.draw(b, i)
	}
	b.solid = &SolidInfo{Elevation: opts.Elevation, Solids: len(bodies)}
	return b.finish()
}

// =============================================================================
// Bodies
// =============================================================================

// body is one solid placed in space. y0 is the lowest height it reaches;
// x is its axis. Cones and hemispheres may be turned upside down.
type body struct {
	s        *figure.Solid
	kind     string
	r, h     float64
	x, y0    float64
	inverted bool
	opaque   bool
	parent   int // index of the solid it is nested in, or -1
	inside   bool
}

// height returns the vertical extent.
func (bd body) height() float64 {
	switch bd.kind {
	case figure.SolidSphere:
		return 2 * bd.r
	case figure.SolidHemisphere:
		return bd.r
	}
	return bd.h
}

func (bd body) at(y float64) geometry.Vec3 { return geometry.Vec3{X: bd.x, Y: y} }

// center is the point whose depth decides occlusion.
func (bd body) center() geometry.Vec3 {
	switch bd.kind {
	case figure.SolidCylinder:
		return bd.at(bd.y0 + bd.h/2)
	case figure.SolidCone:
		if bd.inverted {
			return bd.at(bd.y0 + 3*bd.h/4)
		}
		return bd.at(bd.y0 + bd.h/4)
	case figure.SolidHemisphere:
		if bd.inverted {
			return bd.at(bd.y0 + bd.r - 3*bd.r/8)
		}
		return bd.at(bd.y0 + 3*bd.r/8)
	}
	return bd.at(bd.y0 + bd.r)
}

// contains reports whether p is strictly inside the volume.
func (bd body) contains(p geometry.Vec3) bool {
	const eps = 1e-6
	radial := math.Hypot(p.X-bd.x, p.Z)
	y := p.Y - bd.y0
	switch bd.kind {
	case figure.SolidCylinder:
		return radial < bd.r*(1-eps) && y > eps*bd.h && y < bd.h*(1-eps)
	case figure.SolidCone:
		if y <= eps*bd.h || y >= bd.h*(1-eps) {
			return false
		}
		up := y / bd.h
		if bd.inverted {
			up = 1 - up
		}
		return radial < bd.r*(1-up)*(1-eps)
	case figure.SolidHemisphere:
		rim := bd.y0
		if bd.inverted {
			rim += bd.r
			if y >= bd.r*(1-eps) {
				return false
			}
		} else if y <= eps*bd.r {
			return false
		}
		return geometry.Dist3(p, bd.at(rim)) < bd.r*(1-eps)
	}
	return geometry.Dist3(p, bd.at(bd.y0+bd.r)) < bd.r*(1-eps)
}

// stackSolid places a solid at the origin and its nested chain relative to
// it. A nested solid without a position goes inside when it fits, else on
// top.
func stackSolid(s *figure.Solid) []body {
	var out []body
	for cur, parent := s, -1; cur != nil; cur, parent = cur.Nested, parent+1 {
		bd := body{s: cur, kind: cur.Kind, parent: parent}
		var p *body
		if parent >= 0 {
			p = &out[parent]
		}

		switch {
		case cur.Radius != nil:
			bd.r = *cur.Radius
		case p == nil:
			bd.r = defaultSolidRadius
		case cur.Kind == figure.SolidSphere && cur.Position != "top" && cur.Position != "bottom":
			bd.r = math.Min(p.r, p.height()/2)
		default:
			bd.r = p.r
		}
		if cur.Height != nil {
			bd.h = *cur.Height
		} else {
			bd.h = heightPerRadius * bd.r
		}

		if p != nil {
			bd.x = p.x
			pos := cur.Position
			if pos == "" {
				pos = "top"
				if bd.r <= p.r && bd.height() <= p.height() {
					pos = "inside"
				}
			}
			switch pos {
			case "inside":
				bd.inside = true
				bd.y0 = p.y0
				if bd.kind == figure.SolidSphere {
					bd.y0 = p.y0 + p.height()/2 - bd.r
				}
			case "bottom":
				bd.inverted = true
				bd.y0 = p.y0 - bd.height()
			default:
				bd.y0 = p.y0 + p.height()
			}
		}
		out = append(out, bd)
	}

	for i := range out {
		see := i+1 < len(out) && out[i+1].inside
		out[i].opaque = !see
		if o := out[i].s.Opaque; o != nil {
			out[i].opaque = *o
		}
	}
	return out
}

// =============================================================================
// Projection and occlusion
// =============================================================================

// curve is a sampled edge in space. self marks the pieces the solid hides
// from itself.
type curve struct {
	pts  []geometry.Vec3
	self []bool
}

type view struct {
	pr      geometry.Projection
	bodies  []body
	samples int

	curves [][]curve
	hulls  [][]geometry.Vec
	scale  float64
}

func (v *view) build() error {
	v.curves = make([][]curve, len(v.bodies))
	v.hulls = make([][]geometry.Vec, len(v.bodies))
	for i, bd := range v.bodies {
		cs, err := v.edges(bd)
		if err != nil {
			return err
		}
		v.curves[i] = cs
		var flat []geometry.Vec
		for _, c := range cs {
			for _, p := range c.pts {
				flat = append(flat, v.pr.Project(p))
			}
		}
		v.hulls[i] = geometry.ConvexHull(flat)
		v.scale = math.Max(v.scale, bd.r+bd.height())
	}
	return nil
}

// ring samples the horizontal circle at height y. hide reports, from the
// sample's z offset relative to the axis, whether a piece is a back edge.
func (v *view) ring(bd body, y float64, hide func(cos float64) bool) curve {
	pts := geometry.Ring(bd.at(y), bd.r, v.samples)
	c := curve{pts: pts, self: make([]bool, len(pts)-1)}
	for k := range c.self {
		mid := pts[k].Lerp(pts[k+1], 0.5)
		c.self[k] = hide(mid.Z / bd.r)
	}
	return c
}

func (v *view) line(a, b geometry.Vec3) curve {
	const n = 16
	c := curve{pts: make([]geometry.Vec3, n+1), self: make([]bool, n)}
	for k := range c.pts {
		c.pts[k] = a.Lerp(b, float64(k)/n)
	}
	return c
}

// outline samples the sphere's silhouette great circle from angle t0 to
// t1, measured from the right-hand point toward the top.
func (v *view) outline(center geometry.Vec3, r, t0, t1 float64) curve {
	n := max(2, int(float64(v.samples)*(t1-t0)/(2*math.Pi)))
	up := geometry.Vec3{Y: v.pr.Cos(), Z: -v.pr.Sin()}
	c := curve{pts: make([]geometry.Vec3, n+1), self: make([]bool, n)}
	for k := range c.pts {
		t := t0 + (t1-t0)*float64(k)/float64(n)
		c.pts[k] = center.Add(geometry.Vec3{X: r * math.Cos(t)}).Add(up.Scale(r * math.Sin(t)))
	}
	return c
}

func never(float64) bool    { return false }
func back(cos float64) bool { return cos < 0 }

// edges returns the drawn edges of one solid.
func (v *view) edges(bd body) ([]curve, error) {
	top := bd.y0 + bd.height()
	switch bd.kind {
	case figure.SolidCylinder:
		return []curve{
			v.ring(bd, bd.y0, back),
			v.ring(bd, top, never),
			v.line(geometry.Vec3{X: bd.x - bd.r, Y: bd.y0}, geometry.Vec3{X: bd.x - bd.r, Y: top}),
			v.line(geometry.Vec3{X: bd.x + bd.r, Y: bd.y0}, geometry.Vec3{X: bd.x + bd.r, Y: top}),
		}, nil

	case figure.SolidCone:
		base, apex := bd.y0, top
		if bd.inverted {
			base, apex = top, bd.y0
		}
		// The slant edges touch the base ellipse where cos a = −r·sinε/H,
		// H being the projected apex height above the base center.
		H := (apex - base) * v.pr.Cos()
		cosT := -bd.r * v.pr.Sin() / H
		if math.Abs(cosT) >= 1 {
			return nil, solveError("cone of radius %g and height %g has no silhouette at %g° elevation", bd.r, bd.h, geometry.Deg(v.pr.Elevation))
		}
		hide := never
		if !bd.inverted {
			hide = func(cos float64) bool { return cos < cosT }
		}
		sinT := math.Sqrt(1 - cosT*cosT)
		tip := bd.at(apex)
		return []curve{
			v.ring(bd, base, hide),
			v.line(tip, geometry.Vec3{X: bd.x - bd.r*sinT, Y: base, Z: bd.r * cosT}),
			v.line(tip, geometry.Vec3{X: bd.x + bd.r*sinT, Y: base, Z: bd.r * cosT}),
		}, nil

	case figure.SolidHemisphere:
		if bd.inverted {
			return []curve{
				v.outline(bd.at(top), bd.r, math.Pi, 2*math.Pi),
				v.ring(bd, top, never),
			}, nil
		}
		return []curve{
			v.outline(bd.at(bd.y0), bd.r, 0, math.Pi),
			v.ring(bd, bd.y0, back),
		}, nil
	}

	c := bd.at(bd.y0 + bd.r)
	return []curve{
		v.outline(c, bd.r, 0, 2*math.Pi),
		v.ring(bd, c.Y, back),
	}, nil
}

// occluded applies the occlusion rule to a point p on solid i: p is hidden
// by an opaque solid j when it lies inside j's volume, or when its
// projection lies strictly inside j's silhouette and it is deeper than
// j's center.
func (v *view) occluded(i int, p geometry.Vec3) bool {
	q := v.pr.Project(p)
	for j, other := range v.bodies {
		if j == i || !other.opaque {
			continue
		}
		if other.contains(p) {
			return true
		}
		if geometry.InsideConvex(v.hulls[j], q, 1e-6*v.scale) && v.pr.Depth(p) > v.pr.Depth(other.center()) {
			return true
		}
	}
	return false
}

// draw adds solid i's fill, edges and dimension labels to the scene. Edge
// pieces are classified at their midpoints and merged into runs.
func (v *view) draw(b *builder, i int) {
	bd := v.bodies[i]
	b.scene.Fills = append(b.scene.Fills, Fill{Points: v.hulls[i], Role: figure.RoleGiven})

	for _, c := range v.curves[i] {
		var run []geometry.Vec
		runHidden := false
		flush := func() {
			if len(run) > 1 {
				role := figure.RoleGiven
				if runHidden {
					role = figure.RoleHidden
				}
				b.scene.Polylines = append(b.scene.Polylines, Polyline{Points: run, Role: role})
			}
			run = nil
		}
		for k := range c.self {
			hidden := c.self[k] || v.occluded(i, c.pts[k].Lerp(c.pts[k+1], 0.5))
			if len(run) > 0 && hidden != runHidden {
				last := run[len(run)-1]
				flush()
				run = []geometry.Vec{last}
			}
			if len(run) == 0 {
				run = append(run, v.pr.Project(c.pts[k]))
			}
			runHidden = hidden
			run = append(run, v.pr.Project(c.pts[k+1]))
		}
		flush()
	}
	v.labels(b, bd)
}

// labels draws the radius, height and slant dimensions the solid names.
func (v *view) labels(b *builder, bd body) {
	top := bd.y0 + bd.height()
	role := func(text string) figure.Role { return b.role(text, false) }
	label := func(text string, at, dir geometry.Vec) {
		b.scene.Labels = append(b.scene.Labels, Label{Text: text, Anchor: at, Kind: LabelValue, Dir: dir, Role: role(text)})
	}

	if t := bd.s.RadiusLabel; t != "" {
		var c geometry.Vec3
		switch {
		case bd.kind == figure.SolidSphere:
			c = bd.at(bd.y0 + bd.r)
		case bd.kind == figure.SolidCylinder, bd.kind == figure.SolidCone && bd.inverted, bd.kind == figure.SolidHemisphere && bd.inverted:
			c = bd.at(top)
		default:
			c = bd.at(bd.y0)
		}
		a, e := v.pr.Project(c), v.pr.Project(c.Add(geometry.Vec3{X: bd.r}))
		b.scene.Segments = append(b.scene.Segments, Segment{A: a, B: e, Role: role(t)})
		label(t, a.Lerp(e, 0.5), geometry.V(0, 1))
	}

	if t := bd.s.HeightLabel; t != "" && bd.s.NeedsHeight() {
		switch bd.kind {
		case figure.SolidCylinder:
			a := v.pr.Project(geometry.Vec3{X: bd.x + bd.r, Y: bd.y0})
			e := v.pr.Project(geometry.Vec3{X: bd.x + bd.r, Y: top})
			label(t, a.Lerp(e, 0.5), geometry.V(1, 0))
		case figure.SolidCone:
			a, e := v.pr.Project(bd.at(bd.y0)), v.pr.Project(bd.at(top))
			b.scene.Segments = append(b.scene.Segments, Segment{A: a, B: e, Role: figure.RoleHidden})
			label(t, a.Lerp(e, 0.5), geometry.V(-1, 0))
		}
	}

	if t := bd.s.SlantLabel; t != "" && bd.kind == figure.SolidCone {
		base, apex := bd.y0, top
		if bd.inverted {
			base, apex = top, bd.y0
		}
		a := v.pr.Project(bd.at(apex))
		e := v.pr.Project(geometry.Vec3{X: bd.x + bd.r, Y: base})
		n := e.Sub(a).Perp().Unit()
		if n.X < 0 {
			n = n.Scale(-1)
		}
		label(t, a.Lerp(e, 0.5), n)
	}
}
