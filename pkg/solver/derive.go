package solver

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/geometry"
)

// derive places points built from other points, repeating until a pass
// places nothing new. It reports whether anything was placed.
func (b *builder) derive() (bool, error) {
	progress := false
	for {
		changed := false
		for _, e := range b.spec.Elements {
			p := e.Point
			if p == nil || b.placed(p.Label) {
				continue
			}
			pos, ok, err := b.construct(p)
			if err != nil {
				return progress, err
			}
			if ok {
				b.pin(p.Label, pos, PointDerived)
				changed = true
			}
		}
		if !changed {
			return progress, nil
		}
		progress = true
	}
}

// construct computes a derived point once its inputs are placed.
func (b *builder) construct(p *figure.Point) (geometry.Vec, bool, error) {
	switch {
	case p.OnCircle != "" && len(p.On) == 2:
		return b.secantPoint(p)
	case len(p.On) == 2 && p.OnCircle == "":
		if !b.allPlaced(p.On) {
			return geometry.Vec{}, false, nil
		}
		t := 0.5
		if p.Ratio != "" {
			t, _ = figure.RatioFraction(p.Ratio)
		}
		return b.pts[p.On[0]].Lerp(b.pts[p.On[1]], t), true, nil
	case len(p.Midpoint) == 2:
		if !b.allPlaced(p.Midpoint) {
			return geometry.Vec{}, false, nil
		}
		return b.pts[p.Midpoint[0]].Lerp(b.pts[p.Midpoint[1]], 0.5), true, nil
	case len(p.Intersection) == 4:
		if !b.allPlaced(p.Intersection) {
			return geometry.Vec{}, false, nil
		}
		ps := b.positions(p.Intersection)
		x, err := geometry.Intersect(geometry.Through(ps[0], ps[1]), geometry.Through(ps[2], ps[3]))
		if err != nil {
			return geometry.Vec{}, false, solveError("point %s: lines %s%s and %s%s do not meet",
				p.Label, p.Intersection[0], p.Intersection[1], p.Intersection[2], p.Intersection[3])
		}
		return x, true, nil
	case p.Foot != nil:
		ids := append([]string{p.Foot.From}, p.Foot.To...)
		if !b.allPlaced(ids) {
			return geometry.Vec{}, false, nil
		}
		ps := b.positions(ids)
		if ps[1].Dist(ps[2]) < geometry.Eps {
			return geometry.Vec{}, false, solveError("point %s: line %s%s has zero length", p.Label, p.Foot.To[0], p.Foot.To[1])
		}
		return geometry.Foot(ps[0], ps[1], ps[2]), true, nil
	case p.Reflect != nil:
		ids := append([]string{p.Reflect.Of}, p.Reflect.In...)
		if !b.allPlaced(ids) {
			return geometry.Vec{}, false, nil
		}
		ps := b.positions(ids)
		if ps[1].Dist(ps[2]) < geometry.Eps {
			return geometry.Vec{}, false, solveError("point %s: mirror line %s%s has zero length", p.Label, p.Reflect.In[0], p.Reflect.In[1])
		}
		return geometry.Reflect(ps[0], ps[1], ps[2]), true, nil
	case p.Description != "" && !p.HasCoords():
		if q := describedPoint(p.Description, b.spec.PointIDs()); q != nil {
			q.Label = p.Label
			return b.construct(q)
		}
	}
	return geometry.Vec{}, false, nil
}

// secantPoint meets line On with the circle about OnCircle. Root 1 is
// the meeting point nearer On[0]; without an authored root, meeting
// points already in use along the same line are skipped.
func (b *builder) secantPoint(p *figure.Point) (geometry.Vec, bool, error) {
	c := b.spec.Circle(p.OnCircle)
	if c == nil || !b.placed(c.Center) || !b.allPlaced(p.On) {
		return geometry.Vec{}, false, nil
	}
	o, r := b.pts[c.Center], b.circleRadius(c)
	a, q := b.pts[p.On[0]], b.pts[p.On[1]]
	line := geometry.Through(a, q)
	t1, t2, err := geometry.CircleLine(o, r, line)
	if errors.Is(err, geometry.ErrNoIntersection) {
		return geometry.Vec{}, false, solveError("point %s: line %s%s misses circle %s", p.Label, p.On[0], p.On[1], p.OnCircle)
	}
	if p.Root == 1 || p.Root == 2 {
		return line.At([]float64{t1, t2}[p.Root-1]), true, nil
	}

	var roots []float64
	for _, t := range []float64{t1, t2} {
		at := line.At(t)
		if at.Near(a, 1e-9*r) || at.Near(q, 1e-9*r) {
			continue
		}
		roots = append(roots, t)
	}
	if len(roots) == 0 {
		roots = []float64{t1}
	}
	key := [2]string{p.On[0], p.On[1]}
	i := min(b.secantUse[key], len(roots)-1)
	b.secantUse[key]++
	return line.At(roots[i]), true, nil
}

// =============================================================================
// Described points
// =============================================================================

var (
	midpointRe     = regexp.MustCompile(`(?i)^midpoint\s+of\s+(\S+)$`)
	onRatioRe      = regexp.MustCompile(`(?i)^on\s+(\S+)(?:.*?\bratio\s+(\S+))?`)
	intersectionRe = regexp.MustCompile(`(?i)^intersection\s+of\s+(\S+)\s+and\s+(\S+)$`)
	projectionRe   = regexp.MustCompile(`(?i)^(?:projection|foot)\s+of\s+(\S+)\s+on\s+(\S+)$`)
	reflectionRe   = regexp.MustCompile(`(?i)^reflection\s+of\s+(\S+)\s+in\s+(\S+)$`)
)

// describedPoint reads the short phrases authors use instead of
// constructor fields: "midpoint of AB", "on AB ratio 3:4",
// "intersection of AB and CD", "projection of P on AB" and
// "reflection of P in AB".
func describedPoint(desc string, ids []string) *figure.Point {
	desc = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(desc), "."))
	pair := func(name string) []string {
		parts, ok := figure.SplitName(name, ids)
		if !ok || len(parts) != 2 {
			return nil
		}
		return parts
	}

	switch {
	case midpointRe.MatchString(desc):
		m := midpointRe.FindStringSubmatch(desc)
		if ab := pair(m[1]); ab != nil {
			return &figure.Point{Midpoint: ab}
		}
	case intersectionRe.MatchString(desc):
		m := intersectionRe.FindStringSubmatch(desc)
		ab, cd := pair(m[1]), pair(m[2])
		if ab != nil && cd != nil {
			return &figure.Point{Intersection: append(ab, cd...)}
		}
	case projectionRe.MatchString(desc):
		m := projectionRe.FindStringSubmatch(desc)
		if ab := pair(m[2]); ab != nil {
			return &figure.Point{Foot: &figure.Foot{From: m[1], To: ab}}
		}
	case reflectionRe.MatchString(desc):
		m := reflectionRe.FindStringSubmatch(desc)
		if ab := pair(m[2]); ab != nil {
			return &figure.Point{Reflect: &figure.Reflection{Of: m[1], In: ab}}
		}
	case onRatioRe.MatchString(desc):
		m := onRatioRe.FindStringSubmatch(desc)
		if ab := pair(strings.TrimSuffix(m[1], ",")); ab != nil {
			q := &figure.Point{On: ab}
			if _, ok := figure.RatioFraction(m[2]); ok {
				q.Ratio = m[2]
			}
			return q
		}
	}
	return nil
}

// clipLine returns the part of l inside r.
func clipLine(l geometry.Line, r geometry.Rect) (geometry.Segment, bool) {
	t0, t1 := math.Inf(-1), math.Inf(1)
	checks := [4][2]float64{
		{-l.D.X, l.P.X - r.Min.X},
		{l.D.X, r.Max.X - l.P.X},
		{-l.D.Y, l.P.Y - r.Min.Y},
		{l.D.Y, r.Max.Y - l.P.Y},
	}
	for _, c := range checks {
		p, q := c[0], c[1]
		if math.Abs(p) < geometry.Eps {
			if q < 0 {
				return geometry.Segment{}, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
	}
	if t0 >= t1 || math.IsInf(t0, 0) || math.IsInf(t1, 0) {
		return geometry.Segment{}, false
	}
	return geometry.Segment{A: l.At(t0), B: l.At(t1)}, true
}

// clipRay returns the part of the ray from l.P along l.D inside r.
func clipRay(l geometry.Line, r geometry.Rect) (geometry.Segment, bool) {
	s, ok := clipLine(l, r)
	if !ok {
		return s, false
	}
	d := l.D
	ta, tb := s.A.Sub(l.P).Dot(d), s.B.Sub(l.P).Dot(d)
	switch {
	case ta >= 0 && tb >= 0:
		return s, true
	case ta < 0 && tb > 0:
		return geometry.Segment{A: l.P, B: s.B}, true
	case tb < 0 && ta > 0:
		return geometry.Segment{A: l.P, B: s.A}, true
	}
	return geometry.Segment{}, false
}
