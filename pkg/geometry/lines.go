package geometry

import (
	"errors"
	"math"
)

// ErrParallel is returned when two lines do not meet in a single point.
var ErrParallel = errors.New("lines are parallel")

// ErrNoIntersection is returned when a line misses a circle.
var ErrNoIntersection = errors.New("line does not meet circle")

// Line is the infinite line through P with direction D.
type Line struct {
	P, D Vec
}

// Through returns the line through a and b.
func Through(a, b Vec) Line { return Line{P: a, D: b.Sub(a)} }

// At returns the point P + t·D.
func (l Line) At(t float64) Vec { return l.P.Add(l.D.Scale(t)) }

// Intersect returns the meeting point of two lines.
func Intersect(l, m Line) (Vec, error) {
	den := l.D.Cross(m.D)
	scale := l.D.Len() * m.D.Len()
	if scale < Eps || math.Abs(den) <= 1e-12*scale {
		return Vec{}, ErrParallel
	}
	t := m.P.Sub(l.P).Cross(m.D) / den
	return l.At(t), nil
}

// Foot returns the foot of the perpendicular from p onto the line through a
// and b.
func Foot(p, a, b Vec) Vec {
	d := b.Sub(a)
	dd := d.Dot(d)
	if dd < Eps {
		return a
	}
	return a.Add(d.Scale(p.Sub(a).Dot(d) / dd))
}

// Reflect mirrors p in the line through a and b.
func Reflect(p, a, b Vec) Vec {
	f := Foot(p, a, b)
	return f.Scale(2).Sub(p)
}

// PerpBisector returns the perpendicular bisector of segment ab.
func PerpBisector(a, b Vec) Line {
	return Line{P: a.Lerp(b, 0.5), D: b.Sub(a).Perp()}
}

// AngleBisector returns the internal bisector of the angle at v between
// rays to a and b.
func AngleBisector(v, a, b Vec) Line {
	u := a.Sub(v).Unit().Add(b.Sub(v).Unit())
	if u.Len() < Eps {
		u = a.Sub(v).Perp()
	}
	return Line{P: v, D: u}
}

// CircleLine returns the parameters t1 <= t2 where l meets the circle with
// the given center and radius. A tangent line yields t1 == t2.
func CircleLine(center Vec, r float64, l Line) (t1, t2 float64, err error) {
	f := l.P.Sub(center)
	a := l.D.Dot(l.D)
	if a < Eps {
		return 0, 0, ErrNoIntersection
	}
	b := 2 * f.Dot(l.D)
	c := f.Dot(f) - r*r
	disc := b*b - 4*a*c
	if disc < -1e-9*a*r*r {
		return 0, 0, ErrNoIntersection
	}
	sq := math.Sqrt(math.Max(disc, 0))
	return (-b - sq) / (2 * a), (-b + sq) / (2 * a), nil
}

// TangentPoints returns the two points where tangents from external point p
// touch the circle. The first is reached by turning from the direction of p
// counter-clockwise, the second clockwise. The angle at the center between
// p and either tangency point is acos(r/d).
func TangentPoints(center Vec, r float64, p Vec) (ccw, cw Vec, err error) {
	op := p.Sub(center)
	d := op.Len()
	if d <= r*(1+1e-12) {
		return Vec{}, Vec{}, ErrNoIntersection
	}
	alpha := math.Acos(r / d)
	u := op.Unit().Scale(r)
	return center.Add(u.Rotate(alpha)), center.Add(u.Rotate(-alpha)), nil
}

// Segment is a finite segment from A to B.
type Segment struct {
	A, B Vec
}

// Len returns the segment length.
func (s Segment) Len() float64 { return s.A.Dist(s.B) }

// Mid returns the midpoint.
func (s Segment) Mid() Vec { return s.A.Lerp(s.B, 0.5) }

// DistTo returns the distance from p to the closest point of s.
func (s Segment) DistTo(p Vec) float64 {
	d := s.B.Sub(s.A)
	dd := d.Dot(d)
	if dd < Eps {
		return p.Dist(s.A)
	}
	t := math.Max(0, math.Min(1, p.Sub(s.A).Dot(d)/dd))
	return p.Dist(s.A.Add(d.Scale(t)))
}
