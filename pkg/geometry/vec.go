// Package geometry provides the plane and space primitives shared by the
// solver, the layout engine and the renderers.
//
// All angles are in radians unless a function name says otherwise. The
// plane uses a mathematical orientation: x grows to the right, y grows up,
// positive angles turn counter-clockwise. Canvas flipping happens in layout.
package geometry

import "math"

// Eps is the tolerance used for degeneracy checks.
const Eps = 1e-9

// Vec is a point or direction in the plane.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vec{x, y}.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

// Polar returns the point at distance r and angle a from the origin.
func Polar(r, a float64) Vec { return Vec{r * math.Cos(a), r * math.Sin(a)} }

func (v Vec) Add(w Vec) Vec             { return Vec{v.X + w.X, v.Y + w.Y} }
func (v Vec) Sub(w Vec) Vec             { return Vec{v.X - w.X, v.Y - w.Y} }
func (v Vec) Scale(k float64) Vec       { return Vec{v.X * k, v.Y * k} }
func (v Vec) Dot(w Vec) float64         { return v.X*w.X + v.Y*w.Y }
func (v Vec) Cross(w Vec) float64       { return v.X*w.Y - v.Y*w.X }
func (v Vec) Len() float64              { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(w Vec) float64        { return v.Sub(w).Len() }
func (v Vec) Angle() float64            { return math.Atan2(v.Y, v.X) }
func (v Vec) Perp() Vec                 { return Vec{-v.Y, v.X} }
func (v Vec) Lerp(w Vec, t float64) Vec { return v.Add(w.Sub(v).Scale(t)) }

// Unit returns v scaled to length 1. The zero vector is returned unchanged.
func (v Vec) Unit() Vec {
	l := v.Len()
	if l < Eps {
		return v
	}
	return v.Scale(1 / l)
}

// Rotate turns v counter-clockwise by a about the origin.
func (v Vec) Rotate(a float64) Vec {
	s, c := math.Sincos(a)
	return Vec{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// RotateAbout turns v counter-clockwise by a about center.
func (v Vec) RotateAbout(center Vec, a float64) Vec {
	return v.Sub(center).Rotate(a).Add(center)
}

// Finite reports whether both coordinates are finite numbers.
func (v Vec) Finite() bool { return finite(v.X) && finite(v.Y) }

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// Near reports whether v and w are within tol of each other.
func (v Vec) Near(w Vec, tol float64) bool { return v.Dist(w) <= tol }

// Centroid returns the arithmetic mean of pts. It returns the origin for an
// empty slice.
func Centroid(pts []Vec) Vec {
	if len(pts) == 0 {
		return Vec{}
	}
	var c Vec
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * 180 / math.Pi }

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * math.Pi / 180 }

// NormAngle maps a to [0, 2π).
func NormAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// AngleAt returns the unsigned angle at vertex v between rays to a and b,
// in [0, π].
func AngleAt(v, a, b Vec) float64 {
	u, w := a.Sub(v), b.Sub(v)
	return math.Abs(math.Atan2(u.Cross(w), u.Dot(w)))
}

// SignedArea returns twice the signed area of triangle abc. It is positive
// when a, b, c turn counter-clockwise.
func SignedArea(a, b, c Vec) float64 { return b.Sub(a).Cross(c.Sub(a)) }

// Collinear reports whether a, b and c lie on one line, relative to the
// size of the triangle they span.
func Collinear(a, b, c Vec) bool {
	scale := max(a.Dist(b), b.Dist(c), c.Dist(a))
	if scale < Eps {
		return true
	}
	return math.Abs(SignedArea(a, b, c)) <= 1e-6*scale*scale
}
