package geometry

import "math"

// Vec3 is a point in space. Y is the vertical axis and Z points toward the
// viewer before the camera is tilted.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(w Vec3) Vec3             { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }
func (v Vec3) Sub(w Vec3) Vec3             { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }
func (v Vec3) Scale(k float64) Vec3        { return Vec3{v.X * k, v.Y * k, v.Z * k} }
func (v Vec3) Lerp(w Vec3, t float64) Vec3 { return v.Add(w.Sub(v).Scale(t)) }

// Projection is an orthographic view from a camera raised by Elevation
// above the horizontal, looking down toward -Z.
//
//	X     = x
//	Y     = y·cos ε − z·sin ε
//	depth = −y·sin ε − z·cos ε
//
// Smaller depth is closer to the viewer. A horizontal circle of radius r
// projects to an ellipse with semi-axes r and r·sin ε.
type Projection struct {
	Elevation float64
	sin, cos  float64
}

// NewProjection returns the view at the given elevation in degrees.
func NewProjection(elevationDeg float64) Projection {
	e := Rad(elevationDeg)
	return Projection{Elevation: e, sin: math.Sin(e), cos: math.Cos(e)}
}

// Project maps p onto the picture plane.
func (pr Projection) Project(p Vec3) Vec {
	return Vec{p.X, p.Y*pr.cos - p.Z*pr.sin}
}

// Depth returns the distance of p along the view direction.
func (pr Projection) Depth(p Vec3) float64 {
	return -p.Y*pr.sin - p.Z*pr.cos
}

// Sin returns sin ε.
func (pr Projection) Sin() float64 { return pr.sin }

// Cos returns cos ε.
func (pr Projection) Cos() float64 { return pr.cos }

// Ring returns n+1 samples of the horizontal circle of radius r centered on
// c, starting at the front (toward the viewer) and closing on itself.
func Ring(c Vec3, r float64, n int) []Vec3 {
	pts := make([]Vec3, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Vec3{c.X + r*math.Sin(a), c.Y, c.Z + r*math.Cos(a)}
	}
	return pts
}
