package geometry

import (
	"math"
	"slices"
)

// ConvexHull returns the convex hull of pts counter-clockwise, without
// repeating the first vertex. Collinear boundary points are dropped.
func ConvexHull(pts []Vec) []Vec {
	ps := slices.Clone(pts)
	slices.SortFunc(ps, func(a, b Vec) int {
		if a.X != b.X {
			if a.X < b.X {
				return -1
			}
			return 1
		}
		switch {
		case a.Y < b.Y:
			return -1
		case a.Y > b.Y:
			return 1
		}
		return 0
	})
	ps = slices.Compact(ps)
	if len(ps) < 3 {
		return ps
	}
	hull := make([]Vec, 0, 2*len(ps))
	for _, p := range ps {
		for len(hull) >= 2 && SignedArea(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(ps) - 2; i >= 0; i-- {
		p := ps[i]
		for len(hull) >= lower && SignedArea(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// InsideConvex reports whether p lies inside the counter-clockwise convex
// polygon poly, further than tol from every edge.
func InsideConvex(poly []Vec, p Vec, tol float64) bool {
	if len(poly) < 3 {
		return false
	}
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		d := b.Sub(a)
		l := d.Len()
		if l < Eps {
			continue
		}
		if d.Cross(p.Sub(a))/l <= tol {
			return false
		}
	}
	return true
}

// PolygonArea returns the signed area of poly, positive when it runs
// counter-clockwise.
func PolygonArea(poly []Vec) float64 {
	var s float64
	for i, a := range poly {
		s += a.Cross(poly[(i+1)%len(poly)])
	}
	return s / 2
}

// Dist3 returns the distance between two points in space.
func Dist3(a, b Vec3) float64 {
	d := a.Sub(b)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}
