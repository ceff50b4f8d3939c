package geometry

import (
	"encoding/json"
	"math"
)

// Rect is an axis-aligned box. The zero Rect is empty.
type Rect struct {
	Min Vec `json:"min"`
	Max Vec `json:"max"`
	set bool
}

// RectAround returns the box of width w and height h centered on c.
func RectAround(c Vec, w, h float64) Rect {
	return Rect{Min: V(c.X-w/2, c.Y-h/2), Max: V(c.X+w/2, c.Y+h/2), set: true}
}

// NewRect returns the box spanned by two corners.
func NewRect(a, b Vec) Rect { return Rect{}.Extend(a).Extend(b) }

// UnmarshalJSON decodes a box written by encoding/json. A decoded box is
// never empty.
func (r *Rect) UnmarshalJSON(data []byte) error {
	var raw struct {
		Min Vec `json:"min"`
		Max Vec `json:"max"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Rect{Min: raw.Min, Max: raw.Max, set: true}
	return nil
}

// Empty reports whether no point was ever added.
func (r Rect) Empty() bool { return !r.set }

// Extend returns r grown to contain p.
func (r Rect) Extend(p Vec) Rect {
	if !r.set {
		return Rect{Min: p, Max: p, set: true}
	}
	r.Min = V(math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y))
	r.Max = V(math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y))
	return r
}

// Union returns the smallest box containing r and o.
func (r Rect) Union(o Rect) Rect {
	if !o.set {
		return r
	}
	return r.Extend(o.Min).Extend(o.Max)
}

// Finite reports whether the corners and the extent of r are finite.
func (r Rect) Finite() bool {
	return r.Min.Finite() && r.Max.Finite() && finite(r.W()) && finite(r.H())
}

func (r Rect) W() float64  { return r.Max.X - r.Min.X }
func (r Rect) H() float64  { return r.Max.Y - r.Min.Y }
func (r Rect) Center() Vec { return r.Min.Lerp(r.Max, 0.5) }
func (r Rect) Contains(p Vec) bool {
	return r.set && p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Inset returns r shrunk by d on every side. A negative d grows it.
func (r Rect) Inset(d float64) Rect {
	if !r.set {
		return r
	}
	r.Min = r.Min.Add(V(d, d))
	r.Max = r.Max.Sub(V(d, d))
	return r
}

// Overlap returns the area shared by r and o.
func (r Rect) Overlap(o Rect) float64 {
	if !r.set || !o.set {
		return 0
	}
	w := math.Min(r.Max.X, o.Max.X) - math.Max(r.Min.X, o.Min.X)
	h := math.Min(r.Max.Y, o.Max.Y) - math.Max(r.Min.Y, o.Min.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Intersects reports whether r and o share a region of positive area.
func (r Rect) Intersects(o Rect) bool { return r.Overlap(o) > 0 }

// DistRange returns the smallest and largest distance from p to any point
// of r.
func (r Rect) DistRange(p Vec) (lo, hi float64) {
	dx := math.Max(0, math.Max(r.Min.X-p.X, p.X-r.Max.X))
	dy := math.Max(0, math.Max(r.Min.Y-p.Y, p.Y-r.Max.Y))
	lo = math.Hypot(dx, dy)
	fx := math.Max(math.Abs(p.X-r.Min.X), math.Abs(p.X-r.Max.X))
	fy := math.Max(math.Abs(p.Y-r.Min.Y), math.Abs(p.Y-r.Max.Y))
	hi = math.Hypot(fx, fy)
	return lo, hi
}

// ClipSegment returns the length of the part of s inside r, using
// Liang-Barsky clipping.
func (r Rect) ClipSegment(s Segment) float64 {
	if !r.set {
		return 0
	}
	t0, t1 := 0.0, 1.0
	d := s.B.Sub(s.A)
	edges := [4][2]float64{
		{-d.X, s.A.X - r.Min.X},
		{d.X, r.Max.X - s.A.X},
		{-d.Y, s.A.Y - r.Min.Y},
		{d.Y, r.Max.Y - s.A.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if math.Abs(p) < Eps {
			if q < 0 {
				return 0
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return 0
		}
	}
	return (t1 - t0) * d.Len()
}
