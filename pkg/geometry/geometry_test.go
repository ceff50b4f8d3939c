package geometry

import (
	"math"
	"testing"
)

const tol = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= tol }

func TestRotate(t *testing.T) {
	got := V(1, 0).Rotate(math.Pi / 2)
	if !got.Near(V(0, 1), tol) {
		t.Errorf("Rotate = %v, want (0,1)", got)
	}
	got = V(2, 1).RotateAbout(V(1, 1), math.Pi)
	if !got.Near(V(0, 1), tol) {
		t.Errorf("RotateAbout = %v, want (0,1)", got)
	}
}

func TestAngleAt(t *testing.T) {
	got := Deg(AngleAt(V(0, 0), V(1, 0), V(1, 1)))
	if math.Abs(got-45) > 1e-9 {
		t.Errorf("AngleAt = %v, want 45", got)
	}
	got = Deg(AngleAt(V(0, 0), V(1, 0), V(-1, 0)))
	if math.Abs(got-180) > 1e-9 {
		t.Errorf("AngleAt straight = %v, want 180", got)
	}
}

func TestCollinear(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Vec
		want    bool
	}{
		{"triangle", V(0, 0), V(4, 0), V(1, 3), false},
		{"on a line", V(0, 0), V(1, 1), V(5, 5), true},
		{"repeated point", V(2, 2), V(2, 2), V(3, 7), true},
		{"all equal", V(1, 1), V(1, 1), V(1, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Collinear(tt.a, tt.b, tt.c); got != tt.want {
				t.Errorf("Collinear = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntersect(t *testing.T) {
	p, err := Intersect(Through(V(0, 0), V(2, 2)), Through(V(0, 2), V(2, 0)))
	if err != nil {
		t.Fatalf("Intersect: %v", err)
	}
	if !p.Near(V(1, 1), tol) {
		t.Errorf("Intersect = %v, want (1,1)", p)
	}
	if _, err := Intersect(Through(V(0, 0), V(1, 0)), Through(V(0, 1), V(1, 1))); err != ErrParallel {
		t.Errorf("parallel lines: err = %v, want ErrParallel", err)
	}
}

func TestFootAndReflect(t *testing.T) {
	f := Foot(V(1, 3), V(0, 0), V(4, 0))
	if !f.Near(V(1, 0), tol) {
		t.Errorf("Foot = %v, want (1,0)", f)
	}
	r := Reflect(V(1, 3), V(0, 0), V(4, 0))
	if !r.Near(V(1, -3), tol) {
		t.Errorf("Reflect = %v, want (1,-3)", r)
	}
}

func TestTangentPointsPerpendicular(t *testing.T) {
	center, r := V(0, 0), 3.0
	for _, p := range []Vec{V(6.6, 0), V(-4, 5), V(0, -3.5)} {
		ccw, cw, err := TangentPoints(center, r, p)
		if err != nil {
			t.Fatalf("TangentPoints(%v): %v", p, err)
		}
		for _, tp := range []Vec{ccw, cw} {
			if d := tp.Dist(center); math.Abs(d-r) > 1e-9 {
				t.Errorf("tangency point %v at distance %v, want %v", tp, d, r)
			}
			if dot := tp.Sub(center).Dot(p.Sub(tp)); math.Abs(dot) > 1e-6 {
				t.Errorf("radius not perpendicular to tangent: dot = %v", dot)
			}
		}
		if SignedArea(center, p, ccw) <= 0 {
			t.Errorf("first tangency point should lie counter-clockwise of OP")
		}
	}
	if _, _, err := TangentPoints(center, r, V(1, 1)); err == nil {
		t.Error("inner point should have no tangents")
	}
}

func TestCircleLine(t *testing.T) {
	t1, t2, err := CircleLine(V(0, 0), 1, Through(V(-2, 0), V(2, 0)))
	if err != nil {
		t.Fatalf("CircleLine: %v", err)
	}
	if !near(t1, 0.25) || !near(t2, 0.75) {
		t.Errorf("CircleLine = %v, %v, want 0.25, 0.75", t1, t2)
	}
	if _, _, err := CircleLine(V(0, 0), 1, Through(V(-2, 3), V(2, 3))); err == nil {
		t.Error("line above circle should miss")
	}
}

func TestRectOverlap(t *testing.T) {
	a := RectAround(V(0, 0), 2, 2)
	b := RectAround(V(1, 1), 2, 2)
	if got := a.Overlap(b); !near(got, 1) {
		t.Errorf("Overlap = %v, want 1", got)
	}
	c := RectAround(V(2, 0), 2, 2)
	if a.Intersects(c) {
		t.Error("touching rects should not intersect")
	}
	if !(Rect{}).Empty() {
		t.Error("zero Rect should be empty")
	}
	u := a.Union(c)
	if !near(u.W(), 4) || !near(u.H(), 2) {
		t.Errorf("Union = %vx%v, want 4x2", u.W(), u.H())
	}
}

func TestRectClipSegment(t *testing.T) {
	r := NewRect(V(0, 0), V(2, 2))
	tests := []struct {
		name string
		s    Segment
		want float64
	}{
		{"crossing", Segment{V(-1, 1), V(3, 1)}, 2},
		{"inside", Segment{V(0.5, 0.5), V(1.5, 0.5)}, 1},
		{"outside", Segment{V(3, 3), V(4, 4)}, 0},
		{"diagonal", Segment{V(-1, -1), V(3, 3)}, 2 * math.Sqrt2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ClipSegment(tt.s); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ClipSegment = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectDistRange(t *testing.T) {
	r := NewRect(V(2, -1), V(4, 1))
	lo, hi := r.DistRange(V(0, 0))
	if !near(lo, 2) || !near(hi, math.Hypot(4, 1)) {
		t.Errorf("DistRange = %v, %v", lo, hi)
	}
}

func TestProjection(t *testing.T) {
	pr := NewProjection(20)
	top := pr.Project(Vec3{0, 5, 0})
	if !near(top.Y, 5*math.Cos(Rad(20))) {
		t.Errorf("vertical edge projects to %v", top.Y)
	}
	front := Vec3{0, 0, 1}
	back := Vec3{0, 0, -1}
	if pr.Depth(front) >= pr.Depth(back) {
		t.Error("front of a ring should be closer than its back")
	}
	if pr.Project(front).Y >= pr.Project(back).Y {
		t.Error("front of a ring should project below its back")
	}
	ring := Ring(Vec3{}, 2, 8)
	if len(ring) != 9 {
		t.Fatalf("Ring returned %d samples, want 9", len(ring))
	}
	if d := ring[0].Sub(ring[8]); math.Abs(d.X)+math.Abs(d.Y)+math.Abs(d.Z) > 1e-12 {
		t.Errorf("Ring should close on itself, off by %v", d)
	}
}

func TestConvexHull(t *testing.T) {
	pts := []Vec{V(0, 0), V(2, 0), V(1, 1), V(2, 2), V(0, 2), V(1, 0), V(0, 0)}
	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("hull = %v, want 4 corners", hull)
	}
	if a := PolygonArea(hull); !near(a, 4) {
		t.Errorf("area = %v, want 4 (counter-clockwise)", a)
	}
	if !InsideConvex(hull, V(1, 1), 1e-9) {
		t.Error("center should be inside")
	}
	if InsideConvex(hull, V(2, 1), 1e-9) {
		t.Error("a point on an edge is not strictly inside")
	}
	if InsideConvex(hull, V(3, 1), 1e-9) {
		t.Error("outside point reported inside")
	}
}

func TestRectFinite(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"unit", NewRect(V(0, 0), V(1, 1)), true},
		{"infinite corner", NewRect(V(0, 0), V(math.Inf(1), 1)), false},
		{"NaN corner", NewRect(V(math.NaN(), 0), V(1, 1)), false},
		{"overflowing width", NewRect(V(-1e308, 0), V(1e308, 1)), false},
	}
	for _, tt := range tests {
		if got := tt.r.Finite(); got != tt.want {
			t.Errorf("%s: Finite() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
