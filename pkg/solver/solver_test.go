package solver

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/geometry"
)

const tangentBlock = `type: circle_tangent
description: Tangent TA at A; chord AB; angle TAB = 32°
elements:
  - circle: {center: O, radius: 3, points: [A, B, P]}
  - tangent: {circle: O, point: A, external_point: T}
  - line: {points: [A, B]}
  - line: {points: [P, A]}
  - line: {points: [P, B]}
  - angle: {vertex: A, rays: [T, B], marked: true}
given_values: {TAB: 32°}
find_values: [APB]
`

func mustSpec(t *testing.T, block string) *figure.Spec {
	t.Helper()
	spec, errs := figure.ParseAndValidate(block)
	if len(errs) > 0 {
		t.Fatalf("ParseAndValidate: %v", errs)
	}
	return spec
}

func mustResolve(t *testing.T, block string) *Resolved {
	t.Helper()
	res, err := Resolve(mustSpec(t, block), Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return res
}

func angle(t *testing.T, r *Resolved, vertex, a, b string) float64 {
	t.Helper()
	deg, ok := r.AngleDeg(vertex, a, b)
	if !ok {
		t.Fatalf("angle %s%s%s: point missing", a, vertex, b)
	}
	return deg
}

func TestRegistryCoversEveryType(t *testing.T) {
	for _, typ := range figure.Types {
		if _, ok := VariantFor(typ); !ok {
			t.Errorf("no variant for %s", typ)
		}
	}
	if got := Variants(); len(got) != 5 {
		t.Errorf("Variants() = %v, want 5", got)
	}
}

func TestResolve_TangentScenario(t *testing.T) {
	r := mustResolve(t, tangentBlock)

	o, _ := r.Point("O")
	a, _ := r.Point("A")
	tp, _ := r.Point("T")
	radial, along := a.Sub(o), tp.Sub(a)
	if d := math.Abs(radial.Dot(along)) / (radial.Len() * along.Len()); d > 1e-6 {
		t.Errorf("OA·AT = %g, want perpendicular", d)
	}
	if d := math.Abs(a.Dist(o) - 3); d > 1e-9 {
		t.Errorf("|OA| = %g, want 3", a.Dist(o))
	}
	if got := angle(t, r, "A", "T", "B"); math.Abs(got-32) > 1e-6 {
		t.Errorf("∠TAB = %g, want 32", got)
	}
	// alternate segment: the inscribed angle on chord AB equals ∠TAB
	if got := angle(t, r, "P", "A", "B"); math.Abs(got-32) > 1e-6 {
		t.Errorf("∠APB = %g, want 32", got)
	}
	if got := angle(t, r, "A", "O", "T"); math.Abs(got-90) > 1e-6 {
		t.Errorf("∠OAT = %g, want 90", got)
	}

	var find bool
	for _, m := range r.Scene.Angles {
		if m.Name == "APB" && m.Role == figure.RoleFind {
			find = true
		}
	}
	if !find {
		t.Error("find angle APB not marked")
	}
}

func TestResolve_Deterministic(t *testing.T) {
	spec := mustSpec(t, tangentBlock)
	first, err := Resolve(spec, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		again, err := Resolve(spec, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first.Points, again.Points) || !reflect.DeepEqual(first.Scene, again.Scene) {
			t.Fatal("Resolve is not deterministic")
		}
	}
}

func TestResolve_CyclicQuadrilateral(t *testing.T) {
	tests := []struct {
		name  string
		given string
	}{
		{"two angles", "{DAB: 100°, ABC: 70°}"},
		{"one angle", "{DAB: 115°}"},
		{"no angles", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustResolve(t, `type: cyclic_quadrilateral
description: ABCD is a cyclic quadrilateral
elements:
  - circle: {center: O}
  - quadrilateral: {vertices: [A, B, C, D]}
given_values: `+tt.given+`
find_values: [BCD]
`)
			if s := angle(t, r, "A", "D", "B") + angle(t, r, "C", "B", "D"); math.Abs(s-180) > 1e-6 {
				t.Errorf("∠A + ∠C = %g, want 180", s)
			}
			if s := angle(t, r, "B", "A", "C") + angle(t, r, "D", "C", "A"); math.Abs(s-180) > 1e-6 {
				t.Errorf("∠B + ∠D = %g, want 180", s)
			}
		})
	}
}

func TestResolve_CyclicGivenAngles(t *testing.T) {
	r := mustResolve(t, `type: cyclic_quadrilateral
description: ABCD is a cyclic quadrilateral
elements:
  - circle: {center: O}
  - quadrilateral: {vertices: [A, B, C, D]}
given_values: {DAB: 100°, ABC: 70°}
find_values: [BCD]
`)
	if got := angle(t, r, "A", "D", "B"); math.Abs(got-100) > 1e-6 {
		t.Errorf("∠DAB = %g, want 100", got)
	}
	if got := angle(t, r, "B", "A", "C"); math.Abs(got-70) > 1e-6 {
		t.Errorf("∠ABC = %g, want 70", got)
	}
}

func TestResolve_CyclicContradiction(t *testing.T) {
	spec := mustSpec(t, `type: cyclic_quadrilateral
description: ABCD is a cyclic quadrilateral
elements:
  - circle: {center: O}
  - quadrilateral: {vertices: [A, B, C, D]}
given_values: {DAB: 100°, BCD: 100°}
`)
	_, err := Resolve(spec, Options{})
	if !geoerrors.Is(err, geoerrors.ErrCodeGeometrySolve) {
		t.Fatalf("err = %v, want GEOMETRY_SOLVE", err)
	}
}

func TestResolve_CylinderScenario(t *testing.T) {
	r := mustResolve(t, `type: mensuration_cylinder
description: A cylinder of radius 2 cm and height 5 cm
elements:
  - solid: {kind: cylinder, radius: 2, height: 5, radius_label: 2 cm, height_label: 5 cm}
given_values: {radius: 2 cm, height: 5 cm}
find_values: [volume]
`)
	eps := geometry.Rad(DefaultElevation)
	want := 4 / (5*math.Cos(eps) + 4*math.Sin(eps))
	box := r.Bounds()
	got := box.W() / box.H()
	if math.Abs(got-want)/want > 0.02 {
		t.Errorf("aspect = %g, want %g", got, want)
	}
	if r.Solid == nil || r.Solid.Solids != 1 {
		t.Errorf("Solid = %+v", r.Solid)
	}

	var hidden, labels int
	for _, pl := range r.Scene.Polylines {
		if pl.Role == figure.RoleHidden {
			hidden++
		}
	}
	for _, l := range r.Scene.Labels {
		if l.Kind == LabelValue {
			labels++
		}
	}
	if hidden != 1 {
		t.Errorf("got %d hidden runs, want the back of the base only", hidden)
	}
	if labels != 2 {
		t.Errorf("got %d dimension labels, want 2", labels)
	}
}

func TestResolve_SphereInCylinder(t *testing.T) {
	r := mustResolve(t, `type: mensuration_combined
description: A sphere fits exactly inside a cylinder
elements:
  - solid:
      kind: cylinder
      radius: 2
      height: 4
      nested: {kind: sphere, position: inside}
find_values: [volume]
`)
	if r.Solid.Solids != 2 {
		t.Fatalf("Solids = %d, want 2", r.Solid.Solids)
	}
	// the cylinder holds the sphere, so it is see-through and nothing near
	// its top rim is hidden
	for _, pl := range r.Scene.Polylines {
		if pl.Role != figure.RoleHidden {
			continue
		}
		for _, p := range pl.Points {
			if p.Y > 4 {
				t.Errorf("hidden edge at %v above the figure center", p)
				break
			}
		}
	}
}

// sphereRuns returns the polylines lying within |x| <= r of the axis,
// which for a sphere of radius r inside a wider cylinder are the sphere's.
func sphereRuns(r *Resolved, radius float64) []Polyline {
	var out []Polyline
	for _, pl := range r.Scene.Polylines {
		inside := true
		for _, p := range pl.Points {
			if math.Abs(p.X) > radius+1e-9 {
				inside = false
				break
			}
		}
		if inside {
			out = append(out, pl)
		}
	}
	return out
}

func TestResolve_OpaqueContainerHidesNested(t *testing.T) {
	const block = `type: mensuration_combined
description: A ball of radius 1 inside a cylinder of radius 3
elements:
  - solid:
      kind: cylinder
      radius: 3
      height: 6
      opaque: %s
      nested: {kind: sphere, radius: 1, position: inside}
`
	opaque := mustResolve(t, fmt.Sprintf(block, "true"))
	runs := sphereRuns(opaque, 1)
	if len(runs) == 0 {
		t.Fatal("no sphere edges drawn")
	}
	for _, pl := range runs {
		if pl.Role != figure.RoleHidden {
			t.Errorf("sphere edge %v is %s inside an opaque cylinder", pl.Points[0], pl.Role)
		}
	}

	seeThrough := mustResolve(t, fmt.Sprintf(block, "false"))
	visible := 0
	for _, pl := range sphereRuns(seeThrough, 1) {
		if pl.Role != figure.RoleHidden {
			visible++
		}
	}
	if visible == 0 {
		t.Error("a see-through cylinder hides the whole sphere")
	}
}

func TestOccluded_DepthRule(t *testing.T) {
	cylinder := body{kind: figure.SolidCylinder, r: 2, h: 4, opaque: true, parent: -1}
	other := body{kind: figure.SolidSphere, r: 1, x: 10, parent: -1}
	v := &view{pr: geometry.NewProjection(DefaultElevation), bodies: []body{cylinder, other}, samples: DefaultSamples}
	if err := v.build(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		p    geometry.Vec3
		want bool
	}{
		{"behind and within the silhouette", geometry.Vec3{Y: 2, Z: -5}, true},
		{"in front and within the silhouette", geometry.Vec3{Y: 2, Z: 5}, false},
		{"behind but beside the silhouette", geometry.Vec3{X: 5, Y: 2, Z: -5}, false},
		{"inside the volume", geometry.Vec3{Y: 2, Z: 0.5}, true},
	}
	for _, tt := range tests {
		if got := v.occluded(1, tt.p); got != tt.want {
			t.Errorf("%s: occluded = %v, want %v", tt.name, got, tt.want)
		}
	}

	v.bodies[0].opaque = false
	for _, tt := range tests {
		if v.occluded(1, tt.p) {
			t.Errorf("%s: hidden by a see-through solid", tt.name)
		}
	}
}

func TestResolve_ConstructionCycle(t *testing.T) {
	// Validate rejects this block; Resolve must not place it by default.
	spec, errs := figure.Parse(`type: generic
description: Two midpoints built from each other
elements:
  - point: {label: A, x: 0, y: 0}
  - point: {label: B, x: 4, y: 0}
  - point: {label: D, midpoint: [B, E]}
  - point: {label: E, midpoint: [A, D]}
`)
	if len(errs) > 0 {
		t.Fatalf("Parse: %v", errs)
	}
	_, err := Resolve(spec, Options{})
	if !geoerrors.Is(err, geoerrors.ErrCodeGeometrySolve) {
		t.Fatalf("err = %v, want GEOMETRY_SOLVE", err)
	}
}

func TestResolve_ConstructedFromFreePoints(t *testing.T) {
	r := mustResolve(t, `type: generic
description: M is the midpoint of AB
elements:
  - point: {label: A}
  - point: {label: B}
  - point: {label: M, midpoint: [A, B]}
  - line: {points: [A, B]}
`)
	want := r.Points["A"].Lerp(r.Points["B"], 0.5)
	if !r.Points["M"].Near(want, 1e-9) {
		t.Errorf("M = %v, want the midpoint %v", r.Points["M"], want)
	}
}

func TestResolve_NonFiniteExtent(t *testing.T) {
	spec, errs := figure.Parse(`type: circle_chord
description: A circle too large to draw
elements:
  - circle: {center: O, radius: 1e308, points: [A, B]}
`)
	if len(errs) > 0 {
		t.Fatalf("Parse: %v", errs)
	}
	_, err := Resolve(spec, Options{})
	if !geoerrors.Is(err, geoerrors.ErrCodeGeometrySolve) {
		t.Fatalf("err = %v, want GEOMETRY_SOLVE", err)
	}
}

func TestResolve_HemisphereOnCylinder(t *testing.T) {
	r := mustResolve(t, `type: mensuration_combined
description: A hemisphere on top of a cylinder
elements:
  - solid:
      kind: cylinder
      radius: 2
      height: 5
      nested: {kind: hemisphere, position: top}
find_values: [volume]
`)
	box := r.Bounds()
	eps := geometry.Rad(DefaultElevation)
	// the dome rises r above the top rim
	if top := 5*math.Cos(eps) + 2; math.Abs(box.Max.Y-top) > 1e-2 {
		t.Errorf("top = %g, want %g", box.Max.Y, top)
	}
}

func TestResolve_DegenerateTriangle(t *testing.T) {
	spec := mustSpec(t, `type: similar_triangles
description: Triangles ABC and DEF are similar
elements:
  - point: {label: A, x: 0, y: 0}
  - point: {label: B, x: 2, y: 0}
  - point: {label: C, x: 4, y: 0}
  - triangle: {vertices: [A, B, C]}
  - triangle: {vertices: [D, E, F], similar_to: [A, B, C]}
`)
	_, err := Resolve(spec, Options{})
	if !geoerrors.Is(err, geoerrors.ErrCodeGeometrySolve) {
		t.Fatalf("err = %v, want GEOMETRY_SOLVE", err)
	}
}

func TestResolve_SimilarTriangles(t *testing.T) {
	r := mustResolve(t, `type: similar_triangles
description: Triangle DEF is an enlargement of ABC
elements:
  - triangle: {vertices: [A, B, C]}
  - triangle: {vertices: [D, E, F], similar_to: [A, B, C], ratio: "1:2"}
given_values: {BAC: 50°, ABC: 60°}
`)
	if got := angle(t, r, "A", "B", "C"); math.Abs(got-50) > 1e-6 {
		t.Errorf("∠BAC = %g, want 50", got)
	}
	if got := angle(t, r, "D", "E", "F"); math.Abs(got-50) > 1e-6 {
		t.Errorf("∠EDF = %g, want 50", got)
	}
	ab := r.Points["A"].Dist(r.Points["B"])
	de := r.Points["D"].Dist(r.Points["E"])
	if math.Abs(de/ab-2) > 1e-9 {
		t.Errorf("DE/AB = %g, want 2", de/ab)
	}
	if r.Points["D"].X <= r.Points["C"].X {
		t.Error("similar triangle should sit to the right")
	}
}

func TestResolve_BPT(t *testing.T) {
	r := mustResolve(t, `type: bpt_triangle
description: DE is parallel to BC
elements:
  - triangle: {vertices: [A, B, C]}
  - point: {label: D, on: [A, B], ratio: "3:4"}
  - point: {label: E, on: [A, C], ratio: "3:4"}
  - line: {points: [D, E]}
`)
	p := r.Points
	if got := p["A"].Dist(p["D"]) / p["A"].Dist(p["B"]); math.Abs(got-3.0/7) > 1e-9 {
		t.Errorf("AD/AB = %g, want 3/7", got)
	}
	if c := p["E"].Sub(p["D"]).Cross(p["C"].Sub(p["B"])); math.Abs(c) > 1e-9 {
		t.Errorf("DE not parallel to BC, cross = %g", c)
	}
}

func TestResolve_Circumcircle(t *testing.T) {
	r := mustResolve(t, `type: construction_circumcircle
description: Circumcircle of triangle ABC
elements:
  - triangle: {vertices: [A, B, C]}
  - circle: {center: O, points: [A, B, C]}
`)
	o := r.Points["O"]
	ra, rb, rc := o.Dist(r.Points["A"]), o.Dist(r.Points["B"]), o.Dist(r.Points["C"])
	if math.Abs(ra-rb) > 1e-9 || math.Abs(ra-rc) > 1e-9 {
		t.Errorf("radii %g %g %g differ", ra, rb, rc)
	}
}

func TestResolve_Incircle(t *testing.T) {
	r := mustResolve(t, `type: construction_incircle
description: Incircle of triangle ABC touching the sides at D, E, F
elements:
  - triangle: {vertices: [A, B, C]}
  - circle: {center: I, points: [D, E, F]}
`)
	i := r.Points["I"]
	var radius float64
	for _, c := range r.Scene.Circles {
		if c.ID == "I" {
			radius = c.Radius
		}
	}
	sides := [][2]string{{"B", "C"}, {"C", "A"}, {"A", "B"}}
	for _, s := range sides {
		f := geometry.Foot(i, r.Points[s[0]], r.Points[s[1]])
		if d := f.Dist(i); math.Abs(d-radius) > 1e-9 {
			t.Errorf("distance to %s%s = %g, want %g", s[0], s[1], d, radius)
		}
	}
}

func TestResolve_Reflection(t *testing.T) {
	r := mustResolve(t, `type: coordinate_reflection
description: P reflected in the line y = x
elements:
  - point: {label: A, x: 0, y: 0}
  - point: {label: B, x: 4, y: 4}
  - point: {label: P, x: 3, y: 1}
  - point: {label: Q, reflect: {of: P, in: [A, B]}}
  - line: {points: [A, B]}
`)
	if q := r.Points["Q"]; !q.Near(geometry.V(1, 3), 1e-9) {
		t.Errorf("Q = %v, want (1,3)", q)
	}
}

func TestResolve_CoordinatesRequired(t *testing.T) {
	spec := mustSpec(t, `type: coordinate_points
description: Plot A and B
elements:
  - point: {label: A, x: 1, y: 2}
  - point: {label: B}
`)
	_, err := Resolve(spec, Options{})
	if !geoerrors.Is(err, geoerrors.ErrCodeGeometrySolve) {
		t.Fatalf("err = %v, want GEOMETRY_SOLVE", err)
	}
}

func TestResolve_Unclaimed(t *testing.T) {
	_, err := Resolve(&figure.Spec{Type: "nonsense"}, Options{})
	if !geoerrors.Is(err, geoerrors.ErrCodeInternal) {
		t.Fatalf("err = %v, want INTERNAL_ERROR", err)
	}
}

func TestDistributeAngles(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		total   float64
		known   []float64
		want    []float64
		wantErr bool
	}{
		{"even split", 180, []float64{nan, nan, nan}, []float64{60, 60, 60}, false},
		{"one known", 180, []float64{90, nan, nan}, []float64{90, 45, 45}, false},
		{"all known", 360, []float64{90, 90, 90, 90}, []float64{90, 90, 90, 90}, false},
		{"all known, wrong sum", 180, []float64{90, 60, 60}, nil, true},
		{"nothing left", 180, []float64{120, 60, nan}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DistributeAngles(tt.total, tt.known)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCyclicArcs(t *testing.T) {
	arcs, err := CyclicArcs(100, 70)
	if err != nil {
		t.Fatal(err)
	}
	if want := [4]float64{90, 130, 70, 70}; arcs != want {
		t.Errorf("arcs = %v, want %v", arcs, want)
	}
	if _, err := CyclicArcs(180, 90); err == nil {
		t.Error("expected an error for a straight angle")
	}
}

func TestDescribedPoint(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "P"}
	tests := []struct {
		desc  string
		check func(*figure.Point) bool
	}{
		{"Midpoint of AB", func(p *figure.Point) bool { return reflect.DeepEqual(p.Midpoint, []string{"A", "B"}) }},
		{"on BC, ratio 1:2", func(p *figure.Point) bool { return p.Ratio == "1:2" && p.On[1] == "C" }},
		{"intersection of AC and BD", func(p *figure.Point) bool { return len(p.Intersection) == 4 }},
		{"foot of P on AB.", func(p *figure.Point) bool { return p.Foot != nil && p.Foot.From == "P" }},
		{"reflection of P in CD", func(p *figure.Point) bool { return p.Reflect != nil && p.Reflect.In[0] == "C" }},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			p := describedPoint(tt.desc, ids)
			if p == nil || !tt.check(p) {
				t.Errorf("describedPoint(%q) = %+v", tt.desc, p)
			}
		})
	}
	if p := describedPoint("somewhere nice", ids); p != nil {
		t.Errorf("unexpected point %+v", p)
	}
}
