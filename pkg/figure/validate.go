package figure

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
)

// structValidator checks the field-level rules declared in struct tags.
// Field names in its errors are the YAML keys.
var structValidator *validator.Validate

func init() {
	structValidator = validator.New()
	structValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := structValidator.RegisterValidation("label", func(fl validator.FieldLevel) bool {
		return geoerrors.ValidateLabel(fl.Field().String()) == nil
	}); err != nil {
		panic(err)
	}
	if err := structValidator.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		return InRange(fl.Field().Float())
	}); err != nil {
		panic(err)
	}
}

// MaxMagnitude bounds every authored coordinate and length. Figures are
// drawn in exam units, and larger values overflow the geometry.
const MaxMagnitude = 1e6

// InRange reports whether x is a finite number no larger than MaxMagnitude
// in absolute value.
func InRange(x float64) bool {
	return !math.IsNaN(x) && math.Abs(x) <= MaxMagnitude
}

// Quantity words accepted in find_values without a matching element.
var quantities = map[string]bool{
	"area":                true,
	"perimeter":           true,
	"circumference":       true,
	"volume":              true,
	"surface_area":        true,
	"curved_surface_area": true,
	"total_surface_area":  true,
	"slant_height":        true,
	"radius":              true,
	"diameter":            true,
	"height":              true,
}

// Validate checks a decoded Spec and returns every problem found. It does
// not modify the Spec, so validating a valid Spec again yields no errors.
func Validate(spec *Spec) SchemaErrors {
	var errs SchemaErrors
	if spec == nil {
		errs.add("spec", "", "", "figure is empty")
		return errs
	}

	v := &validation{spec: spec, errs: &errs}
	v.collect()

	if !spec.Type.Valid() {
		errs.add("type", "", string(spec.Type), "unknown figure type %q", spec.Type)
	}
	if spec.Description == "" {
		errs.add("description", "", "", "is required")
	}

	for _, e := range spec.Elements {
		v.checkTags(e)
		v.checkElement(e)
	}
	v.checkCycles()
	v.checkGivenValues()
	v.checkFindValues()
	if spec.Type.Valid() {
		v.checkTypeRequirements()
	}
	return errs
}

// =============================================================================
// Symbol collection
// =============================================================================

type validation struct {
	spec *Spec
	errs *SchemaErrors

	points  map[string]bool
	ids     []string
	centers map[string]bool
	labels  map[string]bool

	// explicit point elements by label, for duplicate detection
	declared map[string]string
}

// collect records every defined point id, circle center and label before
// any reference is checked, so references may point forward.
func (v *validation) collect() {
	v.points = make(map[string]bool)
	v.centers = make(map[string]bool)
	v.labels = make(map[string]bool)
	v.declared = make(map[string]string)

	for _, e := range v.spec.Elements {
		switch {
		case e.Point != nil:
			v.define(e.Point.Label)
			if prev, dup := v.declared[e.Point.Label]; dup && e.Point.Label != "" {
				v.errs.add(e.Name(), "label", e.Point.Label, "point %q is already declared by %s", e.Point.Label, prev)
			} else {
				v.declared[e.Point.Label] = e.Name()
			}
		case e.Circle != nil:
			v.define(e.Circle.Center)
			v.centers[e.Circle.Center] = true
			seen := make(map[string]bool, len(e.Circle.Points))
			for i, p := range e.Circle.Points {
				if seen[p] {
					v.errs.add(e.Name(), fmt.Sprintf("points[%d]", i), p, "point %q is repeated", p)
				}
				seen[p] = true
				v.define(p)
			}
			v.label(e.Circle.RadiusLabel)
		case e.Tangent != nil:
			v.define(e.Tangent.Point)
			v.define(e.Tangent.ExternalPoint)
			v.label(e.Tangent.Label)
		case e.Polygon != nil:
			for _, p := range e.Polygon.Vertices {
				v.define(p)
			}
			v.label(e.Polygon.Name)
		case e.Line != nil:
			v.label(e.Line.Label)
			v.label(e.Line.Value)
		case e.Angle != nil:
			v.label(e.Angle.Value)
		case e.Arc != nil:
			v.label(e.Arc.Label)
		case e.Locus != nil:
			v.label(e.Locus.Label)
		case e.Solid != nil:
			for s := e.Solid; s != nil; s = s.Nested {
				v.label(s.RadiusLabel)
				v.label(s.HeightLabel)
				v.label(s.SlantLabel)
			}
		}
	}
}

func (v *validation) define(id string) {
	if id == "" || v.points[id] {
		return
	}
	v.points[id] = true
	v.ids = append(v.ids, id)
}

func (v *validation) label(s string) {
	if s = NormalizeKey(s); s != "" {
		v.labels[s] = true
	}
}

// ref reports an undefined point reference. Empty ids are left to the
// struct tag rules.
func (v *validation) ref(e Element, field, id string) {
	if id != "" && !v.points[id] {
		v.errs.add(e.Name(), field, id, "references undefined point %q", id)
	}
}

func (v *validation) refs(e Element, field string, ids []string) {
	for i, id := range ids {
		v.ref(e, fmt.Sprintf("%s[%d]", field, i), id)
	}
}

// circleRef reports a reference that does not name a circle center.
func (v *validation) circleRef(e Element, field, id string) {
	if id != "" && !v.centers[id] {
		v.errs.add(e.Name(), field, id, "references undefined circle %q", id)
	}
}

// =============================================================================
// Field rules
// =============================================================================

func (v *validation) checkTags(e Element) {
	var target any
	switch {
	case e.Point != nil:
		target = e.Point
	case e.Line != nil:
		target = e.Line
	case e.Circle != nil:
		target = e.Circle
	case e.Tangent != nil:
		target = e.Tangent
	case e.Angle != nil:
		target = e.Angle
	case e.Polygon != nil:
		target = e.Polygon
	case e.Arc != nil:
		target = e.Arc
	case e.Locus != nil:
		target = e.Locus
	case e.Solid != nil:
		target = e.Solid
	default:
		v.errs.add(e.Name(), "", "", "element has no content")
		return
	}

	err := structValidator.Struct(target)
	if err == nil {
		return
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		v.errs.add(e.Name(), "", "", "%v", err)
		return
	}
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if _, rest, found := strings.Cut(field, "."); found {
			field = rest
		}
		id := ""
		if s, ok := fe.Value().(string); ok {
			id = s
		}
		v.errs.add(e.Name(), field, id, "%s", tagMessage(fe))
	}
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "label":
		return fmt.Sprintf("invalid label %q", fe.Value())
	case "len":
		return fmt.Sprintf("must have exactly %s entries", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "finite":
		return fmt.Sprintf("must be a finite number no larger than %g", MaxMagnitude)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("failed %q rule", fe.Tag())
}

// =============================================================================
// Element rules
// =============================================================================

func (v *validation) checkElement(e Element) {
	switch {
	case e.Point != nil:
		v.checkPoint(e, e.Point)
	case e.Line != nil:
		l := e.Line
		v.refs(e, "points", l.Points)
		if len(l.Points) == 2 && l.Points[0] != "" && l.Points[0] == l.Points[1] {
			v.errs.add(e.Name(), "points", l.Points[0], "segment endpoints must be distinct")
		}
		v.checkLength(e, "value", l.Value)
	case e.Circle != nil:
		for i, p := range e.Circle.Points {
			if p == e.Circle.Center {
				v.errs.add(e.Name(), fmt.Sprintf("points[%d]", i), p, "center cannot lie on its own circle")
			}
		}
	case e.Tangent != nil:
		t := e.Tangent
		v.circleRef(e, "circle", t.Circle)
		if t.Point != "" && t.Point == t.ExternalPoint {
			v.errs.add(e.Name(), "external_point", t.ExternalPoint, "external point must differ from the tangency point")
		}
		if t.Point != "" && t.Point == t.Circle {
			v.errs.add(e.Name(), "point", t.Point, "tangency point cannot be the center")
		}
	case e.Angle != nil:
		a := e.Angle
		v.ref(e, "vertex", a.Vertex)
		v.refs(e, "rays", a.Rays)
		for i, r := range a.Rays {
			if r != "" && r == a.Vertex {
				v.errs.add(e.Name(), fmt.Sprintf("rays[%d]", i), r, "ray endpoint must differ from the vertex")
			}
		}
		if len(a.Rays) == 2 && a.Rays[0] != "" && a.Rays[0] == a.Rays[1] {
			v.errs.add(e.Name(), "rays", a.Rays[0], "ray endpoints must be distinct")
		}
		v.checkAngle(e.Name(), "value", a.Value)
	case e.Polygon != nil:
		v.checkPolygon(e, e.Polygon)
	case e.Arc != nil:
		a := e.Arc
		v.circleRef(e, "circle", a.Circle)
		v.ref(e, "from", a.From)
		v.ref(e, "to", a.To)
		if a.From != "" && a.From == a.To {
			v.errs.add(e.Name(), "to", a.To, "arc ends must be distinct")
		}
	case e.Locus != nil:
		l := e.Locus
		v.refs(e, "points", l.Points)
		want := map[string]int{LocusPerpendicularBisector: 2, LocusAngleBisector: 3, LocusCircle: 1}[l.Kind]
		if want > 0 && len(l.Points) > 0 && len(l.Points) != want {
			v.errs.add(e.Name(), "points", "", "%s needs %d points", l.Kind, want)
		}
		if l.Kind == LocusCircle && l.Radius == nil {
			v.errs.add(e.Name(), "radius", "", "is required for a circle locus")
		}
	case e.Solid != nil:
		v.checkSolid(e, "", e.Solid)
	}
}

func (v *validation) checkPoint(e Element, p *Point) {
	if (p.X == nil) != (p.Y == nil) {
		v.errs.add(e.Name(), "x", p.Label, "x and y must be given together")
	}
	v.circleRef(e, "on_circle", p.OnCircle)
	v.refs(e, "on", p.On)
	v.refs(e, "midpoint", p.Midpoint)
	v.refs(e, "intersection", p.Intersection)
	if p.Foot != nil {
		v.ref(e, "foot.from", p.Foot.From)
		v.refs(e, "foot.to", p.Foot.To)
	}
	if p.Reflect != nil {
		v.ref(e, "reflect.of", p.Reflect.Of)
		v.refs(e, "reflect.in", p.Reflect.In)
	}

	constructions := 0
	for _, used := range []bool{
		p.HasCoords(),
		len(p.On) > 0 && p.OnCircle == "",
		len(p.Midpoint) > 0,
		len(p.Intersection) > 0,
		p.Foot != nil,
		p.Reflect != nil,
	} {
		if used {
			constructions++
		}
	}
	if constructions > 1 {
		v.errs.add(e.Name(), "", p.Label, "point %q has conflicting constructions", p.Label)
	}

	for _, src := range p.sources() {
		if src == p.Label && src != "" {
			v.errs.add(e.Name(), "", p.Label, "point %q is constructed from itself", p.Label)
			break
		}
	}

	if p.Ratio != "" {
		if len(p.On) == 0 {
			v.errs.add(e.Name(), "ratio", "", "ratio needs on")
		} else if _, ok := RatioFraction(p.Ratio); !ok {
			v.errs.add(e.Name(), "ratio", "", "ratio %q must be two positive numbers such as 3:4", p.Ratio)
		}
	}
}

// checkCycles reports constructed points that depend on themselves through
// other constructed points. Direct self-reference is reported by
// checkPoint.
func (v *validation) checkCycles() {
	deps := make(map[string]*Point)
	elems := make(map[string]Element)
	var order []string
	for _, e := range v.spec.Elements {
		p := e.Point
		if p == nil || p.Label == "" || !p.Constructed() {
			continue
		}
		if _, dup := deps[p.Label]; dup {
			continue
		}
		deps[p.Label], elems[p.Label] = p, e
		order = append(order, p.Label)
	}

	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(deps))
	var stack []string
	var visit func(id string)
	visit = func(id string) {
		state[id] = active
		stack = append(stack, id)
		for _, src := range deps[id].sources() {
			if src == id {
				continue
			}
			switch state[src] {
			case active:
				cycle := append(slices.Clone(stack[slices.Index(stack, src):]), src)
				v.errs.add(elems[src].Name(), deps[src].constructionField(), src,
					"point %q depends on itself through %s", src, strings.Join(cycle, " → "))
			case unvisited:
				if deps[src] != nil {
					visit(src)
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
	}
	for _, id := range order {
		if state[id] == unvisited {
			visit(id)
		}
	}
}

func (p *Point) constructionField() string {
	switch {
	case len(p.On) > 0:
		return "on"
	case len(p.Midpoint) > 0:
		return "midpoint"
	case len(p.Intersection) > 0:
		return "intersection"
	case p.Foot != nil:
		return "foot"
	}
	return "reflect"
}

// sources lists the point ids a derived point is built from.
func (p *Point) sources() []string {
	var out []string
	out = append(out, p.On...)
	out = append(out, p.Midpoint...)
	out = append(out, p.Intersection...)
	if p.Foot != nil {
		out = append(out, p.Foot.From)
		out = append(out, p.Foot.To...)
	}
	if p.Reflect != nil {
		out = append(out, p.Reflect.Of)
		out = append(out, p.Reflect.In...)
	}
	return out
}

func (v *validation) checkPolygon(e Element, p *Polygon) {
	seen := make(map[string]bool, len(p.Vertices))
	for i, id := range p.Vertices {
		if seen[id] {
			v.errs.add(e.Name(), fmt.Sprintf("vertices[%d]", i), id, "vertex %q is repeated", id)
		}
		seen[id] = true
	}
	switch {
	case e.Kind == KindTriangle && len(p.Vertices) != 3:
		v.errs.add(e.Name(), "vertices", "", "a triangle has exactly 3 vertices")
	case e.Kind == KindQuadrilateral && len(p.Vertices) != 4:
		v.errs.add(e.Name(), "vertices", "", "a quadrilateral has exactly 4 vertices")
	}

	v.circleRef(e, "inscribed_in", p.InscribedIn)
	v.refs(e, "similar_to", p.SimilarTo)
	v.refs(e, "congruent_to", p.CongruentTo)
	if ref := p.Reference(); len(ref) > 0 && len(ref) != len(p.Vertices) {
		field := "similar_to"
		if len(p.CongruentTo) > 0 {
			field = "congruent_to"
		}
		v.errs.add(e.Name(), field, "", "must list %d vertices", len(p.Vertices))
	}
	if p.Ratio != "" {
		if _, ok := ScaleFactor(p.Ratio); !ok {
			v.errs.add(e.Name(), "ratio", "", "ratio %q must be positive and no larger than %g", p.Ratio, MaxMagnitude)
		}
	}
}

func (v *validation) checkSolid(e Element, prefix string, s *Solid) {
	if s.NeedsHeight() && s.Height == nil && s.HeightLabel == "" {
		v.errs.add(e.Name(), prefix+"height", "", "a %s needs a height or height_label", s.Kind)
	}
	if s.Nested != nil {
		v.checkSolid(e, prefix+"nested.", s.Nested)
	}
}

// checkAngle checks a numeric angle value lies in [0, 360).
func (v *validation) checkAngle(element, field, raw string) {
	if raw == "" {
		return
	}
	val := ParseValue(raw)
	if val.Kind == ValueNumeric && (val.Num < 0 || val.Num >= 360) {
		v.errs.add(element, field, "", "angle %s is outside [0°, 360°)", raw)
	}
}

func (v *validation) checkLength(e Element, field, raw string) {
	if raw == "" {
		return
	}
	val := ParseValue(raw)
	if val.Kind == ValueNumeric && !val.IsAngle() {
		switch {
		case val.Num <= 0:
			v.errs.add(e.Name(), field, "", "length %s must be positive", raw)
		case !InRange(val.Num):
			v.errs.add(e.Name(), field, "", "length %s is larger than %g", raw, MaxMagnitude)
		}
	}
}

// =============================================================================
// Values
// =============================================================================

func (v *validation) checkGivenValues() {
	for _, k := range v.spec.GivenValues.Keys() {
		raw, _ := v.spec.GivenValues.Get(k)
		val := ParseValue(raw)
		if val.Kind != ValueNumeric {
			continue
		}
		parts, _ := SplitName(k, v.ids)
		switch {
		case val.IsAngle() || len(parts) == 3:
			v.checkAngle("given_values", k, raw)
		case val.Num <= 0:
			v.errs.add("given_values", k, "", "length %s must be positive", raw)
		case !InRange(val.Num):
			v.errs.add("given_values", k, "", "length %s is larger than %g", raw, MaxMagnitude)
		}
	}
}

func (v *validation) checkFindValues() {
	for i, label := range v.spec.FindValues {
		if !v.resolves(label) {
			v.errs.add("find_values", fmt.Sprintf("[%d]", i), label,
				"%q does not name a point, segment, angle or labelled value", label)
		}
	}
}

// resolves reports whether a find_values label names something the figure
// can highlight.
func (v *validation) resolves(label string) bool {
	key := NormalizeKey(label)
	if key == "" {
		return false
	}
	if _, ok := v.spec.GivenValues.Lookup(key); ok {
		return true
	}
	if v.points[key] || v.labels[key] || quantities[strings.ToLower(key)] {
		return true
	}
	parts, ok := SplitName(key, v.ids)
	return ok && (len(parts) == 2 || len(parts) == 3)
}

// =============================================================================
// Figure type requirements
// =============================================================================

func (v *validation) checkTypeRequirements() {
	count := make(map[Kind]int)
	triangles, quads, withCoords, reflections := 0, 0, 0, 0
	solids := make(map[string]int)
	nested := false
	for _, e := range v.spec.Elements {
		k := e.Kind
		if k == KindSegment {
			k = KindLine
		}
		count[k]++
		switch {
		case e.Polygon != nil:
			if len(e.Polygon.Vertices) == 4 {
				quads++
			}
			if len(e.Polygon.Vertices) == 3 {
				triangles++
			}
		case e.Point != nil:
			if e.Point.HasCoords() {
				withCoords++
			}
			if e.Point.Reflect != nil {
				reflections++
			}
		case e.Solid != nil:
			for s := e.Solid; s != nil; s = s.Nested {
				solids[s.Kind]++
			}
			nested = nested || e.Solid.Nested != nil
		}
	}
	need := func(ok bool, format string, args ...any) {
		if !ok {
			v.errs.add("elements", "", "", "%s needs %s", v.spec.Type, fmt.Sprintf(format, args...))
		}
	}

	t := v.spec.Type
	switch t {
	case TypeCircleInscribedAngle, TypeCircleChord, TypeCircleSecant:
		need(count[KindCircle] > 0, "a circle")
	case TypeCircleTangent, TypeAlternateSegment, TypeConstructionTangent:
		need(count[KindCircle] > 0, "a circle")
		need(count[KindTangent] > 0, "a tangent")
	case TypeCyclicQuadrilateral:
		need(count[KindCircle] > 0, "a circle")
		need(quads > 0, "a four-vertex polygon")
	case TypeSimilarTriangles, TypeCongruentTriangles:
		need(triangles >= 2, "two triangles")
	case TypeTriangleProperties, TypeBPTTriangle,
		TypeConstructionCircumcircle, TypeConstructionIncircle:
		need(triangles > 0, "a triangle")
	case TypeConstructionLocus:
		need(count[KindLocus] > 0, "a locus")
	case TypeCoordinatePoints, TypeCoordinateLine:
		need(withCoords > 0, "a point with coordinates")
	case TypeCoordinateReflection:
		need(withCoords > 0, "a point with coordinates")
		need(reflections > 0, "a reflected point")
	case TypeMensurationCylinder:
		need(solids[SolidCylinder] > 0, "a cylinder")
	case TypeMensurationCone:
		need(solids[SolidCone] > 0, "a cone")
	case TypeMensurationSphere:
		need(solids[SolidSphere]+solids[SolidHemisphere] > 0, "a sphere or hemisphere")
	case TypeMensurationCombined:
		need(nested || count[KindSolid] >= 2, "a nested solid or two solids")
	}
	if !t.IsMensuration() && count[KindSolid] > 0 {
		v.errs.add("elements", "", "", "solids are only drawn in mensuration figures")
	}
}

// =============================================================================
// Ratios
// =============================================================================

// RatioFraction reads a point ratio. "3:4" divides a segment so the first
// part is 3/7 of it; a plain number in (0, 1) is that fraction directly.
func RatioFraction(raw string) (float64, bool) {
	val := ParseValue(raw)
	switch val.Kind {
	case ValueRatio:
		if val.Num > 0 && val.Den > 0 && InRange(val.Num) && InRange(val.Den) {
			return val.Fraction(), true
		}
	case ValueNumeric:
		if val.Unit == "" && val.Num > 0 && val.Num < 1 {
			return val.Num, true
		}
	}
	return 0, false
}

// ScaleFactor reads a similarity ratio. "1:2" scales the reference by 2;
// a plain number is the factor itself.
func ScaleFactor(raw string) (float64, bool) {
	val := ParseValue(raw)
	switch val.Kind {
	case ValueRatio:
		if val.Num > 0 && val.Den > 0 {
			return scaleInRange(val.Den / val.Num)
		}
	case ValueNumeric:
		if val.Unit == "" && val.Num > 0 {
			return scaleInRange(val.Num)
		}
	}
	return 0, false
}

func scaleInRange(f float64) (float64, bool) {
	if f < 1/MaxMagnitude || !InRange(f) {
		return 0, false
	}
	return f, true
}
