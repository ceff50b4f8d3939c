package figure

import (
	"fmt"
	"slices"
)

// =============================================================================
// Figure Types
// =============================================================================

// Type is the closed set of figure kinds.
type Type string

const (
	TypeCircleInscribedAngle     Type = "circle_inscribed_angle"
	TypeCircleTangent            Type = "circle_tangent"
	TypeCircleChord              Type = "circle_chord"
	TypeCircleSecant             Type = "circle_secant"
	TypeCyclicQuadrilateral      Type = "cyclic_quadrilateral"
	TypeAlternateSegment         Type = "alternate_segment"
	TypeSimilarTriangles         Type = "similar_triangles"
	TypeCongruentTriangles       Type = "congruent_triangles"
	TypeTriangleProperties       Type = "triangle_properties"
	TypeBPTTriangle              Type = "bpt_triangle"
	TypeConstructionTangent      Type = "construction_tangent"
	TypeConstructionCircumcircle Type = "construction_circumcircle"
	TypeConstructionIncircle     Type = "construction_incircle"
	TypeConstructionLocus        Type = "construction_locus"
	TypeCoordinatePoints         Type = "coordinate_points"
	TypeCoordinateLine           Type = "coordinate_line"
	TypeCoordinateReflection     Type = "coordinate_reflection"
	TypeMensurationCylinder      Type = "mensuration_cylinder"
	TypeMensurationCone          Type = "mensuration_cone"
	TypeMensurationSphere        Type = "mensuration_sphere"
	TypeMensurationCombined      Type = "mensuration_combined"
	TypeGeneric                  Type = "generic"
)

// Types lists every supported figure type in a stable order.
var Types = []Type{
	TypeCircleInscribedAngle,
	TypeCircleTangent,
	TypeCircleChord,
	TypeCircleSecant,
	TypeCyclicQuadrilateral,
	TypeAlternateSegment,
	TypeSimilarTriangles,
	TypeCongruentTriangles,
	TypeTriangleProperties,
	TypeBPTTriangle,
	TypeConstructionTangent,
	TypeConstructionCircumcircle,
	TypeConstructionIncircle,
	TypeConstructionLocus,
	TypeCoordinatePoints,
	TypeCoordinateLine,
	TypeCoordinateReflection,
	TypeMensurationCylinder,
	TypeMensurationCone,
	TypeMensurationSphere,
	TypeMensurationCombined,
	TypeGeneric,
}

// Valid reports whether t is one of [Types].
func (t Type) Valid() bool { return slices.Contains(Types, t) }

// IsMensuration reports whether t is drawn from solids.
func (t Type) IsMensuration() bool {
	switch t {
	case TypeMensurationCylinder, TypeMensurationCone, TypeMensurationSphere, TypeMensurationCombined:
		return true
	}
	return false
}

// =============================================================================
// Roles
// =============================================================================

// Role selects the drawing style of an element. Renderers look styles up by
// role only.
type Role int

const (
	RoleGiven Role = iota
	RoleFind
	RoleConstruction
	RoleHidden
	roleCount
)

// NumRoles is the number of roles, for sizing role-indexed tables.
const NumRoles = int(roleCount)

var roleNames = [...]string{"given", "find", "construction", "hidden"}

func (r Role) String() string {
	if r < 0 || r >= roleCount {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleNames[r]
}

// ParseRole maps a role name to a Role.
func ParseRole(s string) (Role, bool) {
	for i, n := range roleNames {
		if n == s {
			return Role(i), true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// =============================================================================
// Spec
// =============================================================================

// Spec is one decoded figure block.
type Spec struct {
	Type        Type
	Description string
	Elements    []Element
	GivenValues Values
	FindValues  []string
	ImageRef    string
}

// Values maps labels to value strings, remembering authoring order.
type Values struct {
	keys []string
	m    map[string]string
}

// NewValues builds Values from alternating key, value arguments.
func NewValues(kv ...string) Values {
	var v Values
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}

// Set adds or replaces a value.
func (v *Values) Set(key, value string) {
	if v.m == nil {
		v.m = make(map[string]string)
	}
	if _, ok := v.m[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.m[key] = value
}

// Get returns the value stored under key.
func (v Values) Get(key string) (string, bool) {
	s, ok := v.m[key]
	return s, ok
}

// Keys returns the keys in authoring order.
func (v Values) Keys() []string { return slices.Clone(v.keys) }

// Len returns the number of values.
func (v Values) Len() int { return len(v.keys) }

// Lookup finds a value by normalized key. Angle keys match in either ray
// order, so Lookup("BAT") finds a value stored as "∠TAB".
func (v Values) Lookup(key string) (string, bool) {
	want := NormalizeKey(key)
	for _, k := range v.keys {
		if NormalizeKey(k) == want || sameAngleName(NormalizeKey(k), want) {
			return v.m[k], true
		}
	}
	return "", false
}

// =============================================================================
// Elements
// =============================================================================

// Kind names an element variant.
type Kind string

const (
	KindPoint         Kind = "point"
	KindLine          Kind = "line"
	KindSegment       Kind = "segment"
	KindCircle        Kind = "circle"
	KindTangent       Kind = "tangent"
	KindAngle         Kind = "angle"
	KindTriangle      Kind = "triangle"
	KindQuadrilateral Kind = "quadrilateral"
	KindPolygon       Kind = "polygon"
	KindArc           Kind = "arc"
	KindLocus         Kind = "locus"
	KindSolid         Kind = "solid"
)

// Element is one entry of the elements list. Exactly one of the variant
// pointers is set, matching Kind.
type Element struct {
	Kind  Kind
	Index int

	Point   *Point
	Line    *Line
	Circle  *Circle
	Tangent *Tangent
	Angle   *Angle
	Polygon *Polygon
	Arc     *Arc
	Locus   *Locus
	Solid   *Solid
}

// Name identifies the element in diagnostics, e.g. "line[2]". The number is
// the element's position in the elements list.
func (e Element) Name() string { return fmt.Sprintf("%s[%d]", e.Kind, e.Index) }

// Point declares a named point, optionally with a position or a
// construction. Without either it is placed by the solver.
type Point struct {
	Label        string      `yaml:"label" validate:"required,label"`
	X            *float64    `yaml:"x" validate:"omitempty,finite"`
	Y            *float64    `yaml:"y" validate:"omitempty,finite"`
	Angle        *float64    `yaml:"angle" validate:"omitempty,gte=0,lt=360"`
	OnCircle     string      `yaml:"on_circle"`
	On           []string    `yaml:"on" validate:"omitempty,len=2,dive,required"`
	Ratio        string      `yaml:"ratio"`
	Root         int         `yaml:"root" validate:"omitempty,oneof=1 2"`
	Midpoint     []string    `yaml:"midpoint" validate:"omitempty,len=2,dive,required"`
	Intersection []string    `yaml:"intersection" validate:"omitempty,len=4,dive,required"`
	Foot         *Foot       `yaml:"foot"`
	Reflect      *Reflection `yaml:"reflect"`
	Description  string      `yaml:"description"`
	LabelOnly    bool        `yaml:"label_only"`
}

// Constructed reports whether p is built from other points.
func (p *Point) Constructed() bool {
	return len(p.On) == 2 || len(p.Midpoint) == 2 || len(p.Intersection) == 4 || p.Foot != nil || p.Reflect != nil
}

// HasCoords reports whether both coordinates were given.
func (p *Point) HasCoords() bool { return p.X != nil && p.Y != nil }

// Foot constructs the foot of the perpendicular from a point onto a line.
type Foot struct {
	From string   `yaml:"from" validate:"required"`
	To   []string `yaml:"to" validate:"len=2,dive,required"`
}

// Reflection constructs the mirror image of a point in a line.
type Reflection struct {
	Of string   `yaml:"of" validate:"required"`
	In []string `yaml:"in" validate:"len=2,dive,required"`
}

// Line is a segment between two points.
type Line struct {
	Points   []string `yaml:"points" validate:"len=2,dive,required"`
	Style    string   `yaml:"style" validate:"omitempty,oneof=solid dashed dotted"`
	Label    string   `yaml:"label"`
	Value    string   `yaml:"value"`
	Ray      bool     `yaml:"is_ray"`
	Extended bool     `yaml:"extended"`
}

// Hidden reports whether the line is drawn in the hidden role.
func (l *Line) Hidden() bool { return l.Style == "dashed" || l.Style == "dotted" }

// Circle is a circle about a named center.
type Circle struct {
	Center      string   `yaml:"center" validate:"required,label"`
	Radius      *float64 `yaml:"radius" validate:"omitempty,gt=0,finite"`
	RadiusLabel string   `yaml:"radius_label"`
	Points      []string `yaml:"points" validate:"dive,label"`
}

// Tangent is a tangent from an external point touching a circle. Side picks
// one of the two tangents as seen from the external point looking at the
// center.
type Tangent struct {
	Circle        string `yaml:"circle" validate:"required"`
	Point         string `yaml:"point" validate:"required,label"`
	ExternalPoint string `yaml:"external_point" validate:"omitempty,label"`
	Side          string `yaml:"side" validate:"omitempty,oneof=left right"`
	Label         string `yaml:"label"`
}

// Angle marks the angle at Vertex between rays to Rays[0] and Rays[1].
type Angle struct {
	Vertex   string   `yaml:"vertex" validate:"required"`
	Rays     []string `yaml:"rays" validate:"len=2,dive,required"`
	Value    string   `yaml:"value"`
	Marked   bool     `yaml:"marked"`
	ArcStyle string   `yaml:"arc_style" validate:"omitempty,oneof=single double triple"`
	Right    bool     `yaml:"right"`
}

// Name returns the conventional three-point name, ray, vertex, ray.
func (a *Angle) Name() string {
	if len(a.Rays) != 2 {
		return a.Vertex
	}
	return a.Rays[0] + a.Vertex + a.Rays[1]
}

// Arcs returns the number of arcs drawn for ArcStyle.
func (a *Angle) Arcs() int {
	switch a.ArcStyle {
	case "double":
		return 2
	case "triple":
		return 3
	}
	return 1
}

// Polygon covers triangles, quadrilaterals and general polygons.
type Polygon struct {
	Name        string   `yaml:"name"`
	Vertices    []string `yaml:"vertices" validate:"min=3,dive,label"`
	Style       string   `yaml:"style" validate:"omitempty,oneof=solid dashed dotted"`
	Cyclic      bool     `yaml:"cyclic"`
	InscribedIn string   `yaml:"inscribed_in"`
	SimilarTo   []string `yaml:"similar_to"`
	CongruentTo []string `yaml:"congruent_to"`
	Ratio       string   `yaml:"ratio"`
	Mirror      bool     `yaml:"mirror"`
	Shaded      bool     `yaml:"shaded"`
}

// Reference returns the vertices this polygon is similar or congruent to.
func (p *Polygon) Reference() []string {
	if len(p.CongruentTo) > 0 {
		return p.CongruentTo
	}
	return p.SimilarTo
}

// Arc is an arc of a circle from one point to another.
type Arc struct {
	Circle string `yaml:"circle" validate:"required"`
	From   string `yaml:"from" validate:"required"`
	To     string `yaml:"to" validate:"required"`
	Major  bool   `yaml:"major"`
	Label  string `yaml:"label"`
}

// Locus kinds.
const (
	LocusPerpendicularBisector = "perpendicular_bisector"
	LocusAngleBisector         = "angle_bisector"
	LocusCircle                = "circle"
)

// Locus is a construction line or circle.
type Locus struct {
	Kind   string   `yaml:"kind" validate:"required,oneof=perpendicular_bisector angle_bisector circle"`
	Points []string `yaml:"points" validate:"min=1,dive,required"`
	Radius *float64 `yaml:"radius" validate:"omitempty,gt=0,finite"`
	Label  string   `yaml:"label"`
}

// Solid kinds.
const (
	SolidCylinder   = "cylinder"
	SolidCone       = "cone"
	SolidSphere     = "sphere"
	SolidHemisphere = "hemisphere"
)

// Solid is a cylinder, cone, sphere or hemisphere, optionally with a second
// solid nested inside it or stacked on it.
type Solid struct {
	Kind        string   `yaml:"kind" validate:"required,oneof=cylinder cone sphere hemisphere"`
	Radius      *float64 `yaml:"radius" validate:"omitempty,gt=0,finite"`
	Height      *float64 `yaml:"height" validate:"omitempty,gt=0,finite"`
	RadiusLabel string   `yaml:"radius_label"`
	HeightLabel string   `yaml:"height_label"`
	SlantLabel  string   `yaml:"slant_label"`
	Opaque      *bool    `yaml:"opaque"`
	Position    string   `yaml:"position" validate:"omitempty,oneof=inside top bottom"`
	Nested      *Solid   `yaml:"nested"`
}

// NeedsHeight reports whether the kind has a height dimension.
func (s *Solid) NeedsHeight() bool { return s.Kind == SolidCylinder || s.Kind == SolidCone }
