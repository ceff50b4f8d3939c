package solver

import (
	"math"

	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/geometry"
)

type explicitVariant struct{}

func init() { register(explicitVariant{}) }

func (explicitVariant) Name() string { return "explicit" }

func (explicitVariant) Types() []figure.Type {
	return []figure.Type{
		figure.TypeCoordinatePoints,
		figure.TypeCoordinateLine,
		figure.TypeCoordinateReflection,
		figure.TypeGeneric,
	}
}

// Resolve uses authored coordinates as they are. Coordinate figures
// require every point to be authored or constructed and get axes; generic
// figures fall back to the default placement.
func (explicitVariant) Resolve(spec *figure.Spec, opts Options) (*Resolved, error) {
	b := newBuilder(spec, opts)
	b.explicit()

	if spec.Type == figure.TypeGeneric {
		if err := b.settle(); err != nil {
			return nil, err
		}
		b.placeGenericCircles()
		if err := b.settle(); err != nil {
			return nil, err
		}
		if err := b.placeRemaining(); err != nil {
			return nil, err
		}
		return b.finish()
	}

	if _, err := b.derive(); err != nil {
		return nil, err
	}
	for _, id := range spec.PointIDs() {
		if !b.placed(id) {
			return nil, solveError("point %s needs coordinates or a construction", id)
		}
	}
	b.axes()
	return b.finish()
}

func (b *builder) circlesOf() []*figure.Circle {
	var out []*figure.Circle
	for _, e := range b.spec.Elements {
		if e.Circle != nil {
			out = append(out, e.Circle)
		}
	}
	return out
}

// placeGenericCircles puts circles without a center beside the figure and
// spaces their unplaced points around them.
func (b *builder) placeGenericCircles() {
	for _, c := range b.circlesOf() {
		r := b.circleRadius(c)
		if b.placed(c.Center) {
			b.radius[c.Center] = r
			b.distribute(c, c.Points)
			continue
		}
		o := geometry.Vec{}
		if ext := b.extent(); !ext.Empty() {
			o = geometry.V(ext.Max.X+r+0.3*b.opts.BaseLength, ext.Center().Y)
		}
		b.pin(c.Center, o, PointGiven)
		b.radius[c.Center] = r
		b.distribute(c, c.Points)
	}
}

// axes draws the coordinate axes through the origin, covering every point
// with a unit of margin.
func (b *builder) axes() {
	ext := b.extent().Extend(geometry.Vec{})
	lo := ext.Min.Sub(geometry.V(1, 1))
	hi := ext.Max.Add(geometry.V(1, 1))
	lo.X, lo.Y = math.Floor(lo.X), math.Floor(lo.Y)
	hi.X, hi.Y = math.Ceil(hi.X), math.Ceil(hi.Y)

	x := Segment{A: geometry.V(lo.X, 0), B: geometry.V(hi.X, 0), Role: figure.RoleConstruction}
	y := Segment{A: geometry.V(0, lo.Y), B: geometry.V(0, hi.Y), Role: figure.RoleConstruction}
	b.scene.Segments = append(b.scene.Segments, x, y)
	b.scene.Labels = append(b.scene.Labels,
		Label{Text: "x", Anchor: x.B, Kind: LabelValue, Dir: geometry.V(1, -1).Unit(), Role: figure.RoleConstruction},
		Label{Text: "y", Anchor: y.B, Kind: LabelValue, Dir: geometry.V(1, 1).Unit(), Role: figure.RoleConstruction},
	)
}
