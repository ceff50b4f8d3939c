package solver

import "github.com/matzehuels/geofig/pkg/figure"

type triangleVariant struct{}

func init() { register(triangleVariant{}) }

func (triangleVariant) Name() string { return "triangle" }

func (triangleVariant) Types() []figure.Type {
	return []figure.Type{
		figure.TypeSimilarTriangles,
		figure.TypeCongruentTriangles,
		figure.TypeTriangleProperties,
		figure.TypeBPTTriangle,
	}
}

// Resolve builds the reference triangle from its authored angles or sides,
// copies similar and congruent triangles beside it and derives cevian and
// other constructed points.
func (triangleVariant) Resolve(spec *figure.Spec, opts Options) (*Resolved, error) {
	b := newBuilder(spec, opts)
	b.explicit()
	if err := b.settle(); err != nil {
		return nil, err
	}
	if err := b.placeRemaining(); err != nil {
		return nil, err
	}
	return b.finish()
}

// settle runs the polygon and derivation passes until none places a point.
func (b *builder) settle() error {
	for {
		p1, err := b.placePolygons()
		if err != nil {
			return err
		}
		p2, err := b.placeSimilar()
		if err != nil {
			return err
		}
		p3, err := b.derive()
		if err != nil {
			return err
		}
		if !p1 && !p2 && !p3 {
			return nil
		}
	}
}
