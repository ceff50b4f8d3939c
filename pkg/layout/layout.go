package layout

import (
	"context"
	"math"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/geometry"
	"github.com/matzehuels/geofig/pkg/solver"
)

// Default canvas and label parameters, in pixels unless noted.
const (
	DefaultWidth     = 800.0
	DefaultHeight    = 600.0
	DefaultMargin    = 40.0
	DefaultFontSize  = 16.0
	DefaultAngleStep = 15.0 // degrees
	DefaultOffset    = 6.0

	// MarkRadius is the radius of an angle arc in pixels. Renderers draw
	// marks at this size so that angle labels clear them.
	MarkRadius = 22.0
	// ArcSpacing separates the arcs of a double or triple mark.
	ArcSpacing = 4.0
	// RightMarkSize is the side of a right-angle square.
	RightMarkSize = 12.0
	// PointRadius is the radius of a point marker.
	PointRadius = 3.0
)

const eps = 1e-9

// Canvas is the target pixel area.
type Canvas struct {
	Width  float64 `json:"width" toml:"width" validate:"gt=0,lte=10000"`
	Height float64 `json:"height" toml:"height" validate:"gt=0,lte=10000"`
	Margin float64 `json:"margin" toml:"margin" validate:"gte=0"`
}

// DefaultCanvas returns the 800×600 canvas with a 40 pixel margin.
func DefaultCanvas() Canvas {
	return Canvas{Width: DefaultWidth, Height: DefaultHeight, Margin: DefaultMargin}
}

// WithDefaults fills unset dimensions and caps the margin at a quarter of
// the shorter side.
func (c Canvas) WithDefaults() Canvas {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Margin < 0 {
		c.Margin = DefaultMargin
	}
	if lim := math.Min(c.Width, c.Height) / 4; c.Margin > lim {
		c.Margin = lim
	}
	return c
}

// Rect returns the canvas area.
func (c Canvas) Rect() geometry.Rect {
	return geometry.NewRect(geometry.Vec{}, geometry.V(c.Width, c.Height))
}

// Options tunes label placement. Zero fields take the defaults.
type Options struct {
	FontSize  float64 `json:"font_size,omitempty" toml:"font_size"`
	AngleStep float64 `json:"angle_step,omitempty" toml:"angle_step"`
	Offset    float64 `json:"offset,omitempty" toml:"offset"`
}

// WithDefaults returns o with every unset field filled in.
func (o Options) WithDefaults() Options {
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	if o.AngleStep <= 0 || o.AngleStep > 180 {
		o.AngleStep = DefaultAngleStep
	}
	if o.Offset <= 0 {
		o.Offset = DefaultOffset
	}
	return o
}

// PlacedLabel is a label with its final box. Pos is the box center.
type PlacedLabel struct {
	solver.Label
	Pos     geometry.Vec  `json:"pos"`
	Box     geometry.Rect `json:"box"`
	Overlap float64       `json:"overlap,omitempty"`
}

// Placed is a figure in canvas coordinates, ready for a renderer.
type Placed struct {
	Resolved *solver.Resolved `json:"-"`
	Canvas   Canvas           `json:"canvas"`
	// Scale is pixels per canonical unit.
	Scale    float64       `json:"scale"`
	Scene    solver.Scene  `json:"scene"`
	Labels   []PlacedLabel `json:"labels"`
	FontSize float64       `json:"font_size"`
	// Bounds covers the drawn geometry and every label box.
	Bounds      geometry.Rect          `json:"bounding_box"`
	Degraded    bool                   `json:"degraded"`
	Diagnostics []geoerrors.Diagnostic `json:"diagnostics,omitempty"`
}

// Description returns the figure description, if any.
func (p *Placed) Description() string {
	if p.Resolved == nil || p.Resolved.Spec == nil {
		return ""
	}
	return p.Resolved.Spec.Description
}

// Place fits r onto canvas and positions its labels. It fails only when ctx
// ends or the label font cannot be loaded.
func Place(ctx context.Context, r *solver.Resolved, canvas Canvas, opts Options) (*Placed, error) {
	if r == nil {
		return nil, geoerrors.New(geoerrors.ErrCodeInternal, "nil resolved figure")
	}
	canvas = canvas.WithDefaults()
	opts = opts.WithDefaults()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	bounds := r.Scene.Bounds()
	if !bounds.Finite() {
		return nil, geoerrors.New(geoerrors.ErrCodeGeometrySolve, "figure extent is not finite")
	}
	f, k := fit(bounds, canvas)
	if !(k > 0) || math.IsInf(k, 0) {
		return nil, geoerrors.New(geoerrors.ErrCodeGeometrySolve, "figure of extent %g×%g cannot be scaled to the canvas", bounds.W(), bounds.H())
	}
	scene := r.Scene.Transform(f, k, true)
	labels := scene.Labels
	scene.Labels = nil

	p := &Placed{
		Resolved: r,
		Canvas:   canvas,
		Scale:    k,
		Scene:    scene,
		FontSize: opts.FontSize,
	}
	pl := newPlacer(p, opts)
	p.Labels = make([]PlacedLabel, len(labels))
	for _, i := range placementOrder(labels) {
		if err := ctxErr(ctx); err != nil {
			return nil, err
		}
		placed, err := pl.place(labels[i])
		if err != nil {
			return nil, err
		}
		p.Labels[i] = placed
	}

	p.Bounds = scene.Bounds()
	for _, l := range p.Labels {
		p.Bounds = p.Bounds.Union(l.Box)
	}
	return p, nil
}

// fit returns the canonical-to-canvas map and its scale factor. Degenerate
// extents scale by the other axis; a single point is centered at scale 1.
func fit(b geometry.Rect, c Canvas) (func(geometry.Vec) geometry.Vec, float64) {
	if b.Empty() {
		b = geometry.RectAround(geometry.Vec{}, 1, 1)
	}
	availW := c.Width - 2*c.Margin
	availH := c.Height - 2*c.Margin
	k := 1.0
	switch {
	case b.W() > eps && b.H() > eps:
		k = math.Min(availW/b.W(), availH/b.H())
	case b.W() > eps:
		k = availW / b.W()
	case b.H() > eps:
		k = availH / b.H()
	}
	src := b.Center()
	dst := geometry.V(c.Width/2, c.Height/2)
	return func(v geometry.Vec) geometry.Vec {
		return geometry.V(dst.X+(v.X-src.X)*k, dst.Y-(v.Y-src.Y)*k)
	}, k
}

// placementOrder places point names first, then angle values, then the
// rest, keeping authored order within each kind.
func placementOrder(labels []solver.Label) []int {
	order := make([]int, 0, len(labels))
	for _, kind := range []solver.LabelKind{solver.LabelPoint, solver.LabelAngle, solver.LabelValue} {
		for i, l := range labels {
			if l.Kind == kind {
				order = append(order, i)
			}
		}
	}
	return order
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return geoerrors.Wrap(geoerrors.ErrCodeRenderTimeout, err, "layout interrupted")
	}
	return nil
}
