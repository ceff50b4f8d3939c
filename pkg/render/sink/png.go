package sink

import (
	"bytes"
	"context"
	"math"

	"github.com/gogpu/gg"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/fonts"
	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/render/styles"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// baselineShift moves the anchor from the box center to the baseline, as
// a fraction of the line height.
const baselineShift = 0.3

// RenderPNG rasterises p with a software gg context. The context is
// released on every path; an expired ctx stops drawing between items.
func RenderPNG(ctx context.Context, p *layout.Placed, t styles.Table, opts ...PNGOption) (out []byte, err error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	k := r.scale
	w := int(math.Ceil(p.Canvas.Width * k))
	h := int(math.Ceil(p.Canvas.Height * k))

	dc := gg.NewContext(w, h)
	defer func() {
		if cerr := dc.Close(); cerr != nil && err == nil {
			err = geoerrors.Wrap(geoerrors.ErrCodeRender, cerr, "release canvas")
		}
	}()

	dc.SetHexColor(t.Background())
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	if err := dc.Fill(); err != nil {
		return nil, geoerrors.Wrap(geoerrors.ErrCodeRender, err, "fill background")
	}

	face, err := fonts.Face(p.FontSize * k)
	if err != nil {
		return nil, geoerrors.Wrap(geoerrors.ErrCodeRender, err, "load label font")
	}
	dc.SetFont(face)

	for _, it := range drawList(p, t) {
		if ctx.Err() != nil {
			return nil, geoerrors.Wrap(geoerrors.ErrCodeRenderTimeout, ctx.Err(), "png render interrupted")
		}
		if err := drawItem(dc, it, k); err != nil {
			return nil, geoerrors.Wrap(geoerrors.ErrCodeRender, err, "draw %s", it.layer)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, geoerrors.Wrap(geoerrors.ErrCodeRender, err, "encode png")
	}
	return buf.Bytes(), nil
}

func drawItem(dc *gg.Context, it item, k float64) error {
	switch it.op {
	case opText:
		dc.SetHexColor(it.style.Fill)
		dc.DrawStringAnchored(it.text, it.at.X*k, it.at.Y*k, 0.5, baselineShift)
		return nil
	case opDot, opFill:
		tracePath(dc, it.shape, k)
		dc.SetHexColor(it.style.Fill)
		return dc.Fill()
	}

	tracePath(dc, it.shape, k)
	dc.SetHexColor(it.style.Color)
	dc.SetLineWidth(it.style.Width * k)
	if it.style.Dashed() {
		dash := make([]float64, len(it.style.Dash))
		for i, d := range it.style.Dash {
			dash[i] = d * k
		}
		dc.SetDash(dash...)
	} else {
		dc.ClearDash()
	}
	return dc.Stroke()
}

func tracePath(dc *gg.Context, s shape, k float64) {
	dc.ClearPath()
	switch s.kind {
	case shapeCircle:
		dc.DrawCircle(s.center.X*k, s.center.Y*k, s.r*k)
	case shapeArc:
		a0, a1 := s.start, s.start+s.sweep
		if a1 < a0 {
			a0, a1 = a1, a0
		}
		dc.DrawArc(s.center.X*k, s.center.Y*k, s.r*k, a0, a1)
	case shapePoly:
		for i, p := range s.pts {
			if i == 0 {
				dc.MoveTo(p.X*k, p.Y*k)
			} else {
				dc.LineTo(p.X*k, p.Y*k)
			}
		}
		if s.closed {
			dc.ClosePath()
		}
	}
}
