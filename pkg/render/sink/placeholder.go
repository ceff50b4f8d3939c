package sink

import (
	"context"
	"encoding/json"
	"strings"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/fonts"
	"github.com/matzehuels/geofig/pkg/geometry"
	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/render"
	"github.com/matzehuels/geofig/pkg/render/styles"
	"github.com/matzehuels/geofig/pkg/solver"
)

const (
	placeholderPad  = 12.0
	placeholderText = "Figure unavailable"
)

// Placeholder draws description wrapped inside a dashed frame. It stands
// in for any figure that failed, in the format the figure was asked for.
func Placeholder(ctx context.Context, description string, canvas layout.Canvas, f render.Format, t styles.Table) ([]byte, error) {
	canvas = canvas.WithDefaults()
	if f == render.FormatJSON {
		return json.MarshalIndent(struct {
			Placeholder bool          `json:"placeholder"`
			Description string        `json:"description"`
			Canvas      layout.Canvas `json:"canvas"`
		}{true, description, canvas}, "", "  ")
	}

	p, err := placeholderScene(description, canvas)
	if err != nil {
		return nil, err
	}
	switch f {
	case render.FormatSVG:
		return RenderSVG(p, t, WithTitle(description)), nil
	case render.FormatPNG:
		return RenderPNG(ctx, p, t)
	case render.FormatPDF:
		return render.ToPDF(ctx, RenderSVG(p, t, WithTitle(description)))
	}
	return nil, geoerrors.New(geoerrors.ErrCodeInvalidFormat, "unknown format %q", f)
}

func placeholderScene(description string, c layout.Canvas) (*layout.Placed, error) {
	size := layout.DefaultFontSize
	frame := c.Rect().Inset(c.Margin)
	p := &layout.Placed{Canvas: c, Scale: 1, FontSize: size, Bounds: frame}
	p.Scene.Polylines = []solver.Polyline{{
		Points: []geometry.Vec{frame.Min, geometry.V(frame.Max.X, frame.Min.Y), frame.Max, geometry.V(frame.Min.X, frame.Max.Y)},
		Closed: true,
		Role:   figure.RoleConstruction,
	}}

	text := strings.TrimSpace(description)
	if text == "" {
		text = placeholderText
	}
	lines, lineH, err := wrap(text, size, frame.W()-2*placeholderPad)
	if err != nil {
		return nil, err
	}
	if limit := int((frame.H() - 2*placeholderPad) / lineH); limit >= 1 && len(lines) > limit {
		lines = lines[:limit]
		lines[limit-1] += "…"
	}

	top := frame.Center().Y - lineH*float64(len(lines))/2 + lineH/2
	for i, line := range lines {
		pos := geometry.V(frame.Center().X, top+float64(i)*lineH)
		p.Labels = append(p.Labels, layout.PlacedLabel{
			Label: solver.Label{Text: line, Anchor: pos, Kind: solver.LabelValue},
			Pos:   pos,
		})
	}
	return p, nil
}

// wrap breaks text into lines no wider than width at size pixels. A word
// wider than the line stands alone.
func wrap(text string, size, width float64) ([]string, float64, error) {
	var lines []string
	var lineH float64
	cur := ""
	for _, word := range strings.Fields(text) {
		next := word
		if cur != "" {
			next = cur + " " + word
		}
		w, h, err := fonts.Measure(next, size)
		if err != nil {
			return nil, 0, geoerrors.Wrap(geoerrors.ErrCodeRender, err, "measure placeholder text")
		}
		lineH = max(lineH, h)
		if w > width && cur != "" {
			lines = append(lines, cur)
			cur = word
			continue
		}
		cur = next
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if lineH == 0 {
		lineH = size * 1.2
	}
	return lines, lineH, nil
}
