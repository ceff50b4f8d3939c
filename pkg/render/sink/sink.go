package sink

import (
	"context"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/render"
	"github.com/matzehuels/geofig/pkg/render/styles"
)

// Render produces p in format f.
func Render(ctx context.Context, p *layout.Placed, f render.Format, t styles.Table) ([]byte, error) {
	switch f {
	case render.FormatSVG:
		return RenderSVG(p, t), nil
	case render.FormatPNG:
		return RenderPNG(ctx, p, t)
	case render.FormatPDF:
		return RenderPDF(ctx, p, t)
	case render.FormatJSON:
		return RenderJSON(p)
	}
	return nil, geoerrors.New(geoerrors.ErrCodeInvalidFormat, "unknown format %q", f)
}
