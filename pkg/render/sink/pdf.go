package sink

import (
	"context"

	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/render"
	"github.com/matzehuels/geofig/pkg/render/styles"
)

// RenderPDF renders p as PDF via SVG conversion. The font is always
// embedded so the converter measures what the layout measured.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, p *layout.Placed, t styles.Table) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(p, t))
}
