package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/geofig/pkg/fonts"
	"github.com/matzehuels/geofig/pkg/geometry"
	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/render/styles"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	embedFont bool
	title     string
}

// WithoutEmbeddedFont leaves the label face to the viewer. Output is much
// smaller but glyph widths may differ from the measured ones.
func WithoutEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = false } }

// WithTitle sets the SVG title, shown by viewers as a tooltip.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// RenderSVG draws p as a standalone SVG document.
func RenderSVG(p *layout.Placed, t styles.Table, opts ...SVGOption) []byte {
	r := svgRenderer{embedFont: true, title: p.Description()}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	writeHeader(&buf, p.Canvas, t.Background())
	if r.title != "" {
		buf.WriteString("  <title>")
		xml.EscapeText(&buf, []byte(r.title))
		buf.WriteString("</title>\n")
	}
	if r.embedFont {
		writeFontFace(&buf)
	}

	layer := ""
	for _, it := range drawList(p, t) {
		if it.layer != layer {
			if layer != "" {
				buf.WriteString("  </g>\n")
			}
			layer = it.layer
			fmt.Fprintf(&buf, "  <g class=\"%s\">\n", layer)
		}
		writeItem(&buf, it)
	}
	if layer != "" {
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, c layout.Canvas, background string) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		c.Width, c.Height, c.Width, c.Height)
	fmt.Fprintf(buf, "  <rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", background)
}

func writeFontFace(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <defs><style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }</style></defs>\n",
		fonts.FontFamily, fonts.TTFBase64())
}

func writeItem(buf *bytes.Buffer, it item) {
	switch it.op {
	case opText:
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%.1f" fill="%s">`,
			it.at.X, it.at.Y, fonts.FallbackFontFamily, it.size, it.style.Fill)
		xml.EscapeText(buf, []byte(it.text))
		buf.WriteString("</text>\n")
		return
	case opDot:
		fmt.Fprintf(buf, "    <circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\"/>\n", it.shape.center.X, it.shape.center.Y, it.shape.r, it.style.Fill)
		return
	}

	var paint string
	if it.op == opFill {
		paint = fmt.Sprintf(`fill="%s" stroke="none"`, it.style.Fill)
	} else {
		paint = strokeAttrs(it.style)
	}

	s := it.shape
	switch s.kind {
	case shapeCircle:
		fmt.Fprintf(buf, "    <circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" %s/>\n", s.center.X, s.center.Y, s.r, paint)
	case shapeArc:
		a, b := s.endpoints()
		large, sweep := 0, 0
		if math.Abs(s.sweep) > math.Pi {
			large = 1
		}
		if s.sweep > 0 {
			sweep = 1
		}
		fmt.Fprintf(buf, "    <path d=\"M %.2f %.2f A %.2f %.2f 0 %d %d %.2f %.2f\" %s/>\n",
			a.X, a.Y, s.r, s.r, large, sweep, b.X, b.Y, paint)
	case shapePoly:
		if len(s.pts) == 2 && !s.closed {
			fmt.Fprintf(buf, "    <line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" %s/>\n",
				s.pts[0].X, s.pts[0].Y, s.pts[1].X, s.pts[1].Y, paint)
			return
		}
		tag := "polyline"
		if s.closed {
			tag = "polygon"
		}
		fmt.Fprintf(buf, "    <%s points=\"%s\" %s/>\n", tag, pointList(s.pts), paint)
	}
}

func strokeAttrs(s styles.Style) string {
	a := fmt.Sprintf(`fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round" stroke-linejoin="round"`, s.Color, s.Width)
	if s.Dashed() {
		parts := make([]string, len(s.Dash))
		for i, d := range s.Dash {
			parts[i] = fmt.Sprintf("%g", d)
		}
		a += fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, ","))
	}
	return a
}

func pointList(pts []geometry.Vec) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}
