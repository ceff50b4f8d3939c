package render

import (
	"slices"
	"strings"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/geometry"
	"github.com/matzehuels/geofig/pkg/layout"
)

// Format is an artifact format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	if !slices.Contains(Formats, f) {
		return "", geoerrors.New(geoerrors.ErrCodeInvalidFormat, "unknown format %q (want svg, png, pdf or json)", s)
	}
	return f, nil
}

// ParseFormats parses a comma-separated list, dropping duplicates.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for part := range strings.SplitSeq(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, geoerrors.New(geoerrors.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// Ext returns the file extension, with the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/json"
}

// Metadata accompanies every artifact, including placeholders.
type Metadata struct {
	BoundingBox geometry.Rect          `json:"bounding_box"`
	Canvas      layout.Canvas          `json:"canvas"`
	Degraded    bool                   `json:"degraded"`
	FailureKind geoerrors.Code         `json:"failure_kind,omitempty"`
	Diagnostics []geoerrors.Diagnostic `json:"diagnostics,omitempty"`
}

// MetadataOf describes a successfully placed figure.
func MetadataOf(p *layout.Placed) Metadata {
	return Metadata{
		BoundingBox: p.Bounds,
		Canvas:      p.Canvas,
		Degraded:    p.Degraded,
		Diagnostics: slices.Clone(p.Diagnostics),
	}
}

// Failed describes a figure that ended in a placeholder.
func Failed(canvas layout.Canvas, kind geoerrors.Code, diags []geoerrors.Diagnostic) Metadata {
	return Metadata{
		BoundingBox: canvas.Rect(),
		Canvas:      canvas,
		Degraded:    true,
		FailureKind: kind,
		Diagnostics: slices.Clone(diags),
	}
}
