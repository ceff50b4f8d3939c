package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/fonts"
	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/render"
	"github.com/matzehuels/geofig/pkg/render/styles"
	"github.com/matzehuels/geofig/pkg/solver"
)

const tangentBlock = `type: circle_tangent
description: Tangent TA at A; chord AB; angle TAB = 32°
elements:
  - circle: {center: O, radius: 3, points: [A, B, P]}
  - tangent: {circle: O, point: A, external_point: T}
  - line: {points: [A, B]}
  - angle: {vertex: A, rays: [T, B], marked: true}
given_values: {TAB: 32°}
find_values: [APB]
`

const cylinderBlock = `type: mensuration_cylinder
description: A cylinder of radius 2 cm and height 5 cm
elements:
  - solid: {kind: cylinder, radius: 2, height: 5, radius_label: 2 cm, height_label: 5 cm}
find_values: [volume]
`

func placed(t *testing.T, block string) *layout.Placed {
	t.Helper()
	spec, errs := figure.ParseAndValidate(block)
	if len(errs) > 0 {
		t.Fatalf("ParseAndValidate: %v", errs)
	}
	r, err := solver.Resolve(spec, solver.Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	p, err := layout.Place(context.Background(), r, layout.DefaultCanvas(), layout.Options{})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	return p
}

func TestRenderSVG_DrawOrder(t *testing.T) {
	svg := string(RenderSVG(placed(t, cylinderBlock), styles.Default()))
	order := []string{`class="fill"`, `class="lines"`, `class="hidden"`, `class="labels"`}
	last := -1
	for _, marker := range order {
		i := strings.Index(svg, marker)
		if i < 0 {
			t.Fatalf("missing %s", marker)
		}
		if i < last {
			t.Errorf("%s drawn out of order", marker)
		}
		last = i
	}
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Error("hidden edges are not dashed")
	}
}

func TestRenderSVG_Tangent(t *testing.T) {
	p := placed(t, tangentBlock)
	svg := string(RenderSVG(p, styles.Default()))
	for _, want := range []string{"<svg", `class="angles"`, `class="points"`, "32°", styles.ColorCircle, "@font-face", fonts.FontFamily} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg lacks %q", want)
		}
	}
	// angle marks come after every line
	if strings.LastIndex(svg, `class="lines"`) > strings.Index(svg, `class="angles"`) {
		t.Error("angle marks drawn beneath lines")
	}

	bare := string(RenderSVG(p, styles.Default(), WithoutEmbeddedFont()))
	if strings.Contains(bare, "@font-face") {
		t.Error("font embedded despite WithoutEmbeddedFont")
	}
}

func TestRenderSVG_Deterministic(t *testing.T) {
	a := RenderSVG(placed(t, tangentBlock), styles.Default())
	b := RenderSVG(placed(t, tangentBlock), styles.Default())
	if !bytes.Equal(a, b) {
		t.Error("two renders of the same block differ")
	}
}

func TestRenderSVG_UsesStyleTable(t *testing.T) {
	tab, err := styles.NewTable(styles.Override{Role: "hidden", Color: "#123456"})
	if err != nil {
		t.Fatal(err)
	}
	svg := string(RenderSVG(placed(t, cylinderBlock), tab))
	if !strings.Contains(svg, `stroke="#123456"`) {
		t.Error("hidden override not applied")
	}
}

func TestRenderPNG(t *testing.T) {
	p := placed(t, tangentBlock)
	data, err := RenderPNG(context.Background(), p, styles.Default(), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("size = %v, want 800x600", b)
	}
}

func TestRenderPNG_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RenderPNG(ctx, placed(t, tangentBlock), styles.Default())
	if !geoerrors.Is(err, geoerrors.ErrCodeRenderTimeout) {
		t.Fatalf("err = %v, want RENDER_TIMEOUT", err)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(placed(t, tangentBlock))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var out struct {
		Type     string `json:"type"`
		Metadata struct {
			Canvas   layout.Canvas `json:"canvas"`
			Degraded bool          `json:"degraded"`
		} `json:"metadata"`
		Points []struct {
			ID string `json:"id"`
		} `json:"points"`
		Canonical map[string]any `json:"canonical"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Type != "circle_tangent" || out.Metadata.Canvas.Width != 800 {
		t.Errorf("header = %+v", out)
	}
	if len(out.Points) != 5 || len(out.Canonical) != 5 {
		t.Errorf("points = %d, canonical = %d, want 5", len(out.Points), len(out.Canonical))
	}
}

func TestPlaceholder(t *testing.T) {
	desc := "A cylinder of radius 2 cm and height 5 cm with a sphere resting inside it, touching the base"
	svg, err := Placeholder(context.Background(), desc, layout.Canvas{Width: 300, Height: 200, Margin: 20}, render.FormatSVG, styles.Default())
	if err != nil {
		t.Fatalf("Placeholder: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, "stroke-dasharray") || !strings.Contains(s, "<polygon") {
		t.Error("placeholder has no dashed frame")
	}
	if n := strings.Count(s, "<text"); n < 2 {
		t.Errorf("description on %d lines, want wrapped", n)
	}

	js, err := Placeholder(context.Background(), desc, layout.DefaultCanvas(), render.FormatJSON, styles.Default())
	if err != nil {
		t.Fatalf("Placeholder json: %v", err)
	}
	if !strings.Contains(string(js), `"placeholder": true`) {
		t.Errorf("json placeholder = %s", js)
	}
}

func TestWrap(t *testing.T) {
	lines, h, err := wrap("one two three four five six seven eight nine ten", 16, 80)
	if err != nil {
		t.Fatal(err)
	}
	if h <= 0 || len(lines) < 2 {
		t.Fatalf("lines = %q, h = %g", lines, h)
	}
	for _, l := range lines {
		if w, _, _ := fonts.Measure(l, 16); w > 80 && strings.Contains(l, " ") {
			t.Errorf("line %q is %g wide", l, w)
		}
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(context.Background(), placed(t, tangentBlock), render.Format("gif"), styles.Default())
	if !geoerrors.Is(err, geoerrors.ErrCodeInvalidFormat) {
		t.Fatalf("err = %v", err)
	}
}
