package layout

import (
	"fmt"
	"math"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/fonts"
	"github.com/matzehuels/geofig/pkg/geometry"
	"github.com/matzehuels/geofig/pkg/solver"
)

// Collision weights. A stroke crossing a box costs its clipped length
// times strokeWeight; overlapping labels cost their shared area times
// labelWeight so that labels prefer lines over each other.
const (
	strokeWeight = 2.0
	labelWeight  = 10.0
	// rings is how many offset distances are swept before giving up.
	rings = 3
)

type placer struct {
	p      *Placed
	opts   Options
	center geometry.Vec
	frame  geometry.Rect

	strokes []geometry.Segment
	circles []solver.Circle
	markers []geometry.Rect
	boxes   []geometry.Rect
}

func newPlacer(p *Placed, opts Options) *placer {
	pl := &placer{p: p, opts: opts, frame: p.Canvas.Rect()}
	s := &p.Scene

	var pts []geometry.Vec
	for _, pt := range s.Points {
		pts = append(pts, pt.Pos)
		if pt.Kind != solver.PointLabelOnly {
			pl.markers = append(pl.markers, geometry.RectAround(pt.Pos, 2*PointRadius, 2*PointRadius))
		}
	}
	if len(pts) > 0 {
		pl.center = geometry.Centroid(pts)
	} else {
		pl.center = p.Canvas.Rect().Center()
	}

	for _, sg := range s.Segments {
		pl.strokes = append(pl.strokes, geometry.Segment{A: sg.A, B: sg.B})
	}
	for _, line := range s.Polylines {
		for i := 1; i < len(line.Points); i++ {
			pl.strokes = append(pl.strokes, geometry.Segment{A: line.Points[i-1], B: line.Points[i]})
		}
		if line.Closed && len(line.Points) > 2 {
			pl.strokes = append(pl.strokes, geometry.Segment{A: line.Points[len(line.Points)-1], B: line.Points[0]})
		}
	}
	for _, a := range s.Arcs {
		pl.strokes = append(pl.strokes, arcPieces(a.Center, a.Radius, a.Start, a.Sweep, 24)...)
	}
	for _, m := range s.Angles {
		pl.strokes = append(pl.strokes, markPieces(m)...)
	}
	pl.circles = s.Circles
	return pl
}

// place finds a box for l and records it as an obstacle for later labels.
func (pl *placer) place(l solver.Label) (PlacedLabel, error) {
	w, h, err := fonts.Measure(l.Text, pl.opts.FontSize)
	if err != nil {
		return PlacedLabel{}, geoerrors.Wrap(geoerrors.ErrCodeInternal, err, "measure label %q", l.Text)
	}
	w += 2 // breathing room for glyph overhang

	dir := pl.direction(l)
	gap := pl.gap(l)
	steps := int(math.Round(360 / pl.opts.AngleStep))

	best := PlacedLabel{Label: l, Overlap: math.Inf(1)}
	for ring := range rings {
		dist := gap + float64(ring)*h
		for i := range steps {
			u := dir.Rotate(geometry.Rad(sweepAngle(i, pl.opts.AngleStep)))
			c := l.Anchor.Add(u.Scale(dist + math.Abs(u.X)*w/2 + math.Abs(u.Y)*h/2))
			box := geometry.RectAround(c, w, h)
			cost := pl.cost(box)
			if cost < best.Overlap {
				best.Pos, best.Box, best.Overlap = c, box, cost
			}
			if cost < eps {
				best.Overlap = 0
				pl.boxes = append(pl.boxes, box)
				return best, nil
			}
		}
	}

	pl.p.Degraded = true
	pl.p.Diagnostics = append(pl.p.Diagnostics, geoerrors.Diagnostic{
		Code:    geoerrors.ErrCodeLayout,
		Stage:   "layout",
		Element: l.Text,
		Message: fmt.Sprintf("no collision-free position for label %q; kept the least overlapping one", l.Text),
	})
	pl.boxes = append(pl.boxes, best.Box)
	return best, nil
}

// sweepAngle returns the i-th candidate offset in degrees: 0, +s, -s, +2s,
// -2s and so on.
func sweepAngle(i int, step float64) float64 {
	k := float64((i + 1) / 2)
	if i%2 == 1 {
		return k * step
	}
	return -k * step
}

func (pl *placer) direction(l solver.Label) geometry.Vec {
	if l.Dir.Len() > eps {
		return l.Dir.Unit()
	}
	if d := l.Anchor.Sub(pl.center); d.Len() > eps {
		return d.Unit()
	}
	return geometry.V(0, -1)
}

// gap is the clear distance between the anchor and the nearest box edge.
func (pl *placer) gap(l solver.Label) float64 {
	switch l.Kind {
	case solver.LabelAngle:
		return MarkRadius + ArcSpacing*2 + pl.opts.Offset
	case solver.LabelPoint:
		return PointRadius + pl.opts.Offset
	}
	return pl.opts.Offset
}

// cost measures how badly box collides with everything placed so far.
func (pl *placer) cost(box geometry.Rect) float64 {
	area := box.W() * box.H()
	total := area - box.Overlap(pl.frame)
	for _, b := range pl.boxes {
		total += labelWeight * box.Overlap(b)
	}
	for _, m := range pl.markers {
		total += box.Overlap(m)
	}
	for _, s := range pl.strokes {
		total += strokeWeight * box.ClipSegment(s)
	}
	for _, c := range pl.circles {
		lo, hi := box.DistRange(c.Center)
		if lo <= c.Radius && c.Radius <= hi {
			total += strokeWeight * math.Min(box.W(), box.H())
		}
	}
	return total
}
