package solver

import (
	"math"
	"strings"

	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/geometry"
)

// finish checks the placed points and draws every element the spec lists.
// Variants call it last; primitives they added themselves are kept.
func (b *builder) finish() (*Resolved, error) {
	for _, id := range b.spec.PointIDs() {
		if !b.placed(id) {
			return nil, solveError("point %s could not be placed", id)
		}
	}
	if err := b.checkCircles(); err != nil {
		return nil, err
	}
	if err := b.checkPolygons(); err != nil {
		return nil, err
	}

	centroid := geometry.Centroid(b.positions(b.spec.PointIDs()))

	b.drawCircles()
	b.drawLines(centroid)
	b.drawPolygons()
	b.drawTangents()
	b.drawArcs()
	b.drawLoci()
	b.drawAngles()
	b.drawSegmentValues(centroid)
	b.drawPoints()
	return b.result(), nil
}

// checkCircles verifies that every point declared on a circle lies on it.
func (b *builder) checkCircles() error {
	for _, e := range b.spec.Elements {
		c := e.Circle
		if c == nil {
			continue
		}
		o, r := b.pts[c.Center], b.circleRadius(c)
		for _, id := range c.Points {
			if d := b.pts[id].Dist(o); math.Abs(d-r) > onCircleTolerance*r {
				return solveError("point %s is %.3g from center %s but circle %s has radius %.3g", id, d, c.Center, c.Center, r)
			}
		}
	}
	return nil
}

func (b *builder) role(label string, hidden bool) figure.Role {
	switch {
	case hidden:
		return figure.RoleHidden
	case b.spec.IsFind(label):
		return figure.RoleFind
	}
	return figure.RoleGiven
}

func edgeKey(a, c string) [2]string {
	if a > c {
		a, c = c, a
	}
	return [2]string{a, c}
}

// segment draws a straight segment between two ids unless one is already
// drawn. It reports whether it drew.
func (b *builder) segment(from, to string, role figure.Role) bool {
	k := edgeKey(from, to)
	if b.edges[k] {
		return false
	}
	b.edges[k] = true
	b.scene.Segments = append(b.scene.Segments, Segment{A: b.pts[from], B: b.pts[to], From: from, To: to, Role: role})
	return true
}

func (b *builder) drawCircles() {
	for _, e := range b.spec.Elements {
		c := e.Circle
		if c == nil {
			continue
		}
		o, r := b.pts[c.Center], b.circleRadius(c)
		b.scene.Circles = append(b.scene.Circles, Circle{ID: c.Center, Center: o, Radius: r, Role: b.role(c.RadiusLabel, false)})
		if c.RadiusLabel != "" {
			end := o.Add(geometry.Polar(r, geometry.Rad(-30)))
			b.scene.Segments = append(b.scene.Segments, Segment{A: o, B: end, From: c.Center, Role: b.role(c.RadiusLabel, false)})
			b.scene.Labels = append(b.scene.Labels, Label{
				Text: c.RadiusLabel, Anchor: o.Lerp(end, 0.5), Kind: LabelValue,
				Dir: end.Sub(o).Perp().Unit(), Role: b.role(c.RadiusLabel, false),
			})
		}
	}
}

func (b *builder) drawLines(centroid geometry.Vec) {
	for _, e := range b.spec.Elements {
		l := e.Line
		if l == nil || len(l.Points) != 2 {
			continue
		}
		from, to := l.Points[0], l.Points[1]
		name := from + to
		role := b.role(name, l.Hidden())
		if !l.Hidden() && l.Label != "" && b.spec.IsFind(l.Label) {
			role = figure.RoleFind
		}
		b.edges[edgeKey(from, to)] = true

		p, q := b.pts[from], b.pts[to]
		a, c := p, q
		switch {
		case l.Extended:
			d := q.Sub(p).Scale(0.25)
			a, c = p.Sub(d), q.Add(d)
		case l.Ray:
			c = q.Add(q.Sub(p).Scale(0.5))
		}
		b.scene.Segments = append(b.scene.Segments, Segment{A: a, B: c, From: from, To: to, Role: role})

		text := l.Label
		if v, ok := b.spec.GivenValues.Lookup(name); ok {
			text = figure.ParseValue(v).Text()
		} else if l.Value != "" {
			text = figure.ParseValue(l.Value).Text()
		}
		if text != "" {
			b.valueLabel(text, p, q, centroid, role)
		}
	}
}

// valueLabel labels segment pq at its midpoint, on the side away from the
// centroid.
func (b *builder) valueLabel(text string, p, q, centroid geometry.Vec, role figure.Role) {
	mid := p.Lerp(q, 0.5)
	n := q.Sub(p).Perp().Unit()
	if n.Dot(mid.Sub(centroid)) < 0 {
		n = n.Scale(-1)
	}
	if role == figure.RoleHidden {
		role = figure.RoleGiven
	}
	b.scene.Labels = append(b.scene.Labels, Label{Text: text, Anchor: mid, Kind: LabelValue, Dir: n, Role: role})
}

func (b *builder) drawPolygons() {
	for _, e := range b.spec.Elements {
		p := e.Polygon
		if p == nil {
			continue
		}
		hidden := p.Style == "dashed" || p.Style == "dotted"
		if p.Shaded {
			b.scene.Fills = append(b.scene.Fills, Fill{Points: b.positions(p.Vertices), Role: figure.RoleGiven})
		}
		for i, from := range p.Vertices {
			to := p.Vertices[(i+1)%len(p.Vertices)]
			b.segment(from, to, b.role(from+to, hidden))
		}
	}
}

func (b *builder) drawTangents() {
	for _, e := range b.spec.Elements {
		t := e.Tangent
		if t == nil {
			continue
		}
		c := b.spec.Circle(t.Circle)
		if c == nil {
			continue
		}
		o, r := b.pts[c.Center], b.circleRadius(c)
		a := b.pts[t.Point]
		role := b.role(t.Label, false)

		var far geometry.Vec
		if t.ExternalPoint != "" {
			ext := b.pts[t.ExternalPoint]
			b.edges[edgeKey(t.Point, t.ExternalPoint)] = true
			far = ext
			// the tangent line runs on past the point of contact
			beyond := a.Add(a.Sub(ext).Scale(0.4))
			b.scene.Segments = append(b.scene.Segments, Segment{A: ext, B: beyond, From: t.ExternalPoint, To: t.Point, Role: role})
		} else {
			dir := a.Sub(o).Perp().Unit().Scale(r)
			far = a.Add(dir)
			b.scene.Segments = append(b.scene.Segments, Segment{A: a.Sub(dir), B: far, From: t.Point, Role: role})
		}
		if t.Label != "" {
			b.scene.Labels = append(b.scene.Labels, Label{
				Text: t.Label, Anchor: a.Lerp(far, 0.75), Kind: LabelValue,
				Dir: a.Sub(o).Unit(), Role: role,
			})
		}

		b.segment(c.Center, t.Point, figure.RoleConstruction)
		if t.ExternalPoint != "" {
			b.marks[angleKey(t.Point, c.Center, t.ExternalPoint)] = true
		}
		b.scene.Angles = append(b.scene.Angles, AngleMark{
			Name: c.Center + t.Point + t.ExternalPoint, Vertex: a, A: o, B: far,
			Arcs: 1, Right: true, Role: figure.RoleGiven,
		})
	}
}

func (b *builder) drawArcs() {
	for _, e := range b.spec.Elements {
		a := e.Arc
		if a == nil {
			continue
		}
		c := b.spec.Circle(a.Circle)
		if c == nil {
			continue
		}
		o, r := b.pts[c.Center], b.circleRadius(c)
		start := b.pts[a.From].Sub(o).Angle()
		sweep := geometry.NormAngle(b.pts[a.To].Sub(o).Angle() - start)
		if sweep > math.Pi {
			sweep -= 2 * math.Pi
		}
		if a.Major {
			if sweep > 0 {
				sweep -= 2 * math.Pi
			} else {
				sweep += 2 * math.Pi
			}
		}
		arc := Arc{Center: o, Radius: r, Start: start, Sweep: sweep, Role: b.role(a.Label, false)}
		if arc.Role == figure.RoleGiven {
			arc.Role = figure.RoleFind
		}
		b.scene.Arcs = append(b.scene.Arcs, arc)
		if a.Label != "" {
			mid := arc.At(0.5)
			b.scene.Labels = append(b.scene.Labels, Label{
				Text: a.Label, Anchor: mid, Kind: LabelValue, Dir: mid.Sub(o).Unit(), Role: arc.Role,
			})
		}
	}
}

// drawLoci draws construction lines and circles clipped to the figure.
func (b *builder) drawLoci() {
	ext := b.extent()
	if ext.Empty() {
		return
	}
	pad := 0.3*math.Max(ext.W(), ext.H()) + b.opts.BaseLength/4
	box := ext.Inset(-pad)

	for _, e := range b.spec.Elements {
		l := e.Locus
		if l == nil || !b.allPlaced(l.Points) {
			continue
		}
		ps := b.positions(l.Points)
		var seg geometry.Segment
		ok := false
		switch l.Kind {
		case figure.LocusPerpendicularBisector:
			if len(ps) == 2 {
				seg, ok = clipLine(geometry.PerpBisector(ps[0], ps[1]), box)
			}
		case figure.LocusAngleBisector:
			if len(ps) == 3 {
				seg, ok = clipRay(geometry.AngleBisector(ps[1], ps[0], ps[2]), box)
			}
		case figure.LocusCircle:
			if l.Radius != nil {
				b.scene.Circles = append(b.scene.Circles, Circle{Center: ps[0], Radius: *l.Radius, Role: figure.RoleConstruction})
				if l.Label != "" {
					at := ps[0].Add(geometry.Polar(*l.Radius, math.Pi/4))
					b.scene.Labels = append(b.scene.Labels, Label{Text: l.Label, Anchor: at, Kind: LabelValue, Dir: geometry.Polar(1, math.Pi/4), Role: figure.RoleConstruction})
				}
			}
		}
		if !ok {
			continue
		}
		b.scene.Segments = append(b.scene.Segments, Segment{A: seg.A, B: seg.B, Role: figure.RoleConstruction})
		if l.Label != "" {
			b.scene.Labels = append(b.scene.Labels, Label{
				Text: l.Label, Anchor: seg.A.Lerp(seg.B, 0.9), Kind: LabelValue,
				Dir: seg.B.Sub(seg.A).Perp().Unit(), Role: figure.RoleConstruction,
			})
		}
	}
}

// drawAngles marks angle elements, then any angle named in given_values or
// find_values that no element marks.
func (b *builder) drawAngles() {
	for _, e := range b.spec.Elements {
		a := e.Angle
		if a == nil || len(a.Rays) != 2 {
			continue
		}
		name := a.Name()
		text := angleText(b.spec.AngleValue(a.Vertex, a.Rays[0], a.Rays[1], a.Value))
		find := b.spec.IsFind(name)
		right := a.Right
		if deg, ok := angleDegrees(text); ok && math.Abs(deg-90) < 1e-9 {
			right = true
		}
		if !a.Marked && !right && text == "" && !find {
			continue
		}
		if text == "" && find {
			text = "?"
		}
		b.markAngle(name, a.Vertex, a.Rays[0], a.Rays[1], text, a.Arcs(), right && !find)
	}

	ids := b.spec.PointIDs()
	var names []string
	names = append(names, b.spec.GivenValues.Keys()...)
	names = append(names, b.spec.FindValues...)
	for _, n := range names {
		parts, ok := figure.SplitName(n, ids)
		if !ok || len(parts) != 3 || b.marks[angleKey(parts[1], parts[0], parts[2])] {
			continue
		}
		name := strings.Join(parts, "")
		text := angleText(b.spec.AngleValue(parts[1], parts[0], parts[2], ""))
		if text == "" {
			text = "?"
		}
		b.markAngle(name, parts[1], parts[0], parts[2], text, 1, false)
	}
}

func angleKey(vertex, r1, r2 string) string {
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return r1 + "|" + vertex + "|" + r2
}

func (b *builder) markAngle(name, vertex, r1, r2, text string, arcs int, right bool) {
	v, p, q := b.pts[vertex], b.pts[r1], b.pts[r2]
	if p.Dist(v) < geometry.Eps || q.Dist(v) < geometry.Eps || b.marks[angleKey(vertex, r1, r2)] {
		return
	}
	b.marks[angleKey(vertex, r1, r2)] = true
	role := b.role(name, false)
	m := AngleMark{Name: name, Vertex: v, A: p, B: q, Text: text, Arcs: arcs, Right: right, Role: role}
	b.scene.Angles = append(b.scene.Angles, m)
	if text != "" && !right {
		b.scene.Labels = append(b.scene.Labels, Label{Text: text, Anchor: v, Kind: LabelAngle, Dir: m.Bisector(), Role: role})
	}
}

// angleText formats an angle value for display; bare numbers get a degree
// sign.
func angleText(raw string) string {
	v := figure.ParseValue(raw)
	if v.Kind == figure.ValueNumeric && v.Unit == "" {
		v.Unit = "°"
	}
	return v.Text()
}

// drawSegmentValues labels given lengths of segments drawn by polygons or
// tangents rather than by a line element.
func (b *builder) drawSegmentValues(centroid geometry.Vec) {
	lines := make(map[[2]string]bool)
	for _, e := range b.spec.Elements {
		if l := e.Line; l != nil && len(l.Points) == 2 {
			lines[edgeKey(l.Points[0], l.Points[1])] = true
		}
	}
	ids := b.spec.PointIDs()
	for _, k := range b.spec.GivenValues.Keys() {
		parts, ok := figure.SplitName(k, ids)
		if !ok || len(parts) != 2 {
			continue
		}
		ek := edgeKey(parts[0], parts[1])
		if !b.edges[ek] || lines[ek] {
			continue
		}
		raw, _ := b.spec.GivenValues.Get(k)
		b.valueLabel(figure.ParseValue(raw).Text(), b.pts[parts[0]], b.pts[parts[1]], centroid, b.role(k, false))
	}
}

func (b *builder) drawPoints() {
	for _, id := range b.spec.PointIDs() {
		kind := b.kinds[id]
		if p := b.spec.PointElement(id); p != nil && p.LabelOnly {
			kind = PointLabelOnly
		}
		role := b.role(id, false)
		b.scene.Points = append(b.scene.Points, Point{ID: id, Pos: b.pts[id], Kind: kind, Role: role})
		b.scene.Labels = append(b.scene.Labels, Label{Text: id, Anchor: b.pts[id], Kind: LabelPoint, Role: role})
	}
}
