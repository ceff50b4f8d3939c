package figure

// PointIDs returns every defined point id in order of first definition.
func (s *Spec) PointIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, e := range s.Elements {
		switch {
		case e.Point != nil:
			add(e.Point.Label)
		case e.Circle != nil:
			add(e.Circle.Center)
			for _, p := range e.Circle.Points {
				add(p)
			}
		case e.Tangent != nil:
			add(e.Tangent.Point)
			add(e.Tangent.ExternalPoint)
		case e.Polygon != nil:
			for _, p := range e.Polygon.Vertices {
				add(p)
			}
		}
	}
	return ids
}

// PointElement returns the point element declaring id, or nil.
func (s *Spec) PointElement(id string) *Point {
	for _, e := range s.Elements {
		if e.Point != nil && e.Point.Label == id {
			return e.Point
		}
	}
	return nil
}

// Circle returns the circle element centered on id, or nil.
func (s *Spec) Circle(center string) *Circle {
	for _, e := range s.Elements {
		if e.Circle != nil && e.Circle.Center == center {
			return e.Circle
		}
	}
	return nil
}

// IsFind reports whether label is listed in find_values. Angle names match
// in either ray order.
func (s *Spec) IsFind(label string) bool {
	want := NormalizeKey(label)
	for _, f := range s.FindValues {
		k := NormalizeKey(f)
		if k == want || sameAngleName(k, want) {
			return true
		}
	}
	return false
}

// AngleValue returns the value to show for the angle at vertex between
// ray1 and ray2: the given value if one exists, else fallback.
func (s *Spec) AngleValue(vertex, ray1, ray2, fallback string) string {
	if v, ok := s.GivenValues.LookupAngle(vertex, ray1, ray2); ok {
		return v
	}
	return fallback
}
