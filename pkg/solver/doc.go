// Package solver turns a validated figure into coordinates.
//
// # Overview
//
// [Resolve] takes a [figure.Spec] and returns a [Resolved]: a position for
// every point id plus a [Scene] of drawable primitives in the solver's
// canonical frame (y up, arbitrary units). Resolve is pure; the same Spec
// and Options always produce the same result.
//
// # Variants
//
// Each figure type is owned by exactly one [Variant]. Variants register
// themselves from their own files, so adding a figure type means adding a
// variant file:
//
//   - circle: circle figures, tangents, chords, secants, cyclic quadrilaterals
//   - triangle: similar, congruent and BPT triangles
//   - construction: circumcircle, incircle and locus constructions
//   - explicit: coordinate figures and generic figures
//   - solid: projected cylinders, cones, spheres and hemispheres
//
// # Default placement
//
// Points on a circle with no authored position are spaced evenly, starting
// at 90° and moving clockwise in declaration order. Numeric angle values
// then move the points they constrain. Any point still without a position
// after every variant rule and point construction has run is spaced the
// same way on a ring around the figure.
//
// # Angle budget
//
// Where angles must sum to a known total, the unspecified ones share what
// is left evenly: 180° over a triangle, 360° over a quadrilateral and
// (n−2)·180° over an n-gon. Cyclic quadrilaterals instead make opposite
// angles supplementary; see [CyclicArcs].
//
// # Occlusion
//
// Solids are viewed under a fixed orthographic projection. A sample point p
// of solid A is hidden by an opaque solid B when p lies inside B, or when p
// projects strictly inside B's silhouette and is farther from the viewer
// than B's center. Curved edges are sampled and each piece is classified
// by its midpoint. A solid that contains another solid is see-through by
// default; every other solid is opaque.
package solver
