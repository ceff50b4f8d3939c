package smoke

import "github.com/matzehuels/geofig/pkg/figure"

// Canonical holds one representative block per figure type. Each block is
// valid and solvable; a failure to render one is a regression.
var Canonical = map[figure.Type]string{
	figure.TypeCircleInscribedAngle: `type: circle_inscribed_angle
description: Angle AOB at the center is 100°; find the inscribed angle APB
elements:
  - circle: {center: O, radius: 3, points: [A, B, P]}
  - line: {points: [A, P]}
  - line: {points: [B, P]}
  - line: {points: [O, A]}
  - line: {points: [O, B]}
given_values: {AOB: 100°}
find_values: [APB]
`,
	figure.TypeCircleTangent: `type: circle_tangent
description: Tangent TA at A; chord AB; angle TAB = 32°
elements:
  - circle: {center: O, radius: 3, points: [A, B, P]}
  - tangent: {circle: O, point: A, external_point: T}
  - line: {points: [A, B]}
  - angle: {vertex: A, rays: [T, B], marked: true}
given_values: {TAB: 32°}
find_values: [APB]
`,
	figure.TypeCircleChord: `type: circle_chord
description: M is the midpoint of chord AB of the circle with center O
elements:
  - circle: {center: O, radius: 3, points: [A, B]}
  - line: {points: [A, B]}
  - point: {label: M, midpoint: [A, B]}
  - line: {points: [O, M]}
  - line: {points: [O, A], style: dashed}
given_values: {AB: 8 cm}
find_values: [OM]
`,
	figure.TypeCircleSecant: `type: circle_secant
description: PT is a tangent and PAC a secant of the circle with center O
elements:
  - circle: {center: O, radius: 3, points: [C]}
  - tangent: {circle: O, point: T, external_point: P}
  - point: {label: A, on: [P, C], on_circle: O}
  - line: {points: [P, C]}
  - line: {points: [P, T]}
given_values: {PT: 6 cm}
find_values: [PA]
`,
	figure.TypeCyclicQuadrilateral: `type: cyclic_quadrilateral
description: ABCD is a cyclic quadrilateral with angle DAB = 100°
elements:
  - circle: {center: O}
  - quadrilateral: {vertices: [A, B, C, D]}
given_values: {DAB: 100°}
find_values: [BCD]
`,
	figure.TypeAlternateSegment: `type: alternate_segment
description: TA is a tangent at A; chord AB makes 58° with it
elements:
  - circle: {center: O, radius: 3, points: [A, B, C]}
  - tangent: {circle: O, point: A, external_point: T}
  - line: {points: [A, B]}
  - line: {points: [B, C]}
  - line: {points: [A, C]}
given_values: {TAB: 58°}
find_values: [ACB]
`,
	figure.TypeSimilarTriangles: `type: similar_triangles
description: Triangle DEF is an enlargement of ABC with ratio 1:2
elements:
  - triangle: {vertices: [A, B, C]}
  - triangle: {vertices: [D, E, F], similar_to: [A, B, C], ratio: "1:2"}
given_values: {BAC: 50°, ABC: 60°}
find_values: [EF]
`,
	figure.TypeCongruentTriangles: `type: congruent_triangles
description: Triangles ABC and DEF are congruent
elements:
  - triangle: {vertices: [A, B, C]}
  - triangle: {vertices: [D, E, F], congruent_to: [A, B, C]}
given_values: {BAC: 40°}
find_values: [EDF]
`,
	figure.TypeTriangleProperties: `type: triangle_properties
description: Triangle ABC with angle BAC = 50° and angle ABC = 70°
elements:
  - triangle: {vertices: [A, B, C]}
given_values: {BAC: 50°, ABC: 70°}
find_values: [ACB]
`,
	figure.TypeBPTTriangle: `type: bpt_triangle
description: DE is parallel to BC
elements:
  - triangle: {vertices: [A, B, C]}
  - point: {label: D, on: [A, B], ratio: "3:4"}
  - point: {label: E, on: [A, C], ratio: "3:4"}
  - line: {points: [D, E]}
given_values: {AD: 3 cm, DB: 4 cm}
find_values: [DE]
`,
	figure.TypeConstructionTangent: `type: construction_tangent
description: Construct the tangent from P to the circle with center O
elements:
  - circle: {center: O, radius: 2}
  - tangent: {circle: O, point: T, external_point: P}
find_values: [PT]
`,
	figure.TypeConstructionCircumcircle: `type: construction_circumcircle
description: Circumcircle of triangle ABC
elements:
  - triangle: {vertices: [A, B, C]}
  - circle: {center: O, points: [A, B, C]}
`,
	figure.TypeConstructionIncircle: `type: construction_incircle
description: Incircle of triangle ABC touching the sides at D, E and F
elements:
  - triangle: {vertices: [A, B, C]}
  - circle: {center: I, points: [D, E, F]}
`,
	figure.TypeConstructionLocus: `type: construction_locus
description: Points equidistant from A and B, and points 4 cm from A
elements:
  - point: {label: A, x: 0, y: 0}
  - point: {label: B, x: 6, y: 0}
  - line: {points: [A, B]}
  - locus: {kind: perpendicular_bisector, points: [A, B]}
  - locus: {kind: circle, points: [A], radius: 4}
`,
	figure.TypeCoordinatePoints: `type: coordinate_points
description: Plot A(1, 2) and B(4, 6)
elements:
  - point: {label: A, x: 1, y: 2}
  - point: {label: B, x: 4, y: 6}
find_values: [AB]
`,
	figure.TypeCoordinateLine: `type: coordinate_line
description: The line through A(0, 1) and B(3, 7)
elements:
  - point: {label: A, x: 0, y: 1}
  - point: {label: B, x: 3, y: 7}
  - line: {points: [A, B], extended: true}
`,
	figure.TypeCoordinateReflection: `type: coordinate_reflection
description: P reflected in the line y = x
elements:
  - point: {label: A, x: 0, y: 0}
  - point: {label: B, x: 4, y: 4}
  - point: {label: P, x: 3, y: 1}
  - point: {label: Q, reflect: {of: P, in: [A, B]}}
  - line: {points: [A, B]}
find_values: [Q]
`,
	figure.TypeMensurationCylinder: `type: mensuration_cylinder
description: A cylinder of radius 2 cm and height 5 cm
elements:
  - solid: {kind: cylinder, radius: 2, height: 5, radius_label: 2 cm, height_label: 5 cm}
given_values: {radius: 2 cm, height: 5 cm}
find_values: [volume]
`,
	figure.TypeMensurationCone: `type: mensuration_cone
description: A cone of radius 3 cm and height 4 cm
elements:
  - solid: {kind: cone, radius: 3, height: 4, radius_label: 3 cm, height_label: 4 cm, slant_label: l}
find_values: [volume]
`,
	figure.TypeMensurationSphere: `type: mensuration_sphere
description: A sphere of radius 5 cm
elements:
  - solid: {kind: sphere, radius: 5, radius_label: 5 cm}
find_values: [volume]
`,
	figure.TypeMensurationCombined: `type: mensuration_combined
description: A hemisphere on top of a cylinder
elements:
  - solid:
      kind: cylinder
      radius: 2
      height: 5
      nested: {kind: hemisphere, position: top}
find_values: [volume]
`,
	figure.TypeGeneric: `type: generic
description: Two points joined by a segment
elements:
  - point: {label: A}
  - point: {label: B}
  - line: {points: [A, B]}
`,
}
