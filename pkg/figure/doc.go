// Package figure defines the declarative figure schema and its validator.
//
// # Overview
//
// A figure is authored as a short YAML block, usually embedded in a question
// bank between [FIGURE] and [/FIGURE] markers:
//
//	type: circle_tangent
//	description: Tangent TA at A; chord AB; angle TAB = 32°
//	elements:
//	  - circle: {center: O, radius: 3, points: [A, B, P]}
//	  - tangent: {circle: O, point: A, external_point: T}
//	  - line: {points: [A, B]}
//	  - angle: {vertex: A, rays: [T, B], marked: true}
//	given_values: {TAB: 32°}
//	find_values: [APB]
//
// [ExtractBlocks] finds blocks in free text, [NormalizeBlock] repairs the
// indentation damage typical of copied blocks, [Parse] decodes a block into
// a [Spec] and [Validate] checks it. Both report every problem they find as
// a [SchemaError]; neither stops at the first one.
//
// # Points
//
// A point id is defined by a point element, a circle center, a circle's
// points list, a polygon vertex, or a tangent's point or external point. An
// id may be defined at several of these sites (a vertex that also lies on a
// circle), but two point elements with the same label are an error. Every
// other mention of an id is a reference and must resolve.
//
// # Values
//
// given_values maps labels to value strings. [ParseValue] reads numbers with
// an optional unit ("32°", "5 cm"), ratios ("3:4") and symbolic values
// ("x", "2x+10"). Angle labels are three point ids with the vertex in the
// middle and match in either ray order, so TAB and BAT name the same angle.
package figure
