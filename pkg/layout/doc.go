// Package layout maps a solved figure onto a pixel canvas and places its
// labels.
//
// # Placement
//
// [Place] scales the drawn geometry uniformly into the canvas minus its
// margin, centers it, and flips the y axis so that canvas y grows downward.
// The result is a [Placed] whose scene is in canvas pixels.
//
// # Labels
//
// Each label is measured with the Go Regular face from [fonts] and offset
// from its anchor. The first candidate direction is the label's preferred
// direction: outward from the figure's centroid for point names and along
// the bisector for angle values. Further candidates alternate either side
// of it in fixed angular steps until the sweep is complete.
//
// A candidate is clean when its box touches no placed label, no drawn
// stroke, no point marker and stays inside the canvas. The first clean
// candidate wins. When none is clean the candidate with the least overlap
// is kept, the figure is marked degraded and a LAYOUT diagnostic is
// recorded. Label collisions never fail a figure.
package layout
