package solver

import "math"

// InteriorSum returns the interior angle total of an n-gon in degrees.
func InteriorSum(n int) float64 { return float64(n-2) * 180 }

// DistributeAngles fills the NaN entries of known so that all entries sum
// to total, sharing what is left evenly. It fails when the known angles
// already use up the total, or when nothing is unknown and the sum is off.
func DistributeAngles(total float64, known []float64) ([]float64, error) {
	out := make([]float64, len(known))
	sum, free := 0.0, 0
	for i, a := range known {
		out[i] = a
		if math.IsNaN(a) {
			free++
			continue
		}
		sum += a
	}
	rest := total - sum
	if free == 0 {
		if math.Abs(rest) > 1e-6 {
			return nil, solveError("angles sum to %g°, expected %g°", sum, total)
		}
		return out, nil
	}
	share := rest / float64(free)
	if share <= 0 {
		return nil, solveError("given angles sum to %g°, leaving nothing of %g° for the others", sum, total)
	}
	for i := range out {
		if math.IsNaN(out[i]) {
			out[i] = share
		}
	}
	return out, nil
}

// CyclicArcs returns the arcs, in degrees, between consecutive vertices of
// a cyclic quadrilateral V0V1V2V3 with interior angles a0 at V0 and a1 at
// V1. Arc i runs from Vi to Vi+1.
//
// The angle at V0 stands on arcs 1 and 2, the angle at V1 on arcs 2 and 3,
// which leaves arc 2 free within (max(0, 2·a0+2·a1−360), min(2·a0, 2·a1)).
// It is set to the middle of that interval. Opposite angles come out
// supplementary.
func CyclicArcs(a0, a1 float64) ([4]float64, error) {
	var arcs [4]float64
	if a0 <= 0 || a0 >= 180 || a1 <= 0 || a1 >= 180 {
		return arcs, solveError("cyclic quadrilateral angles %g° and %g° must lie strictly between 0° and 180°", a0, a1)
	}
	lo := math.Max(0, 2*a0+2*a1-360)
	hi := math.Min(2*a0, 2*a1)
	if hi-lo <= 1e-9 {
		return arcs, solveError("cyclic quadrilateral angles %g° and %g° leave no room for the vertices", a0, a1)
	}
	t := (lo + hi) / 2
	arcs[1] = 2*a0 - t
	arcs[2] = t
	arcs[3] = 2*a1 - t
	arcs[0] = 360 - arcs[1] - arcs[2] - arcs[3]
	return arcs, nil
}
