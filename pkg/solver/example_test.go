package solver_test

import (
	"fmt"
	"math"

	"github.com/matzehuels/geofig/pkg/figure"
	"github.com/matzehuels/geofig/pkg/solver"
)

func ExampleResolve() {
	spec, errs := figure.ParseAndValidate(`type: circle_tangent
description: Tangent at A meets the chord AB at 32°
elements:
  - circle: {center: O, radius: 3, points: [A, B, P]}
  - tangent: {circle: O, point: A, external_point: T}
  - line: {points: [A, B]}
given_values: {TAB: 32°}
find_values: [APB]
`)
	if len(errs) > 0 {
		fmt.Println(errs)
		return
	}
	res, err := solver.Resolve(spec, solver.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	oat, _ := res.AngleDeg("A", "O", "T")
	apb, _ := res.AngleDeg("P", "A", "B")
	fmt.Printf("OAT = %.1f°\n", oat)
	fmt.Printf("APB = %.1f°\n", apb)
	// Output:
	// OAT = 90.0°
	// APB = 32.0°
}

func ExampleDistributeAngles() {
	nan := math.NaN()
	angles, _ := solver.DistributeAngles(solver.InteriorSum(4), []float64{110, nan, 70, nan})
	fmt.Println(angles)
	// Output: [110 90 70 90]
}
