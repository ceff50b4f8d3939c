package figure_test

import (
	"fmt"

	"github.com/matzehuels/geofig/pkg/figure"
)

func ExampleParseAndValidate() {
	spec, errs := figure.ParseAndValidate(`
type: cyclic_quadrilateral
description: ABCD is cyclic, angle ABC = 70°
elements:
  - circle: {center: O}
  - quadrilateral: {vertices: [A, B, C, D], inscribed_in: O}
given_values: {ABC: 70°}
find_values: [ADC]
`)
	fmt.Println("type:", spec.Type)
	fmt.Println("elements:", len(spec.Elements))
	fmt.Println("errors:", len(errs))
	// Output:
	// type: cyclic_quadrilateral
	// elements: 2
	// errors: 0
}

func ExampleParseValue() {
	for _, s := range []string{"32°", "5 cm", "3:4", "2x+10"} {
		v := figure.ParseValue(s)
		fmt.Printf("%s -> %q\n", s, v.Text())
	}
	// Output:
	// 32° -> "32°"
	// 5 cm -> "5 cm"
	// 3:4 -> "3:4"
	// 2x+10 -> "2x+10"
}
