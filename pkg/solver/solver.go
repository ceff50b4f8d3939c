package solver

import (
	"fmt"
	"sort"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
)

// Variant solves the figure types it claims. Implementations register
// themselves with register from an init function in their own file.
type Variant interface {
	Name() string
	Types() []figure.Type
	Resolve(spec *figure.Spec, opts Options) (*Resolved, error)
}

var registry = map[figure.Type]Variant{}

func register(v Variant) {
	for _, t := range v.Types() {
		if prev, dup := registry[t]; dup {
			panic(fmt.Sprintf("solver: type %s claimed by both %s and %s", t, prev.Name(), v.Name()))
		}
		registry[t] = v
	}
}

// VariantFor returns the variant that owns t.
func VariantFor(t figure.Type) (Variant, bool) {
	v, ok := registry[t]
	return v, ok
}

// Variants returns the registered variant names, sorted.
func Variants() []string {
	seen := make(map[string]bool)
	var names []string
	for _, v := range registry {
		if !seen[v.Name()] {
			seen[v.Name()] = true
			names = append(names, v.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Resolve solves spec. The spec must have passed [figure.Validate].
//
// Inconsistent or degenerate constraints yield an error coded
// GEOMETRY_SOLVE. A type no variant claims is an internal error.
func Resolve(spec *figure.Spec, opts Options) (*Resolved, error) {
	if spec == nil {
		return nil, geoerrors.New(geoerrors.ErrCodeInternal, "nil figure")
	}
	v, ok := registry[spec.Type]
	if !ok {
		return nil, geoerrors.New(geoerrors.ErrCodeInternal, "no solver variant for figure type %q", spec.Type)
	}
	res, err := v.Resolve(spec, opts.WithDefaults())
	if err != nil {
		return nil, err
	}
	if b := res.Scene.Bounds(); !b.Finite() {
		return nil, solveError("figure extent is not finite; a coordinate or length is too large")
	}
	return res, nil
}

func solveError(format string, args ...any) error {
	return geoerrors.New(geoerrors.ErrCodeGeometrySolve, format, args...)
}
