package figure

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// rawSpec mirrors the top-level keys of a figure block. Elements and values
// stay as nodes so each entry can be decoded and reported on its own.
type rawSpec struct {
	Type        string      `yaml:"type"`
	Subtype     string      `yaml:"subtype"`
	Description string      `yaml:"description"`
	Elements    []yaml.Node `yaml:"elements"`
	GivenValues yaml.Node   `yaml:"given_values"`
	GivenAngles yaml.Node   `yaml:"given_angles"`
	FindValues  []string    `yaml:"find_values"`
	FindAngles  []string    `yaml:"find_angles"`
	ImageRef    string      `yaml:"image_ref"`
}

// Parse decodes a figure block. The block is normalized first, so text
// straight out of [ExtractBlocks] is accepted.
//
// Parse never panics. Decoding problems are returned as SchemaErrors next
// to whatever part of the Spec could be decoded; callers must treat the
// Spec as unusable when errors are returned.
func Parse(text string) (*Spec, SchemaErrors) {
	var errs SchemaErrors
	spec := &Spec{}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(NormalizeBlock(text)), &doc); err != nil {
		errs.add("yaml", "", "", "%s", yamlMessage(err))
		return spec, errs
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		errs.add("yaml", "", "", "figure block must be a mapping")
		return spec, errs
	}

	var raw rawSpec
	if err := doc.Content[0].Decode(&raw); err != nil {
		var te *yaml.TypeError
		if !errors.As(err, &te) {
			errs.add("yaml", "", "", "%s", yamlMessage(err))
			return spec, errs
		}
		for _, msg := range te.Errors {
			errs.add("yaml", "", "", "%s", msg)
		}
	}

	spec.Type = resolveType(raw.Type, raw.Subtype)
	spec.Description = strings.TrimSpace(raw.Description)
	spec.ImageRef = raw.ImageRef

	for i := range raw.Elements {
		if e, ok := decodeElement(i, &raw.Elements[i], &errs); ok {
			spec.Elements = append(spec.Elements, e)
		}
	}

	decodeValues("given_values", &raw.GivenValues, &spec.GivenValues, &errs)
	decodeValues("given_angles", &raw.GivenAngles, &spec.GivenValues, &errs)

	spec.FindValues = append(spec.FindValues, raw.FindValues...)
	spec.FindValues = append(spec.FindValues, raw.FindAngles...)

	return spec, errs
}

// ParseAndValidate parses a block and validates the result. Validation is
// skipped when decoding failed.
func ParseAndValidate(text string) (*Spec, SchemaErrors) {
	spec, errs := Parse(text)
	if len(errs) > 0 {
		return spec, errs
	}
	return spec, Validate(spec)
}

// resolveType joins type and subtype the way authors abbreviate them:
// "circle" with subtype "tangent" is circle_tangent. A missing type means
// generic.
func resolveType(typ, subtype string) Type {
	typ = strings.TrimSpace(strings.ToLower(typ))
	subtype = strings.TrimSpace(strings.ToLower(subtype))
	switch {
	case subtype != "" && strings.Contains(subtype, "_"):
		return Type(subtype)
	case subtype != "":
		return Type(typ + "_" + subtype)
	case typ == "":
		return TypeGeneric
	}
	return Type(typ)
}

func decodeElement(i int, n *yaml.Node, errs *SchemaErrors) (Element, bool) {
	where := fmt.Sprintf("elements[%d]", i)
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		errs.add(where, "", "", "element must be a mapping with exactly one kind key")
		return Element{}, false
	}

	key, val := n.Content[0], n.Content[1]
	e := Element{Kind: Kind(key.Value), Index: i}

	var target any
	switch e.Kind {
	case KindPoint:
		e.Point = &Point{}
		target = e.Point
	case KindLine, KindSegment:
		e.Line = &Line{}
		target = e.Line
	case KindCircle:
		e.Circle = &Circle{}
		target = e.Circle
	case KindTangent:
		e.Tangent = &Tangent{}
		target = e.Tangent
	case KindAngle:
		e.Angle = &Angle{}
		target = e.Angle
	case KindTriangle, KindQuadrilateral, KindPolygon:
		e.Polygon = &Polygon{}
		target = e.Polygon
	case KindArc:
		e.Arc = &Arc{}
		target = e.Arc
	case KindLocus:
		e.Locus = &Locus{}
		target = e.Locus
	case KindSolid:
		e.Solid = &Solid{}
		target = e.Solid
	default:
		errs.add(where, key.Value, "", "unknown element kind %q", key.Value)
		return Element{}, false
	}

	if val.Kind != yaml.MappingNode {
		errs.add(e.Name(), "", "", "%s must be a mapping", e.Kind)
		return Element{}, false
	}
	if err := val.Decode(target); err != nil {
		var te *yaml.TypeError
		if errors.As(err, &te) {
			for _, msg := range te.Errors {
				errs.add(e.Name(), "", "", "%s", msg)
			}
		} else {
			errs.add(e.Name(), "", "", "%s", yamlMessage(err))
		}
		return Element{}, false
	}
	return e, true
}

func decodeValues(where string, n *yaml.Node, into *Values, errs *SchemaErrors) {
	switch n.Kind {
	case 0:
		return
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				errs.add(where, k.Value, k.Value, "value must be a scalar")
				continue
			}
			into.Set(k.Value, v.Value)
		}
		return
	}
	errs.add(where, "", "", "must be a mapping of label to value")
}

// yamlMessage drops the package prefix from yaml errors.
func yamlMessage(err error) string {
	return strings.TrimPrefix(err.Error(), "yaml: ")
}
