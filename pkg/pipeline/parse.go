package pipeline

import (
	"errors"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
)

// parseBlock decodes the block. The partially decoded spec is returned
// even on failure so its description can fill the placeholder.
func parseBlock(block string) (*figure.Spec, error) {
	spec, errs := figure.Parse(block)
	return spec, errs.Err()
}

func validateSpec(spec *figure.Spec) error {
	return figure.Validate(spec).Err()
}

// diagnosticsFor expands err into one diagnostic per schema problem, or a
// single diagnostic for anything else.
func diagnosticsFor(stage string, err error) []geoerrors.Diagnostic {
	var errs figure.SchemaErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return []geoerrors.Diagnostic{geoerrors.NewDiagnostic(stage, err)}
	}
	diags := make([]geoerrors.Diagnostic, len(errs))
	for i, e := range errs {
		element := e.Element
		if e.Field != "" {
			element += "." + e.Field
		}
		diags[i] = geoerrors.Diagnostic{
			Code:    geoerrors.ErrCodeSchema,
			Stage:   stage,
			Element: element,
			Message: e.Message,
		}
	}
	return diags
}
