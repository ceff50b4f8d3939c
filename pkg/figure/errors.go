package figure

import (
	"fmt"
	"strings"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
)

// SchemaError reports one problem with a figure block.
type SchemaError struct {
	Element string // element name such as "line[2]", or a top-level key
	Field   string // field within the element, e.g. "points[1]"
	ID      string // offending point id or label, if any
	Message string
}

func (e SchemaError) Error() string {
	var b strings.Builder
	b.WriteString(e.Element)
	if e.Field != "" {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(e.Field)
	}
	if b.Len() > 0 {
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// SchemaErrors collects every problem found in one block.
type SchemaErrors []SchemaError

func (es SchemaErrors) Error() string {
	switch len(es) {
	case 0:
		return "no schema errors"
	case 1:
		return es[0].Error()
	}
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d schema errors: %s", len(es), strings.Join(msgs, "; "))
}

// Err returns es as an error coded SCHEMA, or nil when es is empty.
func (es SchemaErrors) Err() error {
	if len(es) == 0 {
		return nil
	}
	return geoerrors.Wrap(geoerrors.ErrCodeSchema, es, "invalid figure")
}

func (es *SchemaErrors) add(element, field, id, format string, args ...any) {
	*es = append(*es, SchemaError{
		Element: element,
		Field:   field,
		ID:      id,
		Message: fmt.Sprintf(format, args...),
	})
}
