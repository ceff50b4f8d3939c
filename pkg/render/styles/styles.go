// Package styles holds the role-keyed style table shared by every sink.
//
// Renderers never pick colors themselves: each drawn element carries a
// [figure.Role] and its appearance comes from [Table.For]. A Table is built
// once with [NewTable] and passed by value.
package styles

import (
	"encoding/json"
	"slices"

	"github.com/go-playground/validator/v10"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
)

// Palette colors.
const (
	ColorLine         = "#2c3e50"
	ColorCircle       = "#3498db"
	ColorAngle        = "#e74c3c"
	ColorConstruction = "#95a5a6"
	ColorFill         = "#ecf0f1"
	ColorBackground   = "#ffffff"
)

// Style is the appearance of one role.
type Style struct {
	Color string    `json:"color" toml:"color"`
	Width float64   `json:"width" toml:"width"`
	Dash  []float64 `json:"dash,omitempty" toml:"dash"`
	Fill  string    `json:"fill,omitempty" toml:"fill"`
}

// Dashed reports whether the style draws a dash pattern.
func (s Style) Dashed() bool { return len(s.Dash) > 0 }

// Table maps every role to a style. The zero Table is not usable; build
// one with [NewTable].
type Table struct {
	roles      [figure.NumRoles]Style
	circle     string
	angle      string
	background string
	text       string
}

// For returns the style of role. Unknown roles get the given style.
func (t Table) For(role figure.Role) Style {
	if role < 0 || int(role) >= figure.NumRoles {
		role = figure.RoleGiven
	}
	s := t.roles[role]
	s.Dash = slices.Clone(s.Dash)
	return s
}

// Circle returns the stroke color for circle outlines drawn in role. Given
// circles use the circle accent; other roles keep their own color.
func (t Table) Circle(role figure.Role) Style {
	s := t.For(role)
	if role == figure.RoleGiven {
		s.Color = t.circle
	}
	return s
}

// Angle returns the style of angle marks in role. Given and find marks use
// the angle accent.
func (t Table) Angle(role figure.Role) Style {
	s := t.For(role)
	if role == figure.RoleGiven || role == figure.RoleFind {
		s.Color = t.angle
	}
	s.Dash = nil
	return s
}

// Background returns the canvas color.
func (t Table) Background() string { return t.background }

// Text returns the label color.
func (t Table) Text() string { return t.text }

// MarshalJSON encodes every role's style plus the accents. Two tables that
// render identically encode identically.
func (t Table) MarshalJSON() ([]byte, error) {
	roles := make(map[string]Style, figure.NumRoles)
	for i := range figure.NumRoles {
		roles[figure.Role(i).String()] = t.roles[i]
	}
	return json.Marshal(struct {
		Roles      map[string]Style `json:"roles"`
		Circle     string           `json:"circle"`
		Angle      string           `json:"angle"`
		Background string           `json:"background"`
		Text       string           `json:"text"`
	}{roles, t.circle, t.angle, t.background, t.text})
}

// Override replaces parts of one role's style. Zero fields keep the
// default.
type Override struct {
	Role  string    `json:"role" toml:"role" validate:"required,oneof=given find construction hidden"`
	Color string    `json:"color,omitempty" toml:"color" validate:"omitempty,hexcolor"`
	Width float64   `json:"width,omitempty" toml:"width" validate:"gte=0,lte=20"`
	Dash  []float64 `json:"dash,omitempty" toml:"dash" validate:"dive,gt=0"`
	Fill  string    `json:"fill,omitempty" toml:"fill" validate:"omitempty,hexcolor|eq=none"`
}

var overrideValidator = validator.New()

// Default returns the built-in table.
func Default() Table {
	var t Table
	t.roles[figure.RoleGiven] = Style{Color: ColorLine, Width: 2, Fill: ColorFill}
	t.roles[figure.RoleFind] = Style{Color: ColorAngle, Width: 2, Fill: ColorFill}
	t.roles[figure.RoleConstruction] = Style{Color: ColorConstruction, Width: 1, Dash: []float64{4, 3}}
	t.roles[figure.RoleHidden] = Style{Color: ColorLine, Width: 1.5, Dash: []float64{6, 4}}
	t.circle = ColorCircle
	t.angle = ColorAngle
	t.background = ColorBackground
	t.text = ColorLine
	return t
}

// NewTable returns the default table with overrides applied in order.
func NewTable(overrides ...Override) (Table, error) {
	t := Default()
	for i, o := range overrides {
		if err := overrideValidator.Struct(o); err != nil {
			return Table{}, geoerrors.Wrap(geoerrors.ErrCodeInvalidStyle, err, "style override %d", i)
		}
		role, _ := figure.ParseRole(o.Role)
		s := t.roles[role]
		if o.Color != "" {
			s.Color = o.Color
		}
		if o.Width > 0 {
			s.Width = o.Width
		}
		if o.Dash != nil {
			s.Dash = slices.Clone(o.Dash)
		}
		if o.Fill != "" {
			s.Fill = o.Fill
		}
		t.roles[role] = s
	}
	return t, nil
}
